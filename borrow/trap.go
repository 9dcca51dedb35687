package borrow

import (
	stderrors "errors"

	"github.com/wippyai/guestmem/errors"
)

// ToTrap converts err into the structured failure that aborts a guest call.
//
// A GuestError, bare or wrapped, becomes an *errors.Error in PhaseGuest whose
// cause is the original error, so errors.Is and errors.As still reach the
// GuestError. An *errors.Error passes through unchanged. Anything else is
// wrapped as a host-side trap. ToTrap(nil) is nil.
func ToTrap(err error) error {
	if err == nil {
		return nil
	}
	if e, ok := err.(*errors.Error); ok {
		return e
	}
	var ge *GuestError
	if stderrors.As(err, &ge) {
		return guestTrap(ge, err)
	}
	return errors.Trap(err)
}

func guestTrap(ge *GuestError, cause error) *errors.Error {
	b := errors.New(errors.PhaseGuest, ge.Kind.errorKind()).Cause(cause)
	switch ge.Kind {
	case PointerOverflow:
		b.Detail("range exceeds guest address space (max %#x)", MaxAddress)
	case PointerOutOfBounds:
		b.Value(ge.Region).Detail("range %s out of bounds", ge.Region)
	case InvalidEncoding:
		b.Value(ge.Region).Detail("range %s is not valid UTF-8", ge.Region)
	}
	return b.Build()
}

func (k GuestErrorKind) errorKind() errors.Kind {
	switch k {
	case PointerOverflow:
		return errors.KindOverflow
	case PointerOutOfBounds:
		return errors.KindOutOfBounds
	case InvalidEncoding:
		return errors.KindInvalidUTF8
	default:
		return errors.KindInvalidData
	}
}
