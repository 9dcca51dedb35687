package borrow

import "fmt"

// GuestErrorKind identifies a guest memory access violation.
type GuestErrorKind uint8

const (
	// PointerOverflow: the range cannot exist in any guest buffer.
	PointerOverflow GuestErrorKind = iota + 1
	// PointerOutOfBounds: the range is well-formed but exceeds the buffer.
	PointerOutOfBounds
	// InvalidEncoding: the bytes are in bounds but are not valid UTF-8.
	InvalidEncoding
)

func (k GuestErrorKind) String() string {
	switch k {
	case PointerOverflow:
		return "pointer overflow"
	case PointerOutOfBounds:
		return "pointer out of bounds"
	case InvalidEncoding:
		return "invalid encoding"
	default:
		return fmt.Sprintf("guest error kind %d", uint8(k))
	}
}

// GuestError describes a rejected guest memory access. Region is set for
// PointerOutOfBounds and InvalidEncoding.
type GuestError struct {
	Kind   GuestErrorKind
	Region Region
}

// Sentinels for errors.Is; they match any GuestError of the same kind.
var (
	ErrPointerOverflow    = &GuestError{Kind: PointerOverflow}
	ErrPointerOutOfBounds = &GuestError{Kind: PointerOutOfBounds}
	ErrInvalidEncoding    = &GuestError{Kind: InvalidEncoding}
)

func (e *GuestError) Error() string {
	if e.Kind == PointerOverflow {
		return e.Kind.String()
	}
	return e.Kind.String() + " at " + e.Region.String()
}

// Is matches on kind only, so a sentinel matches every region.
func (e *GuestError) Is(target error) bool {
	t, ok := target.(*GuestError)
	return ok && t.Kind == e.Kind
}
