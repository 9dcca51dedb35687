package guestmem

import (
	"reflect"

	"github.com/wippyai/guestmem/borrow"
	"github.com/wippyai/guestmem/errors"
)

// Memory is a live handle to guest linear memory. wazero's api.Memory
// satisfies it.
type Memory interface {
	// Size returns the current memory size in bytes.
	Size() uint32
	// Read returns a view of byteCount bytes at offset, not a copy.
	Read(offset, byteCount uint32) ([]byte, bool)
}

// Borrow returns a Checker over the whole of mem as it is right now. The
// checker sees the buffer in place; growing mem invalidates it.
func Borrow(mem Memory) (*borrow.Checker, error) {
	if isNil(mem) {
		return nil, errors.NotInitialized(errors.PhaseGuest, "memory")
	}
	buf, ok := mem.Read(0, mem.Size())
	if !ok {
		return nil, errors.OutOfBounds(errors.PhaseGuest, 0, uint64(mem.Size()), int(mem.Size()))
	}
	return borrow.New(buf), nil
}

// isNil also catches a nil pointer stored in the interface, which is what
// wazero's Module.Memory returns for a module without memory.
func isNil(mem Memory) bool {
	if mem == nil {
		return true
	}
	v := reflect.ValueOf(mem)
	return v.Kind() == reflect.Pointer && v.IsNil()
}
