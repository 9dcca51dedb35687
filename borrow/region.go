package borrow

import (
	"fmt"
	"math"
	"reflect"
	"unsafe"

	"github.com/wippyai/guestmem/internal/abi"
)

// MaxAddress is the highest address a guest range may end at. Offsets cross
// the host/guest boundary as i32, so no range can reach past MaxInt32.
const MaxAddress = math.MaxInt32

// Region is the half-open byte range [Start, Start+Len) of a guest buffer.
// A Region says nothing about containment; Within checks that against the
// buffer length at the time of use.
type Region struct {
	Start uint32
	Len   uint32
}

// End returns Start+Len without wrapping.
func (r Region) End() uint64 {
	return uint64(r.Start) + uint64(r.Len)
}

func (r Region) String() string {
	return fmt.Sprintf("[%d, %d)", r.Start, r.End())
}

// RegionOf computes the byte range covered by count values of T at offset.
// The byte length is computed with checked multiplication; a length that does
// not fit the guest address space is PointerOverflow.
func RegionOf[T Bytewise](offset, count int32) (Region, error) {
	return regionOfSize(offset, count, layoutOf[T]())
}

func regionOfSize(offset, count int32, size uint32) (Region, error) {
	n, ok := abi.Length(uint32(count), size, MaxAddress)
	if !ok {
		return Region{}, &GuestError{Kind: PointerOverflow}
	}
	return Region{Start: uint32(offset), Len: n}, nil
}

// Within reports whether r lies inside a buffer of bufLen bytes.
func (r Region) Within(bufLen int) error {
	end, ok := abi.End(r.Start, r.Len, MaxAddress)
	if !ok {
		return &GuestError{Kind: PointerOverflow}
	}
	if uint64(end) > uint64(bufLen) {
		return &GuestError{Kind: PointerOutOfBounds, Region: r}
	}
	return nil
}

// layoutOf returns the size of T and enforces alignment 1 with no padding.
// Registry scalars always pass. The checks stop an interface type, or a tuple
// whose trailing zero-size field the compiler pads, from being laid over
// guest bytes.
func layoutOf[T Bytewise]() uint32 {
	var zero T
	typ := reflect.TypeFor[T]()
	if align := unsafe.Alignof(zero); align != 1 {
		panic(fmt.Sprintf("borrow: %s has alignment %d, guest views require 1", typ, align))
	}
	if !packed(typ) {
		panic(fmt.Sprintf("borrow: %s is %d bytes with padding, guest views require packed fields", typ, unsafe.Sizeof(zero)))
	}
	return uint32(unsafe.Sizeof(zero))
}

// packed reports whether t and every struct nested in it are exactly the sum
// of their fields.
func packed(t reflect.Type) bool {
	if t.Kind() != reflect.Struct {
		return true
	}
	var n uintptr
	for i := range t.NumField() {
		ft := t.Field(i).Type
		if !packed(ft) {
			return false
		}
		n += ft.Size()
	}
	return n == t.Size()
}
