package borrow

import (
	"encoding/binary"
	"math"
	"unicode/utf8"
	"unsafe"
)

// Checker is the single sanctioned access path into one guest buffer for
// one scope. It holds only the buffer's address and length, never mutates
// them and takes no locks, so it may be shared between or handed to other
// goroutines. Safety comes from the scope contract described in the package
// documentation, not from synchronization.
//
// A Checker has no closed state: it authorizes access until its owner drops
// it at the end of the scope.
type Checker struct {
	buf []byte
}

// New returns a Checker over buf. No validation happens here.
func New(buf []byte) *Checker {
	return &Checker{buf: buf}
}

// Len returns the buffer length in bytes.
func (c *Checker) Len() int {
	return len(c.buf)
}

// Slice returns count values of T starting at byte offset, read in place.
//
// The returned slice aliases guest memory and outlives this call: it is
// valid for the whole scope of c. This is asserted, not proven. It holds
// only while no other path (Raw, a second Checker, the engine's own memory
// API) writes the same bytes and the guest memory is not grown or remapped
// while the view is in use. The Bytewise bound guarantees that any bytes
// found there are a valid T at alignment 1.
func Slice[T Bytewise](c *Checker, offset, count int32) ([]T, error) {
	r, err := c.region(offset, count, layoutOf[T]())
	if err != nil {
		return nil, ToTrap(err)
	}
	if r.Len == 0 {
		// count zero-sized values or an empty range: nothing to alias.
		return make([]T, uint32(count)), nil
	}
	p := unsafe.Add(unsafe.Pointer(unsafe.SliceData(c.buf)), r.Start)
	return unsafe.Slice((*T)(p), uint32(count)), nil
}

// Bytes returns count bytes at offset. The slice aliases guest memory under
// the same contract as Slice; its capacity is clipped to the region so an
// append can never spill into neighbouring guest bytes.
func (c *Checker) Bytes(offset, count int32) ([]byte, error) {
	r, err := c.region(offset, count, 1)
	if err != nil {
		return nil, ToTrap(err)
	}
	end := r.Start + r.Len
	return c.buf[r.Start:end:end], nil
}

// String returns count bytes at offset as UTF-8 text. Bounds are checked
// before encoding. The string shares storage with guest memory; clone it
// with strings.Clone before keeping it past the checker's scope.
func (c *Checker) String(offset, count int32) (string, error) {
	b, err := c.Bytes(offset, count)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(b) {
		return "", ToTrap(&GuestError{
			Kind:   InvalidEncoding,
			Region: Region{Start: uint32(offset), Len: uint32(len(b))},
		})
	}
	return unsafe.String(unsafe.SliceData(b), len(b)), nil
}

// Raw returns the entire buffer with no bounds or aliasing checks.
//
// This is the one access path whose safety the Checker does not enforce. It
// exists for privileged host code, such as writing results back into guest
// memory, that cannot go through the typed path. Callers must make sure
// nothing they write through Raw overlaps a view still in use.
func (c *Checker) Raw() []byte {
	return c.buf
}

func (c *Checker) region(offset, count int32, size uint32) (Region, error) {
	r, err := regionOfSize(offset, count, size)
	if err != nil {
		return Region{}, err
	}
	if err := r.Within(len(c.buf)); err != nil {
		return Region{}, err
	}
	return r, nil
}

type decoder[T Scalar] interface {
	Bytewise
	Get() T
}

// Load reads one little-endian T at offset and returns it in native byte
// order, whatever the host CPU's endianness.
func Load[T Scalar](c *Checker, offset int32) (T, error) {
	var v T
	var err error
	switch p := any(&v).(type) {
	case *uint8:
		*p, err = load[Uint8, uint8](c, offset)
	case *int8:
		*p, err = load[Int8, int8](c, offset)
	case *uint16:
		*p, err = load[Uint16LE, uint16](c, offset)
	case *int16:
		*p, err = load[Int16LE, int16](c, offset)
	case *uint32:
		*p, err = load[Uint32LE, uint32](c, offset)
	case *int32:
		*p, err = load[Int32LE, int32](c, offset)
	case *uint64:
		*p, err = load[Uint64LE, uint64](c, offset)
	case *int64:
		*p, err = load[Int64LE, int64](c, offset)
	case *float32:
		*p, err = load[Float32LE, float32](c, offset)
	case *float64:
		*p, err = load[Float64LE, float64](c, offset)
	}
	return v, err
}

func load[E decoder[T], T Scalar](c *Checker, offset int32) (T, error) {
	s, err := Slice[E](c, offset, 1)
	if err != nil {
		var zero T
		return zero, err
	}
	return s[0].Get(), nil
}

// Store writes v at offset in little-endian byte order, through the same
// region checks as Load.
func Store[T Scalar](c *Checker, offset int32, v T) error {
	b, err := c.Bytes(offset, int32(unsafe.Sizeof(v)))
	if err != nil {
		return err
	}
	switch x := any(v).(type) {
	case uint8:
		b[0] = x
	case int8:
		b[0] = uint8(x)
	case uint16:
		binary.LittleEndian.PutUint16(b, x)
	case int16:
		binary.LittleEndian.PutUint16(b, uint16(x))
	case uint32:
		binary.LittleEndian.PutUint32(b, x)
	case int32:
		binary.LittleEndian.PutUint32(b, uint32(x))
	case uint64:
		binary.LittleEndian.PutUint64(b, x)
	case int64:
		binary.LittleEndian.PutUint64(b, uint64(x))
	case float32:
		binary.LittleEndian.PutUint32(b, math.Float32bits(x))
	case float64:
		binary.LittleEndian.PutUint64(b, math.Float64bits(x))
	}
	return nil
}
