package borrow

import (
	"encoding/binary"
	"math"
	"unsafe"
)

// Bytewise is the closed registry of element types a Checker can lay over
// guest bytes. Members have alignment 1 and no invalid bit patterns. The
// marker method is unexported, so nothing outside this package can join:
// bool, pointers, enums and padded structs stay out.
type Bytewise interface {
	bytewise()
}

// Scalar is the set of native scalars Load and Store decode and encode.
type Scalar interface {
	uint8 | int8 | uint16 | int16 | uint32 | int32 | uint64 | int64 | float32 | float64
}

type (
	Uint8 uint8
	Int8  int8

	// Little-endian wrappers hold the guest's byte order as-is; Get decodes
	// to the host's native representation.
	Uint16LE  [2]byte
	Int16LE   [2]byte
	Uint32LE  [4]byte
	Int32LE   [4]byte
	Uint64LE  [8]byte
	Int64LE   [8]byte
	Float32LE [4]byte
	Float64LE [8]byte
)

// Guest offsets have no alignment relationship to the host word size.
const (
	_ = 1 - unsafe.Alignof(Uint8(0))
	_ = 1 - unsafe.Alignof(Int8(0))
	_ = 1 - unsafe.Alignof(Uint16LE{})
	_ = 1 - unsafe.Alignof(Int16LE{})
	_ = 1 - unsafe.Alignof(Uint32LE{})
	_ = 1 - unsafe.Alignof(Int32LE{})
	_ = 1 - unsafe.Alignof(Uint64LE{})
	_ = 1 - unsafe.Alignof(Int64LE{})
	_ = 1 - unsafe.Alignof(Float32LE{})
	_ = 1 - unsafe.Alignof(Float64LE{})
)

func (Uint8) bytewise() {}
func (Int8) bytewise() {}
func (Uint16LE) bytewise() {}
func (Int16LE) bytewise() {}
func (Uint32LE) bytewise() {}
func (Int32LE) bytewise() {}
func (Uint64LE) bytewise() {}
func (Int64LE) bytewise() {}
func (Float32LE) bytewise() {}
func (Float64LE) bytewise() {}

func (v Uint8) Get() uint8 { return uint8(v) }
func (v Int8) Get() int8 { return int8(v) }
func (v Uint16LE) Get() uint16 { return binary.LittleEndian.Uint16(v[:]) }
func (v Int16LE) Get() int16 { return int16(binary.LittleEndian.Uint16(v[:])) }
func (v Uint32LE) Get() uint32 { return binary.LittleEndian.Uint32(v[:]) }
func (v Int32LE) Get() int32 { return int32(binary.LittleEndian.Uint32(v[:])) }
func (v Uint64LE) Get() uint64 { return binary.LittleEndian.Uint64(v[:]) }
func (v Int64LE) Get() int64 { return int64(binary.LittleEndian.Uint64(v[:])) }

func (v Float32LE) Get() float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(v[:]))
}

func (v Float64LE) Get() float64 {
	return math.Float64frombits(binary.LittleEndian.Uint64(v[:]))
}

// Tuples of registry types. Every tuple is alignment 1. The compiler pads a
// zero-size last field to one byte, so a tuple ending in Unit is not packed
// and guest views reject it; place Unit anywhere but last.

type Unit struct{}

type Tuple1[A Bytewise] struct {
	V0 A
}

type Tuple2[A, B Bytewise] struct {
	V0 A
	V1 B
}

type Tuple3[A, B, C Bytewise] struct {
	V0 A
	V1 B
	V2 C
}

type Tuple4[A, B, C, D Bytewise] struct {
	V0 A
	V1 B
	V2 C
	V3 D
}

type Tuple5[A, B, C, D, E Bytewise] struct {
	V0 A
	V1 B
	V2 C
	V3 D
	V4 E
}

type Tuple6[A, B, C, D, E, F Bytewise] struct {
	V0 A
	V1 B
	V2 C
	V3 D
	V4 E
	V5 F
}

type Tuple7[A, B, C, D, E, F, G Bytewise] struct {
	V0 A
	V1 B
	V2 C
	V3 D
	V4 E
	V5 F
	V6 G
}

type Tuple8[A, B, C, D, E, F, G, H Bytewise] struct {
	V0 A
	V1 B
	V2 C
	V3 D
	V4 E
	V5 F
	V6 G
	V7 H
}

type Tuple9[A, B, C, D, E, F, G, H, I Bytewise] struct {
	V0 A
	V1 B
	V2 C
	V3 D
	V4 E
	V5 F
	V6 G
	V7 H
	V8 I
}

type Tuple10[A, B, C, D, E, F, G, H, I, J Bytewise] struct {
	V0 A
	V1 B
	V2 C
	V3 D
	V4 E
	V5 F
	V6 G
	V7 H
	V8 I
	V9 J
}

func (Unit) bytewise() {}
func (Tuple1[A]) bytewise() {}
func (Tuple2[A, B]) bytewise() {}
func (Tuple3[A, B, C]) bytewise() {}
func (Tuple4[A, B, C, D]) bytewise() {}
func (Tuple5[A, B, C, D, E]) bytewise() {}
func (Tuple6[A, B, C, D, E, F]) bytewise() {}
func (Tuple7[A, B, C, D, E, F, G]) bytewise() {}
func (Tuple8[A, B, C, D, E, F, G, H]) bytewise() {}
func (Tuple9[A, B, C, D, E, F, G, H, I]) bytewise() {}
func (Tuple10[A, B, C, D, E, F, G, H, I, J]) bytewise() {}
