// Package borrow turns raw guest offsets into bounds-checked views of linear memory.
//
// Guest code passes plain i32 offsets and counts across the host/guest
// boundary. A Checker wraps exactly one guest buffer for one access scope
// (typically a single host function call) and converts those integers into
// validated Regions, then into typed views that read the buffer in place.
//
// # Access Path
//
//	offset, count (untrusted)
//	      │
//	      ▼
//	RegionOf[T]     checked count*size      → PointerOverflow
//	      │
//	      ▼
//	Region.Within   checked start+len, ≤ len → PointerOverflow / PointerOutOfBounds
//	      │
//	      ▼
//	Slice / Bytes / String / Load / Store
//
// # Element Types
//
// Only types in the sealed Bytewise registry can be viewed directly: Uint8,
// Int8, the little-endian wrappers (Uint16LE ... Float64LE), Unit and
// Tuple1 ... Tuple10 of registry types. Every one of them has alignment 1 and
// accepts any bit pattern, so a view never needs per-element validation and
// never depends on how the guest aligned its data. Native scalars are read
// with Load, which decodes the little-endian wrapper regardless of host byte
// order.
//
// # Scope
//
// Views returned by a Checker alias guest memory. They stay valid for as long
// as the Checker's scope lasts, provided nothing else touches the same bytes
// and the guest memory is not grown or remapped meanwhile. Nothing in this
// package enforces that; it is the contract between the host runtime and its
// host functions. Raw is the explicit escape hatch that skips all checks.
//
// # Errors
//
// Validation failures are GuestError values. Checker operations return them
// already converted by ToTrap into *errors.Error with PhaseGuest, the
// GuestError kept as the cause. errors.Is against ErrPointerOverflow,
// ErrPointerOutOfBounds and ErrInvalidEncoding and errors.As to *GuestError
// both work on the result. RegionOf and Region.Within return bare GuestErrors.
package borrow
