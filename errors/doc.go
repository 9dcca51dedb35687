// Package errors provides structured error types for the guestmem module.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type carries the offending value, the host function it surfaced in,
// the Go element type being viewed, and a cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseGuest, errors.KindOutOfBounds).
//		Function("sum_u32").
//		GoType("borrow.Uint32LE").
//		Value(region).
//		Detail("range [%d, %d) exceeds memory of %d bytes", start, end, size).
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.InvalidInput(errors.PhaseHost, "function name cannot be empty")
//	err := errors.Trap(cause)
//
// Errors produced at the host/guest boundary use PhaseGuest and are raised
// as traps: they abort the current guest call and never the host process.
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
