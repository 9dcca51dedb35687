// Package abi provides internal utilities for guest address arithmetic.
//
// Guest offsets and lengths arrive as raw 32-bit integers and must be assumed
// adversarial. Every address computation derived from them goes through the
// checked helpers here instead of wrapping arithmetic.
//
// # Contents
//
//   - helpers.go: checked uint32 multiply/add, limit-bounded lengths and ends
//
// This package is internal to the module.
package abi
