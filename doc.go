// Package guestmem guards host access to WebAssembly guest memory.
//
// Host functions receive raw i32 offsets and lengths from untrusted guest
// code. This module turns them into bounds-checked, typed views of the
// guest's linear memory without copying and without trusting any
// guest-supplied value.
//
// # Architecture Overview
//
//	guestmem/            Root package with the Memory handle and Borrow
//	├── borrow/          Region validation, Checker, element registry, traps
//	├── hostfunc/        wazero host modules whose functions run guarded
//	├── errors/          Structured error types
//	└── cmd/guestmem/    CLI runner for guest modules and byte files
//
// # Quick Start
//
// Inside a wazero host function:
//
//	c, err := guestmem.Borrow(mod.Memory())
//	if err != nil {
//	    panic(borrow.ToTrap(err))
//	}
//	name, err := c.String(api.DecodeI32(stack[0]), api.DecodeI32(stack[1]))
//	if err != nil {
//	    panic(borrow.ToTrap(err)) // aborts this guest call only
//	}
//
// Or let hostfunc do the borrowing and trapping:
//
//	mod := hostfunc.NewModule("env").
//	    Export("print", func(ctx context.Context, call *hostfunc.Call) error {
//	        s, err := call.String(call.I32(0), call.I32(1))
//	        if err != nil {
//	            return err
//	        }
//	        fmt.Println(s)
//	        return nil
//	    }, hostfunc.Params(api.ValueTypeI32, api.ValueTypeI32), nil)
//	_, err := mod.Instantiate(ctx, rt)
//
// # Thread Safety
//
// A Checker holds only an immutable buffer reference and may be shared
// between goroutines. The host runtime must ensure that guest memory is not
// grown while views from a Checker are alive; wazero cannot grow memory
// during a host call.
//
// # Memory Model
//
// Views alias guest memory. They are valid for the scope of the Checker that
// produced them, usually a single host call. Copy anything that has to live
// longer.
package guestmem
