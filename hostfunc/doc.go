// Package hostfunc builds wazero host modules whose functions access guest
// memory only through a borrow.Checker.
//
// Every call to a guarded function borrows the calling module's memory for
// exactly that call, hands the handler a Call (the Checker plus the raw value
// stack), and turns any returned error into a trap:
//
//	guest call ──► Guard ──► guestmem.Borrow(mod.Memory())
//	                 │
//	                 ├──► Handler(ctx, call) ──► borrow.Slice / Load / String
//	                 │
//	                 └──► error? ──► borrow.ToTrap ──► zap Debug ──► panic
//
// wazero recovers the panic and returns it from the guest's Call, so a trap
// aborts only the current guest invocation; the host process and the module
// instance stay usable.
//
// # Building a Module
//
//	_, err := hostfunc.NewModule("env", hostfunc.WithLogger(log)).
//	    Export("print", printHandler, hostfunc.Params(api.ValueTypeI32, api.ValueTypeI32), nil).
//	    Instantiate(ctx, rt)
//
// Registration problems (empty or duplicate names, nil handlers) are
// collected and reported by Instantiate.
//
// # Demo Module
//
// Demo returns the "guestmem" module used by cmd/guestmem: print, sum_u32,
// load_u64, store_u64, reverse and copy.
package hostfunc
