package hostfunc

import (
	"context"
	"fmt"

	"github.com/tetratelabs/wazero/api"

	"github.com/wippyai/guestmem/borrow"
)

// DemoModuleName is the import module name of Demo.
const DemoModuleName = "guestmem"

var (
	i32 = api.ValueTypeI32
	i64 = api.ValueTypeI64
)

// Demo returns a host module exercising every access path of the checker:
//
//	print(ptr, len)              write a UTF-8 guest string to the output
//	sum_u32(ptr, count) -> i64   sum count little-endian u32 values
//	load_u64(ptr) -> i64         read one little-endian u64
//	store_u64(ptr, v i64)        write one little-endian u64
//	reverse(ptr, len)            reverse bytes in place
//	copy(dst, src, len)          copy bytes within guest memory
func Demo(opts ...Option) *Module {
	m := NewModule(DemoModuleName, opts...)
	out := m.cfg.output

	return m.
		Export("print", func(_ context.Context, call *Call) error {
			s, err := call.String(call.I32(0), call.I32(1))
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(out, s)
			return err
		}, Params(i32, i32), nil).
		Export("sum_u32", func(_ context.Context, call *Call) error {
			words, err := borrow.Slice[borrow.Uint32LE](call.Checker, call.I32(0), call.I32(1))
			if err != nil {
				return err
			}
			var sum uint64
			for _, w := range words {
				sum += uint64(w.Get())
			}
			call.SetI64(0, int64(sum))
			return nil
		}, Params(i32, i32), Params(i64)).
		Export("load_u64", func(_ context.Context, call *Call) error {
			v, err := borrow.Load[uint64](call.Checker, call.I32(0))
			if err != nil {
				return err
			}
			call.SetI64(0, int64(v))
			return nil
		}, Params(i32), Params(i64)).
		Export("store_u64", func(_ context.Context, call *Call) error {
			return borrow.Store(call.Checker, call.I32(0), uint64(call.I64(1)))
		}, Params(i32, i64), nil).
		Export("reverse", func(_ context.Context, call *Call) error {
			b, err := call.Bytes(call.I32(0), call.I32(1))
			if err != nil {
				return err
			}
			for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
				b[i], b[j] = b[j], b[i]
			}
			return nil
		}, Params(i32, i32), nil).
		Export("copy", func(_ context.Context, call *Call) error {
			n := call.I32(2)
			// Validate both ranges before writing anything; the ranges may
			// overlap, which copy handles.
			src, err := call.Bytes(call.I32(1), n)
			if err != nil {
				return err
			}
			dst, err := call.Bytes(call.I32(0), n)
			if err != nil {
				return err
			}
			copy(dst, src)
			return nil
		}, Params(i32, i32, i32), nil)
}
