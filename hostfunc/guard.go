package hostfunc

import (
	"context"

	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	"github.com/wippyai/guestmem"
	"github.com/wippyai/guestmem/borrow"
	"github.com/wippyai/guestmem/errors"
)

// Handler implements one guarded host function. Views obtained from call are
// valid until the handler returns. A non-nil error traps the guest call.
type Handler func(ctx context.Context, call *Call) error

// Call is the state of one host function invocation: a Checker over the
// caller's memory for the duration of the call and wazero's value stack,
// which carries the parameters in and the results out.
type Call struct {
	*borrow.Checker

	Function string
	Stack    []uint64

	maxStringLen uint32
}

// I32 returns parameter i as a guest i32.
func (c *Call) I32(i int) int32 {
	return api.DecodeI32(c.Stack[i])
}

// I64 returns parameter i as a guest i64.
func (c *Call) I64(i int) int64 {
	return int64(c.Stack[i])
}

// SetI32 stores result i as a guest i32.
func (c *Call) SetI32(i int, v int32) {
	c.Stack[i] = api.EncodeI32(v)
}

// SetI64 stores result i as a guest i64.
func (c *Call) SetI64(i int, v int64) {
	c.Stack[i] = api.EncodeI64(v)
}

// String reads a guest string like Checker.String, refusing ranges longer
// than the configured limit. Bounds are still checked first.
func (c *Call) String(offset, count int32) (string, error) {
	b, err := c.Bytes(offset, count)
	if err != nil {
		return "", err
	}
	if c.maxStringLen > 0 && uint32(len(b)) > c.maxStringLen {
		return "", errors.New(errors.PhaseGuest, errors.KindInvalidInput).
			Function(c.Function).
			Value(len(b)).
			Detail("string of %d bytes exceeds limit of %d", len(b), c.maxStringLen).
			Build()
	}
	return c.Checker.String(offset, count)
}

// Guard wraps h as a wazero host function that borrows the caller's memory
// for each call and traps on error.
func Guard(name string, h Handler, opts ...Option) api.GoModuleFunc {
	return guard(name, h, newConfig(opts))
}

func guard(name string, h Handler, cfg config) api.GoModuleFunc {
	return func(ctx context.Context, mod api.Module, stack []uint64) {
		c, err := guestmem.Borrow(mod.Memory())
		if err == nil {
			err = h(ctx, &Call{
				Checker:      c,
				Function:     name,
				Stack:        stack,
				maxStringLen: cfg.maxStringLen,
			})
		}
		if err == nil {
			return
		}

		trap := borrow.ToTrap(err)
		if te, ok := trap.(*errors.Error); ok && te.Function == "" {
			// the handler may return a shared error value
			named := *te
			named.Function = name
			trap = &named
		}
		cfg.logger.Debug("guest call trapped",
			zap.String("module", mod.Name()),
			zap.String("function", name),
			zap.Error(trap),
		)
		panic(trap)
	}
}
