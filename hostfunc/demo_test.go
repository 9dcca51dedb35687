package hostfunc

import (
	"bytes"
	"context"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"

	"github.com/wippyai/guestmem/borrow"
	"github.com/wippyai/guestmem/errors"
	"github.com/wippyai/guestmem/internal/wasmtest"
)

const (
	i32b = wasmtest.I32
	i64b = wasmtest.I64
)

type demoEnv struct {
	ctx context.Context
	rt  wazero.Runtime
	out *bytes.Buffer
}

func newDemoEnv(t *testing.T, opts ...Option) *demoEnv {
	t.Helper()
	ctx := context.Background()
	rt := wazero.NewRuntime(ctx)
	t.Cleanup(func() { rt.Close(ctx) })

	out := &bytes.Buffer{}
	_, err := Demo(append([]Option{WithOutput(out)}, opts...)...).Instantiate(ctx, rt)
	require.NoError(t, err)
	return &demoEnv{ctx: ctx, rt: rt, out: out}
}

// guest instantiates a module whose "run" forwards to the demo function fn.
func (e *demoEnv) guest(t *testing.T, fn string, params, results []byte) (api.Memory, api.Function) {
	t.Helper()
	mod := instantiateGuest(t, e.ctx, e.rt, "guest-"+fn,
		wasmtest.Forwarder(DemoModuleName, fn, params, results))
	return mod.Memory(), mod.ExportedFunction("run")
}

func TestDemo_Functions(t *testing.T) {
	assert.Equal(t,
		[]string{"print", "sum_u32", "load_u64", "store_u64", "reverse", "copy"},
		Demo().Functions())
}

func TestDemo_Print(t *testing.T) {
	env := newDemoEnv(t)
	mem, run := env.guest(t, "print", []byte{i32b, i32b}, nil)
	require.True(t, mem.Write(64, []byte("héllo")))

	_, err := run.Call(env.ctx, 64, 6)
	require.NoError(t, err)
	assert.Equal(t, "héllo\n", env.out.String())

	// cut through the middle of é
	_, err = run.Call(env.ctx, 64, 2)
	assert.ErrorIs(t, err, borrow.ErrInvalidEncoding)
	assert.Equal(t, "héllo\n", env.out.String())
}

func TestDemo_PrintLimit(t *testing.T) {
	env := newDemoEnv(t, WithMaxStringLen(4))
	mem, run := env.guest(t, "print", []byte{i32b, i32b}, nil)
	require.True(t, mem.Write(0, []byte("hello")))

	_, err := run.Call(env.ctx, 0, 5)
	assert.ErrorIs(t, err, &errors.Error{Phase: errors.PhaseGuest, Kind: errors.KindInvalidInput})
	assert.Empty(t, env.out.String())

	_, err = run.Call(env.ctx, 0, 4)
	require.NoError(t, err)
	assert.Equal(t, "hell\n", env.out.String())
}

func TestDemo_SumU32(t *testing.T) {
	env := newDemoEnv(t)
	mem, run := env.guest(t, "sum_u32", []byte{i32b, i32b}, []byte{i64b})

	// unaligned on purpose
	for i, v := range []uint32{1, 2, 0xffffffff} {
		require.True(t, mem.WriteUint32Le(uint32(3+4*i), v))
	}

	res, err := run.Call(env.ctx, 3, 3)
	require.NoError(t, err)
	assert.Equal(t, uint64(0x100000002), res[0])

	res, err = run.Call(env.ctx, 3, 0)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), res[0])

	// count*4 overflows before any bounds check
	_, err = run.Call(env.ctx, 0, api.EncodeI32(0x40000000))
	assert.ErrorIs(t, err, borrow.ErrPointerOverflow)
}

func TestDemo_LoadStoreU64(t *testing.T) {
	env := newDemoEnv(t)
	mem, load := env.guest(t, "load_u64", []byte{i32b}, []byte{i64b})
	require.True(t, mem.WriteUint64Le(9, 0x0102030405060708))

	res, err := load.Call(env.ctx, 9)
	require.NoError(t, err)
	assert.Equal(t, uint64(0x0102030405060708), res[0])

	_, err = load.Call(env.ctx, uint64(mem.Size()-7))
	assert.ErrorIs(t, err, borrow.ErrPointerOutOfBounds)

	smem, store := env.guest(t, "store_u64", []byte{i32b, i64b}, nil)
	_, err = store.Call(env.ctx, 17, 0xdeadbeefcafe)
	require.NoError(t, err)
	buf, ok := smem.Read(17, 8)
	require.True(t, ok)
	assert.Equal(t, uint64(0xdeadbeefcafe), binary.LittleEndian.Uint64(buf))

	_, err = store.Call(env.ctx, uint64(smem.Size()-4), 1)
	assert.ErrorIs(t, err, borrow.ErrPointerOutOfBounds)
}

func TestDemo_Reverse(t *testing.T) {
	env := newDemoEnv(t)
	mem, run := env.guest(t, "reverse", []byte{i32b, i32b}, nil)
	require.True(t, mem.Write(10, []byte("abcde")))

	_, err := run.Call(env.ctx, 10, 5)
	require.NoError(t, err)
	buf, _ := mem.Read(10, 5)
	assert.Equal(t, "edcba", string(buf))

	_, err = run.Call(env.ctx, 10, 0)
	require.NoError(t, err)
}

func TestDemo_Copy(t *testing.T) {
	env := newDemoEnv(t)
	mem, run := env.guest(t, "copy", []byte{i32b, i32b, i32b}, nil)
	require.True(t, mem.Write(0, []byte("0123456789")))

	// overlapping forward copy
	_, err := run.Call(env.ctx, 2, 0, 6)
	require.NoError(t, err)
	buf, _ := mem.Read(0, 10)
	assert.Equal(t, "0101234589", string(buf))

	// a bad source leaves the destination untouched
	size := uint64(mem.Size())
	_, err = run.Call(env.ctx, 0, size-2, 4)
	assert.ErrorIs(t, err, borrow.ErrPointerOutOfBounds)
	buf, _ = mem.Read(0, 4)
	assert.Equal(t, "0101", string(buf))

	// a bad destination leaves memory untouched too
	_, err = run.Call(env.ctx, size-2, 0, 4)
	assert.ErrorIs(t, err, borrow.ErrPointerOutOfBounds)
	buf, _ = mem.Read(uint32(size)-2, 2)
	assert.Equal(t, []byte{0, 0}, buf)
}
