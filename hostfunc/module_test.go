package hostfunc

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"

	"github.com/wippyai/guestmem/borrow"
	"github.com/wippyai/guestmem/errors"
	"github.com/wippyai/guestmem/internal/wasmtest"
)

func noop(context.Context, *Call) error { return nil }

func instantiateGuest(t *testing.T, ctx context.Context, rt wazero.Runtime, name string, bin []byte) api.Module {
	t.Helper()
	mod, err := rt.InstantiateWithConfig(ctx, bin, wazero.NewModuleConfig().WithName(name))
	require.NoError(t, err)
	return mod
}

func TestModule_ExportErrors(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name  string
		build func() *Module
		want  errors.Kind
	}{
		{
			name:  "empty function name",
			build: func() *Module { return NewModule("env").Export("", noop, nil, nil) },
			want:  errors.KindInvalidInput,
		},
		{
			name:  "nil handler",
			build: func() *Module { return NewModule("env").Export("f", nil, nil, nil) },
			want:  errors.KindRegistration,
		},
		{
			name: "duplicate",
			build: func() *Module {
				return NewModule("env").Export("f", noop, nil, nil).Export("f", noop, nil, nil)
			},
			want: errors.KindRegistration,
		},
		{
			name:  "empty module name",
			build: func() *Module { return NewModule("").Export("f", noop, nil, nil) },
			want:  errors.KindInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rt := wazero.NewRuntime(ctx)
			defer rt.Close(ctx)

			_, err := tt.build().Instantiate(ctx, rt)
			require.Error(t, err)
			var te *errors.Error
			require.ErrorAs(t, err, &te)
			assert.Equal(t, errors.PhaseHost, te.Phase)
			assert.Equal(t, tt.want, te.Kind)
		})
	}
}

func TestModule_FirstErrorSticks(t *testing.T) {
	m := NewModule("env").
		Export("", noop, nil, nil).
		Export("ok", noop, nil, nil)

	assert.Empty(t, m.Functions())

	_, err := m.Instantiate(context.Background(), wazero.NewRuntime(context.Background()))
	assert.ErrorContains(t, err, "function name cannot be empty")
}

func TestModule_Functions(t *testing.T) {
	m := NewModule("env").
		Export("b", noop, nil, nil).
		Export("a", noop, nil, nil)

	assert.Equal(t, "env", m.Name())
	assert.Equal(t, []string{"b", "a"}, m.Functions())
}

func TestModule_InstantiateTwice(t *testing.T) {
	ctx := context.Background()
	rt := wazero.NewRuntime(ctx)
	defer rt.Close(ctx)

	m := NewModule("env").Export("f", noop, nil, nil)
	_, err := m.Instantiate(ctx, rt)
	require.NoError(t, err)

	_, err = m.Instantiate(ctx, rt)
	require.ErrorIs(t, err, &errors.Error{Phase: errors.PhaseRuntime, Kind: errors.KindInstantiation})
}

func TestModule_GuestCall(t *testing.T) {
	ctx := context.Background()
	rt := wazero.NewRuntime(ctx)
	defer rt.Close(ctx)

	var got []byte
	_, err := NewModule("env").
		Export("touch", func(_ context.Context, call *Call) error {
			b, err := call.Bytes(call.I32(0), call.I32(1))
			if err != nil {
				return err
			}
			got = append(got[:0], b...)
			return nil
		}, Params(api.ValueTypeI32, api.ValueTypeI32), nil).
		Instantiate(ctx, rt)
	require.NoError(t, err)

	guest := instantiateGuest(t, ctx, rt, "guest",
		wasmtest.Forwarder("env", "touch", []byte{wasmtest.I32, wasmtest.I32}, nil))
	require.True(t, guest.Memory().Write(100, []byte("hello")))
	run := guest.ExportedFunction("run")

	_, err = run.Call(ctx, 100, 5)
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), got)

	// one past the end of memory traps this call only
	size := uint64(guest.Memory().Size())
	_, err = run.Call(ctx, size-4, 5)
	require.Error(t, err)
	assert.ErrorIs(t, err, borrow.ErrPointerOutOfBounds)
	assert.ErrorContains(t, err, "recovered by wazero")

	var ge *borrow.GuestError
	require.ErrorAs(t, err, &ge)
	assert.Equal(t, borrow.Region{Start: uint32(size - 4), Len: 5}, ge.Region)

	_, err = run.Call(ctx, api.EncodeI32(-1), 2)
	assert.ErrorIs(t, err, borrow.ErrPointerOverflow)

	// the guest stays usable after a trap
	_, err = run.Call(ctx, 101, 4)
	require.NoError(t, err)
	assert.Equal(t, []byte("ello"), got)
}
