package guestmem

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wippyai/guestmem/borrow"
	"github.com/wippyai/guestmem/errors"
)

type sliceMemory struct {
	buf    []byte
	failed bool
}

func (m *sliceMemory) Size() uint32 { return uint32(len(m.buf)) }

func (m *sliceMemory) Read(offset, byteCount uint32) ([]byte, bool) {
	if m.failed || uint64(offset)+uint64(byteCount) > uint64(len(m.buf)) {
		return nil, false
	}
	return m.buf[offset : offset+byteCount], true
}

func TestBorrow_Nil(t *testing.T) {
	_, err := Borrow(nil)
	require.ErrorIs(t, err, &errors.Error{Phase: errors.PhaseGuest, Kind: errors.KindNotInitialized})
}

func TestBorrow_NilPointer(t *testing.T) {
	var mem *sliceMemory
	_, err := Borrow(mem)
	require.ErrorIs(t, err, &errors.Error{Phase: errors.PhaseGuest, Kind: errors.KindNotInitialized})
}

func TestBorrow_ViewsLiveMemory(t *testing.T) {
	mem := &sliceMemory{buf: []byte{0x2a, 0, 0, 0, 'h', 'i'}}

	c, err := Borrow(mem)
	require.NoError(t, err)
	assert.Equal(t, 6, c.Len())

	v, err := borrow.Load[uint32](c, 0)
	require.NoError(t, err)
	assert.Equal(t, uint32(42), v)

	s, err := c.String(4, 2)
	require.NoError(t, err)
	assert.Equal(t, "hi", s)

	// writes through the checker land in the memory itself
	require.NoError(t, borrow.Store(c, 0, uint32(7)))
	assert.Equal(t, byte(7), mem.buf[0])
}

func TestBorrow_ReadFailure(t *testing.T) {
	_, err := Borrow(&sliceMemory{buf: make([]byte, 8), failed: true})
	require.ErrorIs(t, err, &errors.Error{Phase: errors.PhaseGuest, Kind: errors.KindOutOfBounds})
}
