package pool

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestByteBufferSetLengthGrows(t *testing.T) {
	require := require.New(t)

	bb := NewByteBuffer(4)
	bb.SetLength(10)
	require.Equal(10, bb.Len())
	require.GreaterOrEqual(bb.Cap(), 10)
}

func TestByteBufferResetRetainsCapacity(t *testing.T) {
	require := require.New(t)

	bb := NewByteBuffer(16)
	bb.SetLength(16)
	cp := bb.Cap()

	bb.Reset()
	require.Equal(0, bb.Len())
	require.Equal(cp, bb.Cap())
}

func TestByteBufferPoolRoundTrip(t *testing.T) {
	require := require.New(t)

	p := NewByteBufferPool(8, 64)
	bb := p.Get()
	bb.SetLength(8)
	copy(bb.B, []byte("abcdefgh"))

	p.Put(bb)

	bb2 := p.Get()
	require.Equal(0, bb2.Len())
}

func TestByteBufferPoolDiscardsOversized(t *testing.T) {
	require := require.New(t)

	p := NewByteBufferPool(4, 8)
	bb := p.Get()
	bb.SetLength(100)
	p.Put(bb)

	bb2 := p.Get()
	require.LessOrEqual(bb2.Cap(), 100)
}
