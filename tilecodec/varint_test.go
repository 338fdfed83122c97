package tilecodec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVarUintRoundTrip(t *testing.T) {
	values := []uint64{0, 1, 2, 127, 128, 129, 16383, 16384, 1 << 20, 1<<32 - 1, 1 << 40, 1<<64 - 1}
	for _, v := range values {
		buf := make([]byte, maxVarUintLen)
		n := WriteVarUint(buf, 0, v)
		got, size := ReadVarUint(buf, 0)
		assert.Equal(t, v, got, "value %d", v)
		assert.Equal(t, n, size, "size for value %d", v)
	}
}

func TestVarUintNoTrailingBytes(t *testing.T) {
	buf := make([]byte, maxVarUintLen+4)
	n := WriteVarUint(buf, 0, 300)
	// Write a sentinel right after to prove ReadVarUint stops exactly at n.
	buf[n] = 0xFF
	_, size := ReadVarUint(buf, 0)
	require.Equal(t, n, size)
}

func TestNullableRoundTrip(t *testing.T) {
	raw := EncodeNullable(0, false)
	v, ok := DecodeNullable(raw)
	assert.False(t, ok)
	assert.Zero(t, v)

	raw = EncodeNullable(0, true)
	v, ok = DecodeNullable(raw)
	assert.True(t, ok)
	assert.Zero(t, v)
	assert.NotEqual(t, EncodeNullable(0, false), EncodeNullable(0, true))

	for _, want := range []uint64{1, 42, 1 << 30} {
		raw = EncodeNullable(want, true)
		v, ok = DecodeNullable(raw)
		require.True(t, ok)
		assert.Equal(t, want, v)
	}
}

func TestFixedRoundTrip(t *testing.T) {
	for width := 1; width <= 8; width++ {
		var max uint64
		if width == 8 {
			max = 1<<64 - 1
		} else {
			max = 1<<(8*uint(width)) - 1
		}
		buf := make([]byte, width)
		WriteFixed(buf, 0, width, max)
		got := ReadFixed(buf, 0, width)
		assert.Equal(t, max, got, "width %d", width)
	}
}

func TestBufferGrowsInFixedChunks(t *testing.T) {
	b := NewBuffer()
	initialCap := len(b.data)
	require.Equal(t, growChunk, initialCap)

	// Force growth past the first chunk.
	for i := 0; i <= growChunk; i++ {
		b.WriteFixed(1, 0xAB)
	}
	require.Greater(t, len(b.data), initialCap)
	require.True(t, len(b.data)%growChunk == 0)
	assert.Equal(t, growChunk+1, b.Len())
}

func TestBufferClone(t *testing.T) {
	b := NewBuffer()
	b.WriteVarUint(42)
	clone := b.Clone()
	clone.WriteVarUint(7)

	assert.Equal(t, 1, varUintSize(42))
	v, _ := b.ReadVarUintAt(0)
	assert.Equal(t, uint64(42), v)
	assert.Equal(t, varUintSize(42), b.Len()) // original untouched in length
	assert.NotEqual(t, b.Len(), clone.Len())
}

func varUintSize(v uint64) int {
	buf := make([]byte, maxVarUintLen)
	return WriteVarUint(buf, 0, v)
}
