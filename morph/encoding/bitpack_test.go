package encoding

import (
	"bytes"
	"math"
	"testing"

	"github.com/smartystreets/assertions"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBitsWriteRead(t *testing.T) {
	widths := []int{1, 3, 7, 8, 9, 13, 31, 32, 33, 56, 57, 63, 64}
	buf := &bytes.Buffer{}
	w := newBitWriter(buf)
	var expected []uint64
	for i, width := range widths {
		v := uint64(math.MaxUint64) >> uint(64-width)
		if i%2 == 0 {
			v = v >> 1
		}
		expected = append(expected, v)
		w.writeBits(v, width)
	}
	w.flush()

	total := 0
	for _, width := range widths {
		total += width
	}
	assert.Equal(t, (total+7)/8, buf.Len())

	r := newBitReader(buf.Bytes())
	for i, width := range widths {
		v, err := r.readBits(width)
		require.NoError(t, err)
		ok, msg := assertions.So(v, assertions.ShouldEqual, expected[i])
		assert.True(t, ok, msg)
	}
	_, err := r.readBits(8)
	assert.Error(t, err)
}

func TestBitsMsbFirst(t *testing.T) {
	buf := &bytes.Buffer{}
	w := newBitWriter(buf)
	w.writeBits(0x1, 1)
	w.writeBits(0x2, 3)
	w.flush()
	ok, msg := assertions.So(buf.Bytes(), assertions.ShouldResemble, []byte{0xa0})
	assert.True(t, ok, msg)
}

func TestBitsSeek(t *testing.T) {
	buf := &bytes.Buffer{}
	w := newBitWriter(buf)
	for i := uint64(0); i < 100; i++ {
		w.writeBits(i, 7)
	}
	w.flush()

	r := newBitReader(buf.Bytes())
	for _, i := range []int{0, 1, 8, 57, 99} {
		require.NoError(t, r.seekBit(i*7))
		v, err := r.readBits(7)
		require.NoError(t, err)
		assert.Equal(t, uint64(i), v)
	}
}

func TestZigzag(t *testing.T) {
	for _, v := range []int64{0, 1, -1, 63, -64, math.MaxInt64, math.MinInt64} {
		assert.Equal(t, v, unZigzag(zigzag(v)))
	}
	assert.Equal(t, uint64(1), zigzag(-1))
	assert.Equal(t, uint64(2), zigzag(1))
}

func TestBitsWidth(t *testing.T) {
	assert.Equal(t, 0, getBitsWidth(0))
	assert.Equal(t, 1, getBitsWidth(1))
	assert.Equal(t, 8, getBitsWidth(255))
	assert.Equal(t, 64, getBitsWidth(math.MaxUint64))
	assert.Equal(t, 4, maxBitsWidth([]uint64{1, 8, 3}))
}
