package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFormat(t *testing.T) {
	fd, err := ParseFormat("uncompr", StyleAVX512)
	require.NoError(t, err)
	assert.Equal(t, Uncompr, fd)
	assert.True(t, fd.RandomAccess())

	fd, err = ParseFormat("static_vbp_12", StyleAVX2)
	require.NoError(t, err)
	assert.Equal(t, FormatDescriptor{Kind: FormatStaticVBP, BitWidth: 12, Step: 4}, fd)
	assert.Equal(t, "static_vbp_12", fd.Name())
	assert.True(t, fd.RandomAccess())

	fd, err = ParseFormat("dynamic_vbp", StyleSSE)
	require.NoError(t, err)
	assert.Equal(t, FormatDescriptor{Kind: FormatDynamicVBP, Step: 2, BlockSize: 128}, fd)
	assert.False(t, fd.RandomAccess())

	fd, err = ParseFormat("delta+k_wise_ns", StyleScalar)
	require.NoError(t, err)
	assert.Equal(t, LogicalDelta, fd.Logical)
	assert.Equal(t, FormatKWiseNS, fd.Kind)
	assert.Equal(t, uint32(DefaultCascadeBlockSize), fd.CascadeBlockSize)
	assert.Equal(t, "delta+k_wise_ns", fd.Name())
	assert.Equal(t, FormatDescriptor{Kind: FormatKWiseNS, Step: 1, BlockSize: 64}, fd.Physical())
}

func TestParseFormatErrors(t *testing.T) {
	for _, name := range []string{"", "static_vbp_0", "static_vbp_65", "static_vbp_x", "rle", "delta+uncompr", "zip+dynamic_vbp"} {
		_, err := ParseFormat(name, StyleScalar)
		assert.Error(t, err, name)
	}
}

func TestFormatStyleDependent(t *testing.T) {
	scalar, err := ParseFormat("dynamic_vbp", StyleScalar)
	require.NoError(t, err)
	wide, err := ParseFormat("dynamic_vbp", StyleAVX512)
	require.NoError(t, err)
	assert.NotEqual(t, scalar, wide)

	u1, _ := ParseFormat("uncompr", StyleScalar)
	u2, _ := ParseFormat("uncompr", StyleAVX512)
	assert.Equal(t, u1, u2)
}

func TestAllFormats(t *testing.T) {
	for _, ps := range AllStyles() {
		formats := AllFormats(ps, 16)
		assert.Len(t, formats, 10)
		for _, fd := range formats {
			assert.NoError(t, fd.Validate(), fd.String())
			back, err := ParseFormat(fd.Name(), ps)
			require.NoError(t, err)
			assert.Equal(t, fd, back)
		}
	}
}

func TestParseStyle(t *testing.T) {
	ps, err := ParseStyle("AVX2")
	require.NoError(t, err)
	assert.Equal(t, StyleAVX2, ps)
	assert.Equal(t, 4, ps.VectorElementCount())
	assert.Equal(t, 32, ps.VectorSizeByte())

	_, err = ParseStyle("mmx")
	assert.Error(t, err)

	var s ProcessingStyle
	require.NoError(t, s.UnmarshalText([]byte("neon")))
	assert.Equal(t, StyleNEON, s)
	txt, err := s.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "neon", string(txt))
}

func TestNewColumn(t *testing.T) {
	c, err := NewColumn(Uncompr, 2, nil, make([]byte, 16))
	require.NoError(t, err)
	assert.Equal(t, 2, c.Len())
	assert.Equal(t, 16, c.SizeUsedByte())

	_, err = NewColumn(FormatDescriptor{Kind: FormatStaticVBP}, 0, nil, nil)
	assert.Error(t, err)
	_, err = NewColumn(Uncompr, -1, nil, nil)
	assert.Error(t, err)
}
