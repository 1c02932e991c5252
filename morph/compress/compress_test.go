package compress

import (
	"bytes"
	"math/rand"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	logger.SetLevel(log.TraceLevel)
}

func TestRoundTrip(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	random := make([]byte, 5000)
	r.Read(random)
	repeated := bytes.Repeat([]byte{1, 2, 3, 4}, 3000)

	for _, kind := range []Kind{None, Zlib, Snappy, Zstd} {
		for _, src := range [][]byte{{}, random, repeated} {
			dst, err := Compress(kind, 1000, src)
			require.NoError(t, err, kind.String())
			back, err := Decompress(kind, dst, len(src))
			require.NoError(t, err, kind.String())
			assert.Equal(t, len(src), len(back))
			assert.True(t, bytes.Equal(src, back), kind.String())
		}
	}
}

func TestZlibChunks(t *testing.T) {
	repeated := bytes.Repeat([]byte{9}, 2500)
	dst, err := Compress(Zlib, 1000, repeated)
	require.NoError(t, err)
	assert.Less(t, len(dst), len(repeated))

	l, orig := decChunkHeader(dst[:3])
	assert.False(t, orig)
	assert.Less(t, l, 1000)

	// random bytes do not compress, chunk is kept original
	random := make([]byte, 100)
	rand.New(rand.NewSource(1)).Read(random)
	dst, err = Compress(Zlib, 1000, random)
	require.NoError(t, err)
	l, orig = decChunkHeader(dst[:3])
	assert.True(t, orig)
	assert.Equal(t, 100, l)
	assert.Equal(t, random, dst[3:])
}

func TestChunkHeader(t *testing.T) {
	for _, l := range []int{0, 1, 127, 128, 100000, MaxChunkSize} {
		for _, orig := range []bool{true, false} {
			gl, gorig := decChunkHeader(encChunkHeader(l, orig))
			assert.Equal(t, l, gl)
			assert.Equal(t, orig, gorig)
		}
	}
}

func TestDecompressErrors(t *testing.T) {
	dst, err := Compress(Zlib, 100, bytes.Repeat([]byte{1}, 300))
	require.NoError(t, err)
	_, err = Decompress(Zlib, dst[:len(dst)-1], 300)
	assert.Error(t, err)
	_, err = Decompress(Zlib, dst, 299)
	assert.Error(t, err)

	_, err = Compress(Zlib, 0, []byte{1})
	assert.Error(t, err)
	_, err = Decompress(Snappy, []byte{0xff, 0xff}, 2)
	assert.Error(t, err)
}

func TestDecompressBounded(t *testing.T) {
	zeros := make([]byte, 1<<20)
	for _, kind := range []Kind{Zlib, Snappy, Zstd} {
		dst, err := Compress(kind, MaxChunkSize, zeros)
		require.NoError(t, err)
		require.Less(t, len(dst), len(zeros)/10, kind.String())

		_, err = Decompress(kind, dst, 100)
		assert.Error(t, err, kind.String())
		_, err = Decompress(kind, dst, 1<<50)
		assert.Error(t, err, kind.String())
		_, err = Decompress(kind, dst, -1)
		assert.Error(t, err, kind.String())
	}

	random := make([]byte, 200)
	rand.New(rand.NewSource(3)).Read(random)
	dst, err := Compress(Zlib, 1000, random)
	require.NoError(t, err)
	_, orig := decChunkHeader(dst[:3])
	require.True(t, orig)
	_, err = Decompress(Zlib, dst, 150)
	assert.Error(t, err)
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind("ZSTD")
	require.NoError(t, err)
	assert.Equal(t, Zstd, k)
	k, err = ParseKind("")
	require.NoError(t, err)
	assert.Equal(t, None, k)
	_, err = ParseKind("lzo")
	assert.Error(t, err)
}
