package io

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patrickhuang888/gomorph/morph/api"
	"github.com/patrickhuang888/gomorph/morph/compress"
	"github.com/patrickhuang888/gomorph/morph/config"
	"github.com/patrickhuang888/gomorph/morph/encoding"
	"github.com/patrickhuang888/gomorph/morph/merrors"
)

func init() {
	SetLogLevel(log.TraceLevel)
}

func values(n int) []uint64 {
	vs := make([]uint64, n)
	for i := range vs {
		vs[i] = uint64(i*i) % 5000
	}
	return vs
}

func storeValues(t *testing.T, path string, fd api.FormatDescriptor, vs []uint64, kind compress.Kind) *api.Column {
	col, err := encoding.Encode(fd, vs)
	require.NoError(t, err)
	opts := config.DefaultWriterOptions()
	opts.CompressionKind = kind
	opts.ChunkSize = 1000
	require.NoError(t, Store(path, col, opts))
	return col
}

func TestStoreLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	vs := values(2500)

	for _, ps := range []api.ProcessingStyle{api.StyleScalar, api.StyleAVX512} {
		for _, fd := range api.AllFormats(ps, 24) {
			for _, kind := range []compress.Kind{compress.None, compress.Zlib, compress.Snappy, compress.Zstd} {
				path := filepath.Join(dir, ColumnFileName("t", "v", fd))
				storeValues(t, path, fd, vs, kind)

				col, err := Load(path, fd, config.DefaultReaderOptions())
				require.NoError(t, err, "%s %s", fd, kind)
				assert.Equal(t, fd, col.Format())
				decoded, err := encoding.Decode(col)
				require.NoError(t, err)
				assert.Equal(t, vs, decoded, "%s %s", fd, kind)

				// store of a loaded column gives the same column back
				again := filepath.Join(dir, "again.bin")
				require.NoError(t, Store(again, col, config.DefaultWriterOptions()))
				col2, err := Load(again, fd, config.DefaultReaderOptions())
				require.NoError(t, err)
				decoded2, err := encoding.Decode(col2)
				require.NoError(t, err)
				assert.Equal(t, vs, decoded2)
			}
		}
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, e := range entries {
		assert.Equal(t, ".bin", filepath.Ext(e.Name()), "left over %s", e.Name())
	}
}

func TestStoreEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "e.bin")
	fd, err := api.ParseFormat("dynamic_vbp", api.StyleSSE)
	require.NoError(t, err)
	storeValues(t, path, fd, []uint64{}, compress.Zstd)
	col, err := Load(path, fd, config.DefaultReaderOptions())
	require.NoError(t, err)
	assert.Equal(t, 0, col.Len())
}

func TestLoadNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.bin"), api.Uncompr, config.DefaultReaderOptions())
	require.Error(t, err)
	assert.True(t, merrors.Is(err, merrors.NotFound))
	assert.Equal(t, merrors.ExitLoad, merrors.ExitCode(err))
}

func TestLoadFormatMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "t.v.bin")
	storeValues(t, path, api.Uncompr, []uint64{3, 1, 4, 1, 5}, compress.None)

	expected, err := api.ParseFormat("static_vbp_8", api.StyleScalar)
	require.NoError(t, err)
	_, err = Load(path, expected, config.DefaultReaderOptions())
	assert.True(t, merrors.Is(err, merrors.FormatMismatch))

	// same kind, other style
	dyn, err := api.ParseFormat("dynamic_vbp", api.StyleScalar)
	require.NoError(t, err)
	path = filepath.Join(t.TempDir(), "d.bin")
	storeValues(t, path, dyn, values(100), compress.None)
	wide, err := api.ParseFormat("dynamic_vbp", api.StyleAVX2)
	require.NoError(t, err)
	_, err = Load(path, wide, config.DefaultReaderOptions())
	assert.True(t, merrors.Is(err, merrors.FormatMismatch))
}

func TestLoadTruncated(t *testing.T) {
	path := filepath.Join(t.TempDir(), "t.v.bin")
	storeValues(t, path, api.Uncompr, []uint64{3, 1, 4, 1, 5}, compress.None)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Len(t, data, HeaderSize+40)

	for _, content := range [][]byte{data[:len(data)-1], data[:HeaderSize], data[:10], append(append([]byte{}, data...), 0)} {
		require.NoError(t, os.WriteFile(path, content, 0644))
		col, err := Load(path, api.Uncompr, config.DefaultReaderOptions())
		assert.Nil(t, col)
		assert.True(t, merrors.Is(err, merrors.Truncated), "%d bytes: %v", len(content), err)
	}
}

func TestLoadCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "t.v.bin")
	storeValues(t, path, api.Uncompr, []uint64{3, 1, 4, 1, 5}, compress.None)
	data, err := os.ReadFile(path)
	require.NoError(t, err)

	flipped := append([]byte{}, data...)
	flipped[HeaderSize+3] ^= 0xff
	require.NoError(t, os.WriteFile(path, flipped, 0644))
	_, err = Load(path, api.Uncompr, config.DefaultReaderOptions())
	assert.True(t, merrors.Is(err, merrors.CorruptHeader))

	col, err := Load(path, api.Uncompr, config.ReaderOptions{VerifyChecksum: false})
	require.NoError(t, err)
	assert.Equal(t, 5, col.Len())

	badMagic := append([]byte{}, data...)
	badMagic[0] = 'X'
	require.NoError(t, os.WriteFile(path, badMagic, 0644))
	_, err = Load(path, api.Uncompr, config.DefaultReaderOptions())
	assert.True(t, merrors.Is(err, merrors.CorruptHeader))

	badKind := append([]byte{}, data...)
	badKind[10] = 99
	require.NoError(t, os.WriteFile(path, badKind, 0644))
	_, err = Load(path, api.Uncompr, config.DefaultReaderOptions())
	assert.True(t, merrors.Is(err, merrors.CorruptHeader))
}

func TestLoadCountMismatch(t *testing.T) {
	dir := t.TempDir()
	dyn, err := api.ParseFormat("delta+dynamic_vbp", api.StyleAVX2)
	require.NoError(t, err)

	for _, c := range []struct {
		fd     api.FormatDescriptor
		values []uint64
		kind   compress.Kind
	}{
		{api.Uncompr, []uint64{3, 1, 4, 1, 5}, compress.None},
		{api.Uncompr, []uint64{3, 1, 4, 1, 5}, compress.Zstd},
		{dyn, values(300), compress.Snappy},
	} {
		path := filepath.Join(dir, ColumnFileName("t", "v", c.fd))
		storeValues(t, path, c.fd, c.values, c.kind)
		data, err := os.ReadFile(path)
		require.NoError(t, err)

		n := uint64(len(c.values))
		for _, count := range []uint64{n + 1, n - 1, n + 1000, 1 << 50} {
			edited := append([]byte{}, data...)
			binary.LittleEndian.PutUint64(edited[20:], count)
			require.NoError(t, os.WriteFile(path, edited, 0644))

			col, err := Load(path, c.fd, config.DefaultReaderOptions())
			assert.Nil(t, col)
			assert.True(t, merrors.Is(err, merrors.Truncated), "%s count %d: %v", c.fd, count, err)
			assert.Equal(t, merrors.ExitLoad, merrors.ExitCode(err))
		}
	}
}

func TestStoreIntoMissingDir(t *testing.T) {
	col, err := encoding.Encode(api.Uncompr, []uint64{1})
	require.NoError(t, err)
	err = Store(filepath.Join(t.TempDir(), "no", "such", "x.bin"), col, config.DefaultWriterOptions())
	assert.True(t, merrors.Is(err, merrors.IoError))
}

func TestHeaderRoundTrip(t *testing.T) {
	fd, err := api.ParseFormat("for+static_vbp_13", api.StyleAVX2)
	require.NoError(t, err)
	h := &header{format: fd, compression: compress.Snappy, count: 7, metaLen: 12, crc: 0xdeadbeef, storedLen: 99, rawLen: 120}
	b := h.marshal()
	require.Len(t, b, HeaderSize)
	back, err := unmarshalHeader("x", b)
	require.NoError(t, err)
	assert.Equal(t, h, back)
	assert.Equal(t, int64(111), back.declared())
}
