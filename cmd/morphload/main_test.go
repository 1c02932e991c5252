package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patrickhuang888/gomorph/morph/api"
	"github.com/patrickhuang888/gomorph/morph/config"
	"github.com/patrickhuang888/gomorph/morph/encoding"
	mio "github.com/patrickhuang888/gomorph/morph/io"
	"github.com/patrickhuang888/gomorph/morph/merrors"
)

func TestLoadFromStdin(t *testing.T) {
	dir := t.TempDir()
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	code := run([]string{"--table", "t", "--column", "v", "--format", "for+dynamic_vbp", "--style", "avx2",
		"--compression", "zstd", dir}, strings.NewReader("3\n1 4\n1\n5\n"), stdout, stderr)
	require.Equal(t, merrors.ExitOK, code, stderr.String())

	fd, err := api.ParseFormat("for+dynamic_vbp", api.StyleAVX2)
	require.NoError(t, err)
	path := filepath.Join(dir, "t.v.for+dynamic_vbp.bin")
	assert.Equal(t, path+"\n", stdout.String())

	col, err := mio.Load(path, fd, config.DefaultReaderOptions())
	require.NoError(t, err)
	vs, err := encoding.Decode(col)
	require.NoError(t, err)
	assert.Equal(t, []uint64{3, 1, 4, 1, 5}, vs)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "in.txt")
	require.NoError(t, os.WriteFile(input, []byte("7 8 9"), 0644))
	code := run([]string{"--table", "t", "--column", "w", "--input", input, filepath.Join(dir, "data")}, nil, &bytes.Buffer{}, &bytes.Buffer{})
	require.Equal(t, merrors.ExitOK, code)
	_, err := mio.Load(filepath.Join(dir, "data", "t.w.uncompr.bin"), api.Uncompr, config.DefaultReaderOptions())
	assert.NoError(t, err)
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	stderr := &bytes.Buffer{}
	assert.Equal(t, merrors.ExitUsage, run([]string{dir}, strings.NewReader(""), &bytes.Buffer{}, stderr))
	assert.Equal(t, merrors.ExitUsage, run([]string{"--table", "t", "--column", "v", "--format", "rle", dir},
		strings.NewReader("1"), &bytes.Buffer{}, stderr))
	assert.Equal(t, merrors.ExitExecution, run([]string{"--table", "t", "--column", "v", dir},
		strings.NewReader("1 -2"), &bytes.Buffer{}, stderr))
	assert.Equal(t, merrors.ExitExecution, run([]string{"--table", "t", "--column", "v", "--format", "static_vbp_2", dir},
		strings.NewReader("1 2 3 4"), &bytes.Buffer{}, stderr))
}
