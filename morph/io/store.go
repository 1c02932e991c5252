package io

import (
	"fmt"
	"hash/crc32"
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/patrickhuang888/gomorph/morph/api"
	"github.com/patrickhuang888/gomorph/morph/compress"
	"github.com/patrickhuang888/gomorph/morph/config"
	"github.com/patrickhuang888/gomorph/morph/encoding"
	"github.com/patrickhuang888/gomorph/morph/merrors"
)

var logger = log.New()

func SetLogLevel(level log.Level) {
	logger.SetLevel(level)
}

func SetFormatter(formatter log.Formatter) {
	logger.SetFormatter(formatter)
}

func SetOutput(out io.Writer) {
	logger.SetOutput(out)
}

// ColumnFileName is the name of a base column's file inside a data directory
func ColumnFileName(table string, column string, format api.FormatDescriptor) string {
	return fmt.Sprintf("%s.%s.%s.bin", table, column, format.Name())
}

// Load reads the column file at path, its format must be exactly expected
func Load(path string, expected api.FormatDescriptor, opts config.ReaderOptions) (*api.Column, error) {
	f, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return load(f, expected, opts)
}

func load(f File, expected api.FormatDescriptor, opts config.ReaderOptions) (*api.Column, error) {
	path := f.Name()
	size, err := f.Size()
	if err != nil {
		return nil, err
	}
	if size < HeaderSize {
		return nil, merrors.NewMorphErrorf(merrors.Truncated, "column file %s has %d bytes, shorter than the header", path, size)
	}

	hb := make([]byte, HeaderSize)
	if _, err = io.ReadFull(f, hb); err != nil {
		return nil, errors.WithStack(err)
	}
	h, err := unmarshalHeader(path, hb)
	if err != nil {
		return nil, err
	}
	if h.format != expected {
		return nil, merrors.NewFormatMismatchError(path, expected, h.format)
	}
	if available := size - HeaderSize; available != h.declared() {
		return nil, merrors.NewTruncatedError(path, h.declared(), available)
	}

	body := make([]byte, h.declared())
	if _, err = io.ReadFull(f, body); err != nil {
		return nil, errors.WithStack(err)
	}
	if opts.VerifyChecksum {
		if sum := crc32.ChecksumIEEE(body); sum != h.crc {
			return nil, merrors.NewMorphErrorf(merrors.CorruptHeader, "column file %s checksum %08x, header says %08x", path, sum, h.crc)
		}
	}

	meta := body[:h.metaLen]
	if err = encoding.Validate(h.format, meta, int(h.count), int(h.rawLen)); err != nil {
		return nil, merrors.NewMorphErrorf(merrors.Truncated, "column file %s declares %d values: %v", path, h.count, err)
	}
	payload, err := compress.Decompress(h.compression, body[h.metaLen:], int(h.rawLen))
	if err != nil {
		return nil, merrors.NewMorphErrorf(merrors.CorruptHeader, "column file %s payload: %v", path, err)
	}
	if len(meta) == 0 {
		meta = nil
	}

	col, err := api.NewColumn(h.format, int(h.count), meta, payload)
	if err != nil {
		return nil, err
	}
	logger.Debugf("loaded %s: %s, compression %s", path, col, h.compression)
	return col, nil
}

// Store writes col to path through a temp file in the same directory renamed
// into place, readers never see a partial file under path
func Store(path string, col *api.Column, opts config.WriterOptions) (err error) {
	stored, err := compress.Compress(opts.CompressionKind, opts.ChunkSize, col.Data())
	if err != nil {
		return err
	}
	h := &header{
		format:      col.Format(),
		compression: opts.CompressionKind,
		count:       uint64(col.Len()),
		metaLen:     uint32(len(col.Meta())),
		storedLen:   uint64(len(stored)),
		rawLen:      uint64(len(col.Data())),
	}
	sum := crc32.NewIEEE()
	sum.Write(col.Meta())
	sum.Write(stored)
	h.crc = sum.Sum32()

	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}
	tmp, err := os.CreateTemp(dir, "."+base+".tmp*")
	if err != nil {
		return merrors.NewMorphErrorf(merrors.IoError, "creating temp file for %s: %v", path, err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	for _, b := range [][]byte{h.marshal(), col.Meta(), stored} {
		if _, err = tmp.Write(b); err != nil {
			return merrors.NewMorphErrorf(merrors.IoError, "writing %s: %v", tmp.Name(), err)
		}
	}
	if opts.Sync {
		if err = tmp.Sync(); err != nil {
			return merrors.NewMorphErrorf(merrors.IoError, "syncing %s: %v", tmp.Name(), err)
		}
	}
	if err = tmp.Close(); err != nil {
		return merrors.NewMorphErrorf(merrors.IoError, "closing %s: %v", tmp.Name(), err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return merrors.NewMorphErrorf(merrors.IoError, "renaming %s to %s: %v", tmp.Name(), path, err)
	}
	logger.Debugf("stored %s: %s, compression %s %d bytes", path, col, opts.CompressionKind, len(stored))
	return nil
}
