package compress

import (
	"bytes"
	"io"

	"github.com/golang/snappy"
	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/zstd"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
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

// chunk length is stored in 23 bits of the chunk header
const MaxChunkSize = 1<<23 - 1

// Compress wraps src with the given kind. Zlib output is split into chunks
// of at most chunkSize uncompressed bytes, each with a 3 byte header; chunks
// that do not get smaller are stored original.
func Compress(kind Kind, chunkSize int, src []byte) ([]byte, error) {
	if len(src) == 0 && kind.Valid() {
		return []byte{}, nil
	}
	switch kind {
	case None:
		return src, nil
	case Zlib:
		if chunkSize <= 0 || chunkSize > MaxChunkSize {
			return nil, errors.Errorf("zlib chunk size %d out of 1..%d", chunkSize, MaxChunkSize)
		}
		dst := &bytes.Buffer{}
		if err := zlibCompressingChunks(chunkSize, dst, src); err != nil {
			return nil, err
		}
		return dst.Bytes(), nil
	case Snappy:
		return snappy.Encode(nil, src), nil
	case Zstd:
		enc, err := zstd.NewWriter(nil)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		dst := enc.EncodeAll(src, nil)
		if err = enc.Close(); err != nil {
			return nil, errors.WithStack(err)
		}
		return dst, nil
	default:
		return nil, errors.Errorf("compression kind %d unknown", kind)
	}
}

func zlibCompressingChunks(chunkSize int, dst *bytes.Buffer, src []byte) error {
	cBuf := &bytes.Buffer{}
	compressor, err := flate.NewWriter(cBuf, flate.DefaultCompression)
	if err != nil {
		return errors.WithStack(err)
	}

	logger.Tracef("start zlib compressing, chunksize %d remaining %d", chunkSize, len(src))

	for len(src) > 0 {
		n := chunkSize
		if len(src) < n {
			n = len(src)
		}
		chunk := src[:n]
		src = src[n:]

		cBuf.Reset()
		compressor.Reset(cBuf)
		if _, err = compressor.Write(chunk); err != nil {
			return errors.WithStack(err)
		}
		if err = compressor.Close(); err != nil {
			return errors.WithStack(err)
		}

		if cBuf.Len() >= len(chunk) { // original
			dst.Write(encChunkHeader(len(chunk), true))
			dst.Write(chunk)
			logger.Tracef("write a chunk original, src remains %d, dst len %d", len(src), dst.Len())
		} else {
			dst.Write(encChunkHeader(cBuf.Len(), false))
			if _, err = cBuf.WriteTo(dst); err != nil {
				return errors.WithStack(err)
			}
			logger.Tracef("write a chunk compressed, src remains %d, dst len %d", len(src), dst.Len())
		}
	}
	return nil
}

func encChunkHeader(l int, orig bool) (header []byte) {
	header = make([]byte, 3)
	if orig {
		header[0] = 0x01 | byte(l<<1)
	} else {
		header[0] = byte(l << 1)
	}
	header[1] = byte(l >> 7)
	header[2] = byte(l >> 15)
	return
}

func decChunkHeader(h []byte) (length int, orig bool) {
	_ = h[2]
	return int(h[2])<<15 | int(h[1])<<7 | int(h[0])>>1, h[0]&0x01 == 0x01
}

// larger raw lengths grow the output as decompression proceeds
const maxPrealloc = 1 << 24

func preallocSize(rawLen int) int {
	if rawLen > maxPrealloc {
		return maxPrealloc
	}
	return rawLen
}

// Decompress reverses Compress, result must be exactly rawLen bytes.
// Decompression stops after rawLen+1 bytes, whatever src announces.
func Decompress(kind Kind, src []byte, rawLen int) ([]byte, error) {
	var dst []byte
	var err error

	if rawLen < 0 {
		return nil, errors.Errorf("raw length %d negative", rawLen)
	}
	if len(src) == 0 && rawLen == 0 && kind.Valid() {
		return []byte{}, nil
	}
	switch kind {
	case None:
		dst = src
	case Zlib:
		dst, err = zlibDecompress(src, rawLen)
	case Snappy:
		var n int
		if n, err = snappy.DecodedLen(src); err != nil {
			return nil, errors.WithStack(err)
		}
		if n != rawLen {
			return nil, errors.Errorf("snappy block decodes to %d bytes, expected %d", n, rawLen)
		}
		dst, err = snappy.Decode(nil, src)
		err = errors.WithStack(err)
	case Zstd:
		dst, err = zstdDecompress(src, rawLen)
	default:
		return nil, errors.Errorf("compression kind %d unknown", kind)
	}
	if err != nil {
		return nil, err
	}
	if len(dst) != rawLen {
		return nil, errors.Errorf("%s decompressed %d bytes, expected %d", kind, len(dst), rawLen)
	}
	return dst, nil
}

func zstdDecompress(src []byte, rawLen int) ([]byte, error) {
	dec, err := zstd.NewReader(bytes.NewReader(src))
	if err != nil {
		return nil, errors.WithStack(err)
	}
	defer dec.Close()
	dst := bytes.NewBuffer(make([]byte, 0, preallocSize(rawLen)))
	if _, err = io.Copy(dst, io.LimitReader(dec, int64(rawLen)+1)); err != nil {
		return nil, errors.WithStack(err)
	}
	return dst.Bytes(), nil
}

func zlibDecompress(src []byte, rawLen int) ([]byte, error) {
	dst := bytes.NewBuffer(make([]byte, 0, preallocSize(rawLen)))
	for off := 0; off < len(src); {
		if len(src)-off < 3 {
			return nil, errors.Errorf("zlib chunk header cut at offset %d", off)
		}
		chunkLength, original := decChunkHeader(src[off : off+3])
		off += 3
		if chunkLength > len(src)-off {
			return nil, errors.Errorf("zlib chunk of %d bytes, only %d left", chunkLength, len(src)-off)
		}
		chunk := src[off : off+chunkLength]
		off += chunkLength

		left := rawLen - dst.Len()
		if original {
			if len(chunk) > left {
				return nil, errors.Errorf("zlib original chunk of %d bytes, %d expected at most", len(chunk), left)
			}
			dst.Write(chunk)
			continue
		}
		r := flate.NewReader(bytes.NewReader(chunk))
		n, err := io.Copy(dst, io.LimitReader(r, int64(left)+1))
		if err != nil {
			return nil, errors.WithStack(err)
		}
		if n > int64(left) {
			return nil, errors.Errorf("zlib chunk inflates beyond %d bytes", rawLen)
		}
		if err := r.Close(); err != nil {
			return nil, errors.WithStack(err)
		}
	}
	return dst.Bytes(), nil
}
