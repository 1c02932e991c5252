package encoding

import (
	"bytes"

	"github.com/pkg/errors"

	"github.com/patrickhuang888/gomorph/morph/api"
)

// dynamicVBP packs each block with the minimal width of its values.
// meta holds one width byte per block, every block starts byte aligned.
type dynamicVBP struct {
	fd api.FormatDescriptor
}

func (d dynamicVBP) Format() api.FormatDescriptor {
	return d.fd
}

func blocks(count int, blockSize int) int {
	return (count + blockSize - 1) / blockSize
}

func (d dynamicVBP) Encode(values []uint64) ([]byte, []byte, error) {
	blockSize := int(d.fd.BlockSize)
	meta := make([]byte, 0, blocks(len(values), blockSize))
	out := &bytes.Buffer{}
	bw := newBitWriter(out)

	for start := 0; start < len(values); start += blockSize {
		end := start + blockSize
		if end > len(values) {
			end = len(values)
		}
		block := values[start:end]
		width := maxBitsWidth(block)
		meta = append(meta, byte(width))
		for _, v := range block {
			bw.writeBits(v, width)
		}
		bw.flush()
	}
	logger.Tracef("encoding: dynamic vbp %d values in %d blocks, %d bytes", len(values), len(meta), out.Len())
	return meta, out.Bytes(), nil
}

func (d dynamicVBP) payloadSize(meta []byte, count int) (int, error) {
	blockSize := int(d.fd.BlockSize)
	if len(meta) != blocks(count, blockSize) {
		return 0, errors.Errorf("dynamic vbp meta of %d blocks for %d values", len(meta), count)
	}
	size := 0
	left := count
	for b, w := range meta {
		if w > 64 {
			return 0, errors.Errorf("dynamic vbp block %d width %d", b, w)
		}
		n := blockSize
		if left < n {
			n = left
		}
		size += packedBytes(n, int(w))
		left -= n
	}
	return size, nil
}

func (d dynamicVBP) Decode(meta []byte, payload []byte, count int, dst []uint64) ([]uint64, error) {
	blockSize := int(d.fd.BlockSize)
	if len(meta) != blocks(count, blockSize) {
		return nil, errors.Errorf("dynamic vbp meta of %d blocks for %d values", len(meta), count)
	}

	br := newBitReader(payload)
	left := count
	for b, w := range meta {
		width := int(w)
		if width > 64 {
			return nil, errors.Errorf("dynamic vbp block %d width %d", b, width)
		}
		n := blockSize
		if left < n {
			n = left
		}
		for i := 0; i < n; i++ {
			v, err := br.readBits(width)
			if err != nil {
				return nil, errors.WithMessagef(err, "dynamic vbp block %d", b)
			}
			dst = append(dst, v)
		}
		br.forgetBits()
		left -= n
	}
	if br.offset() != len(payload) {
		return nil, errors.Errorf("dynamic vbp used %d of %d payload bytes", br.offset(), len(payload))
	}
	return dst, nil
}
