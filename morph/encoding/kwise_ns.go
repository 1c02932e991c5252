package encoding

import (
	"bytes"
	"encoding/binary"
	"sort"

	"github.com/pkg/errors"

	"github.com/patrickhuang888/gomorph/morph/api"
)

// kWiseNS is null suppression with exceptions. Per block the width covers at
// least nsCoverage of the values; larger values are exceptions, marked in a
// bit vector and stored as full words after the packed values.
//
// meta per block: width byte, exception count uint32.
// payload per block: [bit vector if exceptions] packed values, exception words.
type kWiseNS struct {
	fd api.FormatDescriptor
}

const (
	nsCoverage      = 0.90
	nsBlockMetaSize = 5
)

func (k kWiseNS) Format() api.FormatDescriptor {
	return k.fd
}

// nsWidth returns the smallest width that keeps the exception storage cheaper
// than widening, starting from the width covering nsCoverage of the block
func nsWidth(block []uint64) int {
	widths := make([]int, len(block))
	for i, v := range block {
		widths[i] = getBitsWidth(v)
	}
	sort.Ints(widths)
	full := widths[len(widths)-1]
	p := widths[int(float64(len(widths)-1)*nsCoverage)]

	exceptions := 0
	for _, w := range widths {
		if w > p {
			exceptions++
		}
	}
	nsBits := p*(len(block)-exceptions) + 64*exceptions + len(block)
	if exceptions == 0 || nsBits >= full*len(block) {
		return full
	}
	return p
}

func (k kWiseNS) Encode(values []uint64) ([]byte, []byte, error) {
	blockSize := int(k.fd.BlockSize)
	meta := make([]byte, 0, nsBlockMetaSize*blocks(len(values), blockSize))
	out := &bytes.Buffer{}
	bw := newBitWriter(out)
	word := make([]byte, 8)

	for start := 0; start < len(values); start += blockSize {
		end := start + blockSize
		if end > len(values) {
			end = len(values)
		}
		block := values[start:end]
		width := nsWidth(block)
		limit := uint64(1)<<uint(width) - 1
		if width == 64 {
			limit = ^uint64(0)
		}

		var exceptions []uint64
		for _, v := range block {
			if v > limit {
				exceptions = append(exceptions, v)
			}
		}
		meta = append(meta, byte(width), 0, 0, 0, 0)
		binary.LittleEndian.PutUint32(meta[len(meta)-4:], uint32(len(exceptions)))

		if len(exceptions) != 0 {
			for _, v := range block {
				if v > limit {
					bw.writeBits(1, 1)
				} else {
					bw.writeBits(0, 1)
				}
			}
			bw.flush()
		}
		for _, v := range block {
			if v <= limit {
				bw.writeBits(v, width)
			}
		}
		bw.flush()
		for _, v := range exceptions {
			binary.LittleEndian.PutUint64(word, v)
			out.Write(word)
		}
		logger.Tracef("encoding: k wise ns block at %d width %d exceptions %d", start, width, len(exceptions))
	}
	return meta, out.Bytes(), nil
}

func (k kWiseNS) payloadSize(meta []byte, count int) (int, error) {
	blockSize := int(k.fd.BlockSize)
	nBlocks := blocks(count, blockSize)
	if len(meta) != nsBlockMetaSize*nBlocks {
		return 0, errors.Errorf("k wise ns meta %d bytes for %d blocks", len(meta), nBlocks)
	}
	size := 0
	left := count
	for b := 0; b < nBlocks; b++ {
		width := int(meta[nsBlockMetaSize*b])
		nExceptions := int(binary.LittleEndian.Uint32(meta[nsBlockMetaSize*b+1:]))
		n := blockSize
		if left < n {
			n = left
		}
		if width > 64 || nExceptions > n {
			return 0, errors.Errorf("k wise ns block %d width %d exceptions %d", b, width, nExceptions)
		}
		if nExceptions != 0 {
			size += packedBytes(n, 1)
		}
		size += packedBytes(n-nExceptions, width) + 8*nExceptions
		left -= n
	}
	return size, nil
}

func (k kWiseNS) Decode(meta []byte, payload []byte, count int, dst []uint64) ([]uint64, error) {
	blockSize := int(k.fd.BlockSize)
	nBlocks := blocks(count, blockSize)
	if len(meta) != nsBlockMetaSize*nBlocks {
		return nil, errors.Errorf("k wise ns meta %d bytes for %d blocks", len(meta), nBlocks)
	}

	off := 0
	left := count
	isException := make([]bool, blockSize)
	for b := 0; b < nBlocks; b++ {
		width := int(meta[nsBlockMetaSize*b])
		nExceptions := int(binary.LittleEndian.Uint32(meta[nsBlockMetaSize*b+1:]))
		n := blockSize
		if left < n {
			n = left
		}
		if width > 64 || nExceptions > n {
			return nil, errors.Errorf("k wise ns block %d width %d exceptions %d", b, width, nExceptions)
		}

		br := newBitReader(payload[off:])
		for i := 0; i < n; i++ {
			isException[i] = false
		}
		if nExceptions != 0 {
			marked := 0
			for i := 0; i < n; i++ {
				bit, err := br.readBits(1)
				if err != nil {
					return nil, errors.WithMessagef(err, "k wise ns block %d bit vector", b)
				}
				if bit == 1 {
					isException[i] = true
					marked++
				}
			}
			if marked != nExceptions {
				return nil, errors.Errorf("k wise ns block %d marks %d exceptions, meta says %d", b, marked, nExceptions)
			}
			br.forgetBits()
		}

		blockStart := len(dst)
		for i := 0; i < n; i++ {
			if isException[i] {
				dst = append(dst, 0)
				continue
			}
			v, err := br.readBits(width)
			if err != nil {
				return nil, errors.WithMessagef(err, "k wise ns block %d", b)
			}
			dst = append(dst, v)
		}
		br.forgetBits()
		off += br.offset()

		if len(payload)-off < 8*nExceptions {
			return nil, errors.Errorf("k wise ns block %d exceptions cut", b)
		}
		for i := 0; i < n; i++ {
			if isException[i] {
				dst[blockStart+i] = binary.LittleEndian.Uint64(payload[off:])
				off += 8
			}
		}
		left -= n
	}
	if off != len(payload) {
		return nil, errors.Errorf("k wise ns used %d of %d payload bytes", off, len(payload))
	}
	return dst, nil
}
