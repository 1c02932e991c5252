package encoding

import (
	"bytes"

	"github.com/pkg/errors"
)

// bitWriter packs values MSB first, last partial byte is aligned to msb on flush
type bitWriter struct {
	out *bytes.Buffer

	lastByte byte // pending bits, right aligned
	bitsLeft int  // number of pending bits in lastByte
}

func newBitWriter(out *bytes.Buffer) *bitWriter {
	return &bitWriter{out: out}
}

func (w *bitWriter) writeBits(value uint64, bits int) {
	if bits > 56 { // pending bits plus value must fit 64
		w.writeBits(value>>32, bits-32)
		w.writeBits(value&0xffffffff, 32)
		return
	}
	value &= (uint64(1) << bits) - 1
	totalBits := w.bitsLeft + bits
	value = uint64(w.lastByte)<<bits | value

	for totalBits -= 8; totalBits >= 0; totalBits -= 8 {
		w.out.WriteByte(byte(value >> uint(totalBits)))
	}
	totalBits += 8
	w.bitsLeft = totalBits
	// clear lead bits
	w.lastByte = byte(value) & ((1 << w.bitsLeft) - 1)
}

// flush writes out the pending bits, next value starts byte aligned
func (w *bitWriter) flush() {
	if w.bitsLeft != 0 {
		w.out.WriteByte(w.lastByte << (8 - w.bitsLeft))
	}
	w.bitsLeft = 0
	w.lastByte = 0
}

type bitReader struct {
	in  []byte
	pos int

	lastByte byte
	bitsLeft int
}

func newBitReader(in []byte) *bitReader {
	return &bitReader{in: in}
}

// seekBit positions the reader at an absolute bit offset
func (r *bitReader) seekBit(offset int) error {
	r.pos = offset / 8
	skip := offset % 8
	r.forgetBits()
	if skip == 0 {
		return nil
	}
	if r.pos >= len(r.in) {
		return errors.Errorf("bit offset %d beyond %d bytes", offset, len(r.in))
	}
	r.bitsLeft = 8 - skip
	r.lastByte = r.in[r.pos] & ((1 << r.bitsLeft) - 1)
	r.pos++
	return nil
}

func (r *bitReader) readBits(bits int) (uint64, error) {
	if bits > 56 {
		hi, err := r.readBits(bits - 32)
		if err != nil {
			return 0, err
		}
		lo, err := r.readBits(32)
		if err != nil {
			return 0, err
		}
		return hi<<32 | lo, nil
	}

	hasBits := r.bitsLeft
	data := uint64(r.lastByte)
	for ; hasBits < bits; hasBits += 8 {
		if r.pos >= len(r.in) {
			return 0, errors.Errorf("out of data reading %d bits at byte %d", bits, r.pos)
		}
		data <<= 8
		data |= uint64(r.in[r.pos])
		r.pos++
	}

	r.bitsLeft = hasBits - bits
	value := data >> uint(r.bitsLeft)
	mask := (uint64(1) << r.bitsLeft) - 1
	r.lastByte = byte(data & mask)
	return value, nil
}

// forgetBits drops the rest of the current byte
func (r *bitReader) forgetBits() {
	r.bitsLeft = 0
	r.lastByte = 0
}

// offset returns the byte position after the last byte touched
func (r *bitReader) offset() int {
	return r.pos
}

// return a uint64 bits width
func getBitsWidth(x uint64) (w int) {
	for x != 0 {
		x = x >> 1
		w++
	}
	return w
}

func maxBitsWidth(values []uint64) int {
	var or uint64
	for _, v := range values {
		or |= v
	}
	return getBitsWidth(or)
}

func packedBytes(count int, width int) int {
	return (count*width + 7) / 8
}

func unZigzag(x uint64) int64 {
	return int64(x>>1) ^ -int64(x&1)
}

func zigzag(x int64) uint64 {
	return uint64(x<<1) ^ uint64(x>>63)
}
