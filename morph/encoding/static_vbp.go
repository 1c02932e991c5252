package encoding

import (
	"bytes"

	"github.com/pkg/errors"

	"github.com/patrickhuang888/gomorph/morph/api"
	"github.com/patrickhuang888/gomorph/morph/merrors"
)

// staticVBP packs every value with the same bit width, fixed by the format
type staticVBP struct {
	fd api.FormatDescriptor
}

func (s staticVBP) Format() api.FormatDescriptor {
	return s.fd
}

func (s staticVBP) Encode(values []uint64) ([]byte, []byte, error) {
	width := int(s.fd.BitWidth)
	if w := maxBitsWidth(values); w > width {
		return nil, nil, merrors.NewNumericOverflowError("value of %d bits does not fit %s", w, s.fd.Name())
	}
	out := bytes.NewBuffer(make([]byte, 0, packedBytes(len(values), width)))
	bw := newBitWriter(out)
	for _, v := range values {
		bw.writeBits(v, width)
	}
	bw.flush()
	return nil, out.Bytes(), nil
}

func (s staticVBP) check(meta []byte, payload []byte, count int) error {
	if len(meta) != 0 {
		return errors.New("static_vbp has no meta")
	}
	if expected := packedBytes(count, int(s.fd.BitWidth)); len(payload) != expected {
		return errors.Errorf("static_vbp payload %d bytes, expected %d for %d values", len(payload), expected, count)
	}
	return nil
}

func (s staticVBP) payloadSize(meta []byte, count int) (int, error) {
	if len(meta) != 0 {
		return 0, errors.New("static_vbp has no meta")
	}
	return packedBytes(count, int(s.fd.BitWidth)), nil
}

func (s staticVBP) Decode(meta []byte, payload []byte, count int, dst []uint64) ([]uint64, error) {
	if err := s.check(meta, payload, count); err != nil {
		return nil, err
	}
	width := int(s.fd.BitWidth)
	br := newBitReader(payload)
	for i := 0; i < count; i++ {
		v, err := br.readBits(width)
		if err != nil {
			return nil, err
		}
		dst = append(dst, v)
	}
	return dst, nil
}

func (s staticVBP) At(meta []byte, payload []byte, count int, i int) (uint64, error) {
	if err := s.check(meta, payload, count); err != nil {
		return 0, err
	}
	width := int(s.fd.BitWidth)
	br := newBitReader(payload)
	if err := br.seekBit(i * width); err != nil {
		return 0, err
	}
	return br.readBits(width)
}
