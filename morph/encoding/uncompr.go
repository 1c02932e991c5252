package encoding

import (
	"encoding/binary"

	"github.com/pkg/errors"

	"github.com/patrickhuang888/gomorph/morph/api"
)

// uncompr stores each value as one little endian 64 bit word
type uncompr struct{}

func (uncompr) Format() api.FormatDescriptor {
	return api.Uncompr
}

func (uncompr) Encode(values []uint64) ([]byte, []byte, error) {
	payload := make([]byte, 8*len(values))
	for i, v := range values {
		binary.LittleEndian.PutUint64(payload[8*i:], v)
	}
	return nil, payload, nil
}

func (uncompr) Decode(meta []byte, payload []byte, count int, dst []uint64) ([]uint64, error) {
	if len(meta) != 0 {
		return nil, errors.New("uncompr has no meta")
	}
	if len(payload) != 8*count {
		return nil, errors.Errorf("uncompr payload %d bytes for %d values", len(payload), count)
	}
	for i := 0; i < count; i++ {
		dst = append(dst, binary.LittleEndian.Uint64(payload[8*i:]))
	}
	return dst, nil
}

func (uncompr) payloadSize(meta []byte, count int) (int, error) {
	if len(meta) != 0 {
		return 0, errors.New("uncompr has no meta")
	}
	return 8 * count, nil
}

func (uncompr) At(meta []byte, payload []byte, count int, i int) (uint64, error) {
	if len(payload) != 8*count {
		return 0, errors.Errorf("uncompr payload %d bytes for %d values", len(payload), count)
	}
	return binary.LittleEndian.Uint64(payload[8*i:]), nil
}
