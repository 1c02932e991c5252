package encoding

import (
	"encoding/binary"

	"github.com/pkg/errors"

	"github.com/patrickhuang888/gomorph/morph/api"
)

// logicalTransform maps a block of values to values better suited for the
// physical level, and back
type logicalTransform interface {
	forward(block []uint64, out []uint64) (meta []byte)
	backward(meta []byte, block []uint64) error
	blockMetaSize() int
}

// cascade is a logical transform applied per cascade block, followed by a
// physical format over the whole transformed sequence.
// meta: uint32 length of the logical meta, logical meta, physical meta.
type cascade struct {
	fd      api.FormatDescriptor
	phy     Codec
	logical logicalTransform
}

func (c *cascade) Format() api.FormatDescriptor {
	return c.fd
}

func (c *cascade) Encode(values []uint64) ([]byte, []byte, error) {
	blockSize := int(c.fd.CascadeBlockSize)
	transformed := make([]uint64, len(values))
	logMeta := make([]byte, 0, c.logical.blockMetaSize()*blocks(len(values), blockSize))
	for start := 0; start < len(values); start += blockSize {
		end := start + blockSize
		if end > len(values) {
			end = len(values)
		}
		logMeta = append(logMeta, c.logical.forward(values[start:end], transformed[start:end])...)
	}

	phyMeta, payload, err := c.phy.Encode(transformed)
	if err != nil {
		return nil, nil, err
	}
	meta := make([]byte, 4, 4+len(logMeta)+len(phyMeta))
	binary.LittleEndian.PutUint32(meta, uint32(len(logMeta)))
	meta = append(meta, logMeta...)
	meta = append(meta, phyMeta...)
	return meta, payload, nil
}

// split returns the logical and physical parts of meta
func (c *cascade) split(meta []byte, count int) (logMeta []byte, phyMeta []byte, err error) {
	if len(meta) < 4 {
		return nil, nil, errors.New("cascade meta too short")
	}
	logLen := int(binary.LittleEndian.Uint32(meta))
	if logLen > len(meta)-4 {
		return nil, nil, errors.Errorf("cascade logical meta %d bytes, only %d", logLen, len(meta)-4)
	}
	logMeta = meta[4 : 4+logLen]
	phyMeta = meta[4+logLen:]

	if len(logMeta) != c.logical.blockMetaSize()*blocks(count, int(c.fd.CascadeBlockSize)) {
		return nil, nil, errors.Errorf("cascade logical meta %d bytes for %d values", len(logMeta), count)
	}
	return logMeta, phyMeta, nil
}

func (c *cascade) payloadSize(meta []byte, count int) (int, error) {
	_, phyMeta, err := c.split(meta, count)
	if err != nil {
		return 0, err
	}
	return c.phy.payloadSize(phyMeta, count)
}

func (c *cascade) Decode(meta []byte, payload []byte, count int, dst []uint64) ([]uint64, error) {
	logMeta, phyMeta, err := c.split(meta, count)
	if err != nil {
		return nil, err
	}
	blockSize := int(c.fd.CascadeBlockSize)

	start := len(dst)
	dst, err = c.phy.Decode(phyMeta, payload, count, dst)
	if err != nil {
		return nil, err
	}
	values := dst[start:]
	ms := c.logical.blockMetaSize()
	for b, s := 0, 0; s < count; b, s = b+1, s+blockSize {
		e := s + blockSize
		if e > count {
			e = count
		}
		if err = c.logical.backward(logMeta[b*ms:(b+1)*ms], values[s:e]); err != nil {
			return nil, err
		}
	}
	return dst, nil
}

// deltaTransform stores zigzag differences to the previous value, the first
// value of each block is relative to 0 so blocks decode independently
type deltaTransform struct{}

func (deltaTransform) blockMetaSize() int {
	return 0
}

func (deltaTransform) forward(block []uint64, out []uint64) []byte {
	var prev uint64
	for i, v := range block {
		out[i] = zigzag(int64(v - prev))
		prev = v
	}
	return nil
}

func (deltaTransform) backward(_ []byte, block []uint64) error {
	var prev uint64
	for i, z := range block {
		prev += uint64(unZigzag(z))
		block[i] = prev
	}
	return nil
}

// forTransform subtracts the block minimum, the reference is the block meta
type forTransform struct{}

func (forTransform) blockMetaSize() int {
	return 8
}

func (forTransform) forward(block []uint64, out []uint64) []byte {
	ref := block[0]
	for _, v := range block {
		if v < ref {
			ref = v
		}
	}
	for i, v := range block {
		out[i] = v - ref
	}
	meta := make([]byte, 8)
	binary.LittleEndian.PutUint64(meta, ref)
	return meta
}

func (forTransform) backward(meta []byte, block []uint64) error {
	ref := binary.LittleEndian.Uint64(meta)
	for i, v := range block {
		if v > ^uint64(0)-ref {
			return errors.Errorf("for value %d over reference %d overflows", v, ref)
		}
		block[i] = v + ref
	}
	return nil
}
