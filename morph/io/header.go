package io

import (
	"encoding/binary"

	"github.com/patrickhuang888/gomorph/morph/api"
	"github.com/patrickhuang888/gomorph/morph/compress"
	"github.com/patrickhuang888/gomorph/morph/merrors"
)

const (
	HeaderSize = 64
	Version    = 1
)

var magic = [8]byte{'M', 'R', 'P', 'H', 'C', 'O', 'L', 0x01}

// header is the fixed, little endian start of every column file:
//  magic(8) | version u16 | kind u8 | logical u8 | bitWidth u8 | compression u8 |
//  step u16 | blockSize u32 | count u64 | metaLen u32 | crc32 u32 |
//  storedLen u64 | rawLen u64 | cascadeBlockSize u32 | reserved(8)
// meta follows the header as is, then the payload compressed to storedLen bytes.
type header struct {
	format      api.FormatDescriptor
	compression compress.Kind
	count       uint64
	metaLen     uint32
	crc         uint32
	storedLen   uint64
	rawLen      uint64
}

func (h *header) marshal() []byte {
	b := make([]byte, HeaderSize)
	copy(b, magic[:])
	le := binary.LittleEndian
	le.PutUint16(b[8:], Version)
	b[10] = byte(h.format.Kind)
	b[11] = byte(h.format.Logical)
	b[12] = h.format.BitWidth
	b[13] = byte(h.compression)
	le.PutUint16(b[14:], h.format.Step)
	le.PutUint32(b[16:], h.format.BlockSize)
	le.PutUint64(b[20:], h.count)
	le.PutUint32(b[28:], h.metaLen)
	le.PutUint32(b[32:], h.crc)
	le.PutUint64(b[36:], h.storedLen)
	le.PutUint64(b[44:], h.rawLen)
	le.PutUint32(b[52:], h.format.CascadeBlockSize)
	return b
}

func unmarshalHeader(path string, b []byte) (*header, error) {
	if string(b[:8]) != string(magic[:]) {
		return nil, merrors.NewMorphErrorf(merrors.CorruptHeader, "%s is not a column file", path)
	}
	le := binary.LittleEndian
	if v := le.Uint16(b[8:]); v != Version {
		return nil, merrors.NewMorphErrorf(merrors.CorruptHeader, "%s has column file version %d, expected %d", path, v, Version)
	}
	h := &header{
		format: api.FormatDescriptor{
			Kind:             api.FormatKind(b[10]),
			Logical:          api.LogicalKind(b[11]),
			BitWidth:         b[12],
			Step:             le.Uint16(b[14:]),
			BlockSize:        le.Uint32(b[16:]),
			CascadeBlockSize: le.Uint32(b[52:]),
		},
		compression: compress.Kind(b[13]),
		count:       le.Uint64(b[20:]),
		metaLen:     le.Uint32(b[28:]),
		crc:         le.Uint32(b[32:]),
		storedLen:   le.Uint64(b[36:]),
		rawLen:      le.Uint64(b[44:]),
	}
	if err := h.format.Validate(); err != nil {
		return nil, merrors.NewMorphErrorf(merrors.CorruptHeader, "%s: %v", path, err)
	}
	if !h.compression.Valid() {
		return nil, merrors.NewMorphErrorf(merrors.CorruptHeader, "%s has compression kind %d", path, h.compression)
	}
	if h.count > uint64(maxCount) || h.storedLen > uint64(maxCount) || h.rawLen > uint64(maxCount) {
		return nil, merrors.NewMorphErrorf(merrors.CorruptHeader, "%s declares %d values in %d bytes", path, h.count, h.storedLen)
	}
	return h, nil
}

const maxCount = int(^uint(0) >> 2)

// declared is the byte count the header announces after itself
func (h *header) declared() int64 {
	return int64(h.metaLen) + int64(h.storedLen)
}
