package encoding

import (
	"io"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/patrickhuang888/gomorph/morph/api"
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

// Codec is the decode/encode primitive set of one format
type Codec interface {
	Format() api.FormatDescriptor

	// Encode returns per-block metadata and payload of values.
	// Values outside the format's value range fail with NumericOverflow.
	Encode(values []uint64) (meta []byte, payload []byte, err error)

	// Decode appends count values to dst
	Decode(meta []byte, payload []byte, count int, dst []uint64) ([]uint64, error)

	// payloadSize is the exact uncompressed payload length of count values with meta
	payloadSize(meta []byte, count int) (int, error)
}

// RandomAccessCodec decodes single values without decoding predecessors
type RandomAccessCodec interface {
	Codec
	At(meta []byte, payload []byte, count int, i int) (uint64, error)
}

func Lookup(fd api.FormatDescriptor) (Codec, error) {
	if err := fd.Validate(); err != nil {
		return nil, err
	}

	var phy Codec
	switch fd.Kind {
	case api.FormatUncompr:
		return uncompr{}, nil
	case api.FormatStaticVBP:
		phy = staticVBP{fd: fd.Physical()}
	case api.FormatDynamicVBP:
		phy = dynamicVBP{fd: fd.Physical()}
	case api.FormatKWiseNS:
		phy = kWiseNS{fd: fd.Physical()}
	default:
		return nil, merrors.NewUnsupportedFormatError("decode", fd)
	}

	switch fd.Logical {
	case api.LogicalNone:
		return phy, nil
	case api.LogicalDelta:
		return &cascade{fd: fd, phy: phy, logical: deltaTransform{}}, nil
	case api.LogicalFOR:
		return &cascade{fd: fd, phy: phy, logical: forTransform{}}, nil
	default:
		return nil, merrors.NewUnsupportedFormatError("decode", fd)
	}
}

// Encode builds a column of fd holding values
func Encode(fd api.FormatDescriptor, values []uint64) (*api.Column, error) {
	codec, err := Lookup(fd)
	if err != nil {
		return nil, err
	}
	meta, payload, err := codec.Encode(values)
	if err != nil {
		return nil, err
	}
	logger.Tracef("encoded %d values to %s, meta %d bytes, payload %d bytes", len(values), fd, len(meta), len(payload))
	return api.NewColumn(fd, len(values), meta, payload)
}

// counts above it cannot be addressed as packed bits
const maxCount = int(^uint(0)>>1) / 64

// Validate checks that meta and a payload of payloadLen bytes hold exactly
// count values of fd, without touching the payload
func Validate(fd api.FormatDescriptor, meta []byte, count int, payloadLen int) error {
	if count < 0 || count > maxCount {
		return errors.Errorf("%d values out of 0..%d", count, maxCount)
	}
	codec, err := Lookup(fd)
	if err != nil {
		return err
	}
	size, err := codec.payloadSize(meta, count)
	if err != nil {
		return err
	}
	if size != payloadLen {
		return errors.Errorf("%s payload %d bytes, %d values need %d", fd.Name(), payloadLen, count, size)
	}
	return nil
}

// Decode returns all logical values of col
func Decode(col *api.Column) ([]uint64, error) {
	return DecodeTo(col, make([]uint64, 0, col.Len()))
}

func DecodeTo(col *api.Column, dst []uint64) ([]uint64, error) {
	codec, err := Lookup(col.Format())
	if err != nil {
		return nil, err
	}
	start := len(dst)
	dst, err = codec.Decode(col.Meta(), col.Data(), col.Len(), dst)
	if err != nil {
		return nil, errors.Wrapf(err, "decoding %s", col)
	}
	if len(dst)-start != col.Len() {
		return nil, errors.Errorf("decoding %s returned %d values", col, len(dst)-start)
	}
	return dst, nil
}

// Accessor reads single values of a random access column
type Accessor struct {
	codec RandomAccessCodec
	col   *api.Column
}

func NewAccessor(col *api.Column) (*Accessor, error) {
	codec, err := Lookup(col.Format())
	if err != nil {
		return nil, err
	}
	rac, ok := codec.(RandomAccessCodec)
	if !ok || !col.Format().RandomAccess() {
		return nil, merrors.NewUnsupportedFormatError("random access", col.Format())
	}
	return &Accessor{codec: rac, col: col}, nil
}

func (a *Accessor) Len() int {
	return a.col.Len()
}

func (a *Accessor) At(i int) (uint64, error) {
	if i < 0 || i >= a.col.Len() {
		return 0, merrors.NewMorphErrorf(merrors.InvalidInput, "position %d out of column of %d values", i, a.col.Len())
	}
	return a.codec.At(a.col.Meta(), a.col.Data(), a.col.Len(), i)
}
