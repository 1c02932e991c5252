package api

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// FormatKind is the physical level of a format, how logical values map to bits
type FormatKind uint8

const (
	FormatUncompr FormatKind = iota
	FormatStaticVBP
	FormatDynamicVBP
	FormatKWiseNS
	formatKindsCount
)

var formatKindNames = [formatKindsCount]string{
	FormatUncompr:    "uncompr",
	FormatStaticVBP:  "static_vbp",
	FormatDynamicVBP: "dynamic_vbp",
	FormatKWiseNS:    "k_wise_ns",
}

func (k FormatKind) String() string {
	if k >= formatKindsCount {
		return "unknown"
	}
	return formatKindNames[k]
}

// LogicalKind is an optional logical-level transformation cascaded in front
// of the physical format.
type LogicalKind uint8

const (
	LogicalNone LogicalKind = iota
	LogicalDelta
	LogicalFOR
	logicalKindsCount
)

var logicalKindNames = [logicalKindsCount]string{
	LogicalNone:  "",
	LogicalDelta: "delta",
	LogicalFOR:   "for",
}

func (k LogicalKind) String() string {
	if k >= logicalKindsCount {
		return "unknown"
	}
	return logicalKindNames[k]
}

// DefaultCascadeBlockSize is the one block size used by all cascades of a program.
const DefaultCascadeBlockSize = 1024

// FormatDescriptor identifies the physical encoding of a column's bytes.
// Two descriptors are the same format only if all fields are equal.
type FormatDescriptor struct {
	Kind    FormatKind
	Logical LogicalKind

	// static_vbp only
	BitWidth uint8

	// lanes of the processing style the format was built for
	Step uint16
	// values per block of the physical level, 0 for unblocked formats
	BlockSize uint32
	// values per block of the logical level, 0 without cascade
	CascadeBlockSize uint32
}

var Uncompr = FormatDescriptor{Kind: FormatUncompr}

// Name returns the short name, the one used in program definitions and file names
func (fd FormatDescriptor) Name() string {
	var phy string
	if fd.Kind == FormatStaticVBP {
		phy = fmt.Sprintf("%s_%d", fd.Kind, fd.BitWidth)
	} else {
		phy = fd.Kind.String()
	}
	if fd.Logical == LogicalNone {
		return phy
	}
	return fd.Logical.String() + "+" + phy
}

func (fd FormatDescriptor) String() string {
	if fd.Kind == FormatUncompr && fd.Logical == LogicalNone {
		return fd.Name()
	}
	return fmt.Sprintf("%s<step %d, block %d, cascade block %d>", fd.Name(), fd.Step, fd.BlockSize, fd.CascadeBlockSize)
}

// RandomAccess reports whether the i-th value can be decoded without decoding its predecessors
func (fd FormatDescriptor) RandomAccess() bool {
	return fd.Logical == LogicalNone && (fd.Kind == FormatUncompr || fd.Kind == FormatStaticVBP)
}

func (fd FormatDescriptor) Validate() error {
	if fd.Kind >= formatKindsCount {
		return errors.Errorf("format kind %d unknown", fd.Kind)
	}
	if fd.Logical >= logicalKindsCount {
		return errors.Errorf("logical format kind %d unknown", fd.Logical)
	}
	switch fd.Kind {
	case FormatUncompr:
		if fd.Logical != LogicalNone {
			return errors.New("cascade on uncompr is not a format")
		}
		if fd.BitWidth != 0 || fd.Step != 0 || fd.BlockSize != 0 || fd.CascadeBlockSize != 0 {
			return errors.New("uncompr takes no parameters")
		}
		return nil
	case FormatStaticVBP:
		if fd.BitWidth == 0 || fd.BitWidth > 64 {
			return errors.Errorf("static_vbp bit width %d out of 1..64", fd.BitWidth)
		}
		if fd.BlockSize != 0 {
			return errors.New("static_vbp is not blocked")
		}
	case FormatDynamicVBP, FormatKWiseNS:
		if fd.BlockSize == 0 || fd.BlockSize%64 != 0 {
			return errors.Errorf("%s block size %d must be a positive multiple of 64", fd.Kind, fd.BlockSize)
		}
	}
	if fd.Step == 0 {
		return errors.Errorf("%s step must be positive", fd.Kind)
	}
	if fd.Logical != LogicalNone && fd.CascadeBlockSize == 0 {
		return errors.New("cascade block size must be positive")
	}
	if fd.Logical == LogicalNone && fd.CascadeBlockSize != 0 {
		return errors.New("cascade block size without cascade")
	}
	return nil
}

// Physical returns the descriptor without its logical level
func (fd FormatDescriptor) Physical() FormatDescriptor {
	fd.Logical = LogicalNone
	fd.CascadeBlockSize = 0
	return fd
}

// ParseFormat resolves a short format name for the given processing style,
// e.g. "uncompr", "static_vbp_12", "dynamic_vbp", "k_wise_ns", "delta+dynamic_vbp".
func ParseFormat(name string, ps ProcessingStyle) (FormatDescriptor, error) {
	if !ps.Valid() {
		return FormatDescriptor{}, errors.Errorf("processing style %d unknown", ps)
	}
	name = strings.TrimSpace(name)

	logical := LogicalNone
	phyName := name
	if i := strings.IndexByte(name, '+'); i != -1 {
		switch name[:i] {
		case "delta":
			logical = LogicalDelta
		case "for":
			logical = LogicalFOR
		default:
			return FormatDescriptor{}, errors.Errorf("logical format %q unknown", name[:i])
		}
		phyName = name[i+1:]
	}

	fd, err := parsePhysical(phyName, ps)
	if err != nil {
		return FormatDescriptor{}, err
	}
	if logical != LogicalNone {
		if fd.Kind == FormatUncompr {
			return FormatDescriptor{}, errors.Errorf("format %q: cascade needs a compressed physical format", name)
		}
		fd.Logical = logical
		fd.CascadeBlockSize = DefaultCascadeBlockSize
	}
	return fd, fd.Validate()
}

func parsePhysical(name string, ps ProcessingStyle) (FormatDescriptor, error) {
	step := uint16(ps.VectorElementCount())
	switch {
	case name == "uncompr":
		return Uncompr, nil
	case name == "dynamic_vbp":
		return FormatDescriptor{Kind: FormatDynamicVBP, Step: step, BlockSize: uint32(ps.VectorSizeBit())}, nil
	case name == "k_wise_ns":
		return FormatDescriptor{Kind: FormatKWiseNS, Step: step, BlockSize: uint32(ps.VectorSizeBit())}, nil
	case strings.HasPrefix(name, "static_vbp_"):
		bw, err := strconv.Atoi(strings.TrimPrefix(name, "static_vbp_"))
		if err != nil || bw < 1 || bw > 64 {
			return FormatDescriptor{}, errors.Errorf("static_vbp bit width in %q must be 1..64", name)
		}
		return FormatDescriptor{Kind: FormatStaticVBP, BitWidth: uint8(bw), Step: step}, nil
	default:
		return FormatDescriptor{}, errors.Errorf("format %q unknown", name)
	}
}

// AllFormats lists every format available for the processing style, with
// static_vbp at the given bit width.
func AllFormats(ps ProcessingStyle, staticWidth int) []FormatDescriptor {
	names := []string{
		"uncompr",
		fmt.Sprintf("static_vbp_%d", staticWidth),
		"dynamic_vbp",
		"k_wise_ns",
	}
	for _, phy := range []string{fmt.Sprintf("static_vbp_%d", staticWidth), "dynamic_vbp", "k_wise_ns"} {
		names = append(names, "delta+"+phy, "for+"+phy)
	}
	formats := make([]FormatDescriptor, 0, len(names))
	for _, n := range names {
		fd, err := ParseFormat(n, ps)
		if err != nil {
			// names above are all valid
			panic(err)
		}
		formats = append(formats, fd)
	}
	return formats
}
