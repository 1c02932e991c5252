package api

import (
	"strings"

	"github.com/pkg/errors"
)

// ProcessingStyle is the instruction set and vector width operators run with.
// Base type is always 64 bit unsigned.
type ProcessingStyle uint8

const (
	StyleScalar ProcessingStyle = iota
	StyleSSE
	StyleAVX2
	StyleAVX512
	StyleNEON
	stylesCount
)

var styleNames = [stylesCount]string{
	StyleScalar: "scalar",
	StyleSSE:    "sse",
	StyleAVX2:   "avx2",
	StyleAVX512: "avx512",
	StyleNEON:   "neon",
}

var styleVectorBits = [stylesCount]int{
	StyleScalar: 64,
	StyleSSE:    128,
	StyleAVX2:   256,
	StyleAVX512: 512,
	StyleNEON:   128,
}

func (ps ProcessingStyle) String() string {
	if ps >= stylesCount {
		return "unknown"
	}
	return styleNames[ps]
}

// VectorSizeBit is the register width in bits
func (ps ProcessingStyle) VectorSizeBit() int {
	return styleVectorBits[ps]
}

func (ps ProcessingStyle) VectorSizeByte() int {
	return styleVectorBits[ps] / 8
}

// VectorElementCount is number of 64 bit lanes in one register
func (ps ProcessingStyle) VectorElementCount() int {
	return styleVectorBits[ps] / 64
}

func (ps ProcessingStyle) Valid() bool {
	return ps < stylesCount
}

func ParseStyle(s string) (ProcessingStyle, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range styleNames {
		if n == name {
			return ProcessingStyle(i), nil
		}
	}
	return 0, errors.Errorf("processing style %q unknown", s)
}

func AllStyles() []ProcessingStyle {
	styles := make([]ProcessingStyle, 0, stylesCount)
	for ps := StyleScalar; ps < stylesCount; ps++ {
		styles = append(styles, ps)
	}
	return styles
}

func (ps ProcessingStyle) MarshalText() ([]byte, error) {
	if !ps.Valid() {
		return nil, errors.Errorf("processing style %d unknown", ps)
	}
	return []byte(ps.String()), nil
}

func (ps *ProcessingStyle) UnmarshalText(text []byte) error {
	v, err := ParseStyle(string(text))
	if err != nil {
		return err
	}
	*ps = v
	return nil
}
