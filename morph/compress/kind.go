package compress

import (
	"strings"

	"github.com/pkg/errors"
)

// Kind is the block compression wrapped around an encoded column payload,
// independent of the column's format.
type Kind uint8

const (
	None Kind = iota
	Zlib
	Snappy
	Zstd
	kindsCount
)

var kindNames = [kindsCount]string{
	None:   "none",
	Zlib:   "zlib",
	Snappy: "snappy",
	Zstd:   "zstd",
}

func (k Kind) String() string {
	if k >= kindsCount {
		return "unknown"
	}
	return kindNames[k]
}

func (k Kind) Valid() bool {
	return k < kindsCount
}

func ParseKind(s string) (Kind, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "" {
		return None, nil
	}
	for i, n := range kindNames {
		if n == name {
			return Kind(i), nil
		}
	}
	return None, errors.Errorf("unknown compression kind %q", s)
}
