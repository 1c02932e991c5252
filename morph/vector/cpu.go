package vector

import (
	"golang.org/x/sys/cpu"

	"github.com/patrickhuang888/gomorph/morph/api"
	"github.com/patrickhuang888/gomorph/morph/merrors"
)

// Available reports whether the executing machine has the instruction set of ps
func Available(ps api.ProcessingStyle) bool {
	switch ps {
	case api.StyleScalar:
		return true
	case api.StyleSSE:
		return cpu.X86.HasSSE2
	case api.StyleAVX2:
		return cpu.X86.HasAVX2
	case api.StyleAVX512:
		return cpu.X86.HasAVX512F
	case api.StyleNEON:
		return cpu.ARM64.HasASIMD
	default:
		return false
	}
}

// For returns the primitive set of ps, the check against the executing CPU
// happens here once per program
func For(ps api.ProcessingStyle) (Primitives, error) {
	if !ps.Valid() {
		return nil, merrors.NewMorphErrorf(merrors.InvalidProgram, "processing style %d unknown", ps)
	}
	if !Available(ps) {
		return nil, merrors.NewStyleUnavailableError(ps)
	}
	logger.Debugf("processing style %s, %d lanes", ps, ps.VectorElementCount())
	return Unchecked(ps), nil
}

// Unchecked returns the primitive set of ps without asking the CPU, the lane
// semantics do not depend on it
func Unchecked(ps api.ProcessingStyle) Primitives {
	if ps == api.StyleScalar {
		return scalar
	}
	return newLanes(ps)
}
