package operator

import (
	"github.com/pkg/errors"

	"github.com/patrickhuang888/gomorph/morph/api"
	"github.com/patrickhuang888/gomorph/morph/merrors"
	"github.com/patrickhuang888/gomorph/morph/vector"
)

type CalcOp uint8

const (
	CalcAdd CalcOp = iota
	CalcSub
	CalcMul
	calcOpsCount
)

var calcOpNames = [calcOpsCount]string{CalcAdd: "add", CalcSub: "sub", CalcMul: "mul"}

func (op CalcOp) String() string {
	if op >= calcOpsCount {
		return "unknown"
	}
	return calcOpNames[op]
}

func ParseCalcOp(s string) (CalcOp, error) {
	for op, n := range calcOpNames {
		if n == s {
			return CalcOp(op), nil
		}
	}
	return 0, errors.Errorf("calculation %q unknown", s)
}

func (op CalcOp) apply(p vector.Primitives, a, b vector.Register) (vector.Register, vector.Mask) {
	switch op {
	case CalcSub:
		return p.Sub(a, b)
	case CalcMul:
		return p.Mul(a, b)
	default:
		return p.Add(a, b)
	}
}

// CalcBinary combines l and r element wise, any lane leaving the 64 bit
// unsigned range fails the operator
func CalcBinary(env *Env, op CalcOp, l, r *api.Column, out api.FormatDescriptor) (*api.Column, error) {
	if op >= calcOpsCount {
		return nil, merrors.NewInvalidProgramError("calculation %d unknown", op)
	}
	lv, err := decode(l)
	if err != nil {
		return nil, err
	}
	rv, err := decode(r)
	if err != nil {
		return nil, err
	}
	if len(lv) != len(rv) {
		return nil, merrors.NewMorphErrorf(merrors.InvalidInput, "calc %s on columns of %d and %d values", op, len(lv), len(rv))
	}

	res := make([]uint64, len(lv))
	err = env.vectorized(len(lv), func(p vector.Primitives, i int) error {
		v, overflow := op.apply(p, p.Load(lv[i:]), p.Load(rv[i:]))
		if overflow != 0 {
			return merrors.NewNumericOverflowError("calc %s near position %d", op, i)
		}
		p.Store(res[i:], v)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return encode(out, res)
}
