package operator

import (
	"github.com/patrickhuang888/gomorph/morph/api"
	"github.com/patrickhuang888/gomorph/morph/vector"
)

// Select returns the sorted positions of data whose value satisfies op against value
func Select(env *Env, op vector.CmpOp, data *api.Column, value uint64, out api.FormatDescriptor) (*api.Column, error) {
	vs, err := decode(data)
	if err != nil {
		return nil, err
	}
	positions := make([]uint64, 0, len(vs)/2)
	err = env.vectorized(len(vs), func(p vector.Primitives, i int) error {
		m := p.Compare(op, p.Load(vs[i:]), p.Set1(value))
		for lane := 0; m != 0; lane++ {
			if m.Has(lane) {
				positions = append(positions, uint64(i+lane))
				m &^= 1 << uint(lane)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	logger.Debugf("select %s %d: %d of %d", op, value, len(positions), len(vs))
	return encode(out, positions)
}
