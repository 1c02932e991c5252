package operator

import (
	"github.com/patrickhuang888/gomorph/morph/api"
	"github.com/patrickhuang888/gomorph/morph/vector"
)

// NestedLoopJoin is the equi join of l and r, it returns the positions of
// matching pairs in left-major order
func NestedLoopJoin(env *Env, l, r *api.Column, outL, outR api.FormatDescriptor) (*api.Column, *api.Column, error) {
	lv, err := decode(l)
	if err != nil {
		return nil, nil, err
	}
	rv, err := decode(r)
	if err != nil {
		return nil, nil, err
	}

	var lPos, rPos []uint64
	for i, v := range lv {
		err = env.vectorized(len(rv), func(p vector.Primitives, j int) error {
			m := p.Compare(vector.Eq, p.Set1(v), p.Load(rv[j:]))
			for lane := 0; m != 0; lane++ {
				if m.Has(lane) {
					lPos = append(lPos, uint64(i))
					rPos = append(rPos, uint64(j+lane))
					m &^= 1 << uint(lane)
				}
			}
			return nil
		})
		if err != nil {
			return nil, nil, err
		}
	}
	logger.Debugf("nested loop join %d x %d: %d pairs", len(lv), len(rv), len(lPos))

	lc, err := encode(outL, lPos)
	if err != nil {
		return nil, nil, err
	}
	rc, err := encode(outR, rPos)
	if err != nil {
		return nil, nil, err
	}
	return lc, rc, nil
}
