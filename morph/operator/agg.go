package operator

import (
	"math/bits"

	"github.com/patrickhuang888/gomorph/morph/api"
	"github.com/patrickhuang888/gomorph/morph/merrors"
	"github.com/patrickhuang888/gomorph/morph/vector"
)

// AggSum returns a column of one value, the sum of data
func AggSum(env *Env, data *api.Column, out api.FormatDescriptor) (*api.Column, error) {
	vs, err := decode(data)
	if err != nil {
		return nil, err
	}

	wide := env.Prims
	acc := wide.Set1(0)
	var tail uint64
	err = env.vectorized(len(vs), func(p vector.Primitives, i int) error {
		var overflow vector.Mask
		if p == wide {
			acc, overflow = p.Add(acc, p.Load(vs[i:]))
		} else {
			var r vector.Register
			r, overflow = p.Add(p.Set1(tail), p.Load(vs[i:]))
			tail = r[0]
		}
		if overflow != 0 {
			return merrors.NewNumericOverflowError("sum near position %d", i)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sum, overflow := wide.HAdd(acc)
	if overflow {
		return nil, merrors.NewNumericOverflowError("sum of lanes")
	}
	s, carry := bits.Add64(sum, tail, 0)
	if carry != 0 {
		return nil, merrors.NewNumericOverflowError("sum of vectors and remainder")
	}
	return encode(out, []uint64{s})
}

// AggSumGrouped sums data per group id, groupCount is the number of groups
func AggSumGrouped(env *Env, groupIds, data *api.Column, groupCount int, out api.FormatDescriptor) (*api.Column, error) {
	ids, err := decode(groupIds)
	if err != nil {
		return nil, err
	}
	vs, err := decode(data)
	if err != nil {
		return nil, err
	}
	if len(ids) != len(vs) {
		return nil, merrors.NewMorphErrorf(merrors.InvalidInput, "grouped sum of %d group ids and %d values", len(ids), len(vs))
	}

	sums := make([]uint64, groupCount)
	p := vector.Scalar()
	for i, g := range ids {
		if g >= uint64(groupCount) {
			return nil, merrors.NewMorphErrorf(merrors.InvalidInput, "group id %d of %d groups", g, groupCount)
		}
		r, overflow := p.Add(p.Set1(sums[g]), p.Set1(vs[i]))
		if overflow != 0 {
			return nil, merrors.NewNumericOverflowError("sum of group %d", g)
		}
		sums[g] = r[0]
	}
	return encode(out, sums)
}
