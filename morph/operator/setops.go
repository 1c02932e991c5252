package operator

import (
	"github.com/patrickhuang888/gomorph/morph/api"
	"github.com/patrickhuang888/gomorph/morph/merrors"
)

func sortedUnique(name string, vs []uint64) error {
	for i := 1; i < len(vs); i++ {
		if vs[i] <= vs[i-1] {
			return merrors.NewMorphErrorf(merrors.InvalidInput, "%s input not sorted unique at %d", name, i)
		}
	}
	return nil
}

func decodeSorted(name string, l, r *api.Column) ([]uint64, []uint64, error) {
	lv, err := decode(l)
	if err != nil {
		return nil, nil, err
	}
	rv, err := decode(r)
	if err != nil {
		return nil, nil, err
	}
	if err = sortedUnique(name, lv); err != nil {
		return nil, nil, err
	}
	if err = sortedUnique(name, rv); err != nil {
		return nil, nil, err
	}
	return lv, rv, nil
}

// IntersectSorted returns the values in both sorted unique inputs
func IntersectSorted(env *Env, l, r *api.Column, out api.FormatDescriptor) (*api.Column, error) {
	lv, rv, err := decodeSorted("intersect", l, r)
	if err != nil {
		return nil, err
	}
	n := len(lv)
	if len(rv) < n {
		n = len(rv)
	}
	res := make([]uint64, 0, n)
	for i, j := 0, 0; i < len(lv) && j < len(rv); {
		switch {
		case lv[i] < rv[j]:
			i++
		case lv[i] > rv[j]:
			j++
		default:
			res = append(res, lv[i])
			i++
			j++
		}
	}
	return encode(out, res)
}

// MergeSorted returns the values in either sorted unique input
func MergeSorted(env *Env, l, r *api.Column, out api.FormatDescriptor) (*api.Column, error) {
	lv, rv, err := decodeSorted("merge", l, r)
	if err != nil {
		return nil, err
	}
	res := make([]uint64, 0, len(lv)+len(rv))
	i, j := 0, 0
	for i < len(lv) && j < len(rv) {
		switch {
		case lv[i] < rv[j]:
			res = append(res, lv[i])
			i++
		case lv[i] > rv[j]:
			res = append(res, rv[j])
			j++
		default:
			res = append(res, lv[i])
			i++
			j++
		}
	}
	res = append(res, lv[i:]...)
	res = append(res, rv[j:]...)
	return encode(out, res)
}
