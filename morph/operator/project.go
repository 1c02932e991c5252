package operator

import (
	"github.com/patrickhuang888/gomorph/morph/api"
	"github.com/patrickhuang888/gomorph/morph/encoding"
	"github.com/patrickhuang888/gomorph/morph/merrors"
)

// Project returns the values of data at positions, data has to be random access
func Project(env *Env, data *api.Column, positions *api.Column, out api.FormatDescriptor) (*api.Column, error) {
	if !data.Format().RandomAccess() {
		return nil, merrors.NewUnsupportedFormatError("project", data.Format())
	}
	acc, err := encoding.NewAccessor(data)
	if err != nil {
		return nil, err
	}
	pos, err := decode(positions)
	if err != nil {
		return nil, err
	}

	values := make([]uint64, len(pos))
	for i, p := range pos {
		if p >= uint64(acc.Len()) {
			return nil, merrors.NewMorphErrorf(merrors.InvalidInput, "project position %d out of column of %d values", p, acc.Len())
		}
		if values[i], err = acc.At(int(p)); err != nil {
			return nil, err
		}
	}
	return encode(out, values)
}
