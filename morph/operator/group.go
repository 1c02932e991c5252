package operator

import (
	"github.com/patrickhuang888/gomorph/morph/api"
	"github.com/patrickhuang888/gomorph/morph/merrors"
)

// Group assigns each value of data a group id, numbered by first appearance.
// Extents holds the position of each group's first row.
func Group(env *Env, data *api.Column, outIds, outExtents api.FormatDescriptor) (*api.Column, *api.Column, error) {
	vs, err := decode(data)
	if err != nil {
		return nil, nil, err
	}
	groups := make(map[uint64]uint64)
	ids := make([]uint64, len(vs))
	var extents []uint64
	for i, v := range vs {
		id, ok := groups[v]
		if !ok {
			id = uint64(len(extents))
			groups[v] = id
			extents = append(extents, uint64(i))
		}
		ids[i] = id
	}
	return encodeGroups(ids, extents, outIds, outExtents)
}

type groupKey struct {
	group uint64
	value uint64
}

// GroupBinary refines an existing grouping by the values of data
func GroupBinary(env *Env, groupIds, data *api.Column, outIds, outExtents api.FormatDescriptor) (*api.Column, *api.Column, error) {
	gs, err := decode(groupIds)
	if err != nil {
		return nil, nil, err
	}
	vs, err := decode(data)
	if err != nil {
		return nil, nil, err
	}
	if len(gs) != len(vs) {
		return nil, nil, merrors.NewMorphErrorf(merrors.InvalidInput, "group of %d group ids and %d values", len(gs), len(vs))
	}

	groups := make(map[groupKey]uint64)
	ids := make([]uint64, len(vs))
	var extents []uint64
	for i, v := range vs {
		k := groupKey{group: gs[i], value: v}
		id, ok := groups[k]
		if !ok {
			id = uint64(len(extents))
			groups[k] = id
			extents = append(extents, uint64(i))
		}
		ids[i] = id
	}
	return encodeGroups(ids, extents, outIds, outExtents)
}

func encodeGroups(ids, extents []uint64, outIds, outExtents api.FormatDescriptor) (*api.Column, *api.Column, error) {
	logger.Debugf("group: %d rows in %d groups", len(ids), len(extents))
	if extents == nil {
		extents = []uint64{}
	}
	ic, err := encode(outIds, ids)
	if err != nil {
		return nil, nil, err
	}
	ec, err := encode(outExtents, extents)
	if err != nil {
		return nil, nil, err
	}
	return ic, ec, nil
}
