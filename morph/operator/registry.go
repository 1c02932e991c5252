package operator

import (
	"sort"

	"github.com/pkg/errors"

	"github.com/patrickhuang888/gomorph/morph/api"
	"github.com/patrickhuang888/gomorph/morph/merrors"
	"github.com/patrickhuang888/gomorph/morph/vector"
)

// ParamKind tells which Params fields an operator reads
type ParamKind uint8

const (
	ParamNone ParamKind = iota
	ParamCmp
	ParamCalc
)

type Params struct {
	Cmp   vector.CmpOp
	Value uint64
	Calc  CalcOp
}

// Invocation is one call of an operator inside a program
type Invocation struct {
	Inputs        []*api.Column
	InputFormats  []api.FormatDescriptor
	OutputFormats []api.FormatDescriptor
	Params        Params
}

type runFunc func(env *Env, p Params, in []*api.Column, out []api.FormatDescriptor) ([]*api.Column, error)

// Spec describes an operator to program validation and runs it
type Spec struct {
	Name    string
	Inputs  int
	Outputs int
	Params  ParamKind

	// UniqueInputs must be sorted without duplicates
	UniqueInputs bool
	// Unique derives which outputs are sorted without duplicates
	Unique func(in []bool) []bool

	run runFunc
}

func constUnique(out ...bool) func([]bool) []bool {
	return func([]bool) []bool {
		return out
	}
}

var registry = map[string]*Spec{}

func register(s *Spec) {
	if _, ok := registry[s.Name]; ok {
		panic("operator " + s.Name + " registered twice")
	}
	registry[s.Name] = s
}

func init() {
	register(&Spec{Name: "select", Inputs: 1, Outputs: 1, Params: ParamCmp, Unique: constUnique(true),
		run: func(env *Env, p Params, in []*api.Column, out []api.FormatDescriptor) ([]*api.Column, error) {
			c, err := Select(env, p.Cmp, in[0], p.Value, out[0])
			return []*api.Column{c}, err
		}})
	register(&Spec{Name: "project", Inputs: 2, Outputs: 1,
		Unique: func(in []bool) []bool { return []bool{in[0] && in[1]} },
		run: func(env *Env, p Params, in []*api.Column, out []api.FormatDescriptor) ([]*api.Column, error) {
			c, err := Project(env, in[0], in[1], out[0])
			return []*api.Column{c}, err
		}})
	register(&Spec{Name: "intersect", Inputs: 2, Outputs: 1, UniqueInputs: true, Unique: constUnique(true),
		run: func(env *Env, p Params, in []*api.Column, out []api.FormatDescriptor) ([]*api.Column, error) {
			c, err := IntersectSorted(env, in[0], in[1], out[0])
			return []*api.Column{c}, err
		}})
	register(&Spec{Name: "merge", Inputs: 2, Outputs: 1, UniqueInputs: true, Unique: constUnique(true),
		run: func(env *Env, p Params, in []*api.Column, out []api.FormatDescriptor) ([]*api.Column, error) {
			c, err := MergeSorted(env, in[0], in[1], out[0])
			return []*api.Column{c}, err
		}})
	register(&Spec{Name: "join", Inputs: 2, Outputs: 2,
		// each left row matches at most once against unique right values
		Unique: func(in []bool) []bool { return []bool{in[1], false} },
		run: func(env *Env, p Params, in []*api.Column, out []api.FormatDescriptor) ([]*api.Column, error) {
			l, r, err := NestedLoopJoin(env, in[0], in[1], out[0], out[1])
			return []*api.Column{l, r}, err
		}})
	register(&Spec{Name: "calc", Inputs: 2, Outputs: 1, Params: ParamCalc, Unique: constUnique(false),
		run: func(env *Env, p Params, in []*api.Column, out []api.FormatDescriptor) ([]*api.Column, error) {
			c, err := CalcBinary(env, p.Calc, in[0], in[1], out[0])
			return []*api.Column{c}, err
		}})
	register(&Spec{Name: "sum", Inputs: 1, Outputs: 1, Unique: constUnique(true),
		run: func(env *Env, p Params, in []*api.Column, out []api.FormatDescriptor) ([]*api.Column, error) {
			c, err := AggSum(env, in[0], out[0])
			return []*api.Column{c}, err
		}})
	// inputs: group ids, data, group extents
	register(&Spec{Name: "sum_grouped", Inputs: 3, Outputs: 1, Unique: constUnique(false),
		run: func(env *Env, p Params, in []*api.Column, out []api.FormatDescriptor) ([]*api.Column, error) {
			c, err := AggSumGrouped(env, in[0], in[1], in[2].Len(), out[0])
			return []*api.Column{c}, err
		}})
	register(&Spec{Name: "group", Inputs: 1, Outputs: 2, Unique: constUnique(false, true),
		run: func(env *Env, p Params, in []*api.Column, out []api.FormatDescriptor) ([]*api.Column, error) {
			ids, extents, err := Group(env, in[0], out[0], out[1])
			return []*api.Column{ids, extents}, err
		}})
	register(&Spec{Name: "group_binary", Inputs: 2, Outputs: 2, Unique: constUnique(false, true),
		run: func(env *Env, p Params, in []*api.Column, out []api.FormatDescriptor) ([]*api.Column, error) {
			ids, extents, err := GroupBinary(env, in[0], in[1], out[0], out[1])
			return []*api.Column{ids, extents}, err
		}})
}

func Lookup(name string) (*Spec, error) {
	s, ok := registry[name]
	if !ok {
		return nil, merrors.NewInvalidProgramError("operator %q unknown", name)
	}
	return s, nil
}

// Names lists the registered operators in order
func Names() []string {
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Run checks inv against the operator's arity and declared formats and calls it
func (s *Spec) Run(env *Env, inv Invocation) ([]*api.Column, error) {
	if len(inv.Inputs) != s.Inputs || len(inv.InputFormats) != s.Inputs {
		return nil, merrors.NewInvalidProgramError("%s takes %d inputs, got %d columns and %d formats", s.Name, s.Inputs, len(inv.Inputs), len(inv.InputFormats))
	}
	if len(inv.OutputFormats) != s.Outputs {
		return nil, merrors.NewInvalidProgramError("%s has %d outputs, got %d formats", s.Name, s.Outputs, len(inv.OutputFormats))
	}
	for i, c := range inv.Inputs {
		if c.Format() != inv.InputFormats[i] {
			return nil, merrors.NewFormatMismatchError(s.Name+" input", inv.InputFormats[i], c.Format())
		}
	}

	out, err := s.run(env, inv.Params, inv.Inputs, inv.OutputFormats)
	if err != nil {
		return nil, err
	}
	for i, c := range out {
		if c.Format() != inv.OutputFormats[i] {
			return nil, errors.Errorf("%s produced %s for output %d declared %s", s.Name, c.Format(), i, inv.OutputFormats[i])
		}
	}
	return out, nil
}
