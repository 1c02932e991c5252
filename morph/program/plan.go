package program

import (
	"strings"

	"github.com/patrickhuang888/gomorph/morph/api"
	"github.com/patrickhuang888/gomorph/morph/compress"
	"github.com/patrickhuang888/gomorph/morph/merrors"
	"github.com/patrickhuang888/gomorph/morph/operator"
	"github.com/patrickhuang888/gomorph/morph/vector"
)

// BaseColumn is a column the Load phase reads from the data directory
type BaseColumn struct {
	Table  string
	Column string
	Format api.FormatDescriptor
	Unique bool
}

// Var is the variable name of the base column inside a program
func (b BaseColumn) Var() string {
	return b.Table + "." + b.Column
}

type PlanStep struct {
	Spec          *operator.Spec
	In            []string
	Out           []string
	InputFormats  []api.FormatDescriptor
	OutputFormats []api.FormatDescriptor
	Params        operator.Params
}

// Plan is a validated program, every format resolved for the style
type Plan struct {
	Style   api.ProcessingStyle
	Columns []BaseColumn
	Steps   []PlanStep
	Result  []string

	Formats map[string]api.FormatDescriptor
	Unique  map[string]bool
	// LastUse is the index of the step reading a variable the last time,
	// len(Steps) for results
	LastUse map[string]int

	OutputStdout      bool
	OutputDir         string
	OutputCompression compress.Kind
}

// Compile validates p and resolves it for its processing style
func Compile(p *Program) (*Plan, error) {
	if !p.Style.Valid() {
		return nil, merrors.NewInvalidProgramError("processing style %d unknown", p.Style)
	}
	plan := &Plan{
		Style:        p.Style,
		Formats:      make(map[string]api.FormatDescriptor),
		Unique:       make(map[string]bool),
		LastUse:      make(map[string]int),
		OutputStdout: p.Output.Stdout,
		OutputDir:    p.Output.Dir,
	}
	kind, err := compress.ParseKind(p.Output.Compression)
	if err != nil {
		return nil, merrors.NewInvalidProgramError("output: %v", err)
	}
	plan.OutputCompression = kind

	for _, t := range p.Schema {
		if !validName(t.Name) {
			return nil, merrors.NewInvalidProgramError("table name %q", t.Name)
		}
		for _, c := range t.Columns {
			if !validName(c.Name) {
				return nil, merrors.NewInvalidProgramError("column name %q in table %s", c.Name, t.Name)
			}
			fd, err := api.ParseFormat(c.Format, p.Style)
			if err != nil {
				return nil, merrors.NewInvalidProgramError("column %s.%s: %v", t.Name, c.Name, err)
			}
			b := BaseColumn{Table: t.Name, Column: c.Name, Format: fd, Unique: c.Unique}
			if err = plan.assign(b.Var(), fd, c.Unique); err != nil {
				return nil, err
			}
			plan.Columns = append(plan.Columns, b)
		}
	}

	for i, s := range p.Steps {
		ps, err := plan.compileStep(i, s)
		if err != nil {
			return nil, err
		}
		plan.Steps = append(plan.Steps, *ps)
	}

	if len(p.Result) == 0 {
		return nil, merrors.NewInvalidProgramError("no result variables")
	}
	for _, r := range p.Result {
		if _, ok := plan.Formats[r]; !ok {
			return nil, merrors.NewInvalidProgramError("result %s is never assigned", r)
		}
		plan.LastUse[r] = len(plan.Steps)
	}
	plan.Result = append(plan.Result, p.Result...)
	logger.Debugf("compiled program: %d base columns, %d steps, style %s", len(plan.Columns), len(plan.Steps), plan.Style)
	return plan, nil
}

func validName(n string) bool {
	return n != "" && !strings.ContainsAny(n, "./\\ \t")
}

func (plan *Plan) assign(v string, fd api.FormatDescriptor, unique bool) error {
	if v == "" {
		return merrors.NewInvalidProgramError("empty variable name")
	}
	if _, ok := plan.Formats[v]; ok {
		return merrors.NewInvalidProgramError("variable %s assigned twice", v)
	}
	plan.Formats[v] = fd
	plan.Unique[v] = unique
	return nil
}

func (plan *Plan) compileStep(i int, s Step) (*PlanStep, error) {
	spec, err := operator.Lookup(s.Op)
	if err != nil {
		return nil, merrors.NewInvalidProgramError("step %d: %v", i, err)
	}
	if len(s.In) != spec.Inputs {
		return nil, merrors.NewInvalidProgramError("step %d: %s takes %d inputs, has %d", i, s.Op, spec.Inputs, len(s.In))
	}
	if len(s.Out) != spec.Outputs {
		return nil, merrors.NewInvalidProgramError("step %d: %s has %d outputs, has %d", i, s.Op, spec.Outputs, len(s.Out))
	}

	ps := &PlanStep{Spec: spec, In: s.In, Out: s.Out}
	switch spec.Params {
	case operator.ParamCmp:
		if ps.Params.Cmp, err = vector.ParseCmpOp(s.Cmp); err != nil {
			return nil, merrors.NewInvalidProgramError("step %d: %v", i, err)
		}
		ps.Params.Value = s.Value
	case operator.ParamCalc:
		if ps.Params.Calc, err = operator.ParseCalcOp(s.Calc); err != nil {
			return nil, merrors.NewInvalidProgramError("step %d: %v", i, err)
		}
	}

	inUnique := make([]bool, len(s.In))
	for j, v := range s.In {
		fd, ok := plan.Formats[v]
		if !ok {
			return nil, merrors.NewInvalidProgramError("step %d: variable %s used before assigned", i, v)
		}
		if spec.UniqueInputs && !plan.Unique[v] {
			return nil, merrors.NewInvalidProgramError("step %d: %s needs unique input, %s is not", i, s.Op, v)
		}
		ps.InputFormats = append(ps.InputFormats, fd)
		inUnique[j] = plan.Unique[v]
		plan.LastUse[v] = i
	}

	names := append([]string(nil), s.Formats...)
	switch {
	case len(names) == 0:
		names = []string{"uncompr"}
		fallthrough
	case len(names) == 1:
		for len(names) < len(s.Out) {
			names = append(names, names[0])
		}
	case len(names) != len(s.Out):
		return nil, merrors.NewInvalidProgramError("step %d: %d formats for %d outputs", i, len(names), len(s.Out))
	}
	outUnique := spec.Unique(inUnique)
	for j, v := range s.Out {
		// outputs may become result file names
		if !validName(v) {
			return nil, merrors.NewInvalidProgramError("step %d output name %q", i, v)
		}
		fd, err := api.ParseFormat(names[j], plan.Style)
		if err != nil {
			return nil, merrors.NewInvalidProgramError("step %d output %s: %v", i, v, err)
		}
		if err = plan.assign(v, fd, outUnique[j]); err != nil {
			return nil, err
		}
		ps.OutputFormats = append(ps.OutputFormats, fd)
	}
	return ps, nil
}
