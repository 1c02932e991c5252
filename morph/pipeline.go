package morph

import (
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/patrickhuang888/gomorph/morph/api"
	"github.com/patrickhuang888/gomorph/morph/config"
	mio "github.com/patrickhuang888/gomorph/morph/io"
	"github.com/patrickhuang888/gomorph/morph/merrors"
	"github.com/patrickhuang888/gomorph/morph/metrics"
	"github.com/patrickhuang888/gomorph/morph/operator"
	"github.com/patrickhuang888/gomorph/morph/program"
	"github.com/patrickhuang888/gomorph/morph/vector"
)

type Phase int

const (
	PhaseStart Phase = iota
	PhaseLoad
	PhaseExecute
	PhaseOutput
	PhaseAnalyze
)

var phaseNames = [...]string{"start", "load", "execute", "output", "analyze"}

func (p Phase) String() string {
	if p < 0 || int(p) >= len(phaseNames) {
		return "unknown"
	}
	return phaseNames[p]
}

var phaseMessages = [...]string{
	PhaseLoad:    "Loading the base data",
	PhaseExecute: "Query execution",
	PhaseOutput:  "Result output",
	PhaseAnalyze: "Analysis",
}

type Options struct {
	// DataDir holds the base column files
	DataDir string
	Reader  config.ReaderOptions
	// Writer is used for result column files, its compression kind is
	// replaced by the program's
	Writer config.WriterOptions

	// Stdout receives the result rows, Diag the phase messages and the analysis
	Stdout io.Writer
	Diag   io.Writer
}

// Pipeline runs one plan through the phases Load, Execute, Output and, when
// built in, Analyze. Each phase runs once and only after its predecessor.
type Pipeline struct {
	plan *program.Plan
	opts Options
	env  *operator.Env

	phase Phase
	vars  map[string]*api.Column

	recorder *metrics.Recorder
}

// NewPipeline checks the plan's processing style against the executing machine
func NewPipeline(plan *program.Plan, opts Options) (*Pipeline, error) {
	prims, err := vector.For(plan.Style)
	if err != nil {
		return nil, err
	}
	return &Pipeline{
		plan:     plan,
		opts:     opts,
		env:      operator.NewEnv(prims),
		vars:     make(map[string]*api.Column),
		recorder: metrics.NewRecorder(),
	}, nil
}

func (p *Pipeline) Phase() Phase {
	return p.phase
}

func (p *Pipeline) Recorder() *metrics.Recorder {
	return p.recorder
}

// Run runs all phases, stopping at the first failure
func (p *Pipeline) Run() error {
	for _, step := range []func() error{p.Load, p.Execute, p.Output} {
		if err := step(); err != nil {
			return err
		}
	}
	if analysisEnabled {
		return p.Analyze()
	}
	return nil
}

// enter moves to next, it reports the start of the phase and returns the
// function reporting its end
func (p *Pipeline) enter(next Phase) (func(err error), error) {
	if p.phase != next-1 {
		return nil, merrors.NewMorphErrorf(merrors.InternalError, "phase %s after phase %s", next, p.phase)
	}
	p.phase = next
	fmt.Fprintf(p.opts.Diag, "%s started... ", phaseMessages[next])
	start := time.Now()
	return func(err error) {
		p.recorder.ObservePhase(next.String(), time.Since(start))
		if err != nil {
			fmt.Fprintln(p.opts.Diag, "failed.")
			return
		}
		fmt.Fprintln(p.opts.Diag, "done.")
	}, nil
}

// Load reads every base column of the plan from the data directory
func (p *Pipeline) Load() (err error) {
	done, err := p.enter(PhaseLoad)
	if err != nil {
		return err
	}
	defer func() { done(err) }()

	for _, b := range p.plan.Columns {
		path := filepath.Join(p.opts.DataDir, mio.ColumnFileName(b.Table, b.Column, b.Format))
		col, err := mio.Load(path, b.Format, p.opts.Reader)
		if err != nil {
			return err
		}
		logger.Debugf("base column %s: %s", b.Var(), col)
		p.vars[b.Var()] = col
	}
	p.release(-1)
	return nil
}

// Execute runs the steps in order, a variable is dropped after its last use
func (p *Pipeline) Execute() (err error) {
	done, err := p.enter(PhaseExecute)
	if err != nil {
		return err
	}
	defer func() { done(err) }()

	for i, s := range p.plan.Steps {
		inv := operator.Invocation{
			Inputs:        make([]*api.Column, len(s.In)),
			InputFormats:  s.InputFormats,
			OutputFormats: s.OutputFormats,
			Params:        s.Params,
		}
		for j, v := range s.In {
			inv.Inputs[j] = p.vars[v]
		}

		start := time.Now()
		out, err := s.Spec.Run(p.env, inv)
		if err != nil {
			logger.Debugf("step %d %s failed: %+v", i, s.Spec.Name, err)
			return err
		}
		p.recorder.ObserveStep(i, s.Spec.Name, time.Since(start), out[0].Len())

		for j, v := range s.Out {
			p.vars[v] = out[j]
		}
		p.release(i)
	}
	return nil
}

// release drops the variables last read by step, -1 drops those never read
func (p *Pipeline) release(step int) {
	for v := range p.vars {
		last, used := p.plan.LastUse[v]
		if (step == -1 && !used) || (used && last == step) {
			logger.Tracef("releasing %s after step %d", v, step)
			delete(p.vars, v)
		}
	}
}

// Output writes the result columns, it is the only phase writing to Stdout
func (p *Pipeline) Output() (err error) {
	done, err := p.enter(PhaseOutput)
	if err != nil {
		return err
	}
	defer func() { done(err) }()

	results := make([]*api.Column, len(p.plan.Result))
	for i, v := range p.plan.Result {
		results[i] = p.vars[v]
	}
	if p.plan.OutputStdout {
		if err = writeCSV(p.opts.Stdout, results); err != nil {
			return err
		}
	}
	if p.plan.OutputDir != "" {
		dir := p.plan.OutputDir
		if !filepath.IsAbs(dir) {
			dir = filepath.Join(p.opts.DataDir, dir)
		}
		wopts := p.opts.Writer
		wopts.CompressionKind = p.plan.OutputCompression
		if err = storeResults(dir, p.plan.Result, results, wopts); err != nil {
			return err
		}
	}
	return nil
}

// Analyze reports the static program analysis and the instrumentation of Execute
func (p *Pipeline) Analyze() (err error) {
	done, err := p.enter(PhaseAnalyze)
	if err != nil {
		return err
	}
	a := program.Analyze(p.plan)
	done(nil)

	if err = a.Write(p.opts.Diag); err != nil {
		return merrors.NewMorphErrorf(merrors.IoError, "writing analysis: %v", err)
	}
	if err = p.recorder.WriteText(p.opts.Diag); err != nil {
		return merrors.NewMorphErrorf(merrors.IoError, "writing instrumentation: %v", err)
	}
	return nil
}
