package metrics

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

// StepStat is the instrumentation of one operator call
type StepStat struct {
	Step     int
	Op       string
	Duration time.Duration
	Rows     int
}

// Recorder collects per-phase and per-operator instrumentation of one query
// run on its own registry
type Recorder struct {
	registry *prometheus.Registry

	phaseDuration *prometheus.GaugeVec
	opDuration    *prometheus.HistogramVec
	rows          *prometheus.CounterVec

	steps []StepStat
}

func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		phaseDuration: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "morph_phase_duration_seconds",
			Help: "Duration of each pipeline phase",
		}, []string{"phase"}),
		opDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "morph_operator_duration_seconds",
			Help:    "Duration of operator calls",
			Buckets: prometheus.ExponentialBuckets(1e-6, 10, 8),
		}, []string{"op"}),
		rows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "morph_operator_output_rows_total",
			Help: "Rows in the first output of each operator call",
		}, []string{"step", "op"}),
	}
	r.registry.MustRegister(r.phaseDuration, r.opDuration, r.rows)
	return r
}

func (r *Recorder) ObservePhase(phase string, d time.Duration) {
	r.phaseDuration.WithLabelValues(phase).Set(d.Seconds())
}

func (r *Recorder) ObserveStep(step int, op string, d time.Duration, rows int) {
	r.opDuration.WithLabelValues(op).Observe(d.Seconds())
	r.rows.WithLabelValues(strconv.Itoa(step), op).Add(float64(rows))
	r.steps = append(r.steps, StepStat{Step: step, Op: op, Duration: d, Rows: rows})
}

// Steps returns the operator calls in execution order
func (r *Recorder) Steps() []StepStat {
	return r.steps
}

// Registry gathers the metrics of this recorder only
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// WriteText writes the step table and then all metrics in the text exposition format
func (r *Recorder) WriteText(w io.Writer) error {
	for _, s := range r.steps {
		if _, err := fmt.Fprintf(w, "step %d %s: %d rows in %s\n", s.Step, s.Op, s.Rows, s.Duration); err != nil {
			return errors.WithStack(err)
		}
	}
	families, err := r.registry.Gather()
	if err != nil {
		return errors.WithStack(err)
	}
	for _, mf := range families {
		if _, err = expfmt.MetricFamilyToText(w, mf); err != nil {
			return errors.WithStack(err)
		}
	}
	return nil
}
