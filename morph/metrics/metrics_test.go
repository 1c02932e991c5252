package metrics

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder(t *testing.T) {
	r := NewRecorder()
	r.ObservePhase("load", 2*time.Millisecond)
	r.ObserveStep(0, "select", time.Millisecond, 3)
	r.ObserveStep(1, "project", 3*time.Millisecond, 3)

	assert.Equal(t, []StepStat{
		{Step: 0, Op: "select", Duration: time.Millisecond, Rows: 3},
		{Step: 1, Op: "project", Duration: 3 * time.Millisecond, Rows: 3},
	}, r.Steps())
	assert.Equal(t, float64(3), testutil.ToFloat64(r.rows.WithLabelValues("0", "select")))
	assert.Equal(t, 0.002, testutil.ToFloat64(r.phaseDuration.WithLabelValues("load")))

	buf := &bytes.Buffer{}
	require.NoError(t, r.WriteText(buf))
	out := buf.String()
	assert.Contains(t, out, "step 0 select: 3 rows in 1ms\n")
	assert.Contains(t, out, "# TYPE morph_operator_duration_seconds histogram")
	assert.Contains(t, out, `morph_operator_output_rows_total{op="project",step="1"} 3`)
	assert.Contains(t, out, `morph_phase_duration_seconds{phase="load"} 0.002`)

	expected := `
# HELP morph_operator_output_rows_total Rows in the first output of each operator call
# TYPE morph_operator_output_rows_total counter
morph_operator_output_rows_total{op="project",step="1"} 3
morph_operator_output_rows_total{op="select",step="0"} 3
`
	assert.NoError(t, testutil.GatherAndCompare(r.Registry(), strings.NewReader(expected), "morph_operator_output_rows_total"))

	families, err := r.Registry().Gather()
	require.NoError(t, err)
	assert.Len(t, families, 3)
}
