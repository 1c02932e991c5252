//go:build !morph_analyze
// +build !morph_analyze

package morph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patrickhuang888/gomorph/morph/api"
)

func TestRunWithoutAnalysis(t *testing.T) {
	dir := t.TempDir()
	writeColumn(t, dir, "t", "v", api.Uncompr, []uint64{3, 1, 4, 1, 5})

	p, stdout, diag := newPipeline(t, compile(t, scenario), dir)
	require.NoError(t, p.Run())
	assert.Equal(t, PhaseOutput, p.Phase())
	assert.Equal(t, "3,0\n4,2\n5,4\n", stdout.String())
	assert.Equal(t, "Loading the base data started... done.\n"+
		"Query execution started... done.\n"+
		"Result output started... done.\n", diag.String())
}
