//go:build morph_analyze
// +build morph_analyze

package morph

const analysisEnabled = true
