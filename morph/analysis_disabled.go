//go:build !morph_analyze
// +build !morph_analyze

package morph

// analysis runs only in programs built with the morph_analyze tag
const analysisEnabled = false
