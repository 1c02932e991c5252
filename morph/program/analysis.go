package program

import (
	"fmt"
	"io"
	"sort"
)

// Analysis is what can be told about a plan without running it
type Analysis struct {
	// NeverUsed lists variables assigned but neither read nor in the result
	NeverUsed []string
	// Unique lists variables known to be sorted without duplicates
	Unique []string
}

func Analyze(plan *Plan) *Analysis {
	a := &Analysis{}
	for v := range plan.Formats {
		if _, used := plan.LastUse[v]; !used {
			a.NeverUsed = append(a.NeverUsed, v)
		}
		if plan.Unique[v] {
			a.Unique = append(a.Unique, v)
		}
	}
	sort.Strings(a.NeverUsed)
	sort.Strings(a.Unique)
	return a
}

func (a *Analysis) Write(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "never used variables: %d\n", len(a.NeverUsed)); err != nil {
		return err
	}
	for _, v := range a.NeverUsed {
		if _, err := fmt.Fprintf(w, "\t%s\n", v); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(w, "unique variables: %d\n", len(a.Unique)); err != nil {
		return err
	}
	for _, v := range a.Unique {
		if _, err := fmt.Fprintf(w, "\t%s\n", v); err != nil {
			return err
		}
	}
	return nil
}
