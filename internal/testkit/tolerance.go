package testkit

import (
	"fmt"
	"math"
)

// Tolerance defines acceptable numeric drift versus reference outputs.
type Tolerance struct {
	Abs float64
	Rel float64
}

// KernelTolerances defines per-kernel parity targets for validating
// tuned kernels against untuned baselines. Reductions accumulate more
// drift than elementwise ops, hence the looser bounds.
var KernelTolerances = map[string]Tolerance{
	"matmul":       {Abs: 1e-4, Rel: 1e-4},
	"batch_matmul": {Abs: 1e-4, Rel: 1e-4},
	"conv":         {Abs: 2e-4, Rel: 2e-4},
	"attention":    {Abs: 2e-4, Rel: 2e-4},
	"reduction":    {Abs: 2e-4, Rel: 1e-4},
	"elementwise":  {Abs: 1e-6, Rel: 0},
}

// KernelTolerance looks up the tolerance for a kernel class.
func KernelTolerance(name string) (Tolerance, error) {
	t, ok := KernelTolerances[name]
	if !ok {
		return Tolerance{}, fmt.Errorf("testkit: no tolerance configured for kernel %q", name)
	}
	return t, nil
}

// Close reports whether actual is within the tolerance of expected:
// |actual-expected| <= Abs + Rel*|expected|.
func (t Tolerance) Close(actual, expected float64) bool {
	return math.Abs(actual-expected) <= t.Abs+t.Rel*math.Abs(expected)
}
