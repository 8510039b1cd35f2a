package testkit

import (
	"fmt"
	"math"
	"reflect"
	"sort"
	"testing"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// VectorCloseOption configures AssertVectorClose.
type VectorCloseOption func(*vectorCloseConfig)

type vectorCloseConfig struct {
	maxOutliersFraction float64
	inlierAtol          float64
	outliers            bool
}

// WithOutlierBudget additionally enforces a tighter inlierAtol bound on
// all but maxFraction of the elements. The plain atol remains a hard
// bound on every element.
func WithOutlierBudget(maxFraction, inlierAtol float64) VectorCloseOption {
	return func(c *vectorCloseConfig) {
		c.maxOutliersFraction = maxFraction
		c.inlierAtol = inlierAtol
		c.outliers = true
	}
}

// AssertVectorClose fails the test unless every element of actual is
// within atol of the corresponding element of expected. On failure the
// message carries summary statistics of the difference, which is what
// one actually wants when a tuned kernel drifts.
func AssertVectorClose(tb testing.TB, actual, expected []float64, atol float64, opts ...VectorCloseOption) {
	tb.Helper()

	var cfg vectorCloseConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	if len(actual) != len(expected) {
		tb.Fatalf("length mismatch: actual %d, expected %d", len(actual), len(expected))
	}
	if len(actual) == 0 {
		return
	}

	diff := make([]float64, len(actual))
	floats.SubTo(diff, actual, expected)

	outliers := 0
	for i, d := range diff {
		if math.Abs(d) > atol {
			tb.Fatalf("element %d: |%v - %v| = %v exceeds atol %v\n%s",
				i, actual[i], expected[i], math.Abs(d), atol, diffStats(diff))
		}
		if cfg.outliers && math.Abs(d) > cfg.inlierAtol {
			outliers++
		}
	}

	if cfg.outliers {
		fraction := float64(outliers) / float64(len(diff))
		if fraction > cfg.maxOutliersFraction {
			tb.Fatalf("outlier fraction %.4f exceeds allowed %.4f (inlier atol %v)\n%s",
				fraction, cfg.maxOutliersFraction, cfg.inlierAtol, diffStats(diff))
		}
	}
}

// diffStats summarizes a difference vector for failure messages.
func diffStats(diff []float64) string {
	sorted := append([]float64(nil), diff...)
	sort.Float64s(sorted)

	mean, std := stat.MeanStdDev(diff, nil)
	median := stat.Quantile(0.5, stat.Empirical, sorted, nil)
	return fmt.Sprintf("difference (actual - expected): mean=%v median=%v std=%v min=%v max=%v",
		mean, median, std, floats.Min(sorted), floats.Max(sorted))
}

// AssertCosineSimilarityClose fails the test unless the cosine
// similarity of each (actual, expected) row pair is within atol of 1.
// Rows are feature vectors; magnitude differences are ignored, which is
// the intended property for comparing encoder states.
func AssertCosineSimilarityClose(tb testing.TB, actual, expected [][]float64, atol float64, opts ...VectorCloseOption) {
	tb.Helper()

	if len(actual) != len(expected) {
		tb.Fatalf("row count mismatch: actual %d, expected %d", len(actual), len(expected))
	}

	sims := make([]float64, len(actual))
	ones := make([]float64, len(actual))
	for i := range actual {
		if len(actual[i]) != len(expected[i]) {
			tb.Fatalf("row %d: length mismatch: actual %d, expected %d", i, len(actual[i]), len(expected[i]))
		}
		normProduct := floats.Norm(actual[i], 2) * floats.Norm(expected[i], 2)
		if normProduct == 0 {
			tb.Fatalf("row %d: zero-magnitude vector has no cosine similarity", i)
		}
		sims[i] = floats.Dot(actual[i], expected[i]) / normProduct
		ones[i] = 1
	}

	AssertVectorClose(tb, sims, ones, atol, opts...)
}

// AssertMapsEqual fails the test unless the maps hold the same keys with
// equal values.
func AssertMapsEqual[K comparable, V comparable](tb testing.TB, actual, expected map[K]V) {
	tb.Helper()
	AssertMapsEqualFunc(tb, actual, expected, func(a, b V) bool { return a == b })
}

// AssertMapsEqualFunc is AssertMapsEqual with a custom value equality.
func AssertMapsEqualFunc[K comparable, V any](tb testing.TB, actual, expected map[K]V, valuesEqual func(a, b V) bool) {
	tb.Helper()

	if len(actual) != len(expected) {
		tb.Fatalf("maps have different sizes: %d != %d", len(actual), len(expected))
	}
	for k, want := range expected {
		got, ok := actual[k]
		if !ok {
			tb.Fatalf("key %v missing from actual map", k)
		}
		if !valuesEqual(got, want) {
			tb.Fatalf("values not equal for key %v: %v != %v", k, got, want)
		}
	}
}

// AssertSeqsEqual fails the test unless the slices are elementwise
// equal by reflect.DeepEqual. Length mismatch is an immediate failure.
func AssertSeqsEqual[V any](tb testing.TB, actual, expected []V) {
	tb.Helper()
	AssertSeqsEqualFunc(tb, actual, expected, func(a, b V) bool { return reflect.DeepEqual(a, b) })
}

// AssertSeqsEqualFunc is AssertSeqsEqual with a custom element equality.
func AssertSeqsEqualFunc[V any](tb testing.TB, actual, expected []V, elementsEqual func(a, b V) bool) {
	tb.Helper()

	if len(actual) != len(expected) {
		tb.Fatalf("sequences have different lengths: %d != %d", len(actual), len(expected))
	}
	for i := range expected {
		if !elementsEqual(actual[i], expected[i]) {
			tb.Fatalf("sequences not equal at index %d: %v != %v", i, actual[i], expected[i])
		}
	}
}
