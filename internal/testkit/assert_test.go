package testkit

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errAssertFailed = errors.New("assertion failed")

// fatalRecorder captures Fatalf calls so tests can exercise the failure
// paths of the assertion helpers. Fatalf panics to stop the helper the
// way runtime.Goexit would under a real testing.T.
type fatalRecorder struct {
	testing.TB
	failed  bool
	message string
}

func (r *fatalRecorder) Helper() {}

func (r *fatalRecorder) Fatalf(format string, args ...any) {
	r.failed = true
	r.message = fmt.Sprintf(format, args...)
	panic(errAssertFailed)
}

// captureFailure runs fn against a recording TB and reports whether it
// failed and with what message.
func captureFailure(t *testing.T, fn func(tb testing.TB)) (bool, string) {
	t.Helper()
	r := &fatalRecorder{TB: t}
	func() {
		defer func() {
			p := recover()
			if p == nil {
				return
			}
			if err, ok := p.(error); !ok || !errors.Is(err, errAssertFailed) {
				panic(p)
			}
		}()
		fn(r)
	}()
	return r.failed, r.message
}

func writeMarker(dir string) error {
	return os.WriteFile(filepath.Join(dir, "marker"), []byte("x"), 0o644)
}

func TestAssertVectorClose_Pass(t *testing.T) {
	actual := []float64{1.0, 2.0, 3.0}
	expected := []float64{1.00005, 1.99995, 3.0}
	AssertVectorClose(t, actual, expected, 1e-4)
}

func TestAssertVectorClose_EmptyAndNil(t *testing.T) {
	AssertVectorClose(t, nil, nil, 0)
	AssertVectorClose(t, []float64{}, []float64{}, 0)
}

func TestAssertVectorClose_FailsWithStats(t *testing.T) {
	failed, msg := captureFailure(t, func(tb testing.TB) {
		AssertVectorClose(tb, []float64{1, 2, 10}, []float64{1, 2, 3}, 1e-3)
	})
	require.True(t, failed)
	assert.Contains(t, msg, "exceeds atol")
	assert.Contains(t, msg, "mean=")
	assert.Contains(t, msg, "max=")
}

func TestAssertVectorClose_LengthMismatch(t *testing.T) {
	failed, msg := captureFailure(t, func(tb testing.TB) {
		AssertVectorClose(tb, []float64{1}, []float64{1, 2}, 1)
	})
	require.True(t, failed)
	assert.Contains(t, msg, "length mismatch")
}

func TestAssertVectorClose_OutlierBudget(t *testing.T) {
	actual := []float64{0, 0, 0, 0.5}
	expected := []float64{0, 0, 0, 0}

	// One outlier out of four is within a 50% budget.
	AssertVectorClose(t, actual, expected, 1.0, WithOutlierBudget(0.5, 1e-6))

	// But not within a 10% budget.
	failed, msg := captureFailure(t, func(tb testing.TB) {
		AssertVectorClose(tb, actual, expected, 1.0, WithOutlierBudget(0.1, 1e-6))
	})
	require.True(t, failed)
	assert.Contains(t, msg, "outlier fraction")
}

func TestAssertVectorClose_AtolStillHardWithOutlierBudget(t *testing.T) {
	failed, _ := captureFailure(t, func(tb testing.TB) {
		AssertVectorClose(tb, []float64{5}, []float64{0}, 1.0, WithOutlierBudget(1.0, 1e-6))
	})
	assert.True(t, failed)
}

func TestAssertCosineSimilarityClose(t *testing.T) {
	actual := [][]float64{{1, 0}, {0, 2}}
	expected := [][]float64{{2, 0}, {0, 1}}

	// Parallel vectors: magnitudes differ, directions match.
	AssertCosineSimilarityClose(t, actual, expected, 1e-9)

	// Orthogonal vectors fail.
	failed, _ := captureFailure(t, func(tb testing.TB) {
		AssertCosineSimilarityClose(tb, [][]float64{{1, 0}}, [][]float64{{0, 1}}, 1e-3)
	})
	assert.True(t, failed)
}

func TestAssertCosineSimilarityClose_ZeroVector(t *testing.T) {
	failed, msg := captureFailure(t, func(tb testing.TB) {
		AssertCosineSimilarityClose(tb, [][]float64{{0, 0}}, [][]float64{{1, 0}}, 1e-3)
	})
	require.True(t, failed)
	assert.Contains(t, msg, "zero-magnitude")
}

func TestAssertMapsEqual(t *testing.T) {
	AssertMapsEqual(t, map[string]int{"a": 1, "b": 2}, map[string]int{"b": 2, "a": 1})

	failed, msg := captureFailure(t, func(tb testing.TB) {
		AssertMapsEqual(tb, map[string]int{"a": 1}, map[string]int{"a": 2})
	})
	require.True(t, failed)
	assert.Contains(t, msg, "values not equal for key a")

	failed, msg = captureFailure(t, func(tb testing.TB) {
		AssertMapsEqual(tb, map[string]int{"a": 1}, map[string]int{"b": 1})
	})
	require.True(t, failed)
	assert.Contains(t, msg, "missing from actual map")
}

func TestAssertMapsEqualFunc(t *testing.T) {
	close1e3 := func(a, b float64) bool { return Tolerance{Abs: 1e-3}.Close(a, b) }
	AssertMapsEqualFunc(t,
		map[string]float64{"x": 1.0004},
		map[string]float64{"x": 1.0},
		close1e3)
}

func TestAssertSeqsEqual(t *testing.T) {
	AssertSeqsEqual(t, []string{"a", "b"}, []string{"a", "b"})

	failed, msg := captureFailure(t, func(tb testing.TB) {
		AssertSeqsEqual(tb, []string{"a"}, []string{"a", "b"})
	})
	require.True(t, failed)
	assert.Contains(t, msg, "different lengths")

	failed, msg = captureFailure(t, func(tb testing.TB) {
		AssertSeqsEqual(tb, []int{1, 2}, []int{1, 3})
	})
	require.True(t, failed)
	assert.Contains(t, msg, "index 1")
}

func TestKernelTolerance(t *testing.T) {
	tol, err := KernelTolerance("matmul")
	require.NoError(t, err)
	assert.Equal(t, Tolerance{Abs: 1e-4, Rel: 1e-4}, tol)

	_, err = KernelTolerance("nonexistent")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no tolerance configured")
}

func TestToleranceClose(t *testing.T) {
	tol := Tolerance{Abs: 0.1, Rel: 0.1}
	assert.True(t, tol.Close(1.05, 1.0))  // within abs+rel
	assert.True(t, tol.Close(1.19, 1.0))  // 0.19 <= 0.1 + 0.1*1.0
	assert.False(t, tol.Close(1.21, 1.0)) // 0.21 > 0.2
	assert.True(t, Tolerance{}.Close(2, 2))
}

func TestFrozenFixturesAreDeterministic(t *testing.T) {
	a := FrozenFloats(64)
	b := FrozenFloats(64)
	AssertSeqsEqual(t, a, b)

	for i, v := range a {
		require.GreaterOrEqual(t, v, -1.0, "index %d", i)
		require.Less(t, v, 1.0, "index %d", i)
	}

	mask := FrozenMask(64)
	for i, v := range a {
		assert.Equal(t, v >= 0, mask[i])
	}

	m := FrozenMatrix(4, 16)
	require.Len(t, m, 4)
	require.Len(t, m[0], 16)
	assert.Equal(t, a[:16], m[0])
}

func TestTempDir_Default(t *testing.T) {
	dir := TempDir(t, "ignored")
	assert.DirExists(t, dir)
}

func TestTempDir_ExplicitAssetsDir(t *testing.T) {
	base := t.TempDir()
	t.Setenv(AssetsDirEnvVar, base)

	dir := TempDir(t, "case1")
	assert.Equal(t, filepath.Join(base, "case1"), dir)
	assert.DirExists(t, dir)

	// Recreated fresh on the next call.
	require.NoError(t, writeMarker(dir))
	dir2 := TempDir(t, "case1")
	assert.Equal(t, dir, dir2)
	assert.NoFileExists(t, filepath.Join(dir2, "marker"))
}

func TestRequireEnvPath(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("TDSPEC_TEST_ASSET_PATH", dir)
	assert.Equal(t, dir, RequireEnvPath(t, "TDSPEC_TEST_ASSET_PATH", "probe"))

	t.Setenv("TDSPEC_TEST_ASSET_PATH", filepath.Join(dir, "missing"))
	failed, msg := captureFailure(t, func(tb testing.TB) {
		RequireEnvPath(tb, "TDSPEC_TEST_ASSET_PATH", "probe")
	})
	require.True(t, failed)
	assert.Contains(t, msg, "unusable path")
}

func TestSkipIfEnv_ZeroDoesNotSkip(t *testing.T) {
	t.Setenv("TDSPEC_TEST_SKIP_PROBE", "0")
	SkipIfEnv(t, "TDSPEC_TEST_SKIP_PROBE")
	// Reaching this point means we were not skipped.
}

func TestDiffStatsMentionsAllMoments(t *testing.T) {
	s := diffStats([]float64{-1, 0, 1})
	for _, field := range []string{"mean=", "median=", "std=", "min=", "max="} {
		assert.True(t, strings.Contains(s, field), "missing %s in %q", field, s)
	}
}
