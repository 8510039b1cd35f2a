package testkit

import (
	"testing"

	"github.com/sebdah/goldie/v2"
)

// AssertGolden compares content against the golden file
// testdata/golden/<name>.golden in the calling package.
//
// To regenerate golden files, run the package's tests with -update.
func AssertGolden(t *testing.T, name string, content []byte) {
	t.Helper()

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, content)
}
