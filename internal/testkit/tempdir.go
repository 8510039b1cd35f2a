package testkit

import (
	"os"
	"path/filepath"
	"testing"
)

// AssetsDirEnvVar redirects TempDir to a persistent location. Useful for
// collecting updated goldens and other artifacts from a test run.
const AssetsDirEnvVar = "TDSPEC_TEST_ASSETS_DIR"

// TempDir returns a directory for test artifacts.
//
// By default it is the test's own temp dir, removed on cleanup. If
// AssetsDirEnvVar is set, the directory is <dir>/<identifier> instead,
// recreated fresh but kept after the run.
func TempDir(tb testing.TB, identifier string) string {
	tb.Helper()

	explicit := os.Getenv(AssetsDirEnvVar)
	if explicit == "" {
		return tb.TempDir()
	}

	path := filepath.Join(explicit, identifier)
	if err := os.RemoveAll(path); err != nil {
		tb.Fatalf("clear assets dir %s: %v", path, err)
	}
	if err := os.MkdirAll(path, 0o755); err != nil {
		tb.Fatalf("create assets dir %s: %v", path, err)
	}
	return path
}
