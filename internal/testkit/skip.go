package testkit

import (
	"os"
	"testing"
)

// RequireEnvPath returns the path named by the environment variable,
// skipping the test when the variable is unset and failing it when the
// path does not exist. Used for external assets that not every
// environment has checked out.
func RequireEnvPath(tb testing.TB, key, reason string) string {
	tb.Helper()
	path := os.Getenv(key)
	if path == "" {
		tb.Skipf("skipping: %s (set %s to run)", reason, key)
	}
	if _, err := os.Stat(path); err != nil {
		tb.Fatalf("%s points to an unusable path: %v", key, err)
	}
	return path
}

// SkipUnlessEnv skips the test unless the named environment variable is
// set to a non-empty value. Used to gate tests that need external
// assets or hardware.
func SkipUnlessEnv(tb testing.TB, key, reason string) {
	tb.Helper()
	if os.Getenv(key) == "" {
		tb.Skipf("skipping: %s (set %s to run)", reason, key)
	}
}

// SkipIfEnv skips the test when the named environment variable is set
// to anything other than "0". The inverse gate of SkipUnlessEnv: an
// escape hatch for known-fragile tests.
func SkipIfEnv(tb testing.TB, key string) {
	tb.Helper()
	if v, ok := os.LookupEnv(key); ok && v != "0" {
		tb.Skipf("skipping: %s=%s", key, v)
	}
}
