package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// EnvPrefix is the prefix of pimfix configuration variables.
const EnvPrefix = "PIMFIX_"

// Isolate gives the test a private temp directory as working directory
// and as XDG config and state home, and hides any PIMFIX_* variables of
// the calling environment. Everything is restored when the test ends.
// Tests using Isolate cannot run in parallel.
func Isolate(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(dir, "state"))
	ClearEnv(t, EnvPrefix)

	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change to %s: %v", dir, err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(wd); err != nil {
			t.Errorf("Failed to restore working directory: %v", err)
		}
	})

	return dir
}

// ClearEnv unsets every variable starting with prefix for the duration
// of the test.
func ClearEnv(t *testing.T, prefix string) {
	t.Helper()

	for _, kv := range os.Environ() {
		key, _, _ := strings.Cut(kv, "=")
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		// Setenv registers the restore; then drop the variable entirely.
		t.Setenv(key, "")
		if err := os.Unsetenv(key); err != nil {
			t.Fatalf("Failed to unset %s: %v", key, err)
		}
	}
}
