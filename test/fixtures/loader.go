package fixtures

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
)

// fixturesDir returns the absolute path to the fixtures directory.
func fixturesDir() string {
	_, file, _, _ := runtime.Caller(0)
	return filepath.Dir(file)
}

func load(t *testing.T, dir, filename string) []byte {
	t.Helper()
	path := filepath.Join(fixturesDir(), dir, filename)
	data, err := os.ReadFile(path)
	require.NoError(t, err, "failed to load fixture: %s/%s", dir, filename)
	return data
}

// LoadToncenter loads a recorded toncenter v2 response body.
func LoadToncenter(t *testing.T, filename string) []byte {
	t.Helper()
	return load(t, "toncenter", filename)
}

// LoadTonapi loads a recorded tonapi response body.
func LoadTonapi(t *testing.T, filename string) []byte {
	t.Helper()
	return load(t, "tonapi", filename)
}
