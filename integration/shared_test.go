//go:build basic || database || integration

package integration

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

var (
	// sharedRatechartPath holds the path to a shared ratechart binary built once for all tests.
	sharedRatechartPath string

	// buildOnce ensures we only build the binary once.
	buildOnce sync.Once

	// buildMutex protects the shared binary path.
	buildMutex sync.Mutex

	// tempDir holds the temp directory for cleanup.
	tempDir string
)

// fixtureDataset has two arms over eight days so weekly buckets span two ISO weeks.
const fixtureDataset = `{
  "variations": [{"name": "Original"}, {"id": 10001, "name": "Variation A"}],
  "data": [
    {"date": "2025-01-01", "visits": {"0": 120, "10001": 118}, "conversions": {"0": 12, "10001": 15}},
    {"date": "2025-01-02", "visits": {"0": 130, "10001": 125}, "conversions": {"0": 14, "10001": 19}},
    {"date": "2025-01-03", "visits": {"0": 110, "10001": 112}, "conversions": {"0": 9, "10001": 13}},
    {"date": "2025-01-04", "visits": {"0": 90, "10001": 95}, "conversions": {"0": 8, "10001": 12}},
    {"date": "2025-01-05", "visits": {"0": 85, "10001": 80}, "conversions": {"0": 7, "10001": 11}},
    {"date": "2025-01-06", "visits": {"0": 140, "10001": 150}, "conversions": {"0": 15, "10001": 22}},
    {"date": "2025-01-07", "visits": {"0": 0, "10001": 145}, "conversions": {"0": 0, "10001": 20}},
    {"date": "2025-01-08", "visits": {"0": 150, "10001": 0}, "conversions": {"0": 18, "10001": 0}}
  ]
}`

// TestMain handles setup and cleanup for all integration tests.
func TestMain(m *testing.M) {
	code := m.Run()

	if tempDir != "" {
		_ = os.RemoveAll(tempDir)
	}

	os.Exit(code)
}

// getRatechartBinary returns the path to the ratechart binary, building it once if needed.
func getRatechartBinary() string {
	buildMutex.Lock()
	defer buildMutex.Unlock()

	buildOnce.Do(func() {
		var err error
		tempDir, err = os.MkdirTemp("", "ratechart-integration-*")
		if err != nil {
			panic(fmt.Sprintf("failed to create temp dir: %v", err))
		}

		binPath := filepath.Join(tempDir, "ratechart")
		buildCmd := exec.Command("go", "build", "-o", binPath, ".")
		buildCmd.Dir = ".." // Build from parent directory (project root)
		if err := buildCmd.Run(); err != nil {
			panic(fmt.Sprintf("failed to build ratechart: %v", err))
		}

		sharedRatechartPath = binPath
	})

	return sharedRatechartPath
}

// writeFixture writes the fixture dataset to a temp file and returns its path.
func writeFixture(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dataset.json")
	require.NoError(t, os.WriteFile(path, []byte(fixtureDataset), 0o644))
	return path
}

// runRatechart runs the binary with extra environment variables and returns its stdout.
func runRatechart(t *testing.T, env map[string]string, args ...string) (string, error) {
	t.Helper()
	cmd := exec.Command(getRatechartBinary(), args...)
	cmd.Env = os.Environ()
	for k, v := range env {
		cmd.Env = append(cmd.Env, k+"="+v)
	}
	output, err := cmd.Output()
	if err != nil {
		var stderr []byte
		if exitErr, ok := err.(*exec.ExitError); ok {
			stderr = exitErr.Stderr
		}
		t.Logf("Command failed: %s\nStdout: %s\nStderr: %s", cmd.String(), string(output), string(stderr))
	}
	return string(output), err
}
