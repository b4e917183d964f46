//go:build integration

package integration

import (
	"bytes"
	"os"
	"os/exec"
	"strings"
	"testing"

	"github.com/fivetwenty-io/sgdata/internal/constants"
)

// TestConfig holds configuration for integration tests
type TestConfig struct {
	BaseURL    string
	DatasetID  string
	BinaryPath string
	Verbose    bool
}

// LoadTestConfig loads configuration from environment variables
func LoadTestConfig() *TestConfig {
	baseURL := os.Getenv("SGDATA_BASE_URL")
	if baseURL == "" {
		baseURL = constants.DefaultBaseURL
	}

	return &TestConfig{
		BaseURL:    baseURL,
		DatasetID:  os.Getenv("SGDATA_TEST_DATASET"),
		BinaryPath: getBinaryPath(),
		Verbose:    os.Getenv("SGDATA_VERBOSE") == "true",
	}
}

// getBinaryPath determines the path to the sgdata binary
func getBinaryPath() string {
	if path := os.Getenv("SGDATA_BINARY_PATH"); path != "" {
		return path
	}

	candidates := []string{
		"../../sgdata",
		"./sgdata",
		"../sgdata",
	}

	for _, candidate := range candidates {
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}

	return "sgdata" // Fallback to PATH
}

// SkipIfMissingConfig skips tests that talk to the live portal unless a
// dataset is configured.
func (config *TestConfig) SkipIfMissingConfig(t *testing.T) {
	t.Helper()

	if config.DatasetID == "" {
		t.Skip("SGDATA_TEST_DATASET not set, skipping integration test")
	}
}

// SkipIfMissingBinary additionally requires the CLI binary.
func (config *TestConfig) SkipIfMissingBinary(t *testing.T) {
	t.Helper()

	config.SkipIfMissingConfig(t)

	if _, err := exec.LookPath(config.BinaryPath); err != nil {
		t.Skipf("sgdata binary not found at %s, skipping integration test", config.BinaryPath)
	}
}

// CommandRunner provides utilities for running sgdata commands
type CommandRunner struct {
	config *TestConfig
	t      *testing.T
}

// NewCommandRunner creates a new command runner
func NewCommandRunner(config *TestConfig, t *testing.T) *CommandRunner {
	return &CommandRunner{
		config: config,
		t:      t,
	}
}

// Run executes an sgdata command against the configured portal
func (runner *CommandRunner) Run(args ...string) (stdout, stderr string, err error) {
	args = append([]string{"--base-url", runner.config.BaseURL}, args...)

	cmd := exec.Command(runner.config.BinaryPath, args...) //nolint:gosec // test binary path
	cmd.Env = append(os.Environ(), "HOME="+runner.t.TempDir())

	var stdoutBuf, stderrBuf bytes.Buffer
	cmd.Stdout = &stdoutBuf
	cmd.Stderr = &stderrBuf

	if runner.config.Verbose {
		runner.t.Logf("Running: %s %s", runner.config.BinaryPath, strings.Join(args, " "))
	}

	err = cmd.Run()
	stdout = stdoutBuf.String()
	stderr = stderrBuf.String()

	if runner.config.Verbose && err != nil {
		runner.t.Logf("Command failed: %v\nStdout: %s\nStderr: %s", err, stdout, stderr)
	}

	return stdout, stderr, err
}
