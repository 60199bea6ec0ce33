// CLI test harness: builds the lockbox binary once and runs it against
// isolated config and data directories.
package integration

import (
	"bytes"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
)

var (
	// lockboxBin is the path to the built lockbox binary.
	lockboxBin string
	// buildErr captures any build error.
	buildErr error
)

// BuildError wraps a build error with output.
type BuildError struct {
	Err    error
	Output string
}

func (e *BuildError) Error() string {
	return e.Err.Error() + ": " + e.Output
}

// FindProjectRoot finds the project root by walking up and looking for go.mod.
func FindProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		goModPath := filepath.Join(dir, "go.mod")
		if _, err := os.Stat(goModPath); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", os.ErrNotExist
		}
		dir = parent
	}
}

// SetLockboxBin sets the path to the lockbox binary (called from TestMain).
func SetLockboxBin(path string) {
	lockboxBin = path
}

// SetBuildErr sets the build error (called from TestMain).
func SetBuildErr(err error) {
	buildErr = err
}

// TestEnv provides an isolated CLI environment with its own config and
// data directory.
type TestEnv struct {
	t       *testing.T
	TempDir string
	Config  string
	DataDir string
}

// NewTestEnv creates a new isolated test environment. The config file
// sets an identity so commands run without --as by default.
func NewTestEnv(t *testing.T, identity string) *TestEnv {
	t.Helper()

	if buildErr != nil {
		t.Fatalf("failed to build lockbox: %v", buildErr)
	}
	if lockboxBin == "" {
		t.Fatal("lockbox binary not built (lockboxBin is empty)")
	}

	tempDir := t.TempDir()
	dataDir := filepath.Join(tempDir, "data")
	configDir := filepath.Join(tempDir, "config")

	if err := os.MkdirAll(configDir, 0755); err != nil {
		t.Fatalf("failed to create config dir: %v", err)
	}
	configContent := "backend: sqlite\ndata_dir: " + dataDir + "\nidentity: " + identity + "\n"
	if err := os.WriteFile(filepath.Join(configDir, "config.yaml"), []byte(configContent), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	return &TestEnv{
		t:       t,
		TempDir: tempDir,
		Config:  configDir,
		DataDir: dataDir,
	}
}

// CmdResult holds the result of a lockbox command execution.
type CmdResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// RunLockbox executes the lockbox CLI with the given arguments.
func (e *TestEnv) RunLockbox(args ...string) CmdResult {
	e.t.Helper()

	allArgs := append([]string{"--config-dir", e.Config, "--data-dir", e.DataDir}, args...)
	cmd := exec.Command(lockboxBin, allArgs...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	exitCode := 0
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			exitCode = exitErr.ExitCode()
		} else {
			e.t.Fatalf("failed to run lockbox: %v", err)
		}
	}

	return CmdResult{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		ExitCode: exitCode,
	}
}

// MustRunLockbox executes the lockbox CLI and fails the test on a
// non-zero exit code.
func (e *TestEnv) MustRunLockbox(args ...string) CmdResult {
	e.t.Helper()
	result := e.RunLockbox(args...)
	if result.ExitCode != 0 {
		e.t.Fatalf("lockbox %v failed with exit code %d:\nstdout: %s\nstderr: %s",
			args, result.ExitCode, result.Stdout, result.Stderr)
	}
	return result
}

// ParseJSON parses JSON output into the target type.
func ParseJSON[T any](t *testing.T, jsonStr string) T {
	t.Helper()
	var result T
	if err := json.Unmarshal([]byte(jsonStr), &result); err != nil {
		t.Fatalf("failed to parse JSON %q: %v", jsonStr, err)
	}
	return result
}

// EnvelopeJSON mirrors the envelope record for JSON parsing.
type EnvelopeJSON struct {
	ID            string `json:"id"`
	Owner         string `json:"owner"`
	Beneficiary   string `json:"beneficiary"`
	TotalAmount   int64  `json:"total_amount"`
	ClaimedAmount int64  `json:"claimed_amount"`
	Status        string `json:"status"`
}

// TransferJSON mirrors a transfer journal record for JSON parsing.
type TransferJSON struct {
	ID         string `json:"id"`
	EnvelopeID string `json:"envelope_id"`
	To         string `json:"to"`
	Amount     int64  `json:"amount"`
	Reason     string `json:"reason"`
}
