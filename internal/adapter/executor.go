package adapter

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	m "github.com/mouse-blink/optilabel/internal/model"
)

const scriptName = "solution.py"

// ExecutionError carries the message of a failed code run.
type ExecutionError struct {
	Message string
}

func (e *ExecutionError) Error() string {
	return e.Message
}

// CodeExecutor runs generated code and captures what it prints.
type CodeExecutor interface {
	// Execute returns captured stdout. On failure the stdout captured so far
	// is returned together with an *ExecutionError.
	Execute(ctx context.Context, code string) (string, error)
}

// PythonExecutor runs code with a python interpreter inside a throwaway
// directory. It captures output only; it is not a sandbox.
type PythonExecutor struct {
	fs      TextFSAdapter
	python  string
	timeout time.Duration
}

// NewPythonExecutor constructs a PythonExecutor.
func NewPythonExecutor(fs TextFSAdapter, python string, timeout time.Duration) *PythonExecutor {
	return &PythonExecutor{fs: fs, python: python, timeout: timeout}
}

// Execute writes code to a temp workspace and runs it.
func (e *PythonExecutor) Execute(ctx context.Context, code string) (string, error) {
	tmpDir, err := e.fs.CreateTempDir("optilabel-exec-*")
	if err != nil {
		return "", &ExecutionError{Message: fmt.Sprintf("failed to create temp dir: %v", err)}
	}
	defer e.cleanupTempDir(tmpDir)

	script := e.fs.JoinPath(string(tmpDir), scriptName)
	if err := e.fs.WriteFile(script, []byte(code), 0o600); err != nil {
		return "", &ExecutionError{Message: fmt.Sprintf("failed to write script: %v", err)}
	}

	if e.timeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	var stdout, stderr bytes.Buffer

	// #nosec G204 - running generated code is the purpose of this adapter
	cmd := exec.CommandContext(ctx, e.python, string(script))
	cmd.Dir = string(tmpDir)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return stdout.String(), &ExecutionError{Message: failureMessage(ctx, err, stderr.String())}
	}

	return stdout.String(), nil
}

func (e *PythonExecutor) cleanupTempDir(tmpDir m.Path) {
	if err := e.fs.RemoveAll(tmpDir); err != nil {
		slog.Debug("failed to remove execution workspace", "path", tmpDir, "error", err)
	}
}

// failureMessage prefers the last stderr line, which for python is the
// exception summary ("NameError: name 'x' is not defined").
func failureMessage(ctx context.Context, err error, stderr string) string {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return "execution timed out"
	}

	lines := strings.Split(strings.TrimSpace(stderr), "\n")
	if last := strings.TrimSpace(lines[len(lines)-1]); last != "" {
		return last
	}

	return err.Error()
}
