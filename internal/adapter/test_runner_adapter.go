package adapter

import (
	"context"
	"time"

	m "autocov.dev/pkg/autocov/internal/model"
)

// CommandWrapper rewrites interpreter arguments, e.g. to run them under coverage.
type CommandWrapper func(args []string) []string

// TestRunnerAdapter abstracts test-suite execution.
type TestRunnerAdapter interface {
	// RunTests runs pytest on testsDir from workDir. The exit status is
	// returned for logging; a failing suite is not an error.
	RunTests(ctx context.Context, workDir, testsDir m.Path, wrappers ...CommandWrapper) (m.TestRun, error)
}

// LocalTestRunnerAdapter runs pytest through a local Python interpreter.
type LocalTestRunnerAdapter struct {
	python  string
	timeout time.Duration
}

// NewLocalTestRunnerAdapter constructs a LocalTestRunnerAdapter. A zero timeout
// lets the suite run for as long as it needs.
func NewLocalTestRunnerAdapter(python string, timeout time.Duration) *LocalTestRunnerAdapter {
	if python == "" {
		python = DefaultPython
	}

	return &LocalTestRunnerAdapter{
		python:  python,
		timeout: timeout,
	}
}

// RunTests runs `python -m pytest -v <testsDir>` in workDir.
func (a *LocalTestRunnerAdapter) RunTests(ctx context.Context, workDir, testsDir m.Path, wrappers ...CommandWrapper) (m.TestRun, error) {
	args := []string{"-m", "pytest", "-v", string(testsDir)}
	for _, wrap := range wrappers {
		if wrap != nil {
			args = wrap(args)
		}
	}

	return runCommand(ctx, a.timeout, workDir, a.python, args...)
}
