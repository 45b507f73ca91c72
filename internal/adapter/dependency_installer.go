package adapter

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	m "autocov.dev/pkg/autocov/internal/model"
)

// DependencyInstaller installs a project's Python dependencies.
type DependencyInstaller interface {
	// Install returns false when the project declares no dependencies.
	Install(ctx context.Context, root m.Path) (bool, error)
}

// PipInstaller installs dependencies with `python -m pip`.
type PipInstaller struct {
	python  string
	timeout time.Duration
}

// NewPipInstaller constructs a PipInstaller.
func NewPipInstaller(python string, timeout time.Duration) *PipInstaller {
	if python == "" {
		python = DefaultPython
	}

	return &PipInstaller{python: python, timeout: timeout}
}

// Install prefers requirements.txt, then pyproject.toml.
func (p *PipInstaller) Install(ctx context.Context, root m.Path) (bool, error) {
	requirements := filepath.Join(string(root), "requirements.txt")
	pyproject := filepath.Join(string(root), "pyproject.toml")

	var args []string

	switch {
	case fileExists(requirements):
		args = []string{"-m", "pip", "install", "-r", requirements}
	case fileExists(pyproject):
		args = []string{"-m", "pip", "install", string(root)}
	default:
		slog.Info("No requirements.txt or pyproject.toml found, skipping dependency installation", "root", root)
		return false, nil
	}

	run, err := runCommand(ctx, p.timeout, root, p.python, args...)
	if err != nil {
		return false, err
	}

	if !run.Passed() {
		slog.Error("pip install failed", "root", root, "exitCode", run.ExitCode, "output", run.Output)
		return false, fmt.Errorf("pip install exited with code %d", run.ExitCode)
	}

	return true, nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
