package adapter

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	m "autocov.dev/pkg/autocov/internal/model"
)

func TestPipInstaller_SkipsWithoutManifest(t *testing.T) {
	installer := NewPipInstaller("autocov-missing-python-binary", 0)

	ran, err := installer.Install(context.Background(), m.Path(t.TempDir()))
	if err != nil {
		t.Fatalf("Install() error = %v", err)
	}

	if ran {
		t.Fatalf("Install() ran without requirements.txt or pyproject.toml")
	}
}

func TestPipInstaller_MissingInterpreter(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "requirements.txt"), []byte("pytest\n"), 0o644); err != nil {
		t.Fatalf("write requirements: %v", err)
	}

	installer := NewPipInstaller("autocov-missing-python-binary", 0)

	if _, err := installer.Install(context.Background(), m.Path(root)); err == nil {
		t.Fatalf("Install() expected an error for a missing interpreter")
	}
}
