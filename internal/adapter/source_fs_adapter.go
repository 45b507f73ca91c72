// Package adapter contains the infrastructure adapters the coverage loop talks to:
// the filesystem, pytest, coverage.py, the text-generation service and the
// session report store.
package adapter

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	m "autocov.dev/pkg/autocov/internal/model"
)

const (
	dirPerm  = 0o750
	filePerm = 0o644
)

// SourceFSAdapter abstracts filesystem-specific operations that the domain layer
// relies on when scanning user projects and growing their test suites. It hides
// direct `os` access so the loop can be tested without touching the disk.
//
//nolint:interfacebloat // A richer interface keeps workflow logic decoupled from os/fs.
type SourceFSAdapter interface {
	// Walk traverses the provided root path. When recursive is false the
	// implementation should limit itself to the root directory (no sub-dirs).
	Walk(root m.Path, recursive bool, fn FilepathWalkFunc) error

	// ReadFile loads a file from disk and returns its contents.
	ReadFile(path m.Path) ([]byte, error)

	// FileInfo returns metadata for a path so the domain can check existence or
	// distinguish between files and directories when necessary.
	FileInfo(path m.Path) (os.FileInfo, error)

	// AppendFile appends content to path, creating the file and its parent
	// directories when missing. Existing content is never truncated.
	AppendFile(path m.Path, content []byte) error

	// AbsPath returns an absolute representation of path.
	AbsPath(path m.Path) (m.Path, error)

	// RelPath returns the relative path from base to target.
	RelPath(base, target m.Path) (m.Path, error)

	// JoinPath joins path elements into a single path.
	JoinPath(elem ...string) m.Path
}

// FilepathWalkFunc mirrors the callback shape used by filepath.Walk. It is
// defined here to avoid leaking the standard-library type directly into the
// domain layer.
type FilepathWalkFunc func(path string, info os.FileInfo, err error) error

// LocalSourceFSAdapter is the os-backed SourceFSAdapter.
type LocalSourceFSAdapter struct{}

// NewLocalSourceFSAdapter constructs a LocalSourceFSAdapter instance ready to
// be wired into the workflow.
func NewLocalSourceFSAdapter() *LocalSourceFSAdapter {
	return &LocalSourceFSAdapter{}
}

// Walk iterates over files under root, optionally descending into subdirectories.
func (a *LocalSourceFSAdapter) Walk(root m.Path, recursive bool, fn FilepathWalkFunc) error {
	rootStr := string(root)

	return filepath.Walk(rootStr, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return fn(path, info, err)
		}

		if info.IsDir() && !recursive && path != rootStr {
			return filepath.SkipDir
		}

		return fn(path, info, nil)
	})
}

// ReadFile loads file contents from disk.
func (a *LocalSourceFSAdapter) ReadFile(path m.Path) ([]byte, error) {
	// #nosec G304 - path comes from walking the user's project
	return os.ReadFile(string(path))
}

// FileInfo returns os.FileInfo metadata for the given path.
func (a *LocalSourceFSAdapter) FileInfo(path m.Path) (os.FileInfo, error) {
	return os.Stat(string(path))
}

// AppendFile appends content to the file at path.
func (a *LocalSourceFSAdapter) AppendFile(path m.Path, content []byte) (err error) {
	if err := os.MkdirAll(filepath.Dir(string(path)), dirPerm); err != nil {
		return fmt.Errorf("create parent dir for %s: %w", path, err)
	}

	// #nosec G304 - path is the deterministic test file for a project source
	f, err := os.OpenFile(string(path), os.O_APPEND|os.O_CREATE|os.O_WRONLY, filePerm)
	if err != nil {
		return fmt.Errorf("open %s for append: %w", path, err)
	}

	defer func() {
		err = errors.Join(err, f.Close())
	}()

	if _, err := f.Write(content); err != nil {
		return fmt.Errorf("append to %s: %w", path, err)
	}

	return nil
}

// AbsPath returns the absolute form of path.
func (a *LocalSourceFSAdapter) AbsPath(path m.Path) (m.Path, error) {
	abs, err := filepath.Abs(string(path))
	if err != nil {
		return "", err
	}

	return m.Path(abs), nil
}

// RelPath returns the relative path from base to target.
func (a *LocalSourceFSAdapter) RelPath(base, target m.Path) (m.Path, error) {
	rel, err := filepath.Rel(string(base), string(target))
	if err != nil {
		return "", err
	}

	return m.Path(rel), nil
}

// JoinPath joins path elements into a single path.
func (a *LocalSourceFSAdapter) JoinPath(elem ...string) m.Path {
	return m.Path(filepath.Join(elem...))
}
