package domain

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"autocov.dev/pkg/autocov/internal/adapter"
	m "autocov.dev/pkg/autocov/internal/model"
)

// Default project layout directory names.
const (
	DefaultSourceDir = "src"
	DefaultTestsDir  = "tests"
)

// Inventory discovers a project's source files, their functions and its
// existing tests. It never writes.
type Inventory interface {
	ResolveProject(path m.Path) (m.Project, error)
	ListSourceFiles(project m.Project) ([]m.Path, error)
	ReadSourceFile(path m.Path) (m.SourceFile, error)
	ReadExistingTests(project m.Project) (string, error)
	ProjectContext(project m.Project, files []m.SourceFile) string
	TestFileFor(project m.Project, source m.Path) m.Path
	Language() m.Language
}

// InventoryOptions configures the project layout conventions.
type InventoryOptions struct {
	SourceDir string
	TestsDir  string
	Language  m.Language
}

type inventory struct {
	fs   adapter.SourceFSAdapter
	opts InventoryOptions
}

// NewInventory constructs an Inventory over fsAdapter.
func NewInventory(fsAdapter adapter.SourceFSAdapter, opts InventoryOptions) Inventory {
	if opts.SourceDir == "" {
		opts.SourceDir = DefaultSourceDir
	}

	if opts.TestsDir == "" {
		opts.TestsDir = DefaultTestsDir
	}

	if opts.Language.Name == "" {
		opts.Language = m.Python
	}

	return &inventory{fs: fsAdapter, opts: opts}
}

func (i *inventory) Language() m.Language {
	return i.opts.Language
}

// ResolveProject validates path and resolves its source and tests roots. The
// source root is `src`, or a directory named after the project when `src` is
// absent.
func (i *inventory) ResolveProject(path m.Path) (m.Project, error) {
	root, err := i.fs.AbsPath(path)
	if err != nil {
		return m.Project{}, fmt.Errorf("resolve project path %s: %w", path, err)
	}

	info, err := i.fs.FileInfo(root)
	if err != nil || !info.IsDir() {
		slog.Error("Project path is not a directory", "path", root, "error", err)
		return m.Project{}, fmt.Errorf("%w: %s", ErrProjectNotDirectory, root)
	}

	candidates := []m.Path{
		i.fs.JoinPath(string(root), i.opts.SourceDir),
		i.fs.JoinPath(string(root), filepath.Base(string(root))),
	}

	for _, candidate := range candidates {
		if info, err := i.fs.FileInfo(candidate); err == nil && info.IsDir() {
			return m.Project{
				Root:       root,
				SourceRoot: candidate,
				TestsRoot:  i.fs.JoinPath(string(root), i.opts.TestsDir),
			}, nil
		}
	}

	slog.Error("Source directory not found", "project", root)

	return m.Project{}, fmt.Errorf("%w in %s", ErrSourceRootNotFound, root)
}

// ListSourceFiles walks the source root recursively, in lexical order.
func (i *inventory) ListSourceFiles(project m.Project) ([]m.Path, error) {
	if project.SourceRoot == "" {
		slog.Error("Source directory not found", "project", project.Root)
		return nil, fmt.Errorf("%w in %s", ErrSourceRootNotFound, project.Root)
	}

	var files []m.Path

	err := i.fs.Walk(project.SourceRoot, true, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if !info.IsDir() && strings.HasSuffix(info.Name(), i.opts.Language.SourceExt) {
			files = append(files, m.Path(path))
		}

		return nil
	})
	if err != nil {
		slog.Error("Failed to walk source directory", "sourceRoot", project.SourceRoot, "error", err)
		return nil, fmt.Errorf("walk %s: %w", project.SourceRoot, err)
	}

	return files, nil
}

// ReadSourceFile loads path and extracts its declared functions.
func (i *inventory) ReadSourceFile(path m.Path) (m.SourceFile, error) {
	data, err := i.fs.ReadFile(path)
	if err != nil {
		return m.SourceFile{}, fmt.Errorf("read %s: %w", path, err)
	}

	lines := strings.Split(string(data), "\n")

	return m.SourceFile{
		Path:      path,
		Lines:     lines,
		Functions: ExtractFunctions(lines, i.opts.Language),
	}, nil
}

// ReadExistingTests concatenates every test_* file under the tests root,
// separated by a blank line. A missing tests root means no tests yet.
func (i *inventory) ReadExistingTests(project m.Project) (string, error) {
	if _, err := i.fs.FileInfo(project.TestsRoot); err != nil {
		return "", nil
	}

	var paths []string

	err := i.fs.Walk(project.TestsRoot, true, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		name := info.Name()
		if !info.IsDir() &&
			strings.HasPrefix(name, i.opts.Language.TestFilePrefix) &&
			strings.HasSuffix(name, i.opts.Language.SourceExt) {
			paths = append(paths, path)
		}

		return nil
	})
	if err != nil {
		return "", fmt.Errorf("walk %s: %w", project.TestsRoot, err)
	}

	sort.Strings(paths)

	bodies := make([]string, 0, len(paths))

	for _, path := range paths {
		data, err := i.fs.ReadFile(m.Path(path))
		if err != nil {
			return "", fmt.Errorf("read %s: %w", path, err)
		}

		bodies = append(bodies, string(data))
	}

	return strings.Join(bodies, "\n\n"), nil
}

// ProjectContext renders the project-wide function inventory for prompts.
func (i *inventory) ProjectContext(project m.Project, files []m.SourceFile) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Project root: %s\n", project.Root)
	b.WriteString("Source files:\n")

	for _, file := range files {
		rel, err := i.fs.RelPath(project.Root, file.Path)
		if err != nil {
			rel = file.Path
		}

		fmt.Fprintf(&b, "- %s:\n", rel)
		fmt.Fprintf(&b, "  Functions: %s\n", strings.Join(file.Functions, ", "))
	}

	return b.String()
}

// TestFileFor names the test file that receives tests generated for source.
func (i *inventory) TestFileFor(project m.Project, source m.Path) m.Path {
	return i.fs.JoinPath(string(project.TestsRoot), i.opts.Language.TestFilePrefix+filepath.Base(string(source)))
}

// ExtractFunctions returns every function declared in lines, in order of
// appearance and with duplicates. Detection is a line-prefix scan, not a
// parse: methods and nested functions sharing a name collide.
func ExtractFunctions(lines []string, lang m.Language) []string {
	var names []string

	for _, line := range lines {
		if name, ok := declaredFunction(line, lang); ok {
			names = append(names, name)
		}
	}

	return names
}

func declaredFunction(line string, lang m.Language) (string, bool) {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, lang.FuncPrefix) {
		return "", false
	}

	name := trimmed[len(lang.FuncPrefix):]
	if idx := strings.Index(name, "("); idx >= 0 {
		name = name[:idx]
	}

	return strings.TrimSpace(name), true
}
