package domain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"autocov.dev/pkg/autocov/internal/adapter"
	m "autocov.dev/pkg/autocov/internal/model"
)

// Analyzer runs the test suite under coverage and reports a fresh
// measurement. Reports are never merged across rounds.
type Analyzer interface {
	Measure(ctx context.Context, project m.Project) (m.CoverageReport, error)
	RunTests(ctx context.Context, project m.Project) (m.TestRun, error)
}

type analyzer struct {
	engine  adapter.CoverageEngine
	runner  adapter.TestRunnerAdapter
	sources Inventory
}

// NewAnalyzer constructs an Analyzer.
func NewAnalyzer(engine adapter.CoverageEngine, runner adapter.TestRunnerAdapter, sources Inventory) Analyzer {
	return &analyzer{
		engine:  engine,
		runner:  runner,
		sources: sources,
	}
}

// Measure runs the whole suite once with coverage active. A failing suite is
// not an error; an empty data file yields an unavailable report. An engine
// that cannot start is an error.
func (a *analyzer) Measure(ctx context.Context, project m.Project) (m.CoverageReport, error) {
	scope := m.CoverageScope{
		WorkDir: project.Root,
		Source:  project.SourceRoot,
		Omit:    []string{"*/" + filepath.Base(string(project.TestsRoot)) + "/*"},
	}

	if err := a.engine.Start(ctx, scope); err != nil {
		return m.CoverageReport{}, fmt.Errorf("start coverage: %w", err)
	}

	run, err := a.runner.RunTests(ctx, project.Root, project.TestsRoot, a.engine.Wrap)

	if stopErr := a.engine.Stop(ctx); stopErr != nil {
		slog.Warn("Stopping coverage engine failed", "error", stopErr)
	}

	if err != nil {
		return m.CoverageReport{}, fmt.Errorf("run tests under coverage: %w", err)
	}

	report := m.CoverageReport{Run: run}

	if err := a.load(ctx); err != nil {
		if errors.Is(err, adapter.ErrNoCoverageData) {
			slog.Warn("No coverage data collected", "project", project.Root, "exitCode", run.ExitCode)
			return report, nil
		}

		return m.CoverageReport{}, err
	}

	percent, err := a.engine.Report()
	if err != nil {
		return m.CoverageReport{}, fmt.Errorf("coverage report: %w", err)
	}

	report.Available = true
	report.Percentage = percent
	report.Uncovered = a.uncovered(project)

	slog.Info("Measured coverage", "project", project.Root, "percent", percent, "exitCode", run.ExitCode)

	return report, nil
}

// RunTests executes the suite once without coverage.
func (a *analyzer) RunTests(ctx context.Context, project m.Project) (m.TestRun, error) {
	run, err := a.runner.RunTests(ctx, project.Root, project.TestsRoot)
	if err != nil {
		return m.TestRun{}, fmt.Errorf("run tests: %w", err)
	}

	return run, nil
}

func (a *analyzer) load(ctx context.Context) error {
	if err := a.engine.Save(ctx); err != nil {
		return fmt.Errorf("save coverage: %w", err)
	}

	if err := a.engine.Load(ctx); err != nil {
		return fmt.Errorf("load coverage: %w", err)
	}

	return nil
}

func (a *analyzer) uncovered(project m.Project) map[m.Path][]int {
	files, err := a.sources.ListSourceFiles(project)
	if err != nil {
		slog.Warn("Listing sources for coverage analysis failed", "error", err)
		return map[m.Path][]int{}
	}

	uncovered := make(map[m.Path][]int, len(files))

	for _, file := range files {
		lines, err := a.engine.Analysis(file)
		if err != nil {
			slog.Debug("No coverage analysis for file", "file", file, "error", err)
			continue
		}

		uncovered[file] = lines
	}

	return uncovered
}

// FocusFor names the functions enclosing the uncovered lines of one file,
// deduplicated in order of first appearance. Lines before any declaration
// and lines past the end of the file contribute nothing.
func FocusFor(lines []string, uncovered []int, lang m.Language) []string {
	if len(uncovered) == 0 {
		return nil
	}

	wanted := make(map[int]struct{}, len(uncovered))
	for _, n := range uncovered {
		wanted[n] = struct{}{}
	}

	var (
		focus   []string
		seen    = map[string]struct{}{}
		current string
	)

	for idx, line := range lines {
		if name, ok := declaredFunction(line, lang); ok {
			current = name
		}

		if _, ok := wanted[idx+1]; !ok || current == "" {
			continue
		}

		if _, dup := seen[current]; dup {
			continue
		}

		seen[current] = struct{}{}
		focus = append(focus, current)
	}

	return focus
}
