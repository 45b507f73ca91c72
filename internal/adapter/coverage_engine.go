package adapter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	m "autocov.dev/pkg/autocov/internal/model"
)

const (
	coverageDataFile   = ".coverage"
	coverageReportFile = ".autocov-coverage.json"

	// coverageNoDataMessage is printed by `coverage json` when nothing was measured.
	coverageNoDataMessage = "No data to report"
)

var (
	// ErrNoCoverageData is returned when the engine has nothing to load or report.
	ErrNoCoverageData = errors.New("no coverage data")
	// ErrCoverageUnavailable is returned when coverage.py cannot be run at all.
	ErrCoverageUnavailable = errors.New("coverage.py is not available")
	// ErrFileNotMeasured is returned by Analysis for files absent from the data.
	ErrFileNotMeasured = errors.New("file not measured")
	// ErrEngineNotStarted is returned when Wrap/Stop is used outside a session.
	ErrEngineNotStarted = errors.New("coverage engine not started")
)

// CoverageEngine is the measuring contract the analyzer depends on. A session is
// Start → (suite runs through Wrap) → Stop → Save → Load → Report/Analysis.
type CoverageEngine interface {
	Start(ctx context.Context, scope m.CoverageScope) error
	// Wrap returns interpreter arguments that run args under instrumentation.
	Wrap(args []string) []string
	Stop(ctx context.Context) error
	Save(ctx context.Context) error
	Load(ctx context.Context) error
	Report() (float64, error)
	Analysis(file m.Path) ([]int, error)
}

// coverageJSON is the subset of `coverage json` output the engine reads.
type coverageJSON struct {
	Files map[string]struct {
		MissingLines []int `json:"missing_lines"`
	} `json:"files"`
	Totals struct {
		PercentCovered float64 `json:"percent_covered"`
	} `json:"totals"`
}

// CoveragePyEngine drives coverage.py through the Python interpreter.
type CoveragePyEngine struct {
	python  string
	timeout time.Duration

	mu      sync.Mutex
	scope   m.CoverageScope
	started bool
	percent float64
	missing map[m.Path][]int
	hasData bool
}

// NewCoveragePyEngine constructs a coverage.py backed engine.
func NewCoveragePyEngine(python string, timeout time.Duration) *CoveragePyEngine {
	if python == "" {
		python = DefaultPython
	}

	return &CoveragePyEngine{
		python:  python,
		timeout: timeout,
	}
}

// Start arms instrumentation for scope and erases data from earlier sessions.
func (e *CoveragePyEngine) Start(ctx context.Context, scope m.CoverageScope) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.scope = scope
	e.started = true
	e.hasData = false
	e.missing = nil
	e.percent = 0

	run, err := runCommand(ctx, e.timeout, scope.WorkDir, e.python, "-m", "coverage", "erase", e.dataFileFlag())
	if err != nil {
		return fmt.Errorf("erase coverage data: %w", err)
	}

	if !run.Passed() {
		slog.Error("coverage erase exited non-zero", "python", e.python, "exitCode", run.ExitCode, "output", run.Output)
		return fmt.Errorf("%w: %s", ErrCoverageUnavailable, strings.TrimSpace(run.Output))
	}

	if err := os.Remove(e.reportPath()); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove stale coverage report: %w", err)
	}

	return nil
}

// Wrap prefixes args with `-m coverage run` scoped to the session source.
func (e *CoveragePyEngine) Wrap(args []string) []string {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.started {
		return args
	}

	wrapped := []string{"-m", "coverage", "run", e.dataFileFlag()}
	if e.scope.Source != "" {
		wrapped = append(wrapped, "--source="+string(e.scope.Source))
	}

	if len(e.scope.Omit) > 0 {
		wrapped = append(wrapped, "--omit="+strings.Join(e.scope.Omit, ","))
	}

	return append(wrapped, args...)
}

// Stop disarms instrumentation for subsequent Wrap calls.
func (e *CoveragePyEngine) Stop(_ context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.started {
		return ErrEngineNotStarted
	}

	e.started = false

	return nil
}

// Save exports the collected data to the JSON report file. Only an empty
// data file maps to ErrNoCoverageData.
func (e *CoveragePyEngine) Save(ctx context.Context) error {
	e.mu.Lock()
	workDir := e.scope.WorkDir
	e.mu.Unlock()

	run, err := runCommand(ctx, e.timeout, workDir, e.python,
		"-m", "coverage", "json", e.dataFileFlag(), "-o", e.reportPath())
	if err != nil {
		return fmt.Errorf("export coverage data: %w", err)
	}

	if !run.Passed() {
		output := strings.TrimSpace(run.Output)
		if strings.Contains(output, coverageNoDataMessage) {
			return fmt.Errorf("%w: %s", ErrNoCoverageData, output)
		}

		return fmt.Errorf("coverage json exited with code %d: %s", run.ExitCode, output)
	}

	return nil
}

// Load reads the exported JSON report.
func (e *CoveragePyEngine) Load(_ context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	data, err := os.ReadFile(e.reportPath())
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s missing", ErrNoCoverageData, e.reportPath())
		}

		return fmt.Errorf("read coverage report: %w", err)
	}

	var report coverageJSON
	if err := json.Unmarshal(data, &report); err != nil {
		return fmt.Errorf("parse coverage report: %w", err)
	}

	e.missing = make(map[m.Path][]int, len(report.Files))
	for name, file := range report.Files {
		e.missing[e.absolute(name)] = file.MissingLines
	}

	e.percent = report.Totals.PercentCovered
	e.hasData = true

	return nil
}

// Report returns the total percentage covered.
func (e *CoveragePyEngine) Report() (float64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.hasData {
		return 0, ErrNoCoverageData
	}

	return e.percent, nil
}

// Analysis returns the uncovered line numbers of file.
func (e *CoveragePyEngine) Analysis(file m.Path) ([]int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.hasData {
		return nil, ErrNoCoverageData
	}

	lines, ok := e.missing[e.absolute(string(file))]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrFileNotMeasured, file)
	}

	return lines, nil
}

func (e *CoveragePyEngine) dataFileFlag() string {
	return "--data-file=" + filepath.Join(string(e.scope.WorkDir), coverageDataFile)
}

func (e *CoveragePyEngine) reportPath() string {
	return filepath.Join(string(e.scope.WorkDir), coverageReportFile)
}

// absolute resolves coverage.py file keys, which are relative to the working
// directory when the source lives beneath it.
func (e *CoveragePyEngine) absolute(name string) m.Path {
	if !filepath.IsAbs(name) {
		name = filepath.Join(string(e.scope.WorkDir), name)
	}

	return m.Path(filepath.Clean(name))
}
