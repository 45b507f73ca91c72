package model

// CoverageScope limits what the coverage engine measures.
type CoverageScope struct {
	WorkDir Path
	Source  Path
	Omit    []string
}

// CoverageReport is one fresh measurement. Reports are never merged across rounds.
type CoverageReport struct {
	// Available is false when the engine produced no data that could be loaded.
	Available  bool
	Percentage float64
	// Uncovered maps absolute source paths to uncovered line numbers (1-based).
	Uncovered map[Path][]int
	Run       TestRun
}

// UncoveredLines returns the uncovered lines recorded for path, if any.
func (r CoverageReport) UncoveredLines(path Path) ([]int, bool) {
	if r.Uncovered == nil {
		return nil, false
	}

	lines, ok := r.Uncovered[path]

	return lines, ok
}

// TestRun is the observed status of one test-suite execution.
type TestRun struct {
	ExitCode int
	Output   string
}

// Passed reports whether the suite exited cleanly.
func (t TestRun) Passed() bool {
	return t.ExitCode == 0
}
