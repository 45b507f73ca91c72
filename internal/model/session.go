package model

import "time"

// LoopState is a state of the convergence loop.
type LoopState string

const (
	// StateMeasuring runs the suite under coverage.
	StateMeasuring LoopState = "measuring"
	// StateConfirmGenerate asks whether to start a new round.
	StateConfirmGenerate LoopState = "confirm_generate"
	// StateGenerating synthesizes and appends tests for every source file.
	StateGenerating LoopState = "generating"
	// StateConfirmReview optionally pauses so generated tests can be reviewed.
	StateConfirmReview LoopState = "confirm_review"
	// StateRunning executes the suite once after generation.
	StateRunning LoopState = "running"
	// StateDoneSuccess means the target coverage was reached.
	StateDoneSuccess LoopState = "done_success"
	// StateDoneExhausted means the round budget ran out.
	StateDoneExhausted LoopState = "done_exhausted"
	// StateDoneAborted means the operator declined or a round failed.
	StateDoneAborted LoopState = "done_aborted"
)

// Terminal reports whether the loop stops in this state.
func (s LoopState) Terminal() bool {
	switch s {
	case StateDoneSuccess, StateDoneExhausted, StateDoneAborted:
		return true
	default:
		return false
	}
}

// AbortReason distinguishes why a loop ended in StateDoneAborted.
type AbortReason string

const (
	// AbortNone is used for non-aborted sessions.
	AbortNone AbortReason = ""
	// AbortDeclined means the operator chose not to continue.
	AbortDeclined AbortReason = "declined"
	// AbortError means a round failed unexpectedly.
	AbortError AbortReason = "error"
)

// IterationState is the only state carried across rounds.
type IterationState struct {
	Round           int
	CurrentCoverage float64
	TargetCoverage  float64
	MaxRounds       int
}

// TargetMet reports whether the current coverage satisfies the target.
func (s IterationState) TargetMet() bool {
	return s.CurrentCoverage >= s.TargetCoverage
}

// Exhausted reports whether the round budget is spent.
func (s IterationState) Exhausted() bool {
	return s.Round >= s.MaxRounds
}

// FileStatus is the per-file outcome of a generation round.
type FileStatus string

const (
	// FileWritten means normalized tests were appended to the test file.
	FileWritten FileStatus = "written"
	// FileFailed means synthesis or the append failed and the file was skipped.
	FileFailed FileStatus = "failed"
)

// FileResult records what happened to one source file in one round.
type FileResult struct {
	Source   Path       `yaml:"source"`
	TestFile Path       `yaml:"test_file"`
	Status   FileStatus `yaml:"status"`
	Focus    []string   `yaml:"focus,omitempty"`
	Error    string     `yaml:"error,omitempty"`
	Diff     string     `yaml:"-"`
}

// RoundRecord summarizes one loop body execution.
type RoundRecord struct {
	Index          int          `yaml:"index"`
	CoverageBefore float64      `yaml:"coverage_before"`
	Files          []FileResult `yaml:"files"`
	RunExitCode    int          `yaml:"run_exit_code"`
}

// Written counts files whose tests were appended.
func (r RoundRecord) Written() int {
	count := 0

	for _, f := range r.Files {
		if f.Status == FileWritten {
			count++
		}
	}

	return count
}

// Session is the persisted record of one loop execution.
type Session struct {
	ID              string        `yaml:"id"`
	Project         Path          `yaml:"project"`
	Model           string        `yaml:"model"`
	TargetCoverage  float64       `yaml:"target_coverage"`
	MaxRounds       int           `yaml:"max_rounds"`
	InitialCoverage float64       `yaml:"initial_coverage"`
	FinalCoverage   float64       `yaml:"final_coverage"`
	State           LoopState     `yaml:"state"`
	Reason          AbortReason   `yaml:"reason,omitempty"`
	Error           string        `yaml:"error,omitempty"`
	Rounds          []RoundRecord `yaml:"rounds"`
	StartedAt       time.Time     `yaml:"started_at"`
	FinishedAt      time.Time     `yaml:"finished_at"`
}
