// Package controller provides the operator-facing output and prompts of the
// coverage loop.
package controller

import (
	"context"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	m "autocov.dev/pkg/autocov/internal/model"
)

// StartMode defines the mode of operation for the UI.
type StartMode int

// Available StartMode values.
const (
	ModeRun StartMode = iota
	ModeBrowse
)

// StartOption is a functional option for Start method.
type StartOption func(*StartConfig)

// StartConfig holds configuration for starting the UI.
type StartConfig struct {
	mode StartMode
}

// WithRunMode sets the UI to coverage loop mode.
func WithRunMode() StartOption {
	return func(c *StartConfig) {
		c.mode = ModeRun
	}
}

// WithBrowseMode sets the UI to report browsing mode.
func WithBrowseMode() StartOption {
	return func(c *StartConfig) {
		c.mode = ModeBrowse
	}
}

// Mode returns the selected StartMode.
func (c StartConfig) Mode() StartMode {
	return c.mode
}

func applyStartOptions(options []StartOption) StartConfig {
	cfg := StartConfig{mode: ModeRun}
	for _, opt := range options {
		opt(&cfg)
	}

	return cfg
}

// UI displays loop progress and asks the operator to confirm transitions.
// Implementations can use different output methods (simple text, TUI, etc).
type UI interface {
	Start(ctx context.Context, options ...StartOption) error
	Close(ctx context.Context)

	DisplayCoverage(iter m.IterationState, report m.CoverageReport)
	DisplayRoundStart(iter m.IterationState)
	DisplayFileResult(result m.FileResult)
	DisplayTestRun(iter m.IterationState, run m.TestRun)
	DisplaySession(ctx context.Context, session m.Session, reportPath m.Path)

	ConfirmGenerate(ctx context.Context, iter m.IterationState) (bool, error)
	ConfirmReview(ctx context.Context, iter m.IterationState) (bool, error)
	AwaitReview(ctx context.Context, project m.Project, results []m.FileResult) error

	DisplaySources(ctx context.Context, project m.Project, files []m.SourceFile) error
	DisplayModels(ctx context.Context, models []string, defaultModel string) error
	DisplaySessions(ctx context.Context, sessions []m.Session) error
}

// NewUI picks the terminal UI when attached to a TTY and the plain one
// otherwise.
func NewUI(cmd *cobra.Command, useTUI bool) UI {
	if useTUI {
		return NewTUI(cmd)
	}

	return NewSimpleUI(cmd)
}

// IsTTY reports whether f is an interactive terminal.
func IsTTY(f *os.File) bool {
	if f == nil {
		return false
	}

	fd := f.Fd()

	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
