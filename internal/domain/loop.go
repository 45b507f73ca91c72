package domain

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	m "autocov.dev/pkg/autocov/internal/model"
)

// DefaultMaxRounds bounds the loop when no budget is configured.
const DefaultMaxRounds = 5

// Observer receives progress notifications from the loop.
type Observer interface {
	DisplayCoverage(iter m.IterationState, report m.CoverageReport)
	DisplayRoundStart(iter m.IterationState)
	DisplayFileResult(result m.FileResult)
	DisplayTestRun(iter m.IterationState, run m.TestRun)
}

// LoopArgs configures one loop execution.
type LoopArgs struct {
	Project        m.Project
	Model          string
	TargetCoverage float64
	MaxRounds      int
	Parallel       int
}

// Loop is the convergence state machine.
type Loop interface {
	// Run drives rounds until a terminal state. It never returns an error:
	// failures end the session in StateDoneAborted with AbortError.
	Run(ctx context.Context, args LoopArgs) m.Session
}

type loop struct {
	analyzer  Analyzer
	generator Generator
	decider   Decider
	observer  Observer
	now       func() time.Time
}

// NewLoop constructs a Loop. A nil observer discards progress.
func NewLoop(analyzer Analyzer, generator Generator, decider Decider, observer Observer) Loop {
	if observer == nil {
		observer = noopObserver{}
	}

	return &loop{
		analyzer:  analyzer,
		generator: generator,
		decider:   decider,
		observer:  observer,
		now:       time.Now,
	}
}

// loopRun carries everything one execution mutates.
type loopRun struct {
	args     LoopArgs
	iter     m.IterationState
	report   m.CoverageReport
	results  []m.FileResult
	measured bool
	session  *m.Session
}

func (r *loopRun) currentRound() *m.RoundRecord {
	if len(r.session.Rounds) == 0 {
		return nil
	}

	return &r.session.Rounds[len(r.session.Rounds)-1]
}

func (l *loop) Run(ctx context.Context, args LoopArgs) m.Session {
	if args.MaxRounds <= 0 {
		args.MaxRounds = DefaultMaxRounds
	}

	session := m.Session{
		ID:             uuid.NewString(),
		Project:        args.Project.Root,
		Model:          args.Model,
		TargetCoverage: args.TargetCoverage,
		MaxRounds:      args.MaxRounds,
		StartedAt:      l.now(),
	}

	run := &loopRun{
		args: args,
		iter: m.IterationState{
			TargetCoverage: args.TargetCoverage,
			MaxRounds:      args.MaxRounds,
		},
		session: &session,
	}

	state := m.StateMeasuring

	for !state.Terminal() {
		next, err := l.safeStep(ctx, state, run)
		if err != nil {
			slog.Error("Coverage loop aborted", "state", state, "round", run.iter.Round, "error", err)

			session.Reason = m.AbortError
			session.Error = fmt.Sprintf("%s (round %d): %v", state, run.iter.Round, err)
			next = m.StateDoneAborted
		}

		slog.Debug("Loop transition", "from", state, "to", next, "round", run.iter.Round)
		state = next
	}

	session.State = state
	session.FinalCoverage = run.iter.CurrentCoverage
	session.FinishedAt = l.now()

	slog.Info("Coverage loop finished",
		"session", session.ID,
		"state", session.State,
		"reason", session.Reason,
		"rounds", run.iter.Round,
		"coverage", session.FinalCoverage,
	)

	return session
}

// safeStep turns a panic inside a step into an error at the round boundary.
func (l *loop) safeStep(ctx context.Context, state m.LoopState, run *loopRun) (next m.LoopState, err error) {
	defer func() {
		if r := recover(); r != nil {
			next = m.StateDoneAborted
			err = fmt.Errorf("%w: %v", ErrRoundPanicked, r)
		}
	}()

	if err := ctx.Err(); err != nil {
		return m.StateDoneAborted, err
	}

	return l.step(ctx, state, run)
}

func (l *loop) step(ctx context.Context, state m.LoopState, run *loopRun) (m.LoopState, error) {
	switch state {
	case m.StateMeasuring:
		return l.measure(ctx, run)
	case m.StateConfirmGenerate:
		return l.confirmGenerate(ctx, run)
	case m.StateGenerating:
		return l.generate(ctx, run)
	case m.StateConfirmReview:
		return l.confirmReview(ctx, run)
	case m.StateRunning:
		return l.runTests(ctx, run)
	default:
		return m.StateDoneAborted, fmt.Errorf("unknown loop state %q", state)
	}
}

func (l *loop) measure(ctx context.Context, run *loopRun) (m.LoopState, error) {
	report, err := l.analyzer.Measure(ctx, run.args.Project)
	if err != nil {
		return m.StateDoneAborted, fmt.Errorf("measure coverage: %w", err)
	}

	run.report = report
	run.iter.CurrentCoverage = report.Percentage

	if !run.measured {
		run.measured = true
		run.session.InitialCoverage = report.Percentage
	}

	l.observer.DisplayCoverage(run.iter, report)

	switch {
	case run.iter.TargetMet():
		return m.StateDoneSuccess, nil
	case run.iter.Exhausted():
		return m.StateDoneExhausted, nil
	default:
		return m.StateConfirmGenerate, nil
	}
}

func (l *loop) confirmGenerate(ctx context.Context, run *loopRun) (m.LoopState, error) {
	run.iter.Round++

	proceed, err := l.decider.ConfirmGenerate(ctx, run.iter)
	if err != nil {
		return m.StateDoneAborted, fmt.Errorf("confirm generation: %w", err)
	}

	if !proceed {
		slog.Info("Operator declined the next round", "round", run.iter.Round)

		run.session.Reason = m.AbortDeclined

		return m.StateDoneAborted, nil
	}

	run.session.Rounds = append(run.session.Rounds, m.RoundRecord{
		Index:          run.iter.Round,
		CoverageBefore: run.iter.CurrentCoverage,
	})

	l.observer.DisplayRoundStart(run.iter)

	return m.StateGenerating, nil
}

func (l *loop) generate(ctx context.Context, run *loopRun) (m.LoopState, error) {
	results, err := l.generator.GenerateRound(ctx, run.args.Project, run.report, GenerateArgs{
		Model:    run.args.Model,
		Parallel: run.args.Parallel,
	})
	if err != nil {
		return m.StateDoneAborted, fmt.Errorf("generate tests: %w", err)
	}

	run.results = results

	if round := run.currentRound(); round != nil {
		round.Files = results
	}

	for _, result := range results {
		l.observer.DisplayFileResult(result)
	}

	if len(results) > 0 && (m.RoundRecord{Files: results}).Written() == 0 {
		slog.Warn("No tests were generated this round", "round", run.iter.Round, "files", len(results))
	}

	return m.StateConfirmReview, nil
}

func (l *loop) confirmReview(ctx context.Context, run *loopRun) (m.LoopState, error) {
	review, err := l.decider.ConfirmReview(ctx, run.iter)
	if err != nil {
		return m.StateDoneAborted, fmt.Errorf("confirm review: %w", err)
	}

	if review {
		if err := l.decider.AwaitReview(ctx, run.args.Project, run.results); err != nil {
			return m.StateDoneAborted, fmt.Errorf("await review: %w", err)
		}
	}

	return m.StateRunning, nil
}

func (l *loop) runTests(ctx context.Context, run *loopRun) (m.LoopState, error) {
	result, err := l.analyzer.RunTests(ctx, run.args.Project)
	if err != nil {
		return m.StateDoneAborted, err
	}

	if round := run.currentRound(); round != nil {
		round.RunExitCode = result.ExitCode
	}

	slog.Info("Test suite executed", "round", run.iter.Round, "exitCode", result.ExitCode)
	l.observer.DisplayTestRun(run.iter, result)

	return m.StateMeasuring, nil
}

type noopObserver struct{}

func (noopObserver) DisplayCoverage(m.IterationState, m.CoverageReport) {}

func (noopObserver) DisplayRoundStart(m.IterationState) {}

func (noopObserver) DisplayFileResult(m.FileResult) {}

func (noopObserver) DisplayTestRun(m.IterationState, m.TestRun) {}
