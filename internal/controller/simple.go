package controller

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	m "autocov.dev/pkg/autocov/internal/model"
)

// SimpleUI implements UI using cobra Command's output and line prompts.
type SimpleUI struct {
	cmd *cobra.Command

	once   sync.Once
	reader *bufio.Reader
}

// NewSimpleUI creates a new SimpleUI.
func NewSimpleUI(cmd *cobra.Command) *SimpleUI {
	return &SimpleUI{cmd: cmd}
}

// Start initializes the UI.
func (s *SimpleUI) Start(ctx context.Context, _ ...StartOption) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return nil
}

// Close finalizes the UI.
func (s *SimpleUI) Close(_ context.Context) {}

// DisplayCoverage prints one measurement.
func (s *SimpleUI) DisplayCoverage(iter m.IterationState, report m.CoverageReport) {
	if !report.Available {
		s.printf("Coverage: no data collected (test exit code %d)\n", report.Run.ExitCode)
		return
	}

	s.printf("Coverage: %.2f%% (target %.2f%%, round %d/%d)\n",
		report.Percentage, iter.TargetCoverage, iter.Round, iter.MaxRounds)
}

// DisplayRoundStart announces a generation round.
func (s *SimpleUI) DisplayRoundStart(iter m.IterationState) {
	s.printf("\nRound %d/%d: generating tests\n", iter.Round, iter.MaxRounds)
}

// DisplayFileResult prints the outcome for one source file.
func (s *SimpleUI) DisplayFileResult(result m.FileResult) {
	if result.Status == m.FileFailed {
		s.printf("  %-8s %s: %s\n", result.Status, result.Source, result.Error)
		return
	}

	s.printf("  %-8s %s -> %s\n", result.Status, result.Source, result.TestFile)
}

// DisplayTestRun prints the exit status of the post-generation run.
func (s *SimpleUI) DisplayTestRun(iter m.IterationState, run m.TestRun) {
	status := "passed"
	if !run.Passed() {
		status = fmt.Sprintf("failed (exit code %d)", run.ExitCode)
	}

	s.printf("Round %d test run %s\n", iter.Round, status)
}

// DisplaySession prints the session summary.
func (s *SimpleUI) DisplaySession(ctx context.Context, session m.Session, reportPath m.Path) {
	if err := ctx.Err(); err != nil {
		return
	}

	s.printf("\n%s\n", renderSessionSummary(session))

	if reportPath != "" {
		s.printf("Report saved to %s\n", reportPath)
	}
}

// ConfirmGenerate asks whether to start the next round.
func (s *SimpleUI) ConfirmGenerate(ctx context.Context, iter m.IterationState) (bool, error) {
	return s.confirm(ctx, fmt.Sprintf("Coverage %.2f%% is below target %.2f%%. Generate tests for round %d/%d?",
		iter.CurrentCoverage, iter.TargetCoverage, iter.Round, iter.MaxRounds))
}

// ConfirmReview asks whether to pause for review.
func (s *SimpleUI) ConfirmReview(ctx context.Context, _ m.IterationState) (bool, error) {
	return s.confirm(ctx, "Review the generated tests before running them?")
}

// AwaitReview prints the appended diffs and waits for Enter.
func (s *SimpleUI) AwaitReview(ctx context.Context, _ m.Project, results []m.FileResult) error {
	for _, result := range results {
		if result.Status == m.FileWritten && result.Diff != "" {
			s.printf("%s\n", result.Diff)
		}
	}

	s.printf("Review the test files, then press Enter to continue... ")

	_, err := s.readLine(ctx)
	if err != nil && !errors.Is(err, io.EOF) {
		return err
	}

	return nil
}

// DisplaySources prints the source inventory.
func (s *SimpleUI) DisplaySources(ctx context.Context, project m.Project, files []m.SourceFile) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.printf("\n%s", renderSourcesTable(project, files))

	return nil
}

// DisplayModels prints the available model ids.
func (s *SimpleUI) DisplayModels(ctx context.Context, models []string, defaultModel string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	for _, model := range models {
		marker := " "
		if model == defaultModel {
			marker = "*"
		}

		s.printf("%s %s\n", marker, model)
	}

	return nil
}

// DisplaySessions prints a table of persisted sessions.
func (s *SimpleUI) DisplaySessions(ctx context.Context, sessions []m.Session) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if len(sessions) == 0 {
		s.printf("No sessions found.\n")
		return nil
	}

	s.printf("\n%s", renderSessionsTable(sessions))

	return nil
}

func (s *SimpleUI) confirm(ctx context.Context, question string) (bool, error) {
	s.printf("%s [y/N]: ", question)

	line, err := s.readLine(ctx)
	if err != nil {
		if errors.Is(err, io.EOF) {
			s.printf("\n")
			return false, nil
		}

		return false, err
	}

	return parseYes(line), nil
}

func (s *SimpleUI) readLine(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	s.once.Do(func() {
		s.reader = bufio.NewReader(s.cmd.InOrStdin())
	})

	line, err := s.reader.ReadString('\n')
	if err != nil && (line == "" || !errors.Is(err, io.EOF)) {
		return "", err
	}

	return strings.TrimSpace(line), nil
}

func (s *SimpleUI) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(s.cmd.OutOrStdout(), format, args...)
}

func parseYes(answer string) bool {
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

func renderSourcesTable(project m.Project, files []m.SourceFile) string {
	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"Path", "Lines", "Functions"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_CENTER})

	lines := 0
	functions := 0

	for _, file := range files {
		table.Append([]string{
			relativeTo(project.Root, file.Path),
			fmt.Sprintf("%d", len(file.Lines)),
			fmt.Sprintf("%d", len(file.Functions)),
		})

		lines += len(file.Lines)
		functions += len(file.Functions)
	}

	table.SetFooter([]string{
		fmt.Sprintf("Total Files %d", len(files)),
		fmt.Sprintf("%d", lines),
		fmt.Sprintf("%d", functions),
	})

	table.Render()

	return tableBuffer.String()
}

func renderSessionsTable(sessions []m.Session) string {
	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"Started", "Project", "Model", "Rounds", "Coverage", "Result"})
	table.SetBorder(false)
	table.SetCenterSeparator("")

	for _, session := range sessions {
		table.Append(sessionRow(session))
	}

	table.Render()

	return tableBuffer.String()
}

func sessionRow(session m.Session) []string {
	return []string{
		session.StartedAt.Local().Format(time.DateTime),
		string(session.Project),
		session.Model,
		fmt.Sprintf("%d/%d", len(session.Rounds), session.MaxRounds),
		fmt.Sprintf("%.2f%% -> %.2f%%", session.InitialCoverage, session.FinalCoverage),
		sessionResult(session),
	}
}

func sessionResult(session m.Session) string {
	if session.Reason != m.AbortNone {
		return fmt.Sprintf("%s (%s)", session.State, session.Reason)
	}

	return string(session.State)
}

func renderSessionSummary(session m.Session) string {
	var b strings.Builder

	switch session.State {
	case m.StateDoneSuccess:
		fmt.Fprintf(&b, "Target coverage %.2f%% reached.\n", session.TargetCoverage)
	case m.StateDoneExhausted:
		fmt.Fprintf(&b, "Stopped after %d round(s) without reaching %.2f%%.\n", session.MaxRounds, session.TargetCoverage)
	case m.StateDoneAborted:
		if session.Reason == m.AbortDeclined {
			b.WriteString("Stopped at operator request.\n")
		} else {
			fmt.Fprintf(&b, "Aborted: %s\n", session.Error)
		}
	}

	written := 0
	for _, round := range session.Rounds {
		written += round.Written()
	}

	fmt.Fprintf(&b, "Coverage %.2f%% -> %.2f%% in %d round(s), %d test block(s) appended.",
		session.InitialCoverage, session.FinalCoverage, len(session.Rounds), written)

	return b.String()
}

func relativeTo(root, path m.Path) string {
	rel, err := filepath.Rel(string(root), string(path))
	if err != nil {
		return string(path)
	}

	return rel
}
