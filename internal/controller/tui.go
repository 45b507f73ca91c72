package controller

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	m "autocov.dev/pkg/autocov/internal/model"
)

const coverageBarWidth = 30

var (
	colorAccent  = lipgloss.Color("#20B9B4")
	colorSuccess = lipgloss.Color("#2CD7C7")
	colorWarning = lipgloss.Color("#F4D03F")
	colorError   = lipgloss.Color("#E74C3C")
	colorMuted   = lipgloss.Color("#5C7A84")
)

type tuiStyles struct {
	title   lipgloss.Style
	bold    lipgloss.Style
	muted   lipgloss.Style
	success lipgloss.Style
	warning lipgloss.Style
	failure lipgloss.Style
	added   lipgloss.Style
	box     lipgloss.Style
}

func newTUIStyles() tuiStyles {
	return tuiStyles{
		title:   lipgloss.NewStyle().Bold(true).Foreground(colorAccent),
		bold:    lipgloss.NewStyle().Bold(true),
		muted:   lipgloss.NewStyle().Foreground(colorMuted),
		success: lipgloss.NewStyle().Foreground(colorSuccess),
		warning: lipgloss.NewStyle().Foreground(colorWarning),
		failure: lipgloss.NewStyle().Foreground(colorError),
		added:   lipgloss.NewStyle().Foreground(colorSuccess),
		box: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorAccent).
			Padding(0, 1),
	}
}

// TUI implements UI with styled output, huh prompts and a Bubble Tea
// session browser.
type TUI struct {
	cmd    *cobra.Command
	styles tuiStyles
	mode   StartMode
}

// NewTUI creates a new TUI.
func NewTUI(cmd *cobra.Command) *TUI {
	return &TUI{cmd: cmd, styles: newTUIStyles()}
}

// Start prints the banner for a coverage run.
func (t *TUI) Start(ctx context.Context, options ...StartOption) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	t.mode = applyStartOptions(options).mode
	if t.mode == ModeRun {
		t.println(t.styles.box.Render(t.styles.title.Render("autocov") + t.styles.muted.Render(" · coverage convergence loop")))
	}

	return nil
}

// Close finalizes the UI.
func (t *TUI) Close(_ context.Context) {}

// DisplayCoverage renders the measurement as a bar against the target.
func (t *TUI) DisplayCoverage(iter m.IterationState, report m.CoverageReport) {
	if !report.Available {
		t.println(t.styles.warning.Render(fmt.Sprintf("No coverage data collected (test exit code %d)", report.Run.ExitCode)))
		return
	}

	style := t.styles.warning
	if iter.TargetMet() {
		style = t.styles.success
	}

	t.println(fmt.Sprintf("%s %s %s",
		t.styles.bold.Render("Coverage"),
		style.Render(coverageBar(report.Percentage, coverageBarWidth)),
		style.Render(fmt.Sprintf("%.2f%%", report.Percentage))+t.styles.muted.Render(fmt.Sprintf(" / %.2f%%", iter.TargetCoverage)),
	))
}

// DisplayRoundStart announces a generation round.
func (t *TUI) DisplayRoundStart(iter m.IterationState) {
	t.println("\n" + t.styles.title.Render(fmt.Sprintf("Round %d/%d", iter.Round, iter.MaxRounds)) +
		t.styles.muted.Render(" generating tests"))
}

// DisplayFileResult renders the outcome for one source file.
func (t *TUI) DisplayFileResult(result m.FileResult) {
	if result.Status == m.FileFailed {
		t.println(fmt.Sprintf("  %s %s %s", t.styles.failure.Render("✗"), result.Source, t.styles.muted.Render(result.Error)))
		return
	}

	t.println(fmt.Sprintf("  %s %s %s", t.styles.success.Render("✓"), result.Source, t.styles.muted.Render("→ "+string(result.TestFile))))
}

// DisplayTestRun renders the exit status of the post-generation run.
func (t *TUI) DisplayTestRun(iter m.IterationState, run m.TestRun) {
	if run.Passed() {
		t.println(t.styles.success.Render(fmt.Sprintf("Round %d test run passed", iter.Round)))
		return
	}

	t.println(t.styles.warning.Render(fmt.Sprintf("Round %d test run failed (exit code %d)", iter.Round, run.ExitCode)))
}

// DisplaySession renders the session summary in a box.
func (t *TUI) DisplaySession(ctx context.Context, session m.Session, reportPath m.Path) {
	if err := ctx.Err(); err != nil {
		return
	}

	summary := renderSessionSummary(session)
	if reportPath != "" {
		summary += "\n" + t.styles.muted.Render("Report: "+string(reportPath))
	}

	t.println("\n" + t.styles.box.Render(summary))
}

// ConfirmGenerate asks whether to start the next round.
func (t *TUI) ConfirmGenerate(ctx context.Context, iter m.IterationState) (bool, error) {
	return t.confirm(ctx,
		fmt.Sprintf("Generate tests for round %d/%d?", iter.Round, iter.MaxRounds),
		fmt.Sprintf("Coverage %.2f%% is below the %.2f%% target.", iter.CurrentCoverage, iter.TargetCoverage),
	)
}

// ConfirmReview asks whether to pause for review.
func (t *TUI) ConfirmReview(ctx context.Context, _ m.IterationState) (bool, error) {
	return t.confirm(ctx, "Review the generated tests before running them?", "")
}

// AwaitReview shows the appended diffs and waits until the operator continues.
func (t *TUI) AwaitReview(ctx context.Context, _ m.Project, results []m.FileResult) error {
	var files []string

	for _, result := range results {
		if result.Status != m.FileWritten {
			continue
		}

		files = append(files, "• "+string(result.TestFile))

		if result.Diff != "" {
			t.println(t.colorDiff(result.Diff))
		}
	}

	note := huh.NewNote().
		Title("Review the generated tests").
		Description(strings.Join(files, "\n")).
		Next(true)

	err := t.form(huh.NewGroup(note)).RunWithContext(ctx)
	if err != nil && !errors.Is(err, huh.ErrUserAborted) {
		return fmt.Errorf("review prompt: %w", err)
	}

	return nil
}

// DisplaySources renders the source inventory table.
func (t *TUI) DisplaySources(ctx context.Context, project m.Project, files []m.SourceFile) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	t.println(t.styles.title.Render(string(project.SourceRoot)))
	t.print(renderSourcesTable(project, files))

	return nil
}

// DisplayModels lists model ids, highlighting the default.
func (t *TUI) DisplayModels(ctx context.Context, models []string, defaultModel string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	for _, model := range models {
		if model == defaultModel {
			t.println(t.styles.success.Render("● " + model + " (default)"))
			continue
		}

		t.println(t.styles.muted.Render("○ ") + model)
	}

	return nil
}

// DisplaySessions opens the interactive session browser.
func (t *TUI) DisplaySessions(ctx context.Context, sessions []m.Session) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if len(sessions) == 0 {
		t.println(t.styles.muted.Render("No sessions found."))
		return nil
	}

	program := tea.NewProgram(
		newSessionBrowserModel(sessions, t.styles),
		tea.WithContext(ctx),
		tea.WithInput(t.cmd.InOrStdin()),
		tea.WithOutput(t.cmd.OutOrStdout()),
		tea.WithAltScreen(),
	)

	if _, err := program.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("session browser: %w", err)
	}

	return nil
}

func (t *TUI) confirm(ctx context.Context, title, description string) (bool, error) {
	answer := false

	confirm := huh.NewConfirm().
		Title(title).
		Affirmative("Yes").
		Negative("No").
		Value(&answer)
	if description != "" {
		confirm = confirm.Description(description)
	}

	if err := t.form(huh.NewGroup(confirm)).RunWithContext(ctx); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return false, nil
		}

		return false, fmt.Errorf("confirmation prompt: %w", err)
	}

	return answer, nil
}

func (t *TUI) form(groups ...*huh.Group) *huh.Form {
	return huh.NewForm(groups...).
		WithInput(t.cmd.InOrStdin()).
		WithOutput(t.cmd.OutOrStdout())
}

func (t *TUI) colorDiff(diff string) string {
	lines := strings.Split(strings.TrimRight(diff, "\n"), "\n")
	for i, line := range lines {
		switch {
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
			lines[i] = t.styles.bold.Render(line)
		case strings.HasPrefix(line, "+"):
			lines[i] = t.styles.added.Render(line)
		case strings.HasPrefix(line, "@@"):
			lines[i] = t.styles.muted.Render(line)
		}
	}

	return strings.Join(lines, "\n")
}

func (t *TUI) println(s string) {
	_, _ = fmt.Fprintln(t.cmd.OutOrStdout(), s)
}

func (t *TUI) print(s string) {
	_, _ = fmt.Fprint(t.cmd.OutOrStdout(), s)
}

// coverageBar renders percent as a fixed-width bar.
func coverageBar(percent float64, width int) string {
	if percent < 0 {
		percent = 0
	}

	if percent > 100 {
		percent = 100
	}

	filled := int(percent / 100 * float64(width))

	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

// sessionBrowserModel lists sessions in a table; enter toggles the round
// details of the selected session.
type sessionBrowserModel struct {
	sessions []m.Session
	table    table.Model
	styles   tuiStyles
	detail   bool
}

func newSessionBrowserModel(sessions []m.Session, styles tuiStyles) sessionBrowserModel {
	columns := []table.Column{
		{Title: "Started", Width: 19},
		{Title: "Project", Width: 28},
		{Title: "Model", Width: 24},
		{Title: "Rounds", Width: 7},
		{Title: "Coverage", Width: 18},
		{Title: "Result", Width: 24},
	}

	rows := make([]table.Row, 0, len(sessions))
	for _, session := range sessions {
		rows = append(rows, table.Row(sessionRow(session)))
	}

	tableStyles := table.DefaultStyles()
	tableStyles.Header = tableStyles.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(colorMuted).
		BorderBottom(true).
		Bold(true)
	tableStyles.Selected = tableStyles.Selected.
		Foreground(lipgloss.Color("#0F1923")).
		Background(colorAccent)

	tbl := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(min(len(rows), 10)+1),
	)
	tbl.SetStyles(tableStyles)

	return sessionBrowserModel{
		sessions: sessions,
		table:    tbl,
		styles:   styles,
	}
}

func (sbm sessionBrowserModel) Init() tea.Cmd {
	return nil
}

func (sbm sessionBrowserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		sbm.table.SetHeight(max(3, min(len(sbm.sessions)+1, msg.Height/2)))

		return sbm, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return sbm, tea.Quit
		case "enter":
			sbm.detail = !sbm.detail
			return sbm, nil
		}
	}

	var cmd tea.Cmd
	sbm.table, cmd = sbm.table.Update(msg)

	return sbm, cmd
}

func (sbm sessionBrowserModel) View() string {
	var b strings.Builder

	b.WriteString(sbm.styles.title.Render("Coverage sessions"))
	b.WriteString("\n\n")
	b.WriteString(sbm.table.View())
	b.WriteString("\n")

	if sbm.detail {
		if cursor := sbm.table.Cursor(); cursor >= 0 && cursor < len(sbm.sessions) {
			b.WriteString("\n")
			b.WriteString(sbm.renderDetail(sbm.sessions[cursor]))
			b.WriteString("\n")
		}
	}

	b.WriteString(sbm.styles.muted.Render("\n↑/↓ move • enter details • q quit"))

	return b.String()
}

func (sbm sessionBrowserModel) renderDetail(session m.Session) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s %s\n", sbm.styles.bold.Render("Session"), session.ID)

	if session.Error != "" {
		fmt.Fprintf(&b, "%s\n", sbm.styles.failure.Render(session.Error))
	}

	for _, round := range session.Rounds {
		fmt.Fprintf(&b, "Round %d: %.2f%% before, %d/%d written, exit code %d\n",
			round.Index, round.CoverageBefore, round.Written(), len(round.Files), round.RunExitCode)

		for _, file := range round.Files {
			mark := sbm.styles.success.Render("✓")
			if file.Status == m.FileFailed {
				mark = sbm.styles.failure.Render("✗")
			}

			fmt.Fprintf(&b, "  %s %s\n", mark, file.Source)
		}
	}

	return sbm.styles.box.Render(strings.TrimRight(b.String(), "\n"))
}
