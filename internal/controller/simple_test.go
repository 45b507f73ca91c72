package controller

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "autocov.dev/pkg/autocov/internal/model"
)

func newTestSimpleUI(input string) (*SimpleUI, *bytes.Buffer) {
	out := &bytes.Buffer{}
	cmd := &cobra.Command{}
	cmd.SetOut(out)
	cmd.SetIn(strings.NewReader(input))

	return NewSimpleUI(cmd), out
}

func TestParseYes(t *testing.T) {
	tests := []struct {
		answer string
		want   bool
	}{
		{"y", true},
		{"YES", true},
		{" yes ", true},
		{"", false},
		{"n", false},
		{"yep", false},
	}

	for _, tt := range tests {
		t.Run(tt.answer, func(t *testing.T) {
			assert.Equal(t, tt.want, parseYes(tt.answer))
		})
	}
}

func TestSimpleUI_ConfirmGenerate(t *testing.T) {
	ui, out := newTestSimpleUI("y\nno\n")
	iter := m.IterationState{Round: 1, CurrentCoverage: 42.5, TargetCoverage: 80, MaxRounds: 5}

	ok, err := ui.ConfirmGenerate(context.Background(), iter)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Contains(t, out.String(), "Coverage 42.50% is below target 80.00%")

	ok, err = ui.ConfirmGenerate(context.Background(), iter)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSimpleUI_ConfirmAnswersNoAtEOF(t *testing.T) {
	ui, _ := newTestSimpleUI("")

	ok, err := ui.ConfirmReview(context.Background(), m.IterationState{})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSimpleUI_ConfirmLastLineWithoutNewline(t *testing.T) {
	ui, _ := newTestSimpleUI("yes")

	ok, err := ui.ConfirmReview(context.Background(), m.IterationState{})
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestSimpleUI_ConfirmCanceled(t *testing.T) {
	ui, _ := newTestSimpleUI("y\n")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := ui.ConfirmGenerate(ctx, m.IterationState{})
	require.ErrorIs(t, err, context.Canceled)
}

func TestSimpleUI_AwaitReviewPrintsDiffs(t *testing.T) {
	ui, out := newTestSimpleUI("\n")

	err := ui.AwaitReview(context.Background(), m.Project{}, []m.FileResult{
		{Source: "src/a.py", Status: m.FileWritten, Diff: "+def test_a():"},
		{Source: "src/b.py", Status: m.FileFailed, Diff: "+ignored"},
	})
	require.NoError(t, err)

	assert.Contains(t, out.String(), "+def test_a():")
	assert.NotContains(t, out.String(), "+ignored")
	assert.Contains(t, out.String(), "press Enter")
}

func TestSimpleUI_DisplayCoverage(t *testing.T) {
	ui, out := newTestSimpleUI("")

	ui.DisplayCoverage(m.IterationState{Round: 2, TargetCoverage: 90, MaxRounds: 5}, m.CoverageReport{Available: true, Percentage: 61.25})
	assert.Contains(t, out.String(), "Coverage: 61.25% (target 90.00%, round 2/5)")

	out.Reset()
	ui.DisplayCoverage(m.IterationState{}, m.CoverageReport{Run: m.TestRun{ExitCode: 4}})
	assert.Contains(t, out.String(), "no data collected (test exit code 4)")
}

func TestSimpleUI_DisplayFileResult(t *testing.T) {
	ui, out := newTestSimpleUI("")

	ui.DisplayFileResult(m.FileResult{Source: "src/a.py", TestFile: "tests/test_a.py", Status: m.FileWritten})
	ui.DisplayFileResult(m.FileResult{Source: "src/b.py", Status: m.FileFailed, Error: "empty response"})

	assert.Contains(t, out.String(), "src/a.py -> tests/test_a.py")
	assert.Contains(t, out.String(), "src/b.py: empty response")
}

func TestSimpleUI_DisplayModelsMarksDefault(t *testing.T) {
	ui, out := newTestSimpleUI("")

	require.NoError(t, ui.DisplayModels(context.Background(), []string{"a", "b"}, "b"))
	assert.Equal(t, "  a\n* b\n", out.String())
}

func TestSimpleUI_DisplaySources(t *testing.T) {
	ui, out := newTestSimpleUI("")
	project := m.Project{Root: "/work/proj"}

	err := ui.DisplaySources(context.Background(), project, []m.SourceFile{
		{Path: "/work/proj/src/calc.py", Lines: []string{"def add(a, b):", "def sub(a, b):", "", "x = 1"}, Functions: []string{"add", "sub"}},
		{Path: "/work/proj/src/io.py", Lines: []string{"pass"}},
	})
	require.NoError(t, err)

	rows := strings.Split(out.String(), "\n")
	var calcRow string
	for _, row := range rows {
		if strings.Contains(row, "src/calc.py") {
			calcRow = row
		}
	}

	assert.Equal(t, []string{"src/calc.py", "4", "2"}, strings.Fields(strings.ReplaceAll(calcRow, "|", "")))
	assert.Contains(t, strings.ToUpper(out.String()), "LINES")

	assert.Contains(t, out.String(), "src/calc.py")
	assert.Contains(t, out.String(), "src/io.py")
	assert.Contains(t, strings.ToUpper(out.String()), "TOTAL FILES 2")
}

func TestSimpleUI_DisplaySessions(t *testing.T) {
	ui, out := newTestSimpleUI("")

	require.NoError(t, ui.DisplaySessions(context.Background(), nil))
	assert.Contains(t, out.String(), "No sessions found.")

	out.Reset()
	require.NoError(t, ui.DisplaySessions(context.Background(), []m.Session{{
		Project:   "/work/proj",
		Model:     "llama3-70b",
		State:     m.StateDoneAborted,
		Reason:    m.AbortDeclined,
		StartedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}}))
	assert.Contains(t, out.String(), "llama3-70b")
	assert.Contains(t, out.String(), "done_aborted (declined)")
}

func TestRenderSessionSummary(t *testing.T) {
	tests := []struct {
		name    string
		session m.Session
		want    string
	}{
		{
			name:    "success",
			session: m.Session{State: m.StateDoneSuccess, TargetCoverage: 80},
			want:    "Target coverage 80.00% reached.",
		},
		{
			name:    "exhausted",
			session: m.Session{State: m.StateDoneExhausted, MaxRounds: 3, TargetCoverage: 95},
			want:    "Stopped after 3 round(s) without reaching 95.00%.",
		},
		{
			name:    "declined",
			session: m.Session{State: m.StateDoneAborted, Reason: m.AbortDeclined},
			want:    "Stopped at operator request.",
		},
		{
			name:    "error",
			session: m.Session{State: m.StateDoneAborted, Reason: m.AbortError, Error: "measuring (round 0): boom"},
			want:    "Aborted: measuring (round 0): boom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Contains(t, renderSessionSummary(tt.session), tt.want)
		})
	}
}

func TestRenderSessionSummary_CountsWrittenBlocks(t *testing.T) {
	session := m.Session{
		State:           m.StateDoneSuccess,
		InitialCoverage: 40,
		FinalCoverage:   85,
		Rounds: []m.RoundRecord{
			{Index: 1, Files: []m.FileResult{{Status: m.FileWritten}, {Status: m.FileFailed}}},
			{Index: 2, Files: []m.FileResult{{Status: m.FileWritten}}},
		},
	}

	assert.Contains(t, renderSessionSummary(session), "Coverage 40.00% -> 85.00% in 2 round(s), 2 test block(s) appended.")
}
