package controller

import (
	"bytes"
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "autocov.dev/pkg/autocov/internal/model"
)

func TestCoverageBar(t *testing.T) {
	tests := []struct {
		name    string
		percent float64
		want    string
	}{
		{"empty", 0, "░░░░░░░░░░"},
		{"half", 50, "█████░░░░░"},
		{"full", 100, "██████████"},
		{"clamped low", -5, "░░░░░░░░░░"},
		{"clamped high", 140, "██████████"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, coverageBar(tt.percent, 10))
		})
	}
}

func TestSessionBrowserModel_TogglesDetail(t *testing.T) {
	sessions := []m.Session{{
		ID:     "22222222-bbbb",
		State:  m.StateDoneSuccess,
		Rounds: []m.RoundRecord{{Index: 1, Files: []m.FileResult{{Source: "src/calc.py", Status: m.FileWritten}}}},
	}}

	model := newSessionBrowserModel(sessions, newTUIStyles())
	assert.NotContains(t, model.View(), "22222222-bbbb")

	updated, cmd := model.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)

	browser, ok := updated.(sessionBrowserModel)
	require.True(t, ok)
	assert.True(t, browser.detail)
	assert.Contains(t, browser.View(), "22222222-bbbb")
	assert.Contains(t, browser.View(), "src/calc.py")
}

func TestSessionBrowserModel_Quits(t *testing.T) {
	model := newSessionBrowserModel(nil, newTUIStyles())

	_, cmd := model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestTUI_StartBannerOnlyInRunMode(t *testing.T) {
	out := &bytes.Buffer{}
	cmd := &cobra.Command{}
	cmd.SetOut(out)

	tui := NewTUI(cmd)

	require.NoError(t, tui.Start(context.Background(), WithBrowseMode()))
	assert.Equal(t, ModeBrowse, tui.mode)
	assert.Empty(t, out.String())

	require.NoError(t, tui.Start(context.Background(), WithRunMode()))
	assert.Equal(t, ModeRun, tui.mode)
	assert.Contains(t, out.String(), "autocov")
}

func TestStartConfig_Mode(t *testing.T) {
	assert.Equal(t, ModeRun, applyStartOptions(nil).Mode())
	assert.Equal(t, ModeBrowse, applyStartOptions([]StartOption{WithBrowseMode()}).Mode())
}
