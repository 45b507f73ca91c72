package domain

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"autocov.dev/pkg/autocov/internal/adapter"
	m "autocov.dev/pkg/autocov/internal/model"
)

// scriptedSynthesizer answers per source base name.
type scriptedSynthesizer struct {
	mu      sync.Mutex
	code    map[string]string
	fail    map[string]error
	prompts map[string]string
}

func (s *scriptedSynthesizer) Synthesize(_ context.Context, req m.GenerationRequest, _ string) (m.GeneratedTestBlock, error) {
	base := filepath.Base(string(req.Source))

	s.mu.Lock()
	if s.prompts == nil {
		s.prompts = map[string]string{}
	}
	s.prompts[base] = req.Prompt
	s.mu.Unlock()

	if err, ok := s.fail[base]; ok {
		return m.GeneratedTestBlock{}, err
	}

	return m.GeneratedTestBlock{Source: req.Source, Code: s.code[base]}, nil
}

func newGeneratorFixture(t *testing.T, synth Synthesizer) (Generator, m.Project) {
	t.Helper()

	root := t.TempDir()
	writeFile(t, filepath.Join(root, "src", "a.py"), "def alpha():\n    return 1\n")
	writeFile(t, filepath.Join(root, "src", "b.py"), "def beta(x):\n    if x:\n        return 2\n    return 3\n")
	writeFile(t, filepath.Join(root, "tests", "test_existing.py"), "def test_old():\n    assert True\n")

	fs := adapter.NewLocalSourceFSAdapter()
	inv := NewInventory(fs, InventoryOptions{})

	project, err := inv.ResolveProject(m.Path(root))
	require.NoError(t, err)

	return NewGenerator(inv, synth, NewNormalizer(fs, m.Python)), project
}

func TestGenerateRound_PartialFailureIsIsolated(t *testing.T) {
	synth := &scriptedSynthesizer{
		code: map[string]string{"b.py": "def test_beta():\nassert beta(1) == 2"},
		fail: map[string]error{"a.py": ErrGeneration},
	}
	gen, project := newGeneratorFixture(t, synth)

	results, err := gen.GenerateRound(context.Background(), project, m.CoverageReport{}, GenerateArgs{Model: "model", Parallel: 2})
	require.NoError(t, err)
	require.Len(t, results, 2)

	testA := filepath.Join(string(project.TestsRoot), "test_a.py")
	testB := filepath.Join(string(project.TestsRoot), "test_b.py")

	assert.Equal(t, m.FileFailed, results[0].Status)
	assert.Equal(t, m.Path(testA), results[0].TestFile)
	assert.Contains(t, results[0].Error, ErrGeneration.Error())

	assert.Equal(t, m.FileWritten, results[1].Status)
	assert.Equal(t, m.Path(testB), results[1].TestFile)
	assert.Contains(t, results[1].Diff, "+def test_beta():")

	_, err = os.Stat(testA)
	assert.True(t, os.IsNotExist(err), "failed file must stay untouched")

	content, err := os.ReadFile(testB)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(content), "import pytest\n"))
	assert.Contains(t, string(content), "    assert beta(1) == 2")
}

func TestGenerateRound_PromptUsesFocusAndExistingTests(t *testing.T) {
	synth := &scriptedSynthesizer{code: map[string]string{
		"a.py": "def test_alpha():\nassert alpha() == 1",
		"b.py": "def test_beta():\nassert beta(0) == 3",
	}}
	gen, project := newGeneratorFixture(t, synth)

	fileB := m.Path(filepath.Join(string(project.SourceRoot), "b.py"))
	report := m.CoverageReport{
		Available:  true,
		Percentage: 50,
		Uncovered:  map[m.Path][]int{fileB: {3, 4}},
	}

	results, err := gen.GenerateRound(context.Background(), project, report, GenerateArgs{Model: "model", Parallel: 1})
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Empty(t, results[0].Focus)
	assert.Equal(t, []string{"beta"}, results[1].Focus)

	assert.Contains(t, synth.prompts["b.py"], "Focus on these uncovered functions: beta.")
	assert.Contains(t, synth.prompts["a.py"], "Cover the whole file")
	assert.Contains(t, synth.prompts["a.py"], "def test_old():")
	assert.Contains(t, synth.prompts["a.py"], "Functions: beta")
}

func TestGenerateRound_UnavailableReportSkipsFocus(t *testing.T) {
	synth := &scriptedSynthesizer{code: map[string]string{
		"a.py": "def test_alpha():\nassert True",
		"b.py": "def test_beta():\nassert True",
	}}
	gen, project := newGeneratorFixture(t, synth)

	fileB := m.Path(filepath.Join(string(project.SourceRoot), "b.py"))
	report := m.CoverageReport{Uncovered: map[m.Path][]int{fileB: {3}}}

	results, err := gen.GenerateRound(context.Background(), project, report, GenerateArgs{})
	require.NoError(t, err)

	for _, result := range results {
		assert.Empty(t, result.Focus)
		assert.Equal(t, m.FileWritten, result.Status)
	}
}

func TestGenerateRound_EveryFileFails(t *testing.T) {
	synth := &scriptedSynthesizer{fail: map[string]error{
		"a.py": ErrEmptyResponse,
		"b.py": errors.New("boom"),
	}}
	gen, project := newGeneratorFixture(t, synth)

	results, err := gen.GenerateRound(context.Background(), project, m.CoverageReport{}, GenerateArgs{Parallel: 4})
	require.NoError(t, err, "per-file failures are not round failures")
	require.Len(t, results, 2)

	assert.Zero(t, m.RoundRecord{Files: results}.Written())
}
