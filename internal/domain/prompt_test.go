package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	m "autocov.dev/pkg/autocov/internal/model"
)

func TestBuildPrompt_SectionOrder(t *testing.T) {
	in := PromptInput{
		Language:       m.Python,
		SourceCode:     "def add(a, b):\n    return a + b",
		ProjectContext: "Project root: /p\nSource files:\n",
		ExistingTests:  "def test_old():\n    assert True",
		Focus:          []string{"add"},
	}

	prompt := BuildPrompt(in)

	markers := []string{
		"Generate pytest tests for the following Python code:",
		"def add(a, b):",
		"Project context:",
		"Project root: /p",
		"Existing tests:",
		"def test_old():",
		"Focus on these uncovered parts and edge cases:",
		"Focus on these uncovered functions: add.",
		"Use these examples as a guide for writing good tests:",
		"@pytest.mark.parametrize",
		"Generate comprehensive tests that cover various scenarios and edge cases.",
	}

	last := -1
	for _, marker := range markers {
		idx := strings.Index(prompt, marker)
		if !assert.GreaterOrEqual(t, idx, 0, "missing %q", marker) {
			continue
		}

		assert.Greater(t, idx, last, "%q is out of order", marker)
		last = idx
	}

	assert.True(t, strings.HasSuffix(prompt, "Generate comprehensive tests that cover various scenarios and edge cases."))
}

func TestBuildPrompt_Deterministic(t *testing.T) {
	in := PromptInput{
		Language:   m.Python,
		SourceCode: "def f():\n    pass",
		Focus:      []string{"f", "g"},
	}

	assert.Equal(t, BuildPrompt(in), BuildPrompt(in))
}

func TestFocusText(t *testing.T) {
	assert.Equal(t,
		"Focus on these uncovered functions: a, b. Pay special attention to edge cases and boundary conditions.",
		FocusText([]string{"a", "b"}),
	)

	whole := FocusText(nil)
	assert.Contains(t, whole, "Cover the whole file")
	assert.NotContains(t, whole, "uncovered functions:")
}
