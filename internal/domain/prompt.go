package domain

import (
	"fmt"
	"strings"

	m "autocov.dev/pkg/autocov/internal/model"
)

// PromptInput is everything the prompt is assembled from. Building is pure:
// identical input always yields an identical prompt.
type PromptInput struct {
	Language       m.Language
	SourceCode     string
	ProjectContext string
	ExistingTests  string
	Focus          []string
}

const pytestExamples = `def test_addition():
    assert 1 + 1 == 2

@pytest.mark.parametrize("input,expected", [
    ("hello", "HELLO"),
    ("world", "WORLD"),
])
def test_uppercase(input, expected):
    assert input.upper() == expected`

// BuildPrompt assembles the generation request text, section by section.
func BuildPrompt(in PromptInput) string {
	sections := []string{
		fmt.Sprintf("Generate %s tests for the following %s code:", in.Language.Framework, in.Language.Name),
		in.SourceCode,
		"Project context:",
		in.ProjectContext,
		"Existing tests:",
		in.ExistingTests,
		"Focus on these uncovered parts and edge cases:",
		FocusText(in.Focus),
		"Use these examples as a guide for writing good tests:",
		pytestExamples,
		"Generate comprehensive tests that cover various scenarios and edge cases.",
	}

	return strings.Join(sections, "\n\n")
}

// FocusText renders the focus instruction. With no uncovered functions the
// whole file is in scope.
func FocusText(focus []string) string {
	if len(focus) == 0 {
		return "No specific uncovered functions were identified. Cover the whole file, " +
			"paying special attention to edge cases and boundary conditions."
	}

	return fmt.Sprintf("Focus on these uncovered functions: %s. "+
		"Pay special attention to edge cases and boundary conditions.", strings.Join(focus, ", "))
}
