package domain

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"autocov.dev/pkg/autocov/internal/adapter"
	m "autocov.dev/pkg/autocov/internal/model"
)

// Normalizer repairs generated blocks and appends them to test files.
type Normalizer interface {
	Normalize(block m.GeneratedTestBlock) m.NormalizedTestBlock
	// AppendTests adds block to the end of testFile, creating it when needed, and
	// returns a unified diff of the change. Prior content is never rewritten.
	AppendTests(testFile m.Path, block m.NormalizedTestBlock) (string, error)
}

type normalizer struct {
	fs   adapter.SourceFSAdapter
	lang m.Language
}

// NewNormalizer constructs a Normalizer writing through fsAdapter.
func NewNormalizer(fsAdapter adapter.SourceFSAdapter, lang m.Language) Normalizer {
	return &normalizer{fs: fsAdapter, lang: lang}
}

func (n *normalizer) Normalize(block m.GeneratedTestBlock) m.NormalizedTestBlock {
	return m.NormalizedTestBlock{
		Source: block.Source,
		Code:   NormalizeCode(block.Code, n.lang),
	}
}

// NormalizeCode is a line-oriented repair that does not parse the code:
// every line is stripped, test declarations are preceded by a blank line,
// every other line is indented one level, and any non-blank line lacking
// the assert keyword is followed by a placeholder assertion that fails.
// The framework import and a blank line are prepended when absent.
//
// Nested blocks lose their relative indentation. A declaration line always
// gets a placeholder, even when its name mentions the keyword.
func NormalizeCode(code string, lang m.Language) string {
	raw := strings.Split(code, "\n")
	out := make([]string, 0, len(raw)*2)

	for _, line := range raw {
		stripped := strings.TrimSpace(line)

		switch {
		case strings.HasPrefix(stripped, lang.TestFuncPrefix):
			out = append(out, "\n"+stripped, lang.Indent+lang.PlaceholderAssertion)
		case stripped == "":
			out = append(out, "")
		case strings.Contains(stripped, lang.AssertKeyword):
			out = append(out, lang.Indent+stripped)
		default:
			out = append(out, lang.Indent+stripped, lang.Indent+lang.PlaceholderAssertion)
		}
	}

	if !strings.Contains(code, lang.FrameworkImport) {
		out = append([]string{lang.FrameworkImport + "\n"}, out...)
	}

	return strings.Join(out, "\n")
}

func (n *normalizer) AppendTests(testFile m.Path, block m.NormalizedTestBlock) (string, error) {
	before := ""
	if data, err := n.fs.ReadFile(testFile); err == nil {
		before = string(data)
	}

	addition := block.Code
	if !strings.HasSuffix(addition, "\n") {
		addition += "\n"
	}

	if err := n.fs.AppendFile(testFile, []byte(addition)); err != nil {
		slog.Error("Appending generated tests failed", "testFile", testFile, "error", err)
		return "", fmt.Errorf("append tests to %s: %w", testFile, err)
	}

	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(before),
		B:        difflib.SplitLines(before + addition),
		FromFile: string(testFile),
		ToFile:   string(testFile),
		Context:  3,
	})
	if err != nil {
		slog.Warn("Building diff of appended tests failed", "testFile", testFile, "error", err)
		return "", nil
	}

	return diff, nil
}
