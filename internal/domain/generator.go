package domain

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	m "autocov.dev/pkg/autocov/internal/model"
)

// GenerateArgs configures one generation round.
type GenerateArgs struct {
	Model    string
	Parallel int
}

// Generator performs the GENERATING step of a round: one synthesized,
// normalized and appended block per source file.
type Generator interface {
	GenerateRound(ctx context.Context, project m.Project, report m.CoverageReport, args GenerateArgs) ([]m.FileResult, error)
}

type generator struct {
	Inventory
	Synthesizer
	Normalizer
}

// NewGenerator constructs a Generator.
func NewGenerator(inventory Inventory, synthesizer Synthesizer, normalizer Normalizer) Generator {
	return &generator{
		Inventory:   inventory,
		Synthesizer: synthesizer,
		Normalizer:  normalizer,
	}
}

type preparedFile struct {
	result m.FileResult
	block  m.NormalizedTestBlock
}

// GenerateRound returns one result per source file, in source order. A
// failure for one file is recorded in its result and never affects another
// file. The returned error is reserved for failures of the round itself.
func (g *generator) GenerateRound(
	ctx context.Context,
	project m.Project,
	report m.CoverageReport,
	args GenerateArgs,
) ([]m.FileResult, error) {
	paths, err := g.ListSourceFiles(project)
	if err != nil {
		return nil, fmt.Errorf("list source files: %w", err)
	}

	existing, err := g.ReadExistingTests(project)
	if err != nil {
		return nil, fmt.Errorf("read existing tests: %w", err)
	}

	files := make([]m.SourceFile, len(paths))
	readErrs := make([]error, len(paths))
	readable := make([]m.SourceFile, 0, len(paths))

	for i, path := range paths {
		files[i], readErrs[i] = g.ReadSourceFile(path)
		if readErrs[i] != nil {
			slog.Error("Reading source file failed", "source", path, "error", readErrs[i])
			continue
		}

		readable = append(readable, files[i])
	}

	projectContext := g.ProjectContext(project, readable)

	prepared := make([]preparedFile, len(paths))

	var group errgroup.Group
	if args.Parallel > 0 {
		group.SetLimit(args.Parallel)
	}

	for i, path := range paths {
		prepared[i].result = m.FileResult{
			Source:   path,
			TestFile: g.TestFileFor(project, path),
		}

		if readErrs[i] != nil {
			prepared[i].result.Status = m.FileFailed
			prepared[i].result.Error = readErrs[i].Error()

			continue
		}

		slot := &prepared[i]
		file := files[i]

		group.Go(func() error {
			g.prepare(ctx, slot, file, report, projectContext, existing, args.Model)
			return nil
		})
	}

	_ = group.Wait()

	results := make([]m.FileResult, len(prepared))

	for i := range prepared {
		results[i] = g.commit(prepared[i])
	}

	return results, nil
}

func (g *generator) prepare(
	ctx context.Context,
	slot *preparedFile,
	file m.SourceFile,
	report m.CoverageReport,
	projectContext, existing, model string,
) {
	if report.Available {
		if uncovered, ok := report.UncoveredLines(file.Path); ok {
			slot.result.Focus = FocusFor(file.Lines, uncovered, g.Language())
		}
	}

	prompt := BuildPrompt(PromptInput{
		Language:       g.Language(),
		SourceCode:     file.Text(),
		ProjectContext: projectContext,
		ExistingTests:  existing,
		Focus:          slot.result.Focus,
	})

	raw, err := g.Synthesize(ctx, m.GenerationRequest{Source: file.Path, Prompt: prompt}, model)
	if err != nil {
		slot.result.Status = m.FileFailed
		slot.result.Error = err.Error()

		return
	}

	slot.block = g.Normalize(raw)
}

func (g *generator) commit(slot preparedFile) m.FileResult {
	result := slot.result
	if result.Status == m.FileFailed {
		return result
	}

	diff, err := g.AppendTests(result.TestFile, slot.block)
	if err != nil {
		result.Status = m.FileFailed
		result.Error = err.Error()

		return result
	}

	result.Status = m.FileWritten
	result.Diff = diff

	slog.Info("Appended generated tests", "source", result.Source, "testFile", result.TestFile)

	return result
}
