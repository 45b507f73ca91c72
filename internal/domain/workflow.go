package domain

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"autocov.dev/pkg/autocov/internal/adapter"
	"autocov.dev/pkg/autocov/internal/controller"
	m "autocov.dev/pkg/autocov/internal/model"
)

// Workflow is the entry point used by the CLI commands.
type Workflow interface {
	Run(ctx context.Context, args RunArgs) (m.Session, error)
	List(ctx context.Context, args ListArgs) error
	Models(ctx context.Context) error
	View(ctx context.Context, args ViewArgs) error
}

type workflow struct {
	Inventory
	Analyzer
	Generator
	adapter.LLMClient
	adapter.DependencyInstaller
	adapter.ReportStore
	ui controller.UI
}

// NewWorkflow creates a new Workflow instance with the provided dependencies.
func NewWorkflow(
	inventory Inventory,
	analyzer Analyzer,
	generator Generator,
	llm adapter.LLMClient,
	installer adapter.DependencyInstaller,
	reportStore adapter.ReportStore,
	ui controller.UI,
) Workflow {
	return &workflow{
		Inventory:           inventory,
		Analyzer:            analyzer,
		Generator:           generator,
		LLMClient:           llm,
		DependencyInstaller: installer,
		ReportStore:         reportStore,
		ui:                  ui,
	}
}

// Run validates the configuration, then drives one convergence session and
// persists it. Every terminal loop state is a successful run.
func (w *workflow) Run(ctx context.Context, args RunArgs) (m.Session, error) {
	if err := validateArgs(args); err != nil {
		return m.Session{}, err
	}

	project, err := w.ResolveProject(args.Path)
	if err != nil {
		return m.Session{}, fmt.Errorf("resolve project: %w", err)
	}

	if err := w.Ready(); err != nil {
		return m.Session{}, fmt.Errorf("text generation client: %w", err)
	}

	if args.InstallDeps {
		if _, err := w.Install(ctx, project.Root); err != nil {
			return m.Session{}, fmt.Errorf("install dependencies: %w", err)
		}
	}

	model := args.Model
	if !args.SkipModelCheck {
		model, err = w.ResolveModel(ctx, args.Model)
		if err != nil {
			return m.Session{}, err
		}
	} else if model == "" {
		model = DefaultModel
	}

	if err := w.ui.Start(ctx, controller.WithRunMode()); err != nil {
		return m.Session{}, fmt.Errorf("start UI: %w", err)
	}
	defer w.ui.Close(ctx)

	decider := NewPolicyDecider(w.ui, args.AlwaysProceed, !args.Review)
	convergence := NewLoop(w.Analyzer, w.Generator, decider, w.ui)

	session := convergence.Run(ctx, LoopArgs{
		Project:        project,
		Model:          model,
		TargetCoverage: args.TargetCoverage,
		MaxRounds:      args.MaxRounds,
		Parallel:       args.Parallel,
	})

	reportPath, err := w.SaveSession(args.Reports, session)
	if err != nil {
		slog.Error("Saving session report failed", "reports", args.Reports, "error", err)
		return session, fmt.Errorf("save session: %w", err)
	}

	w.ui.DisplaySession(ctx, session, reportPath)

	return session, nil
}

// ResolveModel validates requested against the catalog. An unknown model
// falls back to DefaultModel; an unreachable catalog is a configuration error.
func (w *workflow) ResolveModel(ctx context.Context, requested string) (string, error) {
	models, err := w.ListModels(ctx)
	if err != nil {
		return "", fmt.Errorf("list models: %w", err)
	}

	if len(models) == 0 {
		return "", ErrNoModels
	}

	if requested != "" && slices.Contains(models, requested) {
		return requested, nil
	}

	if requested != "" {
		slog.Warn("Requested model is not available, using default", "requested", requested, "default", DefaultModel)
	}

	return DefaultModel, nil
}

func (w *workflow) List(ctx context.Context, args ListArgs) error {
	if err := validateArgs(args); err != nil {
		return err
	}

	project, err := w.ResolveProject(args.Path)
	if err != nil {
		return fmt.Errorf("resolve project: %w", err)
	}

	paths, err := w.ListSourceFiles(project)
	if err != nil {
		return fmt.Errorf("list source files: %w", err)
	}

	files := make([]m.SourceFile, 0, len(paths))

	for _, path := range paths {
		file, err := w.ReadSourceFile(path)
		if err != nil {
			return fmt.Errorf("read source file: %w", err)
		}

		files = append(files, file)
	}

	return w.ui.DisplaySources(ctx, project, files)
}

func (w *workflow) Models(ctx context.Context) error {
	models, err := w.ListModels(ctx)
	if err != nil {
		return fmt.Errorf("list models: %w", err)
	}

	return w.ui.DisplayModels(ctx, models, DefaultModel)
}

func (w *workflow) View(ctx context.Context, args ViewArgs) error {
	if err := validateArgs(args); err != nil {
		return err
	}

	sessions, err := w.LoadSessions(args.Reports)
	if err != nil {
		return fmt.Errorf("load sessions: %w", err)
	}

	if err := w.ui.Start(ctx, controller.WithBrowseMode()); err != nil {
		return fmt.Errorf("start UI: %w", err)
	}
	defer w.ui.Close(ctx)

	return w.ui.DisplaySessions(ctx, sessions)
}
