package domain

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	m "autocov.dev/pkg/autocov/internal/model"
)

// DefaultModel is used when no model is requested or the requested one is
// not offered by the service.
const DefaultModel = "llama3-groq-70b-8192-tool-use-preview"

// RunArgs contains the arguments for one coverage session.
type RunArgs struct {
	Path           m.Path  `validate:"required"`
	Reports        m.Path  `validate:"required"`
	Model          string
	TargetCoverage float64 `validate:"gte=0,lte=100"`
	MaxRounds      int     `validate:"gt=0"`
	Parallel       int     `validate:"gte=0"`
	AlwaysProceed  bool
	Review         bool
	InstallDeps    bool
	SkipModelCheck bool
}

// ListArgs contains the arguments for listing a project's sources.
type ListArgs struct {
	Path m.Path `validate:"required"`
}

// ViewArgs contains the arguments for viewing persisted sessions.
type ViewArgs struct {
	Reports m.Path `validate:"required"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

func validateArgs(args any) error {
	if err := validate.Struct(args); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}

	return nil
}
