package domain

import (
	"context"

	m "autocov.dev/pkg/autocov/internal/model"
)

// Decider gates the loop's confirmation transitions.
type Decider interface {
	// ConfirmGenerate is asked before every round; false ends the loop.
	ConfirmGenerate(ctx context.Context, iter m.IterationState) (bool, error)
	// ConfirmReview asks whether to pause for review after generation.
	ConfirmReview(ctx context.Context, iter m.IterationState) (bool, error)
	// AwaitReview blocks until the operator has reviewed the round's changes.
	AwaitReview(ctx context.Context, project m.Project, results []m.FileResult) error
}

type policyDecider struct {
	fallback      Decider
	alwaysProceed bool
	skipReview    bool
}

// NewPolicyDecider answers from fixed booleans and defers everything else to
// fallback. Without a fallback, unanswered generation prompts decline and
// review is skipped.
func NewPolicyDecider(fallback Decider, alwaysProceed, skipReview bool) Decider {
	return &policyDecider{
		fallback:      fallback,
		alwaysProceed: alwaysProceed,
		skipReview:    skipReview,
	}
}

func (p *policyDecider) ConfirmGenerate(ctx context.Context, iter m.IterationState) (bool, error) {
	if p.alwaysProceed {
		return true, nil
	}

	if p.fallback == nil {
		return false, nil
	}

	return p.fallback.ConfirmGenerate(ctx, iter)
}

func (p *policyDecider) ConfirmReview(ctx context.Context, iter m.IterationState) (bool, error) {
	if p.skipReview || p.fallback == nil {
		return false, nil
	}

	return p.fallback.ConfirmReview(ctx, iter)
}

func (p *policyDecider) AwaitReview(ctx context.Context, project m.Project, results []m.FileResult) error {
	if p.fallback == nil {
		return nil
	}

	return p.fallback.AwaitReview(ctx, project, results)
}
