package formflow

import (
	"context"

	"github.com/tbxark/formflow/types"
)

// stepResult is what Process reports back to the turn loop: the updated
// values, where to go next, and optional feedback or a fresh prompt.
type stepResult[T any] struct {
	state    T
	next     types.NextStep
	feedback string
	prompt   string
}

// step is the uniform contract over the four step variants. All variants are
// closed inside this package; the dialog dispatches through this interface
// only.
type step[T any] interface {
	Name() string
	Type() types.StepType
	// Field is the field the step fills, nil for message and navigation
	// steps.
	Field() *Field[T]
	// Active reports whether the step should currently be visited.
	Active(state T) bool
	// Dependencies lists step names that must be completed before this step
	// may run. Only confirm steps declare any.
	Dependencies() []string
	// Start produces the text shown when the step becomes ready and moves
	// responding steps into the Responding phase.
	Start(ctx context.Context, state T, fs *FormState) string
	Match(ctx context.Context, state T, fs *FormState, input string) ([]types.TermMatch, error)
	Process(ctx context.Context, state T, fs *FormState, input string, matches []types.TermMatch) (stepResult[T], error)
	NotUnderstood(ctx context.Context, state T, fs *FormState, input string) string
	Help(ctx context.Context, state T, fs *FormState, commandHelp string) string
	// Back reports whether a "back" command should cancel the step's own
	// sub-resolution (true, continue with Next) instead of leaving the step
	// (false, go to the previous step).
	Back(fs *FormState) bool

	bind(form *Form[T])
}

// bestOf picks the strongest candidate from an already coalesced set:
// highest confidence, earliest span on ties.
func bestOf(matches []types.TermMatch) (types.TermMatch, bool) {
	if len(matches) == 0 {
		return types.TermMatch{}, false
	}
	best := matches[0]
	for _, m := range matches[1:] {
		if m.Confidence > best.Confidence {
			best = m
		}
	}
	return best, true
}
