package formflow

import (
	"context"

	"github.com/tbxark/formflow/types"
)

// messageStep shows a one-shot notice. It never waits for a reply: it
// completes at Start and the turn loop rolls straight into the next step.
type messageStep[T any] struct {
	form      *Form[T]
	name      string
	text      string
	condition Condition[T]
}

func (s *messageStep[T]) bind(form *Form[T]) { s.form = form }

func (s *messageStep[T]) Name() string {
	return s.name
}

func (s *messageStep[T]) Type() types.StepType {
	return types.StepMessage
}

func (s *messageStep[T]) Field() *Field[T] {
	return nil
}

func (s *messageStep[T]) Active(state T) bool {
	if s.condition == nil {
		return true
	}
	return s.condition(state)
}

func (s *messageStep[T]) Dependencies() []string {
	return nil
}

func (s *messageStep[T]) Start(ctx context.Context, state T, fs *FormState) string {
	fs.SetPhase(types.PhaseCompleted)
	return s.text
}

func (s *messageStep[T]) Match(ctx context.Context, state T, fs *FormState, input string) ([]types.TermMatch, error) {
	return nil, nil
}

func (s *messageStep[T]) Process(ctx context.Context, state T, fs *FormState, input string, matches []types.TermMatch) (stepResult[T], error) {
	return stepResult[T]{state: state, next: types.Next()}, nil
}

func (s *messageStep[T]) NotUnderstood(ctx context.Context, state T, fs *FormState, input string) string {
	return ""
}

func (s *messageStep[T]) Help(ctx context.Context, state T, fs *FormState, commandHelp string) string {
	return commandHelp
}

func (s *messageStep[T]) Back(fs *FormState) bool {
	return false
}
