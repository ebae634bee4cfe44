package formflow

import (
	"context"

	"github.com/tbxark/formflow/recognize"
	"github.com/tbxark/formflow/render"
	"github.com/tbxark/formflow/types"
)

// confirmStep asks the user to approve the values collected so far. It only
// runs once every dependency step has completed; answering "no" routes the
// user back toward the dependency they want to change.
type confirmStep[T any] struct {
	form         *Form[T]
	name         string
	prompt       string
	condition    Condition[T]
	dependencies []string
	recognizer   recognize.Recognizer
}

func (s *confirmStep[T]) bind(form *Form[T]) { s.form = form }

func (s *confirmStep[T]) Name() string {
	return s.name
}

func (s *confirmStep[T]) Type() types.StepType {
	return types.StepConfirm
}

func (s *confirmStep[T]) Field() *Field[T] {
	return nil
}

func (s *confirmStep[T]) Active(state T) bool {
	if s.condition == nil {
		return true
	}
	return s.condition(state)
}

func (s *confirmStep[T]) Dependencies() []string {
	return s.dependencies
}

func (s *confirmStep[T]) Start(ctx context.Context, state T, fs *FormState) string {
	fs.SetPhase(types.PhaseResponding)
	if s.prompt != "" {
		return s.prompt
	}
	p := s.form.prompter(fs.Locale)
	return p.Prompt(render.TemplateConfirmation, s.form.statusText(state, fs.Locale))
}

func (s *confirmStep[T]) Match(ctx context.Context, state T, fs *FormState, input string) ([]types.TermMatch, error) {
	return s.recognizer.Matches(ctx, input)
}

func (s *confirmStep[T]) Process(ctx context.Context, state T, fs *FormState, input string, matches []types.TermMatch) (stepResult[T], error) {
	best, ok := bestOf(matches)
	if !ok {
		return stepResult[T]{state: state, next: types.Next(), feedback: s.NotUnderstood(ctx, state, fs, input)}, nil
	}
	confirmed, _ := best.Value.(bool)
	if confirmed {
		fs.SetPhase(types.PhaseCompleted)
		return stepResult[T]{state: state, next: types.Next()}, nil
	}
	// Declined: let the user pick which dependency to change. With no
	// dependencies to revisit, fall back to the previous step.
	if len(s.dependencies) == 0 {
		return stepResult[T]{state: state, next: types.NextStep{Direction: types.DirectionPrevious}}, nil
	}
	return stepResult[T]{state: state, next: types.Named(s.dependencies...)}, nil
}

func (s *confirmStep[T]) NotUnderstood(ctx context.Context, state T, fs *FormState, input string) string {
	p := s.form.prompter(fs.Locale)
	return p.Prompt(render.TemplateNotUnderstood, input, s.name)
}

func (s *confirmStep[T]) Help(ctx context.Context, state T, fs *FormState, commandHelp string) string {
	p := s.form.prompter(fs.Locale)
	return p.Prompt(render.TemplateHelp, s.name, "* "+s.recognizer.Help(), commandHelp)
}

func (s *confirmStep[T]) Back(fs *FormState) bool {
	return false
}
