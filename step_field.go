package formflow

import (
	"context"
	"fmt"

	"github.com/tbxark/formflow/recognize"
	"github.com/tbxark/formflow/render"
	"github.com/tbxark/formflow/types"
)

// fieldStep asks for and commits one field value.
type fieldStep[T any] struct {
	form  *Form[T]
	field *Field[T]
}

func (s *fieldStep[T]) bind(form *Form[T]) { s.form = form }

func (s *fieldStep[T]) Name() string {
	return s.field.name
}

func (s *fieldStep[T]) Type() types.StepType {
	return types.StepField
}

func (s *fieldStep[T]) Field() *Field[T] {
	return s.field
}

func (s *fieldStep[T]) Active(state T) bool {
	return s.field.Active(state)
}

func (s *fieldStep[T]) Dependencies() []string {
	return nil
}

func (s *fieldStep[T]) Start(ctx context.Context, state T, fs *FormState) string {
	fs.SetPhase(types.PhaseResponding)
	if s.field.prompt != "" {
		return s.field.prompt
	}
	p := s.form.prompter(fs.Locale)
	if _, ok := s.field.recognizer.(*recognize.Terms); ok {
		return p.Prompt(render.TemplateSelectOne, s.field.description, s.field.recognizer.Help())
	}
	return p.Prompt(render.TemplateString, s.field.description)
}

func (s *fieldStep[T]) Match(ctx context.Context, state T, fs *FormState, input string) ([]types.TermMatch, error) {
	return s.field.recognizer.Matches(ctx, input)
}

func (s *fieldStep[T]) Process(ctx context.Context, state T, fs *FormState, input string, matches []types.TermMatch) (stepResult[T], error) {
	best, ok := bestOf(matches)
	if !ok {
		return stepResult[T]{state: state, next: types.Next(), feedback: s.NotUnderstood(ctx, state, fs, input)}, nil
	}
	updated, err := applyValue(state, s.field.name, best.Value)
	if err != nil {
		return stepResult[T]{state: state}, fmt.Errorf("commit %s: %w", s.field.name, err)
	}
	fs.SetPhase(types.PhaseCompleted)
	return stepResult[T]{state: updated, next: types.Next()}, nil
}

func (s *fieldStep[T]) NotUnderstood(ctx context.Context, state T, fs *FormState, input string) string {
	p := s.form.prompter(fs.Locale)
	return p.Prompt(render.TemplateNotUnderstood, input, s.field.description)
}

func (s *fieldStep[T]) Help(ctx context.Context, state T, fs *FormState, commandHelp string) string {
	p := s.form.prompter(fs.Locale)
	return p.Prompt(render.TemplateHelp, s.field.description, "* "+s.field.recognizer.Help(), commandHelp)
}

func (s *fieldStep[T]) Back(fs *FormState) bool {
	return false
}
