package formflow

import (
	"context"
	"fmt"

	"github.com/tbxark/formflow/recognize"
	"github.com/tbxark/formflow/render"
	"github.com/tbxark/formflow/types"
)

// navigationStep is the transient step instantiated while a multi-candidate
// jump is pending: it asks which of the named steps the user meant and
// resolves the pending intent from the reply. It holds no position in the
// form; the pending names live in FormState.Next.
type navigationStep[T any] struct {
	form       *Form[T]
	names      []string
	recognizer recognize.Recognizer
}

func newNavigationStep[T any](form *Form[T], fs *FormState) (*navigationStep[T], error) {
	if fs.Next == nil || len(fs.Next.Names) == 0 {
		return nil, fmt.Errorf("no pending navigation to resolve")
	}
	names := fs.Next.Names
	sets := make([]recognize.TermSet, 0, len(names))
	for _, name := range names {
		terms := []string{describePointer(name)}
		if field := form.fields.Field(name); field != nil && field.description != describePointer(name) {
			terms = append(terms, field.description)
		}
		sets = append(sets, recognize.TermSet{Value: name, Terms: terms})
	}
	recognizer, err := recognize.NewTerms(sets...)
	if err != nil {
		return nil, fmt.Errorf("build navigation recognizer: %w", err)
	}
	return &navigationStep[T]{form: form, names: names, recognizer: recognizer}, nil
}

func (s *navigationStep[T]) bind(form *Form[T]) { s.form = form }

func (s *navigationStep[T]) Name() string {
	return "navigation"
}

func (s *navigationStep[T]) Type() types.StepType {
	return types.StepNavigation
}

func (s *navigationStep[T]) Field() *Field[T] {
	return nil
}

func (s *navigationStep[T]) Active(state T) bool {
	return true
}

func (s *navigationStep[T]) Dependencies() []string {
	return nil
}

func (s *navigationStep[T]) Start(ctx context.Context, state T, fs *FormState) string {
	p := s.form.prompter(fs.Locale)
	names := make([]string, 0, len(s.names))
	for _, name := range s.names {
		names = append(names, s.form.stepDescription(name))
	}
	return p.Prompt(render.TemplateNavigation, p.BuildList(names))
}

func (s *navigationStep[T]) Match(ctx context.Context, state T, fs *FormState, input string) ([]types.TermMatch, error) {
	return s.recognizer.Matches(ctx, input)
}

func (s *navigationStep[T]) Process(ctx context.Context, state T, fs *FormState, input string, matches []types.TermMatch) (stepResult[T], error) {
	best, ok := bestOf(matches)
	if !ok {
		return stepResult[T]{state: state, next: types.Next(), feedback: s.NotUnderstood(ctx, state, fs, input)}, nil
	}
	name, _ := best.Value.(string)
	fs.Next = nil
	return stepResult[T]{state: state, next: types.Named(name)}, nil
}

func (s *navigationStep[T]) NotUnderstood(ctx context.Context, state T, fs *FormState, input string) string {
	p := s.form.prompter(fs.Locale)
	return p.Prompt(render.TemplateNotUnderstood, input, "navigation")
}

func (s *navigationStep[T]) Help(ctx context.Context, state T, fs *FormState, commandHelp string) string {
	p := s.form.prompter(fs.Locale)
	return p.Prompt(render.TemplateHelp, "navigation", "* "+s.recognizer.Help(), commandHelp)
}

// Back cancels the pending disambiguation instead of leaving a real step.
func (s *navigationStep[T]) Back(fs *FormState) bool {
	fs.Next = nil
	return true
}
