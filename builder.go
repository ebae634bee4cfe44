package formflow

import (
	"fmt"
	"reflect"

	"github.com/expr-lang/expr"

	"github.com/tbxark/formflow/recognize"
	"github.com/tbxark/formflow/types"
)

// FormBuilder assembles a Form step by step. Errors are collected and
// reported once at Build so the fluent chain stays uncluttered.
type FormBuilder[T any] struct {
	config       *Config
	fields       *Fields[T]
	steps        []step[T]
	completion   CompletionFunc[T]
	confirmCount int
	messageCount int
	err          error
}

// NewFormBuilder starts a builder with the given configuration, or
// DefaultConfig when nil.
func NewFormBuilder[T any](config *Config) *FormBuilder[T] {
	if config == nil {
		config = DefaultConfig()
	}
	return &FormBuilder[T]{config: config, fields: newFields[T]()}
}

// FieldOption customizes one field step.
type FieldOption[T any] func(*Field[T]) error

// WithDescription overrides the display name derived from the pointer.
func WithDescription[T any](description string) FieldOption[T] {
	return func(f *Field[T]) error {
		f.description = description
		return nil
	}
}

// WithPrompt overrides the rendered prompt for the field.
func WithPrompt[T any](prompt string) FieldOption[T] {
	return func(f *Field[T]) error {
		f.prompt = prompt
		return nil
	}
}

// WithRecognizer replaces the kind-derived default recognizer.
func WithRecognizer[T any](r recognize.Recognizer) FieldOption[T] {
	return func(f *Field[T]) error {
		f.recognizer = r
		return nil
	}
}

// WithCondition gates the field on a predicate over the current values.
func WithCondition[T any](condition Condition[T]) FieldOption[T] {
	return func(f *Field[T]) error {
		f.condition = condition
		return nil
	}
}

// WithConditionExpr gates the field on an expression evaluated against the
// form values, e.g. "Age >= 18". The expression is compiled at build time.
func WithConditionExpr[T any](src string) FieldOption[T] {
	return func(f *Field[T]) error {
		var zero T
		program, err := expr.Compile(src, expr.Env(zero), expr.AsBool())
		if err != nil {
			return fmt.Errorf("compile condition %q: %w", src, err)
		}
		f.condition = func(state T) bool {
			out, err := expr.Run(program, state)
			if err != nil {
				return false
			}
			b, _ := out.(bool)
			return b
		}
		return nil
	}
}

// AsOptional marks the field as skippable in completeness reporting.
func AsOptional[T any]() FieldOption[T] {
	return func(f *Field[T]) error {
		f.optional = true
		return nil
	}
}

// Field appends a field step for the given JSON pointer, e.g. "/name".
// Without an explicit recognizer one is derived from the Go kind behind the
// pointer: strings accept any text, numbers parse numerically and bools use
// the configured yes/no vocabulary.
func (b *FormBuilder[T]) Field(name string, opts ...FieldOption[T]) *FormBuilder[T] {
	if b.err != nil {
		return b
	}
	field := &Field[T]{name: name, description: describePointer(name)}
	for _, opt := range opts {
		if err := opt(field); err != nil {
			b.err = err
			return b
		}
	}
	if field.recognizer == nil {
		recognizer, err := b.defaultRecognizer(name)
		if err != nil {
			b.err = err
			return b
		}
		field.recognizer = recognizer
	}
	if !b.fields.add(field) {
		b.err = fmt.Errorf("duplicate field %q", name)
		return b
	}
	b.steps = append(b.steps, &fieldStep[T]{field: field})
	return b
}

func (b *FormBuilder[T]) defaultRecognizer(name string) (recognize.Recognizer, error) {
	kind, ok := pointerKind[T](name)
	if !ok {
		return nil, fmt.Errorf("field %q does not resolve to a value in the form type", name)
	}
	switch kind {
	case reflect.String:
		return recognize.String{}, nil
	case reflect.Bool:
		return recognize.NewBool(b.config.YesTerms, b.config.NoTerms)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return recognize.Number{Integer: true}, nil
	case reflect.Float32, reflect.Float64:
		return recognize.Number{}, nil
	default:
		return nil, fmt.Errorf("field %q has kind %s; supply a recognizer", name, kind)
	}
}

// AddRemainingFields appends a field step for every scalar pointer of T not
// yet declared, in declaration order.
func (b *FormBuilder[T]) AddRemainingFields(exclude ...string) *FormBuilder[T] {
	if b.err != nil {
		return b
	}
	excluded := make(map[string]bool, len(exclude))
	for _, name := range exclude {
		excluded[name] = true
	}
	for _, name := range fieldPointers[T]() {
		if excluded[name] || b.fields.Field(name) != nil {
			continue
		}
		b.Field(name)
		if b.err != nil {
			return b
		}
	}
	return b
}

// Message appends a one-shot notice, optionally gated on a condition.
func (b *FormBuilder[T]) Message(text string, condition ...Condition[T]) *FormBuilder[T] {
	if b.err != nil {
		return b
	}
	b.messageCount++
	s := &messageStep[T]{name: fmt.Sprintf("message%d", b.messageCount), text: text}
	if len(condition) > 0 {
		s.condition = condition[0]
	}
	b.steps = append(b.steps, s)
	return b
}

// ConfirmOption customizes a confirmation step.
type ConfirmOption[T any] func(*confirmStep[T])

// WithDependencies names the steps that must be completed before the
// confirmation runs. The default is every field declared before it.
func WithDependencies[T any](names ...string) ConfirmOption[T] {
	return func(s *confirmStep[T]) {
		s.dependencies = names
	}
}

// WithConfirmCondition gates the confirmation on a predicate.
func WithConfirmCondition[T any](condition Condition[T]) ConfirmOption[T] {
	return func(s *confirmStep[T]) {
		s.condition = condition
	}
}

// Confirm appends a confirmation step. An empty prompt renders the default
// confirmation template over the current status.
func (b *FormBuilder[T]) Confirm(prompt string, opts ...ConfirmOption[T]) *FormBuilder[T] {
	if b.err != nil {
		return b
	}
	recognizer, err := recognize.NewBool(b.config.YesTerms, b.config.NoTerms)
	if err != nil {
		b.err = err
		return b
	}
	b.confirmCount++
	s := &confirmStep[T]{
		name:       fmt.Sprintf("confirm%d", b.confirmCount),
		prompt:     prompt,
		recognizer: recognizer,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.dependencies == nil {
		for _, prior := range b.steps {
			if prior.Type() == types.StepField {
				s.dependencies = append(s.dependencies, prior.Name())
			}
		}
	}
	b.steps = append(b.steps, s)
	return b
}

// OnCompletion registers the callback invoked once with the final values.
func (b *FormBuilder[T]) OnCompletion(callback CompletionFunc[T]) *FormBuilder[T] {
	b.completion = callback
	return b
}

// Build finalizes the form. It fails on an empty form, a duplicate step
// name, or any error collected along the chain.
func (b *FormBuilder[T]) Build() (*Form[T], error) {
	if b.err != nil {
		return nil, b.err
	}
	if len(b.steps) == 0 {
		return nil, ErrEmptyForm
	}
	seen := make(map[string]bool, len(b.steps))
	for _, s := range b.steps {
		if seen[s.Name()] {
			return nil, fmt.Errorf("duplicate step name %q", s.Name())
		}
		seen[s.Name()] = true
	}
	form := &Form[T]{
		steps:      b.steps,
		fields:     b.fields,
		config:     b.config,
		completion: b.completion,
	}
	for _, s := range form.steps {
		s.bind(form)
	}
	if err := form.buildCommandRecognizer(); err != nil {
		return nil, err
	}
	return form, nil
}
