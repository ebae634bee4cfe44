// Package formflow walks an ordered sequence of conversation steps across
// independent message turns: it prompts for field values, recognizes free
// text replies against each step's grammar and a global command vocabulary,
// and drives a resumable navigation state machine deciding what runs next.
package formflow

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/tbxark/formflow/recognize"
	"github.com/tbxark/formflow/render"
	"github.com/tbxark/formflow/types"
)

var (
	// ErrNoSuchStep reports navigation toward a name the form does not
	// contain; this is a configuration error, never user input.
	ErrNoSuchStep = errors.New("no such step in form")
	// ErrEmptyForm reports a form built with no steps.
	ErrEmptyForm = errors.New("form has no steps")
)

// CompletionFunc runs once with the final values when the conversation
// reaches its terminal success state.
type CompletionFunc[T any] func(ctx context.Context, state T) error

// Form is the immutable description of one conversation shape: the ordered
// steps, the field registry, the configuration and the optional completion
// callback. Built once, then safely shared across conversations and
// goroutines; all mutable progress lives in FormState.
type Form[T any] struct {
	steps      []step[T]
	fields     *Fields[T]
	config     *Config
	completion CompletionFunc[T]
	commands   *recognize.Terms
}

// Len is the number of steps in the form.
func (f *Form[T]) Len() int {
	return len(f.steps)
}

// StepNames lists the step names in order.
func (f *Form[T]) StepNames() []string {
	names := make([]string, 0, len(f.steps))
	for _, s := range f.steps {
		names = append(names, s.Name())
	}
	return names
}

// StepIndex resolves a step name to its position, -1 when absent.
func (f *Form[T]) StepIndex(name string) int {
	for i, s := range f.steps {
		if s.Name() == name {
			return i
		}
	}
	return -1
}

func (f *Form[T]) step(name string) step[T] {
	if i := f.StepIndex(name); i >= 0 {
		return f.steps[i]
	}
	return nil
}

// Fields is the form's field registry.
func (f *Form[T]) Fields() *Fields[T] {
	return f.fields
}

// Config is the form's shared configuration.
func (f *Form[T]) Config() *Config {
	return f.config
}

func (f *Form[T]) prompter(locale string) *render.Prompter {
	return f.config.prompter(locale)
}

// stepDescription is the display name for a step: the field description for
// field steps, the raw name otherwise.
func (f *Form[T]) stepDescription(name string) string {
	if field := f.fields.Field(name); field != nil {
		return field.description
	}
	return name
}

// activeFieldDescriptions lists the display names of currently applicable
// field steps, for navigation help.
func (f *Form[T]) activeFieldDescriptions(state T) []string {
	var names []string
	for _, s := range f.steps {
		if s.Type() == types.StepField && s.Active(state) {
			names = append(names, s.Field().description)
		}
	}
	return names
}

// statusText renders one line per field with its current value.
func (f *Form[T]) statusText(state T, locale string) string {
	p := f.prompter(locale)
	doc, err := valueDocument(state)
	if err != nil {
		doc = map[string]any{}
	}
	var lines []string
	lines = append(lines, p.Prompt(render.TemplateStatusHeader))
	for _, s := range f.steps {
		if s.Type() != types.StepField {
			continue
		}
		field := s.Field()
		v, ok := pointerValue(doc, field.name)
		value := f.config.Unspecified
		if ok && !isUnknownValue(v, ok) {
			value = formatValue(v, f.config.Unspecified)
		}
		lines = append(lines, p.Prompt(render.TemplateStatusLine, field.description, value))
	}
	return strings.Join(lines, "\n")
}

// buildCommandRecognizer assembles the recognizer for the global command
// vocabulary plus every field name as a jump pseudo-command. Field-name
// matches are filtered to active fields at dispatch time, not here, because
// activity depends on the values of the moment.
func (f *Form[T]) buildCommandRecognizer() error {
	commands := make([]types.Command, 0, len(f.config.Commands))
	for cmd := range f.config.Commands {
		commands = append(commands, cmd)
	}
	sort.Slice(commands, func(i, j int) bool { return commands[i] < commands[j] })

	var sets []recognize.TermSet
	for _, cmd := range commands {
		sets = append(sets, recognize.TermSet{Value: cmd, Terms: f.config.Commands[cmd].Terms})
	}
	for _, s := range f.steps {
		if s.Type() != types.StepField {
			continue
		}
		field := s.Field()
		terms := []string{field.description}
		if plain := describePointer(field.name); plain != field.description {
			terms = append(terms, plain)
		}
		sets = append(sets, recognize.TermSet{Value: field.name, Terms: terms})
	}
	recognizer, err := recognize.NewTerms(sets...)
	if err != nil {
		return err
	}
	f.commands = recognizer
	return nil
}

// commandHelpText builds the bullet list of global commands plus the
// switch-to-field navigation hint.
func (f *Form[T]) commandHelpText(state T, locale string) string {
	p := f.prompter(locale)
	commands := make([]types.Command, 0, len(f.config.Commands))
	for cmd := range f.config.Commands {
		commands = append(commands, cmd)
	}
	sort.Slice(commands, func(i, j int) bool { return commands[i] < commands[j] })

	var b strings.Builder
	for _, cmd := range commands {
		b.WriteString("* ")
		b.WriteString(f.config.Commands[cmd].Help)
		b.WriteString("\n")
	}
	b.WriteString("* ")
	b.WriteString(p.Prompt(render.TemplateHelpNavigation, p.BuildList(f.activeFieldDescriptions(state))))
	return b.String()
}
