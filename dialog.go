package formflow

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/tbxark/formflow/match"
	"github.com/tbxark/formflow/types"
)

// Entity is an externally recognized pre-fill: text believed to answer the
// named field, supplied before the conversation starts.
type Entity struct {
	Field string
	Text  string
}

// entityPrefillThreshold is the relaxed coverage a pre-fill needs to be
// accepted as if the user had answered the field.
const entityPrefillThreshold = 0.5

// Turn is the outcome of handling one incoming message: the values after the
// turn, the outgoing text, and whether the conversation terminated.
type Turn[T any] struct {
	// State holds the form values after this turn.
	State T
	// Output is the text to send to the user; empty when there is nothing
	// to say (a silent start).
	Output string
	// Done is set when the form completed successfully.
	Done bool
	// Cancelled is set when the user quit the form.
	Cancelled bool
}

// DialogOption configures a FormDialog.
type DialogOption func(*dialogOptions)

type dialogOptions struct {
	promptInStart bool
}

// WithPromptInStart makes Start run a full turn immediately so the first
// prompt goes out before any user message arrives.
func WithPromptInStart() DialogOption {
	return func(o *dialogOptions) {
		o.promptInStart = true
	}
}

// FormDialog is the per-message orchestration loop over one Form. It holds
// no conversation state of its own: each call receives the values and the
// FormState, so one dialog instance serves any number of conversations as
// long as the host serializes the turns of each.
type FormDialog[T any] struct {
	form          *Form[T]
	promptInStart bool
}

// NewFormDialog wraps a built form for turn-by-turn use.
func NewFormDialog[T any](form *Form[T], opts ...DialogOption) *FormDialog[T] {
	o := &dialogOptions{}
	for _, opt := range opts {
		opt(o)
	}
	return &FormDialog[T]{form: form, promptInStart: o.promptInStart}
}

// Form exposes the underlying form.
func (d *FormDialog[T]) Form() *Form[T] {
	return d.form
}

// Start begins a conversation: entity pre-fills are applied to their fields
// when they parse as unambiguous answers, then the state is positioned at
// the first step. With WithPromptInStart the first turn runs immediately and
// the returned Turn carries the opening prompt; otherwise the conversation
// suspends until the first message.
func (d *FormDialog[T]) Start(ctx context.Context, state T, fs *FormState, entities []Entity) (*Turn[T], error) {
	fs.EnsureSteps(len(d.form.steps))

	grouped := make(map[string][]string)
	var order []string
	for _, entity := range entities {
		if _, seen := grouped[entity.Field]; !seen {
			order = append(order, entity.Field)
		}
		grouped[entity.Field] = append(grouped[entity.Field], entity.Text)
	}

	for _, name := range order {
		s := d.form.step(name)
		if s == nil {
			continue
		}
		fs.Step = d.form.StepIndex(name)
		fs.Next = nil
		input := strings.Join(grouped[name], " ")
		s.Start(ctx, state, fs)
		matches, err := s.Match(ctx, state, fs, input)
		if err != nil {
			slog.Debug("entity pre-fill not recognized", "field", name, "error", err)
			fs.SetPhase(types.PhaseReady)
			continue
		}
		matches = match.Coalesce(matches, input)
		if !match.IsFullMatchThreshold(input, matches, entityPrefillThreshold) {
			// Ambiguous pre-fill: discard and prompt normally later.
			fs.SetPhase(types.PhaseReady)
			continue
		}
		result, err := s.Process(ctx, state, fs, input, matches)
		if err != nil {
			return nil, err
		}
		state = result.state
	}
	fs.Step = 0
	fs.Next = nil

	if d.promptInStart {
		return d.run(ctx, state, fs, "")
	}
	return &Turn[T]{State: state}, nil
}

// MessageReceived handles one incoming user message and produces the next
// outgoing text, or a terminal outcome. The conversation's owner must
// persist fs (and the returned state) between calls.
func (d *FormDialog[T]) MessageReceived(ctx context.Context, state T, fs *FormState, text string) (*Turn[T], error) {
	fs.EnsureSteps(len(d.form.steps))
	return d.run(ctx, state, fs, text)
}

// run is the retry loop: it keeps resolving steps and feeding navigation
// intents back into the engine until a prompt is produced, feedback alone
// ends the turn, or no further step exists.
func (d *FormDialog[T]) run(ctx context.Context, state T, fs *FormState, input string) (*Turn[T], error) {
	var message string
	var prompt string
	useLastPrompt := false
	requirePrompt := false

	next := types.Next()
	if fs.Next != nil {
		next = d.activeSteps(*fs.Next, state)
	}

	for prompt == "" && (message == "" || requirePrompt) {
		moved, err := d.moveToNext(state, fs, &next)
		if err != nil {
			return nil, err
		}
		if !moved {
			break
		}

		var s step[T]
		var matches []types.TermMatch
		matched := false
		feedback := ""

		if next.Direction == types.DirectionNamed && len(next.Names) > 1 {
			// Choosing between multiple next steps.
			fresh := fs.Next == nil
			pending := next
			fs.Next = &pending
			s, err = newNavigationStep(d.form, fs)
			if err != nil {
				return nil, err
			}
			if fresh {
				prompt = s.Start(ctx, state, fs)
			} else {
				matches, err = s.Match(ctx, state, fs, input)
				matched = true
			}
		} else {
			s = d.form.steps[fs.Step]
			switch fs.Phase() {
			case types.PhaseReady:
				if s.Type() == types.StepMessage {
					// One-shot notice: emit as feedback and roll on so the
					// following step's prompt lands in the same turn.
					feedback = s.Start(ctx, state, fs)
					requirePrompt = true
					useLastPrompt = false
					next = types.Next()
				} else {
					prompt = s.Start(ctx, state, fs)
				}
			case types.PhaseResponding:
				matches, err = s.Match(ctx, state, fs, input)
				matched = true
			}
		}

		if matched {
			switch {
			case err != nil && errors.Is(err, context.Canceled):
				next = types.NextStep{Direction: types.DirectionQuit}
			case err != nil:
				// Recognition failure is a per-turn event, not a dead
				// conversation.
				slog.Debug("recognizer error", "step", s.Name(), "error", err)
				feedback = s.NotUnderstood(ctx, state, fs, input)
				requirePrompt = false
				useLastPrompt = false
			default:
				matches = match.Coalesce(matches, input)
				commands := d.activeCommandMatches(state, match.Coalesce(mustMatches(d.form.commands.Matches(ctx, input)), input))
				switch {
				case match.IsFullMatch(input, matches):
					result, perr := s.Process(ctx, state, fs, input, matches)
					if perr != nil {
						return nil, perr
					}
					state = result.state
					next = result.next
					feedback = result.feedback
					prompt = result.prompt
					requirePrompt = fs.Phase() == types.PhaseCompleted
					useLastPrompt = !requirePrompt
				case match.IsFullMatch(input, commands):
					next, feedback = d.doCommand(ctx, state, fs, s, commands)
					requirePrompt = false
					useLastPrompt = true
				case len(matches) == 0 && len(commands) == 0:
					feedback = s.NotUnderstood(ctx, state, fs, input)
					requirePrompt = false
					useLastPrompt = false
				case match.BestMatches(matches, commands) == 0:
					// Both partial; the step's own grammar looks stronger.
					result, perr := s.Process(ctx, state, fs, input, matches)
					if perr != nil {
						return nil, perr
					}
					state = result.state
					next = result.next
					feedback = result.feedback
					prompt = result.prompt
					requirePrompt = fs.Phase() == types.PhaseCompleted
					useLastPrompt = !requirePrompt
				default:
					next, feedback = d.doCommand(ctx, state, fs, s, commands)
					requirePrompt = false
					useLastPrompt = true
				}
			}
		}

		next = d.activeSteps(next, state)
		if feedback != "" {
			if message == "" {
				message = feedback
			} else {
				message = message + "\n\n" + feedback
			}
		}
	}

	switch next.Direction {
	case types.DirectionComplete:
		slog.Debug("form complete")
		if d.form.completion != nil {
			if err := d.form.completion(ctx, state); err != nil {
				return nil, err
			}
		}
		return &Turn[T]{State: state, Output: message, Done: true}, nil
	case types.DirectionQuit:
		slog.Debug("form quit")
		return &Turn[T]{State: state, Output: message, Cancelled: true}, nil
	}

	if message != "" {
		switch {
		case requirePrompt:
			fs.LastPrompt = prompt
			prompt = message + "\n\n" + prompt
		case useLastPrompt:
			prompt = message + "\n\n" + fs.LastPrompt
		default:
			prompt = message
		}
	} else {
		fs.LastPrompt = prompt
	}
	return &Turn[T]{State: state, Output: prompt}, nil
}

// mustMatches discards the recognizer error for the command vocabulary,
// which is built from static terms and cannot fail at match time.
func mustMatches(matches []types.TermMatch, err error) []types.TermMatch {
	if err != nil {
		return nil
	}
	return matches
}
