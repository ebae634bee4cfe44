package formflow

import (
	"context"
	"log/slog"

	"github.com/tbxark/formflow/types"
)

// doCommand maps the strongest recognized global command (or field-name
// pseudo-command) onto a navigation intent and optional feedback. When the
// utterance carried several commands only the first is acted on; concurrent
// commands in one message are a documented simplification, not an error.
func (d *FormDialog[T]) doCommand(ctx context.Context, state T, fs *FormState, current step[T], matches []types.TermMatch) (types.NextStep, string) {
	next := types.Next()
	if len(matches) == 0 {
		return next, ""
	}
	value := matches[0].Value
	command, ok := value.(types.Command)
	if !ok {
		// A field name: jump there if it is currently applicable.
		name, _ := value.(string)
		if s := d.form.step(name); s != nil && s.Active(state) {
			slog.Debug("switch to field", "field", name)
			return types.Named(name), ""
		}
		return next, ""
	}

	switch command {
	case types.CommandBackup:
		if current.Back(fs) {
			// The step was mid-resolution of its own ambiguity; "back" just
			// cancels that, not the step itself.
			next.Direction = types.DirectionNext
		} else {
			next.Direction = types.DirectionPrevious
		}
		return next, ""
	case types.CommandHelp:
		return next, current.Help(ctx, state, fs, d.form.commandHelpText(state, fs.Locale))
	case types.CommandQuit:
		next.Direction = types.DirectionQuit
		return next, ""
	case types.CommandReset:
		next.Direction = types.DirectionReset
		return next, ""
	case types.CommandStatus:
		return next, d.form.statusText(state, fs.Locale)
	default:
		return next, ""
	}
}

// activeCommandMatches drops field-name pseudo-command matches whose target
// field is not currently applicable. Real commands always pass.
func (d *FormDialog[T]) activeCommandMatches(state T, matches []types.TermMatch) []types.TermMatch {
	filtered := matches[:0:0]
	for _, m := range matches {
		if _, ok := m.Value.(types.Command); ok {
			filtered = append(filtered, m)
			continue
		}
		if name, ok := m.Value.(string); ok {
			if field := d.form.fields.Field(name); field != nil && field.Active(state) {
				filtered = append(filtered, m)
			}
		}
	}
	return filtered
}
