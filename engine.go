package formflow

import (
	"fmt"
	"log/slog"

	"github.com/tbxark/formflow/types"
)

// The navigation engine mutates FormState to point at the next step to run.
// Each direction is a named handler; the original fallthrough semantics are
// expressed as explicit calls: Named with no usable target degrades to Next,
// and Previous with exhausted history degrades to Quit by rewriting the
// intent's direction in place.

// moveToNext reports whether a step is available to run for the given
// intent. It may rewrite next.Direction to Complete or Quit to signal the
// terminal fallbacks.
func (d *FormDialog[T]) moveToNext(state T, fs *FormState, next *types.NextStep) (bool, error) {
	switch next.Direction {
	case types.DirectionComplete, types.DirectionQuit:
		return false, nil
	case types.DirectionNamed:
		return d.moveNamed(state, fs, next)
	case types.DirectionNext:
		return d.moveNext(state, fs, next)
	case types.DirectionPrevious:
		return d.movePrevious(state, fs, next)
	case types.DirectionReset:
		fs.Reset()
		return true, nil
	default:
		return false, fmt.Errorf("unknown step direction %q", next.Direction)
	}
}

func (d *FormDialog[T]) moveNamed(state T, fs *FormState, next *types.NextStep) (bool, error) {
	switch len(next.Names) {
	case 0:
		return d.moveNext(state, fs, next)
	case 1:
		name := next.Names[0]
		target := d.form.StepIndex(name)
		if target < 0 {
			return false, fmt.Errorf("%w: %q", ErrNoSuchStep, name)
		}
		if !d.form.steps[target].Active(state) {
			// The named step no longer applies; take the next active one.
			return d.moveNext(state, fs, next)
		}
		fs.SetPhase(d.leavingPhase(state, fs.Step))
		fs.pushHistory(fs.Step)
		fs.Step = target
		fs.SetPhase(types.PhaseReady)
		slog.Debug("jump to named step", "step", name, "index", target)
		return true, nil
	default:
		// Multiple candidates: report progress without moving so the turn
		// loop can ask the user which step they meant.
		return true, nil
	}
}

func (d *FormDialog[T]) moveNext(state T, fs *FormState, next *types.NextStep) (bool, error) {
	start := fs.Step
	count := len(d.form.steps)
	// Scan forward from the current step inclusive, wrapping once. Offset 0
	// keeps a Ready or still-Responding step selected, so "stay here" is
	// expressed purely through phase state.
	for offset := 0; offset < count; offset++ {
		fs.Step = (start + offset) % count
		if offset > 0 {
			fs.Next = nil
		}
		s := d.form.steps[fs.Step]
		phase := fs.Phase()
		if (phase != types.PhaseReady && phase != types.PhaseResponding) || !s.Active(state) {
			continue
		}
		if s.Type() == types.StepConfirm {
			// A confirmation is only meaningful once its inputs exist;
			// redirect to the first incomplete dependency instead.
			if err := d.redirectToDependency(state, fs, s); err != nil {
				return false, err
			}
		}
		if fs.Step != start && d.form.steps[start].Type() != types.StepMessage {
			fs.pushHistory(start)
		}
		return true, nil
	}
	next.Direction = types.DirectionComplete
	return false, nil
}

func (d *FormDialog[T]) redirectToDependency(state T, fs *FormState, confirm step[T]) error {
	for _, dep := range confirm.Dependencies() {
		index := d.form.StepIndex(dep)
		if index < 0 {
			return fmt.Errorf("%w: confirm dependency %q", ErrNoSuchStep, dep)
		}
		dstep := d.form.steps[index]
		if dstep.Active(state) && fs.PhaseAt(index) != types.PhaseCompleted {
			slog.Debug("confirm blocked by dependency", "confirm", confirm.Name(), "dependency", dep)
			fs.Step = index
			return nil
		}
	}
	return nil
}

func (d *FormDialog[T]) movePrevious(state T, fs *FormState, next *types.NextStep) (bool, error) {
	for {
		last, ok := fs.popHistory()
		if !ok {
			break
		}
		if !d.form.steps[last].Active(state) {
			continue
		}
		fs.SetPhase(d.leavingPhase(state, fs.Step))
		fs.Step = last
		fs.SetPhase(types.PhaseReady)
		fs.Next = nil
		slog.Debug("back to previous step", "step", d.form.steps[last].Name(), "index", last)
		return true, nil
	}
	next.Direction = types.DirectionQuit
	return false, nil
}

// leavingPhase decides what phase a step is left in when navigation departs
// from it: Ready if its value is still unknown so it will be revisited,
// Completed otherwise so a prior answer is not erased.
func (d *FormDialog[T]) leavingPhase(state T, index int) types.Phase {
	s := d.form.steps[index]
	switch s.Type() {
	case types.StepField:
		if s.Field().IsUnknown(state) {
			return types.PhaseReady
		}
		return types.PhaseCompleted
	case types.StepMessage:
		return types.PhaseCompleted
	default:
		// Confirmations must be re-asked after any detour.
		return types.PhaseReady
	}
}

// activeSteps narrows a Named intent to the names that currently apply. An
// emptied set degrades to a plain Next; a shrunk set is rebuilt so stale
// names never reach the navigation step. Re-evaluated every loop iteration
// because an answer may change which fields remain applicable.
func (d *FormDialog[T]) activeSteps(next types.NextStep, state T) types.NextStep {
	if next.Direction != types.DirectionNamed {
		return next
	}
	names := make([]string, 0, len(next.Names))
	for _, name := range next.Names {
		if s := d.form.step(name); s != nil && s.Active(state) {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return types.Next()
	}
	if len(names) != len(next.Names) {
		return types.Named(names...)
	}
	return next
}
