package formflow

import (
	"fmt"

	"github.com/bytedance/sonic"

	"github.com/tbxark/formflow/types"
)

const snapshotVersion = 1

// FormState is the mutable, externally persisted per-conversation state.
// It refers to the form's steps by position only and never duplicates step
// content, so a snapshot stays small and a rehydrated state can be paired
// with the shared immutable Form again.
type FormState struct {
	// Step is the index of the currently active step.
	Step int
	// Phases has exactly one entry per form step.
	Phases []types.Phase
	// History holds previously visited step indices for "go back".
	History []int
	// Next is a pending multi-candidate navigation awaiting the user's
	// disambiguation, nil otherwise.
	Next *types.NextStep
	// LastPrompt is the most recently issued prompt, reused when a turn
	// produces feedback without a fresh prompt.
	LastPrompt string
	// Locale is an opaque BCP 47 tag used for downstream formatting.
	Locale string
}

// NewFormState returns a state positioned at step 0 with every phase Ready.
func NewFormState(stepCount int, locale string) *FormState {
	s := &FormState{Locale: locale}
	s.EnsureSteps(stepCount)
	return s
}

// EnsureSteps resizes Phases to the given step count, preserving existing
// entries, so snapshots taken against an older form revision stay loadable.
// Step and History entries pointing past the new step count are dropped;
// every retained index must be valid against the current form.
func (s *FormState) EnsureSteps(stepCount int) {
	if stepCount < 0 {
		stepCount = 0
	}
	for len(s.Phases) < stepCount {
		s.Phases = append(s.Phases, types.PhaseReady)
	}
	s.Phases = s.Phases[:stepCount]
	if s.Step >= stepCount {
		s.Step = 0
	}
	history := s.History[:0]
	for _, step := range s.History {
		if step < stepCount {
			history = append(history, step)
		}
	}
	s.History = history
}

// Phase returns the phase of the current step.
func (s *FormState) Phase() types.Phase {
	return s.Phases[s.Step]
}

// SetPhase sets the phase of the current step.
func (s *FormState) SetPhase(p types.Phase) {
	s.Phases[s.Step] = p
}

// PhaseAt returns the phase of the step at the given index.
func (s *FormState) PhaseAt(i int) types.Phase {
	return s.Phases[i]
}

// SetPhaseAt sets the phase of the step at the given index.
func (s *FormState) SetPhaseAt(i int, p types.Phase) {
	s.Phases[i] = p
}

// Reset returns to the first step with every phase Ready and clears the
// history and any pending navigation. Committed values are kept.
func (s *FormState) Reset() {
	s.Step = 0
	for i := range s.Phases {
		s.Phases[i] = types.PhaseReady
	}
	s.History = nil
	s.Next = nil
}

func (s *FormState) pushHistory(step int) {
	s.History = append(s.History, step)
}

func (s *FormState) popHistory() (int, bool) {
	if len(s.History) == 0 {
		return 0, false
	}
	last := s.History[len(s.History)-1]
	s.History = s.History[:len(s.History)-1]
	return last, true
}

// stateSnapshot is the versioned wire shape of FormState. Fields added later
// must default sensibly on absence so older snapshots remain loadable.
type stateSnapshot struct {
	Version    int             `json:"version"`
	Step       int             `json:"step"`
	Phases     []types.Phase   `json:"phases"`
	History    []int           `json:"history,omitempty"`
	Next       *types.NextStep `json:"next,omitempty"`
	LastPrompt string          `json:"last_prompt,omitempty"`
	Locale     string          `json:"locale,omitempty"`
}

// MarshalSnapshot serializes the state for external persistence.
func (s *FormState) MarshalSnapshot() ([]byte, error) {
	snapshot := stateSnapshot{
		Version:    snapshotVersion,
		Step:       s.Step,
		Phases:     s.Phases,
		History:    s.History,
		Next:       s.Next,
		LastPrompt: s.LastPrompt,
		Locale:     s.Locale,
	}
	data, err := sonic.Marshal(snapshot)
	if err != nil {
		return nil, fmt.Errorf("marshal form state: %w", err)
	}
	return data, nil
}

// UnmarshalFormState rehydrates a snapshot against a form with the given
// step count, resizing the phase array if the form changed shape since the
// snapshot was taken.
func UnmarshalFormState(data []byte, stepCount int) (*FormState, error) {
	var snapshot stateSnapshot
	if err := sonic.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("unmarshal form state: %w", err)
	}
	if snapshot.Version > snapshotVersion {
		return nil, fmt.Errorf("unsupported form state version %d", snapshot.Version)
	}
	s := &FormState{
		Step:       snapshot.Step,
		Phases:     snapshot.Phases,
		History:    snapshot.History,
		Next:       snapshot.Next,
		LastPrompt: snapshot.LastPrompt,
		Locale:     snapshot.Locale,
	}
	s.EnsureSteps(stepCount)
	return s, nil
}
