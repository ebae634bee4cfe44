package formflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tbxark/formflow/types"
)

func TestNewFormState(t *testing.T) {
	fs := NewFormState(3, "de")
	assert.Equal(t, 0, fs.Step)
	assert.Equal(t, "de", fs.Locale)
	require.Len(t, fs.Phases, 3)
	for i := range fs.Phases {
		assert.Equal(t, types.PhaseReady, fs.PhaseAt(i))
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	fs := NewFormState(3, "en")
	fs.Step = 2
	fs.SetPhaseAt(0, types.PhaseCompleted)
	fs.SetPhaseAt(2, types.PhaseResponding)
	fs.History = []int{0, 1}
	pending := types.Named("/a", "/b")
	fs.Next = &pending
	fs.LastPrompt = "Please enter a"

	data, err := fs.MarshalSnapshot()
	require.NoError(t, err)

	restored, err := UnmarshalFormState(data, 3)
	require.NoError(t, err)
	assert.Equal(t, fs.Step, restored.Step)
	assert.Equal(t, fs.Phases, restored.Phases)
	assert.Equal(t, fs.History, restored.History)
	require.NotNil(t, restored.Next)
	assert.Equal(t, pending, *restored.Next)
	assert.Equal(t, fs.LastPrompt, restored.LastPrompt)
	assert.Equal(t, fs.Locale, restored.Locale)
}

func TestUnmarshalResizesToFormShape(t *testing.T) {
	fs := NewFormState(2, "en")
	fs.Step = 1
	fs.SetPhaseAt(1, types.PhaseCompleted)
	data, err := fs.MarshalSnapshot()
	require.NoError(t, err)

	grown, err := UnmarshalFormState(data, 4)
	require.NoError(t, err)
	require.Len(t, grown.Phases, 4)
	assert.Equal(t, types.PhaseCompleted, grown.PhaseAt(1))
	assert.Equal(t, types.PhaseReady, grown.PhaseAt(3))

	shrunk, err := UnmarshalFormState(data, 1)
	require.NoError(t, err)
	require.Len(t, shrunk.Phases, 1)
	assert.Equal(t, 0, shrunk.Step, "out-of-range step should rewind")
}

func TestUnmarshalDropsOutOfRangeHistory(t *testing.T) {
	fs := NewFormState(4, "en")
	fs.Step = 3
	fs.History = []int{1, 3}
	data, err := fs.MarshalSnapshot()
	require.NoError(t, err)

	restored, err := UnmarshalFormState(data, 2)
	require.NoError(t, err)
	assert.Equal(t, 0, restored.Step)
	assert.Equal(t, []int{1}, restored.History, "history indices past the form end must be dropped")
}

func TestUnmarshalRejectsNewerVersion(t *testing.T) {
	_, err := UnmarshalFormState([]byte(`{"version":99,"step":0,"phases":[]}`), 1)
	require.Error(t, err)
}

func TestResetKeepsLastPrompt(t *testing.T) {
	fs := NewFormState(2, "en")
	fs.Step = 1
	fs.SetPhaseAt(0, types.PhaseCompleted)
	fs.History = []int{0}
	fs.LastPrompt = "Please enter b"

	fs.Reset()
	assert.Equal(t, 0, fs.Step)
	assert.Equal(t, types.PhaseReady, fs.PhaseAt(0))
	assert.Empty(t, fs.History)
	assert.Nil(t, fs.Next)
	assert.Equal(t, "Please enter b", fs.LastPrompt)
}

func TestEnsureStepsPreservesExistingPhases(t *testing.T) {
	fs := NewFormState(2, "en")
	fs.SetPhaseAt(1, types.PhaseResponding)
	fs.EnsureSteps(3)
	require.Len(t, fs.Phases, 3)
	assert.Equal(t, types.PhaseResponding, fs.PhaseAt(1))
	assert.Equal(t, types.PhaseReady, fs.PhaseAt(2))
}
