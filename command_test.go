package formflow

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tbxark/formflow/types"
)

func commandMatch(cmd types.Command) []types.TermMatch {
	return []types.TermMatch{types.NewTermMatch(0, 4, 1.0, cmd)}
}

func TestDoCommandBackup(t *testing.T) {
	d, fs := engineFixture(t)
	next, feedback := d.doCommand(context.Background(), order{}, fs, d.form.steps[0], commandMatch(types.CommandBackup))
	assert.Equal(t, types.DirectionPrevious, next.Direction)
	assert.Empty(t, feedback)
}

func TestDoCommandBackupCancelsPendingNavigation(t *testing.T) {
	d, fs := engineFixture(t)
	pending := types.Named("/rating", "/sandwich")
	fs.Next = &pending
	nav, err := newNavigationStep(d.form, fs)
	require.NoError(t, err)

	next, feedback := d.doCommand(context.Background(), order{}, fs, nav, commandMatch(types.CommandBackup))
	assert.Equal(t, types.DirectionNext, next.Direction)
	assert.Empty(t, feedback)
	assert.Nil(t, fs.Next)
}

func TestDoCommandHelp(t *testing.T) {
	d, fs := engineFixture(t)
	next, feedback := d.doCommand(context.Background(), order{}, fs, d.form.steps[0], commandMatch(types.CommandHelp))
	assert.Equal(t, types.DirectionNext, next.Direction)
	assert.Contains(t, feedback, "Back: Go back to the previous question.")
	assert.Contains(t, feedback, "You can switch to another field")
	assert.Contains(t, feedback, "rating and sandwich")
}

func TestDoCommandQuit(t *testing.T) {
	d, fs := engineFixture(t)
	next, _ := d.doCommand(context.Background(), order{}, fs, d.form.steps[0], commandMatch(types.CommandQuit))
	assert.Equal(t, types.DirectionQuit, next.Direction)
}

func TestDoCommandReset(t *testing.T) {
	d, fs := engineFixture(t)
	next, _ := d.doCommand(context.Background(), order{}, fs, d.form.steps[0], commandMatch(types.CommandReset))
	assert.Equal(t, types.DirectionReset, next.Direction)
}

func TestDoCommandStatus(t *testing.T) {
	d, fs := engineFixture(t)
	next, feedback := d.doCommand(context.Background(), order{Rating: 4}, fs, d.form.steps[0], commandMatch(types.CommandStatus))
	assert.Equal(t, types.DirectionNext, next.Direction)
	assert.Contains(t, feedback, "Progress so far:")
	assert.Contains(t, feedback, "rating: 4")
	assert.Contains(t, feedback, "sandwich: Unspecified")
}

func TestDoCommandFieldNameJumps(t *testing.T) {
	d, fs := engineFixture(t)
	matches := []types.TermMatch{types.NewTermMatch(0, 8, 1.0, "/sandwich")}
	next, feedback := d.doCommand(context.Background(), order{}, fs, d.form.steps[0], matches)
	assert.Equal(t, types.Named("/sandwich"), next)
	assert.Empty(t, feedback)
}

func TestDoCommandInactiveFieldNameIgnored(t *testing.T) {
	d, fs := conditionalFixture(t)
	matches := []types.TermMatch{types.NewTermMatch(0, 8, 1.0, "/sandwich")}
	next, feedback := d.doCommand(context.Background(), order{}, fs, d.form.steps[0], matches)
	assert.Equal(t, types.DirectionNext, next.Direction)
	assert.Empty(t, feedback)
}

func TestActiveCommandMatchesFiltersInactiveFields(t *testing.T) {
	d, _ := conditionalFixture(t)
	matches := []types.TermMatch{
		types.NewTermMatch(0, 4, 1.0, types.CommandHelp),
		types.NewTermMatch(5, 6, 1.0, "/rating"),
		types.NewTermMatch(12, 8, 1.0, "/sandwich"),
		types.NewTermMatch(21, 4, 1.0, "/nope"),
	}
	filtered := d.activeCommandMatches(order{}, matches)
	require.Len(t, filtered, 2)
	assert.Equal(t, types.CommandHelp, filtered[0].Value)
	assert.Equal(t, "/rating", filtered[1].Value)
}
