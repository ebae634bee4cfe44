package recognize

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tbxark/formflow/types"
)

func TestStringTakesWholeTrimmedInput(t *testing.T) {
	matches, err := String{}.Matches(context.Background(), "  Bob ")
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, 2, matches[0].Start)
	assert.Equal(t, 3, matches[0].Length)
	assert.Equal(t, "Bob", matches[0].Value)
}

func TestStringIgnoresBlankInput(t *testing.T) {
	matches, err := String{}.Matches(context.Background(), "   ")
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestNumberInteger(t *testing.T) {
	matches, err := Number{Integer: true}.Matches(context.Background(), "I am 25 years old")
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, int64(25), matches[0].Value)
	assert.Equal(t, 5, matches[0].Start)
	assert.Equal(t, 2, matches[0].Length)
}

func TestNumberIntegerDropsFractions(t *testing.T) {
	matches, err := Number{Integer: true}.Matches(context.Background(), "3.5")
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestNumberFloat(t *testing.T) {
	matches, err := Number{}.Matches(context.Background(), "weight is 3.5 kg")
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, 3.5, matches[0].Value)
}

func TestNumberRange(t *testing.T) {
	min, max := 1.0, 10.0
	r := Number{Integer: true, Min: &min, Max: &max}

	matches, err := r.Matches(context.Background(), "rate it 15")
	require.NoError(t, err)
	assert.Empty(t, matches)

	matches, err = r.Matches(context.Background(), "rate it 5")
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, int64(5), matches[0].Value)

	assert.Equal(t, "a number between 1 and 10", r.Help())
}

func TestNewBool(t *testing.T) {
	r, err := NewBool([]string{"yes", "yep"}, []string{"no", "nope"})
	require.NoError(t, err)

	matches, err := r.Matches(context.Background(), "yep")
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, true, matches[0].Value)

	matches, err = r.Matches(context.Background(), "no")
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, false, matches[0].Value)
}

type failingRecognizer struct{}

func (failingRecognizer) Matches(ctx context.Context, input string) ([]types.TermMatch, error) {
	return nil, errors.New("model unavailable")
}

func (failingRecognizer) Help() string {
	return "primary"
}

func TestFailbackUsesNextRecognizer(t *testing.T) {
	fallback, err := NewTerms(TermSet{Value: "ham", Terms: []string{"ham"}})
	require.NoError(t, err)
	r := NewFailback(failingRecognizer{}, fallback)

	matches, err := r.Matches(context.Background(), "ham")
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "ham", matches[0].Value)
	assert.Equal(t, "primary", r.Help())
}

func TestFailbackReportsLastError(t *testing.T) {
	r := NewFailback(failingRecognizer{})
	matches, err := r.Matches(context.Background(), "ham")
	require.Error(t, err)
	assert.Empty(t, matches)
}
