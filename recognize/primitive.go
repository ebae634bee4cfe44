package recognize

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/tbxark/formflow/types"
)

// String accepts the whole trimmed utterance as the value.
type String struct{}

func (String) Matches(ctx context.Context, input string) ([]types.TermMatch, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return nil, nil
	}
	start := strings.Index(input, trimmed)
	return []types.TermMatch{types.NewTermMatch(start, len(trimmed), 1.0, trimmed)}, nil
}

func (String) Help() string {
	return "any text"
}

var numberPattern = regexp.MustCompile(`[-+]?\d+(\.\d+)?`)

// Number extracts numeric values from the utterance. Integer selects whether
// matched values are reported as int64 or float64; Min and Max, when set,
// silently drop out-of-range candidates.
type Number struct {
	Integer bool
	Min     *float64
	Max     *float64
}

func (r Number) Matches(ctx context.Context, input string) ([]types.TermMatch, error) {
	var matches []types.TermMatch
	for _, span := range numberPattern.FindAllStringIndex(input, -1) {
		text := input[span[0]:span[1]]
		value, err := strconv.ParseFloat(text, 64)
		if err != nil {
			continue
		}
		if r.Min != nil && value < *r.Min {
			continue
		}
		if r.Max != nil && value > *r.Max {
			continue
		}
		var v any = value
		if r.Integer {
			if value != float64(int64(value)) {
				continue
			}
			v = int64(value)
		}
		matches = append(matches, types.NewTermMatch(span[0], span[1]-span[0], 1.0, v))
	}
	return matches, nil
}

func (r Number) Help() string {
	switch {
	case r.Min != nil && r.Max != nil:
		return fmt.Sprintf("a number between %v and %v", *r.Min, *r.Max)
	case r.Min != nil:
		return fmt.Sprintf("a number of at least %v", *r.Min)
	case r.Max != nil:
		return fmt.Sprintf("a number of at most %v", *r.Max)
	default:
		return "a number"
	}
}

// NewBool builds a yes/no recognizer over the given vocabularies.
func NewBool(yesTerms, noTerms []string) (*Terms, error) {
	return NewTerms(
		TermSet{Value: true, Terms: yesTerms},
		TermSet{Value: false, Terms: noTerms},
	)
}
