// Package recognize turns free user text into scored candidate
// interpretations. The engine consumes the (value, confidence, span) shape
// only; anything that can produce ranked TermMatches can stand behind the
// Recognizer interface, from keyword scans to an LLM call.
package recognize

import (
	"context"

	"github.com/tbxark/formflow/types"
)

// Recognizer parses an utterance into zero or more candidate matches.
type Recognizer interface {
	Matches(ctx context.Context, input string) ([]types.TermMatch, error)
	// Help describes what kind of responses the recognizer accepts, for
	// inclusion in step help text.
	Help() string
}

// Failback tries recognizers in order and returns the first non-empty,
// non-error result.
type Failback struct {
	recognizers []Recognizer
}

func NewFailback(recognizers ...Recognizer) *Failback {
	return &Failback{recognizers: recognizers}
}

func (f *Failback) Matches(ctx context.Context, input string) ([]types.TermMatch, error) {
	var lastErr error
	for _, r := range f.recognizers {
		matches, err := r.Matches(ctx, input)
		if err != nil {
			lastErr = err
			continue
		}
		if len(matches) > 0 {
			return matches, nil
		}
	}
	return nil, lastErr
}

func (f *Failback) Help() string {
	if len(f.recognizers) == 0 {
		return ""
	}
	return f.recognizers[0].Help()
}
