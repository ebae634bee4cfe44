package recognize

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/tbxark/formflow/types"
)

// TermSet associates a candidate value with the trigger terms that select it.
type TermSet struct {
	Value any
	Terms []string
}

type compiledTerm struct {
	value      any
	pattern    *regexp.Regexp
	words      int
	totalWords int
}

// Terms recognizes values by scanning the utterance for trigger terms with
// word-boundary anchored, case-insensitive patterns. Confidence is the
// fraction of the value's longest term that the matched term represents, so
// "go back" scores higher than "back" for a value whose terms include both.
type Terms struct {
	terms []compiledTerm
	help  string
}

// NewTerms compiles the given sets. It fails on an empty set list or an
// unusable term.
func NewTerms(sets ...TermSet) (*Terms, error) {
	if len(sets) == 0 {
		return nil, fmt.Errorf("terms recognizer needs at least one term set")
	}
	r := &Terms{}
	var names []string
	for _, set := range sets {
		if len(set.Terms) == 0 {
			return nil, fmt.Errorf("term set for %v has no terms", set.Value)
		}
		maxWords := 0
		for _, t := range set.Terms {
			if n := len(strings.Fields(t)); n > maxWords {
				maxWords = n
			}
		}
		for _, t := range set.Terms {
			pattern, err := compileTermPattern(t)
			if err != nil {
				return nil, fmt.Errorf("term %q for %v: %w", t, set.Value, err)
			}
			r.terms = append(r.terms, compiledTerm{
				value:      set.Value,
				pattern:    pattern,
				words:      len(strings.Fields(t)),
				totalWords: maxWords,
			})
		}
		names = append(names, set.Terms[0])
	}
	r.help = "one of: " + strings.Join(names, ", ")
	return r, nil
}

// compileTermPattern anchors the term on word boundaries where the term
// itself starts or ends with a word character. Punctuation-only terms such
// as "?" are matched literally.
func compileTermPattern(term string) (*regexp.Regexp, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, fmt.Errorf("empty term")
	}
	quoted := regexp.QuoteMeta(term)
	expr := "(?i)"
	if isWordByte(term[0]) {
		expr += `\b`
	}
	expr += quoted
	if isWordByte(term[len(term)-1]) {
		expr += `\b`
	}
	return regexp.Compile(expr)
}

func isWordByte(b byte) bool {
	return b == '_' ||
		(b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') ||
		(b >= '0' && b <= '9') || b >= 0x80
}

func (r *Terms) Matches(ctx context.Context, input string) ([]types.TermMatch, error) {
	var matches []types.TermMatch
	for _, term := range r.terms {
		for _, span := range term.pattern.FindAllStringIndex(input, -1) {
			confidence := 1.0
			if term.totalWords > 0 {
				confidence = float64(term.words) / float64(term.totalWords)
			}
			matches = append(matches, types.NewTermMatch(span[0], span[1]-span[0], confidence, term.value))
		}
	}
	return matches, nil
}

func (r *Terms) Help() string {
	return r.help
}
