// Package match scores and arbitrates candidate interpretations of a single
// utterance. It is a pure value-level utility: no recognizer, step or state
// knowledge leaks in here.
package match

import (
	"sort"
	"unicode"

	"github.com/tbxark/formflow/types"
)

// Coalesce merges candidates whose spans overlap, preferring higher
// confidence and then longer spans, so that one piece of text is not counted
// as matching two incompatible things. The result is ordered by span start.
// Selection is deterministic: for equal confidence and length the candidate
// produced earlier wins.
func Coalesce(matches []types.TermMatch, input string) []types.TermMatch {
	if len(matches) == 0 {
		return nil
	}
	ordered := make([]types.TermMatch, len(matches))
	copy(ordered, matches)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Confidence != ordered[j].Confidence {
			return ordered[i].Confidence > ordered[j].Confidence
		}
		return ordered[i].Length > ordered[j].Length
	})

	kept := make([]types.TermMatch, 0, len(ordered))
	for _, m := range ordered {
		if m.Length < 0 || m.Start < 0 || m.End() > len(input) {
			continue
		}
		overlaps := false
		for _, k := range kept {
			if m.Overlaps(k) {
				overlaps = true
				break
			}
		}
		if !overlaps {
			kept = append(kept, m)
		}
	}
	sort.SliceStable(kept, func(i, j int) bool { return kept[i].Start < kept[j].Start })
	return kept
}

// IsFullMatch reports whether the candidates account for the entire
// utterance. An empty candidate set is never a full match.
func IsFullMatch(input string, matches []types.TermMatch) bool {
	return IsFullMatchThreshold(input, matches, 1.0)
}

// IsFullMatchThreshold is IsFullMatch with a relaxed coverage requirement:
// the union of candidate spans must cover at least the given fraction of the
// utterance's non-space bytes.
func IsFullMatchThreshold(input string, matches []types.TermMatch, threshold float64) bool {
	if len(matches) == 0 {
		return false
	}
	covered := make([]bool, len(input))
	for _, m := range matches {
		for i := m.Start; i < m.End() && i < len(input); i++ {
			covered[i] = true
		}
	}
	total := 0
	hit := 0
	for i, b := range []byte(input) {
		if unicode.IsSpace(rune(b)) {
			continue
		}
		total++
		if covered[i] {
			hit++
		}
	}
	if total == 0 {
		return false
	}
	return float64(hit) >= threshold*float64(total)
}

// BestMatches picks between two competing candidate sets for one utterance:
// the step's own grammar (0) versus the global commands (1). The set with the
// higher aggregate confidence wins; ties go to the step because its answer is
// the contextually expected interpretation. Span length plays no part, so a
// long weak match never outranks a short confident one.
func BestMatches(stepMatches, commandMatches []types.TermMatch) int {
	if confidence(commandMatches) > confidence(stepMatches) {
		return 1
	}
	return 0
}

func confidence(matches []types.TermMatch) float64 {
	var sum float64
	for _, m := range matches {
		sum += m.Confidence
	}
	return sum
}
