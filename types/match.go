package types

// TermMatch is one scored candidate interpretation of a span of user text.
// Value is either a parsed field value or a Command. Start and Length are
// byte offsets into the utterance the match was produced from.
type TermMatch struct {
	Start      int     `json:"start"`
	Length     int     `json:"length"`
	Confidence float64 `json:"confidence"`
	Value      any     `json:"value"`
}

func NewTermMatch(start, length int, confidence float64, value any) TermMatch {
	return TermMatch{Start: start, Length: length, Confidence: confidence, Value: value}
}

// End is the byte offset one past the matched span.
func (m TermMatch) End() int {
	return m.Start + m.Length
}

// Overlaps reports whether the two spans share at least one byte.
func (m TermMatch) Overlaps(o TermMatch) bool {
	return m.Start < o.End() && o.Start < m.End()
}

// Covers reports whether m's span fully contains o's span.
func (m TermMatch) Covers(o TermMatch) bool {
	return m.Start <= o.Start && m.End() >= o.End()
}
