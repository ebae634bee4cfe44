package types

// StepDirection is the tagged decision of where control flow goes after
// processing a turn.
type StepDirection string

const (
	DirectionNext     StepDirection = "next"
	DirectionPrevious StepDirection = "previous"
	DirectionNamed    StepDirection = "named"
	DirectionComplete StepDirection = "complete"
	DirectionQuit     StepDirection = "quit"
	DirectionReset    StepDirection = "reset"
)

// NextStep is a navigation intent produced by step processing or command
// dispatch and consumed by the navigation engine. A Named intent with a
// single name is a direct jump; multiple names mean the user must first be
// asked which step they meant.
type NextStep struct {
	Direction StepDirection `json:"direction"`
	Names     []string      `json:"names,omitempty"`
}

// Next is the default intent: advance to the next applicable step.
func Next() NextStep {
	return NextStep{Direction: DirectionNext}
}

// Named builds a jump intent toward one of the given step names.
func Named(names ...string) NextStep {
	return NextStep{Direction: DirectionNamed, Names: names}
}
