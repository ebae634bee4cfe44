package types

// Phase is the per-step status tracked in the form state.
type Phase string

const (
	PhaseReady      Phase = "ready"
	PhaseResponding Phase = "responding"
	PhaseCompleted  Phase = "completed"
)

// StepType identifies which kind of step occupies a position in the form.
type StepType string

const (
	StepField      StepType = "field"
	StepConfirm    StepType = "confirm"
	StepMessage    StepType = "message"
	StepNavigation StepType = "navigation"
)

// Command is one of the reserved navigation/help triggers recognized
// regardless of which step is active.
type Command string

const (
	CommandBackup Command = "backup"
	CommandHelp   Command = "help"
	CommandQuit   Command = "quit"
	CommandReset  Command = "reset"
	CommandStatus Command = "status"
)

// CommandDescription configures how one global command is recognized and
// described in help output.
type CommandDescription struct {
	Description string   `yaml:"description" json:"description"`
	Terms       []string `yaml:"terms" json:"terms"`
	Help        string   `yaml:"help" json:"help"`
}

// FieldInfo is the lightweight field descriptor exchanged with collaborators
// that should not see the full field definition.
type FieldInfo struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Optional    bool   `json:"optional,omitempty"`
}
