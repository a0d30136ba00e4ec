package session

// State is the lifecycle state of a session.
type State int

// Session states.
const (
	StateUninitialized State = iota
	StateGuest
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateGuest:
		return "guest-active"
	case StateAuthenticated:
		return "authenticated-active"
	default:
		return "uninitialized"
	}
}

// Phase tracks the most recent commit: idle, committing, then settled or rolled back.
type Phase int

// Commit phases.
const (
	PhaseIdle Phase = iota
	PhaseCommitting
	PhaseSettled
	PhaseRolledBack
)

func (p Phase) String() string {
	switch p {
	case PhaseCommitting:
		return "committing"
	case PhaseSettled:
		return "settled"
	case PhaseRolledBack:
		return "rolled-back"
	default:
		return "idle"
	}
}

// MigrationOutcome describes what Initialize did with a guest snapshot.
type MigrationOutcome int

// Migration outcomes.
const (
	MigrationNone MigrationOutcome = iota
	MigrationSkipped
	MigrationApplied
	MigrationFailed
)

func (m MigrationOutcome) String() string {
	switch m {
	case MigrationSkipped:
		return "skipped"
	case MigrationApplied:
		return "applied"
	case MigrationFailed:
		return "failed"
	default:
		return "none"
	}
}
