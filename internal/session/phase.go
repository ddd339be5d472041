package session

// Phase is the lifecycle stage of the current attempt.
type Phase int

const (
	PhaseSetup      Phase = iota // choosing topics and timer
	PhasePracticing              // countdown running, explanation editable
	PhaseSubmitted               // waiting for, or recovering from, scoring
	PhaseScored                  // result available
)

func (p Phase) String() string {
	switch p {
	case PhaseSetup:
		return "setup"
	case PhasePracticing:
		return "practicing"
	case PhaseSubmitted:
		return "submitted"
	case PhaseScored:
		return "scored"
	default:
		return "unknown"
	}
}
