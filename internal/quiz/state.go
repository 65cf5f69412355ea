package quiz

// State is a quiz session lifecycle state.
type State int

const (
	Idle State = iota
	Generating
	Ready
	InProgress
	Submitted
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Generating:
		return "generating"
	case Ready:
		return "ready"
	case InProgress:
		return "in_progress"
	case Submitted:
		return "submitted"
	default:
		return "unknown"
	}
}

// MarshalText renders the state by name in JSON views.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}
