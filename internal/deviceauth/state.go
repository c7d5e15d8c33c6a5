package deviceauth

// State is a step of one login attempt.
type State int

const (
	StateIdle State = iota
	StateRequestingCode
	StateAwaitingUserAction
	StatePolling
	StateSucceeded
	StateFailed
	StateExpired
	StateDenied
)

var stateNames = [...]string{
	StateIdle:               "idle",
	StateRequestingCode:     "requesting_code",
	StateAwaitingUserAction: "awaiting_user_action",
	StatePolling:            "polling",
	StateSucceeded:          "succeeded",
	StateFailed:             "failed",
	StateExpired:            "expired",
	StateDenied:             "denied",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}

// Terminal reports whether no further transitions follow s.
func (s State) Terminal() bool {
	switch s {
	case StateSucceeded, StateFailed, StateExpired, StateDenied:
		return true
	}
	return false
}
