package process

// State represents the lifecycle state of a simulated process.
type State string

const (
	StateNew        State = "new"
	StateReady      State = "ready"
	StateRunning    State = "running"
	StateBlocked    State = "blocked"
	StateTerminated State = "terminated"
)

// States lists every state in lifecycle order.
var States = []State{StateNew, StateReady, StateRunning, StateBlocked, StateTerminated}

var transitions = map[State][]State{
	StateNew:     {StateReady},
	StateReady:   {StateRunning},
	StateRunning: {StateBlocked, StateTerminated},
	StateBlocked: {StateReady},
}

// CanTransition reports whether the state machine allows moving from s to next.
func (s State) CanTransition(next State) bool {
	for _, candidate := range transitions[s] {
		if candidate == next {
			return true
		}
	}
	return false
}

// IsTerminal returns true for Terminated.
func (s State) IsTerminal() bool {
	return s == StateTerminated
}

// IsValid returns true when s is one of the five lifecycle states.
func (s State) IsValid() bool {
	switch s {
	case StateNew, StateReady, StateRunning, StateBlocked, StateTerminated:
		return true
	}
	return false
}

// Stage returns the 1..5 progress stage used by display layers, 0 for unknown states.
func (s State) Stage() int {
	switch s {
	case StateNew:
		return 1
	case StateReady:
		return 2
	case StateRunning:
		return 3
	case StateBlocked:
		return 4
	case StateTerminated:
		return 5
	}
	return 0
}
