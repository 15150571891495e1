// Package collector runs vacancy collection: it plans date intervals,
// pages through the provider for each one, and turns the accumulated
// vacancies into a report delivered back to the requesting chat.
//
// Run lifecycle:
//
//	IDLE ──► RUNNING ──► COMPLETED
//	             │
//	             ├──────► CANCELLED
//	             └──────► FAILED
//
// COMPLETED, CANCELLED and FAILED are terminal states.
package collector

// State is the lifecycle state of a collection run.
type State string

const (
	StateIdle      State = "IDLE"
	StateRunning   State = "RUNNING"
	StateCompleted State = "COMPLETED"
	StateCancelled State = "CANCELLED"
	StateFailed    State = "FAILED"
)

// validTransitions lists every allowed (from → to) pair.
var validTransitions = map[State][]State{
	StateIdle:    {StateRunning},
	StateRunning: {StateCompleted, StateCancelled, StateFailed},
	// terminal states have no outgoing transitions
}

// IsTransitionAllowed returns true when moving from → to is permitted by
// the run lifecycle.
func IsTransitionAllowed(from, to State) bool {
	allowed, ok := validTransitions[from]
	if !ok {
		return false
	}
	for _, s := range allowed {
		if s == to {
			return true
		}
	}
	return false
}

// IsTerminal returns true when a run in state s can never change state
// again.
func IsTerminal(s State) bool {
	return len(validTransitions[s]) == 0
}
