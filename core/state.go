package core

// State is the lifecycle state of an agent. The runtime stores it in a single
// atomic field which acts as the authoritative gate for every state-dependent
// operation.
type State int32

// Lifecycle states. Transitions only follow the documented edges:
// CREATED/STOPPED -> STARTING -> RUNNING <-> PAUSED, RUNNING/PAUSED ->
// STOPPING -> STOPPED, and any lifecycle failure -> ERROR.
const (
	StateCreated State = iota
	StateStarting
	StateRunning
	StatePaused
	StateStopping
	StateStopped
	StateError
)

// String returns the canonical upper-case state name.
func (s State) String() string {
	switch s {
	case StateCreated:
		return "CREATED"
	case StateStarting:
		return "STARTING"
	case StateRunning:
		return "RUNNING"
	case StatePaused:
		return "PAUSED"
	case StateStopping:
		return "STOPPING"
	case StateStopped:
		return "STOPPED"
	case StateError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}
