package health

// State is a step of a single check's execution cycle:
//
//	PENDING -> SKIPPED | RUNNING
//	RUNNING -> COMPLETED | CRASHED
//
// SKIPPED, COMPLETED and CRASHED are terminal.
type State uint8

const (
	StatePending State = iota
	StateSkipped
	StateRunning
	StateCompleted
	StateCrashed
)

var stateNames = [...]string{
	StatePending:   "pending",
	StateSkipped:   "skipped",
	StateRunning:   "running",
	StateCompleted: "completed",
	StateCrashed:   "crashed",
}

// Terminal reports whether no further transition can follow s.
func (s State) Terminal() bool {
	return s == StateSkipped || s == StateCompleted || s == StateCrashed
}

func (s State) String() string {
	if int(s) >= len(stateNames) {
		return "invalid"
	}

	return stateNames[s]
}
