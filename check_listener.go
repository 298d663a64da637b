package health

// CheckListener can be used to gain check stats or log check transitions.
// Implementations of this interface **must not block!**
// Listeners are called from the goroutines executing the checks, possibly concurrently.
// It's OK to log in the implementation and it's OK to add metrics, but it's not OK to run anything that
// takes long time to complete such as network IO etc.
type CheckListener interface {
	// OnCheckRegistered is called when a check with the specified name has been registered
	OnCheckRegistered(name string)

	// OnCheckSkipped is called when a check was not due in a run cycle (StateSkipped).
	// err is non nil when the decision itself failed, e.g. because of an invalid schedule.
	OnCheckSkipped(name string, err error)

	// OnCheckStarted is called when a check with the specified name has started (StateRunning)
	OnCheckStarted(name string)

	// OnCheckCompleted is called when the check with the specified name has completed it's execution
	// (StateCompleted or StateCrashed). The report is passed as an argument.
	OnCheckCompleted(name string, report Report)
}

// CheckListeners fans events out to several listeners, in order.
type CheckListeners []CheckListener

func (c CheckListeners) OnCheckRegistered(name string) {
	for _, listener := range c {
		listener.OnCheckRegistered(name)
	}
}

func (c CheckListeners) OnCheckSkipped(name string, err error) {
	for _, listener := range c {
		listener.OnCheckSkipped(name, err)
	}
}

func (c CheckListeners) OnCheckStarted(name string) {
	for _, listener := range c {
		listener.OnCheckStarted(name)
	}
}

func (c CheckListeners) OnCheckCompleted(name string, report Report) {
	for _, listener := range c {
		listener.OnCheckCompleted(name, report)
	}
}

// make sure CheckListeners implements the CheckListener interface
var _ CheckListener = CheckListeners{}
