package health

// HealthListener is notified with a snapshot of all last known reports after every run cycle
// that executed at least one check.
type HealthListener interface {
	OnResultsUpdated(results map[string]Report)
}

type HealthListeners []HealthListener

func (h HealthListeners) OnResultsUpdated(results map[string]Report) {
	for _, listener := range h {
		listener.OnResultsUpdated(results)
	}
}
