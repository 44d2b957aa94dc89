// Package metrics provides lightweight hooks for instrumentation.
package metrics

// Recorder captures metric events for the application.
// Implementations can expose these to Prometheus, StatsD, etc.
type Recorder interface {
	// Account lifecycle
	IncUserRegistered()
	IncLoginSuccess()
	IncLoginFailure()
	IncSessionDestroyed()

	// Expense management
	IncExpenseCreated()
	IncExpenseUpdated()
	IncExpenseDeleted()
}

// Snapshotter exposes a snapshot of current metrics.
type Snapshotter interface {
	Snapshot() Snapshot
}
