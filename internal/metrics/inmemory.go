package metrics

import "sync/atomic"

// Snapshot captures current in-memory counters.
type Snapshot struct {
	UsersRegistered   uint64 `json:"users_registered"`
	LoginSuccesses    uint64 `json:"login_successes"`
	LoginFailures     uint64 `json:"login_failures"`
	SessionsDestroyed uint64 `json:"sessions_destroyed"`
	ExpensesCreated   uint64 `json:"expenses_created"`
	ExpensesUpdated   uint64 `json:"expenses_updated"`
	ExpensesDeleted   uint64 `json:"expenses_deleted"`
}

// InMemoryRecorder stores counters in memory. Good enough for a single
// process; swap for a real exporter when scaling out.
type InMemoryRecorder struct {
	usersRegistered   uint64
	loginSuccesses    uint64
	loginFailures     uint64
	sessionsDestroyed uint64
	expensesCreated   uint64
	expensesUpdated   uint64
	expensesDeleted   uint64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	return Snapshot{
		UsersRegistered:   atomic.LoadUint64(&m.usersRegistered),
		LoginSuccesses:    atomic.LoadUint64(&m.loginSuccesses),
		LoginFailures:     atomic.LoadUint64(&m.loginFailures),
		SessionsDestroyed: atomic.LoadUint64(&m.sessionsDestroyed),
		ExpensesCreated:   atomic.LoadUint64(&m.expensesCreated),
		ExpensesUpdated:   atomic.LoadUint64(&m.expensesUpdated),
		ExpensesDeleted:   atomic.LoadUint64(&m.expensesDeleted),
	}
}

func (m *InMemoryRecorder) IncUserRegistered()   { atomic.AddUint64(&m.usersRegistered, 1) }
func (m *InMemoryRecorder) IncLoginSuccess()     { atomic.AddUint64(&m.loginSuccesses, 1) }
func (m *InMemoryRecorder) IncLoginFailure()     { atomic.AddUint64(&m.loginFailures, 1) }
func (m *InMemoryRecorder) IncSessionDestroyed() { atomic.AddUint64(&m.sessionsDestroyed, 1) }
func (m *InMemoryRecorder) IncExpenseCreated()   { atomic.AddUint64(&m.expensesCreated, 1) }
func (m *InMemoryRecorder) IncExpenseUpdated()   { atomic.AddUint64(&m.expensesUpdated, 1) }
func (m *InMemoryRecorder) IncExpenseDeleted()   { atomic.AddUint64(&m.expensesDeleted, 1) }
