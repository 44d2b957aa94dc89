package metrics

// NoopRecorder implements Recorder with no-op methods.
type NoopRecorder struct{}

// NewNoop returns a Recorder that discards all metrics.
func NewNoop() Recorder {
	return &NoopRecorder{}
}

func (n *NoopRecorder) IncUserRegistered()   {}
func (n *NoopRecorder) IncLoginSuccess()     {}
func (n *NoopRecorder) IncLoginFailure()     {}
func (n *NoopRecorder) IncSessionDestroyed() {}
func (n *NoopRecorder) IncExpenseCreated()   {}
func (n *NoopRecorder) IncExpenseUpdated()   {}
func (n *NoopRecorder) IncExpenseDeleted()   {}
