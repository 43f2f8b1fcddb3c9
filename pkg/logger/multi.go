package logger

// MultiLogger fans each message out to every sink. The background modes use
// it to keep stdout and the rotating file in lockstep.
type MultiLogger struct {
	sinks []Logger
}

// NewMultiLogger returns a logger broadcasting to the given sinks in order.
func NewMultiLogger(sinks ...Logger) *MultiLogger {
	return &MultiLogger{sinks: sinks}
}

func (m *MultiLogger) each(fn func(Logger)) {
	for _, s := range m.sinks {
		fn(s)
	}
}

func (m *MultiLogger) Info(format string, args ...interface{}) {
	m.each(func(s Logger) { s.Info(format, args...) })
}

func (m *MultiLogger) Warning(format string, args ...interface{}) {
	m.each(func(s Logger) { s.Warning(format, args...) })
}

func (m *MultiLogger) Error(format string, args ...interface{}) {
	m.each(func(s Logger) { s.Error(format, args...) })
}

// Close closes every sink even when an earlier one fails, and reports the
// first failure.
func (m *MultiLogger) Close() error {
	var err error
	m.each(func(s Logger) {
		if cerr := s.Close(); cerr != nil && err == nil {
			err = cerr
		}
	})
	return err
}

var _ Logger = (*MultiLogger)(nil)
