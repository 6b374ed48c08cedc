package frames

import "time"

// EventKind classifies a LogEvent.
type EventKind string

const (
	EventHook        EventKind = "hook"
	EventMethod      EventKind = "method"
	EventExpression  EventKind = "expression"
	EventAnomaly     EventKind = "anomaly"
	EventPropagation EventKind = "propagation"
	EventActivity    EventKind = "activity"
	EventPersist     EventKind = "persist"
)

// LogEvent describes something the registry observed while running an
// operation. The core never surfaces these to callers; they only reach the
// configured Logger.
type LogEvent struct {
	Kind     EventKind
	Op       string
	Frame    string
	Slot     string
	Demon    DemonKind
	Target   string
	OK       bool
	Duration time.Duration
	Err      error
	Message  string
}

// Logger records registry events.
type Logger interface {
	Log(LogEvent)
}

// LoggerFunc adapts a function to Logger.
type LoggerFunc func(LogEvent)

// Log implements Logger.
func (f LoggerFunc) Log(event LogEvent) {
	if f != nil {
		f(event)
	}
}

type noopLogger struct{}

func (noopLogger) Log(LogEvent) {}

// MultiLogger fans events out to every non-nil logger.
type MultiLogger []Logger

// Log implements Logger.
func (m MultiLogger) Log(event LogEvent) {
	for _, logger := range m {
		if logger != nil {
			logger.Log(event)
		}
	}
}

// WithLogger attaches a logger to the registry. A nil logger disables logging.
func WithLogger(logger Logger) Option {
	return func(cfg *registryConfig) {
		if logger == nil {
			cfg.logger = noopLogger{}
			return
		}
		cfg.logger = logger
	}
}

func (r *Registry) log(event LogEvent) {
	r.logger().Log(event)
}

func (r *Registry) logger() Logger {
	if r.cfg.logger != nil {
		return r.cfg.logger
	}
	return noopLogger{}
}

func (r *Registry) anomaly(op string, at slotRef, message string) {
	r.log(LogEvent{
		Kind:    EventAnomaly,
		Op:      op,
		Frame:   at.frameID,
		Slot:    at.slotName,
		Message: message,
	})
}
