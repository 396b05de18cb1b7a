package trace

import "github.com/sirupsen/logrus"

// LogrusSink adapts a *logrus.Logger to the Sink interface, giving callers a
// turnkey structured-logging backend without forcing it on the rest of the
// package (Sink has no required dependency).
type LogrusSink struct {
	log *logrus.Logger
}

var _ Sink = (*LogrusSink)(nil)

// NewLogrusSink wraps the given logger. A nil logger uses logrus's default.
func NewLogrusSink(log *logrus.Logger) *LogrusSink {
	if log == nil {
		log = logrus.StandardLogger()
	}

	return &LogrusSink{log: log}
}

// Trace implements Sink, logging each event at a level appropriate to its
// severity: dropped packets are common under loss and logged at debug,
// evictions and invalid heaps are logged at warn.
func (s *LogrusSink) Trace(event Event, fields Fields) {
	entry := s.log.WithFields(logrus.Fields{
		"event":    event.String(),
		"heap_cnt": fields.HeapCnt,
	})
	if fields.Reason != "" {
		entry = entry.WithField("reason", fields.Reason)
	}
	if fields.Err != nil {
		entry = entry.WithError(fields.Err)
	}

	switch event {
	case PacketDropped:
		entry.Debug("spead: packet dropped")
	case HeapEvicted, HeapInvalid:
		entry.Warn("spead: heap reassembly anomaly")
	default:
		entry.Debug("spead: trace event")
	}
}
