package listing

// Sink receives diagnostics about degraded parses. *log.Logger from
// github.com/charmbracelet/log satisfies it.
type Sink interface {
	Debug(msg interface{}, keyvals ...interface{})
	Warn(msg interface{}, keyvals ...interface{})
}

// NopSink discards diagnostics.
type NopSink struct{}

func (NopSink) Debug(interface{}, ...interface{}) {}
func (NopSink) Warn(interface{}, ...interface{})  {}
