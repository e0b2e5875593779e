package driver

import "time"

// Stage describes a high-level emission phase.
type Stage string

const (
	// StageLoad is the manifest loading stage.
	StageLoad Stage = "load"
	// StageRealize is the declaration realization stage.
	StageRealize Stage = "realize"
	// StageEmit is the IR emission stage.
	StageEmit Stage = "emit"
)

// Status captures progress state within a stage.
type Status string

const (
	// StatusQueued indicates the module is waiting to start.
	StatusQueued Status = "queued"
	// StatusWorking indicates the module is being processed.
	StatusWorking Status = "working"
	// StatusDone indicates the module finished.
	StatusDone Status = "done"
	// StatusError indicates the module failed.
	StatusError Status = "error"
)

// Event reports progress for one manifest (or the whole run when Path is
// empty).
type Event struct {
	Path    string
	Stage   Stage
	Status  Status
	Cached  bool
	Err     error
	Elapsed time.Duration
}

// ProgressSink consumes progress events.
type ProgressSink interface {
	OnEvent(Event)
}

// ChannelSink forwards events into a channel.
type ChannelSink struct {
	Ch chan<- Event
}

func (s ChannelSink) OnEvent(evt Event) {
	if s.Ch == nil {
		return
	}
	s.Ch <- evt
}

func notify(sink ProgressSink, evt Event) {
	if sink == nil {
		return
	}
	sink.OnEvent(evt)
}
