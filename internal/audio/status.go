package audio

import "github.com/kajmany/bytebeat/beat"

// StreamStatus is the backend's connection state machine. Each change is
// reported to the rest of the program as an Event; Backend.Status also
// returns the last value set.
type StreamStatus uint8

const (
	StreamUnconnected StreamStatus = iota
	StreamConnecting
	StreamStreaming
	StreamPaused
	StreamError
)

func (s StreamStatus) String() string {
	switch s {
	case StreamUnconnected:
		return "unconnected"
	case StreamConnecting:
		return "connecting"
	case StreamStreaming:
		return "streaming"
	case StreamPaused:
		return "paused"
	case StreamError:
		return "error"
	default:
		return "unknown"
	}
}

// Command is the set of requests the rest of the program can send to the
// audio backend. It is a closed tagged union, same shape as Event.
type Command struct {
	Kind   CommandKind
	Volume Volume
	Beat   *beat.Beat
}

type CommandKind uint8

const (
	CmdPlay CommandKind = iota
	CmdPause
	CmdSetVolume
	CmdNewBeat
)

// Event is the set of notifications the audio backend can emit.
type Event struct {
	Kind   EventKind
	Status StreamStatus
}

type EventKind uint8

const (
	EventStateChange EventKind = iota
)
