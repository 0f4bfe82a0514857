// Package eventbus fans the program's four long-lived threads (terminal,
// audio, optional file watch, and the tick clock) into a single ordered
// channel the UI thread drains. Ordering is causal-only across threads: two
// events from different sources carry no guarantee about which was
// generated first, only that each source's own events arrive in the order
// it produced them.
package eventbus

import (
	"github.com/fsnotify/fsnotify"
	"github.com/gdamore/tcell/v2"

	"github.com/kajmany/bytebeat/internal/audio"
)

// Kind discriminates the Event union.
type Kind uint8

const (
	KindTerm Kind = iota
	KindAudio
	KindTick
	KindFileWatch
)

// Event is the single type flowing out of Hub.Out. Only the field matching
// Kind is populated.
type Event struct {
	Kind      Kind
	Term      tcell.Event
	Audio     audio.Event
	FileWatch fsnotify.Event
}
