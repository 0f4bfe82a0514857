package eventbus

import (
	"context"
	"log/slog"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/gdamore/tcell/v2"

	"github.com/kajmany/bytebeat/internal/audio"
)

// tickRate is the scope/UI animation cadence.
const tickRate = 30
const tickInterval = time.Second / tickRate

// Hub owns the fan-in channel and the goroutines feeding it. Run starts
// exactly one goroutine per source; all four (terminal, tick, audio,
// optional file watch) are long-lived for the program's entire run.
type Hub struct {
	log     *slog.Logger
	out     chan Event
	screen  tcell.Screen
	audioIn <-chan audio.Event
	watcher *fsnotify.Watcher // nil when -w was not given
}

// New returns a Hub. watcher may be nil: file-watch is the one optional
// thread the spec allows a program run without.
func New(log *slog.Logger, screen tcell.Screen, audioIn <-chan audio.Event, watcher *fsnotify.Watcher) *Hub {
	return &Hub{
		log:     log,
		out:     make(chan Event, 64),
		screen:  screen,
		audioIn: audioIn,
		watcher: watcher,
	}
}

// Out is the single channel every event arrives on.
func (h *Hub) Out() <-chan Event {
	return h.out
}

// Run starts every feeder goroutine and blocks until ctx is canceled.
func (h *Hub) Run(ctx context.Context) {
	go h.runTerminal(ctx)
	go h.runTick(ctx)
	go h.runAudio(ctx)
	if h.watcher != nil {
		go h.runFileWatch(ctx)
	}
	<-ctx.Done()
}

// runTerminal blocks on tcell's PollEvent, which itself unblocks on
// screen.Fini() during shutdown; this is the direct analogue of
// crossterm's event::read().
func (h *Hub) runTerminal(ctx context.Context) {
	for {
		ev := h.screen.PollEvent()
		if ev == nil {
			// PollEvent returns nil once Fini has been called.
			return
		}
		select {
		case h.out <- Event{Kind: KindTerm, Term: ev}:
		case <-ctx.Done():
			return
		}
	}
}

// runTick emits a Tick at tickRate, measuring from the last emission
// rather than sleeping a fixed duration each time, so processing jitter in
// the UI thread does not accumulate into drift over a long session —
// mirrors the original poller's
// tick_interval.saturating_sub(last_tick.elapsed()) computation.
func (h *Hub) runTick(ctx context.Context) {
	last := time.Now()
	timer := time.NewTimer(tickInterval)
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
			last = time.Now()
			select {
			case h.out <- Event{Kind: KindTick}:
			case <-ctx.Done():
				return
			}
			elapsed := time.Since(last)
			remaining := tickInterval - elapsed
			if remaining < 0 {
				remaining = 0
			}
			timer.Reset(remaining)
		}
	}
}

func (h *Hub) runAudio(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-h.audioIn:
			if !ok {
				return
			}
			select {
			case h.out <- Event{Kind: KindAudio, Audio: ev}:
			case <-ctx.Done():
				return
			}
		}
	}
}

// runFileWatch forwards fsnotify events. A closed watch channel is logged
// as an error and ends this goroutine; the program keeps running, and later
// changes to the watched file are no longer reloaded.
func (h *Hub) runFileWatch(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-h.watcher.Events:
			if !ok {
				h.log.Error("file watch channel closed unexpectedly")
				return
			}
			select {
			case h.out <- Event{Kind: KindFileWatch, FileWatch: ev}:
			case <-ctx.Done():
				return
			}
		case err, ok := <-h.watcher.Errors:
			if !ok {
				return
			}
			h.log.Warn("file watch error", "err", err)
		}
	}
}
