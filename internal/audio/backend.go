package audio

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ebitengine/oto/v3"

	"github.com/kajmany/bytebeat/internal/invariant"
	"github.com/kajmany/bytebeat/internal/scope"
)

// cursorPollInterval matches the 100ms play-head estimation cadence.
const cursorPollInterval = 100 * time.Millisecond

// reconnectBackoff is the fixed delay between device-reinit attempts after
// the output device is lost. A fixed 1s backoff rather than an exponential
// one: a lost audio device is almost always either momentary (a PipeWire
// graph reshuffle) or permanent (unplugged headphones) and neither case
// benefits from a growing delay.
const reconnectBackoff = 1 * time.Second

// Backend owns the real-time audio output stream: the oto context and
// player, the hot-swappable Beat, and the scope ring every sample is
// mirrored into.
type Backend struct {
	log *slog.Logger

	ctx    *oto.Context
	player *oto.Player
	reader *beatReader

	status   StreamStatus
	cursor   int32
	commands chan Command
	events   chan<- Event
}

// New opens the default audio output device and returns a Backend in
// StreamStreaming state. Ring is shared with the UI's scope widget.
func New(log *slog.Logger, ring *scope.Ring, events chan<- Event) (*Backend, error) {
	invariant.NotNil(ring, "ring")
	invariant.NotNil(events, "events")

	b := &Backend{
		log:      log,
		reader:   newBeatReader(ring),
		commands: make(chan Command, 16),
		events:   events,
		status:   StreamConnecting,
	}
	if err := b.connect(); err != nil {
		b.setStatus(StreamError)
		return nil, err
	}
	b.setStatus(StreamStreaming)
	return b, nil
}

func (b *Backend) connect() error {
	opts := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: channelCount,
		Format:       oto.FormatSignedInt16LE,
	}
	ctx, ready, err := oto.NewContext(opts)
	if err != nil {
		return fmt.Errorf("opening audio output: %w", err)
	}
	<-ready
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("audio output context: %w", err)
	}

	player := ctx.NewPlayer(b.reader)
	player.SetVolume(float64(VolumeDefault))
	player.Play()

	b.ctx = ctx
	b.player = player
	return nil
}

func (b *Backend) setStatus(s StreamStatus) {
	b.status = s
	select {
	case b.events <- Event{Kind: EventStateChange, Status: s}:
	default:
		b.log.Warn("audio event channel full, dropping state change", "status", s)
	}
}

// Commands returns the channel callers send Command values on.
func (b *Backend) Commands() chan<- Command {
	return b.commands
}

// Status reports the backend's last known StreamStatus.
func (b *Backend) Status() StreamStatus {
	return b.status
}

// PlayCursor estimates the sample index currently audible at the speaker,
// i.e. t_write minus whatever is still queued in the output buffer.
// Ported from the original backend's estimate_play_head: the write cursor
// runs ahead of the play cursor by the number of buffered frames (the
// player's buffered byte count divided by frameSize).
func (b *Backend) PlayCursor() int32 {
	buffered := int32(0)
	if b.player != nil {
		buffered = int32(b.player.BufferedSize() / frameSize)
	}
	return b.reader.tWritten() - buffered
}

// Run processes Commands and maintains the device connection until ctx is
// canceled. It is meant to run on its own long-lived goroutine, one of the
// program's fixed set of threads.
func (b *Backend) Run(ctx context.Context) {
	cursorTicker := time.NewTicker(cursorPollInterval)
	defer cursorTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			b.shutdown()
			return

		case cmd := <-b.commands:
			b.handle(cmd)

		case <-cursorTicker.C:
			b.cursor = b.PlayCursor()
		}
	}
}

func (b *Backend) handle(cmd Command) {
	switch cmd.Kind {
	case CmdPlay:
		b.reader.paused.Store(false)
		if b.player != nil {
			b.player.Play()
		}
		b.setStatus(StreamStreaming)

	case CmdPause:
		b.reader.paused.Store(true)
		b.setStatus(StreamPaused)

	case CmdSetVolume:
		if b.player != nil {
			b.player.SetVolume(float64(cmd.Volume.Clamp()))
		}

	case CmdNewBeat:
		invariant.NotNil(cmd.Beat, "cmd.Beat")
		b.reader.Swap(cmd.Beat)
	}
}

func (b *Backend) shutdown() {
	if b.player != nil {
		b.player.Close()
	}
}

// Reconnect is invoked after connect fails mid-run (device removed).
// It is not wired into Run automatically: oto/v3 does not currently expose
// a mid-stream device-invalidation callback the way PipeWire's native
// listener does, so recovery here is reached only through an explicit
// Reconnect call from a caller that observed player errors some other way
// (e.g. a read/write error surfaced through logs). This mirrors the
// original's 1-second retry loop even though the trigger condition differs
// from the native backend it was ported from.
func (b *Backend) Reconnect(ctx context.Context) error {
	b.setStatus(StreamConnecting)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if err := b.connect(); err == nil {
			b.setStatus(StreamStreaming)
			return nil
		}
		b.log.Warn("audio device reconnect failed, retrying", "backoff", reconnectBackoff)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(reconnectBackoff):
		}
	}
}
