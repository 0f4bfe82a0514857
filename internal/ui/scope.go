package ui

import "github.com/kajmany/bytebeat/internal/scope"

// ScopeWindow returns exactly width samples for the scope widget, with the
// most recent sample at the right edge. Until the ring has accumulated
// width samples (right after playback starts) the left edge is zero-filled instead
// of showing whatever garbage happened to be in the ring before it was
// ever written — the startup-transient behavior the original scope widget
// relies on.
func ScopeWindow(ring *scope.Ring, width int) []byte {
	out := make([]byte, width)
	if ring == nil {
		return out
	}
	tmp := make([]byte, width)
	got := ring.Snapshot(tmp, width)
	copy(out[width-len(got):], got)
	return out
}
