package audio

import (
	"encoding/binary"
	"sync/atomic"

	"github.com/kajmany/bytebeat/beat"
	"github.com/kajmany/bytebeat/internal/scope"
)

// sampleRate is the evaluation clock: one Eval(t) per sample at 8kHz, the
// rate every bytebeat composition (including this repo's own song library)
// is written against. The audio context is opened at this same rate rather
// than a device-native one (e.g. 44.1/48kHz) — oto/the OS resamples for
// playback if the device doesn't support 8kHz natively — so t always
// advances at the rate the composer assumed, never 5-6x too fast.
const (
	sampleRate   = 8000
	channelCount = 2
	bytesPerSamp = 2 // signed 16-bit little-endian, matching oto.FormatSignedInt16LE
	frameSize    = channelCount * bytesPerSamp
)

// beatReader is the io.Reader the oto player pulls PCM from. It is the
// single point where the active Beat is read: one atomic pointer load per
// Read call covers an entire buffer's worth of frames, never one load per
// sample, so a hot-swap mid-buffer cannot tear a single frame's math apart.
type beatReader struct {
	current atomic.Pointer[beat.Beat]
	tWrite  atomic.Int32 // monotonically increasing; wraps like any int32
	paused  atomic.Bool
	ring    *scope.Ring
}

func newBeatReader(ring *scope.Ring) *beatReader {
	r := &beatReader{ring: ring}
	r.current.Store(beat.Silence)
	return r
}

// Swap installs b as the active beat, returning the one it replaced.
func (r *beatReader) Swap(b *beat.Beat) *beat.Beat {
	return r.current.Swap(b)
}

// Read fills p with interleaved stereo 16-bit PCM frames, evaluating the
// active beat once per sample and writing the same value to both channels:
// the expression language has no notion of stereo, so every output is dual
// mono.
func (r *beatReader) Read(p []byte) (int, error) {
	n := len(p) - len(p)%frameSize
	if r.paused.Load() {
		for i := 0; i < n; i++ {
			p[i] = 0
		}
		return n, nil
	}

	b := r.current.Load()
	for off := 0; off < n; off += frameSize {
		t := r.tWrite.Add(1) - 1
		sample := b.Eval(t)
		r.ring.Push(sample)

		// Center the unsigned 8-bit sample around zero and scale to the
		// full signed 16-bit range.
		centered := int16(int32(sample)-128) * 256
		var buf [2]byte
		binary.LittleEndian.PutUint16(buf[:], uint16(centered))
		for ch := 0; ch < channelCount; ch++ {
			copy(p[off+ch*bytesPerSamp:], buf[:])
		}
	}
	return n, nil
}

// tWritten reports the t_write counter for play-cursor estimation.
func (r *beatReader) tWritten() int32 {
	return r.tWrite.Load()
}
