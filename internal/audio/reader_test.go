package audio

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kajmany/bytebeat/beat"
	"github.com/kajmany/bytebeat/internal/scope"
)

func TestBeatReaderProducesStereoFrames(t *testing.T) {
	r := newBeatReader(scope.NewRing(64))
	b, errs := beat.Compile("t")
	require.Empty(t, errs)
	r.Swap(b)

	buf := make([]byte, frameSize*4)
	n, err := r.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, len(buf), n)
}

func TestBeatReaderPausedWritesSilence(t *testing.T) {
	r := newBeatReader(scope.NewRing(64))
	b, errs := beat.Compile("255")
	require.Empty(t, errs)
	r.Swap(b)
	r.paused.Store(true)

	buf := make([]byte, frameSize*4)
	for i := range buf {
		buf[i] = 0xAA
	}
	n, err := r.Read(buf)
	require.NoError(t, err)
	require.Equal(t, len(buf), n)
	for _, b := range buf {
		assert.Equal(t, byte(0), b)
	}
}

func TestBeatReaderAdvancesTPerSample(t *testing.T) {
	r := newBeatReader(scope.NewRing(64))
	b, errs := beat.Compile("t")
	require.Empty(t, errs)
	r.Swap(b)

	buf := make([]byte, frameSize*10)
	_, err := r.Read(buf)
	require.NoError(t, err)
	assert.EqualValues(t, 10, r.tWritten())
}

func TestVolumeClampAndSteps(t *testing.T) {
	assert.Equal(t, VolumeMax, (VolumeMax + 1).Clamp())
	assert.Equal(t, VolumeMute, (VolumeMute - 1).Clamp())
	assert.InDelta(t, float32(0.6), float32(VolumeDefault.Incr()), 1e-6)
	assert.InDelta(t, float32(0.4), float32(VolumeDefault.Decr()), 1e-6)
}

func TestVolumeString(t *testing.T) {
	assert.Equal(t, "50%", VolumeDefault.String())
	assert.Equal(t, "100%", VolumeMax.String())
}

func TestStreamStatusString(t *testing.T) {
	assert.Equal(t, "streaming", StreamStreaming.String())
	assert.Equal(t, "paused", StreamPaused.String())
}
