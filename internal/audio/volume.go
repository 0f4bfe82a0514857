package audio

import "fmt"

// Volume is a linear gain in [0, 1], applied by the native audio backend's
// own gain control rather than by multiplying it into every sample: the
// evaluator's job is only to produce a waveform, never to attenuate it.
type Volume float32

const (
	VolumeMute    Volume = 0.0
	VolumeMax     Volume = 1.0
	VolumeDefault Volume = 0.5
	volumeStep    Volume = 0.1
)

// Clamp returns v constrained to [VolumeMute, VolumeMax].
func (v Volume) Clamp() Volume {
	if v < VolumeMute {
		return VolumeMute
	}
	if v > VolumeMax {
		return VolumeMax
	}
	return v
}

// Incr returns v raised by one volume step (Up key), clamped.
func (v Volume) Incr() Volume {
	return (v + volumeStep).Clamp()
}

// Decr returns v lowered by one volume step (Down key), clamped.
func (v Volume) Decr() Volume {
	return (v - volumeStep).Clamp()
}

// String renders v as a rounded percentage, e.g. "50%".
func (v Volume) String() string {
	return fmt.Sprintf("%d%%", int(v*100+0.5))
}
