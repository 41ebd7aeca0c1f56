// audio_envelope.go - Exponential fade-in/fade-out envelope

package main

import (
	"fmt"
	"math"
)

// ApplyFadeInOut applies an exponential fade to the head and tail of the
// signal in place. Exponential fading is used because it is perceived as
// smoother than linear fading: a factor starting at 1/32767 is multiplied
// each sample by the constant ratio r that satisfies
//
//	start * r^steps = 1   =>   r = (1/start)^(1/steps)
//
// The fade-out uses the reciprocal exponent to ramp from 1.0 back down to
// the same floor, so no sample at a loop boundary starts or ends at a hard
// discontinuity. A fade that rounds to zero samples is skipped.
func (sig *AudioSignal) ApplyFadeInOut(fadeInTime, fadeOutTime float64) error {
	if fadeInTime < 0 || fadeOutTime < 0 {
		return fmt.Errorf("fade durations must not be negative, got %g and %g", fadeInTime, fadeOutTime)
	}

	startValue := 1.0 / float64(math.MaxInt16)
	fadeInSamples := min(TimeToSamples(fadeInTime), len(sig.Samples))
	fadeOutSamples := min(TimeToSamples(fadeOutTime), len(sig.Samples))

	if fadeInSamples > 0 {
		ratio := math.Pow(1.0/startValue, 1.0/float64(fadeInSamples))
		factor := startValue
		for i := 0; i < fadeInSamples; i++ {
			sig.Samples[i] = float32(float64(sig.Samples[i]) * factor)
			factor *= ratio
		}
	}

	if fadeOutSamples > 0 {
		ratio := math.Pow(1.0/startValue, -1.0/float64(fadeOutSamples))
		factor := 1.0
		for i := len(sig.Samples) - fadeOutSamples; i < len(sig.Samples); i++ {
			sig.Samples[i] = float32(float64(sig.Samples[i]) * factor)
			factor *= ratio
		}
	}

	return nil
}
