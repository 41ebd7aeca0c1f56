// audio_signal.go - Tone specification and sine synthesis

/*
mnomer - a sine based metronome for the command line

https://github.com/thfr/mnomer
License: GPLv3 or later
*/

package main

import (
	"fmt"
	"math"
)

const (
	SAMPLE_RATE = 48000

	// Peak amplitude of the fundamental as a fraction of full scale.
	// Leaves headroom for the overtone sum and the filter chain.
	SINE_MAX_AMPLITUDE = 0.75

	// Fade durations applied to tone edges: the shorter of FADE_MIN_TIME
	// and FADE_MIN_PERCENTAGE of the tone duration.
	FADE_MIN_TIME       = 0.01 // [s]
	FADE_MIN_PERCENTAGE = 0.3

	// Accepted pitch range for beat tones.
	MIN_TONE_FREQ = 20.0    // [Hz]
	MAX_TONE_FREQ = 20000.0 // [Hz]
)

// TimeToSamples converts a duration in seconds to a sample count at the
// engine rate.
func TimeToSamples(seconds float64) int {
	return int(math.Round(seconds * SAMPLE_RATE))
}

// SamplesToTime converts a sample count at the engine rate to seconds.
func SamplesToTime(samples int) float64 {
	return float64(samples) / SAMPLE_RATE
}

// FadeTimeFor returns the fade duration used for a tone of the given length.
func FadeTimeFor(toneDuration float64) float64 {
	return math.Min(FADE_MIN_TIME, FADE_MIN_PERCENTAGE*toneDuration)
}

// ToneSpec describes one synthesized beat tone. A spec is never mutated
// after a signal has been generated from it; changing a tone parameter
// means generating a new signal.
type ToneSpec struct {
	Frequency float64 // fundamental [Hz], > 0
	Duration  float64 // [s], > 0
	Overtones int     // harmonics above the fundamental, >= 0
}

// AudioSignal is a mono float32 sample buffer at the engine rate.
type AudioSignal struct {
	Samples []float32
	Spec    ToneSpec
}

// Duration returns the signal length in seconds.
func (sig *AudioSignal) Duration() float64 {
	return SamplesToTime(len(sig.Samples))
}

// GenerateTone synthesizes a sine with overtones from spec. Overtone k
// (k = 2 .. Overtones+1) runs at k times the fundamental; its gain starts
// at 0.5 and halves per overtone so that high overtone counts stay inside
// the SINE_MAX_AMPLITUDE headroom. Deterministic, no side effects.
func GenerateTone(spec ToneSpec) (*AudioSignal, error) {
	if spec.Frequency <= 0 {
		return nil, fmt.Errorf("tone frequency must be greater than 0, got %g", spec.Frequency)
	}
	if spec.Duration <= 0 {
		return nil, fmt.Errorf("tone duration must be greater than 0, got %g", spec.Duration)
	}
	if spec.Overtones < 0 {
		return nil, fmt.Errorf("overtone count must not be negative, got %d", spec.Overtones)
	}

	numSamples := TimeToSamples(spec.Duration)
	samples := make([]float32, numSamples)
	for n := range samples {
		x := float64(n)
		value := math.Sin(x * 2 * math.Pi * spec.Frequency / SAMPLE_RATE)
		gain := 0.5
		for ot := 0; ot < spec.Overtones; ot++ {
			toneFreq := float64(ot+2) * spec.Frequency
			value += gain * math.Sin(x*2*math.Pi*toneFreq/SAMPLE_RATE)
			gain *= 0.5
		}
		samples[n] = float32(value * SINE_MAX_AMPLITUDE)
	}
	return &AudioSignal{Samples: samples, Spec: spec}, nil
}
