// beat_sequencer.go - Tempo-locked loop buffer assembly

package main

import (
	"errors"
	"math"
)

// Distinct timing-infeasibility errors so the caller can tell which tone
// does not fit the current tempo.
var (
	ErrAccentTooLong = errors.New("accentuated beat too long to play at current tempo")
	ErrBeatTooLong   = errors.New("beat too long to play at current tempo")
)

// LoopBuffer is the cyclic playback buffer: a fixed sample arena read
// repeatedly through a wrapping cursor. Ownership transfers to the audio
// callback at session start; the control context never touches a live
// LoopBuffer again until the stream is torn down.
type LoopBuffer struct {
	samples []float32
	cursor  int
}

// Len returns the loop length in samples.
func (lb *LoopBuffer) Len() int {
	return len(lb.samples)
}

// ReadSample returns the next sample and advances the cursor modulo the
// loop length. Called from the audio callback: no locks, no allocation.
func (lb *LoopBuffer) ReadSample() float32 {
	sample := lb.samples[lb.cursor]
	lb.cursor = (lb.cursor + 1) % len(lb.samples)
	return sample
}

// SamplesPerSlot returns the fixed-duration time window one pattern symbol
// occupies. A subdivision of 4 is the reference: doubling the subdivision
// halves the slot.
func SamplesPerSlot(bpm, subdivision int) int {
	effectiveBpm := float64(bpm) * float64(subdivision) / 4.0
	return int(math.Round(60.0 * SAMPLE_RATE / effectiveBpm))
}

// BuildLoopBuffer assembles one full repetition of the pattern at the
// requested tempo from the filtered and enveloped tone signals. The total
// length is precomputed and allocated once; assembly never grows the
// buffer. The output device loops the result by wrapping the cursor.
func BuildLoopBuffer(accent, normal *AudioSignal, bpm, subdivision int, pattern BeatPattern) (*LoopBuffer, error) {
	if len(pattern) == 0 {
		return nil, errors.New("beat pattern is empty")
	}

	slot := SamplesPerSlot(bpm, subdivision)
	accentSilence := slot - len(accent.Samples)
	if accentSilence < 0 {
		return nil, ErrAccentTooLong
	}
	normalSilence := slot - len(normal.Samples)
	if normalSilence < 0 {
		return nil, ErrBeatTooLong
	}

	total := 0
	for _, sym := range pattern {
		switch sym {
		case BeatAccent:
			total += len(accent.Samples) + accentSilence
		case BeatNormal:
			total += len(normal.Samples) + normalSilence
		case BeatPause:
			total += slot
		}
	}

	// Pauses and trailing silence stay at the zero value of the arena.
	buf := make([]float32, total)
	pos := 0
	for _, sym := range pattern {
		switch sym {
		case BeatAccent:
			pos += copy(buf[pos:], accent.Samples)
			pos += accentSilence
		case BeatNormal:
			pos += copy(buf[pos:], normal.Samples)
			pos += normalSilence
		case BeatPause:
			pos += slot
		}
	}

	return &LoopBuffer{samples: buf}, nil
}
