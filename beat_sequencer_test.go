// beat_sequencer_test.go - Unit tests for loop buffer assembly

package main

import (
	"errors"
	"testing"
)

func testTone(t *testing.T, freq, duration float64) *AudioSignal {
	t.Helper()
	sig, err := GenerateTone(ToneSpec{Frequency: freq, Duration: duration, Overtones: 1})
	if err != nil {
		t.Fatalf("GenerateTone failed: %v", err)
	}
	return sig
}

// TestSamplesPerSlot verifies the tempo math, including the subdivision
// scaling around the reference value of 4.
func TestSamplesPerSlot(t *testing.T) {
	tests := []struct {
		name        string
		bpm         int
		subdivision int
		want        int
	}{
		{"hundred_bpm_reference", 100, 4, 28800},
		{"sixty_bpm_reference", 60, 4, 48000},
		{"doubled_subdivision_halves_slot", 100, 8, 14400},
		{"halved_subdivision_doubles_slot", 100, 2, 57600},
		{"odd_tempo_rounds", 90, 4, 32000},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := SamplesPerSlot(tc.bpm, tc.subdivision); got != tc.want {
				t.Errorf("SamplesPerSlot(%d, %d) = %d, want %d", tc.bpm, tc.subdivision, got, tc.want)
			}
		})
	}
}

// TestBuildLoopBuffer_TotalLength verifies that one measure at 100 bpm with
// the default pattern occupies exactly four slots.
func TestBuildLoopBuffer_TotalLength(t *testing.T) {
	accent := testTone(t, 880, 0.05)
	normal := testTone(t, 440, 0.05)
	pattern, err := ParseBeatPattern("!+++")
	if err != nil {
		t.Fatalf("ParseBeatPattern failed: %v", err)
	}

	loop, err := BuildLoopBuffer(accent, normal, 100, 4, pattern)
	if err != nil {
		t.Fatalf("BuildLoopBuffer failed: %v", err)
	}
	if want := 4 * 28800; loop.Len() != want {
		t.Errorf("loop length = %d, want %d", loop.Len(), want)
	}
}

// TestBuildLoopBuffer_SlotLayout verifies that each slot starts with its
// tone and ends in silence, and that pause slots are silent throughout.
func TestBuildLoopBuffer_SlotLayout(t *testing.T) {
	accent := testTone(t, 880, 0.05)
	normal := testTone(t, 440, 0.05)
	pattern, err := ParseBeatPattern("!+.")
	if err != nil {
		t.Fatalf("ParseBeatPattern failed: %v", err)
	}

	loop, err := BuildLoopBuffer(accent, normal, 100, 4, pattern)
	if err != nil {
		t.Fatalf("BuildLoopBuffer failed: %v", err)
	}
	slot := SamplesPerSlot(100, 4)
	if loop.Len() != 3*slot {
		t.Fatalf("loop length = %d, want %d", loop.Len(), 3*slot)
	}

	samples := loop.samples
	for i, s := range accent.Samples {
		if samples[i] != s {
			t.Fatalf("accent slot sample %d = %f, want %f", i, samples[i], s)
		}
	}
	for i := len(accent.Samples); i < slot; i++ {
		if samples[i] != 0 {
			t.Fatalf("accent slot tail sample %d = %f, want silence", i, samples[i])
		}
	}
	for i, s := range normal.Samples {
		if samples[slot+i] != s {
			t.Fatalf("beat slot sample %d = %f, want %f", i, samples[slot+i], s)
		}
	}
	for i := 2 * slot; i < 3*slot; i++ {
		if samples[i] != 0 {
			t.Fatalf("pause slot sample %d = %f, want silence", i, samples[i])
		}
	}
}

// TestBuildLoopBuffer_ToneLongerThanSlot verifies the distinct errors for
// the accentuated and the normal tone.
func TestBuildLoopBuffer_ToneLongerThanSlot(t *testing.T) {
	short := testTone(t, 440, 0.05)
	long := testTone(t, 440, 1.0) // 48000 samples, slot at 100 bpm is 28800
	pattern, err := ParseBeatPattern("!+")
	if err != nil {
		t.Fatalf("ParseBeatPattern failed: %v", err)
	}

	t.Run("accent_too_long", func(t *testing.T) {
		_, err := BuildLoopBuffer(long, short, 100, 4, pattern)
		if !errors.Is(err, ErrAccentTooLong) {
			t.Errorf("error = %v, want ErrAccentTooLong", err)
		}
	})

	t.Run("beat_too_long", func(t *testing.T) {
		_, err := BuildLoopBuffer(short, long, 100, 4, pattern)
		if !errors.Is(err, ErrBeatTooLong) {
			t.Errorf("error = %v, want ErrBeatTooLong", err)
		}
	})

	t.Run("tone_exactly_fits", func(t *testing.T) {
		exact := testTone(t, 440, 0.6) // 28800 samples, exactly one slot
		if _, err := BuildLoopBuffer(exact, short, 100, 4, pattern); err != nil {
			t.Errorf("exact fit rejected: %v", err)
		}
	})
}

// TestBuildLoopBuffer_EmptyPattern verifies the guard against a loop of
// length zero.
func TestBuildLoopBuffer_EmptyPattern(t *testing.T) {
	tone := testTone(t, 440, 0.05)
	if _, err := BuildLoopBuffer(tone, tone, 100, 4, nil); err == nil {
		t.Error("expected an error")
	}
}

// TestLoopBuffer_ReadSampleWraps verifies cyclic reads across the loop
// boundary.
func TestLoopBuffer_ReadSampleWraps(t *testing.T) {
	loop := &LoopBuffer{samples: []float32{0.1, 0.2, 0.3}}
	want := []float32{0.1, 0.2, 0.3, 0.1, 0.2, 0.3, 0.1}
	for i, w := range want {
		if got := loop.ReadSample(); got != w {
			t.Fatalf("read %d = %f, want %f", i, got, w)
		}
	}
}
