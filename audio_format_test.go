// audio_format_test.go - Unit tests for sample format conversion

package main

import (
	"encoding/binary"
	"math"
	"testing"
)

// TestSampleFormat_BytesPerSample verifies the encoded sizes.
func TestSampleFormat_BytesPerSample(t *testing.T) {
	if got := FORMAT_FLOAT32_LE.BytesPerSample(); got != 4 {
		t.Errorf("float32 size = %d, want 4", got)
	}
	if got := FORMAT_INT16_LE.BytesPerSample(); got != 2 {
		t.Errorf("int16 size = %d, want 2", got)
	}
}

// TestEncodeFloat32LE verifies little-endian layout and per-channel
// replication.
func TestEncodeFloat32LE(t *testing.T) {
	dst := make([]byte, 8)
	n := encodeFloat32LE(dst, 0.5, 2)
	if n != 8 {
		t.Fatalf("wrote %d bytes, want 8", n)
	}

	left := math.Float32frombits(binary.LittleEndian.Uint32(dst[0:4]))
	right := math.Float32frombits(binary.LittleEndian.Uint32(dst[4:8]))
	if left != 0.5 || right != 0.5 {
		t.Errorf("decoded (%f, %f), want (0.5, 0.5)", left, right)
	}
}

// TestEncodeInt16LE verifies scaling, rounding and clamping of
// out-of-range samples.
func TestEncodeInt16LE(t *testing.T) {
	tests := []struct {
		name   string
		sample float32
		want   int16
	}{
		{"silence", 0, 0},
		{"full_scale", 1.0, math.MaxInt16},
		{"negative_full_scale", -1.0, -math.MaxInt16},
		{"half_scale", 0.5, 16384},
		{"clamps_positive_overdrive", 2.0, math.MaxInt16},
		{"clamps_negative_overdrive", -2.0, -math.MaxInt16},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			dst := make([]byte, 2)
			n := encodeInt16LE(dst, tc.sample, 1)
			if n != 2 {
				t.Fatalf("wrote %d bytes, want 2", n)
			}
			if got := int16(binary.LittleEndian.Uint16(dst)); got != tc.want {
				t.Errorf("encoded %d, want %d", got, tc.want)
			}
		})
	}
}

// TestSampleFormat_EncoderSelection verifies that the selector pairs each
// format with its conversion function.
func TestSampleFormat_EncoderSelection(t *testing.T) {
	dst := make([]byte, 4)
	if n := FORMAT_FLOAT32_LE.encoder()(dst, 0.25, 1); n != 4 {
		t.Errorf("float32 encoder wrote %d bytes, want 4", n)
	}
	if n := FORMAT_INT16_LE.encoder()(dst, 0.25, 1); n != 2 {
		t.Errorf("int16 encoder wrote %d bytes, want 2", n)
	}
}
