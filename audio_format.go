// audio_format.go - Sample format conversion and channel expansion

package main

import "math"

// SampleFormat is the wire representation a backend writes to its device.
// The conversion function is selected once at stream open, never per
// sample.
type SampleFormat int

const (
	FORMAT_FLOAT32_LE SampleFormat = iota
	FORMAT_INT16_LE
)

// BytesPerSample returns the encoded size of one sample on one channel.
func (f SampleFormat) BytesPerSample() int {
	if f == FORMAT_INT16_LE {
		return 2
	}
	return 4
}

// encodeFunc writes one mono sample into dst, replicated across the given
// channel count, and returns the number of bytes written. dst must have
// room for channels * BytesPerSample() bytes.
type encodeFunc func(dst []byte, sample float32, channels int) int

// encoder returns the conversion function for the format.
func (f SampleFormat) encoder() encodeFunc {
	if f == FORMAT_INT16_LE {
		return encodeInt16LE
	}
	return encodeFloat32LE
}

func encodeFloat32LE(dst []byte, sample float32, channels int) int {
	bits := math.Float32bits(sample)
	n := 0
	for c := 0; c < channels; c++ {
		dst[n] = byte(bits)
		dst[n+1] = byte(bits >> 8)
		dst[n+2] = byte(bits >> 16)
		dst[n+3] = byte(bits >> 24)
		n += 4
	}
	return n
}

func encodeInt16LE(dst []byte, sample float32, channels int) int {
	clamped := sample
	if clamped > 1.0 {
		clamped = 1.0
	} else if clamped < -1.0 {
		clamped = -1.0
	}
	value := int16(math.Round(float64(clamped) * math.MaxInt16))
	n := 0
	for c := 0; c < channels; c++ {
		dst[n] = byte(value)
		dst[n+1] = byte(uint16(value) >> 8)
		n += 2
	}
	return n
}
