// audio_output.go - Audio backend interface and selection

package main

import "fmt"

const (
	AUDIO_BACKEND_OTO = iota
	AUDIO_BACKEND_ALSA
	AUDIO_BACKEND_HEADLESS
)

// AudioOutput is the minimal contract the playback controller needs from an
// output device. SetupPlayer hands the cyclic loop buffer to the backend;
// from Start until Stop returns, the backend's playback context is the sole
// owner of that buffer. Stop is synchronous: once it returns, the callback
// can no longer observe the loop, so a subsequent start cannot race with
// activity from the previous session.
type AudioOutput interface {
	SetupPlayer(loop *LoopBuffer)
	Start()
	Stop()
	Close()
	IsStarted() bool
}

// newALSAOutput is registered by the ALSA backend's init when cgo and
// libasound are available for the build.
var newALSAOutput func(sampleRate int) (AudioOutput, error)

// NewAudioOutput constructs the selected backend. Device failures are
// reported, not retried.
func NewAudioOutput(backend int, sampleRate int) (AudioOutput, error) {
	switch backend {
	case AUDIO_BACKEND_OTO:
		return NewOtoPlayer(sampleRate)
	case AUDIO_BACKEND_ALSA:
		if newALSAOutput == nil {
			return nil, fmt.Errorf("ALSA backend is not available in this build")
		}
		return newALSAOutput(sampleRate)
	case AUDIO_BACKEND_HEADLESS:
		return NewHeadlessPlayer(), nil
	default:
		return nil, fmt.Errorf("unknown audio backend %d", backend)
	}
}
