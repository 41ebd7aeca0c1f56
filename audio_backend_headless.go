// audio_backend_headless.go - No-device backend for tests

package main

// HeadlessPlayer satisfies AudioOutput without touching any audio device.
// Tests select it via AUDIO_BACKEND_HEADLESS so the full controller state
// machine runs unchanged. Pull simulates callback activity by draining
// samples from the loop.
type HeadlessPlayer struct {
	started bool
	loop    *LoopBuffer
}

func NewHeadlessPlayer() *HeadlessPlayer {
	return &HeadlessPlayer{}
}

func (hp *HeadlessPlayer) SetupPlayer(loop *LoopBuffer) {
	hp.loop = loop
}

func (hp *HeadlessPlayer) Start() {
	hp.started = true
}

func (hp *HeadlessPlayer) Stop() {
	hp.started = false
	hp.loop = nil
}

func (hp *HeadlessPlayer) Close() {
	hp.Stop()
}

func (hp *HeadlessPlayer) IsStarted() bool {
	return hp.started
}

// Pull reads n samples from the loop the way a device callback would.
// Returns nil when no loop is attached or playback is stopped.
func (hp *HeadlessPlayer) Pull(n int) []float32 {
	if !hp.started || hp.loop == nil {
		return nil
	}
	out := make([]float32, n)
	for i := range out {
		out[i] = hp.loop.ReadSample()
	}
	return out
}
