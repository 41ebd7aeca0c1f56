//go:build !headless

// audio_backend_oto.go - OTO v3 audio output implementation

/*
mnomer - a sine based metronome for the command line

https://github.com/thfr/mnomer
License: GPLv3 or later
*/

package main

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/ebitengine/oto/v3"
)

// OtoPlayer streams the loop buffer through an oto v3 context. The loop
// pointer is atomic so the hot Read path never takes a lock; the mutex only
// guards setup and control operations. The oto context is created once and
// reused across sessions (oto allows a single context per process); each
// session gets a fresh player.
type OtoPlayer struct {
	ctx      *oto.Context
	player   *oto.Player
	loop     atomic.Pointer[LoopBuffer]
	channels int
	encode   encodeFunc
	frame    int // bytes per frame across all channels
	started  bool
	mutex    sync.Mutex
}

func NewOtoPlayer(sampleRate int) (*OtoPlayer, error) {
	const channels = 2
	format := FORMAT_FLOAT32_LE

	op := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: channels,
		Format:       oto.FormatFloat32LE,
		BufferSize:   50 * time.Millisecond,
	}

	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, err
	}
	<-ready

	return &OtoPlayer{
		ctx:      ctx,
		channels: channels,
		encode:   format.encoder(),
		frame:    channels * format.BytesPerSample(),
	}, nil
}

func (op *OtoPlayer) SetupPlayer(loop *LoopBuffer) {
	op.mutex.Lock()
	defer op.mutex.Unlock()

	op.loop.Store(loop)
	op.player = op.ctx.NewPlayer(op)
}

// Read fills p with encoded frames pulled from the loop buffer. Invoked by
// oto's playback goroutine; allocation-free and lock-free.
func (op *OtoPlayer) Read(p []byte) (n int, err error) {
	loop := op.loop.Load()
	frames := len(p) / op.frame
	if loop == nil {
		n = frames * op.frame
		for i := range p[:n] {
			p[i] = 0
		}
		return n, nil
	}

	for i := 0; i < frames; i++ {
		n += op.encode(p[n:], loop.ReadSample(), op.channels)
	}
	return n, nil
}

func (op *OtoPlayer) Start() {
	op.mutex.Lock()
	defer op.mutex.Unlock()

	if !op.started && op.player != nil {
		op.player.Play()
		op.started = true
	}
}

// Stop closes the session's player and detaches the loop buffer. Late Read
// calls from a draining device see a nil loop and emit silence.
func (op *OtoPlayer) Stop() {
	op.mutex.Lock()
	defer op.mutex.Unlock()

	if op.player != nil {
		op.player.Close()
		op.player = nil
	}
	op.loop.Store(nil)
	op.started = false
}

func (op *OtoPlayer) Close() {
	op.Stop()
}

func (op *OtoPlayer) IsStarted() bool {
	op.mutex.Lock()
	defer op.mutex.Unlock()
	return op.started
}
