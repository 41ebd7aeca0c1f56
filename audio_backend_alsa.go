//go:build !headless && linux && cgo

// audio_backend_alsa.go - ALSA audio output implementation

/*
mnomer - a sine based metronome for the command line

https://github.com/thfr/mnomer
License: GPLv3 or later
*/

package main

/*
#cgo LDFLAGS: -lasound
#include <alsa/asoundlib.h>
#include <stdlib.h>

static snd_pcm_t* openPCM(const char* device, int* err) {
    snd_pcm_t* handle;
    *err = snd_pcm_open(&handle, device, SND_PCM_STREAM_PLAYBACK, 0);
    return handle;
}

static int setupPCM(snd_pcm_t* handle, unsigned int rate, snd_pcm_uframes_t period) {
    snd_pcm_hw_params_t* params;
    int err;

    snd_pcm_hw_params_alloca(&params);
    err = snd_pcm_hw_params_any(handle, params);
    if (err < 0) return err;

    err = snd_pcm_hw_params_set_access(handle, params, SND_PCM_ACCESS_RW_INTERLEAVED);
    if (err < 0) return err;

    err = snd_pcm_hw_params_set_format(handle, params, SND_PCM_FORMAT_S16_LE);
    if (err < 0) return err;

    err = snd_pcm_hw_params_set_channels(handle, params, 1);
    if (err < 0) return err;

    err = snd_pcm_hw_params_set_rate(handle, params, rate, 0);
    if (err < 0) return err;

    err = snd_pcm_hw_params_set_period_size_near(handle, params, &period, 0);
    if (err < 0) return err;

    err = snd_pcm_hw_params(handle, params);
    if (err < 0) return err;

    return snd_pcm_prepare(handle);
}

static int writePCM(snd_pcm_t* handle, short* buffer, int frames) {
    return snd_pcm_writei(handle, buffer, frames);
}

static void closePCM(snd_pcm_t* handle) {
    if (handle != NULL) {
        snd_pcm_drain(handle);
        snd_pcm_close(handle);
    }
}
*/
import "C"
import (
	"fmt"
	"sync"
	"unsafe"
)

// alsaChunkSeconds keeps each write to the device a fixed size so write
// latency stays independent of the loop buffer length.
const alsaChunkSeconds = 0.1

// ALSAPlayer feeds the loop buffer to the default ALSA PCM device from its
// own goroutine in fixed 100 ms chunks, converting to signed 16-bit mono at
// the device boundary. The feeder goroutine is the playback context; it
// owns the loop between Start and Stop.
type ALSAPlayer struct {
	handle  *C.snd_pcm_t
	loop    *LoopBuffer
	encode  encodeFunc
	scratch []byte
	stopCh  chan struct{}
	done    chan struct{}
	started bool
	mutex   sync.Mutex
}

func init() {
	newALSAOutput = func(sampleRate int) (AudioOutput, error) {
		return NewALSAPlayer(sampleRate)
	}
}

func NewALSAPlayer(sampleRate int) (*ALSAPlayer, error) {
	device := C.CString("default")
	defer C.free(unsafe.Pointer(device))

	var cerr C.int
	handle := C.openPCM(device, &cerr)
	if cerr < 0 {
		return nil, fmt.Errorf("failed to open PCM device: %s", C.GoString(C.snd_strerror(cerr)))
	}

	period := C.snd_pcm_uframes_t(float64(sampleRate) * alsaChunkSeconds)
	if cerr = C.setupPCM(handle, C.uint(sampleRate), period); cerr < 0 {
		C.closePCM(handle)
		return nil, fmt.Errorf("failed to setup PCM: %s", C.GoString(C.snd_strerror(cerr)))
	}

	format := FORMAT_INT16_LE
	chunkFrames := int(float64(sampleRate) * alsaChunkSeconds)
	return &ALSAPlayer{
		handle:  handle,
		encode:  format.encoder(),
		scratch: make([]byte, chunkFrames*format.BytesPerSample()),
	}, nil
}

func (ap *ALSAPlayer) SetupPlayer(loop *LoopBuffer) {
	ap.mutex.Lock()
	defer ap.mutex.Unlock()
	ap.loop = loop
}

func (ap *ALSAPlayer) Start() {
	ap.mutex.Lock()
	defer ap.mutex.Unlock()

	if ap.started || ap.loop == nil || ap.handle == nil {
		return
	}
	ap.started = true
	ap.stopCh = make(chan struct{})
	ap.done = make(chan struct{})
	go ap.feed(ap.loop, ap.stopCh, ap.done)
}

// feed pulls fixed-size chunks from the loop and writes them to the device
// until stopped. Buffer underruns (EPIPE) are recovered by re-preparing the
// PCM, as ALSA requires.
func (ap *ALSAPlayer) feed(loop *LoopBuffer, stopCh chan struct{}, done chan struct{}) {
	defer close(done)

	frames := len(ap.scratch) / 2
	for {
		select {
		case <-stopCh:
			return
		default:
		}

		n := 0
		for i := 0; i < frames; i++ {
			n += ap.encode(ap.scratch[n:], loop.ReadSample(), 1)
		}

		written := C.writePCM(ap.handle, (*C.short)(unsafe.Pointer(&ap.scratch[0])), C.int(frames))
		if written < 0 {
			if written == -C.EPIPE {
				C.snd_pcm_prepare(ap.handle)
				written = C.writePCM(ap.handle, (*C.short)(unsafe.Pointer(&ap.scratch[0])), C.int(frames))
			}
			if written < 0 {
				return
			}
		}
	}
}

// Stop joins the feeder goroutine before returning, so the loop buffer is
// free as soon as Stop completes.
func (ap *ALSAPlayer) Stop() {
	ap.mutex.Lock()
	defer ap.mutex.Unlock()

	if !ap.started {
		return
	}
	close(ap.stopCh)
	<-ap.done
	ap.started = false
	ap.loop = nil
}

func (ap *ALSAPlayer) Close() {
	ap.Stop()

	ap.mutex.Lock()
	defer ap.mutex.Unlock()
	if ap.handle != nil {
		C.closePCM(ap.handle)
		ap.handle = nil
	}
}

func (ap *ALSAPlayer) IsStarted() bool {
	ap.mutex.Lock()
	defer ap.mutex.Unlock()
	return ap.started
}
