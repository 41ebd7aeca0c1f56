// beat_player.go - Beat playback controller

/*
mnomer - a sine based metronome for the command line

https://github.com/thfr/mnomer
License: GPLv3 or later
*/

package main

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/hako/durafmt"
)

// ErrAlreadyRunning reports a start request while a session exists. It is
// non-fatal and leaves the existing session untouched.
var ErrAlreadyRunning = errors.New("playback is already running")

// BeatPlayer owns the mutable playback configuration and mediates
// start/stop/reconfigure against the live output stream. All state
// transitions are serialized through one exclusive lock; Start uses
// try-acquire semantics so a second concurrent start fails fast instead of
// queuing behind the first.
type BeatPlayer struct {
	mu sync.Mutex

	bpm          int
	subdivision  int
	pattern      BeatPattern
	accentFreq   float64 // [Hz]
	normalFreq   float64 // [Hz]
	toneDuration float64 // [s]
	overtones    int
	backend      int

	// output is created on the first successful start and reused across
	// sessions; session is non-nil exactly while Running.
	output  AudioOutput
	session *playbackSession
}

// playbackSession wraps one run of the output stream. While it exists, the
// audio callback exclusively owns the loop buffer; the control context only
// keeps the start instant for wall-clock status.
type playbackSession struct {
	loop      *LoopBuffer
	startedAt time.Time
}

func NewBeatPlayer(bpm int, accentFreq, normalFreq float64, pattern BeatPattern, backend int) *BeatPlayer {
	return &BeatPlayer{
		bpm:          bpm,
		subdivision:  4,
		pattern:      pattern,
		accentFreq:   accentFreq,
		normalFreq:   normalFreq,
		toneDuration: 0.05,
		overtones:    1,
		backend:      backend,
	}
}

// Start begins playback. It fails fast with ErrAlreadyRunning when another
// start/stop is in flight or a session already exists; on any construction
// or device failure the configuration is left untouched and no partial
// state is retained.
func (bp *BeatPlayer) Start() error {
	if !bp.mu.TryLock() {
		return ErrAlreadyRunning
	}
	defer bp.mu.Unlock()
	return bp.startLocked()
}

// Stop ends playback. Safe to call when already stopped. It returns only
// after the backend guarantees the callback no longer reads the loop.
func (bp *BeatPlayer) Stop() {
	bp.mu.Lock()
	defer bp.mu.Unlock()
	bp.stopLocked()
}

// Toggle stops a running session or starts a stopped one. Returns true when
// playback is running afterwards.
func (bp *BeatPlayer) Toggle() (bool, error) {
	bp.mu.Lock()
	defer bp.mu.Unlock()

	if bp.session != nil {
		bp.stopLocked()
		return false, nil
	}
	if err := bp.startLocked(); err != nil {
		return false, err
	}
	return true, nil
}

// IsPlaying reports whether a stream exists. Lock contention alone is not
// reported as playing.
func (bp *BeatPlayer) IsPlaying() bool {
	bp.mu.Lock()
	defer bp.mu.Unlock()
	return bp.session != nil
}

// Shutdown stops playback and releases the output backend.
func (bp *BeatPlayer) Shutdown() {
	bp.mu.Lock()
	defer bp.mu.Unlock()

	bp.stopLocked()
	if bp.output != nil {
		bp.output.Close()
		bp.output = nil
	}
}

func (bp *BeatPlayer) startLocked() error {
	if bp.session != nil {
		return ErrAlreadyRunning
	}
	if err := bp.validateLocked(); err != nil {
		return err
	}

	accent, normal, err := bp.buildTonesLocked()
	if err != nil {
		return err
	}
	loop, err := BuildLoopBuffer(accent, normal, bp.bpm, bp.subdivision, bp.pattern)
	if err != nil {
		return err
	}

	if bp.output == nil {
		output, err := NewAudioOutput(bp.backend, SAMPLE_RATE)
		if err != nil {
			return err
		}
		bp.output = output
	}

	// Ownership of the loop transfers to the callback here.
	bp.output.SetupPlayer(loop)
	bp.output.Start()
	bp.session = &playbackSession{loop: loop, startedAt: time.Now()}
	return nil
}

func (bp *BeatPlayer) stopLocked() {
	if bp.session == nil {
		return
	}
	bp.output.Stop()
	bp.session = nil
}

func (bp *BeatPlayer) validateLocked() error {
	if bp.bpm <= 0 {
		return fmt.Errorf("bpm must be greater than 0, got %d", bp.bpm)
	}
	if bp.subdivision <= 0 {
		return fmt.Errorf("beat subdivision must be greater than 0, got %d", bp.subdivision)
	}
	if len(bp.pattern) == 0 {
		return errors.New("beat pattern is empty")
	}
	if err := validatePitch(bp.accentFreq); err != nil {
		return err
	}
	return validatePitch(bp.normalFreq)
}

func validatePitch(freq float64) error {
	if freq < MIN_TONE_FREQ || freq > MAX_TONE_FREQ {
		return fmt.Errorf("pitch must be within %g Hz and %g Hz, got %g Hz", MIN_TONE_FREQ, MAX_TONE_FREQ, freq)
	}
	return nil
}

// buildTonesLocked regenerates both beat tones from scratch and runs them
// through the full shaping pipeline. Live buffers are never mutated
// incrementally; every start and every accepted parameter change rebuilds.
func (bp *BeatPlayer) buildTonesLocked() (accent, normal *AudioSignal, err error) {
	fade := FadeTimeFor(bp.toneDuration)

	accent, err = bp.buildTone(bp.accentFreq, fade)
	if err != nil {
		return nil, nil, fmt.Errorf("accentuated beat: %w", err)
	}
	normal, err = bp.buildTone(bp.normalFreq, fade)
	if err != nil {
		return nil, nil, fmt.Errorf("beat: %w", err)
	}
	return accent, normal, nil
}

func (bp *BeatPlayer) buildTone(freq, fade float64) (*AudioSignal, error) {
	sig, err := GenerateTone(ToneSpec{
		Frequency: freq,
		Duration:  bp.toneDuration,
		Overtones: bp.overtones,
	})
	if err != nil {
		return nil, err
	}
	sig.ApplyFilterChain()
	if err := sig.ApplyFadeInOut(fade, fade); err != nil {
		return nil, err
	}
	return sig, nil
}

// reconfigureLocked commits an already validated configuration change.
// When running it stops, applies, and restarts; if the restart fails the
// previous value is restored and playback resumed with it, so the player
// never runs with a configuration different from the one it reports.
func (bp *BeatPlayer) reconfigureLocked(apply, revert func()) error {
	if bp.session == nil {
		apply()
		return nil
	}

	bp.stopLocked()
	apply()
	if err := bp.startLocked(); err != nil {
		revert()
		if rerr := bp.startLocked(); rerr != nil {
			return fmt.Errorf("%w (previous configuration could not be resumed: %v)", err, rerr)
		}
		return err
	}
	return nil
}

// SetBpm changes the tempo, restarting a running session.
func (bp *BeatPlayer) SetBpm(bpm int) error {
	if bpm <= 0 {
		return fmt.Errorf("bpm must be greater than 0, got %d", bpm)
	}
	bp.mu.Lock()
	defer bp.mu.Unlock()

	previous := bp.bpm
	return bp.reconfigureLocked(
		func() { bp.bpm = bpm },
		func() { bp.bpm = previous },
	)
}

// SetBeatSubdivision changes the number of slots per reference beat of 4.
func (bp *BeatPlayer) SetBeatSubdivision(subdivision int) error {
	if subdivision <= 0 {
		return fmt.Errorf("beat subdivision must be greater than 0, got %d", subdivision)
	}
	bp.mu.Lock()
	defer bp.mu.Unlock()

	previous := bp.subdivision
	return bp.reconfigureLocked(
		func() { bp.subdivision = subdivision },
		func() { bp.subdivision = previous },
	)
}

// SetPattern changes the beat pattern.
func (bp *BeatPlayer) SetPattern(pattern BeatPattern) error {
	if len(pattern) == 0 {
		return errors.New("beat pattern is empty")
	}
	bp.mu.Lock()
	defer bp.mu.Unlock()

	previous := bp.pattern
	return bp.reconfigureLocked(
		func() { bp.pattern = pattern },
		func() { bp.pattern = previous },
	)
}

// SetPitches changes both beat tone frequencies.
func (bp *BeatPlayer) SetPitches(accentFreq, normalFreq float64) error {
	if err := validatePitch(accentFreq); err != nil {
		return err
	}
	if err := validatePitch(normalFreq); err != nil {
		return err
	}
	bp.mu.Lock()
	defer bp.mu.Unlock()

	prevAccent, prevNormal := bp.accentFreq, bp.normalFreq
	return bp.reconfigureLocked(
		func() { bp.accentFreq, bp.normalFreq = accentFreq, normalFreq },
		func() { bp.accentFreq, bp.normalFreq = prevAccent, prevNormal },
	)
}

// currentBeatIndex derives the currently playing pattern index from elapsed
// wall-clock time. Playback never counts buffer wraps for this: the display
// stays correct even when buffer length and tempo were recomputed between
// reads.
func currentBeatIndex(elapsed time.Duration, bpm, subdivision, patternLen int) int {
	if patternLen == 0 {
		return 0
	}
	effectiveBpm := float64(bpm) * float64(subdivision) / 4.0
	beats := elapsed.Seconds() * effectiveBpm / 60.0
	return int(beats) % patternLen
}

// Status renders the configuration and playback state for display.
func (bp *BeatPlayer) Status() string {
	bp.mu.Lock()
	defer bp.mu.Unlock()

	patternText := bp.pattern.String()
	playingText := "false"
	if bp.session != nil {
		elapsed := time.Since(bp.session.startedAt)
		index := currentBeatIndex(elapsed, bp.bpm, bp.subdivision, len(bp.pattern))
		patternText = bp.pattern.StringWithMarker(index)
		playingText = fmt.Sprintf("true (%s)", durafmt.Parse(elapsed.Truncate(time.Second)).LimitFirstN(2))
	}

	return fmt.Sprintf("bpm: %d, subdiv: %d, pattern: %s, accent: %g Hz, beat: %g Hz, playing: %s",
		bp.bpm, bp.subdivision, patternText, bp.accentFreq, bp.normalFreq, playingText)
}
