// Package audio plays the heartbeat that accompanies each pulse of the animation
package audio

import (
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"
)

const (
	sampleRate = beep.SampleRate(48000)
)

// SoundManager owns the speaker mixer; every method is a no-op until Initialize succeeds
type SoundManager struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	master      *effects.Volume
	initialized bool
	volume      float64
}

// NewSoundManager creates a sound manager at the given master volume (0..1)
func NewSoundManager(volume float64) *SoundManager {
	mixer := &beep.Mixer{}
	return &SoundManager{
		mixer:  mixer,
		master: newVolume(mixer, volume),
		volume: volume,
	}
}

// Initialize sets up the audio device
func (sm *SoundManager) Initialize() error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized {
		return nil
	}

	if err := speaker.Init(sampleRate, sampleRate.N(time.Millisecond*100)); err != nil {
		return err
	}

	speaker.Play(sm.master)
	sm.initialized = true
	return nil
}

// Cleanup silences and drops all playing sounds
func (sm *SoundManager) Cleanup() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized {
		return
	}

	speaker.Lock()
	sm.mixer.Clear()
	speaker.Unlock()

	sm.initialized = false
}

// PlayBeat plays one lub-dub heartbeat
func (sm *SoundManager) PlayBeat() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized {
		return
	}

	streamer := beep.Take(sampleRate.N(HeartbeatDuration), NewHeartbeatGenerator(sampleRate))
	speaker.Lock()
	sm.mixer.Add(streamer)
	speaker.Unlock()
}

// newVolume maps a linear 0..1 gain onto beep's log volume, 0 is silent
func newVolume(s beep.Streamer, vol float64) *effects.Volume {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol), Silent: false}
}

// HeartbeatDuration covers both thumps and their tails
const HeartbeatDuration = 420 * time.Millisecond

// HeartbeatGenerator synthesizes a low "lub" followed by a softer "dub"
type HeartbeatGenerator struct {
	sr  beep.SampleRate
	pos int
}

// NewHeartbeatGenerator creates a heartbeat generator
func NewHeartbeatGenerator(sr beep.SampleRate) *HeartbeatGenerator {
	return &HeartbeatGenerator{sr: sr}
}

func (g *HeartbeatGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		t := float64(g.pos) / float64(g.sr)

		sample := thump(t, 0, 0.45, 55) + thump(t, 0.18, 0.3, 70)

		samples[i][0] = sample
		samples[i][1] = sample
		g.pos++
	}
	return len(samples), true
}

func (g *HeartbeatGenerator) Err() error {
	return nil
}

// thump is a pitch-dropping sine burst starting at onset seconds
func thump(t, onset, amp, freq float64) float64 {
	dt := t - onset
	if dt < 0 {
		return 0
	}
	// Quick attack, exponential decay
	env := math.Min(dt/0.005, 1) * math.Exp(-dt*18)
	f := freq * (1 + math.Exp(-dt*30))
	return amp * env * math.Sin(2*math.Pi*f*dt)
}
