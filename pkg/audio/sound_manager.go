// Package audio turns game cues into sound. Cues arrive on the event bus
// from the loop goroutine, so every call here only queues streamers on a
// mixer and returns; the speaker pulls samples on its own goroutine.
package audio

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"github.com/opd-ai/go-pong/pkg/config"
	"github.com/opd-ai/go-pong/pkg/event"
	"github.com/opd-ai/go-pong/pkg/logging"
)

// device is the output the mixer is attached to
type device interface {
	Init(rate beep.SampleRate, s beep.Streamer) error
	Lock()
	Unlock()
	Close()
}

// speakerDevice plays through the system audio output
type speakerDevice struct{}

func (speakerDevice) Init(rate beep.SampleRate, s beep.Streamer) error {
	if err := speaker.Init(rate, rate.N(100*time.Millisecond)); err != nil {
		return err
	}
	speaker.Play(s)
	return nil
}

func (speakerDevice) Lock()   { speaker.Lock() }
func (speakerDevice) Unlock() { speaker.Unlock() }
func (speakerDevice) Close()  { speaker.Close() }

// SoundManager manages all game audio
type SoundManager struct {
	mu          sync.Mutex
	cfg         config.AudioConfig
	rate        beep.SampleRate
	out         device
	mixer       *beep.Mixer
	background  *beep.Ctrl
	randomise   *beep.Ctrl
	initialized bool
	muted       bool
	played      map[event.Cue]int
	subs        []*event.Subscription
	logger      *logging.Logger
	ctx         context.Context
}

// NewSoundManager creates a sound manager for the system speaker
func NewSoundManager(cfg config.AudioConfig, logger *logging.Logger) *SoundManager {
	return newSoundManager(cfg, speakerDevice{}, logger)
}

func newSoundManager(cfg config.AudioConfig, out device, logger *logging.Logger) *SoundManager {
	if logger == nil {
		logger = logging.Discard()
	}
	rate := cfg.SampleRate
	if rate <= 0 {
		rate = 44100
	}
	return &SoundManager{
		cfg:    cfg,
		rate:   beep.SampleRate(rate),
		out:    out,
		mixer:  &beep.Mixer{},
		played: make(map[event.Cue]int),
		logger: logger.WithComponent("audio"),
		ctx:    context.Background(),
	}
}

// Initialize opens the audio device. A disabled config leaves the manager
// muted instead; every Play is then a no-op.
func (sm *SoundManager) Initialize() error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized || sm.muted {
		return nil
	}

	if !sm.cfg.Enabled {
		sm.muted = true
		sm.logger.Info(sm.ctx, "audio muted")
		return nil
	}

	if err := sm.out.Init(sm.rate, sm.mixer); err != nil {
		return fmt.Errorf("failed to initialise audio device: %w", err)
	}

	sm.initialized = true
	sm.logger.Info(sm.ctx, "audio initialised", "sample_rate", int(sm.rate))
	return nil
}

// Attach plays every cue published on bus
func (sm *SoundManager) Attach(bus *event.Bus) {
	sub := bus.Subscribe(event.CuePlayed, func(e event.Event) {
		if ce, ok := e.(*event.CueEvent); ok {
			sm.Play(ce.Cue)
		}
	})

	sm.mu.Lock()
	sm.subs = append(sm.subs, sub)
	sm.mu.Unlock()
}

// Play starts the sound for cue. The randomise cues start and stop the
// looping randomise track; the others are one-shots.
func (sm *SoundManager) Play(cue event.Cue) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized {
		return
	}
	sm.played[cue]++

	switch cue {
	case event.RandomiseLoopStart:
		if sm.randomise != nil && !sm.randomise.Paused {
			return
		}
		sm.randomise = &beep.Ctrl{Streamer: withVolume(randomiseTrack(sm.rate), sm.cfg.Volume*0.4)}
		sm.add(sm.randomise)
	case event.RandomiseLoopStop:
		sm.pause(sm.randomise)
		sm.randomise = nil
	default:
		s, ok := sm.effect(cue)
		if !ok {
			sm.logger.Warn(sm.ctx, "unknown cue", "cue", string(cue))
			return
		}
		sm.add(s)
	}
}

// effect builds the one-shot streamer for cue
func (sm *SoundManager) effect(cue event.Cue) (beep.Streamer, bool) {
	vol := sm.cfg.Volume
	switch cue {
	case event.WallHit:
		return withVolume(NewTone(Note{Freq: 440, Duration: 40 * time.Millisecond, Wave: Square}, sm.rate), vol*sm.cfg.WallVolume), true
	case event.PaddleHit:
		return withVolume(NewTone(Note{Freq: 880, Duration: 50 * time.Millisecond, Wave: Square}, sm.rate), vol), true
	case event.Scored:
		return withVolume(Melody(sm.rate,
			Note{Freq: 660, Duration: 90 * time.Millisecond, Wave: Triangle},
			Note{Freq: 440, Duration: 90 * time.Millisecond, Wave: Triangle},
			Note{Freq: 330, Duration: 140 * time.Millisecond, Wave: Triangle},
		), vol), true
	case event.Win:
		return withVolume(Melody(sm.rate,
			Note{Freq: 523.25, Duration: 150 * time.Millisecond, Wave: Square},
			Note{Freq: 659.25, Duration: 150 * time.Millisecond, Wave: Square},
			Note{Freq: 783.99, Duration: 150 * time.Millisecond, Wave: Square},
			Note{Freq: 1046.5, Duration: 450 * time.Millisecond, Wave: Square},
		), vol*0.6), true
	}
	return nil, false
}

// StartBackground starts the background loop if the config asks for one
func (sm *SoundManager) StartBackground() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized || !sm.cfg.Background {
		return
	}
	if sm.background != nil && !sm.background.Paused {
		return
	}

	sm.background = &beep.Ctrl{Streamer: withVolume(backgroundTrack(sm.rate), sm.cfg.Volume*0.25)}
	sm.add(sm.background)
}

// StopBackground pauses the background loop
func (sm *SoundManager) StopBackground() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	sm.pause(sm.background)
	sm.background = nil
}

// Active reports whether sound is reaching an output device
func (sm *SoundManager) Active() bool {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return sm.initialized
}

// Muted reports whether audio was disabled by configuration
func (sm *SoundManager) Muted() bool {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return sm.muted
}

// Played returns how many times cue has been played
func (sm *SoundManager) Played(cue event.Cue) int {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return sm.played[cue]
}

// Close detaches from the bus, silences everything and releases the device
func (sm *SoundManager) Close() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	for _, sub := range sm.subs {
		sub.Cancel()
	}
	sm.subs = nil

	if !sm.initialized {
		return
	}

	sm.pause(sm.background)
	sm.pause(sm.randomise)
	sm.background, sm.randomise = nil, nil

	sm.out.Lock()
	sm.mixer.Clear()
	sm.out.Unlock()
	sm.out.Close()

	sm.initialized = false
	sm.logger.Info(sm.ctx, "audio closed")
}

// add queues s on the mixer. The caller holds sm.mu.
func (sm *SoundManager) add(s beep.Streamer) {
	sm.out.Lock()
	sm.mixer.Add(s)
	sm.out.Unlock()
}

// pause silences a loop. A Ctrl without a streamer reports exhaustion, so
// the mixer drops it on its next pull.
func (sm *SoundManager) pause(ctrl *beep.Ctrl) {
	if ctrl == nil {
		return
	}
	sm.out.Lock()
	ctrl.Paused = true
	ctrl.Streamer = nil
	sm.out.Unlock()
}

func backgroundTrack(rate beep.SampleRate) beep.Streamer {
	return NewLoop(rate,
		Note{Freq: 110, Duration: 400 * time.Millisecond, Wave: Triangle},
		Note{Freq: 164.81, Duration: 400 * time.Millisecond, Wave: Triangle},
		Note{Freq: 146.83, Duration: 400 * time.Millisecond, Wave: Triangle},
		Note{Freq: 123.47, Duration: 400 * time.Millisecond, Wave: Triangle},
	)
}

func randomiseTrack(rate beep.SampleRate) beep.Streamer {
	return NewLoop(rate,
		Note{Freq: 392, Duration: 120 * time.Millisecond, Wave: Square},
		Note{Freq: 523.25, Duration: 120 * time.Millisecond, Wave: Square},
		Note{Freq: 659.25, Duration: 120 * time.Millisecond, Wave: Square},
		Note{Freq: 523.25, Duration: 120 * time.Millisecond, Wave: Square},
	)
}
