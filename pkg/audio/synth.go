package audio

import (
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
)

// Wave selects an oscillator shape
type Wave int

const (
	Sine Wave = iota
	Square
	Triangle
)

// sample returns the wave value at phase p in [0, 1)
func (w Wave) sample(p float64) float64 {
	switch w {
	case Square:
		if p < 0.5 {
			return 1
		}
		return -1
	case Triangle:
		return 4*math.Abs(p-0.5) - 1
	default:
		return math.Sin(2 * math.Pi * p)
	}
}

// Note is one pitched segment of a cue
type Note struct {
	Freq     float64
	Duration time.Duration
	Wave     Wave
}

// tone plays a single note with a short linear attack and release so
// back-to-back notes do not click.
type tone struct {
	note    Note
	rate    beep.SampleRate
	phase   float64
	pos     int
	total   int
	attack  int
	release int
}

// NewTone returns a finite streamer for n
func NewTone(n Note, rate beep.SampleRate) beep.Streamer {
	total := rate.N(n.Duration)
	edge := rate.N(5 * time.Millisecond)
	if 2*edge > total {
		edge = total / 2
	}
	return &tone{note: n, rate: rate, total: total, attack: edge, release: edge}
}

func (t *tone) Stream(samples [][2]float64) (n int, ok bool) {
	if t.pos >= t.total {
		return 0, false
	}
	for i := range samples {
		if t.pos >= t.total {
			return i, true
		}

		gain := 1.0
		if t.attack > 0 && t.pos < t.attack {
			gain = float64(t.pos) / float64(t.attack)
		} else if left := t.total - t.pos; t.release > 0 && left < t.release {
			gain = float64(left) / float64(t.release)
		}

		v := gain * t.note.Wave.sample(t.phase)
		samples[i][0] = v
		samples[i][1] = v

		t.phase += t.note.Freq / float64(t.rate)
		t.phase -= math.Floor(t.phase)
		t.pos++
	}
	return len(samples), true
}

func (t *tone) Err() error { return nil }

// Melody plays notes one after another
func Melody(rate beep.SampleRate, notes ...Note) beep.Streamer {
	streams := make([]beep.Streamer, len(notes))
	for i, n := range notes {
		streams[i] = NewTone(n, rate)
	}
	return beep.Seq(streams...)
}

// loopTrack repeats a note pattern forever. It never reports exhaustion,
// so it lives in the mixer until its Ctrl is paused and removed.
type loopTrack struct {
	notes   []Note
	rate    beep.SampleRate
	current beep.Streamer
	index   int
}

// NewLoop returns an endless streamer cycling through notes
func NewLoop(rate beep.SampleRate, notes ...Note) beep.Streamer {
	playable := make([]Note, 0, len(notes))
	for _, n := range notes {
		if rate.N(n.Duration) > 0 {
			playable = append(playable, n)
		}
	}
	return &loopTrack{notes: playable, rate: rate}
}

func (l *loopTrack) Stream(samples [][2]float64) (n int, ok bool) {
	if len(l.notes) == 0 {
		clear(samples)
		return len(samples), true
	}
	for n < len(samples) {
		if l.current == nil {
			l.current = NewTone(l.notes[l.index], l.rate)
			l.index = (l.index + 1) % len(l.notes)
		}
		got, more := l.current.Stream(samples[n:])
		n += got
		if !more || got == 0 {
			l.current = nil
		}
	}
	return n, true
}

func (l *loopTrack) Err() error { return nil }

// withVolume scales s linearly by vol; zero or less is silent
func withVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol)}
}
