package audio

import (
	"math"
	"testing"
	"time"

	"github.com/gopxl/beep"
)

func drain(s beep.Streamer) (total int) {
	buf := make([][2]float64, 256)
	for {
		n, ok := s.Stream(buf)
		total += n
		if !ok {
			return total
		}
	}
}

func TestTone_Length(t *testing.T) {
	rate := beep.SampleRate(44100)
	tests := []struct {
		name     string
		duration time.Duration
	}{
		{"short", 10 * time.Millisecond},
		{"one_buffer", 256 * time.Second / 44100},
		{"long", 250 * time.Millisecond},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewTone(Note{Freq: 440, Duration: tt.duration}, rate)
			if got, want := drain(s), rate.N(tt.duration); got != want {
				t.Errorf("streamed %d samples, expected %d", got, want)
			}
		})
	}
}

func TestTone_RangeAndEnvelope(t *testing.T) {
	rate := beep.SampleRate(8000)
	for _, wave := range []Wave{Sine, Square, Triangle} {
		s := NewTone(Note{Freq: 300, Duration: 50 * time.Millisecond, Wave: wave}, rate)
		buf := make([][2]float64, rate.N(50*time.Millisecond))
		n, _ := s.Stream(buf)

		if buf[0][0] != 0 {
			t.Errorf("wave %d: first sample = %v, expected silent attack start", wave, buf[0][0])
		}
		for i := 0; i < n; i++ {
			if math.Abs(buf[i][0]) > 1 || buf[i][0] != buf[i][1] {
				t.Fatalf("wave %d: sample %d = %v out of range or not mono", wave, i, buf[i])
			}
		}
	}
}

func TestMelody_Length(t *testing.T) {
	rate := beep.SampleRate(44100)
	notes := []Note{
		{Freq: 440, Duration: 20 * time.Millisecond},
		{Freq: 660, Duration: 30 * time.Millisecond},
	}

	want := rate.N(20*time.Millisecond) + rate.N(30*time.Millisecond)
	if got := drain(Melody(rate, notes...)); got != want {
		t.Errorf("melody streamed %d samples, expected %d", got, want)
	}
}

func TestLoop_NeverEnds(t *testing.T) {
	rate := beep.SampleRate(8000)
	s := NewLoop(rate, Note{Freq: 200, Duration: 5 * time.Millisecond})

	buf := make([][2]float64, 1000)
	for i := 0; i < 20; i++ {
		n, ok := s.Stream(buf)
		if !ok || n != len(buf) {
			t.Fatalf("pull %d: Stream() = (%d, %v), expected a full buffer", i, n, ok)
		}
	}
}

func TestLoop_SkipsSilentNotes(t *testing.T) {
	rate := beep.SampleRate(8000)
	s := NewLoop(rate, Note{Freq: 200, Duration: 0})

	buf := make([][2]float64, 64)
	buf[3][0] = 1
	n, ok := s.Stream(buf)
	if !ok || n != len(buf) || buf[3][0] != 0 {
		t.Errorf("empty loop should stream silence, got (%d, %v)", n, ok)
	}
}
