package keyer

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/gordonklaus/portaudio"
)

const (
	defaultSampleRate = 44100
	bufferSize        = 512
	rampDuration      = 5 * time.Millisecond
)

// AudioSink plays tones on the default PortAudio output device.
type AudioSink struct {
	mu         sync.Mutex
	stream     *portaudio.Stream
	buffer     []float32
	sampleRate float64
	phase      float64
}

// NewAudioSink initializes PortAudio and opens a mono output stream.
func NewAudioSink() (*AudioSink, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize PortAudio: %w", err)
	}
	s := &AudioSink{
		buffer:     make([]float32, bufferSize),
		sampleRate: defaultSampleRate,
	}
	stream, err := portaudio.OpenDefaultStream(0, 1, s.sampleRate, len(s.buffer), &s.buffer)
	if err != nil {
		_ = portaudio.Terminate()
		return nil, fmt.Errorf("failed to open output stream: %w", err)
	}
	if err := stream.Start(); err != nil {
		_ = stream.Close()
		_ = portaudio.Terminate()
		return nil, fmt.Errorf("failed to start output stream: %w", err)
	}
	s.stream = stream
	return s, nil
}

// Tone implements Sink.
func (s *AudioSink) Tone(ctx context.Context, freq, volume float64, d time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := samplesFor(d, s.sampleRate)
	ramp := samplesFor(rampDuration, s.sampleRate)
	env := envelope{total: total, ramp: ramp}
	step := 2 * math.Pi * freq / s.sampleRate
	for written := 0; written < total; {
		if err := ctx.Err(); err != nil {
			return err
		}
		for i := range s.buffer {
			n := written + i
			if n >= total {
				s.buffer[i] = 0
				continue
			}
			s.buffer[i] = float32(volume * env.at(n) * math.Sin(s.phase))
			s.phase = math.Mod(s.phase+step, 2*math.Pi)
		}
		if err := s.stream.Write(); err != nil {
			return fmt.Errorf("failed to write to stream: %w", err)
		}
		written += len(s.buffer)
	}
	return nil
}

// Silence implements Sink.
func (s *AudioSink) Silence(ctx context.Context, d time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := samplesFor(d, s.sampleRate)
	for i := range s.buffer {
		s.buffer[i] = 0
	}
	s.phase = 0
	for written := 0; written < total; written += len(s.buffer) {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := s.stream.Write(); err != nil {
			return fmt.Errorf("failed to write to stream: %w", err)
		}
	}
	return nil
}

// Close stops the stream and terminates PortAudio.
func (s *AudioSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stream == nil {
		return nil
	}
	_ = s.stream.Stop()
	err := s.stream.Close()
	s.stream = nil
	if terr := portaudio.Terminate(); err == nil {
		err = terr
	}
	return err
}

// envelope shapes a tone with raised-cosine edges to avoid key clicks.
type envelope struct {
	total int
	ramp  int
}

func (e envelope) at(n int) float64 {
	ramp := e.ramp
	if ramp*2 > e.total {
		ramp = e.total / 2
	}
	if ramp <= 0 {
		return 1
	}
	switch {
	case n < ramp:
		return 0.5 - 0.5*math.Cos(math.Pi*float64(n)/float64(ramp))
	case n >= e.total-ramp:
		return 0.5 - 0.5*math.Cos(math.Pi*float64(e.total-n)/float64(ramp))
	default:
		return 1
	}
}

func samplesFor(d time.Duration, sampleRate float64) int {
	return int(d.Seconds() * sampleRate)
}
