package audio

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"FocusTimer/internal/config"

	"github.com/faiface/beep"
	"github.com/faiface/beep/speaker"
	"github.com/sirupsen/logrus"
)

var (
	ErrSinkNotReady    = errors.New("audio output not opened")
	ErrSinkUnsupported = errors.New("audio output not supported on this platform")
)

// Sink 音频输出设备。Resume 打开设备，Play 不阻塞。
type Sink interface {
	Resume(ctx context.Context) error
	Play(s beep.Streamer) error
	SampleRate() beep.SampleRate
	Close() error
}

// NewSink 按配置选择输出方式
func NewSink(cfg config.AudioConfig, log logrus.FieldLogger) (Sink, error) {
	rate := beep.SampleRate(cfg.SampleRate)
	if rate <= 0 {
		rate = 44100
	}
	switch cfg.Sink {
	case "", "speaker":
		return NewSpeakerSink(rate, cfg.Buffer), nil
	case "pulse":
		return NewPulseSink(rate, log), nil
	default:
		return nil, fmt.Errorf("unknown audio sink %q", cfg.Sink)
	}
}

// SpeakerSink 通过 beep/speaker 输出
type SpeakerSink struct {
	mu     sync.Mutex
	rate   beep.SampleRate
	buffer time.Duration
	ready  bool
}

func NewSpeakerSink(rate beep.SampleRate, buffer time.Duration) *SpeakerSink {
	if buffer <= 0 {
		buffer = time.Second / 10
	}
	return &SpeakerSink{rate: rate, buffer: buffer}
}

func (s *SpeakerSink) Resume(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ready {
		return nil
	}

	errc := make(chan error, 1)
	go func() {
		errc <- speaker.Init(s.rate, s.rate.N(s.buffer))
	}()

	select {
	case err := <-errc:
		if err != nil {
			return err
		}
		s.ready = true
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *SpeakerSink) Play(st beep.Streamer) error {
	s.mu.Lock()
	ready := s.ready
	s.mu.Unlock()
	if !ready {
		return ErrSinkNotReady
	}
	speaker.Play(st)
	return nil
}

func (s *SpeakerSink) SampleRate() beep.SampleRate {
	return s.rate
}

func (s *SpeakerSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ready {
		speaker.Close()
		s.ready = false
	}
	return nil
}
