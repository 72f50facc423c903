//go:build linux

package audio

import (
	"context"
	"sync"

	"github.com/faiface/beep"
	"github.com/jfreymuth/pulse"
	"github.com/sirupsen/logrus"
)

// PulseSink 直接连接 PulseAudio，每个提示音一个播放流
type PulseSink struct {
	mu     sync.Mutex
	rate   beep.SampleRate
	client *pulse.Client
	log    logrus.FieldLogger
}

func NewPulseSink(rate beep.SampleRate, log logrus.FieldLogger) *PulseSink {
	return &PulseSink{rate: rate, log: log.WithField("component", "pulse")}
}

func (s *PulseSink) Resume(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.client != nil {
		return nil
	}

	type result struct {
		c   *pulse.Client
		err error
	}
	done := make(chan result, 1)
	go func() {
		c, err := pulse.NewClient()
		done <- result{c, err}
	}()

	select {
	case r := <-done:
		if r.err != nil {
			return r.err
		}
		s.client = r.c
		return nil
	case <-ctx.Done():
		// 连接晚到时关闭，避免泄漏
		go func() {
			if r := <-done; r.c != nil {
				r.c.Close()
			}
		}()
		return ctx.Err()
	}
}

func (s *PulseSink) Play(st beep.Streamer) error {
	s.mu.Lock()
	client := s.client
	s.mu.Unlock()
	if client == nil {
		return ErrSinkNotReady
	}

	go s.playback(client, st)
	return nil
}

func (s *PulseSink) playback(client *pulse.Client, st beep.Streamer) {
	var frames [][2]float64
	reader := pulse.Float32Reader(func(buf []float32) (int, error) {
		want := len(buf) / 2
		if cap(frames) < want {
			frames = make([][2]float64, want)
		}
		frames = frames[:want]
		n, ok := st.Stream(frames)
		if !ok || n == 0 {
			return 0, pulse.EndOfData
		}
		for i := 0; i < n; i++ {
			buf[i*2] = float32(frames[i][0])
			buf[i*2+1] = float32(frames[i][1])
		}
		return n * 2, nil
	})

	stream, err := client.NewPlayback(reader,
		pulse.PlaybackStereo,
		pulse.PlaybackSampleRate(int(s.rate)),
		pulse.PlaybackLatency(0.1),
	)
	if err != nil {
		s.log.WithError(err).Warn("pulse playback error")
		return
	}
	stream.Start()
	stream.Drain()
	stream.Stop()
	stream.Close()
}

func (s *PulseSink) SampleRate() beep.SampleRate {
	return s.rate
}

func (s *PulseSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.client != nil {
		s.client.Close()
		s.client = nil
	}
	return nil
}
