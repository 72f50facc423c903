//go:build !linux

package audio

import (
	"context"

	"github.com/faiface/beep"
	"github.com/sirupsen/logrus"
)

// PulseSink 只在 Linux 上可用
type PulseSink struct {
	rate beep.SampleRate
}

func NewPulseSink(rate beep.SampleRate, _ logrus.FieldLogger) *PulseSink {
	return &PulseSink{rate: rate}
}

func (s *PulseSink) Resume(context.Context) error {
	return ErrSinkUnsupported
}

func (s *PulseSink) Play(beep.Streamer) error {
	return ErrSinkUnsupported
}

func (s *PulseSink) SampleRate() beep.SampleRate {
	return s.rate
}

func (s *PulseSink) Close() error {
	return nil
}
