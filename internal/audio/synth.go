package audio

import (
	"context"
	"sync"
	"time"

	"FocusTimer/internal/models"

	"github.com/sirupsen/logrus"
)

type LockState int

const (
	Locked LockState = iota
	Unlocked
)

func (s LockState) String() string {
	if s == Unlocked {
		return "unlocked"
	}
	return "locked"
}

const defaultUnlockTimeout = 2 * time.Second

// Synthesizer 合成并播放提示音。
// 输出设备打开之前处于 Locked，任何声音都不会交给 Sink。
type Synthesizer struct {
	mu            sync.Mutex
	sink          Sink
	state         LockState
	unlockTimeout time.Duration
	log           logrus.FieldLogger
}

func NewSynthesizer(sink Sink, log logrus.FieldLogger, unlockTimeout time.Duration) *Synthesizer {
	if unlockTimeout <= 0 {
		unlockTimeout = defaultUnlockTimeout
	}
	return &Synthesizer{
		sink:          sink,
		state:         Locked,
		unlockTimeout: unlockTimeout,
		log:           log.WithField("component", "audio"),
	}
}

func (s *Synthesizer) State() LockState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// EnsureUnlocked 幂等。失败时保持 Locked，下一次用户操作再试。
func (s *Synthesizer) EnsureUnlocked(ctx context.Context) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == Unlocked {
		return true
	}

	ctx, cancel := context.WithTimeout(ctx, s.unlockTimeout)
	defer cancel()

	if err := s.sink.Resume(ctx); err != nil {
		s.log.WithError(err).Warn("failed to unlock audio output")
		return false
	}
	if err := s.sink.Play(NewVoice(unlockSpec, 0, s.sink.SampleRate())); err != nil {
		s.log.WithError(err).Warn("failed to unlock audio output")
		return false
	}

	s.state = Unlocked
	s.log.Info("audio output unlocked")
	return true
}

// Play 合成失败只记录日志
func (s *Synthesizer) Play(ctx context.Context, t models.SoundType, volume float64) {
	if volume <= 0 {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			s.log.WithField("sound", t).Warnf("error playing notification sound: %v", r)
		}
	}()

	if !s.EnsureUnlocked(ctx) {
		s.log.WithField("sound", t).Warn("audio output locked, skipping sound")
		return
	}

	spec, ok := SpecFor(t)
	if !ok {
		s.log.WithField("sound", t).Warn("unknown sound type, using gentle")
		spec = specs[models.SoundGentle]
	}

	voice := NewVoice(spec, volume, s.sink.SampleRate())
	if err := s.sink.Play(voice); err != nil {
		s.log.WithError(err).WithField("sound", t).Warn("error playing notification sound")
		return
	}
	s.log.WithFields(logrus.Fields{"sound": t, "volume": volume}).Debug("notification sound scheduled")
}

// Preview 由用户操作直接触发
func (s *Synthesizer) Preview(ctx context.Context, t models.SoundType, volume float64) {
	s.Play(ctx, t, volume)
}

// Notify 计时结束时调用，不等待播放
func (s *Synthesizer) Notify(t models.SoundType, volume float64) {
	go s.Play(context.Background(), t, volume)
}

func (s *Synthesizer) Close() error {
	return s.sink.Close()
}
