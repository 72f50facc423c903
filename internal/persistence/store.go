package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"FocusTimer/internal/models"
	"FocusTimer/internal/resume"
	"FocusTimer/internal/storage"

	"github.com/sirupsen/logrus"
)

const (
	SettingsKey = "focus-timer-settings"
	SessionKey  = "focus-timer-session"
)

const defaultTimeout = 2 * time.Second

// Store 保存设置和会话两条记录。写入失败只记录日志，读取失败视为没有记录。
type Store struct {
	backend storage.Backend
	log     logrus.FieldLogger
	timeout time.Duration
}

func NewStore(backend storage.Backend, log logrus.FieldLogger, timeout time.Duration) *Store {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Store{
		backend: backend,
		log:     log.WithField("component", "persistence"),
		timeout: timeout,
	}
}

func (s *Store) SaveSettings(settings models.Settings) {
	s.put(SettingsKey, settings)
}

func (s *Store) LoadSettings() (models.Settings, bool) {
	var settings models.Settings
	if !s.load(SettingsKey, ValidateSettings, &settings) {
		return models.Settings{}, false
	}
	return settings, true
}

func (s *Store) SaveSession(session models.Session) {
	s.put(SessionKey, session)
}

func (s *Store) LoadSession() (*models.Session, bool) {
	var session models.Session
	if !s.load(SessionKey, ValidateSession, &session) {
		return nil, false
	}
	return &session, true
}

func (s *Store) ClearSession() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	if err := s.backend.Delete(ctx, SessionKey); err != nil {
		s.log.WithError(err).WithField("key", SessionKey).Warn("failed to clear timer session")
	}
}

// ResumeSession 读取会话并按当前时间修正，已过期的会话会被删除
func (s *Store) ResumeSession(now time.Time) (resume.LiveState, bool) {
	session, ok := s.LoadSession()
	if !ok {
		return resume.LiveState{}, false
	}

	live, ok := resume.Resume(session, now)
	if !ok {
		return resume.LiveState{}, false
	}
	if live.Expired {
		s.log.WithField("run_id", live.RunID).Info("timer expired while not running")
		s.ClearSession()
	}
	return live, true
}

func (s *Store) put(key string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		s.log.WithError(err).WithField("key", key).Warn("failed to encode record")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	if err := s.backend.Put(ctx, key, data); err != nil {
		s.log.WithError(err).WithField("key", key).Warn("failed to save record")
	}
}

func (s *Store) load(key string, validate func(map[string]any) error, out any) bool {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	data, err := s.backend.Get(ctx, key)
	if errors.Is(err, storage.ErrNotFound) {
		return false
	}
	if err != nil {
		s.log.WithError(err).WithField("key", key).Warn("failed to load record")
		return false
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		s.log.WithError(err).WithField("key", key).Warn("stored record is not a JSON object")
		return false
	}
	if err := validate(raw); err != nil {
		s.log.WithError(err).WithField("key", key).Warn("stored record failed validation")
		return false
	}
	if err := json.Unmarshal(data, out); err != nil {
		s.log.WithError(err).WithField("key", key).Warn("failed to decode record")
		return false
	}
	return true
}
