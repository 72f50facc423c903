package app

import (
	"context"
	"fmt"

	"FocusTimer/internal/audio"
	"FocusTimer/internal/config"
	"FocusTimer/internal/logger"
	"FocusTimer/internal/persistence"
	"FocusTimer/internal/storage"
	"FocusTimer/internal/timer"

	"github.com/sirupsen/logrus"
)

// App 组装计时器依赖的所有组件
type App struct {
	Config  *config.Manager
	Log     *logrus.Logger
	Backend storage.Backend
	Store   *persistence.Store
	Synth   *audio.Synthesizer
	Timer   *timer.Controller
}

type Options struct {
	ConfigPath string
	// 存储打不开时退回内存，桌面端使用
	FallbackToMemory bool
}

// New 读取配置并初始化计时器，返回前已经完成会话恢复
func New(ctx context.Context, opts Options) (*App, error) {
	manager, err := config.NewManager(opts.ConfigPath)
	if err != nil {
		return nil, err
	}
	cfg := manager.GetConfig()
	log := logger.New(cfg.Log)

	backend, err := storage.Open(ctx, cfg.Storage)
	if err != nil {
		if !opts.FallbackToMemory {
			return nil, fmt.Errorf("open %s storage: %w", cfg.Storage.Driver, err)
		}
		log.WithError(err).WithField("driver", cfg.Storage.Driver).
			Warn("storage unavailable, settings will not survive a restart")
		backend = storage.NewMemoryBackend()
	}

	sink, err := audio.NewSink(cfg.Audio, log)
	if err != nil {
		backend.Close()
		return nil, err
	}

	store := persistence.NewStore(backend, log, cfg.Storage.OpTimeout)
	synth := audio.NewSynthesizer(sink, log, cfg.Audio.UnlockTimeout)
	ctrl := timer.NewController(timer.Options{
		Store:    store,
		Notifier: synth,
		Presets:  cfg.Presets,
		Log:      log,
	})
	ctrl.Init()

	log.WithFields(logrus.Fields{
		"config":  manager.Path(),
		"storage": cfg.Storage.Driver,
		"sink":    cfg.Audio.Sink,
	}).Info("focus timer ready")

	return &App{
		Config:  manager,
		Log:     log,
		Backend: backend,
		Store:   store,
		Synth:   synth,
		Timer:   ctrl,
	}, nil
}

// OnConfigChange 应用可以热更新的配置项
func (a *App) OnConfigChange(cfg *config.Config) {
	logger.SetLevel(a.Log, cfg.Log.Level)
	a.Timer.SetPresets(cfg.Presets)
	a.Log.WithField("level", cfg.Log.Level).Info("config reloaded")
}

func (a *App) Close() {
	a.Timer.Close()
	if err := a.Synth.Close(); err != nil {
		a.Log.WithError(err).Warn("error closing audio output")
	}
	if err := a.Backend.Close(); err != nil {
		a.Log.WithError(err).Warn("error closing storage")
	}
}
