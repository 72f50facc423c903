package api

import (
	"context"

	"FocusTimer/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// TimerService 是 HTTP 层用到的计时器操作
type TimerService interface {
	Snapshot() models.Snapshot
	Settings() models.Settings
	Start(ctx context.Context) bool
	Pause() bool
	Reset()
	Configure(h, m, s int) error
	Presets() []models.Preset
	ApplyPreset(name string) error
	SetSoundEnabled(enabled bool)
	SetSoundType(t models.SoundType) error
	SetVolume(v float64) error
	SetDarkMode(dark bool)
	Subscribe() (<-chan models.Snapshot, func())
}

type Previewer interface {
	Preview(ctx context.Context, t models.SoundType, volume float64)
}

type Router struct {
	Logger *logrus.Logger
	Timer  TimerService
	Sound  Previewer
}

// SetUpRouter 创建 gin.Engine 并注册所有路由
func (r Router) SetUpRouter() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(r.Logger))

	h := handler{log: r.Logger, timer: r.Timer, sound: r.Sound}

	router.GET("/health", h.health)

	timer := router.Group("/timer")
	timer.GET("", h.snapshot)
	timer.POST("/start", h.start)
	timer.POST("/pause", h.pause)
	timer.POST("/reset", h.reset)
	timer.PUT("/duration", h.configure)
	timer.GET("/events", h.events)

	router.GET("/presets", h.presets)
	router.POST("/presets/:name", h.applyPreset)

	router.PUT("/settings/sound", h.updateSound)
	router.PUT("/settings/theme", h.updateTheme)
	router.POST("/sound/preview", h.preview)

	return router
}
