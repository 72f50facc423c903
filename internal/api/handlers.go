package api

import (
	"errors"
	"io"
	"net/http"

	"FocusTimer/internal/models"
	"FocusTimer/internal/timer"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type handler struct {
	log   *logrus.Logger
	timer TimerService
	sound Previewer
}

type durationRequest struct {
	Hours   int `json:"hours"`
	Minutes int `json:"minutes"`
	Seconds int `json:"seconds"`
}

type soundRequest struct {
	Enabled *bool    `json:"enabled"`
	Type    *string  `json:"type"`
	Volume  *float64 `json:"volume"`
}

type themeRequest struct {
	DarkMode *bool `json:"darkMode"`
}

type previewRequest struct {
	Type string `json:"type"`
}

func sendError(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}

func (h handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h handler) snapshot(c *gin.Context) {
	c.JSON(http.StatusOK, h.timer.Snapshot())
}

func (h handler) start(c *gin.Context) {
	if !h.timer.Start(c.Request.Context()) {
		sendError(c, http.StatusConflict, "timer not started: already running or duration is zero")
		return
	}
	c.JSON(http.StatusOK, h.timer.Snapshot())
}

func (h handler) pause(c *gin.Context) {
	if !h.timer.Pause() {
		sendError(c, http.StatusConflict, "timer is not running")
		return
	}
	c.JSON(http.StatusOK, h.timer.Snapshot())
}

func (h handler) reset(c *gin.Context) {
	h.timer.Reset()
	c.JSON(http.StatusOK, h.timer.Snapshot())
}

func (h handler) configure(c *gin.Context) {
	var req durationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendError(c, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	if err := h.timer.Configure(req.Hours, req.Minutes, req.Seconds); err != nil {
		sendError(c, http.StatusBadRequest, err.Error())
		return
	}
	c.JSON(http.StatusOK, h.timer.Snapshot())
}

func (h handler) presets(c *gin.Context) {
	c.JSON(http.StatusOK, h.timer.Presets())
}

func (h handler) applyPreset(c *gin.Context) {
	name := c.Param("name")
	if err := h.timer.ApplyPreset(name); err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, timer.ErrUnknownPreset) {
			status = http.StatusNotFound
		}
		sendError(c, status, err.Error())
		return
	}
	c.JSON(http.StatusOK, h.timer.Snapshot())
}

// updateSound 先校验全部字段，避免只应用一部分
func (h handler) updateSound(c *gin.Context) {
	var req soundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendError(c, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	var soundType models.SoundType
	if req.Type != nil {
		soundType = models.SoundType(*req.Type)
		if !soundType.Valid() {
			sendError(c, http.StatusBadRequest, "unknown sound type "+*req.Type)
			return
		}
	}
	if req.Volume != nil && (*req.Volume < 0 || *req.Volume > 1) {
		sendError(c, http.StatusBadRequest, "volume must be between 0 and 1")
		return
	}

	if req.Enabled != nil {
		h.timer.SetSoundEnabled(*req.Enabled)
	}
	if req.Type != nil {
		if err := h.timer.SetSoundType(soundType); err != nil {
			sendError(c, http.StatusBadRequest, err.Error())
			return
		}
	}
	if req.Volume != nil {
		if err := h.timer.SetVolume(*req.Volume); err != nil {
			sendError(c, http.StatusBadRequest, err.Error())
			return
		}
	}
	c.JSON(http.StatusOK, h.timer.Snapshot())
}

func (h handler) updateTheme(c *gin.Context) {
	var req themeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendError(c, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	if req.DarkMode == nil {
		sendError(c, http.StatusBadRequest, "darkMode is required")
		return
	}
	h.timer.SetDarkMode(*req.DarkMode)
	c.JSON(http.StatusOK, h.timer.Snapshot())
}

func (h handler) preview(c *gin.Context) {
	var req previewRequest
	// 空 body 表示试听当前配置的音色
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		sendError(c, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	settings := h.timer.Settings()
	soundType := settings.SoundType
	if req.Type != "" {
		soundType = models.SoundType(req.Type)
		if !soundType.Valid() {
			sendError(c, http.StatusBadRequest, "unknown sound type "+req.Type)
			return
		}
	}

	h.sound.Preview(c.Request.Context(), soundType, settings.Volume)
	c.JSON(http.StatusAccepted, gin.H{"type": soundType, "volume": settings.Volume})
}

// events 以 SSE 推送快照，直到客户端断开
func (h handler) events(c *gin.Context) {
	snapshots, cancel := h.timer.Subscribe()
	defer cancel()

	ctx := c.Request.Context()
	c.Stream(func(w io.Writer) bool {
		select {
		case snap, ok := <-snapshots:
			if !ok {
				return false
			}
			c.SSEvent("snapshot", snap)
			return true
		case <-ctx.Done():
			return false
		}
	})
}
