package ui

import (
	"context"
	"strconv"

	"FocusTimer/internal/models"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/sirupsen/logrus"
)

// Timer 是界面用到的计时器操作
type Timer interface {
	Snapshot() models.Snapshot
	Subscribe() (<-chan models.Snapshot, func())
	Start(ctx context.Context) bool
	Pause() bool
	Reset()
	Toggle(ctx context.Context) bool
	Configure(h, m, s int) error
	Presets() []models.Preset
	ApplyPreset(name string) error
	SetSoundEnabled(enabled bool)
	SetSoundType(t models.SoundType) error
	SetVolume(v float64) error
	SetDarkMode(dark bool)
}

// Sound 试听和解锁音频输出
type Sound interface {
	EnsureUnlocked(ctx context.Context) bool
	Preview(ctx context.Context, t models.SoundType, volume float64)
}

// TimerView 倒计时主界面
type TimerView struct {
	timer Timer
	log   logrus.FieldLogger
	// 可能阻塞的操作（打开音频设备）不放在界面线程
	run func(func())

	container *fyne.Container

	timeLabel   *canvas.Text
	statusLabel *canvas.Text
	progress    *widget.ProgressBar

	hoursSelect   *widget.Select
	minutesSelect *widget.Select
	secondsSelect *widget.Select
	presetButtons []*widget.Button

	startButton    *widget.Button
	resetButton    *widget.Button
	soundButton    *widget.Button
	settingsButton *widget.Button
	themeButton    *widget.Button

	last     models.Snapshot
	applying bool
}

func NewTimerView(timer Timer, log logrus.FieldLogger) *TimerView {
	v := &TimerView{
		timer: timer,
		log:   log,
		run:   func(f func()) { go f() },
	}
	v.build()
	v.apply(timer.Snapshot())
	return v
}

func (v *TimerView) build() {
	v.timeLabel = canvas.NewText("00:00", theme.ForegroundColor())
	v.timeLabel.TextStyle = fyne.TextStyle{Bold: true, Monospace: true}
	v.timeLabel.TextSize = 56
	v.timeLabel.Alignment = fyne.TextAlignCenter

	v.statusLabel = canvas.NewText("Ready", theme.ForegroundColor())
	v.statusLabel.TextStyle = fyne.TextStyle{Bold: true}
	v.statusLabel.TextSize = 20
	v.statusLabel.Alignment = fyne.TextAlignCenter

	v.progress = widget.NewProgressBar()
	v.progress.TextFormatter = func() string { return "" }

	// 时分秒选择
	v.hoursSelect = widget.NewSelect(numberOptions(models.MaxHours), func(string) { v.onDurationChanged() })
	v.minutesSelect = widget.NewSelect(numberOptions(models.MaxMinutes), func(string) { v.onDurationChanged() })
	v.secondsSelect = widget.NewSelect(numberOptions(models.MaxSeconds), func(string) { v.onDurationChanged() })
	duration := container.NewGridWithColumns(3,
		container.NewVBox(widget.NewLabelWithStyle("Hours", fyne.TextAlignCenter, fyne.TextStyle{}), v.hoursSelect),
		container.NewVBox(widget.NewLabelWithStyle("Minutes", fyne.TextAlignCenter, fyne.TextStyle{}), v.minutesSelect),
		container.NewVBox(widget.NewLabelWithStyle("Seconds", fyne.TextAlignCenter, fyne.TextStyle{}), v.secondsSelect),
	)

	presets := container.NewGridWithColumns(3)
	for _, p := range v.timer.Presets() {
		name := p.Name
		btn := widget.NewButton(name, func() {
			if err := v.timer.ApplyPreset(name); err != nil {
				v.log.WithError(err).WithField("preset", name).Warn("failed to apply preset")
			}
		})
		v.presetButtons = append(v.presetButtons, btn)
		presets.Add(btn)
	}

	v.startButton = widget.NewButtonWithIcon("Start", theme.MediaPlayIcon(), v.Toggle)
	v.startButton.Importance = widget.HighImportance

	v.resetButton = widget.NewButtonWithIcon("Reset", theme.MediaReplayIcon(), v.timer.Reset)

	v.soundButton = widget.NewButtonWithIcon("", theme.VolumeUpIcon(), func() {
		v.timer.SetSoundEnabled(!v.last.SoundEnabled)
	})

	v.settingsButton = widget.NewButtonWithIcon("", theme.SettingsIcon(), nil)

	v.themeButton = widget.NewButtonWithIcon("", theme.ColorPaletteIcon(), func() {
		v.timer.SetDarkMode(!v.last.DarkMode)
	})

	topBar := container.NewHBox(layout.NewSpacer(), v.soundButton, v.settingsButton, v.themeButton)
	controls := container.NewHBox(layout.NewSpacer(), v.startButton, v.resetButton, layout.NewSpacer())

	v.container = container.NewPadded(container.NewVBox(
		topBar,
		container.NewPadded(v.timeLabel),
		v.statusLabel,
		v.progress,
		duration,
		presets,
		controls,
	))
}

// Toggle 开始或暂停，和空格键相同
func (v *TimerView) Toggle() {
	v.run(func() { v.timer.Toggle(context.Background()) })
}

// SetOnSettings 设置按钮的回调
func (v *TimerView) SetOnSettings(callback func()) {
	v.settingsButton.OnTapped = callback
}

func (v *TimerView) Container() fyne.CanvasObject {
	return v.container
}

func (v *TimerView) onDurationChanged() {
	if v.applying {
		return
	}
	h, errH := strconv.Atoi(v.hoursSelect.Selected)
	m, errM := strconv.Atoi(v.minutesSelect.Selected)
	s, errS := strconv.Atoi(v.secondsSelect.Selected)
	if errH != nil || errM != nil || errS != nil {
		return
	}
	if h == v.last.Hours && m == v.last.Minutes && s == v.last.Seconds {
		return
	}
	if err := v.timer.Configure(h, m, s); err != nil {
		v.log.WithError(err).Warn("invalid duration")
	}
}

// apply 根据快照刷新所有控件
func (v *TimerView) apply(snap models.Snapshot) {
	v.last = snap
	// 程序设置控件值时不回写
	v.applying = true
	defer func() { v.applying = false }()

	v.timeLabel.Text = models.FormatClock(snap.RemainingSeconds)
	v.timeLabel.Color = theme.ForegroundColor()
	v.timeLabel.Refresh()

	v.statusLabel.Text = statusText(snap)
	switch v.statusLabel.Text {
	case "Running":
		v.statusLabel.Color = runningColor
	case "Paused":
		v.statusLabel.Color = pausedColor
	case "Complete!":
		v.statusLabel.Color = completeColor
	default:
		v.statusLabel.Color = theme.ForegroundColor()
	}
	v.statusLabel.Refresh()

	v.progress.SetValue(snap.Progress)

	setSelected(v.hoursSelect, snap.Hours)
	setSelected(v.minutesSelect, snap.Minutes)
	setSelected(v.secondsSelect, snap.Seconds)

	locked := inputsLocked(snap)
	for _, w := range []fyne.Disableable{v.hoursSelect, v.minutesSelect, v.secondsSelect} {
		setEnabled(w, !locked)
	}
	for _, btn := range v.presetButtons {
		setEnabled(btn, !locked)
	}

	if snap.State == models.StateRunning {
		v.startButton.SetText("Pause")
		v.startButton.SetIcon(theme.MediaPauseIcon())
	} else {
		v.startButton.SetText("Start")
		v.startButton.SetIcon(theme.MediaPlayIcon())
	}
	setEnabled(v.startButton, canStart(snap))

	if snap.SoundEnabled {
		v.soundButton.SetIcon(theme.VolumeUpIcon())
	} else {
		v.soundButton.SetIcon(theme.VolumeMuteIcon())
	}
}

func setSelected(s *widget.Select, value int) {
	text := strconv.Itoa(value)
	if s.Selected != text {
		s.SetSelected(text)
	}
}

func setEnabled(w fyne.Disableable, enabled bool) {
	if enabled {
		w.Enable()
	} else {
		w.Disable()
	}
}
