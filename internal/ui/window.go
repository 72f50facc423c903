package ui

import (
	"FocusTimer/internal/config"
	"FocusTimer/internal/models"

	"fyne.io/fyne/v2"
	"github.com/sirupsen/logrus"
)

type MainWindow struct {
	app      fyne.App
	window   fyne.Window
	timer    Timer
	view     *TimerView
	settings *SettingsDialog
	log      logrus.FieldLogger

	darkMode bool
	cancel   func()
	done     chan struct{}
}

func NewMainWindow(app fyne.App, cfg *config.Config, timer Timer, sound Sound, log logrus.FieldLogger) *MainWindow {
	log = log.WithField("component", "ui")
	view := NewTimerView(timer, log)

	w := &MainWindow{
		app:      app,
		window:   app.NewWindow(cfg.App.Name),
		timer:    timer,
		view:     view,
		settings: NewSettingsDialog(timer, sound, log, view.run),
		log:      log,
		done:     make(chan struct{}),
	}
	w.setup(cfg)
	return w
}

func (w *MainWindow) setup(cfg *config.Config) {
	w.view.SetOnSettings(w.toggleSettings)

	w.window.SetContent(w.view.Container())
	w.window.Resize(fyne.NewSize(float32(cfg.App.WindowWidth), float32(cfg.App.WindowHeight)))
	w.window.Canvas().SetOnTypedKey(func(ev *fyne.KeyEvent) { w.HandleKey(ev.Name) })
	w.window.SetOnClosed(w.Close)

	snap := w.timer.Snapshot()
	w.darkMode = !snap.DarkMode
	w.applySnapshot(snap)

	snapshots, cancel := w.timer.Subscribe()
	w.cancel = cancel
	go func() {
		defer close(w.done)
		for snap := range snapshots {
			w.applySnapshot(snap)
		}
	}()
}

// HandleKey 快捷键：空格开始/暂停，R 重置，S 打开/关闭设置，Esc 关闭设置
func (w *MainWindow) HandleKey(name fyne.KeyName) {
	switch name {
	case fyne.KeySpace:
		w.view.Toggle()
	case fyne.KeyR:
		w.timer.Reset()
	case fyne.KeyS:
		w.toggleSettings()
	case fyne.KeyEscape:
		w.settings.Hide()
	}
}

func (w *MainWindow) toggleSettings() {
	if w.settings.Visible() {
		w.settings.Hide()
		return
	}
	w.settings.Show(w.window)
}

func (w *MainWindow) applySnapshot(snap models.Snapshot) {
	if snap.DarkMode != w.darkMode {
		w.darkMode = snap.DarkMode
		w.app.Settings().SetTheme(newVariantTheme(snap.DarkMode))
	}
	w.view.apply(snap)
	w.settings.apply(snap)
}

func (w *MainWindow) Show() {
	w.window.ShowAndRun()
}

// Close 停止接收快照
func (w *MainWindow) Close() {
	if w.cancel != nil {
		w.cancel()
		w.cancel = nil
		<-w.done
	}
}
