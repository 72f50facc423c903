package ui

import (
	"context"

	"FocusTimer/internal/models"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/sirupsen/logrus"
)

// SettingsDialog 提示音设置
type SettingsDialog struct {
	timer Timer
	sound Sound
	log   logrus.FieldLogger
	run   func(func())

	enabledCheck  *widget.Check
	soundSelect   *widget.Select
	volumeSlider  *widget.Slider
	volumeLabel   *widget.Label
	previewButton *widget.Button

	dialog   dialog.Dialog
	last     models.Snapshot
	applying bool
}

func NewSettingsDialog(timer Timer, sound Sound, log logrus.FieldLogger, run func(func())) *SettingsDialog {
	d := &SettingsDialog{timer: timer, sound: sound, log: log, run: run}

	d.enabledCheck = widget.NewCheck("Enable sound", func(enabled bool) {
		if !d.applying {
			d.timer.SetSoundEnabled(enabled)
		}
	})

	d.soundSelect = widget.NewSelect(soundLabels(), func(label string) {
		t, ok := models.SoundTypeFromLabel(label)
		if !ok || d.applying {
			return
		}
		if err := d.timer.SetSoundType(t); err != nil {
			d.log.WithError(err).Warn("failed to set sound type")
		}
	})

	d.volumeSlider = widget.NewSlider(0, 1)
	d.volumeSlider.Step = 0.1
	d.volumeSlider.OnChanged = func(v float64) {
		if d.applying {
			return
		}
		if err := d.timer.SetVolume(v); err != nil {
			d.log.WithError(err).Warn("failed to set volume")
		}
	}
	d.volumeLabel = widget.NewLabel("")

	d.previewButton = widget.NewButtonWithIcon("Preview", theme.MediaPlayIcon(), d.Preview)

	d.apply(timer.Snapshot())
	return d
}

// Show 打开对话框。打开本身算一次用户操作，顺便解锁音频。
func (d *SettingsDialog) Show(parent fyne.Window) {
	if d.dialog != nil {
		return
	}

	content := container.NewVBox(
		d.enabledCheck,
		widget.NewForm(
			widget.NewFormItem("Sound", d.soundSelect),
			widget.NewFormItem("Volume", container.NewBorder(nil, nil, nil, d.volumeLabel, d.volumeSlider)),
		),
		d.previewButton,
	)

	d.dialog = dialog.NewCustom("Sound Settings", "Close", content, parent)
	d.dialog.SetOnClosed(func() { d.dialog = nil })
	d.dialog.Resize(fyne.NewSize(360, 240))
	d.dialog.Show()

	d.run(func() { d.sound.EnsureUnlocked(context.Background()) })
}

func (d *SettingsDialog) Hide() {
	if d.dialog != nil {
		d.dialog.Hide()
		d.dialog = nil
	}
}

func (d *SettingsDialog) Visible() bool {
	return d.dialog != nil
}

// Preview 用当前选择的音色和音量试听
func (d *SettingsDialog) Preview() {
	snap := d.last
	d.run(func() { d.sound.Preview(context.Background(), snap.SoundType, snap.Volume) })
}

func (d *SettingsDialog) apply(snap models.Snapshot) {
	d.last = snap
	d.applying = true
	defer func() { d.applying = false }()

	if d.enabledCheck.Checked != snap.SoundEnabled {
		d.enabledCheck.SetChecked(snap.SoundEnabled)
	}
	if label := snap.SoundType.Label(); d.soundSelect.Selected != label {
		d.soundSelect.SetSelected(label)
	}
	if d.volumeSlider.Value != snap.Volume {
		d.volumeSlider.SetValue(snap.Volume)
	}
	d.volumeLabel.SetText(formatVolume(snap.Volume))

	for _, w := range []fyne.Disableable{d.soundSelect, d.volumeSlider, d.previewButton} {
		setEnabled(w, snap.SoundEnabled)
	}
}
