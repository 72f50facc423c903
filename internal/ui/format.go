package ui

import (
	"strconv"

	"FocusTimer/internal/models"
)

// statusText 状态栏文字。到点后的空闲状态显示为完成。
func statusText(snap models.Snapshot) string {
	switch snap.State {
	case models.StateRunning:
		return "Running"
	case models.StatePaused:
		return "Paused"
	case models.StateCompleted:
		return "Complete!"
	}
	if snap.RemainingSeconds == 0 && snap.TotalSeconds > 0 {
		return "Complete!"
	}
	return "Ready"
}

// 计时中或暂停时不允许修改时长
func inputsLocked(snap models.Snapshot) bool {
	return snap.State == models.StateRunning || snap.State == models.StatePaused
}

func canStart(snap models.Snapshot) bool {
	if snap.State == models.StateRunning || snap.State == models.StatePaused {
		return true
	}
	return models.DurationSeconds(snap.Hours, snap.Minutes, snap.Seconds) > 0
}

func numberOptions(max int) []string {
	options := make([]string, max+1)
	for i := range options {
		options[i] = strconv.Itoa(i)
	}
	return options
}

func soundLabels() []string {
	labels := make([]string, len(models.SoundTypes))
	for i, t := range models.SoundTypes {
		labels[i] = t.Label()
	}
	return labels
}

// formatVolume 音量显示为百分比
func formatVolume(v float64) string {
	return strconv.Itoa(int(v*100+0.5)) + "%"
}
