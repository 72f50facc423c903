package models

type SoundType string

const (
	SoundGentle  SoundType = "gentle"
	SoundChime   SoundType = "chime"
	SoundBell    SoundType = "bell"
	SoundDigital SoundType = "digital"
)

// SoundTypes 按界面显示顺序排列
var SoundTypes = []SoundType{SoundGentle, SoundChime, SoundBell, SoundDigital}

func (t SoundType) Valid() bool {
	switch t {
	case SoundGentle, SoundChime, SoundBell, SoundDigital:
		return true
	}
	return false
}

func (t SoundType) Label() string {
	switch t {
	case SoundGentle:
		return "Gentle Bell"
	case SoundChime:
		return "Wind Chime"
	case SoundBell:
		return "Temple Bell"
	case SoundDigital:
		return "Digital Beep"
	default:
		return string(t)
	}
}

// SoundTypeFromLabel 是 Label 的反向查找
func SoundTypeFromLabel(label string) (SoundType, bool) {
	for _, t := range SoundTypes {
		if t.Label() == label {
			return t, true
		}
	}
	return "", false
}

const (
	MaxHours   = 23
	MaxMinutes = 59
	MaxSeconds = 59
)

// Settings 用户偏好，每次修改都会整体保存
type Settings struct {
	DurationHours   int       `json:"durationHours"`
	DurationMinutes int       `json:"durationMinutes"`
	DurationSeconds int       `json:"durationSeconds"`
	SoundEnabled    bool      `json:"soundEnabled"`
	SoundType       SoundType `json:"soundType"`
	Volume          float64   `json:"volume"`
	DarkMode        bool      `json:"darkMode"`
}

func DefaultSettings() Settings {
	return Settings{
		DurationHours:   0,
		DurationMinutes: 5,
		DurationSeconds: 0,
		SoundEnabled:    true,
		SoundType:       SoundGentle,
		Volume:          0.5,
		DarkMode:        false,
	}
}

func (s Settings) TotalSeconds() int {
	return DurationSeconds(s.DurationHours, s.DurationMinutes, s.DurationSeconds)
}

func DurationSeconds(h, m, s int) int {
	return h*3600 + m*60 + s
}

// ValidDuration 检查时分秒是否都在输入框允许的范围内
func ValidDuration(h, m, s int) bool {
	return h >= 0 && h <= MaxHours &&
		m >= 0 && m <= MaxMinutes &&
		s >= 0 && s <= MaxSeconds
}
