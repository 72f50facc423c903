package models

import "fmt"

type TimerState int

const (
	StateIdle TimerState = iota
	StateRunning
	StatePaused
	StateCompleted // 只发布一次，随后回到 StateIdle
)

func (s TimerState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StatePaused:
		return "paused"
	case StateCompleted:
		return "completed"
	default:
		return fmt.Sprintf("TimerState(%d)", int(s))
	}
}

func (s TimerState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Snapshot 控制器发布给视图层的状态
type Snapshot struct {
	State            TimerState `json:"state"`
	RemainingSeconds int        `json:"remainingSeconds"`
	TotalSeconds     int        `json:"totalSeconds"`
	Progress         float64    `json:"progress"`

	Hours   int `json:"hours"`
	Minutes int `json:"minutes"`
	Seconds int `json:"seconds"`

	SoundEnabled bool      `json:"soundEnabled"`
	SoundType    SoundType `json:"soundType"`
	Volume       float64   `json:"volume"`
	DarkMode     bool      `json:"darkMode"`
}

// Progress 已经过的比例，total 为 0 时返回 0
func Progress(remaining, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(total-remaining) / float64(total)
}

// FormatClock 将秒数格式化为 MM:SS，超过一小时为 HH:MM:SS
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	if h > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}
