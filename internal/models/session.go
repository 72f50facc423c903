package models

import "time"

// Session 正在运行或暂停的计时器快照，空闲时不存在
type Session struct {
	RemainingSeconds int    `json:"remainingSeconds"`
	TotalSeconds     int    `json:"totalSeconds"`
	Running          bool   `json:"running"`
	Paused           bool   `json:"paused"`
	TargetEndTime    int64  `json:"targetEndTime"` // 毫秒时间戳
	PausedAtTime     *int64 `json:"pausedAtTime,omitempty"`
	RunID            string `json:"runId,omitempty"`
}

func (s Session) TargetEnd() time.Time {
	return time.UnixMilli(s.TargetEndTime)
}

// PausedAt 未暂停时返回零值
func (s Session) PausedAt() time.Time {
	if s.PausedAtTime == nil {
		return time.Time{}
	}
	return time.UnixMilli(*s.PausedAtTime)
}
