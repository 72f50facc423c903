// Package resume reconstructs the live countdown from a stored session
// snapshot. Running sessions are anchored to their target end time, so the
// result is correct no matter how long the process was not running.
package resume

import (
	"time"

	"FocusTimer/internal/models"
)

// LiveState is what the controller adopts after a restart.
type LiveState struct {
	RemainingSeconds int
	TotalSeconds     int
	Running          bool
	Paused           bool
	TargetEnd        time.Time
	RunID            string

	// Expired reports that zero was reached while nothing was observing the
	// timer. The stored record must be deleted and the completion still
	// notified once.
	Expired bool
}

// Resume returns false when there is nothing to resume.
func Resume(stored *models.Session, now time.Time) (LiveState, bool) {
	if stored == nil {
		return LiveState{}, false
	}

	live := LiveState{
		RemainingSeconds: stored.RemainingSeconds,
		TotalSeconds:     stored.TotalSeconds,
		Running:          stored.Running,
		Paused:           stored.Paused,
		TargetEnd:        stored.TargetEnd(),
		RunID:            stored.RunID,
	}

	switch {
	case stored.Paused:
		// 暂停期间时间不流逝，pausedAtTime 不参与计算
		return live, true

	case stored.Running:
		remaining := RemainingSeconds(stored.TargetEnd(), now)
		if remaining == 0 {
			live.RemainingSeconds = 0
			live.Running = false
			live.Paused = false
			live.Expired = true
			return live, true
		}
		live.RemainingSeconds = remaining
		return live, true

	default:
		return LiveState{}, false
	}
}

// RemainingSeconds is max(0, ceil((targetEnd-now)/1s)).
func RemainingSeconds(targetEnd, now time.Time) int {
	left := targetEnd.Sub(now)
	if left <= 0 {
		return 0
	}
	secs := left / time.Second
	if left%time.Second != 0 {
		secs++
	}
	return int(secs)
}
