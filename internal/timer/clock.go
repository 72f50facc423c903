package timer

import (
	"sync"
	"time"
)

// Clock 提供墙上时间
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func SystemClock() Clock {
	return systemClock{}
}

func (systemClock) Now() time.Time {
	return time.Now()
}

// Scheduler 周期性回调。返回的 cancel 可以重复调用。
type Scheduler interface {
	Every(d time.Duration, fn func()) (cancel func())
}

type tickerScheduler struct{}

func TickerScheduler() Scheduler {
	return tickerScheduler{}
}

func (tickerScheduler) Every(d time.Duration, fn func()) func() {
	ticker := time.NewTicker(d)
	done := make(chan struct{})

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				fn()
			case <-done:
				return
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() { close(done) })
	}
}
