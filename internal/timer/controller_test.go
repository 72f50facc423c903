package timer

import (
	"context"
	"sync"
	"testing"
	"time"

	"FocusTimer/internal/models"
	"FocusTimer/internal/persistence"
	"FocusTimer/internal/storage"

	"github.com/sirupsen/logrus/hooks/test"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

// fakeScheduler 只在 Fire 时执行回调
type fakeScheduler struct {
	mu     sync.Mutex
	nextID int
	armed  map[int]func()
	arms   int
	last   func()
}

func newFakeScheduler() *fakeScheduler {
	return &fakeScheduler{armed: make(map[int]func())}
}

func (s *fakeScheduler) Every(_ time.Duration, fn func()) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.armed[id] = fn
	s.arms++
	s.last = fn
	return func() {
		s.mu.Lock()
		delete(s.armed, id)
		s.mu.Unlock()
	}
}

func (s *fakeScheduler) Fire() {
	s.mu.Lock()
	fns := make([]func(), 0, len(s.armed))
	for _, fn := range s.armed {
		fns = append(fns, fn)
	}
	s.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

func (s *fakeScheduler) Active() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.armed)
}

type notification struct {
	sound  models.SoundType
	volume float64
}

type fakeNotifier struct {
	mu       sync.Mutex
	unlocks  int
	notified []notification
}

func (n *fakeNotifier) EnsureUnlocked(context.Context) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.unlocks++
	return true
}

func (n *fakeNotifier) Notify(t models.SoundType, volume float64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notified = append(n.notified, notification{t, volume})
}

func (n *fakeNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.notified)
}

type harness struct {
	ctrl     *Controller
	clock    *fakeClock
	sched    *fakeScheduler
	notifier *fakeNotifier
	store    *persistence.Store
}

func newHarness(t *testing.T, seed func(*persistence.Store, time.Time)) *harness {
	t.Helper()
	log, _ := test.NewNullLogger()
	h := &harness{
		clock:    &fakeClock{now: time.UnixMilli(1_700_000_000_000)},
		sched:    newFakeScheduler(),
		notifier: &fakeNotifier{},
		store:    persistence.NewStore(storage.NewMemoryBackend(), log, time.Second),
	}
	if seed != nil {
		seed(h.store, h.clock.Now())
	}
	h.ctrl = NewController(Options{
		Store:     h.store,
		Notifier:  h.notifier,
		Clock:     h.clock,
		Scheduler: h.sched,
		Presets:   models.DefaultPresets(),
		Log:       log,
	})
	h.ctrl.Init()
	t.Cleanup(h.ctrl.Close)
	return h
}

// tick 推进一秒并触发一次回调
func (h *harness) tick(n int) {
	for i := 0; i < n; i++ {
		h.clock.Advance(time.Second)
		h.sched.Fire()
	}
}

func configure(t *testing.T, c *Controller, seconds int) {
	t.Helper()
	h, m, s := seconds/3600, seconds%3600/60, seconds%60
	if err := c.Configure(h, m, s); err != nil {
		t.Fatalf("Configure(%d,%d,%d): %v", h, m, s, err)
	}
}

func TestInitDefaults(t *testing.T) {
	h := newHarness(t, nil)
	snap := h.ctrl.Snapshot()
	if snap.State != models.StateIdle {
		t.Errorf("state = %v, want idle", snap.State)
	}
	if snap.RemainingSeconds != 300 || snap.TotalSeconds != 300 {
		t.Errorf("remaining/total = %d/%d, want 300/300", snap.RemainingSeconds, snap.TotalSeconds)
	}
	if !snap.SoundEnabled || snap.SoundType != models.SoundGentle || snap.Volume != 0.5 {
		t.Errorf("unexpected sound settings %+v", snap)
	}
}

func TestStartThenResetRestoresDuration(t *testing.T) {
	for _, d := range []int{1, 5, 90, 3661} {
		h := newHarness(t, nil)
		configure(t, h.ctrl, d)

		if !h.ctrl.Start(context.Background()) {
			t.Fatalf("d=%d: Start returned false", d)
		}
		h.tick(d / 2)
		h.ctrl.Reset()

		snap := h.ctrl.Snapshot()
		if snap.State != models.StateIdle || snap.RemainingSeconds != d || snap.TotalSeconds != d {
			t.Errorf("d=%d: after reset got %v %d/%d", d, snap.State, snap.RemainingSeconds, snap.TotalSeconds)
		}
		if h.sched.Active() != 0 {
			t.Errorf("d=%d: %d tick sources still armed", d, h.sched.Active())
		}
	}
}

func TestCountdownNotifiesExactlyOnce(t *testing.T) {
	for _, d := range []int{1, 3, 10} {
		h := newHarness(t, nil)
		configure(t, h.ctrl, d)
		h.ctrl.Start(context.Background())

		h.tick(d - 1)
		if h.notifier.count() != 0 {
			t.Fatalf("d=%d: notified before expiry", d)
		}
		h.tick(1)
		snap := h.ctrl.Snapshot()
		if snap.State != models.StateIdle || snap.RemainingSeconds != 0 {
			t.Errorf("d=%d: after expiry got %v remaining=%d", d, snap.State, snap.RemainingSeconds)
		}

		h.tick(5)
		if got := h.notifier.count(); got != 1 {
			t.Errorf("d=%d: notifications = %d, want 1", d, got)
		}
		if _, ok := h.store.LoadSession(); ok {
			t.Errorf("d=%d: session record not cleared", d)
		}
	}
}

func TestNotificationUsesConfiguredSound(t *testing.T) {
	h := newHarness(t, nil)
	configure(t, h.ctrl, 2)
	if err := h.ctrl.SetSoundType(models.SoundBell); err != nil {
		t.Fatal(err)
	}
	if err := h.ctrl.SetVolume(0.8); err != nil {
		t.Fatal(err)
	}
	h.ctrl.Start(context.Background())
	h.tick(2)

	want := []notification{{models.SoundBell, 0.8}}
	if len(h.notifier.notified) != 1 || h.notifier.notified[0] != want[0] {
		t.Errorf("notified = %+v, want %+v", h.notifier.notified, want)
	}
}

func TestSoundDisabledStillSetsGuard(t *testing.T) {
	h := newHarness(t, nil)
	configure(t, h.ctrl, 2)
	h.ctrl.SetSoundEnabled(false)
	h.ctrl.Start(context.Background())
	h.tick(2)

	h.ctrl.SetSoundEnabled(true)
	h.tick(3)
	if got := h.notifier.count(); got != 0 {
		t.Errorf("notifications = %d, want 0", got)
	}
}

func TestPauseResumeKeepsTotalTicks(t *testing.T) {
	const d = 10
	for _, ticksBeforePause := range []int{1, 4, 9} {
		h := newHarness(t, nil)
		configure(t, h.ctrl, d)
		h.ctrl.Start(context.Background())
		h.tick(ticksBeforePause)

		if !h.ctrl.Pause() {
			t.Fatal("Pause returned false")
		}
		// 暂停期间时间流逝不影响剩余
		h.clock.Advance(time.Hour)
		h.sched.Fire()
		if got := h.ctrl.Snapshot().RemainingSeconds; got != d-ticksBeforePause {
			t.Fatalf("remaining while paused = %d, want %d", got, d-ticksBeforePause)
		}

		if !h.ctrl.Start(context.Background()) {
			t.Fatal("resume returned false")
		}
		extra := 0
		for h.ctrl.Snapshot().State == models.StateRunning {
			h.tick(1)
			extra++
			if extra > d {
				t.Fatal("countdown did not finish")
			}
		}
		if extra != d-ticksBeforePause {
			t.Errorf("ticks after resume = %d, want %d", extra, d-ticksBeforePause)
		}
		if h.notifier.count() != 1 {
			t.Errorf("notifications = %d, want 1", h.notifier.count())
		}
	}
}

func TestDoubleStartArmsOnce(t *testing.T) {
	h := newHarness(t, nil)
	configure(t, h.ctrl, 30)

	if !h.ctrl.Start(context.Background()) {
		t.Fatal("first Start returned false")
	}
	if h.ctrl.Start(context.Background()) {
		t.Error("second Start while running should report false")
	}
	if h.sched.Active() != 1 || h.sched.arms != 1 {
		t.Errorf("active=%d arms=%d, want 1/1", h.sched.Active(), h.sched.arms)
	}

	h.tick(3)
	if got := h.ctrl.Snapshot().RemainingSeconds; got != 27 {
		t.Errorf("remaining = %d, want 27", got)
	}
}

func TestStartZeroDurationIsNoop(t *testing.T) {
	h := newHarness(t, nil)
	configure(t, h.ctrl, 0)

	if h.ctrl.Start(context.Background()) {
		t.Error("Start with zero duration should report false")
	}
	if h.ctrl.Snapshot().State != models.StateIdle || h.sched.Active() != 0 {
		t.Error("zero-duration start changed state")
	}
	if h.notifier.unlocks != 0 {
		t.Error("zero-duration start should not unlock audio")
	}
}

func TestStartUnlocksAudio(t *testing.T) {
	h := newHarness(t, nil)
	h.ctrl.Start(context.Background())
	if h.notifier.unlocks != 1 {
		t.Errorf("unlocks = %d, want 1", h.notifier.unlocks)
	}
}

func TestStaleTickAfterPauseIsIgnored(t *testing.T) {
	h := newHarness(t, nil)
	configure(t, h.ctrl, 20)
	h.ctrl.Start(context.Background())
	stale := h.sched.last

	h.ctrl.Pause()
	stale()
	if got := h.ctrl.Snapshot().RemainingSeconds; got != 20 {
		t.Errorf("stale tick after pause changed remaining to %d", got)
	}

	// 重新开始后旧回调仍然无效
	h.ctrl.Start(context.Background())
	stale()
	if got := h.ctrl.Snapshot().RemainingSeconds; got != 20 {
		t.Errorf("stale tick after restart changed remaining to %d", got)
	}
}

func TestDelayedTickCatchesUp(t *testing.T) {
	h := newHarness(t, nil)
	configure(t, h.ctrl, 60)
	h.ctrl.Start(context.Background())

	h.clock.Advance(5 * time.Second)
	h.sched.Fire()
	if got := h.ctrl.Snapshot().RemainingSeconds; got != 55 {
		t.Errorf("remaining = %d, want 55", got)
	}

	// 进程挂起超过剩余时间
	h.clock.Advance(2 * time.Minute)
	h.sched.Fire()
	if snap := h.ctrl.Snapshot(); snap.State != models.StateIdle || snap.RemainingSeconds != 0 {
		t.Errorf("got %v remaining=%d, want idle at 0", snap.State, snap.RemainingSeconds)
	}
	if h.notifier.count() != 1 {
		t.Errorf("notifications = %d, want 1", h.notifier.count())
	}
}

func TestTransitionsPersistSession(t *testing.T) {
	h := newHarness(t, nil)
	configure(t, h.ctrl, 120)
	start := h.clock.Now()
	h.ctrl.Start(context.Background())

	session, ok := h.store.LoadSession()
	if !ok {
		t.Fatal("running session not saved")
	}
	if !session.Running || session.Paused || session.TotalSeconds != 120 {
		t.Errorf("running session = %+v", session)
	}
	if want := start.Add(120 * time.Second).UnixMilli(); session.TargetEndTime != want {
		t.Errorf("targetEndTime = %d, want %d", session.TargetEndTime, want)
	}
	if session.RunID == "" {
		t.Error("run id not minted")
	}

	// tick 不写入
	h.tick(10)
	session, _ = h.store.LoadSession()
	if session.RemainingSeconds != 120 {
		t.Errorf("tick persisted remaining=%d", session.RemainingSeconds)
	}

	h.ctrl.Pause()
	paused, ok := h.store.LoadSession()
	if !ok || !paused.Paused || paused.Running {
		t.Fatalf("paused session = %+v", paused)
	}
	if paused.RemainingSeconds != 110 || paused.PausedAtTime == nil {
		t.Errorf("paused session = %+v", paused)
	}
	if paused.RunID != session.RunID {
		t.Error("run id changed across pause")
	}

	h.ctrl.Reset()
	if _, ok := h.store.LoadSession(); ok {
		t.Error("session not cleared on reset")
	}
}

func TestResumeAfterExpiryWhileAway(t *testing.T) {
	h := newHarness(t, func(s *persistence.Store, now time.Time) {
		s.SaveSession(models.Session{
			RemainingSeconds: 600,
			TotalSeconds:     600,
			Running:          true,
			TargetEndTime:    now.UnixMilli() - 5000,
		})
	})

	snap := h.ctrl.Snapshot()
	if snap.State != models.StateIdle || snap.RemainingSeconds != 0 || snap.TotalSeconds != 600 {
		t.Errorf("got %v %d/%d, want idle 0/600", snap.State, snap.RemainingSeconds, snap.TotalSeconds)
	}
	if h.notifier.count() != 1 {
		t.Errorf("notifications = %d, want 1", h.notifier.count())
	}
	if _, ok := h.store.LoadSession(); ok {
		t.Error("expired session not deleted")
	}
	if h.sched.Active() != 0 {
		t.Error("expired session armed a tick")
	}
}

func TestResumeRunningWhileAway(t *testing.T) {
	h := newHarness(t, func(s *persistence.Store, now time.Time) {
		s.SaveSession(models.Session{
			RemainingSeconds: 600,
			TotalSeconds:     600,
			Running:          true,
			TargetEndTime:    now.UnixMilli() + 10000,
			RunID:            "run-1",
		})
	})

	snap := h.ctrl.Snapshot()
	if snap.State != models.StateRunning || snap.RemainingSeconds != 10 {
		t.Errorf("got %v remaining=%d, want running 10", snap.State, snap.RemainingSeconds)
	}
	if h.sched.Active() != 1 {
		t.Errorf("active ticks = %d, want 1", h.sched.Active())
	}
	h.tick(10)
	if h.notifier.count() != 1 {
		t.Errorf("notifications = %d, want 1", h.notifier.count())
	}
}

func TestResumePausedDoesNotAdvance(t *testing.T) {
	h := newHarness(t, func(s *persistence.Store, now time.Time) {
		pausedAt := now.UnixMilli() - int64(time.Hour/time.Millisecond)
		s.SaveSession(models.Session{
			RemainingSeconds: 42,
			TotalSeconds:     100,
			Paused:           true,
			TargetEndTime:    pausedAt + 42000,
			PausedAtTime:     &pausedAt,
		})
	})

	snap := h.ctrl.Snapshot()
	if snap.State != models.StatePaused || snap.RemainingSeconds != 42 || snap.TotalSeconds != 100 {
		t.Errorf("got %v %d/%d, want paused 42/100", snap.State, snap.RemainingSeconds, snap.TotalSeconds)
	}
	if h.sched.Active() != 0 {
		t.Error("paused session armed a tick")
	}
}

func TestCorruptSettingsFallBackToDefaults(t *testing.T) {
	h := newHarness(t, func(s *persistence.Store, _ time.Time) {
		settings := models.DefaultSettings()
		settings.DurationMinutes = 25
		s.SaveSettings(settings)
	})
	if got := h.ctrl.Snapshot().TotalSeconds; got != 1500 {
		t.Fatalf("stored settings not loaded, total = %d", got)
	}

	log, _ := test.NewNullLogger()
	backend := storage.NewMemoryBackend()
	backend.Put(context.Background(), persistence.SettingsKey,
		[]byte(`{"durationHours":0,"durationMinutes":25,"durationSeconds":0,"soundEnabled":true,"soundType":"gentle","darkMode":false}`))
	ctrl := NewController(Options{
		Store:     persistence.NewStore(backend, log, time.Second),
		Notifier:  &fakeNotifier{},
		Scheduler: newFakeScheduler(),
		Log:       log,
	})
	ctrl.Init()
	defer ctrl.Close()

	if got := ctrl.Settings(); got != models.DefaultSettings() {
		t.Errorf("settings = %+v, want defaults", got)
	}
}

func TestConfigure(t *testing.T) {
	h := newHarness(t, nil)

	tests := []struct {
		name    string
		h, m, s int
		wantErr bool
	}{
		{"valid", 1, 2, 3, false},
		{"zero", 0, 0, 0, false},
		{"max", 23, 59, 59, false},
		{"hours too large", 24, 0, 0, true},
		{"minutes too large", 0, 60, 0, true},
		{"negative seconds", 0, 0, -1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := h.ctrl.Configure(tt.h, tt.m, tt.s)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Configure err = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			snap := h.ctrl.Snapshot()
			want := models.DurationSeconds(tt.h, tt.m, tt.s)
			if snap.RemainingSeconds != want || snap.TotalSeconds != want {
				t.Errorf("idle preview %d/%d, want %d", snap.RemainingSeconds, snap.TotalSeconds, want)
			}
		})
	}
}

func TestConfigureWhileRunningKeepsCountdown(t *testing.T) {
	h := newHarness(t, nil)
	configure(t, h.ctrl, 100)
	h.ctrl.Start(context.Background())
	h.tick(5)

	configure(t, h.ctrl, 10)
	snap := h.ctrl.Snapshot()
	if snap.RemainingSeconds != 95 || snap.TotalSeconds != 100 {
		t.Errorf("live countdown changed to %d/%d", snap.RemainingSeconds, snap.TotalSeconds)
	}

	h.ctrl.Reset()
	if got := h.ctrl.Snapshot().TotalSeconds; got != 10 {
		t.Errorf("reset total = %d, want stored 10", got)
	}
}

func TestApplyPreset(t *testing.T) {
	h := newHarness(t, nil)

	if err := h.ctrl.ApplyPreset("45 min"); err != nil {
		t.Fatalf("ApplyPreset: %v", err)
	}
	if got := h.ctrl.Snapshot().TotalSeconds; got != 45*60 {
		t.Errorf("total = %d, want 2700", got)
	}
	if err := h.ctrl.ApplyPreset("nope"); err != ErrUnknownPreset {
		t.Errorf("err = %v, want ErrUnknownPreset", err)
	}

	h.ctrl.SetPresets([]models.Preset{{Name: "sprint", Minutes: 2}})
	if err := h.ctrl.ApplyPreset("sprint"); err != nil {
		t.Fatalf("ApplyPreset after SetPresets: %v", err)
	}
	if got := h.ctrl.Snapshot().TotalSeconds; got != 120 {
		t.Errorf("total = %d, want 120", got)
	}
}

func TestSettingsSetters(t *testing.T) {
	h := newHarness(t, nil)

	if err := h.ctrl.SetSoundType("kazoo"); err != ErrUnknownSound {
		t.Errorf("SetSoundType err = %v", err)
	}
	if err := h.ctrl.SetVolume(1.5); err != ErrInvalidVolume {
		t.Errorf("SetVolume(1.5) err = %v", err)
	}
	if err := h.ctrl.SetVolume(-0.1); err != ErrInvalidVolume {
		t.Errorf("SetVolume(-0.1) err = %v", err)
	}

	h.ctrl.SetDarkMode(true)
	h.ctrl.SetSoundEnabled(false)
	if err := h.ctrl.SetSoundType(models.SoundDigital); err != nil {
		t.Fatal(err)
	}

	stored, ok := h.store.LoadSettings()
	if !ok {
		t.Fatal("settings not saved")
	}
	if !stored.DarkMode || stored.SoundEnabled || stored.SoundType != models.SoundDigital {
		t.Errorf("stored settings = %+v", stored)
	}
}

func TestToggle(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()

	steps := []models.TimerState{models.StateRunning, models.StatePaused, models.StateRunning}
	for i, want := range steps {
		if !h.ctrl.Toggle(ctx) {
			t.Fatalf("step %d: Toggle returned false", i)
		}
		if got := h.ctrl.Snapshot().State; got != want {
			t.Errorf("step %d: state = %v, want %v", i, got, want)
		}
	}
}

func TestSubscribeSeesCompletion(t *testing.T) {
	h := newHarness(t, nil)
	configure(t, h.ctrl, 1)

	ch, cancel := h.ctrl.Subscribe()
	defer cancel()

	initial := <-ch
	if initial.State != models.StateIdle || initial.RemainingSeconds != 1 {
		t.Fatalf("initial snapshot = %+v", initial)
	}

	h.ctrl.Start(context.Background())
	h.tick(1)

	var states []models.TimerState
	for len(ch) > 0 {
		states = append(states, (<-ch).State)
	}
	want := []models.TimerState{models.StateRunning, models.StateCompleted, models.StateIdle}
	if len(states) != len(want) {
		t.Fatalf("states = %v, want %v", states, want)
	}
	for i := range want {
		if states[i] != want[i] {
			t.Errorf("states = %v, want %v", states, want)
			break
		}
	}
}

func TestCloseEndsSubscriptions(t *testing.T) {
	h := newHarness(t, nil)
	ch, _ := h.ctrl.Subscribe()
	<-ch

	h.ctrl.Start(context.Background())
	h.ctrl.Close()

	for range ch {
	}
	if h.sched.Active() != 0 {
		t.Error("tick still armed after Close")
	}
	if _, ok := h.store.LoadSession(); !ok {
		t.Error("Close should keep the session for the next start")
	}
}

func TestTickerSchedulerStops(t *testing.T) {
	var mu sync.Mutex
	calls := 0
	cancel := TickerScheduler().Every(5*time.Millisecond, func() {
		mu.Lock()
		calls++
		mu.Unlock()
	})

	time.Sleep(40 * time.Millisecond)
	cancel()
	cancel()

	mu.Lock()
	seen := calls
	mu.Unlock()
	if seen == 0 {
		t.Fatal("scheduler never fired")
	}

	time.Sleep(30 * time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	// 取消时可能正有一次回调在执行
	if calls > seen+1 {
		t.Errorf("callbacks continued after cancel: %d -> %d", seen, calls)
	}
}
