package timer

import (
	"context"
	"errors"
	"sync"
	"time"

	"FocusTimer/internal/models"
	"FocusTimer/internal/resume"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var (
	ErrInvalidDuration = errors.New("duration out of range")
	ErrUnknownSound    = errors.New("unknown sound type")
	ErrInvalidVolume   = errors.New("volume must be between 0 and 1")
	ErrUnknownPreset   = errors.New("unknown preset")
)

// Notifier 提示音的出口，Notify 不能阻塞
type Notifier interface {
	EnsureUnlocked(ctx context.Context) bool
	Notify(t models.SoundType, volume float64)
}

type SessionStore interface {
	LoadSettings() (models.Settings, bool)
	SaveSettings(models.Settings)
	SaveSession(models.Session)
	ClearSession()
	ResumeSession(now time.Time) (resume.LiveState, bool)
}

type Options struct {
	Store     SessionStore
	Notifier  Notifier
	Clock     Clock
	Scheduler Scheduler
	Presets   []models.Preset
	Log       logrus.FieldLogger
	// 默认一秒
	TickInterval time.Duration
}

const subscriberBuffer = 16

// Controller 倒计时状态机。
// 运行中最多只有一个周期回调；状态变化时保存会话，每次 tick 不保存。
type Controller struct {
	mu sync.Mutex

	store     SessionStore
	notifier  Notifier
	clock     Clock
	scheduler Scheduler
	presets   []models.Preset
	log       logrus.FieldLogger
	interval  time.Duration

	settings  models.Settings
	state     models.TimerState
	remaining int
	total     int
	targetEnd time.Time
	runID     string
	notified  bool

	cancelTick func()
	tickGen    uint64

	subs    map[int]chan models.Snapshot
	nextSub int
	closed  bool
}

func NewController(opts Options) *Controller {
	if opts.Clock == nil {
		opts.Clock = SystemClock()
	}
	if opts.Scheduler == nil {
		opts.Scheduler = TickerScheduler()
	}
	if opts.TickInterval <= 0 {
		opts.TickInterval = time.Second
	}
	if opts.Log == nil {
		opts.Log = logrus.StandardLogger()
	}

	settings := models.DefaultSettings()
	return &Controller{
		store:     opts.Store,
		notifier:  opts.Notifier,
		clock:     opts.Clock,
		scheduler: opts.Scheduler,
		presets:   append([]models.Preset(nil), opts.Presets...),
		log:       opts.Log.WithField("component", "timer"),
		interval:  opts.TickInterval,
		settings:  settings,
		state:     models.StateIdle,
		remaining: settings.TotalSeconds(),
		total:     settings.TotalSeconds(),
		subs:      make(map[int]chan models.Snapshot),
	}
}

// Init 读取保存的设置，并从上次的会话恢复
func (c *Controller) Init() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if settings, ok := c.store.LoadSettings(); ok {
		c.settings = settings
	} else {
		c.settings = models.DefaultSettings()
	}
	c.total = c.settings.TotalSeconds()
	c.remaining = c.total

	live, ok := c.store.ResumeSession(c.clock.Now())
	if !ok {
		c.publish()
		return
	}

	c.total = live.TotalSeconds
	c.remaining = live.RemainingSeconds
	c.runID = live.RunID
	log := c.log.WithFields(logrus.Fields{"run_id": c.runID, "remaining": c.remaining})

	switch {
	case live.Expired:
		// 离开期间到点，仍然需要提示一次；记录已由 store 删除
		log.Info("resumed timer had already expired")
		c.notified = false
		c.finish(false)
	case live.Running:
		log.Info("resuming running timer")
		c.state = models.StateRunning
		c.targetEnd = live.TargetEnd
		c.arm()
		c.publish()
	case live.Paused:
		log.Info("resuming paused timer")
		c.state = models.StatePaused
		c.publish()
	default:
		c.publish()
	}
}

// Start 新开始或从暂停继续。配置时长为 0 或已在运行时返回 false。
func (c *Controller) Start(ctx context.Context) bool {
	c.mu.Lock()
	canStart := c.state == models.StatePaused ||
		(c.state == models.StateIdle && c.settings.TotalSeconds() > 0)
	c.mu.Unlock()
	if !canStart {
		return false
	}

	// 用户操作，先解锁音频输出
	c.notifier.EnsureUnlocked(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.state {
	case models.StatePaused:
	case models.StateIdle:
		total := c.settings.TotalSeconds()
		if total == 0 {
			return false
		}
		c.total = total
		c.remaining = total
		c.notified = false
		c.runID = uuid.NewString()
	default:
		return false
	}

	now := c.clock.Now()
	c.state = models.StateRunning
	c.targetEnd = now.Add(time.Duration(c.remaining) * time.Second)
	c.arm()
	c.saveSession(now)
	c.publish()

	c.log.WithFields(logrus.Fields{"run_id": c.runID, "remaining": c.remaining}).Info("timer started")
	return true
}

func (c *Controller) Pause() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != models.StateRunning {
		return false
	}
	c.disarm()
	c.state = models.StatePaused
	c.saveSession(c.clock.Now())
	c.publish()

	c.log.WithFields(logrus.Fields{"run_id": c.runID, "remaining": c.remaining}).Info("timer paused")
	return true
}

// Reset 回到空闲，剩余时间恢复为当前配置的时长
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	wasActive := c.state != models.StateIdle
	c.disarm()
	c.state = models.StateIdle
	c.total = c.settings.TotalSeconds()
	c.remaining = c.total
	c.notified = false
	if wasActive {
		c.store.ClearSession()
		c.log.WithField("run_id", c.runID).Info("timer reset")
	}
	c.publish()
}

// Toggle 运行中暂停，否则开始
func (c *Controller) Toggle(ctx context.Context) bool {
	c.mu.Lock()
	running := c.state == models.StateRunning
	c.mu.Unlock()

	if running {
		return c.Pause()
	}
	return c.Start(ctx)
}

// Configure 修改时长。只有空闲时才会立即更新显示的倒计时。
func (c *Controller) Configure(h, m, s int) error {
	if !models.ValidDuration(h, m, s) {
		return ErrInvalidDuration
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.settings.DurationHours = h
	c.settings.DurationMinutes = m
	c.settings.DurationSeconds = s
	c.store.SaveSettings(c.settings)

	if c.state == models.StateIdle {
		c.total = c.settings.TotalSeconds()
		c.remaining = c.total
	}
	c.publish()
	return nil
}

func (c *Controller) ApplyPreset(name string) error {
	for _, p := range c.Presets() {
		if p.Name == name {
			return c.Configure(p.Hours, p.Minutes, p.Seconds)
		}
	}
	return ErrUnknownPreset
}

func (c *Controller) Presets() []models.Preset {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]models.Preset(nil), c.presets...)
}

// SetPresets 配置文件变化时调用
func (c *Controller) SetPresets(presets []models.Preset) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.presets = append([]models.Preset(nil), presets...)
}

func (c *Controller) SetSoundEnabled(enabled bool) {
	c.updateSettings(func(s *models.Settings) { s.SoundEnabled = enabled })
}

func (c *Controller) SetSoundType(t models.SoundType) error {
	if !t.Valid() {
		return ErrUnknownSound
	}
	c.updateSettings(func(s *models.Settings) { s.SoundType = t })
	return nil
}

func (c *Controller) SetVolume(v float64) error {
	if v < 0 || v > 1 {
		return ErrInvalidVolume
	}
	c.updateSettings(func(s *models.Settings) { s.Volume = v })
	return nil
}

func (c *Controller) SetDarkMode(dark bool) {
	c.updateSettings(func(s *models.Settings) { s.DarkMode = dark })
}

func (c *Controller) updateSettings(fn func(*models.Settings)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fn(&c.settings)
	c.store.SaveSettings(c.settings)
	c.publish()
}

func (c *Controller) Settings() models.Settings {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.settings
}

func (c *Controller) Snapshot() models.Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshot()
}

// Subscribe 立即收到当前状态，之后每次 tick 和状态变化都会推送。
// 消费太慢时中间的快照会被丢弃。
func (c *Controller) Subscribe() (<-chan models.Snapshot, func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ch := make(chan models.Snapshot, subscriberBuffer)
	if c.closed {
		close(ch)
		return ch, func() {}
	}

	id := c.nextSub
	c.nextSub++
	c.subs[id] = ch
	ch <- c.snapshot()

	return ch, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if sub, ok := c.subs[id]; ok {
			delete(c.subs, id)
			close(sub)
		}
	}
}

// Close 停止计时并关闭所有订阅。会话记录保留，下次启动时恢复。
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.disarm()
	c.closed = true
	for id, ch := range c.subs {
		delete(c.subs, id)
		close(ch)
	}
}

func (c *Controller) tick(gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	// 已取消或被替换的回调
	if gen != c.tickGen || c.cancelTick == nil || c.state != models.StateRunning {
		return
	}

	next := c.remaining - 1
	if anchored := resume.RemainingSeconds(c.targetEnd, c.clock.Now()); anchored < next {
		next = anchored
	}
	if next <= 0 {
		c.finish(true)
		return
	}
	c.remaining = next
	c.publish()
}

// finish 到点：发布一次 Completed，然后回到空闲并提示
func (c *Controller) finish(clearSession bool) {
	c.disarm()
	c.remaining = 0
	c.state = models.StateCompleted
	c.publish()

	c.state = models.StateIdle
	if clearSession {
		c.store.ClearSession()
	}
	c.notifyOnce()
	c.publish()

	c.log.WithField("run_id", c.runID).Info("timer completed")
}

func (c *Controller) notifyOnce() {
	if c.notified || c.total <= 0 {
		return
	}
	c.notified = true
	if !c.settings.SoundEnabled {
		return
	}
	c.notifier.Notify(c.settings.SoundType, c.settings.Volume)
}

func (c *Controller) arm() {
	c.disarm()
	c.tickGen++
	gen := c.tickGen
	c.cancelTick = c.scheduler.Every(c.interval, func() { c.tick(gen) })
}

func (c *Controller) disarm() {
	if c.cancelTick != nil {
		c.cancelTick()
		c.cancelTick = nil
	}
}

func (c *Controller) saveSession(now time.Time) {
	session := models.Session{
		RemainingSeconds: c.remaining,
		TotalSeconds:     c.total,
		Running:          c.state == models.StateRunning,
		Paused:           c.state == models.StatePaused,
		RunID:            c.runID,
	}
	if session.Running {
		session.TargetEndTime = c.targetEnd.UnixMilli()
	} else {
		session.TargetEndTime = now.Add(time.Duration(c.remaining) * time.Second).UnixMilli()
		pausedAt := now.UnixMilli()
		session.PausedAtTime = &pausedAt
	}
	c.store.SaveSession(session)
}

func (c *Controller) snapshot() models.Snapshot {
	return models.Snapshot{
		State:            c.state,
		RemainingSeconds: c.remaining,
		TotalSeconds:     c.total,
		Progress:         models.Progress(c.remaining, c.total),
		Hours:            c.settings.DurationHours,
		Minutes:          c.settings.DurationMinutes,
		Seconds:          c.settings.DurationSeconds,
		SoundEnabled:     c.settings.SoundEnabled,
		SoundType:        c.settings.SoundType,
		Volume:           c.settings.Volume,
		DarkMode:         c.settings.DarkMode,
	}
}

func (c *Controller) publish() {
	snap := c.snapshot()
	for _, ch := range c.subs {
		select {
		case ch <- snap:
		default:
		}
	}
}
