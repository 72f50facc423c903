package audio

import (
	"time"

	"FocusTimer/internal/models"
)

// Automation 一条参数自动化事件，At 为相对声音开始的秒数
type Automation struct {
	Kind  RampKind
	Value float64
	At    float64
	// Scaled 为 true 时 Value 乘以音量
	Scaled bool
}

// Spec 一种提示音的完整参数：振荡器 → 滤波器 → 增益包络
type Spec struct {
	Wave      Waveform
	Frequency []Automation
	Filter    FilterType
	Cutoff    float64
	Q         float64
	Envelope  []Automation
	Stop      time.Duration
}

var specs = map[models.SoundType]Spec{
	models.SoundGentle: {
		Wave: Sine,
		Frequency: []Automation{
			{Kind: SetValue, Value: 440, At: 0},
			{Kind: LinearRamp, Value: 880, At: 0.3},
			{Kind: LinearRamp, Value: 440, At: 0.6},
		},
		Filter: Lowpass,
		Cutoff: 2000,
		Envelope: []Automation{
			{Kind: SetValue, Value: 0, At: 0},
			{Kind: LinearRamp, Value: 0.3, At: 0.05, Scaled: true},
			{Kind: LinearRamp, Value: 0.2, At: 0.3, Scaled: true},
			{Kind: LinearRamp, Value: 0, At: 0.8},
		},
		Stop: 800 * time.Millisecond,
	},
	models.SoundChime: {
		Wave: Triangle,
		Frequency: []Automation{
			{Kind: SetValue, Value: 523.25, At: 0},   // C5
			{Kind: SetValue, Value: 659.25, At: 0.2}, // E5
			{Kind: SetValue, Value: 783.99, At: 0.4}, // G5
		},
		Filter: Lowpass,
		Cutoff: 3000,
		Envelope: []Automation{
			{Kind: SetValue, Value: 0, At: 0},
			{Kind: LinearRamp, Value: 0.4, At: 0.01, Scaled: true},
			{Kind: ExponentialRamp, Value: 0.001, At: 1.0},
		},
		Stop: 1000 * time.Millisecond,
	},
	models.SoundBell: {
		Wave: Sawtooth,
		Frequency: []Automation{
			{Kind: SetValue, Value: 800, At: 0},
		},
		Filter: Bandpass,
		Cutoff: 800,
		Q:      10,
		Envelope: []Automation{
			{Kind: SetValue, Value: 0, At: 0},
			{Kind: LinearRamp, Value: 0.5, At: 0.01, Scaled: true},
			{Kind: ExponentialRamp, Value: 0.001, At: 1.2},
		},
		Stop: 1200 * time.Millisecond,
	},
	models.SoundDigital: {
		Wave: Square,
		Frequency: []Automation{
			{Kind: SetValue, Value: 1000, At: 0},
			{Kind: SetValue, Value: 1200, At: 0.1},
			{Kind: SetValue, Value: 1000, At: 0.2},
		},
		Filter: Lowpass,
		Cutoff: 2000,
		Envelope: []Automation{
			{Kind: SetValue, Value: 0, At: 0},
			{Kind: LinearRamp, Value: 0.3, At: 0.01, Scaled: true},
			{Kind: LinearRamp, Value: 0, At: 0.3},
		},
		Stop: 300 * time.Millisecond,
	},
}

// unlockSpec 增益为零的短音，只用于打开输出设备
var unlockSpec = Spec{
	Wave:      Sine,
	Frequency: []Automation{{Kind: SetValue, Value: 440, At: 0}},
	Filter:    NoFilter,
	Envelope:  []Automation{{Kind: SetValue, Value: 0, At: 0}},
	Stop:      10 * time.Millisecond,
}

func SpecFor(t models.SoundType) (Spec, bool) {
	s, ok := specs[t]
	return s, ok
}

// Duration 提示音从开始到振荡器停止的时长，未知类型返回 0
func Duration(t models.SoundType) time.Duration {
	return specs[t].Stop
}

func (s Spec) frequencyParam() *Param {
	p := NewParam(440)
	apply(p, s.Frequency, 1)
	return p
}

func (s Spec) gainParam(volume float64) *Param {
	p := NewParam(1)
	apply(p, s.Envelope, volume)
	return p
}

func apply(p *Param, events []Automation, volume float64) {
	for _, a := range events {
		v := a.Value
		if a.Scaled {
			v *= volume
		}
		switch a.Kind {
		case LinearRamp:
			p.LinearRampToValueAtTime(v, a.At)
		case ExponentialRamp:
			p.ExponentialRampToValueAtTime(v, a.At)
		default:
			p.SetValueAtTime(v, a.At)
		}
	}
}
