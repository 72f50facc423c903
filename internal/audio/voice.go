package audio

import (
	"math"

	"github.com/faiface/beep"
)

// Voice 一次提示音的信号图，实现 beep.Streamer。
// 每次播放都新建一个，播放到 Spec.Stop 为止。
type Voice struct {
	rate   float64
	osc    oscillator
	freq   *Param
	gain   *Param
	filter *biquad
	pos    int
	length int
}

func NewVoice(spec Spec, volume float64, sampleRate beep.SampleRate) *Voice {
	rate := float64(sampleRate)
	return &Voice{
		rate:   rate,
		osc:    oscillator{wave: spec.Wave},
		freq:   spec.frequencyParam(),
		gain:   spec.gainParam(clampVolume(volume)),
		filter: newBiquad(spec.Filter, spec.Cutoff, spec.Q, rate),
		length: int(math.Round(spec.Stop.Seconds() * rate)),
	}
}

func (v *Voice) Stream(samples [][2]float64) (n int, ok bool) {
	if v.pos >= v.length {
		return 0, false
	}
	for i := range samples {
		if v.pos >= v.length {
			break
		}
		t := float64(v.pos) / v.rate
		x := v.osc.next(v.freq.ValueAt(t), v.rate)
		y := v.filter.process(x) * v.gain.ValueAt(t)
		samples[i][0] = y
		samples[i][1] = y
		v.pos++
		n++
	}
	return n, true
}

func (v *Voice) Err() error {
	return nil
}

// Len 总帧数
func (v *Voice) Len() int {
	return v.length
}

func (v *Voice) Position() int {
	return v.pos
}

func clampVolume(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
