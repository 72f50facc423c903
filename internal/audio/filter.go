package audio

import "math"

type FilterType int

const (
	NoFilter FilterType = iota
	Lowpass
	Bandpass
)

func (f FilterType) String() string {
	switch f {
	case Lowpass:
		return "lowpass"
	case Bandpass:
		return "bandpass"
	}
	return "none"
}

// DefaultQ 低通滤波器未指定 Q 时使用的巴特沃斯值
const DefaultQ = math.Sqrt2 / 2

// biquad RBJ cookbook 二阶滤波器，直接 I 型
type biquad struct {
	b0, b1, b2, a1, a2 float64
	x1, x2, y1, y2     float64
}

func newBiquad(kind FilterType, cutoff, q, sampleRate float64) *biquad {
	if kind == NoFilter {
		return &biquad{b0: 1}
	}
	if q <= 0 {
		q = DefaultQ
	}
	nyquist := sampleRate / 2
	if cutoff >= nyquist {
		cutoff = nyquist * 0.99
	}

	w0 := 2 * math.Pi * cutoff / sampleRate
	cosW := math.Cos(w0)
	alpha := math.Sin(w0) / (2 * q)

	var b0, b1, b2 float64
	switch kind {
	case Bandpass:
		// 峰值增益 0 dB
		b0, b1, b2 = alpha, 0, -alpha
	default:
		b0 = (1 - cosW) / 2
		b1 = 1 - cosW
		b2 = (1 - cosW) / 2
	}
	a0 := 1 + alpha
	a1 := -2 * cosW
	a2 := 1 - alpha

	return &biquad{
		b0: b0 / a0, b1: b1 / a0, b2: b2 / a0,
		a1: a1 / a0, a2: a2 / a0,
	}
}

func (f *biquad) process(x float64) float64 {
	y := f.b0*x + f.b1*f.x1 + f.b2*f.x2 - f.a1*f.y1 - f.a2*f.y2
	f.x2, f.x1 = f.x1, x
	f.y2, f.y1 = f.y1, y
	return y
}
