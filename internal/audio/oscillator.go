package audio

import "math"

type Waveform int

const (
	Sine Waveform = iota
	Triangle
	Sawtooth
	Square
)

func (w Waveform) String() string {
	switch w {
	case Sine:
		return "sine"
	case Triangle:
		return "triangle"
	case Sawtooth:
		return "sawtooth"
	case Square:
		return "square"
	}
	return "unknown"
}

// oscillator 相位累加器，phase 取值 [0,1)
type oscillator struct {
	wave  Waveform
	phase float64
}

func (o *oscillator) next(freq, sampleRate float64) float64 {
	v := waveValue(o.wave, o.phase)
	o.phase += freq / sampleRate
	o.phase -= math.Floor(o.phase)
	return v
}

func waveValue(w Waveform, phase float64) float64 {
	switch w {
	case Triangle:
		switch {
		case phase < 0.25:
			return 4 * phase
		case phase < 0.75:
			return 2 - 4*phase
		default:
			return 4*phase - 4
		}
	case Sawtooth:
		return 2 * (phase - math.Floor(phase+0.5))
	case Square:
		if phase < 0.5 {
			return 1
		}
		return -1
	default:
		return math.Sin(2 * math.Pi * phase)
	}
}
