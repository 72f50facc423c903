package audio

import (
	"math"
	"sort"
)

type RampKind int

const (
	SetValue RampKind = iota
	LinearRamp
	ExponentialRamp
)

type paramEvent struct {
	kind  RampKind
	at    float64
	value float64
}

// Param 按时间自动化的参数，语义与 Web Audio 的 AudioParam 一致：
// 斜坡从上一个事件的值开始，到事件时间到达目标值。
type Param struct {
	initial float64
	events  []paramEvent
}

func NewParam(initial float64) *Param {
	return &Param{initial: initial}
}

func (p *Param) insert(e paramEvent) *Param {
	i := sort.Search(len(p.events), func(i int) bool { return p.events[i].at > e.at })
	p.events = append(p.events, paramEvent{})
	copy(p.events[i+1:], p.events[i:])
	p.events[i] = e
	return p
}

func (p *Param) SetValueAtTime(value, at float64) *Param {
	return p.insert(paramEvent{kind: SetValue, at: at, value: value})
}

func (p *Param) LinearRampToValueAtTime(value, at float64) *Param {
	return p.insert(paramEvent{kind: LinearRamp, at: at, value: value})
}

func (p *Param) ExponentialRampToValueAtTime(value, at float64) *Param {
	return p.insert(paramEvent{kind: ExponentialRamp, at: at, value: value})
}

// ValueAt t 为相对声音开始的秒数
func (p *Param) ValueAt(t float64) float64 {
	prevAt, prevValue := 0.0, p.initial

	for _, e := range p.events {
		if t < e.at {
			span := e.at - prevAt
			if span <= 0 {
				return prevValue
			}
			frac := (t - prevAt) / span
			switch e.kind {
			case LinearRamp:
				return prevValue + (e.value-prevValue)*frac
			case ExponentialRamp:
				// 起点为零或符号相反时保持起点值
				if prevValue*e.value <= 0 {
					return prevValue
				}
				return prevValue * math.Pow(e.value/prevValue, frac)
			default:
				return prevValue
			}
		}
		prevAt, prevValue = e.at, e.value
	}
	return prevValue
}
