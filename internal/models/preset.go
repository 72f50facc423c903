package models

type Preset struct {
	Name        string `yaml:"name" json:"name"`
	Hours       int    `yaml:"hours" json:"hours"`
	Minutes     int    `yaml:"minutes" json:"minutes"`
	Seconds     int    `yaml:"seconds" json:"seconds"`
	Description string `yaml:"description" json:"description"`
}

func (p Preset) TotalSeconds() int {
	return DurationSeconds(p.Hours, p.Minutes, p.Seconds)
}

// 默认预设
func DefaultPresets() []Preset {
	return []Preset{
		{Name: "5 min", Minutes: 5, Description: "Quick break"},
		{Name: "15 min", Minutes: 15, Description: "Short focus session"},
		{Name: "25 min", Minutes: 25, Description: "Pomodoro technique"},
		{Name: "45 min", Minutes: 45, Description: "Deep work session"},
		{Name: "1 hour", Hours: 1, Description: "Long focus block"},
	}
}
