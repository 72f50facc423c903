package audio

import (
	"errors"
	"io"

	"FocusTimer/internal/models"

	"github.com/faiface/beep"
	"github.com/faiface/beep/wav"
)

var ErrUnknownSound = errors.New("unknown sound type")

// Render 将提示音写成 16 位立体声 WAV
func Render(w io.WriteSeeker, t models.SoundType, volume float64, rate beep.SampleRate) error {
	spec, ok := SpecFor(t)
	if !ok {
		return ErrUnknownSound
	}
	format := beep.Format{
		SampleRate:  rate,
		NumChannels: 2,
		Precision:   2,
	}
	return wav.Encode(w, NewVoice(spec, volume, rate), format)
}
