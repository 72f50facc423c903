package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"FocusTimer/internal/audio"
	"FocusTimer/internal/models"

	"github.com/faiface/beep"
	"github.com/sirupsen/logrus"
)

// soundgen 把提示音渲染成 WAV 文件，方便离线试听
func main() {
	sound := flag.String("sound", "", "sound type: gentle|chime|bell|digital (empty renders all)")
	volume := flag.Float64("volume", 0.5, "volume between 0 and 1")
	rate := flag.Int("rate", 44100, "sample rate")
	out := flag.String("out", ".", "output directory")
	flag.Parse()

	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	if *volume < 0 || *volume > 1 {
		log.Fatalf("volume %v out of range [0,1]", *volume)
	}

	types := models.SoundTypes
	if *sound != "" {
		t := models.SoundType(*sound)
		if !t.Valid() {
			log.Fatalf("unknown sound type %q", *sound)
		}
		types = []models.SoundType{t}
	}

	if err := os.MkdirAll(*out, 0755); err != nil {
		log.Fatal(err)
	}

	for _, t := range types {
		path := filepath.Join(*out, fmt.Sprintf("%s.wav", t))
		if err := render(path, t, *volume, beep.SampleRate(*rate)); err != nil {
			log.WithError(err).WithField("sound", t).Fatal("render failed")
		}
		log.WithFields(logrus.Fields{"sound": t, "file": path}).Info("rendered")
	}
}

func render(path string, t models.SoundType, volume float64, rate beep.SampleRate) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := audio.Render(f, t, volume, rate); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
