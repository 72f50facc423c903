package main

import (
	"context"
	"flag"
	"log"

	"FocusTimer/internal/app"
	"FocusTimer/internal/ui"

	fyneapp "fyne.io/fyne/v2/app"
)

func main() {
	configPath := flag.String("config", "", "config file (default ~/.focus-timer/config.yaml)")
	flag.Parse()

	// 初始化计时器和存储
	a, err := app.New(context.Background(), app.Options{
		ConfigPath:       *configPath,
		FallbackToMemory: true,
	})
	if err != nil {
		log.Fatal(err)
	}
	defer a.Close()

	stopWatch, err := a.Config.WatchConfig(a.OnConfigChange)
	if err != nil {
		a.Log.WithError(err).Warn("config changes will not be picked up")
	} else {
		defer stopWatch()
	}

	// 创建应用
	myApp := fyneapp.NewWithID("com.focustimer.desktop")

	// 创建主窗口
	mainWindow := ui.NewMainWindow(myApp, a.Config.GetConfig(), a.Timer, a.Synth, a.Log)
	mainWindow.Show()
}
