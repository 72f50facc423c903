package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"FocusTimer/internal/api"
	"FocusTimer/internal/app"

	"github.com/gin-gonic/gin"
)

func main() {
	configPath := flag.String("config", "", "config file (default ~/.focus-timer/config.yaml)")
	addr := flag.String("addr", "", "listen address, overrides api.addr")
	flag.Parse()

	a, err := app.New(context.Background(), app.Options{ConfigPath: *configPath})
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

	listen := a.Config.GetConfig().API.Addr
	if *addr != "" {
		listen = *addr
	}

	gin.SetMode(gin.ReleaseMode)
	router := api.Router{Logger: a.Log, Timer: a.Timer, Sound: a.Synth}
	server := &http.Server{
		Addr:    listen,
		Handler: router.SetUpRouter(),
	}

	serverDone := make(chan error, 1)
	go func() {
		a.Log.WithField("addr", listen).Info("control API listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverDone <- err
			return
		}
		serverDone <- nil
	}()

	osSignals := make(chan os.Signal, 1)
	signal.Notify(osSignals, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverDone:
		if err != nil {
			a.Log.WithError(err).Error("server stopped")
		}
	case sig := <-osSignals:
		a.Log.WithField("signal", sig.String()).Info("shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		// SSE 连接不会自己结束，先关闭订阅
		a.Timer.Close()
		if err := server.Shutdown(ctx); err != nil {
			a.Log.WithError(err).Warn("error during HTTP shutdown")
		}
		<-serverDone
	}
}
