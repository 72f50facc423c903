package logger

import (
	"io"
	"os"

	"FocusTimer/internal/config"

	"github.com/sirupsen/logrus"
)

// New 根据配置创建 logrus 实例，未知级别回退到 info
func New(cfg config.LogConfig) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stdout)

	if cfg.Format == "json" {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}

	SetLevel(log, cfg.Level)
	return log
}

// SetLevel 用于配置热更新
func SetLevel(log *logrus.Logger, level string) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		log.WithField("level", level).Warn("unknown log level, using info")
		lvl = logrus.InfoLevel
	}
	log.SetLevel(lvl)
}

// Discard 测试用，不输出任何内容
func Discard() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}
