// Package staticLog 全局日志, 未调用 Init 时输出到 stderr, 级别 info。
package staticLog

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

var Log = newDefault()

type Options struct {
	Level      string // debug / info / warn / error
	File       string // 为空则只写 stderr
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

func newDefault() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, TimestampFormat: "2006-01-02 15:04:05.000"})
	l.SetLevel(logrus.InfoLevel)
	return l
}

// Init 按配置重设 Log 的级别和输出, 文件输出由 lumberjack 负责切割
func Init(opt Options) error {
	level := logrus.InfoLevel
	if opt.Level != "" {
		lv, err := logrus.ParseLevel(opt.Level)
		if err != nil {
			return err
		}
		level = lv
	}
	Log.SetLevel(level)
	Log.SetOutput(writer(opt))
	return nil
}

func writer(opt Options) io.Writer {
	if opt.File == "" {
		return os.Stderr
	}
	rotate := &lumberjack.Logger{
		Filename:   opt.File,
		MaxSize:    opt.MaxSizeMB,
		MaxBackups: opt.MaxBackups,
		MaxAge:     opt.MaxAgeDays,
		Compress:   opt.Compress,
	}
	return io.MultiWriter(os.Stderr, rotate)
}
