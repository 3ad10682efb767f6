package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

type Log struct {
	LogLevel zapcore.Level `yaml:"level" envconfig:"LOG_LEVEL"`
	// Sink is a file path; when set, logs are also written there with rotation.
	Sink       string `yaml:"sink" envconfig:"LOG_SINK"`
	MaxSizeMB  int    `yaml:"maxSizeMB" envconfig:"LOG_MAX_SIZE_MB" default:"100"`
	MaxBackups int    `yaml:"maxBackups" envconfig:"LOG_MAX_BACKUPS" default:"3"`
	MaxAgeDays int    `yaml:"maxAgeDays" envconfig:"LOG_MAX_AGE_DAYS" default:"28"`
}

func NewLogger(cfg Log, name string) *zap.Logger {
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encoder := zapcore.NewJSONEncoder(encCfg)

	level := zap.NewAtomicLevelAt(cfg.LogLevel)
	cores := []zapcore.Core{
		zapcore.NewCore(encoder, zapcore.Lock(os.Stdout), level),
	}
	if cfg.Sink != "" {
		sink := &lumberjack.Logger{
			Filename:   cfg.Sink,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
			Compress:   true,
		}
		cores = append(cores, zapcore.NewCore(encoder, zapcore.AddSync(sink), level))
	}

	return zap.New(zapcore.NewTee(cores...),
		zap.AddCaller(),
		zap.AddStacktrace(zapcore.ErrorLevel),
	).Named(name)
}
