package main

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Guliveer/rctop/internal/config"
)

// initLogger creates a zap logger writing structured JSON to the configured
// file. The dashboard owns the terminal, so there is no console output; with
// no file configured logging is disabled.
func initLogger(cfg *config.Config) (*zap.Logger, func(), error) {
	if cfg.Logging.File == "" {
		return zap.NewNop(), func() {}, nil
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "time"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	file, err := os.OpenFile(cfg.Logging.File, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0640)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		zapcore.AddSync(file),
		parseLevel(cfg.Logging.Level),
	)

	logger := zap.New(core)
	return logger, func() {
		_ = logger.Sync()
		_ = file.Close()
	}, nil
}

func parseLevel(s string) zapcore.Level {
	switch strings.ToLower(s) {
	case "debug":
		return zapcore.DebugLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}
