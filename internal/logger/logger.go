// Package logger builds the process-wide zap.Logger: JSON to a
// lumberjack-rotated file under <root>/log, and optionally teed to stdout
// for interactive runs. Every other package logs through zap.L()/zap.S()
// once New has installed it via zap.ReplaceGlobals.
package logger

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// New builds and installs the global zap logger. rootDir is the directory
// under which "log/homeapi.log" is rotated; tee mirrors output to stdout,
// which is useful in local development and CI.
func New(rootDir string, tee bool) (*zap.Logger, error) {
	rotator := &lumberjack.Logger{
		Filename:   filepath.Join(rootDir, "log", "homeapi.log"),
		MaxSize:    100, // megabytes
		MaxBackups: 7,
		MaxAge:     30, // days
		Compress:   true,
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "ts"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), zapcore.AddSync(rotator), zapcore.InfoLevel)
	if tee {
		consoleCore := zapcore.NewCore(
			zapcore.NewConsoleEncoder(encCfg), zapcore.AddSync(os.Stdout), zapcore.DebugLevel)
		core = zapcore.NewTee(core, consoleCore)
	}

	lg := zap.New(core, zap.AddCaller())
	zap.ReplaceGlobals(lg)
	lg.Info("logger online", zap.Bool("tee", tee), zap.String("root", rootDir))
	return lg, nil
}
