package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"login-agent/internal/application/port/output"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

var _ output.LoggerPort = (*LoggerAdapter)(nil)

type Config struct {
	// Dir holds the per-run JSON log file; empty disables the file core.
	Dir        string
	Name       string
	Level      string
	Console    bool
	MaxSizeMB  int
	MaxBackups int
	Compress   bool
}

func DefaultConfig(name string) Config {
	return Config{
		Dir:        "log",
		Name:       name,
		Level:      "info",
		Console:    false,
		MaxSizeMB:  20,
		MaxBackups: 5,
	}
}

type LoggerAdapter struct {
	sugar  *zap.SugaredLogger
	closer io.Closer
	path   string
}

func NewLoggerAdapter(cfg Config) (*LoggerAdapter, error) {
	level := zap.NewAtomicLevel()
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level.SetLevel(zap.InfoLevel)
	}

	var (
		cores  []zapcore.Core
		closer io.Closer
		path   string
	)

	if cfg.Dir != "" {
		if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
			return nil, fmt.Errorf("create log dir: %w", err)
		}
		path = filepath.Join(cfg.Dir, fmt.Sprintf("%s_%s.log", time.Now().Format("2006-01-02_15-04-05"), sanitize(cfg.Name)))

		rotator := &lumberjack.Logger{
			Filename:   path,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			Compress:   cfg.Compress,
		}
		cores = append(cores, zapcore.NewCore(jsonEncoder(), zapcore.AddSync(rotator), level))
		closer = rotator
	}

	if cfg.Console {
		cores = append(cores, zapcore.NewCore(consoleEncoder(), zapcore.Lock(os.Stderr), level))
	}

	return newAdapter(zapcore.NewTee(cores...), closer, path), nil
}

// NewWithCore builds an adapter over an existing core, mainly for tests.
func NewWithCore(core zapcore.Core) *LoggerAdapter {
	return newAdapter(core, nil, "")
}

func newAdapter(core zapcore.Core, closer io.Closer, path string) *LoggerAdapter {
	l := zap.New(core, zap.AddStacktrace(zap.ErrorLevel))
	return &LoggerAdapter{sugar: l.Sugar(), closer: closer, path: path}
}

func jsonEncoder() zapcore.Encoder {
	cfg := zap.NewProductionEncoderConfig()
	cfg.TimeKey = "timestamp"
	cfg.MessageKey = "message"
	cfg.EncodeTime = zapcore.TimeEncoderOfLayout(time.RFC3339)
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder
	return zapcore.NewJSONEncoder(cfg)
}

func consoleEncoder() zapcore.Encoder {
	cfg := zap.NewDevelopmentEncoderConfig()
	cfg.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05.000")
	cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	return zapcore.NewConsoleEncoder(cfg)
}

// Path is the JSON log file, empty when file logging is off.
func (l *LoggerAdapter) Path() string {
	return l.path
}

func (l *LoggerAdapter) Debug(msg string, args ...any) {
	l.sugar.Debugw(msg, args...)
}

func (l *LoggerAdapter) Info(msg string, args ...any) {
	l.sugar.Infow(msg, args...)
}

func (l *LoggerAdapter) Warn(msg string, args ...any) {
	l.sugar.Warnw(msg, args...)
}

func (l *LoggerAdapter) Error(msg string, args ...any) {
	l.sugar.Errorw(msg, args...)
}

func (l *LoggerAdapter) WithField(key string, value any) output.LoggerPort {
	return &LoggerAdapter{
		sugar:  l.sugar.With(key, value),
		closer: l.closer,
		path:   l.path,
	}
}

func (l *LoggerAdapter) WithFields(fields map[string]any) output.LoggerPort {
	args := make([]any, 0, len(fields)*2)
	for k, v := range fields {
		args = append(args, k, v)
	}
	return &LoggerAdapter{
		sugar:  l.sugar.With(args...),
		closer: l.closer,
		path:   l.path,
	}
}

func (l *LoggerAdapter) Close() error {
	_ = l.sugar.Sync()
	if l.closer == nil {
		return nil
	}
	return l.closer.Close()
}

func sanitize(s string) string {
	s = strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			return r
		}
		return '_'
	}, s)
	s = strings.Trim(s, "_")
	if s == "" {
		return "run"
	}
	if len(s) > 60 {
		s = s[:60]
	}
	return s
}
