package debug

import (
	"fmt"
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	enabled     = os.Getenv("OT_DEBUG") != ""
	verboseMode = false
	quietMode   = false

	logMu  sync.Mutex
	logger *zap.Logger
	level  = zap.NewAtomicLevelAt(zap.WarnLevel)
)

func Enabled() bool {
	return enabled || verboseMode
}

// SetVerbose enables verbose/debug output
func SetVerbose(verbose bool) {
	verboseMode = verbose
	syncLevel()
}

// SetQuiet enables quiet mode (suppress non-essential output)
func SetQuiet(quiet bool) {
	quietMode = quiet
	syncLevel()
}

// IsQuiet returns true if quiet mode is enabled
func IsQuiet() bool {
	return quietMode
}

func syncLevel() {
	switch {
	case Enabled():
		level.SetLevel(zap.DebugLevel)
	case quietMode:
		level.SetLevel(zap.ErrorLevel)
	default:
		level.SetLevel(zap.WarnLevel)
	}
}

func Logf(format string, args ...interface{}) {
	if enabled || verboseMode {
		fmt.Fprintf(os.Stderr, format, args...)
	}
}

// PrintNormal prints output unless quiet mode is enabled
// Use this for normal informational output that should be suppressed in quiet mode
func PrintNormal(format string, args ...interface{}) {
	if !quietMode {
		fmt.Printf(format, args...)
	}
}

// PrintlnNormal prints a line unless quiet mode is enabled
func PrintlnNormal(args ...interface{}) {
	if !quietMode {
		fmt.Println(args...)
	}
}

// Logger returns the process-wide structured logger. It writes console
// lines to stderr at warn level, or debug level when verbose.
func Logger() *zap.Logger {
	logMu.Lock()
	defer logMu.Unlock()
	if logger == nil {
		syncLevel()
		logger = newLogger()
	}
	return logger
}

// SetLogger replaces the process logger, e.g. with zaptest or zap.NewNop.
func SetLogger(l *zap.Logger) {
	logMu.Lock()
	defer logMu.Unlock()
	logger = l
}

// Sync flushes buffered log entries.
func Sync() {
	logMu.Lock()
	l := logger
	logMu.Unlock()
	if l != nil {
		_ = l.Sync()
	}
}

func newLogger() *zap.Logger {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderCfg.EncodeLevel = zapcore.CapitalLevelEncoder

	cfg := zap.Config{
		Encoding:         "console",
		Level:            level,
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
		EncoderConfig:    encoderCfg,
	}
	l, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return l
}
