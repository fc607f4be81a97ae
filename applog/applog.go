package applog

import (
	"fmt"
	"match-handler/build"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Logger = zap.Logger

// LogEntry is a single zap entry with its fields, buffered by the async sinks.
type LogEntry struct {
	Entry  *zapcore.Entry
	Fields []zap.Field
}

const (
	asyncSinkBufferSize     = 4096
	asyncSinkShutdownWindow = 500 * time.Millisecond
)

var (
	opts = []zap.Option{
		zap.AddCaller(),
	}
	globalLogger  = zap.New(newConsoleCore(zapcore.AddSync(os.Stdout), zapcore.InfoLevel), opts...)
	loggerPtr     atomic.Pointer[zap.Logger]
	asyncSinks    []*asyncSink
	logFile       *os.File
	acceptingLogs int32 = 1
)

func init() {
	loggerPtr.Store(globalLogger)
}

func current() *Logger {
	return loggerPtr.Load()
}

func isAccepting() bool {
	return atomic.LoadInt32(&acceptingLogs) == 1
}

func Info(msg string, fields ...zapcore.Field) {
	if !isAccepting() {
		return
	}
	current().WithOptions(zap.AddCallerSkip(1)).Info(msg, fields...)
}

func Warn(msg string, fields ...zapcore.Field) {
	if !isAccepting() {
		return
	}
	current().WithOptions(zap.AddCallerSkip(1)).Warn(msg, fields...)
}

func Debug(msg string, fields ...zapcore.Field) {
	if !isAccepting() {
		return
	}
	current().WithOptions(zap.AddCallerSkip(1)).Debug(msg, fields...)
}

func Error(msg string, fields ...zapcore.Field) {
	if !isAccepting() {
		return
	}
	current().WithOptions(zap.AddCallerSkip(1)).Error(msg, fields...)
}

func Fatal(msg string, fields ...zapcore.Field) {
	current().WithOptions(zap.AddCallerSkip(1)).Fatal(msg, fields...)
}

func LogStartupInfo(launchArgs interface{}) {
	buildInfo := build.GetBuildInfo()

	Info("Match handler started",
		zap.String("buildCommit", buildInfo.CommitOrUnknown()),
		zap.String("buildTime", buildInfo.CommitTime),
		zap.Any("launchArgs", launchArgs),
	)
}

func GetLogger() *Logger {
	return current()
}

// Initialize replaces the bootstrap stdout logger with the console + file pair.
// Console lines stay human-readable since the front end scrapes stdout for markers.
func Initialize(rawLogLevel int, logPath string) error {
	logDir := logPath
	if logDir == "" {
		workdir, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to get current working directory: %w", err)
		}
		logDir = filepath.Join(workdir, "logs")
	}

	if err := os.MkdirAll(logDir, os.ModePerm); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	logFilename := filepath.Join(
		logDir,
		fmt.Sprintf("match_handler_%s.log", time.Now().Format("2006-01-02_15-04-05")),
	)

	var err error
	logFile, err = os.OpenFile(logFilename, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file '%s': %w", logFilename, err)
	}

	logLevel := safeGetLogLevelOrDefault(rawLogLevel)

	consoleSink := newAsyncSink(newConsoleCore(zapcore.AddSync(os.Stdout), logLevel), asyncSinkBufferSize)
	fileSink := newAsyncSink(
		zapcore.NewCore(zapcore.NewJSONEncoder(getEncoderConfig()), zapcore.AddSync(logFile), logLevel),
		asyncSinkBufferSize,
	)
	asyncSinks = []*asyncSink{consoleSink, fileSink}

	globalLogger = zap.New(zapcore.NewTee(consoleSink, fileSink), opts...)
	setLogger(globalLogger)
	atomic.StoreInt32(&acceptingLogs, 1)
	return nil
}

// Shutdown stops accepting new entries and drains the async sinks with a bounded wait.
func Shutdown() {
	atomic.StoreInt32(&acceptingLogs, 0)

	for _, sink := range asyncSinks {
		sink.Shutdown(asyncSinkShutdownWindow)
		_ = sink.Sync()
	}
	asyncSinks = nil

	if logFile != nil {
		_ = logFile.Close()
		logFile = nil
	}
}

func safeGetLogLevelOrDefault(rawLogLevel int) zapcore.Level {
	level := zapcore.Level(rawLogLevel)
	if level < zapcore.DebugLevel || level > zapcore.FatalLevel {
		return zapcore.InfoLevel
	}
	return level
}

func getEncoderConfig() zapcore.EncoderConfig {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "time"
	encoderConfig.EncodeTime = func(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
		enc.AppendString(t.UTC().Format(time.RFC3339)) // Ensure UTC
	}
	return encoderConfig
}

func newConsoleCore(ws zapcore.WriteSyncer, level zapcore.Level) zapcore.Core {
	encoderConfig := getEncoderConfig()
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	return zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig), ws, level)
}

func setLogger(l *Logger) {
	loggerPtr.Store(l)
	zap.ReplaceGlobals(l)
}
