// Package log provides structured logging for the somnus library.
//
// The package wraps rs/zerolog behind a small Logger interface so that
// estimators can log training and prediction lifecycle events with
// consistent structured keys without depending on a concrete backend.
//
// Example usage:
//
//	log.SetupLogger("info")
//	logger := log.GetLoggerWithName("ensemble").With(
//		log.ModelNameKey, "RandomForestRegressor",
//		log.ComponentKey, "ensemble",
//	)
//	logger.Info("Training started", log.SamplesKey, n, log.FeaturesKey, p)
package log

import (
	"os"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

// Structured logging keys shared by all estimators.
const (
	ModelNameKey  = "model"
	ComponentKey  = "component"
	OperationKey  = "operation"
	PhaseKey      = "phase"
	SamplesKey    = "samples"
	FeaturesKey   = "features"
	TargetKey     = "target"
	DurationMsKey = "duration_ms"
	PredsKey      = "predictions"
	FoldsKey      = "folds"
)

// Operation and phase values used with OperationKey / PhaseKey.
const (
	OperationFit     = "fit"
	OperationPredict = "predict"
	OperationEncode  = "encode"
	PhaseTraining    = "training"
	PhaseInference   = "inference"
)

// Logger is the logging interface used throughout the library.
// Key-value pairs are passed variadically: ("samples", 452, "features", 10).
type Logger interface {
	Debug(msg string, keysAndValues ...interface{})
	Info(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
	With(keysAndValues ...interface{}) Logger
}

var (
	mu         sync.RWMutex
	baseLogger = zerolog.New(os.Stderr).With().Timestamp().Logger().Level(zerolog.WarnLevel)
)

// SetupLogger configures the global log level ("debug", "info", "warn",
// "error"). Unrecognized levels fall back to "info".
func SetupLogger(level string) {
	mu.Lock()
	defer mu.Unlock()
	baseLogger = zerolog.New(os.Stderr).With().Timestamp().Logger().Level(ToLogLevel(level))
}

// ToLogLevel converts a level name to a zerolog.Level.
func ToLogLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// GetLoggerWithName returns a Logger scoped to the given subsystem name.
func GetLoggerWithName(name string) Logger {
	mu.RLock()
	defer mu.RUnlock()
	return &zerologLogger{logger: baseLogger.With().Str("logger", name).Logger()}
}

type zerologLogger struct {
	logger zerolog.Logger
}

func (z *zerologLogger) Debug(msg string, keysAndValues ...interface{}) {
	z.logger.Debug().Fields(toFields(keysAndValues)).Msg(msg)
}

func (z *zerologLogger) Info(msg string, keysAndValues ...interface{}) {
	z.logger.Info().Fields(toFields(keysAndValues)).Msg(msg)
}

func (z *zerologLogger) Warn(msg string, keysAndValues ...interface{}) {
	z.logger.Warn().Fields(toFields(keysAndValues)).Msg(msg)
}

func (z *zerologLogger) Error(msg string, keysAndValues ...interface{}) {
	z.logger.Error().Fields(toFields(keysAndValues)).Msg(msg)
}

func (z *zerologLogger) With(keysAndValues ...interface{}) Logger {
	return &zerologLogger{logger: z.logger.With().Fields(toFields(keysAndValues)).Logger()}
}

// toFields converts a flat key-value list into the map zerolog expects.
// A trailing key without a value is dropped.
func toFields(keysAndValues []interface{}) map[string]interface{} {
	fields := make(map[string]interface{}, len(keysAndValues)/2)
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok {
			continue
		}
		fields[key] = keysAndValues[i+1]
	}
	return fields
}
