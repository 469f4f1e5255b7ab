package config

import (
	"os"

	"github.com/cra-payroll/payroll-engine/internal/calc"
	"github.com/rs/zerolog"
)

// zerologAdapter wires zerolog into the calc.Logger interface so the engine
// and calculators never import zerolog directly. This is the one place the
// concrete logging library meets the pure calculation path.
type zerologAdapter struct {
	logger zerolog.Logger
}

// NewLogger builds a calc.Logger backed by zerolog, console-formatted for a
// terminal and level-filtered per cfg.LogLevel.
func NewLogger(cfg Config) calc.Logger {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	writer := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}
	logger := zerolog.New(writer).Level(level).With().Timestamp().Logger()
	return &zerologAdapter{logger: logger}
}

func (a *zerologAdapter) Debugf(format string, args ...any) { a.logger.Debug().Msgf(format, args...) }
func (a *zerologAdapter) Infof(format string, args ...any)  { a.logger.Info().Msgf(format, args...) }
func (a *zerologAdapter) Warnf(format string, args ...any)  { a.logger.Warn().Msgf(format, args...) }
func (a *zerologAdapter) Errorf(format string, args ...any) { a.logger.Error().Msgf(format, args...) }
