package observability

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	EnvLogLevel   = "GHOSLERCTL_LOG_LEVEL"
	EnvLogNoColor = "GHOSLERCTL_LOG_NOCOLOR"
)

// InitLogger configures the process-wide logger. Operational logging goes
// to stderr; stdout is reserved for command output.
func InitLogger(app string) zerolog.Logger {
	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
		NoColor:    noColorFromEnv(),
	}
	logger := zerolog.New(output).
		Level(levelFromEnv(zerolog.InfoLevel)).
		With().Timestamp().Str("app", app).Logger()
	log.Logger = logger
	return logger
}

// InitTestLogger quiets the process-wide logger for test runs. Env
// overrides still apply so a failing test can be rerun verbosely.
func InitTestLogger() zerolog.Logger {
	output := zerolog.ConsoleWriter{
		Out:     os.Stderr,
		NoColor: true,
	}
	logger := zerolog.New(output).
		Level(levelFromEnv(zerolog.WarnLevel)).
		With().Logger()
	log.Logger = logger
	return logger
}

func levelFromEnv(fallback zerolog.Level) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(EnvLogLevel))) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "disabled", "disable", "off", "none":
		return zerolog.Disabled
	default:
		return fallback
	}
}

func noColorFromEnv() bool {
	v, err := strconv.ParseBool(strings.TrimSpace(os.Getenv(EnvLogNoColor)))
	if err != nil {
		return false
	}
	return v
}
