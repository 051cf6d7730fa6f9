package gologger

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

type ctxKey string

// ReqIDKey is the context key under which HTTP middleware stores the
// request ID.
const ReqIDKey ctxKey = "reqID"

func init() {
	l := NewLogger()
	zerolog.DefaultContextLogger = &l
}

// NewLogger builds the process-wide zerolog logger. Set PRETTY=1 for
// console output and DEBUG=1 to lower the global level.
func NewLogger() zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339Nano

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	if os.Getenv("PRETTY") == "1" {
		logger = logger.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
	if os.Getenv("DEBUG") == "1" {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	return logger
}
