package cmd

import (
	"io"
	"time"

	"github.com/rs/zerolog"
)

// newLogger returns the logger handed to every collaborator. Logs go to w,
// which is stderr so they never mix with the reports.
func newLogger(w io.Writer, level string, pretty bool) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.WarnLevel
	}
	if pretty {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.TimeOnly}
	}
	return zerolog.New(w).Level(lvl).With().Timestamp().Logger()
}
