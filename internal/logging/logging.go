package logging

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/muesli/termenv"
)

// Flags mirrors the CLI logging flags.
type Flags struct {
	Verbose bool
	Quiet   bool
	NoColor bool
	JSON    bool
}

// NewLogger creates a logger writing to w with the default level.
func NewLogger(w io.Writer) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: false,
		Level:           log.WarnLevel,
	})
}

// Configure applies CLI flags to a logger. Quiet wins over verbose.
func Configure(l *log.Logger, flags Flags) {
	switch {
	case flags.Quiet:
		l.SetLevel(log.ErrorLevel)
	case flags.Verbose:
		l.SetLevel(log.DebugLevel)
	}
	if flags.JSON {
		l.SetFormatter(log.JSONFormatter)
	}
	if flags.NoColor {
		l.SetColorProfile(termenv.Ascii)
	}
}
