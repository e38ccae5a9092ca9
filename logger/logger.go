// Package logger configures zerolog for the process.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// logger fields
const (
	PACKAGE   = "pkg"
	REQUEST   = "request_id"
	IDENTITY  = "identity"
	COMPONENT = "component"
)

func init() {
	zerolog.TimeFieldFormat = time.RFC3339Nano
}

// ParseLevel maps a config string to a zerolog level, defaulting to info
func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// New builds the root logger and installs it as the global zerolog logger.
// format "console" gives human readable output, anything else JSON.
func New(level, format string) zerolog.Logger {
	return NewWithWriter(os.Stdout, level, format)
}

func NewWithWriter(w io.Writer, level, format string) zerolog.Logger {
	if strings.EqualFold(format, "console") {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	}
	l := zerolog.New(w).Level(ParseLevel(level)).With().Timestamp().Logger()
	log.Logger = l
	return l
}

// GormWriter satisfies gorm's logger.Writer so SQL warnings and errors
// land in the structured log instead of stdout
type GormWriter struct {
	log zerolog.Logger
}

func NewGormWriter(l zerolog.Logger) GormWriter {
	return GormWriter{log: l}
}

func (w GormWriter) Printf(format string, args ...interface{}) {
	w.log.Warn().Msg(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

// NewPackageLogger returns a child logger tagged with pkg={pkg}
func NewPackageLogger(parent zerolog.Logger, pkg string) zerolog.Logger {
	return parent.With().Str(PACKAGE, pkg).Logger()
}
