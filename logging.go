package macpack

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// log is the package logger. It writes human-readable output to stderr until
// InitLogging replaces it with the configured setup.
var log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
	Level(zerolog.InfoLevel).
	With().Timestamp().Logger()

// InitLogging configures the package logger. Output always goes to the
// console; if logFilename is non-empty the raw event stream is appended to
// that file as well. The returned file (nil when no file logging was
// requested) should be closed by the caller when the program exits.
func InitLogging(verbose bool, logFilename string) (*os.File, error) {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	var out io.Writer = zerolog.ConsoleWriter{Out: os.Stderr}
	var logfile *os.File
	if logFilename != "" {
		f, err := os.OpenFile(logFilename, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
		if err != nil {
			return nil, err
		}
		logfile = f
		out = zerolog.MultiLevelWriter(out, f)
	}
	log = zerolog.New(out).Level(level).With().Timestamp().Logger()
	return logfile, nil
}
