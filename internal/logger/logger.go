package logger

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// New returns a console logger at level, teeing into a rotated file when
// file is not empty. The returned closer flushes and closes that file.
func New(level, file string) (zerolog.Logger, io.Closer) {
	return newLogger(os.Stdout, level, file)
}

func newLogger(console io.Writer, level, file string) (zerolog.Logger, io.Closer) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	writers := []io.Writer{zerolog.ConsoleWriter{Out: console, TimeFormat: "15:04:05"}}
	var closer io.Closer = nopCloser{}
	if file != "" {
		lj := &lumberjack.Logger{
			Filename:   file,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
		}
		writers = append(writers, lj)
		closer = lj
	}

	log := zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(lvl).
		With().
		Timestamp().
		Logger()
	return log, closer
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
