package log

import (
	"fmt"
	"io"
	"os"
	"time"

	charmlog "github.com/charmbracelet/log"
)

type Logger interface {
	Error(format string, v ...any)
	Warning(format string, v ...any)
	Info(format string, v ...any)
	Debug(format string, v ...any)
	Close() error
}

// New creates a logger that writes to the file at path,
// or to stderr if path is empty.
func New(path string) (Logger, error) {
	return NewWithLevel(path, "info")
}

// NewWithLevel is like New but drops records below the given level
// (debug, info, warn or error).
func NewWithLevel(path string, level string) (Logger, error) {
	lvl, err := charmlog.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}

	var w io.Writer = os.Stderr
	var file *os.File
	if path != "" {
		file, err = os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return nil, err
		}
		w = file
	}

	return &CharmLog{
		l: charmlog.NewWithOptions(w, charmlog.Options{
			ReportTimestamp: true,
			TimeFormat:      time.DateTime,
			Level:           lvl,
		}),
		file: file,
	}, nil
}

// NewWriterLog creates a logger that writes to w
func NewWriterLog(w io.Writer) Logger {
	return &CharmLog{
		l: charmlog.NewWithOptions(w, charmlog.Options{
			ReportTimestamp: true,
			TimeFormat:      time.DateTime,
		}),
	}
}

type CharmLog struct {
	l    *charmlog.Logger
	file *os.File
}

func (l *CharmLog) Error(format string, v ...any) {
	l.l.Errorf(format, v...)
}

func (l *CharmLog) Warning(format string, v ...any) {
	l.l.Warnf(format, v...)
}

func (l *CharmLog) Info(format string, v ...any) {
	l.l.Infof(format, v...)
}

func (l *CharmLog) Debug(format string, v ...any) {
	l.l.Debugf(format, v...)
}

func (l *CharmLog) Close() error {
	if l.file != nil {
		return l.file.Close()
	}
	return nil
}

type EmptyLog struct{}

func NewEmptyLog() Logger { return EmptyLog{} }

func (l EmptyLog) Error(string, ...any)   {}
func (l EmptyLog) Warning(string, ...any) {}
func (l EmptyLog) Info(string, ...any)    {}
func (l EmptyLog) Debug(string, ...any)   {}
func (l EmptyLog) Close() error           { return nil }
