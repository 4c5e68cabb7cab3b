package log

import (
	"errors"
	"fmt"
	"time"

	charmlog "github.com/charmbracelet/log"
)

type Level int

const (
	DebugLevel Level = iota
	InfoLevel
	WarningLevel
	ErrorLevel
)

func (l Level) String() string {
	switch l {
	case DebugLevel:
		return "DEBUG"
	case InfoLevel:
		return "INFO"
	case WarningLevel:
		return "WARN"
	case ErrorLevel:
		return "ERROR"
	}
	return "?"
}

// Record is a single formatted log message
type Record struct {
	Level   Level
	Message string
	Time    time.Time
}

// ParseLevel parses debug, info, warn or error
func ParseLevel(level string) (Level, error) {
	lvl, err := charmlog.ParseLevel(level)
	if err != nil {
		return 0, fmt.Errorf("log level: %w", err)
	}
	switch {
	case lvl <= charmlog.DebugLevel:
		return DebugLevel, nil
	case lvl <= charmlog.InfoLevel:
		return InfoLevel, nil
	case lvl <= charmlog.WarnLevel:
		return WarningLevel, nil
	}
	return ErrorLevel, nil
}

// ChanLog sends records into a channel, so they can be displayed by the UI.
// Records are dropped if nobody is reading the channel.
type ChanLog struct {
	ch    chan<- Record
	level Level
	now   func() time.Time
}

// NewChanLog creates a ChanLog that drops records below the given level
func NewChanLog(ch chan<- Record, level string) (*ChanLog, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}
	return &ChanLog{ch: ch, level: lvl, now: time.Now}, nil
}

func (l *ChanLog) send(level Level, format string, v ...any) {
	if level < l.level {
		return
	}
	r := Record{Level: level, Message: fmt.Sprintf(format, v...), Time: l.now()}
	select {
	case l.ch <- r:
	default:
	}
}

func (l *ChanLog) Error(format string, v ...any)   { l.send(ErrorLevel, format, v...) }
func (l *ChanLog) Warning(format string, v ...any) { l.send(WarningLevel, format, v...) }
func (l *ChanLog) Info(format string, v ...any)    { l.send(InfoLevel, format, v...) }
func (l *ChanLog) Debug(format string, v ...any)   { l.send(DebugLevel, format, v...) }
func (l *ChanLog) Close() error                    { return nil }

type multiLog []Logger

// Tee returns a logger that duplicates every record to all the given loggers
func Tee(loggers ...Logger) Logger {
	return multiLog(loggers)
}

func (m multiLog) Error(format string, v ...any) {
	for _, l := range m {
		l.Error(format, v...)
	}
}

func (m multiLog) Warning(format string, v ...any) {
	for _, l := range m {
		l.Warning(format, v...)
	}
}

func (m multiLog) Info(format string, v ...any) {
	for _, l := range m {
		l.Info(format, v...)
	}
}

func (m multiLog) Debug(format string, v ...any) {
	for _, l := range m {
		l.Debug(format, v...)
	}
}

func (m multiLog) Close() error {
	var errs []error
	for _, l := range m {
		if err := l.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
