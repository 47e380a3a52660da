// Package logging is the small leveled logger shared by cmd/cpmatch and
// the internal packages. It writes level-prefixed, colorized lines to
// stderr and plain progress lines to stdout, the same split the teacher
// uses between error reporting and throughput reporting.
package logging

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/fatih/color"
)

type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

var levelColor = map[Level]*color.Color{
	LevelDebug: color.New(color.FgHiBlack),
	LevelInfo:  color.New(color.FgCyan),
	LevelWarn:  color.New(color.FgYellow, color.Bold),
	LevelError: color.New(color.FgRed, color.Bold),
}

var levelName = map[Level]string{
	LevelDebug: "DEBUG",
	LevelInfo:  "INFO",
	LevelWarn:  "WARN",
	LevelError: "ERROR",
}

// Logger writes leveled lines to stderr and unadorned progress lines to
// stdout. Safe for concurrent use by many worker goroutines.
type Logger struct {
	mu       sync.Mutex
	err      io.Writer
	out      io.Writer
	minLevel Level
}

// New builds a Logger writing to stderr/stdout, filtering anything below
// minLevel.
func New(minLevel Level) *Logger {
	return &Logger{err: os.Stderr, out: os.Stdout, minLevel: minLevel}
}

func (l *Logger) log(level Level, format string, args ...any) {
	if level < l.minLevel {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	prefix := levelColor[level].Sprintf("[%s]", levelName[level])
	fmt.Fprintf(l.err, "%s %s\n", prefix, fmt.Sprintf(format, args...))
}

func (l *Logger) Debug(format string, args ...any) { l.log(LevelDebug, format, args...) }
func (l *Logger) Info(format string, args ...any)  { l.log(LevelInfo, format, args...) }
func (l *Logger) Warn(format string, args ...any)  { l.log(LevelWarn, format, args...) }
func (l *Logger) Error(format string, args ...any) { l.log(LevelError, format, args...) }

// Progress writes an unadorned line to stdout — used for the per-batch
// throughput lines the main process emits as batches complete.
func (l *Logger) Progress(format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.out, format+"\n", args...)
}

// Throughput formats a standard "N records in Ns (R rec/s)" progress
// line, matching the teacher's rec/s logging convention.
func Throughput(records int, elapsed time.Duration) string {
	rate := float64(records) / elapsed.Seconds()
	return fmt.Sprintf("%d records in %s (%.1f rec/s)", records, elapsed.Round(time.Millisecond), rate)
}
