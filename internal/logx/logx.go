// Package logx provides leveled, context-aware logging for mob.
package logx

import (
	"context"
	"fmt"
	"io"
	"strings"
)

type ctxKey struct{}

// Level is a log severity. Messages below the logger's minimum level
// are discarded.
type Level int

const (
	LevelTrace Level = iota
	LevelDebug
	LevelInfo
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelTrace:
		return "trace"
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelError:
		return "error"
	}
	return fmt.Sprintf("level(%d)", int(l))
}

// Logger writes leveled output, optionally tagged with a name so log
// lines can be attributed to the task that produced them.
type Logger struct {
	out    io.Writer
	min    Level
	name   string
	tagged bool
}

// New creates a new logger that discards everything below min.
// When tagged is true, lines carry a "mob <level>:" prefix, which is
// useful when output is piped into a larger build log.
func New(out io.Writer, min Level, tagged bool) *Logger {
	return &Logger{out: out, min: min, tagged: tagged}
}

// WithLogger attaches a logger to the context.
func WithLogger(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// FromContext retrieves the logger from context.
// Returns a no-op logger if none is attached.
func FromContext(ctx context.Context) *Logger {
	if l, ok := ctx.Value(ctxKey{}).(*Logger); ok {
		return l
	}
	return &Logger{out: io.Discard, min: LevelError}
}

// Named returns a derived logger whose lines are attributed to name.
func (l *Logger) Named(name string) *Logger {
	d := *l
	d.name = name
	return &d
}

// Enabled reports whether messages at lv would be written.
func (l *Logger) Enabled(lv Level) bool {
	return lv >= l.min
}

// Logf writes a formatted message at the given level.
func (l *Logger) Logf(lv Level, format string, args ...any) {
	if !l.Enabled(lv) {
		return
	}
	var b strings.Builder
	if l.tagged {
		fmt.Fprintf(&b, "mob %s: ", lv)
	}
	if l.name != "" {
		b.WriteString(l.name)
		b.WriteString(": ")
	}
	fmt.Fprintf(&b, format, args...)
	b.WriteByte('\n')
	io.WriteString(l.out, b.String())
}

func (l *Logger) Tracef(format string, args ...any) { l.Logf(LevelTrace, format, args...) }
func (l *Logger) Debugf(format string, args ...any) { l.Logf(LevelDebug, format, args...) }
func (l *Logger) Infof(format string, args ...any)  { l.Logf(LevelInfo, format, args...) }
func (l *Logger) Errorf(format string, args ...any) { l.Logf(LevelError, format, args...) }

// Command logs an external command execution at debug level.
func (l *Logger) Command(name string, args ...string) {
	if l.Enabled(LevelDebug) {
		l.Debugf("$ %s %s", name, strings.Join(args, " "))
	}
}
