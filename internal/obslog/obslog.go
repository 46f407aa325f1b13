// Package obslog is the ambient structured logger (§ logging): a
// leveled wrapper around log.Logger with color-coded level prefixes,
// generalizing the teacher's ExecutorOptions.EnableDebugLogging +
// fmt.Printf("[Component] ...") ad hoc tracing into one shared logger
// every package can take a dependency on instead of each rolling its
// own debug flag.
package obslog

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/fatih/color"
)

// Level is a logger's minimum severity.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "LOG"
	}
}

// Logger is a component-tagged leveled logger, cheap to construct and
// safe to pass by value (it only holds pointers).
type Logger struct {
	out       *log.Logger
	component string
	min       Level
	useColor  bool
}

// New builds a Logger writing to w, tagged with component (rendered as
// "[component]" on every line, matching the teacher's bracketed debug
// tags), at minimum severity min. Color is auto-detected the same way
// the teacher's OutputFormatter does: only when w is a *os.File
// pointing at stdout or stderr.
func New(w io.Writer, component string, min Level) Logger {
	if w == nil {
		w = os.Stderr
	}
	useColor := false
	if f, ok := w.(*os.File); ok {
		fd := f.Fd()
		useColor = fd == uintptr(1) || fd == uintptr(2)
	}
	return Logger{
		out:       log.New(w, "", log.LstdFlags),
		component: component,
		min:       min,
		useColor:  useColor,
	}
}

// With returns a Logger for a sub-component, sharing the same output
// and minimum level.
func (l Logger) With(component string) Logger {
	l.component = component
	return l
}

func (l Logger) levelColor(level Level) *color.Color {
	switch level {
	case LevelDebug:
		return color.New(color.FgCyan)
	case LevelInfo:
		return color.New(color.FgGreen)
	case LevelWarn:
		return color.New(color.FgYellow)
	case LevelError:
		return color.New(color.FgRed)
	default:
		return color.New(color.Reset)
	}
}

func (l Logger) log(level Level, format string, args ...interface{}) {
	if level < l.min {
		return
	}
	tag := level.String()
	if l.useColor {
		tag = l.levelColor(level).Sprint(tag)
	}
	msg := fmt.Sprintf(format, args...)
	if l.component != "" {
		l.out.Printf("%s [%s] %s", tag, l.component, msg)
		return
	}
	l.out.Printf("%s %s", tag, msg)
}

func (l Logger) Debugf(format string, args ...interface{}) { l.log(LevelDebug, format, args...) }
func (l Logger) Infof(format string, args ...interface{})  { l.log(LevelInfo, format, args...) }
func (l Logger) Warnf(format string, args ...interface{})  { l.log(LevelWarn, format, args...) }
func (l Logger) Errorf(format string, args ...interface{}) { l.log(LevelError, format, args...) }

// Nop returns a Logger that discards everything, for tests and for
// callers that don't want logging overhead.
func Nop() Logger {
	return New(io.Discard, "", LevelError+1)
}
