// Package debug builds the zerolog loggers used by the command line tools.
package debug

import (
	"context"
	"fmt"
	"io"
	"reflect"
	"runtime"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// modulePrefix is trimmed from caller package paths.
const modulePrefix = "github.com/walteh/papyruslex/"

const defaultTimeFormat = "2006-01-02T15:04:05.0000Z"

type LoggerOptions struct {
	// Debug lowers the level to debug and adds the caller of every event.
	Debug bool
	// Color forces ANSI output on or off.
	Color bool
	// RunID tags every event; a random one is generated when empty.
	RunID string
}

// NewLogger returns a console logger writing to w.
func NewLogger(w io.Writer, opts LoggerOptions) zerolog.Logger {
	if opts.RunID == "" {
		opts.RunID = uuid.NewString()
	}

	level := zerolog.InfoLevel
	if opts.Debug {
		level = zerolog.DebugLevel
	}

	out := zerolog.ConsoleWriter{Out: w, NoColor: !opts.Color}

	logger := zerolog.New(out).Level(level).With().Str("run", opts.RunID).Logger().
		Hook(CustomTimeHook{})
	if opts.Debug {
		logger = logger.Hook(CustomCallerHook{WithColor: opts.Color})
	}
	return logger
}

// WithLogger attaches NewLogger(w, opts) to ctx.
func WithLogger(ctx context.Context, w io.Writer, opts LoggerOptions) context.Context {
	return NewLogger(w, opts).WithContext(ctx)
}

// skipFrames reads the event's unexported skip count so the caller hook
// reports the same frame zerolog's own Caller() would.
func skipFrames(e *zerolog.Event) int {
	v := reflect.ValueOf(e).Elem()
	field := v.FieldByName("skipFrame")
	if field.IsValid() && field.CanInt() {
		return int(field.Int())
	}
	return 0
}

// CustomTimeHook stamps events with a millisecond time and no zone.
type CustomTimeHook struct {
	Format string
}

func (t CustomTimeHook) Run(e *zerolog.Event, _ zerolog.Level, _ string) {
	format := t.Format
	if format == "" {
		format = defaultTimeFormat
	}
	e.Str(zerolog.TimestampFieldName, time.Now().Format(format))
}

type CustomCallerHook struct {
	WithColor bool
}

func (c CustomCallerHook) Run(e *zerolog.Event, _ zerolog.Level, _ string) {
	pc, file, line, ok := runtime.Caller(skipFrames(e) + 3)
	if !ok {
		return
	}
	fn := runtime.FuncForPC(pc)
	if fn == nil {
		return
	}
	pkg, _ := SplitFuncName(fn.Name())
	e.Str(zerolog.CallerFieldName, FormatCaller(pkg, file, line, c.WithColor))
}

// SplitFuncName splits a runtime function name into its package path and the
// function, keeping any receiver with the function.
func SplitFuncName(name string) (pkg, function string) {
	lastSlash := max(strings.LastIndexByte(name, '/'), 0)
	firstDot := strings.IndexByte(name[lastSlash:], '.')
	if firstDot < 0 {
		return name, ""
	}
	firstDot += lastSlash

	pkg = name[:firstDot]
	function = name[firstDot+1:]

	if before, after, found := strings.Cut(pkg, ".("); found {
		pkg = before
		function = "(" + after + "." + function
	}

	return strings.TrimPrefix(pkg, modulePrefix), function
}

func FormatCaller(pkg, path string, number int, colorize bool) string {
	p := FileNameOfPath(path)
	if colorize {
		p = color.New(color.Bold).Sprint(p)
		num := color.New(color.FgHiRed, color.Bold).Sprintf("%d", number)
		sep := color.New(color.Faint).Sprint(":")
		return fmt.Sprintf("%s%s%s%s%s", pkg, sep, p, sep, num)
	}
	return fmt.Sprintf("%s:%s:%d", pkg, p, number)
}

func FileNameOfPath(path string) string {
	if i := strings.LastIndexByte(path, '/'); i >= 0 {
		return path[i+1:]
	}
	return path
}
