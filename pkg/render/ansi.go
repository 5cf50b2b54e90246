package render

import (
	"fmt"
	"io"
	"strconv"

	"github.com/fatih/color"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/papyruslex/pkg/document"
	"github.com/walteh/papyruslex/pkg/fold"
	"github.com/walteh/papyruslex/pkg/style"
)

type ANSIOptions struct {
	Theme    Theme
	TabWidth int
	// Color forces escapes on or off regardless of the terminal.
	Color       bool
	LineNumbers bool
	// FoldGutter prints a column with + on fold headers and | inside blocks.
	FoldGutter bool
}

// ANSI writes the styled lines of buf to w.
func ANSI(w io.Writer, buf *document.Buffer, opts ANSIOptions) error {
	if opts.Theme == nil {
		opts.Theme = DefaultTheme()
	}

	colors := make(map[style.Style]*color.Color, len(opts.Theme))
	for s, attrs := range opts.Theme {
		c := color.New(attrs...)
		if opts.Color {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		colors[s] = c
	}

	last := lastLine(buf)
	numWidth := len(strconv.Itoa(last + 1))
	text := buf.Bytes()

	for line := 0; line <= last; line++ {
		if opts.LineNumbers {
			if _, err := fmt.Fprintf(w, "%*d ", numWidth, line+1); err != nil {
				return errors.Errorf("writing line %d: %w", line+1, err)
			}
		}
		if opts.FoldGutter {
			if _, err := io.WriteString(w, gutter(fold.Decode(buf.LevelAt(line)))+" "); err != nil {
				return errors.Errorf("writing line %d: %w", line+1, err)
			}
		}

		col := 0
		for _, run := range buf.LineRuns(line) {
			var chunk string
			chunk, col = expandTabs(string(text[run.Pos:run.End()]), col, opts.TabWidth)
			if c, ok := colors[run.Style]; ok {
				chunk = c.Sprint(chunk)
			}
			if _, err := io.WriteString(w, chunk); err != nil {
				return errors.Errorf("writing line %d: %w", line+1, err)
			}
		}

		if _, err := io.WriteString(w, "\n"); err != nil {
			return errors.Errorf("writing line %d: %w", line+1, err)
		}
	}
	return nil
}

func gutter(l fold.Level) string {
	switch {
	case l.Header:
		return "+"
	case l.Depth > 0:
		return "|"
	default:
		return " "
	}
}
