// Package view is a read-only terminal viewer for lexed documents with
// collapsible folds.
package view

import (
	"context"
	"fmt"
	"strconv"

	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog"

	"github.com/walteh/papyruslex/pkg/document"
	"github.com/walteh/papyruslex/pkg/fold"
	"github.com/walteh/papyruslex/pkg/style"
)

const defaultTabWidth = 4

type Options struct {
	Title    string
	TabWidth int
	// Base is the style of unstyled text; the theme sets foregrounds on it.
	Base  tcell.Style
	Theme map[style.Style]tcell.Color
}

func DefaultTheme() map[style.Style]tcell.Color {
	return map[style.Style]tcell.Color{
		style.Operator:         tcell.ColorSilver,
		style.FlowControl:      tcell.ColorFuchsia,
		style.Type:             tcell.ColorTeal,
		style.Keyword:          tcell.ColorBlue,
		style.Keyword2:         tcell.ColorNavy,
		style.FoldOpen:         tcell.ColorPurple,
		style.FoldMiddle:       tcell.ColorPurple,
		style.FoldClose:        tcell.ColorPurple,
		style.Comment:          tcell.ColorGray,
		style.CommentMultiLine: tcell.ColorGray,
		style.CommentDoc:       tcell.ColorGray,
		style.Number:           tcell.ColorYellow,
		style.String:           tcell.ColorGreen,
		style.Property:         tcell.ColorAqua,
		style.Class:            tcell.ColorOlive,
		style.Function:         tcell.ColorLime,
	}
}

// Viewer draws a document whose styles and fold levels are already set.
type Viewer struct {
	screen tcell.Screen
	buf    *document.Buffer
	opts   Options
	levels []fold.Level

	collapsed map[int]bool
	// top and cursor index into Visible()
	top    int
	cursor int
}

func New(screen tcell.Screen, buf *document.Buffer, opts Options) *Viewer {
	if opts.TabWidth <= 0 {
		opts.TabWidth = defaultTabWidth
	}
	if opts.Theme == nil {
		opts.Theme = DefaultTheme()
	}
	return &Viewer{
		screen:    screen,
		buf:       buf,
		opts:      opts,
		levels:    buf.Levels(),
		collapsed: map[int]bool{},
	}
}

// Visible returns the document lines not hidden inside collapsed folds.
func (v *Viewer) Visible() []int {
	var out []int
	for line := 0; line < len(v.levels); line++ {
		out = append(out, line)
		if !v.collapsed[line] {
			continue
		}
		depth := v.levels[line].Depth
		for line+1 < len(v.levels) && v.levels[line+1].Depth > depth {
			line++
		}
	}
	return out
}

// Cursor returns the document line under the cursor.
func (v *Viewer) Cursor() int {
	vis := v.Visible()
	if len(vis) == 0 {
		return 0
	}
	return vis[min(v.cursor, len(vis)-1)]
}

// Toggle collapses or expands the fold headed at line. Lines that are not
// fold headers are ignored.
func (v *Viewer) Toggle(line int) bool {
	if line < 0 || line >= len(v.levels) || !v.levels[line].Header {
		return false
	}
	v.collapsed[line] = !v.collapsed[line]
	return true
}

func (v *Viewer) rows() int {
	_, h := v.screen.Size()
	return max(h-1, 1)
}

func (v *Viewer) move(delta int) {
	n := len(v.Visible())
	v.cursor = max(0, min(v.cursor+delta, n-1))
	rows := v.rows()
	if v.cursor < v.top {
		v.top = v.cursor
	}
	if v.cursor >= v.top+rows {
		v.top = v.cursor - rows + 1
	}
}

// HandleKey applies a key press. It returns false when the viewer should
// close.
func (v *Viewer) HandleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false
	case tcell.KeyUp:
		v.move(-1)
	case tcell.KeyDown:
		v.move(1)
	case tcell.KeyPgUp:
		v.move(-v.rows())
	case tcell.KeyPgDn:
		v.move(v.rows())
	case tcell.KeyHome:
		v.move(-len(v.levels))
	case tcell.KeyEnd:
		v.move(len(v.levels))
	case tcell.KeyEnter:
		v.Toggle(v.Cursor())
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q':
			return false
		case 'k':
			v.move(-1)
		case 'j':
			v.move(1)
		case 'g':
			v.move(-len(v.levels))
		case 'G':
			v.move(len(v.levels))
		case ' ', 'z':
			v.Toggle(v.Cursor())
		}
	}
	return true
}

// Draw paints the visible lines and a status row.
func (v *Viewer) Draw() {
	s := v.screen
	s.Clear()
	w, _ := s.Size()

	vis := v.Visible()
	numWidth := len(strconv.Itoa(len(v.levels)))
	rows := v.rows()

	for row := 0; row < rows && v.top+row < len(vis); row++ {
		line := vis[v.top+row]
		base := v.opts.Base
		if v.top+row == v.cursor {
			base = base.Reverse(true)
		}

		x := drawText(s, 0, row, fmt.Sprintf("%*d ", numWidth, line+1), v.opts.Base)
		x = drawText(s, x, row, v.gutter(line)+" ", v.opts.Base)
		v.drawLine(x, row, line, base)
	}

	status := fmt.Sprintf(" %s  %d/%d", v.opts.Title, v.Cursor()+1, len(v.levels))
	statusStyle := v.opts.Base.Reverse(true)
	_, h := s.Size()
	for x := 0; x < w; x++ {
		s.SetContent(x, h-1, ' ', nil, statusStyle)
	}
	drawText(s, 0, h-1, status, statusStyle)
	s.Show()
}

func (v *Viewer) gutter(line int) string {
	l := v.levels[line]
	switch {
	case l.Header && v.collapsed[line]:
		return "+"
	case l.Header:
		return "-"
	case l.Depth > 0:
		return "|"
	default:
		return " "
	}
}

func (v *Viewer) drawLine(x, y, line int, base tcell.Style) {
	text := v.buf.Bytes()
	visual := 0
	for _, run := range v.buf.LineRuns(line) {
		st := base
		if c, ok := v.opts.Theme[run.Style]; ok {
			st = st.Foreground(c)
		}
		for _, r := range string(text[run.Pos:run.End()]) {
			if r == '\t' {
				next := (visual/v.opts.TabWidth + 1) * v.opts.TabWidth
				for visual < next {
					v.screen.SetContent(x+visual, y, ' ', nil, st)
					visual++
				}
				continue
			}
			v.screen.SetContent(x+visual, y, r, nil, st)
			visual++
		}
	}
}

func drawText(s tcell.Screen, x, y int, text string, st tcell.Style) int {
	for _, r := range text {
		s.SetContent(x, y, r, nil, st)
		x++
	}
	return x
}

// Run draws and handles events until the user quits or ctx is done.
func (v *Viewer) Run(ctx context.Context) error {
	logger := zerolog.Ctx(ctx)

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = v.screen.PostEvent(tcell.NewEventInterrupt(ctx.Err()))
		case <-done:
		}
	}()

	for {
		v.Draw()
		switch e := v.screen.PollEvent().(type) {
		case nil:
			return nil
		case *tcell.EventResize:
			v.move(0)
			v.screen.Sync()
		case *tcell.EventKey:
			if !v.HandleKey(e) {
				logger.Debug().Int("line", v.Cursor()).Msg("viewer closed")
				return nil
			}
		case *tcell.EventInterrupt:
			if err := ctx.Err(); err != nil {
				return err
			}
		}
	}
}
