package document

import (
	"github.com/walteh/papyruslex/pkg/fold"
	"github.com/walteh/papyruslex/pkg/position"
	"github.com/walteh/papyruslex/pkg/style"
)

var _ Accessor = (*Buffer)(nil)

// Buffer is an in-memory document holding text plus the style and fold-level
// annotations a lexer writes into it.
type Buffer struct {
	URI     string
	Version int32

	text   []byte
	index  *position.Index
	styles []style.Style
	levels []int
}

func NewBuffer(text string) *Buffer {
	b := &Buffer{}
	b.reset([]byte(text))
	return b
}

func (b *Buffer) reset(text []byte) {
	b.text = text
	b.index = position.NewIndex(text)
	b.styles = make([]style.Style, len(text))
	b.levels = make([]int, b.index.LineCount())
	for i := range b.levels {
		b.levels[i] = fold.Base
	}
}

// SetText replaces the whole content and drops every annotation.
func (b *Buffer) SetText(text string) {
	b.reset([]byte(text))
	b.Version++
}

func (b *Buffer) Text() string { return string(b.text) }

func (b *Buffer) Bytes() []byte { return b.text }

func (b *Buffer) Index() *position.Index { return b.index }

func (b *Buffer) Length() int { return len(b.text) }

func (b *Buffer) ByteAt(pos int) byte {
	if pos < 0 || pos >= len(b.text) {
		return 0
	}
	return b.text[pos]
}

func (b *Buffer) LineCount() int { return b.index.LineCount() }

func (b *Buffer) LineFromPosition(pos int) int { return b.index.LineFromOffset(pos) }

func (b *Buffer) LineStart(line int) int { return b.index.LineStart(line) }

func (b *Buffer) LineEnd(line int) int { return b.index.LineEnd(line) }

// Line returns the content of line without its terminator.
func (b *Buffer) Line(line int) string {
	return string(b.text[b.LineStart(line):b.LineEnd(line)])
}

func (b *Buffer) SetStyle(pos, length int, s style.Style) {
	if pos < 0 {
		length += pos
		pos = 0
	}
	end := pos + length
	if end > len(b.styles) {
		end = len(b.styles)
	}
	for i := pos; i < end; i++ {
		b.styles[i] = s
	}
}

func (b *Buffer) StyleAt(pos int) style.Style {
	if pos < 0 || pos >= len(b.styles) {
		return style.Default
	}
	return b.styles[pos]
}

// Styles returns a copy of the per-byte styles.
func (b *Buffer) Styles() []style.Style {
	out := make([]style.Style, len(b.styles))
	copy(out, b.styles)
	return out
}

// InitStyle is the style a host passes as initStyle when lexing from the
// start of line: the style of the last byte before it.
func (b *Buffer) InitStyle(line int) style.Style {
	if line <= 0 {
		return style.Default
	}
	return b.StyleAt(b.LineStart(line) - 1)
}

func (b *Buffer) LevelAt(line int) int {
	if line < 0 || line >= len(b.levels) {
		return fold.Base
	}
	return b.levels[line]
}

func (b *Buffer) SetLevel(line, level int) {
	if line < 0 || line >= len(b.levels) {
		return
	}
	b.levels[line] = level
}

// Levels returns the decoded fold level of every line.
func (b *Buffer) Levels() []fold.Level {
	out := make([]fold.Level, len(b.levels))
	for i, l := range b.levels {
		out[i] = fold.Decode(l)
	}
	return out
}

// Insert adds text at pos. It returns the line the edit starts on and the
// number of lines added; new bytes are unstyled.
func (b *Buffer) Insert(pos int, text string) (line, delta int) {
	pos = clamp(pos, 0, len(b.text))
	line = b.index.LineFromOffset(pos)

	next := make([]byte, 0, len(b.text)+len(text))
	next = append(next, b.text[:pos]...)
	next = append(next, text...)
	next = append(next, b.text[pos:]...)

	styles := make([]style.Style, 0, len(next))
	styles = append(styles, b.styles[:pos]...)
	styles = append(styles, make([]style.Style, len(text))...)
	styles = append(styles, b.styles[pos:]...)

	return line, b.apply(next, styles, line)
}

// Delete removes n bytes at pos. It returns the line the edit starts on and
// the (non-positive) change in line count.
func (b *Buffer) Delete(pos, n int) (line, delta int) {
	pos = clamp(pos, 0, len(b.text))
	end := clamp(pos+n, pos, len(b.text))
	line = b.index.LineFromOffset(pos)

	next := make([]byte, 0, len(b.text)-(end-pos))
	next = append(next, b.text[:pos]...)
	next = append(next, b.text[end:]...)

	styles := make([]style.Style, 0, len(next))
	styles = append(styles, b.styles[:pos]...)
	styles = append(styles, b.styles[end:]...)

	return line, b.apply(next, styles, line)
}

// apply swaps in edited text and styles, keeping the fold levels of lines
// that did not move. It returns the change in line count.
func (b *Buffer) apply(text []byte, styles []style.Style, line int) int {
	index := position.NewIndex(text)
	delta := index.LineCount() - len(b.levels)

	levels := make([]int, index.LineCount())
	for i := range levels {
		switch {
		case i <= line:
			levels[i] = b.LevelAt(i)
		case delta > 0 && i <= line+delta:
			levels[i] = b.LevelAt(line)
		default:
			levels[i] = b.LevelAt(i - delta)
		}
	}

	b.text = text
	b.index = index
	b.styles = styles
	b.levels = levels
	b.Version++
	return delta
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
