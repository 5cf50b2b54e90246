package position

import (
	"fmt"
	"sort"
	"unicode/utf8"
)

// Place is a zero-based line and UTF-16 character offset, the coordinate
// system LSP clients use.
type Place struct {
	Line      int
	Character int
}

type Range struct {
	Start Place
	End   Place
}

// RawPosition represents a span of the source text
type RawPosition struct {
	// Offset is the byte offset in the source text
	Offset int
	// Text is the actual text at this position
	Text string
}

// Length returns the byte length of the text at this position
func (p RawPosition) Length() int {
	return len(p.Text)
}

func NewBasicPosition(text string, offset int) RawPosition {
	return RawPosition{Text: text, Offset: offset}
}

func (p RawPosition) End() int {
	return p.Offset + len(p.Text)
}

func (p RawPosition) HasRangeOverlapWith(start RawPosition) bool {
	startOffset := start.Offset
	endOffset := start.End()

	posOffset := p.Offset
	posEndOffset := p.End()

	// a zero-length position overlaps if it falls within the other range
	if p.Length() == 0 {
		return posOffset >= startOffset && posOffset <= endOffset
	}
	if start.Length() == 0 {
		return startOffset >= posOffset && startOffset <= posEndOffset
	}

	return startOffset < posEndOffset && endOffset > posOffset
}

func (p RawPosition) String() string {
	return fmt.Sprintf("%s@%d", p.Text, p.Offset)
}

// Index maps byte offsets of a text to lines. Lines end after '\n'; a
// "\r\n" pair belongs to the line it terminates.
type Index struct {
	text   []byte
	starts []int
}

func NewIndex(text []byte) *Index {
	starts := []int{0}
	for i, c := range text {
		if c == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &Index{text: text, starts: starts}
}

// LineCount is never less than one; an empty text has a single empty line.
func (x *Index) LineCount() int {
	return len(x.starts)
}

// LineStart returns the offset of the first byte of line. Out of range lines
// clamp to the text bounds.
func (x *Index) LineStart(line int) int {
	if line <= 0 {
		return 0
	}
	if line >= len(x.starts) {
		return len(x.text)
	}
	return x.starts[line]
}

// LineEnd returns the offset of the line terminator of line, or the text
// length for the last line.
func (x *Index) LineEnd(line int) int {
	if line < 0 {
		return 0
	}
	if line >= len(x.starts)-1 {
		return len(x.text)
	}
	end := x.starts[line+1] - 1
	if end > x.starts[line] && x.text[end-1] == '\r' {
		end--
	}
	return end
}

// LineFromOffset returns the line containing offset.
func (x *Index) LineFromOffset(offset int) int {
	if offset <= 0 {
		return 0
	}
	// first start strictly greater than offset, minus one
	return sort.SearchInts(x.starts, offset+1) - 1
}

// GetLineAndColumn returns the zero-based line and byte column of offset.
func (x *Index) GetLineAndColumn(offset int) (line, col int) {
	line = x.LineFromOffset(offset)
	return line, offset - x.LineStart(line)
}

// Place converts a byte offset into a line and UTF-16 column.
func (x *Index) Place(offset int) Place {
	line := x.LineFromOffset(offset)
	start := x.LineStart(line)
	if offset > len(x.text) {
		offset = len(x.text)
	}
	return Place{Line: line, Character: UTF16Len(x.text[start:offset])}
}

// GetRange converts a raw position into an LSP range.
func (x *Index) GetRange(p RawPosition) Range {
	return Range{
		Start: x.Place(p.Offset),
		End:   x.Place(p.End()),
	}
}

// UTF16Len counts the UTF-16 code units needed to encode b. Invalid bytes
// count as one unit each, like the replacement character they decode to.
func UTF16Len(b []byte) int {
	n := 0
	for len(b) > 0 {
		r, size := utf8.DecodeRune(b)
		if r >= 0x10000 {
			n += 2
		} else {
			n++
		}
		b = b[size:]
	}
	return n
}
