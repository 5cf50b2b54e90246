// Package document defines the host document boundary the lexer works through,
// and Buffer, an in-memory host used by the CLI, the exporters and tests.
package document

import (
	"github.com/walteh/papyruslex/pkg/style"
)

// Accessor is what the lexer needs from the host. Positions are byte offsets
// into the document text. The lexer never changes the text itself, only the
// style and fold-level annotations.
type Accessor interface {
	// Length is the document size in bytes.
	Length() int
	// ByteAt returns the byte at pos, or 0 outside the document.
	ByteAt(pos int) byte

	LineCount() int
	LineFromPosition(pos int) int
	// LineStart is the position of the first byte of line.
	LineStart(line int) int
	// LineEnd is the position of the line terminator of line (or Length on
	// the last line).
	LineEnd(line int) int

	// SetStyle styles length bytes starting at pos.
	SetStyle(pos, length int, s style.Style)

	// LevelAt and SetLevel read and write the encoded fold level of a line,
	// header flag included.
	LevelAt(line int) int
	SetLevel(line, level int)
}

// Text reads [start, end) through an accessor.
func Text(doc Accessor, start, end int) []byte {
	if start < 0 {
		start = 0
	}
	if end > doc.Length() {
		end = doc.Length()
	}
	if end <= start {
		return nil
	}
	out := make([]byte, end-start)
	for i := range out {
		out[i] = doc.ByteAt(start + i)
	}
	return out
}
