package document

import (
	"github.com/walteh/papyruslex/pkg/style"
)

// Run is a maximal span of bytes sharing one style.
type Run struct {
	Pos    int
	Length int
	Style  style.Style
}

func (r Run) End() int { return r.Pos + r.Length }

// Runs splits [start, end) of the buffer into style runs.
func (b *Buffer) Runs(start, end int) []Run {
	start = clamp(start, 0, len(b.styles))
	end = clamp(end, start, len(b.styles))

	var runs []Run
	for i := start; i < end; i++ {
		s := b.styles[i]
		if n := len(runs); n > 0 && runs[n-1].Style == s {
			runs[n-1].Length++
			continue
		}
		runs = append(runs, Run{Pos: i, Length: 1, Style: s})
	}
	return runs
}

// LineRuns returns the runs of one line, terminator excluded.
func (b *Buffer) LineRuns(line int) []Run {
	return b.Runs(b.LineStart(line), b.LineEnd(line))
}
