package fold

// Encoded fold levels follow the editor convention: the low 16 bits hold the
// line's own level offset by Base plus the white and header flags, the high 16
// bits hold the level the next line starts at.
const (
	Base       = 0x400
	NumberMask = 0x0FFF
	WhiteFlag  = 0x1000
	HeaderFlag = 0x2000
)

// Level is the decoded fold information of one line.
type Level struct {
	// Depth is the nesting depth the line is displayed at.
	Depth int
	// Next is the depth after the line, the carry into the following line.
	Next int
	// Header marks a line that starts a collapsible region.
	Header bool
	// Blank marks a line holding only whitespace.
	Blank bool
}

func (l Level) Encode() int {
	v := (Base + l.Depth) & NumberMask
	v |= ((Base + l.Next) & NumberMask) << 16
	if l.Header {
		v |= HeaderFlag
	}
	if l.Blank {
		v |= WhiteFlag
	}
	return v
}

// Decode reverses Encode. A level without the high half (as written by hosts
// that never ran Fold) carries its own depth forward.
func Decode(v int) Level {
	l := Level{
		Depth:  (v & NumberMask) - Base,
		Header: v&HeaderFlag != 0,
		Blank:  v&WhiteFlag != 0,
	}
	if l.Depth < 0 {
		l.Depth = 0
	}

	hi := (v >> 16) & NumberMask
	switch {
	case hi != 0:
		l.Next = hi - Base
	case l.Header:
		l.Next = l.Depth + 1
	default:
		l.Next = l.Depth
	}
	if l.Next < 0 {
		l.Next = 0
	}
	return l
}
