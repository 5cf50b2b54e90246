// Package token splits one line of Papyrus source into identifier, numeric and
// special tokens.
//
// The scanner walks grapheme clusters rather than bytes, so a token boundary
// never falls inside a multi-byte character or between a letter and its
// combining marks. Marks following ASCII punctuation are split off into their
// own special token so delimiters such as } and " always scan alone. Positions stay byte offsets into the document, which is
// the coordinate system the host styles in.
package token

import (
	"fmt"
	"sort"
	"unicode"
	"unicode/utf8"

	"github.com/apparentlymart/go-textseg/v13/textseg"
)

// Kind is the lexical class of a token.
type Kind int

const (
	Identifier Kind = iota
	Numeric
	Special
)

func (k Kind) String() string {
	switch k {
	case Identifier:
		return "identifier"
	case Numeric:
		return "numeric"
	case Special:
		return "special"
	default:
		return "unknown"
	}
}

// Token is one scanned token. Whitespace is never a token.
type Token struct {
	Content string
	Kind    Kind
	// Pos is the absolute byte offset of the first byte.
	Pos int
}

func (t Token) End() int { return t.Pos + len(t.Content) }

func (t Token) String() string {
	return fmt.Sprintf("%s(%q)@%d", t.Kind, t.Content, t.Pos)
}

// Is reports whether t is the special token s.
func (t Token) Is(s string) bool {
	return t.Kind == Special && t.Content == s
}

// Operators are the multi-character special tokens, matched longest first.
var Operators = []string{
	";/", "/;",
	"==", "!=", "<=", ">=",
	"&&", "||",
	"+=", "-=", "*=", "/=", "%=",
}

func init() {
	sort.SliceStable(Operators, func(i, j int) bool {
		return len(Operators[i]) > len(Operators[j])
	})
}

// Source is the part of the host document the tokenizer reads.
type Source interface {
	Length() int
	ByteAt(pos int) byte
	LineStart(line int) int
	LineEnd(line int) int
}

// Tokenize scans one line of src.
func Tokenize(src Source, line int) []Token {
	start, end := src.LineStart(line), src.LineEnd(line)
	buf := make([]byte, 0, end-start)
	for p := start; p < end; p++ {
		buf = append(buf, src.ByteAt(p))
	}
	return TokenizeBytes(buf, start)
}

// TokenizeBytes scans text as a single line starting at document offset base.
func TokenizeBytes(text []byte, base int) []Token {
	s := newScanner(text)
	var out []Token

	for i := 0; i < len(s.units); {
		u := s.units[i]
		var j int
		var kind Kind

		switch {
		case unicode.IsSpace(u.r):
			i++
			continue
		case isIdentStart(u.r):
			kind = Identifier
			j = s.skip(i+1, isIdentPart)
		case isDigit(u.r):
			kind = Numeric
			j = s.number(i)
		default:
			kind = Special
			j = s.special(i)
		}

		from, to := u.off, s.offset(j)
		out = append(out, Token{Content: string(text[from:to]), Kind: kind, Pos: base + from})
		i = j
	}
	return out
}

// unit is one grapheme cluster, identified by its first rune.
type unit struct {
	off int
	r   rune
}

type scanner struct {
	text  []byte
	units []unit
}

func newScanner(text []byte) *scanner {
	s := &scanner{text: text}
	for off := 0; off < len(text); {
		adv, cluster, err := textseg.ScanGraphemeClusters(text[off:], true)
		if err != nil || adv <= 0 {
			// never split further than one byte on segmentation trouble
			adv, cluster = 1, text[off:off+1]
		}
		r, size := utf8.DecodeRune(cluster)
		s.units = append(s.units, unit{off: off, r: r})
		if isASCIIPunct(r) && adv > size {
			mark, _ := utf8.DecodeRune(cluster[size:])
			s.units = append(s.units, unit{off: off + size, r: mark})
		}
		off += adv
	}
	return s
}

// offset is the byte offset of unit i, or the text length past the end.
func (s *scanner) offset(i int) int {
	if i >= len(s.units) {
		return len(s.text)
	}
	return s.units[i].off
}

func (s *scanner) at(i int) rune {
	if i >= len(s.units) {
		return -1
	}
	return s.units[i].r
}

func (s *scanner) skip(i int, ok func(rune) bool) int {
	for i < len(s.units) && ok(s.units[i].r) {
		i++
	}
	return i
}

// number scans 0x-prefixed hex or digits with an optional fraction.
func (s *scanner) number(i int) int {
	if s.at(i) == '0' && (s.at(i+1) == 'x' || s.at(i+1) == 'X') && isHexDigit(s.at(i+2)) {
		return s.skip(i+2, isHexDigit)
	}
	j := s.skip(i, isDigit)
	if s.at(j) == '.' && isDigit(s.at(j+1)) {
		j = s.skip(j+1, isDigit)
	}
	return j
}

func (s *scanner) special(i int) int {
	rest := s.text[s.units[i].off:]
	for _, op := range Operators {
		if len(rest) >= len(op) && string(rest[:len(op)]) == op {
			j := i
			for j < len(s.units) && s.units[j].off < s.units[i].off+len(op) {
				j++
			}
			// an operator must end on a unit boundary to be taken whole
			if s.offset(j) == s.units[i].off+len(op) {
				return j
			}
		}
	}
	return i + 1
}

func isASCIIPunct(r rune) bool {
	return r < utf8.RuneSelf && (unicode.IsPunct(r) || unicode.IsSymbol(r))
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isHexDigit(r rune) bool {
	return isDigit(r) || r >= 'a' && r <= 'f' || r >= 'A' && r <= 'F'
}
