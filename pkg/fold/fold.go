// Package fold computes per-line fold levels from the fold-marker word lists.
package fold

import (
	"strings"

	"github.com/walteh/papyruslex/pkg/token"
	"github.com/walteh/papyruslex/pkg/wordlist"
)

// Marker is the fold role of a word.
type Marker int

const (
	None Marker = iota
	Open
	Middle
	Close
)

func (m Marker) String() string {
	switch m {
	case Open:
		return "open"
	case Middle:
		return "middle"
	case Close:
		return "close"
	default:
		return "none"
	}
}

// Computer turns the code tokens of a line into a fold level. Tokens inside
// comments and strings must be filtered out by the caller.
type Computer struct {
	words *wordlist.Set
	// open word -> words that cancel it later on the same line
	suppressors map[string]map[string]struct{}
}

func NewComputer(words *wordlist.Set, suppressors map[string][]string) *Computer {
	c := &Computer{
		words:       words,
		suppressors: map[string]map[string]struct{}{},
	}
	for open, list := range suppressors {
		set := map[string]struct{}{}
		for _, w := range list {
			set[strings.ToLower(w)] = struct{}{}
		}
		c.suppressors[strings.ToLower(open)] = set
	}
	return c
}

// Classify returns the fold role of word. Open wins over middle and middle
// over close when a word sits in several lists.
func (c *Computer) Classify(word string) Marker {
	switch {
	case c.words.Contains(wordlist.FoldOpen, word):
		return Open
	case c.words.Contains(wordlist.FoldMiddle, word):
		return Middle
	case c.words.Contains(wordlist.FoldClose, word):
		return Close
	default:
		return None
	}
}

// Mark is a fold marker found on a line.
type Mark struct {
	Token  token.Token
	Marker Marker
}

// Markers returns the fold markers among tokens in order. Opens cancelled by
// a suppressor later on the line are left out.
func (c *Computer) Markers(tokens []token.Token) []Mark {
	var marks []Mark
	for i, tok := range tokens {
		if tok.Kind != token.Identifier {
			continue
		}
		m := c.Classify(tok.Content)
		if m == None || (m == Open && c.suppressed(tok.Content, tokens[i+1:])) {
			continue
		}
		marks = append(marks, Mark{Token: tok, Marker: m})
	}
	return marks
}

// Compute returns the level of a line whose previous line ended at prevDepth.
// The line is displayed at the lowest depth reached while walking its markers,
// so an opening line sits at its parent's depth and a closing line at the
// depth it returns to. Depth never goes below zero.
func (c *Computer) Compute(tokens []token.Token, prevDepth int) Level {
	if prevDepth < 0 {
		prevDepth = 0
	}
	cur, low := prevDepth, prevDepth

	for _, mark := range c.Markers(tokens) {
		switch mark.Marker {
		case Open:
			cur++
		case Middle:
			if cur > 0 && cur-1 < low {
				low = cur - 1
			}
		case Close:
			if cur > 0 {
				cur--
			}
			if cur < low {
				low = cur
			}
		}
	}

	return Level{Depth: low, Next: cur, Header: cur > low}
}

func (c *Computer) suppressed(open string, rest []token.Token) bool {
	set, ok := c.suppressors[strings.ToLower(open)]
	if !ok {
		return false
	}
	for _, tok := range rest {
		if tok.Kind != token.Identifier {
			continue
		}
		if _, ok := set[strings.ToLower(tok.Content)]; ok {
			return true
		}
	}
	return false
}
