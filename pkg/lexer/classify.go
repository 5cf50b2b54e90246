package lexer

import (
	"strings"

	"github.com/walteh/papyruslex/pkg/style"
	"github.com/walteh/papyruslex/pkg/token"
	"github.com/walteh/papyruslex/pkg/wordlist"
)

// Properties is the property cache capability the classifier is given.
type Properties interface {
	Has(name string) bool
	Add(name string, line int)
}

// precedence is the order word lists are consulted in. Reordering it changes
// highlighting for words configured in several lists.
var precedence = []struct {
	list  wordlist.Category
	style style.Style
}{
	{wordlist.Operators, style.Operator},
	{wordlist.FlowControl, style.FlowControl},
	{wordlist.Types, style.Type},
	{wordlist.Keywords, style.Keyword},
	{wordlist.Keywords2, style.Keyword2},
	{wordlist.FoldOpen, style.FoldOpen},
	{wordlist.FoldMiddle, style.FoldMiddle},
	{wordlist.FoldClose, style.FoldClose},
}

// PapyrusDeclarations maps the keywords that introduce a declared name to the
// style of that name.
func PapyrusDeclarations() map[string]style.Style {
	return map[string]style.Style{
		"property":   style.Property,
		"function":   style.Function,
		"event":      style.Function,
		"scriptname": style.Class,
		"extends":    style.Class,
		"import":     style.Class,
	}
}

// Classifier assigns styles to tokens.
type Classifier struct {
	words *wordlist.Set
	props Properties
	decls map[string]style.Style
}

func NewClassifier(words *wordlist.Set, props Properties, decls map[string]style.Style) *Classifier {
	lowered := make(map[string]style.Style, len(decls))
	for k, v := range decls {
		lowered[strings.ToLower(k)] = v
	}
	return &Classifier{words: words, props: props, decls: lowered}
}

// Classify styles a single token in state st and returns the state after it.
// Declared names are not recognized here; see Line.
func (c *Classifier) Classify(tok token.Token, st State) (style.Style, State) {
	next := Advance(tok, st)

	if st.Open() {
		return st.Style(), next
	}
	if next.Open() {
		// opening delimiter takes the style of the region it opens
		return next.Style(), next
	}

	switch tok.Kind {
	case token.Numeric:
		return style.Number, next
	case token.Special:
		return style.Operator, next
	}

	if s, ok := c.wordStyle(tok.Content); ok {
		return s, next
	}
	if c.props != nil && c.props.Has(tok.Content) {
		return style.Property, next
	}
	return style.Default, next
}

func (c *Classifier) wordStyle(word string) (style.Style, bool) {
	for _, p := range precedence {
		if c.words.Contains(p.list, word) {
			return p.style, true
		}
	}
	return style.Default, false
}

// Span is a styled range of bytes.
type Span struct {
	Pos   int
	End   int
	Style style.Style
}

// LineResult is the outcome of classifying one line.
type LineResult struct {
	Spans []Span
	// State is the carry into the next line.
	State State
}

// Line classifies the tokens of one line. start and end bound the line
// content and eol is the start of the next line, so the spans cover
// [start, eol) without gaps. Whitespace inside a region takes the region's
// style. Declarations found on the line are recorded under lineNo.
func (c *Classifier) Line(tokens []token.Token, st State, lineNo, start, end, eol int) LineResult {
	var res LineResult
	pos := start
	emit := func(to int, s style.Style) {
		if to <= pos {
			return
		}
		if n := len(res.Spans); n > 0 && res.Spans[n-1].Style == s {
			res.Spans[n-1].End = to
		} else {
			res.Spans = append(res.Spans, Span{Pos: pos, End: to, Style: s})
		}
		pos = to
	}

	// style of the name a declaration keyword is waiting for
	slot := style.Default

	for _, tok := range tokens {
		emit(tok.Pos, st.Style())

		s, next := c.Classify(tok, st)
		switch {
		case !st.Open() && !next.Open():
			s, slot = c.declaration(tok, s, slot, lineNo)
		case !st.Open():
			// a comment or string between keyword and name ends the declaration
			slot = style.Default
		}

		emit(tok.End(), s)
		st = next
	}

	emit(end, st.Style())
	st = st.Carry()
	emit(eol, st.Style())

	res.State = st
	return res
}

// declaration runs the name recognizer over a code token, returning the
// token's final style and the pending slot.
func (c *Classifier) declaration(tok token.Token, s style.Style, slot style.Style, lineNo int) (style.Style, style.Style) {
	switch tok.Kind {
	case token.Numeric:
		return s, style.Default
	case token.Special:
		if tok.Content == "[" || tok.Content == "]" {
			return s, slot
		}
		return s, style.Default
	}

	if d, ok := c.decls[strings.ToLower(tok.Content)]; ok {
		return s, d
	}
	if _, listed := c.wordStyle(tok.Content); listed {
		return s, slot
	}

	if slot == style.Default {
		return s, slot
	}
	if slot == style.Property && c.props != nil {
		c.props.Add(tok.Content, lineNo)
	}
	return slot, style.Default
}
