/*
Core Functions:
-------------

	       Input
	         |
	         v
	  +------------+
	  |  Script    |
	  |  Text      |
	  +------------+
	         |
	       Lex
	         |
	         v
	  +------------+
	  | Style Runs |
	  +------------+
	         |
	Convert to Tokens
	         |
	         v
	  +------------+
	  | Semantic   |
	  | Tokens     |
	  +------------+
*/
package semtok

import (
	"context"
	"strings"

	"gitlab.com/tozd/go/errors"

	"github.com/walteh/papyruslex/pkg/document"
	"github.com/walteh/papyruslex/pkg/lexer"
	"github.com/walteh/papyruslex/pkg/position"
	"github.com/walteh/papyruslex/pkg/property"
	"github.com/walteh/papyruslex/pkg/style"
	"github.com/walteh/papyruslex/pkg/token"
)

var styleTypes = map[style.Style]TokenType{
	style.Operator:         TokenOperator,
	style.FlowControl:      TokenKeyword,
	style.Type:             TokenTypeName,
	style.Keyword:          TokenKeyword,
	style.Keyword2:         TokenModifierKeyword,
	style.FoldOpen:         TokenKeyword,
	style.FoldMiddle:       TokenKeyword,
	style.FoldClose:        TokenKeyword,
	style.Comment:          TokenComment,
	style.CommentMultiLine: TokenComment,
	style.CommentDoc:       TokenComment,
	style.Number:           TokenNumber,
	style.String:           TokenString,
	style.Property:         TokenProperty,
	style.Class:            TokenClass,
	style.Function:         TokenFunction,
}

// words after which a function or class name is being declared rather than
// referenced
var declaringWords = map[string]bool{
	"function":   true,
	"event":      true,
	"scriptname": true,
}

// GetTokensForText lexes content with lx and returns its semantic tokens.
//
//	Example:
//	   tokens, err := GetTokensForText(ctx, []byte("Int Property Gold Auto"), lx)
//	   if err != nil {
//	       return err
//	   }
//	   // Use tokens...
func GetTokensForText(ctx context.Context, content []byte, lx *lexer.Lexer) ([]Token, error) {
	return GetTokensForRange(ctx, content, lx, nil)
}

// GetTokensForRange lexes the whole of content, so declarations outside the
// range are known, and returns the tokens overlapping ranged clipped to it.
// A nil range means the whole document. An empty range is a cursor and
// returns the whole tokens touching it.
func GetTokensForRange(ctx context.Context, content []byte, lx *lexer.Lexer, ranged *position.RawPosition) ([]Token, error) {
	if lx == nil {
		return nil, errors.New("no lexer")
	}
	if !lx.Usable() {
		return nil, errors.New("lexer is not usable: no configuration found")
	}

	buf := document.NewBuffer(string(content))
	lx.Lex(ctx, 0, buf.Length(), style.Default, buf)

	start, end := 0, buf.Length()
	if ranged != nil {
		if ranged.Length() == 0 {
			return tokensAt(buf, lx.Properties(), *ranged), nil
		}
		start, end = max(ranged.Offset, 0), min(ranged.End(), end)
	}
	return Tokens(buf, lx.Properties(), start, end), nil
}

func tokensAt(buf *document.Buffer, props *property.Cache, cursor position.RawPosition) []Token {
	line := buf.LineFromPosition(cursor.Offset)

	var out []Token
	for _, tok := range Tokens(buf, props, buf.LineStart(line), buf.LineEnd(line)) {
		if tok.Range.HasRangeOverlapWith(cursor) {
			out = append(out, tok)
		}
	}
	return out
}

// Tokens reads the styles of an already lexed buffer within [start, end).
func Tokens(buf *document.Buffer, props *property.Cache, start, end int) []Token {
	if start >= end {
		return nil
	}

	text := buf.Bytes()
	var out []Token
	for line := buf.LineFromPosition(start); line < buf.LineCount() && buf.LineStart(line) < end; line++ {
		lo, hi := max(buf.LineStart(line), start), min(buf.LineEnd(line), end)
		if lo >= hi {
			continue
		}

		var words []token.Token
		for _, run := range buf.Runs(lo, hi) {
			typ, ok := styleTypes[run.Style]
			if !ok {
				continue
			}
			if words == nil && run.Style.IsHotspot() {
				words = token.Tokenize(buf, line)
			}

			tok := Token{
				Type:  typ,
				Range: position.NewBasicPosition(string(text[run.Pos:run.End()]), run.Pos),
			}
			tok.Modifier = modifiers(tok, run.Style, line, words, props)
			out = append(out, tok)
		}
	}
	return out
}

func modifiers(tok Token, s style.Style, line int, words []token.Token, props *property.Cache) TokenModifier {
	switch s {
	case style.CommentDoc:
		return ModifierDocumentation
	case style.Property:
		if props == nil || !props.DeclaredOn(tok.Range.Text, line) {
			return ModifierNone
		}
		m := ModifierDeclaration
		for _, w := range words {
			if w.Pos > tok.Range.Offset && w.Kind == token.Identifier && strings.EqualFold(w.Content, "autoreadonly") {
				m |= ModifierReadonly
			}
		}
		return m
	case style.Function, style.Class:
		if declaringWords[previousWord(words, tok.Range.Offset)] {
			return ModifierDeclaration
		}
	}
	return ModifierNone
}

// previousWord returns the lowercase identifier before pos on the line.
func previousWord(words []token.Token, pos int) string {
	prev := ""
	for _, w := range words {
		if w.Pos >= pos {
			break
		}
		if w.Kind == token.Identifier {
			prev = strings.ToLower(w.Content)
		}
	}
	return prev
}

// Encode packs tokens into the LSP relative format: five integers per token
// (line delta, start delta, length, type index, modifier bits) with UTF-16
// columns. Tokens must be sorted by offset.
func Encode(tokens []Token, idx *position.Index) []uint32 {
	out := make([]uint32, 0, len(tokens)*5)
	prevLine, prevChar := 0, 0
	for _, t := range tokens {
		p := idx.Place(t.Range.Offset)
		deltaChar := p.Character
		if p.Line == prevLine {
			deltaChar -= prevChar
		}
		out = append(out,
			uint32(p.Line-prevLine),
			uint32(deltaChar),
			uint32(position.UTF16Len([]byte(t.Range.Text))),
			uint32(t.Type-1),
			uint32(t.Modifier),
		)
		prevLine, prevChar = p.Line, p.Character
	}
	return out
}
