package lexer

import (
	"github.com/walteh/papyruslex/pkg/style"
	"github.com/walteh/papyruslex/pkg/token"
)

// State is the lexical region the scanner is in between two tokens.
type State int

const (
	StateDefault State = iota
	// StateLineComment ends with the line.
	StateLineComment
	StateCommentMultiLine
	StateCommentDoc
	StateString
	// StateStringEscape follows a backslash inside a string; the next token
	// is taken literally.
	StateStringEscape
)

func (s State) String() string {
	switch s {
	case StateDefault:
		return "default"
	case StateLineComment:
		return "line_comment"
	case StateCommentMultiLine:
		return "comment_multiline"
	case StateCommentDoc:
		return "comment_doc"
	case StateString:
		return "string"
	case StateStringEscape:
		return "string_escape"
	default:
		return "unknown"
	}
}

// Open reports whether s is inside a comment or string.
func (s State) Open() bool {
	return s != StateDefault
}

// Style is the style of text (including whitespace) inside the region.
func (s State) Style() style.Style {
	switch s {
	case StateLineComment:
		return style.Comment
	case StateCommentMultiLine:
		return style.CommentMultiLine
	case StateCommentDoc:
		return style.CommentDoc
	case StateString, StateStringEscape:
		return style.String
	default:
		return style.Default
	}
}

// Carry is the state handed to the next line.
func (s State) Carry() State {
	switch s {
	case StateLineComment:
		return StateDefault
	case StateStringEscape:
		return StateString
	default:
		return s
	}
}

// StateFromStyle recovers the carried state from the style a host passes as
// initStyle. Only styles that can stay open across a line boundary map to an
// open state.
func StateFromStyle(s style.Style) State {
	switch s {
	case style.CommentMultiLine:
		return StateCommentMultiLine
	case style.CommentDoc:
		return StateCommentDoc
	case style.String:
		return StateString
	default:
		return StateDefault
	}
}

// Advance returns the state after tok. It only tracks comment and string
// regions and needs no word lists, so folding can share it.
func Advance(tok token.Token, st State) State {
	switch st {
	case StateLineComment:
		return st
	case StateCommentMultiLine:
		if tok.Is("/;") {
			return StateDefault
		}
		return st
	case StateCommentDoc:
		if tok.Is("}") {
			return StateDefault
		}
		return st
	case StateString:
		switch {
		case tok.Is(`\`):
			return StateStringEscape
		case tok.Is(`"`):
			return StateDefault
		}
		return st
	case StateStringEscape:
		return StateString
	}

	switch {
	case tok.Is(";/"):
		return StateCommentMultiLine
	case tok.Is("{"):
		return StateCommentDoc
	case tok.Is(`"`):
		return StateString
	case tok.Is(";"):
		return StateLineComment
	}
	return StateDefault
}

// CodeTokens drops tokens that are comment or string text or their
// delimiters, returning the rest and the state at the end of the line.
func CodeTokens(tokens []token.Token, st State) ([]token.Token, State) {
	out := make([]token.Token, 0, len(tokens))
	for _, tok := range tokens {
		next := Advance(tok, st)
		if st == StateDefault && next == StateDefault {
			out = append(out, tok)
		}
		st = next
	}
	return out, st
}
