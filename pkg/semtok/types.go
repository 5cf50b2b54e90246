package semtok

import (
	"strings"

	"github.com/walteh/papyruslex/pkg/position"
)

// TokenType represents the semantic meaning of a token
type TokenType uint32

const (
	TokenKeyword TokenType = iota + 1
	// TokenModifierKeyword is a flag word such as Auto or Native
	TokenModifierKeyword
	TokenTypeName
	TokenOperator
	TokenNumber
	TokenString
	TokenComment
	TokenProperty
	TokenFunction
	TokenClass
)

var tokenTypeNames = []string{
	"keyword",
	"modifier",
	"type",
	"operator",
	"number",
	"string",
	"comment",
	"property",
	"function",
	"class",
}

// String returns the LSP name of the token type
func (t TokenType) String() string {
	if t < 1 || int(t) > len(tokenTypeNames) {
		return "unknown"
	}
	return tokenTypeNames[t-1]
}

// TokenModifier is a bit set of additional characteristics
type TokenModifier uint32

// ModifierNone indicates no special characteristics
const ModifierNone TokenModifier = 0

const (
	// ModifierDeclaration marks the name a declaration introduces
	ModifierDeclaration TokenModifier = 1 << iota
	// ModifierReadonly marks AutoReadOnly properties
	ModifierReadonly
	// ModifierDocumentation marks doc comments
	ModifierDocumentation
)

var tokenModifierNames = []string{
	"declaration",
	"readonly",
	"documentation",
}

// String lists the set modifiers, comma separated
func (m TokenModifier) String() string {
	if m == ModifierNone {
		return "none"
	}
	var names []string
	for i, name := range tokenModifierNames {
		if m&(1<<i) != 0 {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return "unknown"
	}
	return strings.Join(names, ",")
}

// Legend is what a server advertises in its semantic tokens capability. The
// indexes match the values Encode emits.
type Legend struct {
	TokenTypes     []string `json:"tokenTypes"`
	TokenModifiers []string `json:"tokenModifiers"`
}

func NewLegend() Legend {
	return Legend{
		TokenTypes:     append([]string(nil), tokenTypeNames...),
		TokenModifiers: append([]string(nil), tokenModifierNames...),
	}
}

// Token represents a semantic token with its type, modifiers, and position
type Token struct {
	Type     TokenType
	Modifier TokenModifier
	// Range never spans a line terminator
	Range position.RawPosition
}
