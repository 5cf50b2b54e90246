package semtok_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/walteh/papyruslex/pkg/lexer"
	"github.com/walteh/papyruslex/pkg/position"
	"github.com/walteh/papyruslex/pkg/semtok"
	"github.com/walteh/papyruslex/pkg/wordlist"
)

/*
Test Organization:
----------------

	+----------------+
	|  Test Groups   |
	+----------------+
	       |
	+------+-------+
	|              |
	Tokens       Encoding
	|              |
	Declarations  UTF-16 columns
	Ranges        Relative deltas
*/

const script = "ScriptName Door Extends ObjectReference\n" +
	"Int Property Gold = 5 AutoReadOnly\n" +
	"{ doc }\n"

func newLexer() *lexer.Lexer {
	return lexer.New(lexer.Options{Words: wordlist.Papyrus()})
}

func tok(typ semtok.TokenType, mod semtok.TokenModifier, text string, offset int) semtok.Token {
	return semtok.Token{Type: typ, Modifier: mod, Range: position.NewBasicPosition(text, offset)}
}

func TestGetTokensForText(t *testing.T) {
	got, err := semtok.GetTokensForText(context.Background(), []byte(script), newLexer())
	require.NoError(t, err)

	assert.Equal(t, []semtok.Token{
		tok(semtok.TokenKeyword, semtok.ModifierNone, "ScriptName", 0),
		tok(semtok.TokenClass, semtok.ModifierDeclaration, "Door", 11),
		tok(semtok.TokenKeyword, semtok.ModifierNone, "Extends", 16),
		tok(semtok.TokenClass, semtok.ModifierNone, "ObjectReference", 24),
		tok(semtok.TokenTypeName, semtok.ModifierNone, "Int", 40),
		tok(semtok.TokenKeyword, semtok.ModifierNone, "Property", 44),
		tok(semtok.TokenProperty, semtok.ModifierDeclaration|semtok.ModifierReadonly, "Gold", 53),
		tok(semtok.TokenOperator, semtok.ModifierNone, "=", 58),
		tok(semtok.TokenNumber, semtok.ModifierNone, "5", 60),
		tok(semtok.TokenModifierKeyword, semtok.ModifierNone, "AutoReadOnly", 62),
		tok(semtok.TokenComment, semtok.ModifierDocumentation, "{ doc }", 75),
	}, got)
}

func TestPropertyReferences(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []semtok.Token
	}{
		{
			name:  "reference is not a declaration",
			input: "Gold += 1\nInt Property Gold Auto",
			expected: []semtok.Token{
				tok(semtok.TokenProperty, semtok.ModifierNone, "Gold", 0),
				tok(semtok.TokenOperator, semtok.ModifierNone, "+=", 5),
				tok(semtok.TokenNumber, semtok.ModifierNone, "1", 8),
				tok(semtok.TokenTypeName, semtok.ModifierNone, "Int", 10),
				tok(semtok.TokenKeyword, semtok.ModifierNone, "Property", 14),
				tok(semtok.TokenProperty, semtok.ModifierDeclaration, "Gold", 23),
				tok(semtok.TokenModifierKeyword, semtok.ModifierNone, "Auto", 28),
			},
		},
		{
			name:  "function declaration",
			input: "Event OnInit()",
			expected: []semtok.Token{
				tok(semtok.TokenKeyword, semtok.ModifierNone, "Event", 0),
				tok(semtok.TokenFunction, semtok.ModifierDeclaration, "OnInit", 6),
				tok(semtok.TokenOperator, semtok.ModifierNone, "()", 12),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := semtok.GetTokensForText(context.Background(), []byte(tt.input), newLexer())
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestMultiLineCommentSplitsPerLine(t *testing.T) {
	got, err := semtok.GetTokensForText(context.Background(), []byte(";/ a\nb /;"), newLexer())
	require.NoError(t, err)

	assert.Equal(t, []semtok.Token{
		tok(semtok.TokenComment, semtok.ModifierNone, ";/ a", 0),
		tok(semtok.TokenComment, semtok.ModifierNone, "b /;", 5),
	}, got)
}

func TestGetTokensForRange(t *testing.T) {
	tests := []struct {
		name     string
		ranged   position.RawPosition
		expected []semtok.Token
	}{
		{
			name:   "second line",
			ranged: position.NewBasicPosition("Int Property Gold = 5 AutoReadOnly", 40),
			expected: []semtok.Token{
				tok(semtok.TokenTypeName, semtok.ModifierNone, "Int", 40),
				tok(semtok.TokenKeyword, semtok.ModifierNone, "Property", 44),
				tok(semtok.TokenProperty, semtok.ModifierDeclaration|semtok.ModifierReadonly, "Gold", 53),
				tok(semtok.TokenOperator, semtok.ModifierNone, "=", 58),
				tok(semtok.TokenNumber, semtok.ModifierNone, "5", 60),
				tok(semtok.TokenModifierKeyword, semtok.ModifierNone, "AutoReadOnly", 62),
			},
		},
		{
			name:   "clipped",
			ranged: position.NewBasicPosition("t Pr", 42),
			expected: []semtok.Token{
				tok(semtok.TokenTypeName, semtok.ModifierNone, "t", 42),
				tok(semtok.TokenKeyword, semtok.ModifierNone, "Pr", 44),
			},
		},
		{
			name:   "cursor inside a word",
			ranged: position.NewBasicPosition("", 3),
			expected: []semtok.Token{
				tok(semtok.TokenKeyword, semtok.ModifierNone, "ScriptName", 0),
			},
		},
		{
			name:   "cursor at a word end",
			ranged: position.NewBasicPosition("", 15),
			expected: []semtok.Token{
				tok(semtok.TokenClass, semtok.ModifierDeclaration, "Door", 11),
			},
		},
		{
			name:   "cursor on an empty line",
			ranged: position.NewBasicPosition("", 83),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := semtok.GetTokensForRange(context.Background(), []byte(script), newLexer(), &tt.ranged)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestUnusableLexer(t *testing.T) {
	lx := lexer.New(lexer.Options{Usable: func() bool { return false }})
	_, err := semtok.GetTokensForText(context.Background(), []byte("If"), lx)
	assert.Error(t, err)

	_, err = semtok.GetTokensForText(context.Background(), []byte("If"), nil)
	assert.Error(t, err)
}

func TestEncode(t *testing.T) {
	content := []byte("x = \"😀\" ; é\nIf")
	tokens, err := semtok.GetTokensForText(context.Background(), content, newLexer())
	require.NoError(t, err)

	assert.Equal(t, []uint32{
		0, 2, 1, 3, 0, // =
		0, 2, 4, 5, 0, // "😀"
		0, 5, 3, 6, 0, // ; é
		1, 0, 2, 0, 0, // If
	}, semtok.Encode(tokens, position.NewIndex(content)))
}

func TestLegendMatchesTypes(t *testing.T) {
	legend := semtok.NewLegend()

	for typ := semtok.TokenKeyword; typ <= semtok.TokenClass; typ++ {
		assert.Equal(t, typ.String(), legend.TokenTypes[typ-1])
	}
	assert.Equal(t, "declaration", legend.TokenModifiers[0])
	assert.Equal(t, "declaration,documentation", (semtok.ModifierDeclaration | semtok.ModifierDocumentation).String())
	assert.Equal(t, "none", semtok.ModifierNone.String())
	assert.Equal(t, "unknown", semtok.TokenType(99).String())
}
