package diagnostic

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/papyruslex/pkg/document"
	"github.com/walteh/papyruslex/pkg/fold"
	"github.com/walteh/papyruslex/pkg/lexer"
	"github.com/walteh/papyruslex/pkg/position"
	"github.com/walteh/papyruslex/pkg/style"
	"github.com/walteh/papyruslex/pkg/token"
)

// Generator is responsible for generating diagnostics from a script
type Generator interface {
	// Generate lexes and folds buf with lx and reports what it found
	Generate(ctx context.Context, buf *document.Buffer, lx *lexer.Lexer) (*Diagnostics, error)
}

// Diagnostics represents diagnostic information that can be formatted in different ways
type Diagnostics struct {
	Errors   []Diagnostic
	Warnings []Diagnostic
}

// All returns errors, then warnings.
func (d *Diagnostics) All() []Diagnostic {
	out := make([]Diagnostic, 0, len(d.Errors)+len(d.Warnings))
	out = append(out, d.Errors...)
	return append(out, d.Warnings...)
}

// Diagnostic represents a single diagnostic message. Lines and columns are
// one-based; columns count UTF-16 units.
type Diagnostic struct {
	Message  string
	Location position.RawPosition
	Line     int
	Column   int
	EndLine  int
	EndCol   int
	Severity DiagnosticSeverity
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%d:%d: %s: %s", d.Line, d.Column, d.Severity, d.Message)
}

// DiagnosticSeverity represents the severity level of a diagnostic
type DiagnosticSeverity string

const (
	Error   DiagnosticSeverity = "error"
	Warning DiagnosticSeverity = "warning"
)

var regionNames = map[lexer.State]string{
	lexer.StateCommentMultiLine: "multi-line comment",
	lexer.StateCommentDoc:       "doc comment",
	lexer.StateString:           "string",
	lexer.StateStringEscape:     "string",
}

// DefaultGenerator is the default implementation of Generator
type DefaultGenerator struct{}

// NewDefaultGenerator creates a new DefaultGenerator
func NewDefaultGenerator() *DefaultGenerator {
	return &DefaultGenerator{}
}

// Check runs the default generator.
func Check(ctx context.Context, buf *document.Buffer, lx *lexer.Lexer) (*Diagnostics, error) {
	return NewDefaultGenerator().Generate(ctx, buf, lx)
}

// Generate implements Generator
func (g *DefaultGenerator) Generate(ctx context.Context, buf *document.Buffer, lx *lexer.Lexer) (*Diagnostics, error) {
	if buf == nil {
		return nil, errors.Errorf("document is nil")
	}
	if lx == nil {
		return nil, errors.Errorf("lexer is nil")
	}
	if !lx.Usable() {
		return nil, errors.Errorf("lexer is not usable: no configuration found")
	}

	lx.Lex(ctx, 0, buf.Length(), style.Default, buf)
	lx.Fold(ctx, 0, buf.Length(), style.Default, buf)

	c := &collector{buf: buf, diags: &Diagnostics{
		Errors:   make([]Diagnostic, 0),
		Warnings: make([]Diagnostic, 0),
	}}

	var opener token.Token
	var blocks []fold.Mark
	st := lexer.StateDefault

	for line := 0; line < buf.LineCount(); line++ {
		toks := token.Tokenize(buf, line)
		code, _ := lexer.CodeTokens(toks, st)

		for _, tok := range toks {
			next := lexer.Advance(tok, st)
			if !st.Open() && next.Open() && next != lexer.StateLineComment {
				opener = tok
			}
			st = next
		}
		st = st.Carry()

		for _, mark := range lx.Folder().Markers(code) {
			switch mark.Marker {
			case fold.Open:
				blocks = append(blocks, mark)
			case fold.Middle:
				if len(blocks) == 0 {
					c.add(Warning, mark.Token, "%s outside of a block", mark.Token.Content)
				}
			case fold.Close:
				if len(blocks) == 0 {
					c.add(Warning, mark.Token, "%s without matching open", mark.Token.Content)
					continue
				}
				blocks = blocks[:len(blocks)-1]
			}
		}
	}

	if st.Open() {
		c.add(Warning, opener, "unterminated %s", regionNames[st])
	}
	for _, open := range blocks {
		c.add(Warning, open.Token, "%s is never closed", open.Token.Content)
	}

	c.duplicateProperties(lx)

	for _, list := range [][]Diagnostic{c.diags.Errors, c.diags.Warnings} {
		sort.SliceStable(list, func(i, j int) bool {
			return list[i].Location.Offset < list[j].Location.Offset
		})
	}

	zerolog.Ctx(ctx).Debug().
		Int("errors", len(c.diags.Errors)).
		Int("warnings", len(c.diags.Warnings)).
		Msg("generated diagnostics")

	return c.diags, nil
}

type collector struct {
	buf   *document.Buffer
	diags *Diagnostics
}

func (c *collector) add(sev DiagnosticSeverity, at token.Token, format string, args ...any) {
	loc := position.NewBasicPosition(at.Content, at.Pos)
	rng := c.buf.Index().GetRange(loc)
	d := Diagnostic{
		Message:  fmt.Sprintf(format, args...),
		Location: loc,
		Line:     rng.Start.Line + 1,
		Column:   rng.Start.Character + 1,
		EndLine:  rng.End.Line + 1,
		EndCol:   rng.End.Character + 1,
		Severity: sev,
	}
	if sev == Error {
		c.diags.Errors = append(c.diags.Errors, d)
	} else {
		c.diags.Warnings = append(c.diags.Warnings, d)
	}
}

// duplicateProperties reports every declaration of a name after its first.
func (c *collector) duplicateProperties(lx *lexer.Lexer) {
	first := map[string]int{}
	for _, p := range lx.Properties().Properties() {
		key := strings.ToLower(p.Name)
		line, seen := first[key]
		if !seen {
			first[key] = p.Line
			continue
		}
		for _, tok := range token.Tokenize(c.buf, p.Line) {
			if tok.Kind == token.Identifier && strings.EqualFold(tok.Content, p.Name) {
				c.add(Error, tok, "property %s already declared on line %d", p.Name, line+1)
				break
			}
		}
	}
}

// Formatter formats diagnostics into different output formats
type Formatter interface {
	// Format formats diagnostics into a specific output format
	Format(diagnostics *Diagnostics) ([]byte, error)
}

// VSCodeFormatter formats diagnostics into VSCode-compatible format
type VSCodeFormatter struct{}

// NewVSCodeFormatter creates a new VSCodeFormatter
func NewVSCodeFormatter() *VSCodeFormatter {
	return &VSCodeFormatter{}
}

type vscodePosition struct {
	Line      int `json:"line"`
	Character int `json:"character"`
}

type vscodeRange struct {
	Start vscodePosition `json:"start"`
	End   vscodePosition `json:"end"`
}

type vscodeDiagnostic struct {
	Severity int         `json:"severity"`
	Message  string      `json:"message"`
	Source   string      `json:"source"`
	Range    vscodeRange `json:"range"`
}

var vscodeSeverity = map[DiagnosticSeverity]int{
	Error:   1,
	Warning: 2,
}

// Format implements Formatter
func (f *VSCodeFormatter) Format(diagnostics *Diagnostics) ([]byte, error) {
	if diagnostics == nil {
		return nil, errors.Errorf("diagnostics is nil")
	}

	result := make([]vscodeDiagnostic, 0, len(diagnostics.All()))
	for _, d := range diagnostics.All() {
		sev, ok := vscodeSeverity[d.Severity]
		if !ok {
			return nil, errors.Errorf("unknown severity %q at %d:%d", d.Severity, d.Line, d.Column)
		}
		result = append(result, vscodeDiagnostic{
			Severity: sev,
			Message:  d.Message,
			Source:   "papyruslex",
			// VSCode is 0-based
			Range: vscodeRange{
				Start: vscodePosition{Line: d.Line - 1, Character: d.Column - 1},
				End:   vscodePosition{Line: d.EndLine - 1, Character: d.EndCol - 1},
			},
		})
	}

	return json.Marshal(result)
}
