/*
Package lexer styles and folds Papyrus Script documents for an editor.

A host calls Lex and Fold with a byte range, the style in effect just before
the range and an accessor over its document:

	      host
	        |  Lex(start, length, initStyle, doc)
	        v
	  +-----------+   tokens    +------------+   spans   +-----------+
	  | tokenizer | ----------> | classifier | --------> | document  |
	  +-----------+             +------------+           +-----------+
	        |                      |      ^
	        |                      v      |
	        |                 property cache
	        |
	        |  Fold(start, length, initStyle, doc)
	        v
	  +-----------+  code tokens +---------------+  levels  +-----------+
	  | tokenizer | -----------> | fold computer | -------> | document  |
	  +-----------+              +---------------+          +-----------+

The only state carried between lines is the comment/string region (for Lex)
and the fold depth (for Fold). Both are recovered from the document at the
start of a call, so any range can be re-lexed on its own.

One Lexer serves one document. Calls must not overlap; different Lexers may
share a word list set.
*/
package lexer

import (
	"context"
	"slices"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/walteh/papyruslex/pkg/document"
	"github.com/walteh/papyruslex/pkg/fold"
	"github.com/walteh/papyruslex/pkg/property"
	"github.com/walteh/papyruslex/pkg/style"
	"github.com/walteh/papyruslex/pkg/token"
	"github.com/walteh/papyruslex/pkg/wordlist"
)

type Options struct {
	Words *wordlist.Set
	// FoldSuppressors defaults to wordlist.PapyrusFoldSuppressors when nil.
	FoldSuppressors map[string][]string
	// Declarations defaults to PapyrusDeclarations when nil.
	Declarations map[string]style.Style
	// Usable gates both entry points; nil means always usable.
	Usable func() bool
	// OnPropertiesChanged is called after a Lex that changed the set of
	// declared property names, so the host can restyle other lines.
	OnPropertiesChanged func(names []string)
}

type Lexer struct {
	id      string
	opts    Options
	props   *property.Cache
	classes *Classifier
	folder  *fold.Computer
}

func New(opts Options) *Lexer {
	if opts.Words == nil {
		opts.Words = wordlist.New()
	}
	if opts.FoldSuppressors == nil {
		opts.FoldSuppressors = wordlist.PapyrusFoldSuppressors()
	}
	if opts.Declarations == nil {
		opts.Declarations = PapyrusDeclarations()
	}

	props := property.NewCache()
	return &Lexer{
		id:      uuid.NewString(),
		opts:    opts,
		props:   props,
		classes: NewClassifier(opts.Words, props, opts.Declarations),
		folder:  fold.NewComputer(opts.Words, opts.FoldSuppressors),
	}
}

func (l *Lexer) ID() string { return l.id }

// Properties exposes the document's property cache for reading.
func (l *Lexer) Properties() *property.Cache { return l.props }

// Folder is the fold computer built from the lexer's word lists.
func (l *Lexer) Folder() *fold.Computer { return l.folder }

// Usable reports whether the lexer is configured to do any work.
func (l *Lexer) Usable() bool {
	return l.opts.Usable == nil || l.opts.Usable()
}

// ShiftLines keeps cached declaration lines in step with lines inserted
// (delta > 0) or deleted (delta < 0) at from.
func (l *Lexer) ShiftLines(from, delta int) {
	l.props.ShiftLines(from, delta)
}

// lines returns the first and last line overlapping [start, start+length).
func lines(start, length int, doc document.Accessor) (first, last int, ok bool) {
	if start < 0 {
		length += start
		start = 0
	}
	if end := doc.Length(); start+length > end {
		length = end - start
	}
	if length <= 0 {
		return 0, 0, false
	}
	return doc.LineFromPosition(start), doc.LineFromPosition(start + length - 1), true
}

// Lex styles every line overlapping [start, start+length). initStyle is the
// style just before the first line; only comment and string styles carry.
// A range covering the whole document rebuilds the property cache first.
func (l *Lexer) Lex(ctx context.Context, start, length int, initStyle style.Style, doc document.Accessor) {
	logger := zerolog.Ctx(ctx).With().Str("lexer", l.id).Logger()

	if !l.Usable() {
		logger.Debug().Msg("lexer not usable, skipping lex")
		return
	}

	first, last, ok := lines(start, length, doc)
	if !ok {
		return
	}

	before := l.props.Names()
	full := start <= 0 && start+length >= doc.Length()

	if full {
		l.props.Reset()
		l.collect(doc)
		logger.Trace().Int("properties", l.props.Len()).Msg("rebuilt property cache")
	}

	st := StateFromStyle(initStyle)
	logger.Trace().Int("first_line", first).Int("last_line", last).Stringer("state", st).Msg("lexing")

	for line := first; line <= last; line++ {
		l.props.ClearLine(line)
		res := l.classes.Line(token.Tokenize(doc, line), st, line,
			doc.LineStart(line), doc.LineEnd(line), doc.LineStart(line+1))
		for _, sp := range res.Spans {
			doc.SetStyle(sp.Pos, sp.End-sp.Pos, sp.Style)
		}
		st = res.State
	}

	if st.Open() {
		logger.Trace().Stringer("state", st).Msg("region still open at end of range")
	}

	if after := l.props.Names(); !slices.Equal(before, after) {
		logger.Debug().Strs("properties", after).Msg("declared properties changed")
		if l.opts.OnPropertiesChanged != nil {
			l.opts.OnPropertiesChanged(after)
		}
	}
}

// collect records the declarations of every line without styling, so
// references above a declaration are recognized on the styling pass.
func (l *Lexer) collect(doc document.Accessor) {
	st := StateDefault
	for line := 0; line < doc.LineCount(); line++ {
		res := l.classes.Line(token.Tokenize(doc, line), st, line,
			doc.LineStart(line), doc.LineEnd(line), doc.LineStart(line+1))
		st = res.State
	}
}

// Fold writes the fold level of every line overlapping [start,
// start+length). The depth is seeded from the level recorded for the line
// before the range; initStyle tells whether the range starts inside a
// comment or string, whose text never holds fold markers.
func (l *Lexer) Fold(ctx context.Context, start, length int, initStyle style.Style, doc document.Accessor) {
	logger := zerolog.Ctx(ctx).With().Str("lexer", l.id).Logger()

	if !l.Usable() {
		logger.Debug().Msg("lexer not usable, skipping fold")
		return
	}

	first, last, ok := lines(start, length, doc)
	if !ok {
		return
	}

	depth := 0
	if first > 0 {
		depth = fold.Decode(doc.LevelAt(first - 1)).Next
	}
	st := StateFromStyle(initStyle)
	logger.Trace().Int("first_line", first).Int("last_line", last).Int("depth", depth).Msg("folding")

	for line := first; line <= last; line++ {
		tokens := token.Tokenize(doc, line)

		var code []token.Token
		code, st = CodeTokens(tokens, st)
		st = st.Carry()

		lvl := l.folder.Compute(code, depth)
		lvl.Blank = len(tokens) == 0
		doc.SetLevel(line, lvl.Encode())
		depth = lvl.Next
	}
}
