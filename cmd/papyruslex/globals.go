package main

import (
	"context"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"
	"go.uber.org/multierr"

	"github.com/walteh/papyruslex/pkg/config"
	"github.com/walteh/papyruslex/pkg/debug"
	"github.com/walteh/papyruslex/pkg/document"
	"github.com/walteh/papyruslex/pkg/finder"
	"github.com/walteh/papyruslex/pkg/lexer"
	"github.com/walteh/papyruslex/pkg/style"
	"github.com/walteh/papyruslex/pkg/wordlist"
)

// Globals holds the persistent flags and the filesystem every command reads
// through.
type Globals struct {
	ConfigDir string
	Builtin   bool
	Debug     bool
	Patterns  []string

	fs   afero.Fs
	docs *document.Manager
	// settings built from the config dir on first use
	settings *lexerSettings
}

type lexerSettings struct {
	words       *wordlist.Set
	suppressors map[string][]string
	usable      func() bool
}

func NewGlobals(fs afero.Fs) *Globals {
	return &Globals{
		ConfigDir: ".",
		Patterns:  finder.DefaultPatterns,
		fs:        fs,
		docs:      document.NewManager(fs),
	}
}

func (g *Globals) Fs() afero.Fs { return g.fs }

// Bind registers the persistent flags on the root command and installs the
// logger before any subcommand runs.
func (g *Globals) Bind(root *cobra.Command) {
	flags := root.PersistentFlags()
	flags.StringVar(&g.ConfigDir, "config-dir", g.ConfigDir, "directory holding "+strings.Join(config.FileNames, " or "))
	flags.BoolVar(&g.Builtin, "builtin", false, "use the built-in Papyrus word lists instead of a config file")
	flags.BoolVar(&g.Debug, "debug", false, "enable debug logging")
	flags.StringSliceVar(&g.Patterns, "pattern", g.Patterns, "glob patterns used when a directory is given")

	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		ctx := debug.WithLogger(cmd.Context(), cmd.ErrOrStderr(), debug.LoggerOptions{
			Debug: g.Debug,
			Color: !color.NoColor,
		})
		cmd.SetContext(ctx)
		return nil
	}
}

func (g *Globals) lexerSettings(ctx context.Context) (*lexerSettings, error) {
	if g.settings != nil {
		return g.settings, nil
	}

	logger := zerolog.Ctx(ctx)

	if g.Builtin {
		g.settings = &lexerSettings{
			words:       wordlist.Papyrus(),
			suppressors: wordlist.PapyrusFoldSuppressors(),
		}
		return g.settings, nil
	}

	loc := config.NewLocator(g.fs, g.ConfigDir)
	settings := &lexerSettings{
		words:       wordlist.New(),
		suppressors: map[string][]string{},
		usable:      loc.Available,
	}
	if !loc.Available() {
		logger.Warn().Str("dir", g.ConfigDir).Msg("no config file found; nothing will be styled (use --builtin for stock Papyrus)")
		g.settings = settings
		return settings, nil
	}

	cfg, err := loc.Load(ctx)
	if err != nil {
		return nil, errors.Errorf("loading config: %w", err)
	}
	settings.words = cfg.Words()
	settings.suppressors = cfg.Suppressors()
	g.settings = settings
	return settings, nil
}

// NewLexer returns a lexer for one document.
func (g *Globals) NewLexer(ctx context.Context) (*lexer.Lexer, error) {
	s, err := g.lexerSettings(ctx)
	if err != nil {
		return nil, err
	}
	return lexer.New(lexer.Options{
		Words:           s.words,
		FoldSuppressors: s.suppressors,
		Usable:          s.usable,
	}), nil
}

// Script is a loaded, lexed and folded document.
type Script struct {
	Path  string
	Buf   *document.Buffer
	Lexer *lexer.Lexer
	// Multiple is set when the script is one of several in a batch.
	Multiple bool
}

// Paths expands args into script paths: files are kept as given, directories
// are searched with the glob patterns.
func (g *Globals) Paths(ctx context.Context, args []string) ([]string, error) {
	f := finder.NewDefaultFinder(g.fs)

	var out []string
	for _, arg := range args {
		info, err := g.fs.Stat(arg)
		if err != nil {
			return nil, errors.Errorf("reading %s: %w", arg, err)
		}
		if !info.IsDir() {
			out = append(out, arg)
			continue
		}
		found, err := f.FindScripts(ctx, arg, g.Patterns)
		if err != nil {
			return nil, err
		}
		out = append(out, found...)
	}
	return out, nil
}

// Open loads and lexes one script.
func (g *Globals) Open(ctx context.Context, path string) (*Script, error) {
	buf, err := g.docs.Open(path)
	if err != nil {
		return nil, err
	}
	lx, err := g.NewLexer(ctx)
	if err != nil {
		return nil, err
	}

	lx.Lex(ctx, 0, buf.Length(), style.Default, buf)
	lx.Fold(ctx, 0, buf.Length(), style.Default, buf)

	zerolog.Ctx(ctx).Debug().
		Str("path", path).
		Str("lexer", lx.ID()).
		Int("lines", buf.LineCount()).
		Int("properties", lx.Properties().Len()).
		Msg("lexed script")

	return &Script{Path: path, Buf: buf, Lexer: lx}, nil
}

// EachScript runs fn on every script named by args. A failing script does not
// stop the others; all failures are returned together.
func (g *Globals) EachScript(ctx context.Context, args []string, fn func(ctx context.Context, s *Script) error) error {
	paths, err := g.Paths(ctx, args)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		zerolog.Ctx(ctx).Warn().Strs("args", args).Msg("no scripts found")
		return nil
	}

	var errs error
	for _, path := range paths {
		s, err := g.Open(ctx, path)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		s.Multiple = len(paths) > 1
		if err := fn(ctx, s); err != nil {
			errs = multierr.Append(errs, errors.Errorf("%s: %w", path, err))
		}
	}
	return errs
}

// header writes a "==> path <==" line when several scripts share one output.
func (s *Script) header(w io.Writer) error {
	if !s.Multiple {
		return nil
	}
	_, err := io.WriteString(w, "==> "+s.Path+" <==\n")
	return err
}
