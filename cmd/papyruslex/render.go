package main

import (
	"context"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/papyruslex/pkg/render"
)

type RenderHandler struct {
	g           *Globals
	format      string // ansi, html
	colorMode   string // auto, always, never
	tabWidth    int
	lineNumbers bool
	foldGutter  bool
	standalone  bool
}

func NewRenderCommand(g *Globals) *cobra.Command {
	me := &RenderHandler{g: g}

	cmd := &cobra.Command{
		Use:   "render [file-or-dir...]",
		Short: "print papyrus scripts highlighted for a terminal or as html",
		Args:  cobra.MinimumNArgs(1),
	}

	cmd.Flags().StringVar(&me.format, "format", "ansi", "output format: ansi or html")
	cmd.Flags().StringVar(&me.colorMode, "color", "auto", "ansi colors: auto, always or never")
	cmd.Flags().IntVar(&me.tabWidth, "tab-width", 0, "tab width; 0 reads .editorconfig")
	cmd.Flags().BoolVarP(&me.lineNumbers, "line-numbers", "n", false, "number the lines (ansi)")
	cmd.Flags().BoolVar(&me.foldGutter, "fold-gutter", false, "mark fold headers and block bodies (ansi)")
	cmd.Flags().BoolVar(&me.standalone, "standalone", false, "write a complete html page with a style sheet (html)")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		if err := checkFormat(me.format, "ansi", "html"); err != nil {
			return err
		}
		if err := checkFormat(me.colorMode, "auto", "always", "never"); err != nil {
			return err
		}
		return me.g.EachScript(cmd.Context(), args, func(ctx context.Context, s *Script) error {
			return me.Run(ctx, cmd, s)
		})
	}

	return cmd
}

func (me *RenderHandler) useColor() bool {
	switch me.colorMode {
	case "always":
		return true
	case "never":
		return false
	default:
		return !color.NoColor
	}
}

// resolveTabWidth returns the --tab-width flag or the .editorconfig value
// for path.
func resolveTabWidth(ctx context.Context, g *Globals, flag int, path string) int {
	if flag > 0 {
		return flag
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	width, err := render.TabWidth(g.Fs(), abs, render.DefaultTabWidth)
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("path", path).Msg("ignoring .editorconfig")
	}
	return width
}

func (me *RenderHandler) Run(ctx context.Context, cmd *cobra.Command, s *Script) error {
	w := cmd.OutOrStdout()

	if me.format == "html" {
		err := render.HTML(w, s.Buf, s.Lexer.Properties(), render.HTMLOptions{
			Standalone: me.standalone,
			Title:      filepath.Base(s.Path),
		})
		if err != nil {
			return err
		}
		if _, err := w.Write([]byte("\n")); err != nil {
			return errors.Errorf("writing html: %w", err)
		}
		return nil
	}

	if err := s.header(w); err != nil {
		return err
	}
	return render.ANSI(w, s.Buf, render.ANSIOptions{
		TabWidth:    resolveTabWidth(ctx, me.g, me.tabWidth, s.Path),
		Color:       me.useColor(),
		LineNumbers: me.lineNumbers,
		FoldGutter:  me.foldGutter,
	})
}
