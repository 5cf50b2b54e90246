package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/papyruslex/pkg/diagnostic"
)

type CheckHandler struct {
	g         *Globals
	format    string // text, vscode
	generator diagnostic.Generator
}

func NewCheckCommand(g *Globals) *cobra.Command {
	me := &CheckHandler{g: g, generator: diagnostic.NewDefaultGenerator()}

	cmd := &cobra.Command{
		Use:   "check [file-or-dir...]",
		Short: "report unterminated regions, unbalanced blocks and duplicate properties",
		Args:  cobra.MinimumNArgs(1),
	}

	cmd.Flags().StringVar(&me.format, "format", formatText, "the format of the diagnostics: text or vscode")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		if err := checkFormat(me.format, formatText, "vscode"); err != nil {
			return err
		}
		return me.g.EachScript(cmd.Context(), args, func(ctx context.Context, s *Script) error {
			return me.Run(ctx, cmd, s)
		})
	}

	return cmd
}

// Run prints the diagnostics of s and fails when any of them is an error.
func (me *CheckHandler) Run(ctx context.Context, cmd *cobra.Command, s *Script) error {
	w := cmd.OutOrStdout()

	diags, err := me.generator.Generate(ctx, s.Buf, s.Lexer)
	if err != nil {
		return errors.Errorf("generating diagnostics: %w", err)
	}

	zerolog.Ctx(ctx).Debug().
		Str("path", s.Path).
		Int("errors", len(diags.Errors)).
		Int("warnings", len(diags.Warnings)).
		Msg("checked script")

	if me.format == "vscode" {
		out, err := diagnostic.NewVSCodeFormatter().Format(diags)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintln(w, string(out)); err != nil {
			return err
		}
	} else {
		for _, d := range diags.All() {
			if _, err := fmt.Fprintf(w, "%s:%s\n", s.Path, d); err != nil {
				return err
			}
		}
	}

	if n := len(diags.Errors); n > 0 {
		return errors.Errorf("%d error(s)", n)
	}
	return nil
}
