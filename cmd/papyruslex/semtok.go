package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/papyruslex/pkg/position"
	"github.com/walteh/papyruslex/pkg/semtok"
)

type SemtokHandler struct {
	g       *Globals
	lines   string
	encoded bool
}

type encodedTokens struct {
	Legend semtok.Legend `json:"legend"`
	Data   []uint32      `json:"data"`
}

func NewSemtokCommand(g *Globals) *cobra.Command {
	me := &SemtokHandler{g: g}

	cmd := &cobra.Command{
		Use:   "semtok [file-or-dir...]",
		Short: "print semantic tokens the way a language server would send them",
		Args:  cobra.MinimumNArgs(1),
	}

	cmd.Flags().StringVar(&me.lines, "lines", "", "only report tokens on lines FIRST-LAST (one-based, inclusive)")
	cmd.Flags().BoolVar(&me.encoded, "encoded", false, "print the legend and LSP relative encoding as json")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return me.g.EachScript(cmd.Context(), args, func(ctx context.Context, s *Script) error {
			return me.Run(ctx, cmd, s)
		})
	}

	return cmd
}

// parseLines reads "FIRST-LAST" or a single "LINE".
func parseLines(arg string) (first, last int, err error) {
	a, b, found := strings.Cut(arg, "-")
	if !found {
		b = a
	}
	if first, err = strconv.Atoi(strings.TrimSpace(a)); err != nil {
		return 0, 0, errors.Errorf("parsing --lines %q: %w", arg, err)
	}
	if last, err = strconv.Atoi(strings.TrimSpace(b)); err != nil {
		return 0, 0, errors.Errorf("parsing --lines %q: %w", arg, err)
	}
	if first < 1 || last < first {
		return 0, 0, errors.Errorf("invalid --lines %q", arg)
	}
	return first, last, nil
}

func (me *SemtokHandler) tokens(ctx context.Context, s *Script) ([]semtok.Token, error) {
	content := s.Buf.Bytes()
	if me.lines == "" {
		return semtok.GetTokensForText(ctx, content, s.Lexer)
	}

	first, last, err := parseLines(me.lines)
	if err != nil {
		return nil, err
	}
	start := s.Buf.LineStart(first - 1)
	end := max(s.Buf.LineEnd(last-1), start)
	if end == start {
		// blank or past the end; an empty range would select the token under it
		return nil, nil
	}
	ranged := position.NewBasicPosition(string(content[start:end]), start)
	return semtok.GetTokensForRange(ctx, content, s.Lexer, &ranged)
}

func (me *SemtokHandler) Run(ctx context.Context, cmd *cobra.Command, s *Script) error {
	w := cmd.OutOrStdout()

	tokens, err := me.tokens(ctx, s)
	if err != nil {
		return err
	}

	if me.encoded {
		return writeStructured(w, formatJSON, encodedTokens{
			Legend: semtok.NewLegend(),
			Data:   semtok.Encode(tokens, s.Buf.Index()),
		})
	}

	if err := s.header(w); err != nil {
		return err
	}
	idx := s.Buf.Index()
	for _, tok := range tokens {
		at := idx.Place(tok.Range.Offset)
		mods := ""
		if tok.Modifier != semtok.ModifierNone {
			mods = " [" + tok.Modifier.String() + "]"
		}
		if _, err := fmt.Fprintf(w, "%d:%d\t%s%s\t%q\n", at.Line+1, at.Character+1, tok.Type, mods, tok.Range.Text); err != nil {
			return err
		}
	}
	return nil
}
