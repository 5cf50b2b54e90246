package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/walteh/papyruslex/pkg/style"
)

type LexHandler struct {
	g      *Globals
	format string
	all    bool
}

type styledRun struct {
	Line   int    `json:"line" yaml:"line"`
	Column int    `json:"column" yaml:"column"`
	Length int    `json:"length" yaml:"length"`
	Style  string `json:"style" yaml:"style"`
	Text   string `json:"text" yaml:"text"`
}

func NewLexCommand(g *Globals) *cobra.Command {
	me := &LexHandler{g: g}

	cmd := &cobra.Command{
		Use:   "lex [file-or-dir...]",
		Short: "print the style runs of papyrus scripts",
		Args:  cobra.MinimumNArgs(1),
	}

	cmd.Flags().StringVar(&me.format, "format", formatText, "output format: text, json or yaml")
	cmd.Flags().BoolVar(&me.all, "all", false, "include unstyled (default) runs")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		if err := checkFormat(me.format, formatText, formatJSON, formatYAML); err != nil {
			return err
		}
		return me.g.EachScript(cmd.Context(), args, func(ctx context.Context, s *Script) error {
			return me.Run(ctx, cmd, s)
		})
	}

	return cmd
}

// Runs lists the style runs line by line. Columns are one-based bytes.
func (me *LexHandler) Runs(s *Script) []styledRun {
	text := s.Buf.Bytes()
	var out []styledRun
	for line := 0; line < s.Buf.LineCount(); line++ {
		start := s.Buf.LineStart(line)
		for _, run := range s.Buf.LineRuns(line) {
			if run.Style == style.Default && !me.all {
				continue
			}
			out = append(out, styledRun{
				Line:   line + 1,
				Column: run.Pos - start + 1,
				Length: run.Length,
				Style:  run.Style.String(),
				Text:   string(text[run.Pos:run.End()]),
			})
		}
	}
	return out
}

func (me *LexHandler) Run(ctx context.Context, cmd *cobra.Command, s *Script) error {
	w := cmd.OutOrStdout()
	runs := me.Runs(s)

	if me.format != formatText {
		return writeStructured(w, me.format, map[string]any{"path": s.Path, "runs": runs})
	}

	if err := s.header(w); err != nil {
		return err
	}
	for _, r := range runs {
		if _, err := fmt.Fprintf(w, "%d:%d\t%s\t%q\n", r.Line, r.Column, r.Style, r.Text); err != nil {
			return err
		}
	}
	return nil
}
