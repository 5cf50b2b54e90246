package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

type FoldHandler struct {
	g      *Globals
	format string
}

type foldLine struct {
	Line    int    `json:"line" yaml:"line"`
	Depth   int    `json:"depth" yaml:"depth"`
	Next    int    `json:"next" yaml:"next"`
	Header  bool   `json:"header,omitempty" yaml:"header,omitempty"`
	Blank   bool   `json:"blank,omitempty" yaml:"blank,omitempty"`
	Encoded string `json:"encoded" yaml:"encoded"`
}

func NewFoldCommand(g *Globals) *cobra.Command {
	me := &FoldHandler{g: g}

	cmd := &cobra.Command{
		Use:   "fold [file-or-dir...]",
		Short: "print the fold level of every line",
		Args:  cobra.MinimumNArgs(1),
	}

	cmd.Flags().StringVar(&me.format, "format", formatText, "output format: text, json or yaml")

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

func (me *FoldHandler) Run(ctx context.Context, cmd *cobra.Command, s *Script) error {
	w := cmd.OutOrStdout()

	levels := s.Buf.Levels()
	lines := make([]foldLine, 0, len(levels))
	for i, l := range levels {
		lines = append(lines, foldLine{
			Line:    i + 1,
			Depth:   l.Depth,
			Next:    l.Next,
			Header:  l.Header,
			Blank:   l.Blank,
			Encoded: fmt.Sprintf("0x%08x", s.Buf.LevelAt(i)),
		})
	}

	if me.format != formatText {
		return writeStructured(w, me.format, map[string]any{"path": s.Path, "lines": lines})
	}

	if err := s.header(w); err != nil {
		return err
	}
	numWidth := len(strconv.Itoa(len(lines)))
	for i, l := range lines {
		mark := " "
		if l.Header {
			mark = "+"
		}
		if _, err := fmt.Fprintf(w, "%*d %s %d>%d %s\n", numWidth, l.Line, mark, l.Depth, l.Next, s.Buf.Line(i)); err != nil {
			return err
		}
	}
	return nil
}
