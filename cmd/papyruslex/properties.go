package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

type PropertiesHandler struct {
	g      *Globals
	format string
}

type propertyEntry struct {
	Name string `json:"name" yaml:"name"`
	Line int    `json:"line" yaml:"line"`
}

func NewPropertiesCommand(g *Globals) *cobra.Command {
	me := &PropertiesHandler{g: g}

	cmd := &cobra.Command{
		Use:   "properties [file-or-dir...]",
		Short: "list the properties each script declares",
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

func (me *PropertiesHandler) Run(ctx context.Context, cmd *cobra.Command, s *Script) error {
	w := cmd.OutOrStdout()

	props := s.Lexer.Properties().Properties()
	entries := make([]propertyEntry, 0, len(props))
	for _, p := range props {
		entries = append(entries, propertyEntry{Name: p.Name, Line: p.Line + 1})
	}

	if me.format != formatText {
		return writeStructured(w, me.format, map[string]any{"path": s.Path, "properties": entries})
	}

	if err := s.header(w); err != nil {
		return err
	}
	for _, e := range entries {
		if _, err := fmt.Fprintf(w, "%d\t%s\n", e.Line, e.Name); err != nil {
			return err
		}
	}
	return nil
}
