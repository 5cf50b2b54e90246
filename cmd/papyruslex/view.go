package main

import (
	"context"
	"path/filepath"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/papyruslex/pkg/view"
)

type ViewHandler struct {
	g        *Globals
	tabWidth int
	// newScreen is replaced in tests with a simulation screen
	newScreen func() (tcell.Screen, error)
}

func NewViewCommand(g *Globals) *cobra.Command {
	me := &ViewHandler{g: g, newScreen: tcell.NewScreen}

	cmd := &cobra.Command{
		Use:   "view [file]",
		Short: "browse a papyrus script in the terminal with collapsible folds",
		Args:  cobra.ExactArgs(1),
	}

	cmd.Flags().IntVar(&me.tabWidth, "tab-width", 0, "tab width; 0 reads .editorconfig")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return me.Run(cmd.Context(), args[0])
	}

	return cmd
}

func (me *ViewHandler) Run(ctx context.Context, path string) error {
	s, err := me.g.Open(ctx, path)
	if err != nil {
		return err
	}

	screen, err := me.newScreen()
	if err != nil {
		return errors.Errorf("creating screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return errors.Errorf("initializing screen: %w", err)
	}
	defer screen.Fini()

	v := view.New(screen, s.Buf, view.Options{
		Title:    filepath.Base(path),
		TabWidth: resolveTabWidth(ctx, me.g, me.tabWidth, path),
	})
	return v.Run(ctx)
}
