package main

import (
	"context"
	"os"
	"runtime/debug"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"
)

func main() {
	if err := run(); err != nil {
		println(err.Error())
		os.Exit(1)
	}
}

func run() error {
	rootCmd := NewRootCommand(NewGlobals(afero.NewOsFs()))

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		return errors.Errorf("failed to execute command: %w", err)
	}

	return nil
}

func NewRootCommand(g *Globals) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "papyruslex",
		Short:         "Style, fold and inspect Papyrus scripts",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	info, ok := debug.ReadBuildInfo()
	if !ok {
		rootCmd.Version = "unknown"
	} else {
		rootCmd.Version = info.Main.Version
	}

	cmdVersion := &cobra.Command{
		Use: "raw-version",
		Run: func(cmdz *cobra.Command, args []string) {
			cmdz.Println(rootCmd.Version)
		},
		Hidden: true,
	}

	g.Bind(rootCmd)

	rootCmd.AddCommand(cmdVersion)
	rootCmd.AddCommand(NewLexCommand(g))
	rootCmd.AddCommand(NewFoldCommand(g))
	rootCmd.AddCommand(NewPropertiesCommand(g))
	rootCmd.AddCommand(NewSemtokCommand(g))
	rootCmd.AddCommand(NewCheckCommand(g))
	rootCmd.AddCommand(NewRenderCommand(g))
	rootCmd.AddCommand(NewViewCommand(g))

	return rootCmd
}
