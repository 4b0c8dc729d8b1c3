package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/handiism/book-library/internal/app"
	"github.com/handiism/book-library/internal/config"
	"github.com/handiism/book-library/internal/shell"
)

func main() {
	cmd := newRootCommand()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var configFlag string

	cmd := &cobra.Command{
		Use:           "library",
		Short:         "Manage a personal book library from a numbered menu",
		Long:          "Interactive book library. For the full-screen interface, use: library-tui",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), configFlag)
		},
	}
	cmd.PersistentFlags().StringVarP(&configFlag, "config", "c", config.DefaultPath, "Path to config file")
	cmd.AddCommand(newConfigCommand(&configFlag))
	return cmd
}

func run(parent context.Context, configPath string) error {
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	session, err := app.Bootstrap(ctx, configPath, os.Stderr)
	if err != nil {
		return err
	}
	defer session.Close()

	err = shell.New(session, os.Stdin, os.Stdout).Run(ctx)
	if errors.Is(err, context.Canceled) {
		fmt.Println("\nInterrupted, library not saved.")
		return nil
	}
	return err
}
