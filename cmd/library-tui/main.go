package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/handiism/book-library/internal/app"
	"github.com/handiism/book-library/internal/config"
	"github.com/handiism/book-library/internal/tui"
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
		Use:           "library-tui",
		Short:         "Manage a personal book library in a full-screen terminal UI",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), configFlag)
		},
	}
	cmd.Flags().StringVarP(&configFlag, "config", "c", config.DefaultPath, "Path to config file")
	return cmd
}

func run(parent context.Context, configPath string) error {
	fd := os.Stdout.Fd()
	if !isatty.IsTerminal(fd) && !isatty.IsCygwinTerminal(fd) {
		return errors.New("library-tui needs a terminal; use library for piped input")
	}

	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Log lines would corrupt the alternate screen.
	session, err := app.Bootstrap(ctx, configPath, io.Discard)
	if err != nil {
		return err
	}
	defer session.Close()

	report, err := tui.Run(ctx, session)
	switch {
	case errors.Is(err, context.Canceled):
		fmt.Println("Interrupted, library not saved.")
		return nil
	case err != nil:
		return err
	case report.Err != nil:
		fmt.Fprintf(os.Stderr, "Saving failed: %v\n", report.Err)
	case report.Saved:
		fmt.Printf("Library saved (%d books). Goodbye!\n", report.Books)
	default:
		fmt.Println("Quit without saving.")
	}
	return nil
}
