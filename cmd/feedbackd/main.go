package main

import (
	stderrors "errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vango-dev/feedback/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "feedbackd",
		Short: "Lifecycle manager and relay for UI feedback items",
		Long: `feedbackd manages the lifecycle of UI feedback items — toasts,
banners, modals, progress indicators — and relays their state to
connected clients.

Items move through pending → entering → visible → exiting, with
auto-dismiss timers, per-type visibility caps, and an optional
admission queue. Every transition is published over WebSocket and
exposed through a REST API.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		serveCmd(),
		demoCmd(),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		var coded *errors.Error
		if stderrors.As(err, &coded) {
			fmt.Fprintln(os.Stderr, coded.Format())
		} else {
			fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		}
		os.Exit(1)
	}
}
