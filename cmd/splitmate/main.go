// Command splitmate runs the bill-splitting ledger server and a terminal
// client for it: account commands, friend management, split submission and
// a live dashboard watch.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"splitmate/pkg/logging"
)

// version is set at build time via -ldflags "-X main.version=x.y.z".
var version = "dev"

func main() {
	logging.Setup()

	root := &cobra.Command{
		Use:     "splitmate",
		Short:   "Split bills with friends and keep the balances straight",
		Version: version,
	}

	var serverURL string
	root.PersistentFlags().StringVar(&serverURL, "server", "http://localhost:8080", "Base URL of the splitmate server")

	root.AddCommand(
		serveCmd(),
		signupCmd(&serverURL),
		loginCmd(&serverURL),
		logoutCmd(),
		friendsCmd(&serverURL),
		addCmd(&serverURL),
		removeCmd(&serverURL),
		splitCmd(&serverURL),
		watchCmd(&serverURL),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
