// Package main provides the mizu command-line interface: a console over a
// single workspace folder with an embedded terminal.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "mizu",
		Short: "Workspace manager with an embedded terminal",
		Long: `mizu opens one folder as a workspace and exposes file management,
a working-directory aware terminal and stylesheet themes.

Run without a subcommand to start the interactive console.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	opts := addGlobalFlags(rootCmd)
	consoleCmd := newConsoleCmd(opts)
	rootCmd.Args = consoleCmd.Args
	rootCmd.RunE = consoleCmd.RunE
	rootCmd.Flags().AddFlagSet(consoleCmd.Flags())

	rootCmd.AddCommand(
		consoleCmd,
		newTreeCmd(opts),
		newCatCmd(opts),
		newRunCmd(opts),
		newThemesCmd(opts),
		newServeThemesCmd(opts),
		newMethodsCmd(opts),
	)

	if err := rootCmd.Execute(); err != nil {
		var codeErr *exitCodeError
		if errors.As(err, &codeErr) {
			os.Exit(codeErr.code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
