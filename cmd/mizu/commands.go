package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/Cyclone1070/mizu/internal/theme"
	"github.com/Cyclone1070/mizu/internal/workspace"
	"github.com/spf13/cobra"
)

// exitCodeError carries a terminal command's exit status out of main.
type exitCodeError struct {
	code int
}

func (e *exitCodeError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

// headlessApp builds an app for one-shot subcommands, which never prompt.
func headlessApp(cmd *cobra.Command, opts *globalOptions) (*app, error) {
	return newApp(opts, bufio.NewReader(strings.NewReader("")), cmd.ErrOrStderr())
}

func newTreeCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "tree <folder>",
		Short: "Print the workspace tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := headlessApp(cmd, opts)
			if err != nil {
				return err
			}
			defer a.close()

			if err := a.openArg(args); err != nil {
				return err
			}
			tree, err := a.ws.ListTree(cmd.Context())
			if err != nil {
				return err
			}
			renderTree(cmd.OutOrStdout(), tree)
			return nil
		},
	}
}

// renderTree prints node and its descendants with box-drawing guides.
// Ignored entries are dimmed.
func renderTree(w io.Writer, node *workspace.TreeNode) {
	fmt.Fprintln(w, folderStyle.Render(node.Name))
	renderChildren(w, node.Children, "")
}

func renderChildren(w io.Writer, children []*workspace.TreeNode, prefix string) {
	for i, child := range children {
		branch, next := "├── ", "│   "
		if i == len(children)-1 {
			branch, next = "└── ", "    "
		}

		name := child.Name
		if child.Kind == workspace.ItemFolder {
			name = folderStyle.Render(name + "/")
		}
		if child.Ignored {
			name = ignoredStyle.Render(name)
		}
		fmt.Fprintln(w, prefix+branch+name)

		if len(child.Children) > 0 {
			renderChildren(w, child.Children, prefix+next)
		}
	}
}

func newCatCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "cat <folder> <path>",
		Short: "Print a text file from the workspace",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := headlessApp(cmd, opts)
			if err != nil {
				return err
			}
			defer a.close()

			if err := a.openArg(args[:1]); err != nil {
				return err
			}
			text, err := a.ws.ReadFile(args[1])
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), text)
			return nil
		},
	}
}

func newRunCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "run <folder> -- <command>...",
		Short: "Run one command in the workspace terminal",
		Long: `Run one command through the terminal session rooted at folder.
Built-ins such as cd and pwd behave as in the console. The process exits
with the command's exit status.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := headlessApp(cmd, opts)
			if err != nil {
				return err
			}
			defer a.close()

			if err := a.openArg(args[:1]); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			res := a.term.Run(ctx, strings.Join(args[1:], " "))
			c := &console{out: cmd.OutOrStdout()}
			c.renderTerminal(res)
			if res.IsError {
				code := res.ExitCode
				if code == 0 {
					code = 1
				}
				return &exitCodeError{code: code}
			}
			return nil
		},
	}
}

func newThemesCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "themes",
		Short: "List available themes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := headlessApp(cmd, opts)
			if err != nil {
				return err
			}
			defer a.close()

			themes, err := a.themes.List()
			if err != nil {
				return err
			}
			saved := a.themes.Saved()
			out := cmd.OutOrStdout()
			for _, t := range themes {
				marker := "  "
				if t.Filename == saved {
					marker = successStyle.Render("* ")
				}
				line := fmt.Sprintf("%s%s (%s)", marker, t.DisplayName, t.Filename)
				if t.IsDefault {
					line += cwdStyle.Render(" default")
				}
				fmt.Fprintln(out, line)
			}
			return nil
		},
	}
}

func newServeThemesCmd(opts *globalOptions) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve-themes",
		Short: "Serve theme stylesheets over HTTP until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := headlessApp(cmd, opts)
			if err != nil {
				return err
			}
			defer a.close()

			if addr == "" {
				addr = a.cfg.Theme.ListenAddr
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			fmt.Fprintf(cmd.OutOrStdout(), "Serving themes from %s on http://%s\n", a.themes.Dir(), addr)
			return theme.Serve(ctx, addr, theme.NewRouter(a.themes, a.logger.Named("http")), a.logger.Named("http"))
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from config)")
	return cmd
}

func newMethodsCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "methods",
		Short: "List the methods callable from the console",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := headlessApp(cmd, opts)
			if err != nil {
				return err
			}
			defer a.close()

			for _, name := range a.bridge.Methods() {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
}
