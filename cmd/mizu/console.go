package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/Cyclone1070/mizu/internal/bridge"
	"github.com/Cyclone1070/mizu/internal/logging"
	"github.com/Cyclone1070/mizu/internal/terminal"
	"github.com/Cyclone1070/mizu/internal/theme"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"
)

// clearScreen homes the cursor and erases the display.
const clearScreen = "\x1b[H\x1b[2J"

// caller is the bridge as seen by the console.
type caller interface {
	Call(ctx context.Context, name string, args map[string]any) bridge.Response
	Methods() []string
}

// console reads lines from in. Lines starting with ':' call a bridge method,
// everything else runs in the terminal session.
type console struct {
	bridge      caller
	cwd         func() string
	in          *bufio.Reader
	out         io.Writer
	interactive bool
	setLogLevel func(level string) error
}

func newConsoleCmd(opts *globalOptions) *cobra.Command {
	var noThemeServer bool

	cmd := &cobra.Command{
		Use:   "console [folder]",
		Short: "Start the interactive console",
		Long: `Start the interactive console, optionally opening folder as the workspace.

Plain lines run in the terminal session. Lines starting with ':' call a
method, e.g. ':read_file path=src/main.go'. Ctrl-C cancels the running
command; ':quit' leaves.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := bufio.NewReader(os.Stdin)
			a, err := newApp(opts, in, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer a.close()

			if err := a.openArg(args); err != nil {
				return err
			}

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			if !noThemeServer {
				go func() {
					if err := theme.Serve(ctx, a.cfg.Theme.ListenAddr, theme.NewRouter(a.themes, a.logger.Named("http")), a.logger.Named("http")); err != nil {
						a.logger.Warn("theme server stopped", zap.Error(err))
					}
				}()
			}

			c := &console{
				bridge:      a.bridge,
				cwd:         a.term.Cwd,
				in:          in,
				out:         cmd.OutOrStdout(),
				interactive: term.IsTerminal(int(os.Stdin.Fd())),
				setLogLevel: logging.SetLevel,
			}

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt)
			defer signal.Stop(sigCh)
			go c.forwardInterrupts(ctx, sigCh)

			return c.run(ctx)
		},
	}

	cmd.Flags().BoolVar(&noThemeServer, "no-theme-server", false, "Do not serve themes over HTTP")
	return cmd
}

// forwardInterrupts turns each signal into a terminal_cancel call.
func (c *console) forwardInterrupts(ctx context.Context, sigCh <-chan os.Signal) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-sigCh:
			resp := c.bridge.Call(ctx, "terminal_cancel", nil)
			if data, ok := resp.Data.(map[string]any); ok && data["cancelled"] == false {
				fmt.Fprintln(c.out)
				fmt.Fprintln(c.out, cwdStyle.Render("nothing running, :quit to leave"))
			}
		}
	}
}

func (c *console) run(ctx context.Context) error {
	if c.interactive {
		fmt.Fprintln(c.out, titleStyle.Render("mizu")+cwdStyle.Render("  :help lists methods, :quit leaves"))
	}
	for {
		if ctx.Err() != nil {
			return nil
		}
		if c.interactive {
			fmt.Fprint(c.out, c.prompt())
		}
		line, err := c.in.ReadString('\n')
		if text := strings.TrimSpace(line); text != "" {
			if c.handle(ctx, text) {
				return nil
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("failed to read input: %w", err)
		}
	}
}

func (c *console) prompt() string {
	cwd := c.cwd()
	if cwd == "" {
		return promptStyle.Render("mizu> ")
	}
	return cwdStyle.Render(cwd) + " " + promptStyle.Render("$ ")
}

// handle processes one line and reports whether the console should exit.
func (c *console) handle(ctx context.Context, line string) bool {
	if !strings.HasPrefix(line, ":") {
		c.render(c.bridge.Call(ctx, "terminal_run", map[string]any{"command": line}))
		return false
	}

	name, args, err := parseCall(line[1:])
	if err != nil {
		fmt.Fprintln(c.out, errorStyle.Render(err.Error()))
		return false
	}
	switch name {
	case "":
		return false
	case "q", "quit":
		return true
	case "help":
		c.help()
		return false
	case "log_level":
		c.changeLogLevel(args)
		return false
	}
	c.render(c.bridge.Call(ctx, name, args))
	return false
}

func (c *console) help() {
	fmt.Fprintln(c.out, titleStyle.Render("Methods (call as :name key=value ...):"))
	for _, name := range c.bridge.Methods() {
		fmt.Fprintln(c.out, "  "+name)
	}
	fmt.Fprintln(c.out, cwdStyle.Render("  :log_level level=debug|info|warn|error, :quit"))
}

func (c *console) changeLogLevel(args map[string]any) {
	level, _ := args["level"].(string)
	if level == "" {
		fmt.Fprintln(c.out, errorStyle.Render("usage: :log_level level=debug"))
		return
	}
	if c.setLogLevel == nil {
		fmt.Fprintln(c.out, errorStyle.Render("log level cannot be changed here"))
		return
	}
	if err := c.setLogLevel(level); err != nil {
		fmt.Fprintln(c.out, errorStyle.Render(err.Error()))
		return
	}
	fmt.Fprintln(c.out, successStyle.Render("log level "+level))
}

func (c *console) render(resp bridge.Response) {
	if !resp.Success {
		if resp.Error == nil {
			fmt.Fprintln(c.out, errorStyle.Render("call failed"))
			return
		}
		fmt.Fprintln(c.out, errorStyle.Render(fmt.Sprintf("%s: %s", resp.Error.Kind, resp.Error.Message)))
		return
	}

	switch data := resp.Data.(type) {
	case nil:
		fmt.Fprintln(c.out, successStyle.Render("ok"))
	case terminal.Result:
		c.renderTerminal(data)
	default:
		encoded, err := json.MarshalIndent(data, "", "  ")
		if err != nil {
			fmt.Fprintln(c.out, errorStyle.Render(err.Error()))
			return
		}
		fmt.Fprintln(c.out, string(encoded))
	}
}

func (c *console) renderTerminal(res terminal.Result) {
	if res.Clear {
		if c.interactive {
			fmt.Fprint(c.out, clearScreen)
		}
		return
	}
	fmt.Fprint(c.out, res.Output)
	if res.Stderr != "" {
		fmt.Fprint(c.out, styleLines(stderrStyle, res.Stderr))
		if !strings.HasSuffix(res.Stderr, "\n") {
			fmt.Fprintln(c.out)
		}
	}
	if res.Error != "" {
		fmt.Fprintln(c.out, errorStyle.Render(res.Error))
	}
	if res.Truncated {
		fmt.Fprintln(c.out, cwdStyle.Render("[output truncated]"))
	}
}

// styleLines styles each line on its own so multi-line text is not padded
// into a block.
func styleLines(style lipgloss.Style, text string) string {
	var b strings.Builder
	for _, line := range strings.SplitAfter(text, "\n") {
		body := strings.TrimSuffix(line, "\n")
		if body != "" {
			b.WriteString(style.Render(body))
		}
		if len(body) < len(line) {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// parseCall splits "name key=value key2=\"a b\"" into a method name and
// string arguments. Double quotes group words; backslash escapes the next
// character, with \n and \t standing for newline and tab.
func parseCall(line string) (string, map[string]any, error) {
	words, err := splitWords(line)
	if err != nil {
		return "", nil, err
	}
	if len(words) == 0 {
		return "", nil, nil
	}

	args := make(map[string]any, len(words)-1)
	for _, word := range words[1:] {
		key, value, ok := strings.Cut(word, "=")
		if !ok || key == "" {
			return "", nil, fmt.Errorf("argument %q is not key=value", word)
		}
		args[key] = value
	}
	return words[0], args, nil
}

func splitWords(line string) ([]string, error) {
	var (
		words   []string
		current strings.Builder
		inWord  bool
		quoted  bool
		escaped bool
	)
	for _, r := range line {
		switch {
		case escaped:
			switch r {
			case 'n':
				r = '\n'
			case 't':
				r = '\t'
			}
			current.WriteRune(r)
			escaped = false
		case r == '\\':
			escaped = true
			inWord = true
		case r == '"':
			quoted = !quoted
			inWord = true
		case !quoted && (r == ' ' || r == '\t'):
			if inWord {
				words = append(words, current.String())
				current.Reset()
				inWord = false
			}
		default:
			current.WriteRune(r)
			inWord = true
		}
	}
	if quoted {
		return nil, errors.New("unterminated quote")
	}
	if escaped {
		return nil, errors.New("trailing backslash")
	}
	if inWord {
		words = append(words, current.String())
	}
	return words, nil
}
