package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// prompter stands in for native dialogs by asking on the console.
// End of input dismisses any dialog.
type prompter struct {
	in          *bufio.Reader
	out         io.Writer
	userHomeDir func() (string, error)
}

func newPrompter(in *bufio.Reader, out io.Writer) *prompter {
	return &prompter{in: in, out: out, userHomeDir: os.UserHomeDir}
}

// PickDirectory asks for a folder to open.
func (p *prompter) PickDirectory(_ context.Context) (string, bool, error) {
	answer, ok, err := p.ask(promptStyle.Render("Folder to open (empty to cancel): "))
	if err != nil || !ok || answer == "" {
		return "", false, err
	}
	return p.expand(answer), true, nil
}

// PickSavePath asks where to save. An empty answer takes suggested, "-"
// cancels, and relative answers are taken from dir.
func (p *prompter) PickSavePath(_ context.Context, dir, suggested string) (string, bool, error) {
	answer, ok, err := p.ask(promptStyle.Render(fmt.Sprintf("Save as (in %s) [%s, - to cancel]: ", dir, suggested)))
	if err != nil || !ok || answer == "-" {
		return "", false, err
	}
	if answer == "" {
		answer = suggested
	}
	answer = p.expand(answer)
	if !filepath.IsAbs(answer) {
		answer = filepath.Join(dir, answer)
	}
	return answer, true, nil
}

// ask prints prompt and reads one line. ok is false at end of input.
func (p *prompter) ask(prompt string) (string, bool, error) {
	fmt.Fprint(p.out, prompt)
	line, err := p.in.ReadString('\n')
	if err != nil {
		if !errors.Is(err, io.EOF) {
			return "", false, fmt.Errorf("failed to read input: %w", err)
		}
		if line == "" {
			fmt.Fprintln(p.out)
			return "", false, nil
		}
	}
	return strings.TrimSpace(line), true, nil
}

func (p *prompter) expand(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := p.userHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
