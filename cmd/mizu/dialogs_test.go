package main

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPrompter(input string) (*prompter, *bytes.Buffer) {
	var out bytes.Buffer
	p := newPrompter(bufio.NewReader(strings.NewReader(input)), &out)
	p.userHomeDir = func() (string, error) { return "/home/user", nil }
	return p, &out
}

func TestPrompter_PickDirectory(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   string
		wantOK bool
	}{
		{"absolute", "/srv/project\n", "/srv/project", true},
		{"trims", "  /srv/project  \n", "/srv/project", true},
		{"home", "~/code\n", filepath.Join("/home/user", "code"), true},
		{"bare tilde", "~\n", "/home/user", true},
		{"empty dismisses", "\n", "", false},
		{"end of input dismisses", "", "", false},
		{"last line without newline", "/srv/x", "/srv/x", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, out := newTestPrompter(tt.input)

			got, ok, err := p.PickDirectory(context.Background())

			require.NoError(t, err)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
			assert.Contains(t, out.String(), "Folder to open")
		})
	}
}

func TestPrompter_PickSavePath(t *testing.T) {
	dir := filepath.FromSlash("/ws/src")
	tests := []struct {
		name   string
		input  string
		want   string
		wantOK bool
	}{
		{"empty takes suggestion", "\n", filepath.Join(dir, "untitled.txt"), true},
		{"relative joins dir", "notes.md\n", filepath.Join(dir, "notes.md"), true},
		{"relative subpath", "../docs/a.md\n", filepath.Join(dir, "../docs/a.md"), true},
		{"absolute kept", "/tmp/out.txt\n", "/tmp/out.txt", true},
		{"home expanded", "~/out.txt\n", filepath.Join("/home/user", "out.txt"), true},
		{"dash cancels", "-\n", "", false},
		{"end of input cancels", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, out := newTestPrompter(tt.input)

			got, ok, err := p.PickSavePath(context.Background(), dir, "untitled.txt")

			require.NoError(t, err)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
			assert.Contains(t, out.String(), "untitled.txt")
		})
	}
}

func TestPrompter_HomeDirFailureKeepsTilde(t *testing.T) {
	p, _ := newTestPrompter("~/code\n")
	p.userHomeDir = func() (string, error) { return "", errors.New("no home") }

	got, ok, err := p.PickDirectory(context.Background())

	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "~/code", got)
}
