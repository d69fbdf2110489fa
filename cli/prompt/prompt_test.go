package prompt

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAnswer(t *testing.T) {
	cases := []struct {
		name     string
		input    string
		def      bool
		expected bool
	}{
		{name: "yes", input: "yes", expected: true},
		{name: "short yes", input: "y", expected: true},
		{name: "upper yes with spaces", input: "  YES \n", expected: true},
		{name: "no", input: "n", def: true, expected: false},
		{name: "empty takes default no", input: "", def: false, expected: false},
		{name: "empty takes default yes", input: "\n", def: true, expected: true},
		{name: "garbage is no", input: "sure", def: true, expected: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, ParseAnswer(tc.input, tc.def))
		})
	}
}

func TestLineConfirm(t *testing.T) {
	cases := []struct {
		name     string
		input    string
		expected bool
	}{
		{name: "accept", input: "y\n", expected: true},
		{name: "decline", input: "no\n", expected: false},
		{name: "eof without newline", input: "yes", expected: true},
		{name: "empty input takes default", input: "", expected: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var out bytes.Buffer
			p := NewLine(strings.NewReader(tc.input), &out)

			ok, err := p.Confirm(context.Background(), "Do you want to proceed?", false)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, ok)
			assert.Equal(t, "Do you want to proceed? [y/N] \n", out.String())
		})
	}
}

func TestLineConfirm_ReadsOneLinePerQuestion(t *testing.T) {
	var out bytes.Buffer
	p := NewLine(strings.NewReader("n\ny\n"), &out)

	first, err := p.Confirm(context.Background(), "first?", true)
	require.NoError(t, err)
	second, err := p.Confirm(context.Background(), "second?", false)
	require.NoError(t, err)

	assert.False(t, first)
	assert.True(t, second)
	assert.Equal(t, "first? [Y/n] \nsecond? [y/N] \n", out.String())
}

func TestLineConfirm_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	ok, err := NewLine(strings.NewReader("y\n"), &out).Confirm(ctx, "proceed?", false)
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, ok)
	assert.Empty(t, out.String())
}

func TestForInput_NonTerminalUsesLine(t *testing.T) {
	c := ForInput(strings.NewReader(""), &bytes.Buffer{})
	_, ok := c.(*Line)
	assert.True(t, ok)
}

func TestForInput_RequiresBothTerminals(t *testing.T) {
	dir := t.TempDir()
	in, err := os.Create(filepath.Join(dir, "in"))
	require.NoError(t, err)
	defer in.Close()
	out, err := os.Create(filepath.Join(dir, "out"))
	require.NoError(t, err)
	defer out.Close()

	orig := isTerminalFd
	t.Cleanup(func() { isTerminalFd = orig })

	cases := []struct {
		name    string
		ttys    []*os.File
		out     io.Writer
		wantTTY bool
	}{
		{name: "both terminals", ttys: []*os.File{in, out}, out: out, wantTTY: true},
		{name: "stdout redirected to file", ttys: []*os.File{in}, out: out},
		{name: "stdout is a buffer", ttys: []*os.File{in}, out: &bytes.Buffer{}},
		{name: "stdin redirected", ttys: []*os.File{out}, out: out},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			isTerminalFd = func(fd uintptr) bool {
				for _, f := range tc.ttys {
					if f.Fd() == fd {
						return true
					}
				}
				return false
			}

			c := ForInput(in, tc.out)
			_, isTTY := c.(*TTY)
			assert.Equal(t, tc.wantTTY, isTTY)
			if !tc.wantTTY {
				_, isLine := c.(*Line)
				assert.True(t, isLine)
			}
		})
	}
}

func typeRunes(m tea.Model, s string) tea.Model {
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
	return m
}

func TestConfirmModel(t *testing.T) {
	t.Run("enter submits typed answer", func(t *testing.T) {
		var m tea.Model = newConfirmModel("Do you want to proceed?", false)
		m = typeRunes(m, "yes")
		m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})

		cm := m.(confirmModel)
		assert.True(t, cm.done)
		assert.True(t, cm.answer)
		require.NotNil(t, cmd)
		assert.Equal(t, tea.QuitMsg{}, cmd())
		assert.Equal(t, "Do you want to proceed? yes\n", ansi.Strip(cm.View()))
	})

	t.Run("enter on empty input takes default", func(t *testing.T) {
		var m tea.Model = newConfirmModel("Proceed?", true)
		m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
		assert.True(t, m.(confirmModel).answer)
	})

	t.Run("escape takes default", func(t *testing.T) {
		var m tea.Model = newConfirmModel("Proceed?", false)
		m = typeRunes(m, "y")
		m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})

		cm := m.(confirmModel)
		assert.True(t, cm.done)
		assert.False(t, cm.answer)
		assert.Equal(t, "Proceed? no\n", ansi.Strip(cm.View()))
	})

	t.Run("view shows hint while editing", func(t *testing.T) {
		m := newConfirmModel("Proceed?", false)
		assert.True(t, strings.HasPrefix(ansi.Strip(m.View()), "Proceed? [y/N] "))
	})
}
