// Package console is the user-facing output surface for patch
// verification: styled progress, warning and info lines plus a blocking
// yes/no prompt. Styling follows the terminal's capabilities and is
// disabled for non-TTY output or when NO_COLOR is set.
package console

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// Console writes human output to out and warnings/errors to errOut, and
// reads prompt answers from in.
type Console struct {
	out         io.Writer
	errOut      io.Writer
	in          *bufio.Reader
	interactive bool
	color       bool

	warnStyle    lipgloss.Style
	errStyle     lipgloss.Style
	successStyle lipgloss.Style
	dimStyle     lipgloss.Style
}

// New returns a console bound to the process's standard streams. Prompts
// are available only when stdin is a terminal; colors are enabled only
// when stdout is a terminal and NO_COLOR is unset.
func New() *Console {
	interactive := term.IsTerminal(int(os.Stdin.Fd()))
	color := os.Getenv("NO_COLOR") == "" &&
		term.IsTerminal(int(os.Stdout.Fd())) &&
		termenv.ColorProfile() != termenv.Ascii
	return NewWithStreams(os.Stdout, os.Stderr, os.Stdin, interactive, color)
}

// NewWithStreams builds a console over explicit streams. Tests use this to
// capture output and script prompt answers.
func NewWithStreams(out, errOut io.Writer, in io.Reader, interactive, color bool) *Console {
	return &Console{
		out:         out,
		errOut:      errOut,
		in:          bufio.NewReader(in),
		interactive: interactive,
		color:       color,

		warnStyle:    lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		errStyle:     lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
		successStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		dimStyle:     lipgloss.NewStyle().Faint(true),
	}
}

// Interactive reports whether stdin can answer prompts.
func (c *Console) Interactive() bool { return c.interactive }

// Info prints a plain informational line to stdout.
func (c *Console) Info(format string, args ...any) {
	fmt.Fprintf(c.out, format+"\n", args...)
}

// Detail prints a dimmed multi-line block to stdout, typically the pretty
// rendering of a file-set diff.
func (c *Console) Detail(text string) {
	if text == "" {
		return
	}
	fmt.Fprintln(c.out, c.render(c.dimStyle, text))
}

// Warn prints a highlighted warning line to stderr.
func (c *Console) Warn(format string, args ...any) {
	fmt.Fprintln(c.errOut, c.render(c.warnStyle, "warning: "+fmt.Sprintf(format, args...)))
}

// Error prints a highlighted error line to stderr.
func (c *Console) Error(format string, args ...any) {
	fmt.Fprintln(c.errOut, c.render(c.errStyle, "error: "+fmt.Sprintf(format, args...)))
}

// Confirm asks a yes/no question and blocks for one line of input. Only
// "y" or "yes" (any case) count as yes; an empty answer means no.
func (c *Console) Confirm(prompt string) (bool, error) {
	fmt.Fprintf(c.out, "%s [y/N]: ", prompt)
	line, err := c.in.ReadString('\n')
	if err != nil && line == "" {
		return false, fmt.Errorf("read confirmation: %w", err)
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes", nil
}

// Task is a scoped progress indicator: started by Progress and finished by
// exactly one of Done or Fail. The second call is a no-op, so callers can
// defer Fail and call Done on the success path.
type Task struct {
	c    *Console
	done bool
}

// Progress prints the start of a long-running step and returns its task.
func (c *Console) Progress(msg string) *Task {
	fmt.Fprintf(c.out, "%s...", msg)
	return &Task{c: c}
}

// Done marks the task complete.
func (t *Task) Done() {
	if t.done {
		return
	}
	t.done = true
	fmt.Fprintln(t.c.out, t.c.render(t.c.successStyle, " done"))
}

// Fail marks the task failed.
func (t *Task) Fail() {
	if t.done {
		return
	}
	t.done = true
	fmt.Fprintln(t.c.out, t.c.render(t.c.errStyle, " failed"))
}

func (c *Console) render(st lipgloss.Style, s string) string {
	if !c.color {
		return s
	}
	return st.Render(s)
}
