package gate

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/fyrsmithlabs/gitbot/internal/tools"
)

var (
	warnTitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("226")).
			Bold(true)

	warnBodyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("231")).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("226")).
			Padding(0, 1)

	questionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("51")).
			Bold(true)
)

// LineReader yields terminal input one line at a time. The implementation
// must own the underlying stream exclusively, so a read abandoned on
// cancellation is handed to the next caller rather than swallowed by a
// stale buffer.
type LineReader interface {
	ReadLine(ctx context.Context) (string, error)
}

// TerminalPrompter asks for approval on the terminal with a blocking y/N
// prompt showing the tool name and its arguments.
type TerminalPrompter struct {
	in  LineReader
	out io.Writer
}

// NewTerminalPrompter creates a prompter reading answers from in and
// writing the pending action to out. The same LineReader must serve every
// consumer of the terminal (the chat REPL included) so confirmation answers
// and commands never cross.
func NewTerminalPrompter(in LineReader, out io.Writer) *TerminalPrompter {
	return &TerminalPrompter{
		in:  in,
		out: out,
	}
}

// Confirm implements Prompter. It blocks on a line of input; a timeout or
// cancellation turns into a denial without corrupting the session.
func (p *TerminalPrompter) Confirm(ctx context.Context, call tools.ToolCall, spec tools.ToolSpec) (bool, error) {
	args, err := json.MarshalIndent(call.Arguments, "", "  ")
	if err != nil {
		args = []byte(fmt.Sprintf("%v", call.Arguments))
	}

	body := fmt.Sprintf("%s\n%s", spec.Name, args)
	fmt.Fprintln(p.out)
	fmt.Fprintln(p.out, warnTitleStyle.Render("  ⚠ Destructive action requested"))
	fmt.Fprintln(p.out, warnBodyStyle.Render(body))
	fmt.Fprint(p.out, questionStyle.Render("  Proceed? [y/N] "))

	line, err := p.in.ReadLine(ctx)
	if err != nil && line == "" {
		fmt.Fprintln(p.out)
		return false, err
	}
	return isAffirmative(line), nil
}

func isAffirmative(line string) bool {
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}
