package ui

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/fyrsmithlabs/gitbot/internal/tools"
)

// maxDisplayBytes bounds tool output shown in the terminal. Display-only:
// the conversation carries the full (LLM-truncated) text.
const maxDisplayBytes = 2000

// Renderer writes session output. It satisfies the agent's Observer
// interface so tool activity streams into the terminal as it happens.
type Renderer struct {
	out io.Writer
}

// NewRenderer creates a Renderer writing to out.
func NewRenderer(out io.Writer) *Renderer {
	return &Renderer{out: out}
}

// Banner prints the startup header.
func (r *Renderer) Banner(username, provider, model string) {
	fmt.Fprintln(r.out, bannerStyle.Render("gitbot"))
	tagline := fmt.Sprintf("signed in as %s · %s/%s · type 'exit' to quit", username, provider, model)
	fmt.Fprintln(r.out, taglineStyle.Render(tagline))
	fmt.Fprintln(r.out)
}

// Prompt returns the styled input prompt.
func (r *Renderer) Prompt() string {
	return promptStyle.Render("you ❯ ")
}

// Thinking prints a one-line status while the model reasons.
func (r *Renderer) Thinking() {
	fmt.Fprintln(r.out, noteStyle.Render("thinking…"))
}

// Answer prints the assistant's final answer for the turn.
func (r *Renderer) Answer(text string) {
	fmt.Fprintln(r.out, answerStyle.Render(strings.TrimSpace(text)))
	fmt.Fprintln(r.out)
}

// Error prints a session-level error.
func (r *Renderer) Error(err error) {
	fmt.Fprintln(r.out, errorStyle.Render("error: ")+err.Error())
	fmt.Fprintln(r.out)
}

// OnAssistantText prints commentary the model emits alongside tool calls.
func (r *Renderer) OnAssistantText(text string) {
	fmt.Fprintln(r.out, noteStyle.Render(strings.TrimSpace(text)))
}

// OnToolCall prints the pending call with its arguments.
func (r *Renderer) OnToolCall(call tools.ToolCall, spec tools.ToolSpec) {
	header := toolNameStyle.Render("⚙ " + call.Name)
	if args := compactArgs(call.Arguments); args != "" {
		header += " " + toolArgStyle.Render(args)
	}
	fmt.Fprintln(r.out, header)
}

// OnToolResult prints the settled result, truncated for display.
func (r *Renderer) OnToolResult(call tools.ToolCall, result tools.ToolResult) {
	var body string
	if result.OK() {
		text := result.Content
		if text == "" {
			text = "done"
		}
		body = toolOKStyle.Render("✓ ") + truncate(text)
	} else {
		body = toolFailStyle.Render("✗ ") + truncate(result.Err.Error())
	}
	fmt.Fprintln(r.out, panelStyle.Render(body))
}

// compactArgs renders arguments as single-line JSON, empty for no args.
func compactArgs(args map[string]any) string {
	if len(args) == 0 {
		return ""
	}
	raw, err := json.Marshal(args)
	if err != nil {
		return ""
	}
	return string(raw)
}

// truncate caps text at maxDisplayBytes with an elision marker, cutting on
// a rune boundary so the terminal never receives a torn multi-byte rune.
func truncate(text string) string {
	text = strings.TrimSpace(text)
	if len(text) <= maxDisplayBytes {
		return text
	}
	cut := maxDisplayBytes
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut] + "\n… (output truncated)"
}
