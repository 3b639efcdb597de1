package gate

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyrsmithlabs/gitbot/internal/tools"
	"github.com/fyrsmithlabs/gitbot/internal/ui"
)

// recordingPrompter counts invocations and returns a scripted answer.
type recordingPrompter struct {
	calls   int
	approve bool
	err     error
	block   bool
}

func (p *recordingPrompter) Confirm(ctx context.Context, call tools.ToolCall, spec tools.ToolSpec) (bool, error) {
	p.calls++
	if p.block {
		<-ctx.Done()
		return false, ctx.Err()
	}
	return p.approve, p.err
}

func destructiveSpec() tools.ToolSpec {
	return tools.ToolSpec{Name: "local_git_branch_delete", Destructive: true, Backend: tools.BackendLocal}
}

func TestGate_NonDestructivePassThrough(t *testing.T) {
	prompter := &recordingPrompter{approve: false}
	g := New(prompter)

	spec := tools.ToolSpec{Name: "local_git_status", Destructive: false}
	call := tools.ToolCall{ID: "c1", Name: spec.Name}

	decision := g.Check(context.Background(), call, spec)

	assert.Equal(t, Approved, decision)
	assert.Zero(t, prompter.calls, "non-destructive calls must never prompt")
}

func TestGate_DestructiveApproved(t *testing.T) {
	prompter := &recordingPrompter{approve: true}
	g := New(prompter)

	decision := g.Check(context.Background(), tools.ToolCall{ID: "c1"}, destructiveSpec())

	assert.Equal(t, Approved, decision)
	assert.Equal(t, 1, prompter.calls)
}

func TestGate_DestructiveDenied(t *testing.T) {
	prompter := &recordingPrompter{approve: false}
	g := New(prompter)

	decision := g.Check(context.Background(), tools.ToolCall{ID: "c1"}, destructiveSpec())

	assert.Equal(t, Denied, decision)
}

func TestGate_PrompterErrorDenies(t *testing.T) {
	prompter := &recordingPrompter{err: errors.New("terminal closed")}
	g := New(prompter)

	decision := g.Check(context.Background(), tools.ToolCall{ID: "c1"}, destructiveSpec())

	assert.Equal(t, Denied, decision)
}

func TestGate_TimeoutDenies(t *testing.T) {
	prompter := &recordingPrompter{block: true}
	g := New(prompter, WithTimeout(10*time.Millisecond))

	start := time.Now()
	decision := g.Check(context.Background(), tools.ToolCall{ID: "c1"}, destructiveSpec())

	assert.Equal(t, Denied, decision)
	assert.Less(t, time.Since(start), time.Second)
}

func TestGate_NeverCachesDecisions(t *testing.T) {
	prompter := &recordingPrompter{approve: true}
	g := New(prompter)

	call := tools.ToolCall{ID: "c1", Arguments: map[string]any{"branch": "test"}}
	spec := destructiveSpec()

	g.Check(context.Background(), call, spec)
	g.Check(context.Background(), call, spec)

	assert.Equal(t, 2, prompter.calls, "identical calls must each be confirmed")
}

func TestTerminalPrompter_Answers(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"Y\n", true},
		{"yes\n", true},
		{"n\n", false},
		{"no\n", false},
		{"\n", false},
		{"sure\n", false},
	}

	for _, tt := range tests {
		t.Run(strings.TrimSpace(tt.input), func(t *testing.T) {
			var out bytes.Buffer
			p := NewTerminalPrompter(ui.NewLineSource(strings.NewReader(tt.input)), &out)

			got, err := p.Confirm(context.Background(), tools.ToolCall{
				ID:        "c1",
				Name:      "local_git_branch_delete",
				Arguments: map[string]any{"branch": "test"},
			}, destructiveSpec())

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Contains(t, out.String(), "local_git_branch_delete")
		})
	}
}

func TestTerminalPrompter_ContextCancelled(t *testing.T) {
	var out bytes.Buffer
	// A pipe with no writer activity blocks the read indefinitely.
	blocked, w := io.Pipe()
	defer w.Close()
	p := NewTerminalPrompter(ui.NewLineSource(blocked), &out)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	got, err := p.Confirm(ctx, tools.ToolCall{ID: "c1"}, destructiveSpec())

	assert.False(t, got)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestTerminalPrompter_AnswerAfterTimeoutIsNotLost(t *testing.T) {
	var out bytes.Buffer
	r, w := io.Pipe()
	defer w.Close()
	p := NewTerminalPrompter(ui.NewLineSource(r), &out)

	// First confirmation times out while the user hesitates.
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	got, err := p.Confirm(ctx, tools.ToolCall{ID: "c1"}, destructiveSpec())
	assert.False(t, got)
	require.ErrorIs(t, err, context.DeadlineExceeded)

	// The answer to the next confirmation must reach it, not be swallowed
	// by the read abandoned above.
	_, err = w.Write([]byte("y\n"))
	require.NoError(t, err)

	got, err = p.Confirm(context.Background(), tools.ToolCall{ID: "c2"}, destructiveSpec())
	require.NoError(t, err)
	assert.True(t, got)
}
