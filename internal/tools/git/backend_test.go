package git

import (
	"context"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/gitbot/internal/tools"
)

// fakeRunner scripts git results without touching the filesystem.
type fakeRunner struct {
	isRepo  bool
	results map[string]Result
	ran     [][]string
}

func (f *fakeRunner) Run(ctx context.Context, dir string, args ...string) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	f.ran = append(f.ran, args)
	if r, ok := f.results[strings.Join(args, " ")]; ok {
		return r, nil
	}
	return Result{Stdout: "ok"}, nil
}

func (f *fakeRunner) IsRepository(dir string) bool {
	return f.isRepo
}

func newTestBackend(runner commandRunner) *Backend {
	return &Backend{runner: runner, logger: zap.NewNop()}
}

func specFor(t *testing.T, name string) tools.ToolSpec {
	t.Helper()
	for _, s := range Specs() {
		if s.Name == name {
			return s
		}
	}
	t.Fatalf("no spec named %s", name)
	return tools.ToolSpec{}
}

func TestBackend_StatusOutsideRepo(t *testing.T) {
	b := NewBackend(nil, nil)
	b.runner = &fakeRunner{isRepo: false}

	result := b.Execute(context.Background(), tools.ToolCall{
		ID:   "c1",
		Name: ToolStatus,
	}, specFor(t, ToolStatus))

	require.False(t, result.OK())
	assert.Equal(t, tools.KindExecution, result.Err.Kind)
	assert.Contains(t, result.Err.Message, "Not a git repository")
}

func TestBackend_InitIdempotent(t *testing.T) {
	b := newTestBackend(&fakeRunner{isRepo: true})

	result := b.Execute(context.Background(), tools.ToolCall{
		ID:   "c1",
		Name: ToolInit,
	}, specFor(t, ToolInit))

	require.True(t, result.OK())
	assert.Equal(t, "Already a git repository.", result.Content)
}

func TestBackend_CommitRequiresMessage(t *testing.T) {
	b := newTestBackend(&fakeRunner{isRepo: true})

	result := b.Execute(context.Background(), tools.ToolCall{
		ID:        "c1",
		Name:      ToolCommit,
		Arguments: map[string]any{},
	}, specFor(t, ToolCommit))

	require.False(t, result.OK())
	// The spec marks message as required, so validation fires first.
	assert.Equal(t, tools.KindInvalidArguments, result.Err.Kind)
}

func TestBackend_AddRequiresFiles(t *testing.T) {
	b := newTestBackend(&fakeRunner{isRepo: true})

	result := b.Execute(context.Background(), tools.ToolCall{
		ID:        "c1",
		Name:      ToolAdd,
		Arguments: map[string]any{"files": []any{}},
	}, specFor(t, ToolAdd))

	require.False(t, result.OK())
	assert.Equal(t, tools.KindExecution, result.Err.Kind)
	assert.Contains(t, result.Err.Message, "no files")
}

func TestBackend_NonZeroExitBecomesFailure(t *testing.T) {
	runner := &fakeRunner{
		isRepo: true,
		results: map[string]Result{
			"status": {ExitCode: 128, Stderr: "fatal: this operation must be run in a work tree"},
		},
	}
	b := newTestBackend(runner)

	result := b.Execute(context.Background(), tools.ToolCall{
		ID:   "c1",
		Name: ToolStatus,
	}, specFor(t, ToolStatus))

	require.False(t, result.OK())
	assert.Equal(t, tools.KindExecution, result.Err.Kind)
	assert.Contains(t, result.Err.Message, "fatal")
}

func TestBackend_StderrTruncated(t *testing.T) {
	runner := &fakeRunner{
		isRepo: true,
		results: map[string]Result{
			"status": {ExitCode: 1, Stderr: strings.Repeat("x", maxStderrBytes*2)},
		},
	}
	b := newTestBackend(runner)

	result := b.Execute(context.Background(), tools.ToolCall{ID: "c1", Name: ToolStatus}, specFor(t, ToolStatus))

	require.False(t, result.OK())
	assert.LessOrEqual(t, len(result.Err.Message), maxStderrBytes+32)
	assert.Contains(t, result.Err.Message, "truncated")
}

func TestTruncate_CutsOnRuneBoundary(t *testing.T) {
	// The limit lands mid-rune; the cut must back off so the result stays
	// valid UTF-8.
	s := strings.Repeat("a", maxStderrBytes-1) + "日本語"
	got := truncate(s, maxStderrBytes)

	assert.True(t, utf8.ValidString(got))
	assert.Contains(t, got, "truncated")
}

func TestBackend_CancelledContext(t *testing.T) {
	b := newTestBackend(&fakeRunner{isRepo: true})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := b.Execute(ctx, tools.ToolCall{ID: "c1", Name: ToolStatus}, specFor(t, ToolStatus))

	require.False(t, result.OK())
	assert.Equal(t, tools.KindCancelled, result.Err.Kind)
}

func TestBackend_RemoteAddConflict(t *testing.T) {
	runner := &fakeRunner{
		isRepo: true,
		results: map[string]Result{
			"remote": {Stdout: "origin\nupstream"},
		},
	}
	b := newTestBackend(runner)

	result := b.Execute(context.Background(), tools.ToolCall{
		ID:        "c1",
		Name:      ToolRemoteAdd,
		Arguments: map[string]any{"name": "origin", "url": "git@example.com:a/b.git"},
	}, specFor(t, ToolRemoteAdd))

	require.False(t, result.OK())
	assert.Contains(t, result.Err.Message, "already exists")
}

func TestBackend_BranchDeleteForceFlag(t *testing.T) {
	runner := &fakeRunner{isRepo: true, results: map[string]Result{}}
	b := newTestBackend(runner)

	b.Execute(context.Background(), tools.ToolCall{
		ID:        "c1",
		Name:      ToolBranchDelete,
		Arguments: map[string]any{"branch": "test", "force": true},
	}, specFor(t, ToolBranchDelete))

	require.Len(t, runner.ran, 1)
	assert.Equal(t, []string{"branch", "-D", "test"}, runner.ran[0])
}

func TestBackend_UnknownToolName(t *testing.T) {
	b := newTestBackend(&fakeRunner{isRepo: true})

	result := b.Execute(context.Background(), tools.ToolCall{
		ID:   "c1",
		Name: "local_git_rebase",
	}, tools.ToolSpec{Name: "local_git_rebase", Backend: tools.BackendLocal})

	require.False(t, result.OK())
	assert.Contains(t, result.Err.Message, "not served")
}

func TestSpecs_DestructivePolicy(t *testing.T) {
	destructive := map[string]bool{}
	for _, s := range Specs() {
		destructive[s.Name] = s.Destructive
		assert.Equal(t, tools.BackendLocal, s.Backend)
	}

	assert.True(t, destructive[ToolPush])
	assert.True(t, destructive[ToolBranchDelete])
	assert.False(t, destructive[ToolInit])
	assert.False(t, destructive[ToolStatus])
	assert.False(t, destructive[ToolCommit])
}
