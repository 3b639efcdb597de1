package git

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyrsmithlabs/gitbot/internal/tools"
)

func requireGit(t *testing.T) *Runner {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
	runner, err := NewRunner()
	require.NoError(t, err)
	return runner
}

func configureIdentity(t *testing.T, runner *Runner, dir string) {
	t.Helper()
	ctx := context.Background()
	_, err := runner.Run(ctx, dir, "config", "--local", "user.email", "test@example.com")
	require.NoError(t, err)
	_, err = runner.Run(ctx, dir, "config", "--local", "user.name", "Test User")
	require.NoError(t, err)
}

func TestRunner_InitAndStatus(t *testing.T) {
	runner := requireGit(t)
	dir := t.TempDir()
	backend := NewBackend(runner, nil)
	ctx := context.Background()

	result := backend.Execute(ctx, tools.ToolCall{
		ID:        "c1",
		Name:      ToolInit,
		Arguments: map[string]any{"path": dir},
	}, specFor(t, ToolInit))
	require.True(t, result.OK(), "init failed: %v", result.Err)
	assert.True(t, runner.IsRepository(dir))

	status := backend.Execute(ctx, tools.ToolCall{
		ID:        "c2",
		Name:      ToolStatus,
		Arguments: map[string]any{"path": dir},
	}, specFor(t, ToolStatus))
	require.True(t, status.OK())
	assert.Contains(t, status.Content, "On branch")
}

func TestRunner_AddCommitLog(t *testing.T) {
	runner := requireGit(t)
	dir := t.TempDir()
	backend := NewBackend(runner, nil)
	ctx := context.Background()

	init := backend.Execute(ctx, tools.ToolCall{
		ID:        "c1",
		Name:      ToolInit,
		Arguments: map[string]any{"path": dir},
	}, specFor(t, ToolInit))
	require.True(t, init.OK())
	configureIdentity(t, runner, dir)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "test.txt"), []byte("hello world"), 0o644))

	add := backend.Execute(ctx, tools.ToolCall{
		ID:        "c2",
		Name:      ToolAdd,
		Arguments: map[string]any{"files": []any{"."}, "path": dir},
	}, specFor(t, ToolAdd))
	require.True(t, add.OK(), "add failed: %v", add.Err)

	commit := backend.Execute(ctx, tools.ToolCall{
		ID:        "c3",
		Name:      ToolCommit,
		Arguments: map[string]any{"message": "Initial commit", "path": dir},
	}, specFor(t, ToolCommit))
	require.True(t, commit.OK(), "commit failed: %v", commit.Err)

	log := backend.Execute(ctx, tools.ToolCall{
		ID:        "c4",
		Name:      ToolLog,
		Arguments: map[string]any{"path": dir},
	}, specFor(t, ToolLog))
	require.True(t, log.OK())
	assert.Contains(t, log.Content, "Initial commit")
}

func TestRunner_CommitWithNothingStagedFails(t *testing.T) {
	runner := requireGit(t)
	dir := t.TempDir()
	backend := NewBackend(runner, nil)
	ctx := context.Background()

	init := backend.Execute(ctx, tools.ToolCall{
		ID:        "c1",
		Name:      ToolInit,
		Arguments: map[string]any{"path": dir},
	}, specFor(t, ToolInit))
	require.True(t, init.OK())
	configureIdentity(t, runner, dir)

	commit := backend.Execute(ctx, tools.ToolCall{
		ID:        "c2",
		Name:      ToolCommit,
		Arguments: map[string]any{"message": "empty", "path": dir},
	}, specFor(t, ToolCommit))

	require.False(t, commit.OK())
	assert.Equal(t, tools.KindExecution, commit.Err.Kind)
}

func TestRunner_IsRepositoryFalseForPlainDir(t *testing.T) {
	runner := requireGit(t)
	assert.False(t, runner.IsRepository(t.TempDir()))
}
