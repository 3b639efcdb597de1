package git

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	gogit "github.com/go-git/go-git/v5"
)

// Result captures one git invocation.
type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// OK reports whether the command exited zero.
func (r Result) OK() bool {
	return r.ExitCode == 0
}

// Runner executes git commands against the filesystem.
type Runner struct {
	gitPath string
}

// NewRunner locates the git binary on PATH.
func NewRunner() (*Runner, error) {
	path, err := exec.LookPath("git")
	if err != nil {
		return nil, fmt.Errorf("git is not installed or not on PATH: %w", err)
	}
	return &Runner{gitPath: path}, nil
}

// Run executes git with args in dir. A non-zero exit is not a Go error;
// callers inspect the Result. Only spawn-level problems (context
// cancellation, missing directory) are returned as errors.
func (r *Runner) Run(ctx context.Context, dir string, args ...string) (Result, error) {
	cmd := exec.CommandContext(ctx, r.gitPath, args...)
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	result := Result{
		Stdout: strings.TrimSpace(stdout.String()),
		Stderr: strings.TrimSpace(stderr.String()),
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
			return result, nil
		}
		if ctx.Err() != nil {
			return result, ctx.Err()
		}
		return result, fmt.Errorf("run git %s: %w", strings.Join(args, " "), err)
	}
	return result, nil
}

// IsRepository reports whether dir is the root of a git repository.
func (r *Runner) IsRepository(dir string) bool {
	_, err := gogit.PlainOpen(dir)
	return err == nil
}
