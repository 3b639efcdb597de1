package git

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/gitbot/internal/tools"
)

// maxStderrBytes bounds the stderr fed back into the conversation so one
// failed command cannot drown the context window.
const maxStderrBytes = 4096

const notARepository = "Not a git repository."

// commandRunner abstracts Runner for tests.
type commandRunner interface {
	Run(ctx context.Context, dir string, args ...string) (Result, error)
	IsRepository(dir string) bool
}

// Backend executes the local git tool catalog.
type Backend struct {
	runner commandRunner
	logger *zap.Logger
}

// NewBackend creates a Backend around the given runner.
func NewBackend(runner *Runner, logger *zap.Logger) *Backend {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Backend{runner: runner, logger: logger}
}

// Execute implements tools.Executor.
func (b *Backend) Execute(ctx context.Context, call tools.ToolCall, spec tools.ToolSpec) tools.ToolResult {
	if err := tools.ValidateArgs(spec, call.Arguments); err != nil {
		return tools.Failure(call.ID, tools.KindInvalidArguments, err.Error())
	}

	b.logger.Debug("executing local git tool",
		zap.String("tool", call.Name),
		zap.String("call_id", call.ID))

	output, err := b.dispatch(ctx, call)
	if err != nil {
		if ctx.Err() != nil {
			return tools.Failure(call.ID, tools.KindCancelled, "operation cancelled by user")
		}
		return tools.Failure(call.ID, tools.KindExecution, truncate(err.Error(), maxStderrBytes))
	}
	return tools.Success(call.ID, output)
}

func (b *Backend) dispatch(ctx context.Context, call tools.ToolCall) (string, error) {
	path := argString(call.Arguments, "path", ".")

	switch call.Name {
	case ToolInit:
		return b.gitInit(ctx, path)
	case ToolStatus:
		return b.requireRepo(path, func() (string, error) {
			return b.run(ctx, path, "status")
		})
	case ToolAdd:
		files := argStrings(call.Arguments, "files")
		if len(files) == 0 {
			return "", fmt.Errorf("no files specified to add")
		}
		return b.requireRepo(path, func() (string, error) {
			out, err := b.run(ctx, path, append([]string{"add"}, files...)...)
			if err != nil {
				return "", err
			}
			if out == "" {
				out = "Files staged successfully."
			}
			return out, nil
		})
	case ToolCommit:
		message := argString(call.Arguments, "message", "")
		if message == "" {
			return "", fmt.Errorf("commit message is required")
		}
		return b.requireRepo(path, func() (string, error) {
			return b.run(ctx, path, "commit", "-m", message)
		})
	case ToolLog:
		n := argInt(call.Arguments, "n", 10)
		return b.requireRepo(path, func() (string, error) {
			return b.run(ctx, path, "log", "-n", strconv.Itoa(n), "--oneline", "--graph", "--decorate")
		})
	case ToolRemoteAdd:
		name := argString(call.Arguments, "name", "")
		url := argString(call.Arguments, "url", "")
		return b.requireRepo(path, func() (string, error) {
			return b.remoteAdd(ctx, path, name, url)
		})
	case ToolPush:
		remote := argString(call.Arguments, "remote", "origin")
		branch := argString(call.Arguments, "branch", "main")
		return b.requireRepo(path, func() (string, error) {
			out, err := b.run(ctx, path, "push", "-u", remote, branch)
			if err != nil {
				return "", fmt.Errorf("push to %s/%s failed: %w", remote, branch, err)
			}
			if out == "" {
				out = "Push successful."
			}
			return out, nil
		})
	case ToolBranchDelete:
		branch := argString(call.Arguments, "branch", "")
		flag := "-d"
		if argBool(call.Arguments, "force") {
			flag = "-D"
		}
		return b.requireRepo(path, func() (string, error) {
			return b.run(ctx, path, "branch", flag, branch)
		})
	default:
		return "", fmt.Errorf("tool %s is not served by the local backend", call.Name)
	}
}

func (b *Backend) gitInit(ctx context.Context, path string) (string, error) {
	if b.runner.IsRepository(path) {
		return "Already a git repository.", nil
	}
	if err := os.MkdirAll(path, 0o755); err != nil {
		return "", fmt.Errorf("create directory %s: %w", path, err)
	}
	return b.run(ctx, path, "init")
}

func (b *Backend) remoteAdd(ctx context.Context, path, name, url string) (string, error) {
	existing, err := b.run(ctx, path, "remote")
	if err != nil {
		return "", err
	}
	for _, r := range strings.Fields(existing) {
		if r == name {
			return "", fmt.Errorf("remote %q already exists", name)
		}
	}
	if _, err := b.run(ctx, path, "remote", "add", name, url); err != nil {
		return "", err
	}
	return fmt.Sprintf("Remote %q added successfully.", name), nil
}

// requireRepo guards operations that only make sense inside a repository.
func (b *Backend) requireRepo(path string, op func() (string, error)) (string, error) {
	if !b.runner.IsRepository(path) {
		return "", fmt.Errorf("%s", notARepository)
	}
	return op()
}

// run executes git and converts a non-zero exit into an error carrying the
// captured stderr.
func (b *Backend) run(ctx context.Context, dir string, args ...string) (string, error) {
	result, err := b.runner.Run(ctx, dir, args...)
	if err != nil {
		return "", err
	}
	if !result.OK() {
		msg := result.Stderr
		if msg == "" {
			msg = result.Stdout
		}
		if msg == "" {
			msg = fmt.Sprintf("git %s exited with code %d", strings.Join(args, " "), result.ExitCode)
		}
		return "", fmt.Errorf("%s", msg)
	}
	return result.Stdout, nil
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "\n... (truncated)"
}

func argString(args map[string]any, key, fallback string) string {
	if v, ok := args[key].(string); ok && v != "" {
		return v
	}
	return fallback
}

func argBool(args map[string]any, key string) bool {
	v, _ := args[key].(bool)
	return v
}

func argInt(args map[string]any, key string, fallback int) int {
	switch v := args[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	default:
		return fallback
	}
}

func argStrings(args map[string]any, key string) []string {
	switch v := args[key].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}
