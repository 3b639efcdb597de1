package githubmcp

import (
	"context"
	"fmt"
	"os"
	"os/exec"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/gitbot/internal/tools"
)

// serverPackage is the npm package implementing the GitHub MCP server.
const serverPackage = "@modelcontextprotocol/server-github"

// tokenEnvVar carries the GitHub credential to the spawned server.
const tokenEnvVar = "GITHUB_PERSONAL_ACCESS_TOKEN"

// Session is one persistent MCP session to the GitHub server. It lives for
// the whole process and serves calls strictly sequentially; the caller (the
// agent loop) guarantees no two writes from one batch overlap.
type Session struct {
	session *mcp.ClientSession
	logger  *zap.Logger
}

// Config configures the connection.
type Config struct {
	// Token is the GitHub personal access token handed to the server.
	Token string

	// Command overrides the server command for tests. Empty means
	// "npx -y @modelcontextprotocol/server-github".
	Command []string

	// Logger defaults to zap.NewNop().
	Logger *zap.Logger
}

// Connect spawns the GitHub MCP server and performs the protocol handshake.
// Failures here are session-fatal: without the remote session gitbot cannot
// offer GitHub tools, so the caller surfaces the error to the user.
func Connect(ctx context.Context, cfg Config) (*Session, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	argv := cfg.Command
	if len(argv) == 0 {
		npx, err := findNpx()
		if err != nil {
			return nil, err
		}
		argv = []string{npx, "-y", serverPackage}
	}

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Env = append(os.Environ(), fmt.Sprintf("%s=%s", tokenEnvVar, cfg.Token))

	client := mcp.NewClient(&mcp.Implementation{Name: "gitbot", Version: "1.0.0"}, nil)
	session, err := client.Connect(ctx, &mcp.CommandTransport{Command: cmd}, nil)
	if err != nil {
		return nil, fmt.Errorf("connect to GitHub MCP server: %w", err)
	}

	logger.Info("connected to GitHub MCP server")
	return &Session{session: session, logger: logger}, nil
}

// findNpx locates the npx executable, trying npx.cmd first for Windows.
func findNpx() (string, error) {
	for _, name := range []string{"npx.cmd", "npx"} {
		if path, err := exec.LookPath(name); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("could not find npx on PATH; install Node.js first")
}

// DiscoverSpecs lists the server's tools and converts them into registry
// specs. Every remote tool is treated as destructive unless its name is in
// the read-only allowlist, because GitHub-side mutations (issue closure,
// force pushes) are not trivially reversible.
func (s *Session) DiscoverSpecs(ctx context.Context) ([]tools.ToolSpec, error) {
	var specs []tools.ToolSpec
	for tool, err := range s.session.Tools(ctx, nil) {
		if err != nil {
			return nil, fmt.Errorf("list GitHub tools: %w", err)
		}

		schema, err := schemaToMap(tool.InputSchema)
		if err != nil {
			s.logger.Warn("skipping tool with unusable schema",
				zap.String("tool", tool.Name), zap.Error(err))
			continue
		}

		specs = append(specs, tools.ToolSpec{
			Name:        tool.Name,
			Description: tool.Description,
			RawSchema:   cleanSchema(schema),
			Destructive: isMutating(tool.Name),
			Backend:     tools.BackendRemote,
		})
	}

	s.logger.Info("discovered GitHub tools", zap.Int("count", len(specs)))
	return specs, nil
}

// Call invokes one remote tool and returns the concatenated text content.
func (s *Session) Call(ctx context.Context, name string, args map[string]any) (string, bool, error) {
	result, err := s.session.CallTool(ctx, &mcp.CallToolParams{
		Name:      name,
		Arguments: args,
	})
	if err != nil {
		return "", false, err
	}
	return contentText(result), result.IsError, nil
}

// Close tears down the session and the server process.
func (s *Session) Close() error {
	return s.session.Close()
}

func contentText(result *mcp.CallToolResult) string {
	var out string
	for _, part := range result.Content {
		text, ok := part.(*mcp.TextContent)
		if !ok {
			continue
		}
		if out != "" {
			out += "\n"
		}
		out += text.Text
	}
	return out
}
