package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/gitbot/internal/agent"
	"github.com/fyrsmithlabs/gitbot/internal/config"
	"github.com/fyrsmithlabs/gitbot/internal/gate"
	"github.com/fyrsmithlabs/gitbot/internal/llm"
	"github.com/fyrsmithlabs/gitbot/internal/logging"
	"github.com/fyrsmithlabs/gitbot/internal/secrets"
	"github.com/fyrsmithlabs/gitbot/internal/tools"
	"github.com/fyrsmithlabs/gitbot/internal/tools/git"
	"github.com/fyrsmithlabs/gitbot/internal/tools/githubmcp"
	"github.com/fyrsmithlabs/gitbot/internal/ui"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive session",
	Long: `Start an interactive chat session in the current directory.

Examples:
  # Chat using the configured provider
  gitbot chat

  # Use an alternate config file
  gitbot chat --config ./gitbot.yaml`,
	RunE: runChat,
}

func runChat(cmd *cobra.Command, _ []string) error {
	cfg, err := config.LoadWithFile(configPath)
	if err != nil {
		return err
	}
	if !cfg.Onboarded() {
		return fmt.Errorf("gitbot is not set up yet; run 'gitbot onboard' first")
	}

	logger, sync, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}
	defer sync()

	ctx := cmd.Context()
	renderer := ui.NewRenderer(os.Stdout)

	// One reader owns stdin for the whole session. The REPL and the
	// confirmation prompter both draw lines from it, so a confirmation
	// answer can never be buffer-stolen by the other reader.
	input := ui.NewLineSource(os.Stdin)

	model, err := llm.NewModel(ctx, llm.Options{
		Provider: cfg.LLM.Provider,
		Model:    cfg.LLM.Model,
		APIKey:   cfg.APIKey().Value(),
		BaseURL:  cfg.LLM.OllamaBaseURL,
	})
	if err != nil {
		return err
	}

	registry := tools.NewRegistry()
	executors := make(map[tools.Backend]tools.Executor)

	runner, err := git.NewRunner()
	if err != nil {
		return fmt.Errorf("git is required: %w", err)
	}
	if err := registry.RegisterAll(git.Specs()); err != nil {
		return err
	}
	executors[tools.BackendLocal] = git.NewBackend(runner, logger.Named("git"))

	// GitHub tools are optional: without a token, or with the MCP server
	// unreachable, the session still serves local git work.
	if cfg.GitHub.Token.IsSet() {
		session, err := githubmcp.Connect(ctx, githubmcp.Config{
			Token:  cfg.GitHub.Token.Value(),
			Logger: logger.Named("mcp"),
		})
		if err != nil {
			logger.Warn("GitHub MCP server unavailable, continuing local-only", zap.Error(err))
			fmt.Fprintln(os.Stderr, "warning: GitHub tools unavailable:", err)
		} else {
			defer session.Close()
			specs, err := session.DiscoverSpecs(ctx)
			if err != nil {
				return fmt.Errorf("discover GitHub tools: %w", err)
			}
			if err := registry.RegisterAll(specs); err != nil {
				return err
			}
			executors[tools.BackendRemote] = githubmcp.NewBackend(session, logger.Named("mcp"))
		}
	}

	confirmGate := gate.New(
		gate.NewTerminalPrompter(input, os.Stdout),
		gate.WithTimeout(cfg.Agent.ConfirmTimeout.Duration()),
		gate.WithLogger(logger.Named("gate")),
	)

	scrubber := secrets.MustNew(nil)

	session := agent.New(
		llm.NewClient(model, logger.Named("llm")),
		registry,
		confirmGate,
		executors,
		agent.SystemPrompt(agent.Identity{
			GitHubUsername: cfg.GitHub.Username,
			GitHubEmail:    cfg.GitHub.Email,
		}),
		agent.WithTurnLimit(cfg.Agent.TurnLimit),
		agent.WithObserver(renderer),
		agent.WithScrubber(scrubber.Redact),
		agent.WithLogger(logger.Named("agent")),
	)

	logger.Info("session started",
		zap.String("provider", cfg.LLM.Provider),
		zap.String("model", cfg.LLM.Model),
		zap.Int("tools", registry.Len()))

	renderer.Banner(cfg.GitHub.Username, cfg.LLM.Provider, cfg.LLM.Model)
	return repl(ctx, session, renderer, input)
}

// repl reads user turns until EOF or an exit command. Ctrl-C cancels the
// in-flight turn without ending the session.
func repl(parent context.Context, session *agent.Session, renderer *ui.Renderer, input *ui.LineSource) error {
	for {
		fmt.Print(renderer.Prompt())
		line, err := input.ReadLine(parent)
		if err != nil && strings.TrimSpace(line) == "" {
			fmt.Println()
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if line == "exit" || line == "quit" || line == "q" {
			return nil
		}

		renderer.Thinking()
		turnCtx, stop := signal.NotifyContext(parent, os.Interrupt)
		answer, err := session.Turn(turnCtx, line)
		stop()

		switch {
		case err == nil:
			renderer.Answer(answer)
		case errors.Is(err, context.Canceled):
			renderer.Error(errors.New("turn cancelled"))
		case errors.Is(err, agent.ErrTurnLimit):
			renderer.Error(errors.New("I could not finish that within the step budget; try a smaller request"))
		default:
			return err
		}
	}
}
