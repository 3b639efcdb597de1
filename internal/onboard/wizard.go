package onboard

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/fyrsmithlabs/gitbot/internal/config"
)

type step int

const (
	stepToken step = iota
	stepVerifying
	stepEmail
	stepProvider
	stepAPIKey
	stepModelsLoading
	stepModel
	stepDone
)

var providers = []string{"groq", "gemini", "ollama"}

var providerLabels = map[string]string{
	"groq":   "groq   — hosted, fast, needs an API key",
	"gemini": "gemini — hosted Google models, needs an API key",
	"ollama": "ollama — local models, no API key",
}

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("51")).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("45")).
			Bold(true)

	wizardErrStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	okStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("46"))
)

type verifiedMsg struct {
	account Account
	err     error
}

type modelsMsg struct {
	models []string
	err    error
}

// Wizard is the bubbletea model driving onboarding.
type Wizard struct {
	configPath string
	cfg        config.Config

	verify     tokenVerifier
	listModels modelLister

	step    step
	input   textinput.Model
	choices []string
	cursor  int
	errMsg  string

	aborted bool
	saveErr error
}

// WizardOption configures a Wizard.
type WizardOption func(*Wizard)

// WithVerifier replaces the GitHub token verification round-trip.
func WithVerifier(v tokenVerifier) WizardOption {
	return func(w *Wizard) { w.verify = v }
}

// WithModelLister replaces the Ollama model discovery round-trip.
func WithModelLister(l modelLister) WizardOption {
	return func(w *Wizard) { w.listModels = l }
}

// NewWizard creates the wizard. Existing config values become defaults so
// re-running onboarding edits rather than restarts.
func NewWizard(configPath string, existing *config.Config, opts ...WizardOption) *Wizard {
	input := textinput.New()
	input.Placeholder = "ghp_..."
	input.EchoMode = textinput.EchoPassword
	input.Focus()

	w := &Wizard{
		configPath: configPath,
		verify:     VerifyToken,
		listModels: FetchOllamaModels,
		step:       stepToken,
		input:      input,
	}
	if existing != nil {
		w.cfg = *existing
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Init implements tea.Model.
func (w *Wizard) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (w *Wizard) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			w.aborted = true
			return w, tea.Quit
		}
		return w.updateKey(msg)

	case verifiedMsg:
		if msg.err != nil {
			w.errMsg = msg.err.Error()
			w.step = stepToken
			w.input.SetValue("")
			return w, nil
		}
		w.cfg.GitHub.Username = msg.account.Username
		w.cfg.GitHub.Email = msg.account.Email
		w.errMsg = ""
		if w.cfg.GitHub.Email == "" {
			w.enterInput(stepEmail, "you@example.com", textinput.EchoNormal)
			return w, nil
		}
		w.enterProvider()
		return w, nil

	case modelsMsg:
		if msg.err != nil {
			w.errMsg = msg.err.Error()
			w.enterProvider()
			return w, nil
		}
		w.errMsg = ""
		w.step = stepModel
		w.choices = msg.models
		w.cursor = 0
		return w, nil
	}

	var cmd tea.Cmd
	w.input, cmd = w.input.Update(msg)
	return w, cmd
}

func (w *Wizard) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch w.step {
	case stepProvider, stepModel:
		switch msg.String() {
		case "up", "k":
			if w.cursor > 0 {
				w.cursor--
			}
		case "down", "j":
			if w.cursor < len(w.choices)-1 {
				w.cursor++
			}
		case "enter":
			return w.selectChoice()
		}
		return w, nil

	case stepToken, stepEmail, stepAPIKey:
		if msg.Type == tea.KeyEnter {
			return w.submitInput()
		}
		var cmd tea.Cmd
		w.input, cmd = w.input.Update(msg)
		return w, cmd
	}
	return w, nil
}

func (w *Wizard) submitInput() (tea.Model, tea.Cmd) {
	value := strings.TrimSpace(w.input.Value())
	if value == "" {
		w.errMsg = "a value is required"
		return w, nil
	}
	w.errMsg = ""

	switch w.step {
	case stepToken:
		w.cfg.GitHub.Token = config.Secret(value)
		w.step = stepVerifying
		verify := w.verify
		return w, func() tea.Msg {
			account, err := verify(context.Background(), config.Secret(value))
			return verifiedMsg{account: account, err: err}
		}

	case stepEmail:
		w.cfg.GitHub.Email = value
		w.enterProvider()
		return w, nil

	case stepAPIKey:
		switch w.cfg.LLM.Provider {
		case "groq":
			w.cfg.LLM.GroqAPIKey = config.Secret(value)
		case "gemini":
			w.cfg.LLM.GeminiAPIKey = config.Secret(value)
		}
		w.step = stepModel
		w.choices = ModelsFor(w.cfg.LLM.Provider)
		w.cursor = 0
		return w, nil
	}
	return w, nil
}

func (w *Wizard) selectChoice() (tea.Model, tea.Cmd) {
	switch w.step {
	case stepProvider:
		w.cfg.LLM.Provider = providers[w.cursor]
		if w.cfg.LLM.Provider == "ollama" {
			w.step = stepModelsLoading
			list := w.listModels
			baseURL := w.cfg.LLM.OllamaBaseURL
			if baseURL == "" {
				baseURL = "http://localhost:11434"
				w.cfg.LLM.OllamaBaseURL = baseURL
			}
			return w, func() tea.Msg {
				models, err := list(context.Background(), baseURL)
				return modelsMsg{models: models, err: err}
			}
		}
		w.enterInput(stepAPIKey, "API key", textinput.EchoPassword)
		return w, nil

	case stepModel:
		w.cfg.LLM.Model = w.choices[w.cursor]
		w.step = stepDone
		w.saveErr = config.Save(w.configPath, &w.cfg)
		return w, tea.Quit
	}
	return w, nil
}

func (w *Wizard) enterProvider() {
	w.step = stepProvider
	w.choices = providers
	w.cursor = 0
}

func (w *Wizard) enterInput(s step, placeholder string, echo textinput.EchoMode) {
	w.step = s
	w.input.SetValue("")
	w.input.Placeholder = placeholder
	w.input.EchoMode = echo
	w.input.Focus()
}

// View implements tea.Model.
func (w *Wizard) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("gitbot setup"))
	b.WriteString("\n\n")

	if w.errMsg != "" {
		b.WriteString(wizardErrStyle.Render("✗ "+w.errMsg) + "\n\n")
	}

	switch w.step {
	case stepToken:
		b.WriteString("Paste a GitHub personal access token (repo scope):\n")
		b.WriteString(w.input.View() + "\n")
		b.WriteString(helpStyle.Render("stored in " + w.configPath + " with 0600 permissions"))

	case stepVerifying:
		b.WriteString("Verifying token with GitHub…")

	case stepEmail:
		b.WriteString(okStyle.Render("✓ token verified: "+w.cfg.GitHub.Username) + "\n\n")
		b.WriteString("Your GitHub profile hides its email. Which one should commits use?\n")
		b.WriteString(w.input.View())

	case stepProvider:
		b.WriteString(okStyle.Render("✓ signed in as "+w.cfg.GitHub.Username) + "\n\n")
		b.WriteString("Choose an LLM provider:\n")
		for i, p := range w.choices {
			line := "  " + providerLabels[p]
			if i == w.cursor {
				line = selectedStyle.Render("▸ " + providerLabels[p])
			}
			b.WriteString(line + "\n")
		}
		b.WriteString(helpStyle.Render("↑/↓ to move, enter to select"))

	case stepAPIKey:
		b.WriteString(fmt.Sprintf("Enter your %s API key:\n", w.cfg.LLM.Provider))
		b.WriteString(w.input.View())

	case stepModelsLoading:
		b.WriteString("Asking ollama which models are installed…")

	case stepModel:
		b.WriteString("Choose a model (must support tool calling):\n")
		for i, m := range w.choices {
			line := "  " + m
			if i == w.cursor {
				line = selectedStyle.Render("▸ " + m)
			}
			b.WriteString(line + "\n")
		}
		b.WriteString(helpStyle.Render("↑/↓ to move, enter to select"))

	case stepDone:
		if w.saveErr != nil {
			b.WriteString(wizardErrStyle.Render("✗ could not write config: " + w.saveErr.Error()))
		} else {
			b.WriteString(okStyle.Render("✓ setup complete") + "\n")
			b.WriteString(fmt.Sprintf("provider %s, model %s\n", w.cfg.LLM.Provider, w.cfg.LLM.Model))
			b.WriteString(helpStyle.Render("run 'gitbot chat' to start"))
		}
	}

	b.WriteString("\n")
	return b.String()
}

// Run executes the wizard and reports how it ended.
func Run(configPath string, existing *config.Config, opts ...WizardOption) error {
	wizard := NewWizard(configPath, existing, opts...)
	final, err := tea.NewProgram(wizard).Run()
	if err != nil {
		return fmt.Errorf("onboarding failed: %w", err)
	}

	w, ok := final.(*Wizard)
	if !ok {
		return fmt.Errorf("onboarding ended in an unexpected state")
	}
	if w.aborted {
		return fmt.Errorf("onboarding cancelled")
	}
	if w.saveErr != nil {
		return fmt.Errorf("failed to save config: %w", w.saveErr)
	}
	return nil
}
