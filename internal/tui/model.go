package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"docuchat/internal/apiclient"
)

var (
	userStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	assistantStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	statusStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	helpStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Italic(true)
)

type answerMsg struct{ text string }
type statusMsg struct{ text string }
type errMsg struct{ err error }

// Model is the terminal chat client. Enter sends a query; ctrl+i triggers
// ingestion and ctrl+l reloads the agent.
type Model struct {
	client   *apiclient.Client
	viewport viewport.Model
	input    textinput.Model
	history  []string
	status   string
	busy     bool
	ready    bool
}

func NewModel(client *apiclient.Client) Model {
	input := textinput.New()
	input.Placeholder = "Escribe tu pregunta..."
	input.Focus()
	input.CharLimit = 2000

	return Model{
		client: client,
		input:  input,
		status: fmt.Sprintf("conectado a %s", client.BaseURL()),
	}
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		inputHeight := 4
		if !m.ready {
			m.viewport = viewport.New(msg.Width, msg.Height-inputHeight)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = msg.Height - inputHeight
		}
		m.viewport.SetContent(strings.Join(m.history, "\n"))
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			if m.busy {
				return m, nil
			}
			query := strings.TrimSpace(m.input.Value())
			if query == "" {
				return m, nil
			}
			m.input.Reset()
			m.appendLine(userStyle.Render("Tú: ") + query)
			m.busy = true
			m.status = "pensando..."
			return m, m.chatCmd(query)
		}

		switch msg.String() {
		case "ctrl+i":
			if m.busy {
				return m, nil
			}
			m.busy = true
			m.status = "ingestando documentos..."
			return m, m.ingestCmd()
		case "ctrl+l":
			if m.busy {
				return m, nil
			}
			m.busy = true
			m.status = "cargando agente..."
			return m, m.loadAgentCmd()
		}

	case answerMsg:
		m.busy = false
		m.status = ""
		m.appendLine(assistantStyle.Render("Agente: ") + msg.text)
		return m, nil

	case statusMsg:
		m.busy = false
		m.status = ""
		m.appendLine(statusStyle.Render(msg.text))
		return m, nil

	case errMsg:
		m.busy = false
		m.status = ""
		var apiErr *apiclient.APIError
		if errors.As(msg.err, &apiErr) {
			m.appendLine(errorStyle.Render(apiErr.Detail))
		} else {
			m.appendLine(errorStyle.Render("No se pudo contactar al servidor: " + msg.err.Error() + " (reintenta en unos segundos)"))
		}
		return m, nil
	}

	var inputCmd, viewCmd tea.Cmd
	m.input, inputCmd = m.input.Update(msg)
	m.viewport, viewCmd = m.viewport.Update(msg)
	return m, tea.Batch(inputCmd, viewCmd)
}

func (m Model) View() string {
	if !m.ready {
		return "cargando..."
	}

	status := m.status
	if status == "" {
		status = " "
	}

	return fmt.Sprintf(
		"%s\n%s\n%s\n%s",
		m.viewport.View(),
		statusStyle.Render(status),
		m.input.View(),
		helpStyle.Render("enter: enviar · ctrl+i: ingestar · ctrl+l: cargar agente · esc: salir"),
	)
}

func (m *Model) appendLine(line string) {
	m.history = append(m.history, line, "")
	m.viewport.SetContent(strings.Join(m.history, "\n"))
	m.viewport.GotoBottom()
}

func (m Model) chatCmd(query string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		answer, err := m.client.Chat(ctx, query)
		if err != nil {
			return errMsg{err: err}
		}
		return answerMsg{text: answer}
	}
}

func (m Model) ingestCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()
		message, err := m.client.Ingest(ctx)
		if err != nil {
			return errMsg{err: err}
		}
		return statusMsg{text: message}
	}
}

func (m Model) loadAgentCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		message, err := m.client.LoadAgent(ctx)
		if err != nil {
			return errMsg{err: err}
		}
		return statusMsg{text: message}
	}
}
