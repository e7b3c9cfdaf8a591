// pothipatra is the chat screen of the document vault, rendered as a
// terminal UI. It consumes only the chat adapter; with no host attached it
// runs against the local echo fallback, which is exactly the
// preview-in-browser mode of the mobile shell.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"pothipatra/internal/bridge"
	"pothipatra/internal/chat"
	"pothipatra/internal/models"
	"pothipatra/internal/utils"
)

var (
	accentColor = lipgloss.Color("#3B82F6")
	userColor   = lipgloss.Color("#10B981")
	errorColor  = lipgloss.Color("#EF4444")
	mutedColor  = lipgloss.Color("#6B7280")

	headerStyle = lipgloss.NewStyle().
			Foreground(accentColor).
			Bold(true).
			Padding(0, 1)

	userStyle = lipgloss.NewStyle().
			Foreground(userColor).
			Bold(true)

	assistantStyle = lipgloss.NewStyle()

	errorStyle = lipgloss.NewStyle().
			Foreground(errorColor)

	mutedStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	docStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accentColor).
			Padding(0, 1)
)

type chatEntry struct {
	role  string // "user", "assistant", "status"
	text  string
	docs  []models.DocumentSummary
	isErr bool
}

type replyMsg struct {
	reply models.ChatReply
	out   bridge.Outcome
}

type chatModel struct {
	textInput textinput.Model
	adapter   *chat.Adapter
	entries   []chatEntry
	pending   bool
	width     int
	height    int
	quitting  bool
}

type keyMap struct {
	Enter key.Binding
	CtrlC key.Binding
	CtrlL key.Binding
}

var keys = keyMap{
	Enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "send"),
	),
	CtrlC: key.NewBinding(
		key.WithKeys("ctrl+c", "esc"),
		key.WithHelp("ctrl+c", "quit"),
	),
	CtrlL: key.NewBinding(
		key.WithKeys("ctrl+l"),
		key.WithHelp("ctrl+l", "clear"),
	),
}

func newChatModel(adapter *chat.Adapter) chatModel {
	ti := textinput.New()
	ti.Placeholder = "ask about your documents..."
	ti.Focus()
	ti.CharLimit = 500
	ti.Width = 60
	ti.Prompt = "you> "
	ti.PromptStyle = userStyle

	return chatModel{
		textInput: ti,
		adapter:   adapter,
		entries:   make([]chatEntry, 0),
	}
}

func (m chatModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m chatModel) sendCmd(message string) tea.Cmd {
	return func() tea.Msg {
		reply, out := m.adapter.SendMessage(context.Background(), message)
		return replyMsg{reply: reply, out: out}
	}
}

func (m chatModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.textInput.Width = msg.Width - 10
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.CtrlC):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, keys.CtrlL):
			m.entries = make([]chatEntry, 0)
			return m, nil

		case key.Matches(msg, keys.Enter):
			// Input is disabled while a turn is in flight so a second
			// send cannot orphan the first.
			if m.pending {
				return m, nil
			}
			text := strings.TrimSpace(m.textInput.Value())
			if text == "" {
				return m, nil
			}
			m.entries = append(m.entries, chatEntry{role: "user", text: text})
			m.textInput.Reset()
			m.pending = true
			return m, m.sendCmd(text)
		}

	case replyMsg:
		m.pending = false
		if !msg.out.OK() {
			m.entries = append(m.entries, chatEntry{role: "status", text: msg.out.Err(), isErr: true})
			return m, nil
		}
		entry := chatEntry{role: "assistant", text: msg.reply.Message, docs: msg.reply.Documents}
		if msg.out.Source == bridge.SourceLocal {
			entry.text += mutedStyle.Render("  [offline]")
		}
		m.entries = append(m.entries, entry)
		return m, nil
	}

	m.textInput, cmd = m.textInput.Update(msg)
	return m, cmd
}

func (m chatModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render("PothiPatra"))
	b.WriteString("\n\n")

	for _, e := range m.entries {
		switch e.role {
		case "user":
			b.WriteString(userStyle.Render("you> ") + e.text + "\n")
		case "assistant":
			b.WriteString(assistantStyle.Render(e.text) + "\n")
			for _, d := range e.docs {
				card := fmt.Sprintf("%s  %s  %s", d.Type, d.HolderName, d.Number)
				b.WriteString(docStyle.Render(card) + "\n")
			}
		case "status":
			if e.isErr {
				b.WriteString(errorStyle.Render(e.text) + "\n")
			} else {
				b.WriteString(mutedStyle.Render(e.text) + "\n")
			}
		}
	}

	b.WriteString("\n")
	if m.pending {
		b.WriteString(mutedStyle.Render("thinking..."))
	} else {
		b.WriteString(m.textInput.View())
	}
	b.WriteString("\n" + mutedStyle.Render("enter send · ctrl+l clear · ctrl+c quit"))
	return b.String()
}

func main() {
	log := utils.NewLogger(os.Stderr)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reg := bridge.NewRegistry()
	mon := bridge.NewMonitor(reg)
	mon.Start(ctx)
	cor := bridge.NewCorrelator(reg, mon)
	adapter := chat.New(cor, mon, log)

	p := tea.NewProgram(newChatModel(adapter), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
