// Copyright 2026 The Pimux Authors
// SPDX-License-Identifier: Apache-2.0

// Package sessionui implements the interactive session dashboard: a
// live list of agent sessions with attach, kill, and refresh actions.
//
// The model never attaches from inside the TUI. Attaching needs the
// real terminal, which bubbletea owns while the program runs, so the
// enter key records the chosen session and quits; the command running
// the program reads AttachTarget afterwards and performs the attach
// with a clean terminal.
package sessionui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/pimux/pimux/lib/registry"
)

// refreshInterval is how often the session list reloads without user
// input. Sessions die out-of-band (the agent exits, someone runs
// pimux kill elsewhere), so the view polls.
const refreshInterval = 2 * time.Second

// Source is the slice of the registry the dashboard uses. Satisfied
// by *registry.Registry.
type Source interface {
	List() ([]registry.Handle, error)
	Kill(name string) (bool, error)
}

// Styles holds the lipgloss styles for the dashboard. ANSI 256-color
// codes for broad terminal compatibility.
type Styles struct {
	Header   lipgloss.Style
	Row      lipgloss.Style
	Selected lipgloss.Style
	Faint    lipgloss.Style
	Error    lipgloss.Style
	Help     lipgloss.Style
}

// DefaultStyles is the built-in dark-terminal style set.
func DefaultStyles() Styles {
	return Styles{
		Header:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("75")),
		Row:      lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		Selected: lipgloss.NewStyle().Foreground(lipgloss.Color("231")).Background(lipgloss.Color("24")),
		Faint:    lipgloss.NewStyle().Foreground(lipgloss.Color("243")),
		Error:    lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
		Help:     lipgloss.NewStyle().Foreground(lipgloss.Color("243")),
	}
}

// Model is the bubbletea model for the session dashboard.
type Model struct {
	source Source
	keys   KeyMap
	styles Styles

	sessions []registry.Handle
	cursor   int
	width    int
	loadErr  error
	status   string

	// attachTarget is the session chosen with enter; set just before
	// the model quits.
	attachTarget string
}

// NewModel returns a dashboard over the given source.
func NewModel(source Source) *Model {
	return &Model{
		source: source,
		keys:   DefaultKeyMap,
		styles: DefaultStyles(),
	}
}

// AttachTarget returns the session name chosen with the attach key, or
// "" if the dashboard was quit without choosing one. Read this after
// the program returns.
func (m *Model) AttachTarget() string {
	return m.attachTarget
}

type sessionsLoadedMsg struct {
	sessions []registry.Handle
	err      error
}

type killedMsg struct {
	name   string
	killed bool
	err    error
}

type tickMsg time.Time

// Init starts the first load and the refresh ticker.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.loadSessions(), tick())
}

func (m *Model) loadSessions() tea.Cmd {
	return func() tea.Msg {
		sessions, err := m.source.List()
		return sessionsLoadedMsg{sessions: sessions, err: err}
	}
}

func (m *Model) killSelected() tea.Cmd {
	if m.cursor >= len(m.sessions) {
		return nil
	}
	name := m.sessions[m.cursor].Name
	return func() tea.Msg {
		killed, err := m.source.Kill(name)
		return killedMsg{name: name, killed: killed, err: err}
	}
}

func tick() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update handles key presses and refresh messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case sessionsLoadedMsg:
		m.loadErr = msg.err
		m.sessions = msg.sessions
		if m.cursor >= len(m.sessions) && len(m.sessions) > 0 {
			m.cursor = len(m.sessions) - 1
		}
		if len(m.sessions) == 0 {
			m.cursor = 0
		}
		return m, nil

	case killedMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("kill %s: %v", msg.name, msg.err)
		} else if msg.killed {
			m.status = fmt.Sprintf("killed %s", msg.name)
		} else {
			m.status = fmt.Sprintf("%s was already gone", msg.name)
		}
		return m, m.loadSessions()

	case tickMsg:
		return m, tea.Batch(m.loadSessions(), tick())

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit

		case key.Matches(msg, m.keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil

		case key.Matches(msg, m.keys.Down):
			if m.cursor < len(m.sessions)-1 {
				m.cursor++
			}
			return m, nil

		case key.Matches(msg, m.keys.Refresh):
			m.status = ""
			return m, m.loadSessions()

		case key.Matches(msg, m.keys.Kill):
			return m, m.killSelected()

		case key.Matches(msg, m.keys.Attach):
			if m.cursor < len(m.sessions) {
				m.attachTarget = m.sessions[m.cursor].Name
				return m, tea.Quit
			}
			return m, nil
		}
	}

	return m, nil
}

// View renders the session table.
func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(m.styles.Header.Render("pimux sessions"))
	b.WriteString("\n\n")

	if m.loadErr != nil {
		b.WriteString(m.styles.Error.Render(fmt.Sprintf("error: %v", m.loadErr)))
		b.WriteString("\n")
	}

	if len(m.sessions) == 0 {
		b.WriteString(m.styles.Faint.Render("no sessions"))
		b.WriteString("\n")
	} else {
		nameWidth := len("NAME")
		for _, session := range m.sessions {
			if len(session.Name) > nameWidth {
				nameWidth = len(session.Name)
			}
		}

		b.WriteString(m.styles.Faint.Render(fmt.Sprintf("  %-*s  %s", nameWidth, "NAME", "SOCKET")))
		b.WriteString("\n")
		for i, session := range m.sessions {
			line := fmt.Sprintf("  %-*s  %s", nameWidth, session.Name, session.SocketPath)
			if i == m.cursor {
				line = m.styles.Selected.Render(">" + line[1:])
			} else {
				line = m.styles.Row.Render(line)
			}
			b.WriteString(line)
			b.WriteString("\n")
		}
	}

	if m.status != "" {
		b.WriteString("\n")
		b.WriteString(m.styles.Faint.Render(m.status))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.styles.Help.Render("j/k move · enter attach · x kill · r refresh · q quit"))
	b.WriteString("\n")

	return b.String()
}
