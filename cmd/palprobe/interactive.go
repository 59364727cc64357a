package main

import (
	"fmt"
	"os"
	"strings"
	"sync/atomic"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/wippyai/pal"
	"github.com/wippyai/pal/pathutil"
	"github.com/wippyai/pal/resource"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	probeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	descStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

// handleCounter tallies table lifecycle events so the TUI can show how
// many handles each probe created and released.
type handleCounter struct {
	created   atomic.Int64
	destroyed atomic.Int64
}

func (c *handleCounter) OnResourceEvent(ev resource.Event) {
	switch ev.Type {
	case resource.EventCreated:
		c.created.Add(1)
	case resource.EventDestroyed:
		c.destroyed.Add(1)
	}
}

type modelState int

const (
	stateSelect modelState = iota
	statePathInput
	stateShowResult
)

type probeModel struct {
	sys      *pal.System
	counter  *handleCounter
	input    textinput.Model
	result   string
	err      error
	selected int
	state    modelState
}

type probeDoneMsg struct {
	err    error
	result string
}

func newProbeModel(sys *pal.System, counter *handleCounter) *probeModel {
	ti := textinput.New()
	ti.Placeholder = "a//b/../c"
	ti.Prompt = "path: "
	ti.Width = 40
	return &probeModel{sys: sys, counter: counter, input: ti}
}

func (m *probeModel) Init() tea.Cmd {
	return nil
}

func (m *probeModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			if m.state != statePathInput || msg.String() == "ctrl+c" {
				return m, tea.Quit
			}

		case "up", "k":
			if m.state == stateSelect && m.selected > 0 {
				m.selected--
			}

		case "down", "j":
			if m.state == stateSelect && m.selected < len(probes)-1 {
				m.selected++
			}

		case "enter":
			switch m.state {
			case stateSelect:
				if probes[m.selected].name == "path" {
					m.input.SetValue("")
					m.input.Focus()
					m.state = statePathInput
					return m, textinput.Blink
				}
				return m, m.runSelected

			case statePathInput:
				m.result = describePath(m.input.Value())
				m.err = nil
				m.input.Blur()
				m.state = stateShowResult

			case stateShowResult:
				m.state = stateSelect
				m.result = ""
				m.err = nil
			}

		case "esc":
			if m.state != stateSelect {
				m.input.Blur()
				m.state = stateSelect
				m.result = ""
				m.err = nil
			}
		}

	case probeDoneMsg:
		m.result = msg.result
		m.err = msg.err
		m.state = stateShowResult
	}

	if m.state == statePathInput {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m *probeModel) runSelected() tea.Msg {
	p := probes[m.selected]
	result, err := p.run(m.sys)
	return probeDoneMsg{result: result, err: err}
}

func describePath(raw string) string {
	if raw == "" {
		raw = "."
	}
	clean := pathutil.Clean(raw)
	return fmt.Sprintf("clean %s\ndir   %s\nbase  %s\nnative %s",
		clean, pathutil.Dir(clean), pathutil.Base(clean),
		pathutil.ToNative(clean, os.PathSeparator))
}

func (m *probeModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("PAL Probe"))
	b.WriteString(fmt.Sprintf("  handles: %d live, %d created, %d released\n\n",
		m.sys.Table().Len(), m.counter.created.Load(), m.counter.destroyed.Load()))

	switch m.state {
	case stateSelect:
		b.WriteString("Select a probe to run:\n\n")
		for i, p := range probes {
			line := probeStyle.Render(p.name) + "  " + descStyle.Render(p.desc)
			if i == m.selected {
				b.WriteString(selectedStyle.Render("> ") + line)
			} else {
				b.WriteString("  " + line)
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("↑/↓ select • enter run • q quit"))

	case statePathInput:
		b.WriteString("Enter a path to normalize:\n\n")
		b.WriteString(m.input.View())
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("enter normalize • esc back"))

	case stateShowResult:
		p := probes[m.selected]
		b.WriteString(fmt.Sprintf("Result of %s:\n\n", probeStyle.Render(p.name)))
		if m.err != nil {
			b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		} else {
			b.WriteString(resultStyle.Render(m.result))
		}
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("enter continue • q quit"))
	}

	return b.String()
}

func runInteractive(sys *pal.System) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return fmt.Errorf("interactive mode needs a terminal")
	}

	counter := &handleCounter{}
	sys.Table().Subscribe(counter)
	defer sys.Table().Unsubscribe(counter)

	p := tea.NewProgram(newProbeModel(sys, counter), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
