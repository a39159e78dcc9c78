package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/osakit/osabridge/app"
	"github.com/osakit/osabridge/bridge"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	crumbStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type interactiveModel struct {
	err     error
	br      *bridge.Bridge
	appName string
	stack   []bridge.Object
	input   textinput.Model
	result  string
	ready   bool
}

type connectedMsg struct {
	err error
	app *app.Application
}

type commandResultMsg struct {
	err    error
	result string
	pushed bridge.Object
	pop    bool
}

func newInteractiveModel(br *bridge.Bridge, appName string) *interactiveModel {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "get name"
	ti.Width = 60
	ti.Focus()

	return &interactiveModel{
		br:      br,
		appName: appName,
		input:   ti,
	}
}

func (m *interactiveModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.connect)
}

func (m *interactiveModel) connect() tea.Msg {
	a, err := app.Connect(m.br, m.appName)
	if err != nil {
		return connectedMsg{err: err}
	}
	return connectedMsg{app: a}
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			for i := len(m.stack) - 1; i >= 0; i-- {
				m.stack[i].Close()
			}
			m.stack = nil
			return m, tea.Quit

		case "enter":
			line := strings.TrimSpace(m.input.Value())
			m.input.SetValue("")
			if line == "" {
				return m, nil
			}
			if line == "quit" || line == "q" {
				for i := len(m.stack) - 1; i >= 0; i-- {
					m.stack[i].Close()
				}
				m.stack = nil
				return m, tea.Quit
			}
			return m, m.runCommand(line)
		}

	case connectedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.stack = []bridge.Object{msg.app}
		m.ready = true

	case commandResultMsg:
		m.result = msg.result
		m.err = msg.err
		if msg.pushed != nil {
			m.stack = append(m.stack, msg.pushed)
		}
		if msg.pop && len(m.stack) > 1 {
			top := m.stack[len(m.stack)-1]
			m.stack = m.stack[:len(m.stack)-1]
			top.Close()
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// runCommand executes a single command against the object at the top
// of the navigation stack. Object-valued results are pushed onto the
// stack so the user can descend into them; "up" pops and closes.
func (m *interactiveModel) runCommand(line string) tea.Cmd {
	return func() tea.Msg {
		fields := strings.Fields(line)
		cmd, args := fields[0], fields[1:]

		if len(m.stack) == 0 {
			return commandResultMsg{err: fmt.Errorf("not connected")}
		}
		top := m.stack[len(m.stack)-1]
		acc, _ := top.(bridge.Accessor)

		switch cmd {
		case "up":
			if len(m.stack) == 1 {
				return commandResultMsg{err: fmt.Errorf("already at the application")}
			}
			return commandResultMsg{pop: true, result: "closed " + describeObject(top)}

		case "get":
			if len(args) != 1 || acc == nil {
				return commandResultMsg{err: fmt.Errorf("usage: get <property>")}
			}
			v, err := acc.Get(args[0])
			if err != nil {
				return commandResultMsg{err: err}
			}
			if obj, ok := v.(bridge.Object); ok {
				return commandResultMsg{pushed: obj, result: "entered " + describeObject(obj)}
			}
			return commandResultMsg{result: fmt.Sprintf("%v", v)}

		case "set":
			if len(args) != 2 || acc == nil {
				return commandResultMsg{err: fmt.Errorf("usage: set <property> <value>")}
			}
			if err := acc.Set(args[0], parseValue(args[1])); err != nil {
				return commandResultMsg{err: err}
			}
			return commandResultMsg{result: "ok"}

		case "call":
			if len(args) < 1 || acc == nil {
				return commandResultMsg{err: fmt.Errorf("usage: call <method> [args...]")}
			}
			var callArgs []any
			for _, a := range args[1:] {
				callArgs = append(callArgs, parseValue(a))
			}
			v, err := acc.Call(args[0], callArgs, nil)
			if err != nil {
				return commandResultMsg{err: err}
			}
			if obj, ok := v.(bridge.Object); ok {
				return commandResultMsg{pushed: obj, result: "entered " + describeObject(obj)}
			}
			return commandResultMsg{result: fmt.Sprintf("%v", v)}

		case "len":
			seq, ok := top.(*bridge.Sequence)
			if !ok {
				return commandResultMsg{err: fmt.Errorf("%s is not a collection", describeObject(top))}
			}
			n, err := seq.Len()
			if err != nil {
				return commandResultMsg{err: err}
			}
			return commandResultMsg{result: strconv.Itoa(n)}

		case "at":
			seq, ok := top.(*bridge.Sequence)
			if !ok || len(args) != 1 {
				return commandResultMsg{err: fmt.Errorf("usage (on a collection): at <index>")}
			}
			idx, err := strconv.Atoi(args[0])
			if err != nil {
				return commandResultMsg{err: fmt.Errorf("index must be an integer")}
			}
			v, err := seq.At(idx)
			if err != nil {
				return commandResultMsg{err: err}
			}
			if obj, ok := v.(bridge.Object); ok {
				return commandResultMsg{pushed: obj, result: "entered " + describeObject(obj)}
			}
			return commandResultMsg{result: fmt.Sprintf("%v", v)}

		case "filter":
			seq, ok := top.(*bridge.Sequence)
			if !ok || len(args) == 0 {
				return commandResultMsg{err: fmt.Errorf("usage (on a collection): filter <predicate>")}
			}
			sub, err := seq.Filter(strings.Join(args, " "))
			if err != nil {
				return commandResultMsg{err: err}
			}
			return commandResultMsg{pushed: sub, result: "entered " + describeObject(sub)}

		case "activate":
			a, ok := top.(*app.Application)
			if !ok {
				return commandResultMsg{err: fmt.Errorf("activate works on the application")}
			}
			if err := a.Activate(); err != nil {
				return commandResultMsg{err: err}
			}
			return commandResultMsg{result: "activated"}

		default:
			return commandResultMsg{err: fmt.Errorf("unknown command %q", cmd)}
		}
	}
}

func parseValue(s string) any {
	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		return v
	}
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return v
	}
	if s == "true" || s == "false" {
		return s == "true"
	}
	return strings.Trim(s, `"`)
}

func describeObject(obj bridge.Object) string {
	return fmt.Sprintf("<%s handle=%d>", obj.Class(), obj.Handle())
}

func (m *interactiveModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("osactl"))
	b.WriteString(" ")
	b.WriteString(m.appName)
	b.WriteString("\n\n")

	if !m.ready {
		if m.err != nil {
			b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
			b.WriteString("\n\n")
			b.WriteString(helpStyle.Render("esc quit"))
			return b.String()
		}
		b.WriteString("Connecting...")
		return b.String()
	}

	var crumbs []string
	for _, obj := range m.stack {
		crumbs = append(crumbs, describeObject(obj))
	}
	b.WriteString(crumbStyle.Render(strings.Join(crumbs, " / ")))
	b.WriteString(helpStyle.Render(fmt.Sprintf("   %d live handles", m.br.Registry().Len())))
	b.WriteString("\n\n")

	if m.err != nil {
		b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		b.WriteString("\n\n")
	} else if m.result != "" {
		b.WriteString(resultStyle.Render(m.result))
		b.WriteString("\n\n")
	}

	b.WriteString(m.input.View())
	b.WriteString("\n\n")
	b.WriteString(helpStyle.Render("get/set/call • len/at/filter on collections • up back • esc quit"))

	return b.String()
}

func runInteractive(br *bridge.Bridge, appName string) error {
	p := tea.NewProgram(newInteractiveModel(br, appName), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
