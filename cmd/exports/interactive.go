package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wasmfoundry/hostlink/export"
	"github.com/wasmfoundry/hostlink/val"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	funcStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	typeStyle = lipgloss.NewStyle().
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

type browseState int

const (
	stateSelectIface browseState = iota
	stateSelectFunc
	stateInputArgs
	stateShowResult
)

type ifaceEntry struct {
	name  string
	id    uint64
	funcs []funcEntry
}

type funcEntry struct {
	fn     *export.FuncExport
	name   string
	sig    string
	params []val.Kind
	result val.Kind
}

type browseModel struct {
	err      error
	demo     *demoHost
	result   string
	ifaces   []ifaceEntry
	inputs   []textinput.Model
	ifaceIdx int
	funcIdx  int
	focusIdx int
	state    browseState
}

type callResultMsg struct {
	err    error
	result string
}

func newBrowseModel(demo *demoHost) *browseModel {
	ifaces := make([]ifaceEntry, 0, len(demo.reg.Interfaces))
	for i := range demo.reg.Interfaces {
		ie := &demo.reg.Interfaces[i]
		entry := ifaceEntry{name: ie.Name, id: ie.ID}
		for j := range ie.Funcs {
			fn := &ie.Funcs[j]
			fe := funcEntry{
				fn:   fn,
				name: fn.Name,
				sig:  fn.Type.String(),
			}
			for _, p := range fn.Type.Params {
				k, _ := val.KindOf(p)
				fe.params = append(fe.params, k)
			}
			if len(fn.Type.Results) > 0 {
				fe.result, _ = val.KindOf(fn.Type.Results[0])
			}
			entry.funcs = append(entry.funcs, fe)
		}
		ifaces = append(ifaces, entry)
	}

	return &browseModel{
		demo:   demo,
		ifaces: ifaces,
		state:  stateSelectIface,
	}
}

func (m *browseModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit

		case "up", "k":
			switch m.state {
			case stateSelectIface:
				if m.ifaceIdx > 0 {
					m.ifaceIdx--
				}
			case stateSelectFunc:
				if m.funcIdx > 0 {
					m.funcIdx--
				}
			}

		case "down", "j":
			switch m.state {
			case stateSelectIface:
				if m.ifaceIdx < len(m.ifaces)-1 {
					m.ifaceIdx++
				}
			case stateSelectFunc:
				if m.funcIdx < len(m.ifaces[m.ifaceIdx].funcs)-1 {
					m.funcIdx++
				}
			}

		case "enter":
			switch m.state {
			case stateSelectIface:
				if len(m.ifaces) == 0 {
					return m, nil
				}
				m.funcIdx = 0
				m.state = stateSelectFunc

			case stateSelectFunc:
				m.prepareInputs()
				if len(m.inputs) == 0 {
					return m, m.callFunction
				}
				m.state = stateInputArgs

			case stateInputArgs:
				return m, m.callFunction

			case stateShowResult:
				m.state = stateSelectFunc
				m.result = ""
				m.err = nil
			}

		case "tab":
			if m.state == stateInputArgs && len(m.inputs) > 1 {
				m.inputs[m.focusIdx].Blur()
				m.focusIdx = (m.focusIdx + 1) % len(m.inputs)
				m.inputs[m.focusIdx].Focus()
			}

		case "esc":
			switch m.state {
			case stateSelectFunc:
				m.state = stateSelectIface
			case stateInputArgs:
				m.state = stateSelectFunc
				m.inputs = nil
			case stateShowResult:
				m.state = stateSelectFunc
				m.result = ""
				m.err = nil
			}
		}

	case callResultMsg:
		m.result = msg.result
		m.err = msg.err
		m.state = stateShowResult
	}

	if m.state == stateInputArgs {
		var cmds []tea.Cmd
		for i := range m.inputs {
			var cmd tea.Cmd
			m.inputs[i], cmd = m.inputs[i].Update(msg)
			cmds = append(cmds, cmd)
		}
		return m, tea.Batch(cmds...)
	}

	return m, nil
}

func (m *browseModel) prepareInputs() {
	f := m.ifaces[m.ifaceIdx].funcs[m.funcIdx]
	m.inputs = make([]textinput.Model, 0, len(f.params))
	for i, k := range f.params {
		ti := textinput.New()
		ti.Placeholder = k.String()
		ti.Prompt = fmt.Sprintf("arg%d: ", i)
		ti.Width = 40
		m.inputs = append(m.inputs, ti)
	}
	if len(m.inputs) > 0 {
		m.inputs[0].Focus()
	}
	m.focusIdx = 0
}

func (m *browseModel) callFunction() tea.Msg {
	e := m.ifaces[m.ifaceIdx]
	f := e.funcs[m.funcIdx]

	in := make([]val.Value, 0, 1+len(f.params))
	in = append(in, val.U64(uint64(m.demo.instances[e.id])))
	for i, k := range f.params {
		in = append(in, parseArg(m.inputs[i].Value(), k))
	}

	var out [1]val.Value
	if err := f.fn.Callback(context.Background(), f.fn.Type, in, out[:]); err != nil {
		return callResultMsg{err: err}
	}
	if f.result == val.KindNone {
		return callResultMsg{result: "ok"}
	}
	return callResultMsg{result: out[0].String()}
}

func parseArg(value string, k val.Kind) val.Value {
	switch k {
	case val.KindS32:
		v, _ := strconv.ParseInt(value, 10, 32)
		return val.S32(int32(v))
	case val.KindS64:
		v, _ := strconv.ParseInt(value, 10, 64)
		return val.S64(v)
	case val.KindU64:
		v, _ := strconv.ParseUint(value, 10, 64)
		return val.U64(v)
	case val.KindF32:
		v, _ := strconv.ParseFloat(value, 32)
		return val.F32(float32(v))
	case val.KindF64:
		v, _ := strconv.ParseFloat(value, 64)
		return val.F64(v)
	}
	return val.Value{}
}

func (m *browseModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("hostlink exports"))
	b.WriteString(helpStyle.Render(fmt.Sprintf("  registry %#x", m.demo.reg.Version)))
	b.WriteString("\n\n")

	switch m.state {
	case stateSelectIface:
		b.WriteString("Select an interface:\n\n")
		for i, e := range m.ifaces {
			line := fmt.Sprintf("%s  (%d functions)", e.name, len(e.funcs))
			if i == m.ifaceIdx {
				b.WriteString(selectedStyle.Render("> " + line))
			} else {
				b.WriteString("  " + line)
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("↑/↓ select • enter open • q quit"))

	case stateSelectFunc:
		e := m.ifaces[m.ifaceIdx]
		b.WriteString(funcStyle.Render(e.name))
		b.WriteString("\n\n")
		for i, f := range e.funcs {
			if i == m.funcIdx {
				b.WriteString(selectedStyle.Render("> " + f.name + " " + f.sig))
			} else {
				b.WriteString("  " + funcStyle.Render(f.name) + " " + typeStyle.Render(f.sig))
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("↑/↓ select • enter call • esc back • q quit"))

	case stateInputArgs:
		f := m.ifaces[m.ifaceIdx].funcs[m.funcIdx]
		fmt.Fprintf(&b, "Arguments for %s\n\n", funcStyle.Render(f.name))
		for i, input := range m.inputs {
			fmt.Fprintf(&b, "%s %s\n", input.View(), typeStyle.Render(f.params[i].String()))
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("tab switch field • enter call • esc back"))

	case stateShowResult:
		f := m.ifaces[m.ifaceIdx].funcs[m.funcIdx]
		fmt.Fprintf(&b, "%s returned:\n\n", funcStyle.Render(f.name))
		if m.err != nil {
			b.WriteString(errorStyle.Render("Error: " + m.err.Error()))
		} else {
			b.WriteString(resultStyle.Render(m.result))
		}
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("enter back • q quit"))
	}

	return b.String()
}

func runInteractive(demo *demoHost) error {
	p := tea.NewProgram(newBrowseModel(demo), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
