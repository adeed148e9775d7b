package cpu

import (
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/davecgh/go-spew/spew"
)

type model struct {
	cpu *Cpu

	regs     table.Model
	source   viewport.Model
	prevPC   uint16
	lastName string
	err      error
}

var borderStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)

// Init is the first function that will be called. It returns an optional
// initial command. To not perform an initial command return nil.
func (m model) Init() tea.Cmd { return nil }

// Update is called when a message is received. Use it to inspect messages
// and, in response, update the model and/or send a command.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ", "j":
			m.prevPC = m.cpu.PC
			m.lastName = mnemonicAt(m.cpu.Read(m.cpu.PC))
			if _, err := m.cpu.Step(); err != nil {
				m.err = err
				return m, tea.Quit
			}
			m.regs.SetRows(m.registerRows())
			m.source.SetYOffset(int(m.cpu.PC-m.cpu.debugOrigin) / 3)
		}
	case tea.WindowSizeMsg:
		m.source.Width = msg.Width / 2
		m.source.Height = msg.Height - 4
	}

	var cmd tea.Cmd
	m.regs, cmd = m.regs.Update(msg)
	return m, cmd
}

func (m model) registerRows() []table.Row {
	flags := ""
	for _, f := range []struct {
		name string
		bit  Flag
	}{
		{"N", FlagNegative}, {"V", FlagOverflow}, {"-", FlagUnused}, {"B", FlagBreak},
		{"D", FlagDecimal}, {"I", FlagInterrupt}, {"Z", FlagZero}, {"C", FlagCarry},
	} {
		if m.cpu.Get(f.bit) {
			flags += f.name
		} else {
			flags += "."
		}
	}
	return []table.Row{
		{"PC", fmt.Sprintf("%#04x", m.cpu.PC)},
		{"prevPC", fmt.Sprintf("%#04x", m.prevPC)},
		{"op", m.lastName},
		{"A", fmt.Sprintf("%#02x", m.cpu.A)},
		{"X", fmt.Sprintf("%#02x", m.cpu.X)},
		{"Y", fmt.Sprintf("%#02x", m.cpu.Y)},
		{"S", fmt.Sprintf("%#02x", m.cpu.S)},
		{"P", flags},
	}
}

// View renders the program's UI, which is just a string. The view is
// rendered after every Update.
func (m model) View() string {
	left := borderStyle.Render(m.source.View())
	right := borderStyle.Render(m.regs.View())
	body := lipgloss.JoinHorizontal(lipgloss.Top, left, right)

	var detail string
	if m.err != nil {
		detail = fmt.Sprintf("error: %v", m.err)
	} else if entry, ok := opcodeTable[m.cpu.Read(m.cpu.PC)]; ok {
		detail = spew.Sdump(entry)
	}

	return lipgloss.JoinVertical(lipgloss.Left, body, detail, "space/j: step   q: quit")
}

func newRegisterTable() table.Model {
	cols := []table.Column{{Title: "reg", Width: 8}, {Title: "value", Width: 10}}
	return table.New(table.WithColumns(cols), table.WithHeight(8))
}

// Debug starts an interactive TUI over c, stepping one instruction at a
// time on space/j. If source was attached with DebugSource, it is shown in
// a scrolling pane alongside the live register view; otherwise that pane
// shows a one-line note that no source is attached.
func (c *Cpu) Debug() error {
	vp := viewport.New(40, 20)
	if c.debugSource != "" {
		vp.SetContent(c.debugSource)
	} else {
		vp.SetContent("(no source attached; see Cpu.DebugSource)")
	}

	m := model{
		cpu:    c,
		regs:   newRegisterTable(),
		source: vp,
	}
	m.regs.SetRows(m.registerRows())

	final, err := tea.NewProgram(m).Run()
	if err != nil {
		return err
	}
	if fm, ok := final.(model); ok && fm.err != nil {
		return fm.err
	}
	return nil
}

// mnemonicAt names the instruction an opcode byte decodes to, for the
// debugger's "op" row; it needs no Cpu, only the byte.
func mnemonicAt(b byte) string {
	if e, ok := opcodeTable[b]; ok {
		return e.Mnemonic
	}
	return "???"
}
