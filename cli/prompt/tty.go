package prompt

import (
	"context"
	"fmt"
	"io"
	"log"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	stylePrompt = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true)
	styleDim    = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Faint(true)
	styleYes    = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	styleNo     = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
)

// TTY 在终端中用 bubbletea 渲染确认输入框。
type TTY struct {
	in  io.Reader
	out io.Writer
}

func NewTTY(in io.Reader, out io.Writer) *TTY {
	return &TTY{in: in, out: out}
}

func (p *TTY) Confirm(ctx context.Context, question string, def bool) (bool, error) {
	prog := tea.NewProgram(
		newConfirmModel(question, def),
		tea.WithContext(ctx),
		tea.WithInput(p.in),
		tea.WithOutput(p.out),
	)
	final, err := prog.Run()
	if err != nil {
		return def, fmt.Errorf("确认交互失败: %w", err)
	}
	m, ok := final.(confirmModel)
	if !ok {
		return def, nil
	}
	log.Printf("[prompt] question=%q answer=%t", question, m.answer)
	return m.answer, nil
}

// confirmModel 是确认交互的 bubbletea 模型。
// Enter 提交输入，Esc/Ctrl+C 直接取默认答案。
type confirmModel struct {
	question string
	def      bool
	input    textinput.Model
	answer   bool
	done     bool
}

func newConfirmModel(question string, def bool) confirmModel {
	ti := textinput.New()
	ti.Prompt = ""
	ti.CharLimit = 16
	ti.Focus()
	return confirmModel{
		question: question,
		def:      def,
		input:    ti,
		answer:   def,
	}
}

func (m confirmModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m confirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyEnter:
			m.answer = ParseAnswer(m.input.Value(), m.def)
			m.done = true
			return m, tea.Quit
		case tea.KeyEsc, tea.KeyCtrlC:
			m.answer = m.def
			m.done = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m confirmModel) View() string {
	if m.done {
		answer := styleNo.Render("no")
		if m.answer {
			answer = styleYes.Render("yes")
		}
		return fmt.Sprintf("%s %s\n", stylePrompt.Render(m.question), answer)
	}
	return fmt.Sprintf("%s %s %s", stylePrompt.Render(m.question), styleDim.Render(hint(m.def)), m.input.View())
}
