// Package prompt 提供命令执行过程中的 yes/no 确认交互。
package prompt

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/term"
)

// Confirmer 向用户提出 yes/no 问题，def 为直接回车（或输入结束）时的默认答案。
type Confirmer interface {
	Confirm(ctx context.Context, question string, def bool) (bool, error)
}

// ForInput 根据输入输出流选择确认方式：两端都是终端时使用 TTY 交互，
// 其余（管道、重定向、测试）按行读取，避免把控制序列写进文件。
func ForInput(in io.Reader, out io.Writer) Confirmer {
	if isTerminal(in) && isTerminal(out) {
		return NewTTY(in, out)
	}
	return NewLine(in, out)
}

// isTerminalFd 可在测试中替换。
var isTerminalFd = term.IsTerminal

func isTerminal(v any) bool {
	f, ok := v.(*os.File)
	return ok && isTerminalFd(f.Fd())
}

// ParseAnswer 解释用户输入：y/yes 为肯定，空输入取默认值，其余一律视为否定。
func ParseAnswer(s string, def bool) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return def
	case "y", "yes":
		return true
	default:
		return false
	}
}

func hint(def bool) string {
	if def {
		return "[Y/n]"
	}
	return "[y/N]"
}

// Line 通过逐行读取输入完成确认。
type Line struct {
	in    *bufio.Reader
	out   io.Writer
	style lipgloss.Style
}

func NewLine(in io.Reader, out io.Writer) *Line {
	return &Line{
		in:    bufio.NewReader(in),
		out:   out,
		style: lipgloss.NewRenderer(out).NewStyle().Foreground(lipgloss.Color("6")).Bold(true),
	}
}

func (p *Line) Confirm(ctx context.Context, question string, def bool) (bool, error) {
	if err := ctx.Err(); err != nil {
		return def, err
	}
	fmt.Fprintf(p.out, "%s %s ", p.style.Render(question), hint(def))

	line, err := p.in.ReadString('\n')
	// 非终端输入不会回显换行，这里补齐，保证后续输出另起一行。
	fmt.Fprintln(p.out)
	if err != nil && !errors.Is(err, io.EOF) {
		return def, fmt.Errorf("读取确认输入失败: %w", err)
	}
	answer := ParseAnswer(line, def)
	log.Printf("[prompt] question=%q input=%q answer=%t", question, strings.TrimSpace(line), answer)
	return answer, nil
}
