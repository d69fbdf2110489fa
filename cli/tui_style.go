package cli

import (
	"io"

	"github.com/charmbracelet/lipgloss"
)

// 终端样式集中管理。按输出目标创建 renderer，输出不是终端时不带颜色。
type styles struct {
	err lipgloss.Style
	dim lipgloss.Style
}

func newStyles(w io.Writer) styles {
	r := lipgloss.NewRenderer(w)
	return styles{
		err: r.NewStyle().Foreground(lipgloss.Color("1")),
		dim: r.NewStyle().Foreground(lipgloss.Color("8")).Faint(true),
	}
}
