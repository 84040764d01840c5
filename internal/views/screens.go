package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type TodoRowData struct {
	Row       int
	ID        int64
	Text      string
	Completed bool
	Selected  bool
}

type TodoListData struct {
	Items  []TodoRowData
	Input  string
	Filter string
}

var (
	doneStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Strikethrough(true)
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Bold(true)
	emptyStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Italic(true)
)

func RenderTodoList(data TodoListData) string {
	var b strings.Builder
	if data.Input != "" {
		b.WriteString(data.Input)
		b.WriteString("\n\n")
	}
	if len(data.Items) == 0 {
		msg := "no tasks yet, press a to add one"
		if data.Filter != "" && data.Filter != "all" {
			msg = fmt.Sprintf("no %s tasks", data.Filter)
		}
		b.WriteString(emptyStyle.Render(msg))
		return b.String()
	}
	for i, item := range data.Items {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(renderRow(item))
	}
	return b.String()
}

func renderRow(item TodoRowData) string {
	pointer := "  "
	if item.Selected {
		pointer = "> "
	}
	check := "[ ]"
	if item.Completed {
		check = "[x]"
	}
	text := item.Text
	if item.Completed {
		text = doneStyle.Render(text)
	}
	line := fmt.Sprintf("%s%2d. %s %s", pointer, item.Row, check, text)
	if item.Selected {
		return selectedStyle.Render(line)
	}
	return line
}
