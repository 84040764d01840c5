package update

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/tasks/internal/model"
	"github.com/sandeepkv93/tasks/internal/views"
)

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.KeyMsg:
		switch m.Mode {
		case ModeAdd:
			return m.handleAddKey(typed)
		case ModeCommand:
			return m.handleCommandKey(typed)
		}
		return m.handleListKey(typed)
	case tea.WindowSizeMsg:
		m.helpModel.Width = typed.Width
		return m, nil
	case DispatchMsg:
		_ = m.Dispatch(typed.Action)
		return m, nil
	case SetFilterMsg:
		if typed.Filter.IsValid() {
			m.Filter = typed.Filter
			m.clampCursor()
		}
		return m, nil
	case SetStatusMsg:
		m.Status = StatusBar{Text: typed.Text, IsError: typed.IsError}
		return m, nil
	case ClearStatusMsg:
		m.Status = StatusBar{}
		return m, nil
	case AppErrorMsg:
		m.LastError = typed.Err
		if typed.Err != nil {
			m.Status = StatusBar{Text: typed.Err.Error(), IsError: true}
			m.logger.Error("app error", "err", typed.Err)
		}
		return m, nil
	}
	return m, nil
}

func (m Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.Keys.Quit):
		m.Quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.Keys.Up):
		if m.Cursor > 0 {
			m.Cursor--
		}
	case key.Matches(msg, m.Keys.Down):
		if m.Cursor < len(m.Visible())-1 {
			m.Cursor++
		}
	case key.Matches(msg, m.Keys.Add):
		m.Mode = ModeAdd
		m.addInput.SetValue("")
		cmd := m.addInput.Focus()
		return m, cmd
	case key.Matches(msg, m.Keys.Toggle):
		if todo, ok := m.todoAtCursor(); ok {
			_ = m.Dispatch(model.ToggleTodo{ID: todo.ID})
		}
	case key.Matches(msg, m.Keys.Delete):
		if todo, ok := m.todoAtCursor(); ok {
			if err := m.Dispatch(model.DeleteTodo{ID: todo.ID}); err == nil {
				m.Status = StatusBar{Text: fmt.Sprintf("deleted %q", truncate(todo.Text, 30))}
			}
		}
	case key.Matches(msg, m.Keys.Filter):
		m.Filter = m.Filter.Next()
		m.clampCursor()
		m.Status = StatusBar{Text: "filter: " + string(m.Filter)}
	case key.Matches(msg, m.Keys.Command):
		m.Mode = ModeCommand
		m.commandInput.SetValue("")
		m.Status = StatusBar{Text: "command palette active"}
		cmd := m.commandInput.Focus()
		return m, cmd
	case key.Matches(msg, m.Keys.Help):
		m.HelpVisible = !m.HelpVisible
	}
	return m, nil
}

func (m Model) handleAddKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		m.Quitting = true
		return m, tea.Quit
	case tea.KeyEsc:
		m.Mode = ModeList
		m.addInput.Blur()
		return m, nil
	case tea.KeyEnter:
		text := m.addInput.Value()
		m.addInput.SetValue("")
		if isBlank(text) {
			m.Status = StatusBar{Text: "nothing to add", IsError: true}
			return m, nil
		}
		if err := m.Dispatch(model.AddTodo{Text: text}); err == nil {
			m.Status = StatusBar{Text: fmt.Sprintf("added %q", truncate(text, 30))}
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.addInput, cmd = m.addInput.Update(msg)
	return m, cmd
}

func (m Model) handleCommandKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		m.Quitting = true
		return m, tea.Quit
	case tea.KeyEsc:
		m.Mode = ModeList
		m.commandInput.Blur()
		m.Status = StatusBar{Text: "command palette closed"}
		return m, nil
	case tea.KeyEnter:
		m = m.executePaletteCommand(m.commandInput.Value())
		m.commandInput.SetValue("")
		m.commandInput.Blur()
		m.Mode = ModeList
		return m, nil
	}
	var cmd tea.Cmd
	m.commandInput, cmd = m.commandInput.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if m.Quitting {
		return ""
	}
	visible := m.Visible()
	items := make([]views.TodoRowData, 0, len(visible))
	for i, todo := range visible {
		items = append(items, views.TodoRowData{
			Row:       i + 1,
			ID:        todo.ID,
			Text:      todo.Text,
			Completed: todo.Completed,
			Selected:  i == m.Cursor,
		})
	}

	input := ""
	switch m.Mode {
	case ModeAdd:
		input = m.addInput.View()
	case ModeCommand:
		input = m.commandInput.View()
	}

	side := ""
	if m.HelpVisible {
		side = views.RenderMarkdown(helpMarkdown)
	}

	status := ""
	if m.Status.Text != "" {
		if m.Status.IsError {
			status = fmt.Sprintf("status: error: %s", m.Status.Text)
		} else {
			status = fmt.Sprintf("status: %s", m.Status.Text)
		}
	}

	return views.RenderApp(views.AppData{
		Header: fmt.Sprintf("tasks | total %d | completed %d | pending %d | filter: %s",
			m.State.Length, m.State.Completed, m.State.Pending, m.Filter),
		LeftPane:   views.RenderTodoList(views.TodoListData{Items: items, Input: input, Filter: string(m.Filter)}),
		RightPane:  side,
		StatusLine: status,
		Footer:     m.helpModel.View(m.Keys),
	})
}

const helpMarkdown = `## Keys

- **a** add a task, **enter** to save, **esc** to cancel
- **space** or **x** toggle the selected task
- **d** delete the selected task
- **f** cycle all / pending / completed
- **/** open the command palette

## Commands

- ` + "`add <text>`" + `
- ` + "`toggle <row|#id>`" + `, ` + "`delete <row|#id>`" + `
- ` + "`filter all|pending|completed`" + `
- ` + "`export <path> [format:md|json|csv|pdf]`" + `
`
