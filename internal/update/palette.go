package update

import (
	"fmt"
	"os"
	"strings"

	"github.com/sandeepkv93/tasks/internal/commands"
	"github.com/sandeepkv93/tasks/internal/export"
	"github.com/sandeepkv93/tasks/internal/model"
)

func (m Model) executePaletteCommand(input string) Model {
	cmd, err := commands.Parse(input)
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		return m
	}
	res, err := commands.Execute(cmd, commands.Handlers{
		Add: func(a commands.AddArgs) (commands.Result, error) {
			if err := m.Dispatch(model.AddTodo{Text: a.Text}); err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: fmt.Sprintf("added %q", truncate(a.Text, 30))}, nil
		},
		Toggle: func(a commands.TargetArgs) (commands.Result, error) {
			todo, err := m.resolveTarget(a.Target)
			if err != nil {
				return commands.Result{}, err
			}
			if err := m.Dispatch(model.ToggleTodo{ID: todo.ID}); err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: fmt.Sprintf("toggled %q", truncate(todo.Text, 30))}, nil
		},
		Delete: func(a commands.TargetArgs) (commands.Result, error) {
			todo, err := m.resolveTarget(a.Target)
			if err != nil {
				return commands.Result{}, err
			}
			if err := m.Dispatch(model.DeleteTodo{ID: todo.ID}); err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: fmt.Sprintf("deleted %q", truncate(todo.Text, 30))}, nil
		},
		Filter: func(a commands.FilterArgs) (commands.Result, error) {
			f, err := model.ParseFilter(a.Filter)
			if err != nil {
				return commands.Result{}, err
			}
			m.Filter = f
			m.clampCursor()
			return commands.Result{Message: "filter: " + string(f)}, nil
		},
		Export: func(a commands.ExportArgs) (commands.Result, error) {
			format := export.FormatForPath(a.Path, a.Format)
			out, err := export.Export(m.State, m.Filter, format)
			if err != nil {
				return commands.Result{}, err
			}
			if err := os.WriteFile(a.Path, out, 0o644); err != nil {
				return commands.Result{}, fmt.Errorf("write export: %w", err)
			}
			m.logger.Info("exported tasks", "path", a.Path, "format", string(format))
			return commands.Result{Message: fmt.Sprintf("exported %s to %s", format, a.Path)}, nil
		},
		Help: func() (commands.Result, error) {
			m.HelpVisible = true
			return commands.Result{Message: "help shown"}, nil
		},
	})
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		return m
	}
	m.Status = StatusBar{Text: res.Message}
	return m
}

func (m Model) resolveTarget(t commands.Target) (model.Todo, error) {
	if t.IsID() {
		if todo, ok := m.State.Find(t.ID); ok {
			return todo, nil
		}
		return model.Todo{}, fmt.Errorf("no task with id %d", t.ID)
	}
	visible := m.Visible()
	if t.Row > len(visible) {
		return model.Todo{}, fmt.Errorf("row %d out of range (1-%d)", t.Row, len(visible))
	}
	return visible[t.Row-1], nil
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
