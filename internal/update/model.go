package update

import (
	"context"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"

	"github.com/sandeepkv93/tasks/internal/model"
	"github.com/sandeepkv93/tasks/internal/snapshot"
	"github.com/sandeepkv93/tasks/internal/storage"
)

type Mode string

const (
	ModeList    Mode = "list"
	ModeAdd     Mode = "add"
	ModeCommand Mode = "command"
)

type StatusBar struct {
	Text    string
	IsError bool
}

// Model is the UI-side owner of the task state. Every change goes through
// Dispatch, which runs the reducer and writes the new snapshot back.
type Model struct {
	State       model.TaskState
	Filter      model.Filter
	Cursor      int
	Mode        Mode
	HelpVisible bool
	Status      StatusBar
	Keys        KeyMap
	Quitting    bool
	LastError   error

	ctx          context.Context
	reducer      model.Reducer
	store        storage.KV
	logger       *slog.Logger
	addInput     textinput.Model
	commandInput textinput.Model
	helpModel    help.Model
}

type DispatchMsg struct {
	Action model.Action
}

type SetFilterMsg struct {
	Filter model.Filter
}

type SetStatusMsg struct {
	Text    string
	IsError bool
}

type ClearStatusMsg struct{}

type AppErrorMsg struct {
	Err error
}

// NewModel returns a model backed by an in-memory store.
func NewModel() Model {
	return NewModelWithConfig(context.Background(), storage.NewMemoryStore(), nil, DefaultRuntimeConfig())
}

// NewModelWithConfig hydrates the task state from store. ctx also bounds
// every later write made by Dispatch.
func NewModelWithConfig(ctx context.Context, store storage.KV, logger *slog.Logger, cfg RuntimeConfig) Model {
	if ctx == nil {
		ctx = context.Background()
	}
	if logger == nil {
		logger = slog.Default()
	}
	filter := cfg.DefaultFilter
	if !filter.IsValid() {
		filter = model.FilterAll
	}
	m := Model{
		State:  snapshot.LoadInitialState(ctx, store, logger),
		Filter: filter,
		Mode:   ModeList,
		Keys:   DefaultKeyMap(),
		ctx:    ctx,
		store:  store,
		logger: logger,
	}
	if !m.State.Consistent() {
		m.Status = StatusBar{Text: "loaded task counters disagree with the list", IsError: true}
	}
	m.initBubbleComponents()
	return m
}

// WithReducer swaps the reducer, mainly to pin the clock in tests.
func (m Model) WithReducer(r model.Reducer) Model {
	m.reducer = r
	return m
}

func (m *Model) initBubbleComponents() {
	m.addInput = textinput.New()
	m.addInput.Placeholder = "What needs doing?"
	m.addInput.CharLimit = 280
	m.addInput.Width = 50

	m.commandInput = textinput.New()
	m.commandInput.Prompt = "/ "
	m.commandInput.Placeholder = "add milk | toggle 2 | delete #id | filter pending | export out.pdf"
	m.commandInput.Width = 50

	m.helpModel = help.New()
}

// Visible is the filtered list the cursor moves over.
func (m Model) Visible() []model.Todo {
	return model.Visible(m.State, m.Filter)
}

// Dispatch applies action and persists the result. A failed write keeps the
// new state; the error is returned and shown in the status bar.
func (m *Model) Dispatch(action model.Action) error {
	m.State = m.reducer.Reduce(m.State, action)
	m.clampCursor()
	if m.store == nil {
		return nil
	}
	ctx := m.ctx
	if ctx == nil {
		ctx = context.Background()
	}
	if err := snapshot.Save(ctx, m.store, m.State); err != nil {
		m.LastError = err
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		m.logger.Error("save task state", "action", string(actionType(action)), "err", err)
		return err
	}
	m.logger.Debug("dispatched", "action", wireAction(action),
		"length", m.State.Length, "completed", m.State.Completed, "pending", m.State.Pending)
	return nil
}

func (m *Model) clampCursor() {
	n := len(m.Visible())
	if m.Cursor >= n {
		m.Cursor = n - 1
	}
	if m.Cursor < 0 {
		m.Cursor = 0
	}
}

func (m Model) todoAtCursor() (model.Todo, bool) {
	visible := m.Visible()
	if m.Cursor < 0 || m.Cursor >= len(visible) {
		return model.Todo{}, false
	}
	return visible[m.Cursor], true
}

func actionType(a model.Action) model.ActionType {
	if a == nil {
		return ""
	}
	return a.Type()
}

// wireAction renders action in its {"type","payload"} form for the log.
func wireAction(a model.Action) string {
	raw, err := model.EncodeAction(a)
	if err != nil {
		return string(actionType(a))
	}
	return string(raw)
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if len([]rune(s)) <= n {
		return s
	}
	return string([]rune(s)[:n-1]) + "…"
}
