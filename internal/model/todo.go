package model

import (
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidFilter = errors.New("model: invalid filter")

type Todo struct {
	ID        int64  `json:"id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

// TaskState is a snapshot of the list plus its derived counters. Counters
// are carried, not computed, so a hydrated snapshot may disagree with its
// own todos.
type TaskState struct {
	Todos     []Todo `json:"todos"`
	Length    int    `json:"length"`
	Completed int    `json:"completed"`
	Pending   int    `json:"pending"`
}

func ZeroState() TaskState {
	return TaskState{Todos: []Todo{}}
}

func (s TaskState) Consistent() bool {
	if s.Length != len(s.Todos) || s.Completed+s.Pending != s.Length {
		return false
	}
	completed, pending := Counts(s.Todos)
	return completed == s.Completed && pending == s.Pending
}

func (s TaskState) Find(id int64) (Todo, bool) {
	for _, todo := range s.Todos {
		if todo.ID == id {
			return todo, true
		}
	}
	return Todo{}, false
}

func Counts(todos []Todo) (completed, pending int) {
	for _, todo := range todos {
		if todo.Completed {
			completed++
		} else {
			pending++
		}
	}
	return completed, pending
}

type Filter string

const (
	FilterAll       Filter = "all"
	FilterPending   Filter = "pending"
	FilterCompleted Filter = "completed"
)

func (f Filter) IsValid() bool {
	switch f {
	case FilterAll, FilterPending, FilterCompleted:
		return true
	default:
		return false
	}
}

func (f Filter) Next() Filter {
	switch f {
	case FilterAll:
		return FilterPending
	case FilterPending:
		return FilterCompleted
	default:
		return FilterAll
	}
}

func ParseFilter(raw string) (Filter, error) {
	f := Filter(strings.ToLower(strings.TrimSpace(raw)))
	if f == "" {
		return FilterAll, nil
	}
	if !f.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidFilter, raw)
	}
	return f, nil
}

// Visible returns the todos matching f in insertion order.
func Visible(s TaskState, f Filter) []Todo {
	out := make([]Todo, 0, len(s.Todos))
	for _, todo := range s.Todos {
		switch f {
		case FilterPending:
			if todo.Completed {
				continue
			}
		case FilterCompleted:
			if !todo.Completed {
				continue
			}
		}
		out = append(out, todo)
	}
	return out
}
