package model

import (
	"strings"
	"time"
)

// Reducer applies actions to task state. Now stamps new todo ids; it
// defaults to time.Now.
type Reducer struct {
	Now func() time.Time
}

var defaultReducer = Reducer{}

// Reduce applies action to state with the wall clock.
func Reduce(state TaskState, action Action) TaskState {
	return defaultReducer.Reduce(state, action)
}

// Reduce returns the state that follows action. The input is never
// mutated; unhandled actions return state as-is.
func (r Reducer) Reduce(state TaskState, action Action) TaskState {
	switch typed := action.(type) {
	case AddTodo:
		todo := Todo{
			ID:        r.now().UnixMilli(),
			Text:      strings.TrimSpace(typed.Text),
			Completed: false,
		}
		todos := make([]Todo, 0, len(state.Todos)+1)
		todos = append(todos, state.Todos...)
		todos = append(todos, todo)

		next := state
		next.Todos = todos
		next.Length = len(todos)
		// completed is carried over, pending is bumped rather than recounted.
		next.Pending = state.Pending + 1
		return next

	case DeleteTodo:
		todos := make([]Todo, 0, len(state.Todos))
		for _, todo := range state.Todos {
			if todo.ID != typed.ID {
				todos = append(todos, todo)
			}
		}
		completed, pending := Counts(todos)
		return TaskState{
			Todos:     todos,
			Length:    len(todos),
			Completed: completed,
			Pending:   pending,
		}

	case ToggleTodo:
		todos := make([]Todo, len(state.Todos))
		for i, todo := range state.Todos {
			if todo.ID == typed.ID {
				todo.Completed = !todo.Completed
			}
			todos[i] = todo
		}
		completed, pending := Counts(todos)
		next := state
		next.Todos = todos
		next.Completed = completed
		next.Pending = pending
		return next

	default:
		return state
	}
}

func (r Reducer) now() time.Time {
	if r.Now == nil {
		return time.Now()
	}
	return r.Now()
}
