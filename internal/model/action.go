package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

var ErrInvalidPayload = errors.New("model: invalid action payload")

type ActionType string

const (
	ActionAddTodo    ActionType = "ADD_TODO"
	ActionToggleTodo ActionType = "TOGGLE_TODO"
	ActionDeleteTodo ActionType = "DELETE_TODO"
)

// Action is implemented only by the variants in this file.
type Action interface {
	Type() ActionType
	action()
}

type AddTodo struct {
	Text string
}

type ToggleTodo struct {
	ID int64
}

type DeleteTodo struct {
	ID int64
}

// Unknown carries an action type the reducer does not handle.
type Unknown struct {
	Kind string
}

func (AddTodo) Type() ActionType    { return ActionAddTodo }
func (ToggleTodo) Type() ActionType { return ActionToggleTodo }
func (DeleteTodo) Type() ActionType { return ActionDeleteTodo }
func (u Unknown) Type() ActionType  { return ActionType(u.Kind) }

func (AddTodo) action()    {}
func (ToggleTodo) action() {}
func (DeleteTodo) action() {}
func (Unknown) action()    {}

type envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// DecodeAction reads the {"type", "payload"} wire form. Unrecognised types
// decode to Unknown without error.
func DecodeAction(data []byte) (Action, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("decode action: %w", err)
	}
	missing := len(env.Payload) == 0 || string(env.Payload) == "null"
	switch ActionType(env.Type) {
	case ActionAddTodo:
		var text string
		if missing || json.Unmarshal(env.Payload, &text) != nil {
			return nil, fmt.Errorf("%w: %s expects a string", ErrInvalidPayload, env.Type)
		}
		return AddTodo{Text: text}, nil
	case ActionToggleTodo, ActionDeleteTodo:
		num, ok := numberOf(env.Payload)
		if missing || !ok {
			return nil, fmt.Errorf("%w: %s expects an integer", ErrInvalidPayload, env.Type)
		}
		id, ok := integerOf(num)
		if !ok {
			return nil, fmt.Errorf("%w: %s expects an integer, got %s", ErrInvalidPayload, env.Type, num)
		}
		if ActionType(env.Type) == ActionToggleTodo {
			return ToggleTodo{ID: id}, nil
		}
		return DeleteTodo{ID: id}, nil
	default:
		return Unknown{Kind: env.Type}, nil
	}
}

// numberOf reads a bare JSON number; quoted numbers are not numbers.
func numberOf(raw json.RawMessage) (json.Number, bool) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return "", false
	}
	num, ok := v.(json.Number)
	return num, ok
}

func EncodeAction(a Action) ([]byte, error) {
	var payload any
	switch typed := a.(type) {
	case AddTodo:
		payload = typed.Text
	case ToggleTodo:
		payload = typed.ID
	case DeleteTodo:
		payload = typed.ID
	case Unknown:
	default:
		return nil, errors.New("model: nil action")
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	if payload == nil {
		raw = nil
	}
	return json.Marshal(envelope{Type: string(a.Type()), Payload: raw})
}
