package commands

import (
	"fmt"
	"strconv"
	"strings"
)

type Type string

const (
	TypeAdd    Type = "add"
	TypeToggle Type = "toggle"
	TypeDelete Type = "delete"
	TypeFilter Type = "filter"
	TypeExport Type = "export"
	TypeHelp   Type = "help"
)

type ErrorCode string

const (
	ErrCodeEmptyInput      ErrorCode = "empty_input"
	ErrCodeUnknownCommand  ErrorCode = "unknown_command"
	ErrCodeInvalidArgument ErrorCode = "invalid_argument"
	ErrCodeHandlerMissing  ErrorCode = "handler_missing"
)

type CommandError struct {
	Code    ErrorCode
	Message string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

var aliases = map[string]Type{
	"a":    TypeAdd,
	"new":  TypeAdd,
	"t":    TypeToggle,
	"done": TypeToggle,
	"d":    TypeDelete,
	"rm":   TypeDelete,
	"f":    TypeFilter,
	"show": TypeFilter,
	"?":    TypeHelp,
}

type AddArgs struct {
	Text string
}

// Target names a todo either by its 1-based row in the visible list or by
// raw id (written "#<id>").
type Target struct {
	Row  int
	ID   int64
	ByID bool
}

func (t Target) IsID() bool { return t.ByID }

type TargetArgs struct {
	Target Target
}

type FilterArgs struct {
	Filter string
}

type ExportArgs struct {
	Path   string
	Format string
}

type Command struct {
	Type   Type
	Raw    string
	Add    *AddArgs
	Toggle *TargetArgs
	Delete *TargetArgs
	Filter *FilterArgs
	Export *ExportArgs
}

func Parse(input string) (Command, error) {
	raw := strings.TrimSpace(input)
	if strings.HasPrefix(raw, "/") {
		raw = strings.TrimSpace(strings.TrimPrefix(raw, "/"))
	}
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}

	parts := strings.Fields(raw)
	head := strings.ToLower(parts[0])
	args := parts[1:]
	if alias, ok := aliases[head]; ok {
		head = string(alias)
	}

	switch Type(head) {
	case TypeAdd:
		return parseAdd(input, args)
	case TypeToggle, TypeDelete:
		return parseTarget(input, Type(head), args)
	case TypeFilter:
		return parseFilter(input, args)
	case TypeExport:
		return parseExport(input, args)
	case TypeHelp:
		return Command{Type: TypeHelp, Raw: input}, nil
	default:
		return Command{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unsupported command: %s", head)}
	}
}

func parseAdd(raw string, args []string) (Command, error) {
	text := strings.TrimSpace(strings.Join(args, " "))
	if text == "" {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "add requires text"}
	}
	return Command{Type: TypeAdd, Raw: raw, Add: &AddArgs{Text: text}}, nil
}

func parseTarget(raw string, typ Type, args []string) (Command, error) {
	if len(args) != 1 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("%s requires one row number or #id", typ)}
	}
	target, err := ParseTarget(args[0])
	if err != nil {
		return Command{}, err
	}
	cmd := Command{Type: typ, Raw: raw}
	if typ == TypeToggle {
		cmd.Toggle = &TargetArgs{Target: target}
	} else {
		cmd.Delete = &TargetArgs{Target: target}
	}
	return cmd, nil
}

func ParseTarget(arg string) (Target, error) {
	if strings.HasPrefix(arg, "#") {
		id, err := strconv.ParseInt(strings.TrimPrefix(arg, "#"), 10, 64)
		if err != nil {
			return Target{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("invalid todo id: %s", arg)}
		}
		return Target{ID: id, ByID: true}, nil
	}
	row, err := strconv.Atoi(arg)
	if err != nil || row < 1 {
		return Target{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("invalid row: %s", arg)}
	}
	return Target{Row: row}, nil
}

func parseFilter(raw string, args []string) (Command, error) {
	if len(args) != 1 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "filter requires all, pending or completed"}
	}
	return Command{Type: TypeFilter, Raw: raw, Filter: &FilterArgs{Filter: strings.ToLower(args[0])}}, nil
}

func parseExport(raw string, args []string) (Command, error) {
	if len(args) == 0 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "export requires a path"}
	}
	path := args[0]
	format := ""
	for _, arg := range args[1:] {
		if strings.HasPrefix(strings.ToLower(arg), "format:") {
			format = strings.ToLower(strings.TrimSpace(arg[len("format:"):]))
		}
	}
	return Command{Type: TypeExport, Raw: raw, Export: &ExportArgs{Path: path, Format: format}}, nil
}
