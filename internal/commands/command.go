package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sandeepkv93/tasktrack/internal/model"
)

type Type string

const (
	TypeAdd    Type = "add"
	TypeFilter Type = "filter"
	TypePage   Type = "page"
	TypeToggle Type = "toggle"
	TypeDelete Type = "delete"
	TypeExport Type = "export"
	TypeClear  Type = "clear"
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

type AddArgs struct {
	Name     string
	Priority model.Priority
}

// FilterArgs carries the filter name as typed; it is resolved by the handler.
type FilterArgs struct {
	Name string
}

type PageArgs struct {
	Page int
}

// RowArgs addresses a task by its 1-based row on the visible page.
type RowArgs struct {
	Row int
}

type Command struct {
	Type   Type
	Raw    string
	Add    *AddArgs
	Filter *FilterArgs
	Page   *PageArgs
	Row    *RowArgs
}

func Parse(input string) (Command, error) {
	raw := strings.TrimSpace(input)
	raw = strings.TrimSpace(strings.TrimPrefix(raw, "/"))
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}

	parts := strings.Fields(raw)
	head := strings.ToLower(parts[0])
	args := parts[1:]

	switch Type(head) {
	case TypeAdd:
		return parseAdd(input, args)
	case TypeFilter:
		return parseFilter(input, args)
	case TypePage:
		n, err := parsePositive("page", args)
		if err != nil {
			return Command{}, err
		}
		return Command{Type: TypePage, Raw: input, Page: &PageArgs{Page: n}}, nil
	case TypeToggle, TypeDelete:
		n, err := parsePositive(head, args)
		if err != nil {
			return Command{}, err
		}
		return Command{Type: Type(head), Raw: input, Row: &RowArgs{Row: n}}, nil
	case TypeExport, TypeClear:
		return Command{Type: Type(head), Raw: input}, nil
	default:
		return Command{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unsupported command: %s", head)}
	}
}

// parseAdd accepts an optional leading !high, !medium or !low.
func parseAdd(raw string, args []string) (Command, error) {
	priority := model.PriorityMedium
	if len(args) > 0 && strings.HasPrefix(args[0], "!") {
		p := model.Priority(strings.ToLower(strings.TrimPrefix(args[0], "!")))
		if !p.IsValid() {
			return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("unknown priority: %s", args[0])}
		}
		priority = p
		args = args[1:]
	}
	name := strings.TrimSpace(strings.Join(args, " "))
	if name == "" {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "add requires a task name"}
	}
	return Command{Type: TypeAdd, Raw: raw, Add: &AddArgs{Name: name, Priority: priority}}, nil
}

func parseFilter(raw string, args []string) (Command, error) {
	if len(args) != 1 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "filter requires one of all, active, completed, high"}
	}
	return Command{Type: TypeFilter, Raw: raw, Filter: &FilterArgs{Name: args[0]}}, nil
}

func parsePositive(name string, args []string) (int, error) {
	if len(args) != 1 {
		return 0, &CommandError{Code: ErrCodeInvalidArgument, Message: name + " requires a number"}
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 1 {
		return 0, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("%s: invalid number %q", name, args[0])}
	}
	return n, nil
}
