// Package filter holds the process-wide view filter over the task list.
package filter

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sandeepkv93/tasktrack/internal/model"
)

var ErrUnknownFilter = errors.New("filter: unknown filter")

type Filter string

const (
	All       Filter = "all"
	Active    Filter = "active"
	Completed Filter = "completed"
	High      Filter = "high"
)

// Order is the display and hotkey order of the filters.
var Order = []Filter{All, Active, Completed, High}

func (f Filter) Label() string {
	switch f {
	case Active:
		return "Active"
	case Completed:
		return "Completed"
	case High:
		return "High Priority"
	default:
		return "All"
	}
}

func (f Filter) Matches(t model.Task) bool {
	switch f {
	case Active:
		return !t.Completed
	case Completed:
		return t.Completed
	case High:
		return t.Priority == model.PriorityHigh
	default:
		return true
	}
}

func Parse(raw string) (Filter, error) {
	f := Filter(strings.ToLower(strings.TrimSpace(raw)))
	for _, known := range Order {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFilter, raw)
}

// State is owned by the controller and never persisted.
type State struct {
	current Filter
}

func NewState() *State {
	return &State{current: All}
}

func (s *State) Current() Filter {
	return s.current
}

func (s *State) Set(f Filter) {
	s.current = f
}

// Apply returns the tasks matching the current filter in their original order.
func (s *State) Apply(tasks []model.Task) []model.Task {
	out := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		if s.current.Matches(t) {
			out = append(out, t)
		}
	}
	return out
}
