package model

import (
	"errors"
	"fmt"
	"html"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
)

const MaxNameLength = 200

var (
	ErrValidation      = errors.New("model: invalid task")
	ErrDuplicate       = errors.New("model: task already exists")
	ErrInvalidPriority = fmt.Errorf("%w: invalid task priority", ErrValidation)
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

var Priorities = []Priority{PriorityHigh, PriorityMedium, PriorityLow}

func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	default:
		return false
	}
}

// ParsePriority maps free text onto a priority. Empty or unknown values fall
// back to medium, which is how stored tasks without a priority are shown.
func ParsePriority(raw string) Priority {
	p := Priority(strings.ToLower(strings.TrimSpace(raw)))
	if p.IsValid() {
		return p
	}
	return PriorityMedium
}

// Next cycles through Priorities, wrapping from low back to high.
func (p Priority) Next() Priority {
	for i, candidate := range Priorities {
		if candidate == p {
			return Priorities[(i+1)%len(Priorities)]
		}
	}
	return Priorities[0]
}

type Task struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Completed bool      `json:"completed"`
	Priority  Priority  `json:"priority"`
	CreatedAt time.Time `json:"createdAt"`
}

// TaskPatch carries the fields of a partial update. Nil fields are left
// untouched.
type TaskPatch struct {
	Name      *string
	Completed *bool
	Priority  *Priority
}

func (p TaskPatch) Apply(t Task) Task {
	if p.Name != nil {
		t.Name = *p.Name
	}
	if p.Completed != nil {
		t.Completed = *p.Completed
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	return t
}

func CompletedPatch(completed bool) TaskPatch {
	return TaskPatch{Completed: &completed}
}

func (t Task) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return fmt.Errorf("%w: id is required", ErrValidation)
	}
	if err := ValidateName(t.Name); err != nil {
		return err
	}
	if t.Priority != "" && !t.Priority.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidPriority, t.Priority)
	}
	return nil
}

func ValidateName(name string) error {
	n := utf8.RuneCountInString(strings.TrimSpace(name))
	if n == 0 {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}
	if n > MaxNameLength {
		return fmt.Errorf("%w: name exceeds %d characters", ErrValidation, MaxNameLength)
	}
	return nil
}

var namePolicy = bluemonday.StrictPolicy()

// SanitizeName strips markup tags from user input and trims the result. The
// policy output is HTML-escaped, so it is unescaped back to plain text.
func SanitizeName(raw string) string {
	return strings.TrimSpace(html.UnescapeString(namePolicy.Sanitize(strings.TrimSpace(raw))))
}
