package views

import (
	"fmt"
	"strings"
)

type TaskRowData struct {
	ID        string
	Name      string
	Completed bool
	Priority  string
	CreatedAt string
}

type TaskListData struct {
	Items        []TaskRowData
	Cursor       int
	FadingID     string
	Empty        bool
	EmptyMessage string
}

type InputData struct {
	Active      bool
	InputView   string
	Priority    string
	Busy        bool
	SpinnerView string
}

type FilterBarData struct {
	Labels []string
	Active int
}

type PaginationData struct {
	Visible     bool
	Page        int
	TotalPages  int
	PrevEnabled bool
	NextEnabled bool
}

type StatsData struct {
	Total     int
	Completed int
	Remaining int
}

type AnalyticsData struct {
	Visible       bool
	CompletionBar string
	CompletedPct  int
	Completed     int
	Remaining     int
	High          int
	Medium        int
	Low           int
}

type ToastData struct {
	Level   string
	Message string
}

type HelpPanelData struct {
	Bindings []string
	HelpView string
}

func RenderInput(data InputData) string {
	var b strings.Builder
	b.WriteString("new task:\n")
	b.WriteString(data.InputView + "\n")
	b.WriteString(fmt.Sprintf("priority: %s", strings.ToUpper(data.Priority)))
	if data.Busy {
		b.WriteString(fmt.Sprintf("  %s acquiring id...", data.SpinnerView))
	}
	if data.Active {
		b.WriteString("\nactions: [enter]add [tab]priority [esc]done")
	} else {
		b.WriteString("\nactions: [i]type")
	}
	return b.String()
}

func RenderFilterBar(data FilterBarData) string {
	parts := make([]string, 0, len(data.Labels))
	for i, label := range data.Labels {
		if i == data.Active {
			parts = append(parts, fmt.Sprintf("[%d:%s]", i+1, label))
		} else {
			parts = append(parts, fmt.Sprintf(" %d:%s ", i+1, label))
		}
	}
	return "filter: " + strings.Join(parts, " ")
}

func RenderTaskList(data TaskListData) string {
	if data.Empty {
		return "  " + data.EmptyMessage
	}
	var b strings.Builder
	for i, item := range data.Items {
		cursor := " "
		if i == data.Cursor {
			cursor = ">"
		}
		check := "[ ]"
		if item.Completed {
			check = "[x]"
		}
		line := fmt.Sprintf("%s %d. %s %s %s", cursor, i+1, check, priorityBadge(item.Priority), item.Name)
		if item.CreatedAt != "" {
			line += "  " + item.CreatedAt
		}
		switch {
		case item.ID == data.FadingID:
			line = fadeStyle.Render(line)
		case item.Completed:
			line = doneStyle.Render(line)
		}
		b.WriteString(line + "\n")
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func priorityBadge(priority string) string {
	switch strings.ToLower(priority) {
	case "high":
		return "[HIGH]"
	case "low":
		return "[LOW]"
	default:
		return "[MED]"
	}
}

func RenderPagination(data PaginationData) string {
	if !data.Visible {
		return ""
	}
	prev, next := "< prev", "next >"
	if !data.PrevEnabled {
		prev = "  ----"
	}
	if !data.NextEnabled {
		next = "----  "
	}
	return fmt.Sprintf("%s  Page %d of %d  %s", prev, data.Page, data.TotalPages, next)
}

func RenderStats(data StatsData) string {
	return fmt.Sprintf("stats:\ntotal: %d\ncompleted: %d\nremaining: %d", data.Total, data.Completed, data.Remaining)
}

func RenderAnalytics(data AnalyticsData) string {
	if !data.Visible {
		return ""
	}
	var b strings.Builder
	b.WriteString("analytics:\n")
	b.WriteString(fmt.Sprintf("completion: %d done / %d left\n", data.Completed, data.Remaining))
	b.WriteString(data.CompletionBar + "\n")
	maxCount := max(data.High, data.Medium, data.Low, 1)
	for _, row := range []struct {
		label string
		n     int
	}{{"high", data.High}, {"medium", data.Medium}, {"low", data.Low}} {
		b.WriteString(fmt.Sprintf("%-6s %s %d\n", row.label, bar(row.n, maxCount, 20), row.n))
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func bar(n, maxCount, width int) string {
	filled := n * width / maxCount
	return strings.Repeat("#", filled) + strings.Repeat(".", width-filled)
}

func RenderToasts(toasts []ToastData) string {
	lines := make([]string, 0, len(toasts))
	for _, t := range toasts {
		if strings.TrimSpace(t.Message) == "" {
			continue
		}
		lines = append(lines, fmt.Sprintf("[%s] %s", strings.ToUpper(t.Level), t.Message))
	}
	return strings.Join(lines, "\n")
}

func RenderCommandPalette(active bool, input string) string {
	if !active {
		return ""
	}
	return "command: " + input
}

// RenderHelpPanel renders the binding list as markdown through glamour and
// appends the compact bubbles help line.
func RenderHelpPanel(data HelpPanelData) string {
	var md strings.Builder
	md.WriteString("# Keys\n\n")
	for _, line := range data.Bindings {
		md.WriteString("- " + line + "\n")
	}
	return RenderMarkdown(md.String()) + "\n" + data.HelpView
}
