package update

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/tasktrack/internal/filter"
	"github.com/sandeepkv93/tasktrack/internal/model"
	"github.com/sandeepkv93/tasktrack/internal/tracker"
	"github.com/sandeepkv93/tasktrack/internal/views"
)

// IDAcquiredMsg carries a prepared task back onto the event loop once its
// identifier is known.
type IDAcquiredMsg struct {
	ID       string
	Name     string
	Priority model.Priority
}

type DeleteTaskMsg struct {
	ID string
}

type DraftSaveMsg struct {
	Seq  int
	Text string
}

type ToastExpiryMsg struct{}

func acquireIDCmd(ctx context.Context, ctrl *tracker.Controller, name string, priority model.Priority) tea.Cmd {
	return func() tea.Msg {
		return IDAcquiredMsg{ID: ctrl.AcquireID(ctx), Name: name, Priority: priority}
	}
}

func (m Model) toastExpiryCmd() tea.Cmd {
	if len(m.toasts.Active(m.now())) == 0 {
		return nil
	}
	return tea.Tick(m.toasts.TTL(), func(time.Time) tea.Msg { return ToastExpiryMsg{} })
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.KeyMsg:
		if typed.String() == "ctrl+c" {
			m.Quitting = true
			return m, tea.Quit
		}
		switch m.Mode {
		case ModeInput:
			return m.handleInputKey(typed)
		case ModePalette:
			return m.handlePaletteKey(typed)
		case ModeConfirm:
			return m.handleConfirmKey(typed)
		default:
			return m.handleBrowseKey(typed)
		}
	case IDAcquiredMsg:
		m.Adding = false
		if m.ctrl.CommitTask(m.ctx, typed.ID, typed.Name, typed.Priority) {
			m.input.SetValue("")
			m.Priority = model.PriorityMedium
			m.Cursor = 0
			m.draftSeq++
		}
		return m, m.toastExpiryCmd()
	case DeleteTaskMsg:
		if m.FadingID == typed.ID {
			m.FadingID = ""
		}
		m.ctrl.DeleteTask(m.ctx, typed.ID)
		m.clampCursor()
		return m, m.toastExpiryCmd()
	case DraftSaveMsg:
		if typed.Seq == m.draftSeq {
			m.ctrl.SaveDraft(m.ctx, typed.Text)
		}
		return m, nil
	case ToastExpiryMsg:
		if m.toasts.Prune(m.now()) > 0 {
			return m, m.toastExpiryCmd()
		}
		return m, nil
	case spinner.TickMsg:
		if m.Adding {
			var cmd tea.Cmd
			m.idSpinner, cmd = m.idSpinner.Update(typed)
			return m, cmd
		}
		return m, nil
	}
	return m, nil
}

func (m Model) handleBrowseKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	snap := m.screen.snap
	switch {
	case key.Matches(msg, m.Keys.Quit):
		m.Quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.Keys.Input):
		m.Mode = ModeInput
		cmd := m.input.Focus()
		return m, cmd
	case key.Matches(msg, m.Keys.Palette):
		m.Mode = ModePalette
		m.commandInput.SetValue("")
		m.Status = StatusBar{Text: "command palette active"}
		cmd := m.commandInput.Focus()
		return m, cmd
	case key.Matches(msg, m.Keys.Help):
		m.HelpVisible = !m.HelpVisible
		return m, nil
	case key.Matches(msg, m.Keys.Down):
		if m.Cursor < len(snap.Items)-1 {
			m.Cursor++
		}
		return m, nil
	case key.Matches(msg, m.Keys.Up):
		if m.Cursor > 0 {
			m.Cursor--
		}
		return m, nil
	case key.Matches(msg, m.Keys.Toggle):
		if task, ok := m.selected(); ok {
			m.ctrl.ToggleTask(m.ctx, task.ID, !task.Completed)
		}
		return m, m.toastExpiryCmd()
	case key.Matches(msg, m.Keys.Delete):
		return m.startDelete()
	case key.Matches(msg, m.Keys.Filter):
		idx := int(msg.Runes[0] - '1')
		if idx >= 0 && idx < len(filter.Order) {
			m.ctrl.SetFilter(m.ctx, filter.Order[idx])
			m.Cursor = 0
		}
		return m, nil
	case key.Matches(msg, m.Keys.PrevPage):
		m.ctrl.PrevPage(m.ctx)
		m.Cursor = 0
		return m, nil
	case key.Matches(msg, m.Keys.NextPage):
		m.ctrl.NextPage(m.ctx)
		m.Cursor = 0
		return m, nil
	case key.Matches(msg, m.Keys.Export):
		if path, ok := m.ctrl.Export(m.ctx); ok {
			m.Status = StatusBar{Text: "exported to " + path}
		}
		return m, m.toastExpiryCmd()
	case key.Matches(msg, m.Keys.Clear):
		m.Prompt = m.ctrl.RequestClear() + " [y/n]"
		m.Mode = ModeConfirm
		return m, nil
	}
	return m, nil
}

func (m Model) startDelete() (tea.Model, tea.Cmd) {
	task, ok := m.selected()
	if !ok || m.FadingID != "" {
		return m, nil
	}
	return m.fadeOut(task.ID)
}

// fadeOut marks the row and removes it after the transition.
func (m Model) fadeOut(id string) (tea.Model, tea.Cmd) {
	m.FadingID = id
	return m, tea.Tick(tracker.DeleteTransition, func(time.Time) tea.Msg { return DeleteTaskMsg{ID: id} })
}

func (m Model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.Mode = ModeBrowse
		m.input.Blur()
		return m, nil
	case "tab":
		m.Priority = m.Priority.Next()
		return m, nil
	case "enter":
		return m.submit(m.input.Value(), m.Priority)
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if after := m.input.Value(); after != before {
		m.draftSeq++
		seq := m.draftSeq
		return m, tea.Batch(cmd, tea.Tick(m.debounce, func(time.Time) tea.Msg {
			return DraftSaveMsg{Seq: seq, Text: after}
		}))
	}
	return m, cmd
}

// submit validates the name on the loop and fetches the identifier off it.
func (m Model) submit(raw string, priority model.Priority) (tea.Model, tea.Cmd) {
	if m.Adding {
		return m, nil
	}
	name, ok := m.ctrl.PrepareTask(raw)
	if !ok {
		return m, m.toastExpiryCmd()
	}
	m.Adding = true
	return m, tea.Batch(m.idSpinner.Tick, acquireIDCmd(m.ctx, m.ctrl, name, priority))
}

func (m Model) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch strings.ToLower(msg.String()) {
	case "y":
		m.ctrl.ConfirmClear(m.ctx, true)
		m.Cursor = 0
	case "n", "esc":
		m.ctrl.ConfirmClear(m.ctx, false)
	default:
		return m, nil
	}
	m.Mode = ModeBrowse
	m.Prompt = ""
	return m, m.toastExpiryCmd()
}

func (m Model) View() string {
	snap := m.screen.snap
	status := ""
	if m.Status.Text != "" {
		if m.Status.IsError {
			status = fmt.Sprintf("status: error: %s", m.Status.Text)
		} else {
			status = fmt.Sprintf("status: %s", m.Status.Text)
		}
	}

	labels := make([]string, 0, len(filter.Order))
	active := 0
	for i, f := range filter.Order {
		labels = append(labels, f.Label())
		if f == snap.Filter {
			active = i
		}
	}

	left := strings.Join(nonEmpty(
		views.RenderInput(views.InputData{
			Active:      m.Mode == ModeInput,
			InputView:   m.input.View(),
			Priority:    string(m.Priority),
			Busy:        m.Adding,
			SpinnerView: m.idSpinner.View(),
		}),
		views.RenderFilterBar(views.FilterBarData{Labels: labels, Active: active}),
		views.RenderTaskList(m.taskListData()),
		views.RenderPagination(views.PaginationData{
			Visible:     snap.Controls.Visible,
			Page:        snap.Page,
			TotalPages:  snap.TotalPages,
			PrevEnabled: snap.Controls.PrevEnabled,
			NextEnabled: snap.Controls.NextEnabled,
		}),
		views.RenderCommandPalette(m.Mode == ModePalette, m.commandInput.View()),
	), "\n\n")

	right := strings.Join(nonEmpty(
		views.RenderStats(views.StatsData{
			Total:     snap.Stats.Total,
			Completed: snap.Stats.Completed,
			Remaining: snap.Stats.Remaining,
		}),
		views.RenderAnalytics(m.analyticsData()),
		m.renderHelpIfVisible(),
	), "\n\n")

	return views.RenderApp(views.AppData{
		Header:       fmt.Sprintf("tasktrack | filter: %s | page %d/%d", snap.Filter.Label(), snap.Page, snap.TotalPages),
		LeftPane:     left,
		RightPane:    right,
		StatusLine:   status,
		Prompt:       m.Prompt,
		Notification: views.RenderToasts(m.toastData()),
		Footer:       "keys: i type | j/k move | space toggle | d delete | 1-4 filter | h/l page | e export | C clear | / cmd | ? help | q quit",
	})
}

func (m Model) taskListData() views.TaskListData {
	snap := m.screen.snap
	rows := make([]views.TaskRowData, 0, len(snap.Items))
	for _, t := range snap.Items {
		created := ""
		if !t.CreatedAt.IsZero() {
			created = t.CreatedAt.Local().Format("2006-01-02")
		}
		rows = append(rows, views.TaskRowData{
			ID:        t.ID,
			Name:      t.Name,
			Completed: t.Completed,
			Priority:  string(model.ParsePriority(string(t.Priority))),
			CreatedAt: created,
		})
	}
	return views.TaskListData{
		Items:        rows,
		Cursor:       m.Cursor,
		FadingID:     m.FadingID,
		Empty:        snap.Empty,
		EmptyMessage: snap.EmptyMessage,
	}
}

func (m Model) analyticsData() views.AnalyticsData {
	c := m.screen.charts
	if !m.screen.snap.ShowAnalytics {
		return views.AnalyticsData{}
	}
	pct := 0.0
	if total := c.Completed + c.Remaining; total > 0 {
		pct = float64(c.Completed) / float64(total)
	}
	return views.AnalyticsData{
		Visible:       true,
		CompletionBar: m.completionBar.ViewAs(pct),
		CompletedPct:  int(pct * 100),
		Completed:     c.Completed,
		Remaining:     c.Remaining,
		High:          c.High,
		Medium:        c.Medium,
		Low:           c.Low,
	}
}

func (m Model) toastData() []views.ToastData {
	active := m.toasts.Active(m.now())
	out := make([]views.ToastData, 0, len(active))
	for _, t := range active {
		out = append(out, views.ToastData{Level: string(t.Level), Message: t.Message})
	}
	return out
}

func nonEmpty(parts ...string) []string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			out = append(out, p)
		}
	}
	return out
}
