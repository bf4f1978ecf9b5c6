package update

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/tasktrack/internal/filter"
	"github.com/sandeepkv93/tasktrack/internal/idsource"
	"github.com/sandeepkv93/tasktrack/internal/model"
	"github.com/sandeepkv93/tasktrack/internal/notify"
	"github.com/sandeepkv93/tasktrack/internal/storage"
	"github.com/sandeepkv93/tasktrack/internal/store"
	"github.com/sandeepkv93/tasktrack/internal/tracker"
)

type fixture struct {
	tasks  *store.TaskStore
	drafts *store.DraftStore
	toasts *notify.Center
	opts   Options
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	seq := 0
	f := &fixture{
		tasks:  store.NewTaskStore(storage.NewMemoryKV(), nil),
		drafts: store.NewDraftStore(storage.NewMemoryKV(), nil),
		toasts: notify.NewCenter(time.Minute),
	}
	f.opts = Options{
		Tasks:  f.tasks,
		Drafts: f.drafts,
		IDs: idsource.Func(func(context.Context) string {
			seq++
			return fmt.Sprintf("id-%02d", seq)
		}),
		Toasts:        f.toasts,
		Exporter:      tracker.FileExporter{Dir: t.TempDir()},
		DraftDebounce: time.Millisecond,
	}
	return f
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func press(t *testing.T, m Model, keys ...string) (Model, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, k := range keys {
		var next tea.Model
		next, cmd = m.Update(keyMsg(k))
		m = next.(Model)
	}
	return m, cmd
}

// messages runs cmd one level deep and returns what it produced.
func messages(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			if c != nil {
				out = append(out, c())
			}
		}
		return out
	}
	return []tea.Msg{msg}
}

func acquired(t *testing.T, cmd tea.Cmd) IDAcquiredMsg {
	t.Helper()
	for _, msg := range messages(cmd) {
		if typed, ok := msg.(IDAcquiredMsg); ok {
			return typed
		}
	}
	t.Fatal("expected an identifier acquisition command")
	return IDAcquiredMsg{}
}

func feed(m Model, msg tea.Msg) Model {
	next, _ := m.Update(msg)
	return next.(Model)
}

func toastMessages(c *notify.Center) []string {
	var out []string
	for _, t := range c.Active(time.Now()) {
		out = append(out, t.Message)
	}
	return out
}

func seed(t *testing.T, m Model, names ...string) {
	t.Helper()
	for _, n := range names {
		if !m.Controller().AddTask(context.Background(), n, model.PriorityMedium) {
			t.Fatalf("seed %q failed", n)
		}
	}
}

func TestNewModelDefaults(t *testing.T) {
	m := NewModel(newFixture(t).opts)
	if m.Mode != ModeBrowse || m.Priority != model.PriorityMedium {
		t.Fatalf("unexpected defaults: mode=%s priority=%s", m.Mode, m.Priority)
	}
	snap := m.Snapshot()
	if snap.TotalPages != 1 || !snap.Empty || snap.Filter != filter.All {
		t.Fatalf("unexpected initial snapshot: %+v", snap)
	}
}

func TestAddTaskThroughInput(t *testing.T) {
	f := newFixture(t)
	m := NewModel(f.opts)

	m, _ = press(t, m, "i", "Buy milk", "tab")
	if m.Mode != ModeInput || m.InputValue() != "Buy milk" {
		t.Fatalf("expected typed input, got mode=%s value=%q", m.Mode, m.InputValue())
	}
	if m.Priority != model.PriorityLow {
		t.Fatalf("expected tab to cycle to low, got %s", m.Priority)
	}

	m, cmd := press(t, m, "enter")
	if !m.Adding {
		t.Fatal("expected adding flag while the id is acquired")
	}
	if _, again := press(t, m, "enter"); again != nil {
		t.Fatal("expected a second submit to be ignored while adding")
	}

	msg := acquired(t, cmd)
	if msg.ID != "id-01" || msg.Name != "Buy milk" || msg.Priority != model.PriorityLow {
		t.Fatalf("unexpected acquisition: %+v", msg)
	}
	m = feed(m, msg)

	if m.Adding || m.InputValue() != "" || m.Priority != model.PriorityMedium {
		t.Fatalf("expected input reset after add: adding=%v value=%q priority=%s", m.Adding, m.InputValue(), m.Priority)
	}
	got := f.tasks.GetAll(context.Background())
	if len(got) != 1 || got[0].Name != "Buy milk" || got[0].Priority != model.PriorityLow {
		t.Fatalf("unexpected stored tasks: %#v", got)
	}
	if !strings.Contains(strings.Join(toastMessages(f.toasts), "|"), "Task added successfully!") {
		t.Fatalf("expected success toast, got %v", toastMessages(f.toasts))
	}
}

func TestEmptyInputWarns(t *testing.T) {
	f := newFixture(t)
	m := NewModel(f.opts)
	m, _ = press(t, m, "i", "enter")
	if m.Adding {
		t.Fatal("empty input must not start an add")
	}
	if got := toastMessages(f.toasts); len(got) != 1 || got[0] != "Please enter a task name" {
		t.Fatalf("expected warning toast, got %v", got)
	}
}

func TestDraftIsDebouncedAndRestored(t *testing.T) {
	f := newFixture(t)
	m := NewModel(f.opts)
	ctx := context.Background()

	m, cmd := press(t, m, "i", "half")
	if cmd == nil {
		t.Fatal("expected debounce command after typing")
	}
	m = feed(m, DraftSaveMsg{Seq: m.draftSeq - 1, Text: "hal"})
	if got := f.drafts.Get(ctx); got != "" {
		t.Fatalf("stale debounce must not save, got %q", got)
	}
	m = feed(m, DraftSaveMsg{Seq: m.draftSeq, Text: m.InputValue()})
	if got := f.drafts.Get(ctx); got != "half" {
		t.Fatalf("expected draft saved, got %q", got)
	}

	restored := NewModel(f.opts)
	if restored.InputValue() != "half" {
		t.Fatalf("expected draft restored, got %q", restored.InputValue())
	}
}

func TestToggleAndFilterKeys(t *testing.T) {
	f := newFixture(t)
	m := NewModel(f.opts)
	seed(t, m, "Buy milk", "Walk dog")

	m, _ = press(t, m, "x")
	if !m.Snapshot().Items[0].Completed {
		t.Fatal("expected first task completed")
	}
	m, _ = press(t, m, "j", "x", "x")
	if m.Snapshot().Items[1].Completed {
		t.Fatal("expected second task toggled twice")
	}

	m, _ = press(t, m, "3")
	snap := m.Snapshot()
	if snap.Filter != filter.Completed || len(snap.Items) != 1 || snap.Items[0].Name != "Buy milk" {
		t.Fatalf("unexpected completed view: %+v", snap)
	}
	if m.Cursor != 0 {
		t.Fatalf("expected cursor reset on filter change, got %d", m.Cursor)
	}

	m, _ = press(t, m, "2")
	if m.Snapshot().Filter != filter.Active || m.Snapshot().Items[0].Name != "Walk dog" {
		t.Fatalf("unexpected active view: %+v", m.Snapshot())
	}
}

func TestDeleteFadesThenRemoves(t *testing.T) {
	f := newFixture(t)
	m := NewModel(f.opts)
	seed(t, m, "Buy milk")
	id := m.Snapshot().Items[0].ID

	m, cmd := press(t, m, "d")
	if m.FadingID != id || cmd == nil {
		t.Fatalf("expected fade to start, fading=%q", m.FadingID)
	}
	if len(f.tasks.GetAll(context.Background())) != 1 {
		t.Fatal("task removed before the transition finished")
	}

	m = feed(m, DeleteTaskMsg{ID: id})
	if m.FadingID != "" || len(f.tasks.GetAll(context.Background())) != 0 {
		t.Fatalf("expected task removed, fading=%q", m.FadingID)
	}
	if !m.Snapshot().Empty {
		t.Fatal("expected empty snapshot after delete")
	}
}

func TestPaginationKeys(t *testing.T) {
	m := NewModel(newFixture(t).opts)
	seed(t, m, "t1", "t2", "t3", "t4", "t5", "t6", "t7")

	m, _ = press(t, m, "l", "l", "l")
	if m.Snapshot().Page != 3 || len(m.Snapshot().Items) != 1 {
		t.Fatalf("expected last page with one item, got %+v", m.Snapshot())
	}
	m, _ = press(t, m, "h")
	if m.Snapshot().Page != 2 {
		t.Fatalf("expected page 2, got %d", m.Snapshot().Page)
	}
}

func TestClearAsksForConfirmation(t *testing.T) {
	f := newFixture(t)
	m := NewModel(f.opts)
	seed(t, m, "t1", "t2")

	m, _ = press(t, m, "C")
	if m.Mode != ModeConfirm || !strings.Contains(m.Prompt, "Are you sure you want to clear all tasks?") {
		t.Fatalf("expected confirm prompt, got mode=%s prompt=%q", m.Mode, m.Prompt)
	}
	m, _ = press(t, m, "n")
	if m.Mode != ModeBrowse || len(f.tasks.GetAll(context.Background())) != 2 {
		t.Fatal("declining must keep tasks")
	}

	m, _ = press(t, m, "C", "y")
	if m.Prompt != "" || len(f.tasks.GetAll(context.Background())) != 0 {
		t.Fatal("confirming must clear tasks")
	}
}

func TestPaletteCommands(t *testing.T) {
	f := newFixture(t)
	m := NewModel(f.opts)
	seed(t, m, "t1", "t2", "t3", "t4")

	m, _ = press(t, m, "/", "page 2", "enter")
	if m.Mode != ModeBrowse || m.Snapshot().Page != 2 {
		t.Fatalf("expected page 2 via palette, got mode=%s page=%d", m.Mode, m.Snapshot().Page)
	}

	m, _ = press(t, m, "/", "toggle 1", "enter")
	if !m.Snapshot().Items[0].Completed {
		t.Fatal("expected palette toggle")
	}

	m, _ = press(t, m, "/", "toggle 9", "enter")
	if !m.Status.IsError {
		t.Fatalf("expected error status for missing row, got %+v", m.Status)
	}

	m, cmd := press(t, m, "/", "add !high file taxes", "enter")
	m = feed(m, acquired(t, cmd))
	got := f.tasks.GetAll(context.Background())
	if last := got[len(got)-1]; last.Name != "file taxes" || last.Priority != model.PriorityHigh {
		t.Fatalf("unexpected palette add: %+v", last)
	}

	m, _ = press(t, m, "/", "filter urgent", "enter")
	if m.Snapshot().Filter != filter.All || m.Status.IsError {
		t.Fatalf("unknown filter must keep the current one, got %s status=%+v", m.Snapshot().Filter, m.Status)
	}
	active := f.toasts.Active(time.Now())
	if last := active[len(active)-1]; last.Level != notify.LevelWarning || !strings.Contains(last.Message, "urgent") {
		t.Fatalf("expected unknown filter warning toast, got %+v", last)
	}

	m, _ = press(t, m, "/", "filter completed", "enter")
	if m.Snapshot().Filter != filter.Completed || m.Status.Text != "filter: "+filter.Completed.Label() {
		t.Fatalf("expected completed filter via palette, got %s status=%+v", m.Snapshot().Filter, m.Status)
	}

	m, _ = press(t, m, "/", "bogus", "enter")
	if !m.Status.IsError {
		t.Fatalf("expected error status for unknown command, got %+v", m.Status)
	}
}

func TestExportKeyWithNoTasksWarns(t *testing.T) {
	f := newFixture(t)
	m := NewModel(f.opts)
	press(t, m, "e")
	if got := toastMessages(f.toasts); len(got) != 1 || got[0] != "No tasks to export" {
		t.Fatalf("expected export warning, got %v", got)
	}
}

func TestQuitKey(t *testing.T) {
	m := NewModel(newFixture(t).opts)
	m, cmd := press(t, m, "q")
	if !m.Quitting || cmd == nil {
		t.Fatal("expected quit")
	}
}

func TestViewContainsCoreState(t *testing.T) {
	m := NewModel(newFixture(t).opts)
	out := m.View()
	for _, want := range []string{"tasktrack | filter: All | page 1/1", "No tasks yet. Add one above!", "total: 0"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in view: %q", want, out)
		}
	}
	if strings.Contains(out, "analytics:") {
		t.Fatal("analytics must be hidden without tasks")
	}

	seed(t, m, "Buy milk")
	out = m.View()
	if !strings.Contains(out, "Buy milk") || !strings.Contains(out, "analytics:") {
		t.Fatalf("expected task and analytics in view: %q", out)
	}
}
