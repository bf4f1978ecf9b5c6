// Package tracker keeps the stored tasks, the filtered and paginated view and
// the rendered screen consistent after every user action.
package tracker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/sandeepkv93/tasktrack/internal/filter"
	"github.com/sandeepkv93/tasktrack/internal/idsource"
	"github.com/sandeepkv93/tasktrack/internal/model"
	"github.com/sandeepkv93/tasktrack/internal/notify"
	"github.com/sandeepkv93/tasktrack/internal/pagination"
)

// DeleteTransition is how long the front end fades a row before DeleteTask.
const DeleteTransition = 300 * time.Millisecond

const (
	MsgEmptyName     = "Please enter a task name"
	MsgNameTooLong   = "Task name is too long (max 200 characters)"
	MsgAdded         = "Task added successfully!"
	MsgDuplicate     = "Task already exists"
	MsgSaveFailed    = "Failed to save task"
	MsgCompleted     = "Task completed! 🎉"
	MsgReopened      = "Task reopened"
	MsgDeleted       = "Task deleted"
	MsgClearPrompt   = "Are you sure you want to clear all tasks?"
	MsgCleared       = "All tasks cleared"
	MsgNothingExport = "No tasks to export"
	MsgExported      = "Tasks exported successfully!"
	MsgExportFailed  = "Failed to export tasks"
)

type TaskRepository interface {
	GetAll(ctx context.Context) []model.Task
	Exists(ctx context.Context, id string) bool
	Add(ctx context.Context, task model.Task) (bool, error)
	Update(ctx context.Context, id string, patch model.TaskPatch) bool
	Remove(ctx context.Context, id string) bool
	Clear(ctx context.Context) bool
}

type DraftRepository interface {
	Set(ctx context.Context, text string) bool
	Get(ctx context.Context) string
	Clear(ctx context.Context) bool
}

type Deps struct {
	Tasks    TaskRepository
	Drafts   DraftRepository
	Filter   *filter.State
	Pages    *pagination.State
	Notify   notify.Sink
	IDs      idsource.Source
	Renderer Renderer
	Charts   ChartSink
	Exporter Exporter
	Now      func() time.Time
	Logger   *zap.Logger
}

type Controller struct {
	tasks    TaskRepository
	drafts   DraftRepository
	filter   *filter.State
	pages    *pagination.State
	notify   notify.Sink
	ids      idsource.Source
	renderer Renderer
	charts   ChartSink
	exporter Exporter
	now      func() time.Time
	logger   *zap.Logger

	clearPending bool
	last         Snapshot
}

func New(d Deps) *Controller {
	c := &Controller{
		tasks:    d.Tasks,
		drafts:   d.Drafts,
		filter:   d.Filter,
		pages:    d.Pages,
		notify:   d.Notify,
		ids:      d.IDs,
		renderer: d.Renderer,
		charts:   d.Charts,
		exporter: d.Exporter,
		now:      d.Now,
		logger:   d.Logger,
	}
	if c.filter == nil {
		c.filter = filter.NewState()
	}
	if c.pages == nil {
		c.pages = pagination.NewState()
	}
	if c.notify == nil {
		c.notify = discardSink{}
	}
	if c.ids == nil {
		c.ids = idsource.NewHTTPSource("", 0, d.Logger)
	}
	if c.renderer == nil {
		c.renderer = RendererFunc(func(Snapshot) {})
	}
	if c.charts == nil {
		c.charts = ChartSinkFunc(func(ChartData) {})
	}
	if c.exporter == nil {
		c.exporter = FileExporter{Dir: "."}
	}
	if c.now == nil {
		c.now = time.Now
	}
	if c.logger == nil {
		c.logger = zap.NewNop()
	}
	return c
}

type discardSink struct{}

func (discardSink) Success(string) {}
func (discardSink) Warning(string) {}
func (discardSink) Error(string)   {}
func (discardSink) Info(string)    {}

// Snapshot returns the most recently rendered state.
func (c *Controller) Snapshot() Snapshot {
	return c.last
}

func (c *Controller) Filter() filter.Filter {
	return c.filter.Current()
}

// Refresh renders the current state without notifying.
func (c *Controller) Refresh(ctx context.Context) Snapshot {
	return c.sync(ctx)
}

// AddTask runs the whole add flow synchronously.
func (c *Controller) AddTask(ctx context.Context, name string, priority model.Priority) bool {
	clean, ok := c.PrepareTask(name)
	if !ok {
		return false
	}
	return c.CommitTask(ctx, c.AcquireID(ctx), clean, priority)
}

// PrepareTask sanitizes and checks a raw task name. It reports false, after
// notifying, when the name cannot be added.
func (c *Controller) PrepareTask(name string) (string, bool) {
	clean := model.SanitizeName(name)
	if err := model.ValidateName(clean); err != nil {
		if clean == "" {
			c.notify.Warning(MsgEmptyName)
		} else {
			c.notify.Error(MsgNameTooLong)
		}
		return "", false
	}
	return clean, true
}

// AcquireID touches no controller state and may run off the event loop.
func (c *Controller) AcquireID(ctx context.Context) string {
	return c.ids.Acquire(ctx)
}

// CommitTask stores a prepared task under id.
func (c *Controller) CommitTask(ctx context.Context, id, name string, priority model.Priority) bool {
	if !priority.IsValid() {
		priority = model.PriorityMedium
	}
	task := model.Task{
		ID:        id,
		Name:      name,
		Priority:  priority,
		CreatedAt: c.now().UTC(),
	}
	saved, err := c.tasks.Add(ctx, task)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrDuplicate):
			c.notify.Error(MsgDuplicate)
		case errors.Is(err, model.ErrValidation):
			c.notify.Error(validationMessage(name))
		default:
			c.notify.Error(MsgSaveFailed)
		}
		c.logger.Info("task rejected", zap.String("id", id), zap.Error(err))
		return false
	}
	c.drafts.Clear(ctx)
	if !saved {
		c.notify.Error(MsgSaveFailed)
		return false
	}
	c.pages.Reset()
	c.sync(ctx)
	c.notify.Success(MsgAdded)
	return true
}

func validationMessage(name string) string {
	if model.SanitizeName(name) == "" {
		return MsgEmptyName
	}
	return MsgNameTooLong
}

// ToggleTask sets the completion state of a stored task. An id that is no
// longer stored, such as a row removed by another client, is ignored.
func (c *Controller) ToggleTask(ctx context.Context, id string, completed bool) bool {
	if !c.tasks.Exists(ctx, id) {
		c.logger.Warn("toggle of unknown task", zap.String("id", id))
		c.sync(ctx)
		return false
	}
	if !c.tasks.Update(ctx, id, model.CompletedPatch(completed)) {
		c.logger.Warn("toggle not persisted", zap.String("id", id))
		return false
	}
	c.sync(ctx)
	if completed {
		c.notify.Success(MsgCompleted)
	} else {
		c.notify.Success(MsgReopened)
	}
	return true
}

// DeleteTask removes the task and keeps the current page in range.
func (c *Controller) DeleteTask(ctx context.Context, id string) {
	if !c.tasks.Remove(ctx, id) {
		c.logger.Warn("delete not persisted", zap.String("id", id))
	}
	c.sync(ctx)
	c.notify.Info(MsgDeleted)
}

func (c *Controller) SetFilter(ctx context.Context, f filter.Filter) {
	c.filter.Set(f)
	c.pages.Reset()
	c.sync(ctx)
}

// SetFilterByName parses raw and keeps the current filter when it is unknown.
func (c *Controller) SetFilterByName(ctx context.Context, raw string) bool {
	f, err := filter.Parse(raw)
	if err != nil {
		c.notify.Warning(fmt.Sprintf("Unknown filter %q", raw))
		return false
	}
	c.SetFilter(ctx, f)
	return true
}

func (c *Controller) NextPage(ctx context.Context) {
	c.GoToPage(ctx, c.pages.CurrentPage+1)
}

func (c *Controller) PrevPage(ctx context.Context) {
	c.GoToPage(ctx, c.pages.CurrentPage-1)
}

// GoToPage moves to page n clamped to [1, totalPages]. The clamp happens in
// sync, against the same filtered list that is rendered.
func (c *Controller) GoToPage(ctx context.Context, n int) {
	c.pages.SetPage(n)
	c.sync(ctx)
}

// RequestClear arms the clear confirmation and returns its prompt.
func (c *Controller) RequestClear() string {
	c.clearPending = true
	return MsgClearPrompt
}

func (c *Controller) ClearPending() bool {
	return c.clearPending
}

// ConfirmClear wipes the store when ok is true and a clear was requested.
func (c *Controller) ConfirmClear(ctx context.Context, ok bool) bool {
	pending := c.clearPending
	c.clearPending = false
	if !pending || !ok {
		return false
	}
	if !c.tasks.Clear(ctx) {
		c.logger.Warn("clear not persisted")
	}
	c.pages.Reset()
	c.sync(ctx)
	c.notify.Info(MsgCleared)
	return true
}

// Export writes every stored task, ignoring the active filter.
func (c *Controller) Export(ctx context.Context) (string, bool) {
	tasks := c.tasks.GetAll(ctx)
	if len(tasks) == 0 {
		c.notify.Warning(MsgNothingExport)
		return "", false
	}
	path, err := c.exporter.Export(ctx, tasks, c.now())
	if err != nil {
		c.logger.Error("export failed", zap.Int("count", len(tasks)), zap.Error(err))
		c.notify.Error(MsgExportFailed)
		return "", false
	}
	c.logger.Info("tasks exported", zap.String("path", path), zap.Int("count", len(tasks)))
	c.notify.Success(MsgExported)
	return path, true
}

func (c *Controller) SaveDraft(ctx context.Context, text string) bool {
	return c.drafts.Set(ctx, text)
}

func (c *Controller) Draft(ctx context.Context) string {
	return c.drafts.Get(ctx)
}

func (c *Controller) sync(ctx context.Context) Snapshot {
	all := c.tasks.GetAll(ctx)
	filtered := c.filter.Apply(all)
	total := c.pages.TotalPages(len(filtered))
	page := c.pages.Clamp(len(filtered))

	snap := Snapshot{
		Filter:     c.filter.Current(),
		Items:      pagination.PageItems(c.pages, filtered),
		Page:       page,
		TotalPages: total,
		Controls: Controls{
			Visible:     total > 1,
			PrevEnabled: page > 1,
			NextEnabled: page < total,
		},
		Stats:         computeStats(all),
		Empty:         len(filtered) == 0,
		EmptyMessage:  emptyMessageFor(c.filter.Current()),
		ShowAnalytics: len(all) > 0,
	}
	c.last = snap
	c.renderer.Render(snap)
	if len(all) > 0 {
		c.charts.UpdateCharts(computeCharts(all))
	}
	return snap
}
