package update

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"go.uber.org/zap"

	"github.com/sandeepkv93/tasktrack/internal/idsource"
	"github.com/sandeepkv93/tasktrack/internal/model"
	"github.com/sandeepkv93/tasktrack/internal/notify"
	"github.com/sandeepkv93/tasktrack/internal/tracker"
)

const DefaultDraftDebounce = 300 * time.Millisecond

type Mode string

const (
	ModeBrowse  Mode = "browse"
	ModeInput   Mode = "input"
	ModePalette Mode = "palette"
	ModeConfirm Mode = "confirm"
)

type StatusBar struct {
	Text    string
	IsError bool
}

type Model struct {
	Mode        Mode
	Cursor      int
	Priority    model.Priority
	HelpVisible bool
	Adding      bool
	FadingID    string
	Prompt      string
	Status      StatusBar
	Keys        KeyMap
	Quitting    bool

	ctrl     *tracker.Controller
	screen   *screen
	toasts   *notify.Center
	ctx      context.Context
	now      func() time.Time
	debounce time.Duration
	draftSeq int
	logger   *zap.Logger

	input         textinput.Model
	commandInput  textinput.Model
	idSpinner     spinner.Model
	completionBar progress.Model
	helpModel     help.Model
}

// screen receives the controller's renders. It is shared by pointer so that
// the value-typed Model always sees the latest snapshot.
type screen struct {
	snap   tracker.Snapshot
	charts tracker.ChartData
}

func (s *screen) Render(snap tracker.Snapshot)         { s.snap = snap }
func (s *screen) UpdateCharts(data tracker.ChartData) { s.charts = data }

type Options struct {
	Tasks         tracker.TaskRepository
	Drafts        tracker.DraftRepository
	IDs           idsource.Source
	Toasts        *notify.Center
	Exporter      tracker.Exporter
	DraftDebounce time.Duration
	Now           func() time.Time
	Logger        *zap.Logger
}

func NewModel(opts Options) Model {
	if opts.Toasts == nil {
		opts.Toasts = notify.NewCenter(0)
	}
	if opts.DraftDebounce <= 0 {
		opts.DraftDebounce = DefaultDraftDebounce
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	scr := &screen{}
	ctrl := tracker.New(tracker.Deps{
		Tasks:    opts.Tasks,
		Drafts:   opts.Drafts,
		Notify:   opts.Toasts,
		IDs:      opts.IDs,
		Renderer: scr,
		Charts:   scr,
		Exporter: opts.Exporter,
		Now:      opts.Now,
		Logger:   opts.Logger,
	})

	m := Model{
		Mode:     ModeBrowse,
		Priority: model.PriorityMedium,
		Keys:     DefaultKeyMap(),
		ctrl:     ctrl,
		screen:   scr,
		toasts:   opts.Toasts,
		ctx:      context.Background(),
		now:      opts.Now,
		debounce: opts.DraftDebounce,
		logger:   opts.Logger,
	}
	m.initBubbleComponents()
	ctrl.Refresh(m.ctx)
	m.input.SetValue(ctrl.Draft(m.ctx))
	return m
}

func (m *Model) initBubbleComponents() {
	m.input = textinput.New()
	m.input.Placeholder = "What needs to be done?"
	m.input.Prompt = "> "
	m.input.CharLimit = model.MaxNameLength * 2
	m.input.Width = 56

	m.commandInput = textinput.New()
	m.commandInput.Placeholder = "add !high buy milk | filter active | page 2 | export"
	m.commandInput.Prompt = "/"
	m.commandInput.Width = 56

	m.idSpinner = spinner.New(spinner.WithSpinner(spinner.Dot))
	m.completionBar = progress.New(progress.WithDefaultGradient(), progress.WithWidth(30))
	m.helpModel = help.New()
}

// Controller exposes the controller driving this model.
func (m Model) Controller() *tracker.Controller {
	return m.ctrl
}

func (m Model) Snapshot() tracker.Snapshot {
	return m.screen.snap
}

func (m Model) Charts() tracker.ChartData {
	return m.screen.charts
}

func (m Model) InputValue() string {
	return m.input.Value()
}

func (m Model) selected() (model.Task, bool) {
	items := m.screen.snap.Items
	if m.Cursor < 0 || m.Cursor >= len(items) {
		return model.Task{}, false
	}
	return items[m.Cursor], true
}

func (m *Model) clampCursor() {
	n := len(m.screen.snap.Items)
	if m.Cursor >= n {
		m.Cursor = n - 1
	}
	if m.Cursor < 0 {
		m.Cursor = 0
	}
}
