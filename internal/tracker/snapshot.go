package tracker

import (
	"github.com/sandeepkv93/tasktrack/internal/filter"
	"github.com/sandeepkv93/tasktrack/internal/model"
)

const (
	emptyMessage          = "No tasks yet. Add one above!"
	emptyCompletedMessage = "No completed tasks yet, go on finish some of them"
)

type Stats struct {
	Total     int
	Completed int
	Remaining int
}

type Controls struct {
	Visible     bool
	PrevEnabled bool
	NextEnabled bool
}

// Snapshot is everything the list view needs after an action.
type Snapshot struct {
	Filter        filter.Filter
	Items         []model.Task
	Page          int
	TotalPages    int
	Controls      Controls
	Stats         Stats
	Empty         bool
	EmptyMessage  string
	ShowAnalytics bool
}

// ChartData aggregates the unfiltered collection for the analytics panel.
type ChartData struct {
	Completed int
	Remaining int
	High      int
	Medium    int
	Low       int
}

type Renderer interface {
	Render(Snapshot)
}

type ChartSink interface {
	UpdateCharts(ChartData)
}

type RendererFunc func(Snapshot)

func (f RendererFunc) Render(s Snapshot) { f(s) }

type ChartSinkFunc func(ChartData)

func (f ChartSinkFunc) UpdateCharts(d ChartData) { f(d) }

func computeStats(tasks []model.Task) Stats {
	s := Stats{Total: len(tasks)}
	for _, t := range tasks {
		if t.Completed {
			s.Completed++
		}
	}
	s.Remaining = s.Total - s.Completed
	return s
}

func computeCharts(tasks []model.Task) ChartData {
	var d ChartData
	for _, t := range tasks {
		if t.Completed {
			d.Completed++
		} else {
			d.Remaining++
		}
		switch model.ParsePriority(string(t.Priority)) {
		case model.PriorityHigh:
			d.High++
		case model.PriorityLow:
			d.Low++
		default:
			d.Medium++
		}
	}
	return d
}

func emptyMessageFor(f filter.Filter) string {
	if f == filter.Completed {
		return emptyCompletedMessage
	}
	return emptyMessage
}
