package update

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/tasktrack/internal/commands"
	"github.com/sandeepkv93/tasktrack/internal/model"
)

func (m Model) handlePaletteKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.closePalette()
		m.Status = StatusBar{Text: "command palette closed"}
		return m, nil
	case "enter":
		return m.executePaletteCommand(m.commandInput.Value())
	}
	var cmd tea.Cmd
	m.commandInput, cmd = m.commandInput.Update(msg)
	return m, cmd
}

func (m *Model) closePalette() {
	m.Mode = ModeBrowse
	m.commandInput.SetValue("")
	m.commandInput.Blur()
}

func (m Model) executePaletteCommand(raw string) (tea.Model, tea.Cmd) {
	m.closePalette()
	cmd, err := commands.Parse(strings.TrimSpace(raw))
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		return m, nil
	}

	var follow tea.Cmd
	res, err := commands.Execute(cmd, commands.Handlers{
		Add: func(a commands.AddArgs) (commands.Result, error) {
			next, c := m.submit(a.Name, a.Priority)
			m = next.(Model)
			follow = c
			return commands.Result{Message: fmt.Sprintf("adding %q", a.Name)}, nil
		},
		Filter: func(a commands.FilterArgs) (commands.Result, error) {
			if !m.ctrl.SetFilterByName(m.ctx, a.Name) {
				follow = m.toastExpiryCmd()
				return commands.Result{Message: "filter unchanged"}, nil
			}
			m.Cursor = 0
			return commands.Result{Message: "filter: " + m.ctrl.Filter().Label()}, nil
		},
		Page: func(a commands.PageArgs) (commands.Result, error) {
			m.ctrl.GoToPage(m.ctx, a.Page)
			m.Cursor = 0
			snap := m.screen.snap
			return commands.Result{Message: fmt.Sprintf("page %d of %d", snap.Page, snap.TotalPages)}, nil
		},
		Toggle: func(a commands.RowArgs) (commands.Result, error) {
			task, err := m.row(a.Row)
			if err != nil {
				return commands.Result{}, err
			}
			m.ctrl.ToggleTask(m.ctx, task.ID, !task.Completed)
			follow = m.toastExpiryCmd()
			return commands.Result{Message: "toggled " + task.Name}, nil
		},
		Delete: func(a commands.RowArgs) (commands.Result, error) {
			task, err := m.row(a.Row)
			if err != nil {
				return commands.Result{}, err
			}
			next, c := m.fadeOut(task.ID)
			m = next.(Model)
			follow = c
			return commands.Result{Message: "deleting " + task.Name}, nil
		},
		Export: func() (commands.Result, error) {
			path, ok := m.ctrl.Export(m.ctx)
			follow = m.toastExpiryCmd()
			if !ok {
				return commands.Result{Message: "nothing exported"}, nil
			}
			return commands.Result{Message: "exported to " + path}, nil
		},
		Clear: func() (commands.Result, error) {
			m.Prompt = m.ctrl.RequestClear() + " [y/n]"
			m.Mode = ModeConfirm
			return commands.Result{Message: "confirm clear"}, nil
		},
	})
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		return m, nil
	}
	m.Status = StatusBar{Text: res.Message}
	return m, follow
}

func (m Model) row(n int) (model.Task, error) {
	items := m.screen.snap.Items
	if n < 1 || n > len(items) {
		return model.Task{}, &commands.CommandError{
			Code:    commands.ErrCodeInvalidArgument,
			Message: fmt.Sprintf("no row %d on this page", n),
		}
	}
	return items[n-1], nil
}
