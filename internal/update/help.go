package update

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/sandeepkv93/tasktrack/internal/views"
)

type KeyMap struct {
	Input    key.Binding
	Up       key.Binding
	Down     key.Binding
	Toggle   key.Binding
	Delete   key.Binding
	Filter   key.Binding
	PrevPage key.Binding
	NextPage key.Binding
	Export   key.Binding
	Clear    key.Binding
	Palette  key.Binding
	Help     key.Binding
	Quit     key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Input:    key.NewBinding(key.WithKeys("i", "a"), key.WithHelp("i", "type a new task")),
		Up:       key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k/up", "move up")),
		Down:     key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/down", "move down")),
		Toggle:   key.NewBinding(key.WithKeys(" ", "space", "x"), key.WithHelp("space/x", "toggle completed")),
		Delete:   key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete task")),
		Filter:   key.NewBinding(key.WithKeys("1", "2", "3", "4"), key.WithHelp("1-4", "all/active/completed/high")),
		PrevPage: key.NewBinding(key.WithKeys("h", "left"), key.WithHelp("h/left", "previous page")),
		NextPage: key.NewBinding(key.WithKeys("l", "right"), key.WithHelp("l/right", "next page")),
		Export:   key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "export to json")),
		Clear:    key.NewBinding(key.WithKeys("C"), key.WithHelp("C", "clear all tasks")),
		Palette:  key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "command palette")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "toggle help")),
		Quit:     key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
	}
}

func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Input, k.Toggle, k.Delete, k.Palette, k.Help, k.Quit}
}

func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Input, k.Up, k.Down, k.Toggle, k.Delete},
		{k.Filter, k.PrevPage, k.NextPage},
		{k.Export, k.Clear, k.Palette, k.Help, k.Quit},
	}
}

func (m Model) renderHelpIfVisible() string {
	if !m.HelpVisible {
		return ""
	}
	return m.renderHelpView()
}

func (m Model) renderHelpView() string {
	var lines []string
	for _, group := range m.Keys.FullHelp() {
		for _, b := range group {
			h := b.Help()
			lines = append(lines, "**"+h.Key+"** "+h.Desc)
		}
	}
	lines = append(lines,
		"**enter** add while typing, **tab** cycle priority, **esc** stop typing",
		"palette: `add !high name`, `filter completed`, `page 2`, `toggle 1`, `delete 1`, `export`, `clear`",
	)
	return views.RenderHelpPanel(views.HelpPanelData{
		Bindings: lines,
		HelpView: m.helpModel.View(m.Keys),
	})
}
