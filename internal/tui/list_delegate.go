package tui

import (
	"fmt"
	"io"
	"strings"

	"dragsort-cli/internal/model"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

type listItem struct {
	list    model.List
	count   int
	current bool
}

func (i listItem) Title() string {
	mark := "  "
	if i.current {
		mark = "* "
	}
	return fmt.Sprintf("%s%s (%d)", mark, i.list.Name, i.count)
}

func (i listItem) Description() string { return i.list.ID }
func (i listItem) FilterValue() string { return i.list.Name }

// compactListDelegate renders one line per list, highlighted when selected.
type compactListDelegate struct {
	normal   lipgloss.Style
	selected lipgloss.Style
}

func newCompactListDelegate() compactListDelegate {
	return compactListDelegate{
		normal: lipgloss.NewStyle().Foreground(colorSurfaceFg),
		selected: lipgloss.NewStyle().
			Foreground(colorSelectedFg).
			Background(colorSelectedBg).
			Bold(true),
	}
}

func (d compactListDelegate) Height() int                             { return 1 }
func (d compactListDelegate) Spacing() int                            { return 0 }
func (d compactListDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d compactListDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	width := m.Width()
	if width < 4 {
		return
	}
	style := d.normal
	if index == m.Index() {
		style = d.selected
	}
	txt := fmt.Sprint(item)
	if t, ok := item.(interface{ Title() string }); ok {
		txt = t.Title()
	}
	if lw := xansi.StringWidth(txt); lw > width {
		txt = xansi.Truncate(txt, width, "…")
	} else {
		txt += strings.Repeat(" ", width-lw)
	}
	fmt.Fprint(w, style.Render(txt))
}

func newListPicker() list.Model {
	l := list.New(nil, newCompactListDelegate(), 40, 10)
	l.Title = "Lists"
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(true)
	l.DisableQuitKeybindings()
	return l
}
