package tui

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"dragsort-cli/internal/config"
	"dragsort-cli/internal/reorder"
	"dragsort-cli/internal/store"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
	"go.uber.org/zap"
)

type view int

const (
	viewLists view = iota
	viewReorder
)

// bodyTop is the screen row the list body starts at (header line plus a blank line).
const bodyTop = 2

// Options configures the interactive program.
type Options struct {
	Store  *store.Store
	UI     config.UIConfig
	Logger *zap.Logger
	// ListID opens that list directly, skipping the picker.
	ListID string
	// Bell receives the BEL feedback pulse; nil keeps the terminal silent.
	Bell io.Writer
}

type appModel struct {
	ctx   context.Context
	store *store.Store
	ui    config.UIConfig
	log   *zap.Logger
	zones *zone.Manager
	hit   regionHit
	now   func() time.Time
	bell  *bell

	width  int
	height int

	view    view
	lists   list.Model
	reorder *reorderView
	openID  string

	keys     keyMap
	help     help.Model
	showHelp bool
	flash    string
}

func newAppModel(ctx context.Context, opts Options, zones *zone.Manager) appModel {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return appModel{
		ctx:    ctx,
		store:  opts.Store,
		ui:     opts.UI,
		log:    log,
		zones:  zones,
		hit:    zoneHit(zones),
		now:    time.Now,
		bell:   newBell(opts.Bell),
		view:   viewLists,
		lists:  newListPicker(),
		openID: strings.TrimSpace(opts.ListID),
		keys:   defaultKeyMap(),
		help:   help.New(),
		width:  80,
		height: 24,
	}
}

func (m appModel) Init() tea.Cmd {
	cmds := []tea.Cmd{loadListsCmd(m.ctx, m.store), tickReload()}
	if m.openID != "" {
		cmds = append(cmds, loadItemsCmd(m.ctx, m.store, m.openID))
	}
	return tea.Batch(cmds...)
}

func (m appModel) reorderDeps() reorderDeps {
	var haptic reorder.Haptics
	if m.ui.Vibrate && m.bell.w != nil {
		haptic = m.bell
	}
	return reorderDeps{
		ctx:    m.ctx,
		store:  m.store,
		ui:     m.ui,
		log:    m.log,
		zones:  m.zones,
		hit:    m.hit,
		now:    m.now,
		haptic: haptic,
	}
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case reloadTickMsg:
		cmds := []tea.Cmd{tickReload()}
		switch {
		case m.view == viewReorder && m.reorder != nil:
			cmds = append(cmds, checkRevisionCmd(m.ctx, m.store, m.reorder.list.ID))
		case m.view == viewLists:
			cmds = append(cmds, loadListsCmd(m.ctx, m.store))
		}
		return m, tea.Batch(cmds...)

	case listsLoadedMsg:
		if msg.err != nil {
			m.flash = msg.err.Error()
			return m, nil
		}
		m.setLists(msg)
		return m, nil

	case itemsLoadedMsg:
		if msg.err != nil {
			m.flash = msg.err.Error()
			m.log.Warn("load items failed", zap.Error(msg.err))
			return m, nil
		}
		if m.reorder != nil && m.reorder.list.ID == msg.list.ID {
			m.reorder.list = msg.list
			return m, m.reorder.setData(msg.items, msg.rev)
		}
		if m.openID != msg.list.ID {
			return m, nil
		}
		v, cmd := newReorderView(m.reorderDeps(), msg.list, msg.items, msg.rev)
		m.reorder = v
		m.view = viewReorder
		m.openID = ""
		m.resize()
		return m, cmd

	case revisionMsg:
		if msg.err != nil || m.reorder == nil || msg.listID != m.reorder.list.ID {
			return m, nil
		}
		if msg.rev != m.reorder.rev {
			return m, loadItemsCmd(m.ctx, m.store, msg.listID)
		}
		return m, nil

	case reloadItemsMsg:
		if m.reorder != nil && m.reorder.list.ID == msg.listID {
			return m, loadItemsCmd(m.ctx, m.store, msg.listID)
		}
		return m, nil

	case persistedMsg:
		if msg.view != m.reorder {
			return m, nil
		}
		return m, m.reorder.handlePersisted(msg)

	case settleMsg:
		if msg.view == m.reorder && m.reorder != nil {
			m.reorder.engine.Settle(msg.gen)
		}
		return m, nil

	case animFrameMsg:
		if msg.view == m.reorder && m.reorder != nil {
			return m, m.reorder.onFrame()
		}
		return m, nil

	case errMsg:
		m.flash = msg.err.Error()
		return m, nil

	case tea.MouseMsg:
		if m.view == viewReorder && m.reorder != nil {
			return m, m.reorder.handleMouse(msg)
		}
		return m, nil

	case tea.KeyMsg:
		return m.updateKey(msg)
	}

	if m.view == viewLists {
		var cmd tea.Cmd
		m.lists, cmd = m.lists.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m appModel) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	if m.view == viewReorder && m.reorder != nil {
		if cmd, ok := m.reorder.handleKey(msg, m.keys); ok {
			return m, cmd
		}
		switch {
		case key.Matches(msg, m.keys.Back):
			m.view = viewLists
			m.reorder = nil
			return m, loadListsCmd(m.ctx, m.store)
		case key.Matches(msg, m.keys.Reload):
			return m, loadItemsCmd(m.ctx, m.store, m.reorder.list.ID)
		case key.Matches(msg, m.keys.Help):
			m.showHelp = !m.showHelp
			return m, nil
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		}
		return m, nil
	}

	// The picker's filter input owns every key while typing.
	if m.lists.FilterState() != list.Filtering {
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Reload):
			return m, loadListsCmd(m.ctx, m.store)
		case key.Matches(msg, m.keys.Open):
			it, ok := m.lists.SelectedItem().(listItem)
			if !ok {
				return m, nil
			}
			m.openID = it.list.ID
			return m, tea.Batch(
				loadItemsCmd(m.ctx, m.store, it.list.ID),
				setCurrentListCmd(m.ctx, m.store, it.list.ID),
			)
		}
	}
	var cmd tea.Cmd
	m.lists, cmd = m.lists.Update(msg)
	return m, cmd
}

func (m *appModel) setLists(msg listsLoadedMsg) {
	selected := ""
	if it, ok := m.lists.SelectedItem().(listItem); ok {
		selected = it.list.ID
	}
	if selected == "" {
		selected = msg.current
	}
	items := make([]list.Item, 0, len(msg.lists))
	idx := 0
	for i, l := range msg.lists {
		items = append(items, listItem{list: l, count: msg.counts[l.ID], current: l.ID == msg.current})
		if l.ID == selected {
			idx = i
		}
	}
	m.lists.SetItems(items)
	m.lists.Select(idx)
}

func (m *appModel) resize() {
	w := max(m.width, 20)
	// header + blank + footer lines
	h := max(m.height-bodyTop-3, 3)
	m.lists.SetSize(w, h)
	m.help.Width = w
	if m.reorder != nil {
		m.reorder.setSize(w, h, bodyTop)
	}
}

func (m appModel) View() string {
	var header, body, status string
	var keys help.KeyMap
	switch {
	case m.view == viewReorder && m.reorder != nil:
		header = fmt.Sprintf("dragsort  %s  (%d items)", m.reorder.list.Name, m.reorder.engine.Len())
		body = m.reorder.view()
		status = m.reorder.status()
		if note := m.reorder.detail(max(m.width, 20)); note != "" && status == "" {
			status = note
		}
		keys = reorderKeys{keyMap: m.keys, dragging: m.reorder.dragging()}
	default:
		header = "dragsort  lists"
		body = m.lists.View()
		keys = pickerKeys{keyMap: m.keys}
	}
	if m.flash != "" {
		status = styleFlashError().Render(m.flash)
	}

	var footer string
	if m.showHelp {
		footer = m.help.FullHelpView(keys.FullHelp())
	} else {
		footer = m.help.ShortHelpView(keys.ShortHelp())
	}

	parts := []string{styleHeader().Render(header), body}
	if status != "" {
		parts = append(parts, status)
	}
	parts = append(parts, footer)
	// Header then a blank line keeps the body at bodyTop.
	out := parts[0] + "\n\n" + lipgloss.JoinVertical(lipgloss.Left, parts[1:]...)
	return m.zones.Scan(out)
}
