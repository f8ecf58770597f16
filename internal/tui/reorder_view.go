package tui

import (
	"context"
	"errors"
	"math"
	"strconv"
	"strings"
	"time"

	"dragsort-cli/internal/config"
	"dragsort-cli/internal/model"
	"dragsort-cli/internal/reorder"
	"dragsort-cli/internal/store"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
	"go.uber.org/zap"
)

const handleGlyph = "⠿"

// regionHit reports whether a mouse event falls inside the zone marked id.
type regionHit func(id string, msg tea.MouseMsg) bool

func zoneHit(z *zone.Manager) regionHit {
	return func(id string, msg tea.MouseMsg) bool {
		info := z.Get(id)
		return info != nil && info.InBounds(msg)
	}
}

// reorderView hosts a reorder.Engine for one list: it turns mouse and keyboard
// input into gestures, paints the engine's frames and persists committed orders.
// All methods run on the bubbletea update goroutine.
type reorderView struct {
	ctx   context.Context
	store *store.Store
	ui    config.UIConfig
	log   *zap.Logger
	zones *zone.Manager
	hit   regionHit
	now   func() time.Time

	list   model.List
	rev    int64
	engine *reorder.Engine[model.Item]
	rows   rowHeights
	slides slides

	// cursor is the key of the selected row.
	cursor string
	// kbDrag marks a drag picked up from the keyboard; kbTarget is the slot it aims at.
	kbDrag   bool
	kbTarget int
	// pending is the order handed to OnReorder by the last commit, not yet persisted.
	pending []model.Item
	// saving is set while one ApplyOrder is in flight; later commits wait in queued
	// so the store sees them in commit order.
	saving bool
	queued [][]model.Item
	// stale is set when the list changed underneath an active drag.
	stale bool

	ticking bool
	width   int
	height  int
	bodyTop int
	scroll  int
	flash   string
}

type reorderDeps struct {
	ctx    context.Context
	store  *store.Store
	ui     config.UIConfig
	log    *zap.Logger
	zones  *zone.Manager
	hit    regionHit
	now    func() time.Time
	haptic reorder.Haptics
}

func newReorderView(d reorderDeps, l model.List, items []model.Item, rev int64) (*reorderView, tea.Cmd) {
	v := &reorderView{
		ctx:    d.ctx,
		store:  d.store,
		ui:     d.ui,
		log:    d.log,
		zones:  d.zones,
		hit:    d.hit,
		now:    d.now,
		list:   l,
		rev:    rev,
		slides: slides{},
	}
	policy, err := reorder.ParseCancelPolicy(d.ui.CancelPolicy)
	if err != nil {
		policy = reorder.CancelCommits
	}
	v.engine = reorder.New(reorder.Options[model.Item]{
		Data:                items,
		Key:                 model.ItemKey,
		RenderItem:          v.renderItem,
		OnReorder:           func(order []model.Item) { v.pending = order },
		ItemHeight:          float64(d.ui.ItemHeight),
		DragHandleClassName: d.ui.HandleClass,
		AnimationDuration:   d.ui.AnimationDuration(),
		VibrateOnChange:     d.ui.Vibrate,
		CancelPolicy:        policy,
		SettleDelay:         d.ui.SettleDelay(),
		Haptics:             d.haptic,
		Measurer:            &v.rows,
		Logger:              d.log,
	})
	if len(items) > 0 {
		v.cursor = model.ItemKey(items[0])
	}
	v.measure()
	return v, v.settleCmd(v.engine.Pending())
}

func (v *reorderView) dragging() bool { return v.engine.State() == reorder.Dragging }

func (v *reorderView) settleCmd(s reorder.Settle) tea.Cmd {
	return tea.Tick(s.After, func(time.Time) tea.Msg { return settleMsg{view: v, gen: s.Gen} })
}

// setData swaps in a fresh snapshot from the store. A drag in progress is kept
// and the swap deferred until it ends. While orders are still being saved the
// snapshot is dropped; the reload after the last save brings it back.
func (v *reorderView) setData(items []model.Item, rev int64) tea.Cmd {
	if v.dragging() {
		v.stale = true
		return nil
	}
	if v.saving {
		return nil
	}
	v.rev = rev
	v.stale = false
	v.slides = slides{}
	s := v.engine.SetData(items)
	v.measure()
	if v.engine.IndexOf(v.cursor) < 0 {
		v.cursor = ""
		if len(items) > 0 {
			v.cursor = model.ItemKey(items[0])
		}
	}
	return v.settleCmd(s)
}

// containerY maps a screen row to the list's coordinate space.
func (v *reorderView) containerY(screenY int) float64 {
	return float64(screenY - v.bodyTop + v.scroll)
}

func (v *reorderView) handleMouse(msg tea.MouseMsg) tea.Cmd {
	switch msg.Action {
	case tea.MouseActionPress:
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			v.scroll = max(v.scroll-1, 0)
			return nil
		case tea.MouseButtonWheelDown:
			v.scroll = min(v.scroll+1, v.maxScroll())
			return nil
		case tea.MouseButtonLeft:
		default:
			return nil
		}
		if v.dragging() {
			// A click while dragging drops the row where it is.
			return v.finish(v.engine.Click())
		}
		for _, r := range v.engine.Frame() {
			if !v.hit(v.engine.HandleRegionID(r.Key), msg) {
				continue
			}
			if err := v.engine.Start(r.Index, reorder.At(v.containerY(msg.Y))); err != nil {
				v.log.Debug("drag start rejected", zap.String("item", r.Key), zap.Error(err))
				return nil
			}
			v.cursor = r.Key
			v.kbDrag = false
			return v.syncSlides()
		}
	case tea.MouseActionMotion:
		if v.dragging() && !v.kbDrag {
			v.engine.Move(v.containerY(msg.Y))
			return v.syncSlides()
		}
	case tea.MouseActionRelease:
		if v.dragging() && !v.kbDrag {
			return v.finish(v.engine.End())
		}
	}
	return nil
}

// handleKey returns handled=false for keys the app should see (back, quit).
func (v *reorderView) handleKey(msg tea.KeyMsg, keys keyMap) (tea.Cmd, bool) {
	if v.dragging() {
		switch {
		case v.kbDrag && key.Matches(msg, keys.Up):
			return v.stepDrag(-1), true
		case v.kbDrag && key.Matches(msg, keys.Down):
			return v.stepDrag(1), true
		case key.Matches(msg, keys.Drop):
			return v.finish(v.engine.End()), true
		case key.Matches(msg, keys.Cancel):
			return v.finish(v.engine.Cancel()), true
		}
		// Everything else is swallowed while a row is held.
		return nil, true
	}

	switch {
	case key.Matches(msg, keys.Up):
		v.moveCursor(-1)
		return nil, true
	case key.Matches(msg, keys.Down):
		v.moveCursor(1)
		return nil, true
	case key.Matches(msg, keys.PickUp):
		i := v.engine.IndexOf(v.cursor)
		if i < 0 {
			return nil, true
		}
		if err := v.engine.Start(i, reorder.NoCoord); err != nil {
			v.log.Debug("keyboard pick up rejected", zap.Error(err))
			return nil, true
		}
		v.kbDrag = true
		v.kbTarget = i
		return nil, true
	case key.Matches(msg, keys.Done):
		return v.toggleDone(), true
	}
	return nil, false
}

func (v *reorderView) moveCursor(delta int) {
	n := v.engine.Len()
	if n == 0 {
		return
	}
	i := min(max(v.engine.IndexOf(v.cursor)+delta, 0), n-1)
	v.cursor = model.ItemKey(v.engine.Items()[i])
	v.ensureVisible(i)
}

// stepDrag moves a keyboard drag one slot. Keyboard drags start at the row
// center, so aiming at a slot means landing just past that row's center (ties
// never displace).
func (v *reorderView) stepDrag(delta int) tea.Cmd {
	d := v.engine.DraggedIndex()
	v.kbTarget = min(max(v.kbTarget+delta, 0), v.engine.Len()-1)

	rows := v.engine.Frame()
	y := rows[v.kbTarget].Layout.Center()
	switch {
	case v.kbTarget > d:
		y += 0.5
	case v.kbTarget < d:
		y -= 0.5
	}
	v.engine.Move(y)
	v.ensureVisible(v.kbTarget)
	return v.syncSlides()
}

// finish handles the end of a drag: persistence of a changed order, the layout
// settle and any reload deferred while the row was held.
func (v *reorderView) finish(res reorder.CommitResult[model.Item]) tea.Cmd {
	v.kbDrag = false
	v.slides = slides{}
	if res.From < 0 {
		return nil
	}
	var cmds []tea.Cmd
	if res.Settle.Gen != 0 {
		cmds = append(cmds, v.settleCmd(res.Settle))
	}
	if res.Changed {
		v.measure()
	}
	if res.Changed && v.pending != nil {
		cmds = append(cmds, v.persist(v.pending))
		v.pending = nil
		v.ensureVisible(res.To)
	} else if v.stale && !v.saving {
		cmds = append(cmds, loadItemsCmd(v.ctx, v.store, v.list.ID))
	}
	return tea.Batch(cmds...)
}

// persist writes order now, or queues it behind the save already in flight.
func (v *reorderView) persist(order []model.Item) tea.Cmd {
	if v.saving {
		v.queued = append(v.queued, order)
		return nil
	}
	v.saving = true
	return persistOrderCmd(v.ctx, v.store, v, order)
}

// measure records every row's rendered height for the engine's next capture.
func (v *reorderView) measure() {
	rows := v.engine.Frame()
	if len(v.rows.heights) != len(rows) {
		v.rows.reset(len(rows))
	}
	for _, r := range rows {
		v.rows.record(r.Index, r.Content)
	}
}

func (v *reorderView) toggleDone() tea.Cmd {
	i := v.engine.IndexOf(v.cursor)
	if i < 0 {
		return nil
	}
	it := v.engine.Items()[i]
	st, ctx, listID := v.store, v.ctx, v.list.ID
	return func() tea.Msg {
		if _, err := st.SetDone(ctx, it.ID, !it.Done); err != nil {
			return errMsg{err: err}
		}
		return reloadItemsMsg{listID: listID}
	}
}

// syncSlides retargets every displaced row at the engine's current offsets and
// starts the frame ticker when something is moving.
func (v *reorderView) syncSlides() tea.Cmd {
	if !v.dragging() {
		v.slides = slides{}
		return nil
	}
	now := v.now()
	for _, r := range v.engine.Frame() {
		if r.Dragging {
			continue
		}
		v.slides.retarget(r.Key, r.Offset, r.Transition, now)
	}
	return v.tick(now)
}

func (v *reorderView) tick(now time.Time) tea.Cmd {
	if v.ticking || !v.slides.animating(now) {
		return nil
	}
	v.ticking = true
	return tea.Tick(frameInterval, func(time.Time) tea.Msg { return animFrameMsg{view: v} })
}

func (v *reorderView) onFrame() tea.Cmd {
	v.ticking = false
	now := v.now()
	v.slides.settle(now)
	return v.tick(now)
}

func (v *reorderView) setSize(width, height, bodyTop int) {
	v.width, v.height, v.bodyTop = width, max(height, 1), bodyTop
	v.measure()
	v.scroll = min(v.scroll, v.maxScroll())
}

func (v *reorderView) contentHeight() int {
	h := 0
	for _, r := range v.engine.Frame() {
		h = max(h, int(r.Layout.Top+r.Layout.Height))
	}
	return h
}

func (v *reorderView) maxScroll() int {
	return max(v.contentHeight()-v.height, 0)
}

func (v *reorderView) ensureVisible(index int) {
	rows := v.engine.Frame()
	if index < 0 || index >= len(rows) {
		return
	}
	top := int(rows[index].Layout.Top)
	bottom := int(rows[index].Layout.Top + rows[index].Layout.Height)
	switch {
	case top < v.scroll:
		v.scroll = top
	case bottom > v.scroll+v.height:
		v.scroll = bottom - v.height
	}
}

func (v *reorderView) renderItem(it model.Item, _ int, dragging bool, handle reorder.HandleProps) string {
	width := max(v.width, 20)
	selected := model.ItemKey(it) == v.cursor

	handleStyle := lipgloss.NewStyle().Foreground(colorHandleFg)
	if dragging || selected {
		handleStyle = handleStyle.Foreground(colorHandleHot)
	}
	glyph := handleStyle.Render(handleGlyph)
	if v.ui.HandleOnly {
		glyph = v.zones.Mark(handle.RegionID, glyph)
	}

	check := "[ ]"
	titleStyle := lipgloss.NewStyle().Foreground(colorSurfaceFg)
	if it.Done {
		check = "[x]"
		titleStyle = titleStyle.Foreground(colorDoneFg).Strikethrough(true)
	}
	lines := []string{glyph + " " + check + " " + titleStyle.Render(it.Title)}
	if note := firstLine(it.Note); note != "" {
		lines = append(lines, "      "+styleMuted().Render(note))
	}

	rowStyle := lipgloss.NewStyle()
	switch {
	case dragging:
		rowStyle = rowStyle.Background(colorControlBg).Bold(true)
	case selected:
		rowStyle = rowStyle.Background(colorSelectedBg)
	}
	fitted := fitLines(strings.Join(lines, "\n"), width, v.ui.ItemHeight)
	for i := range fitted {
		fitted[i] = rowStyle.Render(fitted[i])
	}
	out := strings.Join(fitted, "\n")
	if !v.ui.HandleOnly {
		out = v.zones.Mark(handle.RegionID, out)
	}
	return out
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = strings.TrimSpace(s[:i])
	}
	return s
}

// view paints the current frame. Displaced rows are drawn at their tweened
// offsets and the held row last, at its raw pointer offset.
func (v *reorderView) view() string {
	rows := v.engine.Frame()
	if len(rows) == 0 {
		return styleMuted().Render("(empty list: add items with `dragsort items add`)")
	}
	now := v.now()
	width := max(v.width, 20)

	height := 0
	for _, r := range rows {
		height = max(height, int(r.Layout.Top+r.Layout.Height))
	}
	c := newCanvas(width, height)

	var held *reorder.Row[model.Item]
	for i := range rows {
		r := &rows[i]
		if r.Dragging {
			held = r
			continue
		}
		top := r.Layout.Top
		if v.dragging() {
			top += v.slides.offset(r.Key, now)
		}
		c.paint(int(math.Round(top)), strings.Split(r.Content, "\n"))
	}
	if held != nil {
		c.paint(int(math.Round(held.Layout.Top+held.Offset)), strings.Split(held.Content, "\n"))
	}
	return c.window(v.scroll, v.height)
}

// detail renders the selected item's note as markdown.
func (v *reorderView) detail(width int) string {
	i := v.engine.IndexOf(v.cursor)
	if i < 0 || v.dragging() {
		return ""
	}
	return renderNote(v.engine.Items()[i].Note, width)
}

func (v *reorderView) status() string {
	if v.flash != "" {
		return styleFlashError().Render(v.flash)
	}
	if t, ok := v.engine.Target(); ok {
		return styleMuted().Render("moving to position " + strconv.Itoa(t+1) + " of " + strconv.Itoa(v.engine.Len()))
	}
	return ""
}

func (v *reorderView) handlePersisted(msg persistedMsg) tea.Cmd {
	v.saving = false
	if msg.err != nil {
		// Queued orders were built on top of the failed one.
		dropped := len(v.queued)
		v.queued = nil
		v.flash = "save failed: " + msg.err.Error()
		v.log.Warn("persist order failed",
			zap.String("list", v.list.ID),
			zap.Int("dropped", dropped),
			zap.Error(msg.err))
		if dropped > 0 || errors.Is(msg.err, store.ErrStaleOrder) || errors.Is(msg.err, store.ErrNotSingleMove) {
			return loadItemsCmd(v.ctx, v.store, v.list.ID)
		}
		return nil
	}
	v.flash = ""
	if len(v.queued) > 0 {
		next := v.queued[0]
		v.queued = v.queued[1:]
		return v.persist(next)
	}
	return loadItemsCmd(v.ctx, v.store, v.list.ID)
}
