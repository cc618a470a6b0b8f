/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package scene

import (
	"log/slog"

	"plotlines/internal/domain"
	"plotlines/internal/geom"
	applog "plotlines/internal/log"
)

// Callbacks is the notification surface toward the external state
// owner. Every field is optional; nil callbacks are skipped. Each fires
// exactly once per committed gesture and must be treated as
// fire-and-forget: a callback must not re-enter the engine's pointer
// handlers.
type Callbacks struct {
	AddTimelineRequested func()
	AddChapterRequested  func(timelineID string, index int)
	AddBranchRequested   func(fromTimeline string, fromPos float32, toTimeline string, toPos float32)
	AddTextboxRequested  func(x, y float32)
	AddLineRequested     func(gx1, gy1, gx2, gy2 float32)

	EditTimelineRequested func(id string)
	EditChapterRequested  func(id string)
	EditBranchRequested   func(id string)
	EditTextboxRequested  func(id string)
	EditLineRequested     func(id string)

	ReorderChapterRequested func(timelineID, chapterID string, newIndex int)
	ReorderArcRequested     func(timelineID, arcID string, newGroupIndex int)

	TimelineMoved  func(id string, x, y float32)
	TextboxMoved   func(id string, x, y float32)
	TextboxResized func(id string, w, h float32)
	LineMoved      func(id string, gx1, gy1, gx2, gy2 float32)

	// ResyncChaptersRequested asks the owner to resupply authoritative
	// chapter data after a drag dropped on no valid slot. The engine
	// never reconstructs pre-drag state itself.
	ResyncChaptersRequested func(timelineID string)

	TimelineHoverChanged func(id, side string)
	BackgroundClicked    func()
}

// Engine is the pointer-event state machine. It owns the camera, the
// current gesture, hover state, and the floating menu, and emits
// Callbacks when a gesture commits. Time never comes from the wall
// clock: the host advances the engine's clock through Advance, so every
// timing rule here is deterministic under test.
type Engine struct {
	Scene *Scene
	Cam   geom.Camera
	Menu  *Menu

	cb       Callbacks
	viewport geom.Size
	log      *slog.Logger

	gesture Gesture
	hover   Hover
	now     float32
	glide   *geom.Glide

	lastClickAt  float32
	lastClickPos geom.Pt
	lastClickOK  bool

	dirty bool
}

func NewEngine(s *Scene, cb Callbacks) *Engine {
	return &Engine{
		Scene:   s,
		Cam:     geom.NewCamera(),
		Menu:    NewMenu(),
		cb:      cb,
		log:     applog.WithComponent("canvas"),
		gesture: Idle{},
		dirty:   true,
	}
}

// Resize tells the engine the current viewport size in screen pixels.
func (e *Engine) Resize(w, h float32) {
	e.viewport = geom.Size{W: w, H: h}
	e.dirty = true
}

// ViewportSize returns the last size passed to Resize.
func (e *Engine) ViewportSize() geom.Size { return e.viewport }

// Gesture exposes the current interaction state, read-only.
func (e *Engine) Gesture() Gesture { return e.gesture }

// HoverState exposes the transient hover state for rendering.
func (e *Engine) HoverState() Hover { return e.hover }

// Dirty reports and clears the redraw flag.
func (e *Engine) Dirty() bool {
	d := e.dirty
	e.dirty = false
	return d
}

// Viewport returns the camera state in its persisted form.
func (e *Engine) Viewport() domain.Viewport {
	return domain.Viewport{
		OffsetX: float64(e.Cam.OffsetX),
		OffsetY: float64(e.Cam.OffsetY),
		Zoom:    float64(e.Cam.Zoom),
	}
}

// SetViewport restores a persisted camera state. Zoom is clamped.
func (e *Engine) SetViewport(v domain.Viewport) {
	e.Cam.OffsetX = float32(v.OffsetX)
	e.Cam.OffsetY = float32(v.OffsetY)
	e.Cam.Zoom = geom.ClampZoom(float32(v.Zoom))
	if v.Zoom == 0 {
		e.Cam.Zoom = 1
	}
	e.dirty = true
}

// Advance steps the engine clock by dt seconds: it activates an armed
// drag once the arming window elapses and drives the camera glide and
// menu animations. Returns true while anything is still animating.
func (e *Engine) Advance(dt float32) bool {
	e.now += dt
	if a, ok := e.gesture.(ArmedDrag); ok && e.now-a.ArmedAt >= dragArmDelay {
		e.gesture = ActiveDrag{Target: a.Target}
		e.dirty = true
	}
	animating := false
	if e.glide.Active() {
		if e.glide.Advance(&e.Cam, dt) {
			animating = true
		}
		e.dirty = true
	}
	if e.Menu.Animating() {
		if e.Menu.Advance() {
			animating = true
		}
		e.dirty = true
	}
	return animating
}

// CenterOnTimeline starts a 500ms eased camera move that brings the
// timeline's midpoint to the viewport center. A new request simply
// replaces any glide in flight.
func (e *Engine) CenterOnTimeline(id string) {
	t := e.Scene.TimelineByID(id)
	if t == nil {
		return
	}
	mid := geom.Pt{X: t.X + t.SpanCells()*geom.GridCell/2, Y: t.Y}
	ox, oy := e.Cam.CenterOffset(mid, e.viewport)
	e.glide = geom.StartGlide(e.Cam, ox, oy)
	e.dirty = true
}

// BeginPlacement arms a placement workflow, replacing any gesture in
// progress. The menu closes alongside.
func (e *Engine) BeginPlacement(kind PlacementKind) {
	e.gesture = Placement{Kind: kind}
	e.hover = Hover{TimelineID: e.hover.TimelineID, TimelineSide: e.hover.TimelineSide}
	e.dirty = true
}

// CancelPlacement drops an armed placement mode.
func (e *Engine) CancelPlacement() {
	if _, ok := e.gesture.(Placement); ok {
		e.gesture = Idle{}
		e.clearPlacementHover()
		e.dirty = true
	}
}

// Scroll zooms anchored at the pointer. dy follows the usual wheel
// convention: positive scrolls up and zooms in.
func (e *Engine) Scroll(screen geom.Pt, dy float32) {
	factor := float32(1.1)
	if dy < 0 {
		factor = 1 / factor
	}
	e.Cam.ZoomAt(screen, factor)
	e.dirty = true
}

// PointerDown resolves a press against the fixed priority order: menu,
// placement mode, double-click, draggables, then background panning.
func (e *Engine) PointerDown(screen geom.Pt) {
	defer func() { e.dirty = true }()

	if e.Menu.HitButton(screen, e.viewport) {
		e.Menu.Toggle()
		return
	}
	if action, ok := e.Menu.HitOption(screen, e.viewport); ok {
		e.Menu.Toggle()
		e.menuAction(action)
		return
	}

	world := e.Cam.ScreenToWorld(screen)

	if p, ok := e.gesture.(Placement); ok {
		e.placementClick(p, world)
		return
	}

	if e.lastClickOK && e.now-e.lastClickAt <= dblClickWindow && geom.Dist(screen, e.lastClickPos) <= dblClickDist {
		if hit := hitEditable(e.Scene, e.Cam, world); hit.Kind != editNone {
			e.lastClickOK = false
			e.gesture = Idle{}
			e.fireEdit(hit)
			return
		}
	}
	e.lastClickAt = e.now
	e.lastClickPos = screen
	e.lastClickOK = true

	if target, ok := hitDraggable(e.Scene, e.Cam, world); ok {
		e.prepareTarget(&target)
		e.gesture = ArmedDrag{Target: target, ArmedAt: e.now, Down: screen}
		return
	}

	e.gesture = Panning{Last: screen}
	if e.cb.BackgroundClicked != nil {
		e.cb.BackgroundClicked()
	}
}

// PointerMove recomputes hover state first, then feeds the live
// gesture, so a frame never draws a stale highlight for a moved
// pointer.
func (e *Engine) PointerMove(screen geom.Pt) {
	world := e.Cam.ScreenToWorld(screen)
	e.updateTimelineHover(world)
	e.Menu.UpdateHover(screen, e.viewport)

	switch g := e.gesture.(type) {
	case Panning:
		e.Cam.Pan(screen.X-g.Last.X, screen.Y-g.Last.Y)
		e.gesture = Panning{Last: screen}
	case ActiveDrag:
		e.applyDrag(&g.Target, world)
		e.gesture = g
	case Placement:
		e.updatePlacementHover(g, world)
	}
	e.dirty = true
}

// PointerUp finishes the gesture. An armed drag whose window never
// elapsed is discarded without side effects, preserving single-click
// semantics for a following double-click.
func (e *Engine) PointerUp(screen geom.Pt) {
	switch g := e.gesture.(type) {
	case ActiveDrag:
		e.commitDrag(&g.Target)
		e.gesture = Idle{}
		e.hover.Slot = nil
	case ArmedDrag, Panning:
		e.gesture = Idle{}
	}
	e.dirty = true
}

// PointerLeave clears all drag, pending, and hover state without
// committing anything. Values already mutated live during a drag stand
// as-is; there is deliberately no snap-back.
func (e *Engine) PointerLeave() {
	e.gesture = Idle{}
	e.hover.Slot = nil
	e.clearPlacementHover()
	if e.hover.TimelineID != "" {
		e.hover.TimelineID = ""
		e.hover.TimelineSide = ""
		if e.cb.TimelineHoverChanged != nil {
			e.cb.TimelineHoverChanged("", "")
		}
	}
	e.lastClickOK = false
	e.dirty = true
}

func (e *Engine) menuAction(a MenuAction) {
	switch a {
	case MenuAddTimeline:
		if e.cb.AddTimelineRequested != nil {
			e.cb.AddTimelineRequested()
		}
	case MenuAddChapter:
		e.BeginPlacement(PlaceChapter)
	case MenuAddBranch:
		e.BeginPlacement(PlaceBranch)
	case MenuAddTextbox:
		e.BeginPlacement(PlaceTextbox)
	case MenuAddLine:
		e.BeginPlacement(PlaceLine)
	}
}

func (e *Engine) fireEdit(hit editHit) {
	switch hit.Kind {
	case editTimeline:
		if e.cb.EditTimelineRequested != nil {
			e.cb.EditTimelineRequested(hit.ID)
		}
	case editChapter:
		if e.cb.EditChapterRequested != nil {
			e.cb.EditChapterRequested(hit.ID)
		}
	case editBranch:
		if e.cb.EditBranchRequested != nil {
			e.cb.EditBranchRequested(hit.ID)
		}
	case editTextbox:
		if e.cb.EditTextboxRequested != nil {
			e.cb.EditTextboxRequested(hit.ID)
		}
	case editLine:
		if e.cb.EditLineRequested != nil {
			e.cb.EditLineRequested(hit.ID)
		}
	}
}

// placementClick runs one step of the armed placement workflow.
func (e *Engine) placementClick(p Placement, world geom.Pt) {
	switch p.Kind {
	case PlaceTextbox:
		e.exitPlacement()
		if e.cb.AddTextboxRequested != nil {
			e.cb.AddTextboxRequested(world.X, world.Y)
		}

	case PlaceChapter:
		tid, slot, ok := hitSlot(e.Scene, e.Cam, world)
		e.exitPlacement()
		if ok && e.cb.AddChapterRequested != nil {
			e.cb.AddChapterRequested(tid, slot)
		}

	case PlaceBranch:
		tid, slot, ok := hitSlot(e.Scene, e.Cam, world)
		if !ok {
			e.exitPlacement()
			return
		}
		t := e.Scene.TimelineByID(tid)
		pos := t.SlotCell(slot)
		if !p.HaveFirst {
			p.HaveFirst = true
			p.FirstTimeline = tid
			p.FirstPos = pos
			e.gesture = p
			return
		}
		if tid == p.FirstTimeline {
			// a branch never connects a timeline to itself; the
			// mode stays armed awaiting a valid second point
			return
		}
		e.exitPlacement()
		if e.cb.AddBranchRequested != nil {
			e.cb.AddBranchRequested(p.FirstTimeline, p.FirstPos, tid, pos)
		}

	case PlaceLine:
		gx := geom.Round(world.X / geom.GridCell)
		gy := geom.Round(world.Y / geom.GridCell)
		if !p.HaveFirst {
			p.HaveFirst = true
			p.FirstGX = gx
			p.FirstGY = gy
			e.gesture = p
			return
		}
		if gx == p.FirstGX && gy == p.FirstGY {
			return
		}
		e.exitPlacement()
		if e.cb.AddLineRequested != nil {
			e.cb.AddLineRequested(p.FirstGX, p.FirstGY, gx, gy)
		}
	}
}

func (e *Engine) exitPlacement() {
	e.gesture = Idle{}
	e.clearPlacementHover()
}

func (e *Engine) clearPlacementHover() {
	e.hover.SlotTimeline = ""
	e.hover.SlotOK = false
	e.hover.GridOK = false
}

func (e *Engine) updatePlacementHover(p Placement, world geom.Pt) {
	switch p.Kind {
	case PlaceChapter, PlaceBranch:
		tid, slot, ok := hitSlot(e.Scene, e.Cam, world)
		e.hover.SlotTimeline = tid
		e.hover.SlotIndex = slot
		e.hover.SlotOK = ok
	case PlaceLine, PlaceTextbox:
		e.hover.GridX = geom.Round(world.X / geom.GridCell)
		e.hover.GridY = geom.Round(world.Y / geom.GridCell)
		e.hover.GridOK = true
	}
}

func (e *Engine) updateTimelineHover(world geom.Pt) {
	id, side := hoverTimeline(e.Scene, world)
	if id == e.hover.TimelineID && side == e.hover.TimelineSide {
		return
	}
	e.hover.TimelineID = id
	e.hover.TimelineSide = side
	if e.cb.TimelineHoverChanged != nil {
		e.cb.TimelineHoverChanged(id, side)
	}
}

// prepareTarget takes the extra pre-drag snapshots some kinds need.
func (e *Engine) prepareTarget(t *dragTarget) {
	if t.Kind != DragArc {
		return
	}
	tl := e.Scene.TimelineByID(t.TimelineID)
	if tl == nil {
		return
	}
	for _, g := range tl.ArcGroups() {
		if g.Key == t.ArcKey {
			t.origX = g.StartCell()
			t.origCells = make([]float32, len(g.Chapters))
			for i, c := range g.Chapters {
				t.origCells[i] = c.X
			}
			return
		}
	}
}

// applyDrag mutates the scene for live feedback on every move tick.
func (e *Engine) applyDrag(t *dragTarget, world geom.Pt) {
	dx := world.X - t.downWorld.X
	dy := world.Y - t.downWorld.Y

	switch t.Kind {
	case DragTimeline:
		tl := e.Scene.TimelineByID(t.TimelineID)
		if tl == nil {
			return
		}
		snapped := geom.SnapToGrid(geom.Pt{X: t.origX + dx, Y: t.origY + dy})
		tl.X = snapped.X
		tl.Y = snapped.Y

	case DragChapter:
		e.dragChapter(t, dx)

	case DragArc:
		e.dragArc(t, dx)

	case DragTextbox:
		tb := e.Scene.TextboxByID(t.TextboxID)
		if tb == nil {
			return
		}
		tb.X = t.origX + dx
		tb.Y = t.origY + dy

	case DragTextboxHandle:
		e.resizeTextbox(t, world)

	case DragLineBody:
		l := e.Scene.LineByID(t.LineID)
		if l == nil {
			return
		}
		cx := geom.Round(dx / geom.GridCell)
		cy := geom.Round(dy / geom.GridCell)
		l.X1 = t.origX + cx
		l.Y1 = t.origY + cy
		l.X2 = t.origX2 + cx
		l.Y2 = t.origY2 + cy

	case DragLineEndpoint:
		l := e.Scene.LineByID(t.LineID)
		if l == nil {
			return
		}
		gx := geom.Round(world.X / geom.GridCell)
		gy := geom.Round(world.Y / geom.GridCell)
		if t.Endpoint == 1 {
			l.X1, l.Y1 = gx, gy
		} else {
			l.X2, l.Y2 = gx, gy
		}
	}
}

// dragChapter slides a chapter along its timeline, clamped strictly
// between Head's right edge and Tail's left edge, and keeps the nearest
// insertion slot highlighted. Slots immediately adjacent to the
// chapter's own position are excluded so it cannot "insert next to
// itself".
func (e *Engine) dragChapter(t *dragTarget, dx float32) {
	tl := e.Scene.TimelineByID(t.TimelineID)
	if tl == nil {
		return
	}
	var ch *Chapter
	for _, c := range tl.Ordinary() {
		if c.ID == t.ChapterID {
			ch = c
			break
		}
	}
	tail := tl.Tail()
	if ch == nil || tail == nil {
		return
	}
	x := t.origX + dx/geom.GridCell
	if x < 1 {
		x = 1
	}
	if max := tail.X - ch.Width; x > max {
		x = max
	}
	ch.X = x

	center := ch.X + ch.Width/2
	e.hover.Slot = nearestSlot(tl, center, t.origIndex, t.origIndex+1)
}

func (e *Engine) dragArc(t *dragTarget, dx float32) {
	tl := e.Scene.TimelineByID(t.TimelineID)
	if tl == nil || len(t.origCells) == 0 {
		return
	}
	var grp *ArcGroup
	groups := tl.ArcGroups()
	grpIdx := -1
	for i := range groups {
		if groups[i].Key == t.ArcKey {
			grp = &groups[i]
			grpIdx = i
			break
		}
	}
	tail := tl.Tail()
	if grp == nil || tail == nil || len(grp.Chapters) != len(t.origCells) {
		return
	}
	width := grp.WidthCells()
	delta := dx / geom.GridCell
	start := t.origX + delta
	if start < 1 {
		start = 1
	}
	if max := tail.X - width; start > max {
		start = max
	}
	shift := start - t.origX
	for i, c := range grp.Chapters {
		c.X = t.origCells[i] + shift
	}

	center := start + width/2
	e.hover.Slot = nearestGroupSlot(tl, groups, center, grpIdx, grpIdx+1)
}

// nearestSlot finds the closest insertion slot to a dragged chapter's
// center, skipping the excluded indices. Reachable within one grid
// cell.
func nearestSlot(tl *Timeline, center float32, exclude1, exclude2 int) *SlotHighlight {
	best := -1
	var bestDist float32
	for i := 0; i < tl.SlotCount(); i++ {
		if i == exclude1 || i == exclude2 {
			continue
		}
		d := abs32(tl.SlotCell(i) - center)
		if best == -1 || d < bestDist {
			best = i
			bestDist = d
		}
	}
	if best == -1 {
		return nil
	}
	return &SlotHighlight{TimelineID: tl.ID, Index: best, Cell: tl.SlotCell(best), Reachable: bestDist <= 1}
}

// nearestGroupSlot is the arc-group analogue: slots sit at group
// boundaries, index g meaning "after the last group".
func nearestGroupSlot(tl *Timeline, groups []ArcGroup, center float32, exclude1, exclude2 int) *SlotHighlight {
	tail := tl.Tail()
	if tail == nil {
		return nil
	}
	best := -1
	var bestDist, bestCell float32
	for i := 0; i <= len(groups); i++ {
		if i == exclude1 || i == exclude2 {
			continue
		}
		var cell float32
		if i < len(groups) {
			cell = groups[i].StartCell()
		} else {
			cell = tail.X
		}
		d := abs32(cell - center)
		if best == -1 || d < bestDist {
			best = i
			bestDist = d
			bestCell = cell
		}
	}
	if best == -1 {
		return nil
	}
	return &SlotHighlight{TimelineID: tl.ID, Index: best, Cell: bestCell, Reachable: bestDist <= 1}
}

// resizeTextbox applies per-handle resize with the opposite edge held
// fixed and a 50x30 floor.
func (e *Engine) resizeTextbox(t *dragTarget, world geom.Pt) {
	tb := e.Scene.TextboxByID(t.TextboxID)
	if tb == nil {
		return
	}
	h := t.Handle
	if h.horizontal() {
		if h.west() {
			right := t.origX + t.origW
			x := world.X
			if x > right-minTextboxW {
				x = right - minTextboxW
			}
			tb.X = x
			tb.Width = right - x
		} else {
			w := world.X - t.origX
			if w < minTextboxW {
				w = minTextboxW
			}
			tb.Width = w
		}
	}
	if h.vertical() {
		if h.north() {
			bottom := t.origY + t.origH
			y := world.Y
			if y > bottom-minTextboxH {
				y = bottom - minTextboxH
			}
			tb.Y = y
			tb.Height = bottom - y
		} else {
			hh := world.Y - t.origY
			if hh < minTextboxH {
				hh = minTextboxH
			}
			tb.Height = hh
		}
	}
}

// commitDrag reports the gesture's final values exactly once.
func (e *Engine) commitDrag(t *dragTarget) {
	switch t.Kind {
	case DragTimeline:
		tl := e.Scene.TimelineByID(t.TimelineID)
		if tl != nil && e.cb.TimelineMoved != nil {
			e.cb.TimelineMoved(tl.ID, tl.X, tl.Y)
		}

	case DragChapter:
		slot := e.hover.Slot
		if slot != nil && slot.Reachable {
			if e.cb.ReorderChapterRequested != nil {
				e.cb.ReorderChapterRequested(t.TimelineID, t.ChapterID, slot.Index)
			}
			e.log.Debug("chapter reordered", slog.String("chapter", t.ChapterID), slog.Int("slot", slot.Index))
		} else if e.cb.ResyncChaptersRequested != nil {
			e.cb.ResyncChaptersRequested(t.TimelineID)
		}

	case DragArc:
		slot := e.hover.Slot
		if slot != nil && slot.Reachable {
			if e.cb.ReorderArcRequested != nil {
				e.cb.ReorderArcRequested(t.TimelineID, t.ArcID, slot.Index)
			}
		} else if e.cb.ResyncChaptersRequested != nil {
			e.cb.ResyncChaptersRequested(t.TimelineID)
		}

	case DragTextbox:
		tb := e.Scene.TextboxByID(t.TextboxID)
		if tb != nil && e.cb.TextboxMoved != nil {
			e.cb.TextboxMoved(tb.ID, tb.X, tb.Y)
		}

	case DragTextboxHandle:
		tb := e.Scene.TextboxByID(t.TextboxID)
		if tb == nil {
			return
		}
		if e.cb.TextboxResized != nil {
			e.cb.TextboxResized(tb.ID, tb.Width, tb.Height)
		}
		if (tb.X != t.origX || tb.Y != t.origY) && e.cb.TextboxMoved != nil {
			e.cb.TextboxMoved(tb.ID, tb.X, tb.Y)
		}

	case DragLineBody, DragLineEndpoint:
		l := e.Scene.LineByID(t.LineID)
		if l != nil && e.cb.LineMoved != nil {
			e.cb.LineMoved(l.ID, l.X1, l.Y1, l.X2, l.Y2)
		}
	}
}
