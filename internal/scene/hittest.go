/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package scene

import "plotlines/internal/geom"

// Hit-testing walks candidates in a fixed priority order and stops at
// the first match; that order is the only z-ordering the canvas has.
// All tests run in world units with screen-space tolerances divided by
// the zoom so the forgiveness a user feels stays constant.

// editKind classifies what a double-click landed on.
type editKind int

const (
	editNone editKind = iota
	editTimeline
	editChapter
	editBranch
	editTextbox
	editLine
)

type editHit struct {
	Kind editKind
	ID   string
}

// hitEditable resolves a double-click target. Head/Tail route to the
// timeline edit, not a chapter edit.
func hitEditable(s *Scene, cam geom.Camera, world geom.Pt) editHit {
	for _, t := range s.Timelines {
		if t.TitleRect().Contains(world) {
			return editHit{editTimeline, t.ID}
		}
		for _, c := range t.Chapters {
			if t.ChapterRect(c).Contains(world) {
				if c.Boundary() {
					return editHit{editTimeline, t.ID}
				}
				return editHit{editChapter, c.ID}
			}
		}
	}
	tol := lineHitTol / cam.Zoom
	for _, b := range s.Branches {
		p0, c0, c1, p1, ok := branchCurve(s, b)
		if ok && geom.DistToBezier(world, p0, c0, c1, p1) <= tol {
			return editHit{editBranch, b.ID}
		}
	}
	for _, tb := range s.Textboxes {
		if tb.Rect().Contains(world) {
			return editHit{editTextbox, tb.ID}
		}
	}
	for _, l := range s.Lines {
		a, bp := lineEndpoints(l)
		if geom.DistToSegment(world, a, bp) <= tol {
			return editHit{editLine, l.ID}
		}
	}
	return editHit{Kind: editNone}
}

// hitDraggable resolves a pointer-down against the draggable surfaces,
// in priority order: timeline surface, chapter body, arc label, textbox
// handle/body, line endpoint/body. Returns ok=false for background.
func hitDraggable(s *Scene, cam geom.Camera, world geom.Pt) (dragTarget, bool) {
	// timeline surface: title, Head/Tail cap, or the stroke itself
	for _, t := range s.Timelines {
		if t.TitleRect().Contains(world) || t.BodyRect().Contains(world) {
			return timelineTarget(t, world), true
		}
		for _, c := range t.Chapters {
			if c.Boundary() && t.ChapterRect(c).Contains(world) {
				return timelineTarget(t, world), true
			}
		}
	}
	// chapter title band, ordinary chapters only
	for _, t := range s.Timelines {
		for _, c := range t.Ordinary() {
			if t.ChapterRect(c).Contains(world) {
				return chapterTarget(t, c, world), true
			}
		}
	}
	// arc label band
	for _, t := range s.Timelines {
		for i, g := range t.ArcGroups() {
			if g.ArcID == "" {
				continue
			}
			if t.ArcLabelRect(g).Contains(world) {
				return dragTarget{
					Kind:       DragArc,
					TimelineID: t.ID,
					ArcKey:     g.Key,
					ArcID:      g.ArcID,
					downWorld:  world,
					origIndex:  i,
				}, true
			}
		}
	}
	// textbox handles beat the body; corners beat edges
	band := handleBand / cam.Zoom
	for _, tb := range s.Textboxes {
		if h := hitHandle(tb.Rect(), world, band); h != HandleNone {
			return dragTarget{
				Kind:      DragTextboxHandle,
				TextboxID: tb.ID,
				Handle:    h,
				downWorld: world,
				origX:     tb.X, origY: tb.Y,
				origW: tb.Width, origH: tb.Height,
			}, true
		}
		if tb.Rect().Contains(world) {
			return dragTarget{
				Kind:      DragTextbox,
				TextboxID: tb.ID,
				downWorld: world,
				origX:     tb.X, origY: tb.Y,
			}, true
		}
	}
	// line endpoints, then the segment body
	epTol := endpointHitTol / cam.Zoom
	segTol := lineHitTol / cam.Zoom
	for _, l := range s.Lines {
		a, b := lineEndpoints(l)
		if geom.Dist(world, a) <= epTol {
			return lineTarget(l, world, DragLineEndpoint, 1), true
		}
		if geom.Dist(world, b) <= epTol {
			return lineTarget(l, world, DragLineEndpoint, 2), true
		}
		if geom.DistToSegment(world, a, b) <= segTol {
			return lineTarget(l, world, DragLineBody, 0), true
		}
	}
	return dragTarget{}, false
}

func timelineTarget(t *Timeline, world geom.Pt) dragTarget {
	return dragTarget{
		Kind:       DragTimeline,
		TimelineID: t.ID,
		downWorld:  world,
		origX:      t.X,
		origY:      t.Y,
	}
}

func chapterTarget(t *Timeline, c *Chapter, world geom.Pt) dragTarget {
	idx := 0
	for i, oc := range t.Ordinary() {
		if oc.ID == c.ID {
			idx = i
			break
		}
	}
	return dragTarget{
		Kind:       DragChapter,
		TimelineID: t.ID,
		ChapterID:  c.ID,
		downWorld:  world,
		origX:      c.X,
		origIndex:  idx,
	}
}

func lineTarget(l *Line, world geom.Pt, kind DragKind, endpoint int) dragTarget {
	return dragTarget{
		Kind:      kind,
		LineID:    l.ID,
		Endpoint:  endpoint,
		downWorld: world,
		origX:     l.X1, origY: l.Y1,
		origX2: l.X2, origY2: l.Y2,
	}
}

// hitHandle tests the eight resize handles of a rect, corners first.
func hitHandle(r geom.Rect, p geom.Pt, band float32) Handle {
	nearL := abs32(p.X-r.X) <= band
	nearR := abs32(p.X-(r.X+r.W)) <= band
	nearT := abs32(p.Y-r.Y) <= band
	nearB := abs32(p.Y-(r.Y+r.H)) <= band
	withinX := p.X >= r.X-band && p.X <= r.X+r.W+band
	withinY := p.Y >= r.Y-band && p.Y <= r.Y+r.H+band
	switch {
	case nearL && nearT:
		return HandleNW
	case nearR && nearT:
		return HandleNE
	case nearL && nearB:
		return HandleSW
	case nearR && nearB:
		return HandleSE
	case nearL && withinY:
		return HandleW
	case nearR && withinY:
		return HandleE
	case nearT && withinX:
		return HandleN
	case nearB && withinX:
		return HandleS
	}
	return HandleNone
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

// hitSlot finds the insertion slot under the pointer across all
// timelines, within a fixed screen tolerance.
func hitSlot(s *Scene, cam geom.Camera, world geom.Pt) (timelineID string, slot int, ok bool) {
	tol := slotHitTol / cam.Zoom
	for _, t := range s.Timelines {
		for i := 0; i < t.SlotCount(); i++ {
			if geom.Dist(world, t.SlotPoint(i)) <= tol {
				return t.ID, i, true
			}
		}
	}
	return "", 0, false
}

// lineEndpoints returns a free line's endpoints in world units.
func lineEndpoints(l *Line) (geom.Pt, geom.Pt) {
	return geom.GridToWorld(l.X1, l.Y1), geom.GridToWorld(l.X2, l.Y2)
}

// branchCurve resolves a branch to its bezier control points. ok is
// false when either timeline reference dangles; such branches are
// skipped everywhere.
func branchCurve(s *Scene, b *Branch) (p0, c0, c1, p1 geom.Pt, ok bool) {
	start := s.TimelineByID(b.StartTimeline)
	end := s.TimelineByID(b.EndTimeline)
	if start == nil || end == nil {
		return
	}
	p0, c0, c1, p1 = geom.BranchCurve(start.PosPoint(b.StartPos), end.PosPoint(b.EndPos))
	ok = true
	return
}

// hoverTimeline finds the timeline whose horizontal span contains the
// pointer within a vertical proximity band, and which side the pointer
// is on. Used for the externally reported hover notification.
func hoverTimeline(s *Scene, world geom.Pt) (id, side string) {
	for _, t := range s.Timelines {
		x0 := t.X
		x1 := t.X + t.SpanCells()*geom.GridCell
		if world.X < x0 || world.X > x1 {
			continue
		}
		dy := world.Y - t.Y
		if abs32(dy) > hoverBand {
			continue
		}
		if dy < 0 {
			return t.ID, "above"
		}
		return t.ID, "below"
	}
	return "", ""
}
