/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package scene holds the in-memory canvas model and the pointer
// interaction engine that drives it. Entities live in world units;
// lines and chapter positions use grid units on top of that. All
// mutation happens on the UI goroutine, so the package does no locking.
package scene

import (
	"math"
	"sort"

	"plotlines/internal/domain"
	"plotlines/internal/geom"
)

// Visual sizing constants, world units unless noted.
const (
	chapterBandH   float32 = 20 // chapter title band above the timeline stroke
	chapterBandGap float32 = 4
	arcBandY       float32 = 10 // arc label band below the stroke
	arcBandH       float32 = 14
	charWidth      float32 = 7 // rough glyph advance used for title extents
	titleBandH     float32 = 16
	titleGap       float32 = 8
)

// Chapter is the visual form of a chapter record: position and width in
// grid units relative to its timeline anchor. Head and Tail are synthetic
// boundary chapters recreated on every resync.
type Chapter struct {
	ID    string
	Title string
	X     float32 // grid offset from the timeline anchor
	Width float32 // grid units
	ArcID string
	Head  bool
	Tail  bool
}

// Boundary reports whether the chapter is a synthetic Head or Tail.
func (c *Chapter) Boundary() bool { return c.Head || c.Tail }

// Timeline is a horizontal run of chapters anchored at a world position.
// Chapters always starts with Head and ends with Tail.
type Timeline struct {
	ID       string
	Name     string
	X, Y     float32
	Chapters []*Chapter
	Arcs     map[string]domain.Arc
}

// SpanCells returns the timeline's total width in grid units, Head
// through Tail inclusive.
func (t *Timeline) SpanCells() float32 {
	if len(t.Chapters) == 0 {
		return 2
	}
	last := t.Chapters[len(t.Chapters)-1]
	return last.X + last.Width
}

// Ordinary returns the non-boundary chapters in order.
func (t *Timeline) Ordinary() []*Chapter {
	out := make([]*Chapter, 0, len(t.Chapters))
	for _, c := range t.Chapters {
		if !c.Boundary() {
			out = append(out, c)
		}
	}
	return out
}

// Tail returns the synthetic tail chapter.
func (t *Timeline) Tail() *Chapter {
	for _, c := range t.Chapters {
		if c.Tail {
			return c
		}
	}
	return nil
}

// ChapterWidth computes the visual width in grid cells for a chapter
// record: an explicit override wins, otherwise the width grows with the
// title so long names stay readable.
func ChapterWidth(title string, explicit int) float32 {
	if explicit > 0 {
		return float32(explicit)
	}
	n := len([]rune(title))
	w := math.Ceil(float64(n) / 5)
	if w < 1 {
		w = 1
	}
	return float32(w)
}

// ArcGroup is a contiguous run of chapters sharing an arc. Chapters
// without an arc form singleton groups keyed by their own id so two
// adjacent unassigned chapters never merge.
type ArcGroup struct {
	Key      string
	ArcID    string
	Chapters []*Chapter
}

// StartCell returns the grid position of the group's left edge.
func (g ArcGroup) StartCell() float32 { return g.Chapters[0].X }

// WidthCells returns the group's total width in grid units.
func (g ArcGroup) WidthCells() float32 {
	last := g.Chapters[len(g.Chapters)-1]
	return last.X + last.Width - g.StartCell()
}

// ArcGroups derives the contiguous arc grouping over the ordinary
// chapters. The grouping is recomputed on demand, never stored.
func (t *Timeline) ArcGroups() []ArcGroup {
	var groups []ArcGroup
	for _, c := range t.Ordinary() {
		if c.ArcID != "" && len(groups) > 0 {
			last := &groups[len(groups)-1]
			if last.ArcID == c.ArcID {
				last.Chapters = append(last.Chapters, c)
				continue
			}
		}
		key := c.ArcID
		if key == "" {
			key = c.ID
		}
		groups = append(groups, ArcGroup{Key: key, ArcID: c.ArcID, Chapters: []*Chapter{c}})
	}
	return groups
}

// Line mirrors domain.Line with float32 grid coordinates for drawing.
type Line struct {
	ID             string
	X1, Y1, X2, Y2 float32 // grid units
	Style          string
	StartEndpoint  string
	EndEndpoint    string
}

// Branch connects two different timelines at grid positions along each.
type Branch struct {
	ID            string
	StartTimeline string
	StartPos      float32
	EndTimeline   string
	EndPos        float32
	Style         string
	StartEndpoint string
	EndEndpoint   string
}

// Textbox is a free world-space annotation.
type Textbox struct {
	ID            string
	X, Y          float32
	Width, Height float32
	Content       string
	FontSize      float32
	AlignX        string
	AlignY        string
}

// Rect returns the textbox extent in world units.
func (b *Textbox) Rect() geom.Rect {
	return geom.R(b.X, b.Y, b.Width, b.Height)
}

// Scene is the full canvas model. Setter calls replace whole
// collections; entities with dangling references are dropped rather
// than kept partially valid.
type Scene struct {
	Timelines []*Timeline
	Branches  []*Branch
	Lines     []*Line
	Textboxes []*Textbox
}

func New() *Scene { return &Scene{} }

// TimelineByID returns the timeline or nil.
func (s *Scene) TimelineByID(id string) *Timeline {
	for _, t := range s.Timelines {
		if t.ID == id {
			return t
		}
	}
	return nil
}

func (s *Scene) TextboxByID(id string) *Textbox {
	for _, b := range s.Textboxes {
		if b.ID == id {
			return b
		}
	}
	return nil
}

func (s *Scene) LineByID(id string) *Line {
	for _, l := range s.Lines {
		if l.ID == id {
			return l
		}
	}
	return nil
}

// AddTimeline appends a timeline with empty chapters (Head and Tail only).
func (s *Scene) AddTimeline(id, name string, x, y float32) *Timeline {
	t := &Timeline{ID: id, Name: name, X: x, Y: y, Arcs: map[string]domain.Arc{}}
	t.Chapters = layoutChapters(nil)
	s.Timelines = append(s.Timelines, t)
	return t
}

// RemoveTimeline drops a timeline and any branch attached to it.
func (s *Scene) RemoveTimeline(id string) {
	out := s.Timelines[:0]
	for _, t := range s.Timelines {
		if t.ID != id {
			out = append(out, t)
		}
	}
	s.Timelines = out
	branches := s.Branches[:0]
	for _, b := range s.Branches {
		if b.StartTimeline != id && b.EndTimeline != id {
			branches = append(branches, b)
		}
	}
	s.Branches = branches
}

// SetChapters resynchronizes a timeline's chapters from raw records.
// Records are ordered by timestamp, widths derived per ChapterWidth, and
// fresh Head/Tail boundaries are placed around the content.
func (s *Scene) SetChapters(timelineID string, raw []domain.Chapter, arcs []domain.Arc) {
	t := s.TimelineByID(timelineID)
	if t == nil {
		return
	}
	sorted := make([]domain.Chapter, len(raw))
	copy(sorted, raw)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Timestamp < sorted[j].Timestamp })
	t.Chapters = layoutChapters(sorted)
	t.Arcs = map[string]domain.Arc{}
	for _, a := range arcs {
		t.Arcs[a.ID] = a
	}
}

// layoutChapters packs chapters left to right starting after Head and
// closes the run with Tail.
func layoutChapters(raw []domain.Chapter) []*Chapter {
	out := []*Chapter{{ID: "head", Title: "Head", X: 0, Width: 1, Head: true}}
	x := float32(1)
	for _, r := range raw {
		w := ChapterWidth(r.Title, r.Width)
		out = append(out, &Chapter{ID: r.ID, Title: r.Title, X: x, Width: w, ArcID: r.ArcID})
		x += w
	}
	out = append(out, &Chapter{ID: "tail", Title: "Tail", X: x, Width: 1, Tail: true})
	return out
}

// SetBranches replaces the branch list. Branches naming a missing
// timeline or connecting a timeline to itself are skipped.
func (s *Scene) SetBranches(raw []domain.Branch) {
	s.Branches = s.Branches[:0]
	for _, r := range raw {
		if r.StartContinuityID == r.EndContinuityID {
			continue
		}
		if s.TimelineByID(r.StartContinuityID) == nil || s.TimelineByID(r.EndContinuityID) == nil {
			continue
		}
		s.Branches = append(s.Branches, &Branch{
			ID:            r.ID,
			StartTimeline: r.StartContinuityID,
			StartPos:      float32(r.StartPosition),
			EndTimeline:   r.EndContinuityID,
			EndPos:        float32(r.EndPosition),
			Style:         domain.NormalizeLineStyle(r.LineStyle),
			StartEndpoint: domain.NormalizeEndpointStyle(r.StartEndpointStyle),
			EndEndpoint:   domain.NormalizeEndpointStyle(r.EndEndpointStyle),
		})
	}
}

// SetLines replaces the free line list.
func (s *Scene) SetLines(raw []domain.Line) {
	s.Lines = s.Lines[:0]
	for _, r := range raw {
		s.Lines = append(s.Lines, &Line{
			ID: r.ID,
			X1: float32(r.GridX1), Y1: float32(r.GridY1),
			X2: float32(r.GridX2), Y2: float32(r.GridY2),
			Style:         domain.NormalizeLineStyle(r.LineStyle),
			StartEndpoint: domain.NormalizeEndpointStyle(r.StartEndpointStyle),
			EndEndpoint:   domain.NormalizeEndpointStyle(r.EndEndpointStyle),
		})
	}
}

// SetTextboxes replaces the textbox list, clamping sizes to the minimum.
func (s *Scene) SetTextboxes(raw []domain.Textbox) {
	s.Textboxes = s.Textboxes[:0]
	for _, r := range raw {
		w := float32(r.Width)
		h := float32(r.Height)
		if w < minTextboxW {
			w = minTextboxW
		}
		if h < minTextboxH {
			h = minTextboxH
		}
		fs := float32(r.FontSize)
		if fs <= 0 {
			fs = 13
		}
		s.Textboxes = append(s.Textboxes, &Textbox{
			ID: r.ID,
			X:  float32(r.X), Y: float32(r.Y),
			Width: w, Height: h,
			Content:  r.Content,
			FontSize: fs,
			AlignX:   r.AlignX,
			AlignY:   r.AlignY,
		})
	}
}

// FromProject builds a scene from a stored project.
func FromProject(p *domain.Project) *Scene {
	s := New()
	for _, c := range p.Continuities {
		s.AddTimeline(c.ID, c.Name, float32(c.X), float32(c.Y))
		s.SetChapters(c.ID, c.Chapters, c.Arcs)
	}
	s.SetBranches(p.Branches)
	s.SetLines(p.Lines)
	s.SetTextboxes(p.Textboxes)
	return s
}

// Geometry helpers shared by hit-testing and rendering. All return
// world-unit rectangles or points.

// StrokeY returns the world y of the timeline's horizontal stroke.
func (t *Timeline) StrokeY() float32 { return t.Y }

// TitleRect is the clickable extent of the timeline name, drawn left of
// the head cap.
func (t *Timeline) TitleRect() geom.Rect {
	w := float32(len([]rune(t.Name))) * charWidth
	if w < charWidth {
		w = charWidth
	}
	return geom.R(t.X-w-titleGap, t.Y-titleBandH/2, w, titleBandH)
}

// BodyRect is the hit band around the horizontal stroke itself.
func (t *Timeline) BodyRect() geom.Rect {
	return geom.R(t.X, t.Y-4, t.SpanCells()*geom.GridCell, 8)
}

// ChapterRect is the chapter's title band above the stroke. The stroke
// and tick region below stay part of the timeline's own hit area.
func (t *Timeline) ChapterRect(c *Chapter) geom.Rect {
	x := t.X + c.X*geom.GridCell
	return geom.R(x, t.Y-chapterBandGap-chapterBandH, c.Width*geom.GridCell, chapterBandH)
}

// ArcLabelRect is the clickable arc label band below the stroke.
func (t *Timeline) ArcLabelRect(g ArcGroup) geom.Rect {
	x := t.X + g.StartCell()*geom.GridCell
	return geom.R(x, t.Y+arcBandY, g.WidthCells()*geom.GridCell, arcBandH)
}

// BandExtent returns the vertical world extent the timeline's bands
// occupy: from the top of the chapter band above the stroke to the
// bottom of the arc band below it.
func (t *Timeline) BandExtent() (top, bottom float32) {
	return t.Y - chapterBandGap - chapterBandH, t.Y + arcBandY + arcBandH
}

// SlotCell returns the grid position of insertion slot i. Slot i sits on
// the boundary between chapter i and chapter i+1 of the full list
// (Head included), so slot 0 is Head's right edge.
func (t *Timeline) SlotCell(i int) float32 {
	c := t.Chapters[i]
	return c.X + c.Width
}

// SlotCount returns the number of insertion slots (one more than the
// ordinary chapter count).
func (t *Timeline) SlotCount() int { return len(t.Chapters) - 1 }

// SlotPoint returns the world position of insertion slot i.
func (t *Timeline) SlotPoint(i int) geom.Pt {
	return geom.Pt{X: t.X + t.SlotCell(i)*geom.GridCell, Y: t.Y}
}

// PosPoint returns the world position of an arbitrary grid offset along
// the timeline, used for branch anchoring.
func (t *Timeline) PosPoint(pos float32) geom.Pt {
	return geom.Pt{X: t.X + pos*geom.GridCell, Y: t.Y}
}
