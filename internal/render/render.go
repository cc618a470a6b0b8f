/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package render

import (
	"image"
	"image/color"
	"image/draw"

	"plotlines/internal/geom"
	"plotlines/internal/scene"
)

// Palette. Entities keep fixed screen-space stroke widths and glyph
// radii so they stay legible at every zoom.
var (
	colBackground = color.RGBA{250, 250, 250, 255}
	colGridDot    = color.RGBA{205, 205, 205, 255}
	colStroke     = color.RGBA{20, 20, 20, 255}
	colConnector  = color.RGBA{60, 60, 60, 255}
	colTitle      = color.RGBA{30, 30, 30, 255}
	colBoxBorder  = color.RGBA{150, 150, 150, 255}
	colSlotOK     = color.RGBA{46, 125, 50, 255}
	colSlotBad    = color.RGBA{198, 40, 40, 255}
	colPreview    = color.RGBA{21, 101, 192, 255}
	colMenu       = color.RGBA{21, 101, 192, 255}
	colMenuOpt    = color.RGBA{255, 255, 255, 255}
	colMenuHover  = color.RGBA{227, 236, 250, 255}
)

const (
	strokeWidth   float32 = 3
	capHalfHeight float32 = 8
	tickHalf      float32 = 5
	dotRadius     float32 = 4
	arrowSize     float32 = 12
	slotRadius    float32 = 6
	firstPtRadius float32 = 9
)

// State carries the transient interaction state a frame needs beyond
// the scene itself.
type State struct {
	Hover   scene.Hover
	Gesture scene.Gesture
	Menu    *scene.Menu
}

// DrawScene renders one full frame into img. The menu layer draws last,
// in screen space, so it never pans or zooms with the world.
func DrawScene(img *image.RGBA, sc *scene.Scene, cam geom.Camera, st State) {
	draw.Draw(img, img.Bounds(), &image.Uniform{C: colBackground}, image.Point{}, draw.Src)
	size := geom.Size{
		W: float32(img.Bounds().Dx()),
		H: float32(img.Bounds().Dy()),
	}

	drawGrid(img, cam, size)
	for _, t := range sc.Timelines {
		drawTimeline(img, sc, cam, t)
	}
	for _, b := range sc.Branches {
		drawBranch(img, sc, cam, b)
	}
	for _, l := range sc.Lines {
		drawFreeLine(img, cam, l)
	}
	for _, tb := range sc.Textboxes {
		drawTextbox(img, cam, tb)
	}
	drawInteraction(img, sc, cam, st)
	if st.Menu != nil {
		drawMenu(img, st.Menu, size)
	}
}

// drawGrid stamps one dot per grid cell, computing only dots inside the
// visible world rectangle.
func drawGrid(img *image.RGBA, cam geom.Camera, size geom.Size) {
	vis := cam.VisibleWorld(size)
	x0 := geom.Round(vis.X/geom.GridCell - 1)
	x1 := geom.Round((vis.X+vis.W)/geom.GridCell + 1)
	y0 := geom.Round(vis.Y/geom.GridCell - 1)
	y1 := geom.Round((vis.Y+vis.H)/geom.GridCell + 1)
	for gy := y0; gy <= y1; gy++ {
		for gx := x0; gx <= x1; gx++ {
			p := cam.WorldToScreen(geom.GridToWorld(gx, gy))
			FillCircle(img, p.X, p.Y, 1.5, colGridDot)
		}
	}
}

func drawTimeline(img *image.RGBA, sc *scene.Scene, cam geom.Camera, t *scene.Timeline) {
	start := cam.WorldToScreen(geom.Pt{X: t.X, Y: t.Y})
	end := cam.WorldToScreen(geom.Pt{X: t.X + t.SpanCells()*geom.GridCell, Y: t.Y})

	DrawLine(img, start, end, strokeWidth, colStroke)

	// arc-colored segments over the base stroke
	for _, g := range t.ArcGroups() {
		if g.ArcID == "" {
			continue
		}
		arc, ok := t.Arcs[g.ArcID]
		if !ok {
			continue
		}
		col := ParseHexColor(arc.Color)
		a := cam.WorldToScreen(t.PosPoint(g.StartCell()))
		b := cam.WorldToScreen(t.PosPoint(g.StartCell() + g.WidthCells()))
		DrawLine(img, a, b, strokeWidth, col)
	}

	// black head and tail caps
	for _, x := range []float32{start.X, end.X} {
		DrawLine(img,
			geom.Pt{X: x, Y: start.Y - capHalfHeight},
			geom.Pt{X: x, Y: start.Y + capHalfHeight},
			strokeWidth, colStroke)
	}

	// tick marks at chapter boundaries, chapter titles above
	for _, c := range t.Chapters {
		p := cam.WorldToScreen(t.PosPoint(c.X))
		DrawLine(img,
			geom.Pt{X: p.X, Y: p.Y - tickHalf},
			geom.Pt{X: p.X, Y: p.Y + tickHalf},
			1, colStroke)
		if c.Boundary() {
			continue
		}
		r := t.ChapterRect(c)
		tl := cam.WorldToScreen(r.Min())
		title := Ellipsize(c.Title, r.W*cam.Zoom)
		DrawString(img, title, tl.X+2, tl.Y+LineHeight(), colTitle)
	}

	// arc labels below the stroke
	for _, g := range t.ArcGroups() {
		if g.ArcID == "" {
			continue
		}
		arc, ok := t.Arcs[g.ArcID]
		if !ok {
			continue
		}
		r := t.ArcLabelRect(g)
		tl := cam.WorldToScreen(r.Min())
		label := Ellipsize(arc.Name, r.W*cam.Zoom)
		DrawString(img, label, tl.X+2, tl.Y+LineHeight(), ParseHexColor(arc.Color))
	}

	// timeline name left of the head cap
	name := cam.WorldToScreen(t.TitleRect().Min())
	DrawString(img, t.Name, name.X, name.Y+LineHeight(), colTitle)

	// direction arrowhead, hidden when a branch departs from the tail
	if !tailArrowSuppressed(sc, t) {
		DrawArrowhead(img, geom.Pt{X: end.X + arrowSize, Y: end.Y}, geom.Pt{X: 1}, arrowSize, colStroke)
	}
}

// tailArrowSuppressed reports whether any branch attaches at the
// timeline's tail position. Positions compare after rounding to whole
// grid cells.
func tailArrowSuppressed(sc *scene.Scene, t *scene.Timeline) bool {
	tail := geom.Round(t.SpanCells())
	for _, b := range sc.Branches {
		if b.StartTimeline == t.ID && geom.Round(b.StartPos) == tail {
			return true
		}
		if b.EndTimeline == t.ID && geom.Round(b.EndPos) == tail {
			return true
		}
	}
	return false
}

func drawBranch(img *image.RGBA, sc *scene.Scene, cam geom.Camera, b *scene.Branch) {
	start := sc.TimelineByID(b.StartTimeline)
	end := sc.TimelineByID(b.EndTimeline)
	if start == nil || end == nil {
		return
	}
	p0w, c0w, c1w, p1w := geom.BranchCurve(start.PosPoint(b.StartPos), end.PosPoint(b.EndPos))
	p0 := cam.WorldToScreen(p0w)
	c0 := cam.WorldToScreen(c0w)
	c1 := cam.WorldToScreen(c1w)
	p1 := cam.WorldToScreen(p1w)
	DrawBezier(img, p0, c0, c1, p1, 2, b.Style, colConnector)

	// branch glyphs always draw pointing outward left-to-right
	drawEndpointGlyph(img, p0, geom.Pt{X: 1}, b.StartEndpoint)
	drawEndpointGlyph(img, p1, geom.Pt{X: 1}, b.EndEndpoint)
}

func drawFreeLine(img *image.RGBA, cam geom.Camera, l *scene.Line) {
	a := cam.WorldToScreen(geom.GridToWorld(l.X1, l.Y1))
	b := cam.WorldToScreen(geom.GridToWorld(l.X2, l.Y2))
	DrawStyledLine(img, a, b, 2, l.Style, colConnector)

	// arrow orientation comes from the opposite endpoint
	drawEndpointGlyph(img, a, geom.Pt{X: a.X - b.X, Y: a.Y - b.Y}, l.StartEndpoint)
	drawEndpointGlyph(img, b, geom.Pt{X: b.X - a.X, Y: b.Y - a.Y}, l.EndEndpoint)
}

func drawEndpointGlyph(img *image.RGBA, p geom.Pt, dir geom.Pt, style string) {
	switch style {
	case "dot":
		FillCircle(img, p.X, p.Y, dotRadius, colConnector)
	case "arrow":
		DrawArrowhead(img, p, dir, arrowSize, colConnector)
	}
}

func drawTextbox(img *image.RGBA, cam geom.Camera, tb *scene.Textbox) {
	tl := cam.WorldToScreen(geom.Pt{X: tb.X, Y: tb.Y})
	br := cam.WorldToScreen(geom.Pt{X: tb.X + tb.Width, Y: tb.Y + tb.Height})
	StrokeRect(img, int(tl.X), int(tl.Y), int(br.X), int(br.Y), colBoxBorder)
	contentH := DrawWrapped(img, tb.Content,
		tl.X+3, tl.Y+3, br.X-tl.X-6, br.Y-tl.Y-6,
		tb.AlignX, tb.AlignY, colTitle)
	// height grows to fit content, never shrinks back
	if world := contentH/cam.Zoom + 6; world > tb.Height {
		tb.Height = world
	}
}

// drawInteraction renders placement previews and drag slot highlights
// on top of the world layer.
func drawInteraction(img *image.RGBA, sc *scene.Scene, cam geom.Camera, st State) {
	if slot := st.Hover.Slot; slot != nil {
		if t := sc.TimelineByID(slot.TimelineID); t != nil {
			col := colSlotBad
			if slot.Reachable {
				col = colSlotOK
			}
			p := cam.WorldToScreen(t.PosPoint(slot.Cell))
			FillCircle(img, p.X, p.Y, slotRadius, col)
		}
	}

	p, ok := st.Gesture.(scene.Placement)
	if !ok {
		return
	}

	// all candidate slots while a slot-based placement is armed
	if p.Kind == scene.PlaceChapter || p.Kind == scene.PlaceBranch {
		for _, t := range sc.Timelines {
			for i := 0; i < t.SlotCount(); i++ {
				sp := cam.WorldToScreen(t.SlotPoint(i))
				col := colPreview
				if st.Hover.SlotOK && st.Hover.SlotTimeline == t.ID && st.Hover.SlotIndex == i {
					col = colSlotOK
				}
				FillCircle(img, sp.X, sp.Y, slotRadius, col)
			}
		}
	}

	switch {
	case p.Kind == scene.PlaceBranch && p.HaveFirst:
		if t := sc.TimelineByID(p.FirstTimeline); t != nil {
			fp := cam.WorldToScreen(t.PosPoint(p.FirstPos))
			FillCircle(img, fp.X, fp.Y, firstPtRadius, colSlotOK)
			if st.Hover.SlotOK {
				if ht := sc.TimelineByID(st.Hover.SlotTimeline); ht != nil {
					hp := cam.WorldToScreen(ht.SlotPoint(st.Hover.SlotIndex))
					DrawDashedLine(img, fp, hp, 1, colPreview)
				}
			}
		}
	case p.Kind == scene.PlaceLine:
		if st.Hover.GridOK {
			hp := cam.WorldToScreen(geom.GridToWorld(st.Hover.GridX, st.Hover.GridY))
			FillCircle(img, hp.X, hp.Y, slotRadius, colPreview)
			if p.HaveFirst {
				fp := cam.WorldToScreen(geom.GridToWorld(p.FirstGX, p.FirstGY))
				FillCircle(img, fp.X, fp.Y, firstPtRadius, colSlotOK)
				DrawDashedLine(img, fp, hp, 1, colPreview)
			}
		}
	}
}

func drawMenu(img *image.RGBA, m *scene.Menu, size geom.Size) {
	b := m.ButtonRect(size)
	FillCircle(img, b.X+b.W/2, b.Y+b.H/2, b.W/2, colMenu)
	// plus glyph
	cx := b.X + b.W/2
	cy := b.Y + b.H/2
	DrawLine(img, geom.Pt{X: cx - 8, Y: cy}, geom.Pt{X: cx + 8, Y: cy}, 2, colMenuOpt)
	DrawLine(img, geom.Pt{X: cx, Y: cy - 8}, geom.Pt{X: cx, Y: cy + 8}, 2, colMenuOpt)

	if m.Progress <= 0 {
		return
	}
	for i := 0; i < len(scene.MenuActions()); i++ {
		r := m.OptionRect(i, size)
		fill := colMenuOpt
		if m.Hovered == i {
			fill = colMenuHover
		}
		FillRect(img, int(r.X), int(r.Y), int(r.X+r.W), int(r.Y+r.H), fill)
		StrokeRect(img, int(r.X), int(r.Y), int(r.X+r.W), int(r.Y+r.H), colBoxBorder)
		DrawString(img, scene.MenuAction(i).Label(), r.X+8, r.Y+r.H/2+4, colTitle)
	}
}
