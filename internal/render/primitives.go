/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package render draws the scene into an RGBA raster. The same draw
// path serves the interactive canvas and flat-image export, so what the
// user clicks on is always what ends up in the file.
package render

import (
	"image"
	"image/color"
	"math"
	"strconv"

	"plotlines/internal/geom"
)

// StrokeRect draws a 1px axis-aligned rectangle border inclusive of
// endpoints.
func StrokeRect(img *image.RGBA, x0, y0, x1, y1 int, col color.RGBA) {
	if x1 < x0 {
		x0, x1 = x1, x0
	}
	if y1 < y0 {
		y0, y1 = y1, y0
	}
	for x := x0; x <= x1; x++ {
		img.SetRGBA(x, y0, col)
		img.SetRGBA(x, y1, col)
	}
	for y := y0; y <= y1; y++ {
		img.SetRGBA(x0, y, col)
		img.SetRGBA(x1, y, col)
	}
}

// FillRect fills an inclusive pixel rectangle.
func FillRect(img *image.RGBA, x0, y0, x1, y1 int, col color.RGBA) {
	if x1 < x0 {
		x0, x1 = x1, x0
	}
	if y1 < y0 {
		y0, y1 = y1, y0
	}
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			img.SetRGBA(x, y, col)
		}
	}
}

// FillCircle fills a disc of the given radius.
func FillCircle(img *image.RGBA, cx, cy float32, r float32, col color.RGBA) {
	x0 := int(math.Floor(float64(cx - r)))
	x1 := int(math.Ceil(float64(cx + r)))
	y0 := int(math.Floor(float64(cy - r)))
	y1 := int(math.Ceil(float64(cy + r)))
	rr := r * r
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			dx := float32(x) - cx
			dy := float32(y) - cy
			if dx*dx+dy*dy <= rr {
				img.SetRGBA(x, y, col)
			}
		}
	}
}

// FillTriangle fills the triangle a-b-c by scanning its bounding box.
func FillTriangle(img *image.RGBA, a, b, c geom.Pt, col color.RGBA) {
	minX := int(math.Floor(float64(min(a.X, min(b.X, c.X)))))
	maxX := int(math.Ceil(float64(max(a.X, max(b.X, c.X)))))
	minY := int(math.Floor(float64(min(a.Y, min(b.Y, c.Y)))))
	maxY := int(math.Ceil(float64(max(a.Y, max(b.Y, c.Y)))))
	edge := func(p, q, r geom.Pt) float32 {
		return (q.X-p.X)*(r.Y-p.Y) - (q.Y-p.Y)*(r.X-p.X)
	}
	area := edge(a, b, c)
	if area == 0 {
		return
	}
	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			p := geom.Pt{X: float32(x), Y: float32(y)}
			w0 := edge(a, b, p)
			w1 := edge(b, c, p)
			w2 := edge(c, a, p)
			if (w0 >= 0 && w1 >= 0 && w2 >= 0) || (w0 <= 0 && w1 <= 0 && w2 <= 0) {
				img.SetRGBA(x, y, col)
			}
		}
	}
}

// DrawLine draws a segment of the given pixel width by stamping square
// caps along it.
func DrawLine(img *image.RGBA, a, b geom.Pt, width float32, col color.RGBA) {
	d := geom.Dist(a, b)
	if d == 0 {
		FillCircle(img, a.X, a.Y, width/2, col)
		return
	}
	steps := int(d) + 1
	half := width / 2
	for i := 0; i <= steps; i++ {
		t := float32(i) / float32(steps)
		x := a.X + (b.X-a.X)*t
		y := a.Y + (b.Y-a.Y)*t
		if width <= 1 {
			img.SetRGBA(int(x), int(y), col)
			continue
		}
		FillRect(img,
			int(x-half), int(y-half),
			int(x+half), int(y+half), col)
	}
}

// Dash lengths in pixels for dashed strokes.
const (
	dashOn  float32 = 6
	dashOff float32 = 4
)

// DrawDashedLine draws the segment with a fixed 6-on 4-off pattern.
func DrawDashedLine(img *image.RGBA, a, b geom.Pt, width float32, col color.RGBA) {
	total := geom.Dist(a, b)
	if total == 0 {
		return
	}
	ux := (b.X - a.X) / total
	uy := (b.Y - a.Y) / total
	pos := float32(0)
	for pos < total {
		end := pos + dashOn
		if end > total {
			end = total
		}
		DrawLine(img,
			geom.Pt{X: a.X + ux*pos, Y: a.Y + uy*pos},
			geom.Pt{X: a.X + ux*end, Y: a.Y + uy*end},
			width, col)
		pos = end + dashOff
	}
}

// DrawStyledLine picks solid or dashed per the entity style.
func DrawStyledLine(img *image.RGBA, a, b geom.Pt, width float32, style string, col color.RGBA) {
	if style == "dashed" {
		DrawDashedLine(img, a, b, width, col)
		return
	}
	DrawLine(img, a, b, width, col)
}

// DrawBezier flattens the cubic into short segments.
func DrawBezier(img *image.RGBA, p0, c0, c1, p1 geom.Pt, width float32, style string, col color.RGBA) {
	const steps = 32
	prev := p0
	dashed := style == "dashed"
	for i := 1; i <= steps; i++ {
		t := float32(i) / steps
		q := geom.CubicBezierPoint(p0, c0, c1, p1, t)
		if dashed {
			// approximate the pattern by skipping alternate segments
			if i%3 != 0 {
				DrawLine(img, prev, q, width, col)
			}
		} else {
			DrawLine(img, prev, q, width, col)
		}
		prev = q
	}
}

// DrawArrowhead fills a triangle pointing along dir with its tip at
// the given point.
func DrawArrowhead(img *image.RGBA, tip geom.Pt, dir geom.Pt, size float32, col color.RGBA) {
	d := geom.Dist(geom.Pt{}, dir)
	if d == 0 {
		dir = geom.Pt{X: 1}
		d = 1
	}
	ux := dir.X / d
	uy := dir.Y / d
	base := geom.Pt{X: tip.X - ux*size, Y: tip.Y - uy*size}
	half := size * 0.5
	left := geom.Pt{X: base.X - uy*half, Y: base.Y + ux*half}
	right := geom.Pt{X: base.X + uy*half, Y: base.Y - ux*half}
	FillTriangle(img, tip, left, right, col)
}

// ParseHexColor parses "#rrggbb" with an optional alpha pair. Invalid
// input falls back to opaque mid gray so a bad arc color never hides a
// chapter.
func ParseHexColor(s string) color.RGBA {
	fallback := color.RGBA{R: 128, G: 128, B: 128, A: 255}
	if len(s) != 7 && len(s) != 9 {
		return fallback
	}
	if s[0] != '#' {
		return fallback
	}
	v, err := strconv.ParseUint(s[1:], 16, 64)
	if err != nil {
		return fallback
	}
	if len(s) == 9 {
		return color.RGBA{
			R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v),
		}
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}
}
