/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package geom

// Zoom bounds for the canvas camera.
const (
	MinZoom = 0.5
	MaxZoom = 3.0
)

// GridCell is the side length of one grid cell in world units at zoom 1.
const GridCell float32 = 50

// Camera maps between world coordinates and screen coordinates:
//
//	screen = world*zoom + offset
//
// Offset is in screen pixels, zoom is dimensionless and clamped to
// [MinZoom, MaxZoom].
type Camera struct {
	OffsetX float32
	OffsetY float32
	Zoom    float32
}

// NewCamera returns a camera at the origin with zoom 1.
func NewCamera() Camera { return Camera{Zoom: 1} }

func (c Camera) WorldToScreen(p Pt) Pt {
	return Pt{X: p.X*c.Zoom + c.OffsetX, Y: p.Y*c.Zoom + c.OffsetY}
}

func (c Camera) ScreenToWorld(p Pt) Pt {
	return Pt{X: (p.X - c.OffsetX) / c.Zoom, Y: (p.Y - c.OffsetY) / c.Zoom}
}

// Pan shifts the view by a screen-space delta.
func (c *Camera) Pan(dx, dy float32) {
	c.OffsetX += dx
	c.OffsetY += dy
}

// ClampZoom limits z to the allowed range.
func ClampZoom(z float32) float32 {
	if z < MinZoom {
		return MinZoom
	}
	if z > MaxZoom {
		return MaxZoom
	}
	return z
}

// ZoomAt multiplies the zoom by factor while keeping the world point under
// the given screen anchor stationary. The resulting zoom is clamped; when
// clamping takes hold the anchor invariant still holds for the clamped value.
func (c *Camera) ZoomAt(anchor Pt, factor float32) {
	world := c.ScreenToWorld(anchor)
	c.Zoom = ClampZoom(c.Zoom * factor)
	c.OffsetX = anchor.X - world.X*c.Zoom
	c.OffsetY = anchor.Y - world.Y*c.Zoom
}

// SetZoomAt sets an absolute zoom anchored at a screen point.
func (c *Camera) SetZoomAt(anchor Pt, zoom float32) {
	world := c.ScreenToWorld(anchor)
	c.Zoom = ClampZoom(zoom)
	c.OffsetX = anchor.X - world.X*c.Zoom
	c.OffsetY = anchor.Y - world.Y*c.Zoom
}

// GridToWorld converts grid coordinates to world coordinates.
func GridToWorld(gx, gy float32) Pt {
	return Pt{X: gx * GridCell, Y: gy * GridCell}
}

// WorldToGrid converts world coordinates to fractional grid coordinates.
func WorldToGrid(p Pt) (gx, gy float32) {
	return p.X / GridCell, p.Y / GridCell
}

// SnapToGrid rounds a world point to the nearest grid intersection.
func SnapToGrid(p Pt) Pt {
	return Pt{X: Round(p.X/GridCell) * GridCell, Y: Round(p.Y/GridCell) * GridCell}
}

// glideDuration is how long a programmatic camera move takes.
const glideDuration = 0.5 // seconds

// Glide animates the camera offset from a start to a target with a cubic
// ease-out. It is driven by explicit Advance calls so behavior stays
// deterministic under test; zoom is left untouched during the move.
type Glide struct {
	fromX, fromY float32
	toX, toY     float32
	elapsed      float32
	duration     float32
	active       bool
}

// StartGlide begins a move of the camera offset to (toX, toY).
func StartGlide(c Camera, toX, toY float32) *Glide {
	return &Glide{
		fromX:    c.OffsetX,
		fromY:    c.OffsetY,
		toX:      toX,
		toY:      toY,
		duration: glideDuration,
		active:   true,
	}
}

// Active reports whether the glide is still in progress.
func (g *Glide) Active() bool { return g != nil && g.active }

// Advance steps the animation by dt seconds and applies the interpolated
// offset to the camera. It returns true while the glide is still running.
func (g *Glide) Advance(c *Camera, dt float32) bool {
	if !g.Active() {
		return false
	}
	g.elapsed += dt
	t := g.elapsed / g.duration
	if t >= 1 {
		c.OffsetX = g.toX
		c.OffsetY = g.toY
		g.active = false
		return false
	}
	e := easeOutCubic(t)
	c.OffsetX = g.fromX + (g.toX-g.fromX)*e
	c.OffsetY = g.fromY + (g.toY-g.fromY)*e
	return true
}

func easeOutCubic(t float32) float32 {
	u := 1 - float64(t)
	return float32(1 - u*u*u)
}

// CenterOffset returns the camera offset that places the world point at the
// center of a viewport of the given size, at the camera's current zoom.
func (c Camera) CenterOffset(world Pt, viewport Size) (ox, oy float32) {
	return viewport.W/2 - world.X*c.Zoom, viewport.H/2 - world.Y*c.Zoom
}

// VisibleWorld returns the world-space rectangle covered by a viewport of
// the given size.
func (c Camera) VisibleWorld(viewport Size) Rect {
	tl := c.ScreenToWorld(Pt{0, 0})
	br := c.ScreenToWorld(Pt{viewport.W, viewport.H})
	return Rect{X: tl.X, Y: tl.Y, W: br.X - tl.X, H: br.Y - tl.Y}
}
