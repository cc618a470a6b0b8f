/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package geom

import (
	"math"
	"testing"
)

func approx(a, b float32) bool {
	return math.Abs(float64(a-b)) < 1e-3
}

func TestWorldScreenRoundTrip(t *testing.T) {
	c := Camera{OffsetX: 123, OffsetY: -45, Zoom: 1.7}
	for _, p := range []Pt{{0, 0}, {100, 250}, {-33.5, 7.25}} {
		got := c.ScreenToWorld(c.WorldToScreen(p))
		if !approx(got.X, p.X) || !approx(got.Y, p.Y) {
			t.Fatalf("round trip of %v gave %v", p, got)
		}
	}
}

func TestZoomAtKeepsAnchorStationary(t *testing.T) {
	c := Camera{OffsetX: 40, OffsetY: 60, Zoom: 1}
	anchor := Pt{300, 200}
	before := c.ScreenToWorld(anchor)
	c.ZoomAt(anchor, 1.5)
	after := c.ScreenToWorld(anchor)
	if !approx(before.X, after.X) || !approx(before.Y, after.Y) {
		t.Fatalf("anchor moved: before %v after %v", before, after)
	}
	if !approx(c.Zoom, 1.5) {
		t.Fatalf("zoom = %v, want 1.5", c.Zoom)
	}
}

func TestSetZoomAtAbsoluteAnchored(t *testing.T) {
	c := Camera{OffsetX: -120, OffsetY: 80, Zoom: 2.5}
	anchor := Pt{250, 150}
	before := c.ScreenToWorld(anchor)
	c.SetZoomAt(anchor, 1)
	after := c.ScreenToWorld(anchor)
	if !approx(before.X, after.X) || !approx(before.Y, after.Y) {
		t.Fatalf("anchor moved: before %v after %v", before, after)
	}
	if !approx(c.Zoom, 1) {
		t.Fatalf("zoom = %v, want 1", c.Zoom)
	}
	// absolute set clamps like the multiplicative path
	c.SetZoomAt(anchor, 99)
	if !approx(c.Zoom, MaxZoom) {
		t.Fatalf("zoom = %v, want clamp %v", c.Zoom, MaxZoom)
	}
}

func TestZoomClamped(t *testing.T) {
	c := NewCamera()
	c.ZoomAt(Pt{0, 0}, 100)
	if c.Zoom != MaxZoom {
		t.Fatalf("zoom = %v, want clamped to %v", c.Zoom, MaxZoom)
	}
	c.ZoomAt(Pt{0, 0}, 0.0001)
	if c.Zoom != MinZoom {
		t.Fatalf("zoom = %v, want clamped to %v", c.Zoom, MinZoom)
	}
}

func TestZoomAtClampedStillAnchored(t *testing.T) {
	c := Camera{OffsetX: 10, OffsetY: 20, Zoom: 2.5}
	anchor := Pt{100, 100}
	before := c.ScreenToWorld(anchor)
	c.ZoomAt(anchor, 10) // clamps at MaxZoom
	after := c.ScreenToWorld(anchor)
	if !approx(before.X, after.X) || !approx(before.Y, after.Y) {
		t.Fatalf("anchor moved under clamped zoom: before %v after %v", before, after)
	}
}

func TestPan(t *testing.T) {
	c := NewCamera()
	c.Pan(15, -8)
	if c.OffsetX != 15 || c.OffsetY != -8 {
		t.Fatalf("offset = (%v,%v)", c.OffsetX, c.OffsetY)
	}
}

func TestGridConversions(t *testing.T) {
	p := GridToWorld(3, -2)
	if p.X != 3*GridCell || p.Y != -2*GridCell {
		t.Fatalf("GridToWorld = %v", p)
	}
	gx, gy := WorldToGrid(p)
	if gx != 3 || gy != -2 {
		t.Fatalf("WorldToGrid = %v,%v", gx, gy)
	}
	snapped := SnapToGrid(Pt{GridCell*2 + 12, GridCell*5 - 12})
	if snapped.X != GridCell*2 || snapped.Y != GridCell*5 {
		t.Fatalf("SnapToGrid = %v", snapped)
	}
}

func TestGlideReachesTargetAndEasesOut(t *testing.T) {
	c := Camera{Zoom: 1}
	g := StartGlide(c, 100, 200)
	// first step must cover more ground than a linear move would
	g.Advance(&c, 0.1)
	if c.OffsetX <= 100*0.1/0.5 {
		t.Fatalf("ease-out start too slow: offset %v", c.OffsetX)
	}
	for i := 0; i < 20 && g.Active(); i++ {
		g.Advance(&c, 0.1)
	}
	if g.Active() {
		t.Fatal("glide still active after full duration")
	}
	if c.OffsetX != 100 || c.OffsetY != 200 {
		t.Fatalf("glide ended at (%v,%v)", c.OffsetX, c.OffsetY)
	}
}

func TestGlideDeterministic(t *testing.T) {
	run := func() (float32, float32) {
		c := Camera{Zoom: 1}
		g := StartGlide(c, -70, 35)
		g.Advance(&c, 0.2)
		g.Advance(&c, 0.2)
		return c.OffsetX, c.OffsetY
	}
	x1, y1 := run()
	x2, y2 := run()
	if x1 != x2 || y1 != y2 {
		t.Fatalf("glide not deterministic: (%v,%v) vs (%v,%v)", x1, y1, x2, y2)
	}
}

func TestCenterOffset(t *testing.T) {
	c := Camera{Zoom: 2}
	ox, oy := c.CenterOffset(Pt{100, 50}, Size{800, 600})
	c.OffsetX, c.OffsetY = ox, oy
	got := c.WorldToScreen(Pt{100, 50})
	if !approx(got.X, 400) || !approx(got.Y, 300) {
		t.Fatalf("centered point at %v, want (400,300)", got)
	}
}
