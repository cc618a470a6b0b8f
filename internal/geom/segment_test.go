/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package geom

import "testing"

func TestClosestPointOnSegment(t *testing.T) {
	a := Pt{0, 0}
	b := Pt{10, 0}
	p, tt := ClosestPointOnSegment(Pt{5, 7}, a, b)
	if !approx(p.X, 5) || !approx(p.Y, 0) || !approx(tt, 0.5) {
		t.Fatalf("got %v t=%v", p, tt)
	}
	// beyond the end gets clamped
	p, tt = ClosestPointOnSegment(Pt{20, 3}, a, b)
	if p != b || tt != 1 {
		t.Fatalf("clamp to end failed: %v t=%v", p, tt)
	}
	// degenerate segment
	p, tt = ClosestPointOnSegment(Pt{1, 1}, a, a)
	if p != a || tt != 0 {
		t.Fatalf("degenerate segment: %v t=%v", p, tt)
	}
}

func TestDistToSegment(t *testing.T) {
	d := DistToSegment(Pt{5, 4}, Pt{0, 0}, Pt{10, 0})
	if !approx(d, 4) {
		t.Fatalf("dist = %v, want 4", d)
	}
}

func TestCubicBezierEndpoints(t *testing.T) {
	p0, c0, c1, p1 := Pt{0, 0}, Pt{0, 50}, Pt{100, 50}, Pt{100, 100}
	if got := CubicBezierPoint(p0, c0, c1, p1, 0); got != p0 {
		t.Fatalf("t=0 gave %v", got)
	}
	if got := CubicBezierPoint(p0, c0, c1, p1, 1); got != p1 {
		t.Fatalf("t=1 gave %v", got)
	}
}

func TestBranchControlOffsetCapped(t *testing.T) {
	if got := BranchControlOffset(100); !approx(got, 40) {
		t.Fatalf("offset = %v, want 40", got)
	}
	if got := BranchControlOffset(1000); got != maxBranchControl {
		t.Fatalf("offset = %v, want cap %v", got, maxBranchControl)
	}
}

func TestBranchCurveHorizontalDeparture(t *testing.T) {
	p0, c0, c1, p1 := BranchCurve(Pt{0, 0}, Pt{200, 300})
	if c0.Y != p0.Y || c1.Y != p1.Y {
		t.Fatalf("control points not horizontal: c0=%v c1=%v", c0, c1)
	}
	if c0.X <= p0.X || c1.X >= p1.X {
		t.Fatalf("control points point the wrong way: c0=%v c1=%v", c0, c1)
	}
	off := BranchControlOffset(Dist(Pt{0, 0}, Pt{200, 300}))
	if !approx(c0.X, off) || !approx(c1.X, 200-off) {
		t.Fatalf("offset magnitude wrong: c0=%v c1=%v want %v", c0, c1, off)
	}
	// leftward branch flips the offsets
	_, c0, c1, _ = BranchCurve(Pt{200, 300}, Pt{0, 0})
	if c0.X >= 200 || c1.X <= 0 {
		t.Fatalf("leftward branch control points wrong: c0=%v c1=%v", c0, c1)
	}
}

func TestDistToBezierNearCurve(t *testing.T) {
	p0, c0, c1, p1 := BranchCurve(Pt{0, 0}, Pt{0, 200})
	mid := CubicBezierPoint(p0, c0, c1, p1, 0.5)
	if d := DistToBezier(mid, p0, c0, c1, p1); d > 2 {
		t.Fatalf("distance to point on curve = %v", d)
	}
	if d := DistToBezier(Pt{500, 100}, p0, c0, c1, p1); d < 400 {
		t.Fatalf("distance to far point = %v", d)
	}
}

func TestRectHelpers(t *testing.T) {
	r := R(10, 10, 20, 20)
	if !r.Contains(Pt{15, 15}) || r.Contains(Pt{100, 100}) {
		t.Fatal("Contains wrong")
	}
	u := r.Union(R(0, 0, 5, 5))
	if u.X != 0 || u.Y != 0 || u.W != 30 || u.H != 30 {
		t.Fatalf("Union = %v", u)
	}
	g := r.Inset(-5, -5)
	if g.X != 5 || g.W != 30 {
		t.Fatalf("Inset grow = %v", g)
	}
}
