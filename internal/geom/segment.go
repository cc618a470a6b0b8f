/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package geom

// ClosestPointOnSegment projects p onto the segment a..b and returns the
// closest point together with the parameter t in [0,1].
func ClosestPointOnSegment(p, a, b Pt) (Pt, float32) {
	dx := b.X - a.X
	dy := b.Y - a.Y
	lenSq := dx*dx + dy*dy
	if lenSq == 0 {
		return a, 0
	}
	t := ((p.X-a.X)*dx + (p.Y-a.Y)*dy) / lenSq
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return Pt{X: a.X + t*dx, Y: a.Y + t*dy}, t
}

// DistToSegment returns the distance from p to the segment a..b.
func DistToSegment(p, a, b Pt) float32 {
	q, _ := ClosestPointOnSegment(p, a, b)
	return Dist(p, q)
}

// CubicBezierPoint evaluates a cubic bezier at t in [0,1].
func CubicBezierPoint(p0, c0, c1, p1 Pt, t float32) Pt {
	u := 1 - t
	b0 := u * u * u
	b1 := 3 * u * u * t
	b2 := 3 * u * t * t
	b3 := t * t * t
	return Pt{
		X: b0*p0.X + b1*c0.X + b2*c1.X + b3*p1.X,
		Y: b0*p0.Y + b1*c0.Y + b2*c1.Y + b3*p1.Y,
	}
}

// maxBranchControl caps how far branch control points extend horizontally.
const maxBranchControl float32 = 100

// BranchControlOffset computes the horizontal control-point offset for a
// branch curve between two endpoints a distance d apart.
func BranchControlOffset(d float32) float32 {
	off := d * 0.4
	if off > maxBranchControl {
		off = maxBranchControl
	}
	return off
}

// BranchCurve returns the four control points of a branch drawn between two
// timelines. Control points extend horizontally from each endpoint so the
// curve leaves and enters each timeline along its direction of travel,
// producing the S shape.
func BranchCurve(start, end Pt) (p0, c0, c1, p1 Pt) {
	off := BranchControlOffset(Dist(start, end))
	dir := float32(1)
	if end.X < start.X {
		dir = -1
	}
	p0 = start
	p1 = end
	c0 = Pt{X: start.X + dir*off, Y: start.Y}
	c1 = Pt{X: end.X - dir*off, Y: end.Y}
	return
}

// DistToBezier approximates the distance from p to a cubic bezier by
// sampling the curve at fixed steps. Good enough for hit-testing.
func DistToBezier(p, p0, c0, c1, p1 Pt) float32 {
	const steps = 24
	best := Dist(p, p0)
	prev := p0
	for i := 1; i <= steps; i++ {
		t := float32(i) / steps
		q := CubicBezierPoint(p0, c0, c1, p1, t)
		if d := DistToSegment(p, prev, q); d < best {
			best = d
		}
		prev = q
	}
	return best
}
