/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package render

import (
	"plotlines/internal/geom"
	"plotlines/internal/scene"
)

// Padding added on every side of the export bounding box, world units.
const BoundsPadding float32 = 40

// SceneBounds computes the world-space box containing every entity:
// timelines with their title allowance and chapter/arc bands, branches
// with their curve extents, free lines, and textboxes. ok is false for
// an empty scene.
func SceneBounds(sc *scene.Scene) (geom.Rect, bool) {
	var r geom.Rect
	have := false
	add := func(b geom.Rect) {
		if !have {
			r = b
			have = true
			return
		}
		r = r.Union(b)
	}

	for _, t := range sc.Timelines {
		add(t.TitleRect())
		// chapter band above through arc band below, head to arrowhead
		top, bottom := t.BandExtent()
		add(geom.R(t.X, top, t.SpanCells()*geom.GridCell+arrowSize, bottom-top))
	}
	for _, b := range sc.Branches {
		start := sc.TimelineByID(b.StartTimeline)
		end := sc.TimelineByID(b.EndTimeline)
		if start == nil || end == nil {
			continue
		}
		p0, c0, c1, p1 := geom.BranchCurve(start.PosPoint(b.StartPos), end.PosPoint(b.EndPos))
		// control points bound the convex hull of the curve
		add(geom.R(p0.X, p0.Y, 0, 0).UnionPt(c0).UnionPt(c1).UnionPt(p1))
	}
	for _, l := range sc.Lines {
		a := geom.GridToWorld(l.X1, l.Y1)
		b := geom.GridToWorld(l.X2, l.Y2)
		add(geom.R(a.X, a.Y, 0, 0).UnionPt(b))
	}
	for _, tb := range sc.Textboxes {
		add(tb.Rect())
	}

	if !have {
		return geom.Rect{}, false
	}
	return r.Inset(-BoundsPadding, -BoundsPadding), true
}
