/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package scene

import (
	"testing"

	"plotlines/internal/domain"
)

func TestChapterWidth(t *testing.T) {
	cases := []struct {
		title    string
		explicit int
		want     float32
	}{
		{"", 0, 1},
		{"Intro", 0, 1},  // 5 runes
		{"Intro!", 0, 2}, // 6 runes
		{"A very long chapter title", 0, 5},
		{"Intro", 3, 3}, // explicit override wins
	}
	for _, c := range cases {
		if got := ChapterWidth(c.title, c.explicit); got != c.want {
			t.Fatalf("ChapterWidth(%q, %d) = %v, want %v", c.title, c.explicit, got, c.want)
		}
	}
}

func TestSetChaptersLayout(t *testing.T) {
	s := New()
	s.AddTimeline("t1", "Main", 0, 0)
	s.SetChapters("t1", []domain.Chapter{
		{ID: "b", Title: "Two", Timestamp: 20},
		{ID: "a", Title: "One", Timestamp: 10},
	}, nil)

	tl := s.TimelineByID("t1")
	if len(tl.Chapters) != 4 {
		t.Fatalf("got %d chapters, want Head + 2 + Tail", len(tl.Chapters))
	}
	if !tl.Chapters[0].Head || tl.Chapters[0].X != 0 || tl.Chapters[0].Width != 1 {
		t.Fatalf("bad head: %+v", tl.Chapters[0])
	}
	// sorted by timestamp, packed from grid 1
	if tl.Chapters[1].ID != "a" || tl.Chapters[1].X != 1 {
		t.Fatalf("bad first chapter: %+v", tl.Chapters[1])
	}
	if tl.Chapters[2].ID != "b" || tl.Chapters[2].X != 2 {
		t.Fatalf("bad second chapter: %+v", tl.Chapters[2])
	}
	tail := tl.Chapters[3]
	if !tail.Tail || tail.X != 3 {
		t.Fatalf("bad tail: %+v", tail)
	}
	if tl.SpanCells() != 4 {
		t.Fatalf("span = %v, want 4", tl.SpanCells())
	}
}

func TestEmptyTimelineHasHeadAndTail(t *testing.T) {
	s := New()
	tl := s.AddTimeline("t1", "Main", 0, 0)
	if len(tl.Chapters) != 2 || !tl.Chapters[0].Head || !tl.Chapters[1].Tail {
		t.Fatalf("chapters = %+v", tl.Chapters)
	}
	if tl.SlotCount() != 1 || tl.SlotCell(0) != 1 {
		t.Fatalf("slots: count=%d cell0=%v", tl.SlotCount(), tl.SlotCell(0))
	}
}

func TestArcGroupingSingletons(t *testing.T) {
	s := New()
	s.AddTimeline("t1", "Main", 0, 0)
	s.SetChapters("t1", []domain.Chapter{
		{ID: "A", Title: "A", Timestamp: 1, ArcID: "arc1"},
		{ID: "B", Title: "B", Timestamp: 2, ArcID: "arc1"},
		{ID: "C", Title: "C", Timestamp: 3},
		{ID: "D", Title: "D", Timestamp: 4, ArcID: "arc2"},
		{ID: "E", Title: "E", Timestamp: 5},
	}, nil)

	groups := s.TimelineByID("t1").ArcGroups()
	if len(groups) != 4 {
		t.Fatalf("got %d groups, want 4", len(groups))
	}
	if len(groups[0].Chapters) != 2 || groups[0].ArcID != "arc1" {
		t.Fatalf("group 0 = %+v", groups[0])
	}
	// the two unassigned chapters stay separate, keyed by their own ids
	if groups[1].Key != "C" || groups[3].Key != "E" {
		t.Fatalf("unassigned groups merged: %+v, %+v", groups[1], groups[3])
	}
	if groups[2].ArcID != "arc2" {
		t.Fatalf("group 2 = %+v", groups[2])
	}
}

func TestSetBranchesSkipsInvalid(t *testing.T) {
	s := New()
	s.AddTimeline("t1", "One", 0, 0)
	s.AddTimeline("t2", "Two", 0, 300)
	s.SetBranches([]domain.Branch{
		{ID: "ok", StartContinuityID: "t1", EndContinuityID: "t2", StartPosition: 1, EndPosition: 2},
		{ID: "self", StartContinuityID: "t1", EndContinuityID: "t1"},
		{ID: "dangling", StartContinuityID: "t1", EndContinuityID: "ghost"},
	})
	if len(s.Branches) != 1 || s.Branches[0].ID != "ok" {
		t.Fatalf("branches = %+v", s.Branches)
	}
}

func TestSetTextboxesClampsMinimum(t *testing.T) {
	s := New()
	s.SetTextboxes([]domain.Textbox{{ID: "b1", Width: 10, Height: 5, FontSize: 0}})
	b := s.Textboxes[0]
	if b.Width != minTextboxW || b.Height != minTextboxH {
		t.Fatalf("size = %vx%v", b.Width, b.Height)
	}
	if b.FontSize <= 0 {
		t.Fatalf("font size not defaulted: %v", b.FontSize)
	}
}

func TestRemoveTimelineDropsItsBranches(t *testing.T) {
	s := New()
	s.AddTimeline("t1", "One", 0, 0)
	s.AddTimeline("t2", "Two", 0, 300)
	s.AddTimeline("t3", "Three", 0, 600)
	s.SetBranches([]domain.Branch{
		{ID: "b12", StartContinuityID: "t1", EndContinuityID: "t2"},
		{ID: "b23", StartContinuityID: "t2", EndContinuityID: "t3"},
	})
	s.RemoveTimeline("t1")
	if s.TimelineByID("t1") != nil {
		t.Fatal("timeline not removed")
	}
	if len(s.Branches) != 1 || s.Branches[0].ID != "b23" {
		t.Fatalf("branches = %+v", s.Branches)
	}
}

func TestFromProject(t *testing.T) {
	p := &domain.Project{
		Name: "demo",
		Continuities: []domain.Continuity{
			{ID: "t1", Name: "Main", X: 100, Y: 200, Chapters: []domain.Chapter{
				{ID: "c1", Title: "One", Timestamp: 1, ArcID: "a1"},
			}, Arcs: []domain.Arc{{ID: "a1", Name: "Arc", Color: "#ff0000"}}},
		},
		Lines:     []domain.Line{{ID: "l1", GridX1: 1, GridY1: 2, GridX2: 3, GridY2: 4}},
		Textboxes: []domain.Textbox{{ID: "b1", X: 5, Y: 6, Width: 100, Height: 60}},
	}
	s := FromProject(p)
	tl := s.TimelineByID("t1")
	if tl == nil || tl.X != 100 || tl.Y != 200 {
		t.Fatalf("timeline = %+v", tl)
	}
	if len(tl.Ordinary()) != 1 || tl.Arcs["a1"].Color != "#ff0000" {
		t.Fatalf("chapters/arcs not carried over")
	}
	if len(s.Lines) != 1 || len(s.Textboxes) != 1 {
		t.Fatalf("lines/textboxes not carried over")
	}
}
