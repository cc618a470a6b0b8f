package outline

import (
	"testing"

	"plotlines/internal/palette"
)

const sampleOutline = `# Prime Timeline
- The Long Winter [Winter Arc]
- Thaw [Winter Arc]
- New Dawn

; check pacing of the thaw chapters

Timeline: Mirror Timeline
* Inverted Winter [Shadow Arc]
`

func TestParseTimelinesChaptersAndArcs(t *testing.T) {
	o, errs := Parse(sampleOutline)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if len(o.Timelines) != 2 {
		t.Fatalf("expected 2 timelines, got %d", len(o.Timelines))
	}
	tl := o.Timelines[0]
	if tl.Name != "Prime Timeline" || len(tl.Chapters) != 3 {
		t.Fatalf("first timeline wrong: %+v", tl)
	}
	if tl.Chapters[0].Title != "The Long Winter" || tl.Chapters[0].Arc != "Winter Arc" {
		t.Fatalf("arc tag not parsed: %+v", tl.Chapters[0])
	}
	if tl.Chapters[2].Arc != "" {
		t.Fatalf("untagged chapter gained an arc: %+v", tl.Chapters[2])
	}
	if o.Timelines[1].Name != "Mirror Timeline" || o.Timelines[1].Chapters[0].Title != "Inverted Winter" {
		t.Fatalf("alt heading or star chapter wrong: %+v", o.Timelines[1])
	}
	if len(o.Notes) != 1 || o.Notes[0].Text != "check pacing of the thaw chapters" {
		t.Fatalf("note not parsed: %+v", o.Notes)
	}
}

func TestParseReportsOrphanChapterAndUnknownLines(t *testing.T) {
	o, errs := Parse("- orphan chapter\nwhat is this\n# T\n- ok\n")
	if len(errs) != 2 {
		t.Fatalf("expected 2 errors, got %v", errs)
	}
	if errs[0].Line != 1 || errs[1].Line != 2 {
		t.Fatalf("error line numbers wrong: %v", errs)
	}
	if len(o.Timelines) != 1 || len(o.Timelines[0].Chapters) != 1 {
		t.Fatalf("valid content should survive errors: %+v", o.Timelines)
	}
}

func TestParseEmptyHeading(t *testing.T) {
	o, errs := Parse("#\n- c1\n")
	if len(errs) != 1 {
		t.Fatalf("expected 1 error for empty heading, got %v", errs)
	}
	if len(o.Timelines) != 1 || o.Timelines[0].Name != "Untitled" {
		t.Fatalf("empty heading should fall back to Untitled: %+v", o.Timelines)
	}
}

func TestToProjectAssignsArcsAndTimestamps(t *testing.T) {
	o, errs := Parse(sampleOutline)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	p := o.ToProject("Imported", palette.Default())
	if p.Name != "Imported" || len(p.Continuities) != 2 {
		t.Fatalf("project shape wrong: %+v", p)
	}
	c := p.Continuities[0]
	if len(c.Chapters) != 3 || len(c.Arcs) != 1 {
		t.Fatalf("expected 3 chapters and 1 arc, got %d/%d", len(c.Chapters), len(c.Arcs))
	}
	if c.Chapters[0].Timestamp != 1 || c.Chapters[2].Timestamp != 3 {
		t.Fatalf("timestamps must follow file order: %+v", c.Chapters)
	}
	if c.Chapters[0].ArcID != c.Arcs[0].ID || c.Chapters[1].ArcID != c.Arcs[0].ID {
		t.Fatalf("winter chapters must share the arc id")
	}
	if c.Chapters[2].ArcID != "" {
		t.Fatalf("untagged chapter must stay unassigned")
	}
	if c.Arcs[0].Color != palette.Default().ColorFor(0) {
		t.Fatalf("arc color must come from the palette")
	}
	if p.Continuities[1].Y != timelineSpacing {
		t.Fatalf("second timeline should be offset vertically, got %v", p.Continuities[1].Y)
	}
	if len(p.Textboxes) != 1 || p.Textboxes[0].Content != "check pacing of the thaw chapters" {
		t.Fatalf("note should become a textbox: %+v", p.Textboxes)
	}
}
