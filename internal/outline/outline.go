/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package outline imports plain-text plot outlines into a project.
package outline

import (
	"fmt"

	"plotlines/internal/domain"
	"plotlines/internal/palette"
)

// Outline is the parsed form of a text outline before it becomes a
// project.
type Outline struct {
	Timelines []Timeline
	Notes     []Note
}

// Timeline is one "# name" section with its chapters in file order.
type Timeline struct {
	Name     string
	Chapters []Chapter
	LineNo   int
}

// Chapter is one "- title" entry, optionally tagged with an arc name.
type Chapter struct {
	Title  string
	Arc    string
	LineNo int
}

// Note is a "; text" line; the importer turns notes into textboxes.
type Note struct {
	Text   string
	LineNo int
}

// Error is a parse problem with its source position.
type Error struct {
	Line    int
	Message string
}

func (e Error) Error() string { return fmt.Sprintf("line %d: %s", e.Line, e.Message) }

// timelineSpacing is the vertical world distance between imported
// timelines. noteSpacing stacks note textboxes below the last timeline.
const (
	timelineSpacing = 200.0
	noteWidth       = 240.0
	noteHeight      = 60.0
	noteSpacing     = 80.0
)

// ToProject converts a parsed outline into a manifest. Chapters are
// timestamped in file order; arcs get stable ids per timeline and
// colors cycled from the palette.
func (o Outline) ToProject(name string, pal palette.Palette) domain.Project {
	p := domain.Project{Name: name, Continuities: []domain.Continuity{}}
	for ti, tl := range o.Timelines {
		c := domain.Continuity{
			ID:   domain.NewID("cont"),
			Name: tl.Name,
			X:    0,
			Y:    float64(ti) * timelineSpacing,
		}
		arcIDs := map[string]string{}
		var arcs []domain.Arc
		for ci, ch := range tl.Chapters {
			dch := domain.Chapter{
				ID:        domain.NewID("chap"),
				Title:     ch.Title,
				Timestamp: int64(ci + 1),
			}
			if ch.Arc != "" {
				id, ok := arcIDs[ch.Arc]
				if !ok {
					id = domain.NewID("arc")
					arcIDs[ch.Arc] = id
					arcs = append(arcs, domain.Arc{
						ID:    id,
						Name:  ch.Arc,
						Color: pal.ColorFor(len(arcs)),
						Order: len(arcs),
					})
				}
				dch.ArcID = id
			}
			c.Chapters = append(c.Chapters, dch)
		}
		c.Arcs = arcs
		p.Continuities = append(p.Continuities, c)
	}
	baseY := float64(len(o.Timelines)) * timelineSpacing
	for ni, n := range o.Notes {
		p.Textboxes = append(p.Textboxes, domain.Textbox{
			ID:      domain.NewID("tbox"),
			X:       0,
			Y:       baseY + float64(ni)*noteSpacing,
			Width:   noteWidth,
			Height:  noteHeight,
			Content: n.Text,
		})
	}
	return p
}
