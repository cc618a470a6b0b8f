/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package domain

// This file defines the persisted data model for a Plotlines project: a set
// of continuities (timelines) with chapters and arcs, curved branches between
// continuities, free-floating lines, and textbox annotations, plus the saved
// camera state. It serializes to a human-readable JSON manifest.

// Project represents a timeline diagram project and its metadata.
type Project struct {
	Name         string       `json:"name"`
	Metadata     Metadata     `json:"metadata,omitempty"`
	Continuities []Continuity `json:"continuities"`
	Branches     []Branch     `json:"branches,omitempty"`
	Lines        []Line       `json:"lines,omitempty"`
	Textboxes    []Textbox    `json:"textboxes,omitempty"`
	Viewport     Viewport     `json:"viewport,omitempty"`
}

// Metadata contains optional descriptive metadata for a project.
type Metadata struct {
	Author string `json:"author,omitempty"`
	Series string `json:"series,omitempty"`
	Notes  string `json:"notes,omitempty"`
}

// Continuity is one horizontal timeline: a named sequence of chapters placed
// at a world position, with arcs supplying grouping color and labels.
type Continuity struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	X        float64   `json:"x"`
	Y        float64   `json:"y"`
	Chapters []Chapter `json:"chapters"`
	Arcs     []Arc     `json:"arcs,omitempty"`
}

// Chapter is a titled segment along a continuity. Width is in grid units; a
// zero width means "derive from the title length". Timestamp orders chapters
// within their continuity.
type Chapter struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Timestamp int64  `json:"timestamp"`
	ArcID     string `json:"arcId,omitempty"`
	Width     int    `json:"width,omitempty"`
}

// Arc is a named, colored grouping applied to a contiguous run of chapters.
// Order controls presentation in listings; grouping itself is derived from
// the chapters' arc references, not stored.
type Arc struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"` // #rrggbb
	Order int    `json:"order"`
}

// Stroke styles shared by branches and lines.
const (
	LineStyleSolid  = "solid"
	LineStyleDashed = "dashed"
)

// Endpoint glyph styles shared by branches and lines.
const (
	EndpointDot   = "dot"
	EndpointArrow = "arrow"
	EndpointNone  = "none"
)

// Branch is a curved connector between two different continuities at
// specific grid positions along each.
type Branch struct {
	ID                 string  `json:"id"`
	StartContinuityID  string  `json:"startContinuityId"`
	StartPosition      float64 `json:"startPosition"`
	EndContinuityID    string  `json:"endContinuityId"`
	EndPosition        float64 `json:"endPosition"`
	LineStyle          string  `json:"lineStyle,omitempty"`
	StartEndpointStyle string  `json:"startEndpointStyle,omitempty"`
	EndEndpointStyle   string  `json:"endEndpointStyle,omitempty"`
}

// Line is a free-floating straight connector between two grid points.
type Line struct {
	ID                 string  `json:"id"`
	GridX1             float64 `json:"gridX1"`
	GridY1             float64 `json:"gridY1"`
	GridX2             float64 `json:"gridX2"`
	GridY2             float64 `json:"gridY2"`
	LineStyle          string  `json:"lineStyle,omitempty"`
	StartEndpointStyle string  `json:"startEndpointStyle,omitempty"`
	EndEndpointStyle   string  `json:"endEndpointStyle,omitempty"`
}

// Textbox alignment values.
const (
	AlignLeft   = "left"
	AlignCenter = "center"
	AlignRight  = "right"
	AlignTop    = "top"
	AlignMiddle = "middle"
	AlignBottom = "bottom"
)

// Textbox is a positioned, resizable annotation in world units. Content may
// carry simple inline markup; rendering treats it as plain wrapped text plus
// style runs.
type Textbox struct {
	ID       string  `json:"id"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	Content  string  `json:"content"`
	FontSize float64 `json:"fontSize,omitempty"`
	AlignX   string  `json:"alignX,omitempty"`
	AlignY   string  `json:"alignY,omitempty"`
}

// Viewport is the saved camera state: world-to-screen translation in screen
// pixels and the zoom scale factor.
type Viewport struct {
	OffsetX float64 `json:"offsetX"`
	OffsetY float64 `json:"offsetY"`
	Zoom    float64 `json:"zoom"`
}
