/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package scene

import "plotlines/internal/geom"

// Interaction timing and tolerance constants. Distances are screen
// pixels, times are seconds.
const (
	dragArmDelay   float32 = 0.150
	dblClickWindow float32 = 0.300
	dblClickDist   float32 = 10
	lineHitTol     float32 = 8
	endpointHitTol float32 = 10
	handleBand     float32 = 8
	slotHitTol     float32 = 12
	hoverBand      float32 = 60

	minTextboxW float32 = 50
	minTextboxH float32 = 30
)

// DragKind identifies what an armed or active drag is moving.
type DragKind int

const (
	DragTimeline DragKind = iota
	DragChapter
	DragArc
	DragTextbox
	DragTextboxHandle
	DragLineBody
	DragLineEndpoint
)

// Handle names a textbox resize handle.
type Handle int

const (
	HandleNone Handle = iota
	HandleN
	HandleS
	HandleE
	HandleW
	HandleNE
	HandleNW
	HandleSE
	HandleSW
)

func (h Handle) horizontal() bool {
	switch h {
	case HandleE, HandleW, HandleNE, HandleNW, HandleSE, HandleSW:
		return true
	}
	return false
}

func (h Handle) vertical() bool {
	switch h {
	case HandleN, HandleS, HandleNE, HandleNW, HandleSE, HandleSW:
		return true
	}
	return false
}

func (h Handle) west() bool { return h == HandleW || h == HandleNW || h == HandleSW }
func (h Handle) north() bool {
	return h == HandleN || h == HandleNE || h == HandleNW
}

// PlacementKind selects one of the placement workflows toggled from the
// floating menu.
type PlacementKind int

const (
	PlaceChapter PlacementKind = iota
	PlaceBranch
	PlaceLine
	PlaceTextbox
)

// dragTarget carries everything needed to run a drag once it activates.
type dragTarget struct {
	Kind       DragKind
	TimelineID string
	ChapterID  string
	ArcKey     string
	ArcID      string
	TextboxID  string
	LineID     string
	Handle     Handle
	Endpoint   int // 1 or 2 for line endpoint drags

	// snapshot taken at pointer-down, in world or grid units as the
	// kind requires
	downWorld geom.Pt
	origX     float32
	origY     float32
	origW     float32
	origH     float32
	origX2    float32
	origY2    float32
	origIndex int
	origCells []float32 // per-chapter grid positions for arc drags
}

// Gesture is the single interaction state value. Exactly one variant is
// live at a time, which keeps the flag combinations that plague
// hand-rolled pointer code impossible by construction.
type Gesture interface{ gesture() }

// Idle means no pointer interaction is in progress.
type Idle struct{}

// Panning drags the camera 1:1 with the pointer.
type Panning struct{ Last geom.Pt }

// ArmedDrag is the 150ms window between pointer-down on a draggable and
// the drag activating. Pointer-up inside the window cancels it so a
// quick second click can be recognized as a double-click instead.
type ArmedDrag struct {
	Target  dragTarget
	ArmedAt float32 // engine clock at pointer-down
	Down    geom.Pt // screen position
}

// ActiveDrag is a live drag mutating the scene on every pointer move.
type ActiveDrag struct {
	Target dragTarget
}

// Placement is an armed placement workflow. HaveFirst distinguishes the
// two steps of branch and line insertion.
type Placement struct {
	Kind          PlacementKind
	HaveFirst     bool
	FirstTimeline string
	FirstPos      float32
	FirstGX       float32
	FirstGY       float32
}

func (Idle) gesture()       {}
func (Panning) gesture()    {}
func (ArmedDrag) gesture()  {}
func (ActiveDrag) gesture() {}
func (Placement) gesture()  {}

// SlotHighlight marks the insertion slot nearest to an in-progress
// chapter or arc drag. Reachable selects the green "will commit here"
// rendering over the red "too far" one.
type SlotHighlight struct {
	TimelineID string
	Index      int
	Cell       float32 // grid position of the slot, for drawing
	Reachable  bool
}

// Hover is the transient hover state recomputed on every pointer move.
type Hover struct {
	// placement previews
	SlotTimeline string
	SlotIndex    int
	SlotOK       bool
	GridX, GridY float32
	GridOK       bool

	// drag feedback
	Slot *SlotHighlight

	// timeline proximity, reported externally
	TimelineID   string
	TimelineSide string // "above" or "below"
}
