/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package scene

import "plotlines/internal/geom"

// MenuAction is one of the floating menu's placement actions.
type MenuAction int

const (
	MenuAddTimeline MenuAction = iota
	MenuAddChapter
	MenuAddBranch
	MenuAddTextbox
	MenuAddLine
	menuActionCount
)

// Labels in display order, top option first.
var menuLabels = [menuActionCount]string{
	"Add timeline",
	"Add chapter",
	"Add branch",
	"Add textbox",
	"Add line",
}

// MenuActions returns every action in display order, top option first.
func MenuActions() []MenuAction {
	out := make([]MenuAction, menuActionCount)
	for i := range out {
		out[i] = MenuAction(i)
	}
	return out
}

// Label returns the display text for an action.
func (a MenuAction) Label() string {
	if a < 0 || a >= menuActionCount {
		return ""
	}
	return menuLabels[a]
}

// Menu geometry, screen pixels. The menu lives on a fixed screen layer
// and never participates in the world transform.
const (
	menuButtonR  float32 = 24
	menuMargin   float32 = 20
	menuOptionW  float32 = 120
	menuOptionH  float32 = 32
	menuOptionG  float32 = 8
	menuStep     float32 = 0.12
	menuHitGate  float32 = 0.3
)

// Menu is the floating action button and its expandable option list.
// The open/close transition advances by a fixed step per frame rather
// than wall-clock time, so it is deterministic under test.
type Menu struct {
	Open     bool
	Progress float32 // 0 closed .. 1 open
	Hovered  int     // option index, -1 none
}

func NewMenu() *Menu { return &Menu{Hovered: -1} }

// Toggle flips the target state; the animation runs toward it on
// subsequent Advance calls.
func (m *Menu) Toggle() { m.Open = !m.Open }

// Animating reports whether Progress has not yet reached its target.
func (m *Menu) Animating() bool {
	if m.Open {
		return m.Progress < 1
	}
	return m.Progress > 0
}

// Advance steps the transition one frame. Returns true while still
// animating.
func (m *Menu) Advance() bool {
	if m.Open {
		m.Progress += menuStep
		if m.Progress >= 1 {
			m.Progress = 1
		}
	} else {
		m.Progress -= menuStep
		if m.Progress <= 0 {
			m.Progress = 0
			m.Hovered = -1
		}
	}
	return m.Animating()
}

// ButtonRect returns the circular button's bounding square at the
// bottom-right corner of the viewport.
func (m *Menu) ButtonRect(viewport geom.Size) geom.Rect {
	return geom.R(
		viewport.W-menuMargin-2*menuButtonR,
		viewport.H-menuMargin-2*menuButtonR,
		2*menuButtonR, 2*menuButtonR,
	)
}

// OptionRect returns option i's rectangle. Options stack upward from
// the button and slide in with the expansion progress.
func (m *Menu) OptionRect(i int, viewport geom.Size) geom.Rect {
	btn := m.ButtonRect(viewport)
	closed := btn.Y
	open := btn.Y - float32(i+1)*(menuOptionH+menuOptionG)
	y := closed + (open-closed)*m.Progress
	return geom.R(btn.X+2*menuButtonR-menuOptionW, y, menuOptionW, menuOptionH)
}

// HitButton tests the round button itself, always active.
func (m *Menu) HitButton(p geom.Pt, viewport geom.Size) bool {
	b := m.ButtonRect(viewport)
	center := geom.Pt{X: b.X + menuButtonR, Y: b.Y + menuButtonR}
	return geom.Dist(p, center) <= menuButtonR
}

// HitOption tests the option list. Options are inert until the
// expansion passes the gate so re-closing early never selects one.
func (m *Menu) HitOption(p geom.Pt, viewport geom.Size) (MenuAction, bool) {
	if !m.Open || m.Progress <= menuHitGate {
		return 0, false
	}
	for i := 0; i < int(menuActionCount); i++ {
		if m.OptionRect(i, viewport).Contains(p) {
			return MenuAction(i), true
		}
	}
	return 0, false
}

// UpdateHover recomputes the hovered option under the same gating as
// HitOption.
func (m *Menu) UpdateHover(p geom.Pt, viewport geom.Size) {
	m.Hovered = -1
	if a, ok := m.HitOption(p, viewport); ok {
		m.Hovered = int(a)
	}
}
