/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package domain

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestProjectJSONRoundTrip(t *testing.T) {
	p := Project{
		Name: "Saga",
		Continuities: []Continuity{{
			ID: "cont-1", Name: "Main", X: 100, Y: 200,
			Chapters: []Chapter{{ID: "ch-1", Title: "Opening", Timestamp: 1}},
			Arcs:     []Arc{{ID: "arc-1", Name: "Act I", Color: "#ff8800", Order: 0}},
		}},
		Branches: []Branch{{ID: "br-1", StartContinuityID: "cont-1", StartPosition: 2, EndContinuityID: "cont-2", EndPosition: 1, LineStyle: LineStyleDashed}},
		Lines:    []Line{{ID: "ln-1", GridX1: 2, GridY1: 3, GridX2: 5, GridY2: 3, EndEndpointStyle: EndpointArrow}},
		Viewport: Viewport{OffsetX: 10, OffsetY: -4, Zoom: 1.5},
	}
	b, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var q Project
	if err := json.Unmarshal(b, &q); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if q.Name != "Saga" || len(q.Continuities) != 1 || q.Continuities[0].Chapters[0].Title != "Opening" {
		t.Fatalf("round trip mismatch: %+v", q)
	}
	if q.Viewport.Zoom != 1.5 {
		t.Fatalf("viewport zoom lost: %+v", q.Viewport)
	}
}

func TestNewIDPrefix(t *testing.T) {
	id := NewID("cont")
	if !strings.HasPrefix(id, "cont-") {
		t.Fatalf("missing prefix: %q", id)
	}
	if id2 := NewID("cont"); id2 == id {
		t.Fatalf("ids should be unique")
	}
	if !strings.HasPrefix(NewID("  "), "ent-") {
		t.Fatalf("blank kind should fall back to ent")
	}
}

func TestValidateBranch(t *testing.T) {
	ok := Branch{ID: "b", StartContinuityID: "a", EndContinuityID: "c"}
	if err := ValidateBranch(ok); err != nil {
		t.Fatalf("valid branch rejected: %v", err)
	}
	same := Branch{ID: "b", StartContinuityID: "a", EndContinuityID: "a"}
	if err := ValidateBranch(same); err == nil {
		t.Fatalf("same-continuity branch must be rejected")
	}
	missing := Branch{ID: "b", StartContinuityID: "", EndContinuityID: "a"}
	if err := ValidateBranch(missing); err == nil {
		t.Fatalf("branch without start continuity must be rejected")
	}
}

func TestNormalizeStyles(t *testing.T) {
	if NormalizeLineStyle("wavy") != LineStyleSolid {
		t.Fatalf("unknown line style should normalize to solid")
	}
	if NormalizeLineStyle(LineStyleDashed) != LineStyleDashed {
		t.Fatalf("dashed should survive normalization")
	}
	if NormalizeEndpointStyle("star") != EndpointNone {
		t.Fatalf("unknown endpoint style should normalize to none")
	}
	if NormalizeEndpointStyle(EndpointArrow) != EndpointArrow {
		t.Fatalf("arrow should survive normalization")
	}
}
