/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package domain

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// NewID returns a fresh entity id with a short kind prefix, e.g. "cont-3f2a…".
// The prefix keeps manifests and logs readable when ids are mixed.
func NewID(kind string) string {
	kind = strings.TrimSpace(kind)
	if kind == "" {
		kind = "ent"
	}
	return fmt.Sprintf("%s-%s", kind, uuid.NewString())
}

// ValidateBranch reports whether a branch record is structurally usable:
// both continuity references present and distinct. Same-continuity branches
// are invalid by definition.
func ValidateBranch(b Branch) error {
	if strings.TrimSpace(b.StartContinuityID) == "" || strings.TrimSpace(b.EndContinuityID) == "" {
		return fmt.Errorf("branch %s: missing continuity reference", b.ID)
	}
	if b.StartContinuityID == b.EndContinuityID {
		return fmt.Errorf("branch %s: start and end on the same continuity", b.ID)
	}
	return nil
}

// NormalizeLineStyle maps unknown stroke styles to solid.
func NormalizeLineStyle(s string) string {
	if s == LineStyleDashed {
		return s
	}
	return LineStyleSolid
}

// NormalizeEndpointStyle maps unknown glyph styles to none.
func NormalizeEndpointStyle(s string) string {
	switch s {
	case EndpointDot, EndpointArrow:
		return s
	}
	return EndpointNone
}
