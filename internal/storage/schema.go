/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package storage

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// manifestSchema is the JSON Schema every plotlines.json must satisfy
// before it is trusted. It pins the structural shape; referential
// integrity (branch endpoints etc.) is checked by the scene layer,
// which skips dangling references instead of failing the load.
const manifestSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["name", "continuities"],
  "properties": {
    "name": {"type": "string"},
    "metadata": {
      "type": "object",
      "properties": {
        "author": {"type": "string"},
        "series": {"type": "string"},
        "notes": {"type": "string"}
      }
    },
    "continuities": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["id", "name", "x", "y"],
        "properties": {
          "id": {"type": "string", "minLength": 1},
          "name": {"type": "string"},
          "x": {"type": "number"},
          "y": {"type": "number"},
          "chapters": {
            "type": "array",
            "items": {
              "type": "object",
              "required": ["id", "title", "timestamp"],
              "properties": {
                "id": {"type": "string", "minLength": 1},
                "title": {"type": "string"},
                "timestamp": {"type": "integer"},
                "arcId": {"type": "string"},
                "width": {"type": "integer", "minimum": 0}
              }
            }
          },
          "arcs": {
            "type": "array",
            "items": {
              "type": "object",
              "required": ["id", "name", "color"],
              "properties": {
                "id": {"type": "string", "minLength": 1},
                "name": {"type": "string"},
                "color": {"type": "string", "pattern": "^#[0-9a-fA-F]{6}$"},
                "order": {"type": "integer"}
              }
            }
          }
        }
      }
    },
    "branches": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["id", "startContinuityId", "endContinuityId"],
        "properties": {
          "id": {"type": "string", "minLength": 1},
          "startContinuityId": {"type": "string"},
          "startPosition": {"type": "number"},
          "endContinuityId": {"type": "string"},
          "endPosition": {"type": "number"},
          "lineStyle": {"enum": ["solid", "dashed"]},
          "startEndpointStyle": {"enum": ["dot", "arrow", "none"]},
          "endEndpointStyle": {"enum": ["dot", "arrow", "none"]}
        }
      }
    },
    "lines": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["id", "gridX1", "gridY1", "gridX2", "gridY2"],
        "properties": {
          "id": {"type": "string", "minLength": 1},
          "gridX1": {"type": "number"},
          "gridY1": {"type": "number"},
          "gridX2": {"type": "number"},
          "gridY2": {"type": "number"},
          "lineStyle": {"enum": ["solid", "dashed"]},
          "startEndpointStyle": {"enum": ["dot", "arrow", "none"]},
          "endEndpointStyle": {"enum": ["dot", "arrow", "none"]}
        }
      }
    },
    "textboxes": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["id", "x", "y", "width", "height"],
        "properties": {
          "id": {"type": "string", "minLength": 1},
          "x": {"type": "number"},
          "y": {"type": "number"},
          "width": {"type": "number", "minimum": 0},
          "height": {"type": "number", "minimum": 0},
          "content": {"type": "string"},
          "fontSize": {"type": "number"},
          "alignX": {"enum": ["left", "center", "right"]},
          "alignY": {"enum": ["top", "middle", "bottom"]}
        }
      }
    },
    "viewport": {
      "type": "object",
      "properties": {
        "offsetX": {"type": "number"},
        "offsetY": {"type": "number"},
        "zoom": {"type": "number", "minimum": 0, "maximum": 3.0}
      }
    }
  }
}`

var schemaLoader = gojsonschema.NewStringLoader(manifestSchema)

// ValidateManifest checks raw manifest bytes against the schema and
// returns a single error listing every violation.
func ValidateManifest(data []byte) error {
	res, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewBytesLoader(data))
	if err != nil {
		return fmt.Errorf("validate manifest: %w", err)
	}
	if res.Valid() {
		return nil
	}
	var sb strings.Builder
	sb.WriteString("manifest schema violations:")
	for _, e := range res.Errors() {
		sb.WriteString(" ")
		sb.WriteString(e.String())
		sb.WriteString(";")
	}
	return fmt.Errorf("%s", sb.String())
}
