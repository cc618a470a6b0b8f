/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// AutosaveCrashSnapshot writes the in-memory project state to a
// timestamped snapshot under the backups folder. It bypasses the normal
// Save path so a half-broken state never overwrites the manifest.
func AutosaveCrashSnapshot(ph *ProjectHandle) (string, error) {
	if ph == nil {
		return "", errors.New("project handle is nil")
	}
	if ph.Root == "" {
		return "", errors.New("project root is empty")
	}
	dir := filepath.Join(ph.Root, BackupsDirName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create backups dir: %w", err)
	}
	b, err := json.MarshalIndent(ph.Project, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}
	stamp := time.Now().Format("20060102-150405")
	path := filepath.Join(dir, fmt.Sprintf("autosave-%s.json", stamp))
	if err := writeFileSync(path, b); err != nil {
		return "", fmt.Errorf("write snapshot: %w", err)
	}
	return path, nil
}
