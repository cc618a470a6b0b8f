/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package storage persists projects on disk. A project is a directory
// holding the plotlines.json manifest, timestamped backups of previous
// manifests, an exports folder, and an embedded SQLite search index
// under .plotlines/. Manifest writes are transactional: temp file plus
// rename, with a backup of the previous manifest taken first.
package storage
