/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"log/slog"

	applog "plotlines/internal/log"
)

// SearchQuery describes a full-text query against the project index.
// Text is required; the remaining fields narrow the result set.
type SearchQuery struct {
	Text         string
	Types        []string // e.g. "timeline", "chapter", "arc", "textbox"
	ContinuityID string
	Limit        int
	Offset       int
}

// SearchResult is one matched document with a match snippet.
type SearchResult struct {
	DocID        int64
	Type         string
	Path         string
	ContinuityID string
	EntityID     string
	Snippet      string
}

// SearchProject opens the project's index and runs the query. Callers
// holding a db open already should use Search directly.
func SearchProject(ctx context.Context, projectRoot string, q SearchQuery) ([]SearchResult, error) {
	db, err := InitOrOpenIndex(projectRoot)
	if err != nil {
		return nil, err
	}
	defer db.Close()
	return Search(ctx, db, q)
}

// Search runs an FTS query over the project index and returns matching
// documents ordered by relevance.
func Search(ctx context.Context, db *sql.DB, q SearchQuery) ([]SearchResult, error) {
	l := applog.WithOperation(applog.WithComponent("storage"), "search")
	text := strings.TrimSpace(q.Text)
	if text == "" {
		return nil, errors.New("search text is required")
	}
	limit := q.Limit
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	offset := q.Offset
	if offset < 0 {
		offset = 0
	}

	var sb strings.Builder
	args := make([]any, 0, 8)
	sb.WriteString(`SELECT d.doc_id, d.type, d.path,
		COALESCE(d.continuity_id, ''), COALESCE(d.entity_id, ''),
		snippet(fts_documents, 0, '[', ']', '…', 12)
	FROM fts_documents f
	JOIN documents d ON d.doc_id = f.rowid
	WHERE fts_documents MATCH ?`)
	args = append(args, ftsQuote(text))

	if len(q.Types) > 0 {
		ph := make([]string, 0, len(q.Types))
		for _, t := range q.Types {
			t = strings.TrimSpace(t)
			if t == "" {
				continue
			}
			ph = append(ph, "?")
			args = append(args, t)
		}
		if len(ph) > 0 {
			sb.WriteString(" AND d.type IN (" + strings.Join(ph, ",") + ")")
		}
	}
	if cid := strings.TrimSpace(q.ContinuityID); cid != "" {
		sb.WriteString(" AND d.continuity_id = ?")
		args = append(args, cid)
	}
	sb.WriteString(" ORDER BY rank LIMIT ? OFFSET ?")
	args = append(args, limit, offset)

	cctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := db.QueryContext(cctx, sb.String(), args...)
	if err != nil {
		l.Error("search query failed", slog.Any("err", err))
		return nil, fmt.Errorf("search query: %w", err)
	}
	defer rows.Close()

	out := make([]SearchResult, 0, limit)
	for rows.Next() {
		var r SearchResult
		var snip sql.NullString
		if err := rows.Scan(&r.DocID, &r.Type, &r.Path, &r.ContinuityID, &r.EntityID, &snip); err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		// Contentless FTS tables may yield NULL snippets.
		r.Snippet = snip.String
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate results: %w", err)
	}
	return out, nil
}

// ftsQuote turns free text into a safe FTS5 match expression: each
// whitespace-separated term becomes a quoted prefix term, joined with
// implicit AND.
func ftsQuote(text string) string {
	terms := strings.Fields(text)
	quoted := make([]string, 0, len(terms))
	for _, t := range terms {
		t = strings.ReplaceAll(t, `"`, `""`)
		quoted = append(quoted, `"`+t+`"*`)
	}
	return strings.Join(quoted, " ")
}
