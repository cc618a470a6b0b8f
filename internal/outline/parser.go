/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package outline

import (
	"bufio"
	"regexp"
	"strings"
)

// Parse parses an outline text into a structured Outline.
// Supported syntax (minimal):
// - Timeline headings:
//   - Lines starting with "#" or "Timeline:" introduce a new timeline.
//     The rest of the line is the name.
//
// - Chapters: "- title" or "* title" under the current timeline.
//   - An optional trailing "[arc name]" assigns the chapter to an arc.
//
// - Notes: lines starting with ';' become free-floating notes.
// Blank lines are separators. Chapters before any heading are an error;
// the chapter is dropped and reported.
func Parse(input string) (Outline, []Error) {
	var o Outline
	var errs []Error

	reHeading := regexp.MustCompile(`^#+\s*(.*)$`)
	reHeadingAlt := regexp.MustCompile(`^(?i)\s*Timeline:\s*(.+)$`)
	reChapter := regexp.MustCompile(`^[-*]\s+(.*)$`)
	reArcTag := regexp.MustCompile(`\s*\[([^\[\]]+)\]\s*$`)

	scanner := bufio.NewScanner(strings.NewReader(input))
	lineNo := 0
	cur := -1
	for scanner.Scan() {
		lineNo++
		trim := strings.TrimSpace(strings.TrimRight(scanner.Text(), "\r\n"))
		if trim == "" {
			continue
		}

		if m := reHeading.FindStringSubmatch(trim); m != nil {
			name := strings.TrimSpace(m[1])
			if name == "" {
				errs = append(errs, Error{Line: lineNo, Message: "timeline heading has no name"})
				name = "Untitled"
			}
			o.Timelines = append(o.Timelines, Timeline{Name: name, LineNo: lineNo})
			cur = len(o.Timelines) - 1
			continue
		}
		if m := reHeadingAlt.FindStringSubmatch(trim); m != nil {
			o.Timelines = append(o.Timelines, Timeline{Name: strings.TrimSpace(m[1]), LineNo: lineNo})
			cur = len(o.Timelines) - 1
			continue
		}

		if strings.HasPrefix(trim, ";") {
			text := strings.TrimSpace(strings.TrimPrefix(trim, ";"))
			if text != "" {
				o.Notes = append(o.Notes, Note{Text: text, LineNo: lineNo})
			}
			continue
		}

		if m := reChapter.FindStringSubmatch(trim); m != nil {
			if cur < 0 {
				errs = append(errs, Error{Line: lineNo, Message: "chapter before any timeline heading"})
				continue
			}
			title := strings.TrimSpace(m[1])
			arc := ""
			if am := reArcTag.FindStringSubmatch(title); am != nil {
				arc = strings.TrimSpace(am[1])
				title = strings.TrimSpace(reArcTag.ReplaceAllString(title, ""))
			}
			if title == "" {
				errs = append(errs, Error{Line: lineNo, Message: "chapter has no title"})
				continue
			}
			o.Timelines[cur].Chapters = append(o.Timelines[cur].Chapters, Chapter{Title: title, Arc: arc, LineNo: lineNo})
			continue
		}

		errs = append(errs, Error{Line: lineNo, Message: "unrecognized line: " + trim})
	}
	if err := scanner.Err(); err != nil {
		errs = append(errs, Error{Line: lineNo, Message: err.Error()})
	}
	return o, errs
}
