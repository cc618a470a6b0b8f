/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package render

import (
	"image"
	"image/color"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Text rendering uses the fixed basicfont face: deterministic metrics,
// no font files to resolve, and good enough for canvas annotations.

var face = basicfont.Face7x13

// LineHeight is the pixel advance between wrapped lines.
func LineHeight() float32 {
	m := face.Metrics()
	return float32(m.Height.Round())
}

// MeasureString returns the pixel width of s.
func MeasureString(s string) float32 {
	d := &font.Drawer{Face: face}
	return float32(d.MeasureString(s) >> 6)
}

// Ellipsize shortens s with a trailing ellipsis so it fits maxWidth
// pixels. A non-positive maxWidth returns the empty string.
func Ellipsize(s string, maxWidth float32) string {
	if MeasureString(s) <= maxWidth {
		return s
	}
	const ell = "…"
	runes := []rune(s)
	for len(runes) > 0 {
		runes = runes[:len(runes)-1]
		cand := string(runes) + ell
		if MeasureString(cand) <= maxWidth {
			return cand
		}
	}
	return ""
}

// WrapText breaks s on spaces into lines no wider than maxWidth. A word
// wider than maxWidth gets a line of its own; explicit newlines are
// honored.
func WrapText(s string, maxWidth float32) []string {
	var lines []string
	var cur string
	var curW float32
	flush := func() {
		lines = append(lines, cur)
		cur = ""
		curW = 0
	}
	start := 0
	for i := 0; i <= len(s); i++ {
		if i < len(s) && s[i] != ' ' && s[i] != '\n' {
			continue
		}
		word := s[start:i]
		if word != "" {
			w := MeasureString(word)
			sep := float32(0)
			if cur != "" {
				sep = MeasureString(" ")
			}
			if cur != "" && curW+sep+w > maxWidth && maxWidth > 0 {
				flush()
				sep = 0
			}
			if cur != "" {
				cur += " "
			}
			cur += word
			curW += sep + w
		}
		if i < len(s) && s[i] == '\n' {
			flush()
		}
		start = i + 1
	}
	if cur != "" || len(lines) == 0 {
		flush()
	}
	return lines
}

// DrawString draws s with its baseline at (x, y).
func DrawString(img *image.RGBA, s string, x, y float32, col color.RGBA) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(col),
		Face: face,
		Dot:  fixed.P(int(x), int(y)),
	}
	d.DrawString(s)
}

// DrawWrapped renders content word-wrapped into a box, honoring the
// horizontal and vertical alignment. Returns the content height in
// pixels.
func DrawWrapped(img *image.RGBA, content string, x, y, w, h float32, alignX, alignY string, col color.RGBA) float32 {
	lines := WrapText(content, w)
	lh := LineHeight()
	total := float32(len(lines)) * lh

	top := y
	switch alignY {
	case "middle":
		if h > total {
			top = y + (h-total)/2
		}
	case "bottom":
		if h > total {
			top = y + h - total
		}
	}
	ascent := float32(face.Metrics().Ascent.Round())
	for i, line := range lines {
		lx := x
		lw := MeasureString(line)
		switch alignX {
		case "center":
			if w > lw {
				lx = x + (w-lw)/2
			}
		case "right":
			if w > lw {
				lx = x + w - lw
			}
		}
		DrawString(img, line, lx, top+float32(i)*lh+ascent, col)
	}
	return total
}
