/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package export renders a whole project scene into shareable files.
// Exports are rendered at zoom 1 over the padded scene bounds, so the
// output is independent of the on-screen camera.
package export

import (
	"fmt"
	"image"
	"image/png"
	"math"
	"os"
	"path/filepath"

	"plotlines/internal/geom"
	"plotlines/internal/render"
	"plotlines/internal/scene"
	"plotlines/internal/storage"
)

// maxExportPixels caps the output raster edge length so a runaway
// scene cannot allocate an absurd image.
const maxExportPixels = 16000

// RenderSceneImage rasterizes the entire scene at zoom 1 into a new
// RGBA image sized to the padded scene bounds. The second return is
// false when the scene is empty and there is nothing to render.
func RenderSceneImage(sc *scene.Scene) (*image.RGBA, bool, error) {
	bounds, ok := render.SceneBounds(sc)
	if !ok {
		return nil, false, nil
	}
	w := int(math.Ceil(float64(bounds.W)))
	h := int(math.Ceil(float64(bounds.H)))
	if w <= 0 || h <= 0 {
		return nil, false, nil
	}
	if w > maxExportPixels || h > maxExportPixels {
		return nil, false, fmt.Errorf("scene too large to export: %dx%d", w, h)
	}

	cam := geom.Camera{
		OffsetX: -bounds.X,
		OffsetY: -bounds.Y,
		Zoom:    1,
	}
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	render.DrawScene(img, sc, cam, render.State{})
	return img, true, nil
}

// ExportScenePNG renders the project's scene and writes it as a PNG.
// A relative outPath is resolved under the project's exports folder.
// An empty scene is a no-op and returns without creating a file.
func ExportScenePNG(ph *storage.ProjectHandle, outPath string) error {
	if ph == nil {
		return fmt.Errorf("project handle is nil")
	}
	sc := scene.FromProject(&ph.Project)
	img, ok, err := RenderSceneImage(sc)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}

	outPath = resolveExportPath(ph.Root, outPath)
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("ensure out dir: %w", err)
	}
	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("create png: %w", err)
	}
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		return fmt.Errorf("encode png: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close png: %w", err)
	}
	return nil
}

// resolveExportPath places relative paths under <root>/exports.
func resolveExportPath(root, outPath string) string {
	if filepath.IsAbs(outPath) {
		return outPath
	}
	return filepath.Join(root, "exports", outPath)
}
