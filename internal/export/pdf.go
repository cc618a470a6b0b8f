/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"bytes"
	"fmt"
	"image/png"
	"os"
	"path/filepath"

	"github.com/jung-kurt/gofpdf"

	"plotlines/internal/scene"
	"plotlines/internal/storage"
)

// PDFOptions controls PDF export behavior. Units are points (pt).
type PDFOptions struct {
	Title  string
	Author string
}

// ExportScenePDF renders the project's scene and writes a single-page
// PDF sized to the rendered image (1 scene unit = 1 pt). A relative
// outPath is resolved under the project's exports folder. An empty
// scene is a no-op and returns without creating a file.
func ExportScenePDF(ph *storage.ProjectHandle, outPath string, opt PDFOptions) error {
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

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return fmt.Errorf("encode scene raster: %w", err)
	}

	w := float64(img.Bounds().Dx())
	h := float64(img.Bounds().Dy())
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: w, Ht: h},
		OrientationStr: "",
	})
	title := opt.Title
	if title == "" {
		title = ph.Project.Name
	}
	pdf.SetTitle(title, false)
	if opt.Author != "" {
		pdf.SetAuthor(opt.Author, false)
	}
	pdf.AddPageFormat("", gofpdf.SizeType{Wd: w, Ht: h})

	imgOpt := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("scene", imgOpt, &buf)
	pdf.ImageOptions("scene", 0, 0, w, h, false, imgOpt, 0, "")

	outPath = resolveExportPath(ph.Root, outPath)
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("ensure out dir: %w", err)
	}
	if err := pdf.OutputFileAndClose(outPath); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}
