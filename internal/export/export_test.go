package export

import (
	"image/png"
	"math"
	"os"
	"path/filepath"
	"testing"

	"plotlines/internal/domain"
	"plotlines/internal/render"
	"plotlines/internal/scene"
	"plotlines/internal/storage"
)

func exportTestProject() domain.Project {
	return domain.Project{
		Name: "Export Test",
		Continuities: []domain.Continuity{
			{
				ID: "t1", Name: "Main", X: 0, Y: 0,
				Chapters: []domain.Chapter{
					{ID: "c1", Title: "One", Timestamp: 1},
					{ID: "c2", Title: "Two", Timestamp: 2},
				},
			},
		},
		Textboxes: []domain.Textbox{
			{ID: "tb1", X: 100, Y: 200, Width: 160, Height: 60, Content: "a note"},
		},
	}
}

func TestRenderSceneImageMatchesBounds(t *testing.T) {
	proj := exportTestProject()
	sc := scene.FromProject(&proj)
	bounds, ok := render.SceneBounds(sc)
	if !ok {
		t.Fatalf("expected non-empty scene bounds")
	}

	img, ok, err := RenderSceneImage(sc)
	if err != nil {
		t.Fatalf("RenderSceneImage error: %v", err)
	}
	if !ok {
		t.Fatalf("expected an image for a non-empty scene")
	}
	wantW := int(math.Ceil(float64(bounds.W)))
	wantH := int(math.Ceil(float64(bounds.H)))
	if img.Bounds().Dx() != wantW || img.Bounds().Dy() != wantH {
		t.Fatalf("image size %dx%d, want %dx%d", img.Bounds().Dx(), img.Bounds().Dy(), wantW, wantH)
	}
}

func TestRenderSceneImageEmptyScene(t *testing.T) {
	sc := scene.New()
	img, ok, err := RenderSceneImage(sc)
	if err != nil {
		t.Fatalf("RenderSceneImage error: %v", err)
	}
	if ok || img != nil {
		t.Fatalf("expected no image for empty scene")
	}
}

func TestExportScenePNGWritesUnderExports(t *testing.T) {
	root := t.TempDir()
	ph, err := storage.InitProject(root, exportTestProject())
	if err != nil {
		t.Fatalf("InitProject error: %v", err)
	}

	if err := ExportScenePNG(ph, "scene.png"); err != nil {
		t.Fatalf("ExportScenePNG error: %v", err)
	}
	out := filepath.Join(root, "exports", "scene.png")
	f, err := os.Open(out)
	if err != nil {
		t.Fatalf("expected png at %s: %v", out, err)
	}
	defer f.Close()
	cfg, err := png.DecodeConfig(f)
	if err != nil {
		t.Fatalf("decode png: %v", err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		t.Fatalf("degenerate png size %dx%d", cfg.Width, cfg.Height)
	}
}

func TestExportScenePNGEmptyProjectIsNoOp(t *testing.T) {
	root := t.TempDir()
	ph, err := storage.InitProject(root, domain.Project{Name: "Empty", Continuities: []domain.Continuity{}})
	if err != nil {
		t.Fatalf("InitProject error: %v", err)
	}
	if err := ExportScenePNG(ph, "scene.png"); err != nil {
		t.Fatalf("ExportScenePNG error: %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, "exports", "scene.png")); !os.IsNotExist(err) {
		t.Fatalf("expected no file for empty scene, stat err=%v", err)
	}
}

func TestExportScenePDFWritesPDF(t *testing.T) {
	root := t.TempDir()
	ph, err := storage.InitProject(root, exportTestProject())
	if err != nil {
		t.Fatalf("InitProject error: %v", err)
	}

	if err := ExportScenePDF(ph, "scene.pdf", PDFOptions{}); err != nil {
		t.Fatalf("ExportScenePDF error: %v", err)
	}
	b, err := os.ReadFile(filepath.Join(root, "exports", "scene.pdf"))
	if err != nil {
		t.Fatalf("read pdf: %v", err)
	}
	if len(b) < 4 || string(b[:4]) != "%PDF" {
		t.Fatalf("output does not look like a PDF")
	}
}
