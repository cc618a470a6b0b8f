package palette

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"
)

func TestExportAndInstallPackRoundTrip(t *testing.T) {
	src := t.TempDir()
	if _, err := Save(src, Palette{Name: "warm", Colors: []string{"#ff0000"}}); err != nil {
		t.Fatalf("Save error: %v", err)
	}
	if _, err := Save(src, Palette{Name: "cool", Colors: []string{"#0033aa"}}); err != nil {
		t.Fatalf("Save error: %v", err)
	}

	zipPath := filepath.Join(t.TempDir(), "pack.zip")
	if err := ExportPack(src, zipPath); err != nil {
		t.Fatalf("ExportPack error: %v", err)
	}

	// Archive carries the manifest plus both palettes
	r, err := zip.OpenReader(zipPath)
	if err != nil {
		t.Fatalf("open zip: %v", err)
	}
	names := map[string]bool{}
	for _, f := range r.File {
		names[f.Name] = true
	}
	_ = r.Close()
	if !names[packManifestName] {
		t.Fatalf("manifest missing from pack: %v", names)
	}
	if !names["palettes/warm.yaml"] || !names["palettes/cool.yaml"] {
		t.Fatalf("palette files missing from pack: %v", names)
	}

	dst := t.TempDir()
	n, err := InstallPack(dst, zipPath)
	if err != nil {
		t.Fatalf("InstallPack error: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 installed files, got %d", n)
	}
	ps, err := LoadAll(dst)
	if err != nil {
		t.Fatalf("LoadAll error: %v", err)
	}
	if len(ps) != 2 {
		t.Fatalf("expected 2 palettes after install, got %d", len(ps))
	}
}

func TestInstallPackSkipsExisting(t *testing.T) {
	src := t.TempDir()
	if _, err := Save(src, Palette{Name: "warm", Colors: []string{"#ff0000"}}); err != nil {
		t.Fatalf("Save error: %v", err)
	}
	zipPath := filepath.Join(t.TempDir(), "pack.zip")
	if err := ExportPack(src, zipPath); err != nil {
		t.Fatalf("ExportPack error: %v", err)
	}

	dst := t.TempDir()
	// Pre-create a conflicting palette with different content
	if _, err := Save(dst, Palette{Name: "warm", Colors: []string{"#00ff00"}}); err != nil {
		t.Fatalf("Save error: %v", err)
	}
	n, err := InstallPack(dst, zipPath)
	if err != nil {
		t.Fatalf("InstallPack error: %v", err)
	}
	if n != 0 {
		t.Fatalf("expected 0 installed (existing skipped), got %d", n)
	}
	got, err := Load(filepath.Join(dst, PalettesDirName, "warm.yaml"))
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if got.Colors[0] != "#00ff00" {
		t.Fatalf("existing palette was overwritten")
	}
}

func TestExportPackEmptyProjectStillHasManifest(t *testing.T) {
	zipPath := filepath.Join(t.TempDir(), "pack.zip")
	if err := ExportPack(t.TempDir(), zipPath); err != nil {
		t.Fatalf("ExportPack error: %v", err)
	}
	if _, err := os.Stat(zipPath); err != nil {
		t.Fatalf("pack not created: %v", err)
	}
	r, err := zip.OpenReader(zipPath)
	if err != nil {
		t.Fatalf("open zip: %v", err)
	}
	defer r.Close()
	if len(r.File) != 1 || r.File[0].Name != packManifestName {
		t.Fatalf("expected manifest-only archive, got %d entries", len(r.File))
	}
}
