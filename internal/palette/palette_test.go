package palette

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultPaletteCycles(t *testing.T) {
	p := Default()
	if err := p.Validate(); err != nil {
		t.Fatalf("default palette invalid: %v", err)
	}
	n := len(p.Colors)
	if p.ColorFor(0) != p.Colors[0] {
		t.Fatalf("ColorFor(0) mismatch")
	}
	if p.ColorFor(n) != p.Colors[0] {
		t.Fatalf("ColorFor should wrap at palette length")
	}
	if p.ColorFor(-1) == "" {
		t.Fatalf("negative index should still yield a color")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	root := t.TempDir()
	p := Palette{Name: "warm", Colors: []string{"#ff0000", "#ff8800"}}
	path, err := Save(root, p)
	if err != nil {
		t.Fatalf("Save error: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if got.Name != "warm" || len(got.Colors) != 2 || got.Colors[1] != "#ff8800" {
		t.Fatalf("round trip mismatch: %+v", got)
	}
}

func TestLoadAllSkipsBrokenFiles(t *testing.T) {
	root := t.TempDir()
	if _, err := Save(root, Palette{Name: "cool", Colors: []string{"#0033aa"}}); err != nil {
		t.Fatalf("Save error: %v", err)
	}
	bad := filepath.Join(root, PalettesDirName, "broken.yaml")
	if err := os.WriteFile(bad, []byte("name: broken\ncolors: [notacolor]\n"), 0o644); err != nil {
		t.Fatalf("write broken palette: %v", err)
	}

	ps, err := LoadAll(root)
	if err != nil {
		t.Fatalf("LoadAll error: %v", err)
	}
	if len(ps) != 1 || ps[0].Name != "cool" {
		t.Fatalf("expected only the valid palette, got %+v", ps)
	}
}

func TestLoadAllMissingDirIsEmpty(t *testing.T) {
	ps, err := LoadAll(t.TempDir())
	if err != nil {
		t.Fatalf("LoadAll error: %v", err)
	}
	if len(ps) != 0 {
		t.Fatalf("expected no palettes, got %d", len(ps))
	}
}

func TestValidateRejectsBadColors(t *testing.T) {
	cases := []Palette{
		{Name: "", Colors: []string{"#ffffff"}},
		{Name: "empty"},
		{Name: "bad", Colors: []string{"red"}},
		{Name: "short", Colors: []string{"#fff"}},
	}
	for _, p := range cases {
		if err := p.Validate(); err == nil {
			t.Fatalf("expected validation error for %+v", p)
		}
	}
}
