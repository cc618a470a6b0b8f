package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"plotlines/internal/domain"
)

func TestInitProjectCreatesStructureAndManifest(t *testing.T) {
	root := t.TempDir()
	proj := domain.Project{Name: "Test Project", Continuities: []domain.Continuity{}}

	ph, err := InitProject(root, proj)
	if err != nil {
		t.Fatalf("InitProject error: %v", err)
	}
	if ph == nil {
		t.Fatalf("InitProject returned nil handle")
	}

	// Check manifest exists
	if ph.ManifestPath == "" {
		t.Fatalf("ManifestPath not set")
	}
	// Load manifest and compare
	b, err := os.ReadFile(ph.ManifestPath)
	if err != nil {
		t.Fatalf("read manifest: %v", err)
	}
	var got domain.Project
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatalf("unmarshal manifest: %v", err)
	}
	if got.Name != proj.Name {
		t.Fatalf("manifest name mismatch: got %q want %q", got.Name, proj.Name)
	}

	// Standard subdirs should exist
	wantDirs := []string{"exports", BackupsDirName}
	for _, d := range wantDirs {
		p := filepath.Join(root, d)
		if fi, err := os.Stat(p); err != nil || !fi.IsDir() {
			t.Fatalf("expected directory %s to exist", p)
		}
	}
}

func TestSaveCreatesTimestampedBackup(t *testing.T) {
	root := t.TempDir()
	proj := domain.Project{Name: "Backup Test", Continuities: []domain.Continuity{}}
	ph, err := InitProject(root, proj)
	if err != nil {
		t.Fatalf("InitProject error: %v", err)
	}

	// Change something and save again to force a backup
	ph.Project.Metadata.Notes = "changed"
	if err := Save(ph); err != nil {
		t.Fatalf("Save error: %v", err)
	}

	// Expect at least one .bak file under backups
	ents, err := os.ReadDir(filepath.Join(root, BackupsDirName))
	if err != nil {
		t.Fatalf("read backups dir: %v", err)
	}
	var bakCount int
	for _, e := range ents {
		name := e.Name()
		if strings.HasPrefix(name, ManifestFileName+".") && strings.HasSuffix(name, ".bak") {
			bakCount++
		}
	}
	if bakCount == 0 {
		t.Fatalf("expected at least one backup file, found 0")
	}
}

func TestOpenRoundTrip(t *testing.T) {
	root := t.TempDir()
	proj := domain.Project{
		Name: "Round Trip",
		Continuities: []domain.Continuity{
			{
				ID: "t1", Name: "Main", X: 0, Y: 0,
				Chapters: []domain.Chapter{
					{ID: "c1", Title: "Origins", Timestamp: 1},
					{ID: "c2", Title: "Fallout", Timestamp: 2},
				},
				Arcs: []domain.Arc{{ID: "a1", Name: "Act One", Color: "#ff8800"}},
			},
		},
		Textboxes: []domain.Textbox{
			{ID: "tb1", X: 10, Y: 20, Width: 120, Height: 60, Content: "note"},
		},
	}
	if _, err := InitProject(root, proj); err != nil {
		t.Fatalf("InitProject error: %v", err)
	}

	ph, err := Open(root)
	if err != nil {
		t.Fatalf("Open error: %v", err)
	}
	if len(ph.Project.Continuities) != 1 {
		t.Fatalf("expected 1 continuity, got %d", len(ph.Project.Continuities))
	}
	c := ph.Project.Continuities[0]
	if c.Name != "Main" || len(c.Chapters) != 2 || c.Chapters[1].Title != "Fallout" {
		t.Fatalf("continuity did not survive round trip: %+v", c)
	}
	if len(ph.Project.Textboxes) != 1 || ph.Project.Textboxes[0].Content != "note" {
		t.Fatalf("textbox did not survive round trip")
	}
}

func TestOpenFallsBackToBackupOnCorruptManifest(t *testing.T) {
	root := t.TempDir()
	proj := domain.Project{Name: "Recoverable", Continuities: []domain.Continuity{}}
	ph, err := InitProject(root, proj)
	if err != nil {
		t.Fatalf("InitProject error: %v", err)
	}
	// Save again so a backup of the good manifest exists
	ph.Project.Metadata.Notes = "v2"
	if err := Save(ph); err != nil {
		t.Fatalf("Save error: %v", err)
	}

	// Corrupt the live manifest
	if err := os.WriteFile(ph.ManifestPath, []byte("{ not json"), 0o644); err != nil {
		t.Fatalf("corrupt manifest: %v", err)
	}

	got, err := Open(root)
	if err != nil {
		t.Fatalf("Open should recover from backup, got error: %v", err)
	}
	if got.Project.Name != "Recoverable" {
		t.Fatalf("recovered project name mismatch: got %q", got.Project.Name)
	}
}

func TestValidateManifestRejectsBadShapes(t *testing.T) {
	cases := []struct {
		name string
		json string
	}{
		{"missing name", `{"continuities":[]}`},
		{"bad arc color", `{"name":"x","continuities":[{"id":"t1","name":"a","x":0,"y":0,"chapters":[],"arcs":[{"id":"a1","name":"arc","color":"orange"}]}]}`},
		{"bad line style", `{"name":"x","continuities":[],"lines":[{"id":"l1","gridX1":0,"gridY1":0,"gridX2":1,"gridY2":1,"lineStyle":"wavy"}]}`},
		{"zoom out of range", `{"name":"x","continuities":[],"viewport":{"offsetX":0,"offsetY":0,"zoom":9}}`},
	}
	for _, tc := range cases {
		if err := ValidateManifest([]byte(tc.json)); err == nil {
			t.Fatalf("%s: expected validation error", tc.name)
		}
	}
	good := `{"name":"ok","continuities":[]}`
	if err := ValidateManifest([]byte(good)); err != nil {
		t.Fatalf("valid manifest rejected: %v", err)
	}
}
