//go:build !fyne

package ui

import (
	"strings"
	"testing"
)

func TestRunWithoutFyneTagExplainsRebuild(t *testing.T) {
	err := Run("")
	if err == nil {
		t.Fatal("headless build must refuse to start the UI")
	}
	for _, want := range []string{"UI not built", "-tags fyne", "cmd/plotlines"} {
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("error %q missing %q", err.Error(), want)
		}
	}
}

func TestRunWithoutFyneTagIgnoresProjectDir(t *testing.T) {
	// The stub must not touch the filesystem, whatever path it is given.
	if err := Run("/nonexistent/project"); err == nil {
		t.Fatal("expected error regardless of project dir")
	}
}
