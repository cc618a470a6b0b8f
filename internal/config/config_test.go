/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package config

import (
	"os"
	"testing"
)

func TestEnvOverridesGridCell(t *testing.T) {
	old := os.Getenv(EnvGridCell)
	_ = os.Setenv(EnvGridCell, "80")
	t.Cleanup(func() { _ = os.Setenv(EnvGridCell, old) })
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if got, want := cfg.Canvas.GridCell, 80; got != want {
		t.Fatalf("Canvas.GridCell = %d, want %d", got, want)
	}
}

func TestEnvOverridesTheme(t *testing.T) {
	old := os.Getenv(EnvTheme)
	_ = os.Setenv(EnvTheme, "dark")
	t.Cleanup(func() { _ = os.Setenv(EnvTheme, old) })
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.General.Theme != "dark" {
		t.Fatalf("General.Theme expected dark from env override, got %q", cfg.General.Theme)
	}
}

func TestEnvOverrideIgnoresBadGridCell(t *testing.T) {
	old := os.Getenv(EnvGridCell)
	_ = os.Setenv(EnvGridCell, "not-a-number")
	t.Cleanup(func() { _ = os.Setenv(EnvGridCell, old) })
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Canvas.GridCell != Defaults().Canvas.GridCell {
		t.Fatalf("bad grid cell env should keep default, got %d", cfg.Canvas.GridCell)
	}
}

func TestMergeIncludesCanvas(t *testing.T) {
	dst := Defaults()
	src := Defaults()
	src.Canvas.GridCell = 32
	src.Canvas.DefaultZoom = 1.5
	src.Canvas.SnapToGrid = false
	mergeInto(&dst, &src)
	if dst.Canvas.GridCell != 32 || dst.Canvas.DefaultZoom != 1.5 || dst.Canvas.SnapToGrid {
		t.Fatalf("canvas fields not merged correctly: %#v", dst.Canvas)
	}
}

func TestMergeIncludesLogging(t *testing.T) {
	dst := Defaults()
	src := Defaults()
	src.Logging.Level = "debug"
	src.Logging.Format = "json"
	src.Logging.Source = true
	src.Logging.File = "C:/tmp/pl.log"
	mergeInto(&dst, &src)
	if dst.Logging.Level != "debug" || dst.Logging.Format != "json" || !dst.Logging.Source || dst.Logging.File != "C:/tmp/pl.log" {
		t.Fatalf("logging fields not merged correctly: %#v", dst.Logging)
	}
}

func TestEnvOverridesLogging(t *testing.T) {
	oldLevel := os.Getenv(EnvLogLevel)
	oldFmt := os.Getenv(EnvLogFormat)
	oldSrc := os.Getenv(EnvLogSource)
	oldFile := os.Getenv(EnvLogFile)
	_ = os.Setenv(EnvLogLevel, "error")
	_ = os.Setenv(EnvLogFormat, "json")
	_ = os.Setenv(EnvLogSource, "1")
	_ = os.Setenv(EnvLogFile, "X:/pl.log")
	t.Cleanup(func() {
		_ = os.Setenv(EnvLogLevel, oldLevel)
		_ = os.Setenv(EnvLogFormat, oldFmt)
		_ = os.Setenv(EnvLogSource, oldSrc)
		_ = os.Setenv(EnvLogFile, oldFile)
	})
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Logging.Level != "error" || cfg.Logging.Format != "json" || !cfg.Logging.Source || cfg.Logging.File != "X:/pl.log" {
		t.Fatalf("env overrides not applied to logging: %#v", cfg.Logging)
	}
}

func TestEnvOverrideFor(t *testing.T) {
	old := os.Getenv(EnvSnapToGrid)
	_ = os.Setenv(EnvSnapToGrid, "off")
	t.Cleanup(func() { _ = os.Setenv(EnvSnapToGrid, old) })
	name, ok := EnvOverrideFor("canvas.snap_to_grid")
	if !ok || name != EnvSnapToGrid {
		t.Fatalf("EnvOverrideFor mismatch: %q %v", name, ok)
	}
	if _, ok := EnvOverrideFor("no.such.key"); ok {
		t.Fatalf("unknown key should not report an override")
	}
}
