/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * Licensed under the Apache License, Version 2.0.
 */

// Package palette manages arc color palettes. Palettes are small YAML
// files under <project>/palettes; packs bundle them into shareable zip
// archives.
package palette

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"log/slog"

	"gopkg.in/yaml.v3"

	applog "plotlines/internal/log"
)

// PalettesDirName is the project subfolder holding palette files.
const PalettesDirName = "palettes"

var hexColor = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// Palette is a named list of arc colors.
type Palette struct {
	Name   string   `yaml:"name"`
	Colors []string `yaml:"colors"`
}

// Default is the built-in palette used when a project has none. Colors
// are chosen to stay readable over the arc band at small sizes.
func Default() Palette {
	return Palette{
		Name: "default",
		Colors: []string{
			"#e6553b", "#3b78e6", "#3ba05a", "#e6a23b",
			"#8e4fd0", "#2aa8a0", "#c2497d", "#7a7a2e",
		},
	}
}

// ColorFor cycles through the palette for the i-th arc.
func (p Palette) ColorFor(i int) string {
	if len(p.Colors) == 0 {
		return Default().ColorFor(i)
	}
	if i < 0 {
		i = -i
	}
	return p.Colors[i%len(p.Colors)]
}

// Validate checks that every color is a #rrggbb hex value.
func (p Palette) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return errors.New("palette name is required")
	}
	if len(p.Colors) == 0 {
		return fmt.Errorf("palette %q has no colors", p.Name)
	}
	for _, c := range p.Colors {
		if !hexColor.MatchString(c) {
			return fmt.Errorf("palette %q: invalid color %q", p.Name, c)
		}
	}
	return nil
}

// Load reads and validates a single palette YAML file.
func Load(path string) (Palette, error) {
	var p Palette
	b, err := os.ReadFile(path)
	if err != nil {
		return p, fmt.Errorf("read palette: %w", err)
	}
	if err := yaml.Unmarshal(b, &p); err != nil {
		return p, fmt.Errorf("parse palette %s: %w", filepath.Base(path), err)
	}
	if p.Name == "" {
		p.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	if err := p.Validate(); err != nil {
		return p, err
	}
	return p, nil
}

// Save writes a palette as YAML into the project's palettes folder.
func Save(projectRoot string, p Palette) (string, error) {
	if err := p.Validate(); err != nil {
		return "", err
	}
	dir := filepath.Join(projectRoot, PalettesDirName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("ensure palettes dir: %w", err)
	}
	b, err := yaml.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("marshal palette: %w", err)
	}
	path := filepath.Join(dir, p.Name+".yaml")
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return "", fmt.Errorf("write palette: %w", err)
	}
	return path, nil
}

// LoadAll reads every palette in the project, sorted by name. Broken
// files are skipped with a warning so one bad palette cannot hide the
// rest.
func LoadAll(projectRoot string) ([]Palette, error) {
	l := applog.WithComponent("palette")
	dir := filepath.Join(projectRoot, PalettesDirName)
	ents, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read palettes dir: %w", err)
	}
	var out []Palette
	for _, e := range ents {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if ext != ".yaml" && ext != ".yml" {
			continue
		}
		p, err := Load(filepath.Join(dir, e.Name()))
		if err != nil {
			l.Warn("skipping palette", slog.String("file", e.Name()), slog.Any("err", err))
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
