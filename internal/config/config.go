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
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// AppConfig is the user-editable configuration persisted to a YAML file in the user scope.
// Environment variables are treated as read-only overrides at runtime.
//
// config_version: bump when the structure changes in a backward-incompatible way.
// Unknown fields are ignored on unmarshal, which keeps older builds tolerant of newer files.

type GeneralConfig struct {
	Theme string `yaml:"theme"` // "system" | "light" | "dark" (informational for now)
}

// CanvasConfig holds defaults applied to a freshly opened canvas.
type CanvasConfig struct {
	GridCell    int     `yaml:"grid_cell"`    // world units per grid cell
	DefaultZoom float64 `yaml:"default_zoom"` // initial zoom factor
	SnapToGrid  bool    `yaml:"snap_to_grid"` // timeline drag snapping
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Source bool   `yaml:"source"`
	File   string `yaml:"file"`
}

type AppConfig struct {
	ConfigVersion int           `yaml:"config_version"`
	General       GeneralConfig `yaml:"general"`
	Canvas        CanvasConfig  `yaml:"canvas"`
	Logging       LoggingConfig `yaml:"logging"`
}

// Defaults returns the application defaults.
func Defaults() AppConfig {
	return AppConfig{
		ConfigVersion: 1,
		General:       GeneralConfig{Theme: "system"},
		Canvas:        CanvasConfig{GridCell: 50, DefaultZoom: 1.0, SnapToGrid: true},
		Logging:       LoggingConfig{Level: "info", Format: "console", Source: false, File: ""},
	}
}

// Env var names used as overrides.
const (
	EnvTheme       = "PL_THEME"
	EnvGridCell    = "PL_GRID_CELL"
	EnvDefaultZoom = "PL_DEFAULT_ZOOM"
	EnvSnapToGrid  = "PL_SNAP_TO_GRID"
	// EnvLogLevel Logging envs
	EnvLogLevel  = "PL_LOG_LEVEL"
	EnvLogFormat = "PL_LOG_FORMAT"
	EnvLogSource = "PL_LOG_SOURCE"
	EnvLogFile   = "PL_LOG_FILE"
)

// ConfigPath returns the per-user config file path.
func ConfigPath() (string, error) {
	var base string
	switch runtime.GOOS {
	case "windows":
		base = os.Getenv("AppData")
		if base == "" { // fallback
			base = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		base = filepath.Join(base, "Plotlines")
	case "darwin":
		base = filepath.Join(os.Getenv("HOME"), "Library", "Application Support", "Plotlines")
	default: // linux and others
		base = filepath.Join(os.Getenv("HOME"), ".config", "plotlines")
	}
	if base == "" {
		return "", errors.New("cannot resolve config directory")
	}
	return filepath.Join(base, "config.yaml"), nil
}

// Load reads the user config file (if present), applies defaults, and merges environment overrides.
func Load() (AppConfig, error) {
	cfg := Defaults()
	path, err := ConfigPath()
	if err != nil {
		return cfg, err
	}
	if data, err := os.ReadFile(path); err == nil {
		var fileCfg AppConfig
		if err := yaml.Unmarshal(data, &fileCfg); err == nil {
			mergeInto(&cfg, &fileCfg)
		}
	}
	applyEnvOverrides(&cfg)
	return cfg, nil
}

// Save writes the user config YAML.
func Save(cfg AppConfig) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

func mergeInto(dst *AppConfig, src *AppConfig) {
	if src.ConfigVersion != 0 {
		dst.ConfigVersion = src.ConfigVersion
	}
	if src.General.Theme != "" {
		dst.General.Theme = src.General.Theme
	}
	if src.Canvas.GridCell > 0 {
		dst.Canvas.GridCell = src.Canvas.GridCell
	}
	if src.Canvas.DefaultZoom > 0 {
		dst.Canvas.DefaultZoom = src.Canvas.DefaultZoom
	}
	// booleans: copy directly from src (file) so user preferences persist
	dst.Canvas.SnapToGrid = src.Canvas.SnapToGrid
	// logging
	if strings.TrimSpace(src.Logging.Level) != "" {
		dst.Logging.Level = strings.ToLower(strings.TrimSpace(src.Logging.Level))
	}
	if strings.TrimSpace(src.Logging.Format) != "" {
		dst.Logging.Format = strings.ToLower(strings.TrimSpace(src.Logging.Format))
	}
	dst.Logging.Source = src.Logging.Source
	if strings.TrimSpace(src.Logging.File) != "" {
		dst.Logging.File = strings.TrimSpace(src.Logging.File)
	}
}

func applyEnvOverrides(cfg *AppConfig) {
	if v := strings.TrimSpace(os.Getenv(EnvTheme)); v != "" {
		cfg.General.Theme = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvGridCell)); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Canvas.GridCell = n
		}
	}
	if v := strings.TrimSpace(os.Getenv(EnvDefaultZoom)); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			cfg.Canvas.DefaultZoom = f
		}
	}
	if v := strings.TrimSpace(os.Getenv(EnvSnapToGrid)); v != "" {
		lv := strings.ToLower(v)
		cfg.Canvas.SnapToGrid = lv == "1" || lv == "true" || lv == "on" || lv == "yes"
	}
	// logging overrides
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFormat)); v != "" {
		cfg.Logging.Format = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogSource)); v != "" {
		lv := strings.ToLower(v)
		cfg.Logging.Source = lv == "1" || lv == "true" || lv == "on" || lv == "yes"
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFile)); v != "" {
		cfg.Logging.File = v
	}
}

// EnvOverrideFor returns the env var name if the field is overridden by environment variables.
func EnvOverrideFor(key string) (string, bool) {
	switch key {
	case "general.theme":
		if os.Getenv(EnvTheme) != "" {
			return EnvTheme, true
		}
	case "canvas.grid_cell":
		if os.Getenv(EnvGridCell) != "" {
			return EnvGridCell, true
		}
	case "canvas.default_zoom":
		if os.Getenv(EnvDefaultZoom) != "" {
			return EnvDefaultZoom, true
		}
	case "canvas.snap_to_grid":
		if os.Getenv(EnvSnapToGrid) != "" {
			return EnvSnapToGrid, true
		}
	case "logging.level":
		if os.Getenv(EnvLogLevel) != "" {
			return EnvLogLevel, true
		}
	case "logging.format":
		if os.Getenv(EnvLogFormat) != "" {
			return EnvLogFormat, true
		}
	case "logging.source":
		if os.Getenv(EnvLogSource) != "" {
			return EnvLogSource, true
		}
	case "logging.file":
		if os.Getenv(EnvLogFile) != "" {
			return EnvLogFile, true
		}
	}
	return "", false
}
