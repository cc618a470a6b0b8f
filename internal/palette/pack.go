/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * Licensed under the Apache License, Version 2.0.
 */

package palette

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"log/slog"

	applog "plotlines/internal/log"
)

const packManifestName = "palettepack.manifest.txt"

// ExportPack zips the project's palettes directory into a single .zip
// file, preserving the directory structure and adding a small manifest
// at the archive root for quick human inspection. If the palettes
// directory does not exist or is empty, the archive still gets the
// manifest.
func ExportPack(projectRoot string, destZipPath string) error {
	l := applog.WithOperation(applog.WithComponent("palette"), "export").With(slog.String("project", projectRoot))
	if strings.TrimSpace(projectRoot) == "" {
		return errors.New("projectRoot is required")
	}
	if strings.TrimSpace(destZipPath) == "" {
		return errors.New("destZipPath is required")
	}
	palettesDir := filepath.Join(projectRoot, PalettesDirName)
	if _, err := os.Stat(palettesDir); os.IsNotExist(err) {
		if err := os.MkdirAll(palettesDir, 0o755); err != nil {
			return fmt.Errorf("ensure palettes dir: %w", err)
		}
	}

	if err := os.MkdirAll(filepath.Dir(destZipPath), 0o755); err != nil {
		return fmt.Errorf("ensure zip dir: %w", err)
	}
	// On Windows, remove destination if present before create
	_ = os.Remove(destZipPath)

	zf, err := os.Create(destZipPath)
	if err != nil {
		return fmt.Errorf("create zip: %w", err)
	}
	defer func() { _ = zf.Close() }()
	zw := zip.NewWriter(zf)
	defer func() { _ = zw.Close() }()

	manifest := fmt.Sprintf("Plotlines Palette Pack\nCreated: %s\nProject: %s\n\nContents mirror the project's /palettes directory.\n",
		time.Now().Format(time.RFC3339), projectRoot)
	w, err := zw.Create(packManifestName)
	if err != nil {
		return fmt.Errorf("add manifest: %w", err)
	}
	if _, err := w.Write([]byte(manifest)); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}

	added := 0
	err = filepath.Walk(palettesDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(projectRoot, path)
		if err != nil {
			return err
		}
		zipName := filepath.ToSlash(rel)
		fw, err := zw.Create(zipName)
		if err != nil {
			return err
		}
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer func() { _ = f.Close() }()
		if _, err := io.Copy(fw, f); err != nil {
			return err
		}
		added++
		return nil
	})
	if err != nil {
		l.Error("zip build failed", slog.Any("err", err))
		return fmt.Errorf("build zip: %w", err)
	}
	l.Info("palette pack exported", slog.Int("files", added), slog.String("zip", destZipPath))
	return nil
}

// InstallPack extracts the given .zip pack into the project's palettes
// directory. Existing files are skipped, never overwritten. Returns the
// count of files installed.
func InstallPack(projectRoot string, packZipPath string) (int, error) {
	l := applog.WithOperation(applog.WithComponent("palette"), "install").With(slog.String("project", projectRoot))
	if strings.TrimSpace(projectRoot) == "" {
		return 0, errors.New("projectRoot is required")
	}
	if strings.TrimSpace(packZipPath) == "" {
		return 0, errors.New("packZipPath is required")
	}
	palettesDir := filepath.Join(projectRoot, PalettesDirName)
	if err := os.MkdirAll(palettesDir, 0o755); err != nil {
		return 0, fmt.Errorf("ensure palettes dir: %w", err)
	}

	r, err := zip.OpenReader(packZipPath)
	if err != nil {
		return 0, fmt.Errorf("open pack: %w", err)
	}
	defer func() { _ = r.Close() }()

	installed := 0
	for _, f := range r.File {
		name := f.Name
		if name == packManifestName {
			continue
		}
		// Archives may carry either "palettes/..." paths or bare file
		// names; both land under the palettes directory.
		targetRel := name
		if !strings.HasPrefix(targetRel, PalettesDirName+"/") {
			targetRel = filepath.ToSlash(filepath.Join(PalettesDirName, targetRel))
		}
		targetPath := filepath.Join(projectRoot, filepath.FromSlash(targetRel))
		if _, err := os.Stat(targetPath); err == nil {
			l.Warn("skip existing file", slog.String("path", targetPath))
			continue
		}
		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(targetPath, 0o755); err != nil {
				return installed, err
			}
			continue
		}
		if err := os.MkdirAll(filepath.Dir(targetPath), 0o755); err != nil {
			return installed, err
		}
		rc, err := f.Open()
		if err != nil {
			return installed, err
		}
		out, err := os.OpenFile(targetPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
		if err != nil {
			_ = rc.Close()
			return installed, err
		}
		if _, err := io.Copy(out, rc); err != nil {
			_ = out.Close()
			_ = rc.Close()
			return installed, err
		}
		_ = out.Close()
		_ = rc.Close()
		installed++
	}
	l.Info("palette pack installed", slog.Int("files", installed))
	return installed, nil
}
