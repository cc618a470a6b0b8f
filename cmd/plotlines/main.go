/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"plotlines/internal/backend"
	"plotlines/internal/config"
	"plotlines/internal/crash"
	"plotlines/internal/domain"
	"plotlines/internal/export"
	applog "plotlines/internal/log"
	"plotlines/internal/outline"
	"plotlines/internal/palette"
	"plotlines/internal/storage"
	"plotlines/internal/ui"
	"plotlines/internal/version"
)

func usage() {
	fmt.Println("Plotlines — timeline diagram editor")
	fmt.Printf("Version: %s\n", version.String())
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  plotlines version|-v|--version              Show version")
	fmt.Println("  plotlines init <dir> <name>                 Create a new project at <dir> with name <name>")
	fmt.Println("  plotlines open <dir>                        Open project at <dir> and print summary")
	fmt.Println("  plotlines save <dir>                        Save project at <dir> (creates backup)")
	fmt.Println("  plotlines export <dir> png|pdf [<file>]     Render the scene into the project's exports folder")
	fmt.Println("  plotlines import <dir> <outline.md>         Import a markdown outline into the project")
	fmt.Println("  plotlines search <dir> <query>              Full-text search over the project index")
	fmt.Println("  plotlines reindex <dir>                     Rebuild the project's search index")
	fmt.Println("  plotlines palettes export|install <dir> <zip>  Move palette packs in or out of a project")
	fmt.Println("  plotlines share login <token>               Store the share-server token in the OS keyring")
	fmt.Println("  plotlines share logout                      Remove the stored share-server token")
	fmt.Println("  plotlines share list                        List projects on the share server (PL_SHARE_URL)")
	fmt.Println("  plotlines share pull <id> <dir>             Fetch a shared project into a local directory")
	fmt.Println("  plotlines ui [<dir>]                        Launch desktop UI (build with -tags fyne for full UI)")
}

func main() {
	applog.Init(applog.FromEnv())
	l := applog.WithComponent("cli")
	var ph *storage.ProjectHandle
	defer func() { crash.Recover(ph) }()

	args := os.Args
	l.Debug("start", slog.Int("args", len(args)))
	if len(args) > 1 {
		switch args[1] {
		case "version", "--version", "-v":
			fmt.Println("Plotlines — timeline diagram editor")
			fmt.Println(version.String())
			return
		case "init":
			if len(args) < 4 {
				fmt.Println("init requires <dir> and <name>")
				usage()
				os.Exit(2)
			}
			abs, _ := filepath.Abs(args[2])
			name := args[3]
			l.Info("init project", slog.String("root", abs), slog.String("name", name))
			p := domain.Project{Name: name, Continuities: []domain.Continuity{}}
			h, err := storage.InitProject(abs, p)
			if err != nil {
				l.Error("init failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			ph = h
			fmt.Println("Created project at", abs)
			return
		case "open":
			h := mustOpen(l, args, 3, "open requires <dir>")
			ph = h
			fmt.Printf("Opened project: %s\n", h.Project.Name)
			fmt.Printf("Timelines: %d\n", len(h.Project.Continuities))
			fmt.Printf("Branches: %d  Lines: %d  Textboxes: %d\n",
				len(h.Project.Branches), len(h.Project.Lines), len(h.Project.Textboxes))
			fmt.Println("Root:", h.Root)
			return
		case "save":
			h := mustOpen(l, args, 3, "save requires <dir>")
			ph = h
			h.Project.Metadata.Notes = fmt.Sprintf("Saved at %s", time.Now().Format(time.RFC3339))
			if err := storage.Save(h); err != nil {
				l.Error("save failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			fmt.Println("Saved project and created a backup of previous manifest (if any).")
			return
		case "export":
			if len(args) < 4 {
				fmt.Println("export requires <dir> and a format (png or pdf)")
				usage()
				os.Exit(2)
			}
			h := mustOpen(l, args, 3, "export requires <dir>")
			ph = h
			format := strings.ToLower(args[3])
			out := "scene." + format
			if len(args) >= 5 {
				out = args[4]
			}
			var err error
			switch format {
			case "png":
				err = export.ExportScenePNG(h, out)
			case "pdf":
				err = export.ExportScenePDF(h, out, export.PDFOptions{
					Title:  h.Project.Name,
					Author: h.Project.Metadata.Author,
				})
			default:
				fmt.Println("unknown export format:", format)
				os.Exit(2)
			}
			if err != nil {
				l.Error("export failed", slog.String("format", format), slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			fmt.Println("Exported", out)
			return
		case "import":
			if len(args) < 4 {
				fmt.Println("import requires <dir> and <outline.md>")
				usage()
				os.Exit(2)
			}
			h := mustOpen(l, args, 3, "import requires <dir>")
			ph = h
			b, err := os.ReadFile(args[3])
			if err != nil {
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			o, errs := outline.Parse(string(b))
			for _, e := range errs {
				fmt.Println("outline:", e.Error())
			}
			if len(errs) > 0 {
				os.Exit(1)
			}
			pal := palette.Default()
			if ps, perr := palette.LoadAll(h.Root); perr == nil && len(ps) > 0 {
				pal = ps[0]
			}
			imported := o.ToProject(h.Project.Name, pal)
			h.Project.Continuities = append(h.Project.Continuities, imported.Continuities...)
			h.Project.Textboxes = append(h.Project.Textboxes, imported.Textboxes...)
			if err := storage.Save(h); err != nil {
				l.Error("save after import failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			fmt.Printf("Imported %d timelines and %d notes.\n", len(imported.Continuities), len(imported.Textboxes))
			return
		case "search":
			if len(args) < 4 {
				fmt.Println("search requires <dir> and <query>")
				usage()
				os.Exit(2)
			}
			abs, _ := filepath.Abs(args[2])
			query := strings.Join(args[3:], " ")
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			res, err := storage.SearchProject(ctx, abs, storage.SearchQuery{Text: query})
			if err != nil {
				l.Error("search failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			for _, r := range res {
				fmt.Printf("%-10s %-40s %s\n", r.Type, r.Path, strings.TrimSpace(r.Snippet))
			}
			fmt.Printf("%d results\n", len(res))
			return
		case "reindex":
			h := mustOpen(l, args, 3, "reindex requires <dir>")
			ph = h
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
			defer cancel()
			if err := storage.RebuildIndex(ctx, h.Root, h.Project); err != nil {
				l.Error("reindex failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			fmt.Println("Rebuilt search index.")
			return
		case "palettes":
			if len(args) < 5 {
				fmt.Println("palettes requires a mode (export or install), <dir> and <zip>")
				usage()
				os.Exit(2)
			}
			mode := args[2]
			abs, _ := filepath.Abs(args[3])
			zipPath := args[4]
			switch mode {
			case "export":
				if err := palette.ExportPack(abs, zipPath); err != nil {
					fmt.Println("Error:", err)
					os.Exit(1)
				}
				fmt.Println("Exported palette pack to", zipPath)
			case "install":
				n, err := palette.InstallPack(abs, zipPath)
				if err != nil {
					fmt.Println("Error:", err)
					os.Exit(1)
				}
				fmt.Printf("Installed %d palettes.\n", n)
			default:
				fmt.Println("unknown palettes mode:", mode)
				os.Exit(2)
			}
			return
		case "share":
			if len(args) < 3 {
				fmt.Println("share requires a mode (list or pull)")
				usage()
				os.Exit(2)
			}
			switch args[2] {
			case "login":
				if len(args) < 4 {
					fmt.Println("share login requires <token>")
					os.Exit(2)
				}
				if err := config.SetShareToken(args[3]); err != nil {
					fmt.Println("Error:", err)
					os.Exit(1)
				}
				fmt.Println("Stored share token in the OS keyring.")
				return
			case "logout":
				if err := config.SetShareToken(""); err != nil {
					fmt.Println("Error:", err)
					os.Exit(1)
				}
				fmt.Println("Removed stored share token.")
				return
			}
			cl := backend.FromEnv()
			if cl == nil {
				fmt.Println("share server not configured; set PL_SHARE_URL (and optionally PL_SHARE_TOKEN)")
				os.Exit(2)
			}
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			switch args[2] {
			case "list":
				items, err := cl.ListProjects(ctx)
				if err != nil {
					l.Error("share list failed", slog.Any("err", err))
					fmt.Println("Error:", err)
					os.Exit(1)
				}
				for _, it := range items {
					fmt.Printf("%6d  v%-4d %-30s %s\n", it.ID, it.Version, it.Name, it.UpdatedAt.Format(time.RFC3339))
				}
				fmt.Printf("%d projects\n", len(items))
			case "pull":
				if len(args) < 5 {
					fmt.Println("share pull requires <id> and <dir>")
					usage()
					os.Exit(2)
				}
				id, err := strconv.ParseInt(args[3], 10, 64)
				if err != nil {
					fmt.Println("invalid project id:", args[3])
					os.Exit(2)
				}
				env, err := cl.GetManifest(ctx, id)
				if err != nil {
					l.Error("share pull failed", slog.Any("err", err))
					fmt.Println("Error:", err)
					os.Exit(1)
				}
				abs, _ := filepath.Abs(args[4])
				h, err := storage.InitProject(abs, env.Manifest)
				if err != nil {
					fmt.Println("Error:", err)
					os.Exit(1)
				}
				ph = h
				fmt.Printf("Pulled %q (version %d) into %s\n", env.Manifest.Name, env.Version, abs)
			default:
				fmt.Println("unknown share mode:", args[2])
				os.Exit(2)
			}
			return
		case "ui":
			var dir string
			if len(args) >= 3 {
				dir = args[2]
			}
			if err := ui.Run(dir); err != nil {
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			return
		}
	}

	usage()
}

func mustOpen(l *slog.Logger, args []string, need int, msg string) *storage.ProjectHandle {
	if len(args) < need {
		fmt.Println(msg)
		usage()
		os.Exit(2)
	}
	abs, _ := filepath.Abs(args[2])
	l.Info("open project", slog.String("root", abs))
	h, err := storage.Open(abs)
	if err != nil {
		l.Error("open failed", slog.Any("err", err))
		fmt.Println("Error:", err)
		os.Exit(1)
	}
	return h
}
