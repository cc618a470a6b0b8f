//go:build fyne && cgo

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package ui

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"plotlines/internal/config"
	"plotlines/internal/crash"
	"plotlines/internal/domain"
	"plotlines/internal/export"
	"plotlines/internal/geom"
	applog "plotlines/internal/log"
	"plotlines/internal/outline"
	"plotlines/internal/palette"
	"plotlines/internal/render"
	"plotlines/internal/scene"
	"plotlines/internal/storage"
	"plotlines/internal/telemetry"
	"plotlines/internal/version"
)

// Run starts the Fyne-based desktop UI with the timeline canvas editor.
func Run(projectDir string) error {
	cfg, cfgErr := config.Load()
	if cfgErr != nil {
		cfg = config.Defaults()
	}
	applog.Init(applog.Options{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		AddSource: cfg.Logging.Source,
		File:      cfg.Logging.File,
	})
	l := applog.WithComponent("ui")
	if cfgErr != nil {
		l.Warn("config load failed, using defaults", slog.Any("err", cfgErr))
	}
	l.Info("starting UI", slog.String("version", version.String()))
	telemetry.InitDefault()

	ed := &editor{l: l, cfg: cfg}
	defer func() { crash.Recover(ed.ph) }()

	fyneApp := app.NewWithID("plotlines")
	w := fyneApp.NewWindow("Plotlines")
	prefs := fyneApp.Preferences()
	winW := prefs.IntWithFallback("window.width", 1200)
	winH := prefs.IntWithFallback("window.height", 800)
	if winW < 800 {
		winW = 800
	}
	if winH < 600 {
		winH = 600
	}
	w.Resize(fyne.NewSize(float32(winW), float32(winH)))

	ed.app = fyneApp
	ed.w = w
	ed.status = widget.NewLabel("Ready")
	ed.eng = scene.NewEngine(scene.New(), ed.callbacks())
	ed.canvas = NewSceneCanvas(ed.eng)

	// Timeline list (left)
	ed.timelineList = widget.NewList(
		func() int { return len(ed.timelineItems) },
		func() fyne.CanvasObject { return widget.NewLabel("") },
		func(i widget.ListItemID, o fyne.CanvasObject) {
			if i >= 0 && int(i) < len(ed.timelineItems) {
				o.(*widget.Label).SetText(ed.timelineItems[i])
			} else {
				o.(*widget.Label).SetText("")
			}
		},
	)
	ed.timelineList.OnSelected = func(i widget.ListItemID) {
		if i >= 0 && int(i) < len(ed.timelineIDs) {
			ed.eng.CenterOnTimeline(ed.timelineIDs[i])
		}
		ed.timelineList.UnselectAll()
	}

	// Search results (right)
	ed.searchList = widget.NewList(
		func() int { return len(ed.searchItems) },
		func() fyne.CanvasObject { return widget.NewLabel("") },
		func(i widget.ListItemID, o fyne.CanvasObject) {
			if i >= 0 && int(i) < len(ed.searchItems) {
				o.(*widget.Label).SetText(ed.searchItems[i])
			} else {
				o.(*widget.Label).SetText("")
			}
		},
	)
	ed.searchList.OnSelected = func(i widget.ListItemID) {
		if i >= 0 && int(i) < len(ed.searchResults) {
			ed.navigateToResult(ed.searchResults[i])
		}
		ed.searchList.UnselectAll()
	}

	omniBox := widget.NewEntry()
	omniBox.SetPlaceHolder("Search project (Ctrl+K)…")
	omniBox.OnSubmitted = func(q string) { ed.runSearch(q) }

	left := container.NewBorder(widget.NewLabel("Timelines"), nil, nil, nil, ed.timelineList)
	right := container.NewBorder(container.NewVBox(widget.NewLabel("Search Results")), nil, nil, nil, ed.searchList)
	topBar := container.NewBorder(nil, nil, nil, nil, omniBox)
	content := container.NewBorder(topBar, ed.status, left, right, ed.canvas)
	w.SetContent(content)

	w.Canvas().AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyK, Modifier: fyne.KeyModifierControl}, func(fyne.Shortcut) {
		w.Canvas().Focus(omniBox)
	})
	ed.buildMainMenu()

	// Fixed-step frame loop: drives drag arming, camera glides, and the
	// floating menu, then repaints when anything changed.
	done := make(chan struct{})
	go func() {
		t := time.NewTicker(33 * time.Millisecond)
		defer t.Stop()
		last := time.Now()
		for {
			select {
			case <-done:
				return
			case now := <-t.C:
				dt := float32(now.Sub(last).Seconds())
				last = now
				fyne.Do(func() {
					animating := ed.eng.Advance(dt)
					if animating || ed.eng.Dirty() {
						ed.canvas.Redraw()
					}
				})
			}
		}
	}()

	w.SetCloseIntercept(func() {
		close(done)
		if ed.ph != nil {
			ed.ph.Project.Viewport = ed.eng.Viewport()
			if err := storage.Save(ed.ph); err != nil {
				l.Error("save on close failed", slog.Any("err", err))
			}
		}
		sz := w.Canvas().Size()
		prefs.SetInt("window.width", int(sz.Width))
		prefs.SetInt("window.height", int(sz.Height))
		w.Close()
	})

	if strings.TrimSpace(projectDir) != "" {
		ed.openProject(projectDir)
	}

	telemetry.Event("ui_start", nil)
	w.ShowAndRun()
	return nil
}

// editor owns the open project and wires the canvas engine to the
// manifest and the surrounding widgets.
type editor struct {
	app    fyne.App
	w      fyne.Window
	l      *slog.Logger
	status *widget.Label

	cfg config.AppConfig

	ph     *storage.ProjectHandle
	eng    *scene.Engine
	canvas *SceneCanvas

	timelineItems []string
	timelineIDs   []string
	timelineList  *widget.List

	searchItems   []string
	searchResults []storage.SearchResult
	searchList    *widget.List
}

func (ed *editor) openProject(root string) {
	ph, err := storage.Open(root)
	if err != nil {
		ed.l.Error("open project failed", slog.String("root", root), slog.Any("err", err))
		dialog.ShowError(err, ed.w)
		return
	}
	ed.ph = ph
	ed.syncScene()
	vp := ph.Project.Viewport
	if vp.Zoom == 0 && ed.cfg.Canvas.DefaultZoom > 0 {
		vp.Zoom = ed.cfg.Canvas.DefaultZoom
	}
	ed.eng.SetViewport(vp)
	ed.canvas.Redraw()
	ed.w.SetTitle("Plotlines — " + ph.Project.Name)
	ed.status.SetText("Opened " + ph.Project.Name)
	telemetry.Event("project_open", nil)
	go func(h *storage.ProjectHandle) {
		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		defer cancel()
		if _, err := storage.DetectAndRebuildIndex(ctx, h.Root, h.Project); err != nil {
			ed.l.Error("index check failed", slog.Any("err", err))
		}
	}(ph)
}

// syncScene rebuilds the canvas scene from the manifest.
func (ed *editor) syncScene() {
	if ed.ph == nil {
		*ed.eng.Scene = *scene.New()
	} else {
		*ed.eng.Scene = *scene.FromProject(&ed.ph.Project)
	}
	ed.refreshTimelineList()
}

func (ed *editor) refreshTimelineList() {
	ed.timelineItems = ed.timelineItems[:0]
	ed.timelineIDs = ed.timelineIDs[:0]
	if ed.ph != nil {
		for _, c := range ed.ph.Project.Continuities {
			ed.timelineItems = append(ed.timelineItems, fmt.Sprintf("%s (%d)", c.Name, len(c.Chapters)))
			ed.timelineIDs = append(ed.timelineIDs, c.ID)
		}
	}
	ed.timelineList.Refresh()
}

// commit applies a mutation, persists it, and refreshes the canvas.
func (ed *editor) commit(label string, mutate func()) {
	if ed.ph == nil {
		ed.status.SetText("No project open")
		return
	}
	mutate()
	if err := storage.Save(ed.ph); err != nil {
		ed.l.Error("save failed", slog.String("edit", label), slog.Any("err", err))
		dialog.ShowError(err, ed.w)
		return
	}
	ed.syncScene()
	ed.canvas.Redraw()
	ed.status.SetText(strings.ToUpper(label[:1]) + label[1:])
	go func(h *storage.ProjectHandle) {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := storage.UpdateIndex(ctx, h.Root, h.Project); err != nil {
			ed.l.Warn("index update failed", slog.Any("err", err))
		}
	}(ed.ph)
}

func (ed *editor) runSearch(q string) {
	qq := strings.TrimSpace(q)
	if qq == "" || ed.ph == nil {
		ed.searchItems = ed.searchItems[:0]
		ed.searchResults = ed.searchResults[:0]
		ed.searchList.Refresh()
		return
	}
	ed.status.SetText("Searching…")
	go func(h *storage.ProjectHandle, text string) {
		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
		defer cancel()
		res, err := storage.SearchProject(ctx, h.Root, storage.SearchQuery{Text: text, Limit: 200})
		fyne.Do(func() {
			if err != nil {
				ed.l.Error("search failed", slog.Any("err", err))
				ed.status.SetText("Search failed.")
				return
			}
			ed.searchResults = res
			ed.searchItems = ed.searchItems[:0]
			for _, r := range res {
				sn := strings.TrimSpace(r.Snippet)
				if sn == "" {
					sn = r.Path
				}
				if len(sn) > 120 {
					sn = sn[:120] + "…"
				}
				ed.searchItems = append(ed.searchItems, fmt.Sprintf("%s — %s", r.Type, sn))
			}
			ed.searchList.Refresh()
			ed.status.SetText(fmt.Sprintf("%d results", len(res)))
		})
	}(ed.ph, qq)
}

func (ed *editor) navigateToResult(r storage.SearchResult) {
	switch {
	case r.ContinuityID != "":
		ed.eng.CenterOnTimeline(r.ContinuityID)
	case r.Type == "textbox" && r.EntityID != "":
		if tb := ed.eng.Scene.TextboxByID(r.EntityID); tb != nil {
			ed.centerOnWorld(geom.Pt{X: tb.X + tb.Width/2, Y: tb.Y + tb.Height/2})
		}
	}
}

func (ed *editor) centerOnWorld(p geom.Pt) {
	vp := ed.eng.ViewportSize()
	ed.eng.Cam.OffsetX = vp.W/2 - p.X*ed.eng.Cam.Zoom
	ed.eng.Cam.OffsetY = vp.H/2 - p.Y*ed.eng.Cam.Zoom
	ed.canvas.Redraw()
}

// zoomTo sets an absolute zoom level anchored at the viewport center.
func (ed *editor) zoomTo(zoom float32) {
	vp := ed.eng.ViewportSize()
	ed.eng.Cam.SetZoomAt(geom.Pt{X: vp.W / 2, Y: vp.H / 2}, zoom)
	ed.canvas.Redraw()
}

// viewCenterWorld returns the world point under the viewport center,
// snapped to the grid. New entities land there.
func (ed *editor) viewCenterWorld() geom.Pt {
	vp := ed.eng.ViewportSize()
	return geom.SnapToGrid(ed.eng.Cam.ScreenToWorld(geom.Pt{X: vp.W / 2, Y: vp.H / 2}))
}

func (ed *editor) findContinuity(id string) *domain.Continuity {
	if ed.ph == nil {
		return nil
	}
	for i := range ed.ph.Project.Continuities {
		if ed.ph.Project.Continuities[i].ID == id {
			return &ed.ph.Project.Continuities[i]
		}
	}
	return nil
}

// sortedChapters returns the continuity's chapters in timestamp order.
func sortedChapters(c *domain.Continuity) []domain.Chapter {
	out := make([]domain.Chapter, len(c.Chapters))
	copy(out, c.Chapters)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp < out[j].Timestamp })
	return out
}

// renumber rewrites timestamps 1..n following slice order.
func renumber(chs []domain.Chapter) {
	for i := range chs {
		chs[i].Timestamp = int64(i + 1)
	}
}

// callbacks bridges canvas gestures to manifest edits.
func (ed *editor) callbacks() scene.Callbacks {
	return scene.Callbacks{
		AddTimelineRequested: ed.addTimelineDialog,
		AddChapterRequested:  ed.addChapterDialog,
		AddBranchRequested: func(fromTimeline string, fromPos float32, toTimeline string, toPos float32) {
			ed.commit("add branch", func() {
				ed.ph.Project.Branches = append(ed.ph.Project.Branches, domain.Branch{
					ID:                 domain.NewID("branch"),
					StartContinuityID:  fromTimeline,
					StartPosition:      float64(fromPos),
					EndContinuityID:    toTimeline,
					EndPosition:        float64(toPos),
					LineStyle:          domain.LineStyleSolid,
					StartEndpointStyle: domain.EndpointNone,
					EndEndpointStyle:   domain.EndpointArrow,
				})
			})
		},
		AddTextboxRequested: ed.addTextboxDialog,
		AddLineRequested: func(gx1, gy1, gx2, gy2 float32) {
			ed.commit("add line", func() {
				ed.ph.Project.Lines = append(ed.ph.Project.Lines, domain.Line{
					ID:        domain.NewID("line"),
					GridX1:    float64(gx1),
					GridY1:    float64(gy1),
					GridX2:    float64(gx2),
					GridY2:    float64(gy2),
					LineStyle: domain.LineStyleSolid,
				})
			})
		},

		EditTimelineRequested: ed.editTimelineDialog,
		EditChapterRequested:  ed.editChapterDialog,
		EditBranchRequested:   ed.editBranchDialog,
		EditTextboxRequested:  ed.editTextboxDialog,
		EditLineRequested:     ed.editLineDialog,

		ReorderChapterRequested: ed.reorderChapter,
		ReorderArcRequested:     ed.reorderArc,

		TimelineMoved: func(id string, x, y float32) {
			if c := ed.findContinuity(id); c != nil {
				ed.commit("move timeline", func() {
					c.X = float64(x)
					c.Y = float64(y)
				})
			}
		},
		TextboxMoved: func(id string, x, y float32) {
			ed.mutateTextbox(id, "move textbox", func(tb *domain.Textbox) {
				tb.X = float64(x)
				tb.Y = float64(y)
			})
		},
		TextboxResized: func(id string, w, h float32) {
			ed.mutateTextbox(id, "resize textbox", func(tb *domain.Textbox) {
				tb.Width = float64(w)
				tb.Height = float64(h)
			})
		},
		LineMoved: func(id string, gx1, gy1, gx2, gy2 float32) {
			ed.mutateLine(id, "move line", func(ln *domain.Line) {
				ln.GridX1 = float64(gx1)
				ln.GridY1 = float64(gy1)
				ln.GridX2 = float64(gx2)
				ln.GridY2 = float64(gy2)
			})
		},

		ResyncChaptersRequested: func(timelineID string) {
			ed.syncScene()
			ed.canvas.Redraw()
		},
		TimelineHoverChanged: func(id, side string) {
			if id == "" {
				ed.status.SetText("Ready")
				return
			}
			if t := ed.eng.Scene.TimelineByID(id); t != nil {
				ed.status.SetText(fmt.Sprintf("%s (%s)", t.Name, side))
			}
		},
		BackgroundClicked: func() {},
	}
}

func (ed *editor) mutateTextbox(id, label string, f func(*domain.Textbox)) {
	if ed.ph == nil {
		return
	}
	for i := range ed.ph.Project.Textboxes {
		if ed.ph.Project.Textboxes[i].ID == id {
			ed.commit(label, func() { f(&ed.ph.Project.Textboxes[i]) })
			return
		}
	}
}

func (ed *editor) mutateLine(id, label string, f func(*domain.Line)) {
	if ed.ph == nil {
		return
	}
	for i := range ed.ph.Project.Lines {
		if ed.ph.Project.Lines[i].ID == id {
			ed.commit(label, func() { f(&ed.ph.Project.Lines[i]) })
			return
		}
	}
}

func (ed *editor) reorderChapter(timelineID, chapterID string, newIndex int) {
	c := ed.findContinuity(timelineID)
	if c == nil {
		return
	}
	ed.commit("reorder chapter", func() {
		chs := sortedChapters(c)
		from := -1
		for i := range chs {
			if chs[i].ID == chapterID {
				from = i
				break
			}
		}
		if from < 0 {
			return
		}
		moved := chs[from]
		chs = append(chs[:from], chs[from+1:]...)
		to := newIndex
		if to > from {
			to--
		}
		if to < 0 {
			to = 0
		}
		if to > len(chs) {
			to = len(chs)
		}
		chs = append(chs[:to], append([]domain.Chapter{moved}, chs[to:]...)...)
		renumber(chs)
		c.Chapters = chs
	})
}

func (ed *editor) reorderArc(timelineID, arcID string, newGroupIndex int) {
	c := ed.findContinuity(timelineID)
	t := ed.eng.Scene.TimelineByID(timelineID)
	if c == nil || t == nil {
		return
	}
	groups := t.ArcGroups()
	from := -1
	for i := range groups {
		if groups[i].ArcID == arcID && arcID != "" {
			from = i
			break
		}
	}
	if from < 0 {
		return
	}
	ed.commit("reorder arc", func() {
		moved := groups[from]
		groups = append(groups[:from], groups[from+1:]...)
		to := newGroupIndex
		if to > from {
			to--
		}
		if to < 0 {
			to = 0
		}
		if to > len(groups) {
			to = len(groups)
		}
		groups = append(groups[:to], append([]scene.ArcGroup{moved}, groups[to:]...)...)

		byID := map[string]domain.Chapter{}
		for _, ch := range sortedChapters(c) {
			byID[ch.ID] = ch
		}
		out := make([]domain.Chapter, 0, len(c.Chapters))
		for _, g := range groups {
			for _, ch := range g.Chapters {
				if d, ok := byID[ch.ID]; ok {
					out = append(out, d)
				}
			}
		}
		renumber(out)
		c.Chapters = out
	})
}

func (ed *editor) addTimelineDialog() {
	if ed.ph == nil {
		ed.status.SetText("No project open")
		return
	}
	name := widget.NewEntry()
	name.SetPlaceHolder("Timeline name")
	dialog.ShowForm("Add Timeline", "Add", "Cancel",
		[]*widget.FormItem{widget.NewFormItem("Name", name)},
		func(ok bool) {
			if !ok || strings.TrimSpace(name.Text) == "" {
				return
			}
			p := ed.viewCenterWorld()
			ed.commit("add timeline", func() {
				ed.ph.Project.Continuities = append(ed.ph.Project.Continuities, domain.Continuity{
					ID:   domain.NewID("cont"),
					Name: strings.TrimSpace(name.Text),
					X:    float64(p.X),
					Y:    float64(p.Y),
				})
			})
		}, ed.w)
}

func (ed *editor) addChapterDialog(timelineID string, index int) {
	c := ed.findContinuity(timelineID)
	if c == nil {
		return
	}
	title := widget.NewEntry()
	title.SetPlaceHolder("Chapter title")
	dialog.ShowForm("Add Chapter", "Add", "Cancel",
		[]*widget.FormItem{widget.NewFormItem("Title", title)},
		func(ok bool) {
			if !ok || strings.TrimSpace(title.Text) == "" {
				return
			}
			ed.commit("add chapter", func() {
				chs := sortedChapters(c)
				at := index
				if at < 0 {
					at = 0
				}
				if at > len(chs) {
					at = len(chs)
				}
				nc := domain.Chapter{ID: domain.NewID("chap"), Title: strings.TrimSpace(title.Text)}
				chs = append(chs[:at], append([]domain.Chapter{nc}, chs[at:]...)...)
				renumber(chs)
				c.Chapters = chs
			})
		}, ed.w)
}

func (ed *editor) addTextboxDialog(x, y float32) {
	if ed.ph == nil {
		return
	}
	content := widget.NewMultiLineEntry()
	content.SetPlaceHolder("Note text")
	dialog.ShowForm("Add Textbox", "Add", "Cancel",
		[]*widget.FormItem{widget.NewFormItem("Content", content)},
		func(ok bool) {
			if !ok {
				return
			}
			ed.commit("add textbox", func() {
				ed.ph.Project.Textboxes = append(ed.ph.Project.Textboxes, domain.Textbox{
					ID:      domain.NewID("tbox"),
					X:       float64(x),
					Y:       float64(y),
					Width:   200,
					Height:  80,
					Content: content.Text,
				})
			})
		}, ed.w)
}

func (ed *editor) editTimelineDialog(id string) {
	c := ed.findContinuity(id)
	if c == nil {
		return
	}
	name := widget.NewEntry()
	name.SetText(c.Name)
	del := widget.NewCheck("Delete this timeline", nil)
	dialog.ShowForm("Edit Timeline", "Apply", "Cancel",
		[]*widget.FormItem{
			widget.NewFormItem("Name", name),
			widget.NewFormItem("", del),
		},
		func(ok bool) {
			if !ok {
				return
			}
			if del.Checked {
				ed.commit("delete timeline", func() { ed.deleteContinuity(id) })
				return
			}
			if strings.TrimSpace(name.Text) != "" {
				ed.commit("rename timeline", func() { c.Name = strings.TrimSpace(name.Text) })
			}
		}, ed.w)
}

func (ed *editor) deleteContinuity(id string) {
	p := &ed.ph.Project
	out := p.Continuities[:0]
	for _, c := range p.Continuities {
		if c.ID != id {
			out = append(out, c)
		}
	}
	p.Continuities = out
	branches := p.Branches[:0]
	for _, b := range p.Branches {
		if b.StartContinuityID != id && b.EndContinuityID != id {
			branches = append(branches, b)
		}
	}
	p.Branches = branches
}

func (ed *editor) editChapterDialog(id string) {
	if ed.ph == nil {
		return
	}
	var c *domain.Continuity
	idx := -1
	for i := range ed.ph.Project.Continuities {
		for j := range ed.ph.Project.Continuities[i].Chapters {
			if ed.ph.Project.Continuities[i].Chapters[j].ID == id {
				c = &ed.ph.Project.Continuities[i]
				idx = j
			}
		}
	}
	if c == nil || idx < 0 {
		return
	}
	ch := &c.Chapters[idx]

	title := widget.NewEntry()
	title.SetText(ch.Title)
	arcNames := []string{"(none)"}
	arcByName := map[string]string{}
	cur := "(none)"
	for _, a := range c.Arcs {
		arcNames = append(arcNames, a.Name)
		arcByName[a.Name] = a.ID
		if a.ID == ch.ArcID {
			cur = a.Name
		}
	}
	arcSel := widget.NewSelect(arcNames, nil)
	arcSel.SetSelected(cur)
	newArc := widget.NewEntry()
	newArc.SetPlaceHolder("Or create a new arc")
	del := widget.NewCheck("Delete this chapter", nil)
	dialog.ShowForm("Edit Chapter", "Apply", "Cancel",
		[]*widget.FormItem{
			widget.NewFormItem("Title", title),
			widget.NewFormItem("Arc", arcSel),
			widget.NewFormItem("New arc", newArc),
			widget.NewFormItem("", del),
		},
		func(ok bool) {
			if !ok {
				return
			}
			if del.Checked {
				ed.commit("delete chapter", func() {
					chs := append(c.Chapters[:idx:idx], c.Chapters[idx+1:]...)
					sort.SliceStable(chs, func(i, j int) bool { return chs[i].Timestamp < chs[j].Timestamp })
					renumber(chs)
					c.Chapters = chs
				})
				return
			}
			ed.commit("edit chapter", func() {
				if strings.TrimSpace(title.Text) != "" {
					ch.Title = strings.TrimSpace(title.Text)
				}
				if na := strings.TrimSpace(newArc.Text); na != "" {
					pal := ed.projectPalette()
					a := domain.Arc{
						ID:    domain.NewID("arc"),
						Name:  na,
						Color: pal.ColorFor(len(c.Arcs)),
						Order: len(c.Arcs),
					}
					c.Arcs = append(c.Arcs, a)
					ch.ArcID = a.ID
				} else if arcSel.Selected == "(none)" {
					ch.ArcID = ""
				} else if aid, ok := arcByName[arcSel.Selected]; ok {
					ch.ArcID = aid
				}
			})
		}, ed.w)
}

// projectPalette prefers the project's first palette, falling back to
// the built-in one.
func (ed *editor) projectPalette() palette.Palette {
	if ed.ph != nil {
		if ps, err := palette.LoadAll(ed.ph.Root); err == nil && len(ps) > 0 {
			return ps[0]
		}
	}
	return palette.Default()
}

func styleFormItems(lineStyle, startStyle, endStyle string) (*widget.Select, *widget.Select, *widget.Select) {
	ls := widget.NewSelect([]string{domain.LineStyleSolid, domain.LineStyleDashed}, nil)
	ls.SetSelected(domain.NormalizeLineStyle(lineStyle))
	ss := widget.NewSelect([]string{domain.EndpointNone, domain.EndpointDot, domain.EndpointArrow}, nil)
	ss.SetSelected(domain.NormalizeEndpointStyle(startStyle))
	es := widget.NewSelect([]string{domain.EndpointNone, domain.EndpointDot, domain.EndpointArrow}, nil)
	es.SetSelected(domain.NormalizeEndpointStyle(endStyle))
	return ls, ss, es
}

func (ed *editor) editBranchDialog(id string) {
	if ed.ph == nil {
		return
	}
	var b *domain.Branch
	for i := range ed.ph.Project.Branches {
		if ed.ph.Project.Branches[i].ID == id {
			b = &ed.ph.Project.Branches[i]
		}
	}
	if b == nil {
		return
	}
	ls, ss, es := styleFormItems(b.LineStyle, b.StartEndpointStyle, b.EndEndpointStyle)
	del := widget.NewCheck("Delete this branch", nil)
	dialog.ShowForm("Edit Branch", "Apply", "Cancel",
		[]*widget.FormItem{
			widget.NewFormItem("Line style", ls),
			widget.NewFormItem("Start endpoint", ss),
			widget.NewFormItem("End endpoint", es),
			widget.NewFormItem("", del),
		},
		func(ok bool) {
			if !ok {
				return
			}
			if del.Checked {
				ed.commit("delete branch", func() {
					out := ed.ph.Project.Branches[:0]
					for _, x := range ed.ph.Project.Branches {
						if x.ID != id {
							out = append(out, x)
						}
					}
					ed.ph.Project.Branches = out
				})
				return
			}
			ed.commit("edit branch", func() {
				b.LineStyle = ls.Selected
				b.StartEndpointStyle = ss.Selected
				b.EndEndpointStyle = es.Selected
			})
		}, ed.w)
}

func (ed *editor) editLineDialog(id string) {
	if ed.ph == nil {
		return
	}
	var ln *domain.Line
	for i := range ed.ph.Project.Lines {
		if ed.ph.Project.Lines[i].ID == id {
			ln = &ed.ph.Project.Lines[i]
		}
	}
	if ln == nil {
		return
	}
	ls, ss, es := styleFormItems(ln.LineStyle, ln.StartEndpointStyle, ln.EndEndpointStyle)
	del := widget.NewCheck("Delete this line", nil)
	dialog.ShowForm("Edit Line", "Apply", "Cancel",
		[]*widget.FormItem{
			widget.NewFormItem("Line style", ls),
			widget.NewFormItem("Start endpoint", ss),
			widget.NewFormItem("End endpoint", es),
			widget.NewFormItem("", del),
		},
		func(ok bool) {
			if !ok {
				return
			}
			if del.Checked {
				ed.commit("delete line", func() {
					out := ed.ph.Project.Lines[:0]
					for _, x := range ed.ph.Project.Lines {
						if x.ID != id {
							out = append(out, x)
						}
					}
					ed.ph.Project.Lines = out
				})
				return
			}
			ed.commit("edit line", func() {
				ln.LineStyle = ls.Selected
				ln.StartEndpointStyle = ss.Selected
				ln.EndEndpointStyle = es.Selected
			})
		}, ed.w)
}

func (ed *editor) editTextboxDialog(id string) {
	if ed.ph == nil {
		return
	}
	var tb *domain.Textbox
	for i := range ed.ph.Project.Textboxes {
		if ed.ph.Project.Textboxes[i].ID == id {
			tb = &ed.ph.Project.Textboxes[i]
		}
	}
	if tb == nil {
		return
	}
	content := widget.NewMultiLineEntry()
	content.SetText(tb.Content)
	alignX := widget.NewSelect([]string{domain.AlignLeft, domain.AlignCenter, domain.AlignRight}, nil)
	if tb.AlignX != "" {
		alignX.SetSelected(tb.AlignX)
	} else {
		alignX.SetSelected(domain.AlignLeft)
	}
	alignY := widget.NewSelect([]string{domain.AlignTop, domain.AlignMiddle, domain.AlignBottom}, nil)
	if tb.AlignY != "" {
		alignY.SetSelected(tb.AlignY)
	} else {
		alignY.SetSelected(domain.AlignTop)
	}
	fontSize := widget.NewEntry()
	if tb.FontSize > 0 {
		fontSize.SetText(strconv.FormatFloat(tb.FontSize, 'f', -1, 64))
	}
	fontSize.SetPlaceHolder("13")
	del := widget.NewCheck("Delete this textbox", nil)
	dialog.ShowForm("Edit Textbox", "Apply", "Cancel",
		[]*widget.FormItem{
			widget.NewFormItem("Content", content),
			widget.NewFormItem("Align", alignX),
			widget.NewFormItem("Vertical", alignY),
			widget.NewFormItem("Font size", fontSize),
			widget.NewFormItem("", del),
		},
		func(ok bool) {
			if !ok {
				return
			}
			if del.Checked {
				ed.commit("delete textbox", func() {
					out := ed.ph.Project.Textboxes[:0]
					for _, x := range ed.ph.Project.Textboxes {
						if x.ID != id {
							out = append(out, x)
						}
					}
					ed.ph.Project.Textboxes = out
				})
				return
			}
			ed.commit("edit textbox", func() {
				tb.Content = content.Text
				tb.AlignX = alignX.Selected
				tb.AlignY = alignY.Selected
				if v, err := strconv.ParseFloat(strings.TrimSpace(fontSize.Text), 64); err == nil && v > 0 {
					tb.FontSize = v
				}
			})
		}, ed.w)
}

func (ed *editor) buildMainMenu() {
	openItem := fyne.NewMenuItem("Open Project…", func() {
		dialog.ShowFolderOpen(func(list fyne.ListableURI, err error) {
			if err != nil || list == nil {
				return
			}
			ed.openProject(list.Path())
		}, ed.w)
	})
	newItem := fyne.NewMenuItem("New Project…", func() {
		dialog.ShowFolderOpen(func(list fyne.ListableURI, err error) {
			if err != nil || list == nil {
				return
			}
			root := list.Path()
			ph, ierr := storage.InitProject(root, domain.Project{
				Name:         filepath.Base(root),
				Continuities: []domain.Continuity{},
			})
			if ierr != nil {
				dialog.ShowError(ierr, ed.w)
				return
			}
			_ = ph
			ed.openProject(root)
		}, ed.w)
	})
	saveItem := fyne.NewMenuItem("Save", func() {
		if ed.ph == nil {
			return
		}
		ed.ph.Project.Viewport = ed.eng.Viewport()
		if err := storage.Save(ed.ph); err != nil {
			dialog.ShowError(err, ed.w)
			return
		}
		ed.status.SetText("Saved")
	})
	importItem := fyne.NewMenuItem("Import Outline…", ed.importOutlineDialog)
	exportPNG := fyne.NewMenuItem("Export PNG", func() {
		if ed.ph == nil {
			return
		}
		if err := export.ExportScenePNG(ed.ph, "scene.png"); err != nil {
			dialog.ShowError(err, ed.w)
			return
		}
		ed.status.SetText("Exported exports/scene.png")
		telemetry.Event("export_png", nil)
	})
	exportPDF := fyne.NewMenuItem("Export PDF", func() {
		if ed.ph == nil {
			return
		}
		if err := export.ExportScenePDF(ed.ph, "scene.pdf", export.PDFOptions{}); err != nil {
			dialog.ShowError(err, ed.w)
			return
		}
		ed.status.SetText("Exported exports/scene.pdf")
		telemetry.Event("export_pdf", nil)
	})
	exportPack := fyne.NewMenuItem("Export Palette Pack…", func() {
		if ed.ph == nil {
			return
		}
		if err := palette.ExportPack(ed.ph.Root, filepath.Join(ed.ph.Root, "exports", "palettes.zip")); err != nil {
			dialog.ShowError(err, ed.w)
			return
		}
		ed.status.SetText("Exported exports/palettes.zip")
	})
	installPack := fyne.NewMenuItem("Install Palette Pack…", func() {
		if ed.ph == nil {
			return
		}
		dialog.ShowFileOpen(func(r fyne.URIReadCloser, err error) {
			if err != nil || r == nil {
				return
			}
			path := r.URI().Path()
			_ = r.Close()
			n, ierr := palette.InstallPack(ed.ph.Root, path)
			if ierr != nil {
				dialog.ShowError(ierr, ed.w)
				return
			}
			ed.status.SetText(fmt.Sprintf("Installed %d palettes", n))
		}, ed.w)
	})
	fileMenu := fyne.NewMenu("File", newItem, openItem, saveItem, fyne.NewMenuItemSeparator(),
		importItem, fyne.NewMenuItemSeparator(), exportPNG, exportPDF, exportPack, installPack)

	editMenu := fyne.NewMenu("Edit",
		fyne.NewMenuItem("Add Timeline…", ed.addTimelineDialog),
	)

	viewMenu := fyne.NewMenu("View",
		fyne.NewMenuItem("Actual Size", func() { ed.zoomTo(1) }),
		fyne.NewMenuItem("Zoom In", func() { ed.zoomTo(ed.eng.Cam.Zoom * 1.25) }),
		fyne.NewMenuItem("Zoom Out", func() { ed.zoomTo(ed.eng.Cam.Zoom / 1.25) }),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Reset Camera", func() {
			ed.eng.SetViewport(domain.Viewport{Zoom: 1})
			ed.canvas.Redraw()
		}),
	)

	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", func() {
			dialog.ShowInformation("Plotlines", "Plotlines "+version.String(), ed.w)
		}),
	)

	ed.w.SetMainMenu(fyne.NewMainMenu(fileMenu, editMenu, viewMenu, helpMenu))
}

func (ed *editor) importOutlineDialog() {
	if ed.ph == nil {
		ed.status.SetText("No project open")
		return
	}
	dialog.ShowFileOpen(func(r fyne.URIReadCloser, err error) {
		if err != nil || r == nil {
			return
		}
		path := r.URI().Path()
		_ = r.Close()
		b, rerr := os.ReadFile(path)
		if rerr != nil {
			dialog.ShowError(rerr, ed.w)
			return
		}
		o, errs := outline.Parse(string(b))
		if len(errs) > 0 {
			msgs := make([]string, 0, len(errs))
			for _, e := range errs {
				msgs = append(msgs, e.Error())
			}
			dialog.ShowError(fmt.Errorf("outline has problems:\n%s", strings.Join(msgs, "\n")), ed.w)
			return
		}
		imported := o.ToProject(ed.ph.Project.Name, ed.projectPalette())
		ed.commit("import outline", func() {
			ed.ph.Project.Continuities = append(ed.ph.Project.Continuities, imported.Continuities...)
			ed.ph.Project.Textboxes = append(ed.ph.Project.Textboxes, imported.Textboxes...)
		})
		telemetry.Event("outline_import", map[string]any{"timelines": len(imported.Continuities)})
	}, ed.w)
}

// SceneCanvas hosts the rendered scene raster and forwards pointer
// events to the engine. The engine works in screen coordinates equal to
// the widget's local coordinates.
type SceneCanvas struct {
	widget.BaseWidget
	eng *scene.Engine
	buf *image.RGBA
	img *fynecanvas.Image
}

func NewSceneCanvas(eng *scene.Engine) *SceneCanvas {
	c := &SceneCanvas{eng: eng}
	c.buf = image.NewRGBA(image.Rect(0, 0, 1, 1))
	c.img = fynecanvas.NewImageFromImage(c.buf)
	c.img.FillMode = fynecanvas.ImageFillStretch
	c.img.ScaleMode = fynecanvas.ImageScalePixels
	c.ExtendBaseWidget(c)
	return c
}

func (c *SceneCanvas) CreateRenderer() fyne.WidgetRenderer {
	return &sceneCanvasRenderer{c: c}
}

func (c *SceneCanvas) MinSize() fyne.Size { return fyne.NewSize(400, 300) }

// Redraw renders the current scene into the backing raster.
func (c *SceneCanvas) Redraw() {
	if c.buf == nil {
		return
	}
	st := render.State{
		Hover:   c.eng.HoverState(),
		Gesture: c.eng.Gesture(),
		Menu:    c.eng.Menu,
	}
	render.DrawScene(c.buf, c.eng.Scene, c.eng.Cam, st)
	c.img.Refresh()
}

func (c *SceneCanvas) resizeBuffer(sz fyne.Size) {
	w := int(sz.Width)
	h := int(sz.Height)
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	if b := c.buf.Bounds(); b.Dx() == w && b.Dy() == h {
		return
	}
	c.buf = image.NewRGBA(image.Rect(0, 0, w, h))
	c.img.Image = c.buf
	c.eng.Resize(float32(w), float32(h))
	c.Redraw()
}

func (c *SceneCanvas) MouseDown(e *desktop.MouseEvent) {
	c.eng.PointerDown(geom.Pt{X: e.Position.X, Y: e.Position.Y})
	c.redrawIfDirty()
}

func (c *SceneCanvas) MouseUp(e *desktop.MouseEvent) {
	c.eng.PointerUp(geom.Pt{X: e.Position.X, Y: e.Position.Y})
	c.redrawIfDirty()
}

func (c *SceneCanvas) MouseIn(e *desktop.MouseEvent) {
	c.eng.PointerMove(geom.Pt{X: e.Position.X, Y: e.Position.Y})
	c.redrawIfDirty()
}

func (c *SceneCanvas) MouseMoved(e *desktop.MouseEvent) {
	c.eng.PointerMove(geom.Pt{X: e.Position.X, Y: e.Position.Y})
	c.redrawIfDirty()
}

func (c *SceneCanvas) MouseOut() {
	c.eng.PointerLeave()
	c.redrawIfDirty()
}

func (c *SceneCanvas) Scrolled(e *fyne.ScrollEvent) {
	c.eng.Scroll(geom.Pt{X: e.Position.X, Y: e.Position.Y}, e.Scrolled.DY)
	c.redrawIfDirty()
}

func (c *SceneCanvas) redrawIfDirty() {
	if c.eng.Dirty() {
		c.Redraw()
	}
}

type sceneCanvasRenderer struct {
	c *SceneCanvas
}

func (r *sceneCanvasRenderer) Layout(sz fyne.Size) {
	r.c.img.Resize(sz)
	r.c.resizeBuffer(sz)
}

func (r *sceneCanvasRenderer) MinSize() fyne.Size           { return r.c.MinSize() }
func (r *sceneCanvasRenderer) Objects() []fyne.CanvasObject { return []fyne.CanvasObject{r.c.img} }
func (r *sceneCanvasRenderer) Refresh()                     { r.c.Redraw() }
func (r *sceneCanvasRenderer) Destroy()                     {}

