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
	"image/color"
	"log/slog"
	"math"
	"path/filepath"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"draftview/internal/config"
	"draftview/internal/crash"
	"draftview/internal/entity"
	"draftview/internal/export"
	"draftview/internal/geom"
	applog "draftview/internal/log"
	"draftview/internal/storage"
	"draftview/internal/telemetry"
	"draftview/internal/undo"
	"draftview/internal/viewport"
)

// Run starts the Fyne-based desktop viewer for the given drawing file
// (optional; empty opens an empty viewport).
func Run(drawingPath string) error {
	cfg, _, _ := config.Load()
	applog.Init(applog.Options{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		AddSource: cfg.Logging.Source,
		File:      cfg.Logging.File,
	})
	l := applog.WithComponent("ui")
	l.Info("starting UI")

	var h *storage.DrawingHandle
	defer func() { crash.Recover(h) }()

	fyneApp := app.NewWithID("draftview")
	w := fyneApp.NewWindow("DraftView")
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

	status := widget.NewLabel("Ready")

	undoMgr := undo.NewManager(undo.Config{
		MaxBytes:    int(cfg.Undo.MaxBytes),
		MaxDepth:    cfg.Undo.MaxDepth,
		MinInterval: time.Duration(cfg.Undo.MinIntervalMs) * time.Millisecond,
	})

	var dc *DraftCanvas

	pushSnapshot := func(label string, ents []entity.Entity) {
		name := ""
		if h != nil {
			name = h.Doc.Name
		}
		blob, err := entity.EncodeDocument(entity.Document{Name: name, Entities: ents})
		if err != nil {
			l.Error("snapshot encode failed", slog.Any("err", err))
			return
		}
		undoMgr.Push(undo.Snapshot{Label: label, Blob: blob, TS: time.Now()})
	}

	onChange := func(ents []entity.Entity) {
		if h != nil {
			h.Doc.Entities = ents
		}
		pushSnapshot("edit", ents)
	}

	eng := viewport.New(viewport.Config{
		Width:       float64(winW),
		Height:      float64(winH - 80), // menu and status bar take the rest
		TolerancePx: cfg.Viewport.TolerancePx,
		ZoomStep:    cfg.Viewport.ZoomStep,
		MinScale:    cfg.Viewport.MinScale,
		MaxScale:    cfg.Viewport.MaxScale,
		GridSpacing: cfg.Viewport.GridSpacing,
	}, onChange)

	dc = NewDraftCanvas(eng)
	dc.OnStatus = func(s string) { status.SetText(s) }

	applySnapshot := func(blob []byte) {
		doc, err := entity.DecodeDocument(blob)
		if err != nil {
			l.Error("snapshot decode failed", slog.Any("err", err))
			return
		}
		if h != nil {
			h.Doc = doc
		}
		eng.Load(doc.Entities)
		dc.Refresh()
		status.SetText(eng.Status())
	}

	recordOpen := func(path string) {
		dir, err := storage.DefaultCatalogDir()
		if err != nil {
			return
		}
		db, err := storage.OpenCatalog(dir)
		if err != nil {
			return
		}
		defer func() { _ = db.Close() }()
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = storage.RecordOpen(ctx, db, path, time.Now())
	}

	openDrawing := func(path string) {
		nh, err := storage.Open(path)
		if err != nil {
			dialog.ShowError(err, w)
			return
		}
		h = nh
		undoMgr.Clear()
		eng.Load(h.Doc.Entities)
		pushSnapshot("open", eng.Snapshot())
		dc.Refresh()
		status.SetText(eng.Status())
		w.SetTitle("DraftView — " + filepath.Base(path))
		recordOpen(path)
		telemetry.Event("drawing_opened", map[string]any{"entities": len(h.Doc.Entities)})
		l.Info("drawing opened", slog.String("path", path), slog.Int("entities", len(h.Doc.Entities)))
	}

	saveDrawing := func() {
		if h == nil {
			status.SetText("Nothing to save")
			return
		}
		h.Doc.Entities = eng.Snapshot()
		if err := storage.Save(h); err != nil {
			dialog.ShowError(err, w)
			return
		}
		status.SetText("Saved " + filepath.Base(h.Path))
		l.Info("drawing saved", slog.String("path", h.Path))
	}

	exportAs := func(format string) {
		if h == nil {
			status.SetText("Open a drawing first")
			return
		}
		doc := entity.Document{Name: h.Doc.Name, Entities: eng.Snapshot()}
		base := strings.TrimSuffix(h.Path, filepath.Ext(h.Path))
		out := base + "." + format
		var err error
		switch format {
		case "svg":
			err = export.ExportSVG(doc, out, export.Options{})
		case "pdf":
			err = export.ExportPDF(doc, out, export.Options{})
		case "png":
			err = export.ExportPNG(doc, out, export.Options{})
		}
		if err != nil {
			dialog.ShowError(err, w)
			return
		}
		status.SetText("Exported " + filepath.Base(out))
	}

	openItem := fyne.NewMenuItem("Open…", func() {
		fd := dialog.NewFileOpen(func(rc fyne.URIReadCloser, err error) {
			if err != nil || rc == nil {
				return
			}
			path := rc.URI().Path()
			_ = rc.Close()
			openDrawing(path)
		}, w)
		fd.Show()
	})
	saveItem := fyne.NewMenuItem("Save", saveDrawing)
	openItem.Shortcut = &desktop.CustomShortcut{KeyName: fyne.KeyO, Modifier: fyne.KeyModifierControl}
	saveItem.Shortcut = &desktop.CustomShortcut{KeyName: fyne.KeyS, Modifier: fyne.KeyModifierControl}

	fileMenu := fyne.NewMenu("File",
		openItem,
		saveItem,
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Export SVG", func() { exportAs("svg") }),
		fyne.NewMenuItem("Export PDF", func() { exportAs("pdf") }),
		fyne.NewMenuItem("Export PNG", func() { exportAs("png") }),
	)

	undoItem := fyne.NewMenuItem("Undo", func() {
		if s, ok := undoMgr.Undo(); ok {
			applySnapshot(s.Blob)
		}
	})
	redoItem := fyne.NewMenuItem("Redo", func() {
		if s, ok := undoMgr.Redo(); ok {
			applySnapshot(s.Blob)
		}
	})
	undoItem.Shortcut = &desktop.CustomShortcut{KeyName: fyne.KeyZ, Modifier: fyne.KeyModifierControl}
	redoItem.Shortcut = &desktop.CustomShortcut{KeyName: fyne.KeyY, Modifier: fyne.KeyModifierControl}
	editMenu := fyne.NewMenu("Edit",
		undoItem,
		redoItem,
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Delete Selection", func() {
			eng.KeyDown(viewport.KeyDelete)
			dc.Refresh()
			status.SetText(eng.Status())
		}),
	)
	viewMenu := fyne.NewMenu("View",
		fyne.NewMenuItem("Fit Drawing", func() {
			eng.Load(eng.Snapshot())
			dc.Refresh()
			status.SetText(eng.Status())
		}),
		fyne.NewMenuItem("Toggle Mode", func() {
			eng.ToggleMode()
			dc.Refresh()
			status.SetText(eng.Status())
		}),
	)
	w.SetMainMenu(fyne.NewMainMenu(fileMenu, editMenu, viewMenu))

	// Keyboard routing: named keys via the canvas, the shift modifier via the
	// desktop driver so additive selection works while the mouse is active.
	w.Canvas().SetOnTypedKey(func(ev *fyne.KeyEvent) {
		switch ev.Name {
		case fyne.KeyDelete:
			eng.KeyDown(viewport.KeyDelete)
		case fyne.KeyBackspace:
			eng.KeyDown(viewport.KeyBackspace)
		case fyne.KeyEscape:
			eng.KeyDown(viewport.KeyEscape)
		default:
			return
		}
		dc.Refresh()
		status.SetText(eng.Status())
	})
	if deskCanvas, ok := w.Canvas().(desktop.Canvas); ok {
		deskCanvas.SetOnKeyDown(func(ev *fyne.KeyEvent) {
			if ev.Name == desktop.KeyShiftLeft || ev.Name == desktop.KeyShiftRight {
				eng.KeyDown(viewport.KeyModifier)
			}
		})
		deskCanvas.SetOnKeyUp(func(ev *fyne.KeyEvent) {
			if ev.Name == desktop.KeyShiftLeft || ev.Name == desktop.KeyShiftRight {
				eng.KeyUp(viewport.KeyModifier)
			}
		})
	}

	w.SetContent(container.NewBorder(nil, status, nil, nil, dc))
	w.SetOnClosed(func() {
		sz := w.Canvas().Size()
		prefs.SetInt("window.width", int(sz.Width))
		prefs.SetInt("window.height", int(sz.Height))
	})

	if strings.TrimSpace(drawingPath) != "" {
		openDrawing(drawingPath)
	}
	status.SetText(eng.Status())

	w.ShowAndRun()
	return nil
}

// DraftCanvas renders the viewport engine's state and translates Fyne input
// events into engine calls. All mutation goes through the engine; the widget
// itself holds no drawing state.
type DraftCanvas struct {
	widget.BaseWidget
	eng      *viewport.Engine
	OnStatus func(string)

	dragging bool
	lastDrag geom.Pt
}

func NewDraftCanvas(eng *viewport.Engine) *DraftCanvas {
	dc := &DraftCanvas{eng: eng}
	dc.ExtendBaseWidget(dc)
	return dc
}

func (c *DraftCanvas) PreferredSize() fyne.Size { return fyne.NewSize(800, 600) }

func (c *DraftCanvas) notify() {
	if c.OnStatus != nil {
		c.OnStatus(c.eng.Status())
	}
}

func pt(pos fyne.Position) geom.Pt {
	return geom.Pt{X: float64(pos.X), Y: float64(pos.Y)}
}

// Tapped is a primary click: press and release at the same position.
func (c *DraftCanvas) Tapped(e *fyne.PointEvent) {
	p := pt(e.Position)
	c.eng.PointerDown(p, false, false)
	c.eng.PointerUp(p)
	c.Refresh()
	c.notify()
}

// TappedSecondary toggles the interaction mode.
func (c *DraftCanvas) TappedSecondary(e *fyne.PointEvent) {
	c.eng.PointerDown(pt(e.Position), true, false)
	c.Refresh()
	c.notify()
}

// Dragged feeds the engine a synthetic press on the first event (Fyne does
// not deliver a separate mouse-down for drags), then motion.
func (c *DraftCanvas) Dragged(e *fyne.DragEvent) {
	cur := pt(e.Position)
	if !c.dragging {
		start := geom.Pt{X: cur.X - float64(e.Dragged.DX), Y: cur.Y - float64(e.Dragged.DY)}
		c.eng.PointerDown(start, false, false)
		c.dragging = true
	}
	c.eng.PointerMove(cur)
	c.lastDrag = cur
	c.Refresh()
	c.notify()
}

func (c *DraftCanvas) DragEnd() {
	if c.dragging {
		c.eng.PointerUp(c.lastDrag)
		c.dragging = false
		c.Refresh()
		c.notify()
	}
}

// Scrolled zooms toward the pointer.
func (c *DraftCanvas) Scrolled(e *fyne.ScrollEvent) {
	c.eng.Wheel(pt(e.Position), float64(e.Scrolled.DY))
	c.Refresh()
}

// MouseIn, MouseMoved, MouseOut implement desktop.Hoverable; leaving the
// canvas resolves any in-flight gesture.
func (c *DraftCanvas) MouseIn(*desktop.MouseEvent)    {}
func (c *DraftCanvas) MouseMoved(*desktop.MouseEvent) {}
func (c *DraftCanvas) MouseOut() {
	c.eng.PointerLeave()
	c.dragging = false
	c.Refresh()
	c.notify()
}

func (c *DraftCanvas) CreateRenderer() fyne.WidgetRenderer {
	bg := canvas.NewRectangle(color.RGBA{R: 250, G: 250, B: 250, A: 255})
	box := canvas.NewRectangle(color.RGBA{R: 30, G: 102, B: 208, A: 28})
	box.StrokeColor = color.RGBA{R: 30, G: 102, B: 208, A: 255}
	box.StrokeWidth = 1
	box.Hide()
	return &draftCanvasRenderer{dc: c, bg: bg, box: box}
}

// draftCanvasRenderer rebuilds its object list every layout pass; entity
// counts change with every delete, so static object slices would go stale.
type draftCanvasRenderer struct {
	dc      *DraftCanvas
	bg      *canvas.Rectangle
	box     *canvas.Rectangle
	objects []fyne.CanvasObject
}

const maxGridLines = 400

var (
	gridColor      = color.RGBA{R: 225, G: 225, B: 230, A: 255}
	entityColor    = color.RGBA{R: 20, G: 20, B: 20, A: 255}
	selectionColor = color.RGBA{R: 30, G: 102, B: 208, A: 255}
)

func (r *draftCanvasRenderer) Destroy()                     {}
func (r *draftCanvasRenderer) Objects() []fyne.CanvasObject { return r.objects }
func (r *draftCanvasRenderer) MinSize() fyne.Size           { return r.dc.PreferredSize() }
func (r *draftCanvasRenderer) Refresh()                     { r.Layout(r.dc.Size()); canvas.Refresh(r.dc) }

func (r *draftCanvasRenderer) Layout(size fyne.Size) {
	eng := r.dc.eng
	view := eng.View()

	r.bg.Resize(size)
	r.bg.Move(fyne.NewPos(0, 0))

	objs := []fyne.CanvasObject{r.bg}
	objs = append(objs, r.gridLines(view, size)...)

	// selected entities draw on top of unselected ones
	var selected []fyne.CanvasObject
	for _, e := range eng.Entities() {
		col := entityColor
		if e.Selected {
			col = selectionColor
		}
		var obj fyne.CanvasObject
		switch e.Kind {
		case entity.KindLine:
			a := view.WorldToScreen(e.Start)
			b := view.WorldToScreen(e.End)
			ln := canvas.NewLine(col)
			ln.StrokeWidth = 1
			if e.Selected {
				ln.StrokeWidth = 2
			}
			ln.Position1 = fyne.NewPos(float32(a.X), float32(a.Y))
			ln.Position2 = fyne.NewPos(float32(b.X), float32(b.Y))
			obj = ln
		case entity.KindText:
			p := view.WorldToScreen(e.Position)
			txt := canvas.NewText(e.Text, col)
			txt.TextSize = 14
			// anchor is the bottom-left corner of the label box
			txt.Move(fyne.NewPos(float32(p.X), float32(p.Y)-txt.MinSize().Height))
			obj = txt
		default:
			continue
		}
		if e.Selected {
			selected = append(selected, obj)
		} else {
			objs = append(objs, obj)
		}
	}
	objs = append(objs, selected...)

	if rect, active := eng.SelectionBox(); active {
		r.box.Show()
		r.box.Move(fyne.NewPos(float32(rect.MinX), float32(rect.MinY)))
		r.box.Resize(fyne.NewSize(float32(rect.Width()), float32(rect.Height())))
	} else {
		r.box.Hide()
	}
	objs = append(objs, r.box)

	r.objects = objs
}

// gridLines emits world-aligned grid lines covering the viewport. The grid is
// skipped entirely when zoomed out far enough that it would turn into noise.
func (r *draftCanvasRenderer) gridLines(view viewport.Transform, size fyne.Size) []fyne.CanvasObject {
	spacing := r.dc.eng.GridSpacing()
	if spacing <= 0 || view.Scale <= 0 {
		return nil
	}
	w := float64(size.Width)
	h := float64(size.Height)
	lo := view.ScreenToWorld(geom.Pt{X: 0, Y: h})
	hi := view.ScreenToWorld(geom.Pt{X: w, Y: 0})
	nx := (hi.X - lo.X) / spacing
	ny := (hi.Y - lo.Y) / spacing
	if nx+ny > maxGridLines {
		return nil
	}
	var objs []fyne.CanvasObject
	for x := math.Floor(lo.X/spacing) * spacing; x <= hi.X; x += spacing {
		sp := view.WorldToScreen(geom.Pt{X: x, Y: 0})
		ln := canvas.NewLine(gridColor)
		ln.StrokeWidth = 1
		ln.Position1 = fyne.NewPos(float32(sp.X), 0)
		ln.Position2 = fyne.NewPos(float32(sp.X), float32(h))
		objs = append(objs, ln)
	}
	for y := math.Floor(lo.Y/spacing) * spacing; y <= hi.Y; y += spacing {
		sp := view.WorldToScreen(geom.Pt{Y: y})
		ln := canvas.NewLine(gridColor)
		ln.StrokeWidth = 1
		ln.Position1 = fyne.NewPos(0, float32(sp.Y))
		ln.Position2 = fyne.NewPos(float32(w), float32(sp.Y))
		objs = append(objs, ln)
	}
	return objs
}
