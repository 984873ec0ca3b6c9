/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package viewport

import (
	"fmt"
	"log/slog"

	"draftview/internal/entity"
	"draftview/internal/geom"
	applog "draftview/internal/log"
)

// Mode is the active interaction tool. Exactly one is active at a time and it
// is toggled explicitly (secondary click), never inferred from a gesture.
type Mode int

const (
	ModeSelect Mode = iota
	ModeMove
)

func (m Mode) String() string {
	if m == ModeMove {
		return "Move"
	}
	return "Select"
}

// gesture is the transient pointer state: created on pointer-down, resolved
// and discarded on pointer-up or pointer-leave. Never persisted.
type gesture int

const (
	gestureIdle gesture = iota
	gesturePanning
	gestureBoxSelect
	gestureDragging
)

// Key names accepted by KeyDown/KeyUp. Input is routed through these methods
// explicitly so the engine is testable without a windowing environment.
const (
	KeyDelete    = "Delete"
	KeyBackspace = "Backspace"
	KeyEscape    = "Escape"
	KeyModifier  = "Shift" // multi-select modifier
)

// Config tunes the engine. Zero values fall back to defaults; MinScale and
// MaxScale of 0 mean unbounded zoom, matching the observed behavior of the
// drafting viewer this engine was built for.
type Config struct {
	Width, Height float64 // viewport size in pixels, fixed at construction
	TolerancePx   float64 // pick radius in pixels (default 6)
	ZoomStep      float64 // multiplicative wheel step (default 1.05)
	MinScale      float64 // optional zoom clamp, 0 = none
	MaxScale      float64 // optional zoom clamp, 0 = none
	GridSpacing   float64 // grid cell size in world units (default 10)
}

func (c Config) withDefaults() Config {
	if c.Width <= 0 {
		c.Width = 800
	}
	if c.Height <= 0 {
		c.Height = 600
	}
	if c.TolerancePx <= 0 {
		c.TolerancePx = 6
	}
	if c.ZoomStep <= 1 {
		c.ZoomStep = 1.05
	}
	if c.GridSpacing <= 0 {
		c.GridSpacing = 10
	}
	return c
}

// Engine ties the store, selection, transform and gesture state machine
// together. It is single-threaded by design: input handlers are the only
// writers and rendering only reads, so every state change caused by one input
// event is visible atomically to the next frame.
type Engine struct {
	cfg   Config
	log   *slog.Logger
	store *entity.Store
	sel   *Selection
	view  Transform
	mode  Mode

	gest        gesture
	boxStart    geom.Pt // screen space
	boxCur      geom.Pt
	boxAdditive bool
	dragIDs     map[string]bool
	lastPointer geom.Pt
	modHeld     bool

	// onChange receives an entity snapshot after every structural mutation
	// (move-complete, delete). May be nil.
	onChange func([]entity.Entity)
}

// New constructs an engine over an empty store.
func New(cfg Config, onChange func([]entity.Entity)) *Engine {
	cfg = cfg.withDefaults()
	e := &Engine{
		cfg:      cfg,
		log:      applog.WithComponent("viewport"),
		store:    entity.NewStore(nil),
		sel:      NewSelection(),
		mode:     ModeSelect,
		onChange: onChange,
	}
	e.view = FitTransform(Bounds(nil), cfg.Width, cfg.Height)
	return e
}

// Load ingests a new entity list, clears the selection and refits the view.
// Called when the host hands over a drawing, not per frame.
func (e *Engine) Load(entities []entity.Entity) {
	e.store.Ingest(entities)
	e.sel.Clear()
	e.store.ApplySelection(nil)
	e.view = FitTransform(Bounds(e.store.Entities()), e.cfg.Width, e.cfg.Height)
	e.gest = gestureIdle
	e.log.Info("drawing loaded", slog.Int("entities", e.store.Len()), slog.Float64("scale", e.view.Scale))
}

// Entities exposes the live list for rendering. Read-only.
func (e *Engine) Entities() []entity.Entity { return e.store.Entities() }

// Snapshot returns a host-safe copy of the current entity list.
func (e *Engine) Snapshot() []entity.Entity { return e.store.Snapshot() }

// View returns the current world/screen transform.
func (e *Engine) View() Transform { return e.view }

// Mode returns the active interaction mode.
func (e *Engine) Mode() Mode { return e.mode }

// ToggleMode switches between Select and Move without touching gesture state.
func (e *Engine) ToggleMode() {
	if e.mode == ModeSelect {
		e.mode = ModeMove
	} else {
		e.mode = ModeSelect
	}
}

// SelectionCount returns the number of selected entities.
func (e *Engine) SelectionCount() int { return e.sel.Count() }

// SelectionBox returns the in-progress rubber-band box in screen space, and
// whether one is active.
func (e *Engine) SelectionBox() (geom.Rect, bool) {
	if e.gest != gestureBoxSelect {
		return geom.Rect{}, false
	}
	return geom.R(e.boxStart, e.boxCur), true
}

// Status is the one-line readout drawn by the render loop.
func (e *Engine) Status() string {
	return fmt.Sprintf("%s — %d selected", e.mode, e.sel.Count())
}

// GridSpacing returns the configured grid cell size in world units.
func (e *Engine) GridSpacing() float64 { return e.cfg.GridSpacing }

// PointerDown dispatches a press. secondary toggles the mode and nothing
// else; additive is the multi-select modifier (also tracked via KeyDown).
func (e *Engine) PointerDown(p geom.Pt, secondary, additive bool) {
	if secondary {
		e.ToggleMode()
		return
	}
	if e.gest != gestureIdle {
		return
	}
	additive = additive || e.modHeld
	id, hit := HitTest(e.store.Entities(), p, e.view, e.cfg.TolerancePx)

	switch e.mode {
	case ModeSelect:
		switch {
		case !hit:
			e.gest = gestureBoxSelect
			e.boxStart, e.boxCur = p, p
			e.boxAdditive = additive
		case !e.sel.Has(id):
			if additive {
				e.sel.Add(id)
			} else {
				e.sel.Single(id)
			}
			e.store.ApplySelection(e.sel.IDs())
		default:
			e.beginDrag(p)
		}
	case ModeMove:
		if hit {
			if e.sel.Count() == 0 {
				e.sel.Single(id)
				e.store.ApplySelection(e.sel.IDs())
			}
			e.beginDrag(p)
		} else {
			e.gest = gesturePanning
			e.lastPointer = p
		}
	}
}

func (e *Engine) beginDrag(p geom.Pt) {
	e.gest = gestureDragging
	e.dragIDs = e.sel.IDs()
	e.lastPointer = p
}

// PointerMove advances the active gesture. Dragging converts the screen delta
// to world units (divide by scale, flip Y) and translates the captured
// selection; panning applies the raw screen delta.
func (e *Engine) PointerMove(p geom.Pt) {
	switch e.gest {
	case gestureBoxSelect:
		e.boxCur = p
	case gestureDragging:
		delta := geom.Pt{
			X: (p.X - e.lastPointer.X) / e.view.Scale,
			Y: -(p.Y - e.lastPointer.Y) / e.view.Scale,
		}
		e.store.Translate(e.dragIDs, delta)
		e.lastPointer = p
	case gesturePanning:
		e.view = e.view.PanBy(p.X-e.lastPointer.X, p.Y-e.lastPointer.Y)
		e.lastPointer = p
	}
}

// PointerUp resolves the active gesture and returns to idle. All transient
// gesture state is discarded.
func (e *Engine) PointerUp(p geom.Pt) {
	switch e.gest {
	case gestureBoxSelect:
		e.boxCur = p
		rect := geom.R(e.view.ScreenToWorld(e.boxStart), e.view.ScreenToWorld(e.boxCur))
		e.sel.SelectBox(rect, e.store.Entities(), e.boxAdditive)
		e.store.ApplySelection(e.sel.IDs())
	case gestureDragging:
		e.emitChange("move")
	}
	e.gest = gestureIdle
	e.dragIDs = nil
}

// PointerLeave behaves identically to PointerUp at the last known position,
// so leaving the canvas never leaves a gesture dangling.
func (e *Engine) PointerLeave() {
	switch e.gest {
	case gestureBoxSelect:
		e.PointerUp(e.boxCur)
	default:
		e.PointerUp(e.lastPointer)
	}
}

// Wheel zooms toward the pointer by the configured multiplicative step.
func (e *Engine) Wheel(p geom.Pt, deltaY float64) {
	if deltaY == 0 {
		return
	}
	factor := e.cfg.ZoomStep
	if deltaY < 0 {
		factor = 1 / e.cfg.ZoomStep
	}
	e.view = e.view.ZoomAt(p, factor, e.cfg.MinScale, e.cfg.MaxScale)
}

// KeyDown routes a key press. Delete/Backspace remove the selection, Escape
// clears it and cancels an in-progress box selection.
func (e *Engine) KeyDown(key string) {
	switch key {
	case KeyDelete, KeyBackspace:
		if e.sel.Count() > 0 {
			e.DeleteSelected()
		}
	case KeyEscape:
		e.sel.Clear()
		e.store.ApplySelection(nil)
		if e.gest == gestureBoxSelect {
			e.gest = gestureIdle
		}
	case KeyModifier:
		e.modHeld = true
	}
}

// KeyUp releases the multi-select modifier.
func (e *Engine) KeyUp(key string) {
	if key == KeyModifier {
		e.modHeld = false
	}
}

// DeleteSelected removes the selected entities, keeps the selection set
// consistent with the store, and reports the new list to the host.
func (e *Engine) DeleteSelected() {
	removed := e.store.Remove(e.sel.IDs())
	e.sel.Reconcile(e.store.IDs())
	e.sel.Clear()
	e.store.ApplySelection(nil)
	if removed > 0 {
		e.log.Debug("entities deleted", slog.Int("count", removed))
		e.emitChange("delete")
	}
}

func (e *Engine) emitChange(op string) {
	if e.onChange != nil {
		e.onChange(e.store.Snapshot())
	}
	e.log.Debug("structural mutation", slog.String("op", op), slog.Int("entities", e.store.Len()))
}
