/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package viewport implements the interaction engine for the drafting canvas:
// world/screen coordinate transforms, bounds fitting, hit-testing, selection
// management and the pointer/keyboard gesture state machine. It owns the
// entity store while a drawing is open and hands immutable snapshots to the
// host after each structural mutation.
package viewport

import "draftview/internal/geom"

// Transform maps world coordinates (Y-up) to screen pixels (Y-down).
// Screen = World*Scale + Pan with the Y axis inverted. Scale is strictly
// positive; all zoom operations are multiplicative so it can never reach zero.
type Transform struct {
	Scale float64 // world-units-per-pixel multiplier
	Pan   geom.Pt // pixel offset of the world origin
}

// NewTransform returns an identity-scale transform. A non-positive scale is
// replaced by 1.
func NewTransform(scale float64, pan geom.Pt) Transform {
	if scale <= 0 {
		scale = 1
	}
	return Transform{Scale: scale, Pan: pan}
}

// WorldToScreen converts a world-space point to screen pixels.
func (t Transform) WorldToScreen(p geom.Pt) geom.Pt {
	return geom.Pt{
		X: p.X*t.Scale + t.Pan.X,
		Y: -p.Y*t.Scale + t.Pan.Y,
	}
}

// ScreenToWorld is the exact inverse of WorldToScreen.
func (t Transform) ScreenToWorld(p geom.Pt) geom.Pt {
	return geom.Pt{
		X: (p.X - t.Pan.X) / t.Scale,
		Y: -(p.Y - t.Pan.Y) / t.Scale,
	}
}

// ZoomAt rescales by factor while keeping the world point under the given
// screen pointer stationary. minScale/maxScale clamp the result when non-zero;
// the pan is computed from the factor actually applied, so the pointer
// invariant holds even when the clamp bites.
func (t Transform) ZoomAt(pointer geom.Pt, factor, minScale, maxScale float64) Transform {
	if factor <= 0 {
		return t
	}
	scale := t.Scale * factor
	if minScale > 0 && scale < minScale {
		scale = minScale
	}
	if maxScale > 0 && scale > maxScale {
		scale = maxScale
	}
	applied := scale / t.Scale
	return Transform{
		Scale: scale,
		Pan: geom.Pt{
			X: pointer.X - (pointer.X-t.Pan.X)*applied,
			Y: pointer.Y - (pointer.Y-t.Pan.Y)*applied,
		},
	}
}

// PanBy shifts the view by a raw screen-space delta.
func (t Transform) PanBy(dx, dy float64) Transform {
	t.Pan.X += dx
	t.Pan.Y += dy
	return t
}
