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
	"math"

	"draftview/internal/entity"
	"draftview/internal/geom"
)

const (
	// defaultBoundsHalf frames an empty drawing as [-10,-10]..[10,10].
	defaultBoundsHalf = 10.0
	boundsPadding     = 0.10 // fraction of the larger extent, added on all sides
	fitMargin         = 0.9  // leave a little air after the padded fit
)

// Bounds folds min/max over every line endpoint and text anchor and pads the
// result so content never touches the viewport edge exactly. Entities of
// unknown kind contribute nothing. An empty (or all-unknown) list yields the
// fixed default box, so fit computation never divides by zero.
func Bounds(entities []entity.Entity) geom.Rect {
	b := geom.Rect{
		MinX: math.Inf(1), MinY: math.Inf(1),
		MaxX: math.Inf(-1), MaxY: math.Inf(-1),
	}
	seen := false
	for _, e := range entities {
		for _, p := range e.Points() {
			b = b.Include(p)
			seen = true
		}
	}
	if !seen {
		return geom.Rect{
			MinX: -defaultBoundsHalf, MinY: -defaultBoundsHalf,
			MaxX: defaultBoundsHalf, MaxY: defaultBoundsHalf,
		}
	}
	pad := boundsPadding * math.Max(b.Width(), b.Height())
	if pad == 0 {
		// Single point or fully degenerate geometry: fall back to the default
		// box extent around it.
		pad = defaultBoundsHalf
	}
	return b.Expand(pad)
}

// FitTransform derives the scale/pan pair that frames the given bounds in a
// viewport of vw x vh pixels, centering the bounds midpoint with the Y-flip
// baked in. It runs once per load, not per frame.
func FitTransform(b geom.Rect, vw, vh float64) Transform {
	scale := math.Min(vw/b.Width(), vh/b.Height()) * fitMargin
	if !(scale > 0) || math.IsInf(scale, 0) {
		scale = 1
	}
	c := b.Center()
	return Transform{
		Scale: scale,
		Pan: geom.Pt{
			X: vw/2 - c.X*scale,
			Y: vh/2 + c.Y*scale,
		},
	}
}
