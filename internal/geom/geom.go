/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package geom provides the basic 2D primitives used by the viewport engine.
// World coordinates are float64 and Y-up; screen-space conversion happens in
// the viewport package.
package geom

import "math"

// Pt is a 2D point (or vector; the distinction is by use).
type Pt struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add returns p shifted by d.
func (p Pt) Add(d Pt) Pt { return Pt{X: p.X + d.X, Y: p.Y + d.Y} }

// Sub returns p - q.
func (p Pt) Sub(q Pt) Pt { return Pt{X: p.X - q.X, Y: p.Y - q.Y} }

// Dist returns the Euclidean distance to q.
func (p Pt) Dist(q Pt) float64 { return math.Hypot(p.X-q.X, p.Y-q.Y) }

// Rect is an axis-aligned rectangle defined by its min and max corners.
type Rect struct {
	MinX, MinY float64
	MaxX, MaxY float64
}

// R builds a rect from two arbitrary corner points, normalizing order.
func R(a, b Pt) Rect {
	return Rect{
		MinX: math.Min(a.X, b.X),
		MinY: math.Min(a.Y, b.Y),
		MaxX: math.Max(a.X, b.X),
		MaxY: math.Max(a.Y, b.Y),
	}
}

func (r Rect) Width() float64  { return r.MaxX - r.MinX }
func (r Rect) Height() float64 { return r.MaxY - r.MinY }

// Center returns the midpoint of the rect.
func (r Rect) Center() Pt { return Pt{X: (r.MinX + r.MaxX) / 2, Y: (r.MinY + r.MaxY) / 2} }

// Contains reports whether p lies inside r, edges included.
func (r Rect) Contains(p Pt) bool {
	return p.X >= r.MinX && p.X <= r.MaxX && p.Y >= r.MinY && p.Y <= r.MaxY
}

// Expand grows the rect by d on all sides (negative shrinks).
func (r Rect) Expand(d float64) Rect {
	return Rect{MinX: r.MinX - d, MinY: r.MinY - d, MaxX: r.MaxX + d, MaxY: r.MaxY + d}
}

// Include extends the rect to cover p.
func (r Rect) Include(p Pt) Rect {
	return Rect{
		MinX: math.Min(r.MinX, p.X),
		MinY: math.Min(r.MinY, p.Y),
		MaxX: math.Max(r.MaxX, p.X),
		MaxY: math.Max(r.MaxY, p.Y),
	}
}

// SegmentDist returns the distance from p to the segment a-b.
// The projection parameter is clamped to [0,1], so a degenerate (zero-length)
// segment falls back to plain point distance.
func SegmentDist(p, a, b Pt) float64 {
	dx := b.X - a.X
	dy := b.Y - a.Y
	len2 := dx*dx + dy*dy
	if len2 == 0 {
		return p.Dist(a)
	}
	t := ((p.X-a.X)*dx + (p.Y-a.Y)*dy) / len2
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return p.Dist(Pt{X: a.X + t*dx, Y: a.Y + t*dy})
}
