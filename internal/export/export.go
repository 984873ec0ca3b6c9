/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package export renders drawing documents to SVG, PDF, and PNG files. All
// exporters share the viewport fit math so an exported image frames the
// drawing the same way the interactive view does.
package export

import (
	"draftview/internal/entity"
	"draftview/internal/viewport"
)

// Options controls export behavior. Width and Height are the output viewport
// in pixels (points for PDF); the drawing is fitted to them with the standard
// margin. Zero values fall back to 1024x768.
type Options struct {
	Width     float64
	Height    float64
	LineWidth float64 // stroke width, default 1
	FontSize  float64 // label size, default 14
	Selected  bool    // highlight selected entities
}

func (o Options) withDefaults() Options {
	if o.Width <= 0 {
		o.Width = 1024
	}
	if o.Height <= 0 {
		o.Height = 768
	}
	if o.LineWidth <= 0 {
		o.LineWidth = 1
	}
	if o.FontSize <= 0 {
		o.FontSize = 14
	}
	return o
}

// fitView computes the screen transform that frames all entities.
func fitView(ents []entity.Entity, opt Options) viewport.Transform {
	return viewport.FitTransform(viewport.Bounds(ents), opt.Width, opt.Height)
}
