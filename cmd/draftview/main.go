/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"draftview/internal/backend"
	"draftview/internal/crash"
	"draftview/internal/entity"
	"draftview/internal/export"
	applog "draftview/internal/log"
	"draftview/internal/storage"
	"draftview/internal/telemetry"
	"draftview/internal/ui"
	"draftview/internal/version"
)

func usage() {
	fmt.Println("DraftView — interactive drafting viewer")
	fmt.Printf("Version: %s\n", version.String())
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  draftview version|-v|--version              Show version")
	fmt.Println("  draftview init <file> <name>                Create a new empty drawing at <file>")
	fmt.Println("  draftview open <file>                       Open a drawing and print a summary")
	fmt.Println("  draftview validate <file>                   Check a drawing file against the document schema")
	fmt.Println("  draftview export <file> <svg|pdf|png> [out] Render a drawing to a file")
	fmt.Println("  draftview recent                            List recently opened drawings")
	fmt.Println("  draftview ui [<file>]                       Launch desktop UI (build with -tags fyne for full UI)")
	fmt.Println("  draftview serve                             Run the sync backend (needs DATABASE_URL)")
}

func main() {
	// initialize structured logging using environment defaults
	applog.Init(applog.FromEnv())
	l := applog.WithComponent("cli")
	telemetry.InitDefault()
	defer telemetry.Close()
	var h *storage.DrawingHandle
	defer func() { crash.Recover(h) }()

	args := os.Args
	l.Debug("start", slog.Int("args", len(args)))
	if len(args) > 1 {
		switch args[1] {
		case "version", "--version", "-v":
			fmt.Println("DraftView — interactive drafting viewer")
			fmt.Println(version.String())
			return
		case "init":
			if len(args) < 4 {
				fmt.Println("init requires <file> and <name>")
				usage()
				os.Exit(2)
			}
			abs, _ := filepath.Abs(args[2])
			name := args[3]
			l.Info("init drawing", slog.String("path", abs), slog.String("name", name))
			nh, err := storage.Init(abs, entity.Document{Name: name})
			if err != nil {
				l.Error("init failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			h = nh
			fmt.Println("Created drawing at", abs)
			return
		case "open":
			if len(args) < 3 {
				fmt.Println("open requires <file>")
				usage()
				os.Exit(2)
			}
			abs, _ := filepath.Abs(args[2])
			l.Info("open drawing", slog.String("path", abs))
			nh, err := storage.Open(abs)
			if err != nil {
				l.Error("open failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			h = nh
			recordOpen(abs)
			fmt.Printf("Opened drawing: %s\n", h.Doc.Name)
			fmt.Printf("Entities: %d\n", len(h.Doc.Entities))
			fmt.Println("Path:", h.Path)
			return
		case "validate":
			if len(args) < 3 {
				fmt.Println("validate requires <file>")
				usage()
				os.Exit(2)
			}
			abs, _ := filepath.Abs(args[2])
			raw, err := os.ReadFile(abs)
			if err != nil {
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			doc, err := entity.DecodeDocument(raw)
			if err != nil {
				fmt.Println("Invalid:", err)
				os.Exit(1)
			}
			fmt.Printf("Valid drawing %q with %d entities\n", doc.Name, len(doc.Entities))
			return
		case "export":
			if len(args) < 4 {
				fmt.Println("export requires <file> and a format (svg, pdf or png)")
				usage()
				os.Exit(2)
			}
			abs, _ := filepath.Abs(args[2])
			format := strings.ToLower(args[3])
			nh, err := storage.Open(abs)
			if err != nil {
				l.Error("open before export failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			h = nh
			out := strings.TrimSuffix(abs, filepath.Ext(abs)) + "." + format
			if len(args) >= 5 {
				out, _ = filepath.Abs(args[4])
			}
			l.Info("export drawing", slog.String("path", abs), slog.String("format", format), slog.String("out", out))
			switch format {
			case "svg":
				err = export.ExportSVG(h.Doc, out, export.Options{})
			case "pdf":
				err = export.ExportPDF(h.Doc, out, export.Options{})
			case "png":
				err = export.ExportPNG(h.Doc, out, export.Options{})
			default:
				fmt.Println("unknown format:", format)
				os.Exit(2)
			}
			if err != nil {
				l.Error("export failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			telemetry.Event("drawing_exported", map[string]any{"format": format})
			fmt.Println("Exported to", out)
			return
		case "recent":
			paths, err := recentDrawings()
			if err != nil {
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			if len(paths) == 0 {
				fmt.Println("No recent drawings.")
				return
			}
			for _, p := range paths {
				fmt.Println(p)
			}
			return
		case "ui":
			var path string
			if len(args) >= 3 {
				path = args[2]
			}
			if err := ui.Run(path); err != nil {
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			return
		case "serve":
			if err := backend.Start(); err != nil {
				l.Error("backend failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			return
		}
	}

	usage()
}

func recordOpen(path string) {
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

func recentDrawings() ([]string, error) {
	dir, err := storage.DefaultCatalogDir()
	if err != nil {
		return nil, err
	}
	db, err := storage.OpenCatalog(dir)
	if err != nil {
		return nil, err
	}
	defer func() { _ = db.Close() }()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return storage.RecentDrawings(ctx, db, 10)
}
