/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package storage

import (
	"os"
	"path/filepath"
	"testing"

	"draftview/internal/entity"
	"draftview/internal/geom"
)

func sampleDoc() entity.Document {
	return entity.Document{
		Name: "floorplan",
		Entities: []entity.Entity{
			{ID: "l1", Kind: entity.KindLine, Start: geom.Pt{X: 0, Y: 0}, End: geom.Pt{X: 10, Y: 0}},
			{ID: "t1", Kind: entity.KindText, Position: geom.Pt{X: 5, Y: 5}, Text: "door"},
		},
	}
}

func TestInitOpenRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.json")
	if _, err := Init(path, sampleDoc()); err != nil {
		t.Fatalf("Init: %v", err)
	}
	h, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if h.Doc.Name != "floorplan" || len(h.Doc.Entities) != 2 {
		t.Fatalf("round trip mismatch: %+v", h.Doc)
	}
}

func TestSaveCreatesTimestampedBackup(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.json")
	h, err := Init(path, sampleDoc())
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	h.Doc.Name = "rev2"
	if err := Save(h); err != nil {
		t.Fatalf("Save: %v", err)
	}
	ents, err := os.ReadDir(backupsDir(path))
	if err != nil {
		t.Fatalf("read backups: %v", err)
	}
	if len(ents) == 0 {
		t.Fatalf("expected a backup of the previous file")
	}
}

func TestOpenFallsBackToBackupOnCorruption(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.json")
	h, err := Init(path, sampleDoc())
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	// Second save produces a backup of the valid first revision.
	if err := Save(h); err != nil {
		t.Fatalf("Save: %v", err)
	}
	// Corrupt the live file.
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("corrupt: %v", err)
	}
	got, err := Open(path)
	if err != nil {
		t.Fatalf("Open should recover from backup: %v", err)
	}
	if got.Doc.Name != "floorplan" {
		t.Fatalf("recovered doc mismatch: %+v", got.Doc)
	}
}

func TestOpenMissingWithoutBackupFails(t *testing.T) {
	if _, err := Open(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Fatalf("expected error for missing file with no backups")
	}
}

func TestSaveAsMovesHandle(t *testing.T) {
	dir := t.TempDir()
	h, err := Init(filepath.Join(dir, "a.json"), sampleDoc())
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	newPath := filepath.Join(dir, "sub", "b.json")
	if err := SaveAs(h, newPath); err != nil {
		t.Fatalf("SaveAs: %v", err)
	}
	if h.Path != newPath {
		t.Fatalf("handle path not updated: %s", h.Path)
	}
	if _, err := Open(newPath); err != nil {
		t.Fatalf("Open new path: %v", err)
	}
}

func TestAutosaveCrashSnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.json")
	h, err := Init(path, sampleDoc())
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	h.Doc.Name = "unsaved-edits"
	apath, err := AutosaveCrashSnapshot(h)
	if err != nil {
		t.Fatalf("AutosaveCrashSnapshot: %v", err)
	}
	b, err := os.ReadFile(apath)
	if err != nil {
		t.Fatalf("read autosave: %v", err)
	}
	doc, err := entity.DecodeDocument(b)
	if err != nil {
		t.Fatalf("autosave not a valid document: %v", err)
	}
	if doc.Name != "unsaved-edits" {
		t.Fatalf("autosave captured stale state: %+v", doc)
	}
}
