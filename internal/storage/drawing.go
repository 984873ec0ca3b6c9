/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package storage persists drawing documents as JSON files with transactional
// saves and timestamped backups, plus a per-user SQLite catalog of recently
// opened drawings.
package storage

import (
	"errors"
	"fmt"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"draftview/internal/entity"
)

const BackupsDirName = "backups"

// DrawingHandle tracks a drawing loaded from or saved to disk.
// Path is the JSON document file; backups live in a sibling backups folder.
type DrawingHandle struct {
	Path string
	Doc  entity.Document
}

// Init writes a new drawing document at path, creating parent directories.
func Init(path string, doc entity.Document) (*DrawingHandle, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("drawing path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create drawing dir: %w", err)
	}
	h := &DrawingHandle{Path: path, Doc: doc}
	if err := Save(h); err != nil {
		return nil, err
	}
	return h, nil
}

// Open loads a drawing from path. If the current file cannot be read or
// fails validation, it falls back to the latest timestamped backup.
func Open(path string) (*DrawingHandle, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		doc, berr := openFromLatestBackup(path)
		if berr != nil {
			return nil, fmt.Errorf("open drawing: %w; backup attempt: %v", err, berr)
		}
		return &DrawingHandle{Path: path, Doc: *doc}, nil
	}
	doc, derr := entity.DecodeDocument(b)
	if derr != nil {
		bdoc, berr := openFromLatestBackup(path)
		if berr != nil {
			return nil, fmt.Errorf("parse drawing: %w; backup attempt: %v", derr, berr)
		}
		return &DrawingHandle{Path: path, Doc: *bdoc}, nil
	}
	return &DrawingHandle{Path: path, Doc: doc}, nil
}

// Save writes the handle's document to disk with transactional semantics
// and a timestamped backup of the previous file (if present).
func Save(h *DrawingHandle) error {
	if h == nil {
		return errors.New("nil DrawingHandle")
	}
	if h.Path == "" {
		return errors.New("invalid DrawingHandle: missing path")
	}
	data, err := entity.EncodeDocument(h.Doc)
	if err != nil {
		return fmt.Errorf("marshal drawing: %w", err)
	}

	bdir := backupsDir(h.Path)
	if err := os.MkdirAll(bdir, 0o755); err != nil {
		return fmt.Errorf("ensure backups dir: %w", err)
	}

	// Copy the current file to a timestamped backup before replacing.
	if _, statErr := os.Stat(h.Path); statErr == nil {
		stamp := time.Now().Format("20060102-150405")
		bname := fmt.Sprintf("%s.%s.bak", filepath.Base(h.Path), stamp)
		if cerr := copyFile(h.Path, filepath.Join(bdir, bname)); cerr != nil {
			return fmt.Errorf("backup current drawing: %w", cerr)
		}
	}

	// Transactional write: temp file in the same directory, then rename over target.
	dir := filepath.Dir(h.Path)
	temp := filepath.Join(dir, fmt.Sprintf(".%s.tmp-%d-%d", filepath.Base(h.Path), os.Getpid(), rand.Int()))
	if werr := writeFileSync(temp, data); werr != nil {
		return fmt.Errorf("write temp drawing: %w", werr)
	}
	// On Windows, replace by removing destination first if needed
	if _, err := os.Stat(h.Path); err == nil {
		_ = os.Remove(h.Path)
	}
	if rerr := os.Rename(temp, h.Path); rerr != nil {
		_ = os.Remove(temp)
		return fmt.Errorf("replace drawing: %w", rerr)
	}
	return nil
}

// SaveAs writes the document to a new path and updates the handle.
func SaveAs(h *DrawingHandle, newPath string) error {
	if h == nil {
		return errors.New("nil DrawingHandle")
	}
	if newPath == "" {
		return errors.New("new path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(newPath), 0o755); err != nil {
		return fmt.Errorf("create new dir: %w", err)
	}
	h.Path = newPath
	return Save(h)
}

// AutosaveCrashSnapshot writes the in-memory document to a recovery file next
// to the drawing, bypassing backups. Used by the crash handler; best effort.
func AutosaveCrashSnapshot(h *DrawingHandle) (string, error) {
	if h == nil || h.Path == "" {
		return "", errors.New("no drawing open")
	}
	data, err := entity.EncodeDocument(h.Doc)
	if err != nil {
		return "", fmt.Errorf("marshal autosave: %w", err)
	}
	stamp := time.Now().Format("20060102-150405")
	apath := h.Path + ".autosave-" + stamp + ".json"
	if err := writeFileSync(apath, data); err != nil {
		return "", fmt.Errorf("write autosave: %w", err)
	}
	return apath, nil
}

func backupsDir(drawingPath string) string {
	return filepath.Join(filepath.Dir(drawingPath), BackupsDirName)
}

// writeFileSync writes data to a file and flushes it to disk.
func writeFileSync(path string, data []byte) (err error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	if _, err := f.Write(data); err != nil {
		return err
	}
	if err := f.Sync(); err != nil {
		return err
	}
	return nil
}

// copyFile copies a file from src to dst (overwrites dst if exists).
func copyFile(src, dst string) (err error) {
	sf, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := sf.Close(); err == nil {
			err = cerr
		}
	}()
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	df, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := df.Close(); err == nil {
			err = cerr
		}
	}()
	if _, err := io.Copy(df, sf); err != nil {
		return err
	}
	if err := df.Sync(); err != nil {
		return err
	}
	return nil
}

// openFromLatestBackup tries to parse the newest timestamped backup.
func openFromLatestBackup(drawingPath string) (*entity.Document, error) {
	bdir := backupsDir(drawingPath)
	ents, err := os.ReadDir(bdir)
	if err != nil {
		return nil, fmt.Errorf("read backups dir: %w", err)
	}
	base := filepath.Base(drawingPath)
	var candidates []string
	for _, e := range ents {
		name := e.Name()
		if strings.HasPrefix(name, base+".") && strings.HasSuffix(name, ".bak") {
			candidates = append(candidates, filepath.Join(bdir, name))
		}
	}
	if len(candidates) == 0 {
		return nil, errors.New("no backups found")
	}
	sort.Strings(candidates) // timestamp in name yields lexicographic order
	latest := candidates[len(candidates)-1]
	b, err := os.ReadFile(latest)
	if err != nil {
		return nil, fmt.Errorf("read latest backup: %w", err)
	}
	doc, err := entity.DecodeDocument(b)
	if err != nil {
		return nil, fmt.Errorf("parse latest backup: %w", err)
	}
	return &doc, nil
}
