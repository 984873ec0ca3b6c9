/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package config

import (
	"os"
	"testing"
)

// fakeStore keeps tests off the real OS keyring.
type fakeStore struct{ m map[string]string }

func (f *fakeStore) Get(service, key string) (string, error) { return f.m[service+"/"+key], nil }
func (f *fakeStore) Set(service, key, value string) error {
	f.m[service+"/"+key] = value
	return nil
}
func (f *fakeStore) Delete(service, key string) error {
	delete(f.m, service+"/"+key)
	return nil
}

func withFakeKeyring(t *testing.T) *fakeStore {
	t.Helper()
	old := tokenStore
	fs := &fakeStore{m: map[string]string{}}
	tokenStore = fs
	t.Cleanup(func() { tokenStore = old })
	return fs
}

func TestEnvOverridesBackendURL(t *testing.T) {
	withFakeKeyring(t)
	old := os.Getenv(EnvBackendURL)
	_ = os.Setenv(EnvBackendURL, "https://example.test:8443")
	t.Cleanup(func() { _ = os.Setenv(EnvBackendURL, old) })
	cfg, _, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if got, want := cfg.Backend.BaseURL, "https://example.test:8443"; got != want {
		t.Fatalf("Backend.BaseURL = %q, want %q", got, want)
	}
}

func TestEnvOverridesTelemetry(t *testing.T) {
	withFakeKeyring(t)
	old := os.Getenv(EnvTelemetryOptIn)
	_ = os.Setenv(EnvTelemetryOptIn, "true")
	t.Cleanup(func() { _ = os.Setenv(EnvTelemetryOptIn, old) })
	cfg, _, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if !cfg.General.TelemetryOptIn {
		t.Fatalf("General.TelemetryOptIn expected true from env override")
	}
}

func TestEnvOverridesViewport(t *testing.T) {
	withFakeKeyring(t)
	oldStep := os.Getenv(EnvZoomStep)
	oldTol := os.Getenv(EnvTolerancePx)
	_ = os.Setenv(EnvZoomStep, "1.25")
	_ = os.Setenv(EnvTolerancePx, "12")
	t.Cleanup(func() {
		_ = os.Setenv(EnvZoomStep, oldStep)
		_ = os.Setenv(EnvTolerancePx, oldTol)
	})
	cfg, _, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Viewport.ZoomStep != 1.25 || cfg.Viewport.TolerancePx != 12 {
		t.Fatalf("viewport env overrides not applied: %#v", cfg.Viewport)
	}
}

func TestMergeIncludesViewportAndUndo(t *testing.T) {
	dst := Defaults()
	src := AppConfig{}
	src.Viewport.ZoomStep = 1.5
	src.Viewport.MaxScale = 100
	src.Undo.MaxDepth = 50
	mergeInto(&dst, &src)
	if dst.Viewport.ZoomStep != 1.5 || dst.Viewport.MaxScale != 100 {
		t.Fatalf("viewport fields not merged: %#v", dst.Viewport)
	}
	if dst.Undo.MaxDepth != 50 {
		t.Fatalf("undo depth not merged: %#v", dst.Undo)
	}
	// zeros in the file keep defaults
	if dst.Viewport.TolerancePx != Defaults().Viewport.TolerancePx {
		t.Fatalf("zero tolerance should keep default, got %v", dst.Viewport.TolerancePx)
	}
}

func TestMergeIncludesLogging(t *testing.T) {
	dst := Defaults()
	src := Defaults()
	src.Logging.Level = "debug"
	src.Logging.Format = "json"
	src.Logging.Source = true
	src.Logging.File = "C:/tmp/dv.log"
	mergeInto(&dst, &src)
	if dst.Logging.Level != "debug" || dst.Logging.Format != "json" || !dst.Logging.Source || dst.Logging.File != "C:/tmp/dv.log" {
		t.Fatalf("logging fields not merged correctly: %#v", dst.Logging)
	}
}

func TestEnvOverridesLogging(t *testing.T) {
	withFakeKeyring(t)
	oldLevel := os.Getenv(EnvLogLevel)
	oldFmt := os.Getenv(EnvLogFormat)
	oldSrc := os.Getenv(EnvLogSource)
	oldFile := os.Getenv(EnvLogFile)
	_ = os.Setenv(EnvLogLevel, "error")
	_ = os.Setenv(EnvLogFormat, "json")
	_ = os.Setenv(EnvLogSource, "1")
	_ = os.Setenv(EnvLogFile, "X:/dv.log")
	t.Cleanup(func() {
		_ = os.Setenv(EnvLogLevel, oldLevel)
		_ = os.Setenv(EnvLogFormat, oldFmt)
		_ = os.Setenv(EnvLogSource, oldSrc)
		_ = os.Setenv(EnvLogFile, oldFile)
	})
	cfg, _, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Logging.Level != "error" || cfg.Logging.Format != "json" || !cfg.Logging.Source || cfg.Logging.File != "X:/dv.log" {
		t.Fatalf("env overrides not applied to logging: %#v", cfg.Logging)
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	fs := withFakeKeyring(t)
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	cfg := Defaults()
	cfg.Viewport.GridSpacing = 25
	if err := Save(cfg, "secret-token"); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	got, tok, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if got.Viewport.GridSpacing != 25 {
		t.Fatalf("grid spacing not round-tripped: %v", got.Viewport.GridSpacing)
	}
	if tok != "secret-token" {
		t.Fatalf("token not returned from keyring: %q", tok)
	}
	if fs.m[keyringService+"/"+keyringToken] != "secret-token" {
		t.Fatalf("token not stored in keyring")
	}
}
