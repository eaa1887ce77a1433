package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"variantsplit/internal/splitter"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Markers != splitter.DefaultMarkers() {
		t.Errorf("expected default markers, got %+v", cfg.Markers)
	}
	if cfg.Variants.A != "linux" || cfg.Variants.B != "osv" {
		t.Errorf("expected linux/osv, got %s/%s", cfg.Variants.A, cfg.Variants.B)
	}
	if cfg.Split.Workers != 4 {
		t.Errorf("expected Workers=4, got %d", cfg.Split.Workers)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestConfig_SaveLoad(t *testing.T) {
	t.Setenv("VARIANTSPLIT_OUTPUT_DIR", "")
	t.Setenv("VARIANTSPLIT_LOG_LEVEL", "")
	t.Setenv("VARIANTSPLIT_WORKERS", "")

	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "nested", DefaultFile)

	cfg := DefaultConfig()
	cfg.Output.Dir = "generated"
	cfg.Output.Pattern = "{stem}_{variant}{ext}"
	cfg.Split.Inputs = []string{"a.cpp", "b.cpp"}

	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if loaded.Output.Dir != "generated" {
		t.Errorf("expected Output.Dir=generated, got %s", loaded.Output.Dir)
	}
	if len(loaded.Split.Inputs) != 2 || loaded.Split.Inputs[1] != "b.cpp" {
		t.Errorf("unexpected inputs: %v", loaded.Split.Inputs)
	}
	if loaded.Markers.OpenB != "#ifdef OSV" {
		t.Errorf("expected markers to round-trip, got %+v", loaded.Markers)
	}
}

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	t.Setenv("VARIANTSPLIT_OUTPUT_DIR", "")
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Output.Pattern != DefaultConfig().Output.Pattern {
		t.Errorf("expected default pattern, got %s", cfg.Output.Pattern)
	}
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	data := []byte("variants:\n  a: win\n  b: mac\nmarkers:\n  open_a: \"#ifdef WIN\"\n  open_b: \"#ifdef MAC\"\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Variants.A != "win" || cfg.Variants.B != "mac" {
		t.Errorf("expected win/mac, got %s/%s", cfg.Variants.A, cfg.Variants.B)
	}
	if cfg.Markers.Close != "#endif" {
		t.Errorf("expected close marker default to survive, got %q", cfg.Markers.Close)
	}
	if cfg.Split.Workers != 4 {
		t.Errorf("expected default workers, got %d", cfg.Split.Workers)
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	if err := os.WriteFile(path, []byte("split: [unclosed"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestConfig_Validate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Split.Workers = 0
	cfg.Watch.Debounce = "soon"
	cfg.Logging.Level = "loud"
	cfg.Variants.B = cfg.Variants.A

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation errors")
	}
	for _, want := range []string{"split.workers", "watch.debounce", "logging", "output"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("expected %q in %v", want, err)
		}
	}
}

func TestGetDebounce(t *testing.T) {
	cfg := DefaultConfig()
	if got := cfg.GetDebounce(); got != 300*time.Millisecond {
		t.Errorf("expected 300ms, got %v", got)
	}
	cfg.Watch.Debounce = "bogus"
	if got := cfg.GetDebounce(); got != 300*time.Millisecond {
		t.Errorf("expected fallback 300ms, got %v", got)
	}
}
