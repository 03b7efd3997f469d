package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"qtermsim/statevector"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.Engine.MaxQubits != statevector.DefaultMaxQubits {
		t.Errorf("max_qubits = %d, want %d", cfg.Engine.MaxQubits, statevector.DefaultMaxQubits)
	}
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "qtermsim.yaml")
	data := `engine:
  embedder: index
run:
  seed: 42
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Engine.Embedder != "index" || cfg.Run.Seed != 42 {
		t.Errorf("file values not applied: %+v", cfg)
	}
	if cfg.Engine.MaxQubits != statevector.DefaultMaxQubits || cfg.Run.Shots != 1 || cfg.Display.Precision != 4 {
		t.Errorf("defaults lost: %+v", cfg)
	}
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name    string
		content string
		wantSub string
		invalid bool
	}{
		{"yaml syntax", "engine: [unclosed", "failed to parse config", false},
		{"unknown embedder", "engine:\n  embedder: sparse\n", "engine.embedder", true},
		{"zero shots", "run:\n  shots: 0\n", "run.shots", true},
		{"bad colour", "display:\n  color: sometimes\n", "display.color", true},
		{"several problems", "engine:\n  max_qubits: 0\n  tolerance: -1\n", "engine.tolerance", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, strings.ReplaceAll(tt.name, " ", "_")+".yaml")
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatal(err)
			}
			_, err := Load(path)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantSub) {
				t.Errorf("error %q does not mention %q", err, tt.wantSub)
			}
			if got := errors.Is(err, ErrInvalid); got != tt.invalid {
				t.Errorf("errors.Is(err, ErrInvalid) = %v, want %v", got, tt.invalid)
			}
		})
	}

	if _, err := Load(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("expected error for nonexistent file")
	}
}

func TestLoadOrDefault(t *testing.T) {
	cfg, err := LoadOrDefault("")
	if err != nil || cfg.Run.Seed != 1 {
		t.Errorf("LoadOrDefault(\"\") = %+v, %v", cfg, err)
	}
	cfg, err = LoadOrDefault(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil || cfg.Engine.Embedder != "kron" {
		t.Errorf("LoadOrDefault(absent) = %+v, %v", cfg, err)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "qtermsim.yaml")
	cfg := Default()
	cfg.Engine.CheckNorm = true
	cfg.Run.Workers = 0
	cfg.Display.Color = "never"
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if *got != *cfg {
		t.Errorf("round trip = %+v, want %+v", got, cfg)
	}
}

func TestEngineOptions(t *testing.T) {
	cfg := Default()
	cfg.Engine.MaxQubits = 5
	cfg.Engine.Embedder = "index"
	cfg.Engine.CheckNorm = true
	cfg.Engine.Tolerance = 1e-6

	opts, err := cfg.EngineOptions()
	if err != nil {
		t.Fatal(err)
	}
	got := statevector.New(opts...).Config()
	if got.MaxQubits != 5 || !got.CheckNorm || got.Tolerance != 1e-6 {
		t.Errorf("engine config = %+v", got)
	}
	if _, ok := got.Embedder.(statevector.IndexEmbedder); !ok {
		t.Errorf("embedder = %T, want IndexEmbedder", got.Embedder)
	}

	cfg.Engine.Embedder = "dense"
	if _, err := cfg.EngineOptions(); err == nil {
		t.Error("expected error for unknown embedder")
	}
}
