// internal/appconfig/appconfig_test.go
package appconfig

import (
	"os"
	"testing"
	"time"

	"github.com/mwiater/toolgate/internal/registry"
)

// TestLoad exercises the loading paths: a valid document parses with
// defaults applied, while invalid JSON, an empty tool list, and a missing
// file all surface descriptive errors.
func TestLoad(t *testing.T) {
	validConfig := `{
        "tools": [
            {
                "name": "add",
                "description": "Add two numbers.",
                "backendRef": "local:add",
                "inputSchema": {
                    "type": "object",
                    "properties": {"a": {"type": "number"}, "b": {"type": "number"}},
                    "required": ["a", "b"]
                }
            }
        ]
    }`
	tmpfile, err := os.CreateTemp("", "config.json")
	if err != nil {
		t.Fatal(err)
	}
	defer os.Remove(tmpfile.Name())
	if _, err := tmpfile.Write([]byte(validConfig)); err != nil {
		t.Fatal(err)
	}
	if err := tmpfile.Close(); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(tmpfile.Name())
	if err != nil {
		t.Fatalf("Load() with valid config failed: %v", err)
	}
	if len(cfg.Tools) != 1 {
		t.Fatalf("expected 1 tool, got %d", len(cfg.Tools))
	}
	if !cfg.Tools[0].Enabled {
		t.Fatal("expected tool to default to enabled")
	}
	if cfg.ConfigPath != tmpfile.Name() {
		t.Fatalf("expected ConfigPath %q, got %q", tmpfile.Name(), cfg.ConfigPath)
	}

	if cfg.InvokeTimeout() != 30*time.Second {
		t.Fatalf("expected default invoke timeout of 30s, got %v", cfg.InvokeTimeout())
	}
	if cfg.RetryAttempts() != 1 {
		t.Fatalf("expected default retry attempts of 1, got %d", cfg.RetryAttempts())
	}
	if cfg.ListenAddr() != ":8089" {
		t.Fatalf("expected default listen address, got %s", cfg.ListenAddr())
	}
	if cfg.LogFilePath() != "toolgate.log" {
		t.Fatalf("expected default log file, got %s", cfg.LogFilePath())
	}

	invalidJSON := `{ "tools": [`
	tmpfile2, err := os.CreateTemp("", "config.json")
	if err != nil {
		t.Fatal(err)
	}
	defer os.Remove(tmpfile2.Name())
	if _, err := tmpfile2.Write([]byte(invalidJSON)); err != nil {
		t.Fatal(err)
	}
	if err := tmpfile2.Close(); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(tmpfile2.Name()); err == nil {
		t.Fatal("Load() with invalid JSON should have failed")
	}

	noTools := `{"tools": []}`
	tmpfile3, err := os.CreateTemp("", "config.json")
	if err != nil {
		t.Fatal(err)
	}
	defer os.Remove(tmpfile3.Name())
	if _, err := tmpfile3.Write([]byte(noTools)); err != nil {
		t.Fatal(err)
	}
	if err := tmpfile3.Close(); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(tmpfile3.Name()); err == nil {
		t.Fatal("Load() with no tools should have failed")
	}

	if _, err := Load("/does/not/exist.json"); err == nil {
		t.Fatal("Load() with nonexistent file should have failed")
	}
}

func TestAccessorOverrides(t *testing.T) {
	cfg := Config{
		TimeoutMs:  1500,
		RetryCount: 4,
		Listen:     ":9000",
		LogFile:    "logs/gate.log",
	}
	if cfg.InvokeTimeout() != 1500*time.Millisecond {
		t.Fatalf("expected 1.5s, got %v", cfg.InvokeTimeout())
	}
	if cfg.RetryAttempts() != 4 {
		t.Fatalf("expected 4, got %d", cfg.RetryAttempts())
	}
	if cfg.ListenAddr() != ":9000" {
		t.Fatalf("expected :9000, got %s", cfg.ListenAddr())
	}
	if cfg.LogFilePath() != "logs/gate.log" {
		t.Fatalf("expected logs/gate.log, got %s", cfg.LogFilePath())
	}
	cfg.RetryCount = -1
	if cfg.RetryAttempts() != 0 {
		t.Fatalf("negative retryCount must disable retries, got %d", cfg.RetryAttempts())
	}
}

func TestRegistryDocumentRoundTrips(t *testing.T) {
	cfg := Config{Tools: []registry.Definition{{Name: "add", BackendRef: "local:add", Enabled: true}}}
	blob, err := cfg.RegistryDocument()
	if err != nil {
		t.Fatalf("RegistryDocument error: %v", err)
	}
	reg, err := registry.Load(blob)
	if err != nil {
		t.Fatalf("registry rejected the re-encoded document: %v", err)
	}
	if _, ok := reg.Lookup("add"); !ok {
		t.Fatal("expected the tool to survive the round trip")
	}
}
