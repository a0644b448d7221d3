package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"bashguard/internal/diag"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, FileName)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, t.TempDir(), `
[rules]
enable = ["security", "QUO*"]
disable = ["QUO4002"]
severity_floor = "warning"

[output]
format = "json"
max_diagnostics = 50
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(cfg.Rules.Enable) != 2 || cfg.Rules.Disable[0] != "QUO4002" {
		t.Fatalf("rules = %+v", cfg.Rules)
	}
	floor, err := cfg.Floor()
	if err != nil || floor != diag.SevWarning {
		t.Fatalf("floor = %v, %v", floor, err)
	}
	if cfg.Output.Format != "json" || cfg.Output.MaxDiagnostics != 50 {
		t.Fatalf("output = %+v", cfg.Output)
	}
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "")
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	floor, err := cfg.Floor()
	if err != nil || floor != diag.SevInfo {
		t.Fatalf("default floor = %v, %v", floor, err)
	}
}

func TestLoadRejectsUnknownKey(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "[rules]\nenabel = [\"quoting\"]\n")
	if _, err := Load(path); err == nil {
		t.Fatal("typoed key accepted")
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	for _, content := range []string{
		"[rules]\nseverity_floor = \"fatal\"\n",
		"[output]\nformat = \"xml\"\n",
		"[output]\nmax_diagnostics = -1\n",
	} {
		path := writeConfig(t, t.TempDir(), content)
		if _, err := Load(path); err == nil {
			t.Fatalf("accepted %s", content)
		}
	}
}

func TestDiscoverWalksUp(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, "[rules]\ndisable = [\"perf\"]\n")
	nested := filepath.Join(root, "scripts", "deploy")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	cfg, path, err := Discover(nested)
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Dir(path) != root {
		t.Fatalf("found config at %q, want under %q", path, root)
	}
	if cfg.Rules.Disable[0] != "perf" {
		t.Fatalf("cfg = %+v", cfg.Rules)
	}
}

func TestDiscoverNotFound(t *testing.T) {
	if _, _, err := Discover(t.TempDir()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}
