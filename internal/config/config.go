// Package config loads bashguard.toml. Configuration is plain data handed
// to the engine by the boundary layer; the engine itself never reads files
// or the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"bashguard/internal/diag"
)

// FileName is the project configuration file looked up from the working
// directory upward.
const FileName = "bashguard.toml"

// Config is the parsed bashguard.toml.
type Config struct {
	Rules  Rules  `toml:"rules"`
	Output Output `toml:"output"`
}

// Rules configures the rule table.
type Rules struct {
	// Enable restricts the table to matching rules; empty keeps all.
	// Patterns match a code ID ("QUO4001"), a group name ("security") or a
	// glob over IDs ("SEC7*").
	Enable []string `toml:"enable"`
	// Disable removes matching rules; it wins over Enable.
	Disable []string `toml:"disable"`
	// SeverityFloor drops rule findings below it: one of "info", "perf",
	// "warning", "risk", "error". Empty keeps everything.
	SeverityFloor string `toml:"severity_floor"`
}

// Output configures reporting defaults that flags may override.
type Output struct {
	// Format is "pretty" or "json".
	Format string `toml:"format"`
	// MaxDiagnostics caps per-file output; 0 keeps the engine default.
	MaxDiagnostics int `toml:"max_diagnostics"`
}

// ErrNotFound reports that no bashguard.toml exists for the directory.
var ErrNotFound = errors.New("no " + FileName + " found")

// Load parses the configuration file at path.
func Load(path string) (*Config, error) {
	var cfg Config
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("%s: unknown key %q", path, undecoded[0].String())
	}
	if err := cfg.validate(path); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Discover walks from dir toward the filesystem root looking for FileName
// and loads the first hit. ErrNotFound when no ancestor has one.
func Discover(dir string) (*Config, string, error) {
	for {
		path := filepath.Join(dir, FileName)
		if _, err := os.Stat(path); err == nil {
			cfg, err := Load(path)
			return cfg, path, err
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return nil, "", ErrNotFound
		}
		dir = parent
	}
}

func (c *Config) validate(path string) error {
	if _, err := c.Floor(); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	switch c.Output.Format {
	case "", "pretty", "json":
	default:
		return fmt.Errorf("%s: unknown output format %q (want pretty or json)",
			path, c.Output.Format)
	}
	if c.Output.MaxDiagnostics < 0 {
		return fmt.Errorf("%s: max_diagnostics must not be negative", path)
	}
	return nil
}

// Floor maps the configured severity floor onto the diagnostic scale.
func (c *Config) Floor() (diag.Severity, error) {
	switch c.Rules.SeverityFloor {
	case "", "info":
		return diag.SevInfo, nil
	case "perf":
		return diag.SevPerf, nil
	case "warning":
		return diag.SevWarning, nil
	case "risk":
		return diag.SevRisk, nil
	case "error":
		return diag.SevError, nil
	}
	return 0, fmt.Errorf("unknown severity floor %q", c.Rules.SeverityFloor)
}
