package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/evanschultz/projboard/internal/validate"
)

func TestDefaultConfig(t *testing.T) {
	cfg := Default()
	if cfg.Logging.Level != "info" {
		t.Fatalf("unexpected log level %q", cfg.Logging.Level)
	}
	if cfg.Server.HTTPBind != "127.0.0.1:8080" || cfg.Server.APIEndpoint != "/api/v1" || cfg.Server.MCPEndpoint != "/mcp" {
		t.Fatalf("unexpected server defaults %#v", cfg.Server)
	}
	if !cfg.Board.ShowDescriptions || cfg.Board.ActivityLimit != 50 {
		t.Fatalf("unexpected board defaults %#v", cfg.Board)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
}

func TestDefaultFormRulesMatchValidator(t *testing.T) {
	rules := Default().FormRules()
	if _, ok := rules.Check("abcdef", "abcdefgh", "5"); !ok {
		t.Fatal("expected minimum valid input to pass")
	}
	if _, ok := rules.Check("abcde", "abcdefgh", "5"); ok {
		t.Fatal("expected short title to fail")
	}
	if _, ok := rules.Check("abcdef", "abcdefgh", "6"); ok {
		t.Fatal("expected six people to fail")
	}
}

func TestDefaultDoesNotShareRulePointers(t *testing.T) {
	first := Default()
	*first.Form.Title.MinLength = 1
	if got := *Default().Form.Title.MinLength; got != 6 {
		t.Fatalf("expected fresh default min length, got %d", got)
	}
	if got := *validate.DefaultRules().Title.MinLength; got != 6 {
		t.Fatalf("expected untouched validator defaults, got %d", got)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	defaults := Default()
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.toml"), defaults)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.HTTPBind != defaults.Server.HTTPBind {
		t.Fatalf("expected default bind, got %q", cfg.Server.HTTPBind)
	}
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[logging]
level = "debug"

[form.title]
required = true
min_length = 3
max_length = 40

[board]
show_descriptions = false
activity_limit = 10

[server]
http_bind = "127.0.0.1:9090"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	cfg, err := Load(path, Default())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Logging.Level != "debug" {
		t.Fatalf("unexpected log level %q", cfg.Logging.Level)
	}
	if cfg.Board.ShowDescriptions || cfg.Board.ActivityLimit != 10 {
		t.Fatalf("unexpected board config %#v", cfg.Board)
	}
	if cfg.Server.HTTPBind != "127.0.0.1:9090" || cfg.Server.MCPEndpoint != "/mcp" {
		t.Fatalf("unexpected server config %#v", cfg.Server)
	}
	if _, ok := cfg.FormRules().Check("abc", "abcdefgh", "2"); !ok {
		t.Fatal("expected relaxed title rule to accept three characters")
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := map[string]string{
		"level": `
[logging]
level = "loud"
`,
		"inverted bounds": `
[form.description]
min_length = 20
max_length = 10
`,
		"zero people": `
[form.people]
min_value = 0
`,
		"same endpoints": `
[server]
api_endpoint = "/mcp"
`,
		"duplicate keys": `
[keys]
copy_id = "a"
`,
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
				t.Fatalf("WriteFile() error = %v", err)
			}
			if _, err := Load(path, Default()); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestLoadRejectsMalformedTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[logging\nlevel="), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	if _, err := Load(path, Default()); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestEnsureConfigDir(t *testing.T) {
	target := filepath.Join(t.TempDir(), "a", "b", "config.toml")
	if err := EnsureConfigDir(target); err != nil {
		t.Fatalf("EnsureConfigDir() error = %v", err)
	}
	if _, err := os.Stat(filepath.Dir(target)); err != nil {
		t.Fatalf("expected dir to exist, stat error %v", err)
	}
}

func TestLoadKeyOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[keys]
new_project = "N"
activity_log = "v"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	cfg, err := Load(path, Default())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Keys.NewProject != "N" || cfg.Keys.ActivityLog != "v" {
		t.Fatalf("unexpected key overrides %#v", cfg.Keys)
	}
	if cfg.Keys.Grab != "space" || cfg.Keys.CopyID != "y" {
		t.Fatalf("expected untouched key defaults, got %#v", cfg.Keys)
	}
}

func TestWriteRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	cfg := Default()
	cfg.Board.ActivityLimit = 7
	cfg.Keys.Grab = "g"
	if err := Write(path, cfg, false); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	loaded, err := Load(path, Default())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.Board.ActivityLimit != 7 || loaded.Keys.Grab != "g" {
		t.Fatalf("unexpected round trip config %#v", loaded)
	}
	if *loaded.Form.Title.MinLength != 6 || *loaded.Form.People.MaxValue != 5 {
		t.Fatalf("unexpected round trip form rules %#v", loaded.Form)
	}

	if err := Write(path, cfg, false); err == nil {
		t.Fatal("expected existing file error")
	}
	if err := Write(path, Default(), true); err != nil {
		t.Fatalf("Write(overwrite) error = %v", err)
	}
}
