package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/evanschultz/projboard/internal/validate"
	toml "github.com/pelletier/go-toml/v2"
)

// Config holds every file-backed setting.
type Config struct {
	Logging LoggingConfig `toml:"logging"`
	Form    FormConfig    `toml:"form"`
	Board   BoardConfig   `toml:"board"`
	Server  ServerConfig  `toml:"server"`
	Keys    KeysConfig    `toml:"keys"`
}

// LoggingConfig controls the runtime logger.
type LoggingConfig struct {
	Level   string        `toml:"level"`
	DevFile DevFileConfig `toml:"dev_file"`
}

// DevFileConfig controls the development log file sink.
type DevFileConfig struct {
	Enabled bool   `toml:"enabled"`
	Dir     string `toml:"dir"`
}

// FormConfig holds per-field input rules.
type FormConfig struct {
	Title       FieldRuleConfig `toml:"title"`
	Description FieldRuleConfig `toml:"description"`
	People      FieldRuleConfig `toml:"people"`
}

// FieldRuleConfig mirrors validate.Rule for TOML.
type FieldRuleConfig struct {
	Required  bool `toml:"required"`
	MinLength *int `toml:"min_length,omitempty"`
	MaxLength *int `toml:"max_length,omitempty"`
	MinValue  *int `toml:"min_value,omitempty"`
	MaxValue  *int `toml:"max_value,omitempty"`
}

// BoardConfig controls board rendering.
type BoardConfig struct {
	ShowDescriptions bool `toml:"show_descriptions"`
	ActivityLimit    int  `toml:"activity_limit"`
}

// ServerConfig holds the serve command defaults.
type ServerConfig struct {
	HTTPBind    string `toml:"http_bind"`
	APIEndpoint string `toml:"api_endpoint"`
	MCPEndpoint string `toml:"mcp_endpoint"`
}

// KeysConfig holds optional TUI key overrides. Blank values keep the built-in keys.
type KeysConfig struct {
	NewProject  string `toml:"new_project"`
	Grab        string `toml:"grab"`
	CopyID      string `toml:"copy_id"`
	ActivityLog string `toml:"activity_log"`
}

// Default returns the stock configuration.
func Default() Config {
	rules := validate.DefaultRules()
	return Config{
		Logging: LoggingConfig{
			Level: "info",
			DevFile: DevFileConfig{
				Enabled: true,
				Dir:     ".projboard/log",
			},
		},
		Form: FormConfig{
			Title:       fieldRuleFrom(rules.Title),
			Description: fieldRuleFrom(rules.Description),
			People:      fieldRuleFrom(rules.People),
		},
		Board: BoardConfig{
			ShowDescriptions: true,
			ActivityLimit:    50,
		},
		Server: ServerConfig{
			HTTPBind:    "127.0.0.1:8080",
			APIEndpoint: "/api/v1",
			MCPEndpoint: "/mcp",
		},
		Keys: KeysConfig{
			NewProject:  "n",
			Grab:        "space",
			CopyID:      "y",
			ActivityLog: "a",
		},
	}
}

// Load reads path over defaults. A missing or empty file yields defaults.
func Load(path string, defaults Config) (Config, error) {
	cfg := defaults
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if len(content) == 0 {
		return cfg, nil
	}

	if err := toml.Unmarshal(content, &cfg); err != nil {
		return Config{}, fmt.Errorf("decode toml: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate checks that the configuration is usable.
func (c Config) Validate() error {
	switch strings.TrimSpace(strings.ToLower(c.Logging.Level)) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid logging.level: %q", c.Logging.Level)
	}

	fields := []struct {
		name string
		rule FieldRuleConfig
	}{
		{name: "form.title", rule: c.Form.Title},
		{name: "form.description", rule: c.Form.Description},
		{name: "form.people", rule: c.Form.People},
	}
	for _, field := range fields {
		if err := validateBounds(field.name, "length", field.rule.MinLength, field.rule.MaxLength); err != nil {
			return err
		}
		if err := validateBounds(field.name, "value", field.rule.MinValue, field.rule.MaxValue); err != nil {
			return err
		}
	}
	if c.Form.People.MinValue == nil || *c.Form.People.MinValue < 1 {
		return errors.New("form.people.min_value must be >= 1")
	}

	if c.Board.ActivityLimit < 0 {
		return errors.New("board.activity_limit must be >= 0")
	}

	if err := c.Keys.validate(); err != nil {
		return err
	}

	api := strings.TrimSpace(c.Server.APIEndpoint)
	mcp := strings.TrimSpace(c.Server.MCPEndpoint)
	if api != "" && api == mcp {
		return fmt.Errorf("server.api_endpoint and server.mcp_endpoint must differ: %q", api)
	}
	return nil
}

// FormRules converts the form section into validation rules.
func (c Config) FormRules() validate.Rules {
	return validate.Rules{
		Title:       c.Form.Title.rule(),
		Description: c.Form.Description.rule(),
		People:      c.Form.People.rule(),
	}
}

// Write encodes cfg as TOML at path, creating parent directories.
// An existing file is kept unless overwrite is set.
func Write(path string, cfg Config, overwrite bool) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return errors.New("config path is required")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config %q already exists", path)
		} else if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("stat config: %w", err)
		}
	}
	content, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode toml: %w", err)
	}
	if err := EnsureConfigDir(path); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// validate rejects two actions bound to the same key.
func (k KeysConfig) validate() error {
	seen := map[string]string{}
	for _, binding := range []struct {
		name string
		key  string
	}{
		{name: "new_project", key: k.NewProject},
		{name: "grab", key: k.Grab},
		{name: "copy_id", key: k.CopyID},
		{name: "activity_log", key: k.ActivityLog},
	} {
		key := strings.TrimSpace(binding.key)
		if key == "" {
			continue
		}
		if prev, ok := seen[key]; ok {
			return fmt.Errorf("keys.%s and keys.%s both use %q", prev, binding.name, key)
		}
		seen[key] = binding.name
	}
	return nil
}

// EnsureConfigDir creates the directory that holds path.
func EnsureConfigDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

// rule converts one field section into a validation rule.
func (f FieldRuleConfig) rule() validate.Rule {
	return validate.Rule{
		Required:  f.Required,
		MinLength: copyInt(f.MinLength),
		MaxLength: copyInt(f.MaxLength),
		MinValue:  copyInt(f.MinValue),
		MaxValue:  copyInt(f.MaxValue),
	}
}

// fieldRuleFrom converts a validation rule into its config form.
func fieldRuleFrom(r validate.Rule) FieldRuleConfig {
	return FieldRuleConfig{
		Required:  r.Required,
		MinLength: copyInt(r.MinLength),
		MaxLength: copyInt(r.MaxLength),
		MinValue:  copyInt(r.MinValue),
		MaxValue:  copyInt(r.MaxValue),
	}
}

// validateBounds checks one optional min/max pair.
func validateBounds(field, kind string, lo, hi *int) error {
	if lo != nil && *lo < 0 {
		return fmt.Errorf("%s.min_%s must be >= 0", field, kind)
	}
	if hi != nil && *hi < 0 {
		return fmt.Errorf("%s.max_%s must be >= 0", field, kind)
	}
	if lo != nil && hi != nil && *lo > *hi {
		return fmt.Errorf("%s.min_%s must be <= max_%s", field, kind, kind)
	}
	return nil
}

// copyInt returns an independent pointer to the same value.
func copyInt(v *int) *int {
	if v == nil {
		return nil
	}
	n := *v
	return &n
}
