// Package config loads the mathdoc YAML configuration.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"

	"github.com/charmbracelet/bubbles/key"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/iw2rmb/mathdoc/internal/logging"
	"github.com/iw2rmb/mathdoc/session"
	"github.com/iw2rmb/mathdoc/toolbar"
)

// EditFormula names the edit-formula gesture in key overrides.
const EditFormula = "edit-formula"

type Config struct {
	HistoryLimit int          `yaml:"history_limit" validate:"gte=0,lte=100000"`
	Log          LogConfig    `yaml:"log"`
	Render       RenderConfig `yaml:"render"`
	Editor       EditorConfig `yaml:"editor"`
}

type LogConfig struct {
	Level  string `yaml:"level" validate:"omitempty,oneof=debug info warn error"`
	Format string `yaml:"format" validate:"omitempty,oneof=text json"`
	File   string `yaml:"file"`
}

type RenderConfig struct {
	// Workers bounds concurrent renders in batch commands. 0 means one
	// per CPU.
	Workers int `yaml:"workers" validate:"gte=0,lte=256"`
}

type EditorConfig struct {
	ShowToolbar bool `yaml:"show_toolbar"`
	// Keys replaces the bindings of toolbar commands and edit-formula.
	Keys map[string][]string `yaml:"keys" validate:"dive,min=1,dive,required"`
}

var validate = validator.New()

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		HistoryLimit: 1000,
		Log:          LogConfig{Level: "info", Format: "text"},
		Editor:       EditorConfig{ShowToolbar: true},
	}
}

// Load reads path over the defaults, applies environment overrides and
// validates the result. An empty path or a missing file yields the
// defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return cfg, fmt.Errorf("read config: %w", err)
		default:
			if err := decode(data, &cfg); err != nil {
				return cfg, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}
	applyEnv(&cfg)
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

func decode(data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("MATHDOC_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("MATHDOC_LOG_FILE"); v != "" {
		cfg.Log.File = v
	}
	if v := os.Getenv("MATHDOC_HISTORY_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.HistoryLimit = n
		}
	}
}

func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return err
	}
	for name := range c.Editor.Keys {
		if name != EditFormula && !slices.Contains(session.Commands(), name) {
			return fmt.Errorf("editor.keys: unknown command %q", name)
		}
	}
	return nil
}

// Logging converts the log section for logging.New.
func (c Config) Logging() logging.Config {
	lvl, _ := logging.ParseLevel(c.Log.Level)
	return logging.Config{Level: lvl, JSON: c.Log.Format == "json", File: c.Log.File}
}

// SessionOptions returns the session options the configuration implies.
func (c Config) SessionOptions() session.Options {
	limit := c.HistoryLimit
	if limit == 0 {
		// 0 in the file means "no history"; session.Options treats 0 as
		// the default and negative as disabled.
		limit = -1
	}
	return session.Options{HistoryLimit: limit}
}

// ToolbarItems returns the default toolbar with key overrides applied.
func (c Config) ToolbarItems() []toolbar.Item {
	items := toolbar.DefaultItems()
	for i, it := range items {
		if keys, ok := c.Editor.Keys[it.Command]; ok {
			items[i].Key = rebind(it.Key, keys)
		}
	}
	return items
}

// EditFormulaBinding applies an edit-formula override to b.
func (c Config) EditFormulaBinding(b key.Binding) key.Binding {
	if keys, ok := c.Editor.Keys[EditFormula]; ok {
		return rebind(b, keys)
	}
	return b
}

func rebind(b key.Binding, keys []string) key.Binding {
	desc := b.Help().Desc
	return key.NewBinding(key.WithKeys(keys...), key.WithHelp(keys[0], desc))
}
