package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/bubbles/key"
	"github.com/google/go-cmp/cmp"

	"github.com/iw2rmb/mathdoc/internal/logging"
	"github.com/iw2rmb/mathdoc/session"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mathdoc.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	for _, path := range []string{"", filepath.Join(t.TempDir(), "missing.yaml")} {
		cfg, err := Load(path)
		if err != nil {
			t.Fatalf("Load(%q): %v", path, err)
		}
		if diff := cmp.Diff(Default(), cfg); diff != "" {
			t.Fatalf("config mismatch (-want +got):\n%s", diff)
		}
	}
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
history_limit: 50
log:
  level: debug
  format: json
  file: /tmp/mathdoc.log
render:
  workers: 4
editor:
  show_toolbar: false
  keys:
    toggle-strong: ["ctrl+b"]
    edit-formula: ["f2", "alt+e"]
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := Config{
		HistoryLimit: 50,
		Log:          LogConfig{Level: "debug", Format: "json", File: "/tmp/mathdoc.log"},
		Render:       RenderConfig{Workers: 4},
		Editor: EditorConfig{
			ShowToolbar: false,
			Keys: map[string][]string{
				"toggle-strong": {"ctrl+b"},
				"edit-formula":  {"f2", "alt+e"},
			},
		},
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}

	lc := cfg.Logging()
	if lc.Level != logging.LevelDebug || !lc.JSON || lc.File != "/tmp/mathdoc.log" {
		t.Fatalf("logging config=%+v", lc)
	}
}

func TestLoad_Invalid(t *testing.T) {
	cases := map[string]string{
		"unknown field":   "colour: red\n",
		"bad level":       "log:\n  level: loud\n",
		"negative limit":  "history_limit: -2\n",
		"unknown command": "editor:\n  keys:\n    toggle-underline: [\"ctrl+u\"]\n",
		"empty keys":      "editor:\n  keys:\n    undo: []\n",
		"not yaml":        "history_limit: [\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			path := writeConfig(t, body)
			_, err := Load(path)
			if err == nil {
				t.Fatalf("Load succeeded for %q", body)
			}
			if !strings.Contains(err.Error(), path) {
				t.Fatalf("error %q does not name the file", err)
			}
		})
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("MATHDOC_LOG_LEVEL", "warn")
	t.Setenv("MATHDOC_HISTORY_LIMIT", "7")
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Log.Level != "warn" || cfg.HistoryLimit != 7 {
		t.Fatalf("config=%+v", cfg)
	}
}

func TestSessionOptions_ZeroDisablesHistory(t *testing.T) {
	cfg := Default()
	cfg.HistoryLimit = 0
	s := session.New("", cfg.SessionOptions())
	s.InsertText("a")
	if s.CanUndo() {
		t.Fatalf("history_limit 0 should disable undo")
	}
}

func TestToolbarItems_Overrides(t *testing.T) {
	cfg := Default()
	cfg.Editor.Keys = map[string][]string{session.CmdToggleStrong: {"ctrl+b"}, EditFormula: {"f2"}}

	for _, it := range cfg.ToolbarItems() {
		if it.Command != session.CmdToggleStrong {
			continue
		}
		if diff := cmp.Diff([]string{"ctrl+b"}, it.Key.Keys()); diff != "" {
			t.Fatalf("keys mismatch (-want +got):\n%s", diff)
		}
		if it.Key.Help().Desc != "bold" {
			t.Fatalf("help desc=%q, want %q", it.Key.Help().Desc, "bold")
		}
	}

	b := cfg.EditFormulaBinding(key.NewBinding(key.WithKeys("alt+e"), key.WithHelp("alt+e", "edit formula")))
	if diff := cmp.Diff([]string{"f2"}, b.Keys()); diff != "" {
		t.Fatalf("keys mismatch (-want +got):\n%s", diff)
	}
}
