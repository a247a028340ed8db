package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfigDefaultMissing(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg != DefaultConfig() {
		t.Errorf("cfg = %+v, want defaults", cfg)
	}
}

func TestLoadConfigDefaultLocation(t *testing.T) {
	home := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", home)
	if err := os.MkdirAll(filepath.Join(home, appName), 0o755); err != nil {
		t.Fatal(err)
	}
	err := os.WriteFile(filepath.Join(home, appName, "config.toml"), []byte("[serve]\naddr = \":9090\"\n"), 0o644)
	if err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Serve.Addr != ":9090" {
		t.Errorf("Addr = %q", cfg.Serve.Addr)
	}
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
[hourglass]
up = 2

[connections]
mode = "permissive"

[render]
detailed = true
format = "svg,dot"
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Hourglass.Up != 2 {
		t.Errorf("Up = %d, want 2", cfg.Hourglass.Up)
	}
	if cfg.Hourglass.Down != DefaultConfig().Hourglass.Down {
		t.Errorf("Down = %d, want default", cfg.Hourglass.Down)
	}
	if cfg.Connections.Mode != "permissive" || !cfg.Render.Detailed || cfg.Render.Format != "svg,dot" {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.Serve.Addr != defaultAddr {
		t.Errorf("Addr = %q, want default", cfg.Serve.Addr)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"unknown key", "[render]\ncolour = \"red\"\n", "unknown keys"},
		{"bad mode", "[connections]\nmode = \"loose\"\n", "mode"},
		{"bad limit", "[hourglass]\nup = -3\n", "up"},
		{"bad format", "[render]\nformat = \"gif\"\n", "gif"},
		{"syntax", "[hourglass\n", "config"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tt.content))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q should mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoadConfigExplicitMissing(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Error("explicit missing file should fail")
	}
}
