package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/matzehuels/orgchart/pkg/errors"
	"github.com/matzehuels/orgchart/pkg/layout"
)

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "none.toml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.LayoutConfig() != layout.DefaultConfig() {
		t.Errorf("LayoutConfig() = %+v, want defaults", cfg.LayoutConfig())
	}
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		code  errors.Code
		check func(t *testing.T, c Config)
	}{
		{
			name: "partial override",
			body: "[layout]\nhorizontal_spacing = 25\n\n[viewport]\nwidth = 800\n",
			check: func(t *testing.T, c Config) {
				if c.Layout.HorizontalSpacing != 25 || c.Viewport.Width != 800 {
					t.Errorf("overrides not applied: %+v", c)
				}
				if c.Layout.VerticalSpacing != layout.DefaultVerticalSpacing {
					t.Errorf("VerticalSpacing = %v, want default", c.Layout.VerticalSpacing)
				}
			},
		},
		{
			name: "render and serve",
			body: "[render]\nstyle = \"outline\"\nformats = [\"svg\", \"dot\"]\n\n[serve]\naddr = \":9000\"\n",
			check: func(t *testing.T, c Config) {
				if c.Render.Style != "outline" || len(c.Render.Formats) != 2 || c.Serve.Addr != ":9000" {
					t.Errorf("config = %+v", c)
				}
			},
		},
		{name: "unknown key", body: "[layout]\nspacing = 3\n", code: errors.ErrCodeInvalidConfig},
		{name: "bad toml", body: "[layout\n", code: errors.ErrCodeInvalidConfig},
		{name: "negative spacing", body: "[layout]\nvertical_spacing = -1\n", code: errors.ErrCodeInvalidConfig},
		{name: "nan viewport", body: "[viewport]\nwidth = nan\n", code: errors.ErrCodeInvalidConfig},
		{name: "infinite font size", body: "[layout]\nfont_size = inf\n", code: errors.ErrCodeInvalidConfig},
		{
			name: "explicit zeros",
			body: "[layout]\nchild_indent = 0\nedge_offset = 0\n\n[viewport]\nwidth = 0\n",
			check: func(t *testing.T, c Config) {
				lc := c.LayoutConfig()
				if lc.ChildIndent != 0 || lc.EdgeOffset != 0 || lc.ViewportWidth != 0 {
					t.Errorf("zeros not kept: %+v", lc)
				}
			},
		},
		{name: "bad mode", body: "[layout]\nmode = \"everyone\"\n", code: errors.ErrCodeInvalidMode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			if err := os.WriteFile(path, []byte(tt.body), 0o644); err != nil {
				t.Fatal(err)
			}
			cfg, err := Load(path)
			if got := errors.GetCode(err); got != tt.code {
				t.Fatalf("Load() code = %q, want %q (err %v)", got, tt.code, err)
			}
			if tt.check != nil {
				tt.check(t, cfg)
			}
		})
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	cfg := Default()
	cfg.Layout.ChildIndent = 32
	cfg.Render.Style = "outline"

	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got.Layout.ChildIndent != 32 || got.Render.Style != "outline" {
		t.Errorf("Load(Save()) = %+v", got)
	}
}

func TestDefaultPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	p, err := DefaultPath()
	if err != nil {
		t.Fatal(err)
	}
	if p != "/tmp/xdg/orgchart/config.toml" {
		t.Errorf("DefaultPath() = %q", p)
	}
}
