package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/orgchart/pkg/config"
)

func TestResolveConfigPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")

	c := New(&bytes.Buffer{}, log.InfoLevel)
	path, err := c.resolveConfigPath()
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join("/tmp/xdg", appName, "config.toml"); path != want {
		t.Errorf("resolveConfigPath() = %q, want %q", path, want)
	}

	c.configPath = "custom.toml"
	if path, _ := c.resolveConfigPath(); path != "custom.toml" {
		t.Errorf("resolveConfigPath() = %q, want custom.toml", path)
	}
}

func TestConfigInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	c := New(&bytes.Buffer{}, log.InfoLevel)
	root := c.RootCommand()
	root.SetArgs([]string{"--config", path, "config", "init"})
	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("config init error = %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("config not written: %v", err)
	}

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Layout.HorizontalSpacing != config.Default().Layout.HorizontalSpacing {
		t.Errorf("written config differs from defaults: %+v", cfg.Layout)
	}
}

func TestLayoutFlagsOverrideConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Layout.Mode = "teams"
	cfg.Viewport.Width = 900

	var f layoutFlags
	cmd := &cobra.Command{Use: "layout"}
	f.register(cmd)
	if err := cmd.ParseFlags([]string{"--viewport", "1600", "--indent", "0", "--collapse", "cto"}); err != nil {
		t.Fatal(err)
	}
	opts := f.options(cfg)
	lc := opts.LayoutConfig()
	if lc.ViewportWidth != 1600 {
		t.Errorf("viewport = %g, want flag value 1600", lc.ViewportWidth)
	}
	if lc.ChildIndent != 0 {
		t.Errorf("indent = %g, want explicit 0", lc.ChildIndent)
	}
	if lc.HorizontalSpacing != cfg.Layout.HorizontalSpacing {
		t.Errorf("hspacing = %g, want config value %g", lc.HorizontalSpacing, cfg.Layout.HorizontalSpacing)
	}
	if opts.Mode != "teams" {
		t.Errorf("mode = %q, want config value teams", opts.Mode)
	}
	if len(opts.Collapsed) != 1 || opts.Collapsed[0] != "cto" {
		t.Errorf("collapsed = %v", opts.Collapsed)
	}
}

func TestCompletion(t *testing.T) {
	c := New(&bytes.Buffer{}, log.InfoLevel)
	root := c.RootCommand()
	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		var buf bytes.Buffer
		if err := genCompletion(root, shell, &buf); err != nil {
			t.Fatalf("%s: %v", shell, err)
		}
		if !bytes.Contains(buf.Bytes(), []byte(appName)) {
			t.Errorf("%s completion does not mention %s", shell, appName)
		}
	}
}
