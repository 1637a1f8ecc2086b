package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/netgraph/pkg/config"
	"github.com/matzehuels/netgraph/pkg/errors"
	"github.com/matzehuels/netgraph/pkg/observability"
)

// isolate points the XDG directories at fresh temp dirs so tests never see
// the developer's config or cache.
func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	t.Setenv(config.EnvRedisURL, "")
	t.Setenv(config.EnvMongoURI, "")
}

func quietCLI() *CLI {
	return New(&bytes.Buffer{}, log.ErrorLevel)
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", []string{"svg"}},
		{"svg", []string{"svg"}},
		{"svg,json", []string{"svg", "json"}},
		{" svg , png ,", []string{"svg", "png"}},
	}
	for _, tt := range tests {
		if got := parseFormats(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("parseFormats(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestRootCommandSubcommands(t *testing.T) {
	root := quietCLI().RootCommand()

	want := []string{"cache", "completion", "presets", "preview", "render", "serve"}
	var got []string
	for _, cmd := range root.Commands() {
		got = append(got, cmd.Name())
	}
	for _, name := range want {
		found := false
		for _, g := range got {
			if g == name {
				found = true
			}
		}
		if !found {
			t.Errorf("RootCommand() missing subcommand %q (have %v)", name, got)
		}
	}
}

func TestRootCommandConfigNotFound(t *testing.T) {
	isolate(t)
	root := quietCLI().RootCommand()
	root.SetArgs([]string{"--config", filepath.Join(t.TempDir(), "missing.toml"), "cache", "path"})
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})

	err := root.Execute()
	if !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("Execute() error = %v, want NOT_FOUND", err)
	}
}

func TestRootCommandConfigInvalid(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[cache]\nbackend = \"tape\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	root := quietCLI().RootCommand()
	root.SetArgs([]string{"--config", path, "cache", "path"})
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})

	if err := root.Execute(); !errors.IsValidation(err) {
		t.Errorf("Execute() error = %v, want validation error", err)
	}
}

func TestCachePath(t *testing.T) {
	isolate(t)
	root := quietCLI().RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"cache", "path"})

	if err := root.Execute(); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	want, _ := config.CacheDir()
	if got := strings.TrimSpace(out.String()); got != want {
		t.Errorf("cache path = %q, want %q", got, want)
	}
}

func TestCachePathFromConfig(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	body := "[cache]\ndir = " + `"` + filepath.ToSlash(filepath.Join(dir, "artifacts")) + `"` + "\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	root := quietCLI().RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"--config", path, "cache", "path"})

	if err := root.Execute(); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if got := strings.TrimSpace(out.String()); got != filepath.ToSlash(filepath.Join(dir, "artifacts")) {
		t.Errorf("cache path = %q", got)
	}
}

func TestCacheClear(t *testing.T) {
	isolate(t)
	root := quietCLI().RootCommand()
	root.SetOut(&bytes.Buffer{})
	root.SetArgs([]string{"cache", "clear"})

	if err := root.Execute(); err != nil {
		t.Errorf("cache clear error: %v", err)
	}
}

func TestCompletion(t *testing.T) {
	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		root := quietCLI().RootCommand()
		var out bytes.Buffer
		root.SetOut(&out)
		root.SetArgs([]string{"completion", shell})

		if err := root.Execute(); err != nil {
			t.Errorf("completion %s error: %v", shell, err)
			continue
		}
		if !strings.Contains(out.String(), "netgraph") {
			t.Errorf("completion %s output does not mention netgraph", shell)
		}
	}
}

func TestServeStopsWithContext(t *testing.T) {
	isolate(t)
	t.Cleanup(observability.Reset)

	c := quietCLI()
	c.config.Server.Addr = "127.0.0.1:0"
	c.config.Cache.Backend = config.CacheMemory

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := c.runServe(withLogger(ctx, c.Logger), false); err != nil {
		t.Errorf("runServe() error = %v, want nil after shutdown", err)
	}
}
