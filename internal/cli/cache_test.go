package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCachePathCommand(t *testing.T) {
	out, err := runCLI(t, "cache", "path")
	if err != nil {
		t.Fatalf("cache path: %v", err)
	}
	want := filepath.Join(os.Getenv("XDG_CACHE_HOME"), appName)
	if strings.TrimSpace(out) != want {
		t.Errorf("cache path = %q, want %q", strings.TrimSpace(out), want)
	}
}

func TestCacheClearCommand(t *testing.T) {
	dir := t.TempDir()
	cfg := writeTestFile(t, "config.toml", "[cache]\nbackend = \"file\"\ndir = \""+filepath.ToSlash(dir)+"\"\n")

	if _, err := runCLI(t, "--config", cfg, "simulate", "--trials", "10"); err != nil {
		t.Fatalf("simulate: %v", err)
	}

	out, err := runCLI(t, "--config", cfg, "cache", "clear")
	if err != nil {
		t.Fatalf("cache clear: %v", err)
	}
	if !strings.Contains(out, "Cleared 1 cached entries") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestCacheClearCommand_Empty(t *testing.T) {
	out, err := runCLI(t, "cache", "clear")
	if err != nil {
		t.Fatalf("cache clear: %v", err)
	}
	if !strings.Contains(out, "Cache is empty") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestCacheClearCommand_Redis(t *testing.T) {
	cfg := writeTestFile(t, "config.toml", "[cache]\nbackend = \"redis\"\nredis_addr = \"localhost:6379\"\n")

	if _, err := runCLI(t, "--config", cfg, "cache", "clear"); err == nil {
		t.Error("cache clear should not support the redis backend")
	}
}
