package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTempFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return p
}

func TestLoadYAML(t *testing.T) {
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.yaml", "addr: :9999\nplanner: basic\nlog_level: debug\nmax_arena_bytes: 4096\ncors_enabled: true\ncors_allowed_origins: [\"http://a\"]\n")
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != ":9999" || cfg.Planner != "basic" || cfg.LogLevel != "debug" || cfg.MaxArenaBytes != 4096 {
		t.Fatalf("unexpected cfg: %+v", cfg)
	}
	if !cfg.CORSEnabled || len(cfg.CORSAllowedOrigins) != 1 || cfg.CORSAllowedOrigins[0] != "http://a" {
		t.Fatalf("unexpected cors cfg: %+v", cfg)
	}
}

func TestLoadJSON(t *testing.T) {
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.json", `{"addr":":7070","planner":"greedy-by-size","max_arena_bytes":42,"max_body_bytes":1024}`)
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != ":7070" || cfg.Planner != "greedy-by-size" || cfg.MaxArenaBytes != 42 || cfg.MaxBodyBytes != 1024 {
		t.Fatalf("unexpected cfg: %+v", cfg)
	}
}

func TestLoadTOML(t *testing.T) {
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.toml", "addr=\":8081\"\nplanner=\"optimized-v1\"\nlog_level=\"warn\"\nmax_arena_bytes=9\n")
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != ":8081" || cfg.Planner != "optimized-v1" || cfg.LogLevel != "warn" || cfg.MaxArenaBytes != 9 {
		t.Fatalf("unexpected cfg: %+v", cfg)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(""); err == nil {
		t.Fatalf("expected error on empty path")
	}
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.txt", "not supported")
	if _, err := Load(p); err == nil {
		t.Fatalf("expected unsupported extension error")
	}
}

func TestMerge(t *testing.T) {
	base := Config{Addr: ":8080", Planner: "basic", MaxArenaBytes: 10, CORSAllowedOrigins: []string{"*"}}
	got := Merge(base, Config{Planner: "optimized-v1", CORSEnabled: true})
	if got.Addr != ":8080" || got.Planner != "optimized-v1" || got.MaxArenaBytes != 10 || !got.CORSEnabled {
		t.Fatalf("unexpected merge: %+v", got)
	}
	if len(got.CORSAllowedOrigins) != 1 || got.CORSAllowedOrigins[0] != "*" {
		t.Fatalf("origins lost: %+v", got)
	}
}

func TestMergeKeepsNegativeArenaCap(t *testing.T) {
	base := Config{MaxArenaBytes: 1 << 30}
	if got := Merge(base, Config{MaxArenaBytes: -1}); got.MaxArenaBytes != -1 {
		t.Fatalf("unlimited override lost: %d", got.MaxArenaBytes)
	}
	if got := Merge(base, Config{}); got.MaxArenaBytes != 1<<30 {
		t.Fatalf("default cap lost: %d", got.MaxArenaBytes)
	}
}
