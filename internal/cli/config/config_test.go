package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Server != "127.0.0.1:6379" {
		t.Errorf("Server = %q", cfg.Server)
	}
	if cfg.Admin != "127.0.0.1:9121" {
		t.Errorf("Admin = %q", cfg.Admin)
	}
	if cfg.Output != "table" {
		t.Errorf("Output = %q", cfg.Output)
	}
	if d, err := cfg.TimeoutDuration(); err != nil || d != 5*time.Second {
		t.Errorf("TimeoutDuration() = %v, %v", d, err)
	}
}

func TestDefaultConfigPath(t *testing.T) {
	path := DefaultConfigPath()
	if !filepath.IsAbs(path) {
		t.Errorf("path %q should be absolute", path)
	}
	if want := filepath.Join(".shardkv", "cli.yaml"); filepath.Join(filepath.Base(filepath.Dir(path)), filepath.Base(path)) != want {
		t.Errorf("path = %q, should end with %q", path, want)
	}
}

func TestLoad_NonExistentFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if *cfg != *Default() {
		t.Errorf("Load() = %+v, want defaults", cfg)
	}
}

func TestLoad_PartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cli.yaml")
	if err := os.WriteFile(path, []byte("server: 10.0.0.5:6380\noutput: json\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server != "10.0.0.5:6380" || cfg.Output != "json" {
		t.Errorf("file values not applied: %+v", cfg)
	}
	if cfg.Admin != "127.0.0.1:9121" || cfg.Timeout != "5s" {
		t.Errorf("defaults lost: %+v", cfg)
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cli.yaml")
	if err := os.WriteFile(path, []byte("server: [unterminated\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "cli.yaml")

	cfg := Default()
	cfg.Server = "db.internal:6379"
	cfg.Timeout = "750ms"
	if err := Save(cfg, path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("file mode = %o, want 600", perm)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if *got != *cfg {
		t.Errorf("Load() = %+v, want %+v", got, cfg)
	}
}

func TestMerge(t *testing.T) {
	cfg := Default()

	merged := Merge(cfg, map[string]string{
		"server":  "other:6379",
		"output":  "",
		"timeout": "1s",
		"unknown": "ignored",
	})

	if merged.Server != "other:6379" {
		t.Errorf("Server = %q", merged.Server)
	}
	if merged.Output != "table" {
		t.Errorf("empty override applied: Output = %q", merged.Output)
	}
	if merged.Timeout != "1s" {
		t.Errorf("Timeout = %q", merged.Timeout)
	}
	if cfg.Server != "127.0.0.1:6379" {
		t.Error("Merge modified its input")
	}
}

func TestTimeoutDuration_Invalid(t *testing.T) {
	for _, v := range []string{"soon", "-1s"} {
		cfg := &CLIConfig{Timeout: v}
		if _, err := cfg.TimeoutDuration(); err == nil {
			t.Errorf("TimeoutDuration(%q) expected error", v)
		}
	}
}
