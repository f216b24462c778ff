package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("CONFIG_PATH", path)
}

func TestLoadConfig_Defaults(t *testing.T) {
	writeConfig(t, `
http:
  addr: ":5002"
postgres:
  dsn: "postgres://localhost/meeting_app"
`)

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Logging.Service != "signaling-service" {
		t.Fatalf("service default: %q", cfg.Logging.Service)
	}
	if cfg.Logging.Env != "dev" || cfg.Logging.Backend != "std" {
		t.Fatalf("logging defaults: %+v", cfg.Logging)
	}
}

func TestLoadConfig_MissingRequired(t *testing.T) {
	for name, content := range map[string]string{
		"no http addr": "postgres:\n  dsn: x\n",
		"no dsn":       "http:\n  addr: :5002\n",
	} {
		writeConfig(t, content)
		if _, err := LoadConfig(); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}
