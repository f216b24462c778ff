package logger

import (
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"testing"
)

func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	orig := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	os.Stdout = w

	fn()

	_ = w.Close()
	os.Stdout = orig
	b, _ := io.ReadAll(r)
	return string(b)
}

func TestInit_ZapBackendEmitsJSON(t *testing.T) {
	out := captureStdout(t, func() {
		Init(Config{
			Service:          "signaling-service",
			Version:          "v0.1.0",
			Env:              EnvProd,
			Backend:          BackendZap,
			Level:            slog.LevelInfo,
			SampleInitial:    100000,
			SampleThereafter: 100000,
		})
		slog.Info("booted", slog.String("k", "v"))
	})

	var m map[string]any
	if err := json.Unmarshal([]byte(out), &m); err != nil {
		t.Fatalf("expected JSON line, got %q, err=%v", out, err)
	}
	if m["msg"] != "booted" {
		t.Fatalf("msg mismatch: %v", m["msg"])
	}
	if m["service"] != "signaling-service" || m["env"] != "prod" || m["version"] != "v0.1.0" {
		t.Fatalf("attrs missing: %v", m)
	}
	if m["level"] != "INFO" {
		t.Fatalf("level mismatch: %v", m["level"])
	}
	if m["k"] != "v" {
		t.Fatalf("custom field missing: %v", m["k"])
	}
}

func TestInit_StdBackendTextOutput(t *testing.T) {
	out := captureStdout(t, func() {
		Init(Config{
			Service: "signaling-service",
			Env:     EnvDev,
			Backend: BackendStd,
		})
		slog.Info("hello")
	})

	if out == "" {
		t.Fatal("expected output")
	}
	var m map[string]any
	if err := json.Unmarshal([]byte(out), &m); err == nil {
		t.Fatalf("dev backend should be text, got JSON: %q", out)
	}
}

func TestDetectEnv(t *testing.T) {
	cases := map[string]Env{
		"prod":       EnvProd,
		"production": EnvProd,
		"staging":    EnvStage,
		"":           EnvDev,
		"local":      EnvDev,
	}
	for raw, want := range cases {
		t.Setenv("APP_ENV", raw)
		if got := DetectEnv(); got != want {
			t.Fatalf("APP_ENV=%q: got %v want %v", raw, got, want)
		}
	}
}
