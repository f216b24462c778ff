package logger

import "log/slog"

type Backend string

const (
	BackendStd Backend = "std" // text handler on stdout
	BackendZap Backend = "zap" // JSON via slog-zap, with sampling
)

type Config struct {
	// Service metadata attached to every record.
	Service    string
	Version    string
	InstanceID string

	// Output control.
	Level   slog.Level
	Env     Env
	Backend Backend // default: zap for stage/prod, std for dev
	Debug   bool

	// Zap sampling knobs.
	SampleInitial    int
	SampleThereafter int
	SampleTick       int

	AddSource bool
}
