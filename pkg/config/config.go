// Package config loads registry settings from a TOML file and FRAMES_*
// environment variables.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	frames "github.com/goliatone/go-frames"
	"github.com/goliatone/go-frames/pkg/logging"
	"github.com/goliatone/go-frames/pkg/persist"
	"github.com/rs/zerolog"
)

const (
	StoreMemory = "memory"
	StoreFile   = "file"
	StoreBadger = "badger"
)

// Config holds the settings a frames process needs to build a Registry and
// its store.
type Config struct {
	App             string `toml:"app" env:"FRAMES_APP" validate:"required"`
	Engine          string `toml:"engine" env:"FRAMES_ENGINE" validate:"oneof=expr cel js"`
	LogLevel        string `toml:"log_level" env:"FRAMES_LOG_LEVEL" validate:"oneof=trace debug info warn error disabled"`
	LogConsole      bool   `toml:"log_console" env:"FRAMES_LOG_CONSOLE"`
	ActivityEnabled bool   `toml:"activity_enabled" env:"FRAMES_ACTIVITY_ENABLED"`
	ActivityChannel string `toml:"activity_channel" env:"FRAMES_ACTIVITY_CHANNEL"`
	Store           string `toml:"store" env:"FRAMES_STORE" validate:"oneof=memory file badger"`
	StoreDir        string `toml:"store_dir" env:"FRAMES_STORE_DIR" validate:"required_if=Store file"`
	BadgerInMemory  bool   `toml:"badger_in_memory" env:"FRAMES_BADGER_IN_MEMORY"`
	BadgerSync      bool   `toml:"badger_sync_writes" env:"FRAMES_BADGER_SYNC_WRITES"`
}

type fileConfig struct {
	App             string `toml:"app"`
	Engine          string `toml:"engine"`
	LogLevel        string `toml:"log_level"`
	LogConsole      bool   `toml:"log_console"`
	ActivityEnabled bool   `toml:"activity_enabled"`
	ActivityChannel string `toml:"activity_channel"`
	Store           string `toml:"store"`
	StoreDir        string `toml:"store_dir"`
	BadgerInMemory  bool   `toml:"badger_in_memory"`
	BadgerSync      bool   `toml:"badger_sync_writes"`
}

// Default returns the settings used when neither file nor environment says
// otherwise.
func Default() Config {
	return Config{
		App:      "frames",
		Engine:   frames.EngineExpr,
		LogLevel: "info",
		Store:    StoreMemory,
	}
}

// Load starts from Default, overlays the keys defined in the TOML file at
// path (skipped when path is empty), then FRAMES_* environment variables, and
// validates the result.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		if err := cfg.overlayFile(path); err != nil {
			return Config{}, err
		}
	}
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) overlayFile(path string) error {
	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return fmt.Errorf("load frames config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("load frames config: unknown key %q", undecoded[0].String())
	}
	if meta.IsDefined("app") {
		c.App = raw.App
	}
	if meta.IsDefined("engine") {
		c.Engine = raw.Engine
	}
	if meta.IsDefined("log_level") {
		c.LogLevel = raw.LogLevel
	}
	if meta.IsDefined("log_console") {
		c.LogConsole = raw.LogConsole
	}
	if meta.IsDefined("activity_enabled") {
		c.ActivityEnabled = raw.ActivityEnabled
	}
	if meta.IsDefined("activity_channel") {
		c.ActivityChannel = raw.ActivityChannel
	}
	if meta.IsDefined("store") {
		c.Store = raw.Store
	}
	if meta.IsDefined("store_dir") {
		c.StoreDir = raw.StoreDir
	}
	if meta.IsDefined("badger_in_memory") {
		c.BadgerInMemory = raw.BadgerInMemory
	}
	if meta.IsDefined("badger_sync_writes") {
		c.BadgerSync = raw.BadgerSync
	}
	return nil
}

func (c *Config) normalize() {
	c.App = strings.TrimSpace(c.App)
	c.Engine = strings.ToLower(strings.TrimSpace(c.Engine))
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	c.Store = strings.ToLower(strings.TrimSpace(c.Store))
	c.StoreDir = strings.TrimSpace(c.StoreDir)
	c.ActivityChannel = strings.TrimSpace(c.ActivityChannel)
}

// Validate checks the settings with their validate tags. A badger store
// needs either a directory or the in-memory flag.
func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid frames config: %w", err)
	}
	if c.Store == StoreBadger && c.StoreDir == "" && !c.BadgerInMemory {
		return errors.New("invalid frames config: badger store needs store_dir or badger_in_memory")
	}
	return nil
}

// Logger builds the zerolog logger described by the settings, writing to out
// (stderr when nil).
func (c Config) Logger(out io.Writer) (zerolog.Logger, error) {
	if out == nil {
		out = os.Stderr
	}
	if c.LogConsole {
		return logging.NewConsole(out, c.App, c.LogLevel)
	}
	level, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("logging: %w", err)
	}
	return logging.NewJSON(out, c.App, level), nil
}

// Options translates the settings into registry options, followed by extra.
// Activity hooks come from extra; ActivityEnabled false drops them.
func (c Config) Options(logger frames.Logger, extra ...frames.Option) []frames.Option {
	opts := []frames.Option{frames.WithEngine(c.Engine)}
	if logger != nil {
		opts = append(opts, frames.WithLogger(logger))
	}
	if c.ActivityChannel != "" {
		opts = append(opts, frames.WithActivityChannel(c.ActivityChannel))
	}
	opts = append(opts, extra...)
	if !c.ActivityEnabled {
		opts = append(opts, frames.WithActivityHooks(nil))
	}
	return opts
}

// OpenStore opens the configured store. The returned close function is
// never nil.
func (c Config) OpenStore() (persist.Store, func() error, error) {
	noop := func() error { return nil }
	switch c.Store {
	case StoreFile:
		store, err := persist.NewFileStore(c.StoreDir)
		if err != nil {
			return nil, noop, err
		}
		return store, noop, nil
	case StoreBadger:
		db, err := persist.OpenBadger(persist.BadgerConfig{
			Path:       c.StoreDir,
			InMemory:   c.BadgerInMemory,
			SyncWrites: c.BadgerSync,
		})
		if err != nil {
			return nil, noop, err
		}
		store := persist.NewBadgerStore(db)
		return store, store.Close, nil
	case StoreMemory, "":
		return persist.NewMemoryStore(), noop, nil
	default:
		return nil, noop, fmt.Errorf("unknown store %q", c.Store)
	}
}
