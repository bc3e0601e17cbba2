// Package config loads musicsort settings from YAML, applies environment
// overrides and validates the result.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"musicsort/internal/model"
)

var ErrInvalidConfig = errors.New("invalid config")

// Environment overrides.
const (
	EnvHTTPAddr       = "MUSICSORT_HTTP_ADDR"
	EnvLogLevel       = "MUSICSORT_LOG_LEVEL"
	EnvLogFormat      = "MUSICSORT_LOG_FORMAT"
	EnvReplayInterval = "MUSICSORT_REPLAY_INTERVAL"
)

type Config struct {
	Server ServerConfig `yaml:"server"`
	Sort   SortConfig   `yaml:"sort"`
	Replay ReplayConfig `yaml:"replay"`
	Audio  AudioConfig  `yaml:"audio"`
	Log    LogConfig    `yaml:"log"`
}

type ServerConfig struct {
	Addr              string        `yaml:"addr" validate:"required,hostname_port"`
	ReadHeaderTimeout time.Duration `yaml:"read_header_timeout" validate:"min=1ms"`
	ShutdownTimeout   time.Duration `yaml:"shutdown_timeout" validate:"min=1ms"`
}

type SortConfig struct {
	Algorithm string   `yaml:"algorithm" validate:"oneof=insertion selection bubble"`
	Notes     []string `yaml:"notes" validate:"dive,note"`
	// MaxNotes bounds request-supplied sequences.
	MaxNotes int `yaml:"max_notes" validate:"min=1,max=512"`
}

type ReplayConfig struct {
	Interval    time.Duration `yaml:"interval" validate:"min=1ms"`
	MinInterval time.Duration `yaml:"min_interval" validate:"min=1ms,ltefield=Interval"`
}

type AudioConfig struct {
	SampleRate   int           `yaml:"sample_rate" validate:"oneof=8000 16000 22050 44100 48000"`
	StepDuration time.Duration `yaml:"step_duration" validate:"min=10ms,max=10s"`
	Gain         float64       `yaml:"gain" validate:"gt=0,lte=1"`
}

type LogConfig struct {
	Level  string `yaml:"level" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" validate:"oneof=text json"`
}

// Default mirrors the reference configuration: the 7-note grid, bubble sort,
// one step per second and a quiet sine tone.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:              "127.0.0.1:8080",
			ReadHeaderTimeout: 5 * time.Second,
			ShutdownTimeout:   10 * time.Second,
		},
		Sort: SortConfig{
			Algorithm: "bubble",
			Notes:     []string{"e", "g", "d", "b", "a", "c", "f"},
			MaxNotes:  256,
		},
		Replay: ReplayConfig{
			Interval:    time.Second,
			MinInterval: 50 * time.Millisecond,
		},
		Audio: AudioConfig{
			SampleRate:   44100,
			StepDuration: 500 * time.Millisecond,
			Gain:         0.05,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads path over the defaults (an empty path skips the file), applies
// environment overrides and validates.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read the config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse the config file %s: %w", path, err)
		}
	}
	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	cfg.Server.Addr = envOrDefault(EnvHTTPAddr, cfg.Server.Addr)
	cfg.Log.Level = strings.ToLower(envOrDefault(EnvLogLevel, cfg.Log.Level))
	cfg.Log.Format = strings.ToLower(envOrDefault(EnvLogFormat, cfg.Log.Format))

	if v := os.Getenv(EnvReplayInterval); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q: %v", ErrInvalidConfig, EnvReplayInterval, v, err)
		}
		cfg.Replay.Interval = d
	}
	return nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("note", func(fl validator.FieldLevel) bool {
		_, err := model.ParseNote(fl.Field().String())
		return err == nil
	})
	return v
}

// Validate checks every field constraint.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// Sequence parses the configured notes.
func (c Config) Sequence() (model.Sequence, error) {
	return model.ParseSequence(strings.Join(c.Sort.Notes, ","))
}

// WriteDefault creates path, and its directory, holding the default config.
func WriteDefault(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create the config directory %w", err)
	}
	data, err := yaml.Marshal(Default())
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
