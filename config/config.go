// Package config loads the runtime configuration and assembles the
// simulation platform from it.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/sarchlab/akita/v4/sim"
	"gopkg.in/yaml.v3"

	"github.com/sarchlab/sim8086/decoder"
	"github.com/sarchlab/sim8086/util"
)

// EnvVar names the environment variable that points at a config file.
const EnvVar = "SIM8086_CONFIG"

// Config is the content of a config file. Missing keys keep their defaults.
type Config struct {
	LogLevel      string  `yaml:"log_level"`
	UnknownOpcode string  `yaml:"unknown_opcode"`
	MaxSteps      uint64  `yaml:"max_steps"`
	FreqMHz       float64 `yaml:"freq_mhz"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		LogLevel:      "warn",
		UnknownOpcode: decoder.HaltOnUnknown.String(),
		MaxSteps:      1_000_000,
		FreqMHz:       1000,
	}
}

// Load reads a YAML config file. Unknown keys are rejected.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}

	return Parse(data)
}

// Parse decodes a YAML config document on top of the defaults.
func Parse(data []byte) (Config, error) {
	c := Default()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	if err := dec.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if err := c.Validate(); err != nil {
		return Config{}, err
	}

	return c, nil
}

// FromEnv loads the file named by EnvVar, or returns the defaults when the
// variable is unset.
func FromEnv() (Config, error) {
	path := os.Getenv(EnvVar)
	if path == "" {
		return Default(), nil
	}

	return Load(path)
}

// Validate checks every field.
func (c Config) Validate() error {
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}

	if _, err := decoder.ParseUnknownPolicy(c.UnknownOpcode); err != nil {
		return err
	}

	if c.FreqMHz <= 0 {
		return fmt.Errorf("freq_mhz must be positive, got %v", c.FreqMHz)
	}

	return nil
}

// ParseLevel accepts trace, debug, info, warn and error.
func ParseLevel(s string) (slog.Level, error) {
	if strings.EqualFold(s, "trace") {
		return util.LevelTrace, nil
	}

	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("invalid log level %q: %w", s, err)
	}

	return l, nil
}

// Level returns the configured log level.
func (c Config) Level() slog.Level {
	l, err := ParseLevel(c.LogLevel)
	if err != nil {
		return slog.LevelWarn
	}

	return l
}

// Policy returns the configured unknown opcode policy.
func (c Config) Policy() decoder.UnknownPolicy {
	p, _ := decoder.ParseUnknownPolicy(c.UnknownOpcode)
	return p
}

// Freq returns the core frequency.
func (c Config) Freq() sim.Freq {
	return sim.Freq(c.FreqMHz) * sim.MHz
}

// NewLogger returns a text logger writing to w at the configured level.
func NewLogger(w io.Writer, c Config) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: c.Level()}))
}
