package config

import (
	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/sim8086/api"
)

// Platform is an engine with a driver that runs on it.
type Platform struct {
	Engine sim.Engine
	Driver api.Driver
}

// PlatformBuilder can build platforms.
type PlatformBuilder struct {
	cfg Config
}

// NewPlatformBuilder returns a builder that uses the default configuration.
func NewPlatformBuilder() PlatformBuilder {
	return PlatformBuilder{cfg: Default()}
}

// WithConfig sets the configuration.
func (b PlatformBuilder) WithConfig(c Config) PlatformBuilder {
	b.cfg = c
	return b
}

// Build creates a serial engine and a driver named name.
func (b PlatformBuilder) Build(name string) *Platform {
	engine := sim.NewSerialEngine()

	driver := api.NewDriverBuilder().
		WithEngine(engine).
		WithFreq(b.cfg.Freq()).
		WithUnknownPolicy(b.cfg.Policy()).
		WithMaxSteps(b.cfg.MaxSteps).
		Build(name)

	return &Platform{
		Engine: engine,
		Driver: driver,
	}
}
