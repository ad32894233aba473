package api

import (
	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/sim8086/core"
	"github.com/sarchlab/sim8086/decoder"
	"github.com/sarchlab/sim8086/isa"
)

// DriverBuilder creates a new instance of Driver.
type DriverBuilder struct {
	engine   sim.Engine
	freq     sim.Freq
	table    *isa.Table
	policy   decoder.UnknownPolicy
	maxSteps uint64
}

// NewDriverBuilder returns a builder with a 1 GHz core.
func NewDriverBuilder() DriverBuilder {
	return DriverBuilder{freq: 1 * sim.GHz}
}

// WithEngine sets the engine.
func (b DriverBuilder) WithEngine(engine sim.Engine) DriverBuilder {
	b.engine = engine
	return b
}

// WithFreq sets the frequency of the core.
func (b DriverBuilder) WithFreq(freq sim.Freq) DriverBuilder {
	b.freq = freq
	return b
}

// WithTable sets the opcode table used for decoding.
func (b DriverBuilder) WithTable(t *isa.Table) DriverBuilder {
	b.table = t
	return b
}

// WithUnknownPolicy sets how the decoder treats unknown opcodes.
func (b DriverBuilder) WithUnknownPolicy(p decoder.UnknownPolicy) DriverBuilder {
	b.policy = p
	return b
}

// WithMaxSteps bounds execution. Zero means no bound.
func (b DriverBuilder) WithMaxSteps(n uint64) DriverBuilder {
	b.maxSteps = n
	return b
}

// Build creates a driver. A serial engine is created when none was set.
func (b DriverBuilder) Build(name string) Driver {
	engine := b.engine
	if engine == nil {
		engine = sim.NewSerialEngine()
	}

	d := &driverImpl{
		engine: engine,
		decoder: decoder.NewBuilder().
			WithTable(b.table).
			WithUnknownPolicy(b.policy).
			Build(),
		core: core.NewBuilder().
			WithEngine(engine).
			WithFreq(b.freq).
			WithMaxSteps(b.maxSteps).
			Build(name + ".Core"),
	}

	return d
}
