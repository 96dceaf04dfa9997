package api

import (
	"github.com/sarchlab/cibyl/config"
	"github.com/tebeka/atexit"
)

// DriverBuilder creates a new instance of Driver.
type DriverBuilder struct {
	toolchain config.Toolchain
	runner    ToolRunner
	peephole  Peephole
	exit      func(code int)
}

// MakeDriverBuilder returns a builder for drivers that use the default
// toolchain, run tools as child processes and exit through atexit.
func MakeDriverBuilder() DriverBuilder {
	return DriverBuilder{
		toolchain: config.DefaultToolchain(),
	}
}

// WithToolchain sets the tools and options the driver uses.
func (b DriverBuilder) WithToolchain(tc config.Toolchain) DriverBuilder {
	b.toolchain = tc
	return b
}

// WithRunner sets how tools are run.
func (b DriverBuilder) WithRunner(r ToolRunner) DriverBuilder {
	b.runner = r
	return b
}

// WithPeephole sets the assembler optimizer.
func (b DriverBuilder) WithPeephole(p Peephole) DriverBuilder {
	b.peephole = p
	return b
}

// WithExit replaces the function that ends the process on a failure.
func (b DriverBuilder) WithExit(exit func(code int)) DriverBuilder {
	b.exit = exit
	return b
}

// Build creates a driver.
func (b DriverBuilder) Build() Driver {
	d := &driverImpl{
		toolchain: b.toolchain,
		runner:    b.runner,
		peephole:  b.peephole,
		exit:      b.exit,
	}

	if d.runner == nil {
		d.runner = ExecRunner{}
	}

	if d.peephole == nil && b.toolchain.Peephole.Command != "" {
		d.peephole = ToolPeephole{
			Command: b.toolchain.Peephole.Command,
			Runner:  d.runner,
		}
	}

	if d.exit == nil {
		d.exit = atexit.Exit
	}

	return d
}
