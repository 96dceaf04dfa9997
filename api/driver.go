// Package api defines the driver that runs the external translation
// toolchain.
package api

import (
	"context"
	"log/slog"
	"path/filepath"

	"github.com/sarchlab/cibyl/config"
)

// SyscallDatabase is the name of the system call database inside a syscall
// directory.
const SyscallDatabase = "cibyl-syscalls.db"

// Driver runs the steps of a translation. Every step ends the process with
// the exit status of a failing tool.
type Driver interface {
	// DoTranslation runs the binary translator on infile.
	DoTranslation(ctx context.Context, infile string, syscallDirectories []string)

	// DoAssemble optimizes the assembler file in place, if configured, and
	// assembles it into the output directory.
	DoAssemble(ctx context.Context, file string)

	// DoCompileJava compiles a Java source against the output directory.
	DoCompileJava(ctx context.Context, file string)
}

// ToolRunner runs an external program and reports its exit status.
type ToolRunner interface {
	Run(ctx context.Context, name string, args ...string) (exitCode int, err error)
}

// Peephole optimizes an assembler file.
type Peephole interface {
	Optimize(ctx context.Context, iterations int, in, out string) error
}

type driverImpl struct {
	toolchain config.Toolchain
	runner    ToolRunner
	peephole  Peephole
	exit      func(code int)
}

func (d *driverImpl) DoTranslation(
	ctx context.Context,
	infile string,
	syscallDirectories []string,
) {
	args := []string{d.toolchain.Translation.String()}
	args = append(args, d.toolchain.Defines...)
	args = append(args, d.toolchain.OutDirectory, infile)

	for _, dir := range syscallDirectories {
		args = append(args, filepath.Join(dir, SyscallDatabase))
	}

	d.run(ctx, d.toolchain.Translator, args...)
}

func (d *driverImpl) DoAssemble(ctx context.Context, file string) {
	if d.toolchain.Peephole.Enabled && d.peephole != nil {
		err := d.peephole.Optimize(ctx, d.toolchain.Peephole.Iterations, file, file)
		if err != nil {
			slog.Error("Peephole optimization failed", "File", file, "Error", err)
			d.exit(1)

			return
		}
	}

	d.run(ctx, d.toolchain.Jasmin, "-d", d.toolchain.OutDirectory, file)
}

func (d *driverImpl) DoCompileJava(ctx context.Context, file string) {
	d.run(ctx, d.toolchain.Javac,
		"-d", d.toolchain.OutDirectory,
		"-classpath", d.toolchain.OutDirectory,
		file)
}

// run executes one tool and exits on failure.
func (d *driverImpl) run(ctx context.Context, name string, args ...string) {
	slog.Debug("Running tool", "Name", name, "Args", args)

	code, err := d.runner.Run(ctx, name, args...)
	if err != nil {
		slog.Error("Cannot run tool", "Name", name, "Error", err)
		d.exit(1)

		return
	}

	if code != 0 {
		slog.Error("Tool failed", "Name", name, "Status", code)
		d.exit(code)
	}
}
