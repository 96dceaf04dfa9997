package api

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"
)

// ExecRunner runs tools as child processes that share the standard streams
// of the driver.
type ExecRunner struct{}

// Run starts the tool and waits for it. A tool that ran and failed is not an
// error; its status is returned.
func (ExecRunner) Run(ctx context.Context, name string, args ...string) (int, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	err := cmd.Run()

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), nil
	}

	return 0, err
}

// ToolPeephole runs an external peephole optimizer:
//
//	<command> -n <iterations> <in> <out>
type ToolPeephole struct {
	Command string
	Runner  ToolRunner
}

// Optimize runs the optimizer once and fails if it exits with a non-zero
// status.
func (p ToolPeephole) Optimize(
	ctx context.Context,
	iterations int,
	in, out string,
) error {
	code, err := p.Runner.Run(ctx, p.Command,
		"-n", strconv.Itoa(iterations), in, out)
	if err != nil {
		return err
	}

	if code != 0 {
		return fmt.Errorf("%s exited with status %d", p.Command, code)
	}

	return nil
}
