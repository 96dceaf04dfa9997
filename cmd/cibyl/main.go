// Command cibyl runs the translation toolchain: the binary translator, the
// assembler for every generated class and the Java compiler.
//
//	cibyl [flags] listing.yaml [Main.java ...]
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/sarchlab/cibyl/api"
	"github.com/sarchlab/cibyl/config"
	"github.com/tebeka/atexit"
)

type options struct {
	toolchain  string
	syscalls   string
	defines    string
	traceStart uint
	traceEnd   uint
	debug      bool
	verbose    bool
	noPeephole bool
}

func parseFlags() options {
	var o options

	flag.StringVar(&o.toolchain, "toolchain", "", "toolchain file (.yaml or .toml)")
	flag.StringVar(&o.syscalls, "syscalls", "", "comma separated syscall directories")
	flag.StringVar(&o.defines, "defines", "", "comma separated -D defines")
	flag.UintVar(&o.traceStart, "trace-start", 0, "first traced address")
	flag.UintVar(&o.traceEnd, "trace-end", 0, "last traced address")
	flag.BoolVar(&o.debug, "debug", false, "keep the stack spill code")
	flag.BoolVar(&o.verbose, "verbose", false, "report removed instructions")
	flag.BoolVar(&o.noPeephole, "no-peephole", false, "skip the peephole optimizer")
	flag.Parse()

	return o
}

func loadToolchain(o options) (config.Toolchain, error) {
	tc := config.DefaultToolchain().WithEnvironment()
	if o.toolchain != "" {
		var err error
		if tc, err = config.LoadToolchain(o.toolchain); err != nil {
			return config.Toolchain{}, err
		}
	}

	if o.traceStart > math.MaxUint32 || o.traceEnd > math.MaxUint32 {
		return config.Toolchain{}, fmt.Errorf(
			"trace range 0x%x-0x%x does not fit in 32 bits", o.traceStart, o.traceEnd)
	}
	if o.traceStart != 0 {
		tc.Translation.TraceStart = uint32(o.traceStart)
	}
	if o.traceEnd != 0 {
		tc.Translation.TraceEnd = uint32(o.traceEnd)
	}
	tc.Translation.Debug = tc.Translation.Debug || o.debug
	tc.Translation.Verbose = tc.Translation.Verbose || o.verbose
	if o.noPeephole {
		tc.Peephole.Enabled = false
	}

	tc.Defines = append(tc.Defines, splitList(o.defines)...)
	tc.SyscallDirectories = append(tc.SyscallDirectories, splitList(o.syscalls)...)

	return tc, tc.Translation.Validate()
}

func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}

	return out
}

func main() {
	o := parseFlags()
	if flag.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "usage: cibyl [flags] listing.yaml [Main.java ...]")
		atexit.Exit(2)
	}

	if o.verbose {
		slog.SetLogLoggerLevel(slog.LevelDebug)
	}

	tc, err := loadToolchain(o)
	if err != nil {
		fmt.Fprintf(os.Stderr, "cibyl: %v\n", err)
		atexit.Exit(1)
	}

	ctx := context.Background()
	driver := api.MakeDriverBuilder().
		WithToolchain(tc).
		Build()

	driver.DoTranslation(ctx, flag.Arg(0), tc.SyscallDirectories)

	classes, err := filepath.Glob(filepath.Join(tc.OutDirectory, "*.j"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "cibyl: %v\n", err)
		atexit.Exit(1)
	}
	for _, class := range classes {
		driver.DoAssemble(ctx, class)
	}

	for _, src := range flag.Args()[1:] {
		driver.DoCompileJava(ctx, src)
	}

	atexit.Exit(0)
}
