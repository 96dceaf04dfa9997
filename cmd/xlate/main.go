// Command xlate translates a decoded instruction listing into assembler
// classes.
//
//	xlate config:<...> [-Dname ...] dst-dir listing.yaml [syscall-db ...]
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/sarchlab/cibyl/config"
	"github.com/sarchlab/cibyl/core"
	"github.com/sarchlab/cibyl/emit"
	"github.com/sarchlab/cibyl/listing"
	"github.com/sarchlab/cibyl/verify"
	"github.com/tebeka/atexit"
)

// ListingFile is the name of the ownership listing in the output directory.
const ListingFile = "cibyl-listing.cbor"

var errUsage = errors.New(
	"usage: xlate config:<...> [-Dname ...] dst-dir listing.yaml [syscall-db ...]")

type invocation struct {
	cfg        config.Config
	defines    []string
	outDir     string
	input      string
	syscallDBs []string
}

func parseArgs(args []string) (invocation, error) {
	var inv invocation

	if len(args) < 3 {
		return inv, errUsage
	}

	cfg, err := config.ParseArgument(args[0])
	if err != nil {
		return inv, err
	}
	inv.cfg = cfg

	n := 1
	for ; n < len(args) && strings.HasPrefix(args[n], "-D"); n++ {
		inv.defines = append(inv.defines, args[n])
	}

	if len(args)-n < 2 {
		return inv, errUsage
	}

	inv.outDir = args[n]
	inv.input = args[n+1]
	inv.syscallDBs = args[n+2:]

	return inv, nil
}

func run(args []string, stdout io.Writer) error {
	inv, err := parseArgs(args)
	if err != nil {
		return err
	}

	slog.Debug("Translating",
		"Input", inv.input,
		"OutDir", inv.outDir,
		"Defines", inv.defines,
		"Config", inv.cfg.String(),
	)

	for _, db := range inv.syscallDBs {
		if _, err := os.Stat(db); err != nil {
			return fmt.Errorf("syscall database: %w", err)
		}
	}

	prog, err := core.LoadProgramFileFromYAML(inv.input)
	if err != nil {
		return err
	}

	w := emit.NewWriter(io.Discard)
	procs := prog.Build(core.NewProcedureBuilder().
		WithConfig(inv.cfg).
		WithEmitter(w))

	for _, p := range procs {
		core.LogProcedure(p)
		if inv.cfg.Verbose {
			core.PrintProcedure(stdout, p)
		}
	}

	if issues := verify.RunLint(procs); len(issues) > 0 {
		for _, issue := range issues {
			slog.Error("Lint",
				"Type", issue.Type,
				"Procedure", issue.Procedure,
				"Message", issue.Message,
			)
		}

		return fmt.Errorf("%s: %d lint issues", inv.input, len(issues))
	}

	if err := os.MkdirAll(inv.outDir, 0o755); err != nil {
		return err
	}

	classes := core.PackClasses(procs, inv.cfg.ClassSizeLimit)
	for _, c := range classes {
		if err := writeClass(w, inv.outDir, c, classes); err != nil {
			return err
		}
	}

	return listing.WriteFile(
		filepath.Join(inv.outDir, ListingFile), listing.FromClasses(classes))
}

func writeClass(w *emit.Writer, outDir string, c core.Class, all []core.Class) error {
	path := filepath.Join(outDir, c.FileName())

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if c.Name == core.CallTableClassName {
		err = emit.WriteCallTable(f, all)
	} else {
		err = w.WriteClass(f, c)
	}
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	slog.Info("Wrote class", "Name", c.Name, "Procedures", len(c.Procedures), "Size", c.Size())

	return f.Close()
}

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "xlate: %v\n", err)
		atexit.Exit(1)
	}

	atexit.Exit(0)
}
