package main

import (
	_ "embed"
	"flag"
	"fmt"
	"os"

	"github.com/sarchlab/cibyl/config"
	"github.com/sarchlab/cibyl/core"
	"github.com/sarchlab/cibyl/emit"
	"github.com/tebeka/atexit"
)

//go:embed spill.yaml
var spillListing []byte

func main() {
	debug := flag.Bool("debug", false, "keep the stack spill code")
	flag.Parse()

	prog, err := core.ParseProgramYAML(spillListing)
	if err != nil {
		panic(err)
	}

	cfg := config.Default()
	cfg.Debug = *debug

	w := emit.NewWriter(os.Stdout)
	procs := prog.Build(core.NewProcedureBuilder().
		WithConfig(cfg).
		WithEmitter(w))

	for _, p := range procs {
		core.PrintProcedure(os.Stdout, p)
		fmt.Println()
	}

	classes := core.PackClasses(procs, cfg.ClassSizeLimit)
	for _, c := range classes {
		if c.Name == core.CallTableClassName {
			err = emit.WriteCallTable(os.Stdout, classes)
		} else {
			err = w.WriteClass(os.Stdout, c)
		}

		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			atexit.Exit(1)
		}
	}

	atexit.Exit(0)
}
