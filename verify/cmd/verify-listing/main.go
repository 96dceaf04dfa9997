package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/sarchlab/cibyl/config"
	"github.com/sarchlab/cibyl/core"
	"github.com/sarchlab/cibyl/verify"
	"github.com/tebeka/atexit"
)

func main() {
	debug := flag.Bool("debug", false, "keep the stack spill code")
	tables := flag.Bool("tables", false, "print the blocks of every procedure")
	reportPath := flag.String("report", "", "also save the report to this file")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: verify-listing [flags] listing.yaml")
		atexit.Exit(2)
	}

	programPath := flag.Arg(0)
	prog, err := core.LoadProgramFileFromYAML(programPath)
	if err != nil {
		log.Fatalf("Failed to load listing: %v", err)
	}

	cfg := config.Default()
	cfg.Debug = *debug
	procs := prog.Build(core.NewProcedureBuilder().WithConfig(cfg))

	if *tables {
		for _, p := range procs {
			core.PrintProcedure(os.Stdout, p)
		}
	}

	report := verify.GenerateReport(procs)
	report.WriteReport(os.Stdout)

	if *reportPath != "" {
		if err := report.SaveReportToFile(*reportPath); err != nil {
			log.Fatalf("%v", err)
		}
	}

	// Exit with error code if lint failed
	if len(report.LintIssues) > 0 {
		fmt.Fprintf(os.Stderr, "%s: verification failed with %d lint issues\n",
			programPath, len(report.LintIssues))
		atexit.Exit(1)
	}

	atexit.Exit(0)
}
