package verify

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sarchlab/cibyl/core"
)

// VerificationReport represents a complete verification report
type VerificationReport struct {
	ProcedureCount int
	LintIssues     []Issue
	StructIssues   []Issue
	LeafIssues     []Issue
	Procedures     []*core.Procedure
	Nullified      int
	Size           int
}

// GenerateReport runs the lint and collects the optimizer statistics.
func GenerateReport(procs []*core.Procedure) *VerificationReport {
	report := &VerificationReport{
		ProcedureCount: len(procs),
		Procedures:     procs,
	}

	// Run lint
	report.LintIssues = RunLint(procs)

	// Categorize issues
	for _, issue := range report.LintIssues {
		if issue.Type == IssueStruct {
			report.StructIssues = append(report.StructIssues, issue)
		} else {
			report.LeafIssues = append(report.LeafIssues, issue)
		}
	}

	for _, p := range procs {
		report.Size += p.Size()
		for _, insn := range p.Instructions() {
			if insn.IsNullified() {
				report.Nullified++
			}
		}
	}

	return report
}

// WriteReport writes a formatted report to a writer
func (r *VerificationReport) WriteReport(w io.Writer) {
	separator := strings.Repeat("=", 60)
	dash := strings.Repeat("-", 60)

	fmt.Fprintln(w, separator)
	fmt.Fprintln(w, "TRANSLATION VERIFICATION REPORT")
	fmt.Fprintln(w, separator)

	fmt.Fprintf(w, "\n✓ Built %d procedures\n", r.ProcedureCount)
	for _, p := range r.Procedures {
		fmt.Fprintf(w, "  - %s @0x%08x: %d blocks, size %d, leaf %t\n",
			p.Name(), p.Address(), len(p.BasicBlocks()), p.Size(), p.IsLeaf())
	}

	// STAGE 1: LINT
	fmt.Fprintln(w, "\n"+separator)
	fmt.Fprintln(w, "STAGE 1: STATIC LINT CHECKS")
	fmt.Fprintln(w, separator)

	if len(r.LintIssues) == 0 {
		fmt.Fprintln(w, "✓ No lint issues found!")
	} else {
		fmt.Fprintf(w, "⚠ Found %d lint issues:\n", len(r.LintIssues))

		writeIssues(w, "STRUCT", r.StructIssues, dash)
		writeIssues(w, "LEAF", r.LeafIssues, dash)
	}

	// STAGE 2: SUMMARY
	fmt.Fprintln(w, "\n"+separator)
	fmt.Fprintln(w, "VERIFICATION SUMMARY")
	fmt.Fprintln(w, separator)

	fmt.Fprintf(w, "Procedures: %d\n", r.ProcedureCount)
	fmt.Fprintf(w, "Emitted size: %d\n", r.Size)
	fmt.Fprintf(w, "Nullified instructions: %d\n", r.Nullified)
	fmt.Fprintf(w, "Lint Result: %d issues detected (%d STRUCT, %d LEAF)\n",
		len(r.LintIssues), len(r.StructIssues), len(r.LeafIssues))

	fmt.Fprintln(w)
}

func writeIssues(w io.Writer, kind string, issues []Issue, dash string) {
	if len(issues) == 0 {
		return
	}

	fmt.Fprintf(w, "\n%s ISSUES (%d):\n", kind, len(issues))
	fmt.Fprintln(w, dash)
	for _, issue := range issues {
		if issue.Block >= 0 {
			fmt.Fprintf(w, "  [%s block=%d] %s\n", issue.Procedure, issue.Block, issue.Message)
		} else {
			fmt.Fprintf(w, "  [%s] %s\n", issue.Procedure, issue.Message)
		}
	}
}

// SaveReportToFile saves the report to a file
func (r *VerificationReport) SaveReportToFile(filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	defer file.Close()

	r.WriteReport(file)
	return nil
}
