// Package verify provides static checks over built procedures.
//
// The lint re-derives the partition rules from the instructions and reports
// every place where a procedure disagrees with them:
//
//   - STRUCT checks: no empty blocks, a branch ends its block, a branch
//     destination other than the entry starts one, the blocks hold exactly
//     the procedure's instructions in address order, and every instruction
//     is owned by the procedure.
//   - LEAF checks: a procedure is a leaf exactly when none of its
//     instructions is a call.
//
// # Usage Example
//
//	prog, err := core.LoadProgramFileFromYAML("prog.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	procs := prog.Build(core.NewProcedureBuilder())
//
//	report := verify.GenerateReport(procs)
//	report.WriteReport(os.Stdout)
//	if len(report.LintIssues) > 0 {
//	    atexit.Exit(1)
//	}
package verify

// IssueType categorizes lint issues
type IssueType string

const (
	IssueStruct IssueType = "STRUCT" // Block structure or ownership error
	IssueLeaf   IssueType = "LEAF"   // Leafness disagrees with the calls
)

// Issue represents a single lint issue
type Issue struct {
	Type      IssueType              // STRUCT or LEAF
	Procedure string                 // Name of the procedure
	Block     int                    // Block index or -1
	Address   uint32                 // Instruction address, 0 if not applicable
	Message   string                 // Human-readable description
	Details   map[string]interface{} // Additional structured data
}
