package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mjwurtz/flexgo/diag"
	"github.com/mjwurtz/flexgo/flex"
	"github.com/mjwurtz/flexgo/helpers"
)

var analyseVerbose bool
var analyseQuiet bool

// severityError wraps a diag.Report so its Severity can drive the
// process exit code the same way the original flan's return value did.
type severityError struct {
	report *diag.Report
}

func (e *severityError) Error() string {
	return fmt.Sprintf("analysis found %s-severity problems", e.report.Severity())
}

func (e *severityError) ExitCode() int {
	return e.report.Severity().ExitCode()
}

var analyseCmd = &cobra.Command{
	Use:   "analyse <disk-image>",
	Short: "check a FLEX disk image's internal consistency",
	Long: `Analyse parses a FLEX disk image's freelist, directory, and file
chains, reporting every inconsistency it finds. The process exit code
is the highest severity among the findings: 0 clean, 1 warning, 2
data-loss, 3 not a FLEX image at all.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAnalyse(args)
	},
}

func init() {
	RootCmd.AddCommand(analyseCmd)
	analyseCmd.Flags().BoolVarP(&analyseVerbose, "verbose", "v", false, "list every finding, not just a summary")
	analyseCmd.Flags().BoolVarP(&analyseQuiet, "quiet", "q", false, "print nothing but the exit code")
}

func runAnalyse(args []string) error {
	data, err := helpers.FileContentsOrStdIn(args[0])
	if err != nil {
		return err
	}
	img, err := flex.Load(data)
	if err != nil {
		return err
	}
	report, err := flex.Validate(img)
	if err != nil {
		return err
	}

	if !analyseQuiet {
		printReport(os.Stdout, report, analyseVerbose)
	}

	if report.Severity() > diag.Clean {
		return &severityError{report: report}
	}
	return nil
}

func printReport(w *os.File, report *diag.Report, verbose bool) {
	fmt.Fprintf(w, "severity: %s\n", report.Severity())
	if len(report.Findings) == 0 {
		fmt.Fprintln(w, "no problems found")
		return
	}
	if !verbose {
		counts := map[diag.Kind]int{}
		for _, f := range report.Findings {
			counts[f.Kind]++
		}
		for kind, n := range counts {
			fmt.Fprintf(w, "%s: %d\n", kind, n)
		}
		return
	}
	fmt.Fprintf(w, "%d finding(s):\n", len(report.Findings))
	for _, f := range report.Findings {
		fmt.Fprintln(w, f.String())
	}
}
