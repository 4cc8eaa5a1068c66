package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/mjwurtz/flexgo/s19cmd"
)

var s19tocmdOutput string
var s19tocmdForce bool

var s19tocmdCmd = &cobra.Command{
	Use:   "s19tocmd <source-file>",
	Short: "convert a Motorola S-record file into a FLEX .CMD loader file",
	Long: `S19tocmd reads a Motorola S-record (S19) object file and writes
the equivalent FLEX .CMD file: contiguous data records become
(0x02, hi, lo, len, ...) chunks, and the end record becomes a
(0x16, hi, lo) transfer-address trailer.
`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runS19toCmd(args)
	},
}

func init() {
	RootCmd.AddCommand(s19tocmdCmd)
	s19tocmdCmd.Flags().StringVarP(&s19tocmdOutput, "output", "b", "-", "output file (- for stdout)")
	s19tocmdCmd.Flags().BoolVarP(&s19tocmdForce, "force", "f", false, "overwrite the output file if it exists")
}

func runS19toCmd(args []string) error {
	in, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer in.Close()

	out, closeOut, err := openOutput(s19tocmdOutput, s19tocmdForce)
	if err != nil {
		return err
	}
	defer closeOut()

	return s19cmd.Convert(in, out)
}
