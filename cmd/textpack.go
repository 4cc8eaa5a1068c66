package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/mjwurtz/flexgo/textpack"
)

var textpackTabstop int
var textpackOutput string
var textpackForce bool

var textpackCmd = &cobra.Command{
	Use:   "textpack <source-file>",
	Short: "pack a Unix text file into FLEX's CR-terminated, space-run-encoded form",
	Long: `Textpack converts line endings from LF to CR, strips trailing
whitespace, and collapses runs of leading spaces (tabs included, once
expanded to the given tabstop) into FLEX's TAB-plus-count encoding.
`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTextpack(args)
	},
}

func init() {
	RootCmd.AddCommand(textpackCmd)
	textpackCmd.Flags().IntVarP(&textpackTabstop, "tabstop", "t", textpack.DefaultTabstop, "tab stop width")
	textpackCmd.Flags().StringVarP(&textpackOutput, "output", "b", "-", "output file (- for stdout)")
	textpackCmd.Flags().BoolVarP(&textpackForce, "force", "f", false, "overwrite the output file if it exists")
}

func runTextpack(args []string) error {
	in, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer in.Close()

	out, closeOut, err := openOutput(textpackOutput, textpackForce)
	if err != nil {
		return err
	}
	defer closeOut()

	return textpack.Pack(in, out, textpackTabstop)
}
