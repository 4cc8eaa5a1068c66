package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/mjwurtz/flexgo/textpack"
)

var textunpackOutput string
var textunpackForce bool

var textunpackCmd = &cobra.Command{
	Use:   "textunpack <source-file>",
	Short: "unpack a FLEX text file back into plain Unix text",
	Long: `Textunpack is the inverse of textpack: CR becomes LF, the
TAB-plus-count space-run encoding is expanded back into literal spaces,
and embedded NUL bytes are dropped.
`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTextunpack(args)
	},
}

func init() {
	RootCmd.AddCommand(textunpackCmd)
	textunpackCmd.Flags().StringVarP(&textunpackOutput, "output", "b", "-", "output file (- for stdout)")
	textunpackCmd.Flags().BoolVarP(&textunpackForce, "force", "f", false, "overwrite the output file if it exists")
}

func runTextunpack(args []string) error {
	in, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer in.Close()

	out, closeOut, err := openOutput(textunpackOutput, textunpackForce)
	if err != nil {
		return err
	}
	defer closeOut()

	return textpack.Unpack(in, out)
}
