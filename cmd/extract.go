package cmd

import (
	"fmt"

	"github.com/alecthomas/kong"
	"github.com/spf13/cobra"

	"github.com/mjwurtz/flexgo/diag"
	"github.com/mjwurtz/flexgo/flex"
	"github.com/mjwurtz/flexgo/helpers"
)

// ExtractCmd is a kong-tagged argument struct for the extract command,
// parsed independently of cobra's own flag set the way the teacher's
// ReorderCmd/FiletypesCmd structs were — cobra owns registration and
// top-level help, kong owns this command's own argument grammar.
type ExtractCmd struct {
	Force   bool `kong:"short='f',help='Overwrite the output file if it exists.'"`
	Recover bool `kong:"short='r',help='Also look among deleted-but-recoverable entries.'"`

	DiskImage  string `kong:"arg,required,help='FLEX disk image to read.'"`
	FileName   string `kong:"arg,required,help='Name of the file to extract.'"`
	OutputFile string `kong:"arg,required,help='Where to write the extracted contents (- for stdout).'"`
}

func (e *ExtractCmd) Run() error {
	data, err := helpers.FileContentsOrStdIn(e.DiskImage)
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
	if report.Severity() > diag.Warning {
		return &severityError{report: report}
	}

	contents, err := flex.ReadFile(img, e.FileName, e.Recover)
	if err != nil {
		return fmt.Errorf("extract %q: %w", e.FileName, err)
	}
	return helpers.WriteOutput(e.OutputFile, contents, e.Force)
}

var extractCmd = &cobra.Command{
	Use:   "extract <disk-image> <file-name> <output-file>",
	Short: "extract a file's raw contents from a FLEX disk image",
	Long: `Extract reads a single named file out of a FLEX disk image and
writes its raw sector contents to an output file (or stdout, with "-").
`,
	Args:               cobra.ArbitraryArgs,
	DisableFlagParsing: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runExtract(args)
	},
}

func init() {
	RootCmd.AddCommand(extractCmd)
}

func runExtract(args []string) error {
	var cli ExtractCmd
	parser, err := kong.New(&cli, kong.Name("extract"))
	if err != nil {
		return err
	}
	if _, err := parser.Parse(args); err != nil {
		return err
	}
	return cli.Run()
}
