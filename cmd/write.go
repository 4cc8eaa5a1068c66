package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/alecthomas/kong"
	"github.com/spf13/cobra"

	"github.com/mjwurtz/flexgo/diag"
	"github.com/mjwurtz/flexgo/flex"
	"github.com/mjwurtz/flexgo/helpers"
)

// WriteCmd is a kong-tagged argument struct for the write command,
// mirroring ExtractCmd's kong/cobra split.
type WriteCmd struct {
	Delete bool `kong:"short='d',help='Delete FileName instead of writing it.'"`

	DiskImage  string `kong:"arg,required,help='FLEX disk image to modify, in place.'"`
	FileName   string `kong:"arg,required,help='Name of the file to write or delete.'"`
	SourceFile string `kong:"arg,optional,help='Host file whose contents to write (omit with -d).'"`
}

func (w *WriteCmd) Run() error {
	if w.Delete && w.SourceFile != "" {
		return fmt.Errorf("usage: write -d <disk-image> <file-name>")
	}
	if !w.Delete && w.SourceFile == "" {
		return fmt.Errorf("usage: write <disk-image> <file-name> <source-file>")
	}

	data, err := helpers.FileContentsOrStdIn(w.DiskImage)
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

	if w.Delete {
		if err := flex.DeleteFile(img, w.FileName); err != nil {
			return fmt.Errorf("delete %q: %w", w.FileName, err)
		}
	} else {
		contents, err := helpers.FileContentsOrStdIn(w.SourceFile)
		if err != nil {
			return err
		}
		if err := flex.InsertFile(img, w.FileName, contents, time.Now()); err != nil {
			return fmt.Errorf("write %q: %w", w.FileName, err)
		}
	}

	if w.DiskImage == "-" {
		_, err := os.Stdout.Write(img.Flush())
		return err
	}
	return helpers.WriteOutput(w.DiskImage, img.Flush(), true)
}

var writeCmd = &cobra.Command{
	Use:   "write <disk-image> <file-name> [<source-file>]",
	Short: "write a file into a FLEX disk image, or delete one with -d",
	Long: `Write inserts the contents of <source-file> into a FLEX disk
image under <file-name>, claiming free sectors and a directory slot.
With -d, it instead deletes <file-name> from the image (the original
flwrite/fldel dual-purpose tool's two modes, selected here by a flag
instead of a second binary name).

The disk image is modified in place.
`,
	Args:               cobra.ArbitraryArgs,
	DisableFlagParsing: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runWrite(args)
	},
}

func init() {
	RootCmd.AddCommand(writeCmd)
}

func runWrite(args []string) error {
	var cli WriteCmd
	parser, err := kong.New(&cli, kong.Name("write"))
	if err != nil {
		return err
	}
	if _, err := parser.Parse(args); err != nil {
		return err
	}
	return cli.Run()
}
