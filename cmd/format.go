package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/mjwurtz/flexgo/flex"
	"github.com/mjwurtz/flexgo/helpers"
)

var formatLabel string
var formatVolume int
var formatTracks int
var formatSectors int
var formatTrack0Len int
var formatForce bool

var formatCmd = &cobra.Command{
	Use:   "format <output-image>",
	Short: "create a blank FLEX disk image",
	Long: `Format writes a new FLEX disk image: two zero boot sectors, a
System Information Record, an empty directory chain filling the rest
of track 0, and a single ascending free chain over the data tracks.
`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runFormat(args)
	},
}

func init() {
	RootCmd.AddCommand(formatCmd)
	formatCmd.Flags().StringVarP(&formatLabel, "label", "a", "UNNAMED", "volume label")
	formatCmd.Flags().IntVarP(&formatVolume, "volume", "v", 1, "volume number")
	formatCmd.Flags().IntVar(&formatTracks, "tracks", 35, "highest track number")
	formatCmd.Flags().IntVar(&formatSectors, "sectors", 10, "sectors per track (tracks 1..tracks)")
	formatCmd.Flags().IntVar(&formatTrack0Len, "track0-sectors", 10, "sectors on track 0")
	formatCmd.Flags().BoolVarP(&formatForce, "force", "f", false, "overwrite the output file if it exists")
}

func runFormat(args []string) error {
	img, err := flex.Format(formatLabel, uint16(formatVolume), byte(formatTracks), byte(formatSectors), formatTrack0Len, time.Now())
	if err != nil {
		return err
	}
	return helpers.WriteOutput(args[0], img.Flush(), formatForce)
}
