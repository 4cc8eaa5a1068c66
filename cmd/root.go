// Copyright © 2016 Zellyn Hunter <zellyn@gmail.com>

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "flexgo",
	Short: "Operate on FLEX disk images and their contents",
	Long: `flexgo is a commandline tool for working with FLEX disk
images: 6800/6809 microcomputer floppy images with a linked-sector
filesystem.

It can analyse an image's internal consistency, extract or write
files, pack/unpack text files for FLEX's CR-terminated-line
convention, and convert Motorola S-record object files into FLEX .CMD
loader files. None of its commands repairs a damaged freelist or
directory.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// exitCoder is implemented by errors that know which process exit code
// they should produce, beyond the default of 1. diag.Severity's own
// 0/1/2/3 scale (Clean/Warning/DataLoss/NotFlex) is threaded through
// this interface by severityError and flex.NotFlexError.
type exitCoder interface {
	ExitCode() int
}

// Execute adds all child commands to the root command sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		code := 1
		if ec, ok := err.(exitCoder); ok {
			code = ec.ExitCode()
		}
		os.Exit(code)
	}
}
