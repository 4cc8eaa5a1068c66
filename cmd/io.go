package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// openOutput opens filename for writing, or returns os.Stdout for "-".
// It refuses to overwrite an existing file unless force is set, the
// same convention helpers.WriteOutput uses for whole-buffer writes.
// The returned close function is always safe to call, even for stdout.
func openOutput(filename string, force bool) (*os.File, func() error, error) {
	if filename == "-" {
		return os.Stdout, func() error { return nil }, nil
	}
	if !force {
		if _, err := os.Stat(filename); !errors.Is(err, fs.ErrNotExist) {
			return nil, nil, fmt.Errorf("cannot overwrite file %q without --force (-f)", filename)
		}
	}
	f, err := os.OpenFile(filename, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0666)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}
