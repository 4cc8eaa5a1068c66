// Package textpack converts between Unix text files and the packed
// text format FLEX text editors expect: runs of spaces compressed into
// a tab-plus-count pair, trailing spaces dropped, lines terminated with
// a bare CR instead of LF.
package textpack

import (
	"bufio"
	"fmt"
	"io"
)

// DefaultTabstop is the tab-stop width used when a caller doesn't
// request a specific one.
const DefaultTabstop = 4

// Pack reads Unix text from r and writes FLEX-packed text to w:
// newlines become a bare CR, runs of two or fewer pending spaces are
// written literally, and longer runs (including those produced by
// tab expansion at the given tabstop) are written as a single 0x09
// byte followed by a count byte holding the run length; a run longer
// than 127 is an error. Trailing spaces before a newline or at end of
// input are dropped, matching the reference packer.
func Pack(r io.Reader, w io.Writer, tabstop int) error {
	if tabstop <= 0 {
		tabstop = DefaultTabstop
	}
	br := bufio.NewReader(r)
	bw := bufio.NewWriter(w)

	lineLength := 0
	nspace := 0
	for {
		b, err := br.ReadByte()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		switch {
		case b == ' ':
			nspace++
			lineLength++
		case b == '\t':
			n := tabstop - (lineLength % tabstop)
			nspace += n
			lineLength += n
		case b == '\n':
			nspace = 0
			lineLength = 0
			if err := bw.WriteByte('\r'); err != nil {
				return err
			}
		default:
			if err := flushSpaces(bw, nspace); err != nil {
				return err
			}
			nspace = 0
			if err := bw.WriteByte(b); err != nil {
				return err
			}
			lineLength++
		}
	}
	return bw.Flush()
}

// flushSpaces writes n pending spaces, literally for n<=2 and as a
// tab-plus-count pair otherwise.
func flushSpaces(w *bufio.Writer, n int) error {
	switch {
	case n == 0:
		return nil
	case n == 1:
		return w.WriteByte(' ')
	case n == 2:
		if err := w.WriteByte(' '); err != nil {
			return err
		}
		return w.WriteByte(' ')
	default:
		if n > 127 {
			return fmt.Errorf("space run of %d exceeds the 7-bit count this format can encode", n)
		}
		if err := w.WriteByte('\t'); err != nil {
			return err
		}
		return w.WriteByte(byte(n & 0x7f))
	}
}

// Unpack reads FLEX-packed text from r and writes Unix text to w: a
// bare CR becomes a newline, a 0x09 byte is followed by a count byte
// that expands to that many literal spaces, and NUL bytes are
// dropped.
func Unpack(r io.Reader, w io.Writer) error {
	br := bufio.NewReader(r)
	bw := bufio.NewWriter(w)

	expectCount := false
	for {
		b, err := br.ReadByte()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		if expectCount {
			for n := int(b); n > 0; n-- {
				if err := bw.WriteByte(' '); err != nil {
					return err
				}
			}
			expectCount = false
			continue
		}
		switch b {
		case '\t':
			expectCount = true
		case '\r':
			if err := bw.WriteByte('\n'); err != nil {
				return err
			}
		case 0:
			// dropped
		default:
			if err := bw.WriteByte(b); err != nil {
				return err
			}
		}
	}
	return bw.Flush()
}
