// Package diag carries the findings produced by the flex package's
// validator through to the command-line layer: a severity level and a
// list of named, located findings.
package diag

import "fmt"

// Severity is the overall health of an image, in ascending order of
// badness. The validator reports the highest severity among all of
// its findings.
type Severity int

const (
	// Clean means the image is internally consistent.
	Clean Severity = iota
	// Warning means fixable problems were found (freelist corruption,
	// bad names, geometry that's unusual but still navigable).
	Warning
	// DataLoss means problems were found that repair cannot fix without
	// losing data (overlapping files, broken chains).
	DataLoss
	// NotFlex means the image doesn't look like a FLEX filesystem at all.
	NotFlex
)

// String renders a Severity for diagnostics and exit-code messages.
func (s Severity) String() string {
	switch s {
	case Clean:
		return "clean"
	case Warning:
		return "warning"
	case DataLoss:
		return "data-loss"
	case NotFlex:
		return "not-flex"
	default:
		return fmt.Sprintf("Severity(%d)", int(s))
	}
}

// ExitCode maps a Severity to the process exit code used by the
// analyse command.
func (s Severity) ExitCode() int {
	return int(s)
}

// Kind names a specific category of finding.
type Kind string

// The error kinds the validator can report.
const (
	KindFreelistDuplicate      Kind = "freelist-duplicate"
	KindFreelistLengthMismatch Kind = "freelist-length-mismatch"
	KindDirectoryLoop          Kind = "directory-loop"
	KindDirFreeOverlap         Kind = "dir-free-overlap"
	KindFileFreeOverlap        Kind = "file-free-overlap"
	KindFileDirOverlap         Kind = "file-dir-overlap"
	KindFileFileOverlap        Kind = "file-file-overlap"
	KindFileLengthMismatch     Kind = "file-length-mismatch"
	KindBadName                Kind = "bad-name"
	KindReservedMisclassified  Kind = "reserved-misclassified"
	KindUnclaimedSectors       Kind = "unclaimed-sectors"
	KindGeometryUnusual        Kind = "geometry-unusual"
	KindAddressing             Kind = "addressing"
	KindNotFlex                Kind = "not-flex"
	KindDirectoryOverflow      Kind = "directory-overflow"
)

// severityOf gives each Kind its intrinsic severity, per the error
// table. Some kinds (BadName, GeometryUnusual) are warnings; loss of
// file or directory integrity is always data-loss; a foreign
// filesystem is always NotFlex.
var severityOf = map[Kind]Severity{
	KindFreelistDuplicate:      Warning,
	KindFreelistLengthMismatch: Warning,
	KindDirectoryLoop:          DataLoss,
	KindDirFreeOverlap:         Warning,
	KindFileFreeOverlap:        Warning,
	KindFileDirOverlap:         DataLoss,
	KindFileFileOverlap:        DataLoss,
	KindFileLengthMismatch:     DataLoss,
	KindBadName:                Warning,
	KindReservedMisclassified:  Warning,
	KindUnclaimedSectors:       Warning,
	KindGeometryUnusual:        Warning,
	KindAddressing:             DataLoss,
	KindNotFlex:                NotFlex,
	KindDirectoryOverflow:      DataLoss,
}

// Finding is a single diagnostic produced while parsing or validating
// an image.
type Finding struct {
	Kind    Kind
	Block   int // linear block number the finding concerns, or -1
	Message string
}

// Severity returns the intrinsic severity of the finding's Kind.
func (f Finding) Severity() Severity {
	if sev, ok := severityOf[f.Kind]; ok {
		return sev
	}
	return DataLoss
}

// String renders a Finding for display.
func (f Finding) String() string {
	if f.Block >= 0 {
		return fmt.Sprintf("[%s] block %d: %s", f.Kind, f.Block, f.Message)
	}
	return fmt.Sprintf("[%s] %s", f.Kind, f.Message)
}

// Report collects the findings from validating an image.
type Report struct {
	Findings []Finding
}

// Add appends a finding to the report.
func (r *Report) Add(kind Kind, block int, format string, args ...interface{}) {
	r.Findings = append(r.Findings, Finding{
		Kind:    kind,
		Block:   block,
		Message: fmt.Sprintf(format, args...),
	})
}

// Severity returns the highest severity among all findings, or Clean
// if there are none.
func (r *Report) Severity() Severity {
	sev := Clean
	for _, f := range r.Findings {
		if s := f.Severity(); s > sev {
			sev = s
		}
	}
	return sev
}

// Of returns the findings of a given Kind.
func (r *Report) Of(kind Kind) []Finding {
	var out []Finding
	for _, f := range r.Findings {
		if f.Kind == kind {
			out = append(out, f)
		}
	}
	return out
}
