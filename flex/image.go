package flex

import (
	"fmt"

	"github.com/mjwurtz/flexgo/diag"
	"github.com/mjwurtz/flexgo/disk"
)

// State is the lifecycle stage of a loaded Image. Mutating operations
// (Repair, InsertFile, DeleteFile) require the image to have been
// Validated, and refuse to run if validation found data-loss-severity
// problems.
type State int

const (
	// Loaded means the image bytes have been read and its geometry
	// resolved, but Validate has not yet run.
	Loaded State = iota
	// Validated means Validate has run and produced a diag.Report.
	Validated
	// Flushed means the in-memory image has been written back out.
	Flushed
)

// Image is an in-memory FLEX disk image together with its resolved
// geometry, parsed System Information Record, and validation state.
type Image struct {
	Data     []byte
	Geometry disk.Geometry
	SIR      *SystemInformationRecord

	// GeometryUnusual is true when the geometry resolver had to fall
	// back to a guess rather than matching a known layout exactly.
	GeometryUnusual bool

	State State

	// set by Validate; consulted by the mutating operations.
	lastMap    *OwnershipMap
	lastDirs   []dirSlot
	lastReport *diag.Report
}

// Load reads a FLEX image from raw bytes: it resolves geometry from
// the image's size and its System Information Record, and fails with
// a descriptive error (naming the best guess at the image's actual
// filesystem) if the image doesn't look like FLEX at all.
func Load(data []byte) (*Image, error) {
	if len(data) < disk.SectorSize*(SIRBlock+1) {
		return nil, fmt.Errorf("image too small (%d bytes) to contain a System Information Record", len(data))
	}
	totalSectors := len(data) / disk.SectorSize

	sirBytes, err := disk.ReadBlock(data, SIRBlock)
	if err != nil {
		return nil, err
	}
	sir := &SystemInformationRecord{}
	if err := sir.FromSector(sirBytes); err != nil {
		return nil, err
	}

	if !sir.LooksLikeFlex() {
		guess := detectNonFlex(data, totalSectors)
		return nil, &NotFlexError{Guess: guess}
	}

	if int(sir.FreeCount) > int(sir.HighestTrack)*int(sir.SectorsPerTrack) {
		return nil, &NotFlexError{Guess: GuessUnknown, Reason: "SIR free-sector count exceeds declared disk size"}
	}

	geometry, unusual, err := ResolveGeometry(totalSectors, sir.HighestTrack, sir.SectorsPerTrack)
	if err != nil {
		return nil, err
	}

	sirAddr, err := geometry.BlockToAddr(SIRBlock)
	if err != nil {
		return nil, err
	}
	sir.SetTrack(sirAddr.Track)
	sir.SetSector(sirAddr.Sector)

	return &Image{
		Data:            data,
		Geometry:        geometry,
		SIR:             sir,
		GeometryUnusual: unusual,
		State:           Loaded,
	}, nil
}

// NotFlexError is returned by Load when an image fails the FLEX
// fingerprint check.
type NotFlexError struct {
	Guess  NonFlexGuess
	Reason string
}

func (e *NotFlexError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("not a FLEX disk image: %s", e.Reason)
	}
	switch e.Guess {
	case GuessOS9:
		return "not a FLEX disk image: looks like an OS-9 disk"
	case GuessUniFLEX:
		return "not a FLEX disk image: looks like a UniFLEX disk"
	case GuessSWTPCDOS:
		return "not a FLEX disk image: looks like an SWTPC 6800 FDOS disk (35 tracks of 10 sectors)"
	default:
		return "not a FLEX disk image: unknown disk image type"
	}
}

// ExitCode lets callers map a Load failure onto the same process exit
// codes diag.Severity uses: a disk that isn't FLEX at all exits the
// same way a NotFlex-severity analysis report would.
func (e *NotFlexError) ExitCode() int {
	return diag.NotFlex.ExitCode()
}

// Flush returns the image's current byte contents, suitable for
// writing back to disk. FLEX images are mutated in place, so Flush
// never fails; it exists to mark the Image Flushed and to give callers
// a single place to hang I/O around.
func (img *Image) Flush() []byte {
	img.State = Flushed
	return img.Data
}
