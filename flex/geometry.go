// Package flex implements the FLEX disk-image sector-graph engine:
// geometry resolution, sector addressing, the name codec, the
// ownership-map parser, the validator, and the freelist-repair,
// file-insertion and file-deletion transforms.
package flex

import (
	"fmt"

	"github.com/mjwurtz/flexgo/disk"
)

// Geometry classes, recorded on the resolved disk.Geometry for
// diagnostics and surfaced as a GeometryUnusual finding when they
// represent a guess rather than an exact match.
const (
	ClassSingleDensity    = "single-density"
	ClassDoubleDensityDD0 = "double-density-reduced-track0"
	ClassTrailingPartial  = "trailing-partial-track"
	ClassReducedUnusual   = "reduced-unusual"
)

// ResolveGeometry infers a disk.Geometry from the physical sector
// count of an image and the (highest-track, sectors-per-track) pair
// declared in its System Information Record. FLEX images don't carry
// an unambiguous geometry descriptor: the SIR's declared geometry and
// the image's actual size can disagree (most commonly when track 0 is
// kept single-density on an otherwise double-density disk), so this
// resolver works through the same set of heuristics, in priority
// order, that the reference analyser uses.
//
// sirNbtrk is the SIR's highest-track byte; total tracks on a clean
// single-density disk is sirNbtrk+1 (track 0 plus tracks 1..sirNbtrk).
func ResolveGeometry(totalSectors int, sirNbtrk, sirNbsec byte) (disk.Geometry, bool, error) {
	if sirNbsec == 0 {
		return disk.Geometry{}, false, fmt.Errorf("SIR declares zero sectors per track")
	}
	nbtrk := int(sirNbtrk)
	nbsec := int(sirNbsec)

	// Case 1: exact single-density match.
	if (nbtrk+1)*nbsec == totalSectors {
		return disk.Geometry{
			NumTracks:   byte(nbtrk),
			SecPerTrack: byte(nbsec),
			Track0Len:   nbsec,
			Class:       ClassSingleDensity,
		}, false, nil
	}

	track0l := totalSectors - nbtrk*nbsec

	// Case 2: double-density disk with a reduced single-density track 0.
	if (nbsec >= 36 && track0l == 20) ||
		(nbsec == 18 && track0l == 10) ||
		(track0l == nbsec/2) {
		return disk.Geometry{
			NumTracks:   byte(nbtrk),
			SecPerTrack: byte(nbsec),
			Track0Len:   track0l,
			Class:       ClassDoubleDensityDD0,
		}, false, nil
	}

	// Case 3: track 0 looks too long for the declared geometry to
	// divide the rest of the disk evenly — treat it as a normal track 0
	// plus one extra, incomplete trailing track.
	if track0l > nbsec {
		newTrack0l := nbsec
		newNbtrk := nbtrk + 1
		trailing := totalSectors - (newNbtrk-1)*nbsec - newTrack0l
		if trailing < 0 {
			trailing = 0
		}
		return disk.Geometry{
			NumTracks:              byte(nbtrk),
			SecPerTrack:            byte(nbsec),
			Track0Len:              newTrack0l,
			TrailingPartialSectors: trailing,
			Class:                  ClassTrailingPartial,
		}, true, nil
	}

	// Case 4: same reduced-track0 double-density guess, narrower band.
	if track0l > nbsec/2 && track0l < nbsec {
		return disk.Geometry{
			NumTracks:   byte(nbtrk),
			SecPerTrack: byte(nbsec),
			Track0Len:   track0l,
			Class:       ClassDoubleDensityDD0,
		}, false, nil
	}

	// Case 5: the image is smaller than the declared geometry implies —
	// shrink the track count until it fits, and take the best guess at
	// what's left over for track 0. This is the fallback "disk image
	// too small... unusual geometry or truncated" path and is always
	// reported as unusual.
	reducedNbtrk := nbtrk - ((nbtrk*nbsec-totalSectors)/nbsec + 1)
	if reducedNbtrk < 0 {
		reducedNbtrk = 0
	}
	var reducedTrack0l int
	if nbsec < 25 {
		reducedTrack0l = nbsec
	} else {
		reducedTrack0l = totalSectors - reducedNbtrk*nbsec
	}
	if reducedTrack0l < 0 {
		reducedTrack0l = 0
	}
	return disk.Geometry{
		NumTracks:   byte(reducedNbtrk),
		SecPerTrack: byte(nbsec),
		Track0Len:   reducedTrack0l,
		Class:       ClassReducedUnusual,
	}, true, nil
}
