// Package disk contains the mechanical, format-agnostic layer for
// addressing and marshaling the sectors of a FLEX disk image: the
// track/sector <-> linear block bijection and the fixed-size sector
// read/write primitives that the flex package builds on.
package disk

import "fmt"

// SectorSize is the number of bytes in a single FLEX sector.
const SectorSize = 256

// Addr is a track/sector pair.
type Addr struct {
	Track  byte
	Sector byte
}

// GetTrack returns the track of an Addr.
func (a Addr) GetTrack() byte { return a.Track }

// SetTrack sets the track of an Addr.
func (a *Addr) SetTrack(track byte) { a.Track = track }

// GetSector returns the sector of an Addr.
func (a Addr) GetSector() byte { return a.Sector }

// SetSector sets the sector of an Addr.
func (a *Addr) SetSector(sector byte) { a.Sector = sector }

// Geometry describes the track/sector layout of a FLEX image, as
// resolved from its size and the geometry fields in its System
// Information Record. Track 0 may hold fewer sectors than the rest of
// the disk (common on double-density images whose boot track is kept
// single-density), which is why Track0Len is tracked separately from
// a simple NumTracks*SecPerTrack product.
type Geometry struct {
	// NumTracks is the highest track number present (tracks 0..NumTracks).
	NumTracks byte
	// SecPerTrack is the number of sectors on tracks 1..NumTracks.
	SecPerTrack byte
	// Track0Len is the number of sectors on track 0.
	Track0Len int
	// TrailingPartialSectors, when nonzero, is the sector count of one
	// extra, incomplete track (NumTracks+1) appended past the regular
	// grid — the geometry resolver's trailing-partial-track case, for an
	// image holding more sectors than its declared geometry.
	TrailingPartialSectors int
	// Class records which heuristic in the geometry resolver produced
	// this Geometry, for diagnostics.
	Class string
}

// NumBlocks returns the total number of addressable sectors implied by
// the geometry.
func (g Geometry) NumBlocks() int {
	if g.NumTracks == 0 {
		return g.Track0Len
	}
	return g.Track0Len + int(g.NumTracks)*int(g.SecPerTrack) + g.TrailingPartialSectors
}

// AddrToBlock converts a track/sector pair to its 0-based linear block
// index. Track 0 sectors are numbered 0..Track0Len-1; on track t>=1,
// sector s (1-based) lands at Track0Len + (t-1)*SecPerTrack + (s-1).
// Out-of-range track/sector pairs are returned as errors, never
// clamped or wrapped.
func (g Geometry) AddrToBlock(a Addr) (int, error) {
	if a.Track == 0 {
		if a.Sector == 0 || int(a.Sector) > g.Track0Len {
			return 0, fmt.Errorf("track 0 sector %d out of range (track 0 has %d sectors)", a.Sector, g.Track0Len)
		}
		return int(a.Sector) - 1, nil
	}
	if int(a.Track) == int(g.NumTracks)+1 && g.TrailingPartialSectors > 0 {
		if a.Sector == 0 || int(a.Sector) > g.TrailingPartialSectors {
			return 0, fmt.Errorf("trailing track %d sector %d out of range (has %d sectors)", a.Track, a.Sector, g.TrailingPartialSectors)
		}
		return g.Track0Len + int(g.NumTracks)*int(g.SecPerTrack) + int(a.Sector) - 1, nil
	}
	if a.Track > g.NumTracks {
		return 0, fmt.Errorf("track %d out of range (disk has %d tracks)", a.Track, g.NumTracks)
	}
	if a.Sector == 0 || a.Sector > g.SecPerTrack {
		return 0, fmt.Errorf("sector %d out of range on track %d (track has %d sectors)", a.Sector, a.Track, g.SecPerTrack)
	}
	return g.Track0Len + (int(a.Track)-1)*int(g.SecPerTrack) + int(a.Sector) - 1, nil
}

// BlockToAddr converts a 0-based linear block index back to a
// track/sector pair.
func (g Geometry) BlockToAddr(block int) (Addr, error) {
	if block < 0 || block >= g.NumBlocks() {
		return Addr{}, fmt.Errorf("block %d out of range (disk has %d blocks)", block, g.NumBlocks())
	}
	if block < g.Track0Len {
		return Addr{Track: 0, Sector: byte(block + 1)}, nil
	}
	rem := block - g.Track0Len
	regular := int(g.NumTracks) * int(g.SecPerTrack)
	if rem >= regular {
		return Addr{Track: g.NumTracks + 1, Sector: byte(rem-regular) + 1}, nil
	}
	track := byte(rem/int(g.SecPerTrack)) + 1
	sector := byte(rem%int(g.SecPerTrack)) + 1
	return Addr{Track: track, Sector: sector}, nil
}
