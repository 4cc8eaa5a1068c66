package flex

import (
	"fmt"
	"time"

	"github.com/mjwurtz/flexgo/disk"
)

// Format builds a blank FLEX image: two zero boot sectors, a System
// Information Record, an empty directory chain filling the rest of
// track 0, and a single free chain over every remaining sector.
// numTracks is the highest track number (tracks 1..numTracks exist
// besides track 0); track0Len is the sector count of track 0, which
// must be at least 5 (boot, boot, SIR, reserved, and at least one
// directory sector).
func Format(label string, volumeNumber uint16, numTracks, secPerTrack byte, track0Len int, created time.Time) (*Image, error) {
	if track0Len < DirectoryStartBlock+1 {
		return nil, fmt.Errorf("track 0 must hold at least %d sectors, got %d", DirectoryStartBlock+1, track0Len)
	}
	if numTracks == 0 || secPerTrack == 0 {
		return nil, fmt.Errorf("track and sector-per-track counts must be nonzero")
	}

	g := disk.Geometry{
		NumTracks:   numTracks,
		SecPerTrack: secPerTrack,
		Track0Len:   track0Len,
		Class:       ClassSingleDensity,
	}
	data := make([]byte, g.NumBlocks()*disk.SectorSize)

	if err := formatDirectory(data, g); err != nil {
		return nil, err
	}
	if err := formatFreeChain(data, g); err != nil {
		return nil, err
	}

	labelRaw, err := EncodeName(label, false)
	if err != nil {
		return nil, err
	}

	sir := &SystemInformationRecord{
		Label:           labelRaw,
		VolumeNumber:    volumeNumber,
		FreeHeadTrack:   1,
		FreeHeadSector:  1,
		FreeTailTrack:   numTracks,
		FreeTailSector:  secPerTrack,
		FreeCount:       uint16(numTracks) * uint16(secPerTrack),
		CreatedMonth:    byte(created.Month()),
		CreatedDay:      byte(created.Day()),
		CreatedYear:     encodeYear(created.Year()),
		HighestTrack:    numTracks,
		SectorsPerTrack: secPerTrack,
	}
	sirAddr, err := g.BlockToAddr(SIRBlock)
	if err != nil {
		return nil, err
	}
	sir.SetTrack(sirAddr.Track)
	sir.SetSector(sirAddr.Sector)
	if err := disk.MarshalSector(data, g, sir); err != nil {
		return nil, err
	}

	return &Image{
		Data:     data,
		Geometry: g,
		SIR:      sir,
		State:    Loaded,
	}, nil
}

// formatDirectory writes an empty directory chain over track 0 sectors
// DirectoryStartBlock+1..track0Len, each sector linking to the next
// and the last terminating with (0,0).
func formatDirectory(data []byte, g disk.Geometry) error {
	var ds DirectorySector
	for block := DirectoryStartBlock; block < g.Track0Len; block++ {
		if block == g.Track0Len-1 {
			ds.NextTrack, ds.NextSec = 0, 0
		} else {
			addr, err := g.BlockToAddr(block + 1)
			if err != nil {
				return err
			}
			ds.NextTrack, ds.NextSec = addr.Track, addr.Sector
		}
		ds.Entries = [EntriesPerSector]DirEntry{}
		if err := disk.MarshalBlock(data, g, ds, block); err != nil {
			return err
		}
	}
	return nil
}

// formatFreeChain writes a single ascending free chain over every
// sector on tracks 1..NumTracks, track 0's reserved/directory area
// excluded.
func formatFreeChain(data []byte, g disk.Geometry) error {
	for track := byte(1); track <= g.NumTracks; track++ {
		for sector := byte(1); sector <= g.SecPerTrack; sector++ {
			var next disk.Addr
			if sector < g.SecPerTrack {
				next = disk.Addr{Track: track, Sector: sector + 1}
			} else if track < g.NumTracks {
				next = disk.Addr{Track: track + 1, Sector: 1}
			}
			block, err := g.AddrToBlock(disk.Addr{Track: track, Sector: sector})
			if err != nil {
				return err
			}
			sectorBytes, err := disk.ReadBlock(data, block)
			if err != nil {
				return err
			}
			sectorBytes[0], sectorBytes[1] = next.Track, next.Sector
			if err := disk.WriteBlock(data, block, sectorBytes); err != nil {
				return err
			}
		}
	}
	return nil
}
