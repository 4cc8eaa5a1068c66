// marshal.go contains helpers for marshaling sector structs to/from a
// disk image, addressed either by track/sector or by linear block
// number.

package disk

import "fmt"

// SectorSource is the interface for types that can marshal to sectors.
type SectorSource interface {
	// ToSector marshals the sector struct to exactly SectorSize bytes.
	ToSector() ([]byte, error)
	// GetTrack returns the track that a sector struct was loaded from.
	GetTrack() byte
	// GetSector returns the sector that a sector struct was loaded from.
	GetSector() byte
}

// SectorSink is the interface for types that can unmarshal from sectors.
type SectorSink interface {
	// FromSector unmarshals the sector struct from bytes. Input is
	// expected to be exactly SectorSize bytes.
	FromSector(data []byte) error
	// SetTrack sets the track that a sector struct was loaded from.
	SetTrack(track byte)
	// SetSector sets the sector that a sector struct was loaded from.
	SetSector(sector byte)
}

// ReadSector reads SectorSize bytes from the given track and sector.
func ReadSector(diskbytes []byte, g Geometry, track, sector byte) ([]byte, error) {
	block, err := g.AddrToBlock(Addr{Track: track, Sector: sector})
	if err != nil {
		return nil, err
	}
	return ReadBlock(diskbytes, block)
}

// WriteSector writes SectorSize bytes to the given track and sector.
func WriteSector(diskbytes []byte, g Geometry, track, sector byte, data []byte) error {
	block, err := g.AddrToBlock(Addr{Track: track, Sector: sector})
	if err != nil {
		return err
	}
	return WriteBlock(diskbytes, block, data)
}

// ReadBlock reads SectorSize bytes from the given linear block number.
func ReadBlock(diskbytes []byte, block int) ([]byte, error) {
	start := block * SectorSize
	end := start + SectorSize
	if block < 0 || len(diskbytes) < end {
		return nil, fmt.Errorf("cannot read block %d (bytes %d-%d) from image of length %d", block, start, end, len(diskbytes))
	}
	data := make([]byte, SectorSize)
	copy(data, diskbytes[start:end])
	return data, nil
}

// WriteBlock writes SectorSize bytes to the given linear block number.
func WriteBlock(diskbytes []byte, block int, data []byte) error {
	if len(data) != SectorSize {
		return fmt.Errorf("call to WriteBlock with len(data)==%d; want %d", len(data), SectorSize)
	}
	start := block * SectorSize
	end := start + SectorSize
	if block < 0 || len(diskbytes) < end {
		return fmt.Errorf("cannot write block %d (bytes %d-%d) to image of length %d", block, start, end, len(diskbytes))
	}
	copy(diskbytes[start:end], data)
	return nil
}

// UnmarshalSector reads a sector from a disk image by track/sector,
// and unmarshals it into a SectorSink, setting its track and sector.
func UnmarshalSector(diskbytes []byte, g Geometry, ss SectorSink, track, sector byte) error {
	data, err := ReadSector(diskbytes, g, track, sector)
	if err != nil {
		return err
	}
	if err := ss.FromSector(data); err != nil {
		return err
	}
	ss.SetTrack(track)
	ss.SetSector(sector)
	return nil
}

// MarshalSector marshals a SectorSource to its track/sector on a disk
// image.
func MarshalSector(diskbytes []byte, g Geometry, ss SectorSource) error {
	data, err := ss.ToSector()
	if err != nil {
		return err
	}
	return WriteSector(diskbytes, g, ss.GetTrack(), ss.GetSector(), data)
}

// UnmarshalBlock reads a sector from a disk image by linear block
// number, and unmarshals it into a SectorSink, setting its track and
// sector via the given Geometry.
func UnmarshalBlock(diskbytes []byte, g Geometry, ss SectorSink, block int) error {
	addr, err := g.BlockToAddr(block)
	if err != nil {
		return err
	}
	return UnmarshalSector(diskbytes, g, ss, addr.Track, addr.Sector)
}

// MarshalBlock marshals a SectorSource to the given linear block
// number on a disk image.
func MarshalBlock(diskbytes []byte, g Geometry, ss SectorSource, block int) error {
	addr, err := g.BlockToAddr(block)
	if err != nil {
		return err
	}
	data, err := ss.ToSector()
	if err != nil {
		return err
	}
	return WriteSector(diskbytes, g, addr.Track, addr.Sector, data)
}

// copyBytes is just like the builtin copy, but for byte slices, and it
// panics if dst and src have differing lengths — every caller in this
// module works with fixed-width on-disk fields, so a length mismatch
// is always a programming error.
func copyBytes(dst, src []byte) int {
	if len(dst) != len(src) {
		panic(fmt.Sprintf("copyBytes called with differing lengths %d and %d", len(dst), len(src)))
	}
	return copy(dst, src)
}
