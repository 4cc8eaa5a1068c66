package flex

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/mjwurtz/flexgo/disk"
)

// EntrySize is the width in bytes of a single directory entry.
const EntrySize = 24

// EntriesPerSector is the number of directory entries packed into
// each directory sector (the first 16 bytes of the sector hold the
// next-sector link and reserved bytes).
const EntriesPerSector = 10

// DirEntryStatus classifies a directory entry slot.
type DirEntryStatus int

const (
	// EntryNeverUsed means the slot has never held a file (name[0]==0).
	EntryNeverUsed DirEntryStatus = iota
	// EntryActive means the slot describes a live file.
	EntryActive
	// EntryDeleted means the slot held a file that has been deleted
	// (first name byte is 0xFF) or describes a zero-length file, which
	// the reference tool also treats as reclaimable.
	EntryDeleted
)

// DirEntry is a single 24-byte FLEX directory entry.
type DirEntry struct {
	NameRaw    [8]byte
	ExtRaw     [3]byte
	reserved1  [2]byte
	StartTrack byte
	StartSec   byte
	EndTrack   byte
	EndSec     byte
	Length     uint16
	Random     bool
	randomRaw  byte
	reserved2  byte
	Month      byte
	Day        byte
	Year       byte
}

// ToBytes marshals the DirEntry to its 24-byte on-disk form.
func (e DirEntry) ToBytes() []byte {
	buf := make([]byte, EntrySize)
	copy(buf[0:8], e.NameRaw[:])
	copy(buf[8:11], e.ExtRaw[:])
	copy(buf[11:13], e.reserved1[:])
	buf[13] = e.StartTrack
	buf[14] = e.StartSec
	buf[15] = e.EndTrack
	buf[16] = e.EndSec
	binary.BigEndian.PutUint16(buf[17:19], e.Length)
	if e.Random {
		buf[19] = e.randomRaw
		if buf[19] == 0 {
			buf[19] = 1
		}
	}
	buf[20] = e.reserved2
	buf[21] = e.Month
	buf[22] = e.Day
	buf[23] = e.Year
	return buf
}

// FromBytes unmarshals a DirEntry from exactly 24 bytes.
func (e *DirEntry) FromBytes(data []byte) error {
	if len(data) != EntrySize {
		return fmt.Errorf("DirEntry.FromBytes expects exactly %d bytes; got %d", EntrySize, len(data))
	}
	copy(e.NameRaw[:], data[0:8])
	copy(e.ExtRaw[:], data[8:11])
	copy(e.reserved1[:], data[11:13])
	e.StartTrack = data[13]
	e.StartSec = data[14]
	e.EndTrack = data[15]
	e.EndSec = data[16]
	e.Length = binary.BigEndian.Uint16(data[17:19])
	e.Random = data[19] != 0
	e.randomRaw = data[19]
	e.reserved2 = data[20]
	e.Month = data[21]
	e.Day = data[22]
	e.Year = data[23]
	return nil
}

// Status classifies the entry.
func (e *DirEntry) Status() DirEntryStatus {
	if e.NameRaw[0] == 0 {
		return EntryNeverUsed
	}
	if e.NameRaw[0] == 0xFF || e.Length == 0 {
		return EntryDeleted
	}
	return EntryActive
}

// Name decodes the entry's filename. Deleted entries have their
// original first byte replaced by 0xFF in NameRaw; the name can't be
// recovered from it, so a placeholder is returned instead.
func (e *DirEntry) Name() (string, error) {
	if e.NameRaw[0] == 0xFF {
		return "?" + string(e.NameRaw[1:]), nil
	}
	var raw [11]byte
	copy(raw[0:8], e.NameRaw[:])
	copy(raw[8:11], e.ExtRaw[:])
	return DecodeName(raw[:], true)
}

// StartAddr returns the entry's first-sector address.
func (e *DirEntry) StartAddr() disk.Addr {
	return disk.Addr{Track: e.StartTrack, Sector: e.StartSec}
}

// EndAddr returns the entry's last-sector address.
func (e *DirEntry) EndAddr() disk.Addr {
	return disk.Addr{Track: e.EndTrack, Sector: e.EndSec}
}

// yearPivot is the two-digit-year split point used for both the SIR's
// creation date and directory entries: years above the pivot are
// 1900s, at or below are 2000s. The reference implementation used two
// different pivots (50 in one tool, 75 in another); this toolkit
// standardizes on 75 everywhere.
const yearPivot = 75

// decodeYear expands a FLEX two-digit year byte to a four-digit year.
func decodeYear(y byte) int {
	if y > yearPivot {
		return 1900 + int(y)
	}
	return 2000 + int(y)
}

// encodeYear narrows a four-digit year to a FLEX two-digit year byte.
func encodeYear(year int) byte {
	if year >= 1900 && year < 2000 {
		return byte(year - 1900)
	}
	return byte(year % 100)
}

// Time decodes the entry's date fields to a time.Time (noon UTC, since
// FLEX directory entries carry no time-of-day).
func (e *DirEntry) Time() time.Time {
	month := time.Month(e.Month)
	if e.Month < 1 || e.Month > 12 {
		month = time.January
	}
	return time.Date(decodeYear(e.Year), month, int(e.Day), 12, 0, 0, 0, time.UTC)
}

// SetTime encodes t into the entry's date fields.
func (e *DirEntry) SetTime(t time.Time) {
	e.Month = byte(t.Month())
	e.Day = byte(t.Day())
	e.Year = encodeYear(t.Year())
}

// DirectorySector is a single 256-byte directory sector: a next-link
// to the following directory sector and ten directory entries.
type DirectorySector struct {
	disk.Addr
	NextTrack byte
	NextSec   byte
	reserved  [14]byte
	Entries   [EntriesPerSector]DirEntry
}

// ToSector marshals the DirectorySector to bytes.
func (d DirectorySector) ToSector() ([]byte, error) {
	buf := make([]byte, disk.SectorSize)
	buf[0] = d.NextTrack
	buf[1] = d.NextSec
	copy(buf[2:16], d.reserved[:])
	for i, e := range d.Entries {
		copy(buf[16+i*EntrySize:16+(i+1)*EntrySize], e.ToBytes())
	}
	return buf, nil
}

// FromSector unmarshals the DirectorySector from bytes.
func (d *DirectorySector) FromSector(data []byte) error {
	if len(data) != disk.SectorSize {
		return fmt.Errorf("DirectorySector.FromSector expects exactly %d bytes; got %d", disk.SectorSize, len(data))
	}
	d.NextTrack = data[0]
	d.NextSec = data[1]
	copy(d.reserved[:], data[2:16])
	for i := range d.Entries {
		if err := d.Entries[i].FromBytes(data[16+i*EntrySize : 16+(i+1)*EntrySize]); err != nil {
			return err
		}
	}
	return nil
}

// NextAddr returns the address of the next directory sector, or the
// zero Addr if this is the last one.
func (d *DirectorySector) NextAddr() disk.Addr {
	return disk.Addr{Track: d.NextTrack, Sector: d.NextSec}
}
