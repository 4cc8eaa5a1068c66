package flex

import (
	"github.com/mjwurtz/flexgo/disk"
)

// FirstFreelistEligibleBlock is the lowest block number Repair will
// ever add to the freelist: blocks 0-3 are permanently reserved (boot
// sectors and the SIR). Block 4, the first directory sector, is
// included in the scan too — in a sound image it's always
// DirectoryOwner and so never picked up, but a corrupted image can
// have reclaimed it as Unclaimed, and the reference algorithm scans
// it along with everything else.
const FirstFreelistEligibleBlock = 4

// Repair rebuilds the freelist from every sector the last Validate
// found Free or Unclaimed (in ascending block order), then compacts
// the directory by removing deleted and never-recoverable entries.
// It requires the image to have been validated with no data-loss
// severity findings.
func Repair(img *Image) error {
	m, slots, err := requireValidated(img)
	if err != nil {
		return err
	}

	if err := rebuildFreelist(img, m); err != nil {
		return err
	}
	if err := compactDirectory(img, slots); err != nil {
		return err
	}

	img.State = Loaded
	return nil
}

// rebuildFreelist collects every Free or Unclaimed block at or past
// FirstFreelistEligibleBlock, chains them together in ascending order,
// and updates the SIR's free-head/tail pointers and free count.
func rebuildFreelist(img *Image, m *OwnershipMap) error {
	g := img.Geometry
	var eligible []int
	for block := FirstFreelistEligibleBlock; block < len(m.Owner); block++ {
		switch m.Owner[block].Kind {
		case Free, Unclaimed:
			eligible = append(eligible, block)
		}
	}

	for i, block := range eligible {
		var next disk.Addr
		if i+1 < len(eligible) {
			addr, err := g.BlockToAddr(eligible[i+1])
			if err != nil {
				return err
			}
			next = addr
		}
		if err := setLink(img, block, next); err != nil {
			return err
		}
	}

	sir := img.SIR
	if len(eligible) == 0 {
		sir.FreeHeadTrack, sir.FreeHeadSector = 0, 0
		sir.FreeTailTrack, sir.FreeTailSector = 0, 0
	} else {
		head, err := g.BlockToAddr(eligible[0])
		if err != nil {
			return err
		}
		tail, err := g.BlockToAddr(eligible[len(eligible)-1])
		if err != nil {
			return err
		}
		sir.FreeHeadTrack, sir.FreeHeadSector = head.Track, head.Sector
		sir.FreeTailTrack, sir.FreeTailSector = tail.Track, tail.Sector
	}
	sir.FreeCount = uint16(len(eligible))
	return disk.MarshalSector(img.Data, g, sir)
}

// setLink overwrites a sector's first two bytes (its next-sector link)
// in place, leaving the rest of the sector's contents untouched.
func setLink(img *Image, block int, next disk.Addr) error {
	sector, err := disk.ReadBlock(img.Data, block)
	if err != nil {
		return err
	}
	sector[0] = next.Track
	sector[1] = next.Sector
	return disk.WriteBlock(img.Data, block, sector)
}

// compactDirectory removes deleted (and zero-length) directory entries
// by moving the directory's last used slot into each deleted slot's
// place and zeroing whichever slot ends up vacated, so entries never
// duplicate and no hole is left in active entries. Unlike the
// reference implementation, the deleted check here never mutates the
// entry while testing it.
func compactDirectory(img *Image, slots []dirSlot) error {
	entries := append([]dirSlot(nil), slots...)
	n := len(entries)
	i := 0
	for i < n {
		for n > 0 && entries[n-1].Entry.Status() == EntryDeleted {
			if err := zeroEntrySlot(img, entries[n-1]); err != nil {
				return err
			}
			n--
		}
		if i >= n {
			break
		}
		if entries[i].Entry.Status() == EntryDeleted {
			if n-1 != i {
				if err := copyEntrySlot(img, entries[n-1], entries[i]); err != nil {
					return err
				}
			} else {
				if err := zeroEntrySlot(img, entries[i]); err != nil {
					return err
				}
			}
			n--
		}
		i++
	}
	return nil
}

// entryByteOffset returns the byte offset of a directory entry within
// its 256-byte sector.
func entryByteOffset(slotIndex int) int {
	return 16 + slotIndex*EntrySize
}

func readEntrySlot(img *Image, s dirSlot) ([]byte, error) {
	sector, err := disk.ReadBlock(img.Data, s.SectorBlock)
	if err != nil {
		return nil, err
	}
	off := entryByteOffset(s.SlotIndex)
	return sector[off : off+EntrySize], nil
}

func writeEntrySlot(img *Image, s dirSlot, data []byte) error {
	sector, err := disk.ReadBlock(img.Data, s.SectorBlock)
	if err != nil {
		return err
	}
	off := entryByteOffset(s.SlotIndex)
	copy(sector[off:off+EntrySize], data)
	return disk.WriteBlock(img.Data, s.SectorBlock, sector)
}

func zeroEntrySlot(img *Image, s dirSlot) error {
	return writeEntrySlot(img, s, make([]byte, EntrySize))
}

func copyEntrySlot(img *Image, src, dst dirSlot) error {
	data, err := readEntrySlot(img, src)
	if err != nil {
		return err
	}
	buf := append([]byte(nil), data...)
	if err := writeEntrySlot(img, dst, buf); err != nil {
		return err
	}
	return zeroEntrySlot(img, src)
}
