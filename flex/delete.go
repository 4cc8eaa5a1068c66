package flex

import (
	"fmt"

	"github.com/mjwurtz/flexgo/disk"
)

// DeleteFile finds the live directory entry whose name matches name
// exactly and marks it deleted, splicing its sector chain onto the
// tail of the free chain. Sector contents are left untouched — only
// the directory entry's first byte and the SIR/chain-link bytes that
// stitch the chain together are modified, so a deleted file can still
// be recovered by hand until Repair reclaims its sectors.
func DeleteFile(img *Image, name string) error {
	_, slots, err := requireValidated(img)
	if err != nil {
		return err
	}

	var target *dirSlot
	for i := range slots {
		if slots[i].Entry.Status() != EntryActive {
			continue
		}
		entryName, err := slots[i].Entry.Name()
		if err != nil {
			continue
		}
		if entryName == name {
			target = &slots[i]
			break
		}
	}
	if target == nil {
		return fmt.Errorf("no live file named %q", name)
	}

	if err := spliceOntoFreeTail(img, target.Entry); err != nil {
		return err
	}

	data, err := readEntrySlot(img, *target)
	if err != nil {
		return err
	}
	marked := append([]byte(nil), data...)
	marked[0] = 0xFF
	if err := writeEntrySlot(img, *target, marked); err != nil {
		return err
	}

	img.State = Loaded
	return nil
}

// spliceOntoFreeTail appends a deleted file's sector chain to the tail
// of the freelist: the current free-tail sector's link bytes are
// pointed at the file's start, and the SIR tail and free count are
// updated to reflect the file's end and length. The file's own link
// bytes are left exactly as they were, so the chain (now shared with
// the freelist) still walks cleanly from the old tail through to
// (0,0).
func spliceOntoFreeTail(img *Image, entry DirEntry) error {
	g := img.Geometry
	sir := img.SIR

	if sir.FreeCount > 0 {
		tailBlock, err := g.AddrToBlock(disk.Addr{Track: sir.FreeTailTrack, Sector: sir.FreeTailSector})
		if err != nil {
			return err
		}
		tailSector, err := disk.ReadBlock(img.Data, tailBlock)
		if err != nil {
			return err
		}
		tailSector[0] = entry.StartTrack
		tailSector[1] = entry.StartSec
		if err := disk.WriteBlock(img.Data, tailBlock, tailSector); err != nil {
			return err
		}
	} else {
		sir.FreeHeadTrack, sir.FreeHeadSector = entry.StartTrack, entry.StartSec
	}

	sir.FreeTailTrack, sir.FreeTailSector = entry.EndTrack, entry.EndSec
	sir.FreeCount += entry.Length
	return disk.MarshalSector(img.Data, g, sir)
}
