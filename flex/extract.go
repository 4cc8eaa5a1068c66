package flex

import (
	"fmt"

	"github.com/mjwurtz/flexgo/disk"
)

// ReadFile extracts a file's raw sector payload by exact name match.
// If includeDeleted is true, deleted-but-recoverable entries are also
// eligible, matched against the placeholder name DirEntry.Name returns
// for them ("?" plus whatever survived of the original name bytes).
//
// Random-access files get the "#FLEX##RAND#" magic prepended, the same
// convention InsertFile uses to mark them on the way in; this toolkit
// extracts raw chained content rather than resolving the File Index
// Sector's run-length triples, matching the reference extractor's own
// download() routine, which walks the chain as ordinary data and only
// skips a wider 16-byte header on the first sector instead of
// interpreting the index.
func ReadFile(img *Image, name string, includeDeleted bool) ([]byte, error) {
	_, slots, err := requireValidated(img)
	if err != nil {
		return nil, err
	}

	var target *dirSlot
	for i := range slots {
		status := slots[i].Entry.Status()
		entryName, nameErr := slots[i].Entry.Name()
		if nameErr != nil {
			continue
		}
		if status == EntryActive && entryName == name {
			target = &slots[i]
			break
		}
		if includeDeleted && status == EntryDeleted && entryName == "?"+name {
			target = &slots[i]
			break
		}
	}
	if target == nil {
		return nil, fmt.Errorf("no file named %q", name)
	}
	if target.Entry.Status() == EntryDeleted && !target.MaybeRecoverable {
		return nil, fmt.Errorf("file %q is deleted and no longer recoverable: its chain has been overwritten", name)
	}

	g := img.Geometry
	var out []byte
	if target.Entry.Random {
		out = append(out, []byte(fisMagic)...)
	}

	cur := target.Entry.StartAddr()
	nbBlk := 0
	first := true
	for {
		block, err := g.AddrToBlock(cur)
		if err != nil {
			break
		}
		sector, err := disk.ReadBlock(img.Data, block)
		if err != nil {
			return nil, err
		}
		skip := 4
		if first && target.Entry.Random {
			skip = 16
		}
		out = append(out, sector[skip:]...)
		first = false
		nbBlk++
		if nbBlk >= int(target.Entry.Length) {
			break
		}
		next := disk.Addr{Track: sector[0], Sector: sector[1]}
		if next.Track == 0 && next.Sector == 0 {
			break
		}
		cur = next
	}
	return out, nil
}
