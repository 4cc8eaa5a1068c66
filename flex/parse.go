package flex

import (
	"github.com/mjwurtz/flexgo/diag"
	"github.com/mjwurtz/flexgo/disk"
)

// DirectoryStartBlock is the fixed linear block number of the first
// directory sector on every FLEX image: track 0, sector 5. Blocks 0-1
// are the boot sectors and block 2 is the SIR; block 3 is reserved but
// unused by any structure.
const DirectoryStartBlock = 4

// DirSize is the maximum number of directory entries a FLEX image can
// hold (the reference implementation's fixed track-0-only directory
// table ceiling).
const DirSize = 2560

// dirSlot locates a single directory entry on disk, for use by the
// repair, insert and delete transforms that need to rewrite entries in
// place.
type dirSlot struct {
	Entry       DirEntry
	SectorBlock int
	SlotIndex   int
	// FileIndex is the 1-based sequential index among used (non-empty)
	// slots, assigned in directory order; it's only used to label
	// findings and has no on-disk representation.
	FileIndex int
	// MaybeRecoverable is set for deleted entries (EntryDeleted) by a
	// tentative re-walk of their sector chain: true means every sector
	// is still Unclaimed or Free and the chain's length and end link
	// still match the directory entry, so the data is probably intact.
	// Meaningless for live entries.
	MaybeRecoverable bool
}

// Parse walks an Image's freelist, directory chain, and file chains,
// building an OwnershipMap and a diag.Report of anything inconsistent
// found along the way. It never mutates img.Data.
func Parse(img *Image) (*OwnershipMap, []dirSlot, *diag.Report, error) {
	report := &diag.Report{}
	g := img.Geometry
	numBlocks := g.NumBlocks()
	m := NewOwnershipMap(numBlocks)

	if img.GeometryUnusual {
		report.Add(diag.KindGeometryUnusual, -1, "geometry resolved via fallback heuristic (%s)", g.Class)
	}

	walkFreelist(img, m, report)
	slots := walkDirectory(img, m, report)
	walkFiles(img, m, report, slots)
	walkDeletedFiles(img, m, slots)
	checkReserved(m, report)
	checkUnclaimed(m, report, numBlocks)

	return m, slots, report, nil
}

// walkFreelist follows the free-sector chain rooted at the SIR's
// free-head pointer for FreeCount links, marking each as Free and
// recording freelist-duplicate and chain-length findings.
func walkFreelist(img *Image, m *OwnershipMap, report *diag.Report) {
	g := img.Geometry
	sir := img.SIR
	if sir.FreeCount == 0 {
		return
	}
	cur := disk.Addr{Track: sir.FreeHeadTrack, Sector: sir.FreeHeadSector}
	dupCount := map[int]int{}
	k := 0
	for ; k < int(sir.FreeCount); k++ {
		block, err := g.AddrToBlock(cur)
		if err != nil {
			report.Add(diag.KindAddressing, -1, "freelist link [%02x/%02x] out of bounds", cur.Track, cur.Sector)
			break
		}
		sector, err := disk.ReadBlock(img.Data, block)
		if err != nil {
			report.Add(diag.KindAddressing, block, "could not read freelist sector: %v", err)
			break
		}
		if m.Owner[block].Kind == Free {
			dupCount[block]++
			report.Add(diag.KindFreelistDuplicate, block, "sector appears %d times in freelist", dupCount[block]+1)
		} else {
			m.Owner[block] = Owner{Kind: Free}
		}
		next := disk.Addr{Track: sector[0], Sector: sector[1]}
		m.Next[block] = linkBlock(g, next)
		cur = next
		if cur.Track == 0 && cur.Sector == 0 {
			break
		}
	}
	if k != int(sir.FreeCount)-1 {
		report.Add(diag.KindFreelistLengthMismatch, -1, "chain of %d sectors instead of %d", k+1, sir.FreeCount)
	}
}

// linkBlock resolves a next-sector address to a block index, treating
// the (0,0) terminator and unresolvable addresses alike as "no
// successor" (-1) rather than aliasing them onto a real block.
func linkBlock(g disk.Geometry, a disk.Addr) int {
	if a.Track == 0 && a.Sector == 0 {
		return -1
	}
	block, err := g.AddrToBlock(a)
	if err != nil {
		return -1
	}
	return block
}

// claimDirectorySector marks a block as belonging to the directory
// chain, reporting an overlap if something else already claimed it.
// It returns true if the block was already a directory sector (a
// loop), in which case the caller must stop walking.
func claimDirectorySector(m *OwnershipMap, report *diag.Report, block int) (loop bool) {
	switch m.Owner[block].Kind {
	case DirectoryOwner:
		report.Add(diag.KindDirectoryLoop, block, "directory sector visited twice")
		return true
	case Free:
		report.Add(diag.KindDirFreeOverlap, block, "directory sector also appears in freelist")
	}
	m.Owner[block] = Owner{Kind: DirectoryOwner}
	return false
}

// walkDirectory follows the directory chain from DirectoryStartBlock,
// marking directory sectors and collecting every used (non-empty) slot.
func walkDirectory(img *Image, m *OwnershipMap, report *diag.Report) []dirSlot {
	g := img.Geometry
	var slots []dirSlot
	block := DirectoryStartBlock
	nslot := 0
	fileIndex := 0
	for nslot < DirSize {
		sectorBytes, err := disk.ReadBlock(img.Data, block)
		if err != nil {
			report.Add(diag.KindAddressing, block, "could not read directory sector: %v", err)
			break
		}
		var ds DirectorySector
		if err := ds.FromSector(sectorBytes); err != nil {
			report.Add(diag.KindAddressing, block, "malformed directory sector: %v", err)
			break
		}
		if loop := claimDirectorySector(m, report, block); loop {
			break
		}
		for slotIdx := 0; slotIdx < EntriesPerSector && nslot < DirSize; slotIdx++ {
			nslot++
			entry := ds.Entries[slotIdx]
			if entry.NameRaw[0] == 0 {
				continue
			}
			fileIndex++
			if _, err := entry.Name(); err != nil {
				report.Add(diag.KindBadName, block, "directory entry %d: %v", fileIndex, err)
			}
			slots = append(slots, dirSlot{
				Entry:       entry,
				SectorBlock: block,
				SlotIndex:   slotIdx,
				FileIndex:   fileIndex,
			})
		}
		next := ds.NextAddr()
		if next.Track == 0 && next.Sector == 0 {
			break
		}
		if nslot >= DirSize {
			report.Add(diag.KindDirectoryOverflow, block, "directory chain continues past the %d-entry ceiling; truncating", DirSize)
			break
		}
		nb, err := g.AddrToBlock(next)
		if err != nil {
			report.Add(diag.KindAddressing, block, "directory link [%02x/%02x] out of bounds", next.Track, next.Sector)
			break
		}
		block = nb
	}
	return slots
}

// walkFiles follows each active directory entry's sector chain,
// marking file-owned sectors and reporting any overlap, bad start
// address, or length mismatch found along the way.
func walkFiles(img *Image, m *OwnershipMap, report *diag.Report, slots []dirSlot) {
	g := img.Geometry
	numBlocks := g.NumBlocks()
	for _, s := range slots {
		if s.Entry.Status() != EntryActive {
			continue
		}
		startBlock, err := g.AddrToBlock(s.Entry.StartAddr())
		if err != nil || startBlock == 0 || startBlock == 1 || startBlock == SIRBlock {
			report.Add(diag.KindAddressing, s.SectorBlock, "file %d (%s): start sector invalid", s.FileIndex, nameOrPlaceholder(s.Entry))
			continue
		}
		cur := startBlock
		nbBlk := 0
	fileChain:
		for {
			if cur < 0 || cur >= numBlocks {
				report.Add(diag.KindAddressing, s.SectorBlock, "file %d: chain runs out of bounds", s.FileIndex)
				break
			}
			sectorBytes, err := disk.ReadBlock(img.Data, cur)
			if err != nil {
				report.Add(diag.KindAddressing, cur, "file %d: could not read chained sector: %v", s.FileIndex, err)
				break
			}
			switch m.Owner[cur].Kind {
			case Unclaimed:
				m.Owner[cur] = Owner{Kind: FileOwner, Index: s.FileIndex}
			case Free:
				report.Add(diag.KindFileFreeOverlap, cur, "file %d sector also in freelist", s.FileIndex)
			case DirectoryOwner:
				report.Add(diag.KindFileDirOverlap, cur, "file %d sector also in directory", s.FileIndex)
			case FileOwner:
				if m.Owner[cur].Index == s.FileIndex {
					break fileChain
				}
				report.Add(diag.KindFileFileOverlap, cur, "file %d sector also in file %d", s.FileIndex, m.Owner[cur].Index)
			}
			next := disk.Addr{Track: sectorBytes[0], Sector: sectorBytes[1]}
			m.Next[cur] = linkBlock(g, next)
			nbBlk++
			if next.Track == 0 && next.Sector == 0 {
				break
			}
			nb, err := g.AddrToBlock(next)
			if err != nil {
				report.Add(diag.KindAddressing, cur, "file %d: chain link [%02x/%02x] out of bounds", s.FileIndex, next.Track, next.Sector)
				break
			}
			cur = nb
		}
		if nbBlk != int(s.Entry.Length) {
			report.Add(diag.KindFileLengthMismatch, s.SectorBlock, "file %d (%s): declared length %d, but %d sectors chained", s.FileIndex, nameOrPlaceholder(s.Entry), s.Entry.Length, nbBlk)
		}
	}
}

// walkDeletedFiles tentatively re-walks each deleted entry's sector
// chain, without claiming any sector or reporting any finding: a
// deleted entry's chain overlapping something else isn't itself an
// inconsistency, just evidence the data can no longer be recovered.
// Every deleted slot starts maybe-recoverable; the bit is cleared the
// moment the walk hits a sector already owned by the directory or a
// live file, runs out of bounds, or the walked length or final link
// doesn't match the entry's declared length/end address.
func walkDeletedFiles(img *Image, m *OwnershipMap, slots []dirSlot) {
	g := img.Geometry
	for i := range slots {
		s := &slots[i]
		if s.Entry.Status() != EntryDeleted {
			continue
		}
		s.MaybeRecoverable = true
		if s.Entry.Length == 0 {
			continue
		}
		cur := s.Entry.StartAddr()
		wantEnd := s.Entry.EndAddr()
		for step := 0; step < int(s.Entry.Length); step++ {
			block, err := g.AddrToBlock(cur)
			if err != nil {
				s.MaybeRecoverable = false
				break
			}
			switch m.Owner[block].Kind {
			case Unclaimed, Free:
			default:
				s.MaybeRecoverable = false
			}
			if !s.MaybeRecoverable {
				break
			}
			if step == int(s.Entry.Length)-1 && cur != wantEnd {
				s.MaybeRecoverable = false
				break
			}
			sectorBytes, err := disk.ReadBlock(img.Data, block)
			if err != nil {
				s.MaybeRecoverable = false
				break
			}
			cur = disk.Addr{Track: sectorBytes[0], Sector: sectorBytes[1]}
		}
	}
}

func nameOrPlaceholder(e DirEntry) string {
	name, err := e.Name()
	if err != nil {
		return "?"
	}
	return name
}

// checkReserved marks the four reserved sectors (the two boot sectors,
// the SIR, and the unused fourth sector) as ReservedBoot, and reports
// any of them that ended up claimed by the freelist, directory, or a
// file instead.
func checkReserved(m *OwnershipMap, report *diag.Report) {
	for block := 0; block < 4 && block < len(m.Owner); block++ {
		if m.Owner[block].Kind == Unclaimed {
			m.Owner[block] = Owner{Kind: ReservedBoot}
			continue
		}
		report.Add(diag.KindReservedMisclassified, block, "reserved sector claimed as %v", m.Owner[block].Kind)
	}
}

// checkUnclaimed reports every sector past the reserved area that
// nothing claimed: not on the freelist, not part of the directory, not
// part of any file chain.
func checkUnclaimed(m *OwnershipMap, report *diag.Report, numBlocks int) {
	for block := 4; block < numBlocks; block++ {
		if m.Owner[block].Kind == Unclaimed {
			report.Add(diag.KindUnclaimedSectors, block, "sector missing from freelist and unclaimed by any structure")
		}
	}
}
