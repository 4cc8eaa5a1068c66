package flex

import (
	"encoding/binary"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/mjwurtz/flexgo/disk"
)

// recordSize is the payload width of a data sector: 256 bytes minus
// the 4-byte header (2-byte link, 2-byte record number).
const recordSize = disk.SectorSize - 4

// fisMagic is the literal prefix that marks a file's contents as
// random-access: its presence triggers File Index Sector construction
// instead of ordinary sequential payload for the file's first two
// sectors.
const fisMagic = "#FLEX##RAND#"

// InsertFile writes contents into img as a new file named after the
// base name of hostName (normalised to FLEX's 8.3 convention and
// upper-cased), dated
// modTime. It requires the image to have been validated with no
// data-loss severity findings, and fails if a live file of the same
// name already exists, if there isn't enough free space, or if the
// directory has no available slot.
func InsertFile(img *Image, hostName string, contents []byte, modTime time.Time) error {
	_, slots, err := requireValidated(img)
	if err != nil {
		return err
	}

	name := strings.ToUpper(NormalizeFilename(filepath.Base(hostName)))
	for _, s := range slots {
		if s.Entry.Status() != EntryActive {
			continue
		}
		existing, err := s.Entry.Name()
		if err == nil && existing == name {
			return fmt.Errorf("a live file named %q already exists", name)
		}
	}

	nbf := (len(contents) + recordSize - 1) / recordSize
	if nbf == 0 {
		return fmt.Errorf("cannot insert an empty file")
	}

	sir := img.SIR
	if nbf > int(sir.FreeCount) {
		return fmt.Errorf("not enough free space: need %d sectors, have %d", nbf, sir.FreeCount)
	}

	target, err := findFreeDirectorySlot(img)
	if err != nil {
		return err
	}

	isRandom := len(contents) >= len(fisMagic) && string(contents[:len(fisMagic)]) == fisMagic

	blocks, err := writeFileChain(img, nbf, contents, isRandom)
	if err != nil {
		return err
	}

	if isRandom {
		if err := writeFileIndexSectors(img, blocks); err != nil {
			return err
		}
	}

	g := img.Geometry
	startAddr, err := g.BlockToAddr(blocks[0])
	if err != nil {
		return err
	}
	endAddr, err := g.BlockToAddr(blocks[len(blocks)-1])
	if err != nil {
		return err
	}

	raw, err := EncodeName(name, true)
	if err != nil {
		return err
	}

	var entry DirEntry
	copy(entry.NameRaw[:], raw[0:8])
	copy(entry.ExtRaw[:], raw[8:11])
	entry.StartTrack, entry.StartSec = startAddr.Track, startAddr.Sector
	entry.EndTrack, entry.EndSec = endAddr.Track, endAddr.Sector
	entry.Length = uint16(nbf)
	entry.Random = isRandom
	entry.SetTime(modTime)

	if err := writeEntrySlot(img, target, entry.ToBytes()); err != nil {
		return err
	}

	img.State = Loaded
	return nil
}

// fisCount is the number of leading sectors a random-access file
// devotes to its File Index Sector pair.
const fisCount = 2

// writeFileChain claims nbf sectors from the head of the free chain,
// writes contents into them record by record, relinks the SIR's free
// head past the claimed sectors, and terminates the new file's chain.
// It returns the claimed sectors' block numbers in file order.
//
// For a random-access file, the first fisCount sectors are File Index
// Sectors and keep a zero record-number field; true data-record
// numbering starts at 1 on the sector right after them, offset by
// fisCount so it still counts from 1 rather than from fisCount+1.
func writeFileChain(img *Image, nbf int, contents []byte, isRandom bool) ([]int, error) {
	g := img.Geometry
	sir := img.SIR
	blocks := make([]int, 0, nbf)
	cur := disk.Addr{Track: sir.FreeHeadTrack, Sector: sir.FreeHeadSector}

	nFIS := 0
	if isRandom {
		nFIS = fisCount
	}

	for i := 0; i < nbf; i++ {
		block, err := g.AddrToBlock(cur)
		if err != nil {
			return nil, fmt.Errorf("free chain exhausted after %d of %d sectors: %w", i, nbf, err)
		}
		sector, err := disk.ReadBlock(img.Data, block)
		if err != nil {
			return nil, err
		}
		next := disk.Addr{Track: sector[0], Sector: sector[1]}

		var payload []byte
		if off := i * recordSize; off < len(contents) {
			end := off + recordSize
			if end > len(contents) {
				end = len(contents)
			}
			payload = contents[off:end]
		}
		for j := 2; j < disk.SectorSize; j++ {
			sector[j] = 0
		}
		if i >= nFIS {
			binary.BigEndian.PutUint16(sector[2:4], uint16(i+1-nFIS))
		}
		copy(sector[4:], payload)
		if err := disk.WriteBlock(img.Data, block, sector); err != nil {
			return nil, err
		}

		blocks = append(blocks, block)
		cur = next
	}

	lastBlock := blocks[len(blocks)-1]
	lastSector, err := disk.ReadBlock(img.Data, lastBlock)
	if err != nil {
		return nil, err
	}
	newHead := disk.Addr{Track: lastSector[0], Sector: lastSector[1]}
	lastSector[0], lastSector[1] = 0, 0
	if err := disk.WriteBlock(img.Data, lastBlock, lastSector); err != nil {
		return nil, err
	}

	sir.FreeHeadTrack, sir.FreeHeadSector = newHead.Track, newHead.Sector
	sir.FreeCount -= uint16(nbf)
	if sir.FreeCount == 0 {
		sir.FreeTailTrack, sir.FreeTailSector = 0, 0
	}
	if err := disk.MarshalSector(img.Data, g, sir); err != nil {
		return nil, err
	}
	return blocks, nil
}

// writeFileIndexSectors rebuilds a random-access file's first two
// sectors as a File Index Sector pair: their payload bytes are
// replaced with a sequence of (track, sector, run-length) triples
// describing the file's remaining data sectors, collapsing physically
// consecutive blocks into a single triple.
func writeFileIndexSectors(img *Image, blocks []int) error {
	if len(blocks) < 2 {
		return fmt.Errorf("random-access file needs at least 2 sectors for its index")
	}
	g := img.Geometry
	dataBlocks := blocks[2:]

	type triple struct{ track, sector, run byte }
	var triples []triple
	prevBlock := -2
	for _, b := range dataBlocks {
		addr, err := g.BlockToAddr(b)
		if err != nil {
			return err
		}
		if len(triples) > 0 && prevBlock+1 == b && triples[len(triples)-1].run < 255 {
			triples[len(triples)-1].run++
		} else {
			triples = append(triples, triple{addr.Track, addr.Sector, 1})
		}
		prevBlock = b
	}

	buf := make([]byte, 0, len(triples)*3)
	for _, t := range triples {
		buf = append(buf, t.track, t.sector, t.run)
	}

	const fisPayload = disk.SectorSize - 4
	if len(buf) > 2*fisPayload {
		return fmt.Errorf("file index too large for two FIS sectors (%d runs)", len(triples))
	}

	for i := 0; i < 2; i++ {
		sector, err := disk.ReadBlock(img.Data, blocks[i])
		if err != nil {
			return err
		}
		sector[2], sector[3] = 0, 0
		for j := 4; j < disk.SectorSize; j++ {
			sector[j] = 0
		}
		start := i * fisPayload
		if start > len(buf) {
			start = len(buf)
		}
		end := start + fisPayload
		if end > len(buf) {
			end = len(buf)
		}
		copy(sector[4:4+(end-start)], buf[start:end])
		if err := disk.WriteBlock(img.Data, blocks[i], sector); err != nil {
			return err
		}
	}
	return nil
}

// findFreeDirectorySlot walks the directory chain looking for the
// first slot that isn't a live entry (either never used or deleted),
// stopping at the DirSize ceiling.
func findFreeDirectorySlot(img *Image) (dirSlot, error) {
	g := img.Geometry
	block := DirectoryStartBlock
	nslot := 0
	for nslot < DirSize {
		sectorBytes, err := disk.ReadBlock(img.Data, block)
		if err != nil {
			return dirSlot{}, err
		}
		var ds DirectorySector
		if err := ds.FromSector(sectorBytes); err != nil {
			return dirSlot{}, err
		}
		for slotIdx := 0; slotIdx < EntriesPerSector && nslot < DirSize; slotIdx++ {
			nslot++
			entry := ds.Entries[slotIdx]
			if entry.Status() != EntryActive {
				return dirSlot{SectorBlock: block, SlotIndex: slotIdx}, nil
			}
		}
		next := ds.NextAddr()
		if next.Track == 0 && next.Sector == 0 {
			break
		}
		nb, err := g.AddrToBlock(next)
		if err != nil {
			return dirSlot{}, err
		}
		block = nb
	}
	return dirSlot{}, fmt.Errorf("directory full: no available slot within %d entries", DirSize)
}
