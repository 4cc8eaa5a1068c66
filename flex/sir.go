package flex

import (
	"encoding/binary"
	"fmt"

	"github.com/mjwurtz/flexgo/disk"
)

// SIRBlock is the linear block number of the System Information
// Record on every FLEX image: the first two sectors are boot sectors,
// and the SIR is the third.
const SIRBlock = 2

// SystemInformationRecord is the FLEX System Information Record: the
// disk's volume label, free-chain head/tail, free-sector count,
// creation date, and declared geometry.
type SystemInformationRecord struct {
	disk.Addr
	Unused0 [16]byte

	Label           [11]byte
	VolumeNumber    uint16
	FreeHeadTrack   byte
	FreeHeadSector  byte
	FreeTailTrack   byte
	FreeTailSector  byte
	FreeCount       uint16
	CreatedMonth    byte
	CreatedDay      byte
	CreatedYear     byte
	HighestTrack    byte // SIR's declared highest track number (0-based)
	SectorsPerTrack byte // SIR's declared sectors per track

	UnusedTail [216]byte
}

// LabelString decodes the volume label.
func (s *SystemInformationRecord) LabelString() (string, error) {
	return DecodeName(s.Label[:], false)
}

// LooksLikeFlex reports whether the SIR's label and geometry fields
// pass the FLEX fingerprint check: a decodable 11-character label and
// nonzero declared geometry.
func (s *SystemInformationRecord) LooksLikeFlex() bool {
	if _, err := s.LabelString(); err != nil {
		return false
	}
	return s.HighestTrack != 0 && s.SectorsPerTrack != 0
}

// ToSector marshals the SIR to bytes.
func (s SystemInformationRecord) ToSector() ([]byte, error) {
	buf := make([]byte, disk.SectorSize)
	copy(buf[0x00:0x10], s.Unused0[:])
	copy(buf[0x10:0x1b], s.Label[:])
	binary.BigEndian.PutUint16(buf[0x1b:0x1d], s.VolumeNumber)
	buf[0x1d] = s.FreeHeadTrack
	buf[0x1e] = s.FreeHeadSector
	buf[0x1f] = s.FreeTailTrack
	buf[0x20] = s.FreeTailSector
	binary.BigEndian.PutUint16(buf[0x21:0x23], s.FreeCount)
	buf[0x23] = s.CreatedMonth
	buf[0x24] = s.CreatedDay
	buf[0x25] = s.CreatedYear
	buf[0x26] = s.HighestTrack
	buf[0x27] = s.SectorsPerTrack
	copy(buf[0x28:], s.UnusedTail[:])
	return buf, nil
}

// FromSector unmarshals the SIR from bytes. Input is expected to be
// exactly disk.SectorSize bytes.
func (s *SystemInformationRecord) FromSector(data []byte) error {
	if len(data) != disk.SectorSize {
		return fmt.Errorf("SIR.FromSector expects exactly %d bytes; got %d", disk.SectorSize, len(data))
	}
	copy(s.Unused0[:], data[0x00:0x10])
	copy(s.Label[:], data[0x10:0x1b])
	s.VolumeNumber = binary.BigEndian.Uint16(data[0x1b:0x1d])
	s.FreeHeadTrack = data[0x1d]
	s.FreeHeadSector = data[0x1e]
	s.FreeTailTrack = data[0x1f]
	s.FreeTailSector = data[0x20]
	s.FreeCount = binary.BigEndian.Uint16(data[0x21:0x23])
	s.CreatedMonth = data[0x23]
	s.CreatedDay = data[0x24]
	s.CreatedYear = data[0x25]
	s.HighestTrack = data[0x26]
	s.SectorsPerTrack = data[0x27]
	copy(s.UnusedTail[:], data[0x28:])
	return nil
}
