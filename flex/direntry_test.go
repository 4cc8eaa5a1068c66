package flex

import (
	"crypto/rand"
	"strings"
	"testing"

	"github.com/kr/pretty"

	"github.com/mjwurtz/flexgo/disk"
)

func randomSector() []byte {
	b := make([]byte, disk.SectorSize)
	_, _ = rand.Read(b)
	return b
}

func TestDirEntryMarshalRoundtrip(t *testing.T) {
	b1 := make([]byte, EntrySize)
	_, _ = rand.Read(b1)
	var e DirEntry
	if err := e.FromBytes(b1); err != nil {
		t.Fatal(err)
	}
	b2 := e.ToBytes()
	if string(b1) != string(b2) {
		t.Fatalf("bytes differ: %s", strings.Join(pretty.Diff(b1, b2), "; "))
	}
	var e2 DirEntry
	if err := e2.FromBytes(b2); err != nil {
		t.Fatal(err)
	}
	if e != e2 {
		t.Errorf("structs differ: %# v", pretty.Diff(e, e2))
	}
}

func TestDirectorySectorMarshalRoundtrip(t *testing.T) {
	b1 := randomSector()
	var d DirectorySector
	if err := d.FromSector(b1); err != nil {
		t.Fatal(err)
	}
	b2, err := d.ToSector()
	if err != nil {
		t.Fatal(err)
	}
	if string(b1) != string(b2) {
		t.Fatalf("bytes differ: %s", strings.Join(pretty.Diff(b1, b2), "; "))
	}
}

func TestSIRMarshalRoundtrip(t *testing.T) {
	b1 := randomSector()
	var s SystemInformationRecord
	if err := s.FromSector(b1); err != nil {
		t.Fatal(err)
	}
	b2, err := s.ToSector()
	if err != nil {
		t.Fatal(err)
	}
	if string(b1) != string(b2) {
		t.Fatalf("bytes differ: %s", strings.Join(pretty.Diff(b1, b2), "; "))
	}
}

func TestDirEntryStatus(t *testing.T) {
	var neverUsed DirEntry
	if got := neverUsed.Status(); got != EntryNeverUsed {
		t.Errorf("zero entry: got %v, want EntryNeverUsed", got)
	}

	deleted := DirEntry{NameRaw: [8]byte{0xFF, 'E', 'L', 'L', 'O', 0, 0, 0}, Length: 3}
	if got := deleted.Status(); got != EntryDeleted {
		t.Errorf("0xFF-prefixed entry: got %v, want EntryDeleted", got)
	}

	zeroLength := DirEntry{NameRaw: [8]byte{'A', 0, 0, 0, 0, 0, 0, 0}, Length: 0}
	if got := zeroLength.Status(); got != EntryDeleted {
		t.Errorf("zero-length entry: got %v, want EntryDeleted", got)
	}

	active := DirEntry{NameRaw: [8]byte{'A', 0, 0, 0, 0, 0, 0, 0}, Length: 1}
	if got := active.Status(); got != EntryActive {
		t.Errorf("named nonzero-length entry: got %v, want EntryActive", got)
	}
}

func TestDirEntryTimeRoundtrip(t *testing.T) {
	var e DirEntry
	e.Month, e.Day, e.Year = 7, 31, 26
	tm := e.Time()
	if tm.Month() != 7 || tm.Day() != 31 || tm.Year() != 2026 {
		t.Fatalf("decoded time = %v, want 2026-07-31", tm)
	}
	var e2 DirEntry
	e2.SetTime(tm)
	if e2.Month != e.Month || e2.Day != e.Day || e2.Year != e.Year {
		t.Errorf("SetTime roundtrip: got %+v, want %+v", e2, e)
	}
}
