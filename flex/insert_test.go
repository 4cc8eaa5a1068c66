package flex

import (
	"bytes"
	"encoding/binary"
	"testing"
	"time"

	"github.com/mjwurtz/flexgo/diag"
	"github.com/mjwurtz/flexgo/disk"
)

func formattedTestImage(t *testing.T) *Image {
	t.Helper()
	img, err := Format("TEST", 42, 39, 10, 10, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("Format: %v", err)
	}
	if _, err := Validate(img); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	return img
}

// TestInsertFileS2 checks the literal seed: inserting a 500-byte host
// file named a.txt claims 2 sectors, drops free-count to 388, and
// fills a directory slot with a live A.TXT entry.
func TestInsertFileS2(t *testing.T) {
	img := formattedTestImage(t)
	contents := bytes.Repeat([]byte{0x41}, 500)

	if err := InsertFile(img, "a.txt", contents, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)); err != nil {
		t.Fatalf("InsertFile: %v", err)
	}

	if img.SIR.FreeCount != 388 {
		t.Errorf("free count = %d, want 388", img.SIR.FreeCount)
	}

	if _, err := Validate(img); err != nil {
		t.Fatal(err)
	}
	_, slots, err := requireValidated(img)
	if err != nil {
		t.Fatal(err)
	}
	found := false
	for _, s := range slots {
		if s.Entry.Status() != EntryActive {
			continue
		}
		name, err := s.Entry.Name()
		if err != nil {
			t.Fatal(err)
		}
		if name == "A.TXT" {
			found = true
			if s.Entry.Length != 2 {
				t.Errorf("length = %d, want 2", s.Entry.Length)
			}
		}
	}
	if !found {
		t.Fatal("no A.TXT entry found after insert")
	}
}

func TestInsertFileRoundtripViaReadFile(t *testing.T) {
	img := formattedTestImage(t)
	contents := bytes.Repeat([]byte{0x42}, 1000)
	if err := InsertFile(img, "big.dat", contents, time.Now()); err != nil {
		t.Fatalf("InsertFile: %v", err)
	}
	if _, err := Validate(img); err != nil {
		t.Fatal(err)
	}
	got, err := ReadFile(img, "BIG.DAT", false)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if len(got) < len(contents) {
		t.Fatalf("read back %d bytes, want at least %d", len(got), len(contents))
	}
	if !bytes.Equal(got[:len(contents)], contents) {
		t.Errorf("read-back payload doesn't match what was written")
	}
}

func TestInsertFileRejectsDuplicateName(t *testing.T) {
	img := formattedTestImage(t)
	contents := []byte("hello")
	if err := InsertFile(img, "dup.txt", contents, time.Now()); err != nil {
		t.Fatal(err)
	}
	if _, err := Validate(img); err != nil {
		t.Fatal(err)
	}
	if err := InsertFile(img, "dup.txt", contents, time.Now()); err == nil {
		t.Fatal("want error inserting a second file with the same name")
	}
}

func TestInsertFileRejectsEmptyFile(t *testing.T) {
	img := formattedTestImage(t)
	if err := InsertFile(img, "empty.txt", nil, time.Now()); err == nil {
		t.Fatal("want error inserting an empty file")
	}
}

func TestInsertFileRejectsWhenNotEnoughSpace(t *testing.T) {
	img, err := Format("TINY", 1, 2, 1, 6, time.Now())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := Validate(img); err != nil {
		t.Fatal(err)
	}
	big := make([]byte, 10000)
	if err := InsertFile(img, "big.dat", big, time.Now()); err == nil {
		t.Fatal("want error when file doesn't fit in the free chain")
	}
}

func TestInsertFileRandomAccessWritesFIS(t *testing.T) {
	img := formattedTestImage(t)
	contents := append([]byte(fisMagic), bytes.Repeat([]byte{0x55}, 600)...)
	if err := InsertFile(img, "rnd.dat", contents, time.Now()); err != nil {
		t.Fatalf("InsertFile: %v", err)
	}
	report, err := Validate(img)
	if err != nil {
		t.Fatal(err)
	}
	if report.Severity() != diag.Clean {
		t.Fatalf("severity = %v after random-access insert, want Clean; findings: %v", report.Severity(), report.Findings)
	}
	_, slots, err := requireValidated(img)
	if err != nil {
		t.Fatal(err)
	}
	var found *dirSlot
	for i := range slots {
		if slots[i].Entry.Status() == EntryActive && slots[i].Entry.Random {
			found = &slots[i]
			break
		}
	}
	if found == nil {
		t.Fatal("no random-access entry found")
	}

	g := img.Geometry
	cur := found.Entry.StartAddr()
	for step := 0; step < int(found.Entry.Length); step++ {
		block, err := g.AddrToBlock(cur)
		if err != nil {
			t.Fatalf("sector %d: %v", step, err)
		}
		sector, err := disk.ReadBlock(img.Data, block)
		if err != nil {
			t.Fatalf("sector %d: %v", step, err)
		}
		recNum := binary.BigEndian.Uint16(sector[2:4])
		if step < fisCount {
			if recNum != 0 {
				t.Errorf("FIS sector %d: record number = %d, want 0", step, recNum)
			}
		} else {
			want := uint16(step + 1 - fisCount)
			if recNum != want {
				t.Errorf("data sector %d: record number = %d, want %d", step, recNum, want)
			}
		}
		cur = disk.Addr{Track: sector[0], Sector: sector[1]}
	}
}
