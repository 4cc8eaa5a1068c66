package s19cmd

import (
	"bytes"
	"strings"
	"testing"
)

func TestConvertBasic(t *testing.T) {
	input := "S1050000AABB95\nS9030000FC\n"
	var out bytes.Buffer
	if err := Convert(strings.NewReader(input), &out); err != nil {
		t.Fatalf("Convert: %v", err)
	}

	want := []byte{0x02, 0x00, 0x00, 0x02, 0xAA, 0xBB, 0x16, 0x00, 0x00}
	got := out.Bytes()
	if len(got) != 252 {
		t.Fatalf("output length = %d, want 252 (one padded CMD record)", len(got))
	}
	if !bytes.Equal(got[:len(want)], want) {
		t.Errorf("leading bytes = % X, want % X", got[:len(want)], want)
	}
	for i := len(want); i < len(got); i++ {
		if got[i] != 0 {
			t.Fatalf("byte %d = 0x%02x, want 0 padding", i, got[i])
		}
	}
}

// TestConvertS6Seed checks the literal seed: a single 16-byte S1 record
// followed by an S9 end record produces one CMD chunk headed
// 02 00 00 10, the 16 data bytes, then the 16 00 00 transfer trailer,
// padded out to a 252-byte boundary.
func TestConvertS6Seed(t *testing.T) {
	input := "S11300000102030405060708090A0B0C0D0E0F1064\nS9030000FC\n"
	var out bytes.Buffer
	if err := Convert(strings.NewReader(input), &out); err != nil {
		t.Fatalf("Convert: %v", err)
	}

	want := []byte{0x02, 0x00, 0x00, 0x10,
		0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08,
		0x09, 0x0A, 0x0B, 0x0C, 0x0D, 0x0E, 0x0F, 0x10,
		0x16, 0x00, 0x00,
	}
	got := out.Bytes()
	if len(got) != 252 {
		t.Fatalf("output length = %d, want 252 (one padded CMD record)", len(got))
	}
	if !bytes.Equal(got[:len(want)], want) {
		t.Errorf("leading bytes = % X, want % X", got[:len(want)], want)
	}
	for i := len(want); i < len(got); i++ {
		if got[i] != 0 {
			t.Fatalf("byte %d = 0x%02x, want 0 padding", i, got[i])
		}
	}
}

func TestConvertBadChecksum(t *testing.T) {
	input := "S1050000AABB00\n"
	var out bytes.Buffer
	if err := Convert(strings.NewReader(input), &out); err == nil {
		t.Fatal("expected a checksum error, got none")
	}
}

func TestConvertEmptyInput(t *testing.T) {
	var out bytes.Buffer
	if err := Convert(strings.NewReader(""), &out); err == nil {
		t.Fatal("expected an empty-input error, got none")
	}
}

func TestConvertRejects32Bit(t *testing.T) {
	input := "S30700001234AABB3D\n"
	var out bytes.Buffer
	if err := Convert(strings.NewReader(input), &out); err == nil {
		t.Fatal("expected 32-bit address records to be rejected")
	}
}
