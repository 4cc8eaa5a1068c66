package flex

import (
	"testing"

	"github.com/mjwurtz/flexgo/disk"
)

// TestResolveGeometryBoundaries exercises the boundary scenarios named
// in the testable-properties list: single-density 40x10, 80x10, DD
// 80x18 with a 10-sector track 0, DD 80x36 with a 20-sector track 0,
// a short final track, and an image truncated by one sector.
func TestResolveGeometryBoundaries(t *testing.T) {
	cases := []struct {
		name              string
		totalSectors      int
		nbtrk, nbsec      byte
		wantNumTracks     byte
		wantSecPerTrack   byte
		wantTrack0Len     int
		wantTrailing      int
		wantClass         string
		wantUnusual       bool
	}{
		{
			name:            "single-density 40x10",
			totalSectors:    40 * 10,
			nbtrk:           39,
			nbsec:           10,
			wantNumTracks:   39,
			wantSecPerTrack: 10,
			wantTrack0Len:   10,
			wantClass:       ClassSingleDensity,
		},
		{
			name:            "single-density 80x10",
			totalSectors:    80 * 10,
			nbtrk:           79,
			nbsec:           10,
			wantNumTracks:   79,
			wantSecPerTrack: 10,
			wantTrack0Len:   10,
			wantClass:       ClassSingleDensity,
		},
		{
			// 79 regular tracks of 18 plus one 10-sector track 0.
			name:            "80x18 DD with 10-sector track 0",
			totalSectors:    79*18 + 10,
			nbtrk:           79,
			nbsec:           18,
			wantNumTracks:   79,
			wantSecPerTrack: 18,
			wantTrack0Len:   10,
			wantClass:       ClassDoubleDensityDD0,
		},
		{
			// 79 regular tracks of 36 plus one 20-sector track 0.
			name:            "80x36 DD with 20-sector track 0",
			totalSectors:    79*36 + 20,
			nbtrk:           79,
			nbsec:           36,
			wantNumTracks:   79,
			wantSecPerTrack: 36,
			wantTrack0Len:   20,
			wantClass:       ClassDoubleDensityDD0,
		},
		{
			// r = nb_sectors - T*S > S: one extra short trailing track,
			// track 40 (NumTracks+1), past the 39 regular tracks.
			name:            "short final track",
			totalSectors:    39*10 + 10 + 4,
			nbtrk:           39,
			nbsec:           10,
			wantNumTracks:   39,
			wantSecPerTrack: 10,
			wantTrack0Len:   10,
			wantTrailing:    4,
			wantClass:       ClassTrailingPartial,
			wantUnusual:     true,
		},
		{
			// One sector short of a clean single-density 40x10 image:
			// still within the narrow reduced-track0 DD band (case 4),
			// so it's read as a slightly short track 0, not refused.
			name:            "truncated by one sector",
			totalSectors:    40*10 - 1,
			nbtrk:           39,
			nbsec:           10,
			wantNumTracks:   39,
			wantSecPerTrack: 10,
			wantTrack0Len:   9,
			wantClass:       ClassDoubleDensityDD0,
		},
		{
			// Genuinely too small for the declared geometry to hold:
			// falls through to the unusual reduced-geometry fallback.
			name:            "image much smaller than declared geometry",
			totalSectors:    300,
			nbtrk:           39,
			nbsec:           10,
			wantNumTracks:   29,
			wantSecPerTrack: 10,
			wantTrack0Len:   10,
			wantClass:       ClassReducedUnusual,
			wantUnusual:     true,
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			g, unusual, err := ResolveGeometry(c.totalSectors, c.nbtrk, c.nbsec)
			if err != nil {
				t.Fatalf("ResolveGeometry: %v", err)
			}
			if g.NumTracks != c.wantNumTracks {
				t.Errorf("NumTracks = %d, want %d", g.NumTracks, c.wantNumTracks)
			}
			if g.SecPerTrack != c.wantSecPerTrack {
				t.Errorf("SecPerTrack = %d, want %d", g.SecPerTrack, c.wantSecPerTrack)
			}
			if g.Track0Len != c.wantTrack0Len {
				t.Errorf("Track0Len = %d, want %d", g.Track0Len, c.wantTrack0Len)
			}
			if g.TrailingPartialSectors != c.wantTrailing {
				t.Errorf("TrailingPartialSectors = %d, want %d", g.TrailingPartialSectors, c.wantTrailing)
			}
			if g.Class != c.wantClass {
				t.Errorf("Class = %q, want %q", g.Class, c.wantClass)
			}
			if unusual != c.wantUnusual {
				t.Errorf("unusual = %v, want %v", unusual, c.wantUnusual)
			}
		})
	}
}

func TestResolveGeometryRejectsZeroSectorsPerTrack(t *testing.T) {
	if _, _, err := ResolveGeometry(100, 10, 0); err == nil {
		t.Fatal("want error when the SIR declares zero sectors per track")
	}
}

// TestAddrToBlockBijection checks property P5: every in-range address
// round-trips through AddrToBlock/BlockToAddr, and out-of-range
// addresses always error rather than clamp or wrap.
func TestAddrToBlockBijection(t *testing.T) {
	g, _, err := ResolveGeometry(40*10, 39, 10)
	if err != nil {
		t.Fatal(err)
	}
	for block := 0; block < g.NumBlocks(); block++ {
		addr, err := g.BlockToAddr(block)
		if err != nil {
			t.Fatalf("BlockToAddr(%d): %v", block, err)
		}
		back, err := g.AddrToBlock(addr)
		if err != nil {
			t.Fatalf("AddrToBlock(%+v): %v", addr, err)
		}
		if back != block {
			t.Errorf("block %d round-tripped to %d via %+v", block, back, addr)
		}
	}
	if _, err := g.BlockToAddr(-1); err == nil {
		t.Error("want error for negative block")
	}
	if _, err := g.BlockToAddr(g.NumBlocks()); err == nil {
		t.Error("want error for block past the end of the disk")
	}
	if _, err := g.AddrToBlock(disk.Addr{Track: g.NumTracks + 1, Sector: 1}); err == nil {
		t.Error("want error addressing a track past the end of the disk")
	}
	if _, err := g.AddrToBlock(disk.Addr{Track: 1, Sector: g.SecPerTrack + 1}); err == nil {
		t.Error("want error addressing a sector past the end of a track")
	}
}
