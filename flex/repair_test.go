package flex

import (
	"testing"
	"time"

	"github.com/mjwurtz/flexgo/diag"
	"github.com/mjwurtz/flexgo/disk"
)

// TestRepairReclaimsUnclaimedSectors mirrors the shape of seed S4: break
// the free chain so some sectors are Unclaimed, confirm the validator
// flags it, then confirm Repair restores a clean ascending chain.
func TestRepairReclaimsUnclaimedSectors(t *testing.T) {
	img := formattedTestImage(t)

	// Snip the free chain early: point block 10's link straight at
	// (0,0), stranding every sector after it as Unclaimed.
	sector, err := disk.ReadBlock(img.Data, 10)
	if err != nil {
		t.Fatal(err)
	}
	sector[0], sector[1] = 0, 0
	if err := disk.WriteBlock(img.Data, 10, sector); err != nil {
		t.Fatal(err)
	}

	report, err := Validate(img)
	if err != nil {
		t.Fatal(err)
	}
	if report.Severity() != diag.Warning {
		t.Fatalf("severity = %v, want Warning; findings: %v", report.Severity(), report.Findings)
	}
	if len(report.Of(diag.KindUnclaimedSectors)) == 0 {
		t.Fatal("want an unclaimed-sectors finding")
	}

	if err := Repair(img); err != nil {
		t.Fatalf("Repair: %v", err)
	}
	report, err = Validate(img)
	if err != nil {
		t.Fatal(err)
	}
	if report.Severity() != diag.Clean {
		t.Fatalf("severity after repair = %v, want Clean; findings: %v", report.Severity(), report.Findings)
	}
	if img.SIR.FreeCount != 390 {
		t.Errorf("free count after repair = %d, want 390", img.SIR.FreeCount)
	}
}

func TestRepairRefusesUnvalidatedImage(t *testing.T) {
	img, err := Format("X", 1, 39, 10, 10, time.Now())
	if err != nil {
		t.Fatal(err)
	}
	if err := Repair(img); err == nil {
		t.Fatal("want error repairing an image that hasn't been validated")
	}
}
