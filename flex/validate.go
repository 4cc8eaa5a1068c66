package flex

import "github.com/mjwurtz/flexgo/diag"

// Validate parses the image's sector graph and records the result on
// the Image, advancing its State to Validated. The returned Report's
// Severity determines whether Repair, InsertFile, and DeleteFile may
// run: they refuse above diag.Warning.
func Validate(img *Image) (*diag.Report, error) {
	m, slots, report, err := Parse(img)
	if err != nil {
		return nil, err
	}
	img.lastMap = m
	img.lastDirs = slots
	img.lastReport = report
	img.State = Validated
	return report, nil
}

// requireValidated returns the cached ownership map and directory
// slots from the most recent Validate call, refusing to proceed if the
// image hasn't been validated since its last mutation, or if
// validation found anything worse than warnings.
func requireValidated(img *Image) (*OwnershipMap, []dirSlot, error) {
	if img.State != Validated {
		return nil, nil, errNotValidated
	}
	if img.lastReport.Severity() > diag.Warning {
		return nil, nil, errSeverityTooHigh
	}
	return img.lastMap, img.lastDirs, nil
}
