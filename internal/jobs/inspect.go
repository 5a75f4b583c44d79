// SPDX-License-Identifier: MIT

package jobs

import (
	"os"
	"path/filepath"

	"github.com/campuslib/mvol-validate/internal/alto"
	"github.com/campuslib/mvol-validate/internal/dc"
	"github.com/campuslib/mvol-validate/internal/mvol"
	"github.com/campuslib/mvol-validate/internal/seq"
	"github.com/campuslib/mvol-validate/internal/structfile"
	"github.com/campuslib/mvol-validate/internal/tiffcheck"
	"github.com/campuslib/mvol-validate/internal/validate"
)

// ValidateIssue checks a single publication issue directory: descriptive
// metadata, structural map, and both page-file sequences. It never fails
// hard; every problem becomes a finding.
func ValidateIssue(root string, c mvol.Chunk) []validate.Finding {
	id := c.String()
	dir := c.Dir(root)
	col := validate.NewCollector(id)

	rows := checkStruct(col, dir, id)
	checkDC(col, dir, id)

	tifEntries := seq.Scan(col, filepath.Join(dir, "tif"), id, "tif")
	for _, e := range tifEntries {
		if e.Size == 0 {
			continue // already reported as empty-file
		}
		checkTIFF(col, e.Path)
	}

	xmlEntries := seq.Scan(col, filepath.Join(dir, "xml"), id, "xml")
	for _, e := range xmlEntries {
		if e.Size == 0 {
			continue
		}
		checkALTO(col, e.Path)
	}

	// The image and OCR sequences must describe the same pages.
	if len(tifEntries) > 0 && len(xmlEntries) > 0 && len(tifEntries) != len(xmlEntries) {
		col.Add(validate.RuleCountMismatch, dir,
			"tif has %d entries, xml has %d", len(tifEntries), len(xmlEntries))
	}

	// Every structural-map row references a page image. Extra images without
	// a row are fine; digitized volumes often carry an unmapped cover scan.
	if len(rows) > len(tifEntries) && len(tifEntries) > 0 {
		col.Add(validate.RuleCountMismatch, filepath.Join(dir, id+".struct.txt"),
			"struct.txt references %d pages, tif has %d entries", len(rows), len(tifEntries))
	}

	return col.Findings()
}

func checkDC(col *validate.Collector, dir, id string) {
	path := filepath.Join(dir, id+".dc.xml")
	f, err := os.Open(path) // #nosec G304
	if err != nil {
		col.Add(validate.RuleMissingDC, path, "cannot open dc.xml: %v", err)
		return
	}
	defer func() { _ = f.Close() }()

	rec, err := dc.Parse(f)
	if err != nil {
		col.Add(validate.RuleBadDC, path, "%v", err)
		return
	}
	for _, field := range rec.MissingFields() {
		col.Add(validate.RuleBadDC, path, "required field dc:%s is empty", field)
	}
	if rec.Identifier != "" && rec.Identifier != id {
		col.Add(validate.RuleBadIdentifier, path,
			"dc:identifier is %q, directory is %q", rec.Identifier, id)
	}
	if rec.Date != "" && !dc.ValidDate(rec.Date) {
		col.Add(validate.RuleBadDate, path, "dc:date %q is not YYYY, YYYY-MM or YYYY-MM-DD", rec.Date)
	}
}

func checkStruct(col *validate.Collector, dir, id string) []structfile.Row {
	path := filepath.Join(dir, id+".struct.txt")
	f, err := os.Open(path) // #nosec G304
	if err != nil {
		col.Add(validate.RuleMissingStruct, path, "cannot open struct.txt: %v", err)
		return nil
	}
	defer func() { _ = f.Close() }()

	rows, err := structfile.Parse(f)
	if err != nil {
		col.Add(validate.RuleBadStruct, path, "%v", err)
		return nil
	}
	return rows
}

func checkTIFF(col *validate.Collector, path string) {
	f, err := os.Open(path) // #nosec G304
	if err != nil {
		col.Add(validate.RuleBadTIFF, path, "cannot open: %v", err)
		return
	}
	defer func() { _ = f.Close() }()

	if err := tiffcheck.Check(f); err != nil {
		col.Add(validate.RuleBadTIFF, path, "%v", err)
	}
}

func checkALTO(col *validate.Collector, path string) {
	f, err := os.Open(path) // #nosec G304
	if err != nil {
		col.Add(validate.RuleBadALTO, path, "cannot open: %v", err)
		return
	}
	defer func() { _ = f.Close() }()

	if _, err := alto.Parse(f); err != nil {
		col.Add(validate.RuleBadALTO, path, "%v", err)
	}
}
