// SPDX-License-Identifier: MIT

// Package seq validates the numbered page-file sequences (tif/, xml/) of a
// publication issue directory.
package seq

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"

	"github.com/campuslib/mvol-validate/internal/validate"
)

// Entry is a well-named sequence file.
type Entry struct {
	Name   string
	Path   string
	Number int
	Size   int64
}

// Scan reads the sequence directory dir, recording findings on c for
// structural problems: a missing or empty directory, entries that do not
// match <identifier>_NNNN.<ext>, zero-length files, and gaps in the
// numbering. It returns the well-named entries ordered by number so callers
// can run per-file content checks.
func Scan(c *validate.Collector, dir, identifier, ext string) []Entry {
	entries, err := os.ReadDir(dir)
	if err != nil {
		c.Add(validate.RuleMissingSeq, dir, "cannot read sequence directory: %v", err)
		return nil
	}
	if len(entries) == 0 {
		c.Add(validate.RuleMissingSeq, dir, "sequence directory is empty")
		return nil
	}

	pattern := regexp.MustCompile(`^` + regexp.QuoteMeta(identifier) + `_([0-9]{4})\.` + regexp.QuoteMeta(ext) + `$`)

	var found []Entry
	for _, e := range entries {
		if e.IsDir() {
			c.Add(validate.RuleBadName, filepath.Join(dir, e.Name()), "unexpected subdirectory in sequence")
			continue
		}
		m := pattern.FindStringSubmatch(e.Name())
		if m == nil {
			c.Add(validate.RuleBadName, filepath.Join(dir, e.Name()),
				"name does not match %s_NNNN.%s", identifier, ext)
			continue
		}
		num, err := strconv.Atoi(m[1])
		if err != nil {
			c.Add(validate.RuleBadName, filepath.Join(dir, e.Name()), "bad sequence number: %v", err)
			continue
		}
		info, err := e.Info()
		if err != nil {
			c.Add(validate.RuleMissingSeq, filepath.Join(dir, e.Name()), "cannot stat: %v", err)
			continue
		}
		entry := Entry{
			Name:   e.Name(),
			Path:   filepath.Join(dir, e.Name()),
			Number: num,
			Size:   info.Size(),
		}
		if entry.Size == 0 {
			c.Add(validate.RuleEmptyFile, entry.Path, "file is empty")
		}
		found = append(found, entry)
	}

	sort.Slice(found, func(i, j int) bool { return found[i].Number < found[j].Number })

	// Numbering must be contiguous from its lowest value.
	for i := 1; i < len(found); i++ {
		if found[i].Number != found[i-1].Number+1 {
			c.Add(validate.RuleGap, dir, "numbering jumps from %04d to %04d",
				found[i-1].Number, found[i].Number)
		}
	}
	return found
}

// FileName renders the canonical sequence file name for a page number.
func FileName(identifier string, number int, ext string) string {
	return fmt.Sprintf("%s_%04d.%s", identifier, number, ext)
}
