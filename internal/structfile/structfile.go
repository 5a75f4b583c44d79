// SPDX-License-Identifier: MIT

// Package structfile parses the tab-separated structural map
// (<identifier>.struct.txt) of a publication issue. Each row maps an object
// label to a page number, with an optional milestone column.
package structfile

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
)

// Row is one line of a struct.txt file. Object and Milestone are free-form
// and may be empty; Page is always a four-digit number.
type Row struct {
	Object    string
	Page      string
	Milestone string
}

var pagePattern = regexp.MustCompile(`^[0-9]{4}$`)

// Parse reads a struct.txt document. It fails on the first malformed row,
// reporting its line number. Page numbers must be strictly increasing.
func Parse(r io.Reader) ([]Row, error) {
	var rows []Row
	lastPage := -1

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}

		fields := strings.Split(line, "\t")
		if len(fields) < 2 || len(fields) > 3 {
			return nil, fmt.Errorf("line %d: expected 2 or 3 tab-separated columns, got %d", lineNo, len(fields))
		}

		row := Row{Object: fields[0], Page: fields[1]}
		if len(fields) == 3 {
			row.Milestone = fields[2]
		}

		if !pagePattern.MatchString(row.Page) {
			return nil, fmt.Errorf("line %d: page %q is not a four-digit number", lineNo, row.Page)
		}
		page, err := strconv.Atoi(row.Page)
		if err != nil {
			return nil, fmt.Errorf("line %d: page %q: %w", lineNo, row.Page, err)
		}
		if page <= lastPage {
			return nil, fmt.Errorf("line %d: page %04d not greater than previous page %04d", lineNo, page, lastPage)
		}
		lastPage = page

		rows = append(rows, row)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read struct.txt: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("struct.txt contains no rows")
	}
	return rows, nil
}
