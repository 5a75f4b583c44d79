// SPDX-License-Identifier: MIT

// Package dc parses the Dublin Core descriptive metadata file
// (<identifier>.dc.xml) that accompanies every publication issue.
package dc

import (
	"encoding/xml"
	"fmt"
	"io"
	"regexp"
	"strings"
)

// Namespace is the Dublin Core element set namespace.
const Namespace = "http://purl.org/dc/elements/1.1/"

// Record holds the descriptive fields of a .dc.xml file.
type Record struct {
	XMLName     xml.Name `xml:"metadata"`
	Title       string   `xml:"http://purl.org/dc/elements/1.1/ title"`
	Date        string   `xml:"http://purl.org/dc/elements/1.1/ date"`
	Identifier  string   `xml:"http://purl.org/dc/elements/1.1/ identifier"`
	Description string   `xml:"http://purl.org/dc/elements/1.1/ description"`
}

// Parse decodes a .dc.xml document.
func Parse(r io.Reader) (*Record, error) {
	var rec Record
	dec := xml.NewDecoder(r)
	if err := dec.Decode(&rec); err != nil {
		return nil, fmt.Errorf("decode dc.xml: %w", err)
	}
	return &rec, nil
}

var datePattern = regexp.MustCompile(`^[0-9]{4}(-[0-9]{2}(-[0-9]{2})?)?$`)

// ValidDate reports whether s is an acceptable dc:date value: YYYY, YYYY-MM
// or YYYY-MM-DD.
func ValidDate(s string) bool {
	return datePattern.MatchString(s)
}

// MissingFields returns the names of required fields that are empty or
// whitespace-only.
func (r *Record) MissingFields() []string {
	var missing []string
	for _, f := range []struct {
		name  string
		value string
	}{
		{"title", r.Title},
		{"date", r.Date},
		{"identifier", r.Identifier},
		{"description", r.Description},
	} {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	return missing
}
