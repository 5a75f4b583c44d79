// SPDX-License-Identifier: MIT

// Package alto checks ALTO OCR documents (the per-page xml/ sequence files)
// for structural sanity.
package alto

import (
	"encoding/xml"
	"fmt"
	"io"
)

// Document is the subset of an ALTO file this validator inspects.
type Document struct {
	XMLName xml.Name `xml:"alto"`
	Layout  struct {
		Pages []Page `xml:"Page"`
	} `xml:"Layout"`
}

// Page is a single OCR page description.
type Page struct {
	ID     string `xml:"ID,attr"`
	Height int    `xml:"HEIGHT,attr"`
	Width  int    `xml:"WIDTH,attr"`
}

// Parse decodes an ALTO document and verifies it carries at least one
// Layout/Page element.
func Parse(r io.Reader) (*Document, error) {
	var doc Document
	dec := xml.NewDecoder(r)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode alto: %w", err)
	}
	if len(doc.Layout.Pages) == 0 {
		return nil, fmt.Errorf("alto document has no Layout/Page element")
	}
	return &doc, nil
}
