// SPDX-License-Identifier: MIT

// Package tiffcheck sniffs TIFF page images for basic integrity without
// decoding pixel data.
package tiffcheck

import (
	"encoding/binary"
	"fmt"
	"io"
)

// headerLen covers byte order, magic number and the first IFD offset.
const headerLen = 8

const tiffMagic = 42

// Check reads the TIFF header from r and verifies byte order, magic number
// and a plausible first IFD offset. It does not decode the image.
func Check(r io.Reader) error {
	var hdr [headerLen]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return fmt.Errorf("read tiff header: %w", err)
	}

	var order binary.ByteOrder
	switch {
	case hdr[0] == 'I' && hdr[1] == 'I':
		order = binary.LittleEndian
	case hdr[0] == 'M' && hdr[1] == 'M':
		order = binary.BigEndian
	default:
		return fmt.Errorf("not a tiff file: byte order mark %q", hdr[:2])
	}

	if magic := order.Uint16(hdr[2:4]); magic != tiffMagic {
		return fmt.Errorf("not a tiff file: magic number %d", magic)
	}

	// The first IFD must start after the header.
	if offset := order.Uint32(hdr[4:8]); offset < headerLen {
		return fmt.Errorf("invalid first IFD offset %d", offset)
	}
	return nil
}
