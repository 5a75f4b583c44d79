// SPDX-License-Identifier: MIT

package tiffcheck

import (
	"bytes"
	"testing"
)

// LittleEndianHeader is a minimal valid little-endian TIFF header: "II", 42,
// first IFD at offset 8.
var LittleEndianHeader = []byte{'I', 'I', 42, 0, 8, 0, 0, 0}

func TestCheckLittleEndian(t *testing.T) {
	if err := Check(bytes.NewReader(LittleEndianHeader)); err != nil {
		t.Fatalf("Check = %v, want nil", err)
	}
}

func TestCheckBigEndian(t *testing.T) {
	hdr := []byte{'M', 'M', 0, 42, 0, 0, 0, 8}
	if err := Check(bytes.NewReader(hdr)); err != nil {
		t.Fatalf("Check = %v, want nil", err)
	}
}

func TestCheckErrors(t *testing.T) {
	cases := []struct {
		name string
		in   []byte
	}{
		{"empty", nil},
		{"truncated", []byte{'I', 'I', 42}},
		{"bad byte order", []byte{'X', 'X', 42, 0, 8, 0, 0, 0}},
		{"bad magic", []byte{'I', 'I', 43, 0, 8, 0, 0, 0}},
		{"ifd offset inside header", []byte{'I', 'I', 42, 0, 4, 0, 0, 0}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := Check(bytes.NewReader(tc.in)); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}
