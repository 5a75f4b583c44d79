// SPDX-License-Identifier: MIT

package mvol

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseChunk(t *testing.T) {
	valid := []string{"mvol", "mvol-0001", "mvol-0001-0002", "mvol-0001-0002-0003"}
	for _, s := range valid {
		if _, err := ParseChunk(s); err != nil {
			t.Errorf("ParseChunk(%q) = %v, want nil", s, err)
		}
	}

	invalid := []string{
		"",
		"mvol-",
		"mvol-1",
		"mvol-00001",
		"mvol-0001-0002-0003-0004",
		"mvol-0001-weird_dir",
		"vol-0001",
	}
	for _, s := range invalid {
		if _, err := ParseChunk(s); err == nil {
			t.Errorf("ParseChunk(%q) = nil, want error", s)
		}
	}
}

func TestRootAndChunkFromPath(t *testing.T) {
	cases := []struct {
		path  string
		sep   string
		root  string
		chunk Chunk
	}{
		{"/data/mvol", "/", "/data", "mvol"},
		{`C:\Data\mvol`, `\`, `C:\Data`, "mvol"},
		{"/data/mvol/0001", "/", "/data", "mvol-0001"},
		{`C:\Data\mvol\0001`, `\`, `C:\Data`, "mvol-0001"},
		{"/data/mvol/0001/0002", "/", "/data", "mvol-0001-0002"},
		{`C:\Data\mvol\0001\0002`, `\`, `C:\Data`, "mvol-0001-0002"},
		{"/data/mvol/0001/0002/0003", "/", "/data", "mvol-0001-0002-0003"},
		{`C:\Data\mvol\0001\0002\0003`, `\`, `C:\Data`, "mvol-0001-0002-0003"},
		{"/data/mvol/0001/0002/0003/jpg", "/", "/data", "mvol-0001-0002-0003"},
		{`C:\Data\mvol\0001\0002\0003\jpg`, `\`, `C:\Data`, "mvol-0001-0002-0003"},
		{"/data/mvol/0001/0002/0003/tif", "/", "/data", "mvol-0001-0002-0003"},
		{`C:\Data\mvol\0001\0002\0003\tif`, `\`, `C:\Data`, "mvol-0001-0002-0003"},
		{"/data/mvol/0001/0002/0003/xml", "/", "/data", "mvol-0001-0002-0003"},
		{`C:\Data\mvol\0001\0002\0003\xml`, `\`, `C:\Data`, "mvol-0001-0002-0003"},
		{"/data/mvol/0001/0002/0003/", "/", "/data", "mvol-0001-0002-0003"},
	}

	for _, tc := range cases {
		root, chunk, err := RootAndChunkFromPath(tc.path, tc.sep)
		if err != nil {
			t.Errorf("RootAndChunkFromPath(%q) error: %v", tc.path, err)
			continue
		}
		if root != tc.root || chunk != tc.chunk {
			t.Errorf("RootAndChunkFromPath(%q) = (%q, %q), want (%q, %q)",
				tc.path, root, chunk, tc.root, tc.chunk)
		}
	}
}

func TestRootAndChunkFromPathErrors(t *testing.T) {
	bad := []struct {
		path string
		sep  string
	}{
		{"/data/no_mvol_dir", "/"},
		{`C:\Data\no_mvol_dir`, `\`},
		{"/data/mvol/0001/0002/0003/0004", "/"},
		{`C:\Data\mvol\0001\0002\0003\0004`, `\`},
		{"/data/mvol/0001/0002/weird_dir", "/"},
		{`C:\Data\mvol\0001\0002\weird_dir`, `\`},
	}
	for _, tc := range bad {
		if _, _, err := RootAndChunkFromPath(tc.path, tc.sep); err == nil {
			t.Errorf("RootAndChunkFromPath(%q) = nil, want error", tc.path)
		}
	}
}

func TestChunkDir(t *testing.T) {
	c, err := ParseChunk("mvol-0001-0002-0003")
	if err != nil {
		t.Fatal(err)
	}
	want := filepath.Join("/data", "mvol", "0001", "0002", "0003")
	if got := c.Dir("/data"); got != want {
		t.Fatalf("Dir = %q, want %q", got, want)
	}
	if !c.IsIdentifier() {
		t.Fatal("expected complete identifier")
	}
	if Chunk("mvol-0001").IsIdentifier() {
		t.Fatal("partial chunk must not be an identifier")
	}
}

func TestDiscover(t *testing.T) {
	root := t.TempDir()
	for _, rel := range []string{
		"mvol/0001/0002/0003",
		"mvol/0001/0002/0004",
		"mvol/0002/0001/0001",
	} {
		if err := os.MkdirAll(filepath.Join(root, filepath.FromSlash(rel)), 0o750); err != nil {
			t.Fatal(err)
		}
	}
	// Noise that must be skipped.
	if err := os.MkdirAll(filepath.Join(root, "mvol", "0001", "notes"), 0o750); err != nil {
		t.Fatal(err)
	}

	got, err := Discover(root, "mvol")
	if err != nil {
		t.Fatal(err)
	}
	want := []Chunk{"mvol-0001-0002-0003", "mvol-0001-0002-0004", "mvol-0002-0001-0001"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Discover mismatch (-want +got):\n%s", diff)
	}

	got, err = Discover(root, "mvol-0001-0002")
	if err != nil {
		t.Fatal(err)
	}
	want = []Chunk{"mvol-0001-0002-0003", "mvol-0001-0002-0004"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Discover scoped mismatch (-want +got):\n%s", diff)
	}
}

func TestDiscoverMissingRoot(t *testing.T) {
	if _, err := Discover(filepath.Join(t.TempDir(), "absent"), "mvol"); err == nil {
		t.Fatal("expected error for missing directory")
	}
}
