// SPDX-License-Identifier: MIT

// Package mvol models identifiers for digitized campus publications.
//
// A publication issue is addressed by an identifier like
// "mvol-0001-0002-0003": the literal prefix "mvol" followed by a title,
// volume and issue number, each four digits. On disk the identifier maps to
// the directory <root>/mvol/0001/0002/0003.
package mvol

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

// IdentifierParts is the number of dash-separated parts in a complete
// identifier ("mvol" plus three numeric components).
const IdentifierParts = 4

var chunkPattern = regexp.MustCompile(`^mvol(-[0-9]{4}){0,3}$`)

// Chunk is a validated identifier prefix: "mvol", "mvol-0001",
// "mvol-0001-0002" or "mvol-0001-0002-0003".
type Chunk string

// ParseChunk validates s as an identifier chunk.
func ParseChunk(s string) (Chunk, error) {
	if !chunkPattern.MatchString(s) {
		return "", fmt.Errorf("invalid mvol chunk %q", s)
	}
	return Chunk(s), nil
}

// Parts returns the dash-separated components of the chunk.
func (c Chunk) Parts() []string {
	return strings.Split(string(c), "-")
}

// IsIdentifier reports whether the chunk addresses a single issue directory.
func (c Chunk) IsIdentifier() bool {
	return len(c.Parts()) == IdentifierParts
}

// Dir returns the directory the chunk addresses beneath root.
func (c Chunk) Dir(root string) string {
	return filepath.Join(append([]string{root}, c.Parts()...)...)
}

// String implements fmt.Stringer.
func (c Chunk) String() string { return string(c) }

// RootAndChunkFromPath derives a data root and an identifier chunk from a
// filesystem path. The separator is a parameter so Windows-style paths can be
// resolved on any platform.
//
// If the path ends in one of the sequence directories (jpg, tif, xml) that
// component is ignored, so running inside mvol/0001/0002/0003/tif resolves to
// the issue directory above it.
func RootAndChunkFromPath(p, sep string) (string, Chunk, error) {
	trimmed := p
	for len(trimmed) > len(sep) && strings.HasSuffix(trimmed, sep) {
		trimmed = strings.TrimSuffix(trimmed, sep)
	}
	dirs := strings.Split(trimmed, sep)

	if n := len(dirs); n > 0 {
		switch dirs[n-1] {
		case "jpg", "tif", "xml":
			dirs = dirs[:n-1]
		}
	}

	for i, d := range dirs {
		if d != "mvol" {
			continue
		}
		chunk, err := ParseChunk(strings.Join(dirs[i:], "-"))
		if err != nil {
			return "", "", fmt.Errorf("path %q: %w", p, err)
		}
		return strings.Join(dirs[:i], sep), chunk, nil
	}
	return "", "", fmt.Errorf("path %q contains no mvol directory", p)
}

// FromWorkingDirectory resolves root and chunk from the current working
// directory, so the validator can be run from inside a publication tree
// without flags.
func FromWorkingDirectory() (string, Chunk, error) {
	wd, err := os.Getwd()
	if err != nil {
		return "", "", fmt.Errorf("working directory: %w", err)
	}
	return RootAndChunkFromPath(wd, string(os.PathSeparator))
}

// Discover enumerates the complete issue identifiers beneath chunk in the
// tree rooted at root. Only directories whose remaining components are
// four-digit numbers are considered; anything else in the tree is skipped.
func Discover(root string, c Chunk) ([]Chunk, error) {
	dir := c.Dir(root)
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", dir)
	}

	var found []Chunk
	var walk func(cur Chunk) error
	walk = func(cur Chunk) error {
		if cur.IsIdentifier() {
			found = append(found, cur)
			return nil
		}
		entries, err := os.ReadDir(cur.Dir(root))
		if err != nil {
			return fmt.Errorf("read %s: %w", cur.Dir(root), err)
		}
		for _, e := range entries {
			if !e.IsDir() {
				continue
			}
			next, err := ParseChunk(string(cur) + "-" + e.Name())
			if err != nil {
				continue
			}
			if err := walk(next); err != nil {
				return err
			}
		}
		return nil
	}
	if err := walk(c); err != nil {
		return nil, err
	}

	sort.Slice(found, func(i, j int) bool { return found[i] < found[j] })
	return found, nil
}
