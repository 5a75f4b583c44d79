// SPDX-License-Identifier: MIT

package seq

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/campuslib/mvol-validate/internal/validate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ident = "mvol-0001-0002-0003"

func writeSeq(t *testing.T, dir string, numbers []int, ext string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o750))
	for _, n := range numbers {
		require.NoError(t, os.WriteFile(filepath.Join(dir, FileName(ident, n, ext)), []byte("data"), 0o640))
	}
}

func rules(findings []validate.Finding) []validate.Rule {
	out := make([]validate.Rule, 0, len(findings))
	for _, f := range findings {
		out = append(out, f.Rule)
	}
	return out
}

func TestScanClean(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "tif")
	writeSeq(t, dir, []int{0, 1, 2, 3}, "tif")

	c := validate.NewCollector(ident)
	entries := Scan(c, dir, ident, "tif")
	assert.True(t, c.IsValid(), "findings: %v", c.Findings())
	require.Len(t, entries, 4)
	assert.Equal(t, 0, entries[0].Number)
	assert.Equal(t, FileName(ident, 3, "tif"), entries[3].Name)
}

func TestScanMissingDirectory(t *testing.T) {
	c := validate.NewCollector(ident)
	entries := Scan(c, filepath.Join(t.TempDir(), "tif"), ident, "tif")
	assert.Nil(t, entries)
	assert.Contains(t, rules(c.Findings()), validate.RuleMissingSeq)
}

func TestScanEmptyDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "xml")
	require.NoError(t, os.MkdirAll(dir, 0o750))

	c := validate.NewCollector(ident)
	Scan(c, dir, ident, "xml")
	assert.Contains(t, rules(c.Findings()), validate.RuleMissingSeq)
}

func TestScanEmptyFiles(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "tif")
	require.NoError(t, os.MkdirAll(dir, 0o750))
	for n := 0; n < 3; n++ {
		require.NoError(t, os.WriteFile(filepath.Join(dir, FileName(ident, n, "tif")), nil, 0o640))
	}

	c := validate.NewCollector(ident)
	entries := Scan(c, dir, ident, "tif")
	require.Len(t, entries, 3)
	got := rules(c.Findings())
	require.Len(t, got, 3)
	for _, r := range got {
		assert.Equal(t, validate.RuleEmptyFile, r)
	}
}

func TestScanBadNames(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "tif")
	writeSeq(t, dir, []int{0, 1}, "tif")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "stray.txt"), []byte("x"), 0o640))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "mvol-9999-0000-0000_0002.tif"), []byte("x"), 0o640))

	c := validate.NewCollector(ident)
	entries := Scan(c, dir, ident, "tif")
	assert.Len(t, entries, 2)
	got := rules(c.Findings())
	require.Len(t, got, 2)
	for _, r := range got {
		assert.Equal(t, validate.RuleBadName, r)
	}
}

func TestScanGap(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "xml")
	writeSeq(t, dir, []int{0, 1, 3, 4, 7}, "xml")

	c := validate.NewCollector(ident)
	entries := Scan(c, dir, ident, "xml")
	assert.Len(t, entries, 5)
	assert.Equal(t, []validate.Rule{validate.RuleGap, validate.RuleGap}, rules(c.Findings()))
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "mvol-0001-0002-0003_0009.tif", FileName(ident, 9, "tif"))
}
