// SPDX-License-Identifier: MIT

package jobs

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/campuslib/mvol-validate/internal/mvol"
	"github.com/campuslib/mvol-validate/internal/seq"
)

// tiffHeader is a minimal valid little-endian TIFF header.
var tiffHeader = []byte{'I', 'I', 42, 0, 8, 0, 0, 0}

const altoDoc = `<?xml version="1.0" encoding="utf-8"?>
<alto xmlns="http://www.loc.gov/standards/alto/ns-v2#">
  <Layout>
    <Page ID="P0" HEIGHT="5424" WIDTH="4432">
      <PrintSpace>
        <TextBlock ID="P0_TB00001">
          <TextLine ID="P0_TL00001">
            <String ID="P0_S00001" CONTENT="FOUNDED" WC="0.926050365" />
          </TextLine>
        </TextBlock>
      </PrintSpace>
    </Page>
  </Layout>
</alto>`

type issueSpec struct {
	pages     int
	noDC      bool
	noStruct  bool
	noTIF     bool
	noXML     bool
	emptyTIFs bool
	emptyXMLs bool
	dcIdent   string // overrides dc:identifier when set
	dcDate    string // overrides dc:date when set
	structLen int    // overrides struct.txt row count when > 0
}

// makeIssue builds an issue directory under root, mirroring the layout of a
// digitized publication.
func makeIssue(t *testing.T, root string, c mvol.Chunk, spec issueSpec) {
	t.Helper()
	id := c.String()
	dir := c.Dir(root)
	require.NoError(t, os.MkdirAll(dir, 0o750))

	if spec.pages == 0 {
		spec.pages = 4
	}

	if !spec.noDC {
		ident := spec.dcIdent
		if ident == "" {
			ident = id
		}
		date := spec.dcDate
		if date == "" {
			date = "2023-04"
		}
		doc := fmt.Sprintf(`<?xml version="1.0"?>
<metadata xmlns:dc="http://purl.org/dc/elements/1.1/">
  <dc:title>Title</dc:title>
  <dc:date>%s</dc:date>
  <dc:identifier>%s</dc:identifier>
  <dc:description>Description</dc:description>
</metadata>`, date, ident)
		require.NoError(t, os.WriteFile(filepath.Join(dir, id+".dc.xml"), []byte(doc), 0o640))
	}

	if !spec.noStruct {
		n := spec.structLen
		if n == 0 {
			n = spec.pages
		}
		var b strings.Builder
		for i := 0; i < n; i++ {
			fmt.Fprintf(&b, "%d\t%04d\t\n", i, i+1)
		}
		require.NoError(t, os.WriteFile(filepath.Join(dir, id+".struct.txt"), []byte(b.String()), 0o640))
	}

	if !spec.noTIF {
		tifDir := filepath.Join(dir, "tif")
		require.NoError(t, os.MkdirAll(tifDir, 0o750))
		for i := 0; i < spec.pages; i++ {
			var data []byte
			if !spec.emptyTIFs {
				data = append(append([]byte{}, tiffHeader...), "pixels"...)
			}
			require.NoError(t, os.WriteFile(filepath.Join(tifDir, seq.FileName(id, i, "tif")), data, 0o640))
		}
	}

	if !spec.noXML {
		xmlDir := filepath.Join(dir, "xml")
		require.NoError(t, os.MkdirAll(xmlDir, 0o750))
		for i := 0; i < spec.pages; i++ {
			var data []byte
			if !spec.emptyXMLs {
				data = []byte(altoDoc)
			}
			require.NoError(t, os.WriteFile(filepath.Join(xmlDir, seq.FileName(id, i, "xml")), data, 0o640))
		}
	}
}
