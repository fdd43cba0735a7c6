package pdf

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBytesProducesWellFormedDocument(t *testing.T) {
	doc := New()
	page := doc.AddPage()
	page.Text(40, 800, 14, true, "TAX INVOICE")
	page.Line(40, 790, 555, 790)

	out := doc.Bytes()

	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-1.4\n")))
	assert.True(t, bytes.HasSuffix(out, []byte("%%EOF\n")))
	assert.Contains(t, string(out), "/Count 1")
	assert.Contains(t, string(out), "(TAX INVOICE) Tj")
	assert.Contains(t, string(out), "/BaseFont /Helvetica-Bold")
}

func TestBytesMultiplePages(t *testing.T) {
	doc := New()
	for i := 0; i < 3; i++ {
		doc.AddPage().Text(40, 800, 10, false, fmt.Sprintf("page %d", i+1))
	}

	out := string(doc.Bytes())
	assert.Contains(t, out, "/Count 3")
	assert.Contains(t, out, "(page 3) Tj")
}

func TestTextEscapesDelimiters(t *testing.T) {
	doc := New()
	doc.AddPage().Text(40, 800, 10, false, `Maths (Class 9) \ reprint`)

	out := string(doc.Bytes())
	assert.Contains(t, out, `(Maths \(Class 9\) \\ reprint) Tj`)
	assert.NotContains(t, out, "(Maths (Class 9)")
}

func TestXrefOffsetsPointAtObjects(t *testing.T) {
	doc := New()
	doc.AddPage().Text(40, 800, 10, false, "hello")
	out := doc.Bytes()

	// every xref entry must point at the "N 0 obj" it indexes
	var xrefStart int
	_, err := fmt.Sscanf(string(out[bytes.LastIndex(out, []byte("startxref")):]), "startxref\n%d", &xrefStart)
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(out[xrefStart:], []byte("xref")))

	entries := bytes.Split(out[xrefStart:], []byte("\n"))
	objIndex := 0
	for _, entry := range entries {
		var offset, gen int
		var kind string
		if _, scanErr := fmt.Sscanf(string(entry), "%010d %05d %s", &offset, &gen, &kind); scanErr != nil || kind != "n" {
			continue
		}
		objIndex++
		want := fmt.Sprintf("%d 0 obj", objIndex)
		assert.True(t, bytes.HasPrefix(out[offset:], []byte(want)), "object %d offset mismatch", objIndex)
	}
	assert.Equal(t, 6, objIndex, "catalog, pages, two fonts, page, content")
}

func TestTextRightAlignsToRightEdge(t *testing.T) {
	doc := New()
	page := doc.AddPage()
	page.TextRight(550, 700, 10, false, "99.00")

	// 5 glyphs at half the font size each: left edge at 550 - 25
	assert.Contains(t, string(doc.Bytes()), "525.00 700.00 Td (99.00) Tj")
}
