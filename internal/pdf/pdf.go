// Package pdf is a minimal PDF 1.4 writer: Helvetica text, lines, and
// multi-page A4 documents. It covers exactly what invoice rendering
// needs and nothing more.
package pdf

import (
	"bytes"
	"fmt"
	"strings"
)

const (
	A4Width  = 595.28
	A4Height = 841.89
)

type Document struct {
	pages []*Page
}

type Page struct {
	content bytes.Buffer
}

func New() *Document {
	return &Document{}
}

func (d *Document) AddPage() *Page {
	p := &Page{}
	d.pages = append(d.pages, p)
	return p
}

// escape protects the PDF string delimiters.
func escape(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `(`, `\(`, `)`, `\)`)
	return r.Replace(s)
}

// textWidth approximates the rendered width in points. Helvetica averages
// close to half the font size per glyph, which is accurate enough for
// right-aligned numeric columns.
func textWidth(s string, size float64) float64 {
	return float64(len(s)) * size * 0.5
}

// Text draws s with its left edge at (x, y). y is measured from the page
// bottom, PDF-style.
func (p *Page) Text(x, y, size float64, bold bool, s string) {
	font := "/F1"
	if bold {
		font = "/F2"
	}
	fmt.Fprintf(&p.content, "BT %s %.1f Tf %.2f %.2f Td (%s) Tj ET\n", font, size, x, y, escape(s))
}

// TextRight draws s with its right edge at (x, y).
func (p *Page) TextRight(x, y, size float64, bold bool, s string) {
	p.Text(x-textWidth(s, size), y, size, bold, s)
}

// Line draws a straight line between two points.
func (p *Page) Line(x1, y1, x2, y2 float64) {
	fmt.Fprintf(&p.content, "%.2f %.2f m %.2f %.2f l S\n", x1, y1, x2, y2)
}

// Bytes assembles the document: catalog, page tree, two standard fonts,
// one content stream per page, cross-reference table, trailer.
func (d *Document) Bytes() []byte {
	var out bytes.Buffer
	out.WriteString("%PDF-1.4\n")

	type object struct {
		id   int
		body string
	}

	// 1 catalog, 2 pages, 3 helvetica, 4 helvetica-bold, then
	// alternating page and content objects.
	pageIDs := make([]int, len(d.pages))
	nextID := 5
	var objects []object

	var kids []string
	for i := range d.pages {
		pageIDs[i] = nextID
		kids = append(kids, fmt.Sprintf("%d 0 R", nextID))
		nextID += 2
	}

	objects = append(objects,
		object{1, "<< /Type /Catalog /Pages 2 0 R >>"},
		object{2, fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), len(d.pages))},
		object{3, "<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>"},
		object{4, "<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica-Bold >>"},
	)

	for i, p := range d.pages {
		pageID := pageIDs[i]
		contentID := pageID + 1
		objects = append(objects, object{pageID, fmt.Sprintf(
			"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 %.2f %.2f] /Resources << /Font << /F1 3 0 R /F2 4 0 R >> >> /Contents %d 0 R >>",
			A4Width, A4Height, contentID)})
		stream := p.content.String()
		objects = append(objects, object{contentID, fmt.Sprintf(
			"<< /Length %d >>\nstream\n%sendstream", len(stream), stream)})
	}

	offsets := make(map[int]int, len(objects))
	for _, obj := range objects {
		offsets[obj.id] = out.Len()
		fmt.Fprintf(&out, "%d 0 obj\n%s\nendobj\n", obj.id, obj.body)
	}

	xrefStart := out.Len()
	fmt.Fprintf(&out, "xref\n0 %d\n", len(objects)+1)
	out.WriteString("0000000000 65535 f \n")
	for id := 1; id <= len(objects); id++ {
		fmt.Fprintf(&out, "%010d 00000 n \n", offsets[id])
	}
	fmt.Fprintf(&out, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xrefStart)

	return out.Bytes()
}
