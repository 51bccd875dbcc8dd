// Package testpdf generates minimal PDF files for tests that exercise a
// real native library.
package testpdf

import (
	"bytes"
	"fmt"
)

// Minimal returns a valid single-page PDF (US Letter, empty content).
func Minimal() []byte {
	var buf bytes.Buffer

	buf.WriteString("%PDF-1.4\n")

	obj1Offset := buf.Len()
	buf.WriteString("1 0 obj\n")
	buf.WriteString("<</Type/Catalog/Pages 2 0 R>>\n")
	buf.WriteString("endobj\n")

	obj2Offset := buf.Len()
	buf.WriteString("2 0 obj\n")
	buf.WriteString("<</Type/Pages/Kids[3 0 R]/Count 1>>\n")
	buf.WriteString("endobj\n")

	obj3Offset := buf.Len()
	buf.WriteString("3 0 obj\n")
	buf.WriteString("<</Type/Page/MediaBox[0 0 612 792]/Parent 2 0 R/Resources<<>>>>\n")
	buf.WriteString("endobj\n")

	xrefOffset := buf.Len()
	buf.WriteString("xref\n")
	buf.WriteString("0 4\n")
	// each xref entry is exactly 20 bytes
	fmt.Fprintf(&buf, "%010d %05d f \r\n", 0, 65535)
	fmt.Fprintf(&buf, "%010d %05d n \r\n", obj1Offset, 0)
	fmt.Fprintf(&buf, "%010d %05d n \r\n", obj2Offset, 0)
	fmt.Fprintf(&buf, "%010d %05d n \r\n", obj3Offset, 0)

	buf.WriteString("trailer\n")
	buf.WriteString("<</Size 4/Root 1 0 R>>\n")
	buf.WriteString("startxref\n")
	fmt.Fprintf(&buf, "%d\n", xrefOffset)
	buf.WriteString("%%EOF")

	return buf.Bytes()
}
