// Package pdfextract turns uploaded PDF attachments into plain text for the
// document index worker.
package pdfextract

import (
	"bytes"
	"io"

	"github.com/ledongthuc/pdf"
)

// ExtractText drains src and returns the PDF's plain text. The underlying
// parser needs random access, so the whole document is buffered in memory;
// upload size limits keep that bounded. A PDF with no extractable text
// yields an empty string and no error.
func ExtractText(src io.Reader) (string, error) {
	raw, err := io.ReadAll(src)
	if err != nil {
		return "", err
	}
	if len(raw) == 0 {
		return "", nil
	}

	doc, err := pdf.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return "", err
	}
	plain, err := doc.GetPlainText()
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", err
	}
	return buf.String(), nil
}
