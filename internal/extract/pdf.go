package extract

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"unicode"

	pdf "github.com/ledongthuc/pdf"
)

// ErrNoText indicates the document parsed fine but contained no extractable
// text. Callers treat it as a client-input error, unlike parser failures.
var ErrNoText = errors.New("no text content found in PDF")

// Text extracts the plain text of a PDF given its raw bytes.
// Returns ErrNoText when the extracted text is empty or whitespace-only.
func Text(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}

	var sb strings.Builder
	pages := reader.NumPage()
	for i := 1; i <= pages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			// A single unreadable page should not sink the document.
			continue
		}
		sb.WriteString(text)
		sb.WriteString("\n")
	}

	out := collapseWhitespace(sb.String())
	if out == "" {
		return "", ErrNoText
	}
	return out, nil
}

// collapseWhitespace squeezes runs of whitespace into single spaces and trims
// the result, so downstream prompt truncation counts real characters.
func collapseWhitespace(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	inSpace := false
	for _, r := range s {
		if unicode.IsSpace(r) {
			inSpace = true
			continue
		}
		if inSpace && sb.Len() > 0 {
			sb.WriteByte(' ')
		}
		inSpace = false
		sb.WriteRune(r)
	}
	return sb.String()
}
