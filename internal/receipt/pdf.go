package receipt

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"
)

// maxPDFTextBytes caps extracted text so a pathological PDF cannot blow up
// the prompt.
const maxPDFTextBytes = 64 * 1024

// ExtractPDFText pulls the plain text out of a PDF receipt. It recovers
// from parser panics and returns an error instead; a scanned PDF with no
// text layer yields an error rather than an empty prompt.
func ExtractPDFText(data []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("receipt: panic during PDF text extraction: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("receipt: open PDF: %w", err)
	}

	plainText, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("receipt: extract PDF text: %w", err)
	}

	textBytes, err := io.ReadAll(io.LimitReader(plainText, maxPDFTextBytes))
	if err != nil {
		return "", fmt.Errorf("receipt: read PDF text: %w", err)
	}

	out := strings.TrimSpace(string(textBytes))
	if out == "" {
		return "", fmt.Errorf("receipt: PDF has no extractable text layer")
	}
	return out, nil
}
