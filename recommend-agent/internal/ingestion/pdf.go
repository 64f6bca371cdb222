package ingestion

import (
	"bytes"
	"context"
	"io"
	"os/exec"
	"strings"

	pdf "github.com/ledongthuc/pdf"
)

// ExtractTextFromPDF reads the PDF text layer. If the layer is empty it tries
// pdftotext; an empty result means the caller should OCR.
func ExtractTextFromPDF(ctx context.Context, path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	b, err := r.GetPlainText()
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, b); err != nil {
		return "", err
	}

	text := strings.TrimSpace(buf.String())
	if text != "" {
		return text, nil
	}
	if out, err := exec.CommandContext(ctx, "pdftotext", "-layout", path, "-").Output(); err == nil {
		return strings.TrimSpace(string(out)), nil
	}
	return "", nil
}
