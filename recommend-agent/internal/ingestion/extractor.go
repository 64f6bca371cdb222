package ingestion

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
)

var ErrUnsupported = errors.New("unsupported file type")

// ExtractText returns the text of a file, falling back to OCR for scanned
// PDFs and images.
func ExtractText(ctx context.Context, path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt", ".md":
		b, err := os.ReadFile(path)
		if err != nil {
			return "", err
		}
		return string(b), nil
	case ".pdf":
		text, err := ExtractTextFromPDF(ctx, path)
		if err == nil && strings.TrimSpace(text) != "" {
			return text, nil
		}
		return ExtractTextWithOCR(ctx, path)
	case ".png", ".jpg", ".jpeg":
		return ExtractTextWithOCR(ctx, path)
	default:
		return "", ErrUnsupported
	}
}
