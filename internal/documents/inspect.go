package documents

import (
	"bytes"
	"log/slog"
	"net/http"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/JaimeStill/beacon/internal/textproc"
)

const contentTypePDF = "application/pdf"

func detectContentType(header string, data []byte) string {
	header = strings.TrimSpace(header)
	if header != "" && header != "application/octet-stream" {
		return header
	}
	return http.DetectContentType(data)
}

func isText(contentType string) bool {
	return strings.HasPrefix(contentType, "text/")
}

// decodeText returns the decoded text of text documents and nil for any
// other content type.
func decodeText(data []byte, contentType string) *string {
	if !isText(contentType) {
		return nil
	}

	text, _ := textproc.Decode(data)
	return &text
}

func extractPDFPageCount(logger *slog.Logger, data []byte, contentType string) *int {
	if !strings.HasPrefix(contentType, contentTypePDF) {
		return nil
	}

	count, err := api.PageCount(bytes.NewReader(data), nil)
	if err != nil {
		logger.Warn("failed to extract PDF page count", "error", err)
		return nil
	}

	return &count
}
