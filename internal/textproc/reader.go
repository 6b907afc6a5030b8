package textproc

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// Encoding names reported by Decode.
const (
	EncodingUTF8        = "utf-8"
	EncodingUTF16       = "utf-16"
	EncodingWindows1252 = "windows-1252"
	EncodingISO88591    = "iso-8859-1"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Reader acquires the raw text of a document stored on disk.
type Reader interface {
	ReadText(path string) (string, error)
}

// FileReader reads plain text files in whatever common encoding they use.
type FileReader struct {
	logger *slog.Logger
}

// NewFileReader creates a FileReader.
func NewFileReader(logger *slog.Logger) *FileReader {
	return &FileReader{logger: logger.With("system", "reader")}
}

// ReadText returns the decoded contents of path. It fails only when the file
// cannot be read; decoding always produces best-effort text.
func (r *FileReader) ReadText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}

	text, enc := Decode(data)
	r.logger.Debug("file read", "path", path, "encoding", enc, "chars", utf8.RuneCountInString(text))
	return text, nil
}

// Decode converts data to UTF-8 and reports the encoding it settled on. A
// byte order mark wins, then strict UTF-8, then Windows-1252, then
// ISO-8859-1, which accepts any input.
func Decode(data []byte) (string, string) {
	if bytes.HasPrefix(data, utf8BOM) {
		data = data[len(utf8BOM):]
		if utf8.Valid(data) {
			return string(data), EncodingUTF8
		}
	}

	if bytes.HasPrefix(data, []byte{0xFF, 0xFE}) || bytes.HasPrefix(data, []byte{0xFE, 0xFF}) {
		dec := unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM).NewDecoder()
		if out, err := dec.Bytes(data); err == nil {
			return string(out), EncodingUTF16
		}
	}

	if utf8.Valid(data) {
		return string(data), EncodingUTF8
	}

	if out, err := charmap.Windows1252.NewDecoder().Bytes(data); err == nil && !strings.ContainsRune(string(out), utf8.RuneError) {
		return string(out), EncodingWindows1252
	}

	out, _ := charmap.ISO8859_1.NewDecoder().Bytes(data)
	return string(out), EncodingISO88591
}
