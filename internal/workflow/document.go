package workflow

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/JaimeStill/beacon/internal/aids"
)

// Document is the input to an extraction run. Text carries OCR output that
// is already available; when it is empty the text is read from
// Source.LocalPath.
type Document struct {
	ID     *uuid.UUID
	Source aids.Source
	Text   string
}

// DocumentFromFile describes the file at path. The modification time stands
// in for the creation time, which most filesystems do not expose.
func DocumentFromFile(path string) (Document, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return Document{}, fmt.Errorf("resolve %s: %w", path, err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return Document{}, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return Document{}, fmt.Errorf("%s is a directory", path)
	}

	return Document{
		Source: aids.Source{
			Filename:    info.Name(),
			LocalPath:   abs,
			CreatedAt:   info.ModTime().UTC(),
			ContentType: ContentType(info.Name()),
			SizeBytes:   info.Size(),
		},
	}, nil
}

// ContentType guesses a media type from a file extension, defaulting to
// text/plain for OCR output.
func ContentType(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" || ext == ".txt" {
		return "text/plain"
	}
	if ct := mime.TypeByExtension(ext); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

// Readable reports whether a document of the given media type can be read
// as text. Unknown types are attempted; PDF and image scans need OCR first.
func Readable(contentType string) bool {
	if contentType == "" {
		return true
	}
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return strings.HasPrefix(mt, "text/") || mt == "application/octet-stream"
}

func (d Document) acquire(rt *Runtime) (string, error) {
	if !blank(d.Text) {
		return d.Text, nil
	}

	if d.Source.LocalPath == "" {
		return "", fmt.Errorf("%w: %s has no text and no local path", ErrAcquisitionFailed, d.Source.Filename)
	}

	if !Readable(d.Source.ContentType) {
		return "", fmt.Errorf("%w: %s has no OCR text (%s)", ErrAcquisitionFailed, d.Source.Filename, d.Source.ContentType)
	}

	text, err := rt.Reader.ReadText(d.Source.LocalPath)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrAcquisitionFailed, err)
	}

	if blank(text) {
		return "", fmt.Errorf("%w: %s is empty", ErrAcquisitionFailed, d.Source.Filename)
	}

	return text, nil
}

// blank reports whether text holds nothing but whitespace, control
// characters and replacement characters.
func blank(text string) bool {
	return strings.TrimFunc(text, func(r rune) bool {
		return unicode.IsSpace(r) || unicode.IsControl(r) || r == utf8.RuneError
	}) == ""
}
