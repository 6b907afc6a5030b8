package documents

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDetectContentType(t *testing.T) {
	tests := []struct {
		name   string
		header string
		data   []byte
		want   string
	}{
		{"header wins", "text/plain", []byte("%PDF-1.7"), "text/plain"},
		{"octet stream sniffed", "application/octet-stream", []byte("%PDF-1.7\n"), "application/pdf"},
		{"empty header sniffed", "", []byte("Phare d'Ar Men"), "text/plain; charset=utf-8"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := detectContentType(tt.header, tt.data); got != tt.want {
				t.Errorf("detectContentType() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDecodeText(t *testing.T) {
	got := decodeText([]byte{'B', 'o', 'u', 0xE9, 'e'}, "text/plain")
	if got == nil || *got != "Bouée" {
		t.Errorf("decodeText() = %v, want Bouée", got)
	}

	if got := decodeText([]byte("%PDF-1.7"), "application/pdf"); got != nil {
		t.Errorf("decodeText() = %q, want nil for pdf", *got)
	}
}

func TestExtractPDFPageCountSkipsText(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	if got := extractPDFPageCount(logger, []byte("texte"), "text/plain"); got != nil {
		t.Errorf("extractPDFPageCount() = %d, want nil", *got)
	}
	if got := extractPDFPageCount(logger, []byte("not a pdf"), "application/pdf"); got != nil {
		t.Errorf("extractPDFPageCount() = %d, want nil for corrupt pdf", *got)
	}
}

func TestMatchFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.txt", "a.txt", "scan.pdf", "sub/c.txt"} {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	got, err := MatchFiles(dir, "")
	if err != nil {
		t.Fatalf("MatchFiles() error = %v", err)
	}

	want := []string{
		filepath.Join(dir, "a.txt"),
		filepath.Join(dir, "b.txt"),
		filepath.Join(dir, "sub", "c.txt"),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("MatchFiles() mismatch (-want +got):\n%s", diff)
	}

	if _, err := MatchFiles(filepath.Join(dir, "absent"), ""); err == nil {
		t.Error("MatchFiles() on missing dir returned nil error")
	}
	if _, err := MatchFiles(dir, "[bad"); err == nil {
		t.Error("MatchFiles() with malformed pattern returned nil error")
	}
}

func TestSanitizeFilename(t *testing.T) {
	tests := map[string]string{
		"fiche ar men.txt": "fiche%20ar%20men.txt",
		"../../etc/passwd": "passwd",
		"":                 "document",
	}

	for in, want := range tests {
		if got := sanitizeFilename(in); got != want {
			t.Errorf("sanitizeFilename(%q) = %q, want %q", in, got, want)
		}
	}
}
