package formatting_test

import (
	"testing"

	"github.com/JaimeStill/beacon/pkg/formatting"
)

func TestParseBytes(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int64
		wantErr bool
	}{
		{"bare bytes", "1024", 1024, false},
		{"bytes unit", "512B", 512, false},
		{"kilobytes", "1KB", 1024, false},
		{"megabytes", "50MB", 50 << 20, false},
		{"gigabytes", "2GB", 2 << 30, false},
		{"lowercase unit", "10mb", 10 << 20, false},
		{"with space", "100 MB", 100 << 20, false},
		{"iec spelling", "1.5 GiB", 3 << 29, false},
		{"short suffix", "512k", 512 << 10, false},
		{"decimal comma", "2,5 MB", 5 << 19, false},
		{"surrounding whitespace", "  50MB  ", 50 << 20, false},
		{"zero", "0", 0, false},
		{"empty string", "", 0, true},
		{"unknown unit", "50XX", 0, true},
		{"no number", "MB", 0, true},
		{"negative", "-5MB", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := formatting.ParseBytes(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseBytes(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseBytes(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		name      string
		n         int64
		precision int
		want      string
	}{
		{"zero", 0, 2, "0 B"},
		{"bytes ignore precision", 500, 2, "500 B"},
		{"one KB", 1024, 0, "1 KB"},
		{"one GB", 1 << 30, 0, "1 GB"},
		{"fractional MB", 1536 << 10, 1, "1.5 MB"},
		{"negative precision", 1024, -1, "1 KB"},
		{"negative count", -2048, 0, "-2 KB"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatting.FormatBytes(tt.n, tt.precision); got != tt.want {
				t.Errorf("FormatBytes(%d, %d) = %q, want %q", tt.n, tt.precision, got, tt.want)
			}
		})
	}
}

func TestFormatThenParse(t *testing.T) {
	for _, n := range []int64{1024, 50 << 20, 1 << 30, 1 << 40} {
		formatted := formatting.FormatBytes(n, 0)
		parsed, err := formatting.ParseBytes(formatted)
		if err != nil {
			t.Fatalf("ParseBytes(%q) error = %v", formatted, err)
		}
		if parsed != n {
			t.Errorf("%d formatted as %q parsed back to %d", n, formatted, parsed)
		}
	}
}
