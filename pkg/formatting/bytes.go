// Package formatting provides human-readable formatting and parsing of byte
// sizes and JSON payloads returned by language models.
package formatting

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var units = []string{"B", "KB", "MB", "GB", "TB", "PB", "EB"}

// binaryAliases maps IEC spellings onto the unit table. Both spellings are
// base-1024.
var binaryAliases = map[string]string{
	"KIB": "KB",
	"MIB": "MB",
	"GIB": "GB",
	"TIB": "TB",
	"PIB": "PB",
	"EIB": "EB",
	"K":   "KB",
	"M":   "MB",
	"G":   "GB",
}

var bytesPattern = regexp.MustCompile(`^(\d+(?:[.,]\d+)?)\s*([A-Za-z]*)$`)

// FormatBytes renders a byte count with base-1024 units, for example
// "1.5 MB". Negative precision is treated as zero and negative counts keep
// their sign.
func FormatBytes(n int64, precision int) string {
	if n == 0 {
		return "0 B"
	}
	precision = max(precision, 0)

	sign := ""
	f := float64(n)
	if f < 0 {
		sign = "-"
		f = -f
	}

	i := 0
	for f >= 1024 && i < len(units)-1 {
		f /= 1024
		i++
	}
	if i == 0 {
		precision = 0
	}

	return sign + strconv.FormatFloat(f, 'f', precision, 64) + " " + units[i]
}

// ParseBytes parses sizes such as "50MB", "1.5 GiB", "512k" or "2,5 MB".
// A bare number is a byte count. Units are case-insensitive.
func ParseBytes(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty byte size string")
	}

	m := bytesPattern.FindStringSubmatch(s)
	if m == nil {
		return 0, fmt.Errorf("invalid byte size: %q", s)
	}

	value, err := strconv.ParseFloat(strings.Replace(m[1], ",", ".", 1), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid byte size number: %w", err)
	}

	unit := strings.ToUpper(m[2])
	if unit == "" {
		return int64(value), nil
	}
	if alias, ok := binaryAliases[unit]; ok {
		unit = alias
	}

	for i, u := range units {
		if u == unit {
			return int64(value * math.Pow(1024, float64(i))), nil
		}
	}
	return 0, fmt.Errorf("unknown byte size unit: %q", m[2])
}
