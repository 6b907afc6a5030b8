package extractor

import (
	"regexp"
	"strings"

	"github.com/JaimeStill/beacon/internal/fields"
)

var tableRowPattern = regexp.MustCompile(
	`(?i)(Bouée|Balise)\s+(babord|tribord|bâbord)\s+(\d+)?\D*` +
		`(\d{2}°\s*\d{1,2}[,.\s]+\d{0,3}\s*[NS])\D*` +
		`(\d{1,3}°\s*\d{1,2}[,.\s]+\d{0,3}\s*[EWO])`,
)

// ExtractTableSamples parses up to MaxTableSamples rows of the shape
// "<buoy|beacon> <port|starboard> [number] <latitude> <longitude>".
// The result is a sample, not a complete listing of the table.
func (e *Extractor) ExtractTableSamples(text string) fields.Fields {
	var samples []fields.BuoyExample

	for _, m := range tableRowPattern.FindAllStringSubmatch(text, MaxTableSamples) {
		kind, side, number := m[1], m[2], m[3]

		samples = append(samples, fields.BuoyExample{
			Name:     fields.String(strings.TrimSpace(kind + " " + side + " " + number)),
			Position: fields.String(m[4] + ", " + m[5]),
			Mark:     fields.String("Latérale " + side),
			Number:   fields.String(number),
		})
	}

	return fields.Fields{BuoyExamples: samples}
}
