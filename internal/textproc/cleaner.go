// Package textproc acquires and normalizes OCR text before classification.
package textproc

import (
	"regexp"
	"strings"

	"github.com/JaimeStill/beacon/internal/vocabulary"
)

var (
	pageSeparator   = regexp.MustCompile(`-{3,}\s*Page\s+\d+\s*-{3,}`)
	excessNewlines  = regexp.MustCompile(`\n{3,}`)
	keyValueLine    = regexp.MustCompile(`(?m)^([^:\n]+?)[ \t]*:[ \t]*(.+)$`)
	quoteReplacer   = strings.NewReplacer("\u2018", "'", "\u2019", "'", "\u201c", `"`, "\u201d", `"`)
	controlReplacer = strings.NewReplacer("\x00", "", "\ufffd", "", "\r", "")
)

// Cleaner normalizes raw OCR text. Column alignment inside lines is
// preserved because table detection depends on it.
type Cleaner struct {
	mojibake       *strings.Replacer
	normalizations []normalization
	markers        []string
}

type normalization struct {
	term vocabulary.Term
	to   string
}

// NewCleaner creates a Cleaner from the repair and normalization tables in v.
func NewCleaner(v *vocabulary.Vocabulary) *Cleaner {
	pairs := make([]string, 0, len(v.Mojibake)*2)
	for _, r := range v.Mojibake {
		pairs = append(pairs, r.From, r.To)
	}

	c := &Cleaner{
		mojibake: strings.NewReplacer(pairs...),
		markers:  v.EncodingMarkers,
	}

	for _, n := range v.Normalizations {
		c.normalizations = append(c.normalizations, normalization{
			term: vocabulary.NewTerm(n.From),
			to:   n.To,
		})
	}

	return c
}

// Clean removes page separators, trailing whitespace on each line, runs of
// more than one blank line, NUL, CR and replacement characters. It also
// straightens typographic quotes and repairs known mojibake.
func (c *Cleaner) Clean(text string) string {
	if text == "" {
		return ""
	}

	text = pageSeparator.ReplaceAllString(text, "\n")

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t\r\f\v")
	}
	text = strings.Join(lines, "\n")

	text = excessNewlines.ReplaceAllString(text, "\n\n")
	text = controlReplacer.Replace(text)
	text = quoteReplacer.Replace(text)
	text = c.mojibake.Replace(text)

	return strings.TrimSpace(text)
}

// NormalizeTerms rewrites maritime terms to their canonical lowercase
// spelling, for example "BABORD" to "bâbord".
func (c *Cleaner) NormalizeTerms(text string) string {
	for _, n := range c.normalizations {
		text = n.term.Replace(text, n.to)
	}
	return text
}

// HasEncodingIssues reports whether text still contains a known
// mis-encoding marker.
func (c *Cleaner) HasEncodingIssues(text string) bool {
	for _, m := range c.markers {
		if strings.Contains(text, m) {
			return true
		}
	}
	return false
}

// Lines returns the trimmed, non-empty lines of text.
func Lines(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}

// KeyValuePairs collects "Key : Value" lines. Keys are lowercased with
// doubled spaces collapsed. A later line overrides an earlier one with the
// same key.
func KeyValuePairs(text string) map[string]string {
	pairs := make(map[string]string)
	for _, m := range keyValueLine.FindAllStringSubmatch(text, -1) {
		key := strings.ToLower(strings.TrimSpace(m[1]))
		key = strings.ReplaceAll(key, "  ", " ")
		value := strings.TrimSpace(m[2])
		if key != "" && value != "" {
			pairs[key] = value
		}
	}
	return pairs
}

// StripHeaderFooter keeps the lines after the first line containing header
// and before the last line containing footer, compared case-insensitively.
// An empty marker leaves that end untouched.
func StripHeaderFooter(text, header, footer string) string {
	lines := strings.Split(text, "\n")

	start := 0
	if header != "" {
		h := strings.ToLower(header)
		for i, line := range lines {
			if strings.Contains(strings.ToLower(line), h) {
				start = i + 1
				break
			}
		}
	}

	end := len(lines)
	if footer != "" {
		f := strings.ToLower(footer)
		for i := len(lines) - 1; i >= 0; i-- {
			if strings.Contains(strings.ToLower(lines[i]), f) {
				end = i
				break
			}
		}
	}

	if start >= end {
		return ""
	}
	return strings.Join(lines[start:end], "\n")
}
