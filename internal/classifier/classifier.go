// Package classifier decides what kind of document a cleaned OCR text is and
// how deeply it should be extracted.
//
// Classification is a decision list evaluated in a fixed priority order:
// individual sheet, product catalog, table, prefectoral order, administrative
// letter, and finally other. The first rule that matches wins. Categories
// overlap on surface features, so the order is the tie-break.
package classifier

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/JaimeStill/beacon/internal/vocabulary"
)

// DefaultTableThreshold is the largest row count still treated as a simple table.
const DefaultTableThreshold = 10

const (
	shortSheetLines   = 50
	minKeyValuePairs  = 3
	minGPSLines       = 5
	minColumnLines    = 10
	minColumnRowRunes = 10
)

var (
	esmPattern      = regexp.MustCompile(`(?i)ESM\s*N°?\s*\d{7,8}`)
	syssiPattern    = regexp.MustCompile(`(?i)SYSSI\s*[:N°]?\s*\d{7,8}`)
	keyValuePattern = regexp.MustCompile(`(?m)^[^:\n]{3,40}\s*:\s*.+$`)
	gpsPattern      = regexp.MustCompile(`\d{2}°\s*\d{1,2}[,.\s]+\d{0,3}\s*[NS]`)
	columnPattern   = regexp.MustCompile(`\s{4,}`)
	articlePattern  = regexp.MustCompile(`(?i)article\s+\d+`)
)

// Classifier applies the document type decision list. It holds only
// read-only tables and is safe for concurrent use.
type Classifier struct {
	threshold   int
	sheetLabels []vocabulary.Term
	catalog     []vocabulary.Term
	order       []vocabulary.Term
	letter      []vocabulary.Term
}

// New creates a Classifier over the keyword tables in v. A threshold of zero
// or less selects DefaultTableThreshold.
func New(v *vocabulary.Vocabulary, threshold int) *Classifier {
	if threshold <= 0 {
		threshold = DefaultTableThreshold
	}

	return &Classifier{
		threshold:   threshold,
		sheetLabels: vocabulary.Terms(v.Classifier.SheetLabels),
		catalog:     vocabulary.Terms(v.Classifier.Catalog),
		order:       vocabulary.Terms(v.Classifier.Order),
		letter:      vocabulary.Terms(v.Classifier.Letter),
	}
}

// Classify returns the classification of text. It is total and deterministic.
func (c *Classifier) Classify(text string) Result {
	lines := strings.Split(text, "\n")

	if c.isIndividualSheet(text, lines) {
		return Result{
			Type:              IndividualSheet,
			Strategy:          ExtractAll,
			Complexity:        20,
			EstimatedAidCount: 1,
			Confidence:        0.9,
		}
	}

	if c.isCatalog(text) {
		return Result{
			Type:              ProductCatalog,
			Strategy:          MetadataOnly,
			Complexity:        10,
			EstimatedAidCount: 0,
			Confidence:        0.85,
		}
	}

	if isTable(lines) {
		rows := countTableRows(lines)
		if rows <= c.threshold {
			return Result{
				Type:              SimpleTable,
				Strategy:          ExtractAll,
				Complexity:        40,
				EstimatedAidCount: rows,
				Confidence:        0.8,
			}
		}
		return Result{
			Type:              ComplexTable,
			Strategy:          ExtractPartial,
			Complexity:        80,
			EstimatedAidCount: rows,
			Confidence:        0.6,
		}
	}

	if c.isPrefectoralOrder(text) {
		return Result{
			Type:              PrefectoralOrder,
			Strategy:          ExtractPartial,
			Complexity:        50,
			EstimatedAidCount: 1,
			Confidence:        0.75,
		}
	}

	if score(c.letter, text) >= 2 {
		return Result{
			Type:              AdministrativeLetter,
			Strategy:          ExtractPartial,
			Complexity:        30,
			EstimatedAidCount: 0,
			Confidence:        0.7,
		}
	}

	return Fallback()
}

// Threshold returns the simple/complex table boundary in use.
func (c *Classifier) Threshold() int {
	return c.threshold
}

// HasIdentifier reports whether text carries an ESM or SYSSI tagged identifier.
func HasIdentifier(text string) bool {
	return esmPattern.MatchString(text) || syssiPattern.MatchString(text)
}

func (c *Classifier) isIndividualSheet(text string, lines []string) bool {
	if !HasIdentifier(text) {
		return false
	}

	if len(keyValuePattern.FindAllStringIndex(text, -1)) < minKeyValuePairs {
		return false
	}

	return len(lines) < shortSheetLines || score(c.sheetLabels, text) > 0
}

func (c *Classifier) isCatalog(text string) bool {
	return score(c.catalog, text) >= 3 && !HasIdentifier(text)
}

func (c *Classifier) isPrefectoralOrder(text string) bool {
	return score(c.order, text) >= 2 || articlePattern.MatchString(text)
}

func isTable(lines []string) bool {
	return countMatching(lines, gpsPattern) >= minGPSLines ||
		countMatching(lines, columnPattern) >= minColumnLines
}

// countTableRows prefers GPS-bearing lines and falls back to column-aligned
// lines long enough to hold data.
func countTableRows(lines []string) int {
	if n := countMatching(lines, gpsPattern); n > 0 {
		return n
	}

	n := 0
	for _, line := range lines {
		if columnPattern.MatchString(line) &&
			utf8.RuneCountInString(strings.TrimSpace(line)) > minColumnRowRunes {
			n++
		}
	}
	return n
}

func countMatching(lines []string, re *regexp.Regexp) int {
	n := 0
	for _, line := range lines {
		if re.MatchString(line) {
			n++
		}
	}
	return n
}

// score counts how many distinct keywords occur in text.
func score(terms []vocabulary.Term, text string) int {
	n := 0
	for _, t := range terms {
		if t.In(text) {
			n++
		}
	}
	return n
}
