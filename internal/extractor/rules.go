package extractor

import (
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/JaimeStill/beacon/internal/fields"
	"github.com/JaimeStill/beacon/internal/vocabulary"
)

var (
	esmPattern       = regexp.MustCompile(`(?i)ESM\s*N°?\s*(\d{7,8})`)
	syssiPattern     = regexp.MustCompile(`(?i)SYSSI\s*[:N°]?\s*(\d{7,8})`)
	bareIDPattern    = regexp.MustCompile(`\b\d{7,8}\b`)
	coordsPattern    = regexp.MustCompile(`\d{1,2}[°\s]*\d{1,2}[,.\s]*\d{0,3}\s*['′]?\s*[NS]\s*,?\s*\d{1,3}[°\s]*\d{1,2}[,.\s]*\d{0,3}\s*['′]?\s*[EWO]`)
	decimalPattern   = regexp.MustCompile(`\d{1,2}\.\d{4,}\s*[NS]\s*,?\s*\d{1,3}\.\d{4,}\s*[EWO]`)
	geodeticPattern  = regexp.MustCompile(`(?i)Système géodésique[ \t]*:[ \t]*([A-Z0-9 ]+)`)
	wgs84Pattern     = regexp.MustCompile(`(?i)WGS\s*84`)
	datePattern      = regexp.MustCompile(`\d{1,2}[/-]\d{1,2}[/-]\d{2,4}`)
	heightPattern    = regexp.MustCompile(`(?i)Hauteur du support\s*:\s*(\d+(?:[.,]\d+)?)\s*m`)
	altitudePattern  = regexp.MustCompile(`(?i)Altitude de la base\s*:\s*(\d+(?:[.,]\d+)?)\s*m`)
	characterPattern = regexp.MustCompile(`(?i)Caractère[ \t]*:[ \t]*([^\n]+)`)
	functionPattern  = regexp.MustCompile(`(?i)Fonction[ \t]*:[ \t]*([^\n]+)`)

	baptismPattern        = regexp.MustCompile(`(?i)Nom de Bapt[èê]me[ \t]*:?[ \t]*(\pL[^\n]+)`)
	classificationPattern = regexp.MustCompile(`(?i)Classement\s+dominant[ \t]*:[ \t]*([^\n]+)`)
	validityPattern       = regexp.MustCompile(`(?i)Validité[ \t]*:[ \t]*([^\n]+)`)
	accessModePattern     = regexp.MustCompile(`(?i)Mode d'Accès[ \t]*:[ \t]*([^\n]+)`)
	orderReferencePattern = regexp.MustCompile(`(?i)Arrêté\s+n°?[\s:]*([\pL\pN_\-/]+)`)

	heritagePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:nom\s+de\s+)?patrimoine[ \t]*:?[ \t]*(\pL[^\n]+)`),
		regexp.MustCompile(`(?i)nom\s+officiel[ \t]*:?[ \t]*(\pL[^\n]+)`),
	}

	zonePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:zone|secteur|estuaire|chenal)\s+(?:(?:de|du)[ \t]+|d')(\pL[\pL\- ]+)`),
		regexp.MustCompile(`(?i)(\pL[\pL\- ]+?)[ \t]+(?:estuaire|chenal|goulet)`),
	}

	dateLayouts = []string{"2/1/2006", "2-1-2006", "2/1/06", "2-1-06"}
)

// identifier checks, in order, an ESM tag, a SYSSI tag, and a bare 7-8 digit
// number whose first two digits are a coastal department code.
func identifier(text string, departments []string) *string {
	if m := esmPattern.FindStringSubmatch(text); m != nil {
		return fields.String(m[1])
	}

	if m := syssiPattern.FindStringSubmatch(text); m != nil {
		return fields.String(m[1])
	}

	for _, num := range bareIDPattern.FindAllString(text, -1) {
		if slices.Contains(departments, num[:2]) {
			return fields.String(num)
		}
	}

	return nil
}

// position prefers degree-minute coordinates over decimal degrees.
func position(text string) *string {
	if m := coordsPattern.FindString(text); m != "" {
		return fields.String(strings.TrimSpace(m))
	}
	if m := decimalPattern.FindString(text); m != "" {
		return fields.String(strings.TrimSpace(m))
	}
	return nil
}

func geodeticSystem(text string) *string {
	if v := labeled(geodeticPattern, text); v != nil {
		return v
	}
	if wgs84Pattern.MatchString(text) {
		return fields.String("WGS 84")
	}
	return nil
}

func zone(text string) *string {
	return firstLabeled(zonePatterns, text)
}

func heritageName(text string) *string {
	return firstLabeled(heritagePatterns, text)
}

// mark prefers a known mark named on the "Caractère" line, then any known
// mark anywhere in the text.
func (e *Extractor) mark(text string) *string {
	if m := characterPattern.FindStringSubmatch(text); m != nil {
		if v := longestMember(e.vocab.Marks, m[1]); v != nil {
			return v
		}
	}
	return longestMember(e.vocab.Marks, text)
}

// function uses the labeled value verbatim when present.
func (e *Extractor) function(text string) *string {
	if v := labeled(functionPattern, text); v != nil {
		return v
	}
	return longestMember(e.vocab.Functions, text)
}

// dayMarkColors joins every mark colour found, in vocabulary order.
func (e *Extractor) dayMarkColors(text string) *string {
	var found []string
	for _, c := range e.markColors {
		if c.In(text) && !slices.Contains(found, c.Text) {
			found = append(found, c.Text)
		}
	}
	if len(found) == 0 {
		return nil
	}
	return fields.String(strings.Join(found, "/"))
}

// decisionDate parses the first date-shaped token. A token that fits no
// layout yields nil; later tokens are not tried.
func decisionDate(text string) *time.Time {
	m := datePattern.FindString(text)
	if m == "" {
		return nil
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, m); err == nil {
			return &t
		}
	}
	return nil
}

func measure(re *regexp.Regexp, text string) *float64 {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return nil
	}

	v, err := strconv.ParseFloat(strings.Replace(m[1], ",", ".", 1), 64)
	if err != nil {
		return nil
	}
	return &v
}

// labeled returns the trimmed first capture group of re, or nil.
func labeled(re *regexp.Regexp, text string) *string {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	return fields.String(strings.TrimSpace(m[1]))
}

func firstLabeled(patterns []*regexp.Regexp, text string) *string {
	for _, re := range patterns {
		if v := labeled(re, text); v != nil {
			return v
		}
	}
	return nil
}

// longestMember returns the first entry of list contained in text, compared
// case-insensitively. list must already be sorted longest first.
func longestMember(list []string, text string) *string {
	lowered := strings.ToLower(text)
	for _, entry := range list {
		if vocabulary.ContainsFold(lowered, entry) {
			return fields.String(entry)
		}
	}
	return nil
}
