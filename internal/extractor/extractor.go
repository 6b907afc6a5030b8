// Package extractor pulls structured maritime attributes out of cleaned OCR
// text using static vocabularies and textual patterns.
//
// Each attribute follows one of three rule shapes. A labeled rule captures
// the rest of the line after a known label and stops at the first match. A
// membership rule scans the text for the longest vocabulary entry it
// contains. A presence rule looks for a keyword and inspects the surrounding
// window for negation, yielding true, false, or nothing at all.
//
// Rules never report an empty value: an attribute that is not found is left
// nil.
package extractor

import (
	"regexp"
	"strings"

	"github.com/JaimeStill/beacon/internal/fields"
	"github.com/JaimeStill/beacon/internal/vocabulary"
)

// NegationWindow is the number of characters inspected on each side of a
// presence keyword when looking for a negation.
const NegationWindow = 50

// MaxTableSamples bounds the number of rows sampled from a table. Sampling
// stops at this count regardless of how many rows remain.
const MaxTableSamples = 5

// Extractor applies the extraction rules. It holds only read-only tables and
// is safe for concurrent use.
type Extractor struct {
	vocab *vocabulary.Vocabulary

	negations  []vocabulary.Term
	markColors []vocabulary.Term
	maritime   []vocabulary.Term

	dayMark        []vocabulary.Term
	retroBand      []vocabulary.Term
	radarReflector []vocabulary.Term
	aisAtoN        []vocabulary.Term
	racon          []vocabulary.Term

	fireColors []fireColor
	rhythms    []rhythmCategory
}

type fireColor struct {
	name string
	re   *regexp.Regexp
}

type rhythmCategory struct {
	name   string
	tokens []vocabulary.Term
}

// New creates an Extractor over the tables in v.
func New(v *vocabulary.Vocabulary) *Extractor {
	e := &Extractor{
		vocab:          v,
		negations:      vocabulary.Terms(v.Negations),
		markColors:     vocabulary.Terms(v.MarkColors),
		maritime:       vocabulary.Terms(v.MaritimeTerms),
		dayMark:        vocabulary.Terms(v.Presence.DayMark),
		retroBand:      vocabulary.Terms(v.Presence.RetroReflectiveBand),
		radarReflector: vocabulary.Terms(v.Presence.RadarReflector),
		aisAtoN:        vocabulary.Terms(v.Presence.AISAtoN),
		racon:          vocabulary.Terms(v.Presence.Racon),
	}

	for _, c := range v.FireColors {
		pattern := `(?i)(?:^|[^\pL])feu\s+` + regexp.QuoteMeta(strings.ToLower(c)) + `(?:$|[^\pL])`
		e.fireColors = append(e.fireColors, fireColor{name: c, re: regexp.MustCompile(pattern)})
	}

	for _, r := range v.Rhythms {
		e.rhythms = append(e.rhythms, rhythmCategory{name: r.Category, tokens: vocabulary.Terms(r.Tokens)})
	}

	return e
}

// ExtractAll runs every rule against text.
func (e *Extractor) ExtractAll(text string) fields.Fields {
	mark := e.mark(text)

	return fields.Fields{
		Identifier:   identifier(text, e.vocab.Departments),
		HeritageName: heritageName(text),
		BaptismName:  labeled(baptismPattern, text),

		Position:       position(text),
		GeodeticSystem: geodeticSystem(text),
		Zone:           zone(text),

		SupportNature: longestMember(e.vocab.SupportNatures, text),
		SupportHeight: measure(heightPattern, text),
		BaseAltitude:  measure(altitudePattern, text),

		Mark:                mark,
		Character:           mark,
		Function:            e.function(text),
		Classification:      labeled(classificationPattern, text),
		Validity:            labeled(validityPattern, text),
		DayMark:             e.dayMarkColors(text),
		Topmark:             e.presence(text, e.dayMark),
		RetroReflectiveBand: e.presence(text, e.retroBand),
		RadarReflector:      e.presence(text, e.radarReflector),

		Fire:        e.fire(text),
		SoundSignal: e.soundSignal(text),
		AISAtoN:     e.presence(text, e.aisAtoN),
		Racon:       e.raconBeacon(text),

		AccessMode:     labeled(accessModePattern, text),
		DecisionDate:   decisionDate(text),
		OrderReference: labeled(orderReferencePattern, text),
	}
}

// ExtractGeneric runs the small, stable subset of rules that are reliable on
// any document: identifier, position, support nature, mark and decision date.
func (e *Extractor) ExtractGeneric(text string) fields.Fields {
	return fields.Fields{
		Identifier:    identifier(text, e.vocab.Departments),
		Position:      position(text),
		SupportNature: longestMember(e.vocab.SupportNatures, text),
		Mark:          e.mark(text),
		DecisionDate:  decisionDate(text),
	}
}

// Boolean applies the presence rule for an arbitrary keyword set. It returns
// nil when no keyword occurs, false when a negation appears within
// NegationWindow characters of the first keyword found, and true otherwise.
// Keywords are tried longest first.
func (e *Extractor) Boolean(text string, keywords []string) *bool {
	sorted := append([]string(nil), keywords...)
	vocabulary.LongestFirst(sorted)
	return e.presence(text, vocabulary.Terms(sorted))
}

// TermFrequency counts whole-word occurrences of each maritime term. Terms
// that do not occur are omitted.
func (e *Extractor) TermFrequency(text string) map[string]int {
	counts := make(map[string]int)
	for _, t := range e.maritime {
		if n := t.Count(text); n > 0 {
			counts[t.Text] = n
		}
	}
	return counts
}
