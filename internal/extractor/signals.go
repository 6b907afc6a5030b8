package extractor

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/JaimeStill/beacon/internal/fields"
	"github.com/JaimeStill/beacon/internal/vocabulary"
)

const (
	omnidirectionalTag = "360°"
	sectoralTag        = "Sectoriel"
)

var (
	rangePattern    = regexp.MustCompile(`(?i)portée?\s*:?\s*(\d+)\s*M`)
	morsePattern    = regexp.MustCompile(`(?:^|[^\pL\pN])([A-Z])(?:$|[^\pL\pN])`)
	omnidirectional = []string{"360°", "tout horizon"}
	sectoral        = []string{"sectoriel", "secteur"}
)

// presence implements the boolean presence rule over keywords, which are
// tried in order. Only the first keyword found is inspected for negation.
func (e *Extractor) presence(text string, keywords []vocabulary.Term) *bool {
	for _, kw := range keywords {
		start, end, ok := kw.Index(text)
		if !ok {
			continue
		}

		lo, hi := window(text, start, end, NegationWindow)
		for _, neg := range e.negations {
			for _, loc := range neg.IndexAll(text) {
				if loc[0] >= lo && loc[1] <= hi {
					return fields.Ptr(false)
				}
			}
		}
		return fields.Ptr(true)
	}
	return nil
}

// window widens [start, end) by n runes on each side, clamped to text.
func window(text string, start, end, n int) (int, int) {
	lo := start
	for i := 0; i < n && lo > 0; i++ {
		_, size := utf8.DecodeLastRuneInString(text[:lo])
		lo -= size
	}

	hi := end
	for i := 0; i < n && hi < len(text); i++ {
		_, size := utf8.DecodeRuneInString(text[hi:])
		hi += size
	}

	return lo, hi
}

// fire is emitted only when at least one sub-field was found.
func (e *Extractor) fire(text string) *fields.Fire {
	var f fields.Fire

	for _, c := range e.fireColors {
		if c.re.MatchString(text) {
			f.Color = fields.String(c.name)
			break
		}
	}

	f.Rhythm = e.rhythm(text)

	if m := rangePattern.FindStringSubmatch(text); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			f.NominalRange = &n
		}
	}

	lowered := strings.ToLower(text)
	switch {
	case containsAny(lowered, omnidirectional):
		f.Sectors = fields.String(omnidirectionalTag)
	case containsAny(lowered, sectoral):
		f.Sectors = fields.String(sectoralTag)
	}

	if f.IsZero() {
		return nil
	}
	return &f
}

// rhythm returns the first token found, checking categories in declared
// order and tokens longest first within a category.
func (e *Extractor) rhythm(text string) *string {
	for _, cat := range e.rhythms {
		for _, tok := range cat.tokens {
			if tok.In(text) {
				return fields.String(tok.Text)
			}
		}
	}
	return nil
}

func (e *Extractor) soundSignal(text string) *fields.SoundSignal {
	if t := longestMember(e.vocab.SoundAids, text); t != nil {
		return &fields.SoundSignal{Type: t}
	}
	return nil
}

// raconBeacon requires the racon presence rule to fire. An explicit negative
// is kept as Present=false. When present, the first standalone capital
// letter following the keyword on the same line is taken as the morse
// identifier.
func (e *Extractor) raconBeacon(text string) *fields.Racon {
	present := e.presence(text, e.racon)
	if present == nil {
		return nil
	}

	r := &fields.Racon{Present: present}
	if !*present {
		return r
	}

	for _, kw := range e.racon {
		_, end, ok := kw.Index(text)
		if !ok {
			continue
		}

		rest := text[end:]
		if i := strings.IndexByte(rest, '\n'); i >= 0 {
			rest = rest[:i]
		}
		if m := morsePattern.FindStringSubmatch(rest); m != nil {
			r.MorseLetter = fields.String(m[1])
		}
		break
	}

	return r
}

func containsAny(lowered string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(lowered, n) {
			return true
		}
	}
	return false
}
