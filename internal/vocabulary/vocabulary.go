// Package vocabulary holds the static maritime tables that drive classification
// and field extraction: controlled vocabularies, keyword sets, and the casing
// and encoding repairs applied to OCR text.
//
// A Vocabulary is loaded once and never mutated afterwards. It is safe to share
// across goroutines and across orchestrator instances.
package vocabulary

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"slices"
	"sync"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

//go:embed vocabulary.yaml
var defaultYAML []byte

// ErrInvalidVocabulary is returned when a vocabulary document is missing a required table.
var ErrInvalidVocabulary = errors.New("invalid vocabulary")

// RhythmCategory groups light rhythm abbreviations. Categories are checked in
// declaration order; tokens within a category are longest-first.
type RhythmCategory struct {
	Category string   `yaml:"category"`
	Tokens   []string `yaml:"tokens"`
}

// Replacement is a literal from/to rewrite.
type Replacement struct {
	From string `yaml:"from"`
	To   string `yaml:"to"`
}

// Presence holds the keyword sets behind boolean presence fields.
type Presence struct {
	DayMark             []string `yaml:"day_mark"`
	RetroReflectiveBand []string `yaml:"retro_reflective_band"`
	RadarReflector      []string `yaml:"radar_reflector"`
	AISAtoN             []string `yaml:"ais_aton"`
	Racon               []string `yaml:"racon"`
}

// Keywords holds the keyword sets used by the document type decision list.
type Keywords struct {
	SheetLabels []string `yaml:"sheet_labels"`
	Catalog     []string `yaml:"catalog"`
	Order       []string `yaml:"order"`
	Letter      []string `yaml:"letter"`
}

// Vocabulary is the immutable set of tables consumed by the classifier,
// extractor and text cleaner. Callers must treat every slice as read-only.
type Vocabulary struct {
	SupportNatures  []string         `yaml:"support_natures"`
	Marks           []string         `yaml:"marks"`
	Functions       []string         `yaml:"functions"`
	FireColors      []string         `yaml:"fire_colors"`
	MarkColors      []string         `yaml:"mark_colors"`
	Rhythms         []RhythmCategory `yaml:"rhythms"`
	SoundAids       []string         `yaml:"sound_aids"`
	Departments     []string         `yaml:"departments"`
	Negations       []string         `yaml:"negations"`
	Presence        Presence         `yaml:"presence"`
	Classifier      Keywords         `yaml:"classifier"`
	MaritimeTerms   []string         `yaml:"maritime_terms"`
	Normalizations  []Replacement    `yaml:"normalizations"`
	Mojibake        []Replacement    `yaml:"mojibake"`
	EncodingMarkers []string         `yaml:"encoding_markers"`
}

var (
	defaultVocabulary *Vocabulary
	defaultOnce       sync.Once
)

// Default returns the embedded vocabulary. It panics if the embedded document
// is invalid, which can only happen through a broken build.
func Default() *Vocabulary {
	defaultOnce.Do(func() {
		v, err := Load(defaultYAML)
		if err != nil {
			panic(fmt.Sprintf("load embedded vocabulary: %v", err))
		}
		defaultVocabulary = v
	})
	return defaultVocabulary
}

// LoadFile reads and loads a vocabulary document from disk.
func LoadFile(path string) (*Vocabulary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read vocabulary: %w", err)
	}
	return Load(data)
}

// Load parses a YAML vocabulary document, validates it, and sorts every
// membership list longest-first so that specific entries shadow shorter ones.
func Load(data []byte) (*Vocabulary, error) {
	var v Vocabulary
	if err := yaml.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("parse vocabulary: %w", err)
	}

	if err := v.validate(); err != nil {
		return nil, err
	}

	v.sort()
	return &v, nil
}

func (v *Vocabulary) validate() error {
	required := map[string]int{
		"support_natures":          len(v.SupportNatures),
		"marks":                    len(v.Marks),
		"functions":                len(v.Functions),
		"fire_colors":              len(v.FireColors),
		"rhythms":                  len(v.Rhythms),
		"departments":              len(v.Departments),
		"negations":                len(v.Negations),
		"maritime_terms":           len(v.MaritimeTerms),
		"presence.radar_reflector": len(v.Presence.RadarReflector),
		"presence.racon":           len(v.Presence.Racon),
		"classifier.sheet_labels":  len(v.Classifier.SheetLabels),
		"classifier.catalog":       len(v.Classifier.Catalog),
		"classifier.order":         len(v.Classifier.Order),
		"classifier.letter":        len(v.Classifier.Letter),
	}

	for name, n := range required {
		if n == 0 {
			return fmt.Errorf("%w: %s is empty", ErrInvalidVocabulary, name)
		}
	}

	for _, r := range v.Rhythms {
		if r.Category == "" || len(r.Tokens) == 0 {
			return fmt.Errorf("%w: rhythm category %q has no tokens", ErrInvalidVocabulary, r.Category)
		}
	}

	return nil
}

func (v *Vocabulary) sort() {
	for _, list := range [][]string{
		v.SupportNatures,
		v.Marks,
		v.Functions,
		v.SoundAids,
		v.Presence.DayMark,
		v.Presence.RetroReflectiveBand,
		v.Presence.RadarReflector,
		v.Presence.AISAtoN,
		v.Presence.Racon,
	} {
		LongestFirst(list)
	}

	for i := range v.Rhythms {
		LongestFirst(v.Rhythms[i].Tokens)
	}
}

// LongestFirst sorts list in place by descending rune length. Entries of equal
// length keep their relative order.
func LongestFirst(list []string) {
	slices.SortStableFunc(list, func(a, b string) int {
		return utf8.RuneCountInString(b) - utf8.RuneCountInString(a)
	})
}
