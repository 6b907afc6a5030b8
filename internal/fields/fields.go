// Package fields defines the structured maritime attributes extracted from a
// document.
//
// Every attribute is optional. A nil pointer, nil slice or nil map means the
// attribute was not found; it is never represented by an empty string. An
// explicit false on a boolean attribute is a found negative and is distinct
// from nil. Scoring and merging both depend on that distinction.
//
// JSON names are the persisted record schema and must not change.
package fields

import "time"

// Fields is the set of maritime attributes extracted from one document.
type Fields struct {
	// Identification
	Identifier   *string `json:"n_sysi,omitempty"`
	HeritageName *string `json:"nom_patrimoine,omitempty"`
	BaptismName  *string `json:"nom_bapteme,omitempty"`

	// Location
	Position       *string `json:"position,omitempty"`
	GeodeticSystem *string `json:"systeme_geodesique,omitempty"`
	Zone           *string `json:"zone,omitempty"`

	// Support
	SupportNature *string  `json:"nature_support,omitempty"`
	SupportHeight *float64 `json:"hauteur_support,omitempty"`
	BaseAltitude  *float64 `json:"altitude_base,omitempty"`

	// Signalling
	Mark                *string `json:"marque,omitempty"`
	Character           *string `json:"caractere,omitempty"`
	Function            *string `json:"fonction,omitempty"`
	Classification      *string `json:"classement,omitempty"`
	Validity            *string `json:"validite,omitempty"`
	DayMark             *string `json:"marque_jour,omitempty"`
	Topmark             *bool   `json:"voyant,omitempty"`
	RetroReflectiveBand *bool   `json:"bande_retro_reflechissante,omitempty"`
	RadarReflector      *bool   `json:"reflecteur_radar,omitempty"`

	Fire        *Fire        `json:"feu,omitempty"`
	SoundSignal *SoundSignal `json:"aide_sonore,omitempty"`
	AISAtoN     *bool        `json:"ais_aton,omitempty"`
	Racon       *Racon       `json:"balise_racon,omitempty"`

	AccessMode     *string    `json:"mode_acces,omitempty"`
	DecisionDate   *time.Time `json:"date_decision,omitempty"`
	OrderReference *string    `json:"reference_arrete,omitempty"`

	// Table sampling and partial extraction
	BuoyExamples       []BuoyExample `json:"exemples_bouees,omitempty"`
	MaritimeTermsCount *int          `json:"maritime_terms_count,omitempty"`

	// Supplementary enrichment
	DetectedNames   []string            `json:"noms_detectes,omitempty"`
	DetectedNumbers []string            `json:"nombres_detectes,omitempty"`
	Entities        map[string][]string `json:"entites_nlp,omitempty"`
}

// Fire describes the characteristics of a light.
type Fire struct {
	Color          *string `json:"couleur,omitempty"`
	Rhythm         *string `json:"rythme,omitempty"`
	NominalRange   *int    `json:"portee_nominale,omitempty"`
	Sectors        *string `json:"secteurs,omitempty"`
	SignalType     *string `json:"type_signal,omitempty"`
	DetailedRhythm *string `json:"rythme_detaille,omitempty"`
}

// IsZero reports whether no sub-field is set.
func (f Fire) IsZero() bool {
	return f == Fire{}
}

// SoundSignal describes a fog signal.
type SoundSignal struct {
	Type   *string `json:"type,omitempty"`
	Rhythm *string `json:"rythme,omitempty"`
}

// IsZero reports whether no sub-field is set.
func (s SoundSignal) IsZero() bool {
	return s == SoundSignal{}
}

// Racon describes a radar transponder beacon.
type Racon struct {
	Present     *bool   `json:"present,omitempty"`
	MorseLetter *string `json:"lettre_morse,omitempty"`
}

// IsZero reports whether no sub-field is set.
func (r Racon) IsZero() bool {
	return r == Racon{}
}

// BuoyExample is one row sampled from a table of buoys or beacons.
type BuoyExample struct {
	Name     *string `json:"nom,omitempty"`
	Position *string `json:"position,omitempty"`
	Mark     *string `json:"marque,omitempty"`
	Number   *string `json:"numero,omitempty"`
}

// Equal compares examples by value rather than by pointer identity.
func (b BuoyExample) Equal(o BuoyExample) bool {
	return equalPtr(b.Name, o.Name) &&
		equalPtr(b.Position, o.Position) &&
		equalPtr(b.Mark, o.Mark) &&
		equalPtr(b.Number, o.Number)
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T {
	return &v
}

// String returns a pointer to s, or nil when s is empty.
func String(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func equalPtr[T comparable](a, b *T) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
