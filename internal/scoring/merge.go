package scoring

import (
	"fmt"
	"slices"

	"github.com/JaimeStill/beacon/internal/fields"
)

// Precedence selects which source wins when two field sets disagree.
type Precedence string

const (
	// PreferRules keeps rule-derived values over enrichment values.
	PreferRules Precedence = "rules"
	// PreferEnrichment keeps enrichment values over rule-derived values.
	PreferEnrichment Precedence = "enrichment"
)

// ParsePrecedence validates a configured precedence. An empty string selects
// PreferRules.
func ParsePrecedence(s string) (Precedence, error) {
	switch Precedence(s) {
	case "", PreferRules:
		return PreferRules, nil
	case PreferEnrichment:
		return PreferEnrichment, nil
	default:
		return "", fmt.Errorf("unknown merge precedence %q", s)
	}
}

// MergeWith merges rule-derived and enrichment-derived fields, letting p
// decide which side is the merge base.
func MergeWith(p Precedence, rules, enrichment fields.Fields) fields.Fields {
	if p == PreferEnrichment {
		return Merge(enrichment, rules)
	}
	return Merge(rules, enrichment)
}

// Merge fills the gaps in base from incoming. Base values always win on
// conflict. Composite attributes merge per sub-field under the same rule.
// Lists keep base in order followed by the incoming elements base does not
// already contain.
//
// Merge is asymmetric: the caller decides precedence through argument order.
// Merge(a, Merge(a, b)) equals Merge(a, b), and an empty Fields is an identity
// on either side.
func Merge(base, incoming fields.Fields) fields.Fields {
	return fields.Fields{
		Identifier:   first(base.Identifier, incoming.Identifier),
		HeritageName: first(base.HeritageName, incoming.HeritageName),
		BaptismName:  first(base.BaptismName, incoming.BaptismName),

		Position:       first(base.Position, incoming.Position),
		GeodeticSystem: first(base.GeodeticSystem, incoming.GeodeticSystem),
		Zone:           first(base.Zone, incoming.Zone),

		SupportNature: first(base.SupportNature, incoming.SupportNature),
		SupportHeight: first(base.SupportHeight, incoming.SupportHeight),
		BaseAltitude:  first(base.BaseAltitude, incoming.BaseAltitude),

		Mark:                first(base.Mark, incoming.Mark),
		Character:           first(base.Character, incoming.Character),
		Function:            first(base.Function, incoming.Function),
		Classification:      first(base.Classification, incoming.Classification),
		Validity:            first(base.Validity, incoming.Validity),
		DayMark:             first(base.DayMark, incoming.DayMark),
		Topmark:             first(base.Topmark, incoming.Topmark),
		RetroReflectiveBand: first(base.RetroReflectiveBand, incoming.RetroReflectiveBand),
		RadarReflector:      first(base.RadarReflector, incoming.RadarReflector),

		Fire:        mergeFire(base.Fire, incoming.Fire),
		SoundSignal: mergeSound(base.SoundSignal, incoming.SoundSignal),
		AISAtoN:     first(base.AISAtoN, incoming.AISAtoN),
		Racon:       mergeRacon(base.Racon, incoming.Racon),

		AccessMode:     first(base.AccessMode, incoming.AccessMode),
		DecisionDate:   first(base.DecisionDate, incoming.DecisionDate),
		OrderReference: first(base.OrderReference, incoming.OrderReference),

		BuoyExamples:       union(base.BuoyExamples, incoming.BuoyExamples, fields.BuoyExample.Equal),
		MaritimeTermsCount: first(base.MaritimeTermsCount, incoming.MaritimeTermsCount),

		DetectedNames:   union(base.DetectedNames, incoming.DetectedNames, equal[string]),
		DetectedNumbers: union(base.DetectedNumbers, incoming.DetectedNumbers, equal[string]),
		Entities:        mergeEntities(base.Entities, incoming.Entities),
	}
}

func first[T any](base, incoming *T) *T {
	if base != nil {
		return base
	}
	return incoming
}

func equal[T comparable](a, b T) bool {
	return a == b
}

// union returns base followed by the elements of incoming not found in base.
func union[T any](base, incoming []T, eq func(T, T) bool) []T {
	if len(incoming) == 0 {
		return base
	}
	if len(base) == 0 {
		return slices.Clone(incoming)
	}

	out := slices.Clone(base)
	for _, v := range incoming {
		found := slices.ContainsFunc(base, func(b T) bool { return eq(b, v) })
		if !found {
			out = append(out, v)
		}
	}
	return out
}

func mergeFire(base, incoming *fields.Fire) *fields.Fire {
	if base == nil || incoming == nil {
		return first(base, incoming)
	}
	return &fields.Fire{
		Color:          first(base.Color, incoming.Color),
		Rhythm:         first(base.Rhythm, incoming.Rhythm),
		NominalRange:   first(base.NominalRange, incoming.NominalRange),
		Sectors:        first(base.Sectors, incoming.Sectors),
		SignalType:     first(base.SignalType, incoming.SignalType),
		DetailedRhythm: first(base.DetailedRhythm, incoming.DetailedRhythm),
	}
}

func mergeSound(base, incoming *fields.SoundSignal) *fields.SoundSignal {
	if base == nil || incoming == nil {
		return first(base, incoming)
	}
	return &fields.SoundSignal{
		Type:   first(base.Type, incoming.Type),
		Rhythm: first(base.Rhythm, incoming.Rhythm),
	}
}

func mergeRacon(base, incoming *fields.Racon) *fields.Racon {
	if base == nil || incoming == nil {
		return first(base, incoming)
	}
	return &fields.Racon{
		Present:     first(base.Present, incoming.Present),
		MorseLetter: first(base.MorseLetter, incoming.MorseLetter),
	}
}

func mergeEntities(base, incoming map[string][]string) map[string][]string {
	if len(incoming) == 0 {
		return base
	}

	out := make(map[string][]string, len(base)+len(incoming))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range incoming {
		out[k] = union(out[k], v, equal[string])
	}
	return out
}
