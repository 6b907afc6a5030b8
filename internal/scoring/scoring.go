// Package scoring computes how trustworthy an extraction is and merges field
// sets from different sources.
package scoring

import (
	"math"

	"github.com/JaimeStill/beacon/internal/classifier"
	"github.com/JaimeStill/beacon/internal/fields"
)

const (
	criticalWeight  = 0.7
	importantWeight = 0.3
	defaultBase     = 0.5
)

var baseScores = map[classifier.DocType]float64{
	classifier.IndividualSheet:      0.9,
	classifier.SimpleTable:          0.8,
	classifier.ComplexTable:         0.6,
	classifier.PrefectoralOrder:     0.7,
	classifier.AdministrativeLetter: 0.5,
	classifier.ProductCatalog:       0.1,
	classifier.Other:                0.5,
}

// Base returns the starting score for a document type. Unknown types score
// as Other.
func Base(t classifier.DocType) float64 {
	if s, ok := baseScores[t]; ok {
		return s
	}
	return defaultBase
}

// Score rates f for a document of type t:
//
//	base(t) * (0.7 * critical/5 + 0.3 * important/3)
//
// Critical attributes are identifier, heritage name, baptism name, support
// nature and position. Important attributes are mark, function and radar
// reflector. An explicit false counts as present. The result is rounded to
// two decimals and clamped to [0, 1].
func Score(f fields.Fields, t classifier.DocType) float64 {
	critical := []bool{
		present(f.Identifier),
		present(f.HeritageName),
		present(f.BaptismName),
		present(f.SupportNature),
		present(f.Position),
	}

	important := []bool{
		present(f.Mark),
		present(f.Function),
		f.RadarReflector != nil,
	}

	score := Base(t) * (criticalWeight*ratio(critical) + importantWeight*ratio(important))
	return Round(score)
}

// Round rounds x to two decimals and clamps it to [0, 1].
func Round(x float64) float64 {
	x = math.Round(x*100) / 100
	return math.Max(0, math.Min(1, x))
}

func present(s *string) bool {
	return s != nil && *s != ""
}

func ratio(flags []bool) float64 {
	n := 0
	for _, ok := range flags {
		if ok {
			n++
		}
	}
	return float64(n) / float64(len(flags))
}
