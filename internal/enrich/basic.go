package enrich

import (
	"context"
	"regexp"
	"slices"

	"github.com/JaimeStill/beacon/internal/fields"
)

// MaxDetected bounds the names and numbers reported by Basic.
const MaxDetected = 10

var (
	properNoun = regexp.MustCompile(`(?:^|[^\pL])(\p{Lu}\p{Ll}+(?:[ \t]+\p{Lu}\p{Ll}+)*)`)
	number     = regexp.MustCompile(`\d+(?:[.,]\d+)?`)
)

// Basic detects capitalised names and numbers with patterns alone. It never
// fails and needs no external service.
type Basic struct{}

// NewBasic creates a Basic enricher.
func NewBasic() *Basic {
	return &Basic{}
}

func (*Basic) Name() string { return ModeBasic }

// Enrich reports up to MaxDetected distinct names and numbers in order of
// first appearance.
func (*Basic) Enrich(ctx context.Context, text string) (fields.Fields, error) {
	var names []string
	for _, m := range properNoun.FindAllStringSubmatch(text, -1) {
		names = appendUnique(names, m[1])
	}

	var numbers []string
	for _, m := range number.FindAllString(text, -1) {
		numbers = appendUnique(numbers, m)
	}

	return fields.Fields{
		DetectedNames:   names,
		DetectedNumbers: numbers,
	}, nil
}

func appendUnique(list []string, v string) []string {
	if len(list) >= MaxDetected {
		return list
	}
	if slices.Contains(list, v) {
		return list
	}
	return append(list, v)
}
