package scoring_test

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/JaimeStill/beacon/internal/classifier"
	"github.com/JaimeStill/beacon/internal/fields"
	"github.com/JaimeStill/beacon/internal/scoring"
)

func fullFields() fields.Fields {
	return fields.Fields{
		Identifier:     fields.String("1234567"),
		HeritageName:   fields.String("Phare d'Ar Men"),
		BaptismName:    fields.String("Ar Men"),
		SupportNature:  fields.String("Phare"),
		Position:       fields.String("48°02,500 N 004°59,800 W"),
		Mark:           fields.String("Cardinale Ouest"),
		Function:       fields.String("Atterrissage"),
		RadarReflector: fields.Ptr(true),
	}
}

func TestScore(t *testing.T) {
	tests := []struct {
		name string
		f    fields.Fields
		t    classifier.DocType
		want float64
	}{
		{"empty", fields.Fields{}, classifier.IndividualSheet, 0},
		{"full sheet", fullFields(), classifier.IndividualSheet, 0.9},
		{"full catalog", fullFields(), classifier.ProductCatalog, 0.1},
		{"unknown type", fullFields(), classifier.DocType("bogus"), 0.5},
		{
			name: "identifier and position",
			f: fields.Fields{
				Identifier: fields.String("1234567"),
				Position:   fields.String("47°15,300 N 002°10,400 W"),
			},
			t:    classifier.ComplexTable,
			want: 0.17,
		},
		{
			name: "explicit false counts",
			f:    fields.Fields{RadarReflector: fields.Ptr(false)},
			t:    classifier.IndividualSheet,
			want: 0.09,
		},
		{
			name: "empty string does not count",
			f:    fields.Fields{Identifier: new(string)},
			t:    classifier.IndividualSheet,
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := scoring.Score(tt.f, tt.t); got != tt.want {
				t.Errorf("Score() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestScoreBoundedAndMonotonic(t *testing.T) {
	setters := []func(*fields.Fields){
		func(f *fields.Fields) { f.Identifier = fields.String("1234567") },
		func(f *fields.Fields) { f.HeritageName = fields.String("Phare d'Ar Men") },
		func(f *fields.Fields) { f.BaptismName = fields.String("Ar Men") },
		func(f *fields.Fields) { f.SupportNature = fields.String("Phare") },
		func(f *fields.Fields) { f.Position = fields.String("48°02,500 N 004°59,800 W") },
	}

	for _, dt := range classifier.DocTypes {
		t.Run(string(dt), func(t *testing.T) {
			f := fields.Fields{Mark: fields.String("Danger isolé")}
			prev := scoring.Score(f, dt)

			for i, set := range setters {
				set(&f)
				got := scoring.Score(f, dt)
				if got < 0 || got > 1 {
					t.Fatalf("Score() = %v out of [0,1]", got)
				}
				if got < prev {
					t.Errorf("Score() decreased from %v to %v after %d critical fields", prev, got, i+1)
				}
				prev = got
			}
		})
	}
}

func TestRound(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0.126, 0.13},
		{0.124, 0.12},
		{1.7, 1},
		{-0.2, 0},
	}

	for _, tt := range tests {
		if got := scoring.Round(tt.in); got != tt.want {
			t.Errorf("Round(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func sampleA() fields.Fields {
	return fields.Fields{
		Identifier: fields.String("1234567"),
		Fire:       &fields.Fire{Color: fields.String("Blanc")},
		BuoyExamples: []fields.BuoyExample{
			{Name: fields.String("Bouée tribord 1")},
		},
		DetectedNames: []string{"Ar Men"},
		Entities:      map[string][]string{"LOC": {"Sein"}},
	}
}

func sampleB() fields.Fields {
	return fields.Fields{
		Identifier:  fields.String("7654321"),
		BaptismName: fields.String("Ar Men"),
		Fire: &fields.Fire{
			Color:  fields.String("Rouge"),
			Rhythm: fields.String("Fl(3)"),
		},
		BuoyExamples: []fields.BuoyExample{
			{Name: fields.String("Bouée tribord 1")},
			{Name: fields.String("Bouée tribord 2")},
		},
		DetectedNames:   []string{"Ar Men", "Sein"},
		DetectedNumbers: []string{"12"},
		Entities:        map[string][]string{"LOC": {"Sein", "Brest"}, "ORG": {"DIRM"}},
		DecisionDate:    fields.Ptr(time.Date(2021, 3, 12, 0, 0, 0, 0, time.UTC)),
	}
}

func TestMerge(t *testing.T) {
	got := scoring.Merge(sampleA(), sampleB())

	want := fields.Fields{
		Identifier:  fields.String("1234567"),
		BaptismName: fields.String("Ar Men"),
		Fire: &fields.Fire{
			Color:  fields.String("Blanc"),
			Rhythm: fields.String("Fl(3)"),
		},
		BuoyExamples: []fields.BuoyExample{
			{Name: fields.String("Bouée tribord 1")},
			{Name: fields.String("Bouée tribord 2")},
		},
		DetectedNames:   []string{"Ar Men", "Sein"},
		DetectedNumbers: []string{"12"},
		Entities:        map[string][]string{"LOC": {"Sein", "Brest"}, "ORG": {"DIRM"}},
		DecisionDate:    fields.Ptr(time.Date(2021, 3, 12, 0, 0, 0, 0, time.UTC)),
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Merge() mismatch (-want +got):\n%s", diff)
	}
}

func TestMergeIdempotent(t *testing.T) {
	a, b := sampleA(), sampleB()
	once := scoring.Merge(a, b)
	twice := scoring.Merge(a, once)

	if diff := cmp.Diff(once, twice); diff != "" {
		t.Errorf("Merge(a, Merge(a, b)) != Merge(a, b) (-once +twice):\n%s", diff)
	}
}

func TestMergeIdentity(t *testing.T) {
	for name, f := range map[string]fields.Fields{"a": sampleA(), "b": sampleB()} {
		t.Run(name, func(t *testing.T) {
			if diff := cmp.Diff(f, scoring.Merge(f, fields.Fields{})); diff != "" {
				t.Errorf("Merge(f, {}) mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(f, scoring.Merge(fields.Fields{}, f)); diff != "" {
				t.Errorf("Merge({}, f) mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestMergeKeepsExplicitFalse(t *testing.T) {
	base := fields.Fields{AISAtoN: fields.Ptr(false)}
	incoming := fields.Fields{AISAtoN: fields.Ptr(true)}

	got := scoring.Merge(base, incoming)
	if got.AISAtoN == nil || *got.AISAtoN {
		t.Errorf("AISAtoN = %v, want explicit false from base", got.AISAtoN)
	}
}

func TestMergeWith(t *testing.T) {
	rules := fields.Fields{Function: fields.String("Atterrissage")}
	enrichment := fields.Fields{Function: fields.String("Jalonnement"), Zone: fields.String("Iroise")}

	tests := []struct {
		p    scoring.Precedence
		want string
	}{
		{scoring.PreferRules, "Atterrissage"},
		{scoring.PreferEnrichment, "Jalonnement"},
	}

	for _, tt := range tests {
		t.Run(string(tt.p), func(t *testing.T) {
			got := scoring.MergeWith(tt.p, rules, enrichment)
			if *got.Function != tt.want {
				t.Errorf("Function = %q, want %q", *got.Function, tt.want)
			}
			if got.Zone == nil || *got.Zone != "Iroise" {
				t.Errorf("Zone = %v, want Iroise", got.Zone)
			}
		})
	}
}

func TestParsePrecedence(t *testing.T) {
	tests := []struct {
		in      string
		want    scoring.Precedence
		wantErr bool
	}{
		{"", scoring.PreferRules, false},
		{"rules", scoring.PreferRules, false},
		{"enrichment", scoring.PreferEnrichment, false},
		{"nlp", "", true},
	}

	for _, tt := range tests {
		got, err := scoring.ParsePrecedence(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParsePrecedence(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParsePrecedence(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
