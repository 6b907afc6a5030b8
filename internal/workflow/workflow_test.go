package workflow_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/JaimeStill/beacon/internal/aids"
	"github.com/JaimeStill/beacon/internal/classifier"
	"github.com/JaimeStill/beacon/internal/fields"
	"github.com/JaimeStill/beacon/internal/scoring"
	"github.com/JaimeStill/beacon/internal/vocabulary"
	"github.com/JaimeStill/beacon/internal/workflow"
)

const sheetText = `ESM N° 1234567
Nom de Baptême : Ar Men
Fonction : Atterrissage
Nature du support : Tourelle
Position : 48°02,500 N 004°59,800 W
Réflecteur radar : oui`

const catalogText = "Catalogue bouées\nPrix : 120 €\nTarif export\nPoids : 45 kg"

func gpsRows(n int) string {
	rows := make([]string, n)
	for i := range rows {
		rows[i] = fmt.Sprintf("Bouée tribord %d    47°%02d,300 N    002°10,400 W", i+1, i+10)
	}
	return strings.Join(rows, "\n")
}

type fakeEnricher struct {
	fields fields.Fields
	err    error
	panic  bool
}

func (f *fakeEnricher) Name() string { return "fake" }

func (f *fakeEnricher) Enrich(ctx context.Context, text string) (fields.Fields, error) {
	if f.panic {
		panic("boom")
	}
	return f.fields, f.err
}

func newRuntime(opts workflow.Options) *workflow.Runtime {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return workflow.NewRuntime(vocabulary.Default(), opts, logger)
}

func inline(name, text string) workflow.Document {
	return workflow.Document{
		Source: aids.Source{Filename: name, ContentType: "text/plain"},
		Text:   text,
	}
}

func TestExecuteSheet(t *testing.T) {
	rec := workflow.Execute(context.Background(), newRuntime(workflow.Options{}), inline("ar-men.txt", sheetText))

	if rec.Status != aids.StatusSuccess {
		t.Fatalf("Status = %q, want success", rec.Status)
	}
	if rec.DocType != classifier.IndividualSheet || rec.Method != string(classifier.ExtractAll) {
		t.Errorf("DocType/Method = %q/%q", rec.DocType, rec.Method)
	}
	if rec.SeeOriginal || rec.Reason != nil {
		t.Errorf("SeeOriginal = %v, Reason = %v, want false and nil", rec.SeeOriginal, rec.Reason)
	}

	checks := map[string]*string{
		"1234567":      rec.Identifier,
		"Atterrissage": rec.Function,
		"Ar Men":       rec.BaptismName,
	}
	for want, got := range checks {
		if got == nil || *got != want {
			t.Errorf("field = %v, want %q", got, want)
		}
	}

	if want := scoring.Score(rec.Fields, classifier.IndividualSheet); rec.Confidence != want || want == 0 {
		t.Errorf("Confidence = %v, want %v", rec.Confidence, want)
	}

	if rec.Metadata == nil || rec.Metadata.ConfidenceScore == nil || *rec.Metadata.ConfidenceScore != rec.Confidence {
		t.Fatalf("Metadata = %+v, want confidence stamped", rec.Metadata)
	}
	wantMethods := []string{workflow.MethodCleaning, workflow.MethodFullRules}
	if !slices.Equal(rec.Metadata.MethodsUsed, wantMethods) {
		t.Errorf("MethodsUsed = %v, want %v", rec.Metadata.MethodsUsed, wantMethods)
	}

	if err := aids.Validate(&rec); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestExecuteCatalogSkipped(t *testing.T) {
	rec := workflow.Execute(context.Background(), newRuntime(workflow.Options{}), inline("catalogue.txt", catalogText))

	if rec.Status != aids.StatusSkipped {
		t.Fatalf("Status = %q, want skipped", rec.Status)
	}
	if rec.Confidence != 0 || !rec.SeeOriginal {
		t.Errorf("Confidence = %v, SeeOriginal = %v, want 0 and true", rec.Confidence, rec.SeeOriginal)
	}
	if rec.AidCount != 0 {
		t.Errorf("AidCount = %d, want 0", rec.AidCount)
	}

	want := "Document of type 'product_catalog' - not relevant for extraction"
	if rec.Reason == nil || *rec.Reason != want {
		t.Errorf("Reason = %v, want %q", rec.Reason, want)
	}
	if !slices.Contains(rec.Metadata.MethodsUsed, workflow.MethodMetadata) {
		t.Errorf("MethodsUsed = %v, want %s", rec.Metadata.MethodsUsed, workflow.MethodMetadata)
	}

	if err := aids.Validate(&rec); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestExecuteComplexTablePartial(t *testing.T) {
	rec := workflow.Execute(context.Background(), newRuntime(workflow.Options{}), inline("liste.txt", "Liste des bouées\n"+gpsRows(15)))

	if rec.Status != aids.StatusPartial || !rec.SeeOriginal {
		t.Fatalf("Status = %q, SeeOriginal = %v, want partial and true", rec.Status, rec.SeeOriginal)
	}
	if rec.AidCount != 15 {
		t.Errorf("AidCount = %d, want 15", rec.AidCount)
	}

	want := "Complex table with 15 entries - see original for full details"
	if rec.Reason == nil || *rec.Reason != want {
		t.Errorf("Reason = %v, want %q", rec.Reason, want)
	}

	wantMethods := []string{workflow.MethodCleaning, workflow.MethodGeneric, workflow.MethodTable}
	if !slices.Equal(rec.Metadata.MethodsUsed, wantMethods) {
		t.Errorf("MethodsUsed = %v, want %v", rec.Metadata.MethodsUsed, wantMethods)
	}
	if rec.MaritimeTermsCount == nil || *rec.MaritimeTermsCount == 0 {
		t.Errorf("MaritimeTermsCount = %v, want a positive count", rec.MaritimeTermsCount)
	}
	if len(rec.BuoyExamples) == 0 || len(rec.BuoyExamples) > 5 {
		t.Errorf("BuoyExamples = %d entries, want 1 to 5", len(rec.BuoyExamples))
	}

	if err := aids.Validate(&rec); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestExecutePartialReasons(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"order", "ARRÊTÉ PRÉFECTORAL\nLe préfet maritime de l'Atlantique", "Prefectoral order - see original for the full text"},
		{"letter", "Madame, Monsieur,\nObjet : balisage du chenal", "Administrative letter - see original for full context"},
		{"other", "Compte rendu de la réunion du comité", "Document with complex structure - see original for more details"},
	}

	rt := newRuntime(workflow.Options{})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := workflow.Execute(context.Background(), rt, inline(tt.name+".txt", tt.text))
			if rec.Status != aids.StatusPartial {
				t.Fatalf("Status = %q, want partial", rec.Status)
			}
			if rec.Reason == nil || *rec.Reason != tt.want {
				t.Errorf("Reason = %v, want %q", rec.Reason, tt.want)
			}
		})
	}
}

func TestExecuteEncodingWarning(t *testing.T) {
	rec := workflow.Execute(context.Background(), newRuntime(workflow.Options{}), inline("abime.txt", sheetText+"\nÃ§a"))

	if !slices.Contains(rec.Warnings, workflow.WarningEncoding) {
		t.Errorf("Warnings = %v, want %q", rec.Warnings, workflow.WarningEncoding)
	}
	if !slices.Contains(rec.Metadata.Warnings, workflow.WarningEncoding) {
		t.Errorf("Metadata.Warnings = %v, want %q", rec.Metadata.Warnings, workflow.WarningEncoding)
	}
}

func TestExecuteAcquisitionFailure(t *testing.T) {
	doc := workflow.Document{
		Source: aids.Source{
			Filename:  "absent.txt",
			LocalPath: filepath.Join(t.TempDir(), "absent.txt"),
		},
	}

	rec := workflow.Execute(context.Background(), newRuntime(workflow.Options{}), doc)

	if rec.Status != aids.StatusFailed || rec.Confidence != 0 || !rec.SeeOriginal {
		t.Fatalf("record = %+v, want failed with zero confidence", rec)
	}
	if rec.Reason == nil || *rec.Reason != workflow.ReasonAcquisition {
		t.Errorf("Reason = %v, want %q", rec.Reason, workflow.ReasonAcquisition)
	}
	if rec.Metadata == nil || rec.Metadata.Error != workflow.ReasonAcquisition || rec.Metadata.Version != aids.MetadataVersion {
		t.Errorf("Metadata = %+v, want error and version", rec.Metadata)
	}
	if rec.Identifier != nil || rec.DocType != "" {
		t.Errorf("failed record carries extraction output: %+v", rec)
	}

	if err := aids.Validate(&rec); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestExecuteBlankText(t *testing.T) {
	tests := map[string]string{
		"empty":       "",
		"whitespace":  "   \n\t  \n",
		"control":     "\x00\x00\r",
		"replacement": "\ufffd \ufffd",
	}

	rt := newRuntime(workflow.Options{})
	for name, text := range tests {
		t.Run(name, func(t *testing.T) {
			rec := workflow.Execute(context.Background(), rt, inline(name+".txt", text))
			if rec.Status != aids.StatusFailed {
				t.Fatalf("Status = %q, want failed", rec.Status)
			}
			if rec.Reason == nil || *rec.Reason != workflow.ReasonAcquisition {
				t.Errorf("Reason = %v, want %q", rec.Reason, workflow.ReasonAcquisition)
			}
		})
	}
}

func TestExecuteBlankInlineReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ar-men.txt")
	if err := os.WriteFile(path, []byte(sheetText), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	doc := inline("ar-men.txt", " \n ")
	doc.Source.LocalPath = path

	rec := workflow.Execute(context.Background(), newRuntime(workflow.Options{}), doc)
	if rec.Status != aids.StatusSuccess {
		t.Errorf("Status = %q, want success", rec.Status)
	}
}

func TestExecuteNonTextDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scan.pdf")
	if err := os.WriteFile(path, []byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\n"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	doc, err := workflow.DocumentFromFile(path)
	if err != nil {
		t.Fatalf("DocumentFromFile() error = %v", err)
	}

	rec := workflow.Execute(context.Background(), newRuntime(workflow.Options{}), doc)
	if rec.Status != aids.StatusFailed {
		t.Fatalf("Status = %q, want failed", rec.Status)
	}
	if rec.DocType != "" {
		t.Errorf("DocType = %q, want none", rec.DocType)
	}
}

func TestReadable(t *testing.T) {
	tests := map[string]bool{
		"":                          true,
		"text/plain":                true,
		"text/plain; charset=utf-8": true,
		"text/csv":                  true,
		"application/octet-stream":  true,
		"application/pdf":           false,
		"image/png":                 false,
		"not a type;;":              false,
	}

	for ct, want := range tests {
		if got := workflow.Readable(ct); got != want {
			t.Errorf("Readable(%q) = %v, want %v", ct, got, want)
		}
	}
}

func TestExecuteRecordsValidate(t *testing.T) {
	fixtures := map[string]string{
		"sheet":          sheetText,
		"catalog":        catalogText,
		"simple table":   "Liste des bouées\n" + gpsRows(6),
		"complex table":  "Liste des bouées\n" + gpsRows(15),
		"order":          "ARRÊTÉ PRÉFECTORAL\nLe préfet maritime de l'Atlantique",
		"letter":         "Madame, Monsieur,\nObjet : balisage du chenal",
		"other":          "Compte rendu de la réunion du comité",
		"mojibake":       sheetText + "\nÃ§a",
		"accented racon": sheetText + "\nRacon À l'entrée du chenal",
		"racon letter":   sheetText + "\nBalise Racon : M",
		"blank":          " \n ",
	}

	rt := newRuntime(workflow.Options{})
	for name, text := range fixtures {
		t.Run(name, func(t *testing.T) {
			rec := workflow.Execute(context.Background(), rt, inline(name+".txt", text))
			if err := aids.Validate(&rec); err != nil {
				t.Errorf("Validate() error = %v (status %s)", err, rec.Status)
			}
		})
	}
}

func TestExecuteReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ar-men.txt")
	if err := os.WriteFile(path, []byte(sheetText), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	doc, err := workflow.DocumentFromFile(path)
	if err != nil {
		t.Fatalf("DocumentFromFile() error = %v", err)
	}
	if doc.Source.Filename != "ar-men.txt" || doc.Source.ContentType != "text/plain" || doc.Source.SizeBytes != int64(len(sheetText)) {
		t.Errorf("Source = %+v", doc.Source)
	}

	rec := workflow.Execute(context.Background(), newRuntime(workflow.Options{}), doc)
	if rec.Status != aids.StatusSuccess {
		t.Errorf("Status = %q, want success", rec.Status)
	}
	if rec.Source != doc.Source {
		t.Errorf("Source = %+v, want %+v", rec.Source, doc.Source)
	}
}

func TestExecuteEnrichment(t *testing.T) {
	t.Run("merged", func(t *testing.T) {
		rt := newRuntime(workflow.Options{
			Enricher: &fakeEnricher{fields: fields.Fields{
				Function: fields.String("Jalonnement"),
				Zone:     fields.String("Iroise"),
			}},
		})

		rec := workflow.Execute(context.Background(), rt, inline("ar-men.txt", sheetText))

		if *rec.Function != "Atterrissage" {
			t.Errorf("Function = %q, rule-derived value must win", *rec.Function)
		}
		if rec.Zone == nil || *rec.Zone != "Iroise" {
			t.Errorf("Zone = %v, want Iroise", rec.Zone)
		}
		if !slices.Contains(rec.Metadata.MethodsUsed, workflow.MethodEnrichment) {
			t.Errorf("MethodsUsed = %v, want %s", rec.Metadata.MethodsUsed, workflow.MethodEnrichment)
		}
	})

	t.Run("prefer enrichment", func(t *testing.T) {
		rt := newRuntime(workflow.Options{
			Precedence: scoring.PreferEnrichment,
			Enricher:   &fakeEnricher{fields: fields.Fields{Function: fields.String("Jalonnement")}},
		})

		rec := workflow.Execute(context.Background(), rt, inline("ar-men.txt", sheetText))
		if *rec.Function != "Jalonnement" {
			t.Errorf("Function = %q, want Jalonnement", *rec.Function)
		}
	})

	t.Run("unavailable", func(t *testing.T) {
		rt := newRuntime(workflow.Options{Enricher: &fakeEnricher{err: errors.New("connection refused")}})

		rec := workflow.Execute(context.Background(), rt, inline("ar-men.txt", sheetText))
		if rec.Status != aids.StatusSuccess {
			t.Fatalf("Status = %q, want success", rec.Status)
		}
		if slices.Contains(rec.Metadata.MethodsUsed, workflow.MethodEnrichment) {
			t.Errorf("MethodsUsed = %v, enrichment must not be recorded", rec.Metadata.MethodsUsed)
		}
	})

	t.Run("not consulted for partial", func(t *testing.T) {
		rt := newRuntime(workflow.Options{Enricher: &fakeEnricher{panic: true}})

		rec := workflow.Execute(context.Background(), rt, inline("liste.txt", "Liste des bouées\n"+gpsRows(15)))
		if rec.Status != aids.StatusPartial {
			t.Errorf("Status = %q, want partial", rec.Status)
		}
	})
}

func TestExecuteRecoversPanic(t *testing.T) {
	rt := newRuntime(workflow.Options{Enricher: &fakeEnricher{panic: true}})

	rec := workflow.Execute(context.Background(), rt, inline("ar-men.txt", sheetText))

	if rec.Status != aids.StatusFailed {
		t.Fatalf("Status = %q, want failed", rec.Status)
	}
	if rec.Reason == nil || *rec.Reason != "Error: boom" {
		t.Errorf("Reason = %v, want %q", rec.Reason, "Error: boom")
	}
}

func TestExecuteBatch(t *testing.T) {
	docs := []workflow.Document{
		inline("ar-men.txt", sheetText),
		{Source: aids.Source{Filename: "absent.txt", LocalPath: filepath.Join(t.TempDir(), "absent.txt")}},
		inline("catalogue.txt", catalogText),
		inline("liste.txt", "Liste des bouées\n"+gpsRows(15)),
	}

	result := workflow.ExecuteBatch(context.Background(), newRuntime(workflow.Options{}), docs)

	if len(result.Records) != len(docs) {
		t.Fatalf("len(Records) = %d, want %d", len(result.Records), len(docs))
	}

	wantStatus := []aids.Status{aids.StatusSuccess, aids.StatusFailed, aids.StatusSkipped, aids.StatusPartial}
	for i, rec := range result.Records {
		if rec.Filename != docs[i].Source.Filename {
			t.Errorf("Records[%d].Filename = %q, want %q", i, rec.Filename, docs[i].Source.Filename)
		}
		if rec.Status != wantStatus[i] {
			t.Errorf("Records[%d].Status = %q, want %q", i, rec.Status, wantStatus[i])
		}
	}

	for _, s := range wantStatus {
		if result.StatusCounts[s] != 1 {
			t.Errorf("StatusCounts[%s] = %d, want 1", s, result.StatusCounts[s])
		}
	}
}

func TestExecuteBatchEmpty(t *testing.T) {
	result := workflow.ExecuteBatch(context.Background(), newRuntime(workflow.Options{}), nil)
	if len(result.Records) != 0 || len(result.StatusCounts) != 0 {
		t.Errorf("result = %+v, want empty", result)
	}
}

func TestMetrics(t *testing.T) {
	m := workflow.NewMetrics(prometheus.NewRegistry())
	rt := newRuntime(workflow.Options{Metrics: m})

	workflow.ExecuteBatch(context.Background(), rt, []workflow.Document{
		inline("catalogue.txt", catalogText),
		inline("catalogue-2.txt", catalogText),
		inline("ar-men.txt", sheetText),
	})

	if got := testutil.ToFloat64(m.DocumentsTotal.WithLabelValues("skipped", "product_catalog")); got != 2 {
		t.Errorf("skipped catalogs = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.DocumentsTotal.WithLabelValues("success", "individual_sheet")); got != 1 {
		t.Errorf("successful sheets = %v, want 1", got)
	}
	if got := testutil.CollectAndCount(m.Duration); got != 1 {
		t.Errorf("duration series = %d, want 1", got)
	}
}

func TestContentType(t *testing.T) {
	tests := map[string]string{
		"fiche.txt":    "text/plain",
		"FICHE.TXT":    "text/plain",
		"sans-ext":     "text/plain",
		"scan.pdf":     "application/pdf",
		"inconnu.zzzz": "application/octet-stream",
	}

	for name, want := range tests {
		if got := workflow.ContentType(name); got != want {
			t.Errorf("ContentType(%q) = %q, want %q", name, got, want)
		}
	}
}

func TestClassify(t *testing.T) {
	rt := newRuntime(workflow.Options{})

	got, err := workflow.Classify(rt, inline("ar-men.txt", sheetText))
	if err != nil {
		t.Fatalf("Classify() error = %v", err)
	}
	if got.Type != classifier.IndividualSheet || got.Strategy != classifier.ExtractAll {
		t.Errorf("Classify() = %+v, want individual sheet with full extraction", got)
	}

	_, err = workflow.Classify(rt, workflow.Document{Source: aids.Source{Filename: "vide.txt"}})
	if !errors.Is(err, workflow.ErrAcquisitionFailed) {
		t.Errorf("Classify() error = %v, want ErrAcquisitionFailed", err)
	}
}
