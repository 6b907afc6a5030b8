package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/JaimeStill/beacon/internal/aids"
	"github.com/JaimeStill/beacon/internal/classifier"
	"github.com/JaimeStill/beacon/internal/config"
	"github.com/JaimeStill/beacon/internal/documents"
	"github.com/JaimeStill/beacon/internal/enrich"
	"github.com/JaimeStill/beacon/internal/workflow"
)

const sheetText = `ESM N° 1234567
Nom de Baptême : Ar Men
Fonction : Atterrissage
Nature du support : Tourelle
Position : 48°02,500 N 004°59,800 W
Réflecteur radar : oui`

const catalogText = "Catalogue bouées\nPrix : 120 €\nTarif export\nPoids : 45 kg"

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv(config.EnvEnrichmentMode, "")
	t.Setenv(config.EnvExtractionVocabularyFile, "")

	rootFlags.verbose = false
	rootFlags.vocabulary = ""
	rootFlags.enrichment = ""
	batchFlags.pattern = documents.DefaultImportPattern
	exportFlags.out = "aids.xlsx"
	exportFlags.pattern = documents.DefaultImportPattern

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, dir, name, text string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestClassify(t *testing.T) {
	path := writeFile(t, t.TempDir(), "ar-men.txt", sheetText)

	out, err := execute(t, "classify", path)
	if err != nil {
		t.Fatalf("classify error = %v", err)
	}

	var got classifier.Result
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decode output: %v\n%s", err, out)
	}
	if got.Type != classifier.IndividualSheet || got.EstimatedAidCount != 1 {
		t.Errorf("result = %+v, want individual sheet with one aid", got)
	}
}

func TestClassifyEmptyFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "vide.txt", "   ")

	_, err := execute(t, "classify", path)
	if !errors.Is(err, workflow.ErrAcquisitionFailed) {
		t.Errorf("classify error = %v, want ErrAcquisitionFailed", err)
	}
}

func TestExtract(t *testing.T) {
	path := writeFile(t, t.TempDir(), "ar-men.txt", sheetText)

	out, err := execute(t, "extract", "--enrichment", "none", path)
	if err != nil {
		t.Fatalf("extract error = %v", err)
	}

	var rec aids.Record
	if err := json.Unmarshal([]byte(out), &rec); err != nil {
		t.Fatalf("decode output: %v\n%s", err, out)
	}
	if rec.Status != aids.StatusSuccess {
		t.Errorf("Status = %q, want success", rec.Status)
	}
	if rec.Identifier == nil || *rec.Identifier != "1234567" {
		t.Errorf("Identifier = %v, want 1234567", rec.Identifier)
	}
	if rec.Filename != "ar-men.txt" {
		t.Errorf("Filename = %q, want ar-men.txt", rec.Filename)
	}
}

func TestExtractMissingFile(t *testing.T) {
	if _, err := execute(t, "extract", filepath.Join(t.TempDir(), "absent.txt")); err == nil {
		t.Error("extract on missing file returned nil error")
	}
}

func TestExtractUnknownEnrichment(t *testing.T) {
	path := writeFile(t, t.TempDir(), "ar-men.txt", sheetText)

	_, err := execute(t, "extract", "--enrichment", "nlp", path)
	if !errors.Is(err, enrich.ErrUnknownMode) {
		t.Errorf("extract error = %v, want ErrUnknownMode", err)
	}
}

func TestBatch(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a-ar-men.txt", sheetText)
	writeFile(t, dir, "sub/b-catalogue.txt", catalogText)
	writeFile(t, dir, "notes.md", "ignored")

	out, err := execute(t, "batch", dir)
	if err != nil {
		t.Fatalf("batch error = %v", err)
	}

	var got workflow.BatchResult
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decode output: %v\n%s", err, out)
	}

	if len(got.Records) != 2 {
		t.Fatalf("records = %d, want 2", len(got.Records))
	}
	if got.Records[0].Filename != "a-ar-men.txt" || got.Records[1].Filename != "b-catalogue.txt" {
		t.Errorf("record order = %s, %s", got.Records[0].Filename, got.Records[1].Filename)
	}
	if got.StatusCounts[aids.StatusSuccess] != 1 || got.StatusCounts[aids.StatusSkipped] != 1 {
		t.Errorf("StatusCounts = %v, want one success and one skipped", got.StatusCounts)
	}
}

func TestBatchNoMatches(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "notes.md", "ignored")

	if _, err := execute(t, "batch", dir); err == nil {
		t.Error("batch with no matching files returned nil error")
	}
}

func TestExport(t *testing.T) {
	dir := t.TempDir()
	sheet := writeFile(t, dir, "ar-men.txt", sheetText)
	catalog := writeFile(t, dir, "catalogue.txt", catalogText)
	out := filepath.Join(dir, "aids.xlsx")

	stdout, err := execute(t, "export", "--out", out, sheet, catalog)
	if err != nil {
		t.Fatalf("export error = %v", err)
	}
	if !strings.Contains(stdout, "wrote 2 records") {
		t.Errorf("output = %q, want record count", stdout)
	}

	f, err := excelize.OpenFile(out)
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(aids.ExportSheet)
	if err != nil {
		t.Fatalf("GetRows() error = %v", err)
	}
	if len(rows) != 3 {
		t.Errorf("rows = %d, want header plus 2 records", len(rows))
	}
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	if err != nil {
		t.Fatalf("version error = %v", err)
	}
	if !strings.Contains(out, "beacon dev") || !strings.Contains(out, aids.MetadataVersion) {
		t.Errorf("output = %q", out)
	}
}
