package aids

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"
)

// ExportSheet is the name of the worksheet written by WriteXLSX.
const ExportSheet = "Aides"

type column struct {
	header string
	width  float64
	value  func(Record) any
}

var exportColumns = []column{
	{"ID", 38, func(r Record) any { return r.ID.String() }},
	{"Fichier", 32, func(r Record) any { return r.Filename }},
	{"Statut", 10, func(r Record) any { return string(r.Status) }},
	{"Confiance", 10, func(r Record) any { return r.Confidence }},
	{"Type document", 22, func(r Record) any { return string(r.DocType) }},
	{"N° SYSI", 12, func(r Record) any { return deref(r.Identifier) }},
	{"Nom patrimoine", 28, func(r Record) any { return deref(r.HeritageName) }},
	{"Nom baptême", 20, func(r Record) any { return deref(r.BaptismName) }},
	{"Nature support", 16, func(r Record) any { return deref(r.SupportNature) }},
	{"Position", 30, func(r Record) any { return deref(r.Position) }},
	{"Marque", 20, func(r Record) any { return deref(r.Mark) }},
	{"Fonction", 18, func(r Record) any { return deref(r.Function) }},
	{"Feu couleur", 12, func(r Record) any {
		if r.Fire == nil {
			return ""
		}
		return deref(r.Fire.Color)
	}},
	{"Feu rythme", 12, func(r Record) any {
		if r.Fire == nil {
			return ""
		}
		return deref(r.Fire.Rhythm)
	}},
	{"Portée (M)", 10, func(r Record) any {
		if r.Fire == nil || r.Fire.NominalRange == nil {
			return ""
		}
		return *r.Fire.NominalRange
	}},
	{"Voir original", 12, func(r Record) any { return r.SeeOriginal }},
	{"Raison", 48, func(r Record) any { return deref(r.Reason) }},
	{"Date extraction", 20, func(r Record) any {
		if r.ExtractedAt == nil {
			return ""
		}
		return r.ExtractedAt.Format(time.DateTime)
	}},
}

// WriteXLSX writes records as a single-sheet workbook, one row per record
// below a header row.
func WriteXLSX(w io.Writer, records []Record) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", ExportSheet); err != nil {
		return fmt.Errorf("xlsx sheet: %w", err)
	}

	for i, c := range exportColumns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(ExportSheet, cell, c.header); err != nil {
			return fmt.Errorf("xlsx header: %w", err)
		}

		name, _ := excelize.ColumnNumberToName(i + 1)
		_ = f.SetColWidth(ExportSheet, name, name, c.width)
	}

	for row, r := range records {
		for i, c := range exportColumns {
			cell, _ := excelize.CoordinatesToCellName(i+1, row+2)
			if err := f.SetCellValue(ExportSheet, cell, c.value(r)); err != nil {
				return fmt.Errorf("xlsx row %d: %w", row+2, err)
			}
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("xlsx write: %w", err)
	}
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
