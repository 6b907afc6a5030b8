package aids

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/JaimeStill/beacon/internal/classifier"
	"github.com/JaimeStill/beacon/internal/scoring"
	"github.com/JaimeStill/beacon/pkg/openapi"
)

const schemaURL = "record.json"

var compiledSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	data, err := json.Marshal(RecordSchema())
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}

	c := jsonschema.NewCompiler()
	c.AssertFormat = true
	if err := c.AddResource(schemaURL, bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("add schema: %w", err)
	}
	return c.Compile(schemaURL)
})

// Validate checks r against the record schema and the status invariants.
func Validate(r *Record) error {
	schema, err := compiledSchema()
	if err != nil {
		return fmt.Errorf("compile record schema: %w", err)
	}

	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidRecord, err)
	}

	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidRecord, err)
	}

	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidRecord, err)
	}

	return checkInvariants(r)
}

func checkInvariants(r *Record) error {
	if r.Confidence != scoring.Round(r.Confidence) {
		return fmt.Errorf("%w: confidence %v is not rounded to two decimals", ErrInvalidRecord, r.Confidence)
	}

	switch r.Status {
	case StatusSkipped:
		if r.Confidence != 0 {
			return fmt.Errorf("%w: skipped record has confidence %v", ErrInvalidRecord, r.Confidence)
		}
		if !reflect.ValueOf(r.Fields).IsZero() {
			return fmt.Errorf("%w: skipped record carries maritime attributes", ErrInvalidRecord)
		}
		fallthrough
	case StatusPartial:
		if !r.SeeOriginal {
			return fmt.Errorf("%w: %s record must point to the original", ErrInvalidRecord, r.Status)
		}
	}

	return nil
}

// RecordSchema describes a persisted record. The same schema is published in
// the API description and enforced by Validate.
func RecordSchema() *openapi.Schema {
	statuses := make([]any, len(Statuses))
	for i, s := range Statuses {
		statuses[i] = string(s)
	}

	docTypes := make([]any, len(classifier.DocTypes))
	for i, t := range classifier.DocTypes {
		docTypes[i] = string(t)
	}

	props := map[string]*openapi.Schema{
		"id":          {Type: "string", Format: "uuid"},
		"document_id": {Type: "string", Format: "uuid"},

		"nom_fichier":  {Type: "string", Description: "Source file name"},
		"chemin_local": {Type: "string", Description: "Source file path"},
		"cree_le":      {Type: "string", Format: "date-time"},
		"mime_type":    {Type: "string"},
		"taille":       {Type: "integer", Minimum: openapi.Float(0)},

		"extraction_status":     {Type: "string", Enum: statuses},
		"extraction_confidence": {Type: "number", Minimum: openapi.Float(0), Maximum: openapi.Float(1)},
		"extraction_method":     {Type: "string"},
		"extraction_warnings":   {Type: "array", Items: &openapi.Schema{Type: "string"}},
		"extraction_date":       {Type: "string", Format: "date-time"},

		"type_document":              {Type: "string", Enum: docTypes},
		"nombre_aides":               {Type: "integer", Minimum: openapi.Float(0)},
		"voir_document_original":     {Type: "boolean"},
		"raison_reference_originale": text(),

		"extraction_metadata": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"extraction_date":         {Type: "string", Format: "date-time"},
				"extraction_time_seconds": {Type: "number", Minimum: openapi.Float(0)},
				"confidence_score":        {Type: "number", Minimum: openapi.Float(0), Maximum: openapi.Float(1)},
				"methods_used":            {Type: "array", Items: &openapi.Schema{Type: "string"}},
				"warnings":                {Type: "array", Items: &openapi.Schema{Type: "string"}},
				"error":                   {Type: "string"},
				"version":                 text(),
			},
			Required: []string{"version"},
		},

		"saved_at": {Type: "string", Format: "date-time"},
	}

	for name, s := range FieldSchemas() {
		props[name] = s
	}

	return &openapi.Schema{
		Type:       "object",
		Properties: props,
		Required: []string{
			"nom_fichier",
			"extraction_status",
			"extraction_confidence",
			"voir_document_original",
		},
	}
}

// FieldSchemas describes the maritime attributes of a record.
func FieldSchemas() map[string]*openapi.Schema {
	return map[string]*openapi.Schema{
		"n_sysi":         {Type: "string", Pattern: `^[0-9]{7,8}$`, Description: "ESM or SYSSI identifier"},
		"nom_patrimoine": text(),
		"nom_bapteme":    text(),

		"position":           text(),
		"systeme_geodesique": text(),
		"zone":               text(),

		"nature_support":  text(),
		"hauteur_support": {Type: "number", Minimum: openapi.Float(0)},
		"altitude_base":   {Type: "number"},

		"marque":                     text(),
		"caractere":                  text(),
		"fonction":                   text(),
		"classement":                 text(),
		"validite":                   text(),
		"marque_jour":                text(),
		"voyant":                     {Type: "boolean"},
		"bande_retro_reflechissante": {Type: "boolean"},
		"reflecteur_radar":           {Type: "boolean"},

		"feu": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"couleur":         text(),
				"rythme":          text(),
				"portee_nominale": {Type: "integer", Minimum: openapi.Float(0)},
				"secteurs":        text(),
				"type_signal":     text(),
				"rythme_detaille": text(),
			},
			MinProperties: openapi.Int(1),
		},
		"aide_sonore": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"type":   text(),
				"rythme": text(),
			},
			MinProperties: openapi.Int(1),
		},
		"ais_aton": {Type: "boolean"},
		"balise_racon": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"present":      {Type: "boolean"},
				"lettre_morse": {Type: "string", Pattern: `^[A-Z]$`},
			},
		},

		"mode_acces":       text(),
		"date_decision":    {Type: "string", Format: "date-time"},
		"reference_arrete": text(),
		"exemples_bouees": {
			Type:     "array",
			MaxItems: openapi.Int(5),
			Items: &openapi.Schema{
				Type: "object",
				Properties: map[string]*openapi.Schema{
					"nom":      text(),
					"position": text(),
					"marque":   text(),
					"numero":   text(),
				},
			},
		},
		"maritime_terms_count": {Type: "integer", Minimum: openapi.Float(0)},

		"noms_detectes":    {Type: "array", Items: &openapi.Schema{Type: "string"}},
		"nombres_detectes": {Type: "array", Items: &openapi.Schema{Type: "string"}},
		"entites_nlp": {
			Type: "object",
			AdditionalProperties: &openapi.Schema{
				Type:  "array",
				Items: &openapi.Schema{Type: "string"},
			},
		},
	}
}

func text() *openapi.Schema {
	return &openapi.Schema{Type: "string", MinLength: openapi.Int(1)}
}
