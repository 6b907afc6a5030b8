package aids

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/beacon/pkg/query"
	"github.com/JaimeStill/beacon/pkg/repository"
)

// Query limits.
const (
	SearchLimit    = 50
	AggregateLimit = 20
)

var projection = query.
	NewProjectionMap("public", "aids", "a").
	Project("id", "ID").
	Project("document_id", "DocumentID").
	Project("data", "Data").
	Project("saved_at", "SavedAt").
	Map("{alias}.n_sysi", "n_sysi").
	Map("{alias}.nom_patrimoine", "nom_patrimoine").
	Map("{alias}.nom_bapteme", "nom_bapteme").
	Map("{alias}.nature_support", "nature_support").
	Map("{alias}.marque", "marque").
	Map("{alias}.type_document", "type_document").
	Map("{alias}.extraction_status", "extraction_status").
	Map("{alias}.extraction_confidence", "extraction_confidence").
	Map("{alias}.nom_fichier", "nom_fichier").
	Map("{alias}.saved_at", "saved_at").
	Map("{alias}.data->>'fonction'", "fonction").
	Map("{alias}.data->>'zone'", "zone").
	Map("{alias}.data->>'systeme_geodesique'", "systeme_geodesique").
	Map("{alias}.data->>'classement'", "classement").
	Map("{alias}.data->>'mode_acces'", "mode_acces").
	Map("{alias}.data->>'validite'", "validite").
	Map("{alias}.data->>'voir_document_original'", "voir_document_original").
	Map("{alias}.data->'feu'", "feu").
	Map("{alias}.data->>'ais_aton'", "ais_aton").
	Map("{alias}.data->'balise_racon'->>'present'", "racon_present")

var defaultSort = query.SortField{
	Field:      "saved_at",
	Descending: true,
}

// DefaultSearchFields are searched when a request names none.
var DefaultSearchFields = []string{
	"nom_patrimoine",
	"nom_bapteme",
	"nature_support",
	"marque",
}

var searchable = map[string]bool{
	"n_sysi":             true,
	"nom_patrimoine":     true,
	"nom_bapteme":        true,
	"nature_support":     true,
	"marque":             true,
	"nom_fichier":        true,
	"fonction":           true,
	"zone":               true,
	"classement":         true,
	"systeme_geodesique": true,
}

var aggregatable = map[string]bool{
	"extraction_status":  true,
	"type_document":      true,
	"nature_support":     true,
	"marque":             true,
	"fonction":           true,
	"zone":               true,
	"classement":         true,
	"systeme_geodesique": true,
	"mode_acces":         true,
	"validite":           true,
}

// Searchable reports whether field may be used in a search.
func Searchable(field string) bool {
	return searchable[field]
}

// Aggregatable reports whether records may be grouped by field.
func Aggregatable(field string) bool {
	return aggregatable[field]
}

// Filters contains optional filtering criteria for record queries.
// Nil fields are ignored. Filename uses case-insensitive contains matching;
// every other filter is an exact match.
type Filters struct {
	Status        *Status    `json:"extraction_status,omitempty"`
	DocType       *string    `json:"type_document,omitempty"`
	Identifier    *string    `json:"n_sysi,omitempty"`
	SupportNature *string    `json:"nature_support,omitempty"`
	Mark          *string    `json:"marque,omitempty"`
	Filename      *string    `json:"nom_fichier,omitempty"`
	DocumentID    *uuid.UUID `json:"document_id,omitempty"`
	SeeOriginal   *bool      `json:"voir_document_original,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	var seeOriginal *string
	if f.SeeOriginal != nil {
		s := strconv.FormatBool(*f.SeeOriginal)
		seeOriginal = &s
	}

	var status *string
	if f.Status != nil {
		s := string(*f.Status)
		status = &s
	}

	return b.
		WhereEquals("extraction_status", status).
		WhereEquals("type_document", f.DocType).
		WhereEquals("n_sysi", f.Identifier).
		WhereEquals("nature_support", f.SupportNature).
		WhereEquals("marque", f.Mark).
		WhereContains("nom_fichier", f.Filename).
		WhereEquals("DocumentID", f.DocumentID).
		WhereEquals("voir_document_original", seeOriginal)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if s := values.Get("extraction_status"); s != "" {
		st := Status(s)
		f.Status = &st
	}

	if t := values.Get("type_document"); t != "" {
		f.DocType = &t
	}

	if id := values.Get("n_sysi"); id != "" {
		f.Identifier = &id
	}

	if n := values.Get("nature_support"); n != "" {
		f.SupportNature = &n
	}

	if m := values.Get("marque"); m != "" {
		f.Mark = &m
	}

	if fn := values.Get("nom_fichier"); fn != "" {
		f.Filename = &fn
	}

	if d := values.Get("document_id"); d != "" {
		if id, err := uuid.Parse(d); err == nil {
			f.DocumentID = &id
		}
	}

	if so := values.Get("voir_document_original"); so != "" {
		if v, err := strconv.ParseBool(so); err == nil {
			f.SeeOriginal = &v
		}
	}

	return f
}

func scanRecord(s repository.Scanner) (Record, error) {
	var (
		r          Record
		id         uuid.UUID
		documentID *uuid.UUID
		data       []byte
		savedAt    time.Time
	)

	if err := s.Scan(&id, &documentID, &data, &savedAt); err != nil {
		return r, err
	}

	if err := json.Unmarshal(data, &r); err != nil {
		return r, fmt.Errorf("decode record %s: %w", id, err)
	}

	r.ID = id
	r.DocumentID = documentID
	r.SavedAt = &savedAt
	return r, nil
}

func scanBucket(s repository.Scanner) (Bucket, error) {
	var b Bucket
	err := s.Scan(&b.Value, &b.Count)
	return b, err
}
