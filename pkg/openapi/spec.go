package openapi

import (
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strings"
)

// ErrUnresolvedRef indicates a $ref that names no component.
var ErrUnresolvedRef = errors.New("unresolved reference")

const (
	schemaPrefix   = "#/components/schemas/"
	responsePrefix = "#/components/responses/"
)

// Spec represents an OpenAPI 3.1 specification document.
type Spec struct {
	OpenAPI    string               `json:"openapi"`
	Info       *Info                `json:"info"`
	Servers    []*Server            `json:"servers,omitempty"`
	Paths      map[string]*PathItem `json:"paths"`
	Components *Components          `json:"components,omitempty"`
}

// NewSpec creates a Spec with the given title, version, and default components.
func NewSpec(title, version string) *Spec {
	return &Spec{
		OpenAPI: "3.1.0",
		Info: &Info{
			Title:   title,
			Version: version,
		},
		Components: NewComponents(),
		Paths:      make(map[string]*PathItem),
	}
}

// AddServer appends a server URL to the spec.
func (s *Spec) AddServer(url string) {
	s.Servers = append(s.Servers, &Server{URL: url})
}

// SetDescription sets the API description in the info object.
func (s *Spec) SetDescription(desc string) {
	s.Info.Description = desc
}

// AddPaths merges path items into the spec, combining operations when a
// path is already present.
func (s *Spec) AddPaths(paths map[string]*PathItem) {
	for path, item := range paths {
		existing, ok := s.Paths[path]
		if !ok {
			s.Paths[path] = item
			continue
		}
		existing.merge(item)
	}
}

// Validate reports every schema or response reference that does not
// resolve to a component.
func (s *Spec) Validate() error {
	var missing []string

	checkSchema := func(sc *Schema) {
		walkSchema(sc, func(ref string) {
			name, ok := strings.CutPrefix(ref, schemaPrefix)
			if !ok || s.Components.Schemas[name] == nil {
				missing = append(missing, ref)
			}
		})
	}

	for _, sc := range s.Components.Schemas {
		checkSchema(sc)
	}

	for path, item := range s.Paths {
		for method, op := range item.Operations() {
			if op.RequestBody != nil {
				for _, mt := range op.RequestBody.Content {
					checkSchema(mt.Schema)
				}
			}
			for _, p := range op.Parameters {
				checkSchema(p.Schema)
			}
			for _, resp := range op.Responses {
				if resp.Ref != "" {
					name, ok := strings.CutPrefix(resp.Ref, responsePrefix)
					if !ok || s.Components.Responses[name] == nil {
						missing = append(missing, fmt.Sprintf("%s %s: %s", method, path, resp.Ref))
					}
				}
				for _, mt := range resp.Content {
					checkSchema(mt.Schema)
				}
			}
		}
	}

	if len(missing) > 0 {
		slices.Sort(missing)
		return fmt.Errorf("%w: %s", ErrUnresolvedRef, strings.Join(slices.Compact(missing), ", "))
	}
	return nil
}

func walkSchema(sc *Schema, ref func(string)) {
	if sc == nil {
		return
	}
	if sc.Ref != "" {
		ref(sc.Ref)
	}
	for _, p := range sc.Properties {
		walkSchema(p, ref)
	}
	walkSchema(sc.Items, ref)
	walkSchema(sc.AdditionalProperties, ref)
}

// ServeSpec returns a handler that serves pre-serialized JSON spec bytes.
func ServeSpec(specBytes []byte) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Header().Set("Cache-Control", "no-cache")
		w.WriteHeader(http.StatusOK)
		w.Write(specBytes)
	}
}
