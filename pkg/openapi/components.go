package openapi

import (
	"maps"
	"net/http"
)

// Component response names shared by every API.
const (
	BadRequest          = "BadRequest"
	NotFound            = "NotFound"
	Conflict            = "Conflict"
	UnprocessableEntity = "UnprocessableEntity"
	ServiceUnavailable  = "ServiceUnavailable"
)

// NewComponents creates Components with the shared page request schema,
// the error body schema, and one error response per status the handlers
// emit.
func NewComponents() *Components {
	return &Components{
		Schemas: map[string]*Schema{
			"PageRequest": {
				Type: "object",
				Properties: map[string]*Schema{
					"page":      {Type: "integer", Description: "Page number (1-indexed)", Example: 1, Minimum: Float(1)},
					"page_size": {Type: "integer", Description: "Results per page", Example: 20, Minimum: Float(1)},
					"search":    {Type: "string", Description: "Free text search"},
					"sort":      {Type: "string", Description: "Comma-separated sort fields, prefix - for descending", Example: "-saved_at,nom_bapteme"},
				},
			},
			"Error": {
				Type:     "object",
				Required: []string{"error"},
				Properties: map[string]*Schema{
					"error": {Type: "string", Description: "Error message"},
				},
			},
		},
		Responses: map[string]*Response{
			BadRequest:          errorResponse(http.StatusBadRequest),
			NotFound:            errorResponse(http.StatusNotFound),
			Conflict:            errorResponse(http.StatusConflict),
			UnprocessableEntity: errorResponse(http.StatusUnprocessableEntity),
			ServiceUnavailable:  errorResponse(http.StatusServiceUnavailable),
		},
	}
}

func errorResponse(status int) *Response {
	return ResponseJSON(http.StatusText(status), "Error")
}

// AddSchemas merges the given schemas into the component schemas.
func (c *Components) AddSchemas(schemas map[string]*Schema) {
	maps.Copy(c.Schemas, schemas)
}

// AddResponses merges the given responses into the component responses.
func (c *Components) AddResponses(responses map[string]*Response) {
	maps.Copy(c.Responses, responses)
}
