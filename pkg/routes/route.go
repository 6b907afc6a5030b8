package routes

import (
	"net/http"
	"strings"
)

// Route binds an HTTP method and pattern to a handler.
type Route struct {
	Method  string
	Pattern string
	Handler http.HandlerFunc
}

// Endpoint is a registered method and full path.
type Endpoint struct {
	Method string
	Path   string
}

// OpenAPIPath returns the path in OpenAPI template form. Trailing wildcard
// segments such as {key...} become {key}.
func (e Endpoint) OpenAPIPath() string {
	return strings.ReplaceAll(e.Path, "...}", "}")
}

func (e Endpoint) String() string {
	return e.Method + " " + e.Path
}
