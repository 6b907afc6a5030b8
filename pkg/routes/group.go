package routes

import (
	"net/http"
	"slices"
	"strings"
)

// Group organizes routes under a common prefix.
type Group struct {
	Prefix   string
	Routes   []Route
	Children []Group
}

// Register adds all routes from the given groups to the mux.
func Register(mux *http.ServeMux, groups ...Group) {
	walk(groups, func(path string, r Route) {
		mux.HandleFunc(r.Method+" "+path, r.Handler)
	})
}

// Endpoints lists every method and full path the groups register, sorted
// by path then method.
func Endpoints(groups ...Group) []Endpoint {
	var out []Endpoint
	walk(groups, func(path string, r Route) {
		out = append(out, Endpoint{Method: r.Method, Path: path})
	})

	slices.SortFunc(out, func(a, b Endpoint) int {
		if c := strings.Compare(a.Path, b.Path); c != 0 {
			return c
		}
		return strings.Compare(a.Method, b.Method)
	})
	return out
}

func walk(groups []Group, fn func(string, Route)) {
	for _, g := range groups {
		walkGroup("", g, fn)
	}
}

func walkGroup(parent string, g Group, fn func(string, Route)) {
	prefix := parent + g.Prefix
	for _, r := range g.Routes {
		fn(prefix+r.Pattern, r)
	}
	for _, child := range g.Children {
		walkGroup(prefix, child, fn)
	}
}
