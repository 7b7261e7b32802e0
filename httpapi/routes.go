package httpapi

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrInvalidRoute is returned by LoadRoutes for an incomplete route entry.
var ErrInvalidRoute = errors.New("httpapi: invalid route")

type routeTable struct {
	Routes []Route `yaml:"routes"`
}

// LoadRoutes parses a YAML route table of the form:
//
//	routes:
//	  - method: GET
//	    path: /items/:id
//	    event: get
//
// Methods are upper-cased.
func LoadRoutes(r io.Reader) ([]Route, error) {
	var table routeTable
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&table); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("httpapi: decode routes: %w", err)
	}

	for i := range table.Routes {
		rt := &table.Routes[i]
		rt.Method = strings.ToUpper(strings.TrimSpace(rt.Method))
		switch {
		case rt.Method == "":
			return nil, fmt.Errorf("%w: route %d: method is empty", ErrInvalidRoute, i)
		case !validMethod(rt.Method):
			return nil, fmt.Errorf("%w: route %d: unknown method %q", ErrInvalidRoute, i, rt.Method)
		case !strings.HasPrefix(rt.Path, "/"):
			return nil, fmt.Errorf("%w: route %d: path %q must start with /", ErrInvalidRoute, i, rt.Path)
		case rt.Event == "":
			return nil, fmt.Errorf("%w: route %d: event is empty", ErrInvalidRoute, i)
		}
	}
	return table.Routes, nil
}

func validMethod(m string) bool {
	switch m {
	case http.MethodGet, http.MethodHead, http.MethodPost, http.MethodPut,
		http.MethodPatch, http.MethodDelete, http.MethodOptions:
		return true
	}
	return false
}
