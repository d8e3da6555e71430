// SPDX-License-Identifier: LGPL-3.0-or-later

package acmestub

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/jahkeup/acmestub/pkg/canned"
)

// DefaultHost stands in for the request host when a request carries none.
// Links rendered with it are not expected to be reachable.
const DefaultHost = "default"

type route struct {
	method string
	path   string
}

// Router dispatches requests to the canned ACME resources. Requests outside of
// the catalog get an empty 404.
type Router struct {
	builder *canned.Builder
	routes  map[route]canned.Resource
	logger  zerolog.Logger
}

// NewRouter creates a Router serving the full canned catalog.
func NewRouter(builder *canned.Builder, logger zerolog.Logger) *Router {
	catalog := canned.Catalog()
	routes := make(map[route]canned.Resource, len(catalog))
	for _, e := range catalog {
		routes[route{method: e.Method, path: e.Path}] = e.Resource
	}

	return &Router{
		builder: builder,
		routes:  routes,
		logger:  logger,
	}
}

// BaseURL derives the base URL that links in responses to r are rendered
// against.
func BaseURL(r *http.Request) string {
	host := r.Host
	if host == "" {
		host = DefaultHost
	}
	return "http://" + host
}

// Dispatch selects the response for r. The request body is never read.
func (rt *Router) Dispatch(r *http.Request) canned.Response {
	resource, ok := rt.routes[route{method: r.Method, path: r.URL.Path}]
	if !ok {
		return canned.NotFound()
	}
	return rt.builder.Build(resource, BaseURL(r))
}

// ServeHTTP implements http.Handler
func (rt *Router) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	resp := rt.Dispatch(r)

	rt.logger.Debug().
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Str("host", r.Host).
		Int("status", resp.Status).
		Msg("request")

	if err := resp.Send(w); err != nil {
		rt.logger.Debug().Err(err).Str("path", r.URL.Path).Msg("write response")
	}
}

var _ http.Handler = (*Router)(nil)
