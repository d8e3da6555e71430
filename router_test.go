// SPDX-License-Identifier: LGPL-3.0-or-later

package acmestub

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jahkeup/acmestub/pkg/canned"
)

func testRouter(t *testing.T) *Router {
	builder, err := canned.NewBuilder(canned.DefaultCacheSize)
	require.NoError(t, err)
	return NewRouter(builder, zerolog.Nop())
}

func TestRouterCatalog(t *testing.T) {
	router := testRouter(t)

	testcases := []struct {
		method   string
		path     string
		status   int
		location string
	}{
		{http.MethodGet, "/directory", http.StatusOK, ""},
		{http.MethodHead, "/acme/new-nonce", http.StatusNoContent, ""},
		{http.MethodPost, "/acme/new-acct", http.StatusOK, "http://acme.test:14000/acme/acct/7728515"},
		{http.MethodPost, "/acme/new-order", http.StatusOK, "http://acme.test:14000/acme/order/YTqpYUthlVfwBncUufE8"},
		{http.MethodPost, "/acme/order/YTqpYUthlVfwBncUufE8", http.StatusOK, ""},
		{http.MethodPost, "/acme/authz/YTqpYUthlVfwBncUufE8IRWLMSRqcSs", http.StatusCreated, ""},
		{http.MethodPost, "/acme/finalize/7738992/18234324", http.StatusOK, ""},
		{http.MethodPost, "/acme/cert/fae41c070f967713109028", http.StatusOK, ""},
	}

	for _, tc := range testcases {
		t.Run(tc.method+tc.path, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, strings.NewReader(`{"ignored": true}`))
			req.Host = "acme.test:14000"
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			assert.Equal(t, tc.status, rec.Code)
			assert.Equal(t, tc.location, rec.Header().Get("Location"))
			assert.NotContains(t, rec.Body.String(), canned.BaseURLPlaceholder)
		})
	}
}

func TestRouterNotFound(t *testing.T) {
	router := testRouter(t)

	testcases := map[string]string{
		http.MethodGet:    "/acme/new-acct",
		http.MethodPost:   "/directory",
		http.MethodHead:   "/directory",
		http.MethodPut:    "/acme/new-order",
		http.MethodDelete: "/acme/cert/fae41c070f967713109028",
	}

	for method, path := range testcases {
		t.Run(method+path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(method, path, nil))

			assert.Equal(t, http.StatusNotFound, rec.Code)
			assert.Empty(t, rec.Body.Bytes())
		})
	}

	t.Run("unknown path", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/acme/directory", nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("query is not part of the path", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/directory?x=1", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestRouterBaseURL(t *testing.T) {
	router := testRouter(t)

	t.Run("host", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/directory", nil)
		req.Host = "127.0.0.1:5555"

		var dir map[string]any
		require.NoError(t, json.Unmarshal(router.Dispatch(req).Body, &dir))
		assert.Equal(t, "http://127.0.0.1:5555/acme/new-order", dir["newOrder"])
	})

	t.Run("fallback", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/directory", nil)
		req.Host = ""
		assert.Equal(t, "http://default", BaseURL(req))

		var dir map[string]any
		require.NoError(t, json.Unmarshal(router.Dispatch(req).Body, &dir))
		assert.Equal(t, "http://default/acme/new-nonce", dir["newNonce"])
	})
}
