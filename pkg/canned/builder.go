// SPDX-License-Identifier: LGPL-3.0-or-later

package canned

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheSize is the number of rendered responses kept by a Builder. A
// single stub only ever sees a handful of base URLs.
const DefaultCacheSize = 64

type renderKey struct {
	resource Resource
	base     string
}

// Builder memoizes Build results. It is safe for concurrent use.
type Builder struct {
	rendered *lru.Cache[renderKey, Response]
}

// NewBuilder creates a Builder holding up to size rendered responses.
func NewBuilder(size int) (*Builder, error) {
	cache, err := lru.New[renderKey, Response](size)
	if err != nil {
		return nil, fmt.Errorf("render cache: %w", err)
	}

	return &Builder{
		rendered: cache,
	}, nil
}

// Build returns the response for resource rendered against base. The header
// of the returned value is owned by the caller.
func (b *Builder) Build(resource Resource, base string) Response {
	key := renderKey{resource: resource, base: base}
	if resp, ok := b.rendered.Get(key); ok {
		return resp.clone()
	}

	resp := Build(resource, base)
	b.rendered.Add(key, resp)
	return resp.clone()
}

// Len reports how many rendered responses are cached.
func (b *Builder) Len() int {
	return b.rendered.Len()
}
