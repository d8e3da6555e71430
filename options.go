// SPDX-License-Identifier: LGPL-3.0-or-later

package acmestub

import (
	"context"
	"errors"
	"net"
	"time"

	"github.com/rs/zerolog"

	"github.com/jahkeup/acmestub/pkg/canned"
)

const (
	// DefaultShutdownTimeout bounds how long in-flight requests may take to
	// finish once shutdown is signaled.
	DefaultShutdownTimeout = 5 * time.Second
	// DefaultClientTimeout is the timeout of clients returned by
	// Server.Client.
	DefaultClientTimeout = 10 * time.Second
)

type testingT interface {
	Cleanup(func())
}

type config struct {
	Context context.Context
	net.ListenConfig

	Logger          *zerolog.Logger
	ShutdownTimeout time.Duration
	RenderCacheSize int
}

// Option configures a Server before it is started.
type Option = func(*config) error

func newConfig(t testingT) (*config, func()) {
	var defaultContext context.Context
	if provider, ok := t.(interface {
		Context() context.Context
	}); ok {
		// t had a context, use the value it provides.
		defaultContext = provider.Context()
		if defaultContext == nil {
			panic("provider yielded a nil context; context required to start acmestub")
		}
	} else {
		defaultContext = context.Background()
	}

	target := &config{}

	finalize := func() {
		if target.Context == nil {
			target.Context = defaultContext
		}

		if target.Logger == nil {
			// If you want logs, then you're going to have to configure a
			// logger.
			nop := zerolog.Nop()
			target.Logger = &nop
		}

		if target.ShutdownTimeout == 0 {
			target.ShutdownTimeout = DefaultShutdownTimeout
		}

		if target.RenderCacheSize == 0 {
			target.RenderCacheSize = canned.DefaultCacheSize
		}
	}

	return target, finalize
}

// WithContext sets the context the server lives in. Canceling it shuts the
// server down.
func WithContext(ctx context.Context) Option {
	return func(c *config) error {
		if ctx == nil {
			return errors.New("nil context")
		}
		c.Context = ctx
		return nil
	}
}

// WithLogger sets the logger for request and lifecycle events.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *config) error {
		c.Logger = &logger
		return nil
	}
}

// WithListenConfig sets the net.ListenConfig used to bind the listener.
func WithListenConfig(lc net.ListenConfig) Option {
	return func(c *config) error {
		c.ListenConfig = lc
		return nil
	}
}

func WithShutdownTimeout(d time.Duration) Option {
	return func(c *config) error {
		if d < 0 {
			return errors.New("negative shutdown timeout")
		}
		c.ShutdownTimeout = d
		return nil
	}
}

// WithRenderCacheSize sets how many rendered responses are memoized.
func WithRenderCacheSize(n int) Option {
	return func(c *config) error {
		if n <= 0 {
			return errors.New("render cache size must be positive")
		}
		c.RenderCacheSize = n
		return nil
	}
}
