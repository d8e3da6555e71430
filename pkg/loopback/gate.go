// SPDX-License-Identifier: LGPL-3.0-or-later

package loopback

import (
	"context"
	"fmt"
	"net"

	lru "github.com/hashicorp/golang-lru/v2"
)

// maxVendedPorts is how many handed out ports are remembered. It also bounds
// how many stale listeners a single Listen call holds while searching.
const maxVendedPorts = 64

var vended = mustFreshGate(maxVendedPorts)

// freshGate hands out listeners whose port was not among the last few it
// handed out, so a new server never inherits the address of one that was
// just stopped while clients may still target it.
type freshGate struct {
	ports   *lru.Cache[Port, struct{}]
	maxHeld int
}

func newFreshGate(size int) (*freshGate, error) {
	cache, err := lru.New[Port, struct{}](size)
	if err != nil {
		return nil, fmt.Errorf("port cache: %w", err)
	}

	return &freshGate{
		ports:   cache,
		maxHeld: size,
	}, nil
}

func mustFreshGate(size int) *freshGate {
	g, err := newFreshGate(size)
	if err != nil {
		panic("cannot initialize port cache: " + err.Error())
	}
	return g
}

// claim records p as vended. It reports false when p was vended recently.
func (g *freshGate) claim(p Port) bool {
	seen, _ := g.ports.ContainsOrAdd(p, struct{}{})
	return !seen
}

// recent reports whether p was vended recently, without recording it.
func (g *freshGate) recent(p Port) bool {
	return g.ports.Contains(p)
}

// listen calls bind until it yields a listener on a fresh port. Listeners on
// stale ports stay open until the search ends so the OS can't offer their
// port again.
func (g *freshGate) listen(ctx context.Context, bind func() (net.Listener, error)) (net.Listener, Port, error) {
	var held []net.Listener
	defer func() {
		for _, l := range held {
			l.Close()
		}
	}()

	for {
		if err := ctx.Err(); err != nil {
			return nil, 0, err
		}

		l, err := bind()
		if err != nil {
			return nil, 0, bindError(err)
		}

		p, err := PortOf(l.Addr())
		if err != nil {
			l.Close()
			return nil, 0, err
		}

		if g.claim(p) {
			return l, p, nil
		}

		held = append(held, l)
		if len(held) >= g.maxHeld {
			return nil, 0, fmt.Errorf("no fresh loopback port after skipping %d", len(held))
		}
	}
}
