// SPDX-License-Identifier: LGPL-3.0-or-later

package loopback

import (
	"context"
	"fmt"
	"net"
)

const (
	// Host is the address every listener is bound to.
	Host = "127.0.0.1"

	network = "tcp4"
	address = Host + ":0"
)

// Listen binds a TCP listener on an OS-assigned loopback port that has not
// been handed out recently. A nil lc uses the zero net.ListenConfig. A bind
// error is returned as is, without another attempt.
func Listen(ctx context.Context, lc *net.ListenConfig) (net.Listener, Port, error) {
	if lc == nil {
		lc = &net.ListenConfig{}
	}
	return vended.listen(ctx, func() (net.Listener, error) {
		return lc.Listen(ctx, network, address)
	})
}

func bindError(err error) error {
	return fmt.Errorf("loopback bind: %w", err)
}
