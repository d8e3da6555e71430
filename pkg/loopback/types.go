// SPDX-License-Identifier: LGPL-3.0-or-later

package loopback

import (
	"fmt"
	"net"
	"strconv"
)

// Port holds a port number value.
type Port uint16

// Int returns the port as an int.
func (p Port) Int() int {
	return int(p)
}

// Uint16 returns the port as an uint16.
func (p Port) Uint16() uint16 {
	return uint16(p)
}

// String prints the port number as a string.
func (p Port) String() string {
	return strconv.Itoa(int(p))
}

// HostPort joins the loopback host and p.
func (p Port) HostPort() string {
	return net.JoinHostPort(Host, p.String())
}

// PortOf extracts the port number from a listener or packet address.
func PortOf(addr net.Addr) (Port, error) {
	_, port, err := net.SplitHostPort(addr.String())
	if err != nil {
		return 0, fmt.Errorf("bad address from net: %w", err)
	}

	p, err := strconv.ParseUint(port, 10, 16)
	if err != nil {
		return 0, fmt.Errorf("bad port from net: %w", err)
	}

	return Port(p), nil
}
