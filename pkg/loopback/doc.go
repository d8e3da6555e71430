// SPDX-License-Identifier: MIT OR LGPL-3.0-or-later

// Package loopback binds listeners on OS-assigned IPv4 loopback ports. Ports
// recently handed out are remembered so that a listener is not given the port
// of one that was just closed.
package loopback
