// SPDX-License-Identifier: MIT OR LGPL-3.0-or-later

// Package rfc6761 builds names under the .test TLD, which rfc6761 reserves for
// testing so they can never collide with a real domain.
package rfc6761
