// SPDX-License-Identifier: MIT OR LGPL-3.0-or-later

package rfc6761

import (
	"strings"

	"github.com/miekg/dns"
)

const (
	// TestTLD is the rfc6761 designated TLD name reserved specifically
	// for testing usages.
	//
	// https://www.rfc-editor.org/rfc/rfc6761#section-6.2
	TestTLD = "test"
)

// Domain joins labels under TestTLD, without a trailing dot, the way names
// appear in email addresses and ACME identifiers. Empty labels are dropped.
func Domain(labels ...string) string {
	parts := make([]string, 0, len(labels)+1)
	for _, l := range labels {
		l = strings.Trim(l, ".")
		if l != "" {
			parts = append(parts, strings.ToLower(l))
		}
	}
	return strings.Join(append(parts, TestTLD), ".")
}

// IsTest reports whether dn is TestTLD or a name below it. Case and a
// trailing dot are ignored.
func IsTest(dn string) bool {
	n := dns.CanonicalName(dn)
	return n == TestTLD+"." || dns.IsSubDomain(TestTLD+".", n)
}
