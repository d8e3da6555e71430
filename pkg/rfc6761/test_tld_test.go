// SPDX-License-Identifier: LGPL-3.0-or-later

package rfc6761

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDomain(t *testing.T) {
	testcases := map[string][]string{
		"test":             nil,
		"acmestub.test":    {"acmestub"},
		"foo.bar.test":     {"foo", "bar"},
		"mixed.case.test":  {"Mixed.", ".Case"},
		"skips.empty.test": {"skips", "", "empty"},
	}

	for expected, labels := range testcases {
		t.Run(expected, func(t *testing.T) {
			assert.Equal(t, expected, Domain(labels...))
		})
	}
}

func TestIsTest(t *testing.T) {
	testcases := map[string]bool{
		"test":                 true,
		"test.":                true,
		"foo.test":             true,
		"Foo.Bar.TEST.":        true,
		"acmetest.example.com": false,
		"testing":              false,
		"test.example.org":     false,
		"":                     false,
	}

	for input, expected := range testcases {
		t.Run(input, func(t *testing.T) {
			assert.Equal(t, expected, IsTest(input))
		})
	}
}
