// SPDX-License-Identifier: MIT OR LGPL-3.0-or-later

// Package acmestub provides an in-process ACME test double. The stub serves a
// fixed set of canned directory, nonce, account, order, authorization,
// finalize and certificate responses from an ephemeral loopback port so ACME
// client code can be exercised without reaching a real CA.
//
// Nothing is validated and no state is kept: every request to a known
// resource gets the same representation with links rooted at the request's
// host. Requests outside of that set get an empty 404.
//
//	srv := acmestub.NewTesting(t)
//	resp, err := srv.Client().Get(srv.DirectoryURL())
//
// See package's test source files for example usages, including driving the
// stub with lego.
package acmestub
