// SPDX-License-Identifier: LGPL-3.0-or-later

package canned

import "net/http"

// Resource identifies one of the logical ACME resources the stub understands.
type Resource string

const (
	Directory     Resource = "directory"
	NewNonce      Resource = "new-nonce"
	NewAccount    Resource = "new-account"
	NewOrder      Resource = "new-order"
	Order         Resource = "order"
	Authorization Resource = "authorization"
	Finalize      Resource = "finalize"
	Certificate   Resource = "certificate"
)

// Fixed identifiers embedded in the canned payloads and request paths.
const (
	ReplayNonce   = "8_uBBV3N2DBRJczhoiB46ugJKUkUHxGzVe6xIMpjHFM"
	AccountID     = "7728515"
	OrderToken    = "YTqpYUthlVfwBncUufE8"
	AuthzToken    = "YTqpYUthlVfwBncUufE8IRWLMSRqcSs"
	FinalizeIDs   = "7738992/18234324"
	CertificateID = "fae41c070f967713109028"

	// OrderIdentifier is the dns identifier of the canned order.
	OrderIdentifier = "acmetest.example.com"
	// AuthzIdentifier is the dns identifier of the canned authorization.
	AuthzIdentifier = "acmetest.algesten.se"
	// CAAIdentity is the single entry in the directory's meta block.
	CAAIdentity = "testdir.org"

	HTTP01Token    = "MUi-gqeOJdRkSb_YR2eaMxQBqf6al8dgt_dOttSWb0w"
	TLSALPN01Token = "WCdRWkCy4THTD_j5IH4ISAzr59lFIg5wzYmKxuOJ1lU"
	DNS01Token     = "RRo2ZcXAEqxKvMH8RGcATjSK1KknLEUmauwfQ5i3gG8"

	// CertificateBody is the placeholder served in place of a PEM chain.
	CertificateBody = "CERT HERE"
	// CertificateChainLink is the placeholder Link header value.
	CertificateChainLink = "link-to-chain-cert"
)

// Paths served by the stub, relative to the base URL.
const (
	DirectoryPath     = "/directory"
	NewNoncePath      = "/acme/new-nonce"
	NewAccountPath    = "/acme/new-acct"
	NewOrderPath      = "/acme/new-order"
	KeyChangePath     = "/acme/key-change"
	RevokeCertPath    = "/acme/revoke-cert"
	AccountPath       = "/acme/acct/" + AccountID
	OrderPath         = "/acme/order/" + OrderToken
	AuthorizationPath = "/acme/authz/" + AuthzToken
	FinalizePath      = "/acme/finalize/" + FinalizeIDs
	CertificatePath   = "/acme/cert/" + CertificateID
)

// Entry binds a Resource to the one request that retrieves it.
type Entry struct {
	Resource Resource
	Method   string
	Path     string
}

var catalog = [...]Entry{
	{Directory, http.MethodGet, DirectoryPath},
	{NewNonce, http.MethodHead, NewNoncePath},
	{NewAccount, http.MethodPost, NewAccountPath},
	{NewOrder, http.MethodPost, NewOrderPath},
	{Order, http.MethodPost, OrderPath},
	{Authorization, http.MethodPost, AuthorizationPath},
	{Finalize, http.MethodPost, FinalizePath},
	{Certificate, http.MethodPost, CertificatePath},
}

// Catalog returns the static set of served resources. The returned slice is a
// copy.
func Catalog() []Entry {
	entries := make([]Entry, len(catalog))
	copy(entries, catalog[:])
	return entries
}
