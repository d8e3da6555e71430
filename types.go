// SPDX-License-Identifier: LGPL-3.0-or-later

package acmestub

import (
	"net/http"
)

// ACMEServer is the handle lego helpers need to talk to a running stub.
type ACMEServer interface {
	DirectoryURL() string
	Client() *http.Client
}
