// SPDX-License-Identifier: MIT OR LGPL-3.0-or-later

// Package canned holds the fixed ACME payloads served by acmestub and renders
// them against a base URL. Every absolute link in a template is written with
// the BaseURLPlaceholder token which is substituted exactly once per render.
package canned
