// SPDX-License-Identifier: LGPL-3.0-or-later

package canned

// BaseURLPlaceholder marks where the base URL goes in a template.
const BaseURLPlaceholder = "<URL>"

const directoryTemplate = `{
  "keyChange": "<URL>/acme/key-change",
  "newAccount": "<URL>/acme/new-acct",
  "newNonce": "<URL>/acme/new-nonce",
  "newOrder": "<URL>/acme/new-order",
  "revokeCert": "<URL>/acme/revoke-cert",
  "meta": {
    "caaIdentities": [
      "testdir.org"
    ]
  }
}`

const accountTemplate = `{
  "id": 7728515,
  "key": {
    "use": "sig",
    "kty": "EC",
    "crv": "P-256",
    "alg": "ES256",
    "x": "ttpobTRK2bw7ttGBESRO7Nb23mbIRfnRZwunL1W6wRI",
    "y": "h2Z00J37_2qRKH0-flrHEsH0xbit915Tyvd2v_CAOSk"
  },
  "contact": [
    "mailto:foo@bar.com"
  ],
  "initialIp": "90.171.37.12",
  "createdAt": "2018-12-31T17:15:40.399104457Z",
  "status": "valid"
}`

const newOrderTemplate = `{
  "status": "pending",
  "expires": "2019-01-09T08:26:43.570360537Z",
  "identifiers": [
    {
      "type": "dns",
      "value": "acmetest.example.com"
    }
  ],
  "authorizations": [
    "<URL>/acme/authz/YTqpYUthlVfwBncUufE8IRWLMSRqcSs"
  ],
  "finalize": "<URL>/acme/finalize/7738992/18234324"
}`

// The order is reported as already finalized, regardless of any finalize
// request having been made.
const orderTemplate = `{
  "status": "valid",
  "expires": "2019-01-09T08:26:43.570360537Z",
  "identifiers": [
    {
      "type": "dns",
      "value": "acmetest.example.com"
    }
  ],
  "authorizations": [
    "<URL>/acme/authz/YTqpYUthlVfwBncUufE8IRWLMSRqcSs"
  ],
  "finalize": "<URL>/acme/finalize/7738992/18234324",
  "certificate": "<URL>/acme/cert/fae41c070f967713109028"
}`

const authorizationTemplate = `{
  "identifier": {
    "type": "dns",
    "value": "acmetest.algesten.se"
  },
  "status": "pending",
  "expires": "2019-01-09T08:26:43Z",
  "challenges": [
    {
      "type": "http-01",
      "status": "pending",
      "url": "<URL>/acme/challenge/YTqpYUthlVfwBncUufE8IRWLMSRqcSs/216789597",
      "token": "MUi-gqeOJdRkSb_YR2eaMxQBqf6al8dgt_dOttSWb0w"
    },
    {
      "type": "tls-alpn-01",
      "status": "pending",
      "url": "<URL>/acme/challenge/YTqpYUthlVfwBncUufE8IRWLMSRqcSs/216789598",
      "token": "WCdRWkCy4THTD_j5IH4ISAzr59lFIg5wzYmKxuOJ1lU"
    },
    {
      "type": "dns-01",
      "status": "pending",
      "url": "<URL>/acme/challenge/YTqpYUthlVfwBncUufE8IRWLMSRqcSs/216789599",
      "token": "RRo2ZcXAEqxKvMH8RGcATjSK1KknLEUmauwfQ5i3gG8"
    }
  ]
}`
