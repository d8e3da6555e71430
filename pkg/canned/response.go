// SPDX-License-Identifier: LGPL-3.0-or-later

package canned

import (
	"net/http"
	"strings"
)

const (
	// ContentTypeJOSE is the content type of every JSON payload.
	ContentTypeJOSE = "application/jose+json"
	// ContentTypeText is used for the placeholder certificate.
	ContentTypeText = "text/plain; charset=utf-8"

	HeaderReplayNonce = "Replay-Nonce"
	HeaderLocation    = "Location"
	HeaderLink        = "Link"
	HeaderContentType = "Content-Type"
)

// Response is a fully determined HTTP reply. Body must be treated as
// read-only, it may be shared with other renders of the same resource.
type Response struct {
	Status int
	Header http.Header
	Body   []byte
}

// Send copies the response onto w.
func (r Response) Send(w http.ResponseWriter) error {
	h := w.Header()
	for k, vs := range r.Header {
		h[k] = append([]string(nil), vs...)
	}
	w.WriteHeader(r.Status)
	if len(r.Body) == 0 {
		return nil
	}
	_, err := w.Write(r.Body)
	return err
}

func (r Response) clone() Response {
	return Response{
		Status: r.Status,
		Header: r.Header.Clone(),
		Body:   r.Body,
	}
}

// NotFound is the reply for anything outside of the catalog.
func NotFound() Response {
	return Response{Status: http.StatusNotFound, Header: http.Header{}}
}

// Build renders resource against base, which should be a scheme://host:port
// string without a trailing slash. Base is substituted verbatim and is not
// validated. Resources outside of the catalog render as NotFound.
func Build(resource Resource, base string) Response {
	switch resource {
	case Directory:
		return jsonResponse(http.StatusOK, render(directoryTemplate, base))
	case NewNonce:
		resp := Response{Status: http.StatusNoContent, Header: http.Header{}}
		resp.Header.Set(HeaderReplayNonce, ReplayNonce)
		return resp
	case NewAccount:
		resp := jsonResponse(http.StatusOK, accountTemplate)
		resp.Header.Set(HeaderLocation, base+AccountPath)
		return resp
	case NewOrder:
		resp := jsonResponse(http.StatusOK, render(newOrderTemplate, base))
		resp.Header.Set(HeaderLocation, base+OrderPath)
		return resp
	case Order:
		return jsonResponse(http.StatusOK, render(orderTemplate, base))
	case Authorization:
		return jsonResponse(http.StatusCreated, render(authorizationTemplate, base))
	case Finalize:
		return Response{Status: http.StatusOK, Header: http.Header{}}
	case Certificate:
		resp := Response{
			Status: http.StatusOK,
			Header: http.Header{},
			Body:   []byte(CertificateBody),
		}
		resp.Header.Set(HeaderContentType, ContentTypeText)
		resp.Header.Set(HeaderLink, CertificateChainLink)
		return resp
	default:
		return NotFound()
	}
}

func jsonResponse(status int, body string) Response {
	resp := Response{
		Status: status,
		Header: http.Header{},
		Body:   []byte(body),
	}
	resp.Header.Set(HeaderContentType, ContentTypeJOSE)
	return resp
}

func render(tmpl, base string) string {
	return strings.ReplaceAll(tmpl, BaseURLPlaceholder, base)
}
