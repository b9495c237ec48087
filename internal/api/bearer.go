package api

import (
	"fmt"
	"net/http"
	"net/url"
)

// bearerDoer attaches the persisted token to every request aimed at the API
// origin. Requests to other hosts, such as the DID directory, go out without it.
type bearerDoer struct {
	next   HTTPDoer
	tokens TokenSource
	origin *url.URL
}

func newBearerDoer(next HTTPDoer, tokens TokenSource, base *url.URL) *bearerDoer {
	return &bearerDoer{next: next, tokens: tokens, origin: base}
}

func (d *bearerDoer) Do(req *http.Request) (*http.Response, error) {
	if d.tokens == nil || !sameOrigin(d.origin, req.URL) {
		return d.next.Do(req)
	}
	token, err := d.tokens.Token(req.Context())
	if err != nil {
		return nil, fmt.Errorf("read bearer token: %w", err)
	}
	if token != "" {
		req = req.Clone(req.Context())
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return d.next.Do(req)
}

func sameOrigin(a, b *url.URL) bool {
	if a == nil || b == nil {
		return false
	}
	return a.Scheme == b.Scheme && a.Host == b.Host
}
