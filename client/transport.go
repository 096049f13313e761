package client

import (
	"net/http"
)

// BearerTransport attaches the session's bearer token to every outgoing
// request.
type BearerTransport struct {
	Token string
	Base  http.RoundTripper
}

func (t BearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}

	req = req.Clone(req.Context())
	if t.Token != "" {
		req.Header.Set("Authorization", "Bearer "+t.Token)
	}
	req.Header.Set("User-Agent", UserAgent)
	return base.RoundTrip(req)
}
