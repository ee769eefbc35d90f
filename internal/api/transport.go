package api

import (
	"net/http"

	"github.com/google/uuid"
)

// TokenSource supplies the current bearer token, or "" when none is stored
type TokenSource interface {
	Token() string
}

// authTransport attaches the bearer token and a request id to every outgoing
// request, and reports 401 responses so the session can be invalidated.
// The login call is exempt from invalidation: a failed login must not delete
// a previously stored token (redirect-loop guard).
type authTransport struct {
	base           http.RoundTripper
	tokens         TokenSource
	onUnauthorized func()
}

func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// Clone before mutating headers; the request may be retried by callers
	out := req.Clone(req.Context())
	out.Header.Set("X-Request-ID", uuid.NewString())

	hadToken := false
	if tok := t.tokens.Token(); tok != "" {
		out.Header.Set("Authorization", "Bearer "+tok)
		hadToken = true
	}

	base := t.base
	if base == nil {
		base = http.DefaultTransport
	}

	resp, err := base.RoundTrip(out)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusUnauthorized && hadToken && req.URL.Path != EndpointLogin {
		if t.onUnauthorized != nil {
			t.onUnauthorized()
		}
	}
	return resp, nil
}
