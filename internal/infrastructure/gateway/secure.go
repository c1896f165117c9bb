package gateway

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"
)

// MissingCredential is sent as the bearer value when no identity is signed
// in, matching what the browser client sends, so the backend rejects
// anonymous calls uniformly.
const MissingCredential = "undefined"

// CredentialSource yields the current bearer credential at call time.
type CredentialSource interface {
	Credential(ctx context.Context) (string, bool)
}

// RejectionHandler is told about every 401/403 response along with the
// credential the rejected request carried, or "" when it carried none.
type RejectionHandler func(ctx context.Context, status int, credential string)

// Secure installs the bearer header interceptor and the session rejection
// interceptor as a pair, and returns one release function that removes both.
//
// The credential is read from creds on every request, so a credential
// obtained after Secure was called (for example after sign-in) is used.
// The rejection interceptor always returns the original error.
func (c *Client) Secure(creds CredentialSource, onRejected RejectionHandler) (release func()) {
	ejectRequest := c.UseRequest(func(req *http.Request) error {
		token, ok := creds.Credential(req.Context())
		if !ok || token == "" {
			token = MissingCredential
		}
		req.Header.Set("Authorization", "Bearer "+token)
		return nil
	})

	ejectResponse := c.UseResponse(func(req *http.Request, err error) error {
		var apiErr *APIError
		if onRejected != nil && errors.As(err, &apiErr) && apiErr.SessionRejected() {
			onRejected(req.Context(), apiErr.Status, sentCredential(req))
		}
		return err
	})

	var once sync.Once
	return func() {
		once.Do(func() {
			ejectResponse()
			ejectRequest()
		})
	}
}

// sentCredential reads back the bearer the request interceptor wrote.
func sentCredential(req *http.Request) string {
	token, ok := strings.CutPrefix(req.Header.Get("Authorization"), "Bearer ")
	if !ok || token == MissingCredential {
		return ""
	}
	return token
}
