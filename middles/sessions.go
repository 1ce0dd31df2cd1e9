package middles

import (
	"context"
	"net/http"

	"github.com/shoenig/go-conceal"
	"newscopilot.net/go/webtools/middles/identity"
)

// Session is what the guard resolved for one request: who the request is
// made on behalf of, and the access token to present to the API on their
// behalf, if any.
type Session struct {
	Identity identity.Identity
	Access   *conceal.Text
}

// Active returns whether the session is authenticated.
func (s *Session) Active() bool {
	return s.Identity.Active()
}

type userSessionKey struct{}

var sessionContextKey = userSessionKey{}

// GetSession extracts the session out of the http.Request.
//
// If no session is found, an anonymous session where .Active() always
// returns false is returned.
func GetSession(r *http.Request) *Session {
	value, ok := r.Context().Value(sessionContextKey).(*Session)
	if !ok {
		return &Session{Identity: identity.Anonymous()}
	}
	return value
}

// WithSession returns a shallow copy of r carrying s.
func WithSession(r *http.Request, s *Session) *http.Request {
	ctx := context.WithValue(r.Context(), sessionContextKey, s)
	return r.WithContext(ctx)
}
