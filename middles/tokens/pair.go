// Package tokens handles the access and refresh token cookies carried by
// every browser request.
package tokens

import (
	"net/http"

	"github.com/shoenig/go-conceal"
)

const (
	// AccessCookie is the name of the cookie holding the JWT access token.
	AccessCookie = "accessToken"

	// RefreshCookie is the name of the cookie holding the refresh token.
	RefreshCookie = "refreshToken"
)

// Pair is the credential pair presented by a request. A nil field means the
// cookie was not presented.
type Pair struct {
	Access  *conceal.Text
	Refresh *conceal.Text
}

// FromRequest extracts the credential pair from the cookies of r. Empty
// cookie values are treated as absent.
func FromRequest(r *http.Request) Pair {
	return Pair{
		Access:  cookieValue(r, AccessCookie),
		Refresh: cookieValue(r, RefreshCookie),
	}
}

func cookieValue(r *http.Request, name string) *conceal.Text {
	cookie, err := r.Cookie(name)
	if err != nil || cookie.Value == "" {
		return nil
	}
	return conceal.New(cookie.Value)
}
