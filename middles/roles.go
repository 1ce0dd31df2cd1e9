package middles

import (
	"net/http"

	"newscopilot.net/go/webtools"
	"newscopilot.net/go/webtools/middles/identity"
)

// RequireRoles only lets through requests whose session holds at least one
// of Roles; anyone else is redirected to Redirect, or "/" if unset.
type RequireRoles struct {
	Roles    []identity.Role
	Redirect string
	Next     http.Handler
}

func (rr *RequireRoles) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	webtools.SetRobotsTag(w, webtools.RobotsNoIndex)

	if !GetSession(r).Identity.HasAnyRole(rr.Roles...) {
		target := rr.Redirect
		if target == "" {
			target = "/"
		}
		http.Redirect(w, r, target, http.StatusTemporaryRedirect)
		return
	}

	rr.Next.ServeHTTP(w, r)
}
