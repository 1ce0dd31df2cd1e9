package middles

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/shoenig/go-conceal"
	"newscopilot.net/go/webtools"
	"newscopilot.net/go/webtools/metrics"
	"newscopilot.net/go/webtools/middles/identity"
)

// Profiles looks up the profile of the user an access token was issued to.
type Profiles interface {
	CurrentProfile(ctx context.Context, access *conceal.Text) (*identity.Profile, error)
}

// Hydrate attaches the user profile to authenticated sessions. It must be
// placed after a Guard.
//
// A failed lookup is logged and the request continues with the session as
// the guard resolved it.
type Hydrate struct {
	Profiles Profiles
	Logger   *slog.Logger
	Metrics  *metrics.Metrics
	Next     http.Handler
}

func (h *Hydrate) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	session := GetSession(r)
	if !session.Active() || session.Access == nil {
		h.Next.ServeHTTP(w, r)
		return
	}

	profile, err := h.Profiles.CurrentProfile(r.Context(), session.Access)
	h.Metrics.RecordHydration(err == nil)
	if err != nil {
		logger := h.Logger
		if logger == nil {
			logger = slog.Default()
		}
		logger.Warn("unable to hydrate session",
			webtools.Origins(r).Attr(),
			slog.String("error", err.Error()),
		)
		h.Next.ServeHTTP(w, r)
		return
	}

	id := session.Identity
	id.Profile = profile
	if id.Subject == "" {
		id.Subject = profile.Email
	}

	h.Next.ServeHTTP(w, WithSession(r, &Session{
		Identity: id,
		Access:   session.Access,
	}))
}
