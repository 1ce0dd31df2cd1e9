package middles

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/shoenig/go-conceal"
	"newscopilot.net/go/webtools"
	"newscopilot.net/go/webtools/backend/auth"
	"newscopilot.net/go/webtools/metrics"
	"newscopilot.net/go/webtools/middles/identity"
	"newscopilot.net/go/webtools/middles/tokens"
)

// Refresher exchanges a refresh token for a new access token.
type Refresher interface {
	Refresh(ctx context.Context, refreshToken *conceal.Text) auth.RefreshResult
}

// Outcome names how a session was resolved.
type Outcome string

const (
	// OutcomeValid means the presented access token was unexpired.
	OutcomeValid Outcome = "valid"

	// OutcomeRefreshed means a new access token was obtained.
	OutcomeRefreshed Outcome = "refreshed"

	// OutcomeAnonymous means there was nothing to authenticate with.
	OutcomeAnonymous Outcome = "anonymous"

	// OutcomeRejected means the API refused the refresh token.
	OutcomeRejected Outcome = "rejected"

	// OutcomeFailed means the refresh could not be completed.
	OutcomeFailed Outcome = "failed"
)

// Resolution is the result of resolving the credential pair of one request.
type Resolution struct {
	Identity  identity.Identity
	Mutations tokens.Mutations
	Access    *conceal.Text
	Outcome   Outcome

	// Reason is set when a refresh token was discarded.
	Reason string
}

// Guard resolves the session of every request from its token cookies,
// refreshing an expired or unreadable access token when a refresh token is
// available. Authentication trouble never fails a request; at worst the
// request continues anonymously.
type Guard struct {
	Refresher Refresher
	Cookies   *tokens.CookieFactory
	Clock     func() time.Time
	Logger    *slog.Logger
	Metrics   *metrics.Metrics
	Next      http.Handler
}

func (g *Guard) now() time.Time {
	if g.Clock == nil {
		return time.Now()
	}
	return g.Clock()
}

func (g *Guard) logger() *slog.Logger {
	if g.Logger == nil {
		return slog.Default()
	}
	return g.Logger
}

// Resolve determines the identity behind the presented credential pair and
// the cookie changes needed to keep the browser in step with it.
//
// At most one refresh call is made. A valid access token is trusted without
// any call.
func (g *Guard) Resolve(ctx context.Context, presented tokens.Pair) *Resolution {
	res := new(Resolution)

	var subject string
	if presented.Access != nil {
		claims, err := tokens.Decode(presented.Access)
		switch {
		case err != nil:
			res.Mutations.Clear(tokens.AccessCookie)
		case claims.Valid(g.now()):
			res.Identity = identity.Authenticated(claims.Subject)
			res.Access = presented.Access
			res.Outcome = OutcomeValid
			return res
		default:
			subject = claims.Subject
			res.Mutations.Clear(tokens.AccessCookie)
		}
	}

	if presented.Refresh == nil {
		res.Identity = identity.Anonymous()
		res.Outcome = OutcomeAnonymous
		return res
	}

	start := time.Now()
	result := g.Refresher.Refresh(ctx, presented.Refresh)

	switch r := result.(type) {
	case auth.Refreshed:
		if r.AccessToken == nil || r.AccessToken.Unveil() == "" {
			res.Mutations.Clear(tokens.RefreshCookie)
			res.Identity = identity.Anonymous()
			res.Outcome = OutcomeFailed
			res.Reason = "refresh issued an empty access token"
			break
		}
		res.Mutations.Set(tokens.AccessCookie, r.AccessToken)
		if claims, err := tokens.Decode(r.AccessToken); err == nil && claims.Subject != "" {
			subject = claims.Subject
		}
		res.Identity = identity.Authenticated(subject)
		res.Access = r.AccessToken
		res.Outcome = OutcomeRefreshed
	case auth.Rejected:
		res.Mutations.Clear(tokens.AccessCookie)
		res.Mutations.Clear(tokens.RefreshCookie)
		res.Identity = identity.Anonymous()
		res.Outcome = OutcomeRejected
		res.Reason = r.Message
	case auth.Failed:
		res.Mutations.Clear(tokens.RefreshCookie)
		res.Identity = identity.Anonymous()
		res.Outcome = OutcomeFailed
		res.Reason = r.Message
		if r.Err != nil {
			res.Reason = r.Err.Error()
		}
	default:
		res.Mutations.Clear(tokens.RefreshCookie)
		res.Identity = identity.Anonymous()
		res.Outcome = OutcomeFailed
		res.Reason = "unrecognized refresh result"
	}

	g.Metrics.ObserveRefresh(string(res.Outcome), time.Since(start).Seconds())
	return res
}

func (g *Guard) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	res := g.Resolve(r.Context(), tokens.FromRequest(r))

	if len(res.Mutations) > 0 {
		g.Cookies.Apply(w, res.Mutations)
		webtools.SetCacheControl(w, 0)
		tokens.Rewrite(r, res.Mutations)
	}

	g.Metrics.RecordResolution(string(res.Outcome))

	switch res.Outcome {
	case OutcomeRejected:
		g.logger().Info("refresh token rejected",
			webtools.Origins(r).Attr(),
			slog.String("reason", res.Reason),
		)
	case OutcomeFailed:
		g.logger().Warn("unable to refresh access token",
			webtools.Origins(r).Attr(),
			slog.String("reason", res.Reason),
		)
	case OutcomeRefreshed:
		g.logger().Debug("access token refreshed",
			webtools.Origins(r).Attr(),
			slog.String("subject", res.Identity.Subject),
		)
	}

	session := &Session{
		Identity: res.Identity,
		Access:   res.Access,
	}

	g.Next.ServeHTTP(w, WithSession(r, session))
}
