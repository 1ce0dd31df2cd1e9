package middles

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shoenig/go-conceal"
	"github.com/shoenig/test/must"
	"newscopilot.net/go/webtools/middles/identity"
)

type profiles struct {
	calls   int
	profile *identity.Profile
	err     error
}

func (p *profiles) CurrentProfile(_ context.Context, _ *conceal.Text) (*identity.Profile, error) {
	p.calls++
	return p.profile, p.err
}

func hydrate(t *testing.T, p Profiles, session *Session) *Session {
	t.Helper()

	var got *Session
	h := &Hydrate{
		Profiles: p,
		Next: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got = GetSession(r)
		}),
	}

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	if session != nil {
		r = WithSession(r, session)
	}
	h.ServeHTTP(httptest.NewRecorder(), r)
	return got
}

func TestHydrate_authenticated(t *testing.T) {
	t.Parallel()

	p := &profiles{profile: &identity.Profile{
		ID:          1,
		Email:       "ada@example.com",
		DisplayName: "Ada",
		Roles:       []identity.Role{identity.RoleWriter},
	}}

	got := hydrate(t, p, &Session{
		Identity: identity.Authenticated("ada@example.com"),
		Access:   conceal.New("at"),
	})

	must.Eq(t, 1, p.calls)
	must.Eq(t, "Ada", got.Identity.Name())
	must.True(t, got.Identity.HasAnyRole(identity.RoleWriter))
	must.Eq(t, "at", got.Access.Unveil())
}

func TestHydrate_fillsSubject(t *testing.T) {
	t.Parallel()

	p := &profiles{profile: &identity.Profile{Email: "ada@example.com"}}

	got := hydrate(t, p, &Session{
		Identity: identity.Authenticated(""),
		Access:   conceal.New("at"),
	})

	must.Eq(t, "ada@example.com", got.Identity.Subject)
}

func TestHydrate_anonymous(t *testing.T) {
	t.Parallel()

	p := new(profiles)

	got := hydrate(t, p, nil)
	must.Eq(t, 0, p.calls)
	must.False(t, got.Active())
}

func TestHydrate_error(t *testing.T) {
	t.Parallel()

	p := &profiles{err: errors.New("backend: unexpected status 500")}

	got := hydrate(t, p, &Session{
		Identity: identity.Authenticated("42"),
		Access:   conceal.New("at"),
	})

	must.Eq(t, 1, p.calls)
	must.True(t, got.Active())
	must.Eq(t, "42", got.Identity.Subject)
	must.Nil(t, got.Identity.Profile)
}
