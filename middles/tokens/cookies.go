package tokens

import (
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/shoenig/go-conceal"
)

// Mutation is a change to one token cookie: either set it to Value, or
// clear it when Value is nil.
type Mutation struct {
	Name  string
	Value *conceal.Text
}

// Cleared returns whether the mutation deletes the cookie.
func (m Mutation) Cleared() bool {
	return m.Value == nil
}

// Mutations is an ordered list of cookie changes holding at most one change
// per cookie name; a later change to the same cookie replaces the earlier.
type Mutations []Mutation

// Set records that cookie name is to be set to value.
func (ms *Mutations) Set(name string, value *conceal.Text) {
	ms.put(Mutation{Name: name, Value: value})
}

// Clear records that cookie name is to be deleted.
func (ms *Mutations) Clear(name string) {
	ms.put(Mutation{Name: name})
}

func (ms *Mutations) put(m Mutation) {
	i := slices.IndexFunc(*ms, func(existing Mutation) bool {
		return existing.Name == m.Name
	})
	if i < 0 {
		*ms = append(*ms, m)
		return
	}
	(*ms)[i] = m
}

// Lookup returns the change recorded for cookie name, if any.
func (ms Mutations) Lookup(name string) (Mutation, bool) {
	i := slices.IndexFunc(ms, func(m Mutation) bool {
		return m.Name == name
	})
	if i < 0 {
		return Mutation{}, false
	}
	return ms[i], true
}

// CookieFactory is used to bake the token cookies written back to the
// requester's cookie jar (web browser / http client).
type CookieFactory struct {
	Secure     bool
	AccessTTL  time.Duration
	RefreshTTL time.Duration
	Clock      func() time.Time
}

// Create the cookie for mutation m.
func (cf *CookieFactory) Create(m Mutation) *http.Cookie {
	cookie := &http.Cookie{
		Name:     m.Name,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   cf.Secure,
	}

	// a cleared cookie expires immediately
	if m.Cleared() {
		cookie.MaxAge = -1
		cookie.Expires = time.Unix(0, 0)
		return cookie
	}

	cookie.Value = m.Value.Unveil()
	cookie.Expires = cf.Clock().Add(cf.ttl(m.Name))
	return cookie
}

func (cf *CookieFactory) ttl(name string) time.Duration {
	if name == RefreshCookie {
		return cf.RefreshTTL
	}
	return cf.AccessTTL
}

// Apply writes a Set-Cookie header to w for each mutation in ms.
func (cf *CookieFactory) Apply(w http.ResponseWriter, ms Mutations) {
	for _, m := range ms {
		http.SetCookie(w, cf.Create(m))
	}
}

// Rewrite applies ms to the Cookie header of r in place, so handlers further
// down the chain observe the same cookies the browser will hold once the
// response arrives. Cookies not named in ms are kept as they were.
func Rewrite(r *http.Request, ms Mutations) {
	if len(ms) == 0 {
		return
	}

	kept := make([]string, 0, 4)
	for _, c := range r.Cookies() {
		if _, changed := ms.Lookup(c.Name); changed {
			continue
		}
		kept = append(kept, c.String())
	}

	for _, m := range ms {
		if m.Cleared() {
			continue
		}
		kept = append(kept, (&http.Cookie{Name: m.Name, Value: m.Value.Unveil()}).String())
	}

	r.Header.Del("Cookie")
	if len(kept) > 0 {
		r.Header.Set("Cookie", strings.Join(kept, "; "))
	}
}
