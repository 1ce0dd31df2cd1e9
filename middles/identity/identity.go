// Package identity describes who a request is made on behalf of.
//
// An Identity is derived from the request cookies on every request and is
// never stored or shared between requests.
package identity

import "github.com/hashicorp/go-set/v3"

// Role is a named permission group granted to a user by the backend.
type Role string

const (
	RoleGuest  Role = "GUEST"
	RoleUser   Role = "USER"
	RoleWriter Role = "WRITER"
	RoleAdmin  Role = "ADMIN"
)

// Profile is the user record as returned by the users API.
type Profile struct {
	ID          int    `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	AvatarImage string `json:"avatarImage"`
	Roles       []Role `json:"roles,omitempty"`
}

// Identity is either anonymous or authenticated as a subject.
//
// An authenticated identity may have an empty Subject when the access token
// was just refreshed and carried no readable sub claim; the subject is then
// filled in from the profile, if one is fetched.
type Identity struct {
	Subject       string
	Authenticated bool
	Profile       *Profile
}

// Anonymous returns the identity of a guest.
func Anonymous() Identity {
	return Identity{}
}

// Authenticated returns the identity of the given subject.
func Authenticated(subject string) Identity {
	return Identity{Subject: subject, Authenticated: true}
}

// Active returns whether the identity is authenticated.
func (i Identity) Active() bool {
	return i.Authenticated
}

// Roles returns the roles of the identity. Without a profile an
// authenticated identity has no known roles, and a guest is always a guest.
func (i Identity) Roles() []Role {
	switch {
	case !i.Authenticated:
		return []Role{RoleGuest}
	case i.Profile == nil:
		return nil
	default:
		return i.Profile.Roles
	}
}

// HasAnyRole returns whether the identity holds at least one of roles.
func (i Identity) HasAnyRole(roles ...Role) bool {
	held := set.From(i.Roles())
	for _, role := range roles {
		if held.Contains(role) {
			return true
		}
	}
	return false
}

// Name returns something to call the user by on a rendered page.
func (i Identity) Name() string {
	switch {
	case !i.Authenticated:
		return "guest"
	case i.Profile != nil && i.Profile.DisplayName != "":
		return i.Profile.DisplayName
	case i.Subject != "":
		return i.Subject
	default:
		return "reader"
	}
}
