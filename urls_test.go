package webtools

import (
	"net/url"
	"testing"

	"github.com/shoenig/test/must"
)

func TestCreateURL(t *testing.T) {
	t.Parallel()

	orig := "http://example.org:8000"
	params := url.Values{
		"include": {"roles"},
		"style":   {"full"},
	}

	u, err := CreateURL(orig, "/users/profile", params)
	must.NoError(t, err)
	must.Eq(t, "http://example.org:8000/users/profile?include=roles&style=full", u.String())
}

func TestCreateURL_prefix(t *testing.T) {
	t.Parallel()

	u, err := CreateURL("https://api.example.org/v1/", "/auth/refresh", nil)
	must.NoError(t, err)
	must.Eq(t, "https://api.example.org/v1/auth/refresh", u.String())
}

func TestCreateURL_invalid(t *testing.T) {
	t.Parallel()

	for _, origin := range []string{"::bogus", "api.internal:5000", "http://"} {
		u, err := CreateURL(origin, "/x", nil)
		must.Error(t, err)
		must.Nil(t, u)
	}
}

func TestParseOrigin(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		input string
		ok    bool
	}{
		{"http", "http://localhost:5000", true},
		{"https with path", "https://api.example.org/v1", true},
		{"no scheme", "localhost:5000", false},
		{"ftp", "ftp://example.org", false},
		{"no host", "http://", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseOrigin(tc.input)
			must.Eq(t, tc.ok, err == nil)
		})
	}
}
