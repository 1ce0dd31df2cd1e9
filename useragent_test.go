package webtools

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mileusna/useragent"
	"github.com/shoenig/test/must"
)

func TestOrigin_From(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name      string
		reference string
		exp       string
	}{
		{"Empty reference", "", "-"},
		{"Standard URL", "https://news.example.com/articles/go-1-25/12", "news.example.com/articles/go-1-25/12"},
		{"URL with query", "http://news.example.com/search?q=golang", "news.example.com/search"},
		{"URL with fragment", "https://news.example.com/bookmarks#top", "news.example.com/bookmarks"},
		{"Unparsable", "http://[::1", "-"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			o := &Origin{Reference: tc.reference}
			must.Eq(t, tc.exp, o.From())
		})
	}
}

func TestOrigin_String(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name      string
		userAgent useragent.UserAgent
		want      string
	}{
		{"Bot", useragent.UserAgent{Name: "Googlebot", Bot: true}, "Googlebot/bot"},
		{"Mobile", useragent.UserAgent{Name: "Safari", Mobile: true}, "Safari/phone"},
		{"Tablet", useragent.UserAgent{Name: "Chrome", Tablet: true}, "Chrome/tablet"},
		{"Desktop", useragent.UserAgent{Name: "Firefox", Desktop: true}, "Firefox/desktop"},
		{"Unknown", useragent.UserAgent{Name: "MyBrowser"}, "MyBrowser/unknown"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			o := &Origin{UserAgent: tc.userAgent}
			must.Eq(t, tc.want, o.String())
		})
	}
}

func TestOrigins(t *testing.T) {
	t.Parallel()

	agent := "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/118.0.0.0 Safari/537.36"
	r := httptest.NewRequest(http.MethodPost, "https://example.org/sign-in", nil)
	r.Header.Set("X-Forwarded-For", "10.1.1.1")
	r.Header.Set("Referer", "https://example.org/articles")
	r.Header.Set("User-Agent", agent)

	origin := Origins(r)

	must.Eq(t, "POST", origin.Method)
	must.Eq(t, "example.org", origin.Host)
	must.Eq(t, "/sign-in", origin.Path)
	must.Eq(t, "10.1.1.1", origin.Forward)
	must.Eq(t, "https://example.org/articles", origin.Reference)
	must.Eq(t, "Chrome", origin.UserAgent.Name)
}

func TestOrigin_Attr(t *testing.T) {
	t.Parallel()

	o := &Origin{
		Method:    "GET",
		Host:      "news.example.com",
		Path:      "/",
		Forward:   "203.0.113.7",
		UserAgent: useragent.UserAgent{Name: "Firefox", Desktop: true},
	}
	attr := o.Attr()

	must.Eq(t, "origin", attr.Key)

	values := make(map[string]string)
	for _, a := range attr.Value.Group() {
		values[a.Key] = a.Value.String()
	}
	must.Eq(t, "Firefox/desktop", values["agent"])
	must.Eq(t, "news.example.com", values["host"])
	must.Eq(t, "203.0.113.7", values["forward"])
	must.Eq(t, "-", values["from"])
}
