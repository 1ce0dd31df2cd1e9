package webtools

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"cattlecloud.net/go/scope"
	"github.com/shoenig/go-conceal"
	"github.com/shoenig/test/must"
)

func Test_SetCacheControl(t *testing.T) {
	t.Parallel()

	w := httptest.NewRecorder()
	SetCacheControl(w, 4*time.Minute)
	must.Eq(t, "private, max-age=240", w.Header().Get("Cache-Control"))
}

func Test_SetCacheControl_zero(t *testing.T) {
	t.Parallel()

	w := httptest.NewRecorder()
	SetCacheControl(w, 0)
	must.Eq(t, "private, max-age=0", w.Header().Get("Cache-Control"))
}

func Test_SetContentType(t *testing.T) {
	t.Parallel()

	w := httptest.NewRecorder()
	SetContentType(w, ContentTypeHTML)
	must.Eq(t, "text/html; charset=utf-8", w.Header().Get("Content-Type"))
}

func Test_SetRobotsTag(t *testing.T) {
	t.Parallel()

	w := httptest.NewRecorder()
	SetRobotsTag(w, RobotsNoIndex)
	must.Eq(t, "noindex", w.Header().Get("X-Robots-Tag"))
}

func Test_SetJSON(t *testing.T) {
	t.Parallel()

	r, err := http.NewRequestWithContext(scope.New(), http.MethodPost, "/", nil)
	must.NoError(t, err)
	SetJSON(r)

	must.Eq(t, "application/json", r.Header.Get("Content-Type"))
	must.Eq(t, "application/json", r.Header.Get("Accept"))
}

func Test_SetBearerAuth(t *testing.T) {
	t.Parallel()

	r, err := http.NewRequestWithContext(scope.New(), http.MethodGet, "/", nil)
	must.NoError(t, err)
	SetBearerAuth(r, conceal.New("rt-valid"))

	value := r.Header.Get("Authorization")
	must.Eq(t, "Bearer rt-valid", value)
}

func Test_SetBearerAuth_empty(t *testing.T) {
	t.Parallel()

	r, err := http.NewRequestWithContext(scope.New(), http.MethodGet, "/", nil)
	must.NoError(t, err)
	SetBearerAuth(r, nil)
	SetBearerAuth(r, conceal.New(""))

	value := r.Header.Get("Authorization")
	must.Eq(t, "", value) // not set
}
