package main

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"newscopilot.net/go/webtools"
	"newscopilot.net/go/webtools/backend/auth"
	"newscopilot.net/go/webtools/backend/generate"
	"newscopilot.net/go/webtools/backend/users"
	"newscopilot.net/go/webtools/metrics"
	"newscopilot.net/go/webtools/middles"
	"newscopilot.net/go/webtools/middles/identity"
	"newscopilot.net/go/webtools/middles/nonces"
	"newscopilot.net/go/webtools/middles/tokens"
	"newscopilot.net/go/webtools/pages"
)

// outstanding sign in forms, and how long each stays usable
const (
	nonceCapacity = 4096
	nonceTTL      = 1 * time.Hour
)

// newHandler wires the clients, middleware, and pages of the news front.
// When reg is nil no metrics are recorded or exposed.
func newHandler(c Config, logger *slog.Logger, reg *prometheus.Registry, clock func() time.Time) http.Handler {
	var registerer prometheus.Registerer
	if reg != nil {
		registerer = reg
	}
	m := metrics.New(registerer)

	hc := &http.Client{Timeout: c.HTTPTimeout}

	authClient := auth.New(
		auth.SetHTTP(hc),
		auth.SetEndpoint(c.APIURL),
	)

	usersClient := users.New(
		users.SetHTTP(hc),
		users.SetEndpoint(c.APIURL),
	)

	generateClient := generate.New(
		generate.SetHTTP(hc),
		generate.SetEndpoint(c.GenerationURL),
		generate.SetCache(c.GenerationCacheSize, c.GenerationCacheTTL),
		generate.SetMetrics(m),
	)

	cookies := &tokens.CookieFactory{
		Secure:     c.SecureCookies,
		AccessTTL:  c.AccessTTL,
		RefreshTTL: c.RefreshTTL,
		Clock:      clock,
	}

	h := &pages.Handlers{
		Auth:      authClient,
		Generator: generateClient,
		Nonces:    nonces.New(nonceCapacity, nonceTTL),
		Cookies:   cookies,
		Logger:    logger,
	}

	router := mux.NewRouter()
	router.StrictSlash(true)

	router.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		webtools.SetContentType(w, webtools.ContentTypeText)
		_, _ = w.Write([]byte("ok"))
	}).Methods(http.MethodGet)

	if reg != nil {
		router.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	}

	site := router.PathPrefix("/").Subrouter()
	site.Use(
		func(next http.Handler) http.Handler {
			return &middles.Guard{
				Refresher: authClient,
				Cookies:   cookies,
				Clock:     clock,
				Logger:    logger,
				Metrics:   m,
				Next:      next,
			}
		},
		func(next http.Handler) http.Handler {
			return &middles.Hydrate{
				Profiles: usersClient,
				Logger:   logger,
				Metrics:  m,
				Next:     next,
			}
		},
	)

	site.HandleFunc("/", h.Home).Methods(http.MethodGet)
	site.HandleFunc("/sign-in", h.SignInForm).Methods(http.MethodGet)
	site.HandleFunc("/sign-in", h.SignIn).Methods(http.MethodPost)
	site.HandleFunc("/sign-out", h.SignOut).Methods(http.MethodPost)
	site.Handle("/dashboard", &middles.RequireRoles{
		Roles: []identity.Role{identity.RoleAdmin, identity.RoleWriter},
		Next:  http.HandlerFunc(h.Dashboard),
	}).Methods(http.MethodGet)
	site.HandleFunc("/api/generate-text", h.GenerateText).Methods(http.MethodPost)

	return router
}
