// Package pages renders the pages of the news front and handles its form
// actions. Every handler expects the session to have been resolved by a
// middles.Guard further up the chain.
package pages

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/shoenig/go-conceal"
	"newscopilot.net/go/webtools"
	"newscopilot.net/go/webtools/backend"
	"newscopilot.net/go/webtools/backend/auth"
	"newscopilot.net/go/webtools/backend/generate"
	"newscopilot.net/go/webtools/middles"
	"newscopilot.net/go/webtools/middles/identity"
	"newscopilot.net/go/webtools/middles/nonces"
	"newscopilot.net/go/webtools/middles/tokens"
)

//go:embed templates/*.html
var files embed.FS

var templates = template.Must(template.ParseFS(files, "templates/*.html"))

// maxBody caps the size of a JSON request body.
const maxBody = 64 << 10

// SignInClient exchanges credentials for a token pair.
type SignInClient interface {
	SignIn(ctx context.Context, email string, password *conceal.Text) auth.SignInResult
}

// Generator produces text from a prompt.
type Generator interface {
	GenerateText(ctx context.Context, p generate.Params) (*generate.Generated, error)
}

// Handlers of every page and form action.
type Handlers struct {
	Auth      SignInClient
	Generator Generator
	Nonces    nonces.Mint
	Cookies   *tokens.CookieFactory
	Logger    *slog.Logger
}

type view struct {
	Title    string
	Identity identity.Identity
	Nonce    string
	Email    string
	Message  string
	Fields   []backend.FieldError
}

func (h *Handlers) logger() *slog.Logger {
	if h.Logger == nil {
		return slog.Default()
	}
	return h.Logger
}

func (h *Handlers) render(w http.ResponseWriter, r *http.Request, status int, name string, v *view) {
	v.Identity = middles.GetSession(r).Identity

	webtools.SetContentType(w, webtools.ContentTypeHTML)
	w.WriteHeader(status)
	if err := templates.ExecuteTemplate(w, name, v); err != nil {
		h.logger().Error("unable to render page",
			webtools.Origins(r).Attr(),
			slog.String("template", name),
			slog.String("error", err.Error()),
		)
	}
}

// Home renders the front page.
func (h *Handlers) Home(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "home.html", &view{Title: "Home"})
}

// SignInForm renders the sign in form, or sends an already signed in user
// to the front page.
func (h *Handlers) SignInForm(w http.ResponseWriter, r *http.Request) {
	if middles.GetSession(r).Active() {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}
	h.signInPage(w, r, http.StatusOK, &view{})
}

func (h *Handlers) signInPage(w http.ResponseWriter, r *http.Request, status int, v *view) {
	webtools.SetRobotsTag(w, webtools.RobotsNoIndex)
	webtools.SetCacheControl(w, 0)
	v.Title = "Sign in"
	v.Nonce = h.Nonces.Create().Unveil()
	h.render(w, r, status, "sign-in.html", v)
}

// SignIn handles submission of the sign in form.
func (h *Handlers) SignIn(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "malformed form", http.StatusBadRequest)
		return
	}

	nonce := conceal.New(r.PostFormValue(nonces.Field))
	if err := h.Nonces.Consume(nonce); err != nil {
		h.logger().Info("sign in form expired or forged", webtools.Origins(r).Attr())
		http.Error(w, "form expired; reload and try again", http.StatusForbidden)
		return
	}

	email := strings.TrimSpace(r.PostFormValue("email"))
	password := conceal.New(r.PostFormValue("password"))

	if email == "" || password.Unveil() == "" {
		h.signInPage(w, r, http.StatusUnprocessableEntity, &view{
			Email:   email,
			Message: "Email and password are required",
		})
		return
	}

	switch result := h.Auth.SignIn(r.Context(), email, password).(type) {
	case auth.SignedIn:
		var ms tokens.Mutations
		ms.Set(tokens.AccessCookie, result.Pair.Access)
		ms.Set(tokens.RefreshCookie, result.Pair.Refresh)
		h.Cookies.Apply(w, ms)
		webtools.SetCacheControl(w, 0)
		h.logger().Info("signed in", webtools.Origins(r).Attr(), slog.Int("user", result.User.ID))
		http.Redirect(w, r, "/", http.StatusFound)
	case auth.SignInRejected:
		h.signInPage(w, r, http.StatusUnauthorized, &view{Email: email, Message: result.Message})
	case auth.SignInInvalid:
		h.signInPage(w, r, http.StatusUnprocessableEntity, &view{
			Email:   email,
			Message: result.Message,
			Fields:  result.Fields,
		})
	case auth.SignInFailed:
		h.logger().Warn("unable to sign in",
			webtools.Origins(r).Attr(),
			slog.Int("status", result.Status),
			slog.String("message", result.Message),
		)
		h.signInPage(w, r, http.StatusBadGateway, &view{
			Email:   email,
			Message: "Sign in is unavailable right now, please try again later",
		})
	default:
		h.signInPage(w, r, http.StatusBadGateway, &view{Email: email, Message: "Sign in failed"})
	}
}

// SignOut clears both token cookies.
func (h *Handlers) SignOut(w http.ResponseWriter, r *http.Request) {
	var ms tokens.Mutations
	ms.Clear(tokens.AccessCookie)
	ms.Clear(tokens.RefreshCookie)
	h.Cookies.Apply(w, ms)
	webtools.SetCacheControl(w, 0)
	http.Redirect(w, r, "/", http.StatusFound)
}

// Dashboard renders the writer dashboard. Access is limited by the
// middles.RequireRoles placed in front of it.
func (h *Handlers) Dashboard(w http.ResponseWriter, r *http.Request) {
	webtools.SetCacheControl(w, 0)
	h.render(w, r, http.StatusOK, "dashboard.html", &view{Title: "Dashboard"})
}

// GenerateText generates text for an authenticated user, answering with a
// JSON envelope.
func (h *Handlers) GenerateText(w http.ResponseWriter, r *http.Request) {
	if !middles.GetSession(r).Active() {
		reply(w, http.StatusUnauthorized, "Unauthorized", "sign in to generate text", nil)
		return
	}

	var params generate.Params
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBody)).Decode(&params); err != nil {
		reply(w, http.StatusBadRequest, "Invalid request body", err.Error(), nil)
		return
	}

	generated, err := h.Generator.GenerateText(r.Context(), params)
	switch {
	case errors.Is(err, generate.ErrEmptyPrompt):
		reply(w, http.StatusBadRequest, "Prompt is required", err.Error(), nil)
		return
	case err != nil:
		h.logger().Warn("unable to generate text",
			webtools.Origins(r).Attr(),
			slog.String("error", err.Error()),
		)
		reply(w, http.StatusBadGateway, "Text generation failed", err.Error(), nil)
		return
	}

	msg := "Text generated successfully"
	if generated.Cached {
		msg += " (cached)"
	}
	reply(w, http.StatusOK, msg, "", generated)
}

func reply(w http.ResponseWriter, status int, msg, reason string, data *generate.Generated) {
	webtools.SetContentType(w, webtools.ContentTypeJSON)
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(&backend.Envelope[*generate.Generated]{
		StatusCode: status,
		Message:    msg,
		Error:      reason,
		Data:       data,
	})
}
