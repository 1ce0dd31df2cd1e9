// Package auth is the client of the authentication endpoints of the news
// API: exchanging credentials for a token pair, and exchanging a refresh
// token for a new access token.
package auth

import (
	"context"
	"net/http"
	"time"

	"github.com/shoenig/go-conceal"
	"newscopilot.net/go/webtools/backend"
)

type Options struct {
	endpoint   string
	httpClient *http.Client
}

type OptionFunc func(*Options)

func SetHTTP(client *http.Client) OptionFunc {
	return func(o *Options) { o.httpClient = client }
}

// SetEndpoint sets the origin of the news API, e.g. http://localhost:5000.
func SetEndpoint(s string) OptionFunc {
	return func(o *Options) { o.endpoint = s }
}

func New(opts ...OptionFunc) *Client {
	options := &Options{
		endpoint:   "http://localhost:5000",
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}

	for _, opt := range opts {
		opt(options)
	}

	return &Client{
		hc:  options.httpClient,
		url: options.endpoint,
	}
}

// Client of the authentication endpoints.
type Client struct {
	hc  *http.Client
	url string
}

// RefreshResult is one of Refreshed, Rejected, or Failed.
type RefreshResult interface {
	refreshResult()
}

// Refreshed means the API issued a new access token.
type Refreshed struct {
	AccessToken *conceal.Text
}

// Rejected means the API authoritatively refused the refresh token; it is
// invalid or expired and should be discarded.
type Rejected struct {
	Message string
}

// Failed means the refresh could not be completed for any other reason;
// the refresh token may or may not still be good.
type Failed struct {
	Status  int
	Message string
	Err     error
}

func (Refreshed) refreshResult() {}
func (Rejected) refreshResult()  {}
func (Failed) refreshResult()    {}

type tokenData struct {
	Token struct {
		AccessToken  string `json:"accessToken"`
		RefreshToken string `json:"refreshToken"`
	} `json:"token"`
}

// Refresh exchanges refreshToken for a new access token.
//
// Refresh never returns nil; every failure is reported as Failed.
func (c *Client) Refresh(ctx context.Context, refreshToken *conceal.Text) RefreshResult {
	body := map[string]string{
		"refreshToken": refreshToken.Unveil(),
	}

	status, envelope, err := backend.Do[tokenData](ctx, c.hc, backend.Request{
		Method: http.MethodPost,
		Origin: c.url,
		Route:  "/auth/refresh",
		Bearer: refreshToken,
		Body:   body,
	})

	switch {
	case status == http.StatusUnauthorized:
		return Rejected{Message: message(envelope, status)}
	case err != nil:
		return Failed{Status: status, Message: "refresh request failed", Err: err}
	case status != http.StatusOK:
		return Failed{Status: status, Message: message(envelope, status)}
	case envelope.Data.Token.AccessToken == "":
		return Failed{Status: status, Message: "response is missing an access token"}
	default:
		return Refreshed{AccessToken: conceal.New(envelope.Data.Token.AccessToken)}
	}
}

func message[T any](envelope *backend.Envelope[T], status int) string {
	switch {
	case envelope == nil:
		return http.StatusText(status)
	case envelope.Error != "":
		return envelope.Message + ": " + envelope.Error
	case envelope.Message != "":
		return envelope.Message
	default:
		return http.StatusText(status)
	}
}
