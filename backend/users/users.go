// Package users is the client of the user profile endpoints of the news API.
package users

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/shoenig/go-conceal"
	"newscopilot.net/go/webtools/backend"
	"newscopilot.net/go/webtools/middles/identity"
)

type Options struct {
	endpoint   string
	httpClient *http.Client
}

type OptionFunc func(*Options)

func SetHTTP(client *http.Client) OptionFunc {
	return func(o *Options) { o.httpClient = client }
}

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

type Client struct {
	hc  *http.Client
	url string
}

type profileData struct {
	User identity.Profile `json:"user"`
}

// CurrentProfile returns the full profile, including roles, of the user the
// access token was issued to.
func (c *Client) CurrentProfile(ctx context.Context, access *conceal.Text) (*identity.Profile, error) {
	params := url.Values{
		"include": {"roles"},
		"style":   {"full"},
	}

	status, envelope, err := backend.Do[profileData](ctx, c.hc, backend.Request{
		Method: http.MethodGet,
		Origin: c.url,
		Route:  "/users/profile",
		Params: params,
		Bearer: access,
	})

	switch {
	case err != nil:
		return nil, fmt.Errorf("backend/users: unable to get profile: %w", err)
	case status != http.StatusOK:
		return nil, fmt.Errorf("backend/users: unable to get profile: %w", &backend.StatusError{
			Status:  status,
			Message: envelope.Message,
		})
	}

	profile := envelope.Data.User
	return &profile, nil
}
