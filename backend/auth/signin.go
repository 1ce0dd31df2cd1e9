package auth

import (
	"context"
	"net/http"

	"github.com/shoenig/go-conceal"
	"newscopilot.net/go/webtools/backend"
	"newscopilot.net/go/webtools/middles/identity"
	"newscopilot.net/go/webtools/middles/tokens"
)

// SignInResult is one of SignedIn, SignInRejected, SignInInvalid, or
// SignInFailed.
type SignInResult interface {
	signInResult()
}

// SignedIn carries the user and the freshly issued token pair.
type SignedIn struct {
	User identity.Profile
	Pair tokens.Pair
}

// SignInRejected means the email and password did not match.
type SignInRejected struct {
	Message string
}

// SignInInvalid means the API refused the submitted fields.
type SignInInvalid struct {
	Message string
	Fields  []backend.FieldError
}

// SignInFailed means sign in could not be completed for any other reason.
type SignInFailed struct {
	Status  int
	Message string
	Err     error
}

func (SignedIn) signInResult()       {}
func (SignInRejected) signInResult() {}
func (SignInInvalid) signInResult()  {}
func (SignInFailed) signInResult()   {}

type signInData struct {
	tokenData
	User struct {
		ID          int             `json:"id"`
		Email       string          `json:"email"`
		DisplayName string          `json:"displayName"`
		Avatar      string          `json:"avatar"`
		Roles       []identity.Role `json:"roles"`
	} `json:"user"`
}

// SignIn exchanges an email and password for a token pair.
func (c *Client) SignIn(ctx context.Context, email string, password *conceal.Text) SignInResult {
	body := map[string]string{
		"email":    email,
		"password": password.Unveil(),
	}

	status, envelope, err := backend.Do[signInData](ctx, c.hc, backend.Request{
		Method: http.MethodPost,
		Origin: c.url,
		Route:  "/auth/sign-in",
		Body:   body,
	})

	switch {
	case status == http.StatusUnauthorized:
		return SignInRejected{Message: message(envelope, status)}
	case err != nil:
		return SignInFailed{Status: status, Message: "sign in request failed", Err: err}
	case status == http.StatusUnprocessableEntity:
		return SignInInvalid{Message: envelope.Message, Fields: envelope.Errors}
	case status != http.StatusOK:
		return SignInFailed{Status: status, Message: message(envelope, status)}
	}

	data := envelope.Data
	if data.Token.AccessToken == "" || data.Token.RefreshToken == "" {
		return SignInFailed{Status: status, Message: "response is missing a token"}
	}

	return SignedIn{
		User: identity.Profile{
			ID:          data.User.ID,
			Email:       data.User.Email,
			DisplayName: data.User.DisplayName,
			AvatarImage: data.User.Avatar,
			Roles:       data.User.Roles,
		},
		Pair: tokens.Pair{
			Access:  conceal.New(data.Token.AccessToken),
			Refresh: conceal.New(data.Token.RefreshToken),
		},
	}
}
