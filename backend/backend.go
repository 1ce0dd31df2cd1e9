// Package backend holds what the clients of the news API have in common:
// the response envelope every endpoint answers with, and the error returned
// for statuses a client does not otherwise handle.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/shoenig/go-conceal"
	"newscopilot.net/go/webtools"
)

// maxBody caps how much of a response body is read.
const maxBody = 1 << 20

// FieldError is one validation failure reported by the API.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Envelope is the JSON shape of every API response.
type Envelope[T any] struct {
	StatusCode int          `json:"statusCode"`
	Message    string       `json:"message"`
	Error      string       `json:"error,omitempty"`
	Errors     []FieldError `json:"errors,omitempty"`
	Data       T            `json:"data"`
}

// Status returns the status code carried by the envelope, falling back to
// the HTTP status of the response when the body did not include one.
func (e *Envelope[T]) Status(httpStatus int) int {
	if e.StatusCode != 0 {
		return e.StatusCode
	}
	return httpStatus
}

// StatusError is returned when the API answers with a status the caller
// does not expect.
type StatusError struct {
	Status  int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend: unexpected status %d", e.Status)
	}
	return fmt.Sprintf("backend: unexpected status %d: %s", e.Status, e.Message)
}

// Request describes one call to the API, made to Route under Origin.
type Request struct {
	Method string
	Origin string
	Route  string
	Params url.Values
	Bearer *conceal.Text
	Body   any
}

// Do performs request using hc and decodes the response envelope into T.
//
// The returned status is the envelope status (or HTTP status). A response
// whose body is not a JSON envelope is returned as an error alongside the
// HTTP status, so callers may still branch on it.
func Do[T any](ctx context.Context, hc *http.Client, request Request) (int, *Envelope[T], error) {
	u, err := webtools.CreateURL(request.Origin, request.Route, request.Params)
	if err != nil {
		return 0, nil, fmt.Errorf("backend: invalid api origin: %w", err)
	}

	var body io.Reader
	if request.Body != nil {
		b, err := json.Marshal(request.Body)
		if err != nil {
			return 0, nil, fmt.Errorf("backend: unable to encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	r, err := http.NewRequestWithContext(ctx, request.Method, u.String(), body)
	if err != nil {
		return 0, nil, fmt.Errorf("backend: unable to create request: %w", err)
	}
	webtools.SetJSON(r)
	webtools.SetBearerAuth(r, request.Bearer)

	response, err := hc.Do(r)
	if err != nil {
		return 0, nil, fmt.Errorf("backend: %s %s failed: %w", request.Method, u.Path, err)
	}
	defer func() { _ = response.Body.Close() }()

	envelope := new(Envelope[T])
	if err := json.NewDecoder(io.LimitReader(response.Body, maxBody)).Decode(envelope); err != nil {
		return response.StatusCode, nil, fmt.Errorf("backend: unable to decode response: %w", err)
	}

	return envelope.Status(response.StatusCode), envelope, nil
}
