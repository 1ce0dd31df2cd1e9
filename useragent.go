package webtools

import (
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/mileusna/useragent"
)

// Origin contains request origination context from parsing request headers.
type Origin struct {
	Method    string
	Host      string
	Path      string
	Forward   string
	Reference string
	UserAgent useragent.UserAgent
}

// From returns a parsed version of the Referer headers, including the domain
// and path without the protocol or query.
func (o *Origin) From() string {
	if o.Reference == "" {
		return "-"
	}

	u, err := url.Parse(o.Reference)
	if err != nil {
		return "-"
	}
	return u.Host + u.Path
}

// String returns the parsed user agent, including only the name and type of
// device being used (or bot).
func (o *Origin) String() string {
	var mode string
	switch {
	case o.UserAgent.Bot:
		mode = "bot"
	case o.UserAgent.Mobile:
		mode = "phone"
	case o.UserAgent.Tablet:
		mode = "tablet"
	case o.UserAgent.Desktop:
		mode = "desktop"
	default:
		mode = "unknown"
	}
	return o.UserAgent.Name + "/" + mode
}

// Attr returns the origin as a structured log group.
func (o *Origin) Attr() slog.Attr {
	return slog.Group("origin",
		slog.String("method", o.Method),
		slog.String("host", o.Host),
		slog.String("path", o.Path),
		slog.String("forward", o.Forward),
		slog.String("agent", o.String()),
		slog.String("from", o.From()),
	)
}

// Origins parses the request headers to get information about the origins of
// the request, including ...
//
// - X-Forwarded-For
// - Referer
// - User-Agent
func Origins(r *http.Request) *Origin {
	method := strings.ToUpper(r.Method)
	reference := r.Header.Get("Referer")
	agent := r.Header.Get("User-Agent")
	ua := useragent.Parse(agent)
	return &Origin{
		Method:    method,
		Host:      r.Host,
		Path:      r.URL.Path,
		Forward:   r.Header.Get("X-Forwarded-For"),
		Reference: reference,
		UserAgent: ua,
	}
}
