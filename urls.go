package webtools

import (
	"net/url"
	"path"
)

// CreateURL creates a *url.URL from the given origin, route, and request
// parameters that has been properly encoded and formatted.
//
// The route is joined onto any path already present in origin, so an API
// mounted under a prefix (e.g. http://api:5000/v1) keeps its prefix.
//
// An origin that ParseOrigin rejects is returned as an error.
func CreateURL(origin, route string, params url.Values) (*url.URL, error) {
	u, err := ParseOrigin(origin)
	if err != nil {
		return nil, err
	}

	u.Path = path.Join("/", u.Path, route)
	u.RawPath = ""

	// set the query parameters, if any
	if len(params) > 0 {
		u.RawQuery = params.Encode()
	}
	return u, nil
}

// ParseOrigin parses s as an absolute http(s) URL usable as an API origin.
func ParseOrigin(s string) (*url.URL, error) {
	u, err := url.Parse(s)
	if err != nil {
		return nil, err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, &url.Error{Op: "parse", URL: s, Err: errNotHTTP}
	}
	if u.Host == "" {
		return nil, &url.Error{Op: "parse", URL: s, Err: errNoHost}
	}
	return u, nil
}

type originError string

func (e originError) Error() string { return string(e) }

const (
	errNotHTTP = originError("scheme must be http or https")
	errNoHost  = originError("missing host")
)
