package webtools

import (
	"net/http"
	"strconv"
	"time"

	"github.com/shoenig/go-conceal"
)

// MIMEType are correct identifier strings for various MIME types.
//
// Consider using one of the pre-defined types.
type MIMEType string

const (
	ContentTypeText MIMEType = "text/plain; charset=utf-8"
	ContentTypeHTML MIMEType = "text/html; charset=utf-8"
	ContentTypeJSON MIMEType = "application/json"
)

// SetContentType sets the Content-Type header on w to the given MIME
// compatible content type string.
func SetContentType(w http.ResponseWriter, filetype MIMEType) {
	w.Header().Set("Content-Type", string(filetype))
}

// RobotIndex are correct sentinel values for indicating whether a page
// should be indexed, as set in the X-Robots-Tag HTTP response header.
//
// Consider using one of the pre-defined types.
type RobotIndex string

const (
	RobotsNoIndex  RobotIndex = "noindex"
	RobotsYesIndex RobotIndex = "all"
)

// SetRobotsTag to a crawl control value (e.g. noindex)
func SetRobotsTag(w http.ResponseWriter, instruction RobotIndex) {
	w.Header().Set("X-Robots-Tag", string(instruction))
}

// SetCacheControl sets a private Cache-Control header on w with the given
// duration, rounded to seconds.
//
// Responses that change authentication cookies use a ttl of zero.
func SetCacheControl(w http.ResponseWriter, ttl time.Duration) {
	i := int(ttl.Seconds())
	s := "private, max-age=" + strconv.Itoa(i)
	w.Header().Set("Cache-Control", s)
}

// SetJSON sets the Content-Type header on outbound request r to indicate a
// JSON request body, and asks for a JSON response.
func SetJSON(r *http.Request) {
	r.Header.Set("Content-Type", string(ContentTypeJSON))
	r.Header.Set("Accept", string(ContentTypeJSON))
}

// SetBearerAuth sets the Authorization header on r, using the given token.
//
// NOTE: if token is nil or empty, no header is set.
func SetBearerAuth(r *http.Request, token *conceal.Text) {
	if token == nil || token.Unveil() == "" {
		return
	}
	r.Header.Set("Authorization", "Bearer "+token.Unveil())
}
