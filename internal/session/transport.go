package session

import (
	"context"
	"errors"
	"net"
	"net/url"
	"time"
)

// Response is the result of a page fetch.
type Response struct {
	// URL is the final URL after redirects were followed.
	URL  *url.URL
	Body string
}

// Transport is everything the downloader needs from an HTTP session.
//
// note: fault injection point
type Transport interface {
	// Get fetches a page, following redirects.
	Get(ctx context.Context, url string) (Response, error)
	// PostQuery issues a POST where every parameter travels in the query
	// string, following redirects.
	PostQuery(ctx context.Context, url string, query map[string]string) (Response, error)
	// PostJSON issues a POST with a JSON body bounded by timeout. body is nil
	// whenever the status is not 200 or the response is not a JSON object.
	PostJSON(
		ctx context.Context,
		url string,
		query map[string]string,
		payload any,
		timeout time.Duration,
	) (status int, body map[string]any, err error)
}

// IsTimeout reports whether err was caused by a request running out of time
// rather than any other transport failure.
func IsTimeout(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return false
}
