package youtube

import (
	"errors"
	"fmt"
)

var (
	// ErrConfigUnavailable means the page carried no client configuration,
	// usually because the video does not exist or the markup changed.
	ErrConfigUnavailable = errors.New("unable to extract configuration")
	// ErrCommentsUnavailable means the page has no comment (or post) section,
	// usually because comments are disabled.
	ErrCommentsUnavailable = errors.New("comments unavailable")
	ErrSortUnavailable     = errors.New("failed to set sorting")
)

// ServerError is an error message youtube embedded in a continuation
// response.
type ServerError struct {
	Message string
}

func (e *ServerError) Error() string {
	return "error returned from server: " + e.Message
}

// ParseError is a malformed JSON blob embedded in a page.
type ParseError struct {
	Blob string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.Blob, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
