package ports

import "errors"

var (
	ErrNotFound        = errors.New("order not found")
	ErrUnauthenticated = errors.New("session has no access token")
	ErrUpstream        = errors.New("backend request failed")
)

// ErrMalformedResponse marks a backend reply that arrived but could not be
// decoded.
var ErrMalformedResponse = errors.New("backend response could not be decoded")
