package samgov

import "errors"

var (
	ErrFailedToParse     = errors.New("failed to parse response")
	ErrBadResponse       = errors.New("bad response")
	ErrNotFound          = errors.New("data not found")
	ErrPermissionDenied  = errors.New("permission denied")
	ErrMalformedResponse = errors.New("malformed response")
)
