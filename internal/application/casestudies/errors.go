package casestudies

import "errors"

// Sentinel errors the handlers translate into status codes.
var (
	ErrNotFound  = errors.New("Case study not found")
	ErrForbidden = errors.New("Not enough permissions")
)
