package organizations

import "errors"

// ErrNameTaken reports a case-insensitive name collision on create.
var ErrNameTaken = errors.New("Organization with this name already exists")

// ValidationError marks input the registry refuses: missing fields or
// unknown reference codes.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }
