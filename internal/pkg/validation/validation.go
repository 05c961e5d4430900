package validation

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Struct runs validator tags on a request DTO and returns the first
// violation as a readable message, or "" when the struct is valid.
func Struct(v interface{}) string {
	err := validate.Struct(v)
	if err == nil {
		return ""
	}
	errs, ok := err.(validator.ValidationErrors)
	if !ok || len(errs) == 0 {
		return err.Error()
	}
	fe := errs[0]
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "url":
		return fe.Field() + " must be a valid URL"
	case "email":
		return fe.Field() + " must be a valid email address"
	case "oneof":
		return fe.Field() + " must be one of: " + fe.Param()
	default:
		return fe.Field() + " failed validation on '" + fe.Tag() + "'"
	}
}

// TrimPtr trims a string pointer in place and converts empty strings to nil.
// Empty-string codes from clients are treated as absent, not as values.
func TrimPtr(s **string) {
	if *s == nil {
		return
	}
	v := strings.TrimSpace(**s)
	if v == "" {
		*s = nil
		return
	}
	*s = &v
}

// NormalizeCode trims and lowercases a reference code pointer, nil-ing empties.
func NormalizeCode(s **string) {
	TrimPtr(s)
	if *s != nil {
		v := strings.ToLower(**s)
		*s = &v
	}
}
