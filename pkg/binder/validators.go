package binder

import (
	"net/url"
	"regexp"

	"github.com/go-playground/validator/v10"
)

var (
	equityRE = regexp.MustCompile(`^(0(\.[0-9]+)?|\.[0-9]+|1(\.0+)?)$`)
)

// equityValidator ensures the value is a decimal string between 0 and 1
// inclusive, e.g. "0", "0.25", ".5" or "1.0".
func equityValidator(fl validator.FieldLevel) bool {
	return equityRE.MatchString(fl.Field().String())
}

// httpURLValidator ensures the value is an absolute http(s) URL.
func httpURLValidator(fl validator.FieldLevel) bool {
	u, err := url.Parse(fl.Field().String())
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
