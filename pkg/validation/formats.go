package validation

import (
	"errors"
	"regexp"
	"strings"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-formstate/pkg/rut"
)

// Custom string formats understood by OpenAPI schemas built in this package.
const (
	FormatRUT   = "rut"
	FormatPhone = "phone-cl"
)

var phonePattern = regexp.MustCompile(`^\+?56\d{9}$`)

// IsPhone reports whether value is a Chilean phone number (+56 followed by
// nine digits). Whitespace is ignored.
func IsPhone(value string) bool {
	return phonePattern.MatchString(strings.Join(strings.Fields(value), ""))
}

var registerFormats sync.Once

// RegisterFormats installs the rut and phone-cl string formats into
// kin-openapi's global format table. It is called by NewOpenAPISchema and is
// safe to call more than once.
func RegisterFormats() {
	registerFormats.Do(func() {
		openapi3.DefineStringFormatValidator(FormatRUT, openapi3.NewCallbackValidator(func(value string) error {
			if value == "" || rut.IsValid(value) {
				return nil
			}
			return errors.New("must be a valid R.U.T.")
		}))
		openapi3.DefineStringFormatValidator(FormatPhone, openapi3.NewCallbackValidator(func(value string) error {
			if value == "" || IsPhone(value) {
				return nil
			}
			return errors.New("must be a valid phone")
		}))
	})
}
