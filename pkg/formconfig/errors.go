package formconfig

import "errors"

var (
	// ErrUnknownMask is returned when a field names a mask the registry does
	// not hold.
	ErrUnknownMask = errors.New("formconfig: unknown mask")
	// ErrUnknownRule is returned when a field names an unregistered rule.
	ErrUnknownRule = errors.New("formconfig: unknown rule")
	// ErrUnknownType is returned for unsupported field types.
	ErrUnknownType = errors.New("formconfig: unknown field type")
)

// ErrUnknownField is returned by Fill for values that match no field.
var ErrUnknownField = errors.New("formconfig: unknown field")
