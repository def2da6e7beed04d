package config

import (
	"fmt"
	"strings"
)

// UnsupportedValueError reports a selector setting outside its allowed set.
// It is a startup-time configuration error and is never produced per request.
type UnsupportedValueError struct {
	Key     string
	Value   string
	Allowed []string
}

func (e *UnsupportedValueError) Error() string {
	return fmt.Sprintf("unsupported %s %q: allowed values are %s", e.Key, e.Value, strings.Join(e.Allowed, ", "))
}
