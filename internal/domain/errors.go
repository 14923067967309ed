package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrGeocodingDisabled is returned by Locate when no geocoder is configured.
	ErrGeocodingDisabled = errors.New("geocoding is disabled")
	// ErrEmptyQuery is returned by Locate for a blank search string.
	ErrEmptyQuery = errors.New("search query is empty")
	// ErrNoMatch is returned by Locate when the provider found nothing usable.
	ErrNoMatch = errors.New("no matching place")
)

// ConfigError reports an invalid field in the static map configuration.
// Field is a dotted path such as "zones[1].radius_m".
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func configErrorf(field, format string, args ...any) *ConfigError {
	return &ConfigError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// Prefix returns a copy of every ConfigError in err with prefix prepended to
// its field path. Errors of other types are returned unchanged.
func Prefix(prefix string, err error) error {
	if err == nil {
		return nil
	}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		errs := joined.Unwrap()
		out := make([]error, 0, len(errs))
		for _, e := range errs {
			out = append(out, Prefix(prefix, e))
		}
		return errors.Join(out...)
	}
	var ce *ConfigError
	if errors.As(err, &ce) {
		field := prefix
		if ce.Field != "" {
			field = prefix + "." + ce.Field
		}
		return &ConfigError{Field: field, Reason: ce.Reason}
	}
	return err
}
