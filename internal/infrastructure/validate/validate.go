// Package validate holds small composable string validators. They are used to
// check configuration values before the server starts.
package validate

import (
	"fmt"
	"net/url"
	"strings"
)

// Validator is a function that validates a string and returns an error if invalid
type Validator func(value string) error

// Field labels every error produced by validators with the field name.
func Field(name string, validators ...Validator) Validator {
	return func(value string) error {
		for _, v := range validators {
			if err := v(value); err != nil {
				if !strings.Contains(err.Error(), name) {
					return fmt.Errorf("%s: %w", name, err)
				}
				return err
			}
		}
		return nil
	}
}

// Compose chains multiple validators, first error wins
func Compose(validators ...Validator) Validator {
	return func(value string) error {
		for _, v := range validators {
			if err := v(value); err != nil {
				return err
			}
		}
		return nil
	}
}

// Optional skips the wrapped validators when the value is blank.
func Optional(validators ...Validator) Validator {
	inner := Compose(validators...)
	return func(value string) error {
		if strings.TrimSpace(value) == "" {
			return nil
		}
		return inner(value)
	}
}

// Required ensures the field is not empty
func Required() Validator {
	return func(v string) error {
		if strings.TrimSpace(v) == "" {
			return fmt.Errorf("this field is required")
		}
		return nil
	}
}

// MaxLength checks maximum length
func MaxLength(max int) Validator {
	return func(v string) error {
		if len(v) > max {
			return fmt.Errorf("must be no more than %d characters", max)
		}
		return nil
	}
}

// OneOf checks if value is in allowed list
func OneOf(allowed ...string) Validator {
	set := make(map[string]bool, len(allowed))
	for _, a := range allowed {
		set[a] = true
	}
	return func(v string) error {
		if !set[v] {
			return fmt.Errorf("must be one of: %s", strings.Join(allowed, ", "))
		}
		return nil
	}
}

// AbsoluteURL requires an http or https URL with a host.
func AbsoluteURL() Validator {
	return func(v string) error {
		u, err := url.Parse(v)
		if err != nil || u.Host == "" {
			return fmt.Errorf("must be an absolute URL")
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return fmt.Errorf("must use http or https")
		}
		return nil
	}
}

// Lowercase enforces lowercase
func Lowercase() Validator {
	return func(v string) error {
		if v != strings.ToLower(v) {
			return fmt.Errorf("must be lowercase")
		}
		return nil
	}
}
