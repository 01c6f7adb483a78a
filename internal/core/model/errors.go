package model

import "fmt"

// ParseError reports a malformed row in a breakdown file.
type ParseError struct {
	Line  int
	Field string
	Text  string
	Err   error
}

func (e *ParseError) Error() string {
	msg := fmt.Sprintf("line %d", e.Line)
	if e.Field != "" {
		msg += fmt.Sprintf(": invalid %s %q", e.Field, e.Text)
	} else if e.Text != "" {
		msg += fmt.Sprintf(": %q", e.Text)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ConfigurationError reports an invalid option value or combination.
type ConfigurationError struct {
	Option string
	Value  string
	Reason string
	Err    error
}

func (e *ConfigurationError) Error() string {
	msg := "invalid configuration"
	if e.Option != "" {
		msg = fmt.Sprintf("invalid --%s", e.Option)
		if e.Value != "" {
			msg += fmt.Sprintf(" %q", e.Value)
		}
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}
