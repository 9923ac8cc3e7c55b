// Package fault defines the error taxonomy shared by ingestion and the
// analysis client. Every component surfaces exactly one of these types per
// failure; none of them trigger automatic retries.
package fault

import "fmt"

// ValidationError reports bad or missing local input, such as an empty
// submission batch or a malformed numeric field. Field names the offending
// input when known.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation: %s: %s", e.Field, e.Message)
	}
	return "validation: " + e.Message
}

// NewValidation creates a ValidationError without a field reference.
func NewValidation(message string) *ValidationError {
	return &ValidationError{Message: message}
}

// NewFieldValidation creates a ValidationError naming the invalid field.
func NewFieldValidation(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// DecodeError reports unreadable file bytes, typically content that is not
// valid UTF-8 or an empty selection.
type DecodeError struct {
	Message string
}

func (e *DecodeError) Error() string {
	return "decode: " + e.Message
}

// NetworkError reports a timeout or connection failure before an HTTP
// response was obtained. It wraps the underlying transport error.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network: %s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// TransportError reports a non-2xx HTTP status that carried no structured
// error body. Err holds the underlying cause for wrapped failures on the
// opaque passthrough endpoints.
type TransportError struct {
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("transport: %v", e.Err)
	}
	return fmt.Sprintf("transport: unexpected status %d", e.StatusCode)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ApplicationError is a structured failure reported by the service itself,
// surfaced verbatim: message, numeric code and an optional remediation hint.
type ApplicationError struct {
	Code    int
	Message string
	Hint    string
}

func (e *ApplicationError) Error() string {
	if e.Hint != "" {
		return fmt.Sprintf("application: %s (code %d, hint: %s)", e.Message, e.Code, e.Hint)
	}
	return fmt.Sprintf("application: %s (code %d)", e.Message, e.Code)
}

// ParseError reports a response body that was present but could not be
// decoded into a valid result or chat reply.
type ParseError struct {
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("parse: %s: %v", e.Message, e.Err)
	}
	return "parse: " + e.Message
}

func (e *ParseError) Unwrap() error { return e.Err }
