// Package apperr defines the error categories surfaced by the dashboard service.
package apperr

import (
	"errors"
	"fmt"
	"sort"
)

// Kind is a stable machine-readable error category.
type Kind string

const (
	KindValidation          Kind = "validation_error"
	KindAlreadySubscribed   Kind = "already_subscribed"
	KindConfiguration       Kind = "configuration_error"
	KindUpstreamTimeout     Kind = "upstream_timeout"
	KindUpstreamUnavailable Kind = "upstream_unavailable"
	KindStorage             Kind = "storage_error"
	KindNotFound            Kind = "not_found"
	KindUnauthorized        Kind = "unauthorized"
)

// FieldErrors maps a (dotted) field path to its problems.
type FieldErrors map[string][]string

// Add records msg against field.
func (f FieldErrors) Add(field, msg string) {
	f[field] = append(f[field], msg)
}

// Merge copies other into f, prefixing every key with prefix + ".".
func (f FieldErrors) Merge(prefix string, other FieldErrors) {
	for k, v := range other {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		f[key] = append(f[key], v...)
	}
}

// Fields returns the sorted field names.
func (f FieldErrors) Fields() []string {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Error is a categorised failure with optional per-field detail.
type Error struct {
	Kind    Kind
	Message string
	Fields  FieldErrors
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Validation builds a validation error carrying field detail.
func Validation(message string, fields FieldErrors) *Error {
	return &Error{Kind: KindValidation, Message: message, Fields: fields}
}

// AlreadySubscribed signals a duplicate normalised email.
func AlreadySubscribed(email string) *Error {
	return &Error{
		Kind:    KindAlreadySubscribed,
		Message: "Already subscribed to the newsletter",
		Fields:  FieldErrors{"email": {fmt.Sprintf("%s is already subscribed.", email)}},
	}
}

// NotFound signals an unknown resource id.
func NotFound(resource string, id int64) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf("%s %d not found", resource, id)}
}

// Configuration signals a missing deployment setting.
func Configuration(message string) *Error {
	return &Error{Kind: KindConfiguration, Message: message}
}

// UpstreamTimeout wraps a deadline overrun of an external call.
func UpstreamTimeout(message string, err error) *Error {
	return &Error{Kind: KindUpstreamTimeout, Message: message, Err: err}
}

// UpstreamUnavailable wraps any other external call failure.
func UpstreamUnavailable(message string, err error) *Error {
	return &Error{Kind: KindUpstreamUnavailable, Message: message, Err: err}
}

// Storage wraps a persistence failure.
func Storage(message string, err error) *Error {
	return &Error{Kind: KindStorage, Message: message, Err: err}
}

// Unauthorized signals a missing or invalid credential.
func Unauthorized(message string) *Error {
	return &Error{Kind: KindUnauthorized, Message: message}
}

// KindOf extracts the category of err, or "" when err is not an *Error.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return ""
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}
