// Package webfinger parses WebFinger resource queries and renders JSON
// Resource Descriptors for local accounts.
package webfinger

import (
	"errors"
	"strings"
)

// Scheme identifies the URI scheme of a WebFinger resource.
type Scheme string

// SchemeAcct is the only resource scheme served.
const SchemeAcct Scheme = "acct"

// AccountReference is a parsed acct: resource.
type AccountReference struct {
	Scheme   Scheme
	Username string
	Host     string
}

// String renders the reference back into acct:username@host form.
func (r AccountReference) String() string {
	return string(SchemeAcct) + ":" + r.Username + "@" + r.Host
}

var (
	// ErrMissingResource is returned when no resource value was supplied.
	ErrMissingResource = errors.New("resource parameter is required")
	// ErrUnsupportedScheme is returned for any scheme other than acct.
	ErrUnsupportedScheme = errors.New("unsupported resource scheme")
	// ErrMalformedAccount is returned when the account part is not user@host.
	ErrMalformedAccount = errors.New("malformed account")
)

// QueryError describes why a resource value was rejected. Kind is one of the
// package sentinel errors and is what errors.Is matches against.
type QueryError struct {
	Kind     error
	Resource string
}

func (e *QueryError) Error() string {
	if e.Resource == "" {
		return e.Kind.Error()
	}
	return e.Kind.Error() + ": " + e.Resource
}

func (e *QueryError) Unwrap() error {
	return e.Kind
}

// Parse validates a raw resource value of the form acct:username@host.
// It is purely syntactic: the host is not compared with the local domain.
func Parse(raw string) (AccountReference, error) {
	if raw == "" {
		return AccountReference{}, &QueryError{Kind: ErrMissingResource}
	}

	scheme, rest, ok := strings.Cut(raw, ":")
	if !ok {
		// A bare user@host lacks only its scheme; anything else is not an
		// account reference at all.
		if strings.Contains(raw, "@") {
			return AccountReference{}, &QueryError{Kind: ErrUnsupportedScheme, Resource: raw}
		}
		return AccountReference{}, &QueryError{Kind: ErrMalformedAccount, Resource: raw}
	}
	if !strings.EqualFold(scheme, string(SchemeAcct)) {
		return AccountReference{}, &QueryError{Kind: ErrUnsupportedScheme, Resource: raw}
	}

	idx := strings.LastIndex(rest, "@")
	if idx < 0 {
		return AccountReference{}, &QueryError{Kind: ErrMalformedAccount, Resource: raw}
	}
	username, host := rest[:idx], rest[idx+1:]
	if username == "" || host == "" || strings.Contains(username, "@") {
		return AccountReference{}, &QueryError{Kind: ErrMalformedAccount, Resource: raw}
	}

	return AccountReference{
		Scheme:   SchemeAcct,
		Username: username,
		Host:     host,
	}, nil
}
