// Package identity resolves local usernames to canonical identity records.
package identity

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/text/secure/precis"

	"github.com/vanshika/fedfinger/internal/domain"
)

var (
	// ErrNotFound reports that no identity exists for a username. It is an
	// ordinary outcome, not a failure of the store.
	ErrNotFound = errors.New("identity not found")
	// ErrInvalidUsername reports a username that cannot name a local account.
	ErrInvalidUsername = errors.New("invalid username")
)

// StoreError wraps an infrastructure failure raised by a Store.
type StoreError struct {
	Username string
	Err      error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("lookup identity %q: %v", e.Username, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// Store looks identities up by normalized username. Lookup returns
// ErrNotFound when there is no match; any other error is treated as a
// store failure.
type Store interface {
	Lookup(ctx context.Context, username string) (domain.Identity, error)
}

// Prober is implemented by stores that can report their own health.
type Prober interface {
	Probe(ctx context.Context) error
}

// Settings carries the deployment parameters needed to complete records.
type Settings struct {
	// Domain is the host part of local acct: URIs.
	Domain string
	// BaseURL is the public origin, e.g. https://example.org.
	BaseURL string
}

// Resolver maps usernames to identity records through a Store.
type Resolver struct {
	store    Store
	settings Settings
}

// NewResolver constructs a Resolver. The base URL defaults to https://{domain}.
func NewResolver(store Store, settings Settings) *Resolver {
	if settings.BaseURL == "" && settings.Domain != "" {
		settings.BaseURL = "https://" + settings.Domain
	}
	settings.BaseURL = strings.TrimRight(settings.BaseURL, "/")
	return &Resolver{store: store, settings: settings}
}

// Settings returns the resolver's deployment parameters.
func (r *Resolver) Settings() Settings {
	return r.settings
}

// ServesHost reports whether host names this deployment.
func (r *Resolver) ServesHost(host string) bool {
	return strings.EqualFold(host, r.settings.Domain)
}

// Resolve normalizes username and returns its identity record with any
// missing URLs derived from the base URL.
func (r *Resolver) Resolve(ctx context.Context, username string) (domain.Identity, error) {
	normalized, err := NormalizeUsername(username)
	if err != nil {
		return domain.Identity{}, err
	}

	ident, err := r.store.Lookup(ctx, normalized)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return domain.Identity{}, ErrNotFound
		}
		return domain.Identity{}, &StoreError{Username: normalized, Err: err}
	}

	return r.complete(normalized, ident), nil
}

// Probe checks the underlying store when it supports health probes.
func (r *Resolver) Probe(ctx context.Context) error {
	if p, ok := r.store.(Prober); ok {
		return p.Probe(ctx)
	}
	return nil
}

func (r *Resolver) complete(username string, ident domain.Identity) domain.Identity {
	if ident.Username == "" {
		ident.Username = username
	}
	escaped := url.PathEscape(ident.Username)
	if ident.ActorID == "" {
		ident.ActorID = r.settings.BaseURL + "/users/" + escaped
	}
	if ident.ProfileURL == "" {
		ident.ProfileURL = r.settings.BaseURL + "/@" + escaped
	}
	if ident.DisplayName == "" {
		ident.DisplayName = ident.Username
	}
	return ident
}

// NormalizeUsername applies the PRECIS UsernameCaseMapped profile (RFC 8265)
// and checks the result can name a local account.
func NormalizeUsername(username string) (string, error) {
	if username == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidUsername)
	}
	normalized, err := precis.UsernameCaseMapped.String(username)
	if err != nil {
		return "", fmt.Errorf("%w: %q: %v", ErrInvalidUsername, username, err)
	}
	if !domain.ValidUsername(normalized) {
		return "", fmt.Errorf("%w: %q", ErrInvalidUsername, username)
	}
	return normalized, nil
}
