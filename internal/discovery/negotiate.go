// Package discovery turns discovery requests into one of a closed set of
// responses: a WebFinger descriptor, an actor document, a profile redirect,
// or an error.
package discovery

import "github.com/vanshika/fedfinger/internal/activitypub"

// PathShape classifies the route a request arrived on.
type PathShape int

const (
	// PathWebFinger is /.well-known/webfinger.
	PathWebFinger PathShape = iota
	// PathUser is /users/{username}.
	PathUser
	// PathProfileAlias is /{username}.
	PathProfileAlias
)

func (p PathShape) String() string {
	switch p {
	case PathWebFinger:
		return "webfinger"
	case PathUser:
		return "user"
	case PathProfileAlias:
		return "profile-alias"
	default:
		return "unknown"
	}
}

// Intent is the representation chosen for a request.
type Intent int

const (
	IntentWebFinger Intent = iota
	IntentActor
	IntentProfileRedirect
)

func (i Intent) String() string {
	switch i {
	case IntentWebFinger:
		return "webfinger"
	case IntentActor:
		return "actor"
	case IntentProfileRedirect:
		return "profile-redirect"
	default:
		return "unknown"
	}
}

// Negotiate picks the representation for a request. accept is nil when the
// request carried no Accept header.
//
// Only an Accept value exactly equal to application/activity+json selects the
// actor document; wildcards, quality values and lists all fall back to the
// profile redirect so browsers never receive machine documents.
func Negotiate(shape PathShape, accept *string) Intent {
	if shape == PathWebFinger {
		return IntentWebFinger
	}
	if accept != nil && *accept == activitypub.MediaType {
		return IntentActor
	}
	return IntentProfileRedirect
}
