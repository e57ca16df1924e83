// Package activitypub renders ActivityPub actor documents for local identities.
package activitypub

import "github.com/vanshika/fedfinger/internal/domain"

// MediaType is the ActivityPub content type. Actor documents are only served
// to requests asking for exactly this type.
const MediaType = "application/activity+json"

// ContextActivityStreams is the JSON-LD context of every actor document.
const ContextActivityStreams = "https://www.w3.org/ns/activitystreams"

// Actor is a Person actor. The collection endpoints are placeholders; nothing
// behind them is served.
type Actor struct {
	Context           []string `json:"@context"`
	ID                string   `json:"id"`
	Type              string   `json:"type"`
	PreferredUsername string   `json:"preferredUsername"`
	Name              string   `json:"name"`
	Summary           string   `json:"summary,omitempty"`
	URL               string   `json:"url,omitempty"`
	Inbox             string   `json:"inbox"`
	Outbox            string   `json:"outbox"`
	Followers         string   `json:"followers"`
	Following         string   `json:"following"`
}

// BuildActor maps identity onto a Person actor document.
func BuildActor(identity domain.Identity) Actor {
	return Actor{
		Context:           []string{ContextActivityStreams},
		ID:                identity.ActorID,
		Type:              "Person",
		PreferredUsername: identity.Username,
		Name:              identity.DisplayName,
		Summary:           identity.Summary,
		URL:               identity.ProfileURL,
		Inbox:             identity.ActorID + "/inbox",
		Outbox:            identity.ActorID + "/outbox",
		Followers:         identity.ActorID + "/followers",
		Following:         identity.ActorID + "/following",
	}
}
