package webfinger

import (
	"github.com/vanshika/fedfinger/internal/activitypub"
	"github.com/vanshika/fedfinger/internal/domain"
)

// MediaType is the content type of a JSON Resource Descriptor.
const MediaType = "application/jrd+json"

// Link relation types emitted in descriptors.
const (
	RelSelf        = "self"
	RelProfilePage = "http://webfinger.net/rel/profile-page"
)

// Document is a JSON Resource Descriptor (RFC 7033 §4.4).
type Document struct {
	Subject string   `json:"subject"`
	Aliases []string `json:"aliases,omitempty"`
	Links   []Link   `json:"links"`
}

// Link is a single JRD link entry.
type Link struct {
	Rel  string `json:"rel"`
	Type string `json:"type,omitempty"`
	Href string `json:"href,omitempty"`
}

// Build renders the descriptor for identity as addressed by ref.
func Build(identity domain.Identity, ref AccountReference) Document {
	doc := Document{
		Subject: ref.String(),
		Links: []Link{
			{Rel: RelSelf, Type: activitypub.MediaType, Href: identity.ActorID},
		},
	}
	if identity.ActorID != "" {
		doc.Aliases = append(doc.Aliases, identity.ActorID)
	}
	if identity.ProfileURL != "" {
		doc.Aliases = append(doc.Aliases, identity.ProfileURL)
		doc.Links = append(doc.Links, Link{Rel: RelProfilePage, Type: "text/html", Href: identity.ProfileURL})
	}
	return doc
}

// FilterRels keeps only links whose relation is listed in rels. An empty rels
// returns the document unchanged; subject and aliases are always kept.
func (d Document) FilterRels(rels []string) Document {
	if len(rels) == 0 {
		return d
	}
	wanted := make(map[string]struct{}, len(rels))
	for _, rel := range rels {
		wanted[rel] = struct{}{}
	}
	out := Document{Subject: d.Subject, Aliases: d.Aliases, Links: []Link{}}
	for _, link := range d.Links {
		if _, ok := wanted[link.Rel]; ok {
			out.Links = append(out.Links, link)
		}
	}
	return out
}
