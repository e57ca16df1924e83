package webfinger

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vanshika/fedfinger/internal/domain"
)

func testIdentity() domain.Identity {
	return domain.Identity{
		Username:    "alice",
		ActorID:     "https://example.org/users/alice",
		ProfileURL:  "https://example.org/@alice",
		DisplayName: "Alice",
	}
}

func TestBuild(t *testing.T) {
	ref := AccountReference{Scheme: SchemeAcct, Username: "alice", Host: "example.org"}
	doc := Build(testIdentity(), ref)

	assert.Equal(t, "acct:alice@example.org", doc.Subject)
	assert.Equal(t, []string{"https://example.org/users/alice", "https://example.org/@alice"}, doc.Aliases)
	require.Len(t, doc.Links, 2)
	assert.Equal(t, Link{Rel: RelSelf, Type: "application/activity+json", Href: "https://example.org/users/alice"}, doc.Links[0])
	assert.Equal(t, RelProfilePage, doc.Links[1].Rel)
	assert.Equal(t, "https://example.org/@alice", doc.Links[1].Href)
}

func TestBuild_SubjectUsesRequestedHost(t *testing.T) {
	ref := AccountReference{Scheme: SchemeAcct, Username: "alice", Host: "EXAMPLE.org"}
	doc := Build(testIdentity(), ref)
	assert.Equal(t, "acct:alice@EXAMPLE.org", doc.Subject)
}

func TestDocument_FilterRels(t *testing.T) {
	ref := AccountReference{Scheme: SchemeAcct, Username: "alice", Host: "example.org"}
	doc := Build(testIdentity(), ref)

	filtered := doc.FilterRels([]string{RelSelf})
	require.Len(t, filtered.Links, 1)
	assert.Equal(t, RelSelf, filtered.Links[0].Rel)
	assert.Equal(t, doc.Subject, filtered.Subject)
	assert.Equal(t, doc.Aliases, filtered.Aliases)

	none := doc.FilterRels([]string{"http://openid.net/specs/connect/1.0/issuer"})
	assert.Empty(t, none.Links)

	assert.Equal(t, doc, doc.FilterRels(nil))
}

func TestDocument_JSONShape(t *testing.T) {
	ref := AccountReference{Scheme: SchemeAcct, Username: "alice", Host: "example.org"}
	raw, err := json.Marshal(Build(testIdentity(), ref).FilterRels([]string{"none"}))
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, "acct:alice@example.org", decoded["subject"])
	// An emptied link list is still rendered as an array.
	assert.Equal(t, []any{}, decoded["links"])
}
