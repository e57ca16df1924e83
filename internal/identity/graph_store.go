package identity

import (
	"context"
	"errors"
	"fmt"

	"github.com/vanshika/fedfinger/internal/domain"
	"github.com/vanshika/fedfinger/internal/graph"
)

// GraphStore keeps identities as :Identity nodes in the graph database.
type GraphStore struct {
	client graph.Client
}

// NewGraphStore returns a store backed by client.
func NewGraphStore(client graph.Client) *GraphStore {
	return &GraphStore{client: client}
}

// Lookup implements Store.
func (s *GraphStore) Lookup(ctx context.Context, username string) (domain.Identity, error) {
	res, err := s.client.ExecuteRead(ctx, lookupIdentityCypher, map[string]any{
		"username": username,
	})
	if err != nil {
		return domain.Identity{}, fmt.Errorf("lookup identity query: %w", err)
	}
	if len(res.Records) == 0 {
		return domain.Identity{}, ErrNotFound
	}

	record := res.Records[0]
	return domain.Identity{
		Username:    record.String("username"),
		ActorID:     record.String("actorId"),
		ProfileURL:  record.String("profileUrl"),
		DisplayName: record.String("displayName"),
		Summary:     record.String("summary"),
	}, nil
}

// Upsert creates or refreshes the node for ident.
func (s *GraphStore) Upsert(ctx context.Context, ident domain.Identity) error {
	if ident.Username == "" {
		return errors.New("identity username is required")
	}

	params := map[string]any{
		"username": ident.Username,
		"props":    identityProperties(ident),
	}
	if _, err := s.client.ExecuteWrite(ctx, upsertIdentityCypher, params); err != nil {
		return fmt.Errorf("upsert identity %s: %w", ident.Username, err)
	}
	return nil
}

// EnsureSchema creates the username uniqueness constraint when missing.
func (s *GraphStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.client.ExecuteWrite(ctx, identityConstraintCypher, nil); err != nil {
		return fmt.Errorf("ensure identity constraint: %w", err)
	}
	return nil
}

// Count returns the number of stored identities.
func (s *GraphStore) Count(ctx context.Context) (int64, error) {
	res, err := s.client.ExecuteRead(ctx, countIdentitiesCypher, nil)
	if err != nil {
		return 0, fmt.Errorf("count identities query: %w", err)
	}
	if len(res.Records) == 0 {
		return 0, nil
	}
	return res.Records[0].Int("total"), nil
}

// Probe implements Prober.
func (s *GraphStore) Probe(ctx context.Context) error {
	return s.client.VerifyConnectivity(ctx)
}

func identityProperties(ident domain.Identity) map[string]any {
	props := map[string]any{
		"displayName": ident.DisplayName,
		"summary":     ident.Summary,
	}
	// Empty URLs stay unset so the resolver derives them from the base URL.
	if ident.ActorID != "" {
		props["actorId"] = ident.ActorID
	}
	if ident.ProfileURL != "" {
		props["profileUrl"] = ident.ProfileURL
	}
	return props
}

const lookupIdentityCypher = `
MATCH (i:Identity {username: $username})
RETURN i.username AS username,
       i.actorId AS actorId,
       i.profileUrl AS profileUrl,
       i.displayName AS displayName,
       i.summary AS summary
LIMIT 1
`

const upsertIdentityCypher = `
MERGE (i:Identity {username: $username})
ON CREATE SET i.createdAt = datetime()
SET i += $props, i.updatedAt = datetime()
`

const identityConstraintCypher = `
CREATE CONSTRAINT identity_username IF NOT EXISTS
FOR (i:Identity) REQUIRE i.username IS UNIQUE
`

const countIdentitiesCypher = `
MATCH (i:Identity)
RETURN count(i) AS total
`
