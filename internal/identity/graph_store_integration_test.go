//go:build integration

package identity

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/vanshika/fedfinger/internal/domain"
	"github.com/vanshika/fedfinger/internal/graph"
)

func startNeo4j(t *testing.T) graph.Client {
	t.Helper()
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "neo4j:5",
			ExposedPorts: []string{"7687/tcp"},
			Env:          map[string]string{"NEO4J_AUTH": "none"},
			WaitingFor:   wait.ForListeningPort("7687/tcp").WithStartupTimeout(2 * time.Minute),
		},
		Started: true,
	})
	testcontainers.CleanupContainer(t, container)
	require.NoError(t, err)

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "7687/tcp")
	require.NoError(t, err)

	var client graph.Client
	require.Eventually(t, func() bool {
		client, err = graph.NewNeo4jClient(ctx, graph.Options{URI: fmt.Sprintf("bolt://%s:%s", host, port.Port())})
		return err == nil
	}, time.Minute, time.Second)
	t.Cleanup(func() { _ = client.Close(context.Background()) })
	return client
}

func TestGraphStore_Neo4jRoundTrip(t *testing.T) {
	client := startNeo4j(t)
	store := NewGraphStore(client)
	ctx := context.Background()

	require.NoError(t, store.EnsureSchema(ctx))
	require.NoError(t, NewImporter(store, 2).Import(ctx, []domain.Identity{
		{Username: "Alice", DisplayName: "Alice"},
		{Username: "bob", ActorID: "https://id.example.org/bob"},
	}))

	total, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)

	resolver := NewResolver(store, Settings{Domain: "example.org"})
	alice, err := resolver.Resolve(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "https://example.org/users/alice", alice.ActorID)

	bob, err := resolver.Resolve(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, "https://id.example.org/bob", bob.ActorID)

	_, err = resolver.Resolve(ctx, "carol")
	assert.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, resolver.Probe(ctx))
}
