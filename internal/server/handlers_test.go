package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vanshika/fedfinger/internal/discovery"
	"github.com/vanshika/fedfinger/internal/domain"
	"github.com/vanshika/fedfinger/internal/identity"
)

type brokenStore struct{}

func (brokenStore) Lookup(context.Context, string) (domain.Identity, error) {
	return domain.Identity{}, errors.New("neo4j: connection refused")
}

func (brokenStore) Probe(context.Context) error {
	return errors.New("neo4j: connection refused")
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestRouter(t *testing.T, store identity.Store, redirectStatus int) http.Handler {
	t.Helper()
	logger := discardLogger()
	resolver := identity.NewResolver(store, identity.Settings{Domain: "example.org"})
	svc := discovery.NewService(logger, resolver)
	return NewRouter(logger, RouterDependencies{
		Health:    resolver,
		Discovery: NewDiscoveryHandlers(logger, svc, redirectStatus),
	})
}

func aliceStore(t *testing.T) identity.Store {
	t.Helper()
	store, err := identity.NewStaticStore([]domain.Identity{
		{Username: "alice", DisplayName: "Alice"},
	})
	require.NoError(t, err)
	return store
}

func serve(h http.Handler, method, target string, header http.Header) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestWebFingerHit(t *testing.T) {
	h := newTestRouter(t, aliceStore(t), 0)

	rec := serve(h, http.MethodGet, "/.well-known/webfinger?resource=acct:alice@example.org", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/jrd+json", rec.Header().Get("Content-Type"))
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))

	var doc struct {
		Subject string `json:"subject"`
		Links   []struct {
			Rel  string `json:"rel"`
			Type string `json:"type"`
			Href string `json:"href"`
		} `json:"links"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
	assert.Equal(t, "acct:alice@example.org", doc.Subject)
	require.NotEmpty(t, doc.Links)
	assert.Equal(t, "self", doc.Links[0].Rel)
	assert.Equal(t, "application/activity+json", doc.Links[0].Type)
	assert.Equal(t, "https://example.org/users/alice", doc.Links[0].Href)
}

func TestWebFingerEscapedResource(t *testing.T) {
	h := newTestRouter(t, aliceStore(t), 0)

	rec := serve(h, http.MethodGet, "/.well-known/webfinger?resource=acct%3Aalice%40example.org&rel=self", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.Len(t, body["links"], 1)
}

func TestWebFingerErrors(t *testing.T) {
	h := newTestRouter(t, aliceStore(t), 0)

	cases := []struct {
		name   string
		target string
		status int
		code   string
	}{
		{"malformed", "/.well-known/webfinger?resource=not-a-uri", http.StatusBadRequest, "malformed_account"},
		{"missing", "/.well-known/webfinger", http.StatusBadRequest, "missing_resource"},
		{"scheme", "/.well-known/webfinger?resource=https://example.org/users/alice", http.StatusBadRequest, "unsupported_scheme"},
		{"unknown", "/.well-known/webfinger?resource=acct:bob@example.org", http.StatusNotFound, "not_found"},
		{"foreign host", "/.well-known/webfinger?resource=acct:alice@other.test", http.StatusNotFound, "not_found"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := serve(h, http.MethodGet, tc.target, nil)
			assert.Equal(t, tc.status, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			assert.Equal(t, tc.code, decodeBody(t, rec)["error"])
		})
	}
}

func TestUserActorNegotiation(t *testing.T) {
	h := newTestRouter(t, aliceStore(t), 0)

	rec := serve(h, http.MethodGet, "/users/alice", http.Header{"Accept": {"application/activity+json"}})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/activity+json", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Values("Vary"), "Accept")

	body := decodeBody(t, rec)
	assert.Equal(t, "alice", body["preferredUsername"])
	assert.Equal(t, "Person", body["type"])
	assert.Equal(t, "https://example.org/users/alice", body["id"])
}

func TestUserBrowserFallback(t *testing.T) {
	h := newTestRouter(t, aliceStore(t), 0)

	for _, accept := range []string{"text/html", "*/*", "application/activity+json, text/html"} {
		rec := serve(h, http.MethodGet, "/users/alice", http.Header{"Accept": {accept}})

		assert.Equal(t, http.StatusFound, rec.Code, accept)
		assert.Equal(t, "https://example.org/@alice", rec.Header().Get("Location"))
		assert.NotContains(t, rec.Body.String(), "preferredUsername")
		assert.NotEqual(t, "application/activity+json", rec.Header().Get("Content-Type"))
	}

	rec := serve(h, http.MethodGet, "/users/alice", nil)
	assert.Equal(t, http.StatusFound, rec.Code)
}

func TestUserRedirectStatusSeeOther(t *testing.T) {
	h := newTestRouter(t, aliceStore(t), http.StatusSeeOther)

	rec := serve(h, http.MethodGet, "/users/alice", http.Header{"Accept": {"text/html"}})
	assert.Equal(t, http.StatusSeeOther, rec.Code)
}

func TestUserUnknownConsistentBody(t *testing.T) {
	h := newTestRouter(t, aliceStore(t), 0)

	var bodies []string
	for _, accept := range []string{"", "application/activity+json", "text/html", "*/*"} {
		header := http.Header{}
		if accept != "" {
			header.Set("Accept", accept)
		}
		rec := serve(h, http.MethodGet, "/users/bob", header)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		bodies = append(bodies, rec.Body.String())
	}
	for _, body := range bodies[1:] {
		assert.Equal(t, bodies[0], body)
	}
}

func TestProfileAlias(t *testing.T) {
	h := newTestRouter(t, aliceStore(t), 0)

	for _, target := range []string{"/alice", "/@alice", "/Alice"} {
		rec := serve(h, http.MethodGet, target, nil)
		assert.Equal(t, http.StatusFound, rec.Code, target)
		assert.Equal(t, "https://example.org/@alice", rec.Header().Get("Location"))
	}

	rec := serve(h, http.MethodGet, "/alice", http.Header{"Accept": {"application/activity+json"}})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/activity+json", rec.Header().Get("Content-Type"))

	rec = serve(h, http.MethodGet, "/bob", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHeadRequests(t *testing.T) {
	h := newTestRouter(t, aliceStore(t), 0)

	rec := serve(h, http.MethodHead, "/users/alice", http.Header{"Accept": {"application/activity+json"}})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = serve(h, http.MethodHead, "/.well-known/webfinger?resource=acct:alice@example.org", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestUnmatchedRoutesAndMethods(t *testing.T) {
	h := newTestRouter(t, aliceStore(t), 0)

	rec := serve(h, http.MethodGet, "/users/alice/outbox", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not_found", decodeBody(t, rec)["error"])

	rec = serve(h, http.MethodPost, "/users/alice", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestStoreFailureIsServerError(t *testing.T) {
	h := newTestRouter(t, brokenStore{}, 0)

	rec := serve(h, http.MethodGet, "/users/alice", http.Header{"Accept": {"application/activity+json"}})
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "store_unavailable", decodeBody(t, rec)["error"])
	assert.NotContains(t, rec.Body.String(), "connection refused")

	rec = serve(h, http.MethodGet, "/.well-known/webfinger?resource=acct:alice@example.org", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestHealthz(t *testing.T) {
	rec := serve(newTestRouter(t, aliceStore(t), 0), http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decodeBody(t, rec)["status"])

	rec = serve(newTestRouter(t, brokenStore{}, 0), http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "degraded", decodeBody(t, rec)["status"])
}

func TestCORSPreflight(t *testing.T) {
	logger := discardLogger()
	h := NewRouter(logger, RouterDependencies{AllowedOrigins: []string{"https://app.example.org"}})

	rec := serve(h, http.MethodOptions, "/users/alice", http.Header{"Origin": {"https://app.example.org"}})
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "https://app.example.org", rec.Header().Get("Access-Control-Allow-Origin"))

	rec = serve(h, http.MethodOptions, "/users/alice", http.Header{"Origin": {"https://evil.test"}})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
