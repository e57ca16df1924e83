package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/vanshika/fedfinger/internal/domain"
)

// StaticStore serves a fixed set of identities loaded at startup. The map is
// never written after construction, so lookups need no locking.
type StaticStore struct {
	byUsername map[string]domain.Identity
}

// NewStaticStore indexes identities by normalized username. Duplicate or
// invalid usernames are rejected.
func NewStaticStore(identities []domain.Identity) (*StaticStore, error) {
	index := make(map[string]domain.Identity, len(identities))
	for i, ident := range identities {
		normalized, err := NormalizeUsername(ident.Username)
		if err != nil {
			return nil, fmt.Errorf("identity %d: %w", i, err)
		}
		if _, dup := index[normalized]; dup {
			return nil, fmt.Errorf("identity %d: duplicate username %q", i, normalized)
		}
		ident.Username = normalized
		index[normalized] = ident
	}
	return &StaticStore{byUsername: index}, nil
}

// LoadStaticStore reads a seed file and indexes its identities.
func LoadStaticStore(path string) (*StaticStore, error) {
	identities, err := LoadSeed(path)
	if err != nil {
		return nil, err
	}
	return NewStaticStore(identities)
}

// Lookup implements Store.
func (s *StaticStore) Lookup(ctx context.Context, username string) (domain.Identity, error) {
	if err := ctx.Err(); err != nil {
		return domain.Identity{}, err
	}
	ident, ok := s.byUsername[username]
	if !ok {
		return domain.Identity{}, ErrNotFound
	}
	return ident, nil
}

// Len returns the number of identities held.
func (s *StaticStore) Len() int {
	return len(s.byUsername)
}

type seedFile struct {
	Identities []seedIdentity `yaml:"identities" json:"identities"`
}

type seedIdentity struct {
	Username    string `yaml:"username" json:"username"`
	DisplayName string `yaml:"displayName,omitempty" json:"displayName,omitempty"`
	Summary     string `yaml:"summary,omitempty" json:"summary,omitempty"`
	ActorID     string `yaml:"actorId,omitempty" json:"actorId,omitempty"`
	ProfileURL  string `yaml:"profileUrl,omitempty" json:"profileUrl,omitempty"`
}

// LoadSeed reads identities from a YAML (.yaml, .yml) or JSON (.json, .jsonc)
// seed file. JSON files may contain comments and trailing commas.
func LoadSeed(path string) ([]domain.Identity, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	identities, err := DecodeSeed(data, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("parse seed file %s: %w", path, err)
	}
	return identities, nil
}

// DecodeSeed decodes seed data in the format named by ext.
func DecodeSeed(data []byte, ext string) ([]domain.Identity, error) {
	var seed seedFile
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &seed); err != nil {
			return nil, err
		}
	case ".json", ".jsonc":
		if err := json.Unmarshal(jsonc.ToJSON(data), &seed); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported seed format %q", ext)
	}

	identities := make([]domain.Identity, 0, len(seed.Identities))
	for _, s := range seed.Identities {
		identities = append(identities, domain.Identity{
			Username:    s.Username,
			ActorID:     s.ActorID,
			ProfileURL:  s.ProfileURL,
			DisplayName: s.DisplayName,
			Summary:     s.Summary,
		})
	}
	return identities, nil
}

// EncodeSeed renders identities in the seed format named by ext.
func EncodeSeed(identities []domain.Identity, ext string) ([]byte, error) {
	seed := seedFile{Identities: make([]seedIdentity, 0, len(identities))}
	for _, ident := range identities {
		seed.Identities = append(seed.Identities, seedIdentity{
			Username:    ident.Username,
			DisplayName: ident.DisplayName,
			Summary:     ident.Summary,
			ActorID:     ident.ActorID,
			ProfileURL:  ident.ProfileURL,
		})
	}

	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		return yaml.Marshal(seed)
	case ".json", ".jsonc":
		return json.MarshalIndent(seed, "", "  ")
	default:
		return nil, fmt.Errorf("unsupported seed format %q", ext)
	}
}
