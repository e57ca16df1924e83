// Package generator synthesizes identity seed data for development and load
// testing.
package generator

import (
	"context"
	"fmt"
	"math/rand"
	"strings"

	"github.com/vanshika/fedfinger/internal/domain"
)

// Generator produces unique, valid identities.
type Generator struct {
	cfg     Config
	baseURL string
	rand    *rand.Rand
}

// New returns a Generator. baseURL is used for the share of identities that
// carry explicit actor and profile URLs.
func New(cfg Config, baseURL string) *Generator {
	defaults := DefaultConfig()
	if cfg.Count <= 0 {
		cfg.Count = defaults.Count
	}
	if cfg.Seed == 0 {
		cfg.Seed = defaults.Seed
	}

	return &Generator{
		cfg:     cfg,
		baseURL: strings.TrimRight(baseURL, "/"),
		rand:    rand.New(rand.NewSource(cfg.Seed)),
	}
}

// Generate synthesises cfg.Count identities. It respects context cancellation.
func (g *Generator) Generate(ctx context.Context) ([]domain.Identity, error) {
	identities := make([]domain.Identity, 0, g.cfg.Count)
	seen := make(map[string]struct{}, g.cfg.Count)

	for len(identities) < g.cfg.Count {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		first := firstNames[g.rand.Intn(len(firstNames))]
		last := lastNames[g.rand.Intn(len(lastNames))]
		username := strings.ToLower(first + "." + last)
		if _, dup := seen[username]; dup {
			username = fmt.Sprintf("%s%d", username, len(identities))
		}
		seen[username] = struct{}{}

		ident := domain.Identity{
			Username:    username,
			DisplayName: first + " " + last,
		}
		if g.rand.Float64() < g.cfg.SummaryChance {
			ident.Summary = summaries[g.rand.Intn(len(summaries))]
		}
		if g.baseURL != "" && g.rand.Float64() < g.cfg.ExplicitURLPct {
			ident.ActorID = g.baseURL + "/actors/" + username
			ident.ProfileURL = g.baseURL + "/profiles/" + username
		}
		identities = append(identities, ident)
	}

	return identities, nil
}

var firstNames = []string{
	"Ada", "Grace", "Alan", "Barbara", "Edsger", "Frances", "Ken", "Radia",
	"Dennis", "Margaret", "Linus", "Hedy", "Donald", "Karen", "John", "Sophie",
}

var lastNames = []string{
	"Lovelace", "Hopper", "Turing", "Liskov", "Dijkstra", "Allen", "Thompson",
	"Perlman", "Ritchie", "Hamilton", "Torvalds", "Lamarr", "Knuth", "Jones",
}

var summaries = []string{
	"Writes software and occasionally poetry.",
	"Federated since before it was cool.",
	"Compilers, coffee, cats.",
	"Posting about distributed systems.",
}
