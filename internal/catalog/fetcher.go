package catalog

import (
	"context"
	"log"
	"math/rand/v2"

	"recipes-lab/internal/recipe"
)

// PoolSize is the number of recipes shown per search, and the size of the
// seed pool.
const PoolSize = 6

// Fetcher turns classified catalog calls into a pool that is never empty:
// any degraded outcome substitutes the seed pool wholesale.
type Fetcher struct {
	client Client
}

// NewFetcher creates a Fetcher on top of a catalog client.
func NewFetcher(client Client) *Fetcher {
	return &Fetcher{client: client}
}

// Search runs a fresh catalog search. On success it samples PoolSize recipes
// uniformly; on transport failure, quota exhaustion or an empty result it
// returns the seed pool instead.
func (f *Fetcher) Search(ctx context.Context) []recipe.Recipe {
	result := f.client.Search(ctx)
	if result.Status != StatusOK {
		log.Printf("catalog: search degraded (%s), serving seed pool", result.Status)
		return recipe.SeedPool()
	}
	return samplePool(result.Recipes, PoolSize)
}

// samplePool picks n recipes without replacement using a partial
// Fisher-Yates shuffle, so the selection carries no positional bias.
func samplePool(pool []recipe.Recipe, n int) []recipe.Recipe {
	picked := make([]recipe.Recipe, len(pool))
	copy(picked, pool)
	if n > len(picked) {
		n = len(picked)
	}
	for i := 0; i < n; i++ {
		j := i + rand.IntN(len(picked)-i)
		picked[i], picked[j] = picked[j], picked[i]
	}
	return picked[:n]
}
