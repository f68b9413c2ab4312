// Package userdata is the per-user persistence boundary: favorites and the
// weekly meal plan, keyed by session uid. Callers treat every operation as
// fallible and recoverable; a failed mutation is simply not applied.
package userdata

import (
	"context"

	"recipes-lab/internal/recipe"
)

// Service is the persistence service consumed by the personalization store.
type Service interface {
	GetFavorites(ctx context.Context, uid string) ([]recipe.Recipe, error)
	AddToFavorites(ctx context.Context, uid string, rec recipe.Recipe) error
	RemoveFromFavorites(ctx context.Context, uid string, recipeID int64) error

	GetMealPlan(ctx context.Context, uid string) (map[recipe.Day][]recipe.Recipe, error)
	AddToMealPlan(ctx context.Context, uid string, day recipe.Day, rec recipe.Recipe) error
	RemoveFromMealPlan(ctx context.Context, uid string, day recipe.Day, recipeID int64) error
}
