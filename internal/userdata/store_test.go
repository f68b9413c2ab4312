package userdata

import (
	"context"
	"path/filepath"
	"testing"

	"recipes-lab/internal/database"
	"recipes-lab/internal/recipe"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := database.NewDB(filepath.Join(t.TempDir(), "userdata.db"))
	if err != nil {
		t.Fatalf("Failed to initialize database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewStore(db.SQL)
}

func TestFavoritesRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	pool := recipe.SeedPool()
	if err := store.AddToFavorites(ctx, "u1", pool[0]); err != nil {
		t.Fatalf("AddToFavorites failed: %v", err)
	}
	if err := store.AddToFavorites(ctx, "u1", pool[1]); err != nil {
		t.Fatalf("AddToFavorites failed: %v", err)
	}
	// Re-adding must stay a no-op.
	if err := store.AddToFavorites(ctx, "u1", pool[0]); err != nil {
		t.Fatalf("Duplicate AddToFavorites failed: %v", err)
	}
	// Another user's data stays separate.
	if err := store.AddToFavorites(ctx, "u2", pool[2]); err != nil {
		t.Fatalf("AddToFavorites failed: %v", err)
	}

	favs, err := store.GetFavorites(ctx, "u1")
	if err != nil {
		t.Fatalf("GetFavorites failed: %v", err)
	}
	if len(favs) != 2 {
		t.Fatalf("Expected 2 favorites, got %d", len(favs))
	}
	if favs[0].ID != pool[0].ID || favs[1].ID != pool[1].ID {
		t.Errorf("Favorites out of add order: %v", favs)
	}
	if favs[0].Title != pool[0].Title || len(favs[0].Tags) != len(pool[0].Tags) {
		t.Errorf("Recipe did not round-trip: %+v", favs[0])
	}

	if err := store.RemoveFromFavorites(ctx, "u1", pool[0].ID); err != nil {
		t.Fatalf("RemoveFromFavorites failed: %v", err)
	}
	favs, err = store.GetFavorites(ctx, "u1")
	if err != nil {
		t.Fatalf("GetFavorites failed: %v", err)
	}
	if len(favs) != 1 || favs[0].ID != pool[1].ID {
		t.Errorf("Expected only the second favorite to remain, got %v", favs)
	}
}

func TestMealPlanRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	pool := recipe.SeedPool()
	// Duplicates on the same day are allowed.
	for _, rec := range []recipe.Recipe{pool[0], pool[0], pool[1]} {
		if err := store.AddToMealPlan(ctx, "u1", recipe.Monday, rec); err != nil {
			t.Fatalf("AddToMealPlan failed: %v", err)
		}
	}
	if err := store.AddToMealPlan(ctx, "u1", recipe.Friday, pool[0]); err != nil {
		t.Fatalf("AddToMealPlan failed: %v", err)
	}

	plan, err := store.GetMealPlan(ctx, "u1")
	if err != nil {
		t.Fatalf("GetMealPlan failed: %v", err)
	}
	if len(plan[recipe.Monday]) != 3 {
		t.Fatalf("Expected 3 Monday entries, got %d", len(plan[recipe.Monday]))
	}
	if plan[recipe.Monday][2].ID != pool[1].ID {
		t.Errorf("Monday entries out of add order: %v", plan[recipe.Monday])
	}
	if len(plan[recipe.Friday]) != 1 {
		t.Errorf("Expected 1 Friday entry, got %d", len(plan[recipe.Friday]))
	}
	if _, ok := plan[recipe.Sunday]; ok {
		t.Error("Empty days must be absent from the plan map")
	}

	// Removing takes the earliest matching entry only.
	if err := store.RemoveFromMealPlan(ctx, "u1", recipe.Monday, pool[0].ID); err != nil {
		t.Fatalf("RemoveFromMealPlan failed: %v", err)
	}
	plan, err = store.GetMealPlan(ctx, "u1")
	if err != nil {
		t.Fatalf("GetMealPlan failed: %v", err)
	}
	if len(plan[recipe.Monday]) != 2 {
		t.Fatalf("Expected 2 Monday entries after removal, got %d", len(plan[recipe.Monday]))
	}
	// Other days untouched.
	if len(plan[recipe.Friday]) != 1 {
		t.Errorf("Friday must be untouched by a Monday removal, got %v", plan[recipe.Friday])
	}

	// add-then-remove leaves the day without that id.
	if err := store.AddToMealPlan(ctx, "u1", recipe.Sunday, pool[3]); err != nil {
		t.Fatalf("AddToMealPlan failed: %v", err)
	}
	if err := store.RemoveFromMealPlan(ctx, "u1", recipe.Sunday, pool[3].ID); err != nil {
		t.Fatalf("RemoveFromMealPlan failed: %v", err)
	}
	plan, _ = store.GetMealPlan(ctx, "u1")
	for _, rec := range plan[recipe.Sunday] {
		if rec.ID == pool[3].ID {
			t.Errorf("Sunday still holds removed recipe %d", rec.ID)
		}
	}
}
