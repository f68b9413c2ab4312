package state

import (
	"fmt"
	"testing"

	"recipes-lab/internal/auth"
	"recipes-lab/internal/recipe"
)

func TestColdStartShowsSeedPool(t *testing.T) {
	s := NewStore()
	got := s.Recipes()
	want := recipe.SeedPool()
	if len(got) != len(want) {
		t.Fatalf("Expected the seed pool on cold start, got %d recipes", len(got))
	}
	for i := range want {
		if got[i].ID != want[i].ID {
			t.Errorf("Pool mismatch at %d: got id %d, want %d", i, got[i].ID, want[i].ID)
		}
	}
}

func TestFilterIsCaseInsensitiveSubstring(t *testing.T) {
	s := NewStore()
	s.SetFilter("CHICKEN")
	got := s.Recipes()
	if len(got) != 1 || got[0].Title != "Chicken Tikka Masala" {
		t.Errorf("Expected only the chicken recipe, got %v", got)
	}

	s.SetFilter("nothing matches this")
	if got := s.Recipes(); len(got) != 0 {
		t.Errorf("Expected an empty filtered view, got %v", got)
	}

	// Clearing the filter restores the pool untouched.
	s.SetFilter("")
	if got := s.Recipes(); len(got) != 6 {
		t.Errorf("Expected the full pool back, got %d", len(got))
	}
}

func TestSelectionTokenDiscardsStaleDetail(t *testing.T) {
	s := NewStore()
	pool := recipe.SeedPool()

	tokenA := s.BeginSelection(pool[0])
	tokenB := s.BeginSelection(pool[1])

	staleDetail := &recipe.Detail{Recipe: pool[0]}
	if s.ResolveDetail(tokenA, staleDetail) {
		t.Error("Stale resolution must be discarded")
	}
	if _, d, loading := s.Selection(); d != nil || !loading {
		t.Error("Stale resolution must not mutate shown state")
	}

	freshDetail := &recipe.Detail{Recipe: pool[1]}
	if !s.ResolveDetail(tokenB, freshDetail) {
		t.Fatal("Current resolution must commit")
	}
	sel, d, loading := s.Selection()
	if loading || d == nil || d.ID != pool[1].ID || sel.ID != pool[1].ID {
		t.Errorf("Unexpected selection state: sel=%v detail=%v loading=%v", sel, d, loading)
	}
}

func TestClearSelectionInvalidatesInFlight(t *testing.T) {
	s := NewStore()
	token := s.BeginSelection(recipe.SeedPool()[0])
	s.ClearSelection()
	if s.ResolveDetail(token, &recipe.Detail{}) {
		t.Error("Resolution after close must be discarded")
	}
	if sel, d, loading := s.Selection(); sel != nil || d != nil || loading {
		t.Error("Expected an empty selection after close")
	}
}

func sessionFor(uid string) *auth.Session {
	return &auth.Session{UID: uid, DisplayName: "Test User"}
}

func favoritesOf(n int) []recipe.Recipe {
	out := make([]recipe.Recipe, n)
	for i := range out {
		out[i] = recipe.Recipe{ID: int64(i + 1), Title: fmt.Sprintf("Recipe %d", i+1)}
	}
	return out
}

func TestPaginationClamping(t *testing.T) {
	s := NewStore()
	s.SetUser(sessionFor("u1"), favoritesOf(13), nil)

	_, page, total := s.FavoritesPage()
	if total != 3 {
		t.Fatalf("Expected 3 pages for 13 favorites, got %d", total)
	}
	if page != 1 {
		t.Fatalf("Expected cursor at page 1, got %d", page)
	}

	// prev at page 1 is a no-op.
	s.PrevPage()
	if _, page, _ := s.FavoritesPage(); page != 1 {
		t.Errorf("PrevPage at page 1 must be a no-op, got page %d", page)
	}

	s.NextPage()
	s.NextPage()
	slice, page, _ := s.FavoritesPage()
	if page != 3 {
		t.Fatalf("Expected page 3, got %d", page)
	}
	if len(slice) != 1 {
		t.Errorf("Page 3 must hold exactly 1 item, got %d", len(slice))
	}

	// next at the last page is a no-op.
	s.NextPage()
	if _, page, _ := s.FavoritesPage(); page != 3 {
		t.Errorf("NextPage at the last page must be a no-op, got page %d", page)
	}

	// Shrinking favorites pulls the cursor back into range.
	for id := int64(8); id <= 13; id++ {
		s.RemoveFavorite("u1", id)
	}
	_, page, total = s.FavoritesPage()
	if total != 2 || page != 2 {
		t.Errorf("Expected cursor clamped to page 2 of 2, got page %d of %d", page, total)
	}
}

func TestGuardedMutatorsRequireMatchingUser(t *testing.T) {
	s := NewStore()
	rec := recipe.SeedPool()[0]

	// Anonymous: every commit is dropped.
	if s.AddFavorite("u1", rec) {
		t.Error("AddFavorite must be dropped while anonymous")
	}
	if s.SetMealPlan("u1", map[recipe.Day][]recipe.Recipe{recipe.Monday: {rec}}) {
		t.Error("SetMealPlan must be dropped while anonymous")
	}

	s.SetUser(sessionFor("u1"), nil, nil)
	if !s.AddFavorite("u1", rec) {
		t.Error("AddFavorite for the active user must apply")
	}
	if s.AddFavorite("u1", rec) {
		t.Error("Re-adding the same favorite must be dropped")
	}

	// A commit carrying a previous user's uid is stale and dropped.
	s.SetUser(sessionFor("u2"), nil, nil)
	if s.AddFavorite("u1", rec) {
		t.Error("Commit from a previous session must be dropped")
	}
	if s.FavoritesCount() != 0 {
		t.Errorf("u2 must start with no favorites, got %d", s.FavoritesCount())
	}
}

func TestClearUserDetachesMirrorsSynchronously(t *testing.T) {
	s := NewStore()
	s.SetUser(sessionFor("u1"), favoritesOf(2), map[recipe.Day][]recipe.Recipe{
		recipe.Monday: {recipe.SeedPool()[0]},
	})

	s.ClearUser()
	if s.Session() != nil {
		t.Error("Expected anonymous session")
	}
	if s.FavoritesCount() != 0 {
		t.Error("Favorites mirror must be empty after logout")
	}
	if len(s.MealPlan()) != 0 {
		t.Error("Meal plan mirror must be empty after logout")
	}
	if _, page, total := s.FavoritesPage(); page != 1 || total != 1 {
		t.Errorf("Cursor must reset, got page %d of %d", page, total)
	}
}
