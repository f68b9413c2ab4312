// Package app composes the catalog fetcher, detail enricher, session manager
// and the per-user store behind the presentation boundary: write intents on
// one side, read models on the other. No error escapes to the presentation
// layer except the sign-in prompt sentinel.
package app

import (
	"context"
	"errors"
	"log"
	"sync"

	"recipes-lab/internal/auth"
	"recipes-lab/internal/catalog"
	"recipes-lab/internal/recipe"
	"recipes-lab/internal/session"
	"recipes-lab/internal/state"
	"recipes-lab/internal/userdata"
)

// ErrSignedOut is returned by mutation intents while anonymous. The
// presentation layer renders it as a login prompt; the operation is a no-op.
var ErrSignedOut = errors.New("please login to save recipes")

// App holds the application's dependencies and the shared view state.
type App struct {
	fetcher  *catalog.Fetcher
	client   catalog.Client
	users    userdata.Service
	provider auth.Provider
	state    *state.Store
	sessions *session.Manager

	// toggling serializes favorite toggles per recipe id: a second toggle
	// arriving while the first is pending is dropped, so the persistence
	// service never sees a double add or double remove.
	toggleMu sync.Mutex
	toggling map[int64]bool

	// planMu serializes meal-plan mutations, each of which ends in an
	// authoritative full reload. Without it, out-of-order reloads could
	// overwrite fresh state with stale data.
	planMu sync.Mutex
}

// New creates and wires an App instance. The pool starts as the seed set;
// no search is triggered until the user asks for one.
func New(client catalog.Client, users userdata.Service, provider auth.Provider) *App {
	st := state.NewStore()
	a := &App{
		fetcher:  catalog.NewFetcher(client),
		client:   client,
		users:    users,
		provider: provider,
		state:    st,
		sessions: session.NewManager(users, st),
		toggling: make(map[int64]bool),
	}
	a.sessions.Bind(provider)
	return a
}

// Search runs a fresh catalog search and replaces the pool. Degraded
// outcomes land on the seed pool inside the fetcher, so the pool is never
// left empty and no error reaches the caller.
func (a *App) Search(ctx context.Context) {
	a.state.SetSearching(true)
	pool := a.fetcher.Search(ctx)
	a.state.SetPool(pool)
	a.state.SetSearching(false)
}

// SetFilter applies the display-time free-text filter over the current pool.
func (a *App) SetFilter(text string) {
	a.state.SetFilter(text)
}

// Recipes returns the filtered pool.
func (a *App) Recipes() []recipe.Recipe {
	return a.state.Recipes()
}

// Searching reports whether a search is in flight.
func (a *App) Searching() bool {
	return a.state.Searching()
}

// Select marks a recipe as selected and fetches its full detail. If the user
// selects another recipe before this fetch resolves, the late response is
// discarded by the selection token; the detail shown always matches the
// current selection.
func (a *App) Select(ctx context.Context, r recipe.Recipe) {
	token := a.state.BeginSelection(r)

	res := a.client.Detail(ctx, r.ID)
	var detail *recipe.Detail
	if res.Status == catalog.StatusOK {
		detail = res.Detail
	} else {
		log.Printf("app: detail unavailable for recipe %d (%s), falling back to summary", r.ID, res.Status)
	}
	if !a.state.ResolveDetail(token, detail) {
		log.Printf("app: discarding stale detail for recipe %d", r.ID)
	}
}

// CloseDetail clears the selection and invalidates any in-flight detail.
func (a *App) CloseDetail() {
	a.state.ClearSelection()
}

// Selection returns the selected recipe, its detail (nil while loading or
// absent) and the loading signal.
func (a *App) Selection() (*recipe.Recipe, *recipe.Detail, bool) {
	return a.state.Selection()
}

// ToggleFavorite flips membership for the recipe. The remote mutation runs
// first; the local mirror changes only once the persistence service has
// confirmed, so a failed call is simply not applied and a repeated toggle
// always restores the prior membership. Toggles already pending for the same
// id are dropped.
func (a *App) ToggleFavorite(ctx context.Context, r recipe.Recipe) error {
	s := a.state.Session()
	if s == nil {
		return ErrSignedOut
	}

	if !a.beginToggle(r.ID) {
		return nil
	}
	defer a.endToggle(r.ID)

	if a.state.IsFavorite(r.ID) {
		if err := a.users.RemoveFromFavorites(ctx, s.UID, r.ID); err != nil {
			log.Printf("app: favorite removal for recipe %d not applied: %v", r.ID, err)
			return nil
		}
		a.state.RemoveFavorite(s.UID, r.ID)
	} else {
		if err := a.users.AddToFavorites(ctx, s.UID, r); err != nil {
			log.Printf("app: favorite add for recipe %d not applied: %v", r.ID, err)
			return nil
		}
		a.state.AddFavorite(s.UID, r)
	}
	return nil
}

func (a *App) beginToggle(id int64) bool {
	a.toggleMu.Lock()
	defer a.toggleMu.Unlock()
	if a.toggling[id] {
		return false
	}
	a.toggling[id] = true
	return true
}

func (a *App) endToggle(id int64) {
	a.toggleMu.Lock()
	defer a.toggleMu.Unlock()
	delete(a.toggling, id)
}

// IsFavorite tests membership against the local mirror.
func (a *App) IsFavorite(id int64) bool {
	return a.state.IsFavorite(id)
}

// Favorites returns the current favorites page and cursor metadata.
func (a *App) Favorites() ([]recipe.Recipe, int, int) {
	return a.state.FavoritesPage()
}

// FavoritesCount returns the size of the favorite set.
func (a *App) FavoritesCount() int {
	return a.state.FavoritesCount()
}

// NextPage advances the favorites cursor, clamped to the last page.
func (a *App) NextPage() { a.state.NextPage() }

// PrevPage moves the favorites cursor back, clamped to page 1.
func (a *App) PrevPage() { a.state.PrevPage() }

// ChooseDay appends the recipe to the chosen day and re-syncs the whole plan
// from the persistence service rather than trusting the local append. On
// success the day-selector flow ends, closing the selection.
func (a *App) ChooseDay(ctx context.Context, day recipe.Day, r recipe.Recipe) error {
	s := a.state.Session()
	if s == nil {
		return ErrSignedOut
	}

	a.planMu.Lock()
	defer a.planMu.Unlock()

	if err := a.users.AddToMealPlan(ctx, s.UID, day, r); err != nil {
		log.Printf("app: meal plan add for recipe %d not applied: %v", r.ID, err)
		return nil
	}
	a.reloadPlan(ctx, s.UID)
	a.state.ClearSelection()
	return nil
}

// RemoveFromDay removes one entry of the recipe under the day, then re-syncs
// the whole plan identically to ChooseDay.
func (a *App) RemoveFromDay(ctx context.Context, day recipe.Day, recipeID int64) error {
	s := a.state.Session()
	if s == nil {
		return ErrSignedOut
	}

	a.planMu.Lock()
	defer a.planMu.Unlock()

	if err := a.users.RemoveFromMealPlan(ctx, s.UID, day, recipeID); err != nil {
		log.Printf("app: meal plan removal for recipe %d not applied: %v", recipeID, err)
		return nil
	}
	a.reloadPlan(ctx, s.UID)
	return nil
}

// reloadPlan replaces the local plan with the authoritative remote copy.
// Callers hold planMu. A failed reload keeps the current mirror; a reload
// landing after the session changed is dropped by the state guard.
func (a *App) reloadPlan(ctx context.Context, uid string) {
	plan, err := a.users.GetMealPlan(ctx, uid)
	if err != nil {
		log.Printf("app: meal plan reload failed for %s: %v", uid, err)
		return
	}
	if !a.state.SetMealPlan(uid, plan) {
		log.Printf("app: discarding meal plan reload for signed-out user %s", uid)
	}
}

// MealPlan returns the plan grouped by day.
func (a *App) MealPlan() map[recipe.Day][]recipe.Recipe {
	return a.state.MealPlan()
}

// Session returns the active session summary, or nil when anonymous.
func (a *App) Session() *auth.Session {
	return a.state.Session()
}

// Login asks the auth provider to start a session. Provider failures are
// logged and leave the session in its prior state.
func (a *App) Login(ctx context.Context) error {
	if err := a.provider.Login(ctx); err != nil {
		log.Printf("app: login failed: %v", err)
		return err
	}
	return nil
}

// Logout asks the auth provider to end the session. The remote user data is
// never deleted; only the local mirror detaches.
func (a *App) Logout(ctx context.Context) error {
	if err := a.provider.Logout(ctx); err != nil {
		log.Printf("app: logout failed: %v", err)
		return err
	}
	return nil
}
