// Package state owns the session-scoped view state: the displayed recipe
// pool, the current selection and its enrichment, the favorites mirror with
// its pagination cursor, and the meal plan mirror.
//
// All reads and writes go through one mutex, giving the single-logical-thread
// model: async resolution handlers commit through guarded mutators that
// re-validate relevance (selection token, session uid) before touching state.
package state

import (
	"strings"
	"sync"

	"recipes-lab/internal/auth"
	"recipes-lab/internal/recipe"
)

// FavoritesPerPage is the fixed favorites page size.
const FavoritesPerPage = 6

// Store is the mutable state bag shared by every handler.
type Store struct {
	mu sync.Mutex

	pool      []recipe.Recipe
	filter    string
	searching bool

	selected       *recipe.Recipe
	selectionToken int64
	detail         *recipe.Detail
	detailLoading  bool

	session   *auth.Session
	favorites []recipe.Recipe
	mealPlan  map[recipe.Day][]recipe.Recipe
	page      int
}

// NewStore returns a store in its cold-start state: seed pool displayed,
// anonymous session, page 1. No remote call is made.
func NewStore() *Store {
	return &Store{
		pool:     recipe.SeedPool(),
		mealPlan: make(map[recipe.Day][]recipe.Recipe),
		page:     1,
	}
}

// SetPool replaces the displayed pool wholesale.
func (s *Store) SetPool(pool []recipe.Recipe) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pool = pool
}

// SetSearching flips the search loading signal.
func (s *Store) SetSearching(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.searching = v
}

// Searching reports whether a search is in flight.
func (s *Store) Searching() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.searching
}

// SetFilter sets the client-side free-text filter. It never triggers a
// remote call.
func (s *Store) SetFilter(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filter = text
}

// Recipes returns the pool filtered by case-insensitive title substring.
func (s *Store) Recipes() []recipe.Recipe {
	s.mu.Lock()
	defer s.mu.Unlock()

	needle := strings.ToLower(s.filter)
	out := make([]recipe.Recipe, 0, len(s.pool))
	for _, r := range s.pool {
		if needle == "" || strings.Contains(strings.ToLower(r.Title), needle) {
			out = append(out, r)
		}
	}
	return out
}

// BeginSelection records a new selected recipe and returns the selection
// token the eventual detail resolution must present. Any in-flight fetch for
// a previous selection is implicitly invalidated.
func (s *Store) BeginSelection(r recipe.Recipe) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.selectionToken++
	rc := r
	s.selected = &rc
	s.detail = nil
	s.detailLoading = true
	return s.selectionToken
}

// ResolveDetail commits a detail fetch outcome (nil for absent). It reports
// false and leaves state untouched when the token no longer matches the
// current selection.
func (s *Store) ResolveDetail(token int64, d *recipe.Detail) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if token != s.selectionToken {
		return false
	}
	s.detail = d
	s.detailLoading = false
	return true
}

// ClearSelection closes the detail view and invalidates in-flight fetches.
func (s *Store) ClearSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.selectionToken++
	s.selected = nil
	s.detail = nil
	s.detailLoading = false
}

// Selection returns the selected recipe, its enrichment (nil while loading
// or absent) and the loading signal.
func (s *Store) Selection() (*recipe.Recipe, *recipe.Detail, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var r *recipe.Recipe
	if s.selected != nil {
		rc := *s.selected
		r = &rc
	}
	var d *recipe.Detail
	if s.detail != nil {
		dc := *s.detail
		d = &dc
	}
	return r, d, s.detailLoading
}

// Session returns the active session, or nil when anonymous.
func (s *Store) Session() *auth.Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session == nil {
		return nil
	}
	sc := *s.session
	return &sc
}

// SetUser installs a freshly loaded user mirror in one step, so no read ever
// observes a session without its favorites and plan.
func (s *Store) SetUser(session *auth.Session, favorites []recipe.Recipe, plan map[recipe.Day][]recipe.Recipe) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sc := *session
	s.session = &sc
	s.favorites = favorites
	if plan == nil {
		plan = make(map[recipe.Day][]recipe.Recipe)
	}
	s.mealPlan = plan
	s.page = 1
}

// ClearUser detaches the local mirror synchronously. Remote data is never
// touched here.
func (s *Store) ClearUser() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.session = nil
	s.favorites = nil
	s.mealPlan = make(map[recipe.Day][]recipe.Recipe)
	s.page = 1
}

// IsFavorite tests membership by recipe id against the local mirror.
func (s *Store) IsFavorite(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.indexOfFavorite(id) >= 0
}

func (s *Store) indexOfFavorite(id int64) int {
	for i, f := range s.favorites {
		if f.ID == id {
			return i
		}
	}
	return -1
}

// AddFavorite appends to the favorites mirror. The commit is dropped when
// the session no longer belongs to uid or the recipe is already present.
func (s *Store) AddFavorite(uid string, r recipe.Recipe) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session == nil || s.session.UID != uid {
		return false
	}
	if s.indexOfFavorite(r.ID) >= 0 {
		return false
	}
	s.favorites = append(s.favorites, r)
	s.clampPage()
	return true
}

// RemoveFavorite removes from the favorites mirror under the same guard.
func (s *Store) RemoveFavorite(uid string, id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session == nil || s.session.UID != uid {
		return false
	}
	i := s.indexOfFavorite(id)
	if i < 0 {
		return false
	}
	s.favorites = append(s.favorites[:i], s.favorites[i+1:]...)
	s.clampPage()
	return true
}

// SetMealPlan replaces the meal plan mirror wholesale with an authoritative
// reload, dropped when the session no longer belongs to uid.
func (s *Store) SetMealPlan(uid string, plan map[recipe.Day][]recipe.Recipe) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session == nil || s.session.UID != uid {
		return false
	}
	if plan == nil {
		plan = make(map[recipe.Day][]recipe.Recipe)
	}
	s.mealPlan = plan
	return true
}

// MealPlan returns a copy of the plan grouped by day.
func (s *Store) MealPlan() map[recipe.Day][]recipe.Recipe {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[recipe.Day][]recipe.Recipe, len(s.mealPlan))
	for day, recipes := range s.mealPlan {
		out[day] = append([]recipe.Recipe{}, recipes...)
	}
	return out
}

// FavoritesCount returns the size of the favorites mirror.
func (s *Store) FavoritesCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.favorites)
}

// FavoritesPage returns the current page slice with its cursor metadata.
func (s *Store) FavoritesPage() ([]recipe.Recipe, int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := s.totalPages()
	start := (s.page - 1) * FavoritesPerPage
	end := start + FavoritesPerPage
	if start > len(s.favorites) {
		start = len(s.favorites)
	}
	if end > len(s.favorites) {
		end = len(s.favorites)
	}
	return append([]recipe.Recipe{}, s.favorites[start:end]...), s.page, total
}

// NextPage moves the cursor forward; a no-op on the last page.
func (s *Store) NextPage() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.page < s.totalPages() {
		s.page++
	}
}

// PrevPage moves the cursor back; a no-op on page 1.
func (s *Store) PrevPage() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.page > 1 {
		s.page--
	}
}

func (s *Store) totalPages() int {
	pages := (len(s.favorites) + FavoritesPerPage - 1) / FavoritesPerPage
	if pages < 1 {
		pages = 1
	}
	return pages
}

func (s *Store) clampPage() {
	if s.page > s.totalPages() {
		s.page = s.totalPages()
	}
	if s.page < 1 {
		s.page = 1
	}
}
