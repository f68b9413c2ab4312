package userdata

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"recipes-lab/internal/recipe"
)

// Store is the SQLite-backed implementation of the persistence service.
// Recipes are persisted as JSON blobs per row; row positions preserve
// insertion order for pagination and per-day lists.
type Store struct {
	db *sql.DB
	sb sq.StatementBuilderType
}

var _ Service = (*Store)(nil)

// NewStore wires a Store onto an open database connection.
func NewStore(db *sql.DB) *Store {
	return &Store{
		db: db,
		sb: sq.StatementBuilder.PlaceholderFormat(sq.Question),
	}
}

// GetFavorites returns the user's favorites in add order.
func (s *Store) GetFavorites(ctx context.Context, uid string) ([]recipe.Recipe, error) {
	query, args, err := s.sb.
		Select("data").
		From("favorites").
		Where(sq.Eq{"uid": uid}).
		OrderBy("position ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build favorites query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query favorites: %w", err)
	}
	defer rows.Close()

	var favorites []recipe.Recipe
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("failed to scan favorite row: %w", err)
		}
		var rec recipe.Recipe
		if err := json.Unmarshal([]byte(data), &rec); err != nil {
			return nil, fmt.Errorf("failed to unmarshal favorite recipe: %w", err)
		}
		favorites = append(favorites, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("favorites rows iteration: %w", err)
	}
	return favorites, nil
}

// AddToFavorites stores a favorite. Re-adding an existing favorite is a
// no-op (membership is binary).
func (s *Store) AddToFavorites(ctx context.Context, uid string, rec recipe.Recipe) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal recipe: %w", err)
	}

	query, args, err := s.sb.
		Insert("favorites").
		Options("OR IGNORE").
		Columns("uid", "recipe_id", "data", "position", "created_at").
		Values(uid, rec.ID, string(data),
			sq.Expr("(SELECT COALESCE(MAX(position), 0) + 1 FROM favorites WHERE uid = ?)", uid),
			time.Now().UTC()).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build favorite insert: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to insert favorite: %w", err)
	}
	return nil
}

// RemoveFromFavorites deletes a favorite by recipe id.
func (s *Store) RemoveFromFavorites(ctx context.Context, uid string, recipeID int64) error {
	query, args, err := s.sb.
		Delete("favorites").
		Where(sq.Eq{"uid": uid, "recipe_id": recipeID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build favorite delete: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to delete favorite: %w", err)
	}
	return nil
}

// GetMealPlan returns the full plan, days mapped to recipes in add order.
// Days without entries are absent from the map.
func (s *Store) GetMealPlan(ctx context.Context, uid string) (map[recipe.Day][]recipe.Recipe, error) {
	query, args, err := s.sb.
		Select("day", "data").
		From("meal_plan_entries").
		Where(sq.Eq{"uid": uid}).
		OrderBy("day ASC", "position ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build meal plan query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query meal plan: %w", err)
	}
	defer rows.Close()

	plan := make(map[recipe.Day][]recipe.Recipe)
	for rows.Next() {
		var day, data string
		if err := rows.Scan(&day, &data); err != nil {
			return nil, fmt.Errorf("failed to scan meal plan row: %w", err)
		}
		var rec recipe.Recipe
		if err := json.Unmarshal([]byte(data), &rec); err != nil {
			return nil, fmt.Errorf("failed to unmarshal planned recipe: %w", err)
		}
		plan[recipe.Day(day)] = append(plan[recipe.Day(day)], rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("meal plan rows iteration: %w", err)
	}
	return plan, nil
}

// AddToMealPlan appends a recipe to the given day. The same recipe may
// appear on multiple days and multiple times on the same day.
func (s *Store) AddToMealPlan(ctx context.Context, uid string, day recipe.Day, rec recipe.Recipe) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal recipe: %w", err)
	}

	query, args, err := s.sb.
		Insert("meal_plan_entries").
		Columns("id", "uid", "day", "recipe_id", "data", "position", "created_at").
		Values(uuid.NewString(), uid, string(day), rec.ID, string(data),
			sq.Expr("(SELECT COALESCE(MAX(position), 0) + 1 FROM meal_plan_entries WHERE uid = ? AND day = ?)", uid, string(day)),
			time.Now().UTC()).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build meal plan insert: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to insert meal plan entry: %w", err)
	}
	return nil
}

// RemoveFromMealPlan removes the earliest entry for the recipe under the
// given day, leaving any later duplicates in place.
func (s *Store) RemoveFromMealPlan(ctx context.Context, uid string, day recipe.Day, recipeID int64) error {
	query, args, err := s.sb.
		Delete("meal_plan_entries").
		Where(sq.Expr(
			"id = (SELECT id FROM meal_plan_entries WHERE uid = ? AND day = ? AND recipe_id = ? ORDER BY position ASC LIMIT 1)",
			uid, string(day), recipeID)).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build meal plan delete: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to delete meal plan entry: %w", err)
	}
	return nil
}
